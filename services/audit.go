package services

import (
	"context"
	"errors"

	"frontoffice/models"
	"frontoffice/services/logger"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// AuditSink receives audit events after the owning transaction has committed.
type AuditSink interface {
	Emit(ctx context.Context, e models.AuditEvent) error
}

// GormAuditSink ghi audit vào bảng audit_logs
type GormAuditSink struct {
	db *gorm.DB
}

func NewGormAuditSink(db *gorm.DB) *GormAuditSink {
	return &GormAuditSink{db: db}
}

func (s *GormAuditSink) Emit(ctx context.Context, e models.AuditEvent) error {
	entry := e.ToLog()
	return s.db.WithContext(ctx).Create(&entry).Error
}

// RedisStreamSink publishes events to a capped Redis stream for downstream consumers.
type RedisStreamSink struct {
	rdb    *redis.Client
	stream string
	maxLen int64
}

func NewRedisStreamSink(rdb *redis.Client, stream string) *RedisStreamSink {
	return &RedisStreamSink{rdb: rdb, stream: stream, maxLen: 100000}
}

func (s *RedisStreamSink) Emit(ctx context.Context, e models.AuditEvent) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"action":     e.Action,
			"businessId": e.BusinessID,
			"payload":    string(payload),
		},
	}).Err()
}

// MultiSink fans an event out to every sink and joins their errors.
type MultiSink []AuditSink

func (m MultiSink) Emit(ctx context.Context, e models.AuditEvent) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Emit(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Auditor swallows sink failures: they are logged and counted, never returned.
type Auditor struct {
	sink   AuditSink
	logger logger.Logger
}

func NewAuditor(sink AuditSink, log logger.Logger) *Auditor {
	if log == nil {
		log = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &Auditor{sink: sink, logger: log}
}

func (a *Auditor) Record(ctx context.Context, e models.AuditEvent) {
	if a == nil || a.sink == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			AuditFailures.Inc()
			a.logger.Warn("audit sink panicked on %s: %v", e.Action, r)
		}
	}()
	if err := a.sink.Emit(context.WithoutCancel(ctx), e); err != nil {
		AuditFailures.Inc()
		a.logger.Warn("audit %s for %s %d not written: %v", e.Action, e.EntityType, e.EntityID, err)
	}
}
