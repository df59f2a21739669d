package services

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "frontoffice/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const DefaultTxTimeout = 5 * time.Second

// Transactor is the single transactional boundary for every mutating operation.
type Transactor struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewTransactor(db *gorm.DB, timeout time.Duration) *Transactor {
	if timeout <= 0 {
		timeout = DefaultTxTimeout
	}
	return &Transactor{db: db, timeout: timeout}
}

func (t *Transactor) DB(ctx context.Context) *gorm.DB {
	return t.db.WithContext(ctx)
}

// WithinTransaction runs fn in one transaction bounded by the configured timeout.
// Any error rolls everything back; untyped errors come out as DB_ERROR.
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	err := t.db.WithContext(ctx).Transaction(fn)
	if err == nil {
		return nil
	}
	if apperrors.IsAppError(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Database("transaction timed out", err)
	}
	return apperrors.Database("transaction failed", err)
}

// forUpdate adds SELECT ... FOR UPDATE where the dialect supports it.
// SQLite serializes writers on its own.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector != nil && tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func notFoundOr(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(entity, id)
	}
	return apperrors.Database("failed to load "+entity, err)
}

// isDuplicateKey nhận diện lỗi vi phạm unique index của postgres và sqlite.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "sqlstate 23505")
}
