package services

import (
	"context"
	"fmt"
	"time"

	"frontoffice/constants"
	"frontoffice/dto"
	apperrors "frontoffice/errors"
	"frontoffice/models"
	"frontoffice/services/logger"
	"frontoffice/validator"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const DefaultTaxCacheTTL = 5 * time.Minute

var hundred = decimal.NewFromInt(100)

// TaxProvider supplies the read-only tax configuration of a business.
type TaxProvider interface {
	Get(ctx context.Context, businessID uint) (models.TaxConfig, error)
}

type TaxServiceOptions struct {
	Tx       *Transactor
	Redis    *redis.Client
	CacheTTL time.Duration
	Auditor  *Auditor
	Logger   logger.Logger
}

// TaxService đọc cấu hình thuế từ DB, cache qua Redis nếu có.
// Lỗi Redis không làm hỏng request, khi đó đọc thẳng từ DB.
type TaxService struct {
	tx      *Transactor
	rdb     *redis.Client
	ttl     time.Duration
	auditor *Auditor
	logger  logger.Logger
}

func NewTaxService(opts TaxServiceOptions) *TaxService {
	if opts.Logger == nil {
		opts.Logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultTaxCacheTTL
	}
	return &TaxService{
		tx:      opts.Tx,
		rdb:     opts.Redis,
		ttl:     opts.CacheTTL,
		auditor: opts.Auditor,
		logger:  opts.Logger,
	}
}

func taxCacheKey(businessID uint) string {
	return fmt.Sprintf("frontoffice:tax:%d", businessID)
}

func (s *TaxService) Get(ctx context.Context, businessID uint) (models.TaxConfig, error) {
	key := taxCacheKey(businessID)
	if s.rdb != nil {
		var cached models.TaxConfig
		found, err := GetFromRedis(ctx, s.rdb, key, &cached)
		if err != nil {
			s.logger.Warn("tax cache read for business %d failed: %v", businessID, err)
		} else if found {
			return cached, nil
		}
	}

	cfg, err := s.load(ctx, businessID)
	if err != nil {
		return models.TaxConfig{}, err
	}
	if s.rdb != nil {
		if err := SetToRedis(ctx, s.rdb, key, cfg, s.ttl); err != nil {
			s.logger.Warn("tax cache write for business %d failed: %v", businessID, err)
		}
	}
	return cfg, nil
}

func (s *TaxService) load(ctx context.Context, businessID uint) (models.TaxConfig, error) {
	db := s.tx.DB(ctx)
	cfg := models.TaxConfig{RatesBySector: map[string]decimal.Decimal{}}

	var setting models.TaxSetting
	err := db.Where("business_id = ?", businessID).Limit(1).Find(&setting).Error
	if err != nil {
		return models.TaxConfig{}, apperrors.Database("failed to load tax setting", err)
	}
	cfg.Enabled = setting.ID != 0 && setting.Enabled

	var rates []models.TaxRate
	if err := db.Where("business_id = ?", businessID).Find(&rates).Error; err != nil {
		return models.TaxConfig{}, apperrors.Database("failed to load tax rates", err)
	}
	for _, r := range rates {
		cfg.RatesBySector[r.Sector] = r.Percentage.Div(hundred)
	}
	return cfg, nil
}

// Set thay toàn bộ cấu hình thuế của business; rates là phần trăm
func (s *TaxService) Set(ctx context.Context, actor models.Actor, req dto.TaxConfigRequest) error {
	if !actor.IsManager() && actor.Role != constants.RoleAccountant {
		return apperrors.ErrForbidden
	}
	for sector, pct := range req.RatesBySector {
		if err := validator.ValidateSector(sector); err != nil {
			return err
		}
		if pct.IsNegative() || pct.GreaterThanOrEqual(hundred) {
			return apperrors.Validation("tax rate for %s must be in [0, 100)", sector)
		}
	}

	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		setting := models.TaxSetting{BusinessID: actor.BusinessID, Enabled: req.Enabled}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "business_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"enabled", "updated_at"}),
		}).Create(&setting).Error; err != nil {
			return apperrors.Database("failed to save tax setting", err)
		}
		if err := tx.Where("business_id = ?", actor.BusinessID).Delete(&models.TaxRate{}).Error; err != nil {
			return apperrors.Database("failed to clear tax rates", err)
		}
		for sector, pct := range req.RatesBySector {
			rate := models.TaxRate{BusinessID: actor.BusinessID, Sector: sector, Percentage: pct.Round(2)}
			if err := tx.Create(&rate).Error; err != nil {
				return apperrors.Database("failed to save tax rate", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.rdb != nil {
		if err := DeleteFromRedis(ctx, s.rdb, taxCacheKey(actor.BusinessID)); err != nil {
			s.logger.Warn("tax cache invalidation for business %d failed: %v", actor.BusinessID, err)
		}
	}
	rates := make(map[string]interface{}, len(req.RatesBySector))
	for sector, pct := range req.RatesBySector {
		rates[sector] = pct.StringFixed(2)
	}
	s.auditor.Record(ctx, models.NewAuditEvent(actor, constants.AuditTaxConfigUpdated, "business", actor.BusinessID,
		map[string]interface{}{"enabled": req.Enabled, "rates": rates}))
	return nil
}
