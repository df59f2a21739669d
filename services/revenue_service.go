package services

import (
	"context"
	"time"

	"frontoffice/constants"
	"frontoffice/dto"
	apperrors "frontoffice/errors"
	"frontoffice/models"
	"frontoffice/services/logger"
	"frontoffice/validator"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	RevenueSourceBooking = "booking"
	RevenueSourceCharge  = "charge"
)

type RevenueServiceInterface interface {
	Report(ctx context.Context, actor models.Actor, from, to string) (*dto.RevenueReport, error)
	Snapshot(ctx context.Context, businessID uint, day time.Time) error
}

type RevenueServiceOptions struct {
	Tx     *Transactor
	Tax    TaxProvider
	Logger logger.Logger
}

// RevenueService tổng hợp doanh thu theo sector. It never writes booking or folio rows.
type RevenueService struct {
	tx     *Transactor
	tax    TaxProvider
	logger logger.Logger
}

func NewRevenueService(opts RevenueServiceOptions) *RevenueService {
	if opts.Logger == nil {
		opts.Logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &RevenueService{tx: opts.Tx, tax: opts.Tax, logger: opts.Logger}
}

// SplitInclusive splits a tax-inclusive gross: net = gross / (1 + rate), tax = gross - net.
// Net is rounded to cents so net + tax == gross exactly.
func SplitInclusive(gross, rate decimal.Decimal) (net, tax decimal.Decimal) {
	if !rate.IsPositive() {
		return gross, decimal.Zero
	}
	net = gross.DivRound(decimal.NewFromInt(1).Add(rate), 2)
	return net, gross.Sub(net)
}

// Report covers from..to inclusive (YYYY-MM-DD).
func (s *RevenueService) Report(ctx context.Context, actor models.Actor, from, to string) (*dto.RevenueReport, error) {
	start, err := validator.ParseDate("from", from)
	if err != nil {
		return nil, err
	}
	last, err := validator.ParseDate("to", to)
	if err != nil {
		return nil, err
	}
	if last.Before(start) {
		return nil, apperrors.Validation("to must not be before from")
	}
	return s.build(ctx, actor.BusinessID, start, last.AddDate(0, 0, 1))
}

// build aggregates [start, end).
func (s *RevenueService) build(ctx context.Context, businessID uint, start, end time.Time) (*dto.RevenueReport, error) {
	cfg := models.TaxConfig{}
	if s.tax != nil {
		var err error
		if cfg, err = s.tax.Get(ctx, businessID); err != nil {
			return nil, err
		}
	}

	db := s.tx.DB(ctx)
	var bookings []models.Booking
	if err := db.Where("business_id = ? AND status IN ? AND created_at >= ? AND created_at < ?",
		businessID,
		[]string{constants.BookingStatusConfirmed, constants.BookingStatusCheckedIn, constants.BookingStatusCheckedOut},
		start, end).
		Order("created_at ASC, id ASC").Find(&bookings).Error; err != nil {
		return nil, apperrors.Database("failed to load bookings for revenue", err)
	}

	cancelled := db.Model(&models.Booking{}).Select("id").
		Where("business_id = ? AND status = ?", businessID, constants.BookingStatusCancelled)
	var charges []models.FolioCharge
	if err := db.Where("business_id = ? AND kind = ? AND charge_date >= ? AND charge_date < ?",
		businessID, constants.ChargeKindOther, start, end).
		Where("(booking_id IS NULL OR booking_id NOT IN (?))", cancelled).
		Order("charge_date ASC, id ASC").Find(&charges).Error; err != nil {
		return nil, apperrors.Database("failed to load charges for revenue", err)
	}

	report := &dto.RevenueReport{
		BusinessID: businessID,
		From:       start.Format(validator.DateLayout),
		To:         end.AddDate(0, 0, -1).Format(validator.DateLayout),
		TaxEnabled: cfg.Enabled,
		Gross:      decimal.Zero,
		Net:        decimal.Zero,
		Tax:        decimal.Zero,
	}

	gross := map[string]decimal.Decimal{}
	count := map[string]int{}
	addLine := func(source string, id uint, sector string, at time.Time, amount decimal.Decimal) {
		net, tax := SplitInclusive(amount, cfg.RateFor(sector))
		report.Lines = append(report.Lines, dto.RevenueLine{
			Source:      source,
			ReferenceID: id,
			Sector:      sector,
			Date:        at.Format(validator.DateLayout),
			Gross:       amount,
			Net:         net,
			Tax:         tax,
		})
		gross[sector] = gross[sector].Add(amount)
		count[sector]++
	}
	for _, b := range bookings {
		addLine(RevenueSourceBooking, b.ID, constants.SectorRooms, b.CreatedAt, b.RoomAmount)
	}
	for _, c := range charges {
		addLine(RevenueSourceCharge, c.ID, c.Sector, c.ChargeDate, c.Amount)
	}

	for _, sector := range constants.Sectors {
		if count[sector] == 0 {
			continue
		}
		rate := cfg.RateFor(sector)
		net, tax := SplitInclusive(gross[sector], rate)
		report.Sectors = append(report.Sectors, dto.SectorRevenue{
			Sector:       sector,
			Rate:         rate,
			Gross:        gross[sector],
			Net:          net,
			Tax:          tax,
			Transactions: count[sector],
		})
		report.Gross = report.Gross.Add(gross[sector])
		report.Net = report.Net.Add(net)
		report.Tax = report.Tax.Add(tax)
	}
	return report, nil
}

// Snapshot ghi doanh thu một ngày vào daily_revenues, ghi đè nếu đã có
func (s *RevenueService) Snapshot(ctx context.Context, businessID uint, day time.Time) error {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	report, err := s.build(ctx, businessID, start, start.AddDate(0, 0, 1))
	if err != nil {
		return err
	}
	if len(report.Sectors) == 0 {
		return nil
	}

	return s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		for _, sr := range report.Sectors {
			row := models.DailyRevenue{
				BusinessID:   businessID,
				Date:         start,
				Sector:       sr.Sector,
				Gross:        sr.Gross,
				Net:          sr.Net,
				Tax:          sr.Tax,
				Transactions: sr.Transactions,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "business_id"}, {Name: "date"}, {Name: "sector"}},
				DoUpdates: clause.AssignmentColumns([]string{"gross", "net", "tax", "transactions", "updated_at"}),
			}).Create(&row).Error; err != nil {
				return apperrors.Database("failed to save daily revenue", err)
			}
		}
		return nil
	})
}

// SnapshotAll chạy Snapshot cho mọi business có phòng. Failures are logged per business.
func (s *RevenueService) SnapshotAll(ctx context.Context, day time.Time) (int, error) {
	var businessIDs []uint
	if err := s.tx.DB(ctx).Model(&models.Room{}).Distinct().Pluck("business_id", &businessIDs).Error; err != nil {
		return 0, apperrors.Database("failed to list businesses", err)
	}
	done := 0
	for _, id := range businessIDs {
		if err := s.Snapshot(ctx, id, day); err != nil {
			s.logger.Error("revenue snapshot for business %d on %s failed: %v", id, day.Format(validator.DateLayout), err)
			continue
		}
		done++
	}
	return done, nil
}

func (s *RevenueService) ListSnapshots(ctx context.Context, actor models.Actor, from, to string) ([]models.DailyRevenue, error) {
	start, err := validator.ParseDate("from", from)
	if err != nil {
		return nil, err
	}
	last, err := validator.ParseDate("to", to)
	if err != nil {
		return nil, err
	}
	var rows []models.DailyRevenue
	if err := s.tx.DB(ctx).Where("business_id = ? AND date >= ? AND date <= ?", actor.BusinessID, start, last).
		Order("date ASC, sector ASC").Find(&rows).Error; err != nil {
		return nil, apperrors.Database("failed to list daily revenue", err)
	}
	return rows, nil
}
