package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"frontoffice/constants"
	"frontoffice/dto"
	apperrors "frontoffice/errors"
	"frontoffice/models"
	"frontoffice/services/logger"
	"frontoffice/validator"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FolioServiceInterface interface {
	CreateChargeCategory(ctx context.Context, actor models.Actor, req dto.ChargeCategoryRequest) (*models.ChargeCategory, error)
	ListChargeCategories(ctx context.Context, actor models.Actor) ([]models.ChargeCategory, error)
	AddCharge(ctx context.Context, actor models.Actor, bookingID uint, req dto.ChargeRequest) (*models.FolioCharge, error)
	RecordStandaloneCharge(ctx context.Context, actor models.Actor, req dto.ChargeRequest) (*models.FolioCharge, error)
	AddPayment(ctx context.Context, actor models.Actor, bookingID uint, req dto.PaymentRequest) (*models.Payment, error)
	GetFolio(ctx context.Context, actor models.Actor, bookingID uint) (*dto.Folio, error)
}

type FolioServiceOptions struct {
	Tx      *Transactor
	Auditor *Auditor
	Logger  logger.Logger
	// OverpaymentTolerance is how far payments may exceed the folio total. Zero rejects any excess.
	OverpaymentTolerance decimal.Decimal
}

// FolioService là sổ cái của từng booking: phí và thanh toán
type FolioService struct {
	tx        *Transactor
	auditor   *Auditor
	logger    logger.Logger
	tolerance decimal.Decimal
}

func NewFolioService(opts FolioServiceOptions) *FolioService {
	if opts.Logger == nil {
		opts.Logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	if opts.OverpaymentTolerance.IsNegative() {
		opts.OverpaymentTolerance = decimal.Zero
	}
	return &FolioService{
		tx:        opts.Tx,
		auditor:   opts.Auditor,
		logger:    opts.Logger,
		tolerance: opts.OverpaymentTolerance,
	}
}

// lockBooking loads a booking of the actor's business and holds its row until commit.
func lockBooking(tx *gorm.DB, actor models.Actor, bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := forUpdate(tx).Where("id = ? AND business_id = ?", bookingID, actor.BusinessID).
		First(&booking).Error; err != nil {
		return nil, notFoundOr(err, "booking", bookingID)
	}
	return &booking, nil
}

func (s *FolioService) CreateChargeCategory(ctx context.Context, actor models.Actor, req dto.ChargeCategoryRequest) (*models.ChargeCategory, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	if err := validator.ValidateSector(req.Sector); err != nil {
		return nil, err
	}
	category := &models.ChargeCategory{
		BusinessID: actor.BusinessID,
		Name:       strings.TrimSpace(req.Name),
		Sector:     req.Sector,
	}
	if err := s.tx.DB(ctx).Create(category).Error; err != nil {
		return nil, apperrors.Database("failed to create charge category", err)
	}
	return category, nil
}

func (s *FolioService) ListChargeCategories(ctx context.Context, actor models.Actor) ([]models.ChargeCategory, error) {
	var categories []models.ChargeCategory
	if err := s.tx.DB(ctx).Where("business_id = ?", actor.BusinessID).
		Order("sector ASC, name ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Database("failed to list charge categories", err)
	}
	return categories, nil
}

// buildCharge validates a charge request and resolves its sector.
func buildCharge(tx *gorm.DB, actor models.Actor, req dto.ChargeRequest) (*models.FolioCharge, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	amount := req.Amount.Round(2)
	if err := validator.ValidateAmount("amount", amount); err != nil {
		return nil, err
	}
	if req.PaymentMethod != "" {
		if err := validator.ValidatePaymentMode(req.PaymentMethod); err != nil {
			return nil, err
		}
	}

	charge := &models.FolioCharge{
		BusinessID:    actor.BusinessID,
		BranchID:      actor.BranchID,
		Kind:          constants.ChargeKindOther,
		Sector:        req.Sector,
		Description:   req.Description,
		Amount:        amount,
		PaymentMethod: req.PaymentMethod,
		ChargeDate:    time.Now().UTC(),
		PostedBy:      actor.ActorID,
	}
	if req.Date != "" {
		date, err := validator.ParseDate("date", req.Date)
		if err != nil {
			return nil, err
		}
		charge.ChargeDate = date
	}

	if req.CategoryID != nil {
		var category models.ChargeCategory
		if err := tx.Where("id = ? AND business_id = ?", *req.CategoryID, actor.BusinessID).
			First(&category).Error; err != nil {
			return nil, notFoundOr(err, "charge category", *req.CategoryID)
		}
		charge.CategoryID = &category.ID
		charge.Sector = category.Sector
		if charge.Description == "" {
			charge.Description = category.Name
		}
	}
	if err := validator.ValidateSector(charge.Sector); err != nil {
		return nil, err
	}
	return charge, nil
}

// addChargeTx posts a ledger row and raises the booking amounts in the same transaction.
// It is the only code path that changes RoomAmount or TotalAmount upward.
func (s *FolioService) addChargeTx(tx *gorm.DB, booking *models.Booking, charge *models.FolioCharge) error {
	if err := booking.State().AcceptCharge(booking); err != nil {
		return err
	}
	charge.BookingID = &booking.ID
	charge.BusinessID = booking.BusinessID
	charge.BranchID = booking.BranchID
	if err := tx.Create(charge).Error; err != nil {
		return apperrors.Database("failed to post charge", err)
	}

	booking.TotalAmount = booking.TotalAmount.Add(charge.Amount)
	if charge.Kind == constants.ChargeKindRoom || charge.Kind == constants.ChargeKindExtension {
		booking.RoomAmount = booking.RoomAmount.Add(charge.Amount)
	}
	if err := tx.Model(booking).Updates(map[string]interface{}{
		"room_amount":  booking.RoomAmount,
		"total_amount": booking.TotalAmount,
	}).Error; err != nil {
		return apperrors.Database("failed to update folio total", err)
	}
	return nil
}

func (s *FolioService) AddCharge(ctx context.Context, actor models.Actor, bookingID uint, req dto.ChargeRequest) (*models.FolioCharge, error) {
	var charge *models.FolioCharge
	var total decimal.Decimal
	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		booking, err := lockBooking(tx, actor, bookingID)
		if err != nil {
			return err
		}
		if charge, err = buildCharge(tx, actor, req); err != nil {
			return err
		}
		if err := s.addChargeTx(tx, booking, charge); err != nil {
			return err
		}
		total = booking.TotalAmount
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.auditor.Record(ctx, models.NewAuditEvent(actor, constants.AuditChargeAdded, "booking", bookingID,
		map[string]interface{}{
			"chargeId":    charge.ID,
			"sector":      charge.Sector,
			"amount":      charge.Amount.StringFixed(2),
			"totalAmount": total.StringFixed(2),
		}))
	return charge, nil
}

// RecordStandaloneCharge ghi doanh thu không gắn với booking (bán lẻ tại quầy bar, nhà hàng...)
func (s *FolioService) RecordStandaloneCharge(ctx context.Context, actor models.Actor, req dto.ChargeRequest) (*models.FolioCharge, error) {
	if req.PaymentMethod == "" {
		return nil, apperrors.Validation("paymentMethod is required for a standalone charge")
	}
	var charge *models.FolioCharge
	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		if charge, err = buildCharge(tx, actor, req); err != nil {
			return err
		}
		if err := tx.Create(charge).Error; err != nil {
			return apperrors.Database("failed to record charge", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.auditor.Record(ctx, models.NewAuditEvent(actor, constants.AuditChargeAdded, "charge", charge.ID,
		map[string]interface{}{"sector": charge.Sector, "amount": charge.Amount.StringFixed(2)}))
	return charge, nil
}

func sumPayments(tx *gorm.DB, bookingID uint) (decimal.Decimal, error) {
	var payments []models.Payment
	if err := tx.Where("booking_id = ?", bookingID).Find(&payments).Error; err != nil {
		return decimal.Zero, apperrors.Database("failed to load payments", err)
	}
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	return paid, nil
}

// addPaymentTx appends a payment unless cumulative payments would pass the folio total.
// The caller must hold the booking row.
func (s *FolioService) addPaymentTx(tx *gorm.DB, actor models.Actor, booking *models.Booking, req dto.PaymentRequest) (*models.Payment, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	amount := req.Amount.Round(2)
	if err := validator.ValidateAmount("amount", amount); err != nil {
		return nil, err
	}
	if err := validator.ValidatePaymentMode(req.Mode); err != nil {
		return nil, err
	}
	if err := booking.State().AcceptPayment(booking); err != nil {
		return nil, err
	}

	paid, err := sumPayments(tx, booking.ID)
	if err != nil {
		return nil, err
	}
	after := paid.Add(amount)
	if after.GreaterThan(booking.TotalAmount.Add(s.tolerance)) {
		return nil, apperrors.Overpayment(after.StringFixed(2), booking.TotalAmount.StringFixed(2))
	}

	payment := &models.Payment{
		BusinessID:  booking.BusinessID,
		BookingID:   booking.ID,
		Amount:      amount,
		PaymentMode: req.Mode,
		Reference:   req.Reference,
		RecordedBy:  actor.ActorID,
	}
	if err := tx.Create(payment).Error; err != nil {
		return nil, apperrors.Database("failed to record payment", err)
	}
	return payment, nil
}

func (s *FolioService) AddPayment(ctx context.Context, actor models.Actor, bookingID uint, req dto.PaymentRequest) (*models.Payment, error) {
	var payment *models.Payment
	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		booking, err := lockBooking(tx, actor, bookingID)
		if err != nil {
			return err
		}
		payment, err = s.addPaymentTx(tx, actor, booking, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	PaymentsRecorded.WithLabelValues(payment.PaymentMode).Inc()
	s.auditor.Record(ctx, models.NewAuditEvent(actor, constants.AuditPaymentAdded, "booking", bookingID,
		map[string]interface{}{
			"paymentId":     payment.ID,
			"amount":        payment.Amount.StringFixed(2),
			"mode":          payment.PaymentMode,
			"receiptNumber": payment.ReceiptNumber,
		}))
	return payment, nil
}

// GetFolio trả về sổ cái theo thứ tự thời gian kèm số dư sau từng dòng
func (s *FolioService) GetFolio(ctx context.Context, actor models.Actor, bookingID uint) (*dto.Folio, error) {
	db := s.tx.DB(ctx)
	var booking models.Booking
	if err := db.Where("id = ? AND business_id = ?", bookingID, actor.BusinessID).First(&booking).Error; err != nil {
		return nil, notFoundOr(err, "booking", bookingID)
	}
	var charges []models.FolioCharge
	if err := db.Where("booking_id = ?", bookingID).Order("created_at ASC, id ASC").Find(&charges).Error; err != nil {
		return nil, apperrors.Database("failed to load charges", err)
	}
	var payments []models.Payment
	if err := db.Where("booking_id = ?", bookingID).Order("created_at ASC, id ASC").Find(&payments).Error; err != nil {
		return nil, apperrors.Database("failed to load payments", err)
	}
	return BuildFolio(&booking, charges, payments), nil
}

// BuildFolio merges charges and payments into one ledger. On equal timestamps charges come first.
func BuildFolio(booking *models.Booking, charges []models.FolioCharge, payments []models.Payment) *dto.Folio {
	entries := make([]dto.FolioEntry, 0, len(charges)+len(payments))
	for _, c := range charges {
		entries = append(entries, dto.FolioEntry{
			Type:        dto.FolioEntryCharge,
			ID:          c.ID,
			Kind:        c.Kind,
			Sector:      c.Sector,
			Description: c.Description,
			Amount:      c.Amount,
			At:          c.CreatedAt,
		})
	}
	for _, p := range payments {
		entries = append(entries, dto.FolioEntry{
			Type:    dto.FolioEntryPayment,
			ID:      p.ID,
			Mode:    p.PaymentMode,
			Receipt: p.ReceiptNumber,
			Amount:  p.Amount,
			At:      p.CreatedAt,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].At.Equal(entries[j].At) {
			return entries[i].At.Before(entries[j].At)
		}
		return entries[i].Type == dto.FolioEntryCharge && entries[j].Type == dto.FolioEntryPayment
	})

	balance := decimal.Zero
	paid := decimal.Zero
	for i := range entries {
		if entries[i].Type == dto.FolioEntryCharge {
			balance = balance.Add(entries[i].Amount)
		} else {
			balance = balance.Sub(entries[i].Amount)
			paid = paid.Add(entries[i].Amount)
		}
		entries[i].Balance = balance
	}

	state := booking.State()
	return &dto.Folio{
		BookingID:     booking.ID,
		FolioNumber:   booking.FolioNumber,
		Status:        booking.Status,
		Open:          state.AcceptCharge(booking) == nil,
		RoomAmount:    booking.RoomAmount,
		TotalAmount:   booking.TotalAmount,
		TotalPayments: paid,
		Balance:       booking.TotalAmount.Sub(paid),
		Entries:       entries,
	}
}
