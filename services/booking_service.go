package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"frontoffice/builders"
	"frontoffice/constants"
	"frontoffice/dto"
	apperrors "frontoffice/errors"
	"frontoffice/models"
	"frontoffice/services/logger"
	"frontoffice/validator"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BookingServiceInterface interface {
	CreateBooking(ctx context.Context, actor models.Actor, req dto.CreateBookingRequest) (*models.Booking, error)
	CheckIn(ctx context.Context, actor models.Actor, bookingID uint) (*models.Booking, error)
	CheckOut(ctx context.Context, actor models.Actor, bookingID uint) (*dto.CheckoutSummary, error)
	Cancel(ctx context.Context, actor models.Actor, bookingID uint) (*models.Booking, error)
	ChangeRoom(ctx context.Context, actor models.Actor, bookingID, newRoomID uint) (*models.Booking, error)
	ExtendStay(ctx context.Context, actor models.Actor, bookingID uint, newCheckOut string) (*models.Booking, error)
	OverrideStatus(ctx context.Context, actor models.Actor, bookingID uint, status, reason string) (*models.Booking, error)
	GetBooking(ctx context.Context, actor models.Actor, bookingID uint) (*models.Booking, error)
	ListBookings(ctx context.Context, actor models.Actor, filter dto.BookingFilter) ([]models.Booking, int64, error)
}

type BookingServiceOptions struct {
	Tx      *Transactor
	Folio   *FolioService
	Auditor *Auditor
	Logger  logger.Logger
}

// BookingService is the booking state machine. Every transition runs in one transaction
// spanning the booking, its room and its folio; room status is only ever written here
// as a consequence of the booking status.
type BookingService struct {
	tx      *Transactor
	folio   *FolioService
	auditor *Auditor
	logger  logger.Logger
}

func NewBookingService(opts BookingServiceOptions) *BookingService {
	if opts.Logger == nil {
		opts.Logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	if opts.Folio == nil {
		opts.Folio = NewFolioService(FolioServiceOptions{Tx: opts.Tx, Auditor: opts.Auditor, Logger: opts.Logger})
	}
	return &BookingService{
		tx:      opts.Tx,
		folio:   opts.Folio,
		auditor: opts.Auditor,
		logger:  opts.Logger,
	}
}

// roomStatusFor is the room projection of an active booking status.
func roomStatusFor(bookingStatus string) string {
	if bookingStatus == constants.BookingStatusCheckedIn {
		return constants.RoomStatusOccupied
	}
	return constants.RoomStatusReserved
}

// claimRoom flips a room from one of the given statuses to target.
// Zero affected rows means another transaction got there first.
func claimRoom(tx *gorm.DB, roomID uint, target string, from ...string) error {
	res := tx.Model(&models.Room{}).
		Where("id = ? AND status IN ?", roomID, from).
		Update("status", target)
	if res.Error != nil {
		return apperrors.Database("failed to update room status", res.Error)
	}
	if res.RowsAffected == 0 {
		var room models.Room
		if err := tx.Select("id", "status").First(&room, roomID).Error; err != nil {
			return notFoundOr(err, "room", roomID)
		}
		RoomClaimConflicts.Inc()
		return apperrors.RoomNotAvailable(room.ID, room.Status)
	}
	return nil
}

func releaseRoom(tx *gorm.DB, roomID uint) error {
	if err := tx.Model(&models.Room{}).Where("id = ?", roomID).
		Update("status", constants.RoomStatusVacant).Error; err != nil {
		return apperrors.Database("failed to release room", err)
	}
	return nil
}

func lockRoom(tx *gorm.DB, actor models.Actor, roomID uint) (*models.Room, error) {
	var room models.Room
	if err := forUpdate(tx).Where("id = ? AND business_id = ?", roomID, actor.BusinessID).
		First(&room).Error; err != nil {
		return nil, notFoundOr(err, "room", roomID)
	}
	return &room, nil
}

func roomRate(tx *gorm.DB, room *models.Room) (decimal.Decimal, error) {
	var category models.RoomCategory
	if err := tx.Where("id = ? AND business_id = ?", room.CategoryID, room.BusinessID).
		First(&category).Error; err != nil {
		return decimal.Zero, notFoundOr(err, "room category", room.CategoryID)
	}
	return category.PricePerNight, nil
}

func validateCreateBooking(req dto.CreateBookingRequest) (validator.Stay, error) {
	if err := validator.Struct(req); err != nil {
		return validator.Stay{}, err
	}
	stay, err := validator.NormalizeStay(req.CheckIn, req.CheckOut, req.Nights)
	if err != nil {
		return validator.Stay{}, err
	}
	if req.GuestPhone != "" {
		if err := validator.ValidatePhone(req.GuestPhone); err != nil {
			return validator.Stay{}, err
		}
	}
	if req.PaymentMode != "" {
		if err := validator.ValidatePaymentMode(req.PaymentMode); err != nil {
			return validator.Stay{}, err
		}
	}
	switch req.Source {
	case "", constants.BookingSourceWalkIn, constants.BookingSourceOnline:
	default:
		return validator.Stay{}, apperrors.Validation("unknown booking source %q", req.Source)
	}
	if req.TotalAmount != nil {
		if err := validator.ValidateNonNegative("totalAmount", req.TotalAmount.Round(2)); err != nil {
			return validator.Stay{}, err
		}
	}
	return stay, nil
}

func (s *BookingService) CreateBooking(ctx context.Context, actor models.Actor, req dto.CreateBookingRequest) (*models.Booking, error) {
	stay, err := validateCreateBooking(req)
	if err != nil {
		observeTransition("create", err)
		return nil, err
	}
	if stay.Adjusted {
		s.logger.Warn("booking for room %d: nights=%d disagrees with %s..%s, using %d",
			req.RoomID, req.Nights, req.CheckIn, req.CheckOut, stay.Nights)
	}

	status := constants.BookingStatusConfirmed
	if req.CheckInImmediately {
		status = constants.BookingStatusCheckedIn
	}

	var (
		booking *models.Booking
		payment *models.Payment
		room    *models.Room
	)
	err = s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		if room, err = lockRoom(tx, actor, req.RoomID); err != nil {
			return err
		}
		if room.Status != constants.RoomStatusVacant {
			RoomClaimConflicts.Inc()
			return apperrors.RoomNotAvailable(room.ID, room.Status)
		}
		rate, err := roomRate(tx, room)
		if err != nil {
			return err
		}
		if err := claimRoom(tx, room.ID, roomStatusFor(status), constants.RoomStatusVacant); err != nil {
			return err
		}
		room.Status = roomStatusFor(status)

		roomAmount := rate.Mul(decimal.NewFromInt(int64(stay.Nights))).Round(2)
		if req.TotalAmount != nil {
			roomAmount = req.TotalAmount.Round(2)
		}

		booking = builders.NewBookingBuilder().
			ForActor(actor).
			WithRoom(room.ID).
			WithGuestInfo(req.GuestName, req.GuestPhone, req.GuestEmail).
			WithStay(stay.CheckIn, stay.CheckOut, stay.Nights).
			WithRate(rate).
			WithPaymentMode(req.PaymentMode).
			WithSource(req.Source).
			WithNotes(req.Notes).
			WithStatus(status).
			Build()
		booking.BranchID = room.BranchID
		if req.CheckInImmediately {
			now := time.Now()
			booking.CheckedInAt = &now
		}
		if err := tx.Create(booking).Error; err != nil {
			return apperrors.Database("failed to create booking", err)
		}

		if roomAmount.IsPositive() {
			charge := &models.FolioCharge{
				Kind:        constants.ChargeKindRoom,
				Sector:      constants.SectorRooms,
				Description: fmt.Sprintf("Room %s, %d night(s)", room.RoomNumber, stay.Nights),
				Amount:      roomAmount,
				ChargeDate:  time.Now().UTC(),
				PostedBy:    actor.ActorID,
			}
			if err := s.folio.addChargeTx(tx, booking, charge); err != nil {
				return err
			}
		}

		if req.InitialPayment != nil {
			if payment, err = s.folio.addPaymentTx(tx, actor, booking, *req.InitialPayment); err != nil {
				return err
			}
		}
		return nil
	})
	observeTransition("create", err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking %d (%s) created on room %s, status %s, room amount %s",
		booking.ID, booking.FolioNumber, room.RoomNumber, booking.Status, booking.RoomAmount.StringFixed(2))
	s.auditor.Record(ctx, models.NewAuditEvent(actor, constants.AuditBookingCreated, "booking", booking.ID,
		map[string]interface{}{
			"roomId":      booking.RoomID,
			"roomStatus":  room.Status,
			"status":      booking.Status,
			"folioNumber": booking.FolioNumber,
			"nights":      booking.Nights,
			"roomAmount":  booking.RoomAmount.StringFixed(2),
		}))
	if booking.Status == constants.BookingStatusCheckedIn {
		s.auditor.Record(ctx, models.NewAuditEvent(actor, constants.AuditBookingCheckedIn, "booking", booking.ID,
			map[string]interface{}{"roomId": booking.RoomID, "immediate": true}))
	}
	if payment != nil {
		PaymentsRecorded.WithLabelValues(payment.PaymentMode).Inc()
		s.auditor.Record(ctx, models.NewAuditEvent(actor, constants.AuditPaymentAdded, "booking", booking.ID,
			map[string]interface{}{
				"paymentId":     payment.ID,
				"amount":        payment.Amount.StringFixed(2),
				"mode":          payment.PaymentMode,
				"receiptNumber": payment.ReceiptNumber,
			}))
	}
	return booking, nil
}

func (s *BookingService) CheckIn(ctx context.Context, actor models.Actor, bookingID uint) (*models.Booking, error) {
	var booking *models.Booking
	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		if booking, err = lockBooking(tx, actor, bookingID); err != nil {
			return err
		}
		if err := booking.State().CheckIn(booking, time.Now()); err != nil {
			return err
		}
		if err := claimRoom(tx, booking.RoomID, constants.RoomStatusOccupied,
			constants.RoomStatusReserved, constants.RoomStatusVacant); err != nil {
			return err
		}
		return saveTransition(tx, booking, "checked_in_at", booking.CheckedInAt)
	})
	observeTransition("check_in", err)
	if err != nil {
		return nil, err
	}
	s.auditor.Record(ctx, models.NewAuditEvent(actor, constants.AuditBookingCheckedIn, "booking", booking.ID,
		map[string]interface{}{"roomId": booking.RoomID, "roomStatus": constants.RoomStatusOccupied}))
	return booking, nil
}

func saveTransition(tx *gorm.DB, booking *models.Booking, stampColumn string, stamp *time.Time) error {
	if err := tx.Model(booking).Updates(map[string]interface{}{
		"status":    booking.Status,
		stampColumn: stamp,
	}).Error; err != nil {
		return apperrors.Database("failed to save booking status", err)
	}
	return nil
}

// CheckOut giải phóng phòng và trả về tóm tắt folio. A second checkout fails.
func (s *BookingService) CheckOut(ctx context.Context, actor models.Actor, bookingID uint) (*dto.CheckoutSummary, error) {
	var (
		booking *models.Booking
		paid    decimal.Decimal
	)
	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		if booking, err = lockBooking(tx, actor, bookingID); err != nil {
			return err
		}
		if err := booking.State().CheckOut(booking, time.Now()); err != nil {
			return err
		}
		if err := releaseRoom(tx, booking.RoomID); err != nil {
			return err
		}
		if err := saveTransition(tx, booking, "checked_out_at", booking.CheckedOutAt); err != nil {
			return err
		}
		paid, err = sumPayments(tx, booking.ID)
		return err
	})
	observeTransition("check_out", err)
	if err != nil {
		return nil, err
	}

	summary := &dto.CheckoutSummary{
		BookingID:     booking.ID,
		FolioNumber:   booking.FolioNumber,
		Status:        booking.Status,
		TotalCharges:  booking.TotalAmount,
		TotalPayments: paid,
		Balance:       booking.TotalAmount.Sub(paid),
	}
	if summary.Balance.IsPositive() {
		s.logger.Warn("booking %d checked out with outstanding balance %s", booking.ID, summary.Balance.StringFixed(2))
	}
	s.auditor.Record(ctx, models.NewAuditEvent(actor, constants.AuditBookingCheckedOut, "booking", booking.ID,
		map[string]interface{}{
			"roomId":     booking.RoomID,
			"roomStatus": constants.RoomStatusVacant,
			"balance":    summary.Balance.StringFixed(2),
		}))
	return summary, nil
}

// Cancel chỉ hợp lệ trước khi nhận phòng. Amounts stay frozen.
func (s *BookingService) Cancel(ctx context.Context, actor models.Actor, bookingID uint) (*models.Booking, error) {
	var booking *models.Booking
	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		if booking, err = lockBooking(tx, actor, bookingID); err != nil {
			return err
		}
		if err := booking.State().Cancel(booking, time.Now()); err != nil {
			return err
		}
		if err := releaseRoom(tx, booking.RoomID); err != nil {
			return err
		}
		return saveTransition(tx, booking, "cancelled_at", booking.CancelledAt)
	})
	observeTransition("cancel", err)
	if err != nil {
		return nil, err
	}
	s.auditor.Record(ctx, models.NewAuditEvent(actor, constants.AuditBookingCancelled, "booking", booking.ID,
		map[string]interface{}{"roomId": booking.RoomID, "roomStatus": constants.RoomStatusVacant}))
	return booking, nil
}

// ChangeRoom moves an active booking to a vacant room of the same business.
// Both rooms are locked in id order.
func (s *BookingService) ChangeRoom(ctx context.Context, actor models.Actor, bookingID, newRoomID uint) (*models.Booking, error) {
	var (
		booking   *models.Booking
		oldRoomID uint
		target    string
	)
	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		if booking, err = lockBooking(tx, actor, bookingID); err != nil {
			return err
		}
		if err := booking.State().Modify(booking); err != nil {
			return err
		}
		if booking.RoomID == newRoomID {
			return apperrors.Validation("booking %d is already in room %d", booking.ID, newRoomID)
		}
		oldRoomID = booking.RoomID

		ids := []uint{oldRoomID, newRoomID}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		rooms := make(map[uint]*models.Room, 2)
		for _, id := range ids {
			room, err := lockRoom(tx, actor, id)
			if err != nil {
				return err
			}
			rooms[id] = room
		}
		if next := rooms[newRoomID]; next.Status != constants.RoomStatusVacant {
			RoomClaimConflicts.Inc()
			return apperrors.RoomNotAvailable(next.ID, next.Status)
		}

		target = roomStatusFor(booking.Status)
		if err := claimRoom(tx, newRoomID, target, constants.RoomStatusVacant); err != nil {
			return err
		}
		if err := releaseRoom(tx, oldRoomID); err != nil {
			return err
		}
		booking.RoomID = newRoomID
		booking.BranchID = rooms[newRoomID].BranchID
		if err := tx.Model(booking).Updates(map[string]interface{}{
			"room_id":   booking.RoomID,
			"branch_id": booking.BranchID,
		}).Error; err != nil {
			return apperrors.Database("failed to move booking", err)
		}
		return nil
	})
	observeTransition("change_room", err)
	if err != nil {
		return nil, err
	}
	s.auditor.Record(ctx, models.NewAuditEvent(actor, constants.AuditBookingRoomChanged, "booking", booking.ID,
		map[string]interface{}{"fromRoomId": oldRoomID, "toRoomId": newRoomID, "roomStatus": target}))
	return booking, nil
}

// ExtendStay moves checkOut later and charges the extra nights at the current room's rate.
func (s *BookingService) ExtendStay(ctx context.Context, actor models.Actor, bookingID uint, newCheckOut string) (*models.Booking, error) {
	checkOut, err := validator.ParseDate("checkOut", newCheckOut)
	if err != nil {
		observeTransition("extend", err)
		return nil, err
	}

	var (
		booking *models.Booking
		extra   int
		charged decimal.Decimal
	)
	err = s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		if booking, err = lockBooking(tx, actor, bookingID); err != nil {
			return err
		}
		if err := booking.State().Modify(booking); err != nil {
			return err
		}
		if !checkOut.After(booking.CheckOut) {
			return apperrors.Validation("new checkOut %s must be after current checkOut %s",
				checkOut.Format(validator.DateLayout), booking.CheckOut.Format(validator.DateLayout))
		}
		var room models.Room
		if err := tx.First(&room, booking.RoomID).Error; err != nil {
			return notFoundOr(err, "room", booking.RoomID)
		}
		rate, err := roomRate(tx, &room)
		if err != nil {
			return err
		}

		extra = validator.NightsBetween(booking.CheckOut, checkOut)
		booking.CheckOut = checkOut
		booking.Nights += extra
		if err := tx.Model(booking).Updates(map[string]interface{}{
			"check_out": booking.CheckOut,
			"nights":    booking.Nights,
		}).Error; err != nil {
			return apperrors.Database("failed to extend booking", err)
		}

		charged = rate.Mul(decimal.NewFromInt(int64(extra))).Round(2)
		if !charged.IsPositive() {
			return nil
		}
		return s.folio.addChargeTx(tx, booking, &models.FolioCharge{
			Kind:        constants.ChargeKindExtension,
			Sector:      constants.SectorRooms,
			Description: fmt.Sprintf("Stay extended by %d night(s) in room %s", extra, room.RoomNumber),
			Amount:      charged,
			ChargeDate:  time.Now().UTC(),
			PostedBy:    actor.ActorID,
		})
	})
	observeTransition("extend", err)
	if err != nil {
		return nil, err
	}
	s.auditor.Record(ctx, models.NewAuditEvent(actor, constants.AuditBookingStayExtended, "booking", booking.ID,
		map[string]interface{}{
			"checkOut":    booking.CheckOut.Format(validator.DateLayout),
			"extraNights": extra,
			"charged":     charged.StringFixed(2),
		}))
	return booking, nil
}

// OverrideStatus forces booking.status for data repair. The room is left untouched and
// the operator is responsible for fixing it. Managers only.
func (s *BookingService) OverrideStatus(ctx context.Context, actor models.Actor, bookingID uint, status, reason string) (*models.Booking, error) {
	if !actor.IsManager() {
		return nil, apperrors.ErrForbidden
	}
	switch status {
	case constants.BookingStatusConfirmed, constants.BookingStatusCheckedIn,
		constants.BookingStatusCheckedOut, constants.BookingStatusCancelled:
	default:
		return nil, apperrors.Validation("unknown booking status %q", status)
	}
	if reason == "" {
		return nil, apperrors.Validation("reason is required for a status override")
	}

	var (
		booking  *models.Booking
		previous string
	)
	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		if booking, err = lockBooking(tx, actor, bookingID); err != nil {
			return err
		}
		previous = booking.Status
		booking.Status = status
		if err := tx.Model(booking).Update("status", status).Error; err != nil {
			return apperrors.Database("failed to override booking status", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Warn("booking %d status overridden %s -> %s by actor %d: %s", booking.ID, previous, status, actor.ActorID, reason)
	s.auditor.Record(ctx, models.NewAuditEvent(actor, constants.AuditBookingStatusOverride, "booking", booking.ID,
		map[string]interface{}{"from": previous, "to": status, "reason": reason, "roomId": booking.RoomID}))
	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, actor models.Actor, bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.tx.DB(ctx).Where("id = ? AND business_id = ?", bookingID, actor.BusinessID).
		First(&booking).Error; err != nil {
		return nil, notFoundOr(err, "booking", bookingID)
	}
	return &booking, nil
}

func (s *BookingService) ListBookings(ctx context.Context, actor models.Actor, filter dto.BookingFilter) ([]models.Booking, int64, error) {
	query := s.tx.DB(ctx).Model(&models.Booking{}).Where("business_id = ?", actor.BusinessID)
	if actor.BranchID != 0 {
		query = query.Where("branch_id = ?", actor.BranchID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.RoomID != 0 {
		query = query.Where("room_id = ?", filter.RoomID)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Database("failed to count bookings", err)
	}
	page, limit := filter.Normalize()
	var bookings []models.Booking
	if err := query.Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&bookings).Error; err != nil {
		return nil, 0, apperrors.Database("failed to list bookings", err)
	}
	return bookings, total, nil
}
