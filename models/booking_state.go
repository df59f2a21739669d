package models

import (
	"time"

	"frontoffice/constants"
	apperrors "frontoffice/errors"
)

// BookingState defines which actions a booking accepts in its current status.
// Methods mutate only the booking; room side effects belong to the caller's transaction.
type BookingState interface {
	CheckIn(b *Booking, at time.Time) error
	CheckOut(b *Booking, at time.Time) error
	Cancel(b *Booking, at time.Time) error
	Modify(b *Booking) error
	AcceptCharge(b *Booking) error
	AcceptPayment(b *Booking) error
}

// ConfirmedState booking đã xác nhận, phòng đang RESERVED
type ConfirmedState struct{}

func (s *ConfirmedState) CheckIn(b *Booking, at time.Time) error {
	b.Status = constants.BookingStatusCheckedIn
	b.CheckedInAt = &at
	return nil
}

func (s *ConfirmedState) CheckOut(b *Booking, _ time.Time) error {
	return apperrors.InvalidTransition(b.Status, "check out")
}

func (s *ConfirmedState) Cancel(b *Booking, at time.Time) error {
	b.Status = constants.BookingStatusCancelled
	b.CancelledAt = &at
	return nil
}

func (s *ConfirmedState) Modify(*Booking) error        { return nil }
func (s *ConfirmedState) AcceptCharge(*Booking) error  { return nil }
func (s *ConfirmedState) AcceptPayment(*Booking) error { return nil }

// CheckedInState khách đang ở, phòng OCCUPIED
type CheckedInState struct{}

func (s *CheckedInState) CheckIn(b *Booking, _ time.Time) error {
	return apperrors.InvalidTransition(b.Status, "check in")
}

func (s *CheckedInState) CheckOut(b *Booking, at time.Time) error {
	b.Status = constants.BookingStatusCheckedOut
	b.CheckedOutAt = &at
	return nil
}

func (s *CheckedInState) Cancel(b *Booking, _ time.Time) error {
	return apperrors.InvalidTransition(b.Status, "cancel")
}

func (s *CheckedInState) Modify(*Booking) error        { return nil }
func (s *CheckedInState) AcceptCharge(*Booking) error  { return nil }
func (s *CheckedInState) AcceptPayment(*Booking) error { return nil }

// CheckedOutState trạng thái kết thúc; folio chỉ còn nhận thanh toán
type CheckedOutState struct{}

func (s *CheckedOutState) CheckIn(b *Booking, _ time.Time) error {
	return apperrors.InvalidTransition(b.Status, "check in")
}

func (s *CheckedOutState) CheckOut(b *Booking, _ time.Time) error {
	return apperrors.InvalidTransition(b.Status, "check out")
}

func (s *CheckedOutState) Cancel(b *Booking, _ time.Time) error {
	return apperrors.InvalidTransition(b.Status, "cancel")
}

func (s *CheckedOutState) Modify(b *Booking) error {
	return apperrors.InvalidTransition(b.Status, "modify")
}

func (s *CheckedOutState) AcceptCharge(b *Booking) error {
	return apperrors.InvalidTransition(b.Status, "add a charge to")
}

func (s *CheckedOutState) AcceptPayment(*Booking) error { return nil }

// CancelledState trạng thái đã hủy; folio đóng hoàn toàn
type CancelledState struct{}

func (s *CancelledState) CheckIn(b *Booking, _ time.Time) error {
	return apperrors.InvalidTransition(b.Status, "check in")
}

func (s *CancelledState) CheckOut(b *Booking, _ time.Time) error {
	return apperrors.InvalidTransition(b.Status, "check out")
}

func (s *CancelledState) Cancel(b *Booking, _ time.Time) error {
	return apperrors.InvalidTransition(b.Status, "cancel")
}

func (s *CancelledState) Modify(b *Booking) error {
	return apperrors.InvalidTransition(b.Status, "modify")
}

func (s *CancelledState) AcceptCharge(b *Booking) error {
	return apperrors.InvalidTransition(b.Status, "add a charge to")
}

func (s *CancelledState) AcceptPayment(b *Booking) error {
	return apperrors.InvalidTransition(b.Status, "record a payment on")
}

// GetBookingState trả về state tương ứng với trạng thái booking.
// Trạng thái không xác định được coi như đã đóng.
func GetBookingState(status string) BookingState {
	switch status {
	case constants.BookingStatusConfirmed:
		return &ConfirmedState{}
	case constants.BookingStatusCheckedIn:
		return &CheckedInState{}
	case constants.BookingStatusCheckedOut:
		return &CheckedOutState{}
	default:
		return &CancelledState{}
	}
}
