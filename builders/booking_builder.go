package builders

import (
	"time"

	"frontoffice/constants"
	"frontoffice/models"

	"github.com/shopspring/decimal"
)

// BookingBuilder giúp tạo booking theo từng bước
type BookingBuilder struct {
	booking *models.Booking
}

// NewBookingBuilder tạo instance mới của BookingBuilder
func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		booking: &models.Booking{
			Status:      constants.BookingStatusConfirmed,
			Source:      constants.BookingSourceWalkIn,
			RoomAmount:  decimal.Zero,
			TotalAmount: decimal.Zero,
		},
	}
}

// ForActor gán business, branch và người tạo
func (b *BookingBuilder) ForActor(actor models.Actor) *BookingBuilder {
	b.booking.BusinessID = actor.BusinessID
	b.booking.BranchID = actor.BranchID
	b.booking.CreatedBy = actor.ActorID
	return b
}

// WithRoom thêm thông tin phòng
func (b *BookingBuilder) WithRoom(roomID uint) *BookingBuilder {
	b.booking.RoomID = roomID
	return b
}

// WithGuestInfo thêm thông tin khách
func (b *BookingBuilder) WithGuestInfo(name, phone, email string) *BookingBuilder {
	b.booking.GuestName = name
	b.booking.GuestPhone = phone
	b.booking.GuestEmail = email
	return b
}

// WithStay thêm ngày nhận/trả phòng và số đêm
func (b *BookingBuilder) WithStay(checkIn, checkOut time.Time, nights int) *BookingBuilder {
	b.booking.CheckIn = checkIn
	b.booking.CheckOut = checkOut
	b.booking.Nights = nights
	return b
}

// WithRate khóa giá mỗi đêm tại thời điểm đặt phòng.
// Số tiền bắt đầu từ 0 và chỉ tăng qua các khoản phí trong folio.
func (b *BookingBuilder) WithRate(rate decimal.Decimal) *BookingBuilder {
	b.booking.RatePerNight = rate
	return b
}

func (b *BookingBuilder) WithPaymentMode(mode string) *BookingBuilder {
	b.booking.PaymentMode = mode
	return b
}

func (b *BookingBuilder) WithSource(source string) *BookingBuilder {
	if source != "" {
		b.booking.Source = source
	}
	return b
}

func (b *BookingBuilder) WithNotes(notes string) *BookingBuilder {
	b.booking.Notes = notes
	return b
}

// WithStatus thêm trạng thái
func (b *BookingBuilder) WithStatus(status string) *BookingBuilder {
	b.booking.Status = status
	return b
}

// Build tạo booking hoàn chỉnh
func (b *BookingBuilder) Build() *models.Booking {
	return b.booking
}
