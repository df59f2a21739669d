package dto

import (
	"github.com/shopspring/decimal"
)

type CreateBookingRequest struct {
	RoomID     uint   `json:"roomId" binding:"required" validate:"required"`
	GuestName  string `json:"guestName" binding:"required,max=128" validate:"required,max=128"`
	GuestPhone string `json:"guestPhone,omitempty"`
	GuestEmail string `json:"guestEmail,omitempty" binding:"omitempty,email" validate:"omitempty,email"`
	CheckIn    string `json:"checkIn" binding:"required" validate:"required"`
	CheckOut   string `json:"checkOut" binding:"required" validate:"required"`
	Nights     int    `json:"nights"`
	// TotalAmount overrides pricePerNight x nights when set.
	TotalAmount        *decimal.Decimal `json:"totalAmount,omitempty"`
	PaymentMode        string           `json:"paymentMode,omitempty"`
	Source             string           `json:"source,omitempty"`
	Notes              string           `json:"notes,omitempty"`
	CheckInImmediately bool             `json:"checkInImmediately"`
	InitialPayment     *PaymentRequest  `json:"initialPayment,omitempty"`
}

type ChangeRoomRequest struct {
	RoomID uint `json:"roomId" binding:"required"`
}

type ExtendStayRequest struct {
	CheckOut string `json:"checkOut" binding:"required"`
}

type OverrideStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason" binding:"required,max=255"`
}

type BookingFilter struct {
	Status string `form:"status"`
	RoomID uint   `form:"roomId"`
	PageQuery
}

// CheckoutSummary là hóa đơn tóm tắt khi trả phòng
type CheckoutSummary struct {
	BookingID     uint            `json:"bookingId"`
	FolioNumber   string          `json:"folioNumber"`
	Status        string          `json:"status"`
	TotalCharges  decimal.Decimal `json:"totalCharges"`
	TotalPayments decimal.Decimal `json:"totalPayments"`
	Balance       decimal.Decimal `json:"balance"`
}
