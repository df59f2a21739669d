package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type ChargeCategoryRequest struct {
	Name   string `json:"name" binding:"required,max=64" validate:"required,max=64"`
	Sector string `json:"sector" binding:"required" validate:"required"`
}

// ChargeRequest ghi một khoản phí; Sector lấy từ category khi CategoryID có giá trị
type ChargeRequest struct {
	CategoryID    *uint           `json:"categoryId,omitempty"`
	Sector        string          `json:"sector,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description" validate:"max=255"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	Date          string          `json:"date,omitempty"`
}

type PaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Mode      string          `json:"mode" binding:"required" validate:"required"`
	Reference string          `json:"reference,omitempty" validate:"max=64"`
}

const (
	FolioEntryCharge  = "CHARGE"
	FolioEntryPayment = "PAYMENT"
)

// FolioEntry is one ledger line. Balance is what remains owed after this line.
type FolioEntry struct {
	Type        string          `json:"type"`
	ID          uint            `json:"id"`
	Kind        string          `json:"kind,omitempty"`
	Sector      string          `json:"sector,omitempty"`
	Description string          `json:"description,omitempty"`
	Mode        string          `json:"mode,omitempty"`
	Receipt     string          `json:"receiptNumber,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
	At          time.Time       `json:"at"`
}

type Folio struct {
	BookingID     uint            `json:"bookingId"`
	FolioNumber   string          `json:"folioNumber"`
	Status        string          `json:"status"`
	Open          bool            `json:"open"`
	RoomAmount    decimal.Decimal `json:"roomAmount"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	TotalPayments decimal.Decimal `json:"totalPayments"`
	Balance       decimal.Decimal `json:"balance"`
	Entries       []FolioEntry    `json:"entries"`
}
