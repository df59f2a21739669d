package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Booking struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	BusinessID   uint            `json:"businessId" gorm:"not null;index"`
	BranchID     uint            `json:"branchId" gorm:"not null;index"`
	RoomID       uint            `json:"roomId" gorm:"not null;index"`
	GuestName    string          `json:"guestName" gorm:"size:128;not null"`
	GuestPhone   string          `json:"guestPhone,omitempty" gorm:"size:32"`
	GuestEmail   string          `json:"guestEmail,omitempty" gorm:"size:128"`
	Source       string          `json:"source" gorm:"size:16;not null"`
	CheckIn      time.Time       `json:"checkIn" gorm:"not null;index:idx_bookings_stay"`
	CheckOut     time.Time       `json:"checkOut" gorm:"not null;index:idx_bookings_stay"`
	Nights       int             `json:"nights" gorm:"not null"`
	Status       string          `json:"status" gorm:"size:20;not null;index"`
	RatePerNight decimal.Decimal `json:"ratePerNight" gorm:"type:decimal(12,2);not null;default:0"`
	RoomAmount   decimal.Decimal `json:"roomAmount" gorm:"type:decimal(12,2);not null;default:0"`
	TotalAmount  decimal.Decimal `json:"totalAmount" gorm:"type:decimal(12,2);not null;default:0"`
	PaymentMode  string          `json:"paymentMode,omitempty" gorm:"size:32"`
	FolioNumber  string          `json:"folioNumber" gorm:"size:40;not null;uniqueIndex"`
	Notes        string          `json:"notes,omitempty" gorm:"type:text"`
	CreatedBy    uint            `json:"createdBy"`
	CheckedInAt  *time.Time      `json:"checkedInAt,omitempty"`
	CheckedOutAt *time.Time      `json:"checkedOutAt,omitempty"`
	CancelledAt  *time.Time      `json:"cancelledAt,omitempty"`
	CreatedAt    time.Time       `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

// BeforeCreate gán số folio duy nhất cho booking mới
func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.FolioNumber != "" {
		return nil
	}
	b.FolioNumber = NewFolioNumber(time.Now())

	var count int64
	if err := tx.Model(&Booking{}).Where("folio_number = ?", b.FolioNumber).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("folio number %s already exists, retry", b.FolioNumber)
	}
	return nil
}

// NewFolioNumber formats FOL-YYYYMMDD-XXXXXXXX.
func NewFolioNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("FOL-%s-%s", now.Format("20060102"), suffix)
}

// State returns the lifecycle object for the booking's current status.
func (b *Booking) State() BookingState {
	return GetBookingState(b.Status)
}
