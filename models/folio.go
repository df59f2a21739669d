package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ChargeCategory struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	BusinessID uint      `json:"businessId" gorm:"not null;index"`
	Name       string    `json:"name" gorm:"size:64;not null"`
	Sector     string    `json:"sector" gorm:"size:20;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// FolioCharge is one ledger row. BookingID is nil for standalone sales.
type FolioCharge struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	BusinessID    uint            `json:"businessId" gorm:"not null;index:idx_charges_business_date"`
	BranchID      uint            `json:"branchId" gorm:"not null"`
	BookingID     *uint           `json:"bookingId,omitempty" gorm:"index"`
	CategoryID    *uint           `json:"categoryId,omitempty"`
	Kind          string          `json:"kind" gorm:"size:16;not null"`
	Sector        string          `json:"sector" gorm:"size:20;not null;index"`
	Description   string          `json:"description" gorm:"size:255"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	PaymentMethod string          `json:"paymentMethod,omitempty" gorm:"size:32"`
	ChargeDate    time.Time       `json:"chargeDate" gorm:"not null;index:idx_charges_business_date"`
	PostedBy      uint            `json:"postedBy"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}

// Payment is append-only.
type Payment struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	BusinessID    uint            `json:"businessId" gorm:"not null;index"`
	BookingID     uint            `json:"bookingId" gorm:"not null;index"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	PaymentMode   string          `json:"paymentMode" gorm:"size:32;not null"`
	Reference     string          `json:"reference,omitempty" gorm:"size:64"`
	ReceiptNumber string          `json:"receiptNumber" gorm:"size:40;index"`
	RecordedBy    uint            `json:"recordedBy"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}

// AfterCreate ghi số biên lai ngay khi có ID, trong cùng transaction
func (p *Payment) AfterCreate(tx *gorm.DB) (err error) {
	p.ReceiptNumber = ReceiptNumber(p.ID, p.CreatedAt)
	return tx.Model(p).UpdateColumn("receipt_number", p.ReceiptNumber).Error
}

// ReceiptNumber formats RCP-<paymentId>-<YYYYMMDD>.
func ReceiptNumber(paymentID uint, at time.Time) string {
	if at.IsZero() {
		at = time.Now()
	}
	return fmt.Sprintf("RCP-%d-%s", paymentID, at.Format("20060102"))
}
