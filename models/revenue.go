package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyRevenue is the nightly per-sector snapshot used by dashboards.
type DailyRevenue struct {
	ID           uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	BusinessID   uint            `gorm:"not null;uniqueIndex:idx_business_date_sector" json:"businessId"`
	Date         time.Time       `gorm:"not null;uniqueIndex:idx_business_date_sector" json:"date"`
	Sector       string          `gorm:"size:20;not null;uniqueIndex:idx_business_date_sector" json:"sector"`
	Gross        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"gross"`
	Net          decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"net"`
	Tax          decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"tax"`
	Transactions int             `gorm:"not null" json:"transactions"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}
