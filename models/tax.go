package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TaxSetting struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	BusinessID uint      `json:"businessId" gorm:"not null;uniqueIndex"`
	Enabled    bool      `json:"enabled" gorm:"not null;default:false"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TaxRate stores a percentage, e.g. 18 for 18%.
type TaxRate struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	BusinessID uint            `json:"businessId" gorm:"not null;uniqueIndex:idx_tax_business_sector"`
	Sector     string          `json:"sector" gorm:"size:20;not null;uniqueIndex:idx_tax_business_sector"`
	Percentage decimal.Decimal `json:"percentage" gorm:"type:decimal(5,2);not null"`
}

// TaxConfig is the read-only view handed to the revenue aggregator.
// Rates are fractions (0.18), not percentages.
type TaxConfig struct {
	Enabled       bool                       `json:"enabled"`
	RatesBySector map[string]decimal.Decimal `json:"ratesBySector"`
}

func (c TaxConfig) RateFor(sector string) decimal.Decimal {
	if !c.Enabled {
		return decimal.Zero
	}
	if r, ok := c.RatesBySector[sector]; ok {
		return r
	}
	return decimal.Zero
}
