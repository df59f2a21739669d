package dto

import "github.com/shopspring/decimal"

// TaxConfigRequest: RatesBySector holds percentages keyed by sector.
type TaxConfigRequest struct {
	Enabled       bool                       `json:"enabled"`
	RatesBySector map[string]decimal.Decimal `json:"ratesBySector"`
}
