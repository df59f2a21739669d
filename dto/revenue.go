package dto

import "github.com/shopspring/decimal"

type RevenueQuery struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

type RevenueReport struct {
	BusinessID uint            `json:"businessId"`
	From       string          `json:"from"`
	To         string          `json:"to"`
	TaxEnabled bool            `json:"taxEnabled"`
	Sectors    []SectorRevenue `json:"sectors"`
	Lines      []RevenueLine   `json:"lines"`
	Gross      decimal.Decimal `json:"gross"`
	Net        decimal.Decimal `json:"net"`
	Tax        decimal.Decimal `json:"tax"`
}

type SectorRevenue struct {
	Sector       string          `json:"sector"`
	Rate         decimal.Decimal `json:"rate"`
	Gross        decimal.Decimal `json:"gross"`
	Net          decimal.Decimal `json:"net"`
	Tax          decimal.Decimal `json:"tax"`
	Transactions int             `json:"transactions"`
}

// RevenueLine là một giao dịch trong báo cáo (booking hoặc phí lẻ)
type RevenueLine struct {
	Source      string          `json:"source"`
	ReferenceID uint            `json:"referenceId"`
	Sector      string          `json:"sector"`
	Date        string          `json:"date"`
	Gross       decimal.Decimal `json:"gross"`
	Net         decimal.Decimal `json:"net"`
	Tax         decimal.Decimal `json:"tax"`
}
