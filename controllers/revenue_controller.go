package controllers

import (
	"frontoffice/dto"
	"frontoffice/response"
	"frontoffice/services"

	"github.com/gin-gonic/gin"
)

type RevenueController struct {
	revenue *services.RevenueService
	tax     *services.TaxService
}

func NewRevenueController(revenue *services.RevenueService, tax *services.TaxService) *RevenueController {
	return &RevenueController{revenue: revenue, tax: tax}
}

// GetReport trả về doanh thu theo sector trong khoảng ngày (bao gồm cả hai đầu)
func (rc *RevenueController) GetReport(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var q dto.RevenueQuery
	if !bindQuery(c, &q) {
		return
	}
	report, err := rc.revenue.Report(c.Request.Context(), actor, q.From, q.To)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, report)
}

func (rc *RevenueController) GetDailySnapshots(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var q dto.RevenueQuery
	if !bindQuery(c, &q) {
		return
	}
	rows, err := rc.revenue.ListSnapshots(c.Request.Context(), actor, q.From, q.To)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, rows)
}

func (rc *RevenueController) GetTaxConfig(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	cfg, err := rc.tax.Get(c.Request.Context(), actor.BusinessID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, cfg)
}

func (rc *RevenueController) SetTaxConfig(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var req dto.TaxConfigRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := rc.tax.Set(c.Request.Context(), actor, req); err != nil {
		_ = c.Error(err)
		return
	}
	cfg, err := rc.tax.Get(c.Request.Context(), actor.BusinessID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, cfg)
}
