package controllers

import (
	"frontoffice/dto"
	"frontoffice/response"
	"frontoffice/services"

	"github.com/gin-gonic/gin"
)

type FolioController struct {
	service services.FolioServiceInterface
}

func NewFolioController(service services.FolioServiceInterface) *FolioController {
	return &FolioController{service: service}
}

func (fc *FolioController) GetFolio(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	folio, err := fc.service.GetFolio(c.Request.Context(), actor, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, folio)
}

func (fc *FolioController) AddCharge(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req dto.ChargeRequest
	if !bindJSON(c, &req) {
		return
	}
	charge, err := fc.service.AddCharge(c.Request.Context(), actor, id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Created(c, charge)
}

func (fc *FolioController) AddPayment(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req dto.PaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	payment, err := fc.service.AddPayment(c.Request.Context(), actor, id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Created(c, payment)
}

func (fc *FolioController) RecordStandaloneCharge(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var req dto.ChargeRequest
	if !bindJSON(c, &req) {
		return
	}
	charge, err := fc.service.RecordStandaloneCharge(c.Request.Context(), actor, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Created(c, charge)
}

func (fc *FolioController) CreateChargeCategory(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var req dto.ChargeCategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := fc.service.CreateChargeCategory(c.Request.Context(), actor, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Created(c, category)
}

func (fc *FolioController) ListChargeCategories(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	categories, err := fc.service.ListChargeCategories(c.Request.Context(), actor)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, categories)
}
