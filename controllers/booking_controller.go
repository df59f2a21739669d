package controllers

import (
	"frontoffice/dto"
	"frontoffice/response"
	"frontoffice/services"

	"github.com/gin-gonic/gin"
)

type BookingController struct {
	service services.BookingServiceInterface
}

func NewBookingController(service services.BookingServiceInterface) *BookingController {
	return &BookingController{service: service}
}

func (bc *BookingController) CreateBooking(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var req dto.CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}
	booking, err := bc.service.CreateBooking(c.Request.Context(), actor, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Created(c, booking)
}

func (bc *BookingController) GetBooking(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	booking, err := bc.service.GetBooking(c.Request.Context(), actor, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, booking)
}

func (bc *BookingController) ListBookings(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var filter dto.BookingFilter
	if !bindQuery(c, &filter) {
		return
	}
	bookings, total, err := bc.service.ListBookings(c.Request.Context(), actor, filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	page, limit := filter.Normalize()
	response.SuccessWithPagination(c, bookings, page, limit, int(total))
}

func (bc *BookingController) CheckIn(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	booking, err := bc.service.CheckIn(c.Request.Context(), actor, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, booking)
}

func (bc *BookingController) CheckOut(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	summary, err := bc.service.CheckOut(c.Request.Context(), actor, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, summary)
}

func (bc *BookingController) Cancel(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	booking, err := bc.service.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, booking)
}

func (bc *BookingController) ChangeRoom(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req dto.ChangeRoomRequest
	if !bindJSON(c, &req) {
		return
	}
	booking, err := bc.service.ChangeRoom(c.Request.Context(), actor, id, req.RoomID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, booking)
}

func (bc *BookingController) ExtendStay(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req dto.ExtendStayRequest
	if !bindJSON(c, &req) {
		return
	}
	booking, err := bc.service.ExtendStay(c.Request.Context(), actor, id, req.CheckOut)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, booking)
}

// OverrideStatus là lối thoát sửa dữ liệu cho quản lý; không đụng tới trạng thái phòng
func (bc *BookingController) OverrideStatus(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req dto.OverrideStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	booking, err := bc.service.OverrideStatus(c.Request.Context(), actor, id, req.Status, req.Reason)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, booking)
}
