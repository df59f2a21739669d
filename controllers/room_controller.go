package controllers

import (
	"frontoffice/dto"
	"frontoffice/response"
	"frontoffice/services"

	"github.com/gin-gonic/gin"
)

type RoomController struct {
	service services.RoomServiceInterface
}

func NewRoomController(service services.RoomServiceInterface) *RoomController {
	return &RoomController{service: service}
}

func (rc *RoomController) CreateCategory(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := rc.service.CreateCategory(c.Request.Context(), actor, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Created(c, category)
}

func (rc *RoomController) UpdateCategory(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := rc.service.UpdateCategory(c.Request.Context(), actor, id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, category)
}

func (rc *RoomController) ListCategories(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	categories, err := rc.service.ListCategories(c.Request.Context(), actor)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, categories)
}

func (rc *RoomController) DeleteCategory(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := rc.service.DeleteCategory(c.Request.Context(), actor, id); err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, gin.H{"id": id})
}

func (rc *RoomController) CreateRoom(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var req dto.RoomRequest
	if !bindJSON(c, &req) {
		return
	}
	room, err := rc.service.CreateRoom(c.Request.Context(), actor, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Created(c, room)
}

func (rc *RoomController) GetRoom(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	room, err := rc.service.GetRoom(c.Request.Context(), actor, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, room)
}

func (rc *RoomController) ListRooms(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var filter dto.RoomFilter
	if !bindQuery(c, &filter) {
		return
	}
	rooms, err := rc.service.ListRooms(c.Request.Context(), actor, filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, rooms)
}

// UpdateRoomStatus chỉ cho phép bật/tắt bảo trì
func (rc *RoomController) UpdateRoomStatus(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req dto.RoomStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	room, err := rc.service.UpdateRoomStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, room)
}

func (rc *RoomController) DeleteRoom(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := rc.service.DeleteRoom(c.Request.Context(), actor, id); err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, gin.H{"id": id})
}
