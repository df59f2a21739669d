package dto

import "github.com/shopspring/decimal"

type CategoryRequest struct {
	Name          string          `json:"name" binding:"required,max=64" validate:"required,max=64"`
	PricePerNight decimal.Decimal `json:"pricePerNight"`
	Description   string          `json:"description"`
}

type RoomRequest struct {
	CategoryID uint   `json:"categoryId" binding:"required" validate:"required"`
	RoomNumber string `json:"roomNumber" binding:"required,max=16" validate:"required,max=16"`
	RoomName   string `json:"roomName" binding:"max=64" validate:"max=64"`
	Floor      string `json:"floor" binding:"max=8" validate:"max=8"`
}

type RoomStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// RoomFilter lọc danh sách phòng; BranchID 0 nghĩa là branch của actor
type RoomFilter struct {
	BranchID   uint   `form:"branchId"`
	Status     string `form:"status"`
	CategoryID uint   `form:"categoryId"`
}
