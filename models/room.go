package models

import (
	"time"

	"frontoffice/constants"
	apperrors "frontoffice/errors"

	"github.com/shopspring/decimal"
)

type RoomCategory struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	BusinessID    uint            `json:"businessId" gorm:"not null;index"`
	Name          string          `json:"name" gorm:"size:64;not null"`
	PricePerNight decimal.Decimal `json:"pricePerNight" gorm:"type:decimal(12,2);not null;default:0"`
	Description   string          `json:"description" gorm:"type:text"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

type Room struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	BusinessID uint      `json:"businessId" gorm:"not null;uniqueIndex:idx_rooms_business_branch_number"`
	BranchID   uint      `json:"branchId" gorm:"not null;uniqueIndex:idx_rooms_business_branch_number"`
	CategoryID uint      `json:"categoryId" gorm:"not null;index"`
	RoomNumber string    `json:"roomNumber" gorm:"size:16;not null;uniqueIndex:idx_rooms_business_branch_number"`
	RoomName   string    `json:"roomName,omitempty" gorm:"size:64"`
	Floor      string    `json:"floor,omitempty" gorm:"size:8"`
	Status     string    `json:"status" gorm:"size:20;not null;default:VACANT;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// ValidateStatus kiểm tra status thuộc tập trạng thái phòng đã biết
func (r *Room) ValidateStatus() error {
	switch r.Status {
	case constants.RoomStatusVacant, constants.RoomStatusOccupied,
		constants.RoomStatusReserved, constants.RoomStatusUnderMaintenance:
		return nil
	}
	return apperrors.Validation("invalid room status %q", r.Status)
}

// IsHeld reports whether an active booking currently owns the room.
func (r *Room) IsHeld() bool {
	return r.Status == constants.RoomStatusOccupied || r.Status == constants.RoomStatusReserved
}
