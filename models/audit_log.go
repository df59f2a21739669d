package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditLog struct {
	ID         uint              `json:"id" gorm:"primaryKey"`
	BusinessID uint              `json:"businessId" gorm:"not null;index"`
	BranchID   uint              `json:"branchId"`
	ActorID    uint              `json:"actorId"`
	Action     string            `json:"action" gorm:"size:40;not null;index"`
	EntityType string            `json:"entityType" gorm:"size:32"`
	EntityID   uint              `json:"entityId"`
	Metadata   datatypes.JSONMap `json:"metadata"`
	CreatedAt  time.Time         `gorm:"autoCreateTime;index" json:"createdAt"`
}

// AuditEvent is what the engine emits after a committed operation.
type AuditEvent struct {
	Action     string                 `json:"action"`
	BusinessID uint                   `json:"businessId"`
	BranchID   uint                   `json:"branchId"`
	ActorID    uint                   `json:"actorId"`
	EntityType string                 `json:"entityType"`
	EntityID   uint                   `json:"entityId"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	At         time.Time              `json:"at"`
}

// NewAuditEvent điền thông tin actor cho một sự kiện audit
func NewAuditEvent(actor Actor, action, entityType string, entityID uint, metadata map[string]interface{}) AuditEvent {
	return AuditEvent{
		Action:     action,
		BusinessID: actor.BusinessID,
		BranchID:   actor.BranchID,
		ActorID:    actor.ActorID,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   metadata,
		At:         time.Now(),
	}
}

func (e AuditEvent) ToLog() AuditLog {
	return AuditLog{
		BusinessID: e.BusinessID,
		BranchID:   e.BranchID,
		ActorID:    e.ActorID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Metadata:   datatypes.JSONMap(e.Metadata),
		CreatedAt:  e.At,
	}
}
