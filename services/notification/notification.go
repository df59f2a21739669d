package notification

import (
	"context"
	"fmt"

	"frontoffice/constants"
	"frontoffice/models"

	"github.com/goccy/go-json"
	"github.com/olahol/melody"
)

// SessionBusinessKey is set on each websocket session at connect time.
const SessionBusinessKey = "businessId"

// RoomBoard đẩy thay đổi trạng thái phòng/booking tới màn hình lễ tân qua websocket
type RoomBoard struct {
	m *melody.Melody
}

func NewRoomBoard(m *melody.Melody) *RoomBoard {
	return &RoomBoard{m: m}
}

// RoomBoardMessage là payload gửi xuống client
type RoomBoardMessage struct {
	Event     string                 `json:"event"`
	Entity    string                 `json:"entity"`
	EntityID  uint                   `json:"entityId"`
	ActorID   uint                   `json:"actorId"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp int64                  `json:"ts"`
}

// Emit broadcasts the event to sessions of the same business only.
// Events that do not change what the board shows are skipped.
func (b *RoomBoard) Emit(_ context.Context, e models.AuditEvent) error {
	if b.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	if !Relevant(e.Action) {
		return nil
	}
	payload, err := json.Marshal(NewMessageBuilder(e).Build())
	if err != nil {
		return err
	}
	return b.m.BroadcastFilter(payload, func(s *melody.Session) bool {
		v, ok := s.Get(SessionBusinessKey)
		if !ok {
			return false
		}
		id, ok := v.(uint)
		return ok && id == e.BusinessID
	})
}

// Relevant reports whether an action changes room occupancy on the board.
func Relevant(action string) bool {
	switch action {
	case constants.AuditBookingCreated, constants.AuditBookingCheckedIn,
		constants.AuditBookingCheckedOut, constants.AuditBookingCancelled,
		constants.AuditBookingRoomChanged, constants.AuditBookingStatusOverride,
		constants.AuditRoomStatusUpdated:
		return true
	}
	return false
}

type MessageBuilder struct {
	event models.AuditEvent
}

func NewMessageBuilder(e models.AuditEvent) *MessageBuilder {
	return &MessageBuilder{event: e}
}

func (b *MessageBuilder) Build() RoomBoardMessage {
	return RoomBoardMessage{
		Event:     b.event.Action,
		Entity:    b.event.EntityType,
		EntityID:  b.event.EntityID,
		ActorID:   b.event.ActorID,
		Details:   b.event.Metadata,
		Timestamp: b.event.At.Unix(),
	}
}
