package models

import (
	"strings"
	"time"
)

type SlotState string

const (
	SlotFree     SlotState = "free"
	SlotOccupied SlotState = "occupied"
	SlotReady    SlotState = "ready"
)

// legacy colour names used by the counter display
var slotColours = map[string]SlotState{
	"gray":  SlotFree,
	"grey":  SlotFree,
	"red":   SlotOccupied,
	"green": SlotReady,
}

// ParseSlotState accepts state names and the Gray/Red/Green colours.
func ParseSlotState(s string) (SlotState, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch SlotState(v) {
	case SlotFree, SlotOccupied, SlotReady:
		return SlotState(v), true
	}
	st, ok := slotColours[v]
	return st, ok
}

// Colour returns the display colour for the state.
func (s SlotState) Colour() string {
	switch s {
	case SlotOccupied:
		return "Red"
	case SlotReady:
		return "Green"
	default:
		return "Gray"
	}
}

// CanAdvanceTo is the staff-driven lifecycle: occupied -> ready -> free.
func (s SlotState) CanAdvanceTo(next SlotState) bool {
	switch s {
	case SlotOccupied:
		return next == SlotReady
	case SlotReady:
		return next == SlotFree
	default:
		return false
	}
}

// TokenSlot is a physical pickup token. OrderID is set exactly when the
// slot is not free.
type TokenSlot struct {
	ID          uint      `gorm:"column:token_id;primaryKey" json:"token_id"`
	OrderID     *uint     `gorm:"uniqueIndex" json:"order_id"`
	Status      SlotState `gorm:"type:varchar(16);not null;index;check:token_slot_binding,(status = 'free') = (order_id IS NULL)" json:"status"`
	LastUpdated time.Time `gorm:"column:last_updated;autoUpdateTime" json:"last_updated"`
}

func (TokenSlot) TableName() string {
	return "token_slots"
}
