package models

import "time"

type HistoryOperation string

const (
	OpCreated       HistoryOperation = "created"
	OpStatusChanged HistoryOperation = "status_changed"
	OpItemAdded     HistoryOperation = "item_added"
	OpItemRemoved   HistoryOperation = "item_removed"
	OpClosed        HistoryOperation = "closed"
	OpReopened      HistoryOperation = "reopened"
	OpCancelled     HistoryOperation = "cancelled"
)

// OrderHistoryEntry is the append-only audit trail. Entries are never
// mutated or deleted.
type OrderHistoryEntry struct {
	ID             uint             `json:"id" gorm:"primaryKey"`
	OrderID        uint             `json:"order_id" gorm:"not null;index"`
	PreviousStatus OrderStatus      `json:"previous_status"`
	NewStatus      OrderStatus      `json:"new_status"`
	Operation      HistoryOperation `json:"operation" gorm:"not null"`
	ActorID        uint             `json:"actor_id"`
	Reason         string           `json:"reason" gorm:"type:text"`
	CreatedAt      time.Time        `json:"created_at"`
}
