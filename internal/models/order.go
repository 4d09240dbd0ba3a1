package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Channel string

const (
	ChannelDelivery Channel = "DELIVERY"
	ChannelTable    Channel = "TABLE"
	ChannelCounter  Channel = "COUNTER"
)

func (c Channel) Valid() bool {
	switch c {
	case ChannelDelivery, ChannelTable, ChannelCounter:
		return true
	}
	return false
}

type OrderStatus string

const (
	StatusPending         OrderStatus = "PENDING"
	StatusPrinting        OrderStatus = "PRINTING"
	StatusPreparing       OrderStatus = "PREPARING"
	StatusDispatched      OrderStatus = "DISPATCHED"
	StatusDelivered       OrderStatus = "DELIVERED"
	StatusCancelled       OrderStatus = "CANCELLED"
	StatusEdited          OrderStatus = "EDITED"
	StatusEditing         OrderStatus = "EDITING"
	StatusAwaitingPayment OrderStatus = "AWAITING_PAYMENT"
)

// Terminal reports whether no further status transitions are permitted
// (reopen is the only way back, and the paid flag may still change).
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Order is one purchase transaction. Rows are never deleted; cancellation is
// a status. Status, paid and the monetary fields are written only by the
// state-machine-guarded operations, with Version carrying the optimistic lock.
type Order struct {
	ID             uint        `json:"id" gorm:"primaryKey"`
	EmpresaID      uint        `json:"empresa_id" gorm:"not null;uniqueIndex:idx_order_sequence"`
	Channel        Channel     `json:"channel" gorm:"not null;uniqueIndex:idx_order_sequence"`
	SequenceNumber string      `json:"sequence_number" gorm:"not null;uniqueIndex:idx_order_sequence"`
	Status         OrderStatus `json:"status" gorm:"not null;default:'PENDING'"`

	Subtotal    decimal.Decimal `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	Discount    decimal.Decimal `json:"discount" gorm:"type:decimal(10,2);not null"`
	DeliveryFee decimal.Decimal `json:"delivery_fee" gorm:"type:decimal(10,2);not null"`
	ServiceFee  decimal.Decimal `json:"service_fee" gorm:"type:decimal(10,2);not null"`
	GrandTotal  decimal.Decimal `json:"grand_total" gorm:"type:decimal(10,2);not null"`

	Paid            bool            `json:"paid" gorm:"default:false"`
	PaymentMethodID *uint           `json:"payment_method_id"`
	ChangeDue       decimal.Decimal `json:"change_due" gorm:"type:decimal(10,2)"`

	// Delivery-only attributes (address snapshot + geo point).
	DeliveryAddress *string          `json:"delivery_address"`
	DeliveryLat     *float64         `json:"delivery_lat"`
	DeliveryLng     *float64         `json:"delivery_lng"`

	// Table-only attributes.
	TableNumber *int `json:"table_number"`
	PartySize   *int `json:"party_size"`

	Notes string `json:"notes" gorm:"type:text"`

	Lines   []OrderLine         `json:"lines" gorm:"foreignKey:OrderID"`
	History []OrderHistoryEntry `json:"history,omitempty" gorm:"foreignKey:OrderID"`

	CreatedBy uint      `json:"created_by"`
	Version   int       `json:"version" gorm:"not null;default:1"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderCounter holds the last allocated human-readable sequence value per
// (empresa, channel). Rows are locked FOR UPDATE during allocation so
// concurrent finalizes never share a number.
type OrderCounter struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	EmpresaID uint      `json:"empresa_id" gorm:"not null;uniqueIndex:idx_order_counter"`
	Channel   Channel   `json:"channel" gorm:"not null;uniqueIndex:idx_order_counter"`
	LastValue int64     `json:"last_value" gorm:"not null;default:0"`
	UpdatedAt time.Time `json:"updated_at"`
}
