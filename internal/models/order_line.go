package models

import (
	"time"

	"github.com/shopspring/decimal"

	"order_manager/internal/apperrors"
)

// LineKind discriminates the sellable a line refers to. A line references
// exactly one of product, recipe or combo; the pair (Kind, RefID) is only
// built through NewLineRef so the invariant holds by construction.
type LineKind string

const (
	KindProduct LineKind = "PRODUCT"
	KindRecipe  LineKind = "RECIPE"
	KindCombo   LineKind = "COMBO"
)

func (k LineKind) Valid() bool {
	switch k {
	case KindProduct, KindRecipe, KindCombo:
		return true
	}
	return false
}

type LineRef struct {
	Kind  LineKind `json:"kind" gorm:"not null"`
	RefID uint     `json:"ref_id" gorm:"not null"`
}

func NewLineRef(kind LineKind, refID uint) (LineRef, error) {
	if !kind.Valid() {
		return LineRef{}, apperrors.Invariant("unknown line kind %q", kind)
	}
	if refID == 0 {
		return LineRef{}, apperrors.Invariant("line kind %s with zero reference id", kind)
	}
	return LineRef{Kind: kind, RefID: refID}, nil
}

// OrderLine is one composed entry in an order. UnitPrice and the nested
// selection prices are snapshots resolved at composition time; catalog price
// changes never alter an existing order.
type OrderLine struct {
	ID      uint `json:"id" gorm:"primaryKey"`
	OrderID uint `json:"order_id" gorm:"not null;index"`

	LineRef `gorm:"embedded"`

	Name      string          `json:"name" gorm:"not null"` // name snapshot
	Quantity  int             `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	LineTotal decimal.Decimal `json:"line_total" gorm:"type:decimal(10,2);not null"`
	Note      string          `json:"note" gorm:"type:text"`

	Complements []ComplementSelection `json:"complements" gorm:"foreignKey:OrderLineID"`

	CreatedAt time.Time `json:"created_at"`
}

// ComplementSelection is one complement group chosen for a line.
type ComplementSelection struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	OrderLineID  uint   `json:"order_line_id" gorm:"not null;index"`
	ComplementID uint   `json:"complement_id" gorm:"not null"`
	GroupName    string `json:"group_name"` // name snapshot

	Options []AdicionalSelection `json:"options" gorm:"foreignKey:SelectionID"`

	CreatedAt time.Time `json:"created_at"`
}

// AdicionalSelection is one option chosen within a group. UnitPrice is the
// effective price (group override, else default) frozen at order time.
type AdicionalSelection struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	SelectionID uint            `json:"selection_id" gorm:"not null;index"`
	AdicionalID uint            `json:"adicional_id" gorm:"not null"`
	Name        string          `json:"name"` // name snapshot
	Quantity    int             `json:"quantity" gorm:"not null"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Total       decimal.Decimal `json:"total" gorm:"type:decimal(10,2);not null"`

	CreatedAt time.Time `json:"created_at"`
}
