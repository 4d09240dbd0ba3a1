package services

import (
	"github.com/shopspring/decimal"

	"order_manager/internal/models"
)

// Cart is the channel-agnostic checkout request shape. Each line references
// one sellable and optionally carries grouped complement selections.
// LegacyOptionIDs holds the flat ungrouped shape some callers still submit;
// NormalizeCart folds it into Complements before composition.
type Cart struct {
	Items   []CartItem   `json:"items"`
	Recipes []CartRecipe `json:"recipes"`
	Combos  []CartCombo  `json:"combos"`
}

type CartItem struct {
	ProductID       uint                `json:"product_id"`
	Quantity        int                 `json:"quantity"`
	Note            string              `json:"note"`
	Complements     []CartComplementSel `json:"complements"`
	LegacyOptionIDs []uint              `json:"options"`
}

type CartRecipe struct {
	RecipeID        uint                `json:"recipe_id"`
	Quantity        int                 `json:"quantity"`
	Note            string              `json:"note"`
	Complements     []CartComplementSel `json:"complements"`
	LegacyOptionIDs []uint              `json:"options"`
}

type CartCombo struct {
	ComboID         uint                `json:"combo_id"`
	Quantity        int                 `json:"quantity"`
	Complements     []CartComplementSel `json:"complements"`
	LegacyOptionIDs []uint              `json:"options"`
}

type CartComplementSel struct {
	ComplementID uint            `json:"complement_id"`
	Options      []CartOptionSel `json:"options"`
}

type CartOptionSel struct {
	OptionID uint `json:"option_id"`
	Quantity int  `json:"quantity"`
}

// LineInput is the generic form of one cart line, used by the composition
// path and by the add-item operation on open orders.
type LineInput struct {
	Kind        models.LineKind     `json:"kind"`
	RefID       uint                `json:"ref_id"`
	Quantity    int                 `json:"quantity"`
	Note        string              `json:"note"`
	Complements []CartComplementSel `json:"complements"`
}

func (c *Cart) lines() []LineInput {
	var out []LineInput
	for _, it := range c.Items {
		out = append(out, LineInput{Kind: models.KindProduct, RefID: it.ProductID, Quantity: it.Quantity, Note: it.Note, Complements: it.Complements})
	}
	for _, rec := range c.Recipes {
		out = append(out, LineInput{Kind: models.KindRecipe, RefID: rec.RecipeID, Quantity: rec.Quantity, Note: rec.Note, Complements: rec.Complements})
	}
	for _, cb := range c.Combos {
		out = append(out, LineInput{Kind: models.KindCombo, RefID: cb.ComboID, Quantity: cb.Quantity, Complements: cb.Complements})
	}
	return out
}

// CheckoutInput bundles the cart with the channel attributes and the
// already-resolved monetary adjustments (coupon, distance fee, service fee
// derivation is out of scope; only the arithmetic happens here).
type CheckoutInput struct {
	EmpresaID uint            `json:"-"`
	Channel   models.Channel  `json:"channel"`
	Cart      Cart            `json:"cart"`

	Discount    decimal.Decimal `json:"discount"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	ServiceFee  decimal.Decimal `json:"service_fee"`

	DeliveryAddress *string  `json:"delivery_address"`
	DeliveryLat     *float64 `json:"delivery_lat"`
	DeliveryLng     *float64 `json:"delivery_lng"`
	TableNumber     *int     `json:"table_number"`
	PartySize       *int     `json:"party_size"`
	Notes           string   `json:"notes"`
}

// PricedOrder is the response shape shared by preview and finalize. All
// amounts are rounded to 2 decimal places for display; intermediate sums
// keep full precision.
type PricedOrder struct {
	Lines       []PricedLine    `json:"lines"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	ServiceFee  decimal.Decimal `json:"service_fee"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
}

type PricedLine struct {
	Kind        models.LineKind    `json:"kind"`
	RefID       uint               `json:"ref_id"`
	Name        string             `json:"name"`
	Quantity    int                `json:"quantity"`
	UnitPrice   decimal.Decimal    `json:"unit_price"`
	Note        string             `json:"note,omitempty"`
	Complements []PricedComplement `json:"complements"`
	LineTotal   decimal.Decimal    `json:"line_total"`
}

type PricedComplement struct {
	ComplementID uint           `json:"complement_id"`
	Name         string         `json:"name"`
	Options      []PricedOption `json:"options"`
}

type PricedOption struct {
	OptionID  uint            `json:"option_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}
