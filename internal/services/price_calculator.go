package services

import (
	"github.com/shopspring/decimal"
)

// PriceCalculator derives line and order totals. All arithmetic stays in
// decimal space; rounding to 2 places happens once, at persist/display time.
type PriceCalculator struct{}

func NewPriceCalculator() PriceCalculator {
	return PriceCalculator{}
}

// OptionTotal is the contribution of one selected option for a single unit
// of the line: effective price times selection quantity.
func (PriceCalculator) OptionTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// LineTotal multiplies the per-unit price (base plus the sum of complement
// contributions) by the line quantity. Complement costs scale with the line:
// two burgers each with "+bacon" charge bacon twice.
func (PriceCalculator) LineTotal(basePrice, complementTotal decimal.Decimal, quantity int) decimal.Decimal {
	return basePrice.Add(complementTotal).Mul(decimal.NewFromInt(int64(quantity)))
}

// GrandTotal is subtotal minus discount plus the delivery and service fees.
// Inputs arrive already resolved and non-negative; only arithmetic happens here.
func (PriceCalculator) GrandTotal(subtotal, discount, deliveryFee, serviceFee decimal.Decimal) decimal.Decimal {
	return subtotal.Sub(discount).Add(deliveryFee).Add(serviceFee)
}

// Round2 applies the single display/persist rounding step.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
