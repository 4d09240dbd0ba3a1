package services

import (
	"github.com/shopspring/decimal"

	"order_manager/internal/apperrors"
	"order_manager/internal/models"
	"order_manager/internal/repository"
)

// CheckoutService turns a cart description into a priced, validated order.
// Preview and Finalize run the identical composition path; only Finalize
// persists.
type CheckoutService interface {
	Preview(input CheckoutInput) (*PricedOrder, error)
	Finalize(input CheckoutInput, actorID uint) (*models.Order, *PricedOrder, error)
	NormalizeCart(empresaID uint, cart *Cart) error
	ComposeLine(empresaID uint, line LineInput) (*models.OrderLine, *PricedLine, error)
}

type checkoutService struct {
	catalog   repository.CatalogRepository
	orderRepo repository.OrderRepository
	validator ComplementValidator
	calc      PriceCalculator
}

func NewCheckoutService(catalog repository.CatalogRepository, orderRepo repository.OrderRepository) CheckoutService {
	return &checkoutService{
		catalog:   catalog,
		orderRepo: orderRepo,
		validator: NewComplementValidator(),
		calc:      NewPriceCalculator(),
	}
}

func (s *checkoutService) Preview(input CheckoutInput) (*PricedOrder, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}
	_, priced, err := s.compose(input)
	if err != nil {
		return nil, err
	}
	return priced, nil
}

func (s *checkoutService) Finalize(input CheckoutInput, actorID uint) (*models.Order, *PricedOrder, error) {
	if err := validateInput(&input); err != nil {
		return nil, nil, err
	}
	lines, priced, err := s.compose(input)
	if err != nil {
		return nil, nil, err
	}

	order := &models.Order{
		EmpresaID:       input.EmpresaID,
		Channel:         input.Channel,
		Subtotal:        priced.Subtotal,
		Discount:        priced.Discount,
		DeliveryFee:     priced.DeliveryFee,
		ServiceFee:      priced.ServiceFee,
		GrandTotal:      priced.GrandTotal,
		DeliveryAddress: input.DeliveryAddress,
		DeliveryLat:     input.DeliveryLat,
		DeliveryLng:     input.DeliveryLng,
		TableNumber:     input.TableNumber,
		PartySize:       input.PartySize,
		Notes:           input.Notes,
		Lines:           lines,
		CreatedBy:       actorID,
	}

	if err := s.orderRepo.CreateOrder(order, actorID); err != nil {
		return nil, nil, err
	}
	return order, priced, nil
}

// compose resolves, validates and prices every cart line. Nothing is
// persisted; both preview and finalize run exactly this path so the two can
// never diverge.
func (s *checkoutService) compose(input CheckoutInput) ([]models.OrderLine, *PricedOrder, error) {
	lineInputs := input.Cart.lines()
	if len(lineInputs) == 0 {
		return nil, nil, apperrors.InvalidInput("cart is empty")
	}

	var (
		lines    []models.OrderLine
		priced   []PricedLine
		subtotal = decimal.Zero
	)
	for _, li := range lineInputs {
		line, pl, err := s.ComposeLine(input.EmpresaID, li)
		if err != nil {
			return nil, nil, err
		}
		lines = append(lines, *line)
		priced = append(priced, *pl)
		subtotal = subtotal.Add(pl.LineTotal)
	}

	discount, deliveryFee, serviceFee := input.Discount, input.DeliveryFee, input.ServiceFee
	if input.Channel != models.ChannelDelivery {
		// Discount and fees are delivery-side inputs; the other channels
		// settle at the house.
		discount, deliveryFee, serviceFee = decimal.Zero, decimal.Zero, decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		return nil, nil, apperrors.InvalidInput("discount %s exceeds the order subtotal %s",
			discount.StringFixed(2), subtotal.StringFixed(2))
	}

	grand := s.calc.GrandTotal(subtotal, discount, deliveryFee, serviceFee)
	out := &PricedOrder{
		Lines:       priced,
		Subtotal:    Round2(subtotal),
		Discount:    Round2(discount),
		DeliveryFee: Round2(deliveryFee),
		ServiceFee:  Round2(serviceFee),
		GrandTotal:  Round2(grand),
	}
	return lines, out, nil
}

// ComposeLine resolves one sellable, validates every complement group chosen
// for it and prices the result. The returned OrderLine carries only resolved
// snapshots, never live catalog references.
func (s *checkoutService) ComposeLine(empresaID uint, li LineInput) (*models.OrderLine, *PricedLine, error) {
	if li.Quantity < 1 {
		return nil, nil, apperrors.InvalidInput("%s %d: quantity must be at least 1", li.Kind, li.RefID)
	}

	sellable, err := s.catalog.ResolveSellable(empresaID, li.Kind, li.RefID)
	if err != nil {
		return nil, nil, err
	}

	var (
		selections      []models.ComplementSelection
		pricedGroups    []PricedComplement
		complementTotal = decimal.Zero
	)
	for _, cs := range li.Complements {
		group, err := s.catalog.ResolveComplementGroup(empresaID, cs.ComplementID, li.Kind, li.RefID)
		if err != nil {
			return nil, nil, err
		}
		resolved, err := s.validator.Validate(group, cs.Options, s.catalog.ResolveOption)
		if err != nil {
			return nil, nil, err
		}

		sel := models.ComplementSelection{ComplementID: group.ID, GroupName: group.Name}
		pg := PricedComplement{ComplementID: group.ID, Name: group.Name}
		for _, rs := range resolved {
			total := s.calc.OptionTotal(rs.Option.EffectivePrice, rs.Quantity)
			sel.Options = append(sel.Options, models.AdicionalSelection{
				AdicionalID: rs.Option.AdicionalID,
				Name:        rs.Option.Name,
				Quantity:    rs.Quantity,
				UnitPrice:   Round2(rs.Option.EffectivePrice),
				Total:       Round2(total),
			})
			pg.Options = append(pg.Options, PricedOption{
				OptionID:  rs.Option.AdicionalID,
				Name:      rs.Option.Name,
				Quantity:  rs.Quantity,
				UnitPrice: Round2(rs.Option.EffectivePrice),
				Total:     Round2(total),
			})
			complementTotal = complementTotal.Add(total)
		}
		selections = append(selections, sel)
		pricedGroups = append(pricedGroups, pg)
	}

	lineTotal := s.calc.LineTotal(sellable.BasePrice, complementTotal, li.Quantity)
	line := &models.OrderLine{
		LineRef:     sellable.Ref,
		Name:        sellable.Name,
		Quantity:    li.Quantity,
		UnitPrice:   Round2(sellable.BasePrice),
		LineTotal:   Round2(lineTotal),
		Note:        li.Note,
		Complements: selections,
	}
	pl := &PricedLine{
		Kind:        sellable.Ref.Kind,
		RefID:       sellable.Ref.RefID,
		Name:        sellable.Name,
		Quantity:    li.Quantity,
		UnitPrice:   Round2(sellable.BasePrice),
		Note:        li.Note,
		Complements: pricedGroups,
		LineTotal:   Round2(lineTotal),
	}
	return line, pl, nil
}

func validateInput(input *CheckoutInput) error {
	if !input.Channel.Valid() {
		return apperrors.InvalidInput("unknown channel %q", input.Channel)
	}
	if input.Discount.IsNegative() || input.DeliveryFee.IsNegative() || input.ServiceFee.IsNegative() {
		return apperrors.InvalidInput("discount and fees must be non-negative")
	}
	switch input.Channel {
	case models.ChannelDelivery:
		if input.DeliveryAddress == nil || *input.DeliveryAddress == "" {
			return apperrors.InvalidInput("delivery orders require a delivery address")
		}
		if input.TableNumber != nil {
			return apperrors.InvalidInput("delivery orders must not carry a table number")
		}
	case models.ChannelTable:
		if input.TableNumber == nil {
			return apperrors.InvalidInput("table orders require a table number")
		}
		if input.DeliveryAddress != nil {
			return apperrors.InvalidInput("table orders must not carry a delivery address")
		}
	case models.ChannelCounter:
		if input.TableNumber != nil {
			return apperrors.InvalidInput("counter orders must not carry a table number")
		}
		if input.DeliveryAddress != nil {
			return apperrors.InvalidInput("counter orders must not carry a delivery address")
		}
	}
	return nil
}
