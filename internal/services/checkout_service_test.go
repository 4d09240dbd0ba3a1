package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order_manager/internal/apperrors"
	"order_manager/internal/models"
)

const testEmpresa = uint(1)

func checkoutFixture() (*fakeCatalog, *fakeOrderRepo, CheckoutService) {
	catalog := newFakeCatalog()
	catalog.addProduct(1, "House Burger", "20.00")
	catalog.addProduct(2, "Soda", "6.00")

	extras := &models.Complement{ID: 10, Name: "Extras", Quantitativo: true, PermiteMultiplaEscolha: true, IsActive: true}
	catalog.addGroup(extras, sellableKey{models.KindProduct, 1})
	catalog.addOption(10, 1, "Bacon", "5.00")
	catalog.addOption(10, 2, "Cheese", "4.00")

	point := &models.Complement{ID: 11, Name: "Point of Meat", Obrigatorio: true, IsActive: true}
	catalog.addGroup(point, sellableKey{models.KindProduct, 1})
	catalog.addOption(11, 3, "Well Done", "0.00")

	repo := newFakeOrderRepo()
	return catalog, repo, NewCheckoutService(catalog, repo)
}

func burgerCart(quantity int) Cart {
	return Cart{
		Items: []CartItem{{
			ProductID: 1,
			Quantity:  quantity,
			Complements: []CartComplementSel{
				{ComplementID: 10, Options: []CartOptionSel{{OptionID: 1, Quantity: 1}}},
				{ComplementID: 11, Options: []CartOptionSel{{OptionID: 3, Quantity: 1}}},
			},
		}},
	}
}

func counterInput(cart Cart) CheckoutInput {
	return CheckoutInput{EmpresaID: testEmpresa, Channel: models.ChannelCounter, Cart: cart}
}

func TestPreviewPricesComplementsPerLineUnit(t *testing.T) {
	_, _, svc := checkoutFixture()

	priced, err := svc.Preview(counterInput(burgerCart(2)))

	require.NoError(t, err)
	require.Len(t, priced.Lines, 1)
	// (20.00 + 5.00 bacon + 0.00 point) * 2
	assert.Equal(t, "50.00", priced.Lines[0].LineTotal.StringFixed(2))
	assert.Equal(t, "50.00", priced.Subtotal.StringFixed(2))
	assert.Equal(t, "50.00", priced.GrandTotal.StringFixed(2))
}

func TestPreviewIsIdempotent(t *testing.T) {
	_, _, svc := checkoutFixture()
	input := counterInput(burgerCart(3))

	first, err := svc.Preview(input)
	require.NoError(t, err)
	second, err := svc.Preview(input)
	require.NoError(t, err)

	assert.Equal(t, first.Subtotal.StringFixed(2), second.Subtotal.StringFixed(2))
	assert.Equal(t, first.GrandTotal.StringFixed(2), second.GrandTotal.StringFixed(2))
	require.Equal(t, len(first.Lines), len(second.Lines))
	assert.Equal(t, first.Lines[0].LineTotal.StringFixed(2), second.Lines[0].LineTotal.StringFixed(2))
}

func TestPreviewAndFinalizeAgree(t *testing.T) {
	_, _, svc := checkoutFixture()
	addr := strPtr("Rua das Flores, 123 - Centro")
	input := CheckoutInput{
		EmpresaID:       testEmpresa,
		Channel:         models.ChannelDelivery,
		Cart:            burgerCart(2),
		Discount:        dec("5.00"),
		DeliveryFee:     dec("8.00"),
		ServiceFee:      dec("0.00"),
		DeliveryAddress: addr,
	}

	preview, err := svc.Preview(input)
	require.NoError(t, err)

	order, finalized, err := svc.Finalize(input, 7)
	require.NoError(t, err)

	assert.Equal(t, preview.GrandTotal.StringFixed(2), finalized.GrandTotal.StringFixed(2))
	assert.Equal(t, preview.Subtotal.StringFixed(2), finalized.Subtotal.StringFixed(2))
	assert.Equal(t, preview.Lines[0].LineTotal.StringFixed(2), finalized.Lines[0].LineTotal.StringFixed(2))
	assert.Equal(t, "53.00", order.GrandTotal.StringFixed(2)) // 50 - 5 + 8
	assert.Equal(t, models.StatusPending, order.Status)
	assert.NotEmpty(t, order.SequenceNumber)
}

func TestNonQuantitativeQuantityIsPricedAsOne(t *testing.T) {
	catalog, _, svc := checkoutFixture()
	catalog.groups[11].Quantitativo = false

	cart := burgerCart(2)
	cart.Items[0].Complements[1].Options[0].Quantity = 5

	priced, err := svc.Preview(counterInput(cart))

	require.NoError(t, err)
	// Clamped to 1 before the line-quantity multiplication.
	assert.Equal(t, "50.00", priced.Lines[0].LineTotal.StringFixed(2))
	assert.Equal(t, 1, priced.Lines[0].Complements[1].Options[0].Quantity)
}

func TestMissingRequiredComplementFailsWholeCheckout(t *testing.T) {
	_, repo, svc := checkoutFixture()

	cart := burgerCart(1)
	cart.Items[0].Complements[1].Options = nil // required "Point of Meat" left empty
	cart.Items = append(cart.Items, CartItem{ProductID: 2, Quantity: 1})

	_, err := svc.Preview(counterInput(cart))
	assert.Equal(t, apperrors.KindMissingRequiredComplement, apperrors.KindOf(err))

	_, _, err = svc.Finalize(counterInput(cart), 1)
	assert.Equal(t, apperrors.KindMissingRequiredComplement, apperrors.KindOf(err))
	assert.Empty(t, repo.orders, "nothing may be persisted when validation fails")
}

func TestUnknownOptionFailsSelection(t *testing.T) {
	_, _, svc := checkoutFixture()

	cart := burgerCart(1)
	cart.Items[0].Complements[0].Options[0].OptionID = 99

	_, err := svc.Preview(counterInput(cart))

	assert.Equal(t, apperrors.KindInvalidSelection, apperrors.KindOf(err))
}

func TestUnlinkedGroupIsAnError(t *testing.T) {
	_, _, svc := checkoutFixture()

	cart := Cart{Items: []CartItem{{
		ProductID:   2, // soda has no complement groups
		Quantity:    1,
		Complements: []CartComplementSel{{ComplementID: 10, Options: []CartOptionSel{{OptionID: 1, Quantity: 1}}}},
	}}}

	_, err := svc.Preview(counterInput(cart))

	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestInactiveProductIsRejected(t *testing.T) {
	catalog, _, svc := checkoutFixture()
	catalog.inactive[sellableKey{models.KindProduct, 1}] = true

	_, err := svc.Preview(counterInput(burgerCart(1)))

	assert.Equal(t, apperrors.KindInactive, apperrors.KindOf(err))
}

func TestFinalizedPricesSurviveCatalogChanges(t *testing.T) {
	catalog, repo, svc := checkoutFixture()

	order, _, err := svc.Finalize(counterInput(burgerCart(2)), 1)
	require.NoError(t, err)

	// Catalog price changes must never retroactively alter an order.
	catalog.addProduct(1, "House Burger", "99.00")
	catalog.addOption(10, 1, "Bacon", "77.00")

	stored, err := repo.GetByID(testEmpresa, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "50.00", stored.GrandTotal.StringFixed(2))
	assert.Equal(t, "20.00", stored.Lines[0].UnitPrice.StringFixed(2))
}

func TestNormalizeCartFoldsLegacyOptions(t *testing.T) {
	_, _, svc := checkoutFixture()

	cart := Cart{Items: []CartItem{{
		ProductID:       1,
		Quantity:        1,
		LegacyOptionIDs: []uint{2, 3},
		Complements: []CartComplementSel{
			{ComplementID: 10, Options: []CartOptionSel{{OptionID: 1, Quantity: 1}}},
		},
	}}}

	err := svc.NormalizeCart(testEmpresa, &cart)
	require.NoError(t, err)

	item := cart.Items[0]
	assert.Nil(t, item.LegacyOptionIDs)
	require.Len(t, item.Complements, 2)
	// Cheese joined the existing Extras selection with quantity 1.
	assert.Equal(t, uint(10), item.Complements[0].ComplementID)
	require.Len(t, item.Complements[0].Options, 2)
	assert.Equal(t, 1, item.Complements[0].Options[1].Quantity)
	// Well Done landed in its inferred group.
	assert.Equal(t, uint(11), item.Complements[1].ComplementID)
}

func TestChannelAttributeValidation(t *testing.T) {
	_, _, svc := checkoutFixture()

	input := counterInput(burgerCart(1))
	input.Channel = models.ChannelDelivery // no address
	_, err := svc.Preview(input)
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))

	input = counterInput(burgerCart(1))
	input.Channel = models.ChannelTable // no table number
	_, err = svc.Preview(input)
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))

	input = counterInput(burgerCart(1))
	input.TableNumber = intPtr(4) // counter orders have no table
	_, err = svc.Preview(input)
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
}

func TestEmptyCartIsRejected(t *testing.T) {
	_, _, svc := checkoutFixture()

	_, err := svc.Preview(counterInput(Cart{}))

	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
}

func TestSequenceNumbersIncreasePerChannel(t *testing.T) {
	_, _, svc := checkoutFixture()

	first, _, err := svc.Finalize(counterInput(burgerCart(1)), 1)
	require.NoError(t, err)
	second, _, err := svc.Finalize(counterInput(burgerCart(1)), 1)
	require.NoError(t, err)

	assert.NotEqual(t, first.SequenceNumber, second.SequenceNumber)
	assert.Less(t, first.SequenceNumber, second.SequenceNumber)
}
