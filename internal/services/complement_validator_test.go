package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order_manager/internal/apperrors"
	"order_manager/internal/models"
)

func testGroup(mutate func(*models.Complement)) *models.Complement {
	group := &models.Complement{
		ID:                     10,
		Name:                   "Extras",
		Quantitativo:           true,
		PermiteMultiplaEscolha: true,
		IsActive:               true,
	}
	if mutate != nil {
		mutate(group)
	}
	return group
}

func testResolver() OptionResolver {
	catalog := newFakeCatalog()
	catalog.addOption(10, 1, "Bacon", "5.00")
	catalog.addOption(10, 2, "Cheese", "4.00")
	catalog.addOption(10, 3, "Egg", "3.00")
	return catalog.ResolveOption
}

func TestValidateRejectsUnknownOption(t *testing.T) {
	v := NewComplementValidator()

	_, err := v.Validate(testGroup(nil), []CartOptionSel{{OptionID: 99, Quantity: 1}}, testResolver())

	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidSelection, apperrors.KindOf(err))
}

func TestValidateRejectsZeroQuantity(t *testing.T) {
	v := NewComplementValidator()

	_, err := v.Validate(testGroup(nil), []CartOptionSel{{OptionID: 1, Quantity: 0}}, testResolver())

	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidSelection, apperrors.KindOf(err))
}

func TestValidateClampsNonQuantitativeQuantity(t *testing.T) {
	v := NewComplementValidator()
	group := testGroup(func(g *models.Complement) { g.Quantitativo = false })

	resolved, err := v.Validate(group, []CartOptionSel{{OptionID: 1, Quantity: 5}}, testResolver())

	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, 1, resolved[0].Quantity)
}

func TestValidateSingleChoiceKeepsFirstOption(t *testing.T) {
	v := NewComplementValidator()
	group := testGroup(func(g *models.Complement) { g.PermiteMultiplaEscolha = false })

	resolved, err := v.Validate(group, []CartOptionSel{
		{OptionID: 2, Quantity: 1},
		{OptionID: 1, Quantity: 1},
	}, testResolver())

	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, uint(2), resolved[0].Option.AdicionalID)
}

func TestValidateSingleChoiceStillChecksDroppedOptions(t *testing.T) {
	v := NewComplementValidator()
	group := testGroup(func(g *models.Complement) { g.PermiteMultiplaEscolha = false })

	// Membership runs over every submitted option, even the ones the
	// single-choice rule will drop.
	_, err := v.Validate(group, []CartOptionSel{
		{OptionID: 1, Quantity: 1},
		{OptionID: 99, Quantity: 1},
	}, testResolver())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidSelection, apperrors.KindOf(err))

	// Same for the quantity floor.
	_, err = v.Validate(group, []CartOptionSel{
		{OptionID: 1, Quantity: 1},
		{OptionID: 2, Quantity: 0},
	}, testResolver())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidSelection, apperrors.KindOf(err))
}

func TestValidateRequiredGroupWithEmptySelection(t *testing.T) {
	v := NewComplementValidator()
	group := testGroup(func(g *models.Complement) { g.Obrigatorio = true })

	_, err := v.Validate(group, nil, testResolver())

	require.Error(t, err)
	assert.Equal(t, apperrors.KindMissingRequiredComplement, apperrors.KindOf(err))
}

func TestValidateBounds(t *testing.T) {
	v := NewComplementValidator()
	group := testGroup(func(g *models.Complement) {
		g.MinimoItens = intPtr(2)
		g.MaximoItens = intPtr(5)
	})

	_, err := v.Validate(group, []CartOptionSel{{OptionID: 1, Quantity: 1}}, testResolver())
	assert.Equal(t, apperrors.KindBelowMinimum, apperrors.KindOf(err))

	_, err = v.Validate(group, []CartOptionSel{
		{OptionID: 1, Quantity: 4},
		{OptionID: 2, Quantity: 2},
	}, testResolver())
	assert.Equal(t, apperrors.KindAboveMaximum, apperrors.KindOf(err))

	resolved, err := v.Validate(group, []CartOptionSel{
		{OptionID: 1, Quantity: 2},
		{OptionID: 2, Quantity: 1},
	}, testResolver())
	require.NoError(t, err)
	assert.Len(t, resolved, 2)
}

func TestValidateBoundsApplyAfterClamping(t *testing.T) {
	v := NewComplementValidator()
	// Non-quantitative: submitted quantity 5 clamps to 1, which then misses
	// the minimum of 2.
	group := testGroup(func(g *models.Complement) {
		g.Quantitativo = false
		g.MinimoItens = intPtr(2)
	})

	_, err := v.Validate(group, []CartOptionSel{{OptionID: 1, Quantity: 5}}, testResolver())

	assert.Equal(t, apperrors.KindBelowMinimum, apperrors.KindOf(err))
}
