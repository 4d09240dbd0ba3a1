package services

import (
	"order_manager/internal/models"
)

// NormalizeCart folds the legacy flat option lists into the grouped shape
// before the composition engine runs: quantity defaults to 1 and the group
// is inferred from the option's sole linked group on that sellable. Grouped
// and legacy input may coexist on one line; legacy entries are appended to
// the matching group's selection.
func (s *checkoutService) NormalizeCart(empresaID uint, cart *Cart) error {
	for i := range cart.Items {
		it := &cart.Items[i]
		norm, err := s.normalizeLegacy(models.KindProduct, it.ProductID, it.LegacyOptionIDs, it.Complements)
		if err != nil {
			return err
		}
		it.Complements, it.LegacyOptionIDs = norm, nil
	}
	for i := range cart.Recipes {
		rec := &cart.Recipes[i]
		norm, err := s.normalizeLegacy(models.KindRecipe, rec.RecipeID, rec.LegacyOptionIDs, rec.Complements)
		if err != nil {
			return err
		}
		rec.Complements, rec.LegacyOptionIDs = norm, nil
	}
	for i := range cart.Combos {
		cb := &cart.Combos[i]
		norm, err := s.normalizeLegacy(models.KindCombo, cb.ComboID, cb.LegacyOptionIDs, cb.Complements)
		if err != nil {
			return err
		}
		cb.Complements, cb.LegacyOptionIDs = norm, nil
	}
	return nil
}

func (s *checkoutService) normalizeLegacy(kind models.LineKind, sellableID uint, legacy []uint, groups []CartComplementSel) ([]CartComplementSel, error) {
	for _, optionID := range legacy {
		groupID, err := s.catalog.SoleGroupForOption(kind, sellableID, optionID)
		if err != nil {
			return nil, err
		}
		placed := false
		for i := range groups {
			if groups[i].ComplementID == groupID {
				groups[i].Options = append(groups[i].Options, CartOptionSel{OptionID: optionID, Quantity: 1})
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, CartComplementSel{
				ComplementID: groupID,
				Options:      []CartOptionSel{{OptionID: optionID, Quantity: 1}},
			})
		}
	}
	return groups, nil
}
