package services

import (
	"order_manager/internal/apperrors"
	"order_manager/internal/models"
	"order_manager/internal/repository"
)

// OptionResolver answers membership and effective-price questions for one
// (group, option) pair. Backed by the catalog in production, by fakes in tests.
type OptionResolver func(groupID, optionID uint) (*repository.ResolvedOption, error)

// ResolvedSelection is one post-validation option choice: membership proven,
// quantity clamped where the group demands it.
type ResolvedSelection struct {
	Option   repository.ResolvedOption
	Quantity int
}

type ComplementValidator struct{}

func NewComplementValidator() ComplementValidator {
	return ComplementValidator{}
}

// Validate applies the group's selection rules to the client's choices and
// returns the normalized selections. Over-submitted data is corrected, not
// rejected: quantities above 1 are clamped when the group is non-quantitative,
// and extra options beyond the first are dropped when the group forbids
// multiple choice. Bound violations fail with the offending group id.
func (ComplementValidator) Validate(group *models.Complement, sels []CartOptionSel, resolve OptionResolver) ([]ResolvedSelection, error) {
	resolved := make([]ResolvedSelection, 0, len(sels))
	for _, sel := range sels {
		opt, err := resolve(group.ID, sel.OptionID)
		if err != nil {
			if apperrors.Is(err, apperrors.KindNotFound) {
				return nil, apperrors.InvalidSelection("group %d: option %d is not a valid choice", group.ID, sel.OptionID)
			}
			return nil, err
		}
		if sel.Quantity < 1 {
			return nil, apperrors.InvalidSelection("group %d: option %d quantity must be at least 1", group.ID, sel.OptionID)
		}

		qty := sel.Quantity
		if !group.Quantitativo && qty > 1 {
			qty = 1
		}
		resolved = append(resolved, ResolvedSelection{Option: *opt, Quantity: qty})
	}

	// Single-choice groups honor only the first submitted option. Membership
	// and quantity checks above still run over every submitted option.
	if !group.PermiteMultiplaEscolha && len(resolved) > 1 {
		resolved = resolved[:1]
	}

	total := 0
	for _, sel := range resolved {
		total += sel.Quantity
	}

	if group.Obrigatorio && total < 1 {
		return nil, apperrors.New(apperrors.KindMissingRequiredComplement,
			"group %d (%s) requires at least one selection", group.ID, group.Name)
	}
	if group.MinimoItens != nil && total < *group.MinimoItens {
		return nil, apperrors.New(apperrors.KindBelowMinimum,
			"group %d (%s) requires at least %d items, got %d", group.ID, group.Name, *group.MinimoItens, total)
	}
	if group.MaximoItens != nil && total > *group.MaximoItens {
		return nil, apperrors.New(apperrors.KindAboveMaximum,
			"group %d (%s) allows at most %d items, got %d", group.ID, group.Name, *group.MaximoItens, total)
	}

	return resolved, nil
}
