package repository

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"order_manager/internal/apperrors"
	"order_manager/internal/models"
)

// ResolvedSellable is the catalog's answer for one sellable entity: a name
// and base-price snapshot taken at resolution time.
type ResolvedSellable struct {
	Ref       models.LineRef
	Name      string
	BasePrice decimal.Decimal
}

// ResolvedOption carries the effective price of an option inside a specific
// group: the group override when present, else the option's default price.
type ResolvedOption struct {
	AdicionalID    uint
	Name           string
	EffectivePrice decimal.Decimal
}

type CatalogRepository interface {
	ResolveSellable(empresaID uint, kind models.LineKind, id uint) (*ResolvedSellable, error)
	ResolveComplementGroup(empresaID, groupID uint, kind models.LineKind, sellableID uint) (*models.Complement, error)
	ResolveOption(groupID, optionID uint) (*ResolvedOption, error)
	SoleGroupForOption(kind models.LineKind, sellableID, optionID uint) (uint, error)
	GetPaymentMethod(empresaID, id uint) (*models.PaymentMethod, error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ResolveSellable(empresaID uint, kind models.LineKind, id uint) (*ResolvedSellable, error) {
	var (
		name     string
		price    decimal.Decimal
		isActive bool
	)

	switch kind {
	case models.KindProduct:
		var p models.Product
		if err := r.db.Where("empresa_id = ?", empresaID).First(&p, id).Error; err != nil {
			return nil, notFoundOr(err, "product %d", id)
		}
		name, price, isActive = p.Name, p.Price, p.IsActive
	case models.KindRecipe:
		var rec models.Recipe
		if err := r.db.Where("empresa_id = ?", empresaID).First(&rec, id).Error; err != nil {
			return nil, notFoundOr(err, "recipe %d", id)
		}
		name, price, isActive = rec.Name, rec.Price, rec.IsActive
	case models.KindCombo:
		var c models.Combo
		if err := r.db.Where("empresa_id = ?", empresaID).First(&c, id).Error; err != nil {
			return nil, notFoundOr(err, "combo %d", id)
		}
		name, price, isActive = c.Name, c.Price, c.IsActive
	default:
		return nil, apperrors.Invariant("unknown sellable kind %q", kind)
	}

	if !isActive {
		return nil, apperrors.Inactive("%s %d is not available for sale", kind, id)
	}

	ref, err := models.NewLineRef(kind, id)
	if err != nil {
		return nil, err
	}
	return &ResolvedSellable{Ref: ref, Name: name, BasePrice: price}, nil
}

func (r *catalogRepository) ResolveComplementGroup(empresaID, groupID uint, kind models.LineKind, sellableID uint) (*models.Complement, error) {
	// A group may be linked to many sellables, but referencing an unlinked
	// group is an error, not a silent ignore.
	var link models.ComplementLink
	err := r.db.Where("complement_id = ? AND sellable_kind = ? AND sellable_id = ?", groupID, kind, sellableID).
		First(&link).Error
	if err != nil {
		return nil, notFoundOr(err, "complement group %d is not linked to %s %d", groupID, kind, sellableID)
	}

	var group models.Complement
	if err := r.db.Where("empresa_id = ?", empresaID).First(&group, groupID).Error; err != nil {
		return nil, notFoundOr(err, "complement group %d", groupID)
	}
	if !group.IsActive {
		return nil, apperrors.Inactive("complement group %d is disabled", groupID)
	}
	return &group, nil
}

func (r *catalogRepository) ResolveOption(groupID, optionID uint) (*ResolvedOption, error) {
	var membership models.ComplementOption
	err := r.db.Where("complement_id = ? AND adicional_id = ?", groupID, optionID).
		First(&membership).Error
	if err != nil {
		return nil, notFoundOr(err, "option %d is not a member of group %d", optionID, groupID)
	}

	var option models.Adicional
	if err := r.db.First(&option, optionID).Error; err != nil {
		return nil, notFoundOr(err, "option %d", optionID)
	}
	if !option.IsActive {
		return nil, apperrors.NotFound("option %d is not available", optionID)
	}

	return &ResolvedOption{
		AdicionalID:    option.ID,
		Name:           option.Name,
		EffectivePrice: effectiveOptionPrice(&membership, &option),
	}, nil
}

// effectiveOptionPrice is the per-group pricing rule: the membership record's
// override wins over the option's default price.
func effectiveOptionPrice(membership *models.ComplementOption, option *models.Adicional) decimal.Decimal {
	if membership.OverridePrice != nil {
		return *membership.OverridePrice
	}
	return option.Price
}

// SoleGroupForOption supports the legacy flat-option cart shape: it infers
// the group an ungrouped option belongs to, provided exactly one of the
// sellable's linked groups contains it.
func (r *catalogRepository) SoleGroupForOption(kind models.LineKind, sellableID, optionID uint) (uint, error) {
	var groupIDs []uint
	err := r.db.Model(&models.ComplementOption{}).
		Joins("JOIN complement_links ON complement_links.complement_id = complement_options.complement_id").
		Where("complement_links.sellable_kind = ? AND complement_links.sellable_id = ? AND complement_options.adicional_id = ?",
			kind, sellableID, optionID).
		Pluck("complement_options.complement_id", &groupIDs).Error
	if err != nil {
		return 0, err
	}
	switch len(groupIDs) {
	case 0:
		return 0, apperrors.NotFound("option %d is not linked to %s %d", optionID, kind, sellableID)
	case 1:
		return groupIDs[0], nil
	default:
		return 0, apperrors.InvalidInput("option %d belongs to %d groups of %s %d; grouped selection required",
			optionID, len(groupIDs), kind, sellableID)
	}
}

func (r *catalogRepository) GetPaymentMethod(empresaID, id uint) (*models.PaymentMethod, error) {
	var pm models.PaymentMethod
	if err := r.db.Where("empresa_id = ? AND is_active = ?", empresaID, true).First(&pm, id).Error; err != nil {
		return nil, notFoundOr(err, "payment method %d", id)
	}
	return &pm, nil
}

func notFoundOr(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(format, args...)
	}
	return err
}
