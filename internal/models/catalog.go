package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	EmpresaID uint            `json:"empresa_id" gorm:"not null;index"`
	Name      string          `json:"name" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	IsActive  bool            `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `json:"deleted_at" gorm:"index"`
}

type Recipe struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	EmpresaID uint            `json:"empresa_id" gorm:"not null;index"`
	Name      string          `json:"name" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	IsActive  bool            `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `json:"deleted_at" gorm:"index"`
}

type Combo struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	EmpresaID uint            `json:"empresa_id" gorm:"not null;index"`
	Name      string          `json:"name" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	IsActive  bool            `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `json:"deleted_at" gorm:"index"`
}

// Complement is a group of selectable add-on options. The selection-rule
// fields drive validation at checkout time:
//   - Obrigatorio: at least one unit across the group's options is required.
//   - Quantitativo: an option's quantity may exceed 1.
//   - PermiteMultiplaEscolha: more than one distinct option may be chosen.
//   - MinimoItens/MaximoItens: inclusive bounds on the sum of selected
//     quantities; nil means unbounded.
type Complement struct {
	ID                    uint           `json:"id" gorm:"primaryKey"`
	EmpresaID             uint           `json:"empresa_id" gorm:"not null;index"`
	Name                  string         `json:"name" gorm:"not null"`
	Obrigatorio           bool           `json:"obrigatorio" gorm:"default:false"`
	Quantitativo          bool           `json:"quantitativo" gorm:"default:true"`
	PermiteMultiplaEscolha bool          `json:"permite_multipla_escolha" gorm:"default:true"`
	MinimoItens           *int           `json:"minimo_itens"`
	MaximoItens           *int           `json:"maximo_itens"`
	IsActive              bool           `json:"is_active" gorm:"default:true"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

type Adicional struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	EmpresaID uint            `json:"empresa_id" gorm:"not null;index"`
	Name      string          `json:"name" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	IsActive  bool            `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `json:"deleted_at" gorm:"index"`
}

// ComplementLink attaches a complement group to one sellable entity. A group
// may be linked to many sellables; orders only ever reference groups through
// a valid link.
type ComplementLink struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ComplementID uint      `json:"complement_id" gorm:"not null;index:idx_complement_link,unique"`
	SellableKind LineKind  `json:"sellable_kind" gorm:"not null;index:idx_complement_link,unique"`
	SellableID   uint      `json:"sellable_id" gorm:"not null;index:idx_complement_link,unique"`
	DisplayOrder int       `json:"display_order" gorm:"default:0"`
	CreatedAt    time.Time `json:"created_at"`
}

// ComplementOption attaches an adicional to a complement group, optionally
// overriding its default price inside that group.
type ComplementOption struct {
	ID            uint             `json:"id" gorm:"primaryKey"`
	ComplementID  uint             `json:"complement_id" gorm:"not null;index:idx_complement_option,unique"`
	AdicionalID   uint             `json:"adicional_id" gorm:"not null;index:idx_complement_option,unique"`
	OverridePrice *decimal.Decimal `json:"override_price" gorm:"type:decimal(10,2)"`
	DisplayOrder  int              `json:"display_order" gorm:"default:0"`
	CreatedAt     time.Time        `json:"created_at"`
}
