package models

import (
	"time"

	"gorm.io/gorm"
)

type Empresa struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"not null"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

type PaymentMethod struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	EmpresaID uint           `json:"empresa_id" gorm:"not null;index"`
	Name      string         `json:"name" gorm:"not null"` // cash, card, pix
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}
