package repository

import (
	"order_manager/internal/models"

	"gorm.io/gorm"
)

// HistoryRepository reads the audit trail. Entries are written inside the
// order repository's transactions so they commit atomically with the
// mutation they record.
type HistoryRepository interface {
	GetByOrderID(orderID uint) ([]models.OrderHistoryEntry, error)
}

type historyRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) GetByOrderID(orderID uint) ([]models.OrderHistoryEntry, error) {
	var entries []models.OrderHistoryEntry
	err := r.db.Where("order_id = ?", orderID).Order("id ASC").Find(&entries).Error
	return entries, err
}
