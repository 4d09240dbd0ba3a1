package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"order_manager/internal/apperrors"
	"order_manager/internal/models"
)

// sequencePrefixes formats the human-readable order number per channel.
var sequencePrefixes = map[models.Channel]string{
	models.ChannelDelivery: "DLV",
	models.ChannelTable:    "TBL",
	models.ChannelCounter:  "CTR",
}

type OrderFilter struct {
	Channel *models.Channel
	Status  *models.OrderStatus
}

type OrderRepository interface {
	// CreateOrder persists the order with its lines, selections, the creation
	// history entry and the sequence-number allocation as one transaction.
	CreateOrder(order *models.Order, actorID uint) error
	GetByID(empresaID, id uint) (*models.Order, error)
	List(empresaID uint, filter OrderFilter) ([]models.Order, error)
	// SaveWithVersion writes status/paid/monetary fields guarded by the
	// optimistic version check and appends the history entry in the same
	// transaction. A stale version fails with Conflict.
	SaveWithVersion(order *models.Order, entry *models.OrderHistoryEntry) error
	// AddLine inserts a composed line, refreshes the order totals under the
	// version check and appends the item-added history entry atomically.
	AddLine(order *models.Order, line *models.OrderLine, entry *models.OrderHistoryEntry) error
	// RemoveLine deletes one line (with its selections), refreshes totals
	// under the version check and appends the item-removed entry atomically.
	RemoveLine(order *models.Order, lineID uint, entry *models.OrderHistoryEntry) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrder(order *models.Order, actorID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		seq, err := allocateSequence(tx, order.EmpresaID, order.Channel)
		if err != nil {
			return err
		}
		order.SequenceNumber = seq
		order.Status = models.StatusPending
		order.Version = 1

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		entry := &models.OrderHistoryEntry{
			OrderID:   order.ID,
			NewStatus: models.StatusPending,
			Operation: models.OpCreated,
			ActorID:   actorID,
			CreatedAt: time.Now(),
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to record order creation: %w", err)
		}
		return nil
	})
}

// allocateSequence locks the per-(empresa, channel) counter row FOR UPDATE,
// so two concurrent finalizes never receive the same number.
func allocateSequence(tx *gorm.DB, empresaID uint, channel models.Channel) (string, error) {
	var counter models.OrderCounter
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("empresa_id = ? AND channel = ?", empresaID, channel).
		First(&counter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		counter = models.OrderCounter{EmpresaID: empresaID, Channel: channel}
		if err := tx.Create(&counter).Error; err != nil {
			return "", fmt.Errorf("failed to create order counter: %w", err)
		}
	} else if err != nil {
		return "", fmt.Errorf("failed to lock order counter: %w", err)
	}

	counter.LastValue++
	if err := tx.Save(&counter).Error; err != nil {
		return "", fmt.Errorf("failed to advance order counter: %w", err)
	}
	return fmt.Sprintf("%s-%06d", sequencePrefixes[channel], counter.LastValue), nil
}

func (r *orderRepository) GetByID(empresaID, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Where("empresa_id = ?", empresaID).
		Preload("Lines.Complements.Options").
		First(&order, id).Error
	if err != nil {
		return nil, notFoundOr(err, "order %d", id)
	}
	return &order, nil
}

func (r *orderRepository) List(empresaID uint, filter OrderFilter) ([]models.Order, error) {
	q := r.db.Where("empresa_id = ?", empresaID)
	if filter.Channel != nil {
		q = q.Where("channel = ?", *filter.Channel)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	var orders []models.Order
	err := q.Order("id DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) SaveWithVersion(order *models.Order, entry *models.OrderHistoryEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := updateVersioned(tx, order); err != nil {
			return err
		}
		entry.OrderID = order.ID
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to append order history: %w", err)
		}
		return nil
	})
}

func (r *orderRepository) AddLine(order *models.Order, line *models.OrderLine, entry *models.OrderHistoryEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		line.OrderID = order.ID
		if err := tx.Create(line).Error; err != nil {
			return fmt.Errorf("failed to insert order line: %w", err)
		}
		if err := updateVersioned(tx, order); err != nil {
			return err
		}
		entry.OrderID = order.ID
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to append order history: %w", err)
		}
		return nil
	})
}

func (r *orderRepository) RemoveLine(order *models.Order, lineID uint, entry *models.OrderHistoryEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var line models.OrderLine
		err := tx.Where("order_id = ?", order.ID).First(&line, lineID).Error
		if err != nil {
			return notFoundOr(err, "line %d on order %d", lineID, order.ID)
		}

		var selectionIDs []uint
		if err := tx.Model(&models.ComplementSelection{}).
			Where("order_line_id = ?", line.ID).
			Pluck("id", &selectionIDs).Error; err != nil {
			return err
		}
		if len(selectionIDs) > 0 {
			if err := tx.Where("selection_id IN ?", selectionIDs).
				Delete(&models.AdicionalSelection{}).Error; err != nil {
				return err
			}
			if err := tx.Where("order_line_id = ?", line.ID).
				Delete(&models.ComplementSelection{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&line).Error; err != nil {
			return fmt.Errorf("failed to delete order line: %w", err)
		}

		if err := updateVersioned(tx, order); err != nil {
			return err
		}
		entry.OrderID = order.ID
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to append order history: %w", err)
		}
		return nil
	})
}

// updateVersioned writes the state-machine-owned columns only when the
// caller's version still matches, then bumps it. Zero rows affected means a
// concurrent writer won; the caller must re-read and retry.
func updateVersioned(tx *gorm.DB, order *models.Order) error {
	expected := order.Version
	res := tx.Model(&models.Order{}).
		Where("id = ? AND version = ?", order.ID, expected).
		Updates(map[string]interface{}{
			"status":            order.Status,
			"paid":              order.Paid,
			"payment_method_id": order.PaymentMethodID,
			"change_due":        order.ChangeDue,
			"subtotal":          order.Subtotal,
			"discount":          order.Discount,
			"delivery_fee":      order.DeliveryFee,
			"service_fee":       order.ServiceFee,
			"grand_total":       order.GrandTotal,
			"version":           expected + 1,
			"updated_at":        time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.Conflict("order %d was modified concurrently", order.ID)
	}
	order.Version = expected + 1
	return nil
}
