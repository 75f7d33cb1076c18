package repositories

import (
	"fmt"
	"time"

	"shopinpocket/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create inserts a new order.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID retrieves a single order with its product.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Product").First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// GetByIDAndContact retrieves an order only when both the ID and the
// customer contact match exactly.
func (r *GORMOrderRepository) GetByIDAndContact(id, contact string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Product").
		First(&order, "id = ? AND customer_contact = ?", id, contact).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order %s by contact: %w", id, err)
	}
	return &order, nil
}

// GetByContact lists all orders placed with a contact string, newest first.
func (r *GORMOrderRepository) GetByContact(contact string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Product").
		Where("customer_contact = ?", contact).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get orders by contact: %w", err)
	}
	return orders, nil
}

// GetByShopID lists a shop's orders via the product join, newest first.
func (r *GORMOrderRepository) GetByShopID(shopID string, status models.OrderStatus) ([]models.Order, error) {
	q := r.db.Preload("Product").
		Joins("JOIN products ON products.id = orders.product_id").
		Where("products.shop_id = ?", shopID).
		Order("orders.created_at DESC")
	if status != "" {
		q = q.Where("orders.status = ?", status)
	}
	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders for shop %s: %w", shopID, err)
	}
	return orders, nil
}

// GetAll retrieves every order on the platform.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Product").Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus is a compare-and-swap: the row is updated only if it is
// still in the expected prior status. Zero rows affected means either the
// order is gone or another writer transitioned it first.
func (r *GORMOrderRepository) UpdateStatus(id string, from, to models.OrderStatus, deliveredAt, receivedAt *time.Time) error {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	}
	if deliveredAt != nil {
		updates["delivered_at"] = *deliveredAt
	}
	if receivedAt != nil {
		updates["received_at"] = *receivedAt
	}

	res := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update status of order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&models.Order{}).Where("id = ?", id).Count(&count).Error; err == nil && count == 0 {
			return ErrOrderNotFound
		}
		return ErrStatusConflict
	}
	return nil
}

// AcceptPending moves a Pending order to Accepted and decrements the
// product's stock, both inside one transaction. The status write is a
// compare-and-swap and the stock write is conditional on availability, so
// concurrent accepts serialize and stock never goes negative.
func (r *GORMOrderRepository) AcceptPending(id string) (*models.Order, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to load order %s: %w", id, err)
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", id, models.StatusPending).
			Updates(map[string]interface{}{
				"status":     models.StatusAccepted,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return fmt.Errorf("failed to accept order %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrStatusConflict
		}

		// Decrement only if the full quantity is available; otherwise
		// floor the stock at zero.
		res = tx.Model(&models.Product{}).
			Where("id = ? AND stock >= ?", order.ProductID, order.Quantity).
			UpdateColumn("stock", gorm.Expr("stock - ?", order.Quantity))
		if res.Error != nil {
			return fmt.Errorf("failed to adjust stock for product %s: %w", order.ProductID, res.Error)
		}
		if res.RowsAffected == 0 {
			if err := tx.Model(&models.Product{}).
				Where("id = ?", order.ProductID).
				UpdateColumn("stock", 0).Error; err != nil {
				return fmt.Errorf("failed to floor stock for product %s: %w", order.ProductID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// Delete removes an order by its ID.
func (r *GORMOrderRepository) Delete(id string) error {
	res := r.db.Delete(&models.Order{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
