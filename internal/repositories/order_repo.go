package repositories

import (
	"errors"
	"time"

	"shopinpocket/internal/models"
)

// Sentinel errors shared by order repository implementations. The service
// layer maps these to business errors; handlers never see raw storage
// failures.
var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrStatusConflict means the order was not in the expected prior
	// status when a transition was attempted (the compare-and-swap
	// matched zero rows).
	ErrStatusConflict = errors.New("order not in expected status")
)

// OrderRepository defines the interface for order data access.
//
// Status transitions go through UpdateStatus, which is a compare-and-swap
// on the prior status, or through AcceptPending, which additionally
// adjusts product stock inside the same transaction.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	// GetByIDAndContact is the capability lookup: both the order ID and
	// an exact customer-contact match are required. A mismatch returns
	// ErrOrderNotFound, never the order.
	GetByIDAndContact(id, contact string) (*models.Order, error)
	GetByContact(contact string) ([]models.Order, error)
	// GetByShopID lists a shop's orders, newest first, optionally
	// filtered by status (empty status means all).
	GetByShopID(shopID string, status models.OrderStatus) ([]models.Order, error)
	GetAll() ([]models.Order, error)
	// UpdateStatus moves the order from one status to another, setting
	// the given timestamps when non-nil. Returns ErrStatusConflict if
	// the order is no longer in the expected prior status.
	UpdateStatus(id string, from, to models.OrderStatus, deliveredAt, receivedAt *time.Time) error
	// AcceptPending atomically moves a Pending order to Accepted and
	// reduces the product's stock by the order quantity, floored at
	// zero. Returns the refreshed order.
	AcceptPending(id string) (*models.Order, error)
	Delete(id string) error
}
