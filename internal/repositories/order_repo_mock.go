package repositories

import (
	"sort"
	"sync"
	"time"

	"shopinpocket/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
// It needs the product repository to resolve products for shop-scoped
// listings and to adjust stock on acceptance.
type MockOrderRepository struct {
	orders   map[string]models.Order
	products *MockProductRepository
	mu       sync.Mutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository(products *MockProductRepository) *MockOrderRepository {
	return &MockOrderRepository{
		orders:   make(map[string]models.Order),
		products: products,
	}
}

// Create adds a new order.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	r.orders[order.ID] = *order
	return nil
}

func (r *MockOrderRepository) withProduct(order models.Order) models.Order {
	if p, err := r.products.GetByID(order.ProductID); err == nil {
		order.Product = p
	}
	return order
}

// GetByID returns an order with its product attached.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	order = r.withProduct(order)
	return &order, nil
}

// GetByIDAndContact returns an order only on an exact id+contact match.
func (r *MockOrderRepository) GetByIDAndContact(id, contact string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok || order.CustomerContact != contact {
		return nil, ErrOrderNotFound
	}
	order = r.withProduct(order)
	return &order, nil
}

// GetByContact returns all orders for a contact string, newest first.
func (r *MockOrderRepository) GetByContact(contact string) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var orders []models.Order
	for _, o := range r.orders {
		if o.CustomerContact == contact {
			orders = append(orders, r.withProduct(o))
		}
	}
	sortNewestFirst(orders)
	return orders, nil
}

// GetByShopID returns a shop's orders, optionally filtered by status.
func (r *MockOrderRepository) GetByShopID(shopID string, status models.OrderStatus) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var orders []models.Order
	for _, o := range r.orders {
		p, err := r.products.GetByID(o.ProductID)
		if err != nil || p.ShopID != shopID {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		o.Product = p
		orders = append(orders, o)
	}
	sortNewestFirst(orders)
	return orders, nil
}

// GetAll returns every order.
func (r *MockOrderRepository) GetAll() ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders := make([]models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		orders = append(orders, r.withProduct(o))
	}
	sortNewestFirst(orders)
	return orders, nil
}

// UpdateStatus applies a compare-and-swap status transition.
func (r *MockOrderRepository) UpdateStatus(id string, from, to models.OrderStatus, deliveredAt, receivedAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	if order.Status != from {
		return ErrStatusConflict
	}
	order.Status = to
	order.UpdatedAt = time.Now()
	if deliveredAt != nil {
		order.DeliveredAt = deliveredAt
	}
	if receivedAt != nil {
		order.ReceivedAt = receivedAt
	}
	r.orders[id] = order
	return nil
}

// AcceptPending accepts a Pending order and decrements the product stock,
// floored at zero, under the repository lock.
func (r *MockOrderRepository) AcceptPending(id string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	if order.Status != models.StatusPending {
		return nil, ErrStatusConflict
	}

	product, err := r.products.GetByID(order.ProductID)
	if err != nil {
		return nil, err
	}
	newStock := product.Stock - order.Quantity
	if newStock < 0 {
		newStock = 0
	}
	product.Stock = newStock
	if err := r.products.Update(product); err != nil {
		return nil, err
	}

	order.Status = models.StatusAccepted
	order.UpdatedAt = time.Now()
	r.orders[id] = order

	order.Product = product
	return &order, nil
}

// Delete removes an order by its ID.
func (r *MockOrderRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return ErrOrderNotFound
	}
	delete(r.orders, id)
	return nil
}

func sortNewestFirst(orders []models.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
