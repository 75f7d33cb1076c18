package models

import "time"

// OrderStatus is an order's position in its lifecycle.
type OrderStatus string

// Lifecycle statuses. Pending moves to Accepted or Rejected by the
// seller, Accepted to Delivered by the seller, and Delivered to Received
// by the customer. Rejected, Received and Completed are terminal.
// Completed only appears on records carried over from the legacy system;
// no transition produces it.
const (
	StatusPending   OrderStatus = "Pending"
	StatusAccepted  OrderStatus = "Accepted"
	StatusDelivered OrderStatus = "Delivered"
	StatusReceived  OrderStatus = "Received"
	StatusCompleted OrderStatus = "Completed"
	StatusRejected  OrderStatus = "Rejected"
)

// ValidStatus reports whether s is a known lifecycle status.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDelivered, StatusReceived, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// TerminalStatus reports whether s admits no further transitions.
func TerminalStatus(s OrderStatus) bool {
	return s == StatusRejected || s == StatusReceived || s == StatusCompleted
}

// Order is a customer's request to purchase a quantity of a product.
// Orders are placed anonymously; CustomerContact (a normalized phone
// number) together with the order ID acts as the customer's access key.
type Order struct {
	ID               string      `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	ProductID        string      `json:"product_id" gorm:"index;type:varchar(36)" validate:"required"`
	CustomerName     string      `json:"customer_name" validate:"required,min=2,max=100"`
	CustomerContact  string      `json:"customer_contact" gorm:"index;type:varchar(50)" validate:"required,min=9,max=50"`
	DeliveryAddress  string      `json:"delivery_address" validate:"required,max=255"`
	DeliveryLocation string      `json:"delivery_location" validate:"omitempty,max=255"`
	Quantity         int         `json:"quantity" validate:"required,gte=1"`
	Note             string      `json:"note" validate:"omitempty,max=500"`
	Status           OrderStatus `json:"status" gorm:"type:varchar(20);index"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
	DeliveredAt      *time.Time  `json:"delivered_at,omitempty"`
	ReceivedAt       *time.Time  `json:"received_at,omitempty"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// Total is the order value at the product's current price.
func (o *Order) Total() float64 {
	if o.Product == nil {
		return 0
	}
	return float64(o.Quantity) * o.Product.Price
}
