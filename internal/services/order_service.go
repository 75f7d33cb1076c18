package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"shopinpocket/internal/models"
	"shopinpocket/internal/repositories"
	"shopinpocket/pkg/phone"
)

// Business errors surfaced by order operations.
var (
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("transition not allowed from current status")
	ErrFinalState        = errors.New("order is in a final status")
	ErrInsufficientStock = errors.New("insufficient stock for requested quantity")
	ErrInvalidContact    = errors.New("customer contact is not a usable phone number")
)

// Allowed transitions per actor. Anything absent here is rejected
// server-side, including state skips like Pending straight to Received.
var (
	sellerTransitions = map[models.OrderStatus][]models.OrderStatus{
		models.StatusPending:  {models.StatusAccepted, models.StatusRejected},
		models.StatusAccepted: {models.StatusDelivered},
	}
	customerTransitions = map[models.OrderStatus][]models.OrderStatus{
		models.StatusDelivered: {models.StatusReceived},
	}
)

// EventPublisher publishes order events to the message broker.
// *rabbitmq.Client satisfies it.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// Routing keys for published order events.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"

	ordersExchange = "orders"
)

// OrderService handles the order lifecycle: anonymous placement, the
// seller's accept/reject/deliver actions, and the customer's receipt
// confirmation through the capability link.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	shopRepo    repositories.ShopRepository
	publisher   EventPublisher
	baseURL     string
}

// NewOrderService creates a new OrderService. publisher may be nil, in
// which case events are skipped.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, shopRepo repositories.ShopRepository, publisher EventPublisher, baseURL string) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		shopRepo:    shopRepo,
		publisher:   publisher,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

// PlaceOrder creates a Pending order against a product of the shop behind
// slug. The customer contact is normalized before storage so later
// lookups by contact are exact.
func (s *OrderService) PlaceOrder(slug string, order *models.Order) (*models.Order, error) {
	shop, err := s.shopRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(order.ProductID)
	if err != nil {
		return nil, err
	}
	// A product from another shop must look like it does not exist here.
	if product.ShopID != shop.ID {
		return nil, repositories.ErrProductNotFound
	}

	if !phone.ValidContact(order.CustomerContact) {
		return nil, ErrInvalidContact
	}
	order.CustomerContact = phone.Normalize(order.CustomerContact)

	if product.Stock < order.Quantity {
		return nil, fmt.Errorf("%w: requested %d, available %d", ErrInsufficientStock, order.Quantity, product.Stock)
	}

	order.Status = models.StatusPending
	order.DeliveredAt = nil
	order.ReceivedAt = nil
	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}
	order.Product = product

	s.publishEvent(EventOrderCreated, order)
	return order, nil
}

// ListShopOrders lists the shop's orders, optionally filtered by status.
func (s *OrderService) ListShopOrders(shopID string, status models.OrderStatus) ([]models.Order, error) {
	if status != "" && !models.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	return s.orderRepo.GetByShopID(shopID, status)
}

// GetShopOrder loads one order and verifies the shop owns it.
func (s *OrderService) GetShopOrder(orderID, shopID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Product == nil || order.Product.ShopID != shopID {
		return nil, ErrForbidden
	}
	return order, nil
}

// SellerTransition applies one of the seller's actions (Accept, Reject,
// Mark Delivered) to an order of their shop. Accept also reduces the
// product's stock by the order quantity, floored at zero, in the same
// database transaction as the status write.
func (s *OrderService) SellerTransition(orderID, shopID string, target models.OrderStatus) (*models.Order, error) {
	order, err := s.GetShopOrder(orderID, shopID)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(order.Status, target, sellerTransitions); err != nil {
		return nil, err
	}

	switch target {
	case models.StatusAccepted:
		order, err = s.orderRepo.AcceptPending(orderID)
	case models.StatusDelivered:
		now := time.Now()
		err = s.orderRepo.UpdateStatus(orderID, order.Status, target, &now, nil)
	default:
		err = s.orderRepo.UpdateStatus(orderID, order.Status, target, nil, nil)
	}
	if err != nil {
		return nil, err
	}

	if target != models.StatusAccepted {
		if order, err = s.orderRepo.GetByID(orderID); err != nil {
			return nil, err
		}
	}
	s.publishEvent(EventOrderStatusChanged, order)
	return order, nil
}

// LookupOrder resolves an order through the capability pair: order ID
// plus exact customer contact. A mismatch on either reads as not found.
func (s *OrderService) LookupOrder(orderID, contact string) (*models.Order, error) {
	if !phone.ValidContact(contact) {
		return nil, repositories.ErrOrderNotFound
	}
	return s.orderRepo.GetByIDAndContact(orderID, phone.Normalize(contact))
}

// ConfirmReceipt is the customer's confirmation that a delivered order
// arrived. Only Delivered orders can be confirmed; the status write is a
// compare-and-swap so a double submission changes nothing.
func (s *OrderService) ConfirmReceipt(orderID, contact string) (*models.Order, error) {
	order, err := s.LookupOrder(orderID, contact)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(order.Status, models.StatusReceived, customerTransitions); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.orderRepo.UpdateStatus(orderID, order.Status, models.StatusReceived, nil, &now); err != nil {
		return nil, err
	}
	if order, err = s.orderRepo.GetByID(orderID); err != nil {
		return nil, err
	}
	s.publishEvent(EventOrderStatusChanged, order)
	return order, nil
}

// OrdersForContact lists every order placed with a contact string,
// newest first.
func (s *OrderService) OrdersForContact(contact string) ([]models.Order, error) {
	if !phone.ValidContact(contact) {
		return nil, ErrInvalidContact
	}
	return s.orderRepo.GetByContact(phone.Normalize(contact))
}

// DeleteShopOrder removes an order of the caller's shop.
func (s *OrderService) DeleteShopOrder(orderID, shopID string) error {
	if _, err := s.GetShopOrder(orderID, shopID); err != nil {
		return err
	}
	return s.orderRepo.Delete(orderID)
}

// ConfirmationLink builds the capability URL a seller shares with the
// customer: {base}/confirm-order?order_id={id}&phone={contact}.
func (s *OrderService) ConfirmationLink(orderID, shopID string) (string, error) {
	order, err := s.GetShopOrder(orderID, shopID)
	if err != nil {
		return "", err
	}
	params := url.Values{}
	params.Set("order_id", order.ID)
	params.Set("phone", order.CustomerContact)
	return fmt.Sprintf("%s/confirm-order?%s", s.baseURL, params.Encode()), nil
}

// checkTransition validates a requested status change against an actor's
// transition table.
func checkTransition(current, target models.OrderStatus, allowed map[models.OrderStatus][]models.OrderStatus) error {
	if !models.ValidStatus(target) {
		return ErrInvalidStatus
	}
	if models.TerminalStatus(current) {
		return ErrFinalState
	}
	for _, next := range allowed[current] {
		if next == target {
			return nil
		}
	}
	return ErrInvalidTransition
}

func (s *OrderService) publishEvent(routingKey string, order *models.Order) {
	if s.publisher == nil {
		return
	}
	event := map[string]interface{}{
		"order_id":   order.ID,
		"product_id": order.ProductID,
		"quantity":   order.Quantity,
		"status":     order.Status,
	}
	if order.Product != nil {
		event["shop_id"] = order.Product.ShopID
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal %s event for order %s: %v", routingKey, order.ID, err)
		return
	}
	if err := s.publisher.Publish(ordersExchange, routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", routingKey, order.ID, err)
	}
}
