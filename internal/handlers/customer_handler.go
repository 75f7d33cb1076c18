package handlers

import (
	"errors"
	"log"

	"shopinpocket/internal/models"
	"shopinpocket/internal/repositories"
	"shopinpocket/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CustomerHandler handles the public, unauthenticated surface: the
// storefront page, anonymous order placement, the capability-URL
// confirmation flow, and the your-orders listing by contact.
type CustomerHandler struct {
	shopService    *services.ShopService
	productService *services.ProductService
	orderService   *services.OrderService
	validate       *validator.Validate
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(shopService *services.ShopService, productService *services.ProductService, orderService *services.OrderService) *CustomerHandler {
	return &CustomerHandler{
		shopService:    shopService,
		productService: productService,
		orderService:   orderService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the public routes with the Fiber app.
func (h *CustomerHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/shops/:slug", h.HandleGetStorefront)
	router.Post("/shops/:slug/orders", h.HandlePlaceOrder)
	router.Get("/confirm-order", h.HandleLookupOrder)
	router.Post("/confirm-order", h.HandleConfirmReceipt)
	router.Get("/your-orders", h.HandleYourOrders)
}

// HandleGetStorefront returns a shop and its products by slug.
func (h *CustomerHandler) HandleGetStorefront(c *fiber.Ctx) error {
	slug := c.Params("slug")
	shop, err := h.shopService.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, repositories.ErrShopNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Shop not found",
			})
		}
		log.Printf("Error getting shop %s: %v", slug, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve shop",
			"error":   err.Error(),
		})
	}

	products, err := h.productService.ListForShop(shop.ID)
	if err != nil {
		log.Printf("Error listing products for shop %s: %v", shop.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"shop":     shop,
		"products": products,
	})
}

// HandlePlaceOrder creates a Pending order from an anonymous customer.
func (h *CustomerHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	var order models.Order
	if err := c.BodyParser(&order); err != nil {
		log.Printf("Error parsing order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(order); err != nil {
		return validationError(c, err)
	}

	created, err := h.orderService.PlaceOrder(c.Params("slug"), &order)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrShopNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Shop not found",
			})
		case errors.Is(err, repositories.ErrProductNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found in this shop",
			})
		case errors.Is(err, services.ErrInsufficientStock):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Order creation failed due to insufficient stock",
				"error":   err.Error(),
			})
		case errors.Is(err, services.ErrInvalidContact):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Please provide a valid phone number",
			})
		}
		log.Printf("Error creating order: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create order",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleLookupOrder resolves the capability URL: ?order_id=&phone=. Both
// must match exactly or the order reads as not found.
func (h *CustomerHandler) HandleLookupOrder(c *fiber.Ctx) error {
	orderID := c.Query("order_id")
	contact := c.Query("phone")
	if orderID == "" || contact == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "order_id and phone query parameters are required",
		})
	}

	order, err := h.orderService.LookupOrder(orderID, contact)
	if err != nil {
		return h.customerOrderError(c, err)
	}
	return c.JSON(order)
}

// ConfirmReceiptRequest is the body of a customer confirmation.
type ConfirmReceiptRequest struct {
	OrderID string `json:"order_id" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
}

// HandleConfirmReceipt records the customer's receipt confirmation
// (Delivered to Received).
func (h *CustomerHandler) HandleConfirmReceipt(c *fiber.Ctx) error {
	var req ConfirmReceiptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	order, err := h.orderService.ConfirmReceipt(req.OrderID, req.Phone)
	if err != nil {
		return h.customerOrderError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Receipt confirmed, the seller has been notified",
		"order":   order,
	})
}

// HandleYourOrders lists all orders placed with a contact string.
func (h *CustomerHandler) HandleYourOrders(c *fiber.Ctx) error {
	contact := c.Query("phone")
	if contact == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "phone query parameter is required",
		})
	}

	orders, err := h.orderService.OrdersForContact(contact)
	if err != nil {
		if errors.Is(err, services.ErrInvalidContact) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Please provide a valid phone number",
			})
		}
		log.Printf("Error listing orders by contact: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

func (h *CustomerHandler) customerOrderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repositories.ErrOrderNotFound):
		// Wrong contact and missing order are indistinguishable on purpose.
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Order not found or invalid access",
		})
	case errors.Is(err, services.ErrInvalidTransition), errors.Is(err, services.ErrFinalState):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "This order cannot be confirmed yet",
			"error":   err.Error(),
		})
	case errors.Is(err, repositories.ErrStatusConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Order status changed, reload and retry",
		})
	}
	log.Printf("Error on customer order access: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Could not process order",
		"error":   err.Error(),
	})
}
