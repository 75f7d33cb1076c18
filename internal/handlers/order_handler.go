package handlers

import (
	"errors"
	"log"

	"shopinpocket/internal/models"
	"shopinpocket/internal/repositories"
	"shopinpocket/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles the seller's order management surface: listing and
// filtering orders, the Accept/Reject/Deliver actions, deletion, and the
// confirmation link.
type OrderHandler struct {
	orderService *services.OrderService
	shopService  *services.ShopService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *services.OrderService, shopService *services.ShopService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		shopService:  shopService,
	}
}

// RegisterRoutes registers the order routes with the Fiber app. The
// router must be behind AuthRequired.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Get("/:id", h.HandleGetOrder)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
	orderRoutes.Delete("/:id", h.HandleDeleteOrder)
	orderRoutes.Get("/:id/confirmation-link", h.HandleConfirmationLink)
}

func (h *OrderHandler) callerShop(c *fiber.Ctx) (*models.Shop, error) {
	shop, err := h.shopService.GetForUser(callerID(c))
	if err != nil {
		if errors.Is(err, repositories.ErrShopNotFound) {
			return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Create your shop before managing orders",
			})
		}
		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not resolve your shop",
			"error":   err.Error(),
		})
	}
	return shop, nil
}

// HandleListOrders lists the caller's orders, optionally filtered by
// ?status=.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	shop, err := h.callerShop(c)
	if shop == nil {
		return err
	}

	status := models.OrderStatus(c.Query("status"))
	orders, err := h.orderService.ListShopOrders(shop.ID, status)
	if err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Unknown order status filter",
			})
		}
		log.Printf("Error listing orders for shop %s: %v", shop.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleGetOrder retrieves one of the caller's orders.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	shop, err := h.callerShop(c)
	if shop == nil {
		return err
	}

	order, err := h.orderService.GetShopOrder(c.Params("id"), shop.ID)
	if err != nil {
		return h.orderError(c, c.Params("id"), err)
	}
	return c.JSON(order)
}

// StatusUpdateRequest is the body of a seller transition request.
type StatusUpdateRequest struct {
	Status models.OrderStatus `json:"status"`
}

// HandleUpdateOrderStatus applies a seller action to an order. Accepting
// also reduces the product's stock by the order quantity.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	shop, err := h.callerShop(c)
	if shop == nil {
		return err
	}

	var req StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}
	if req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for order status update",
		})
	}

	order, err := h.orderService.SellerTransition(c.Params("id"), shop.ID, req.Status)
	if err != nil {
		return h.orderError(c, c.Params("id"), err)
	}
	return c.JSON(order)
}

// HandleDeleteOrder removes one of the caller's orders.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	shop, err := h.callerShop(c)
	if shop == nil {
		return err
	}

	if err := h.orderService.DeleteShopOrder(c.Params("id"), shop.ID); err != nil {
		return h.orderError(c, c.Params("id"), err)
	}
	return c.JSON(fiber.Map{
		"message": "Order deleted successfully",
	})
}

// HandleConfirmationLink returns the capability URL the seller shares
// with the customer for receipt confirmation.
func (h *OrderHandler) HandleConfirmationLink(c *fiber.Ctx) error {
	shop, err := h.callerShop(c)
	if shop == nil {
		return err
	}

	link, err := h.orderService.ConfirmationLink(c.Params("id"), shop.ID)
	if err != nil {
		return h.orderError(c, c.Params("id"), err)
	}
	return c.JSON(fiber.Map{
		"link": link,
	})
}

// orderError maps order business errors onto HTTP statuses.
func (h *OrderHandler) orderError(c *fiber.Ctx, orderID string, err error) error {
	switch {
	case errors.Is(err, repositories.ErrOrderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Order not found",
		})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "This order belongs to another shop",
		})
	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrFinalState):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Transition not allowed",
			"error":   err.Error(),
		})
	case errors.Is(err, repositories.ErrStatusConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Order status changed concurrently, reload and retry",
		})
	}
	log.Printf("Error on order %s: %v", orderID, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Could not process order",
		"error":   err.Error(),
	})
}
