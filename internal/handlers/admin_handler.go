package handlers

import (
	"log"

	"shopinpocket/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the platform-wide admin views.
type AdminHandler struct {
	adminService *services.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// RegisterRoutes registers the admin routes with the Fiber app. The
// router must be behind AuthRequired and AdminRequired.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	adminRoutes := router.Group("/admin")
	adminRoutes.Get("/stats", h.HandleStats)
	adminRoutes.Get("/shops", h.HandleListShops)
	adminRoutes.Get("/products", h.HandleListProducts)
	adminRoutes.Get("/orders", h.HandleListOrders)
}

// HandleStats returns platform counts and revenue.
func (h *AdminHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.adminService.PlatformStats()
	if err != nil {
		log.Printf("Error computing platform stats: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not compute platform stats",
			"error":   err.Error(),
		})
	}
	return c.JSON(stats)
}

// HandleListShops lists every shop.
func (h *AdminHandler) HandleListShops(c *fiber.Ctx) error {
	shops, err := h.adminService.ListShops()
	if err != nil {
		log.Printf("Error listing shops: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve shops",
			"error":   err.Error(),
		})
	}
	return c.JSON(shops)
}

// HandleListProducts lists every product.
func (h *AdminHandler) HandleListProducts(c *fiber.Ctx) error {
	products, err := h.adminService.ListProducts()
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(products)
}

// HandleListOrders lists every order.
func (h *AdminHandler) HandleListOrders(c *fiber.Ctx) error {
	orders, err := h.adminService.ListOrders()
	if err != nil {
		log.Printf("Error listing orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}
