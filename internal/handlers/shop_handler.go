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

// ShopHandler handles the seller's shop-settings surface.
type ShopHandler struct {
	shopService *services.ShopService
	validate    *validator.Validate
}

// NewShopHandler creates a new ShopHandler.
func NewShopHandler(shopService *services.ShopService) *ShopHandler {
	return &ShopHandler{
		shopService: shopService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the shop routes with the Fiber app. The router
// must be behind AuthRequired.
func (h *ShopHandler) RegisterRoutes(router fiber.Router) {
	shopRoutes := router.Group("/shop")
	shopRoutes.Get("/", h.HandleGetShop)
	shopRoutes.Put("/", h.HandleSaveShop)
	shopRoutes.Get("/link", h.HandleGetShopLink)
}

// HandleGetShop returns the caller's shop.
func (h *ShopHandler) HandleGetShop(c *fiber.Ctx) error {
	shop, err := h.shopService.GetForUser(callerID(c))
	if err != nil {
		if errors.Is(err, repositories.ErrShopNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "You have not created a shop yet",
			})
		}
		log.Printf("Error getting shop for user %s: %v", callerID(c), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve shop",
			"error":   err.Error(),
		})
	}
	return c.JSON(shop)
}

// HandleSaveShop creates the caller's shop on first save, updates it after.
func (h *ShopHandler) HandleSaveShop(c *fiber.Ctx) error {
	var shop models.Shop
	if err := c.BodyParser(&shop); err != nil {
		log.Printf("Error parsing shop request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(shop); err != nil {
		return validationError(c, err)
	}

	saved, err := h.shopService.Save(callerID(c), &shop)
	if err != nil {
		if errors.Is(err, services.ErrSlugTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "That shop URL slug is already taken",
			})
		}
		log.Printf("Error saving shop for user %s: %v", callerID(c), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not save shop",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Shop saved successfully",
		"shop":    saved,
	})
}

// HandleGetShopLink returns the shareable public storefront URL.
func (h *ShopHandler) HandleGetShopLink(c *fiber.Ctx) error {
	shop, err := h.shopService.GetForUser(callerID(c))
	if err != nil {
		if errors.Is(err, repositories.ErrShopNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "You have not created a shop yet",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve shop",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"link": h.shopService.PublicLink(shop),
	})
}
