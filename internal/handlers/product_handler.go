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

// ProductHandler handles the seller's product management surface. Every
// route resolves the caller's shop first; product access is scoped to it.
type ProductHandler struct {
	productService *services.ProductService
	shopService    *services.ShopService
	validate       *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService, shopService *services.ShopService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		shopService:    shopService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app. The
// router must be behind AuthRequired.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// callerShop resolves the authenticated caller's shop, or replies 404.
func (h *ProductHandler) callerShop(c *fiber.Ctx) (*models.Shop, error) {
	shop, err := h.shopService.GetForUser(callerID(c))
	if err != nil {
		if errors.Is(err, repositories.ErrShopNotFound) {
			return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Create your shop before managing products",
			})
		}
		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not resolve your shop",
			"error":   err.Error(),
		})
	}
	return shop, nil
}

// HandleListProducts lists the caller's products.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	shop, err := h.callerShop(c)
	if shop == nil {
		return err
	}
	products, err := h.productService.ListForShop(shop.ID)
	if err != nil {
		log.Printf("Error listing products for shop %s: %v", shop.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(products)
}

// HandleCreateProduct lists a new product in the caller's shop.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	shop, err := h.callerShop(c)
	if shop == nil {
		return err
	}

	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(product); err != nil {
		return validationError(c, err)
	}

	if err := h.productService.Create(shop.ID, &product); err != nil {
		log.Printf("Error creating product for shop %s: %v", shop.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create product",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct edits a product the caller's shop owns.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	shop, err := h.callerShop(c)
	if shop == nil {
		return err
	}

	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	product.ID = c.Params("id")
	if err := h.validate.Struct(product); err != nil {
		return validationError(c, err)
	}

	if err := h.productService.Update(shop.ID, &product); err != nil {
		return h.productError(c, product.ID, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct removes a product the caller's shop owns.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	shop, err := h.callerShop(c)
	if shop == nil {
		return err
	}

	productID := c.Params("id")
	if err := h.productService.Delete(shop.ID, productID); err != nil {
		return h.productError(c, productID, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}

func (h *ProductHandler) productError(c *fiber.Ctx, productID string, err error) error {
	switch {
	case errors.Is(err, repositories.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not found",
		})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "This product belongs to another shop",
		})
	}
	log.Printf("Error on product %s: %v", productID, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Could not process product",
		"error":   err.Error(),
	})
}
