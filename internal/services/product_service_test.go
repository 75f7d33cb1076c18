package services_test

import (
	"testing"

	"shopinpocket/internal/models"
	"shopinpocket/internal/repositories"
	"shopinpocket/internal/services"

	"github.com/stretchr/testify/assert"
)

func productServiceFixture(t *testing.T) (*services.ProductService, *models.Product) {
	t.Helper()

	productRepo := repositories.NewMockProductRepository()
	productService := services.NewProductService(productRepo)

	product := &models.Product{
		Name:  "Kanga",
		Price: 15000,
		Stock: 5,
		Sizes: []string{"M", "L"},
	}
	assert.NoError(t, productService.Create("shop-1", product))
	return productService, product
}

func TestProductService_Create(t *testing.T) {
	productService, product := productServiceFixture(t)

	assert.NotEmpty(t, product.ID)
	assert.Equal(t, "shop-1", product.ShopID)

	listed, err := productService.ListForShop("shop-1")
	assert.NoError(t, err)
	assert.Len(t, listed, 1)

	other, err := productService.ListForShop("shop-2")
	assert.NoError(t, err)
	assert.Empty(t, other)
}

func TestProductService_GetForShop(t *testing.T) {
	productService, product := productServiceFixture(t)

	found, err := productService.GetForShop("shop-1", product.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Kanga", found.Name)

	// Other shops cannot read a product they do not own.
	_, err = productService.GetForShop("shop-2", product.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = productService.GetForShop("shop-1", "missing-id")
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
}

func TestProductService_Update(t *testing.T) {
	productService, product := productServiceFixture(t)

	update := &models.Product{
		ID:     product.ID,
		Name:   "Kanga Deluxe",
		Price:  18000,
		Stock:  7,
		ShopID: "shop-evil", // must be ignored
	}
	assert.NoError(t, productService.Update("shop-1", update))

	found, err := productService.GetForShop("shop-1", product.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Kanga Deluxe", found.Name)
	assert.Equal(t, float64(18000), found.Price)
	assert.Equal(t, "shop-1", found.ShopID, "ownership cannot move between shops")

	// A different shop cannot update the product at all.
	err = productService.Update("shop-2", &models.Product{ID: product.ID, Name: "Hijacked"})
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestProductService_Delete(t *testing.T) {
	productService, product := productServiceFixture(t)

	assert.ErrorIs(t, productService.Delete("shop-2", product.ID), services.ErrForbidden)
	assert.NoError(t, productService.Delete("shop-1", product.ID))
	assert.ErrorIs(t, productService.Delete("shop-1", product.ID), repositories.ErrProductNotFound)
}
