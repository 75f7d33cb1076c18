package services

import (
	"errors"

	"shopinpocket/internal/models"
	"shopinpocket/internal/repositories"
)

// ErrForbidden is returned when a caller acts on a record their shop does
// not own.
var ErrForbidden = errors.New("not allowed for this caller")

// ProductService handles business logic for products. Every mutation is
// scoped to the owning shop.
type ProductService struct {
	productRepo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(productRepo repositories.ProductRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
	}
}

// ListForShop retrieves a shop's products.
func (s *ProductService) ListForShop(shopID string) ([]models.Product, error) {
	return s.productRepo.GetByShopID(shopID)
}

// GetForShop retrieves one product, verifying it belongs to the shop.
func (s *ProductService) GetForShop(shopID, productID string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product.ShopID != shopID {
		return nil, ErrForbidden
	}
	return product, nil
}

// Create lists a new product under the shop.
func (s *ProductService) Create(shopID string, product *models.Product) error {
	product.ShopID = shopID
	return s.productRepo.Create(product)
}

// Update edits a product the shop owns. The owning shop cannot be changed.
func (s *ProductService) Update(shopID string, product *models.Product) error {
	existing, err := s.GetForShop(shopID, product.ID)
	if err != nil {
		return err
	}
	product.ShopID = existing.ShopID
	product.CreatedAt = existing.CreatedAt
	return s.productRepo.Update(product)
}

// Delete removes a product the shop owns.
func (s *ProductService) Delete(shopID, productID string) error {
	if _, err := s.GetForShop(shopID, productID); err != nil {
		return err
	}
	return s.productRepo.Delete(productID)
}
