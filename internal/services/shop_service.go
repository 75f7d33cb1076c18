package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"shopinpocket/internal/models"
	"shopinpocket/internal/repositories"
)

// ErrSlugTaken is returned when a shop slug is already in use by another shop.
var ErrSlugTaken = errors.New("shop slug already taken")

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// ShopService handles business logic for shops. Each user owns at most
// one shop, resolved by user ID.
type ShopService struct {
	shopRepo repositories.ShopRepository
	baseURL  string
}

// NewShopService creates a new ShopService. baseURL is the public origin
// used when building shareable shop links.
func NewShopService(shopRepo repositories.ShopRepository, baseURL string) *ShopService {
	return &ShopService{
		shopRepo: shopRepo,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// GetForUser returns the caller's shop.
func (s *ShopService) GetForUser(userID string) (*models.Shop, error) {
	return s.shopRepo.GetByUserID(userID)
}

// GetBySlug returns the shop behind a public storefront slug.
func (s *ShopService) GetBySlug(slug string) (*models.Shop, error) {
	return s.shopRepo.GetBySlug(slug)
}

// Save creates the caller's shop on first save and updates it afterwards.
// A missing slug is derived from the shop name; slugs are checked for
// uniqueness across shops either way.
func (s *ShopService) Save(userID string, input *models.Shop) (*models.Shop, error) {
	if input.Slug == "" {
		input.Slug = Slugify(input.Name)
	} else {
		input.Slug = Slugify(input.Slug)
	}

	existing, err := s.shopRepo.GetByUserID(userID)
	if err != nil && !errors.Is(err, repositories.ErrShopNotFound) {
		return nil, fmt.Errorf("failed to look up shop for user %s: %w", userID, err)
	}

	if other, err := s.shopRepo.GetBySlug(input.Slug); err == nil {
		if existing == nil || other.ID != existing.ID {
			return nil, ErrSlugTaken
		}
	}

	if existing == nil {
		input.UserID = userID
		if err := s.shopRepo.Create(input); err != nil {
			return nil, err
		}
		return input, nil
	}

	existing.Name = input.Name
	existing.Description = input.Description
	existing.ContactInfo = input.ContactInfo
	existing.Slug = input.Slug
	existing.LogoURL = input.LogoURL
	existing.PrimaryColor = input.PrimaryColor
	existing.SecondaryColor = input.SecondaryColor
	existing.AccentColor = input.AccentColor
	existing.FontStyle = input.FontStyle
	if err := s.shopRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// PublicLink builds the shareable storefront URL for a shop.
func (s *ShopService) PublicLink(shop *models.Shop) string {
	return fmt.Sprintf("%s/shop/%s", s.baseURL, shop.Slug)
}

// Slugify lowercases a name and collapses every run of non-alphanumeric
// characters to a single hyphen.
func Slugify(name string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
