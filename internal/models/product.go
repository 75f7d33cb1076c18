package models

import "time"

// Product is an item listed for sale within a shop. Prices are in
// Tanzanian Shillings. Stock is only ever reduced by order acceptance
// and is floored at zero.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	ShopID      string    `json:"shop_id" gorm:"index;type:varchar(36)"`
	Name        string    `json:"name" validate:"required,min=2,max=100"`
	Price       float64   `json:"price" validate:"required,gt=0"`
	Description string    `json:"description" validate:"omitempty,max=500"`
	ImageURL    string    `json:"image_url" validate:"omitempty,url"`
	Stock       int       `json:"stock" validate:"gte=0"`
	Sizes       []string  `json:"sizes,omitempty" gorm:"serializer:json"`
	Colors      []string  `json:"colors,omitempty" gorm:"serializer:json"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
