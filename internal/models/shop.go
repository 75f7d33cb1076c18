package models

import "time"

// Shop is a seller's storefront, reachable publicly under /shop/{slug}.
// One shop per user, looked up by UserID.
type Shop struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID         string    `json:"user_id" gorm:"uniqueIndex;type:varchar(36)"`
	Name           string    `json:"name" validate:"required,min=2,max=100"`
	Description    string    `json:"description" validate:"omitempty,max=500"`
	ContactInfo    string    `json:"contact_info" validate:"required,max=255"`
	Slug           string    `json:"slug" gorm:"uniqueIndex;type:varchar(100)" validate:"omitempty,max=100"`
	LogoURL        string    `json:"logo_url" validate:"omitempty,url"`
	PrimaryColor   string    `json:"primary_color" validate:"omitempty,hexcolor"`
	SecondaryColor string    `json:"secondary_color" validate:"omitempty,hexcolor"`
	AccentColor    string    `json:"accent_color" validate:"omitempty,hexcolor"`
	FontStyle      string    `json:"font_style" validate:"omitempty,max=50"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
