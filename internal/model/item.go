package model

import "time"

// Item is a product listing owned by the user who created it.
type Item struct {
	ID          string
	Title       string
	Description string
	Image       string
	LargeImage  string
	Price       int // cents
	UserID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateItemRequest holds the fields for a new item.
type CreateItemRequest struct {
	Title       string
	Description string
	Price       int
	Image       string
	LargeImage  string
}

// UpdateItemRequest holds optional field changes; nil means leave unchanged.
type UpdateItemRequest struct {
	Title       *string
	Description *string
	Price       *int
	Image       *string
	LargeImage  *string
}
