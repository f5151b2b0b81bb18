package models

import "time"

// Item is a listed-for-sale record. JSON field names follow the public API
// contract, so the identifier is exposed as "_id".
type Item struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"imageUrl"`
	Seller      string    `json:"seller"`
	Sold        bool      `json:"sold"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateItemRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	ImageURL    string   `json:"imageUrl"`
}

// UpdateItemRequest is the explicit allow-list of mutable item fields.
// Seller, id and timestamps are deliberately not representable here.
type UpdateItemRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"imageUrl"`
	Sold        *bool    `json:"sold"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (r UpdateItemRequest) IsEmpty() bool {
	return r.Title == nil && r.Description == nil && r.Price == nil && r.ImageURL == nil && r.Sold == nil
}
