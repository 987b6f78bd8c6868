package model

import "time"

// Listing represents a car listing in the database. SellerID is set once
// at creation and never reassigned.
type Listing struct {
	ID           string
	SellerID     string
	Make         string
	Model        string
	Year         int
	Price        float64
	Mileage      int
	Description  string
	Color        string
	FuelType     string
	Transmission string
	Sold         bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateListingRequest represents a listing creation request. The seller
// is taken from the authenticated caller, never from the payload.
type CreateListingRequest struct {
	Make         string  `json:"make"`
	Model        string  `json:"model"`
	Year         int     `json:"year"`
	Price        float64 `json:"price"`
	Mileage      int     `json:"mileage"`
	Description  string  `json:"description"`
	Color        string  `json:"color"`
	FuelType     string  `json:"fuel_type"`
	Transmission string  `json:"transmission"`
}

// UpdateListingRequest represents a partial listing update. Pointer
// fields distinguish "not provided" from a zero value.
type UpdateListingRequest struct {
	Make         *string  `json:"make"`
	Model        *string  `json:"model"`
	Year         *int     `json:"year"`
	Price        *float64 `json:"price"`
	Mileage      *int     `json:"mileage"`
	Description  *string  `json:"description"`
	Color        *string  `json:"color"`
	FuelType     *string  `json:"fuel_type"`
	Transmission *string  `json:"transmission"`
}

// ListingResponse represents a listing in API responses.
type ListingResponse struct {
	ID           string    `json:"id"`
	SellerID     string    `json:"seller_id"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	Price        float64   `json:"price"`
	Mileage      int       `json:"mileage"`
	Description  string    `json:"description,omitempty"`
	Color        string    `json:"color"`
	FuelType     string    `json:"fuel_type"`
	Transmission string    `json:"transmission"`
	Sold         bool      `json:"sold"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ListingFilter narrows public listing queries.
type ListingFilter struct {
	Make string
	Sold *bool
}
