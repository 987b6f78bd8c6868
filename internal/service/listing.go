package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/motorline/motorline-go/internal/model"
	"github.com/motorline/motorline-go/internal/repository"
)

var (
	ErrMakeRequired    = errors.New("make is required")
	ErrModelRequired   = errors.New("model is required")
	ErrYearInvalid     = errors.New("year is out of range")
	ErrPriceInvalid    = errors.New("price must not be negative")
	ErrMileageInvalid  = errors.New("mileage must not be negative")
	ErrQueryRequired   = errors.New("search query is required")
	ErrListingNotFound = errors.New("listing not found")
	ErrNotOwner        = errors.New("not the owner of this listing")
)

const (
	minListingYear = 1900
	maxListingYear = 2100

	defaultPageSize = 20
	maxPageSize     = 100
)

// ListingStore is the persistence surface the listing service needs.
type ListingStore interface {
	Create(ctx context.Context, listing *model.Listing) error
	GetByID(ctx context.Context, id string) (*model.Listing, error)
	List(ctx context.Context, filter model.ListingFilter, limit, offset int) ([]model.Listing, error)
	ListBySeller(ctx context.Context, sellerID string) ([]model.Listing, error)
	Search(ctx context.Context, q string) ([]model.Listing, error)
	Update(ctx context.Context, listing *model.Listing) error
	Delete(ctx context.Context, id string) error
}

// ListingService handles car listing business logic, including the
// ownership check applied before every mutation.
type ListingService struct {
	listings ListingStore
}

// NewListingService creates a new ListingService.
func NewListingService(listings ListingStore) *ListingService {
	return &ListingService{listings: listings}
}

// authorizeMutation is the single ownership check for listing mutations:
// only the seller who created a listing may change or delete it.
func authorizeMutation(listing *model.Listing, userID string) error {
	if listing.SellerID != userID {
		return ErrNotOwner
	}
	return nil
}

// Create creates a listing owned by the authenticated seller. The owner
// comes from the caller's identity, never from the payload.
func (s *ListingService) Create(ctx context.Context, sellerID string, req model.CreateListingRequest) (model.ListingResponse, error) {
	if err := validateListingFields(req.Make, req.Model, req.Year, req.Price, req.Mileage); err != nil {
		return model.ListingResponse{}, err
	}

	now := time.Now().UTC()
	listing := &model.Listing{
		ID:           uuid.NewString(),
		SellerID:     sellerID,
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		Price:        req.Price,
		Mileage:      req.Mileage,
		Description:  req.Description,
		Color:        req.Color,
		FuelType:     req.FuelType,
		Transmission: req.Transmission,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.listings.Create(ctx, listing); err != nil {
		return model.ListingResponse{}, err
	}

	return listingToResponse(listing), nil
}

// Get returns a publicly visible listing by ID.
func (s *ListingService) Get(ctx context.Context, id string) (model.ListingResponse, error) {
	listing, err := s.getListing(ctx, id)
	if err != nil {
		return model.ListingResponse{}, err
	}
	return listingToResponse(listing), nil
}

// List returns publicly visible listings, filtered and paginated.
func (s *ListingService) List(ctx context.Context, filter model.ListingFilter, limit, offset int) ([]model.ListingResponse, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	listings, err := s.listings.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}

	return listingsToResponse(listings), nil
}

// ListMine returns all listings created by the authenticated seller.
func (s *ListingService) ListMine(ctx context.Context, sellerID string) ([]model.ListingResponse, error) {
	listings, err := s.listings.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	return listingsToResponse(listings), nil
}

// Search returns publicly visible listings whose make, model, color or
// description contains the query, case-insensitively.
func (s *ListingService) Search(ctx context.Context, q string) ([]model.ListingResponse, error) {
	if strings.TrimSpace(q) == "" {
		return nil, ErrQueryRequired
	}

	listings, err := s.listings.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	return listingsToResponse(listings), nil
}

// Update applies a partial update to a listing owned by userID. The
// listing ID and seller reference are immutable.
func (s *ListingService) Update(ctx context.Context, userID, id string, req model.UpdateListingRequest) (model.ListingResponse, error) {
	listing, err := s.getListing(ctx, id)
	if err != nil {
		return model.ListingResponse{}, err
	}
	if err := authorizeMutation(listing, userID); err != nil {
		return model.ListingResponse{}, err
	}

	applyListingUpdate(listing, req)

	if err := validateListingFields(listing.Make, listing.Model, listing.Year, listing.Price, listing.Mileage); err != nil {
		return model.ListingResponse{}, err
	}

	listing.UpdatedAt = time.Now().UTC()
	if err := s.listings.Update(ctx, listing); err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return model.ListingResponse{}, ErrListingNotFound
		}
		return model.ListingResponse{}, err
	}

	return listingToResponse(listing), nil
}

// MarkSold transitions a listing to sold. Only the seller may do this.
func (s *ListingService) MarkSold(ctx context.Context, userID, id string) (model.ListingResponse, error) {
	listing, err := s.getListing(ctx, id)
	if err != nil {
		return model.ListingResponse{}, err
	}
	if err := authorizeMutation(listing, userID); err != nil {
		return model.ListingResponse{}, err
	}

	listing.Sold = true
	listing.UpdatedAt = time.Now().UTC()
	if err := s.listings.Update(ctx, listing); err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return model.ListingResponse{}, ErrListingNotFound
		}
		return model.ListingResponse{}, err
	}

	return listingToResponse(listing), nil
}

// Delete removes a listing owned by userID.
func (s *ListingService) Delete(ctx context.Context, userID, id string) error {
	listing, err := s.getListing(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeMutation(listing, userID); err != nil {
		return err
	}

	if err := s.listings.Delete(ctx, listing.ID); err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return ErrListingNotFound
		}
		return err
	}

	return nil
}

func (s *ListingService) getListing(ctx context.Context, id string) (*model.Listing, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return listing, nil
}

func validateListingFields(mk, mdl string, year int, price float64, mileage int) error {
	if mk == "" {
		return ErrMakeRequired
	}
	if mdl == "" {
		return ErrModelRequired
	}
	if year < minListingYear || year > maxListingYear {
		return ErrYearInvalid
	}
	if price < 0 {
		return ErrPriceInvalid
	}
	if mileage < 0 {
		return ErrMileageInvalid
	}
	return nil
}

func applyListingUpdate(listing *model.Listing, req model.UpdateListingRequest) {
	if req.Make != nil {
		listing.Make = *req.Make
	}
	if req.Model != nil {
		listing.Model = *req.Model
	}
	if req.Year != nil {
		listing.Year = *req.Year
	}
	if req.Price != nil {
		listing.Price = *req.Price
	}
	if req.Mileage != nil {
		listing.Mileage = *req.Mileage
	}
	if req.Description != nil {
		listing.Description = *req.Description
	}
	if req.Color != nil {
		listing.Color = *req.Color
	}
	if req.FuelType != nil {
		listing.FuelType = *req.FuelType
	}
	if req.Transmission != nil {
		listing.Transmission = *req.Transmission
	}
}

func listingToResponse(listing *model.Listing) model.ListingResponse {
	return model.ListingResponse{
		ID:           listing.ID,
		SellerID:     listing.SellerID,
		Make:         listing.Make,
		Model:        listing.Model,
		Year:         listing.Year,
		Price:        listing.Price,
		Mileage:      listing.Mileage,
		Description:  listing.Description,
		Color:        listing.Color,
		FuelType:     listing.FuelType,
		Transmission: listing.Transmission,
		Sold:         listing.Sold,
		CreatedAt:    listing.CreatedAt,
		UpdatedAt:    listing.UpdatedAt,
	}
}

func listingsToResponse(listings []model.Listing) []model.ListingResponse {
	result := make([]model.ListingResponse, len(listings))
	for i := range listings {
		result[i] = listingToResponse(&listings[i])
	}
	return result
}
