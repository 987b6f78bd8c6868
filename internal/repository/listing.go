package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/motorline/motorline-go/internal/model"
)

var ErrListingNotFound = errors.New("listing not found")

// ListingRepository handles car listing persistence operations.
//
// Public read queries join on users and exclude listings whose seller
// has been deactivated, so a soft-deleted account's inventory drops out
// of the marketplace without touching the listing rows.
type ListingRepository struct {
	db      *sql.DB
	timeout time.Duration
}

// NewListingRepository creates a new ListingRepository with a bounded per-query timeout.
func NewListingRepository(db *sql.DB, timeout time.Duration) *ListingRepository {
	return &ListingRepository{db: db, timeout: timeout}
}

const listingColumns = `l.id, l.seller_id, l.make, l.model, l.year, l.price, l.mileage,
	l.description, l.color, l.fuel_type, l.transmission, l.sold, l.created_at, l.updated_at`

// Create inserts a new listing.
func (r *ListingRepository) Create(ctx context.Context, listing *model.Listing) error {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	query := `INSERT INTO listings
		(id, seller_id, make, model, year, price, mileage, description, color, fuel_type, transmission, sold, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		listing.ID, listing.SellerID, listing.Make, listing.Model, listing.Year,
		listing.Price, listing.Mileage, listing.Description, listing.Color,
		listing.FuelType, listing.Transmission, listing.Sold,
		listing.CreatedAt, listing.UpdatedAt,
	)
	return storeErr(err)
}

// GetByID retrieves a publicly visible listing by its ID.
func (r *ListingRepository) GetByID(ctx context.Context, id string) (*model.Listing, error) {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + listingColumns + ` FROM listings l
		JOIN users u ON u.id = l.seller_id
		WHERE l.id = ? AND u.active = TRUE`

	listing := &model.Listing{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&listing.ID, &listing.SellerID, &listing.Make, &listing.Model, &listing.Year,
		&listing.Price, &listing.Mileage, &listing.Description, &listing.Color,
		&listing.FuelType, &listing.Transmission, &listing.Sold,
		&listing.CreatedAt, &listing.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, storeErr(err)
	}

	return listing, nil
}

// List retrieves publicly visible listings with optional filters,
// newest first, paginated.
func (r *ListingRepository) List(ctx context.Context, filter model.ListingFilter, limit, offset int) ([]model.Listing, error) {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + listingColumns + ` FROM listings l
		JOIN users u ON u.id = l.seller_id
		WHERE u.active = TRUE`
	args := []any{}

	if filter.Make != "" {
		query += ` AND LOWER(l.make) = ?`
		args = append(args, strings.ToLower(filter.Make))
	}
	if filter.Sold != nil {
		query += ` AND l.sold = ?`
		args = append(args, *filter.Sold)
	}

	query += ` ORDER BY l.created_at DESC, l.id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	return r.queryListings(ctx, query, args...)
}

// ListBySeller retrieves all listings created by a seller, newest first.
func (r *ListingRepository) ListBySeller(ctx context.Context, sellerID string) ([]model.Listing, error) {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + listingColumns + ` FROM listings l
		WHERE l.seller_id = ? ORDER BY l.created_at DESC, l.id`

	return r.queryListings(ctx, query, sellerID)
}

// Search retrieves publicly visible listings whose make, model, color or
// description contains the query, case-insensitively. Results are
// ordered by creation time with ID as a stable tie-breaker.
func (r *ListingRepository) Search(ctx context.Context, q string) ([]model.Listing, error) {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	pattern := "%" + strings.ToLower(q) + "%"

	query := `SELECT ` + listingColumns + ` FROM listings l
		JOIN users u ON u.id = l.seller_id
		WHERE u.active = TRUE AND (
			LOWER(l.make) LIKE ? OR
			LOWER(l.model) LIKE ? OR
			LOWER(l.color) LIKE ? OR
			LOWER(l.description) LIKE ?
		)
		ORDER BY l.created_at, l.id`

	return r.queryListings(ctx, query, pattern, pattern, pattern, pattern)
}

// Update rewrites the mutable columns of a listing in a single-row
// UPDATE. The seller reference is never part of the SET clause.
func (r *ListingRepository) Update(ctx context.Context, listing *model.Listing) error {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	query := `UPDATE listings SET
		make = ?, model = ?, year = ?, price = ?, mileage = ?, description = ?,
		color = ?, fuel_type = ?, transmission = ?, sold = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		listing.Make, listing.Model, listing.Year, listing.Price, listing.Mileage,
		listing.Description, listing.Color, listing.FuelType, listing.Transmission,
		listing.Sold, listing.UpdatedAt, listing.ID,
	)
	if err != nil {
		return storeErr(err)
	}

	return checkAffected(result)
}

// Delete removes a listing row.
func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = ?`, id)
	if err != nil {
		return storeErr(err)
	}

	return checkAffected(result)
}

func (r *ListingRepository) queryListings(ctx context.Context, query string, args ...any) ([]model.Listing, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var listings []model.Listing
	for rows.Next() {
		var l model.Listing
		if err := rows.Scan(
			&l.ID, &l.SellerID, &l.Make, &l.Model, &l.Year,
			&l.Price, &l.Mileage, &l.Description, &l.Color,
			&l.FuelType, &l.Transmission, &l.Sold,
			&l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, storeErr(err)
		}
		listings = append(listings, l)
	}

	return listings, storeErr(rows.Err())
}

func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrListingNotFound
	}
	return nil
}
