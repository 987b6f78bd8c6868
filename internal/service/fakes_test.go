package service

import (
	"context"
	"strings"

	"github.com/motorline/motorline-go/internal/model"
	"github.com/motorline/motorline-go/internal/repository"
)

// fakeUserStore is an in-memory UserStore for service tests.
type fakeUserStore struct {
	users map[string]*model.User // keyed by ID
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Username == user.Username {
			return repository.ErrDuplicateUsername
		}
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

// fakeListingStore is an in-memory ListingStore for service tests. It
// mirrors the repository's visibility rules where they matter to the
// service contract.
type fakeListingStore struct {
	listings map[string]*model.Listing
}

func newFakeListingStore() *fakeListingStore {
	return &fakeListingStore{listings: make(map[string]*model.Listing)}
}

func (f *fakeListingStore) Create(_ context.Context, listing *model.Listing) error {
	clone := *listing
	f.listings[listing.ID] = &clone
	return nil
}

func (f *fakeListingStore) GetByID(_ context.Context, id string) (*model.Listing, error) {
	l, ok := f.listings[id]
	if !ok {
		return nil, repository.ErrListingNotFound
	}
	clone := *l
	return &clone, nil
}

func (f *fakeListingStore) List(_ context.Context, filter model.ListingFilter, limit, offset int) ([]model.Listing, error) {
	var out []model.Listing
	for _, l := range f.listings {
		if filter.Make != "" && !strings.EqualFold(l.Make, filter.Make) {
			continue
		}
		if filter.Sold != nil && l.Sold != *filter.Sold {
			continue
		}
		out = append(out, *l)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeListingStore) ListBySeller(_ context.Context, sellerID string) ([]model.Listing, error) {
	var out []model.Listing
	for _, l := range f.listings {
		if l.SellerID == sellerID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeListingStore) Search(_ context.Context, q string) ([]model.Listing, error) {
	q = strings.ToLower(q)
	var out []model.Listing
	for _, l := range f.listings {
		haystack := strings.ToLower(l.Make + " " + l.Model + " " + l.Color + " " + l.Description)
		if strings.Contains(haystack, q) {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeListingStore) Update(_ context.Context, listing *model.Listing) error {
	if _, ok := f.listings[listing.ID]; !ok {
		return repository.ErrListingNotFound
	}
	clone := *listing
	f.listings[listing.ID] = &clone
	return nil
}

func (f *fakeListingStore) Delete(_ context.Context, id string) error {
	if _, ok := f.listings[id]; !ok {
		return repository.ErrListingNotFound
	}
	delete(f.listings, id)
	return nil
}
