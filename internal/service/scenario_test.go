package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/motorline/motorline-go/internal/crypto"
	"github.com/motorline/motorline-go/internal/model"
)

// TestMarketplaceFlow walks the whole seller journey: register, bad
// login, real login, create a listing, a second user fails to mutate
// it, the owner deletes it.
func TestMarketplaceFlow(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	tokens := crypto.NewTokenIssuer("test-secret", time.Hour, 24*time.Hour, 0)
	auth := NewAuthService(users, tokens)
	listings := NewListingService(newFakeListingStore())

	// Register alice; duplicate username is rejected.
	if _, err := auth.Register(ctx, model.RegisterRequest{Username: "alice", Email: "alice@x.com", Password: "pw123"}); err != nil {
		t.Fatalf("Register(alice) unexpected error: %v", err)
	}
	if _, err := auth.Register(ctx, model.RegisterRequest{Username: "alice", Email: "other@x.com", Password: "pw456"}); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("Register(duplicate alice) error = %v, want ErrUsernameTaken", err)
	}

	// Wrong password yields the generic credentials error.
	if _, err := auth.Login(ctx, model.LoginRequest{Username: "alice", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login(wrong password) error = %v, want ErrInvalidCredentials", err)
	}

	login, err := auth.Login(ctx, model.LoginRequest{Username: "alice", Password: "pw123"})
	if err != nil {
		t.Fatalf("Login(alice) unexpected error: %v", err)
	}
	aliceID, err := tokens.VerifyAccess(login.AccessToken)
	if err != nil {
		t.Fatalf("VerifyAccess() unexpected error: %v", err)
	}

	bob, err := auth.Register(ctx, model.RegisterRequest{Username: "bob", Email: "bob@x.com", Password: "pw789"})
	if err != nil {
		t.Fatalf("Register(bob) unexpected error: %v", err)
	}

	// Alice lists her Camry.
	created, err := listings.Create(ctx, aliceID, model.CreateListingRequest{
		Make: "Toyota", Model: "Camry", Year: 2020, Price: 25000,
		Mileage: 30000, Color: "silver", FuelType: "petrol", Transmission: "automatic",
	})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if created.SellerID != aliceID {
		t.Fatalf("listing seller = %q, want %q", created.SellerID, aliceID)
	}

	// Bob cannot touch it.
	price := 1.0
	if _, err := listings.Update(ctx, bob.ID, created.ID, model.UpdateListingRequest{Price: &price}); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("Update(bob) error = %v, want ErrNotOwner", err)
	}

	// Alice deletes it; a later lookup misses.
	if err := listings.Delete(ctx, aliceID, created.ID); err != nil {
		t.Fatalf("Delete(alice) unexpected error: %v", err)
	}
	if _, err := listings.Get(ctx, created.ID); !errors.Is(err, ErrListingNotFound) {
		t.Fatalf("Get(deleted) error = %v, want ErrListingNotFound", err)
	}
}
