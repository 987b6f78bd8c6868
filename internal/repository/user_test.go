package repository

import (
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
)

func TestNewUserRepository(t *testing.T) {
	repo := NewUserRepository(nil, time.Second)
	if repo == nil {
		t.Fatal("expected non-nil UserRepository")
	}
	if repo.db != nil {
		t.Fatal("expected nil db when constructed with nil")
	}
}

func TestSentinelErrors(t *testing.T) {
	if ErrUserNotFound.Error() != "user not found" {
		t.Fatalf("unexpected error message: %s", ErrUserNotFound.Error())
	}
	if ErrDuplicateUsername.Error() != "username already exists" {
		t.Fatalf("unexpected error message: %s", ErrDuplicateUsername.Error())
	}
	if ErrDuplicateEmail.Error() != "email already exists" {
		t.Fatalf("unexpected error message: %s", ErrDuplicateEmail.Error())
	}
}

func TestDuplicateKeyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "nil error",
			err:  nil,
			want: nil,
		},
		{
			name: "unrelated error",
			err:  ErrUserNotFound,
			want: nil,
		},
		{
			name: "username index violation",
			err:  &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice' for key 'users.uq_users_username'"},
			want: ErrDuplicateUsername,
		},
		{
			name: "email index violation",
			err:  &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice@x.com' for key 'users.uq_users_email'"},
			want: ErrDuplicateEmail,
		},
		{
			name: "other mysql error",
			err:  &mysql.MySQLError{Number: 1045, Message: "Access denied"},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := duplicateKeyError(tt.err); got != tt.want {
				t.Errorf("duplicateKeyError() = %v, want %v", got, tt.want)
			}
		})
	}
}
