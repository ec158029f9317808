package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rescuegrid/dispatch-admin/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// AdminSeeder is the subset of repository.Queries needed to bootstrap an admin
type AdminSeeder interface {
	GetAdminByEmail(ctx context.Context, email string) (repository.Admin, error)
	CreateAdmin(ctx context.Context, arg repository.CreateAdminParams) (repository.Admin, error)
}

// EnsureAdmin creates the bootstrap admin account if it does not exist yet.
// It reports whether an account was created.
func EnsureAdmin(ctx context.Context, store AdminSeeder, email, password string, cost int) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, nil
	}

	_, err := store.GetAdminByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = store.CreateAdmin(ctx, repository.CreateAdminParams{
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Administrator",
		Role:         "admin",
	})
	if err != nil {
		return false, fmt.Errorf("failed to create admin: %w", err)
	}
	return true, nil
}
