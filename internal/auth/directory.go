package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// UserDirectory exposes user contact details to other domains without
// creating an import cycle on the auth repository.
type UserDirectory struct {
	repo Repository
}

// NewUserDirectory creates a new user directory backed by the auth repository.
func NewUserDirectory(repo Repository) *UserDirectory {
	return &UserDirectory{
		repo: repo,
	}
}

// GetUserContact fetches the email and display name for a user.
func (d *UserDirectory) GetUserContact(ctx context.Context, userID uuid.UUID) (email, name string, err error) {
	user, err := d.repo.GetUserByID(ctx, userID.String())
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch user %s: %w", userID, err)
	}

	return user.Email, user.FullName(), nil
}
