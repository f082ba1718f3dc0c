// Package organizers declares the repository contract for the credential
// store: one row per organizer holding the unique username, the password
// verifier, and profile fields.
package organizers

import (
	"context"

	"github.com/akozlov/activityhub/internal/server/models"
)

type Repository interface {
	// Create inserts a new organizer and returns it with its generated ID.
	Create(ctx context.Context, organizer *models.Organizer) (*models.Organizer, error)

	// GetByUsername looks an organizer up by its unique username.
	// Implementations return common.ErrorNotFound when absent.
	GetByUsername(ctx context.Context, username string) (*models.Organizer, error)

	// GetByID looks an organizer up by its ID.
	GetByID(ctx context.Context, id string) (*models.Organizer, error)

	// Update persists profile fields and the password verifier.
	Update(ctx context.Context, organizer *models.Organizer) error
}
