// Package activities declares the repository contract for the public
// activity listing and the organizer-owned CRUD operations over it.
package activities

import (
	"context"

	"github.com/akozlov/activityhub/internal/server/models"
)

// ListFilter narrows the public listing. Zero values mean "no filter".
// AfterDate/AfterTime cut off past activities: rows strictly before that
// day, or on that day but before that time, are excluded.
type ListFilter struct {
	Topic     string
	AgeGroup  string
	AfterDate string
	AfterTime string
}

type Repository interface {
	// Create inserts a new activity and returns it with its generated ID.
	Create(ctx context.Context, activity *models.Activity) (*models.Activity, error)

	// GetByID returns the activity or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Activity, error)

	// List returns activities matching the filter, ordered by date then
	// start time, with the owning organizer's username joined in.
	List(ctx context.Context, filter ListFilter) ([]*models.Activity, error)

	// Topics returns the distinct topics present in the listing.
	Topics(ctx context.Context) ([]string, error)

	// AgeGroups returns the distinct age groups present in the listing.
	AgeGroups(ctx context.Context) ([]string, error)

	// Update persists the mutable fields of the activity.
	Update(ctx context.Context, activity *models.Activity) error

	// Delete removes the activity by ID.
	Delete(ctx context.Context, id string) error
}
