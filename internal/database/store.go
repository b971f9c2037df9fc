package database

import (
	"context"
	"encoding/json"
	"errors"

	"FitCoach/internal/models"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrPlanNotFound    = errors.New("plan not found")
	ErrImageNotFound   = errors.New("image not found")
)

// ProfileStore keeps user profiles keyed by id. It performs no validation.
type ProfileStore interface {
	Get(ctx context.Context, id string) (models.UserProfile, error)
	// Create stores data under a freshly generated id.
	Create(ctx context.Context, data models.ProfileData) (models.UserProfile, error)
	// Update replaces every field of the profile with the given id, inserting
	// the profile under that id when it does not exist yet.
	Update(ctx context.Context, id string, data models.ProfileData) (models.UserProfile, error)
	// Upsert updates the profile when id names a stored one. An empty or
	// unknown id creates a profile under a freshly generated id.
	Upsert(ctx context.Context, id string, data models.ProfileData) (models.UserProfile, error)
}

// PlanStore keeps the latest plan of one kind per profile.
type PlanStore interface {
	GetByProfile(ctx context.Context, profileID string) (models.Plan, error)
	// PutByProfile overwrites the payload of the profile's plan in place,
	// keeping its id, or inserts a new plan when there is none.
	PutByProfile(ctx context.Context, profileID string, payload json.RawMessage) (models.Plan, error)
}

// ImageCache keeps one generated image per item name. Put never replaces an
// existing entry: the first writer for a name wins and later writers get the
// stored record back.
type ImageCache interface {
	GetByName(ctx context.Context, name string) (models.GeneratedImage, error)
	Put(ctx context.Context, name string, itemType models.ItemType, url string) (models.GeneratedImage, error)
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneProfileData(d models.ProfileData) models.ProfileData {
	d.MedicalHistory = cloneString(d.MedicalHistory)
	d.StressLevel = cloneString(d.StressLevel)
	return d
}
