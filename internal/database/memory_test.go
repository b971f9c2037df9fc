package database

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"FitCoach/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func sampleProfile() models.ProfileData {
	return models.ProfileData{
		Name:              "Alex",
		Age:               29,
		Gender:            "Other",
		Height:            178,
		Weight:            74,
		FitnessGoal:       "Build muscle",
		FitnessLevel:      "Intermediate",
		WorkoutLocation:   "Gym",
		DietaryPreference: "Vegetarian",
		MedicalHistory:    strPtr("Old knee injury"),
		StressLevel:       strPtr("Medium"),
	}
}

func TestMemoryProfileStore_CreateTwiceGivesDistinctIDs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryProfileStore()

	a, err := s.Create(ctx, sampleProfile())
	require.NoError(t, err)
	b, err := s.Create(ctx, sampleProfile())
	require.NoError(t, err)

	require.NotEmpty(t, a.ID)
	require.NotEmpty(t, b.ID)
	require.NotEqual(t, a.ID, b.ID)
	require.Equal(t, 2, s.Len())
}

func TestMemoryProfileStore_RoundTripsEveryField(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryProfileStore()

	data := sampleProfile()
	created, err := s.Create(ctx, data)
	require.NoError(t, err)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)
	require.Equal(t, data, got.ProfileData)
}

func TestMemoryProfileStore_GetUnknown(t *testing.T) {
	t.Parallel()
	_, err := NewMemoryProfileStore().Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrProfileNotFound)
}

func TestMemoryProfileStore_UpdateReplacesAndKeepsID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryProfileStore()

	created, err := s.Create(ctx, sampleProfile())
	require.NoError(t, err)

	next := sampleProfile()
	next.Weight = 70
	next.MedicalHistory = nil

	updated, err := s.Update(ctx, created.ID, next)
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, 70, got.Weight)
	require.Nil(t, got.MedicalHistory)
	require.Equal(t, 1, s.Len())
}

func TestMemoryProfileStore_UpdateUnknownInserts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryProfileStore()

	p, err := s.Update(ctx, "client-chosen-id", sampleProfile())
	require.NoError(t, err)
	require.Equal(t, "client-chosen-id", p.ID)

	_, err = s.Get(ctx, "client-chosen-id")
	require.NoError(t, err)
}

func TestMemoryProfileStore_Upsert(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryProfileStore()

	created, err := s.Upsert(ctx, "", sampleProfile())
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	data := sampleProfile()
	data.Name = "Sam"
	updated, err := s.Upsert(ctx, created.ID, data)
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, "Sam", updated.Name)
	require.Equal(t, 1, s.Len())

	fresh, err := s.Upsert(ctx, "never-created", sampleProfile())
	require.NoError(t, err)
	require.NotEqual(t, "never-created", fresh.ID)
	require.NotEqual(t, created.ID, fresh.ID)
	require.Equal(t, 2, s.Len())

	_, err = s.Get(ctx, "never-created")
	require.ErrorIs(t, err, ErrProfileNotFound)
}

func TestMemoryProfileStore_ReturnedValuesAreCopies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryProfileStore()

	data := sampleProfile()
	created, err := s.Create(ctx, data)
	require.NoError(t, err)

	*data.StressLevel = "High"
	*created.MedicalHistory = "changed"

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Medium", *got.StressLevel)
	require.Equal(t, "Old knee injury", *got.MedicalHistory)
}

func TestMemoryPlanStore_PutTwiceKeepsIDReplacesData(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryPlanStore()

	first, err := s.PutByProfile(ctx, "p1", json.RawMessage(`{"overview":"v1"}`))
	require.NoError(t, err)
	second, err := s.PutByProfile(ctx, "p1", json.RawMessage(`{"overview":"v2"}`))
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "p1", second.ProfileID)

	got, err := s.GetByProfile(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, first.ID, got.ID)
	require.JSONEq(t, `{"overview":"v2"}`, string(got.PlanData))
	require.Equal(t, 1, s.Len())
}

func TestMemoryPlanStore_SeparateProfiles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryPlanStore()

	a, err := s.PutByProfile(ctx, "a", json.RawMessage(`{"n":1}`))
	require.NoError(t, err)
	b, err := s.PutByProfile(ctx, "b", json.RawMessage(`{"n":2}`))
	require.NoError(t, err)
	require.NotEqual(t, a.ID, b.ID)
}

func TestMemoryPlanStore_NotFound(t *testing.T) {
	t.Parallel()
	_, err := NewMemoryPlanStore().GetByProfile(context.Background(), "nobody")
	require.ErrorIs(t, err, ErrPlanNotFound)
}

func TestMemoryImageCache_FirstWriterWins(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewMemoryImageCache()

	_, err := c.GetByName(ctx, "Push-up")
	require.ErrorIs(t, err, ErrImageNotFound)

	first, err := c.Put(ctx, "Push-up", models.ItemTypeExercise, "https://img/1.png")
	require.NoError(t, err)
	second, err := c.Put(ctx, "Push-up", models.ItemTypeExercise, "https://img/2.png")
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, "https://img/1.png", second.ImageURL)

	got, err := c.GetByName(ctx, "Push-up")
	require.NoError(t, err)
	require.Equal(t, first, got)
}

func TestMemoryImageCache_NameIsTheOnlyKey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewMemoryImageCache()

	_, err := c.Put(ctx, "Plank", models.ItemTypeExercise, "https://img/exercise.png")
	require.NoError(t, err)

	img, err := c.Put(ctx, "Plank", models.ItemTypeMeal, "https://img/meal.png")
	require.NoError(t, err)
	require.Equal(t, models.ItemTypeExercise, img.ItemType)
	require.Equal(t, "https://img/exercise.png", img.ImageURL)
	require.Equal(t, 1, c.Len())
}

func TestMemoryStores_ConcurrentAccess(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	profiles := NewMemoryProfileStore()
	plans := NewMemoryPlanStore()
	images := NewMemoryImageCache()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := profiles.Create(ctx, sampleProfile())
			assert.NoError(t, err)
			_, err = plans.PutByProfile(ctx, "shared", json.RawMessage(fmt.Sprintf(`{"n":%d}`, i)))
			assert.NoError(t, err)
			_, err = images.Put(ctx, "Squat", models.ItemTypeExercise, fmt.Sprintf("https://img/%d", i))
			assert.NoError(t, err)
			_, err = profiles.Get(ctx, p.ID)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	require.Equal(t, 32, profiles.Len())
	require.Equal(t, 1, plans.Len())
	require.Equal(t, 1, images.Len())
}
