package database

import (
	"context"
	"testing"

	"FitCoach/internal/config"
	"FitCoach/internal/models"
	"github.com/stretchr/testify/require"
)

func TestNewMemoryService_Health(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := NewMemoryService()
	defer svc.Close()

	_, err := svc.Profiles().Create(ctx, sampleProfile())
	require.NoError(t, err)
	_, err = svc.Images().Put(ctx, "Rice bowl", models.ItemTypeMeal, "https://img/rice")
	require.NoError(t, err)

	h := svc.Health()
	require.Equal(t, "up", h["status"])
	require.Equal(t, config.BackendMemory, h["storage_backend"])
	require.Equal(t, "1", h["profiles"])
	require.Equal(t, "1", h["cached_images"])
}

func TestNewMemoryService_PlanStoresAreIndependent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := NewMemoryService()

	_, err := svc.WorkoutPlans().PutByProfile(ctx, "p", []byte(`{"overview":"w"}`))
	require.NoError(t, err)

	_, err = svc.DietPlans().GetByProfile(ctx, "p")
	require.ErrorIs(t, err, ErrPlanNotFound)
}

func TestNewService_MemoryConfig(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Storage:    config.StorageConfig{Backend: config.BackendMemory},
		ImageCache: config.ImageCacheConfig{LRUSize: 16},
	}

	svc, err := NewService(context.Background(), cfg)
	require.NoError(t, err)
	defer svc.Close()

	require.IsType(t, &MemoryProfileStore{}, svc.Profiles())
	require.IsType(t, &MemoryImageCache{}, svc.Images())
}
