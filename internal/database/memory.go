package database

import (
	"context"
	"encoding/json"
	"sync"

	"FitCoach/internal/models"
	"github.com/google/uuid"
)

var (
	_ ProfileStore = (*MemoryProfileStore)(nil)
	_ PlanStore    = (*MemoryPlanStore)(nil)
	_ ImageCache   = (*MemoryImageCache)(nil)
)

/* ====================================================================
                   		Profiles
==================================================================== */

type MemoryProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]models.UserProfile
}

func NewMemoryProfileStore() *MemoryProfileStore {
	return &MemoryProfileStore{profiles: make(map[string]models.UserProfile)}
}

func (s *MemoryProfileStore) Get(_ context.Context, id string) (models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return models.UserProfile{}, ErrProfileNotFound
	}
	p.ProfileData = cloneProfileData(p.ProfileData)
	return p, nil
}

func (s *MemoryProfileStore) Create(ctx context.Context, data models.ProfileData) (models.UserProfile, error) {
	return s.Update(ctx, uuid.NewString(), data)
}

func (s *MemoryProfileStore) Update(_ context.Context, id string, data models.ProfileData) (models.UserProfile, error) {
	p := models.UserProfile{ID: id, ProfileData: cloneProfileData(data)}

	s.mu.Lock()
	s.profiles[id] = p
	s.mu.Unlock()

	p.ProfileData = cloneProfileData(p.ProfileData)
	return p, nil
}

func (s *MemoryProfileStore) Upsert(ctx context.Context, id string, data models.ProfileData) (models.UserProfile, error) {
	if id == "" {
		return s.Create(ctx, data)
	}

	s.mu.Lock()
	if _, ok := s.profiles[id]; !ok {
		s.mu.Unlock()
		return s.Create(ctx, data)
	}
	p := models.UserProfile{ID: id, ProfileData: cloneProfileData(data)}
	s.profiles[id] = p
	s.mu.Unlock()

	p.ProfileData = cloneProfileData(p.ProfileData)
	return p, nil
}

func (s *MemoryProfileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

/* ====================================================================
                   		Plans
==================================================================== */

// MemoryPlanStore indexes plans by profile id. One instance per plan kind.
type MemoryPlanStore struct {
	mu        sync.RWMutex
	byProfile map[string]models.Plan
}

func NewMemoryPlanStore() *MemoryPlanStore {
	return &MemoryPlanStore{byProfile: make(map[string]models.Plan)}
}

func (s *MemoryPlanStore) GetByProfile(_ context.Context, profileID string) (models.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byProfile[profileID]
	if !ok {
		return models.Plan{}, ErrPlanNotFound
	}
	p.PlanData = cloneRaw(p.PlanData)
	return p, nil
}

func (s *MemoryPlanStore) PutByProfile(_ context.Context, profileID string, payload json.RawMessage) (models.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byProfile[profileID]
	if !ok {
		p = models.Plan{ID: uuid.NewString(), ProfileID: profileID}
	}
	p.PlanData = cloneRaw(payload)
	s.byProfile[profileID] = p

	p.PlanData = cloneRaw(p.PlanData)
	return p, nil
}

func (s *MemoryPlanStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byProfile)
}

func cloneRaw(b json.RawMessage) json.RawMessage {
	if b == nil {
		return nil
	}
	out := make(json.RawMessage, len(b))
	copy(out, b)
	return out
}

/* ====================================================================
                   		Images
==================================================================== */

// MemoryImageCache lives until restart; entries never expire.
type MemoryImageCache struct {
	mu     sync.RWMutex
	byName map[string]models.GeneratedImage
}

func NewMemoryImageCache() *MemoryImageCache {
	return &MemoryImageCache{byName: make(map[string]models.GeneratedImage)}
}

func (c *MemoryImageCache) GetByName(_ context.Context, name string) (models.GeneratedImage, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	img, ok := c.byName[name]
	if !ok {
		return models.GeneratedImage{}, ErrImageNotFound
	}
	return img, nil
}

func (c *MemoryImageCache) Put(_ context.Context, name string, itemType models.ItemType, url string) (models.GeneratedImage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if img, ok := c.byName[name]; ok {
		return img, nil
	}

	img := models.GeneratedImage{
		ID:       uuid.NewString(),
		ItemName: name,
		ItemType: itemType,
		ImageURL: url,
	}
	c.byName[name] = img
	return img, nil
}

func (c *MemoryImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byName)
}
