/*
Package database holds the profile store, the two plan stores and the image
cache, with in-memory, Postgres and Redis implementations, and the Service that
bundles whichever backends the configuration selects.
*/
package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"FitCoach/internal/config"
	"FitCoach/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Service represents the set of stores the request handlers work against.
type Service interface {
	// Health returns a map of health status information.
	// The keys and values in the map are backend-specific.
	Health() map[string]string

	// Close releases every connection the service holds.
	Close()

	Profiles() ProfileStore
	WorkoutPlans() PlanStore
	DietPlans() PlanStore
	Images() ImageCache
}

type service struct {
	backend      string
	imageBackend string

	pool *pgxpool.Pool
	rdb  *redis.Client

	profiles ProfileStore
	workout  PlanStore
	diet     PlanStore
	images   ImageCache
}

func (s *service) Profiles() ProfileStore { return s.profiles }
func (s *service) WorkoutPlans() PlanStore { return s.workout }
func (s *service) DietPlans() PlanStore    { return s.diet }
func (s *service) Images() ImageCache      { return s.images }

// NewMemoryService returns a service backed entirely by process memory.
func NewMemoryService() Service {
	return &service{
		backend:      config.BackendMemory,
		imageBackend: config.BackendMemory,
		profiles:     NewMemoryProfileStore(),
		workout:      NewMemoryPlanStore(),
		diet:         NewMemoryPlanStore(),
		images:       NewMemoryImageCache(),
	}
}

// NewService builds the stores selected by cfg. Remote backends are dialed
// and checked before it returns.
func NewService(ctx context.Context, cfg *config.Config) (Service, error) {
	const op = "database/NewService"

	s := &service{
		backend:      cfg.Storage.Backend,
		imageBackend: cfg.ImageCache.EffectiveBackend(cfg.Storage.Backend),
	}

	needPool := s.backend == config.BackendPostgres || s.imageBackend == config.BackendPostgres
	if needPool {
		pool, err := NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		s.pool = pool
		log.Info().Msg("Connected to postgres.")
	}

	switch s.backend {
	case config.BackendPostgres:
		workout, err := NewPostgresPlanStore(s.pool, models.PlanKindWorkout)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		diet, err := NewPostgresPlanStore(s.pool, models.PlanKindDiet)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		s.profiles = NewPostgresProfileStore(s.pool)
		s.workout = workout
		s.diet = diet
	default:
		s.profiles = NewMemoryProfileStore()
		s.workout = NewMemoryPlanStore()
		s.diet = NewMemoryPlanStore()
	}

	var remote ImageCache
	switch s.imageBackend {
	case config.BackendRedis:
		rdb, err := NewRedisClient(ctx, cfg.ImageCache.RedisURL)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		s.rdb = rdb
		remote = NewRedisImageCache(rdb, cfg.ImageCache.KeyPrefix)
		log.Info().Msg("Connected to redis image cache.")
	case config.BackendPostgres:
		remote = NewPostgresImageCache(s.pool)
	default:
		s.images = NewMemoryImageCache()
	}

	if remote != nil {
		if cfg.ImageCache.LRUSize > 0 {
			front, err := NewLRUImageCache(remote, cfg.ImageCache.LRUSize)
			if err != nil {
				s.Close()
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			s.images = front
		} else {
			s.images = remote
		}
	}

	return s, nil
}

type lengther interface{ Len() int }

// Health checks every backend the service depends on.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := map[string]string{
		"status":              "up",
		"storage_backend":     s.backend,
		"image_cache_backend": s.imageBackend,
	}

	if l, ok := s.profiles.(lengther); ok {
		stats["profiles"] = strconv.Itoa(l.Len())
	}
	if l, ok := s.images.(lengther); ok {
		stats["cached_images"] = strconv.Itoa(l.Len())
	}

	if s.pool != nil {
		s.poolHealth(ctx, stats)
	}

	if s.rdb != nil {
		if err := s.rdb.Ping(ctx).Err(); err != nil {
			stats["status"] = "down"
			stats["redis_status"] = "down"
			stats["redis_error"] = fmt.Sprintf("redis down: %v", err)
			log.Error().Err(err).Msg("redis down")
		} else {
			stats["redis_status"] = "up"
		}
	}

	return stats
}

func (s *service) poolHealth(ctx context.Context, stats map[string]string) {
	if err := s.pool.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["db_status"] = "down"
		stats["db_error"] = fmt.Sprintf("db down: %v", err)
		log.Error().Err(err).Msg("db down")
		return
	}

	poolStats := s.pool.Stat()
	stats["db_status"] = "up"
	stats["total_conns"] = strconv.Itoa(int(poolStats.TotalConns()))
	stats["idle_conns"] = strconv.Itoa(int(poolStats.IdleConns()))
	stats["acquired_conns"] = strconv.Itoa(int(poolStats.AcquiredConns()))
	stats["max_conns"] = strconv.Itoa(int(poolStats.MaxConns()))
	stats["acquire_count"] = strconv.FormatInt(poolStats.AcquireCount(), 10)
	stats["acquire_duration_ms"] = strconv.FormatInt(poolStats.AcquireDuration().Milliseconds(), 10)
	stats["empty_acquire_count"] = strconv.FormatInt(poolStats.EmptyAcquireCount(), 10)

	if poolStats.AcquiredConns() > (poolStats.MaxConns() * 8 / 10) { // 80% capacity
		stats["message"] = "The database connection pool is experiencing heavy load."
	}
	if poolStats.EmptyAcquireCount() > 0 {
		stats["message"] = "The application has tried to acquire a connection from an empty pool. Consider increasing max connections."
	}
}

// Close closes the database and cache connections.
func (s *service) Close() {
	if s.pool != nil {
		s.pool.Close()
		log.Info().Msg("Disconnected from postgres.")
	}
	if s.rdb != nil {
		if err := s.rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close failed")
		}
	}
}
