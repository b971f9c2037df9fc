package database

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"FitCoach/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

var (
	_ ProfileStore = (*PostgresProfileStore)(nil)
	_ PlanStore    = (*PostgresPlanStore)(nil)
	_ ImageCache   = (*PostgresImageCache)(nil)
)

// NewPool opens a pgx pool, checks connectivity and applies the schema.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	const op = "database/NewPool"

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: unable to create connection pool: %w", op, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pool, nil
}

// Migrate creates the tables if they are missing. It is idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

/* ====================================================================
                   		Profiles
==================================================================== */

type PostgresProfileStore struct {
	pool *pgxpool.Pool
}

func NewPostgresProfileStore(pool *pgxpool.Pool) *PostgresProfileStore {
	return &PostgresProfileStore{pool: pool}
}

const profileColumns = `id, name, age, gender, height, weight, fitness_goal, fitness_level,
	workout_location, dietary_preference, medical_history, stress_level`

func scanProfile(row pgx.Row) (models.UserProfile, error) {
	var p models.UserProfile
	err := row.Scan(
		&p.ID, &p.Name, &p.Age, &p.Gender, &p.Height, &p.Weight,
		&p.FitnessGoal, &p.FitnessLevel, &p.WorkoutLocation, &p.DietaryPreference,
		&p.MedicalHistory, &p.StressLevel,
	)
	return p, err
}

func (s *PostgresProfileStore) Get(ctx context.Context, id string) (models.UserProfile, error) {
	const op = "database/PostgresProfileStore.Get"

	p, err := scanProfile(s.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM user_profiles WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.UserProfile{}, ErrProfileNotFound
	}
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s *PostgresProfileStore) Create(ctx context.Context, data models.ProfileData) (models.UserProfile, error) {
	return s.Update(ctx, uuid.NewString(), data)
}

func (s *PostgresProfileStore) Update(ctx context.Context, id string, data models.ProfileData) (models.UserProfile, error) {
	const op = "database/PostgresProfileStore.Update"

	p, err := scanProfile(s.pool.QueryRow(ctx, `
		INSERT INTO user_profiles (`+profileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			age = EXCLUDED.age,
			gender = EXCLUDED.gender,
			height = EXCLUDED.height,
			weight = EXCLUDED.weight,
			fitness_goal = EXCLUDED.fitness_goal,
			fitness_level = EXCLUDED.fitness_level,
			workout_location = EXCLUDED.workout_location,
			dietary_preference = EXCLUDED.dietary_preference,
			medical_history = EXCLUDED.medical_history,
			stress_level = EXCLUDED.stress_level
		RETURNING `+profileColumns,
		id, data.Name, data.Age, data.Gender, data.Height, data.Weight,
		data.FitnessGoal, data.FitnessLevel, data.WorkoutLocation, data.DietaryPreference,
		data.MedicalHistory, data.StressLevel,
	))
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s *PostgresProfileStore) Upsert(ctx context.Context, id string, data models.ProfileData) (models.UserProfile, error) {
	const op = "database/PostgresProfileStore.Upsert"

	if id == "" {
		return s.Create(ctx, data)
	}

	if _, err := s.Get(ctx, id); err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return s.Create(ctx, data)
		}
		return models.UserProfile{}, fmt.Errorf("%s: %w", op, err)
	}
	return s.Update(ctx, id, data)
}

/* ====================================================================
                   		Plans
==================================================================== */

var planTables = map[models.PlanKind]string{
	models.PlanKindWorkout: "workout_plans",
	models.PlanKindDiet:    "diet_plans",
}

type PostgresPlanStore struct {
	pool  *pgxpool.Pool
	table string
}

func NewPostgresPlanStore(pool *pgxpool.Pool, kind models.PlanKind) (*PostgresPlanStore, error) {
	table, ok := planTables[kind]
	if !ok {
		return nil, fmt.Errorf("database/NewPostgresPlanStore: unknown plan kind %q", kind)
	}
	return &PostgresPlanStore{pool: pool, table: table}, nil
}

func (s *PostgresPlanStore) GetByProfile(ctx context.Context, profileID string) (models.Plan, error) {
	const op = "database/PostgresPlanStore.GetByProfile"

	var (
		p    models.Plan
		data []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, profile_id, plan_data FROM `+s.table+` WHERE profile_id = $1`, profileID,
	).Scan(&p.ID, &p.ProfileID, &data)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Plan{}, ErrPlanNotFound
	}
	if err != nil {
		return models.Plan{}, fmt.Errorf("%s: %w", op, err)
	}

	p.PlanData = json.RawMessage(data)
	return p, nil
}

func (s *PostgresPlanStore) PutByProfile(ctx context.Context, profileID string, payload json.RawMessage) (models.Plan, error) {
	const op = "database/PostgresPlanStore.PutByProfile"

	var (
		p    models.Plan
		data []byte
	)
	err := s.pool.QueryRow(ctx, `
		INSERT INTO `+s.table+` (id, profile_id, plan_data)
		VALUES ($1, $2, $3)
		ON CONFLICT (profile_id) DO UPDATE SET plan_data = EXCLUDED.plan_data
		RETURNING id, profile_id, plan_data`,
		uuid.NewString(), profileID, []byte(payload),
	).Scan(&p.ID, &p.ProfileID, &data)
	if err != nil {
		return models.Plan{}, fmt.Errorf("%s: %w", op, err)
	}

	p.PlanData = json.RawMessage(data)
	return p, nil
}

/* ====================================================================
                   		Images
==================================================================== */

type PostgresImageCache struct {
	pool *pgxpool.Pool
}

func NewPostgresImageCache(pool *pgxpool.Pool) *PostgresImageCache {
	return &PostgresImageCache{pool: pool}
}

func (c *PostgresImageCache) GetByName(ctx context.Context, name string) (models.GeneratedImage, error) {
	const op = "database/PostgresImageCache.GetByName"

	var img models.GeneratedImage
	err := c.pool.QueryRow(ctx,
		`SELECT id, item_name, item_type, image_url FROM generated_images WHERE item_name = $1`, name,
	).Scan(&img.ID, &img.ItemName, &img.ItemType, &img.ImageURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.GeneratedImage{}, ErrImageNotFound
	}
	if err != nil {
		return models.GeneratedImage{}, fmt.Errorf("%s: %w", op, err)
	}
	return img, nil
}

func (c *PostgresImageCache) Put(ctx context.Context, name string, itemType models.ItemType, url string) (models.GeneratedImage, error) {
	const op = "database/PostgresImageCache.Put"

	_, err := c.pool.Exec(ctx, `
		INSERT INTO generated_images (id, item_name, item_type, image_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (item_name) DO NOTHING`,
		uuid.NewString(), name, string(itemType), url,
	)
	if err != nil {
		return models.GeneratedImage{}, fmt.Errorf("%s: %w", op, err)
	}

	// Whoever inserted first, the stored row is the answer.
	return c.GetByName(ctx, name)
}
