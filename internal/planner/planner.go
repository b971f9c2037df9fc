/*
Package planner is the HTTP surface of the plan generator. Its handlers
validate input, sequence the stores around the AI generators and translate
every failure into a status code and JSON error body.
*/
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"FitCoach/internal/aiservice"
	"FitCoach/internal/database"
	"FitCoach/internal/metrics"
	"FitCoach/internal/models"
	"FitCoach/internal/utility"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Generator is what the handlers need from the AI layer.
type Generator interface {
	WorkoutPlan(ctx context.Context, in models.WorkoutInput) (json.RawMessage, error)
	DietPlan(ctx context.Context, in models.DietInput) (json.RawMessage, error)
	Motivation(ctx context.Context, name, fitnessGoal string) (json.RawMessage, error)
	Image(ctx context.Context, itemName string, itemType models.ItemType) (string, error)
}

var _ Generator = (*aiservice.Generator)(nil)

type Handler struct {
	db  database.Service
	gen Generator

	// imageCalls collapses concurrent misses for one item name.
	imageCalls singleflight.Group
}

func NewHandler(db database.Service, gen Generator) *Handler {
	return &Handler{db: db, gen: gen}
}

// Register mounts the API routes on g (normally the /api group).
func (h *Handler) Register(g *echo.Group) {
	g.POST("/profile", h.CreateProfileHandler)
	g.GET("/profile/:profileId", h.GetProfileHandler)
	g.POST("/generate-workout", h.GenerateWorkoutHandler)
	g.POST("/generate-diet", h.GenerateDietHandler)
	g.POST("/generate-plans", h.GeneratePlansHandler)
	g.GET("/workout-plan/:profileId", h.GetWorkoutPlanHandler)
	g.GET("/diet-plan/:profileId", h.GetDietPlanHandler)
	g.GET("/generate-image", h.GenerateImageHandler)
	g.POST("/motivation", h.MotivationHandler)
}

/* ====================================================================
                   		DTOs
==================================================================== */

// GeneratePlanRequest is a full profile plus the id it is stored under.
type GeneratePlanRequest struct {
	ProfileID string `json:"profileId" validate:"required"`
	models.ProfileData
}

type CreateProfileResponse struct {
	ProfileID string `json:"profileId"`
}

type GeneratePlansResponse struct {
	WorkoutPlan json.RawMessage `json:"workoutPlan"`
	DietPlan    json.RawMessage `json:"dietPlan"`
}

type ImageResponse struct {
	ImageURL string `json:"imageUrl"`
}

type MotivationRequest struct {
	Name        string `json:"name"`
	FitnessGoal string `json:"fitnessGoal"`
}

/* ====================================================================
                   		HELPERS
==================================================================== */

func (h *Handler) bindPlanRequest(c echo.Context) (*GeneratePlanRequest, error) {
	var req GeneratePlanRequest
	if err := c.Bind(&req); err != nil {
		return nil, err
	}
	if err := c.Validate(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// generationFailure maps a generator error to a 500 carrying its message.
func generationFailure(c echo.Context, err error, fallback string) error {
	var genErr *aiservice.GenerationError
	if errors.As(err, &genErr) {
		return respondError(c, http.StatusInternalServerError, CodeGenerationFailed, genErr.Error())
	}
	return respondError(c, http.StatusInternalServerError, CodeGenerationFailed, fallback)
}

type planSpec struct {
	kind     models.PlanKind
	store    func() database.PlanStore
	generate func(ctx context.Context, data models.ProfileData) (json.RawMessage, error)
	failMsg  string
}

func (h *Handler) workoutSpec() planSpec {
	return planSpec{
		kind:  models.PlanKindWorkout,
		store: h.db.WorkoutPlans,
		generate: func(ctx context.Context, data models.ProfileData) (json.RawMessage, error) {
			return h.gen.WorkoutPlan(ctx, data.WorkoutInput())
		},
		failMsg: "Failed to generate workout plan",
	}
}

func (h *Handler) dietSpec() planSpec {
	return planSpec{
		kind:  models.PlanKindDiet,
		store: h.db.DietPlans,
		generate: func(ctx context.Context, data models.ProfileData) (json.RawMessage, error) {
			return h.gen.DietPlan(ctx, data.DietInput())
		},
		failMsg: "Failed to generate diet plan",
	}
}

// errStore marks a failure writing a generated plan.
var errStore = errors.New("failed to store plan")

// generateAndStore runs one generator and saves the result. Store writes use
// a context detached from the request so an abandoned request still persists.
func (h *Handler) generateAndStore(ctx context.Context, spec planSpec, profileID string, data models.ProfileData) (json.RawMessage, error) {
	doc, err := spec.generate(ctx, data)
	if err != nil {
		return nil, err
	}

	if _, err := spec.store().PutByProfile(context.WithoutCancel(ctx), profileID, doc); err != nil {
		return nil, errors.Join(errStore, err)
	}
	return doc, nil
}

/* ====================================================================
                   		HANDLERS
==================================================================== */

// CreateProfileHandler stores a new profile and returns its id.
func (h *Handler) CreateProfileHandler(c echo.Context) error {
	log := utility.LoggerFromContext(c)

	var data models.ProfileData
	if err := c.Bind(&data); err != nil {
		log.Warn().Err(err).Msg("CreateProfile: bind failed")
		return respondError(c, http.StatusBadRequest, CodeInvalidArgument, "Invalid profile data")
	}
	if err := c.Validate(&data); err != nil {
		log.Warn().Err(err).Msg("CreateProfile: validation failed")
		return respondError(c, http.StatusBadRequest, CodeInvalidArgument, "Invalid profile data")
	}

	profile, err := h.db.Profiles().Create(c.Request().Context(), data)
	if err != nil {
		log.Error().Err(err).Msg("CreateProfile: store failed")
		return respondError(c, http.StatusInternalServerError, CodeInternal, "Failed to create profile")
	}

	log.Info().Str("profile_id", profile.ID).Msg("Profile created")
	return c.JSON(http.StatusOK, CreateProfileResponse{ProfileID: profile.ID})
}

func (h *Handler) GetProfileHandler(c echo.Context) error {
	profileID := strings.TrimSpace(c.Param("profileId"))
	if profileID == "" {
		return respondError(c, http.StatusBadRequest, CodeInvalidArgument, "Profile ID is required")
	}

	profile, err := h.db.Profiles().Get(c.Request().Context(), profileID)
	if errors.Is(err, database.ErrProfileNotFound) {
		return respondError(c, http.StatusNotFound, CodeNotFound, "Profile not found")
	}
	if err != nil {
		utility.LoggerFromContext(c).Error().Err(err).Str("profile_id", profileID).Msg("GetProfile: store failed")
		return respondError(c, http.StatusInternalServerError, CodeInternal, "Failed to fetch profile")
	}

	return c.JSON(http.StatusOK, profile)
}

// GenerateWorkoutHandler re-saves the submitted profile, generates a workout
// plan, stores it as the profile's latest and returns it.
func (h *Handler) GenerateWorkoutHandler(c echo.Context) error {
	return h.generatePlan(c, h.workoutSpec())
}

func (h *Handler) GenerateDietHandler(c echo.Context) error {
	return h.generatePlan(c, h.dietSpec())
}

func (h *Handler) generatePlan(c echo.Context, spec planSpec) error {
	log := utility.LoggerFromContext(c)
	ctx := c.Request().Context()

	req, err := h.bindPlanRequest(c)
	if err != nil {
		log.Warn().Err(err).Str("kind", string(spec.kind)).Msg("GeneratePlan: invalid request")
		return respondError(c, http.StatusBadRequest, CodeInvalidArgument, "Invalid profile data")
	}

	if _, err := h.db.Profiles().Update(ctx, req.ProfileID, req.ProfileData); err != nil {
		log.Error().Err(err).Str("profile_id", req.ProfileID).Msg("GeneratePlan: profile update failed")
		return respondError(c, http.StatusInternalServerError, CodeInternal, "Failed to save profile")
	}

	doc, err := h.generateAndStore(ctx, spec, req.ProfileID, req.ProfileData)
	if errors.Is(err, errStore) {
		log.Error().Err(err).Str("profile_id", req.ProfileID).Msg("GeneratePlan: store failed")
		return respondError(c, http.StatusInternalServerError, CodeInternal, "Failed to store "+string(spec.kind)+" plan")
	}
	if err != nil {
		return generationFailure(c, err, spec.failMsg)
	}

	log.Info().Str("profile_id", req.ProfileID).Str("kind", string(spec.kind)).Msg("Plan generated")
	return c.JSONBlob(http.StatusOK, doc)
}

// GeneratePlansHandler generates the workout and diet plans concurrently.
// Either failure fails the request; a plan that did succeed stays stored.
func (h *Handler) GeneratePlansHandler(c echo.Context) error {
	log := utility.LoggerFromContext(c)
	ctx := c.Request().Context()

	req, err := h.bindPlanRequest(c)
	if err != nil {
		log.Warn().Err(err).Msg("GeneratePlans: invalid request")
		return respondError(c, http.StatusBadRequest, CodeInvalidArgument, "Invalid profile data")
	}

	if _, err := h.db.Profiles().Update(ctx, req.ProfileID, req.ProfileData); err != nil {
		log.Error().Err(err).Str("profile_id", req.ProfileID).Msg("GeneratePlans: profile update failed")
		return respondError(c, http.StatusInternalServerError, CodeInternal, "Failed to save profile")
	}

	var (
		g    errgroup.Group
		resp GeneratePlansResponse
	)
	g.Go(func() error {
		doc, err := h.generateAndStore(ctx, h.workoutSpec(), req.ProfileID, req.ProfileData)
		resp.WorkoutPlan = doc
		return err
	})
	g.Go(func() error {
		doc, err := h.generateAndStore(ctx, h.dietSpec(), req.ProfileID, req.ProfileData)
		resp.DietPlan = doc
		return err
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, errStore) {
			log.Error().Err(err).Str("profile_id", req.ProfileID).Msg("GeneratePlans: store failed")
			return respondError(c, http.StatusInternalServerError, CodeInternal, "Failed to store plans")
		}
		return generationFailure(c, err, "Failed to generate plans")
	}

	log.Info().Str("profile_id", req.ProfileID).Msg("Workout and diet plans generated")
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetWorkoutPlanHandler(c echo.Context) error {
	return h.getPlan(c, h.db.WorkoutPlans(), "Workout plan not found", "Failed to fetch workout plan")
}

func (h *Handler) GetDietPlanHandler(c echo.Context) error {
	return h.getPlan(c, h.db.DietPlans(), "Diet plan not found", "Failed to fetch diet plan")
}

func (h *Handler) getPlan(c echo.Context, store database.PlanStore, notFoundMsg, failMsg string) error {
	profileID := strings.TrimSpace(c.Param("profileId"))
	if profileID == "" {
		return respondError(c, http.StatusBadRequest, CodeInvalidArgument, "Profile ID is required")
	}

	plan, err := store.GetByProfile(c.Request().Context(), profileID)
	if errors.Is(err, database.ErrPlanNotFound) {
		return respondError(c, http.StatusNotFound, CodeNotFound, notFoundMsg)
	}
	if err != nil {
		utility.LoggerFromContext(c).Error().Err(err).Str("profile_id", profileID).Msg("GetPlan: store failed")
		return respondError(c, http.StatusInternalServerError, CodeInternal, failMsg)
	}

	return c.JSONBlob(http.StatusOK, plan.PlanData)
}

// GenerateImageHandler returns the cached image for itemName, generating and
// caching one on a miss. The cache is keyed by name only.
func (h *Handler) GenerateImageHandler(c echo.Context) error {
	log := utility.LoggerFromContext(c)
	ctx := c.Request().Context()

	itemName := strings.TrimSpace(c.QueryParam("itemName"))
	itemType := models.ItemType(strings.TrimSpace(c.QueryParam("itemType")))
	if itemName == "" || itemType == "" {
		return respondError(c, http.StatusBadRequest, CodeInvalidArgument, "itemName and itemType are required")
	}
	if !itemType.Valid() {
		return respondError(c, http.StatusBadRequest, CodeInvalidArgument, "itemType must be exercise or meal")
	}

	images := h.db.Images()

	cached, err := images.GetByName(ctx, itemName)
	if err == nil {
		metrics.ImageCacheLookups.WithLabelValues("hit").Inc()
		return c.JSON(http.StatusOK, ImageResponse{ImageURL: cached.ImageURL})
	}
	if !errors.Is(err, database.ErrImageNotFound) {
		log.Error().Err(err).Str("item_name", itemName).Msg("GenerateImage: cache lookup failed")
		return respondError(c, http.StatusInternalServerError, CodeInternal, "Failed to generate image")
	}
	metrics.ImageCacheLookups.WithLabelValues("miss").Inc()

	v, err, shared := h.imageCalls.Do(itemName, func() (interface{}, error) {
		detached := context.WithoutCancel(ctx)

		// A call that finished just before this one joined may already have written.
		if img, err := images.GetByName(detached, itemName); err == nil {
			return img.ImageURL, nil
		}

		url, err := h.gen.Image(detached, itemName, itemType)
		if err != nil {
			return nil, err
		}

		img, err := images.Put(detached, itemName, itemType, url)
		if err != nil {
			return nil, err
		}
		return img.ImageURL, nil
	})
	if err != nil {
		log.Error().Err(err).Str("item_name", itemName).Msg("GenerateImage: failed")
		return respondError(c, http.StatusInternalServerError, CodeGenerationFailed, "Failed to generate image")
	}

	log.Info().Str("item_name", itemName).Bool("shared", shared).Msg("Image ready")
	return c.JSON(http.StatusOK, ImageResponse{ImageURL: v.(string)})
}

// MotivationHandler returns a short motivational quote for the user's goal.
func (h *Handler) MotivationHandler(c echo.Context) error {
	var req MotivationRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, CodeInvalidArgument, "Name and fitness goal are required")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.FitnessGoal = strings.TrimSpace(req.FitnessGoal)
	if req.Name == "" || req.FitnessGoal == "" {
		return respondError(c, http.StatusBadRequest, CodeInvalidArgument, "Name and fitness goal are required")
	}

	doc, err := h.gen.Motivation(c.Request().Context(), req.Name, req.FitnessGoal)
	if err != nil {
		return generationFailure(c, err, "Failed to generate motivation")
	}

	return c.JSONBlob(http.StatusOK, doc)
}
