/*
Package aiservice turns profiles into plans, motivational messages and images
by calling a JSON-constrained text model and an image model, then validating
what comes back. Every failure surfaces as a *GenerationError.
*/
package aiservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"FitCoach/internal/config"
	"FitCoach/internal/metrics"
	"FitCoach/internal/models"
	"github.com/rs/zerolog"
)

// TextRequest is one JSON-constrained text generation.
type TextRequest struct {
	Task         string
	SystemPrompt string
	UserPrompt   string
	// Schema is honoured by backends with structured output (Gemini).
	Schema *GeminiSchema
}

// TextGenerator returns the raw model output. An empty string with a nil
// error means the call succeeded without content.
type TextGenerator interface {
	GenerateJSON(ctx context.Context, req TextRequest) (string, error)
}

// ImageBackend returns the URL of one generated image, or "" if the backend
// answered without one.
type ImageBackend interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Generator runs every generation. Calls are not retried.
type Generator struct {
	text    TextGenerator
	images  ImageBackend
	timeout time.Duration
}

func NewGenerator(text TextGenerator, images ImageBackend, timeout time.Duration) *Generator {
	return &Generator{text: text, images: images, timeout: timeout}
}

// NewFromConfig wires the provider selected in cfg. Images always use the
// OpenAI-compatible endpoint.
func NewFromConfig(cfg config.AIConfig) (*Generator, error) {
	httpClient := &http.Client{}

	openai := NewOpenAIClient(OpenAIOptions{
		APIKey:       cfg.OpenAIKey,
		BaseURL:      cfg.OpenAIBaseURL,
		TextModel:    cfg.TextModel,
		ImageModel:   cfg.ImageModel,
		ImageSize:    cfg.ImageSize,
		ImageQuality: cfg.ImageQuality,
		HTTPClient:   httpClient,
	})

	var text TextGenerator
	switch cfg.Provider {
	case config.ProviderOpenAI:
		text = openai
	case config.ProviderGemini:
		text = NewGeminiClient(cfg.GeminiKey, cfg.GeminiBaseURL, cfg.TextModel, httpClient)
	default:
		return nil, fmt.Errorf("aiservice/NewFromConfig: unknown provider %q", cfg.Provider)
	}

	return NewGenerator(text, openai, cfg.RequestTimeout), nil
}

// callContext detaches from the caller's cancellation so a dropped client
// does not abort a paid-for call, and bounds the call by the configured timeout.
func (g *Generator) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if g.timeout <= 0 {
		return context.WithCancel(detached)
	}
	return context.WithTimeout(detached, g.timeout)
}

func (g *Generator) generateJSON(ctx context.Context, req TextRequest, validate func(string) (json.RawMessage, error)) (json.RawMessage, error) {
	log := zerolog.Ctx(ctx)
	start := time.Now()

	callCtx, cancel := g.callContext(ctx)
	defer cancel()

	doc, err := func() (json.RawMessage, error) {
		content, err := g.text.GenerateJSON(callCtx, req)
		if err != nil {
			return nil, backendError(req.Task, err)
		}
		if content == "" {
			return nil, &GenerationError{Task: req.Task, Kind: KindEmptyResponse, Reason: "No content received from AI"}
		}
		return validate(content)
	}()

	outcome := metrics.OutcomeOK
	if err != nil {
		var genErr *GenerationError
		if errors.As(err, &genErr) {
			outcome = string(genErr.Kind)
		}
		log.Error().Err(err).Str("task", req.Task).Str("kind", outcome).Msg("AI generation failed")
	} else {
		log.Info().Str("task", req.Task).Dur("took", time.Since(start)).Msg("AI generation succeeded")
	}
	metrics.ObserveGeneration(req.Task, outcome, time.Since(start))

	return doc, err
}

// WorkoutPlan generates and validates a 7-day workout plan.
func (g *Generator) WorkoutPlan(ctx context.Context, in models.WorkoutInput) (json.RawMessage, error) {
	return g.generateJSON(ctx, TextRequest{
		Task:         TaskWorkoutPlan,
		SystemPrompt: WorkoutSystemPrompt,
		UserPrompt:   BuildWorkoutPrompt(in),
		Schema:       WorkoutPlanSchema,
	}, ValidateWorkoutPlan)
}

// DietPlan generates and validates a 7-day diet plan.
func (g *Generator) DietPlan(ctx context.Context, in models.DietInput) (json.RawMessage, error) {
	return g.generateJSON(ctx, TextRequest{
		Task:         TaskDietPlan,
		SystemPrompt: DietSystemPrompt,
		UserPrompt:   BuildDietPrompt(in),
		Schema:       DietPlanSchema,
	}, ValidateDietPlan)
}

func (g *Generator) Motivation(ctx context.Context, name, fitnessGoal string) (json.RawMessage, error) {
	return g.generateJSON(ctx, TextRequest{
		Task:         TaskMotivation,
		SystemPrompt: MotivationSystemPrompt,
		UserPrompt:   BuildMotivationPrompt(name, fitnessGoal),
		Schema:       MotivationSchema,
	}, ValidateMotivation)
}

// Image generates one illustration and returns its URL.
func (g *Generator) Image(ctx context.Context, itemName string, itemType models.ItemType) (string, error) {
	log := zerolog.Ctx(ctx)
	start := time.Now()

	callCtx, cancel := g.callContext(ctx)
	defer cancel()

	url, err := g.images.GenerateImage(callCtx, BuildImagePrompt(itemName, itemType))
	switch {
	case err != nil:
		err = backendError(TaskImage, err)
	case url == "":
		err = &GenerationError{Task: TaskImage, Kind: KindEmptyResponse, Reason: "No image URL received"}
	}

	if err != nil {
		kind := string(KindBackend)
		var genErr *GenerationError
		if errors.As(err, &genErr) {
			kind = string(genErr.Kind)
		}
		metrics.ObserveGeneration(TaskImage, kind, time.Since(start))
		log.Error().Err(err).Str("item_name", itemName).Msg("image generation failed")
		return "", err
	}

	metrics.ObserveGeneration(TaskImage, metrics.OutcomeOK, time.Since(start))
	log.Info().Str("item_name", itemName).Str("item_type", string(itemType)).Msg("image generated")
	return url, nil
}
