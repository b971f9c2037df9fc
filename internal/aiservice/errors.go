package aiservice

import "fmt"

// Kind classifies why a generation failed.
type Kind string

const (
	// KindBackend: the call to the AI provider failed (network, auth, quota, non-2xx).
	KindBackend Kind = "backend"
	// KindEmptyResponse: the call succeeded but carried no content.
	KindEmptyResponse Kind = "empty_response"
	// KindMalformedResponse: the content is not a JSON object.
	KindMalformedResponse Kind = "malformed_response"
	// KindInvalidStructure: the JSON lacks required top-level fields.
	KindInvalidStructure Kind = "invalid_structure"
)

// Task names used in error messages, logs and metrics.
const (
	TaskWorkoutPlan = "workout plan"
	TaskDietPlan    = "diet plan"
	TaskImage       = "image"
	TaskMotivation  = "motivation"
)

// GenerationError is returned by every generator. Its message is safe to show
// to clients and reads "Failed to generate <task>: <reason>".
type GenerationError struct {
	Task   string
	Kind   Kind
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("Failed to generate %s: %s", e.Task, e.Reason)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func backendError(task string, err error) *GenerationError {
	return &GenerationError{Task: task, Kind: KindBackend, Reason: err.Error(), Err: err}
}
