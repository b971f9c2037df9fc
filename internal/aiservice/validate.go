package aiservice

import (
	"bytes"
	"encoding/json"
	"strings"
)

// cleanLLMResponse strips a surrounding markdown code fence, if any.
func cleanLLMResponse(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// parseObject decodes content into its top-level fields and returns the
// compacted document alongside. Anything but a JSON object is malformed.
func parseObject(task, content string) (map[string]json.RawMessage, json.RawMessage, error) {
	cleaned := cleanLLMResponse(content)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil || fields == nil {
		reason := "AI response is not a JSON object"
		if err != nil {
			reason = "invalid JSON received from AI: " + err.Error()
		}
		return nil, nil, &GenerationError{Task: task, Kind: KindMalformedResponse, Reason: reason, Err: err}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(cleaned)); err != nil {
		return nil, nil, &GenerationError{Task: task, Kind: KindMalformedResponse, Reason: "invalid JSON received from AI: " + err.Error(), Err: err}
	}

	return fields, json.RawMessage(buf.Bytes()), nil
}

func nonEmptyString(raw json.RawMessage) bool {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false
	}
	return strings.TrimSpace(s) != ""
}

func nonEmptyArray(raw json.RawMessage) bool {
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		return false
	}
	return len(arr) > 0
}

func positiveNumber(raw json.RawMessage) bool {
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return false
	}
	return n > 0
}

func invalidStructure(task string) *GenerationError {
	return &GenerationError{
		Task:   task,
		Kind:   KindInvalidStructure,
		Reason: "Invalid " + task + " structure received from AI",
	}
}

// ValidateWorkoutPlan requires a non-empty overview and a non-empty weeklyPlan array.
func ValidateWorkoutPlan(content string) (json.RawMessage, error) {
	fields, doc, err := parseObject(TaskWorkoutPlan, content)
	if err != nil {
		return nil, err
	}

	if !nonEmptyString(fields["overview"]) || !nonEmptyArray(fields["weeklyPlan"]) {
		return nil, invalidStructure(TaskWorkoutPlan)
	}
	return doc, nil
}

// ValidateDietPlan additionally requires a positive totalDailyCalories.
func ValidateDietPlan(content string) (json.RawMessage, error) {
	fields, doc, err := parseObject(TaskDietPlan, content)
	if err != nil {
		return nil, err
	}

	if !nonEmptyString(fields["overview"]) ||
		!positiveNumber(fields["totalDailyCalories"]) ||
		!nonEmptyArray(fields["weeklyPlan"]) {
		return nil, invalidStructure(TaskDietPlan)
	}
	return doc, nil
}

func ValidateMotivation(content string) (json.RawMessage, error) {
	fields, doc, err := parseObject(TaskMotivation, content)
	if err != nil {
		return nil, err
	}

	if !nonEmptyString(fields["quote"]) {
		return nil, invalidStructure(TaskMotivation)
	}
	return doc, nil
}
