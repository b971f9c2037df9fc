package models

import "encoding/json"

// PlanKind distinguishes the two plan stores.
type PlanKind string

const (
	PlanKindWorkout PlanKind = "workout"
	PlanKindDiet    PlanKind = "diet"
)

// Plan is the stored, most recent plan of one kind for one profile.
// PlanData is kept as the validated JSON returned by the generator and is
// served back to clients verbatim.
type Plan struct {
	ID        string          `json:"id"`
	ProfileID string          `json:"profileId"`
	PlanData  json.RawMessage `json:"planData"`
}

/* =================================================================================
							PLAN PAYLOAD SHAPES
	The contract the text-generation backend is asked to honour. Only the top-level
	fields are validated; nested values are trusted as returned.
=================================================================================*/

// Exercise difficulty levels.
const (
	DifficultyBeginner     = "Beginner"
	DifficultyIntermediate = "Intermediate"
	DifficultyAdvanced     = "Advanced"
)

// Meal types.
const (
	MealTypeBreakfast = "Breakfast"
	MealTypeLunch     = "Lunch"
	MealTypeDinner    = "Dinner"
	MealTypeSnack     = "Snack"
)

type Exercise struct {
	Name         string `json:"name"`
	Sets         *int   `json:"sets,omitempty"`
	Reps         string `json:"reps,omitempty"` // "10-12" style ranges allowed
	Duration     string `json:"duration,omitempty"`
	Difficulty   string `json:"difficulty"`
	MuscleGroup  string `json:"muscleGroup"`
	Equipment    string `json:"equipment,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

type WorkoutDay struct {
	Day       string     `json:"day"`
	Exercises []Exercise `json:"exercises"`
}

type WorkoutPlanPayload struct {
	Overview   string       `json:"overview"`
	WeeklyPlan []WorkoutDay `json:"weeklyPlan"`
}

type Meal struct {
	Name        string   `json:"name"`
	MealType    string   `json:"mealType"`
	Calories    float64  `json:"calories"`
	Protein     float64  `json:"protein"` // grams
	Carbs       float64  `json:"carbs"`   // grams
	Fats        float64  `json:"fats"`    // grams
	Ingredients []string `json:"ingredients,omitempty"`
	Preparation string   `json:"preparation,omitempty"`
}

type DietDay struct {
	Day   string `json:"day"`
	Meals []Meal `json:"meals"`
}

type DietPlanPayload struct {
	Overview           string    `json:"overview"`
	TotalDailyCalories int       `json:"totalDailyCalories"`
	WeeklyPlan         []DietDay `json:"weeklyPlan"`
}

// MotivationPayload is returned by the motivation endpoint.
type MotivationPayload struct {
	Quote  string `json:"quote"`
	Author string `json:"author,omitempty"`
	Tip    string `json:"tip,omitempty"`
}
