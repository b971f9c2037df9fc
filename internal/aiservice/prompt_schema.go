package aiservice

import (
	"encoding/json"
	"fmt"

	"FitCoach/internal/models"
)

/* =================================================================================
							GEMINI SCHEMA DEFINITION
	Tells Gemini how to format its JSON response. OpenAI only gets the JSON-object
	directive, so the same shape is also spelled out in every user prompt.
=================================================================================*/

// GeminiSchema defines the structure for controlled generation (structured output).
type GeminiSchema struct {
	// Type is the data type: "OBJECT", "ARRAY", "STRING", "INTEGER" or "NUMBER".
	Type string `json:"type"`

	Format string `json:"format,omitempty"` // e.g., "enum"

	// Description explains the field's purpose to the model.
	Description string `json:"description,omitempty"`

	Properties map[string]*GeminiSchema `json:"properties,omitempty"`

	Items *GeminiSchema `json:"items,omitempty"`

	Required []string `json:"required,omitempty"`

	Enum []string `json:"enum,omitempty"`
}

var exerciseSchema = &GeminiSchema{
	Type: "OBJECT",
	Properties: map[string]*GeminiSchema{
		"name":         {Type: "STRING", Description: "Exercise name"},
		"sets":         {Type: "INTEGER"},
		"reps":         {Type: "STRING", Description: "Repetitions, may be a range such as 10-12"},
		"duration":     {Type: "STRING", Description: "Duration for timed exercises, e.g. 30 seconds"},
		"difficulty":   {Type: "STRING", Format: "enum", Enum: []string{models.DifficultyBeginner, models.DifficultyIntermediate, models.DifficultyAdvanced}},
		"muscleGroup":  {Type: "STRING", Description: "Chest/Back/Legs/etc"},
		"equipment":    {Type: "STRING", Description: "Dumbbells/Bodyweight/etc"},
		"instructions": {Type: "STRING", Description: "Brief step-by-step instructions"},
	},
	Required: []string{"name", "difficulty", "muscleGroup"},
}

// WorkoutPlanSchema mirrors models.WorkoutPlanPayload.
var WorkoutPlanSchema = &GeminiSchema{
	Type: "OBJECT",
	Properties: map[string]*GeminiSchema{
		"overview": {Type: "STRING", Description: "2-3 sentences explaining the plan's approach"},
		"weeklyPlan": {
			Type:        "ARRAY",
			Description: "Exactly 7 days",
			Items: &GeminiSchema{
				Type: "OBJECT",
				Properties: map[string]*GeminiSchema{
					"day":       {Type: "STRING", Description: "e.g. Day 1 - Monday"},
					"exercises": {Type: "ARRAY", Description: "3-6 exercises", Items: exerciseSchema},
				},
				Required: []string{"day", "exercises"},
			},
		},
	},
	Required: []string{"overview", "weeklyPlan"},
}

var mealSchema = &GeminiSchema{
	Type: "OBJECT",
	Properties: map[string]*GeminiSchema{
		"name":        {Type: "STRING"},
		"mealType":    {Type: "STRING", Format: "enum", Enum: []string{models.MealTypeBreakfast, models.MealTypeLunch, models.MealTypeDinner, models.MealTypeSnack}},
		"calories":    {Type: "NUMBER"},
		"protein":     {Type: "NUMBER", Description: "grams"},
		"carbs":       {Type: "NUMBER", Description: "grams"},
		"fats":        {Type: "NUMBER", Description: "grams"},
		"ingredients": {Type: "ARRAY", Items: &GeminiSchema{Type: "STRING"}},
		"preparation": {Type: "STRING", Description: "Brief preparation steps"},
	},
	Required: []string{"name", "mealType", "calories", "protein", "carbs", "fats"},
}

// DietPlanSchema mirrors models.DietPlanPayload.
var DietPlanSchema = &GeminiSchema{
	Type: "OBJECT",
	Properties: map[string]*GeminiSchema{
		"overview":           {Type: "STRING", Description: "2-3 sentences explaining the nutrition approach"},
		"totalDailyCalories": {Type: "INTEGER", Description: "Daily calorie target"},
		"weeklyPlan": {
			Type:        "ARRAY",
			Description: "Exactly 7 days",
			Items: &GeminiSchema{
				Type: "OBJECT",
				Properties: map[string]*GeminiSchema{
					"day":   {Type: "STRING", Description: "e.g. Day 1 - Monday"},
					"meals": {Type: "ARRAY", Description: "4-5 meals", Items: mealSchema},
				},
				Required: []string{"day", "meals"},
			},
		},
	},
	Required: []string{"overview", "totalDailyCalories", "weeklyPlan"},
}

// MotivationSchema mirrors models.MotivationPayload.
var MotivationSchema = &GeminiSchema{
	Type: "OBJECT",
	Properties: map[string]*GeminiSchema{
		"quote":  {Type: "STRING", Description: "One or two sentence motivational quote"},
		"author": {Type: "STRING", Description: "Who said it, or Coach for an original quote"},
		"tip":    {Type: "STRING", Description: "One practical tip tied to the goal"},
	},
	Required: []string{"quote"},
}

/* =================================================================================
						PROMPT ENGINEERING
=================================================================================*/

const (
	WorkoutSystemPrompt    = "You are an expert fitness coach who creates personalized workout plans. Always respond with valid JSON."
	DietSystemPrompt       = "You are an expert nutritionist who creates personalized diet plans. Always respond with valid JSON."
	MotivationSystemPrompt = "You are an encouraging fitness coach who writes short, personal motivational messages. Always respond with valid JSON."
)

const workoutPromptTemplate = `You are an expert fitness coach. Generate a personalized 7-day workout plan for the following user:

Name: %s
Age: %d
Gender: %s
Height: %dcm
Weight: %dkg
Fitness Goal: %s
Fitness Level: %s
Workout Location: %s

Please create a comprehensive weekly workout plan with the following structure:
- Provide an overview (2-3 sentences) explaining the plan's approach
- Create 7 daily workout plans
- Each day should have 3-6 exercises
- For each exercise, include: name, sets, reps (or duration), difficulty level (Beginner/Intermediate/Advanced), muscle group targeted, equipment needed, and brief instructions

Respond in JSON format with this exact structure (duration is optional):
%s`

const dietPromptTemplate = `You are an expert nutritionist. Generate a personalized 7-day diet plan for the following user:

Name: %s
Age: %d
Gender: %s
Height: %dcm
Weight: %dkg
Fitness Goal: %s
Dietary Preference: %s

Please create a comprehensive weekly diet plan with the following structure:
- Provide an overview (2-3 sentences) explaining the nutrition approach
- Specify the total daily calorie target
- Create 7 daily meal plans
- Each day should have 4-5 meals (breakfast, lunch, dinner, and 1-2 snacks)
- For each meal, include: name, meal type, calories, protein (g), carbs (g), fats (g), ingredients list, and brief preparation instructions

Respond in JSON format with this exact structure:
%s`

const motivationPromptTemplate = `Write a short motivational message for the following user:

Name: %s
Fitness Goal: %s

Address the user by name in the tip, keep the quote under 30 words and make the tip concrete and doable today.

Respond in JSON format with this exact structure:
%s`

func intPtr(i int) *int { return &i }

var (
	workoutExample = mustIndent(models.WorkoutPlanPayload{
		Overview: "string",
		WeeklyPlan: []models.WorkoutDay{{
			Day: "Day 1 - Monday",
			Exercises: []models.Exercise{{
				Name:         "Exercise name",
				Sets:         intPtr(3),
				Reps:         "10-12",
				Duration:     "30 seconds",
				Difficulty:   "Beginner/Intermediate/Advanced",
				MuscleGroup:  "Chest/Back/Legs/etc",
				Equipment:    "Dumbbells/Bodyweight/etc",
				Instructions: "Brief step-by-step instructions",
			}},
		}},
	})

	dietExample = mustIndent(models.DietPlanPayload{
		Overview:           "string",
		TotalDailyCalories: 2000,
		WeeklyPlan: []models.DietDay{{
			Day: "Day 1 - Monday",
			Meals: []models.Meal{{
				Name:        "Meal name",
				MealType:    "Breakfast/Lunch/Dinner/Snack",
				Calories:    450,
				Protein:     25,
				Carbs:       50,
				Fats:        15,
				Ingredients: []string{"ingredient 1", "ingredient 2"},
				Preparation: "Brief preparation steps",
			}},
		}},
	})

	motivationExample = mustIndent(models.MotivationPayload{
		Quote:  "string",
		Author: "string",
		Tip:    "string",
	})
)

func mustIndent(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		panic(err)
	}
	return string(b)
}

// BuildWorkoutPrompt embeds every workout-relevant profile field verbatim.
func BuildWorkoutPrompt(in models.WorkoutInput) string {
	return fmt.Sprintf(workoutPromptTemplate,
		in.Name, in.Age, in.Gender, in.Height, in.Weight,
		in.FitnessGoal, in.FitnessLevel, in.WorkoutLocation,
		workoutExample,
	)
}

// BuildDietPrompt embeds every diet-relevant profile field verbatim.
func BuildDietPrompt(in models.DietInput) string {
	return fmt.Sprintf(dietPromptTemplate,
		in.Name, in.Age, in.Gender, in.Height, in.Weight,
		in.FitnessGoal, in.DietaryPreference,
		dietExample,
	)
}

func BuildMotivationPrompt(name, fitnessGoal string) string {
	return fmt.Sprintf(motivationPromptTemplate, name, fitnessGoal, motivationExample)
}

// BuildImagePrompt returns the photorealistic athlete prompt for exercises and
// the food-styling prompt for everything else.
func BuildImagePrompt(itemName string, itemType models.ItemType) string {
	if itemType == models.ItemTypeExercise {
		return fmt.Sprintf("High-quality photorealistic image of a fit athlete performing %s with perfect form in a clean, modern gym. "+
			"Full body visible, correct posture, proper biomechanics, natural lighting, realistic muscles, DSLR 50mm lens, sharp details, "+
			"dynamic angle, cinematic 4K shot, no text, no watermark, hyperrealistic training photoshoot style.", itemName)
	}
	return fmt.Sprintf("Beautifully plated, vibrant, healthy %s with professional food styling. "+
		"Soft natural lighting, shallow depth of field, restaurant-quality presentation, macro 8K detail, clean background, "+
		"no text, no people, no cutlery, appetizing and colorful.", itemName)
}
