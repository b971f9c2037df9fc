/*
Package models holds the domain records shared by the stores, the AI generators
and the HTTP layer: user profiles, stored plans, cached images and the plan
payload shapes the generators are asked to produce.
*/
package models

// ProfileData carries every user-editable profile field. It is what clients
// submit and what the stores replace wholesale on update.
type ProfileData struct {
	Name              string  `json:"name" validate:"required"`
	Age               int     `json:"age" validate:"required,gt=0"`
	Gender            string  `json:"gender" validate:"required"`
	Height            int     `json:"height" validate:"required,gt=0"` // cm
	Weight            int     `json:"weight" validate:"required,gt=0"` // kg
	FitnessGoal       string  `json:"fitnessGoal" validate:"required"`
	FitnessLevel      string  `json:"fitnessLevel" validate:"required"`
	WorkoutLocation   string  `json:"workoutLocation" validate:"required"`
	DietaryPreference string  `json:"dietaryPreference" validate:"required"`
	MedicalHistory    *string `json:"medicalHistory,omitempty"`
	StressLevel       *string `json:"stressLevel,omitempty"`
}

// UserProfile is a stored profile. ID is assigned once on creation and never changes.
type UserProfile struct {
	ID string `json:"id"`
	ProfileData
}

// WorkoutInput is the subset of a profile the workout generator needs.
type WorkoutInput struct {
	Name            string
	Age             int
	Gender          string
	Height          int
	Weight          int
	FitnessGoal     string
	FitnessLevel    string
	WorkoutLocation string
}

// DietInput is the subset of a profile the diet generator needs.
type DietInput struct {
	Name              string
	Age               int
	Gender            string
	Height            int
	Weight            int
	FitnessGoal       string
	DietaryPreference string
}

// WorkoutInput projects the profile onto the workout generator's input.
func (p ProfileData) WorkoutInput() WorkoutInput {
	return WorkoutInput{
		Name:            p.Name,
		Age:             p.Age,
		Gender:          p.Gender,
		Height:          p.Height,
		Weight:          p.Weight,
		FitnessGoal:     p.FitnessGoal,
		FitnessLevel:    p.FitnessLevel,
		WorkoutLocation: p.WorkoutLocation,
	}
}

// DietInput projects the profile onto the diet generator's input.
func (p ProfileData) DietInput() DietInput {
	return DietInput{
		Name:              p.Name,
		Age:               p.Age,
		Gender:            p.Gender,
		Height:            p.Height,
		Weight:            p.Weight,
		FitnessGoal:       p.FitnessGoal,
		DietaryPreference: p.DietaryPreference,
	}
}
