package models

// ItemType says what a cached image depicts. It is informational only: the
// image cache is keyed by item name alone.
type ItemType string

const (
	ItemTypeExercise ItemType = "exercise"
	ItemTypeMeal     ItemType = "meal"
)

// Valid reports whether t is one of the known item types.
func (t ItemType) Valid() bool {
	return t == ItemTypeExercise || t == ItemTypeMeal
}

// GeneratedImage is a cached illustration for a named exercise or meal.
type GeneratedImage struct {
	ID       string   `json:"id"`
	ItemName string   `json:"itemName"`
	ItemType ItemType `json:"itemType"`
	ImageURL string   `json:"imageUrl"`
}
