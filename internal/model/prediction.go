package model

import "time"

const (
	GeneratorRuleBased = "rule_based"
	GeneratorExternal  = "external"
)

// PredictionItem is the computed quantity for one menu item.
type PredictionItem struct {
	FoodItemID int64   `json:"food_item_id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	QuantityKg float64 `json:"quantity_kg"`
}

// Prediction is an immutable snapshot of a food-quantity estimate: the input
// counts and menu at generation time plus the computed breakdown. Never
// updated after creation.
type Prediction struct {
	ID        int64            `json:"id"`
	EventID   int64            `json:"event_id"`
	Generator string           `json:"generator"`
	Adults    int              `json:"adults"`
	Kids      int              `json:"kids"`
	Menu      []FoodItem       `json:"menu"`
	Items     []PredictionItem `json:"items"`
	TotalKg   float64          `json:"total_kg"`
	CreatedAt time.Time        `json:"created_at"`
}
