// Package estimate turns attendance counts and a menu's per-head consumption
// rates into food-quantity predictions.
package estimate

import (
	"errors"
	"math"

	"github.com/gatherly/gatherly/internal/model"
)

// ErrNegativeCount is returned when adults or kids is negative.
var ErrNegativeCount = errors.New("attendance counts must be non-negative")

// ForMenu computes the estimated quantity for each menu item:
// adults*perAdultKg + kids*perKidKg, rounded half-up to two decimals. The
// total is the sum of the unrounded per-item quantities, rounded once, so
// per-item rounding never accumulates into the total.
//
// Pure: same inputs always yield the same output.
func ForMenu(adults, kids int, menu []model.FoodItem) (*model.Prediction, error) {
	if adults < 0 || kids < 0 {
		return nil, ErrNegativeCount
	}

	items := make([]model.PredictionItem, 0, len(menu))
	var total float64
	for _, fi := range menu {
		raw := float64(adults)*fi.PerAdultKg + float64(kids)*fi.PerKidKg
		total += raw
		items = append(items, model.PredictionItem{
			FoodItemID: fi.ID,
			Name:       fi.Name,
			Category:   fi.Category,
			QuantityKg: round2(raw),
		})
	}

	return &model.Prediction{
		Generator: model.GeneratorRuleBased,
		Adults:    adults,
		Kids:      kids,
		Menu:      menu,
		Items:     items,
		TotalKg:   round2(total),
	}, nil
}

// round2 rounds half-up to two decimal places. Inputs are never negative
// here, so half away from zero and half-up coincide.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
