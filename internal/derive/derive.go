// Package derive holds the pure numeric helpers the record transformers
// share: calorie estimation from macronutrients and clock-duration
// formatting.
package derive

import (
	"fmt"
	"math"
	"time"
)

// Calories per gram of each macronutrient.
const (
	carbCalories    = 4
	proteinCalories = 4
	fatCalories     = 9
)

// Calories estimates the caloric content of a meal from its macros in grams,
// rounded to the nearest whole calorie.
func Calories(carbs, protein, fat float64) float64 {
	return math.Round(carbs*carbCalories + protein*proteinCalories + fat*fatCalories)
}

// Duration formats the whole-minute difference between two timestamps as a
// zero-padded HH:MM clock string. Hours are unbounded beyond 24. An end
// before start renders "00:00"; callers that care report it as a warning.
func Duration(start, end time.Time) string {
	minutes := int(end.Sub(start).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
