package models

import (
	"encoding/json"
	"fmt"
)

// WorkoutDay is one day of the weekly plan. An empty Workout is a rest day.
type WorkoutDay struct {
	DayID     int64      `json:"dayId"`
	Day       string     `json:"day"`
	Workout   string     `json:"workout"`
	Exercises []Exercise `json:"exercises"`
}

// Exercise quantities are free text and any of them may be absent.
// ID is only ever set by the backend; LocalID is assigned on the client and
// never sent.
type Exercise struct {
	ID       string    `json:"exerciseId,omitempty"`
	LocalID  string    `json:"-"`
	Name     string    `json:"name"`
	Sets     *Quantity `json:"sets"`
	Reps     *Quantity `json:"reps"`
	Duration *Quantity `json:"duration"`
}

// Quantity is a free-text amount that the backend may send as a JSON string
// or a number.
type Quantity string

func NewQuantity(s string) *Quantity {
	q := Quantity(s)
	return &q
}

func (q *Quantity) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = Quantity(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("quantity must be a string or a number: %w", err)
	}
	*q = Quantity(n.String())
	return nil
}
