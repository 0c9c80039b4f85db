package models

import (
	"encoding/json"
	"testing"
)

func TestExercise_QuantityAcceptsStringsAndNumbers(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		sets     string
		duration *string
	}{
		{"string quantities", `{"name":"Squat","sets":"3","duration":"5 min"}`, "3", strp("5 min")},
		{"numeric quantities", `{"name":"Squat","sets":3,"duration":null}`, "3", nil},
		{"decimal quantity", `{"name":"Run","sets":2.5}`, "2.5", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var ex Exercise
			if err := json.Unmarshal([]byte(tc.body), &ex); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if ex.Sets == nil || string(*ex.Sets) != tc.sets {
				t.Errorf("Expected sets %q, got %v", tc.sets, ex.Sets)
			}
			if tc.duration == nil && ex.Duration != nil {
				t.Errorf("Expected no duration, got %q", *ex.Duration)
			}
			if tc.duration != nil && (ex.Duration == nil || string(*ex.Duration) != *tc.duration) {
				t.Errorf("Expected duration %q, got %v", *tc.duration, ex.Duration)
			}
		})
	}
}

func TestExercise_QuantityRejectsOtherTypes(t *testing.T) {
	var ex Exercise
	if err := json.Unmarshal([]byte(`{"name":"Squat","sets":true}`), &ex); err == nil {
		t.Error("Expected error for a boolean quantity")
	}
}

func TestExercise_LocalIDStaysOffTheWire(t *testing.T) {
	data, err := json.Marshal(Exercise{LocalID: "local-1", Name: "Plank", Duration: NewQuantity("60s")})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"name":"Plank","sets":null,"reps":null,"duration":"60s"}`
	if string(data) != want {
		t.Errorf("Expected %s, got %s", want, data)
	}
}

func strp(s string) *string { return &s }
