package mockapi

import (
	"fmt"
	"strings"

	"fittrack-client/internal/models"
)

type templateExercise struct {
	name     string
	sets     string
	reps     string
	duration string
}

type templateDay struct {
	day       string
	workout   string
	exercises []templateExercise
}

var weekTemplate = []templateDay{
	{"Monday", "Upper Body", []templateExercise{
		{name: "Push-ups", sets: "3", reps: "12"},
		{name: "Dumbbell Row", sets: "3", reps: "10"},
		{name: "Shoulder Press", sets: "3", reps: "10"},
	}},
	{"Tuesday", "Cardio", []templateExercise{
		{name: "Brisk Walk", duration: "30 minutes"},
		{name: "Jump Rope", sets: "5", duration: "1 minute"},
	}},
	{"Wednesday", "Lower Body", []templateExercise{
		{name: "Squat", sets: "3", reps: "10"},
		{name: "Lunges", sets: "3", reps: "12"},
		{name: "Glute Bridge", sets: "3", reps: "15"},
	}},
	{"Thursday", "", nil},
	{"Friday", "Full Body", []templateExercise{
		{name: "Deadlift", sets: "3", reps: "8"},
		{name: "Burpees", sets: "3", reps: "10"},
	}},
	{"Saturday", "Core", []templateExercise{
		{name: "Plank", sets: "3", duration: "45 seconds"},
		{name: "Bicycle Crunch", sets: "3", reps: "20"},
	}},
	{"Sunday", "", nil},
}

// generatePlan builds the fixed weekly plan, trimming volume when the
// profile lists any health condition.
func generatePlan(profile models.Profile) []models.WorkoutDay {
	light := len(profile.HealthConditions) > 0

	days := make([]models.WorkoutDay, 0, len(weekTemplate))
	for _, t := range weekTemplate {
		day := models.WorkoutDay{Day: t.day, Workout: t.workout, Exercises: []models.Exercise{}}
		for _, e := range t.exercises {
			ex := models.Exercise{Name: e.name}
			sets := e.sets
			if light && sets != "" {
				sets = "2"
			}
			ex.Sets = optional(sets)
			ex.Reps = optional(e.reps)
			ex.Duration = optional(e.duration)
			day.Exercises = append(day.Exercises, ex)
		}
		days = append(days, day)
	}
	return days
}

func optional(s string) *models.Quantity {
	if s == "" {
		return nil
	}
	return models.NewQuantity(s)
}

// cannedReply stands in for the language model.
func cannedReply(history []models.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == models.RoleUser {
			text := strings.TrimSpace(history[i].Content)
			return fmt.Sprintf("You said %q. Stay consistent and keep moving!", text)
		}
	}
	return "Hello! How can I help with your training today?"
}
