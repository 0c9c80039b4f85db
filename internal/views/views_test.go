package views

import (
	"bytes"
	"strings"
	"testing"

	"fittrack-client/internal/models"
)

func strPtr(s string) *models.Quantity { return models.NewQuantity(s) }

func TestVisibleMessages_DropsSystemAndFunction(t *testing.T) {
	msgs := []models.Message{
		{Role: models.RoleUser, Content: "hi"},
		{Role: models.RoleSystem, Content: "you are a coach"},
		{Role: models.RoleAssistant, Content: "hello"},
		{Role: models.RoleUser, Content: "plan?"},
		{Role: models.RoleFunction, Content: "{}"},
	}

	got := VisibleMessages(msgs)

	want := []string{"hi", "hello", "plan?"}
	if len(got) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(got))
	}
	for i, m := range got {
		if m.Content != want[i] {
			t.Errorf("message %d: expected %q, got %q", i, want[i], m.Content)
		}
		if m.Role == models.RoleSystem {
			t.Errorf("system message rendered at %d", i)
		}
	}
}

func TestVisibleMessages_SecondMessageIsShown(t *testing.T) {
	msgs := []models.Message{
		{Role: models.RoleUser, Content: "first"},
		{Role: models.RoleAssistant, Content: "second"},
	}

	var buf bytes.Buffer
	RenderChat(&buf, models.Chat{ChatID: 1, Messages: msgs})

	if !strings.Contains(buf.String(), "Bot: second") {
		t.Errorf("expected the second message to be rendered, got:\n%s", buf.String())
	}
}

func TestRenderChat_MarksStatus(t *testing.T) {
	chat := models.Chat{ChatID: 3, Messages: []models.Message{
		{Role: models.RoleUser, Content: "one", Status: models.StatusFailed},
		{Role: models.RoleUser, Content: "two", Status: models.StatusPending},
	}}

	var buf bytes.Buffer
	RenderChat(&buf, chat)
	out := buf.String()

	if !strings.Contains(out, "You: one (failed)") {
		t.Errorf("expected failed marker, got:\n%s", out)
	}
	if !strings.Contains(out, "You: two (sending...)") {
		t.Errorf("expected pending marker, got:\n%s", out)
	}
}

func TestRenderExercise_OmitsMissingQuantities(t *testing.T) {
	ex := models.Exercise{Name: "Squat", Sets: strPtr("3"), Reps: strPtr("10"), Duration: nil}

	var buf bytes.Buffer
	RenderExercise(&buf, 1, ex)
	out := buf.String()

	if !strings.Contains(out, "Sets: 3") || !strings.Contains(out, "Reps: 10") {
		t.Errorf("expected sets and reps lines, got:\n%s", out)
	}
	if strings.Contains(out, "Duration") {
		t.Errorf("expected no duration line, got:\n%s", out)
	}
}

func TestRenderDay(t *testing.T) {
	tests := []struct {
		name     string
		day      models.WorkoutDay
		contains []string
	}{
		{
			name:     "rest day",
			day:      models.WorkoutDay{DayID: 4, Day: "Thursday"},
			contains: []string{"Thursday", "Rest Day", "No exercises for this day."},
		},
		{
			name: "training day",
			day: models.WorkoutDay{DayID: 1, Day: "Monday", Workout: "Upper Body", Exercises: []models.Exercise{
				{Name: "Plank", Duration: strPtr("45 seconds")},
			}},
			contains: []string{"Upper Body", "1. Plank", "Duration: 45 seconds"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			RenderDay(&buf, tc.day)
			for _, s := range tc.contains {
				if !strings.Contains(buf.String(), s) {
					t.Errorf("expected %q in output:\n%s", s, buf.String())
				}
			}
		})
	}
}

func TestRenderWorkout_Empty(t *testing.T) {
	var buf bytes.Buffer
	RenderWorkout(&buf, nil)
	if !strings.Contains(buf.String(), "don't have a workout") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestRenderProfile(t *testing.T) {
	p := models.Profile{
		Age: 31, Gender: "female", Height: 170, Weight: 64.5,
		Goals:            []models.Goal{{GoalID: 7, GoalDescription: "Run 10k", TargetWeight: 60}},
		HealthConditions: []models.Condition{{ConditionID: 9, ConditionDescription: "Asthma"}},
	}

	var buf bytes.Buffer
	RenderProfile(&buf, p)
	out := buf.String()

	for _, s := range []string{"Age: 31", "Height: 170", "Weight: 64.50", "[7] Run 10k", "[9] Asthma"} {
		if !strings.Contains(out, s) {
			t.Errorf("expected %q in output:\n%s", s, out)
		}
	}
}

func TestRenderAssistant_Typing(t *testing.T) {
	var buf bytes.Buffer
	RenderAssistant(&buf, []models.LocalMessage{{ID: 0, Text: "Hello!"}}, true)
	if !strings.Contains(buf.String(), "Bot: Hello!") || !strings.Contains(buf.String(), "Bot is typing...") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}
