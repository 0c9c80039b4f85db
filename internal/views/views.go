// Package views renders client state as plain text for the terminal.
package views

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"fittrack-client/internal/models"
)

// VisibleMessages drops system and function messages, which are never shown.
func VisibleMessages(msgs []models.Message) []models.Message {
	out := make([]models.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == models.RoleSystem || m.Role == models.RoleFunction {
			continue
		}
		out = append(out, m)
	}
	return out
}

func RenderChatList(w io.Writer, chats []models.Chat, selected int64, hasSelection bool) {
	if len(chats) == 0 {
		fmt.Fprintln(w, "No chats yet.")
		return
	}
	for i, c := range chats {
		marker := " "
		if hasSelection && c.ChatID == selected {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %d. Chat #%d (%s, %d messages)\n", marker, i+1, c.ChatID, c.Model, len(VisibleMessages(c.Messages)))
	}
}

func RenderChat(w io.Writer, chat models.Chat) {
	fmt.Fprintf(w, "── Chat #%d ──\n", chat.ChatID)
	for _, m := range VisibleMessages(chat.Messages) {
		speaker := "Bot"
		if m.Role == models.RoleUser {
			speaker = "You"
		}
		fmt.Fprintf(w, "%s: %s%s\n", speaker, m.Content, statusSuffix(m.Status))
	}
}

func statusSuffix(status models.MessageStatus) string {
	switch status {
	case models.StatusPending:
		return " (sending...)"
	case models.StatusFailed:
		return " (failed)"
	}
	return ""
}

func RenderAssistant(w io.Writer, msgs []models.LocalMessage, typing bool) {
	for _, m := range msgs {
		speaker := "Bot"
		if m.IsUser {
			speaker = "You"
		}
		fmt.Fprintf(w, "%s: %s\n", speaker, m.Text)
	}
	if typing {
		fmt.Fprintln(w, "Bot is typing...")
	}
}

func RenderProfile(w io.Writer, p models.Profile) {
	fmt.Fprintf(w, "Age: %d\n", p.Age)
	fmt.Fprintf(w, "Gender: %s\n", p.Gender)
	fmt.Fprintf(w, "Height: %s\n", formatNumber(p.Height))
	fmt.Fprintf(w, "Weight: %s\n", formatNumber(p.Weight))

	fmt.Fprintln(w, "\nGoals:")
	if len(p.Goals) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for _, g := range p.Goals {
		fmt.Fprintf(w, "  [%d] %s\n", g.GoalID, g.GoalDescription)
		fmt.Fprintf(w, "      Target weight: %s, body fat: %s%%, calories: %s\n",
			formatNumber(g.TargetWeight), formatNumber(g.TargetBodyFatPercentage), formatNumber(g.TargetCaloricIntake))
	}

	fmt.Fprintln(w, "\nHealth conditions:")
	if len(p.HealthConditions) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for _, c := range p.HealthConditions {
		fmt.Fprintf(w, "  [%d] %s\n", c.ConditionID, c.ConditionDescription)
	}
}

func RenderWorkout(w io.Writer, days []models.WorkoutDay) {
	if len(days) == 0 {
		fmt.Fprintln(w, "You don't have a workout scheduled.")
		return
	}
	for i, d := range days {
		if i > 0 {
			fmt.Fprintln(w)
		}
		RenderDay(w, d)
	}
}

// RenderDay prints a day with its exercises. Quantity lines appear only for
// the quantities that are set.
func RenderDay(w io.Writer, d models.WorkoutDay) {
	workout := d.Workout
	if workout == "" {
		workout = "Rest Day"
	}
	fmt.Fprintf(w, "%s [%d]\n  %s\n", d.Day, d.DayID, workout)

	if len(d.Exercises) == 0 {
		fmt.Fprintln(w, "  No exercises for this day.")
		return
	}
	for i, e := range d.Exercises {
		RenderExercise(w, i+1, e)
	}
}

func RenderExercise(w io.Writer, n int, e models.Exercise) {
	fmt.Fprintf(w, "  %d. %s\n", n, e.Name)
	if e.Sets != nil && *e.Sets != "" {
		fmt.Fprintf(w, "     Sets: %s\n", *e.Sets)
	}
	if e.Reps != nil && *e.Reps != "" {
		fmt.Fprintf(w, "     Reps: %s\n", *e.Reps)
	}
	if e.Duration != nil && *e.Duration != "" {
		fmt.Fprintf(w, "     Duration: %s\n", *e.Duration)
	}
}

func formatNumber(f float64) string {
	return strings.TrimSuffix(strconv.FormatFloat(f, 'f', 2, 64), ".00")
}
