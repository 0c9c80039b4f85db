package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"fittrack-client/internal/api"
	"fittrack-client/internal/models"
	"fittrack-client/internal/services"
	"fittrack-client/internal/session"
	"fittrack-client/internal/views"
)

type app struct {
	client    *api.Client
	completer services.Completer
	model     string

	auth    *services.AuthService
	chats   *services.ChatService
	profile *services.ProfileService
	workout *services.WorkoutService
	in      *prompter
	out     io.Writer
}

func newApp(client *api.Client, sess *session.Session, completer services.Completer, model string, in *prompter, out io.Writer) *app {
	a := &app{
		client:    client,
		completer: completer,
		model:     model,
		auth:      services.NewAuthService(client, sess),
		in:        in,
		out:       out,
	}
	a.resetState()
	return a
}

// resetState drops everything cached for the current user.
func (a *app) resetState() {
	a.chats = services.NewChatService(a.client)
	a.profile = services.NewProfileService(a.client)
	a.workout = services.NewWorkoutService(a.client)
}

func (a *app) logout(ctx context.Context) error {
	a.resetState()
	return a.auth.Logout(ctx)
}

func (a *app) run(ctx context.Context) {
	for {
		if user, err := a.auth.CurrentUser(ctx); err != nil {
			a.authMenu(ctx)
		} else {
			a.mainMenu(ctx, user)
		}
	}
}

// report prints a failed call. An unusable session sends the user back to
// the auth menu.
func (a *app) report(ctx context.Context, action string, err error) {
	var verr *services.ValidationError
	var statusErr *api.StatusError
	switch {
	case errors.As(err, &verr):
		for field, msg := range verr.Fields {
			fmt.Fprintf(a.out, "  %s: %s\n", field, msg)
		}
	case errors.Is(err, session.ErrNoToken), errors.Is(err, session.ErrInvalidToken):
		fmt.Fprintln(a.out, "Your session has ended, please log in again.")
		a.logout(ctx)
	case errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized:
		fmt.Fprintf(a.out, "%s failed: %v\n", action, err)
		a.logout(ctx)
	default:
		fmt.Fprintf(a.out, "%s failed: %v\n", action, err)
	}
}

// ──── Auth ────

func (a *app) authMenu(ctx context.Context) {
	fmt.Fprintln(a.out, "\n=== Auth Menu ===")
	fmt.Fprintln(a.out, "1. Login")
	fmt.Fprintln(a.out, "2. Register")
	fmt.Fprintln(a.out, "3. Exit")

	switch a.in.line("> ") {
	case "1":
		username := a.in.line("Username: ")
		password := a.in.line("Password: ")
		user, err := a.auth.Login(ctx, models.LoginRequest{Username: username, Password: password})
		if err != nil {
			a.report(ctx, "Login", err)
			return
		}
		a.resetState()
		fmt.Fprintf(a.out, "Welcome back, %s!\n", user)
	case "2":
		username := a.in.line("Username: ")
		email := a.in.line("Email: ")
		password := a.in.line("Password: ")
		user, err := a.auth.Register(ctx, models.RegisterRequest{Username: username, Email: email, Password: password})
		if err != nil {
			a.report(ctx, "Registration", err)
			return
		}
		a.resetState()
		fmt.Fprintf(a.out, "Account created, you are logged in as %s.\n", user)
	case "3":
		fmt.Fprintln(a.out, "Goodbye!")
		os.Exit(0)
	default:
		fmt.Fprintln(a.out, "Invalid choice")
	}
}

func (a *app) mainMenu(ctx context.Context, user string) {
	fmt.Fprintf(a.out, "\n=== Main Menu (%s) ===\n", user)
	fmt.Fprintln(a.out, "1. Profile")
	fmt.Fprintln(a.out, "2. Weekly workout")
	fmt.Fprintln(a.out, "3. Chats")
	fmt.Fprintln(a.out, "4. Assistant")
	fmt.Fprintln(a.out, "5. Logout")
	fmt.Fprintln(a.out, "6. Exit")

	switch a.in.line("> ") {
	case "1":
		a.profileScreen(ctx)
	case "2":
		a.workoutScreen(ctx)
	case "3":
		a.chatsScreen(ctx)
	case "4":
		a.assistantScreen(ctx)
	case "5":
		if err := a.logout(ctx); err != nil {
			a.report(ctx, "Logout", err)
			return
		}
		fmt.Fprintln(a.out, "Logged out")
	case "6":
		fmt.Fprintln(a.out, "Goodbye!")
		os.Exit(0)
	default:
		fmt.Fprintln(a.out, "Invalid choice")
	}
}

// ──── Profile ────

func (a *app) profileScreen(ctx context.Context) {
	if _, err := a.profile.Load(ctx); err != nil {
		a.report(ctx, "Loading profile", err)
		return
	}

	for {
		p, _ := a.profile.Profile()
		fmt.Fprintln(a.out, "\n=== Profile ===")
		views.RenderProfile(a.out, p)
		fmt.Fprintln(a.out, "\n1. Edit details  2. Add goal  3. Remove goal  4. Add condition  5. Remove condition  6. Back")

		var err error
		action := ""
		switch a.in.line("> ") {
		case "1":
			action = "Updating profile"
			if update, ok := a.readProfileUpdate(); ok {
				_, err = a.profile.Update(ctx, update)
			}
		case "2":
			action = "Adding goal"
			if goal, ok := a.readGoal(); ok {
				_, err = a.profile.AddGoal(ctx, goal)
			}
		case "3":
			action = "Removing goal"
			if id, ok := a.in.number("Goal id: "); ok {
				err = a.profile.RemoveGoal(ctx, id)
			}
		case "4":
			action = "Adding condition"
			_, err = a.profile.AddCondition(ctx, models.Condition{ConditionDescription: a.in.line("Description: ")})
		case "5":
			action = "Removing condition"
			if id, ok := a.in.number("Condition id: "); ok {
				err = a.profile.RemoveCondition(ctx, id)
			}
		case "6":
			return
		default:
			fmt.Fprintln(a.out, "Invalid choice")
		}
		if err != nil {
			a.report(ctx, action, err)
			if !a.stillLoggedIn(ctx) {
				return
			}
		}
	}
}

// readProfileUpdate stops at the first unreadable number so a typo never
// overwrites a stored value.
func (a *app) readProfileUpdate() (models.ProfileUpdate, bool) {
	var u models.ProfileUpdate
	age, ok := a.in.number("Age: ")
	if !ok {
		return u, false
	}
	u.Age = int(age)
	u.Gender = a.in.line("Gender: ")
	if u.Height, ok = a.in.float("Height: "); !ok {
		return u, false
	}
	if u.Weight, ok = a.in.float("Weight: "); !ok {
		return u, false
	}
	return u, true
}

func (a *app) readGoal() (models.Goal, bool) {
	g := models.Goal{GoalDescription: a.in.line("Description: ")}
	var ok bool
	if g.TargetWeight, ok = a.in.float("Target weight: "); !ok {
		return g, false
	}
	if g.TargetBodyFatPercentage, ok = a.in.float("Target body fat %: "); !ok {
		return g, false
	}
	if g.TargetCaloricIntake, ok = a.in.float("Target calories: "); !ok {
		return g, false
	}
	return g, true
}

// ──── Workout ────

func (a *app) workoutScreen(ctx context.Context) {
	if _, err := a.workout.Load(ctx); err != nil {
		a.report(ctx, "Loading workout", err)
		return
	}

	for {
		days := a.workout.Days()
		fmt.Fprintln(a.out, "\n=== Weekly Workout ===")
		views.RenderWorkout(a.out, days)
		fmt.Fprintln(a.out, "\n1. Generate plan  2. Delete plan  3. Add exercise  4. Edit exercise  5. Remove exercise  6. Back")

		var err error
		action := ""
		switch a.in.line("> ") {
		case "1":
			action = "Generating workout"
			_, err = a.workout.Generate(ctx)
		case "2":
			action = "Deleting workout"
			err = a.workout.DeletePlan(ctx)
		case "3":
			action = "Adding exercise"
			if dayID, ok := a.in.number("Day id: "); ok {
				_, err = a.workout.AddExercise(ctx, dayID, a.readExercise())
			}
		case "4":
			action = "Updating exercise"
			if dayID, n, ok := a.pickExercise(days); ok {
				localID := dayExercises(days, dayID)[n].LocalID
				_, err = a.workout.UpdateExercise(ctx, dayID, localID, a.readExercise())
			}
		case "5":
			action = "Removing exercise"
			if dayID, n, ok := a.pickExercise(days); ok {
				err = a.workout.RemoveExercise(ctx, dayID, dayExercises(days, dayID)[n].LocalID)
			}
		case "6":
			return
		default:
			fmt.Fprintln(a.out, "Invalid choice")
		}
		if err != nil {
			a.report(ctx, action, err)
			if !a.stillLoggedIn(ctx) {
				return
			}
		}
	}
}

func (a *app) readExercise() models.Exercise {
	return models.Exercise{
		Name:     a.in.line("Name: "),
		Sets:     a.in.optional("Sets (blank to skip): "),
		Reps:     a.in.optional("Reps (blank to skip): "),
		Duration: a.in.optional("Duration (blank to skip): "),
	}
}

// pickExercise asks for a day and the exercise's number as listed on screen.
func (a *app) pickExercise(days []models.WorkoutDay) (int64, int, bool) {
	dayID, ok := a.in.number("Day id: ")
	if !ok {
		return 0, 0, false
	}
	n, ok := a.in.number("Exercise number: ")
	if !ok {
		return 0, 0, false
	}
	exercises := dayExercises(days, dayID)
	if n < 1 || int(n) > len(exercises) {
		fmt.Fprintln(a.out, "No such exercise")
		return 0, 0, false
	}
	return dayID, int(n) - 1, true
}

func dayExercises(days []models.WorkoutDay, dayID int64) []models.Exercise {
	for _, d := range days {
		if d.DayID == dayID {
			return d.Exercises
		}
	}
	return nil
}

// ──── Chats ────

func (a *app) chatsScreen(ctx context.Context) {
	if err := a.chats.Refresh(ctx); err != nil {
		a.report(ctx, "Loading chats", err)
		return
	}

	for {
		sel, hasSel := a.chats.Selected()
		fmt.Fprintln(a.out, "\n=== Chats ===")
		views.RenderChatList(a.out, a.chats.Chats(), sel.ChatID, hasSel)
		fmt.Fprintln(a.out, "\n1. Open selected  2. Select  3. New chat  4. Delete chat  5. Back")

		var err error
		action := ""
		switch a.in.line("> ") {
		case "1":
			if !hasSel {
				fmt.Fprintln(a.out, "No chat selected")
				continue
			}
			a.conversation(ctx)
		case "2":
			if id, ok := a.in.number("Chat id: "); ok {
				if err := a.chats.Select(id); err != nil {
					fmt.Fprintln(a.out, "No such chat")
				}
			}
		case "3":
			action = "Creating chat"
			_, err = a.chats.NewChat(ctx)
		case "4":
			action = "Deleting chat"
			if id, ok := a.in.number("Chat id: "); ok {
				err = a.chats.DeleteChat(ctx, id)
			}
		case "5":
			return
		default:
			fmt.Fprintln(a.out, "Invalid choice")
		}
		if err != nil {
			a.report(ctx, action, err)
			if !a.stillLoggedIn(ctx) {
				return
			}
		}
	}
}

func (a *app) conversation(ctx context.Context) {
	fmt.Fprintln(a.out, "Type '/retry' to resend a failed message, 'exit' to leave.")
	for {
		sel, ok := a.chats.Selected()
		if !ok {
			return
		}
		views.RenderChat(a.out, sel)

		text := a.in.line("You: ")
		var err error
		switch text {
		case "exit":
			return
		case "/retry":
			_, err = a.chats.Retry(ctx)
		default:
			_, err = a.chats.Send(ctx, text)
		}
		switch {
		case err == nil, errors.Is(err, services.ErrEmptyMessage):
		case errors.Is(err, services.ErrNothingToRetry), errors.Is(err, services.ErrSendInFlight):
			fmt.Fprintln(a.out, err)
		default:
			a.report(ctx, "Sending message", err)
			if !a.stillLoggedIn(ctx) {
				return
			}
		}
	}
}

// ──── Assistant ────

func (a *app) assistantScreen(ctx context.Context) {
	fmt.Fprintln(a.out, "\n=== Assistant ===")
	fmt.Fprintln(a.out, "Type 'exit' to leave.")
	// Each visit starts a new conversation.
	assistant := services.NewAssistantService(a.completer, a.model)
	views.RenderAssistant(a.out, assistant.Messages(), false)

	for {
		question := a.in.line("You: ")
		if question == "exit" {
			return
		}
		if question == "" {
			continue
		}
		views.RenderAssistant(a.out, nil, true)
		reply, err := assistant.Send(ctx, question)
		if err != nil {
			a.report(ctx, "Sending message", err)
			continue
		}
		fmt.Fprintf(a.out, "Bot: %s\n", reply.Text)
	}
}

func (a *app) stillLoggedIn(ctx context.Context) bool {
	_, err := a.auth.CurrentUser(ctx)
	return err == nil
}
