package mockapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"fittrack-client/internal/models"
)

// ──── Auth ────

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", r)
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Username and password are required", r)
		return
	}

	if err := s.store.Register(req.Username, req.Email, req.Password); err != nil {
		if errors.Is(err, errUserExists) {
			writeError(w, http.StatusConflict, "CONFLICT", err.Error(), r)
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register", r)
		return
	}

	s.issueToken(w, r, http.StatusCreated, req.Username)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", r)
		return
	}

	if err := s.store.Authenticate(req.Username, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error(), r)
		return
	}

	s.issueToken(w, r, http.StatusOK, req.Username)
}

func (s *Server) issueToken(w http.ResponseWriter, r *http.Request, status int, username string) {
	token, err := s.auth.GenerateAccessToken(username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue token", r)
		return
	}
	writeJSON(w, status, models.AuthResponse{Token: token})
}

// ──── Chats ────

// listChats shares the /chats/{id} pattern with the per-chat routes; here
// the segment is the username.
func (s *Server) listChats(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "id")
	if username != usernameFrom(r.Context()) {
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Access denied", r)
		return
	}
	writeJSON(w, http.StatusOK, s.store.ListChats(username))
}

func (s *Server) createChat(w http.ResponseWriter, r *http.Request) {
	chat := s.store.CreateChat(usernameFrom(r.Context()), s.model)
	writeJSON(w, http.StatusCreated, chat)
}

func (s *Server) sendChatMessage(w http.ResponseWriter, r *http.Request) {
	chatID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var msg models.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", r)
		return
	}
	if strings.TrimSpace(msg.Content) == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Message is required", r)
		return
	}
	if msg.Role == "" {
		msg.Role = models.RoleUser
	}

	username := usernameFrom(r.Context())
	history, err := s.store.AppendMessages(username, chatID, msg)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	reply := models.Message{Role: models.RoleAssistant, Content: cannedReply(history)}
	if _, err := s.store.AppendMessages(username, chatID, reply); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) deleteChat(w http.ResponseWriter, r *http.Request) {
	chatID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.store.DeleteChat(usernameFrom(r.Context()), chatID); err != nil {
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) complete(w http.ResponseWriter, r *http.Request) {
	var req models.CompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", r)
		return
	}

	history := make([]models.Message, len(req.Messages))
	for i, m := range req.Messages {
		history[i] = models.Message{Role: m.Role, Content: m.Content}
	}

	writeJSON(w, http.StatusOK, models.CompletionResponse{
		Choices: []models.CompletionChoice{{
			Message: &models.CompletionMessage{Role: models.RoleAssistant, Content: cannedReply(history)},
		}},
	})
}

// ──── Profile ────

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	username, ok := s.ownPath(w, r)
	if !ok {
		return
	}
	profile, err := s.store.Profile(username)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	username, ok := s.ownPath(w, r)
	if !ok {
		return
	}
	var update models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", r)
		return
	}
	profile, err := s.store.UpdateProfile(username, update)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) createGoal(w http.ResponseWriter, r *http.Request) {
	username, ok := s.ownPath(w, r)
	if !ok {
		return
	}
	var goal models.Goal
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", r)
		return
	}
	created, err := s.store.AddGoal(username, goal)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) deleteGoal(w http.ResponseWriter, r *http.Request) {
	username, ok := s.ownPath(w, r)
	if !ok {
		return
	}
	goalID, ok := pathID(w, r, "goalId")
	if !ok {
		return
	}
	if err := s.store.DeleteGoal(username, goalID); err != nil {
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createCondition(w http.ResponseWriter, r *http.Request) {
	username, ok := s.ownPath(w, r)
	if !ok {
		return
	}
	var condition models.Condition
	if err := json.NewDecoder(r.Body).Decode(&condition); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", r)
		return
	}
	created, err := s.store.AddCondition(username, condition)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) deleteCondition(w http.ResponseWriter, r *http.Request) {
	username, ok := s.ownPath(w, r)
	if !ok {
		return
	}
	conditionID, ok := pathID(w, r, "conditionId")
	if !ok {
		return
	}
	if err := s.store.DeleteCondition(username, conditionID); err != nil {
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ──── Weekly workout ────

func (s *Server) getWorkout(w http.ResponseWriter, r *http.Request) {
	username, ok := s.ownPath(w, r)
	if !ok {
		return
	}
	days, err := s.store.Workout(username)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func (s *Server) generateWorkout(w http.ResponseWriter, r *http.Request) {
	username, ok := s.ownPath(w, r)
	if !ok {
		return
	}
	profile, err := s.store.Profile(username)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	days, err := s.store.ReplaceWorkout(username, generatePlan(profile))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func (s *Server) deleteWorkout(w http.ResponseWriter, r *http.Request) {
	username, ok := s.ownPath(w, r)
	if !ok {
		return
	}
	if err := s.store.ClearWorkout(username); err != nil {
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createExercise(w http.ResponseWriter, r *http.Request) {
	username, ok := s.ownPath(w, r)
	if !ok {
		return
	}
	dayID, ok := pathID(w, r, "dayId")
	if !ok {
		return
	}
	var ex models.Exercise
	if err := json.NewDecoder(r.Body).Decode(&ex); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", r)
		return
	}
	created, err := s.store.AddExercise(username, dayID, ex)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateExercise(w http.ResponseWriter, r *http.Request) {
	username, ok := s.ownPath(w, r)
	if !ok {
		return
	}
	dayID, ok := pathID(w, r, "dayId")
	if !ok {
		return
	}
	var ex models.Exercise
	if err := json.NewDecoder(r.Body).Decode(&ex); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", r)
		return
	}
	updated, err := s.store.UpdateExercise(username, dayID, chi.URLParam(r, "exerciseId"), ex)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteExercise(w http.ResponseWriter, r *http.Request) {
	username, ok := s.ownPath(w, r)
	if !ok {
		return
	}
	dayID, ok := pathID(w, r, "dayId")
	if !ok {
		return
	}
	if err := s.store.DeleteExercise(username, dayID, chi.URLParam(r, "exerciseId")); err != nil {
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ──── Helpers ────

// ownPath checks that the {username} path segment matches the token subject.
func (s *Server) ownPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	username := chi.URLParam(r, "username")
	if username != usernameFrom(r.Context()) {
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Access denied", r)
		return "", false
	}
	return username, true
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid "+param, r)
		return 0, false
	}
	return id, true
}

func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found", r)
	case errors.Is(err, errNotChatOwner):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Access denied", r)
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), r)
	}
}
