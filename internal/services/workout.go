package services

import (
	"context"
	"errors"
	"log"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"fittrack-client/internal/models"
)

var (
	ErrDayNotFound      = errors.New("workout day not found")
	ErrExerciseNotFound = errors.New("exercise not found")
)

type WorkoutBackend interface {
	ListWorkout(ctx context.Context) ([]models.WorkoutDay, error)
	GenerateWorkout(ctx context.Context) ([]models.WorkoutDay, error)
	DeleteWorkout(ctx context.Context) error
	CreateExercise(ctx context.Context, dayID int64, exercise models.Exercise) (*models.Exercise, error)
	UpdateExercise(ctx context.Context, dayID int64, key string, exercise models.Exercise) (*models.Exercise, error)
	DeleteExercise(ctx context.Context, dayID int64, key string) error
}

// WorkoutService holds the weekly plan. Callers address exercises by their
// LocalID, which survives reordering within a day.
type WorkoutService struct {
	backend WorkoutBackend

	mu   sync.Mutex
	days []models.WorkoutDay
}

func NewWorkoutService(backend WorkoutBackend) *WorkoutService {
	return &WorkoutService{backend: backend}
}

func (s *WorkoutService) Load(ctx context.Context) ([]models.WorkoutDay, error) {
	days, err := s.backend.ListWorkout(ctx)
	if err != nil {
		log.Printf("Error fetching workout data: %v", err)
		return nil, err
	}
	return s.replace(days), nil
}

// Generate asks the backend for a fresh plan, replacing the current one.
func (s *WorkoutService) Generate(ctx context.Context) ([]models.WorkoutDay, error) {
	days, err := s.backend.GenerateWorkout(ctx)
	if err != nil {
		log.Printf("Error generating workout: %v", err)
		return nil, err
	}
	return s.replace(days), nil
}

func (s *WorkoutService) DeletePlan(ctx context.Context) error {
	if err := s.backend.DeleteWorkout(ctx); err != nil {
		log.Printf("Error deleting workout: %v", err)
		return err
	}

	s.mu.Lock()
	s.days = nil
	s.mu.Unlock()
	return nil
}

func (s *WorkoutService) Days() []models.WorkoutDay {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyDays(s.days)
}

// AddExercise creates exercise on dayID. The backend assigns the exercise id;
// the client only adds a LocalID.
func (s *WorkoutService) AddExercise(ctx context.Context, dayID int64, exercise models.Exercise) (models.Exercise, error) {
	if err := s.requireDay(dayID); err != nil {
		return models.Exercise{}, err
	}
	exercise.ID = ""
	exercise.LocalID = ""

	created, err := s.backend.CreateExercise(ctx, dayID, exercise)
	if err != nil {
		log.Printf("Error creating exercise: %v", err)
		return models.Exercise{}, err
	}
	created.LocalID = uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.dayIndex(dayID); i >= 0 {
		s.days[i].Exercises = append(s.days[i].Exercises, *created)
	}
	return *created, nil
}

// UpdateExercise replaces the exercise with the given LocalID.
func (s *WorkoutService) UpdateExercise(ctx context.Context, dayID int64, localID string, exercise models.Exercise) (models.Exercise, error) {
	current, key, err := s.backendKey(dayID, localID)
	if err != nil {
		return models.Exercise{}, err
	}
	exercise.ID = current.ID
	exercise.LocalID = ""

	updated, err := s.backend.UpdateExercise(ctx, dayID, key, exercise)
	if err != nil {
		log.Printf("Error updating exercise: %v", err)
		return models.Exercise{}, err
	}
	if updated.ID == "" {
		updated.ID = current.ID
	}
	updated.LocalID = localID

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.dayIndex(dayID); i >= 0 {
		if j := exerciseIndex(s.days[i].Exercises, localID); j >= 0 {
			s.days[i].Exercises[j] = *updated
		}
	}
	return *updated, nil
}

// RemoveExercise deletes the exercise with the given LocalID.
func (s *WorkoutService) RemoveExercise(ctx context.Context, dayID int64, localID string) error {
	_, key, err := s.backendKey(dayID, localID)
	if err != nil {
		return err
	}

	if err := s.backend.DeleteExercise(ctx, dayID, key); err != nil {
		log.Printf("Error deleting exercise: %v", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.dayIndex(dayID); i >= 0 {
		if j := exerciseIndex(s.days[i].Exercises, localID); j >= 0 {
			ex := s.days[i].Exercises
			s.days[i].Exercises = append(ex[:j:j], ex[j+1:]...)
		}
	}
	return nil
}

// replace installs days as the current plan and gives every exercise a
// fresh LocalID.
func (s *WorkoutService) replace(days []models.WorkoutDay) []models.WorkoutDay {
	for i := range days {
		for j := range days[i].Exercises {
			days[i].Exercises[j].LocalID = uuid.NewString()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.days = days
	return copyDays(s.days)
}

// backendKey finds the exercise and the key the backend knows it by: its
// exerciseId when one was issued, otherwise its current position in the day.
func (s *WorkoutService) backendKey(dayID int64, localID string) (models.Exercise, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.dayIndex(dayID)
	if i < 0 {
		return models.Exercise{}, "", ErrDayNotFound
	}
	j := exerciseIndex(s.days[i].Exercises, localID)
	if j < 0 {
		return models.Exercise{}, "", ErrExerciseNotFound
	}
	ex := s.days[i].Exercises[j]
	if ex.ID != "" {
		return ex, ex.ID, nil
	}
	return ex, strconv.Itoa(j), nil
}

func (s *WorkoutService) requireDay(dayID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dayIndex(dayID) < 0 {
		return ErrDayNotFound
	}
	return nil
}

// dayIndex must be called with mu held.
func (s *WorkoutService) dayIndex(dayID int64) int {
	for i, d := range s.days {
		if d.DayID == dayID {
			return i
		}
	}
	return -1
}

func exerciseIndex(exercises []models.Exercise, localID string) int {
	for i, e := range exercises {
		if e.LocalID == localID {
			return i
		}
	}
	return -1
}

func copyDays(days []models.WorkoutDay) []models.WorkoutDay {
	if days == nil {
		return nil
	}
	out := make([]models.WorkoutDay, len(days))
	for i, d := range days {
		d.Exercises = append([]models.Exercise(nil), d.Exercises...)
		out[i] = d
	}
	return out
}
