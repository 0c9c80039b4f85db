package services

import (
	"context"
	"errors"
	"log"
	"sync"

	"fittrack-client/internal/models"
)

var ErrProfileNotLoaded = errors.New("profile not loaded")

type ProfileBackend interface {
	GetProfile(ctx context.Context) (*models.Profile, error)
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.Profile, error)
	CreateGoal(ctx context.Context, goal models.Goal) (*models.Goal, error)
	DeleteGoal(ctx context.Context, goalID int64) error
	CreateCondition(ctx context.Context, condition models.Condition) (*models.Condition, error)
	DeleteCondition(ctx context.Context, conditionID int64) error
}

// ProfileService holds the profile screen's state. Goal and condition
// changes are merged into the loaded profile instead of refetching it.
type ProfileService struct {
	backend ProfileBackend

	mu      sync.Mutex
	profile *models.Profile
}

func NewProfileService(backend ProfileBackend) *ProfileService {
	return &ProfileService{backend: backend}
}

func (s *ProfileService) Load(ctx context.Context) (models.Profile, error) {
	profile, err := s.backend.GetProfile(ctx)
	if err != nil {
		log.Printf("Error fetching profile data: %v", err)
		return models.Profile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = profile
	return copyProfile(*profile), nil
}

// Profile returns the loaded profile, if any.
func (s *ProfileService) Profile() (models.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return models.Profile{}, false
	}
	return copyProfile(*s.profile), true
}

// Update replaces the profile wholesale with the backend's response.
func (s *ProfileService) Update(ctx context.Context, update models.ProfileUpdate) (models.Profile, error) {
	profile, err := s.backend.UpdateProfile(ctx, update)
	if err != nil {
		log.Printf("Error updating profile: %v", err)
		return models.Profile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = profile
	return copyProfile(*profile), nil
}

func (s *ProfileService) AddGoal(ctx context.Context, goal models.Goal) (models.Goal, error) {
	if err := s.requireLoaded(); err != nil {
		return models.Goal{}, err
	}

	created, err := s.backend.CreateGoal(ctx, goal)
	if err != nil {
		log.Printf("Error creating goal: %v", err)
		return models.Goal{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile.Goals = append(s.profile.Goals, *created)
	return *created, nil
}

func (s *ProfileService) RemoveGoal(ctx context.Context, goalID int64) error {
	if err := s.requireLoaded(); err != nil {
		return err
	}

	if err := s.backend.DeleteGoal(ctx, goalID); err != nil {
		log.Printf("Error deleting goal: %v", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	goals := make([]models.Goal, 0, len(s.profile.Goals))
	for _, g := range s.profile.Goals {
		if g.GoalID != goalID {
			goals = append(goals, g)
		}
	}
	s.profile.Goals = goals
	return nil
}

func (s *ProfileService) AddCondition(ctx context.Context, condition models.Condition) (models.Condition, error) {
	if err := s.requireLoaded(); err != nil {
		return models.Condition{}, err
	}

	created, err := s.backend.CreateCondition(ctx, condition)
	if err != nil {
		log.Printf("Error creating condition: %v", err)
		return models.Condition{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile.HealthConditions = append(s.profile.HealthConditions, *created)
	return *created, nil
}

func (s *ProfileService) RemoveCondition(ctx context.Context, conditionID int64) error {
	if err := s.requireLoaded(); err != nil {
		return err
	}

	if err := s.backend.DeleteCondition(ctx, conditionID); err != nil {
		log.Printf("Error deleting condition: %v", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	conditions := make([]models.Condition, 0, len(s.profile.HealthConditions))
	for _, c := range s.profile.HealthConditions {
		if c.ConditionID != conditionID {
			conditions = append(conditions, c)
		}
	}
	s.profile.HealthConditions = conditions
	return nil
}

func (s *ProfileService) requireLoaded() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return ErrProfileNotLoaded
	}
	return nil
}

func copyProfile(p models.Profile) models.Profile {
	p.Goals = append([]models.Goal(nil), p.Goals...)
	p.HealthConditions = append([]models.Condition(nil), p.HealthConditions...)
	return p
}
