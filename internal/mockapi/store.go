package mockapi

import (
	"errors"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"fittrack-client/internal/models"
)

var (
	errUserExists   = errors.New("username already in use")
	errBadLogin     = errors.New("invalid username or password")
	errNotFound     = errors.New("not found")
	errNotChatOwner = errors.New("chat belongs to another user")
)

type account struct {
	email        string
	passwordHash []byte
	profile      models.Profile
	workout      []models.WorkoutDay
}

type storedChat struct {
	owner string
	chat  models.Chat
}

// Store is the in-memory state of the mock backend.
type Store struct {
	mu         sync.Mutex
	bcryptCost int
	accounts   map[string]*account
	chats      map[int64]*storedChat
	chatOrder  []int64
	nextID     int64
}

func NewStore(bcryptCost int) *Store {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Store{
		bcryptCost: bcryptCost,
		accounts:   make(map[string]*account),
		chats:      make(map[int64]*storedChat),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) Register(username, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[username]; ok {
		return errUserExists
	}
	s.accounts[username] = &account{
		email:        email,
		passwordHash: hash,
		profile: models.Profile{
			Goals:            []models.Goal{},
			HealthConditions: []models.Condition{},
		},
	}
	return nil
}

func (s *Store) Authenticate(username, password string) error {
	s.mu.Lock()
	acc, ok := s.accounts[username]
	s.mu.Unlock()
	if !ok {
		return errBadLogin
	}
	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)); err != nil {
		return errBadLogin
	}
	return nil
}

// account must be called with mu held.
func (s *Store) account(username string) (*account, error) {
	acc, ok := s.accounts[username]
	if !ok {
		return nil, errNotFound
	}
	return acc, nil
}

// ──── Chats ────

func (s *Store) ListChats(username string) []models.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats := []models.Chat{}
	for _, id := range s.chatOrder {
		if c := s.chats[id]; c.owner == username {
			chats = append(chats, copyChat(c.chat))
		}
	}
	return chats
}

func (s *Store) CreateChat(username, model string) models.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &storedChat{owner: username, chat: models.Chat{ChatID: s.id(), Model: model, Messages: []models.Message{}}}
	s.chats[c.chat.ChatID] = c
	s.chatOrder = append(s.chatOrder, c.chat.ChatID)
	return copyChat(c.chat)
}

// AppendMessages adds msgs to the chat and returns its full history.
func (s *Store) AppendMessages(username string, chatID int64, msgs ...models.Message) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.chats[chatID]
	if !ok {
		return nil, errNotFound
	}
	if c.owner != username {
		return nil, errNotChatOwner
	}
	c.chat.Messages = append(c.chat.Messages, msgs...)
	return append([]models.Message(nil), c.chat.Messages...), nil
}

func (s *Store) DeleteChat(username string, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.chats[chatID]
	if !ok {
		return errNotFound
	}
	if c.owner != username {
		return errNotChatOwner
	}
	delete(s.chats, chatID)
	for i, id := range s.chatOrder {
		if id == chatID {
			s.chatOrder = append(s.chatOrder[:i], s.chatOrder[i+1:]...)
			break
		}
	}
	return nil
}

func copyChat(c models.Chat) models.Chat {
	c.Messages = append([]models.Message{}, c.Messages...)
	return c
}

// ──── Profile ────

func (s *Store) Profile(username string) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.account(username)
	if err != nil {
		return models.Profile{}, err
	}
	return copyProfile(acc.profile), nil
}

func (s *Store) UpdateProfile(username string, update models.ProfileUpdate) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.account(username)
	if err != nil {
		return models.Profile{}, err
	}
	acc.profile.Age = update.Age
	acc.profile.Gender = update.Gender
	acc.profile.Height = update.Height
	acc.profile.Weight = update.Weight
	return copyProfile(acc.profile), nil
}

func (s *Store) AddGoal(username string, goal models.Goal) (models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.account(username)
	if err != nil {
		return models.Goal{}, err
	}
	goal.GoalID = s.id()
	acc.profile.Goals = append(acc.profile.Goals, goal)
	return goal, nil
}

func (s *Store) DeleteGoal(username string, goalID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.account(username)
	if err != nil {
		return err
	}
	for i, g := range acc.profile.Goals {
		if g.GoalID == goalID {
			acc.profile.Goals = append(acc.profile.Goals[:i], acc.profile.Goals[i+1:]...)
			return nil
		}
	}
	return errNotFound
}

func (s *Store) AddCondition(username string, condition models.Condition) (models.Condition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.account(username)
	if err != nil {
		return models.Condition{}, err
	}
	condition.ConditionID = s.id()
	acc.profile.HealthConditions = append(acc.profile.HealthConditions, condition)
	return condition, nil
}

func (s *Store) DeleteCondition(username string, conditionID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.account(username)
	if err != nil {
		return err
	}
	for i, c := range acc.profile.HealthConditions {
		if c.ConditionID == conditionID {
			acc.profile.HealthConditions = append(acc.profile.HealthConditions[:i], acc.profile.HealthConditions[i+1:]...)
			return nil
		}
	}
	return errNotFound
}

func copyProfile(p models.Profile) models.Profile {
	p.Goals = append([]models.Goal{}, p.Goals...)
	p.HealthConditions = append([]models.Condition{}, p.HealthConditions...)
	return p
}

// ──── Weekly workout ────

func (s *Store) Workout(username string) ([]models.WorkoutDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.account(username)
	if err != nil {
		return nil, err
	}
	return copyWorkout(acc.workout), nil
}

// ReplaceWorkout swaps the whole plan, assigning day and exercise ids.
func (s *Store) ReplaceWorkout(username string, days []models.WorkoutDay) ([]models.WorkoutDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.account(username)
	if err != nil {
		return nil, err
	}
	for i := range days {
		days[i].DayID = s.id()
		for j := range days[i].Exercises {
			if days[i].Exercises[j].ID == "" {
				days[i].Exercises[j].ID = uuid.NewString()
			}
		}
	}
	acc.workout = days
	return copyWorkout(acc.workout), nil
}

func (s *Store) ClearWorkout(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.account(username)
	if err != nil {
		return err
	}
	acc.workout = nil
	return nil
}

func (s *Store) AddExercise(username string, dayID int64, ex models.Exercise) (models.Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day, err := s.day(username, dayID)
	if err != nil {
		return models.Exercise{}, err
	}
	if ex.ID == "" {
		ex.ID = uuid.NewString()
	}
	day.Exercises = append(day.Exercises, ex)
	return ex, nil
}

func (s *Store) UpdateExercise(username string, dayID int64, key string, ex models.Exercise) (models.Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day, err := s.day(username, dayID)
	if err != nil {
		return models.Exercise{}, err
	}
	i := exerciseAt(day.Exercises, key)
	if i < 0 {
		return models.Exercise{}, errNotFound
	}
	ex.ID = day.Exercises[i].ID
	day.Exercises[i] = ex
	return ex, nil
}

func (s *Store) DeleteExercise(username string, dayID int64, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	day, err := s.day(username, dayID)
	if err != nil {
		return err
	}
	i := exerciseAt(day.Exercises, key)
	if i < 0 {
		return errNotFound
	}
	day.Exercises = append(day.Exercises[:i], day.Exercises[i+1:]...)
	return nil
}

// exerciseAt resolves key as an exercise id, falling back to a zero-based
// position within the day.
func exerciseAt(exercises []models.Exercise, key string) int {
	for i := range exercises {
		if exercises[i].ID == key {
			return i
		}
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 0 && n < len(exercises) {
		return n
	}
	return -1
}

// day must be called with mu held.
func (s *Store) day(username string, dayID int64) (*models.WorkoutDay, error) {
	acc, err := s.account(username)
	if err != nil {
		return nil, err
	}
	for i := range acc.workout {
		if acc.workout[i].DayID == dayID {
			return &acc.workout[i], nil
		}
	}
	return nil, errNotFound
}

func copyWorkout(days []models.WorkoutDay) []models.WorkoutDay {
	out := make([]models.WorkoutDay, len(days))
	for i, d := range days {
		d.Exercises = append([]models.Exercise{}, d.Exercises...)
		out[i] = d
	}
	return out
}
