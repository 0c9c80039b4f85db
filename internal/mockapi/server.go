package mockapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	JWTSecret     string
	AuthRateLimit int // requests per minute per IP on /auth, 0 disables
	BcryptCost    int // 0 uses bcrypt.DefaultCost
	ChatModel     string
	Logging       bool
}

// Server is an in-memory stand-in for the fitness backend.
type Server struct {
	auth    *JWTAuth
	store   *Store
	limiter *RateLimiter
	model   string
	logging bool
}

func New(opts Options) *Server {
	model := opts.ChatModel
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	return &Server{
		auth:    NewJWTAuth(opts.JWTSecret),
		store:   NewStore(opts.BcryptCost),
		limiter: NewRateLimiter(opts.AuthRateLimit, time.Minute),
		model:   model,
		logging: opts.Logging,
	}
}

// IssueToken signs a token for username without registering it.
func (s *Server) IssueToken(username string) (string, error) {
	return s.auth.GenerateAccessToken(username)
}

func (s *Server) Store() *Store {
	return s.store
}

func (s *Server) Close() {
	s.limiter.Stop()
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	if s.logging {
		r.Use(chimiddleware.Logger)
	}
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/chat-gpt", s.complete)

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(s.limiter.Middleware)
			r.Post("/register", s.register)
			r.Post("/login", s.login)
		})

		// ──── Chat Routes ────
		r.Route("/chats", func(r chi.Router) {
			r.Use(s.auth.Middleware)
			r.Post("/", s.createChat)
			r.Get("/{id}", s.listChats)
			r.Post("/{id}", s.sendChatMessage)
			r.Delete("/{id}", s.deleteChat)
		})

		// ──── Profile Routes ────
		r.Route("/profile/{username}", func(r chi.Router) {
			r.Use(s.auth.Middleware)
			r.Get("/", s.getProfile)
			r.Put("/", s.updateProfile)
			r.Post("/goals", s.createGoal)
			r.Delete("/goals/{goalId}", s.deleteGoal)
			r.Post("/health-conditions", s.createCondition)
			r.Delete("/health-conditions/{conditionId}", s.deleteCondition)
		})

		// ──── Weekly Workout Routes ────
		r.Route("/{username}/weekly-workout", func(r chi.Router) {
			r.Use(s.auth.Middleware)
			r.Get("/", s.getWorkout)
			r.Delete("/", s.deleteWorkout)
			r.Post("/generate", s.generateWorkout)
			r.Post("/{dayId}/exercises", s.createExercise)
			r.Put("/{dayId}/exercises/{exerciseId}", s.updateExercise)
			r.Delete("/{dayId}/exercises/{exerciseId}", s.deleteExercise)
		})
	})

	return r
}
