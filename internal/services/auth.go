package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"fittrack-client/internal/models"
	"fittrack-client/internal/session"
)

type AuthBackend interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
}

// ValidationError lists the form fields that failed local checks.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed (" + strings.Join(parts, ", ") + ")"
}

type AuthService struct {
	backend AuthBackend
	session *session.Session
}

func NewAuthService(backend AuthBackend, sess *session.Session) *AuthService {
	return &AuthService{backend: backend, session: sess}
}

// Register creates the account and stores the issued token.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	fieldErrors := make(map[string]string)
	if strings.TrimSpace(req.Username) == "" {
		fieldErrors["username"] = "Username is required"
	}
	if req.Password == "" {
		fieldErrors["password"] = "Password is required"
	}
	if len(fieldErrors) > 0 {
		return "", &ValidationError{Fields: fieldErrors}
	}

	resp, err := s.backend.Register(ctx, req)
	if err != nil {
		log.Printf("Registration error: %v", err)
		return "", err
	}
	return s.begin(ctx, resp.Token)
}

// Login authenticates and stores the issued token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return "", &ValidationError{Fields: map[string]string{"credentials": "Username and password are required"}}
	}

	resp, err := s.backend.Login(ctx, req)
	if err != nil {
		log.Printf("Login error: %v", err)
		return "", err
	}
	return s.begin(ctx, resp.Token)
}

// begin stores token and returns the username it was issued to.
func (s *AuthService) begin(ctx context.Context, token string) (string, error) {
	if err := s.session.Begin(ctx, token); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}
	decoded := session.Decode(token)
	if decoded == nil {
		return "", session.ErrInvalidToken
	}
	return decoded.Subject, nil
}

// Logout forgets the stored token.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.session.End(ctx); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

// CurrentUser returns the username of the stored token.
func (s *AuthService) CurrentUser(ctx context.Context) (string, error) {
	_, subject, err := s.session.Subject(ctx)
	if err != nil && !errors.Is(err, session.ErrNoToken) {
		log.Printf("Error reading session: %v", err)
	}
	return subject, err
}
