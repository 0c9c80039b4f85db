package session

import (
	"context"
	"errors"
	"log"
)

var ErrInvalidToken = errors.New("token could not be decoded")

// Session is the credential context handed to every component that talks to
// the backend. It replaces reading the token slot from ambient global state.
type Session struct {
	store Store
}

func New(store Store) *Session {
	return &Session{store: store}
}

// Token returns the stored bearer token or ErrNoToken.
func (s *Session) Token(ctx context.Context) (string, error) {
	token, err := s.store.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrNoToken) {
			log.Println("JWT token not found in session store")
		}
		return "", err
	}
	return token, nil
}

// Subject returns the token together with the username it was issued to.
func (s *Session) Subject(ctx context.Context) (string, string, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return "", "", err
	}
	decoded := Decode(token)
	if decoded == nil {
		return "", "", ErrInvalidToken
	}
	return token, decoded.Subject, nil
}

// Begin stores the token issued on login or registration, replacing any
// previous one.
func (s *Session) Begin(ctx context.Context, token string) error {
	if token == "" {
		return ErrNoToken
	}
	return s.store.Set(ctx, token)
}

// End clears the stored token.
func (s *Session) End(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// Active reports whether a token is currently stored.
func (s *Session) Active(ctx context.Context) bool {
	_, err := s.store.Get(ctx)
	return err == nil
}
