package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestDecode(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	valid := signToken(t, jwt.MapClaims{"sub": "alice", "exp": exp.Unix()})
	noSubject := signToken(t, jwt.MapClaims{"role": "user"})

	tests := []struct {
		name    string
		token   string
		subject string
		wantNil bool
	}{
		{"valid token", valid, "alice", false},
		{"missing subject", noSubject, "", true},
		{"not a jwt", "definitely-not-a-token", "", true},
		{"bad encoding", "a.b@@.c", "", true},
		{"empty", "", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			decoded := Decode(tc.token)
			if tc.wantNil {
				if decoded != nil {
					t.Fatalf("expected nil, got %+v", decoded)
				}
				return
			}
			if decoded == nil {
				t.Fatal("expected decoded token, got nil")
			}
			if decoded.Subject != tc.subject {
				t.Errorf("expected subject %q, got %q", tc.subject, decoded.Subject)
			}
		})
	}
}

func TestDecode_IgnoresSignatureAndExpiry(t *testing.T) {
	expired := signToken(t, jwt.MapClaims{"sub": "bob", "exp": time.Now().Add(-time.Hour).Unix()})

	decoded := Decode(expired)
	if decoded == nil {
		t.Fatal("expected expired token to decode")
	}
	if decoded.ExpiresAt == nil || !decoded.ExpiresAt.Before(time.Now()) {
		t.Errorf("expected past expiry, got %v", decoded.ExpiresAt)
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(path)

	if _, err := store.Get(ctx); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken on fresh store, got %v", err)
	}

	if err := store.Set(ctx, "first"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set(ctx, "second"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// A second store on the same file sees the persisted value.
	got, err := NewFileStore(path).Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "second" {
		t.Errorf("expected %q, got %q", "second", got)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := store.Get(ctx); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken after Clear, got %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second Clear failed: %v", err)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := NewFileStore(path).Get(context.Background())
	if err == nil || errors.Is(err, ErrNoToken) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestSession_Subject(t *testing.T) {
	ctx := context.Background()
	sess := New(NewMemoryStore())

	if _, _, err := sess.Subject(ctx); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}

	if err := sess.Begin(ctx, "garbage"); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if _, _, err := sess.Subject(ctx); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	token := signToken(t, jwt.MapClaims{"sub": "carol"})
	if err := sess.Begin(ctx, token); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	gotToken, subject, err := sess.Subject(ctx)
	if err != nil {
		t.Fatalf("Subject failed: %v", err)
	}
	if gotToken != token || subject != "carol" {
		t.Errorf("expected carol with stored token, got %q / %q", subject, gotToken)
	}

	if err := sess.End(ctx); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if sess.Active(ctx) {
		t.Error("expected session to be inactive after End")
	}
}

func TestSession_BeginRejectsEmptyToken(t *testing.T) {
	sess := New(NewMemoryStore())
	if err := sess.Begin(context.Background(), ""); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}
