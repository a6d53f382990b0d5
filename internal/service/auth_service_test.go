package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/splitbill/billsplitter/internal/auth"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	store := newTestStore(t)
	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	return NewAuthService(authenticator, jwtManager)
}

func TestAuthServiceRegister(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	t.Run("returns the user and a usable token", func(t *testing.T) {
		session, err := svc.Register(ctx, "eser@example.com", "eser", "password123")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if session.User.Name != "eser" || session.User.Email != "eser@example.com" {
			t.Errorf("user = %+v", session.User)
		}
		if session.User.ID == "" {
			t.Error("Expected a generated user ID")
		}
		if session.Token == "" {
			t.Error("Expected a token")
		}
	})

	tests := []struct {
		name     string
		email    string
		party    string
		password string
		wantErr  error
	}{
		{"duplicate email", "eser@example.com", "eser2", "password123", auth.ErrEmailExists},
		{"weak password", "new@example.com", "new", "short", auth.ErrWeakPassword},
		{"missing email", "", "new", "password123", ErrInvalidInput},
		{"missing name", "new@example.com", "", "password123", ErrInvalidInput},
		{"reserved party name", "new@example.com", "shared", "password123", auth.ErrInvalidPartyName},
		{"reserved payer name", "new@example.com", "both", "password123", auth.ErrInvalidPartyName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.email, tt.party, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthServiceLogin(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "david@example.com", "david", "password123"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		session, err := svc.Login(ctx, "david@example.com", "password123")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if session.User.Name != "david" || session.Token == "" {
			t.Errorf("session = %+v", session)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := svc.Login(ctx, "david@example.com", "wrong-password"); !errors.Is(err, auth.ErrInvalidCredentials) {
			t.Errorf("err = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		if _, err := svc.Login(ctx, "nobody@example.com", "password123"); !errors.Is(err, auth.ErrInvalidCredentials) {
			t.Errorf("err = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("empty credentials", func(t *testing.T) {
		if _, err := svc.Login(ctx, "", ""); !errors.Is(err, auth.ErrInvalidCredentials) {
			t.Errorf("err = %v, want ErrInvalidCredentials", err)
		}
	})
}
