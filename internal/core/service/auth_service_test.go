package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/stepwise/stepwise-api/internal/core/domain"
	"github.com/stepwise/stepwise-api/internal/core/ports"
)

func newAuthService(ttl time.Duration) (*AuthService, *stubUserRepo) {
	repo := newStubUserRepo()
	return NewAuthService(repo, "secret", ttl, zerolog.Nop()), repo
}

func TestAuthService_Register_HashesPassword(t *testing.T) {
	svc, _ := newAuthService(time.Hour)

	user, err := svc.Register(context.Background(), "alice", "alice@example.com", "pass1234")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected generated id")
	}
	if user.PasswordHash == "pass1234" {
		t.Fatalf("password stored in clear")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass1234")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _ := newAuthService(time.Hour)

	if _, err := svc.Register(context.Background(), "", "a@example.com", "pass"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, _ := newAuthService(time.Hour)

	if _, err := svc.Register(context.Background(), "bob", "bob@example.com", "pass1234"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", "other@example.com", "pass1234"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for duplicate name, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "robert", "bob@example.com", "pass1234"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for duplicate email, got %v", err)
	}
}

func TestAuthService_Login_RoundTrip(t *testing.T) {
	svc, _ := newAuthService(time.Hour)

	if _, err := svc.Register(context.Background(), "carol", "carol@example.com", "s3cret99"); err != nil {
		t.Fatalf("register: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "carol@example.com", "s3cret99")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" || user == nil {
		t.Fatalf("expected token and user")
	}

	userID, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if userID != user.ID {
		t.Fatalf("token carries %q, want %q", userID, user.ID)
	}
}

func TestAuthService_Login_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	svc, _ := newAuthService(time.Hour)
	if _, err := svc.Register(context.Background(), "dave", "dave@example.com", "s3cret99"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, wrongPass := svc.Login(context.Background(), "dave@example.com", "nope")
	_, _, unknown := svc.Login(context.Background(), "ghost@example.com", "nope")
	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) || !errors.Is(unknown, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v and %v", wrongPass, unknown)
	}
}

func TestAuthService_VerifyToken_Expired(t *testing.T) {
	svc, _ := newAuthService(-time.Minute)

	if _, err := svc.Register(context.Background(), "erin", "erin@example.com", "s3cret99"); err != nil {
		t.Fatalf("register: %v", err)
	}
	token, _, err := svc.Login(context.Background(), "erin@example.com", "s3cret99")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := svc.VerifyToken(token); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestAuthService_VerifyToken_RejectsForeignSignatures(t *testing.T) {
	svc, _ := newAuthService(time.Hour)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           "u1",
	})
	signed, err := foreign.SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.VerifyToken(signed); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.VerifyToken("not-a-token"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for garbage, got %v", err)
	}
}

func TestAuthService_UpdateProfile(t *testing.T) {
	svc, _ := newAuthService(time.Hour)

	user, err := svc.Register(context.Background(), "frank", "frank@example.com", "s3cret99")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.UpdateProfile(context.Background(), user.ID, ports.UpdateProfileInput{}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("empty update should fail validation, got %v", err)
	}

	name := "francis"
	avatar := "http://cdn.test/avatars/frank.png"
	updated, err := svc.UpdateProfile(context.Background(), user.ID, ports.UpdateProfileInput{Name: &name, AvatarURL: &avatar})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Name != "francis" || updated.AvatarURL == nil || *updated.AvatarURL != avatar {
		t.Fatalf("unexpected profile: %+v", updated)
	}

	got, err := svc.GetUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Name != "francis" {
		t.Fatalf("update not persisted: %+v", got)
	}
}
