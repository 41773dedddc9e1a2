package auth

import (
	"context"
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("super-secret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}

	if err := CheckPassword(hash, "super-secret"); err != nil {
		t.Fatalf("expected password to match, got %v", err)
	}

	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	secret := "test-secret"
	claims := Claims{UserID: "u1", Email: "admin@payscribe.local"}

	token, err := GenerateToken(secret, claims, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	parsed, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if parsed.UserID != claims.UserID || parsed.Email != claims.Email {
		t.Fatalf("claims mismatch: %+v", parsed)
	}

	if _, err := ParseToken("other-secret", token); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestExpiredTokenIsRejected(t *testing.T) {
	token, err := GenerateToken("s", Claims{UserID: "u1"}, -time.Minute)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("s", token); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

type userStore struct {
	users  map[string]User
	logins int
}

func (u *userStore) FindUserByEmail(_ context.Context, email string) (User, error) {
	user, ok := u.users[email]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (u *userStore) UpdateLastLogin(context.Context, string) error {
	u.logins++
	return nil
}

func TestLogin(t *testing.T) {
	hash, err := HashPassword("pass-1234")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	store := &userStore{users: map[string]User{
		"admin@payscribe.local": {ID: "u1", Email: "admin@payscribe.local", PasswordHash: hash, Active: true},
		"old@payscribe.local":   {ID: "u2", Email: "old@payscribe.local", PasswordHash: hash},
	}}
	svc := NewService(store, "secret", time.Hour)

	session, err := svc.Login(context.Background(), " admin@payscribe.local ", "pass-1234")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	if session.UserID != "u1" || session.Token == "" || store.logins != 1 {
		t.Fatalf("unexpected session: %+v", session)
	}

	user, err := svc.Authenticate(session.Token)
	if err != nil || user.Email != "admin@payscribe.local" {
		t.Fatalf("authenticate: %+v %v", user, err)
	}

	cases := []struct{ email, password string }{
		{"admin@payscribe.local", "wrong"},
		{"nobody@payscribe.local", "pass-1234"},
		{"old@payscribe.local", "pass-1234"},
		{"", ""},
	}
	for _, tc := range cases {
		if _, err := svc.Login(context.Background(), tc.email, tc.password); err != ErrInvalidCredentials {
			t.Fatalf("login(%q): expected invalid credentials, got %v", tc.email, err)
		}
	}
}
