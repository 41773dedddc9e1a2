// Package auth signs operators in with a password and issues bearer tokens.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

type StoreAPI interface {
	FindUserByEmail(ctx context.Context, email string) (User, error)
	UpdateLastLogin(ctx context.Context, userID string) error
}

type Service struct {
	store  StoreAPI
	secret string
	ttl    time.Duration
}

func NewService(store StoreAPI, secret string, ttl time.Duration) *Service {
	return &Service{store: store, secret: secret, ttl: ttl}
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
}

// Login checks the password and returns a signed token. Unknown emails, disabled
// accounts and wrong passwords all produce ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if !user.Active || CheckPassword(user.PasswordHash, password) != nil {
		return Session{}, ErrInvalidCredentials
	}

	expires := time.Now().Add(s.ttl)
	token, err := GenerateToken(s.secret, Claims{UserID: user.ID, Email: user.Email}, s.ttl)
	if err != nil {
		return Session{}, err
	}
	if err := s.store.UpdateLastLogin(ctx, user.ID); err != nil {
		slog.Warn("update last login failed", "user_id", user.ID, "err", err)
	}
	return Session{Token: token, ExpiresAt: expires, UserID: user.ID, Email: user.Email}, nil
}

func (s *Service) Authenticate(token string) (UserContext, error) {
	claims, err := ParseToken(s.secret, token)
	if err != nil {
		return UserContext{}, err
	}
	return UserContext{UserID: claims.UserID, Email: claims.Email}, nil
}
