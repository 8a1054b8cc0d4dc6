// Package session keeps the signed-in user's token and profile between CLI
// invocations.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/p-n-ai/cogni/internal/platform/validation"
)

// ErrNoSession is returned by Load when nobody is signed in.
var ErrNoSession = errors.New("not signed in")

// User is the account returned by the auth and user endpoints.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role,omitempty"`
	Credits      int    `json:"credits"`
	GeminiAPIKey string `json:"geminiApiKey,omitempty"`
}

// IsAdmin reports whether the account has the admin role.
func (u User) IsAdmin() bool { return u.Role == "admin" }

// CanAfford reports whether the user has at least cost credits.
func (u User) CanAfford(cost int) bool { return u.Credits >= cost }

// Session is a signed-in user and their bearer token.
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists the current session.
type Store interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Clear(ctx context.Context) error
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate trims the email and checks both fields are present.
func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return validation.Struct(r)
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	DisplayName string `json:"displayName" validate:"notblank,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
}

func (r *RegisterRequest) Validate() error {
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	r.Email = strings.TrimSpace(r.Email)
	return validation.Struct(r)
}

// ProfileUpdate is the body of PUT /api/user/update. An empty key is left
// out so the stored one is kept.
type ProfileUpdate struct {
	Name         string `json:"name" validate:"notblank,max=100"`
	GeminiAPIKey string `json:"geminiApiKey,omitempty"`
}

func (r *ProfileUpdate) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.GeminiAPIKey = strings.TrimSpace(r.GeminiAPIKey)
	return validation.Struct(r)
}

// MemoryStore keeps the session in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	current *Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNoSession
	}
	cp := *s.current
	return &cp, nil
}

func (s *MemoryStore) Save(_ context.Context, sess *Session) error {
	if sess == nil || sess.Token == "" {
		return errors.New("session token is required")
	}
	cp := *sess
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}

	s.mu.Lock()
	s.current = &cp
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	return nil
}
