package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/example/shopadmin/internal/apiclient"
)

var (
	ErrNoCredentials = errors.New("no stored credentials")
	ErrExpiredToken  = errors.New("stored token has expired")
)

// timeNow is swapped out in tests.
var timeNow = time.Now

// State is the auth lifecycle state.
type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	}
	return "anonymous"
}

// Storage persists credentials across process restarts.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// Storage keys for the two durable credential entries.
const (
	KeyToken = "auth_token"
	KeyEmail = "auth_email"
)

// Store holds the session and drives login, restore and logout. It is the
// only writer of the gateway's bearer token.
type Store struct {
	client  *apiclient.Client
	storage Storage

	mu      sync.RWMutex
	state   State
	token   string
	email   string
	loading bool
	err     string
}

// NewStore creates a session store over the given gateway and storage.
func NewStore(client *apiclient.Client, storage Storage) *Store {
	return &Store{client: client, storage: storage}
}

// Login authenticates against POST /auth. On success the token and email
// are stored in memory, on the gateway, and in durable storage (two
// writes). On failure the session stays anonymous and the error is
// recorded.
func (s *Store) Login(ctx context.Context, email string) error {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.state = Authenticating
	s.mu.Unlock()

	resp := s.client.Post(ctx, "/auth", map[string]string{"email": email})

	var payload struct {
		Token string `json:"token"`
	}
	if apiErr := resp.Decode(&payload); apiErr != nil {
		s.mu.Lock()
		s.loading = false
		s.state = Anonymous
		s.err = apiErr.Message
		s.mu.Unlock()
		logrus.Warnf("[Session] Login failed for %s: %s", email, apiErr.Message)
		return apiErr
	}

	s.mu.Lock()
	s.loading = false
	s.state = Authenticated
	s.token = payload.Token
	s.email = email
	s.mu.Unlock()

	s.client.SetToken(payload.Token)

	if err := s.storage.Set(KeyToken, payload.Token); err != nil {
		logrus.Warnf("[Session] Failed to persist token: %v", err)
	}
	if err := s.storage.Set(KeyEmail, email); err != nil {
		logrus.Warnf("[Session] Failed to persist email: %v", err)
	}

	logrus.Infof("[Session] Logged in as %s", email)
	return nil
}

// Restore transitions directly to Authenticated without a network call,
// used at startup when durable storage already holds credentials. A token
// that parses as a JWT with an expiry in the past is refused; opaque
// tokens are accepted as-is.
func (s *Store) Restore(token, email string) error {
	if token == "" || email == "" {
		return ErrNoCredentials
	}
	if tokenExpired(token) {
		return ErrExpiredToken
	}

	s.mu.Lock()
	s.state = Authenticated
	s.token = token
	s.email = email
	s.mu.Unlock()

	s.client.SetToken(token)
	return nil
}

// RestoreFromStorage reads the two durable entries and restores the
// session from them.
func (s *Store) RestoreFromStorage() error {
	token, ok := s.storage.Get(KeyToken)
	if !ok {
		return ErrNoCredentials
	}
	email, ok := s.storage.Get(KeyEmail)
	if !ok {
		return ErrNoCredentials
	}
	return s.Restore(token, email)
}

// Logout clears the in-memory session, the gateway token and both durable
// storage entries.
func (s *Store) Logout() error {
	s.mu.Lock()
	s.state = Anonymous
	s.token = ""
	s.email = ""
	s.err = ""
	s.mu.Unlock()

	s.client.ClearToken()

	var firstErr error
	if err := s.storage.Delete(KeyToken); err != nil {
		firstErr = err
	}
	if err := s.storage.Delete(KeyEmail); err != nil && firstErr == nil {
		firstErr = err
	}

	logrus.Info("[Session] Logged out")
	return firstErr
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsAuthenticated reports whether both token and email are held.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == Authenticated && s.token != "" && s.email != ""
}

// Token returns the session token.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Email returns the logged-in email.
func (s *Store) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email
}

// Loading reports whether a login is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the last login error message, empty when none.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// tokenExpired inspects the expiry claim without verifying the signature;
// the client has no signing secret. Non-JWT tokens report false.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Time.Before(timeNow())
}
