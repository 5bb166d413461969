package session

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoToken is returned when an operation requires a stored token and none
// is present.
var ErrNoToken = errors.New("please sign in again")

// Store holds the bearer token for the current session, backed by a file so
// the session survives restarts. It is safe for concurrent use.
type Store struct {
	path string

	mu    sync.RWMutex
	token string
}

// Open loads the session store at path, reading any previously saved token
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	s.token = strings.TrimSpace(string(data))
	return s, nil
}

// Token returns the stored bearer token, empty when unauthenticated
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetToken stores a new bearer token and persists it
func (s *Store) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Clear drops the stored token and removes the session file
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// Subject decodes the stored token without verifying its signature and
// returns the subject claim. This is only used to know which profile to
// fetch; the server independently enforces authorization on every call.
func (s *Store) Subject() (string, error) {
	token := s.Token()
	if token == "" {
		return "", ErrNoToken
	}

	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return "", fmt.Errorf("failed to decode token: %w", err)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("token carries no subject claim")
	}
	return claims.Subject, nil
}
