// Package client is a Go client for the social API. It keeps the signed-in
// session (token and cached user) in a JSON file and assembles the feed,
// post detail and profile views from concurrent API calls.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/duynhne/social-service/internal/core/domain"
)

// Session is the locally persisted sign-in state. It is only read from and
// written to disk by LoadSession, Save and Clear.
type Session struct {
	mu    sync.RWMutex
	path  string
	Token string       `json:"token"`
	User  *domain.User `json:"user,omitempty"`
}

// LoadSession reads the session stored at path. A missing file yields an
// empty session bound to path.
func LoadSession(path string) (*Session, error) {
	s := &Session{path: path}
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", path, err)
	}
	return s, nil
}

// DefaultSessionPath returns the per-user session file location.
func DefaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "social-cli", "session.json")
}

// SignIn replaces the session credentials. Call Save to persist them.
func (s *Session) SignIn(token string, user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Token = token
	s.User = &user
}

// SignedIn reports whether the session holds a token.
func (s *Session) SignedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Token != ""
}

// CurrentUser returns the cached user of a signed-in session.
func (s *Session) CurrentUser() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Token == "" || s.User == nil {
		return domain.User{}, false
	}
	return *s.User, true
}

func (s *Session) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Token
}

// Save writes the session to its file with owner-only permissions.
func (s *Session) Save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s, "", "  ")
	path := s.path
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear forgets the credentials and removes the session file.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.Token = ""
	s.User = nil
	path := s.path
	s.mu.Unlock()
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
