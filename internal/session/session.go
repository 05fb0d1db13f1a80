// Package session keeps the identity of the signed-in operator between runs.
package session

import (
	"sync"

	"github.com/spf13/afero"

	"waterx/internal/fs"
)

// User is the authenticated identity
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Session stores the current user in a JSON file
type Session struct {
	mu   sync.RWMutex
	fsys afero.Fs
	path string
	user *User
}

// Open loads the session stored at path; a missing file means signed out.
func Open(fsys afero.Fs, path string) (*Session, error) {
	s := &Session{fsys: fsys, path: path}

	var u User
	if err := fs.ReadJSON(fsys, path, &u); err != nil {
		return nil, err
	}
	if u.ID != "" {
		s.user = &u
	}
	return s, nil
}

// Current returns a copy of the signed-in user, or nil
func (s *Session) Current() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Login records the identity and persists it
func (s *Session) Login(id, name, role string) error {
	u := &User{ID: id, Name: name, Role: role}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fs.WriteJSON(s.fsys, s.path, u, 0o600); err != nil {
		return err
	}
	s.user = u
	return nil
}

// Logout forgets the identity
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	exists, err := fs.Exists(s.fsys, s.path)
	if err != nil || !exists {
		return err
	}
	return s.fsys.Remove(s.path)
}
