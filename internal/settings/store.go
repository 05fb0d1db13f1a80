// Package settings holds the application-wide settings state (currently the
// branding logo URL) and proxies reads and writes to the backend.
package settings

import (
	"context"
	"sync"

	"waterx/internal/api"
	apperrors "waterx/internal/errors"
	"waterx/internal/logger"
	"waterx/internal/notify"
)

const (
	msgLogoUpdated   = "Logo updated successfully!"
	msgLogoUpdateErr = "Failed to update logo"
)

// State is a snapshot of the store
type State struct {
	LogoURL   *string
	IsLoading bool
	Error     *string
}

// Backend is the part of the API client the store needs
type Backend interface {
	GetSetting(ctx context.Context, key string) (*api.Setting, error)
	PutSetting(ctx context.Context, key, value string) (*api.Setting, error)
}

// Store is the settings state container. Concurrent calls are not
// de-duplicated; the last one to finish wins.
type Store struct {
	backend  Backend
	notifier notify.Publisher
	log      logger.Logger

	mu        sync.Mutex
	state     State
	nextSubID int
	subs      map[int]func(State)
}

// NewStore creates a store in its initial state
func NewStore(backend Backend, notifier notify.Publisher, log logger.Logger) *Store {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &Store{
		backend:  backend,
		notifier: notifier,
		log:      log,
		subs:     make(map[int]func(State)),
	}
}

// State returns the current snapshot
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyState(s.state)
}

// LogoURL returns the stored logo URL, or "" when none is configured
func (s *Store) LogoURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.LogoURL == nil {
		return ""
	}
	return *s.state.LogoURL
}

// Subscribe registers fn to receive every new snapshot. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// FetchLogoURL loads the logo URL from the backend. Any failure leaves the
// store with no logo and is not reported to the user.
func (s *Store) FetchLogoURL(ctx context.Context) {
	s.update(func(st *State) {
		st.IsLoading = true
		st.Error = nil
	})

	setting, err := s.backend.GetSetting(ctx, api.SettingLogoURL)
	if err != nil {
		s.log.Debug("No logo configured", "key", api.SettingLogoURL, "error", err)
		s.update(func(st *State) {
			st.LogoURL = nil
			st.IsLoading = false
		})
		return
	}

	s.update(func(st *State) {
		if setting.Value == "" {
			st.LogoURL = nil
		} else {
			v := setting.Value
			st.LogoURL = &v
		}
		st.IsLoading = false
	})
}

// UpdateLogoURL stores url on the backend. The value is not validated here.
// On success the store holds the server-confirmed value.
func (s *Store) UpdateLogoURL(ctx context.Context, url string) error {
	s.update(func(st *State) {
		st.IsLoading = true
	})

	setting, err := s.backend.PutSetting(ctx, api.SettingLogoURL, url)
	if err != nil {
		msg := apperrors.Message(err, msgLogoUpdateErr)
		s.log.Error("Logo update failed", "key", api.SettingLogoURL, "error", err)
		s.update(func(st *State) {
			st.IsLoading = false
			st.Error = &msg
		})
		s.notify(notify.Failure(notify.EventLogoUpdateFailed, msg, err))
		return err
	}

	v := setting.Value
	s.update(func(st *State) {
		st.LogoURL = &v
		st.IsLoading = false
	})
	s.log.Info("Logo updated", "key", api.SettingLogoURL)
	s.notify(notify.Success(notify.EventLogoUpdated, msgLogoUpdated).WithDetail("logo_url", v))
	return nil
}

func (s *Store) notify(e *notify.Event) {
	if s.notifier != nil {
		s.notifier.Notify(e)
	}
}

// update applies fn under the lock and publishes the result outside it
func (s *Store) update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	snap := copyState(s.state)
	subs := make([]func(State), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snap)
	}
}

func copyState(st State) State {
	out := State{IsLoading: st.IsLoading}
	if st.LogoURL != nil {
		v := *st.LogoURL
		out.LogoURL = &v
	}
	if st.Error != nil {
		v := *st.Error
		out.Error = &v
	}
	return out
}
