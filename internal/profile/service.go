package profile

import (
	"context"

	"waterx/internal/api"
	apperrors "waterx/internal/errors"
	"waterx/internal/logger"
	"waterx/internal/notify"
	"waterx/internal/session"
)

const (
	msgUpdated      = "Profile updated successfully!"
	msgUpdateFailed = "Failed to update profile"
)

// Backend is the part of the API client the service needs
type Backend interface {
	UpdateProfile(ctx context.Context, id string, upd api.ProfileUpdate) (*api.ProfileResult, error)
	ListEmployees(ctx context.Context) ([]api.Employee, error)
}

// Identity is the signed-in user store
type Identity interface {
	Current() *session.User
	Login(id, name, role string) error
}

// Service submits profile changes for the signed-in user
type Service struct {
	backend  Backend
	identity Identity
	notifier notify.Publisher
	log      logger.Logger
}

// NewService creates a profile service
func NewService(backend Backend, identity Identity, notifier notify.Publisher, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &Service{backend: backend, identity: identity, notifier: notifier, log: log}
}

// Prefill returns the form populated from the signed-in user's employee
// record. It returns (nil, nil) when there is no session or no matching
// employee.
func (s *Service) Prefill(ctx context.Context) (*Form, error) {
	user := s.identity.Current()
	if user == nil {
		return nil, nil
	}

	employees, err := s.backend.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range employees {
		if e.ID == user.ID {
			return &Form{Name: e.Name, Email: e.Email}, nil
		}
	}
	s.log.Debug("Signed-in user not in employee list", "key", user.ID)
	return nil, nil
}

// Submit validates form and sends it. On success the session identity is
// refreshed from the response and form.Password is cleared; other fields
// are left as entered.
func (s *Service) Submit(ctx context.Context, form *Form) error {
	if fe := form.Validate(); fe != nil {
		return validationError(fe)
	}

	user := s.identity.Current()
	if user == nil || user.ID == "" {
		err := apperrors.NoSession()
		s.notify(notify.Failure(notify.EventProfileFailed, err.Message, nil))
		return err
	}

	upd := api.ProfileUpdate{Name: form.Name, Email: form.Email}
	if form.Password != "" {
		upd.Password = form.Password
	}

	res, err := s.backend.UpdateProfile(ctx, user.ID, upd)
	if err != nil {
		msg := apperrors.Message(err, msgUpdateFailed)
		s.log.Error("Profile update failed", "key", user.ID, "error", err)
		s.notify(notify.Failure(notify.EventProfileFailed, msg, err))
		return err
	}
	if res == nil || res.Name == "" {
		err := apperrors.NewDataError(apperrors.ErrCodeInvalidJSON, msgUpdateFailed, nil).
			WithDetails("response carried no updated user")
		s.log.Error("Profile update returned no user", "key", user.ID)
		s.notify(notify.Failure(notify.EventProfileFailed, msgUpdateFailed, err))
		return err
	}

	s.notify(notify.Success(notify.EventProfileUpdated, msgUpdated))
	if err := s.identity.Login(user.ID, res.Name, res.Role); err != nil {
		s.log.Warn("Could not persist refreshed session", "error", err)
	}
	form.Password = ""
	s.log.Info("Profile updated", "key", user.ID)
	return nil
}

func (s *Service) notify(e *notify.Event) {
	if s.notifier != nil {
		s.notifier.Notify(e)
	}
}
