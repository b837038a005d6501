package store

import (
	"context"
	"strings"

	"github.com/franciscosanchezn/gin-burger-constructor/internal/api"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/models"
)

const (
	OpCheckAuth  = "user/checkAuth"
	OpLogin      = "user/login"
	OpRegister   = "user/register"
	OpUpdateUser = "user/update"
	OpLogout     = "user/logout"

	msgLoginFailed    = "Login failed"
	msgRegisterFailed = "Registration failed"
	msgUpdateFailed   = "Failed to update profile"
	msgLogoutFailed   = "Failed to log out"

	bearerPrefix = "Bearer "
)

// UserState is the session: whether the auth check ran, who is logged in
// and the last surfaced error
type UserState struct {
	IsAuthChecked bool
	User          *models.Profile
	Error         string
	Requests      Requests
}

// ClearUserError resets the session error
type ClearUserError struct{}

func (ClearUserError) ActionType() string { return "user/clearError" }

// logoutDone is the payload of a fulfilled logout
type logoutDone struct{}

func reduceUser(s *UserState, action Action) *UserState {
	switch a := action.(type) {
	case ClearUserError:
		if s.Error == "" {
			return s
		}
		next := *s
		next.Error = ""
		return &next

	case AsyncAction[*models.Profile]:
		next := *s
		next.Requests = track(s.Requests, a)
		switch a.Op {
		case OpCheckAuth:
			switch a.Phase {
			case PhasePending:
				next.Error = ""
			case PhaseFulfilled:
				next.IsAuthChecked = true
				next.User = a.Payload
			case PhaseRejected:
				// not being logged in is an expected outcome, not an error
				next.IsAuthChecked = true
				next.Error = ""
			}
		case OpLogin, OpRegister:
			switch a.Phase {
			case PhasePending:
				next.Error = ""
			case PhaseFulfilled:
				next.User = a.Payload
				next.IsAuthChecked = true
			case PhaseRejected:
				next.Error = a.Error
			}
		case OpUpdateUser:
			switch a.Phase {
			case PhaseFulfilled:
				next.User = a.Payload
			case PhaseRejected:
				next.Error = a.Error
			}
		default:
			return s
		}
		return &next

	case AsyncAction[logoutDone]:
		if a.Op != OpLogout {
			return s
		}
		next := *s
		next.Requests = track(s.Requests, a)
		if a.Phase == PhaseFulfilled {
			next.User = nil
		}
		return &next
	}
	return s
}

// stripBearer removes the "Bearer " scheme the API prepends to access tokens
func stripBearer(token string) string {
	return strings.TrimPrefix(token, bearerPrefix)
}

// CheckAuth asks the API who the current user is. Any failure simply marks
// the check as done with no user.
func (s *Store) CheckAuth(ctx context.Context) error {
	_, err := runAsync(ctx, s, OpCheckAuth, "", func(ctx context.Context) (*models.Profile, error) {
		profile, err := s.api.GetUser(ctx)
		if err != nil {
			log.WithField("unauthorized", api.IsUnauthorized(err)).Debug("Auth check failed, treating session as anonymous")
			return nil, err
		}
		return profile, nil
	})
	return err
}

// Login authenticates with credentials and persists the issued tokens
func (s *Store) Login(ctx context.Context, req api.LoginRequest) error {
	_, err := runAsync(ctx, s, OpLogin, msgLoginFailed, func(ctx context.Context) (*models.Profile, error) {
		resp, err := s.api.Login(ctx, req)
		if err != nil {
			return nil, err
		}
		return s.persistSession(ctx, resp)
	})
	return err
}

// Register creates an account and persists the issued tokens
func (s *Store) Register(ctx context.Context, req api.RegisterRequest) error {
	_, err := runAsync(ctx, s, OpRegister, msgRegisterFailed, func(ctx context.Context) (*models.Profile, error) {
		resp, err := s.api.Register(ctx, req)
		if err != nil {
			return nil, err
		}
		return s.persistSession(ctx, resp)
	})
	return err
}

func (s *Store) persistSession(ctx context.Context, resp *api.AuthResponse) (*models.Profile, error) {
	if err := s.tokens.SetAccessToken(ctx, stripBearer(resp.AccessToken)); err != nil {
		return nil, err
	}
	if err := s.tokens.SetRefreshToken(ctx, resp.RefreshToken); err != nil {
		return nil, err
	}
	user := resp.User
	return &user, nil
}

// UpdateUser patches the profile and replaces the stored user on success
func (s *Store) UpdateUser(ctx context.Context, req api.UpdateUserRequest) error {
	_, err := runAsync(ctx, s, OpUpdateUser, msgUpdateFailed, func(ctx context.Context) (*models.Profile, error) {
		return s.api.UpdateUser(ctx, req)
	})
	return err
}

// Logout signs out on the server, then forgets both tokens and the user
func (s *Store) Logout(ctx context.Context) error {
	_, err := runAsync(ctx, s, OpLogout, msgLogoutFailed, func(ctx context.Context) (logoutDone, error) {
		if err := s.api.Logout(ctx); err != nil {
			return logoutDone{}, err
		}
		if err := s.tokens.ClearAccessToken(ctx); err != nil {
			return logoutDone{}, err
		}
		if err := s.tokens.ClearRefreshToken(ctx); err != nil {
			return logoutDone{}, err
		}
		return logoutDone{}, nil
	})
	return err
}

// ClearUserError dispatches ClearUserError
func (s *Store) ClearUserError() {
	s.Dispatch(ClearUserError{})
}
