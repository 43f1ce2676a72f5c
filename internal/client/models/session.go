package models

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/chewallet/internal/common"
)

// SessionState is the position of the session state machine.
type SessionState int

const (
	StateUnknown SessionState = iota
	StateChecking
	StateAuthenticated
	StateUnauthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "invalid"
	}
}

// Session is the in-memory authentication state.
type Session struct {
	Authenticated bool
	Identity      string
	Loading       bool
	// Checked flips to true when the first authority check resolves and
	// stays true for the life of the process.
	Checked   bool
	LastError []string
}

// State derives the state machine position from the flags.
func (s Session) State() SessionState {
	switch {
	case !s.Checked && s.Loading:
		return StateChecking
	case !s.Checked:
		return StateUnknown
	case s.Authenticated:
		return StateAuthenticated
	default:
		return StateUnauthenticated
	}
}

// PersistedSession is the only part of Session written to durable storage.
// It is a first-paint hint and is never trusted as authority.
type PersistedSession struct {
	Authenticated bool   `json:"authenticated"`
	Identity      string `json:"identity,omitempty"`
}

// Projection returns the persisted subset of s.
func (s Session) Projection() PersistedSession {
	return PersistedSession{Authenticated: s.Authenticated, Identity: s.Identity}
}

// AuthResult is returned by a successful login or registration. Raw holds
// the backend payload untouched for callers that need more than the
// username.
type AuthResult struct {
	Username string
	Raw      json.RawMessage
}

// Credentials is the login form.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

const msgCompleteAllFields = "please complete all fields"

// Validate is the pre-check callers run before Login so that an empty form
// never reaches the network.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Username) == "" || c.Password == "" {
		return common.NewValidationError("form", msgCompleteAllFields)
	}
	return nil
}

// RegisterPayload is the registration form, serialized as the backend
// expects it.
type RegisterPayload struct {
	Username       string `json:"username"`
	DNI            string `json:"dni"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	RepeatPassword string `json:"repeatPassword"`
	Name           string `json:"name"`
	Lastname       string `json:"lastname"`
	Birthdate      string `json:"birthdate"`
	Phone          string `json:"phone"`
}

var (
	emailPattern  = regexp.MustCompile(`\S+@\S+\.\S+`)
	digitsPattern = regexp.MustCompile(`^\d+$`)
)

// MinPasswordLength is enforced locally on registration.
const MinPasswordLength = 8

// Validate runs the local registration checks and reports the first one
// that fails.
func (p RegisterPayload) Validate() error {
	required := []string{p.Username, p.DNI, p.Email, p.Password, p.RepeatPassword, p.Name, p.Lastname, p.Birthdate, p.Phone}
	for _, v := range required {
		if strings.TrimSpace(v) == "" {
			return common.NewValidationError("form", msgCompleteAllFields)
		}
	}

	switch {
	case len(p.Password) < MinPasswordLength:
		return common.NewValidationError("password", "password must be at least 8 characters")
	case p.Password != p.RepeatPassword:
		return common.NewValidationError("repeatPassword", "passwords do not match")
	case !emailPattern.MatchString(p.Email):
		return common.NewValidationError("email", "email is not valid")
	case !digitsPattern.MatchString(p.DNI):
		return common.NewValidationError("dni", "DNI must contain only digits")
	}
	return nil
}

// PasswordReset is the reset-password form. Confirm is checked locally and
// never sent.
type PasswordReset struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
	Confirm     string `json:"-"`
}

// MinResetPasswordLength is the backend's lower bound for reset passwords.
const MinResetPasswordLength = 6

func (r PasswordReset) Validate() error {
	switch {
	case r.Token == "":
		return common.NewValidationError("token", "token not provided")
	case len(r.NewPassword) < MinResetPasswordLength:
		return common.NewValidationError("newPassword", "password must be at least 6 characters")
	case r.NewPassword != r.Confirm:
		return common.NewValidationError("confirm", "passwords do not match")
	}
	return nil
}
