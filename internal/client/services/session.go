// Package services holds the client-side state containers of the wallet:
// the session store, the account store, the transaction orchestrator and
// the movements paginator. Each is constructed once by the application
// root and shared by reference.
package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/chewallet/internal/client/client"
	"github.com/dmitrijs2005/chewallet/internal/client/models"
	"github.com/dmitrijs2005/chewallet/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/chewallet/internal/common"
	"github.com/dmitrijs2005/chewallet/internal/logging"
)

// StateStore is the durable client storage the stores write their hints to.
type StateStore interface {
	metadata.Repository
	Update(ctx context.Context, fn func(r metadata.Repository) error) error
}

// SessionStore owns the authentication state machine.
//
// Contract:
//   - CheckAuth is the only authoritative writer of the session. It marks
//     the session checked when it resolves and never unmarks it. A check
//     overtaken by Login or Logout drops its answer.
//   - Login and Register return *common.ValidationError on rejection and
//     *common.TransportError on network failure.
//   - Logout changes local state synchronously and unconditionally; the
//     server call runs detached and only reports through the channel.
//
// Concurrent Login calls are not coalesced; callers serialize them.
type SessionStore interface {
	CheckAuth(ctx context.Context) models.Session
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error)
	Register(ctx context.Context, payload models.RegisterPayload) (*models.AuthResult, error)
	Logout(ctx context.Context) <-chan error
	ResetPassword(ctx context.Context, token, newPassword, confirm string) error

	Snapshot() models.Session
	// Hint is the projection persisted by a previous process. It is meant
	// for first paint only.
	Hint() models.PersistedSession
}

type sessionStore struct {
	client  client.Client
	store   StateStore
	log     logging.Logger
	timeout time.Duration

	mu      sync.Mutex
	session models.Session
	hint    models.PersistedSession
	// gen is bumped by Login and Logout; a CheckAuth that started under
	// an older generation discards its answer.
	gen uint64

	// writeMu orders the state writes together with their persistence.
	writeMu sync.Mutex
}

// NewSessionStore loads the persisted hint and returns a store in the
// Unknown state. logoutTimeout bounds the detached server invalidation.
func NewSessionStore(ctx context.Context, c client.Client, store StateStore, log logging.Logger, logoutTimeout time.Duration) SessionStore {
	if log == nil {
		log = logging.Nop()
	}
	s := &sessionStore{
		client:  c,
		store:   store,
		log:     log.With("component", "session"),
		timeout: logoutTimeout,
	}

	if _, err := metadata.LoadJSON(ctx, store, metadata.KeySession, &s.hint); err != nil {
		s.log.Warn(ctx, "load session hint", "error", err)
	}
	return s
}

func (s *sessionStore) Snapshot() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.session
	out.LastError = append([]string(nil), s.session.LastError...)
	return out
}

func (s *sessionStore) Hint() models.PersistedSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hint
}

func (s *sessionStore) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Loading = true
	s.session.LastError = nil
	return s.gen
}

func (s *sessionStore) fail(err error) {
	s.mu.Lock()
	s.session.Loading = false
	s.session.LastError = common.Messages(err)
	s.mu.Unlock()
}

func (s *sessionStore) persist(ctx context.Context, p models.PersistedSession) {
	err := s.store.Update(ctx, func(r metadata.Repository) error {
		if err := metadata.SaveJSON(ctx, r, metadata.KeySession, p); err != nil {
			return err
		}
		if !p.Authenticated {
			return r.Delete(ctx, metadata.KeyAccount)
		}
		return nil
	})
	if err != nil {
		s.log.Warn(ctx, "persist session", "error", err)
	}
}

func (s *sessionStore) CheckAuth(ctx context.Context) models.Session {
	gen := s.begin()

	identity, err := s.client.CheckAuth(ctx)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if gen != s.gen {
		s.session.Checked = true
		s.session.Loading = false
		s.mu.Unlock()
		s.log.Debug(ctx, "session changed during check, result dropped")
		return s.Snapshot()
	}
	if err != nil {
		s.session.Authenticated = false
		s.session.Identity = ""
	} else {
		s.session.Authenticated = true
		s.session.Identity = identity
	}
	s.session.Checked = true
	s.session.Loading = false
	p := s.session.Projection()
	s.mu.Unlock()

	if err != nil {
		s.log.Info(ctx, "session not valid", "error", &common.AuthorityError{Err: err})
	}
	s.persist(ctx, p)
	return s.Snapshot()
}

func (s *sessionStore) Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error) {
	s.begin()

	res, err := s.client.Login(ctx, creds)
	if err != nil {
		err = asValidation("login", err)
		s.fail(err)
		return nil, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.gen++
	s.session.Authenticated = true
	s.session.Identity = res.Username
	s.session.Loading = false
	p := s.session.Projection()
	s.mu.Unlock()

	s.log.Info(ctx, "logged in", "identity", res.Username)
	s.persist(ctx, p)
	return res, nil
}

func (s *sessionStore) Register(ctx context.Context, payload models.RegisterPayload) (*models.AuthResult, error) {
	s.begin()

	res, err := s.client.Register(ctx, payload)
	if err != nil {
		err = asValidation("register", err)
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	s.session.Loading = false
	s.mu.Unlock()
	return res, nil
}

func (s *sessionStore) Logout(ctx context.Context) <-chan error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.gen++
	s.session.Authenticated = false
	s.session.Identity = ""
	s.session.Loading = false
	s.session.LastError = nil
	s.hint = models.PersistedSession{}
	s.mu.Unlock()

	invalidate := s.client.EndSession(ctx)
	if err := s.store.Clear(ctx); err != nil {
		s.log.Warn(ctx, "clear local state", "error", err)
	}

	done := make(chan error, 1)
	go func() {
		defer close(done)

		callCtx := context.WithoutCancel(ctx)
		if s.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(callCtx, s.timeout)
			defer cancel()
		}

		err := invalidate(callCtx)
		if err != nil {
			s.log.Debug(ctx, "server logout failed", "error", err)
		}
		done <- err
	}()
	return done
}

func (s *sessionStore) ResetPassword(ctx context.Context, token, newPassword, confirm string) error {
	form := models.PasswordReset{Token: token, NewPassword: newPassword, Confirm: confirm}
	if err := form.Validate(); err != nil {
		return err
	}

	if err := s.client.ResetPassword(ctx, form); err != nil {
		return asPartial("reset password", err)
	}
	return nil
}
