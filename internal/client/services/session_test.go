package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/chewallet/internal/client/client"
	"github.com/dmitrijs2005/chewallet/internal/client/models"
	"github.com/dmitrijs2005/chewallet/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/chewallet/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadHint(t *testing.T, store *metadata.Store) (models.PersistedSession, bool) {
	t.Helper()
	var p models.PersistedSession
	ok, err := metadata.LoadJSON(context.Background(), store, metadata.KeySession, &p)
	require.NoError(t, err)
	return p, ok
}

func TestSessionStore_CheckAuthSuccess(t *testing.T) {
	fc := &fakeClient{CheckAuthUser: "ana"}
	store := newStateStore(t)
	s := NewSessionStore(context.Background(), fc, store, nil, time.Second)

	require.Equal(t, models.StateUnknown, s.Snapshot().State())

	got := s.CheckAuth(context.Background())
	assert.Equal(t, models.StateAuthenticated, got.State())
	assert.Equal(t, "ana", got.Identity)
	assert.False(t, got.Loading)

	hint, ok := loadHint(t, store)
	require.True(t, ok)
	assert.Equal(t, models.PersistedSession{Authenticated: true, Identity: "ana"}, hint)
}

func TestSessionStore_CheckAuthFailureIsUnauthenticated(t *testing.T) {
	for name, err := range map[string]error{
		"rejected": apiErr(401, ``),
		"network":  &common.TransportError{Op: "check auth", Err: client.ErrUnavailable},
	} {
		t.Run(name, func(t *testing.T) {
			store := newStateStore(t)
			require.NoError(t, metadata.SaveJSON(context.Background(), store, metadata.KeyAccount, models.Account{Alias: "old"}))

			s := NewSessionStore(context.Background(), &fakeClient{CheckAuthErr: err}, store, nil, time.Second)
			got := s.CheckAuth(context.Background())

			assert.True(t, got.Checked)
			assert.False(t, got.Authenticated)
			assert.Empty(t, got.LastError, "an authority failure is not a banner")

			v, gerr := store.Get(context.Background(), metadata.KeyAccount)
			require.NoError(t, gerr)
			assert.Nil(t, v)
		})
	}
}

func TestSessionStore_CheckedNeverResets(t *testing.T) {
	fc := &fakeClient{CheckAuthUser: "ana"}
	s := NewSessionStore(context.Background(), fc, newStateStore(t), nil, time.Second)
	ctx := context.Background()

	outcomes := []error{nil, apiErr(401, ``), errors.New("boom"), nil}
	for i, err := range outcomes {
		fc.CheckAuthErr = err
		got := s.CheckAuth(ctx)
		assert.True(t, got.Checked, "call %d", i)
		assert.Equal(t, err == nil, got.Authenticated, "call %d", i)
	}

	<-s.Logout(ctx)
	assert.True(t, s.Snapshot().Checked)
	assert.Equal(t, 4, fc.Calls("CheckAuth"))
}

func TestSessionStore_HintIsNotAuthority(t *testing.T) {
	store := newStateStore(t)
	require.NoError(t, metadata.SaveJSON(context.Background(), store, metadata.KeySession, models.PersistedSession{Authenticated: true, Identity: "ana"}))

	s := NewSessionStore(context.Background(), &fakeClient{CheckAuthErr: apiErr(401, ``)}, store, nil, time.Second)

	assert.Equal(t, models.PersistedSession{Authenticated: true, Identity: "ana"}, s.Hint())
	assert.Equal(t, models.StateUnknown, s.Snapshot().State())

	got := s.CheckAuth(context.Background())
	assert.Equal(t, models.StateUnauthenticated, got.State())
}

func TestSessionStore_LoginSuccess(t *testing.T) {
	fc := &fakeClient{LoginRes: &models.AuthResult{Username: "ana", Raw: []byte(`{"username":"ana"}`)}}
	store := newStateStore(t)
	s := NewSessionStore(context.Background(), fc, store, nil, time.Second)

	res, err := s.Login(context.Background(), models.Credentials{Username: "ana", Password: "secret"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"ana"}`, string(res.Raw))

	snap := s.Snapshot()
	assert.True(t, snap.Authenticated)
	assert.Equal(t, "ana", snap.Identity)
	assert.False(t, snap.Loading)

	hint, ok := loadHint(t, store)
	require.True(t, ok)
	assert.True(t, hint.Authenticated)
}

func TestSessionStore_LoginRejectedWithDetails(t *testing.T) {
	fc := &fakeClient{LoginErr: apiErr(400, `{"details":{"username":"user not found","password":"required"}}`)}
	s := NewSessionStore(context.Background(), fc, newStateStore(t), nil, time.Second)

	_, err := s.Login(context.Background(), models.Credentials{Username: "x", Password: "y"})

	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"username": "user not found", "password": "required"}, verr.Fields)
	assert.Equal(t, []string{"required", "user not found"}, s.Snapshot().LastError)
	assert.False(t, s.Snapshot().Authenticated)
}

func TestSessionStore_LoginRejectedWithoutDetails(t *testing.T) {
	fc := &fakeClient{LoginErr: apiErr(401, `{"message":"bad credentials"}`)}
	s := NewSessionStore(context.Background(), fc, newStateStore(t), nil, time.Second)

	_, err := s.Login(context.Background(), models.Credentials{Username: "x", Password: "y"})

	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"error": "bad credentials"}, verr.Fields)
}

func TestSessionStore_LoginTransportFailure(t *testing.T) {
	fc := &fakeClient{LoginErr: &common.TransportError{Op: "login", Err: fmt.Errorf("%w: refused", client.ErrUnavailable)}}
	s := NewSessionStore(context.Background(), fc, newStateStore(t), nil, time.Second)

	_, err := s.Login(context.Background(), models.Credentials{Username: "x", Password: "y"})

	var te *common.TransportError
	require.ErrorAs(t, err, &te)
	assert.ErrorIs(t, err, client.ErrUnavailable)
	assert.False(t, s.Snapshot().Loading)
}

func TestSessionStore_RegisterDoesNotLogIn(t *testing.T) {
	fc := &fakeClient{RegisterRes: &models.AuthResult{Username: "ana"}}
	store := newStateStore(t)
	s := NewSessionStore(context.Background(), fc, store, nil, time.Second)

	res, err := s.Register(context.Background(), models.RegisterPayload{Username: "ana"})
	require.NoError(t, err)
	assert.Equal(t, "ana", res.Username)
	assert.False(t, s.Snapshot().Authenticated)

	_, ok := loadHint(t, store)
	assert.False(t, ok)

	fc.RegisterErr = apiErr(409, `{"details":{"username":"already taken"}}`)
	_, err = s.Register(context.Background(), models.RegisterPayload{Username: "ana"})
	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "already taken", verr.Fields["username"])
}

func TestSessionStore_LogoutIsUnconditional(t *testing.T) {
	for name, logoutErr := range map[string]error{
		"server ok":     nil,
		"server failed": &common.TransportError{Op: "logout", Err: client.ErrUnavailable},
	} {
		t.Run(name, func(t *testing.T) {
			block := make(chan struct{})
			fc := &fakeClient{
				LoginRes:    &models.AuthResult{Username: "ana"},
				LogoutErr:   logoutErr,
				LogoutBlock: block,
			}
			store := newStateStore(t)
			ctx := context.Background()
			s := NewSessionStore(ctx, fc, store, nil, time.Second)

			_, err := s.Login(ctx, models.Credentials{Username: "ana", Password: "secret"})
			require.NoError(t, err)
			require.NoError(t, metadata.SaveJSON(ctx, store, metadata.KeyAccount, models.Account{Alias: "a"}))

			done := s.Logout(ctx)

			// Local state changed before the server answered.
			assert.False(t, s.Snapshot().Authenticated)
			assert.Empty(t, s.Snapshot().Identity)
			assert.Equal(t, models.PersistedSession{}, s.Hint())
			m, err := store.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, m)

			close(block)
			assert.Equal(t, logoutErr, <-done)
			assert.False(t, s.Snapshot().Authenticated)
			assert.Equal(t, 1, fc.Calls("Logout"))
		})
	}
}

func TestSessionStore_CheckAuthInFlightDuringLogout(t *testing.T) {
	fc := &fakeClient{
		CheckAuthUser:    "ana",
		CheckAuthBlock:   make(chan struct{}),
		CheckAuthStarted: make(chan struct{}, 1),
	}
	store := newStateStore(t)
	ctx := context.Background()
	s := NewSessionStore(ctx, fc, store, nil, time.Second)

	checked := make(chan models.Session, 1)
	go func() { checked <- s.CheckAuth(ctx) }()
	<-fc.CheckAuthStarted

	require.NoError(t, <-s.Logout(ctx))
	close(fc.CheckAuthBlock)
	got := <-checked

	assert.False(t, got.Authenticated)
	assert.Empty(t, got.Identity)
	assert.True(t, got.Checked)
	assert.False(t, got.Loading)
	assert.False(t, s.Snapshot().Authenticated)

	_, ok := loadHint(t, store)
	assert.False(t, ok, "a stale check must not persist the session again")
}

func TestSessionStore_CheckAuthInFlightDuringLogin(t *testing.T) {
	fc := &fakeClient{
		CheckAuthErr:     apiErr(401, ``),
		CheckAuthBlock:   make(chan struct{}),
		CheckAuthStarted: make(chan struct{}, 1),
		LoginRes:         &models.AuthResult{Username: "ana"},
	}
	store := newStateStore(t)
	ctx := context.Background()
	s := NewSessionStore(ctx, fc, store, nil, time.Second)

	checked := make(chan models.Session, 1)
	go func() { checked <- s.CheckAuth(ctx) }()
	<-fc.CheckAuthStarted

	_, err := s.Login(ctx, models.Credentials{Username: "ana", Password: "secret"})
	require.NoError(t, err)
	close(fc.CheckAuthBlock)
	<-checked

	assert.True(t, s.Snapshot().Authenticated)
	assert.Equal(t, "ana", s.Snapshot().Identity)
	hint, ok := loadHint(t, store)
	require.True(t, ok)
	assert.Equal(t, models.PersistedSession{Authenticated: true, Identity: "ana"}, hint)
}

func TestSessionStore_LogoutSurvivesCallerCancel(t *testing.T) {
	fc := &fakeClient{}
	s := NewSessionStore(context.Background(), fc, newStateStore(t), nil, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := s.Logout(ctx)
	cancel()

	require.NoError(t, <-done)
	assert.Equal(t, 1, fc.Calls("Logout"))
}

func TestSessionStore_ResetPassword(t *testing.T) {
	fc := &fakeClient{}
	s := NewSessionStore(context.Background(), fc, newStateStore(t), nil, time.Second)
	ctx := context.Background()

	var verr *common.ValidationError
	require.ErrorAs(t, s.ResetPassword(ctx, "", "123456", "123456"), &verr)
	require.ErrorAs(t, s.ResetPassword(ctx, "tok", "123", "123"), &verr)
	require.ErrorAs(t, s.ResetPassword(ctx, "tok", "123456", "654321"), &verr)
	assert.Zero(t, fc.Calls("ResetPassword"))

	require.NoError(t, s.ResetPassword(ctx, "tok", "123456", "123456"))
	assert.Equal(t, models.PasswordReset{Token: "tok", NewPassword: "123456", Confirm: "123456"}, fc.LastReset)

	fc.ResetErr = apiErr(400, `{"message":"token expired"}`)
	err := s.ResetPassword(ctx, "tok", "123456", "123456")
	var perr *common.PartialDataError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "token expired", perr.Message)
}
