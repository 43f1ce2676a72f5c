package metadata

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hint struct {
	Authenticated bool   `json:"authenticated"`
	Identity      string `json:"identity"`
}

func TestStore_JSONRoundTrip(t *testing.T) {
	s := NewStore(setupDB(t))
	ctx := context.Background()

	var got hint
	ok, err := LoadJSON(ctx, s, KeySession, &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, SaveJSON(ctx, s, KeySession, hint{Authenticated: true, Identity: "ana"}))

	ok, err = LoadJSON(ctx, s, KeySession, &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, hint{Authenticated: true, Identity: "ana"}, got)
}

func TestStore_LoadJSONCorrupt(t *testing.T) {
	s := NewStore(setupDB(t))
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, KeyAccount, []byte("{broken")))

	var got hint
	ok, err := LoadJSON(ctx, s, KeyAccount, &got)
	require.ErrorContains(t, err, "decode metadata[account]")
	assert.False(t, ok)
}

func TestStore_UpdateCommits(t *testing.T) {
	s := NewStore(setupDB(t))
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, KeyAccount, []byte("{}")))

	err := s.Update(ctx, func(r Repository) error {
		if err := SaveJSON(ctx, r, KeySession, hint{}); err != nil {
			return err
		}
		return r.Delete(ctx, KeyAccount)
	})
	require.NoError(t, err)

	m, err := s.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, m, KeySession)
	assert.NotContains(t, m, KeyAccount)
}

func TestStore_UpdateRollsBack(t *testing.T) {
	s := NewStore(setupDB(t))
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Update(ctx, func(r Repository) error {
		require.NoError(t, r.Set(ctx, KeySession, []byte("{}")))
		return boom
	})
	require.ErrorIs(t, err, boom)

	v, err := s.Get(ctx, KeySession)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestStore_UpdateCommitError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM metadata`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit().WillReturnError(errors.New("disk full"))

	s := NewStore(db)
	err = s.Update(context.Background(), func(r Repository) error {
		return r.Clear(context.Background())
	})
	require.ErrorContains(t, err, "commit tx: disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}
