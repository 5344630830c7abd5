package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testService(t *testing.T) *Service {
	t.Helper()
	t.Setenv("SHEEPSHEAD_DB_DRIVER", "sqlite3")
	t.Setenv("SHEEPSHEAD_DSN", filepath.Join(t.TempDir(), "test.db"))
	s, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := testService(t)

	err := s.SaveSnapshot(Snapshot{Code: "AB3D5", HandsPlayed: 2, State: []byte(`{"x":1}`)})
	require.NoError(t, err)

	snap, err := s.LoadSnapshot("AB3D5")
	require.NoError(t, err)
	require.Equal(t, "AB3D5", snap.Code)
	require.Equal(t, 2, snap.HandsPlayed)
	require.JSONEq(t, `{"x":1}`, string(snap.State))
	require.NotEmpty(t, snap.UpdatedAt)
}

func TestSaveUpserts(t *testing.T) {
	s := testService(t)

	require.NoError(t, s.SaveSnapshot(Snapshot{Code: "AB3D5", HandsPlayed: 1, State: []byte(`{"v":1}`)}))
	require.NoError(t, s.SaveSnapshot(Snapshot{Code: "AB3D5", HandsPlayed: 2, State: []byte(`{"v":2}`)}))

	snap, err := s.LoadSnapshot("AB3D5")
	require.NoError(t, err)
	require.Equal(t, 2, snap.HandsPlayed)
	require.JSONEq(t, `{"v":2}`, string(snap.State))
}

func TestLoadMissing(t *testing.T) {
	s := testService(t)
	_, err := s.LoadSnapshot("NOPE1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	s := testService(t)

	require.NoError(t, s.SaveSnapshot(Snapshot{Code: "AB3D5", State: []byte(`{}`)}))
	require.NoError(t, s.Delete("AB3D5"))
	_, err := s.LoadSnapshot("AB3D5")
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing row is not an error.
	require.NoError(t, s.Delete("AB3D5"))
}
