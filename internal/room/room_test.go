package room

import (
	"encoding/json"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/JohnLemonNFT/sheepshead-sub001/internal/engine"
	"github.com/JohnLemonNFT/sheepshead-sub001/internal/store"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testStore(t *testing.T) *store.Service {
	t.Helper()
	t.Setenv("SHEEPSHEAD_DB_DRIVER", "sqlite3")
	t.Setenv("SHEEPSHEAD_DSN", filepath.Join(t.TempDir(), "rooms.db"))
	st, err := store.New()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func allBots(kind string) map[int]string {
	out := map[int]string{}
	for i := 0; i < 5; i++ {
		out[i] = kind
	}
	return out
}

func TestAllBotRoomPlaysToCompletion(t *testing.T) {
	rules := engine.DefaultRules()
	rules.MaxHands = 2
	r := NewRoom("TEST1", rules, allBots("easy"), nil, testLogger())

	require.NoError(t, r.Start(42))
	require.Eventually(t, func() bool {
		state, _ := r.State()
		return state.Round.Phase == engine.PhaseGameOver
	}, 15*time.Second, 10*time.Millisecond)

	state, started := r.State()
	require.True(t, started)
	require.Equal(t, 2, state.HandsPlayed)

	total := 0
	for _, p := range state.Players {
		total += p.GameScore
	}
	require.Zero(t, total, "cumulative scores must balance")
}

func TestSubmitBeforeStart(t *testing.T) {
	r := NewRoom("TEST2", engine.DefaultRules(), nil, nil, testLogger())
	err := r.Submit(0, "a1", engine.Action{Type: engine.ActionPass})
	require.ErrorIs(t, err, ErrNotStarted)
}

func TestSubmitDuplicateActionIDIgnored(t *testing.T) {
	r := NewRoom("TEST3", engine.DefaultRules(), nil, nil, testLogger())
	require.NoError(t, r.Start(7))

	state, _ := r.State()
	player := state.Round.PickTurn
	require.NoError(t, r.Submit(player, "a1", engine.Action{Type: engine.ActionPass}))

	after, _ := r.State()
	require.True(t, after.Round.Passed[player])

	// Retry with the same id: acknowledged, not reapplied.
	require.NoError(t, r.Submit(player, "a1", engine.Action{Type: engine.ActionPass}))
	again, _ := r.State()
	require.Equal(t, after.Round.PickTurn, again.Round.PickTurn)
	require.Len(t, r.ActionLog(), 1)
}

func TestSubmitRejectsIllegalAction(t *testing.T) {
	r := NewRoom("TEST4", engine.DefaultRules(), nil, nil, testLogger())
	require.NoError(t, r.Start(7))

	state, _ := r.State()
	wrong := (state.Round.PickTurn + 1) % 5
	err := r.Submit(wrong, "a1", engine.Action{Type: engine.ActionPass})
	require.ErrorIs(t, err, engine.ErrNotYourTurn)

	// A rejected action leaves no trace.
	require.Empty(t, r.ActionLog())
}

func TestJoinValidation(t *testing.T) {
	r := NewRoom("TEST5", engine.DefaultRules(), map[int]string{4: "easy"}, nil, testLogger())

	require.NoError(t, r.Join(0, "conn-a"))
	require.ErrorIs(t, r.Join(0, "conn-b"), ErrSeatOccupied)
	require.NoError(t, r.Join(0, "conn-a"), "rejoining the own seat is idempotent")
	require.ErrorIs(t, r.Join(4, "conn-b"), ErrBotSeat)
	require.ErrorIs(t, r.Join(9, "conn-b"), ErrNoSuchSeat)

	r.Leave(0)
	require.NoError(t, r.Join(0, "conn-b"))
}

func TestObserverSeesEveryTransition(t *testing.T) {
	r := NewRoom("TEST6", engine.DefaultRules(), nil, nil, testLogger())
	updates := []Update{}
	r.SetObserver(func(u Update) { updates = append(updates, u) })
	require.NoError(t, r.Start(7))

	state, _ := r.State()
	player := state.Round.PickTurn
	require.NoError(t, r.Submit(player, "a1", engine.Action{Type: engine.ActionPick}))

	require.Len(t, updates, 1)
	require.Equal(t, player, updates[0].Player)
	require.Equal(t, engine.PhasePicking, updates[0].Prev.Round.Phase)
	require.Equal(t, engine.PhaseBurying, updates[0].Next.Round.Phase)
}

func TestSnapshotResumeRoundTrip(t *testing.T) {
	st := testStore(t)
	rules := engine.DefaultRules()
	r := NewRoom("TEST7", rules, map[int]string{3: "easy", 4: "easy"}, st, testLogger())
	require.NoError(t, r.Join(0, "conn-a"))
	require.NoError(t, r.Start(11))

	state, _ := r.State()
	player := state.Round.PickTurn
	require.False(t, r.BotSeat(player), "first pick sits left of the dealer, a human seat")
	require.NoError(t, r.Submit(player, "a1", engine.Action{Type: engine.ActionPass}))
	r.Abandon()

	// Abandon deletes the snapshot; save a fresh one to restore from.
	// In production the snapshot is still on disk because the process
	// died instead of abandoning, so write it back by hand.
	live, _ := r.State()
	blob, err := json.Marshal(persisted{
		State:    live,
		Started:  true,
		Humans:   map[int]string{0: "conn-a"},
		BotKinds: map[int]string{3: "easy", 4: "easy"},
	})
	require.NoError(t, err)
	require.NoError(t, st.SaveSnapshot(store.Snapshot{Code: "TEST7", HandsPlayed: live.HandsPlayed, State: blob}))

	snap, err := st.LoadSnapshot("TEST7")
	require.NoError(t, err)

	restored := NewRoom("TEST7", engine.DefaultRules(), nil, st, testLogger())
	require.NoError(t, restored.Resume(snap))

	got, started := restored.State()
	require.True(t, started)
	wantJSON, _ := json.Marshal(live)
	gotJSON, _ := json.Marshal(got)
	require.JSONEq(t, string(wantJSON), string(gotJSON))
	require.True(t, restored.BotSeat(3))
	require.False(t, restored.BotSeat(0))
}

func TestAbandonStopsRoom(t *testing.T) {
	st := testStore(t)
	r := NewRoom("TEST8", engine.DefaultRules(), nil, st, testLogger())
	require.NoError(t, r.Start(5))
	r.Abandon()

	err := r.Submit(0, "a1", engine.Action{Type: engine.ActionPass})
	require.ErrorIs(t, err, ErrNotStarted)
	_, err = st.LoadSnapshot("TEST8")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestActionLogReplaysToLiveState(t *testing.T) {
	rules := engine.DefaultRules()
	rules.MaxHands = 1
	r := NewRoom("TEST9", rules, allBots("easy"), nil, testLogger())
	require.NoError(t, r.Start(13))
	require.Eventually(t, func() bool {
		state, _ := r.State()
		return state.Round.Phase == engine.PhaseGameOver
	}, 15*time.Second, 10*time.Millisecond)

	live, _ := r.State()
	replayed, err := engine.Replay(rules, 13, r.ActionLog())
	require.NoError(t, err)

	wantJSON, _ := json.Marshal(live)
	gotJSON, _ := json.Marshal(replayed)
	require.JSONEq(t, string(wantJSON), string(gotJSON))
}

func TestManagerCreateGetClose(t *testing.T) {
	m := NewManager(nil, testLogger())
	r := m.CreateRoom(engine.DefaultRules(), nil)
	require.Len(t, r.Code, 5)

	got, ok := m.Get(r.Code)
	require.True(t, ok)
	require.Same(t, r, got)

	m.Close(r.Code)
	_, ok = m.Get(r.Code)
	require.False(t, ok)
}

func TestManagerResumesFromStore(t *testing.T) {
	st := testStore(t)
	m := NewManager(st, testLogger())
	rules := engine.DefaultRules()
	rules.MaxHands = 3
	r := m.CreateRoom(rules, allBots("easy"))
	code := r.Code
	require.NoError(t, r.Start(3))

	// Simulate a process restart: a fresh manager over the same store.
	require.Eventually(t, func() bool {
		_, err := st.LoadSnapshot(code)
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)
	r.Abandon()

	// Abandon wiped the row; write the latest state back as the crash
	// image before restarting.
	live, _ := r.State()
	blob, err := json.Marshal(persisted{State: live, Started: true, BotKinds: allBots("easy")})
	require.NoError(t, err)
	require.NoError(t, st.SaveSnapshot(store.Snapshot{Code: code, HandsPlayed: live.HandsPlayed, State: blob}))

	m2 := NewManager(st, testLogger())
	restored, err := m2.GetOrResume(code)
	require.NoError(t, err)
	require.Equal(t, code, restored.Code)
	t.Cleanup(restored.Abandon)
	state, started := restored.State()
	require.True(t, started)
	require.True(t, state.Round.HandsDealt || state.Round.Phase == engine.PhaseGameOver)
}
