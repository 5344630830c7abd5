package room

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/JohnLemonNFT/sheepshead-sub001/internal/bots"
	"github.com/JohnLemonNFT/sheepshead-sub001/internal/engine"
	"github.com/JohnLemonNFT/sheepshead-sub001/internal/store"
)

var (
	ErrNotStarted     = errors.New("game not started")
	ErrAlreadyStarted = errors.New("game already started")
	ErrSeatOccupied   = errors.New("seat already occupied")
	ErrBotSeat        = errors.New("seat belongs to a bot")
	ErrNoSuchSeat     = errors.New("no such seat")
)

// Update is delivered to the observer after every applied action. Both
// states are private clones; the observer may keep them.
type Update struct {
	Prev   engine.GameState
	Next   engine.GameState
	Player int
	Action engine.Action
}

// Room owns exactly one GameState and serializes every mutation through a
// single mutex: the single-writer discipline from the concurrency model.
// Bot computation runs off the accept path in a drive goroutine; its
// result re-enters through the same mutex, and a generation counter drops
// results computed before a reset.
type Room struct {
	Code string

	mu         sync.Mutex
	rules      engine.Rules
	state      engine.GameState
	started    bool
	humans     map[int]string
	botSeats   map[int]bots.Bot
	botKinds   map[int]string
	actionIDs  map[string]bool
	actionLog  []engine.StepRecord
	gen        int
	botRunning bool
	observer   func(Update)
	store      *store.Service
	log        logrus.FieldLogger
}

// persisted is the serialized room layout: the full game state plus the
// seat map, enough to resume mid-hand after a restart.
type persisted struct {
	State     engine.GameState    `json:"state"`
	Started   bool                `json:"started"`
	Humans    map[int]string      `json:"humans"`
	BotKinds  map[int]string      `json:"botKinds"`
	ActionLog []engine.StepRecord `json:"actionLog"`
}

// NewRoom creates a room with bots seated per botKinds (seat → "easy" or
// "smart"). The store may be nil for ephemeral rooms (tests, sims).
func NewRoom(code string, rules engine.Rules, botKinds map[int]string, st *store.Service, log logrus.FieldLogger) *Room {
	r := &Room{
		Code:      code,
		rules:     rules,
		humans:    map[int]string{},
		botSeats:  map[int]bots.Bot{},
		botKinds:  map[int]string{},
		actionIDs: map[string]bool{},
		store:     st,
		log:       log.WithField("room", code),
	}
	for seat, kind := range botKinds {
		r.botKinds[seat] = kind
	}
	return r
}

func makeBot(kind string, seed int64) bots.Bot {
	if kind == "easy" {
		return bots.NewEasy(seed)
	}
	return bots.NewSmart(seed)
}

// SetObserver registers the transport callback. Must be set before Start.
func (r *Room) SetObserver(fn func(Update)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observer = fn
}

// Join seats a human connection. Bots keep their seats.
func (r *Room) Join(seat int, connID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if seat < 0 || seat >= r.rules.Players {
		return ErrNoSuchSeat
	}
	if _, ok := r.botKinds[seat]; ok {
		return ErrBotSeat
	}
	if id, ok := r.humans[seat]; ok && id != connID {
		return ErrSeatOccupied
	}
	r.humans[seat] = connID
	return nil
}

// Leave frees a human seat. The game keeps running; the seat can be
// reclaimed on reconnect thanks to the persisted snapshot.
func (r *Room) Leave(seat int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.humans, seat)
}

// Start deals the first hand. Every later hand is dealt automatically when
// scoring completes.
func (r *Room) Start(seed int64) error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	r.state = engine.NewGame(r.rules, seed)
	for seat, kind := range r.botKinds {
		r.botSeats[seat] = makeBot(kind, seed+int64(seat)+1)
	}
	engine.DealHand(&r.state)
	r.started = true
	r.actionIDs = map[string]bool{}
	r.actionLog = nil
	r.snapshotLocked()
	r.log.WithField("seed", seed).Info("game started")
	r.kickBotsLocked()
	r.mu.Unlock()
	return nil
}

// Submit applies one human action. A repeated actionID is acknowledged
// without reapplying, so transport retries are idempotent.
func (r *Room) Submit(seat int, actionID string, a engine.Action) error {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return ErrNotStarted
	}
	if actionID != "" && r.actionIDs[actionID] {
		r.mu.Unlock()
		return nil
	}
	prev := r.state.Clone()
	if err := engine.ApplyAction(&r.state, seat, a); err != nil {
		r.mu.Unlock()
		return err
	}
	if actionID != "" {
		r.actionIDs[actionID] = true
	}
	r.actionLog = append(r.actionLog, engine.StepRecord{Player: seat, Action: a})
	r.ensureDealLocked()
	r.snapshotLocked()
	obs := r.observer
	upd := Update{Prev: prev, Next: r.state.Clone(), Player: seat, Action: a}
	r.kickBotsLocked()
	r.mu.Unlock()

	if obs != nil {
		obs(upd)
	}
	return nil
}

// State returns a deep copy of the live state.
func (r *Room) State() (engine.GameState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Clone(), r.started
}

// ActionLog returns a copy of the ordered action log since Start; together
// with the seed it replays the whole game.
func (r *Room) ActionLog() []engine.StepRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]engine.StepRecord(nil), r.actionLog...)
}

// BotSeat reports whether a seat is bot-controlled.
func (r *Room) BotSeat(seat int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.botKinds[seat]
	return ok
}

// Abandon cancels any in-flight bot computation and stops the room.
// Partial bot results are discarded, never applied.
func (r *Room) Abandon() {
	r.mu.Lock()
	r.gen++
	r.started = false
	r.mu.Unlock()
	if r.store != nil {
		if err := r.store.Delete(r.Code); err != nil {
			r.log.WithError(err).Warn("delete snapshot")
		}
	}
	r.log.Info("room abandoned")
}

// Resume restores a room from its persisted snapshot and restarts the bot
// loop. Bots are rebuilt fresh: they carry no state between decisions, so
// a resume is indistinguishable from an uninterrupted game.
func (r *Room) Resume(snap store.Snapshot) error {
	var p persisted
	if err := json.Unmarshal(snap.State, &p); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	r.mu.Lock()
	r.state = p.State
	r.rules = p.State.Rules
	r.started = p.Started
	r.humans = p.Humans
	if r.humans == nil {
		r.humans = map[int]string{}
	}
	r.botKinds = p.BotKinds
	if r.botKinds == nil {
		r.botKinds = map[int]string{}
	}
	r.actionLog = p.ActionLog
	r.botSeats = map[int]bots.Bot{}
	for seat, kind := range r.botKinds {
		r.botSeats[seat] = makeBot(kind, p.State.Seed+int64(seat)+1)
	}
	r.gen++
	if r.started {
		r.kickBotsLocked()
	}
	r.mu.Unlock()
	r.log.WithField("handsPlayed", p.State.HandsPlayed).Info("room resumed")
	return nil
}

func (r *Room) ensureDealLocked() {
	if r.state.Round.Phase == engine.PhaseDeal && !r.state.Round.HandsDealt {
		engine.DealHand(&r.state)
	}
}

func (r *Room) snapshotLocked() {
	if r.store == nil {
		return
	}
	blob, err := json.Marshal(persisted{
		State:     r.state,
		Started:   r.started,
		Humans:    r.humans,
		BotKinds:  r.botKinds,
		ActionLog: r.actionLog,
	})
	if err != nil {
		r.log.WithError(err).Error("encode snapshot")
		return
	}
	err = r.store.SaveSnapshot(store.Snapshot{
		Code:        r.Code,
		HandsPlayed: r.state.HandsPlayed,
		State:       blob,
	})
	if err != nil {
		r.log.WithError(err).Error("persist snapshot")
	}
}

func (r *Room) kickBotsLocked() {
	if r.botRunning || !r.started {
		return
	}
	p, ok := engine.CurrentPlayer(r.state)
	if !ok {
		return
	}
	if _, isBot := r.botSeats[p]; !isBot {
		return
	}
	r.botRunning = true
	go r.driveBots(r.gen)
}

// driveBots applies bot turns until a human is due or the hand scores.
// The expensive ChooseAction call happens on a cloned state outside the
// mutex, so human submissions are acknowledged while a bot thinks; the
// generation check discards the result if the room was reset meanwhile.
func (r *Room) driveBots(gen int) {
	for {
		r.mu.Lock()
		if r.gen != gen || !r.started {
			r.botRunning = false
			r.mu.Unlock()
			return
		}
		r.ensureDealLocked()
		p, ok := engine.CurrentPlayer(r.state)
		if !ok {
			r.botRunning = false
			r.mu.Unlock()
			return
		}
		bot, isBot := r.botSeats[p]
		if !isBot {
			r.botRunning = false
			r.mu.Unlock()
			return
		}
		view := r.state.Clone()
		r.mu.Unlock()

		action := bot.ChooseAction(view, p)

		r.mu.Lock()
		if r.gen != gen || !r.started {
			r.botRunning = false
			r.mu.Unlock()
			return
		}
		prev := r.state.Clone()
		if err := engine.ApplyAction(&r.state, p, action); err != nil {
			r.log.WithError(err).WithField("seat", p).Error("bot action rejected")
			r.botRunning = false
			r.mu.Unlock()
			return
		}
		r.actionLog = append(r.actionLog, engine.StepRecord{Player: p, Action: action})
		r.ensureDealLocked()
		r.snapshotLocked()
		obs := r.observer
		upd := Update{Prev: prev, Next: r.state.Clone(), Player: p, Action: action}
		r.mu.Unlock()

		if obs != nil {
			obs(upd)
		}
	}
}
