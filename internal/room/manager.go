package room

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/JohnLemonNFT/sheepshead-sub001/internal/engine"
	"github.com/JohnLemonNFT/sheepshead-sub001/internal/store"
)

const roomCodeLength = 5

var ErrRoomNotFound = errors.New("room not found")

// Manager is the registry of live rooms. Rooms never share state; the
// manager only guards its own map.
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	rng   *rand.Rand
	store *store.Service
	log   logrus.FieldLogger
}

func NewManager(st *store.Service, log logrus.FieldLogger) *Manager {
	return &Manager{
		rooms: map[string]*Room{},
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		store: st,
		log:   log,
	}
}

// generateRoomCode creates a unique alphanumeric room code.
func (m *Manager) generateRoomCode() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	for {
		var sb strings.Builder
		for i := 0; i < roomCodeLength; i++ {
			sb.WriteByte(letters[m.rng.Intn(len(letters))])
		}
		code := sb.String()
		if _, exists := m.rooms[code]; !exists {
			return code
		}
	}
}

// CreateRoom registers a new room with bots on the given seats.
func (m *Manager) CreateRoom(rules engine.Rules, botKinds map[int]string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	code := m.generateRoomCode()
	r := NewRoom(code, rules, botKinds, m.store, m.log)
	m.rooms[code] = r
	m.log.WithField("room", code).Info("room created")
	return r
}

func (m *Manager) Get(code string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[code]
	return r, ok
}

// GetOrResume returns the live room, or rebuilds it from its persisted
// snapshot so a reconnect can pick up mid-hand.
func (m *Manager) GetOrResume(code string) (*Room, error) {
	if r, ok := m.Get(code); ok {
		return r, nil
	}
	if m.store == nil {
		return nil, ErrRoomNotFound
	}
	snap, err := m.store.LoadSnapshot(code)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rooms[code]; ok {
		return r, nil
	}
	r := NewRoom(code, engine.DefaultRules(), nil, m.store, m.log)
	if err := r.Resume(snap); err != nil {
		return nil, err
	}
	m.rooms[code] = r
	return r, nil
}

// Close abandons a room and drops it from the registry.
func (m *Manager) Close(code string) {
	m.mu.Lock()
	r, ok := m.rooms[code]
	delete(m.rooms, code)
	m.mu.Unlock()
	if ok {
		r.Abandon()
	}
}
