package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/JohnLemonNFT/sheepshead-sub001/internal/engine"
	"github.com/JohnLemonNFT/sheepshead-sub001/internal/room"
)

type ClientMessage struct {
	Type     string         `json:"type"`
	RoomCode string         `json:"roomCode,omitempty"`
	Seat     int            `json:"seat"`
	ActionId string         `json:"actionId,omitempty"`
	Action   *ActionDTO     `json:"action,omitempty"`
	BotSeats map[int]string `json:"botSeats,omitempty"`
	Ruleset  string         `json:"ruleset,omitempty"`
	MaxHands int            `json:"maxHands,omitempty"`
	Seed     int64          `json:"seed,omitempty"`
}

type ServerMessage struct {
	Type   string     `json:"type"`
	Room   string     `json:"room,omitempty"`
	Seat   int        `json:"seat"`
	State  *GameView  `json:"state,omitempty"`
	Events []Event    `json:"events,omitempty"`
	Error  *ErrorView `json:"error,omitempty"`
}

type ErrorView struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Client is one websocket connection, bound to at most one seat in one
// room. Writes are serialized: the room's bot loop broadcasts from its own
// goroutine.
type Client struct {
	ID   string
	conn *websocket.Conn
	mu   sync.Mutex
	seat int
	code string
}

func (c *Client) send(msg ServerMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.WriteJSON(msg)
}

// Server routes websocket clients to rooms and fans room updates back out
// with per-seat redaction.
type Server struct {
	manager *room.Manager
	log     logrus.FieldLogger

	mu       sync.Mutex
	clients  map[string]map[*Client]bool
	observed map[string]bool
}

func NewServer(m *room.Manager, log logrus.FieldLogger) *Server {
	return &Server{
		manager:  m,
		log:      log,
		clients:  map[string]map[*Client]bool{},
		observed: map[string]bool{},
	}
}

func (s *Server) handleClient(c *Client) {
	defer s.dropClient(c)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.send(errorMessage("bad_request", "invalid json"))
			continue
		}
		s.handleMessage(c, msg)
	}
}

func (s *Server) handleMessage(c *Client, msg ClientMessage) {
	switch msg.Type {
	case "create_room":
		s.createRoom(c, msg)
	case "join_room":
		s.joinRoom(c, msg)
	case "start_game":
		s.startGame(c, msg)
	case "request_state":
		s.sendState(c)
	case "player_action":
		s.playerAction(c, msg)
	case "leave_room":
		s.dropClient(c)
	default:
		c.send(errorMessage("unknown_type", "unknown message type"))
	}
}

func (s *Server) createRoom(c *Client, msg ClientMessage) {
	rules := engine.DefaultRules()
	rules.PassOutRule = parsePassOut(msg.Ruleset)
	if msg.MaxHands > 0 {
		rules.MaxHands = msg.MaxHands
	}
	botSeats := msg.BotSeats
	if botSeats == nil {
		// Solo play by default: one human, four bots.
		botSeats = map[int]string{}
		for seat := 0; seat < rules.Players; seat++ {
			if seat != msg.Seat {
				botSeats[seat] = "smart"
			}
		}
	}
	rm := s.manager.CreateRoom(rules, botSeats)
	s.attach(rm)
	if err := rm.Join(msg.Seat, c.ID); err != nil {
		c.send(errorMessage("join_failed", err.Error()))
		return
	}
	s.register(c, rm.Code, msg.Seat)
	s.sendState(c)
}

func (s *Server) joinRoom(c *Client, msg ClientMessage) {
	rm, err := s.manager.GetOrResume(msg.RoomCode)
	if err != nil {
		c.send(errorMessage("room_not_found", err.Error()))
		return
	}
	s.attach(rm)
	if err := rm.Join(msg.Seat, c.ID); err != nil {
		c.send(errorMessage("join_failed", err.Error()))
		return
	}
	s.register(c, rm.Code, msg.Seat)
	s.sendState(c)
}

func (s *Server) startGame(c *Client, msg ClientMessage) {
	rm, ok := s.manager.Get(c.code)
	if !ok {
		c.send(errorMessage("room_not_found", "join a room first"))
		return
	}
	seed := msg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if err := rm.Start(seed); err != nil {
		c.send(errorMessage("start_failed", err.Error()))
		return
	}
	s.broadcast(rm.Code, nil)
}

func (s *Server) playerAction(c *Client, msg ClientMessage) {
	rm, ok := s.manager.Get(c.code)
	if !ok {
		c.send(errorMessage("room_not_found", "join a room first"))
		return
	}
	if msg.ActionId == "" {
		c.send(errorMessage("missing_action_id", "actionId required"))
		return
	}
	action, err := msg.Action.ToEngine()
	if err != nil {
		c.send(errorMessage("bad_action", err.Error()))
		return
	}
	if err := rm.Submit(c.seat, msg.ActionId, action); err != nil {
		// Rule violations carry a specific, actionable reason.
		c.send(errorMessage("rule_violation", err.Error()))
		return
	}
}

// attach wires the room's update stream to this server exactly once.
func (s *Server) attach(rm *room.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.observed[rm.Code] {
		return
	}
	s.observed[rm.Code] = true
	code := rm.Code
	rm.SetObserver(func(u room.Update) {
		events := buildEvents(u.Prev, u.Next, u.Player, u.Action)
		s.broadcastState(code, u.Next, events)
	})
}

func (s *Server) register(c *Client, code string, seat int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.code = code
	c.seat = seat
	if s.clients[code] == nil {
		s.clients[code] = map[*Client]bool{}
	}
	s.clients[code][c] = true
}

func (s *Server) dropClient(c *Client) {
	s.mu.Lock()
	code := c.code
	if code != "" {
		delete(s.clients[code], c)
	}
	c.code = ""
	s.mu.Unlock()
	if code != "" {
		if rm, ok := s.manager.Get(code); ok {
			rm.Leave(c.seat)
		}
	}
}

func (s *Server) sendState(c *Client) {
	rm, ok := s.manager.Get(c.code)
	if !ok {
		c.send(errorMessage("room_not_found", "join a room first"))
		return
	}
	state, _ := rm.State()
	c.send(ServerMessage{
		Type:  "state",
		Room:  rm.Code,
		Seat:  c.seat,
		State: BuildGameView(state, c.seat),
	})
}

// broadcast re-sends current state to every client in the room.
func (s *Server) broadcast(code string, events []Event) {
	rm, ok := s.manager.Get(code)
	if !ok {
		return
	}
	state, _ := rm.State()
	s.broadcastState(code, state, events)
}

func (s *Server) broadcastState(code string, state engine.GameState, events []Event) {
	s.mu.Lock()
	targets := make([]*Client, 0, len(s.clients[code]))
	for c := range s.clients[code] {
		targets = append(targets, c)
	}
	s.mu.Unlock()
	for _, c := range targets {
		c.send(ServerMessage{
			Type:   "state",
			Room:   code,
			Seat:   c.seat,
			State:  BuildGameView(state, c.seat),
			Events: events,
		})
	}
}

func errorMessage(code, message string) ServerMessage {
	return ServerMessage{
		Type:  "error",
		Error: &ErrorView{Code: code, Message: message},
	}
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{ID: uuid.NewString(), conn: conn, seat: -1}
}
