package engine

import "fmt"

type Suit int

type Rank int

const (
	SuitClubs Suit = iota
	SuitSpades
	SuitHearts
	SuitDiamonds

	// SuitTrump is the effective fifth suit formed by all queens, jacks and
	// diamonds. It never appears on a Card; EffectiveSuit returns it.
	SuitTrump Suit = 4
)

const (
	Rank7 Rank = iota
	Rank8
	Rank9
	Rank10
	RankJ
	RankQ
	RankK
	RankA
)

func (s Suit) String() string {
	switch s {
	case SuitClubs:
		return "C"
	case SuitSpades:
		return "S"
	case SuitHearts:
		return "H"
	case SuitDiamonds:
		return "D"
	case SuitTrump:
		return "T"
	default:
		return "?"
	}
}

func (r Rank) String() string {
	switch r {
	case Rank7:
		return "7"
	case Rank8:
		return "8"
	case Rank9:
		return "9"
	case Rank10:
		return "10"
	case RankJ:
		return "J"
	case RankQ:
		return "Q"
	case RankK:
		return "K"
	case RankA:
		return "A"
	default:
		return "?"
	}
}

type Card struct {
	Suit Suit
	Rank Rank
}

func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank.String(), c.Suit.String())
}

type Phase int

const (
	PhaseDeal Phase = iota
	PhasePicking
	PhaseBurying
	PhaseCalling
	PhasePlayTricks
	PhaseScoreHand
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseDeal:
		return "Deal"
	case PhasePicking:
		return "Picking"
	case PhaseBurying:
		return "Burying"
	case PhaseCalling:
		return "Calling"
	case PhasePlayTricks:
		return "PlayTricks"
	case PhaseScoreHand:
		return "ScoreHand"
	case PhaseGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// PassOutRule selects what happens when all five players pass.
type PassOutRule int

const (
	PassOutLeaster PassOutRule = iota
	PassOutForcedPick
	PassOutDoubler
)

type Rules struct {
	Players       int
	HandSize      int
	BlindSize     int
	BurySize      int
	PassOutRule   PassOutRule
	MaxHands      int // 0 = no limit
	CracksEnabled bool
	BlitzEnabled  bool
}

func DefaultRules() Rules {
	return Rules{
		Players:       5,
		HandSize:      6,
		BlindSize:     2,
		BurySize:      2,
		PassOutRule:   PassOutLeaster,
		MaxHands:      0,
		CracksEnabled: true,
		BlitzEnabled:  true,
	}
}

type PlayerState struct {
	ID        int
	Hand      []Card
	Tricks    [][]Card
	HandPts   int
	GameScore int
}

// Trick records a completed trick in play order.
type Trick struct {
	Order  []int
	Cards  []Card
	Winner int
}

type RoundState struct {
	Phase           Phase
	Dealer          int
	Leader          int
	HandsDealt      bool
	Blind           []Card
	Buried          []Card
	PickTurn        int
	Passed          map[int]bool
	Picker          int
	Leaster         bool
	Alone           bool
	CalledSuit      *Suit
	Partner         int
	PartnerRevealed bool
	Cracked         bool
	ReCracked       bool
	Blitzed         bool
	TrickCards      []Card
	TrickOrder      []int
	TrickHistory    []Trick
}

type GameState struct {
	Rules       Rules
	Seed        int64
	HandsPlayed int
	// PendingMultiplier carries doubler stakes into the next hand; 1 when
	// no doublers are outstanding.
	PendingMultiplier int
	Round             RoundState
	Players           []PlayerState
	LastResult        *HandResult
}

func NewGame(r Rules, seed int64) GameState {
	players := make([]PlayerState, r.Players)
	for i := 0; i < r.Players; i++ {
		players[i] = PlayerState{ID: i}
	}

	return GameState{
		Rules:             r,
		Seed:              seed,
		PendingMultiplier: 1,
		Round: RoundState{
			Phase:   PhaseDeal,
			Dealer:  0,
			Picker:  -1,
			Partner: -1,
		},
		Players: players,
	}
}

func (g *GameState) ResetHand() {
	g.Round = RoundState{
		Phase:   PhaseDeal,
		Dealer:  g.Round.Dealer,
		Picker:  -1,
		Partner: -1,
	}
	for i := range g.Players {
		g.Players[i].Hand = nil
		g.Players[i].Tricks = nil
		g.Players[i].HandPts = 0
	}
}

// Clone returns a deep copy. Rooms hand clones to bots so Monte Carlo
// rollouts never touch the live state.
func (g GameState) Clone() GameState {
	out := g
	out.Players = make([]PlayerState, len(g.Players))
	for i, p := range g.Players {
		cp := p
		cp.Hand = append([]Card(nil), p.Hand...)
		cp.Tricks = make([][]Card, len(p.Tricks))
		for j, t := range p.Tricks {
			cp.Tricks[j] = append([]Card(nil), t...)
		}
		out.Players[i] = cp
	}
	out.Round.Blind = append([]Card(nil), g.Round.Blind...)
	out.Round.Buried = append([]Card(nil), g.Round.Buried...)
	out.Round.TrickCards = append([]Card(nil), g.Round.TrickCards...)
	out.Round.TrickOrder = append([]int(nil), g.Round.TrickOrder...)
	out.Round.TrickHistory = make([]Trick, len(g.Round.TrickHistory))
	for i, t := range g.Round.TrickHistory {
		out.Round.TrickHistory[i] = Trick{
			Order:  append([]int(nil), t.Order...),
			Cards:  append([]Card(nil), t.Cards...),
			Winner: t.Winner,
		}
	}
	if g.Round.Passed != nil {
		out.Round.Passed = make(map[int]bool, len(g.Round.Passed))
		for k, v := range g.Round.Passed {
			out.Round.Passed[k] = v
		}
	}
	if g.Round.CalledSuit != nil {
		s := *g.Round.CalledSuit
		out.Round.CalledSuit = &s
	}
	if g.LastResult != nil {
		r := *g.LastResult
		r.Deltas = append([]int(nil), g.LastResult.Deltas...)
		out.LastResult = &r
	}
	return out
}
