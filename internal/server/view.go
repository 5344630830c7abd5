package server

import "github.com/JohnLemonNFT/sheepshead-sub001/internal/engine"

type PlayerView struct {
	ID        int       `json:"id"`
	Hand      []CardDTO `json:"hand,omitempty"`
	HandCount int       `json:"handCount"`
	Tricks    int       `json:"tricks"`
	HandPts   int       `json:"handPts"`
	GameScore int       `json:"gameScore"`
}

type RoundView struct {
	Phase           string       `json:"phase"`
	Dealer          int          `json:"dealer"`
	Leader          int          `json:"leader"`
	PickTurn        int          `json:"pickTurn"`
	Passed          map[int]bool `json:"passed"`
	Picker          int          `json:"picker"`
	CalledSuit      *string      `json:"calledSuit,omitempty"`
	Partner         int          `json:"partner"`
	PartnerRevealed bool         `json:"partnerRevealed"`
	Alone           bool         `json:"alone"`
	Leaster         bool         `json:"leaster"`
	Cracked         bool         `json:"cracked"`
	ReCracked       bool         `json:"reCracked"`
	Blitzed         bool         `json:"blitzed"`
	BlindCount      int          `json:"blindCount"`
	BuriedCount     int          `json:"buriedCount"`
	Buried          []CardDTO    `json:"buried,omitempty"`
	TrickCards      []CardDTO    `json:"trickCards"`
	TrickOrder      []int        `json:"trickOrder"`
}

type HandResultView struct {
	Leaster        bool   `json:"leaster"`
	LeasterWinner  int    `json:"leasterWinner"`
	PickerWon      bool   `json:"pickerWon"`
	Tier           string `json:"tier"`
	PickerPoints   int    `json:"pickerPoints"`
	DefenderPoints int    `json:"defenderPoints"`
	Multiplier     int    `json:"multiplier"`
	Deltas         []int  `json:"deltas"`
}

type RulesView struct {
	Players     int    `json:"players"`
	HandSize    int    `json:"handSize"`
	BlindSize   int    `json:"blindSize"`
	PassOutRule string `json:"passOutRule"`
	MaxHands    int    `json:"maxHands"`
}

type GameView struct {
	Players      []PlayerView    `json:"players"`
	Round        RoundView       `json:"round"`
	Rules        RulesView       `json:"rules"`
	HandsPlayed  int             `json:"handsPlayed"`
	LegalActions []ActionDTO     `json:"legalActions"`
	LastResult   *HandResultView `json:"lastResult,omitempty"`
}

// BuildGameView redacts the state for one seat: only the viewer's hand is
// visible, the blind and buried pair appear as counts (the buried cards
// themselves only to the picker), and the partner stays hidden until the
// called ace has been played.
func BuildGameView(g engine.GameState, viewer int) *GameView {
	players := make([]PlayerView, 0, len(g.Players))
	for i, p := range g.Players {
		view := PlayerView{
			ID:        p.ID,
			HandCount: len(p.Hand),
			Tricks:    len(p.Tricks),
			HandPts:   p.HandPts,
			GameScore: p.GameScore,
		}
		if i == viewer {
			for _, c := range p.Hand {
				view.Hand = append(view.Hand, *cardToDTO(c))
			}
		}
		players = append(players, view)
	}

	var calledSuit *string
	if g.Round.CalledSuit != nil {
		s := suitToString(*g.Round.CalledSuit)
		calledSuit = &s
	}
	partner := -1
	if g.Round.PartnerRevealed {
		partner = g.Round.Partner
	}
	var buried []CardDTO
	if viewer == g.Round.Picker {
		for _, c := range g.Round.Buried {
			buried = append(buried, *cardToDTO(c))
		}
	}
	trickCards := make([]CardDTO, 0, len(g.Round.TrickCards))
	for _, c := range g.Round.TrickCards {
		trickCards = append(trickCards, *cardToDTO(c))
	}
	legal := []ActionDTO{}
	for _, a := range engine.LegalActions(g, viewer) {
		legal = append(legal, ActionFromEngine(a))
	}

	return &GameView{
		Players: players,
		Round: RoundView{
			Phase:           g.Round.Phase.String(),
			Dealer:          g.Round.Dealer,
			Leader:          g.Round.Leader,
			PickTurn:        g.Round.PickTurn,
			Passed:          g.Round.Passed,
			Picker:          g.Round.Picker,
			CalledSuit:      calledSuit,
			Partner:         partner,
			PartnerRevealed: g.Round.PartnerRevealed,
			Alone:           g.Round.Alone,
			Leaster:         g.Round.Leaster,
			Cracked:         g.Round.Cracked,
			ReCracked:       g.Round.ReCracked,
			Blitzed:         g.Round.Blitzed,
			BlindCount:      len(g.Round.Blind),
			BuriedCount:     len(g.Round.Buried),
			Buried:          buried,
			TrickCards:      trickCards,
			TrickOrder:      g.Round.TrickOrder,
		},
		Rules: RulesView{
			Players:     g.Rules.Players,
			HandSize:    g.Rules.HandSize,
			BlindSize:   g.Rules.BlindSize,
			PassOutRule: passOutToString(g.Rules.PassOutRule),
			MaxHands:    g.Rules.MaxHands,
		},
		HandsPlayed:  g.HandsPlayed,
		LegalActions: legal,
		LastResult:   resultToView(g.LastResult),
	}
}

func resultToView(r *engine.HandResult) *HandResultView {
	if r == nil {
		return nil
	}
	return &HandResultView{
		Leaster:        r.Leaster,
		LeasterWinner:  r.LeasterWinner,
		PickerWon:      r.PickerWon,
		Tier:           r.Tier.String(),
		PickerPoints:   r.PickerPoints,
		DefenderPoints: r.DefenderPoints,
		Multiplier:     r.Multiplier,
		Deltas:         r.Deltas,
	}
}

func passOutToString(p engine.PassOutRule) string {
	switch p {
	case engine.PassOutForcedPick:
		return "forced_pick"
	case engine.PassOutDoubler:
		return "doubler"
	default:
		return "leaster"
	}
}

func parsePassOut(s string) engine.PassOutRule {
	switch s {
	case "forced_pick":
		return engine.PassOutForcedPick
	case "doubler":
		return engine.PassOutDoubler
	default:
		return engine.PassOutLeaster
	}
}
