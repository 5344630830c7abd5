package server

import (
	"errors"

	"github.com/JohnLemonNFT/sheepshead-sub001/internal/engine"
)

type CardDTO struct {
	Suit string `json:"suit"`
	Rank string `json:"rank"`
}

type ActionDTO struct {
	Type  string    `json:"type"`
	Suit  string    `json:"suit,omitempty"`
	Card  *CardDTO  `json:"card,omitempty"`
	Cards []CardDTO `json:"cards,omitempty"`
}

func (a *ActionDTO) ToEngine() (engine.Action, error) {
	if a == nil {
		return engine.Action{}, errors.New("action missing")
	}
	switch a.Type {
	case "pass":
		return engine.Action{Type: engine.ActionPass}, nil
	case "pick":
		return engine.Action{Type: engine.ActionPick}, nil
	case "bury":
		if len(a.Cards) == 0 {
			return engine.Action{}, errors.New("bury cards required")
		}
		cards := make([]engine.Card, 0, len(a.Cards))
		for _, c := range a.Cards {
			card, err := c.toEngine()
			if err != nil {
				return engine.Action{}, err
			}
			cards = append(cards, card)
		}
		return engine.Action{Type: engine.ActionBury, Cards: cards}, nil
	case "call_suit":
		s, err := parseSuit(a.Suit)
		if err != nil {
			return engine.Action{}, err
		}
		return engine.Action{Type: engine.ActionCallSuit, Suit: &s}, nil
	case "go_alone":
		return engine.Action{Type: engine.ActionGoAlone}, nil
	case "declare_blitz":
		return engine.Action{Type: engine.ActionDeclareBlitz}, nil
	case "crack":
		return engine.Action{Type: engine.ActionCrack}, nil
	case "re_crack":
		return engine.Action{Type: engine.ActionReCrack}, nil
	case "play_card":
		if a.Card == nil {
			return engine.Action{}, errors.New("card required")
		}
		card, err := a.Card.toEngine()
		if err != nil {
			return engine.Action{}, err
		}
		return engine.Action{Type: engine.ActionPlayCard, Card: &card}, nil
	default:
		return engine.Action{}, errors.New("unknown action type")
	}
}

func ActionFromEngine(a engine.Action) ActionDTO {
	switch a.Type {
	case engine.ActionPass:
		return ActionDTO{Type: "pass"}
	case engine.ActionPick:
		return ActionDTO{Type: "pick"}
	case engine.ActionBury:
		cards := make([]CardDTO, 0, len(a.Cards))
		for _, c := range a.Cards {
			cards = append(cards, *cardToDTO(c))
		}
		return ActionDTO{Type: "bury", Cards: cards}
	case engine.ActionCallSuit:
		if a.Suit == nil {
			return ActionDTO{Type: "call_suit"}
		}
		return ActionDTO{Type: "call_suit", Suit: suitToString(*a.Suit)}
	case engine.ActionGoAlone:
		return ActionDTO{Type: "go_alone"}
	case engine.ActionDeclareBlitz:
		return ActionDTO{Type: "declare_blitz"}
	case engine.ActionCrack:
		return ActionDTO{Type: "crack"}
	case engine.ActionReCrack:
		return ActionDTO{Type: "re_crack"}
	case engine.ActionPlayCard:
		if a.Card == nil {
			return ActionDTO{Type: "play_card"}
		}
		return ActionDTO{Type: "play_card", Card: cardToDTO(*a.Card)}
	default:
		return ActionDTO{Type: "unknown"}
	}
}

func (c CardDTO) toEngine() (engine.Card, error) {
	s, err := parseSuit(c.Suit)
	if err != nil {
		return engine.Card{}, err
	}
	r, err := parseRank(c.Rank)
	if err != nil {
		return engine.Card{}, err
	}
	return engine.Card{Suit: s, Rank: r}, nil
}

func cardToDTO(c engine.Card) *CardDTO {
	return &CardDTO{Suit: suitToString(c.Suit), Rank: rankToString(c.Rank)}
}

func parseSuit(s string) (engine.Suit, error) {
	switch s {
	case "C":
		return engine.SuitClubs, nil
	case "S":
		return engine.SuitSpades, nil
	case "H":
		return engine.SuitHearts, nil
	case "D":
		return engine.SuitDiamonds, nil
	default:
		return engine.SuitClubs, errors.New("invalid suit")
	}
}

func parseRank(r string) (engine.Rank, error) {
	switch r {
	case "7":
		return engine.Rank7, nil
	case "8":
		return engine.Rank8, nil
	case "9":
		return engine.Rank9, nil
	case "10":
		return engine.Rank10, nil
	case "J":
		return engine.RankJ, nil
	case "Q":
		return engine.RankQ, nil
	case "K":
		return engine.RankK, nil
	case "A":
		return engine.RankA, nil
	default:
		return engine.Rank7, errors.New("invalid rank")
	}
}

func suitToString(s engine.Suit) string {
	switch s {
	case engine.SuitClubs:
		return "C"
	case engine.SuitSpades:
		return "S"
	case engine.SuitHearts:
		return "H"
	case engine.SuitDiamonds:
		return "D"
	default:
		return "?"
	}
}

func rankToString(r engine.Rank) string {
	switch r {
	case engine.Rank7:
		return "7"
	case engine.Rank8:
		return "8"
	case engine.Rank9:
		return "9"
	case engine.Rank10:
		return "10"
	case engine.RankJ:
		return "J"
	case engine.RankQ:
		return "Q"
	case engine.RankK:
		return "K"
	case engine.RankA:
		return "A"
	default:
		return "?"
	}
}
