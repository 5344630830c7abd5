package server

import "github.com/JohnLemonNFT/sheepshead-sub001/internal/engine"

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type EventPayload struct {
	Player int             `json:"player"`
	Suit   string          `json:"suit,omitempty"`
	Card   *CardDTO        `json:"card,omitempty"`
	Winner int             `json:"winner,omitempty"`
	Result *HandResultView `json:"result,omitempty"`
}

func buildEvents(prev engine.GameState, next engine.GameState, player int, action engine.Action) []Event {
	events := []Event{}
	switch action.Type {
	case engine.ActionPass:
		events = append(events, Event{Type: "passed", Data: EventPayload{Player: player}})
	case engine.ActionPick:
		events = append(events, Event{Type: "picked", Data: EventPayload{Player: player}})
	case engine.ActionBury:
		// Buried cards stay face down.
		events = append(events, Event{Type: "buried", Data: EventPayload{Player: player}})
	case engine.ActionCallSuit:
		if action.Suit != nil {
			events = append(events, Event{Type: "suit_called", Data: EventPayload{Player: player, Suit: suitToString(*action.Suit)}})
		}
	case engine.ActionGoAlone:
		events = append(events, Event{Type: "went_alone", Data: EventPayload{Player: player}})
	case engine.ActionDeclareBlitz:
		events = append(events, Event{Type: "blitz_declared", Data: EventPayload{Player: player}})
	case engine.ActionCrack:
		events = append(events, Event{Type: "cracked", Data: EventPayload{Player: player}})
	case engine.ActionReCrack:
		events = append(events, Event{Type: "re_cracked", Data: EventPayload{Player: player}})
	case engine.ActionPlayCard:
		if action.Card != nil {
			events = append(events, Event{Type: "card_played", Data: EventPayload{Player: player, Card: cardToDTO(*action.Card)}})
		}
	}

	if !prev.Round.PartnerRevealed && next.Round.PartnerRevealed {
		events = append(events, Event{Type: "partner_revealed", Data: EventPayload{Player: next.Round.Partner}})
	}
	if !prev.Round.Leaster && next.Round.Leaster {
		events = append(events, Event{Type: "leaster_started"})
	}
	if len(next.Round.TrickHistory) > len(prev.Round.TrickHistory) {
		last := next.Round.TrickHistory[len(next.Round.TrickHistory)-1]
		events = append(events, Event{Type: "trick_won", Data: EventPayload{Player: last.Winner, Winner: last.Winner}})
	}
	if next.HandsPlayed > prev.HandsPlayed && action.Type == engine.ActionPlayCard && action.Card != nil &&
		len(next.Round.TrickHistory) <= len(prev.Round.TrickHistory) {
		// Scoring reset the round, so reconstruct the final trick from the
		// pre-action state.
		cards := append(append([]engine.Card(nil), prev.Round.TrickCards...), *action.Card)
		if winner := engine.TrickWinner(prev.Round.TrickOrder, cards); winner >= 0 {
			events = append(events, Event{Type: "trick_won", Data: EventPayload{Player: winner, Winner: winner}})
		}
	}
	if next.HandsPlayed > prev.HandsPlayed {
		if action.Type == engine.ActionPass {
			// All five passed under the doubler rule: no hand was scored.
			events = append(events, Event{Type: "doubler_passout"})
		} else if next.LastResult != nil {
			events = append(events, Event{Type: "hand_scored", Data: EventPayload{Result: resultToView(next.LastResult)}})
		}
	}
	if prev.Round.Phase != engine.PhaseGameOver && next.Round.Phase == engine.PhaseGameOver {
		events = append(events, Event{Type: "game_over"})
	}
	return events
}
