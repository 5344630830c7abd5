package bots

import (
	"math/rand"

	"github.com/JohnLemonNFT/sheepshead-sub001/internal/engine"
)

// voids tracks which effective suits each player has shown to be out of:
// failing to follow a led suit is public information.
func observedVoids(state engine.GameState) map[int]map[engine.Suit]bool {
	voids := map[int]map[engine.Suit]bool{}
	note := func(p int, s engine.Suit) {
		if voids[p] == nil {
			voids[p] = map[engine.Suit]bool{}
		}
		voids[p][s] = true
	}
	scan := func(order []int, cards []engine.Card) {
		if len(cards) == 0 {
			return
		}
		led := engine.EffectiveSuit(cards[0])
		for i := 1; i < len(cards) && i < len(order); i++ {
			if engine.EffectiveSuit(cards[i]) != led {
				note(order[i], led)
			}
		}
	}
	for _, t := range state.Round.TrickHistory {
		scan(t.Order, t.Cards)
	}
	scan(state.Round.TrickOrder, state.Round.TrickCards)
	return voids
}

// handSlot is one hidden zone to fill when determinizing: a player's hand,
// or the face-down pair (player == -1).
type handSlot struct {
	player int
	size   int
}

// sampleWorld builds one plausible completion of the hidden zones: other
// players' hands and, when the observer cannot see them, the buried pair
// (or the untouched blind in a leaster). The sample respects observed
// voids and keeps the unplayed called ace away from the picker.
func sampleWorld(state engine.GameState, observer int, rng *rand.Rand) engine.GameState {
	world := state.Clone()

	seen := map[engine.Card]bool{}
	for _, c := range state.Players[observer].Hand {
		seen[c] = true
	}
	for _, t := range state.Round.TrickHistory {
		for _, c := range t.Cards {
			seen[c] = true
		}
	}
	for _, c := range state.Round.TrickCards {
		seen[c] = true
	}
	buriedKnown := observer == state.Round.Picker && len(state.Round.Buried) > 0
	if buriedKnown {
		for _, c := range state.Round.Buried {
			seen[c] = true
		}
	}

	unseen := []engine.Card{}
	for _, c := range engine.BuildDeck() {
		if !seen[c] {
			unseen = append(unseen, c)
		}
	}

	slots := []handSlot{}
	for i := range state.Players {
		if i == observer {
			continue
		}
		if n := len(state.Players[i].Hand); n > 0 {
			slots = append(slots, handSlot{player: i, size: n})
		}
	}
	if state.Round.Leaster {
		slots = append(slots, handSlot{player: -1, size: len(state.Round.Blind)})
	} else if !buriedKnown && len(state.Round.Buried) > 0 {
		slots = append(slots, handSlot{player: -1, size: len(state.Round.Buried)})
	}

	voids := observedVoids(state)
	var calledAce *engine.Card
	if state.Round.CalledSuit != nil && !state.Round.PartnerRevealed {
		ace := engine.Card{Suit: *state.Round.CalledSuit, Rank: engine.RankA}
		if !seen[ace] {
			calledAce = &ace
		}
	}

	deal := make([]engine.Card, len(unseen))
	for attempt := 0; attempt < 64; attempt++ {
		copy(deal, unseen)
		rng.Shuffle(len(deal), func(i, j int) { deal[i], deal[j] = deal[j], deal[i] })
		if assignment := tryAssign(deal, slots, voids, calledAce, state.Round.Picker); assignment != nil {
			applyAssignment(&world, slots, assignment)
			return world
		}
	}
	// Constraints too tight to satisfy by shuffling; fall back to an
	// unconstrained deal rather than stalling the decision.
	copy(deal, unseen)
	rng.Shuffle(len(deal), func(i, j int) { deal[i], deal[j] = deal[j], deal[i] })
	assignment := make([][]engine.Card, 0, len(slots))
	idx := 0
	for _, s := range slots {
		assignment = append(assignment, append([]engine.Card(nil), deal[idx:idx+s.size]...))
		idx += s.size
	}
	applyAssignment(&world, slots, assignment)
	return world
}

func tryAssign(deal []engine.Card, slots []handSlot, voids map[int]map[engine.Suit]bool, calledAce *engine.Card, picker int) [][]engine.Card {
	assignment := make([][]engine.Card, len(slots))
	idx := 0
	for si, s := range slots {
		part := deal[idx : idx+s.size]
		idx += s.size
		for _, c := range part {
			if s.player >= 0 && voids[s.player] != nil && voids[s.player][engine.EffectiveSuit(c)] {
				return nil
			}
			if calledAce != nil && c == *calledAce && s.player == picker {
				return nil
			}
		}
		assignment[si] = append([]engine.Card(nil), part...)
	}
	return assignment
}

func applyAssignment(world *engine.GameState, slots []handSlot, assignment [][]engine.Card) {
	for si, s := range slots {
		if s.player >= 0 {
			world.Players[s.player].Hand = assignment[si]
		} else if world.Round.Leaster {
			world.Round.Blind = assignment[si]
		} else {
			world.Round.Buried = assignment[si]
		}
	}
}
