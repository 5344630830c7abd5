package bots

import (
	"math/rand"
	"sort"

	"github.com/JohnLemonNFT/sheepshead-sub001/internal/engine"
)

// Bot picks a legal action from the authoritative state. Bots keep no
// state between calls; every decision is recomputed from the GameState,
// so a bot survives room restarts for free.
type Bot interface {
	ChooseAction(state engine.GameState, player int) engine.Action
}

// EasyBot plays on static heuristics alone.
type EasyBot struct {
	RNG *rand.Rand
}

func NewEasy(seed int64) *EasyBot {
	return &EasyBot{RNG: rand.New(rand.NewSource(seed))}
}

func (b *EasyBot) ChooseAction(state engine.GameState, player int) engine.Action {
	return heuristicAction(state, player)
}

func heuristicAction(state engine.GameState, player int) engine.Action {
	legal := engine.LegalActions(state, player)
	if len(legal) == 0 {
		return engine.Action{Type: engine.ActionPass}
	}
	var action engine.Action
	switch state.Round.Phase {
	case engine.PhasePicking:
		action = pickOrPass(state, player)
	case engine.PhaseBurying:
		return chooseBury(state, player)
	case engine.PhaseCalling:
		action = chooseCall(state, player)
	case engine.PhasePlayTricks:
		action = choosePlay(state, player)
	default:
		return legal[0]
	}
	// Self-filter: never hand the engine an illegal action (e.g. a pass
	// when the forced-pick rule pins the dealer).
	if !legalContains(legal, action) {
		return legal[0]
	}
	return action
}

// pickOrPass scores the dealt hand against a seat-dependent threshold.
// Later seats demand stronger hands: fewer unseen cards remain to bail a
// marginal picker out. A hand with five trump including three queens
// always clears the highest threshold by construction.
func pickOrPass(state engine.GameState, player int) engine.Action {
	trump, queens, failAces := 0, 0, 0
	for _, c := range state.Players[player].Hand {
		if engine.IsTrump(c) {
			trump++
			if c.Rank == engine.RankQ {
				queens++
			}
		} else if c.Rank == engine.RankA {
			failAces++
		}
	}
	score := 2*trump + 2*queens + failAces

	seat := (player - state.Round.Dealer - 1 + state.Rules.Players) % state.Rules.Players
	threshold := 9
	switch {
	case seat >= 4:
		threshold = 11
	case seat >= 2:
		threshold = 10
	}
	if score >= threshold {
		return engine.Action{Type: engine.ActionPick}
	}
	return engine.Action{Type: engine.ActionPass}
}

// chooseBury discards the two cards worth the most to the picker's side:
// high-point fail cards, with a bonus for emptying a suit. Trump is never
// buried unless the post-blind hand simply lacks two fail cards, and even
// then plain diamonds go before any queen or jack.
func chooseBury(state engine.GameState, player int) engine.Action {
	hand := append([]engine.Card(nil), state.Players[player].Hand...)

	fails := []engine.Card{}
	suitCount := map[engine.Suit]int{}
	for _, c := range hand {
		if !engine.IsTrump(c) {
			fails = append(fails, c)
			suitCount[c.Suit]++
		}
	}

	// Keep one card of the suit we intend to call, so the call stays
	// backed by a card to lead later.
	retained := retainedForCall(hand, fails, suitCount)

	sort.SliceStable(fails, func(i, j int) bool {
		return buryValue(fails[i], suitCount) > buryValue(fails[j], suitCount)
	})

	chosen := make([]engine.Card, 0, state.Rules.BurySize)
	for _, c := range fails {
		if len(chosen) == state.Rules.BurySize {
			break
		}
		if retained != nil && c == *retained {
			continue
		}
		chosen = append(chosen, c)
	}
	if len(chosen) < state.Rules.BurySize && retained != nil {
		chosen = append(chosen, *retained)
	}
	if len(chosen) < state.Rules.BurySize {
		for _, c := range trumpBuryOrder(hand) {
			if len(chosen) == state.Rules.BurySize {
				break
			}
			chosen = append(chosen, c)
		}
	}
	return engine.Action{Type: engine.ActionBury, Cards: chosen}
}

func buryValue(c engine.Card, suitCount map[engine.Suit]int) int {
	v := engine.CardPoints(c.Rank) * 10
	if suitCount[c.Suit] == 1 {
		v += 5 // burying it creates a void
	}
	return v
}

// retainedForCall returns the single fail card that must survive the bury
// to keep the intended partner call backed, or nil when no call needs it.
func retainedForCall(hand, fails []engine.Card, suitCount map[engine.Suit]int) *engine.Card {
	suit, ok := preferredCallSuit(hand)
	if !ok || suitCount[suit] != 1 {
		return nil
	}
	for i := range fails {
		if fails[i].Suit == suit {
			return &fails[i]
		}
	}
	return nil
}

// preferredCallSuit picks the fail suit to call: ace not in hand, and the
// weaker our own holding in it, the better.
func preferredCallSuit(hand []engine.Card) (engine.Suit, bool) {
	best := engine.Suit(-1)
	bestScore := 1 << 30
	for _, s := range []engine.Suit{engine.SuitClubs, engine.SuitSpades, engine.SuitHearts} {
		count, maxStrength, hasAce := 0, 0, false
		for _, c := range hand {
			if engine.IsTrump(c) || c.Suit != s {
				continue
			}
			count++
			if c.Rank == engine.RankA {
				hasAce = true
			}
			if fs := engine.FailStrength(c.Rank); fs > maxStrength {
				maxStrength = fs
			}
		}
		if hasAce {
			continue
		}
		score := maxStrength*10 + count
		if score < bestScore {
			bestScore = score
			best = s
		}
	}
	return best, best >= 0
}

// trumpBuryOrder lists trump from most to least expendable: plain diamonds
// bottom up, then jacks, then queens. Queens and jacks are only ever
// reached when the hand holds more than six of them.
func trumpBuryOrder(hand []engine.Card) []engine.Card {
	trumps := []engine.Card{}
	for _, c := range hand {
		if engine.IsTrump(c) {
			trumps = append(trumps, c)
		}
	}
	sort.SliceStable(trumps, func(i, j int) bool {
		ci, cj := trumps[i], trumps[j]
		gi, gj := trumpGroup(ci), trumpGroup(cj)
		if gi != gj {
			return gi < gj
		}
		return engine.TrumpStrength(ci) < engine.TrumpStrength(cj)
	})
	return trumps
}

func trumpGroup(c engine.Card) int {
	switch c.Rank {
	case engine.RankQ:
		return 2
	case engine.RankJ:
		return 1
	default:
		return 0
	}
}

// chooseCall names a partner suit, or goes alone with a hand that does not
// need one (or when no suit is callable).
func chooseCall(state engine.GameState, player int) engine.Action {
	hand := state.Players[player].Hand
	trump, queens := 0, 0
	for _, c := range hand {
		if engine.IsTrump(c) {
			trump++
			if c.Rank == engine.RankQ {
				queens++
			}
		}
	}
	if trump >= 5 && queens >= 3 {
		return engine.Action{Type: engine.ActionGoAlone}
	}
	callable := engine.CallableSuits(state)
	if len(callable) == 0 {
		return engine.Action{Type: engine.ActionGoAlone}
	}
	if suit, ok := preferredCallSuit(hand); ok {
		for _, s := range callable {
			if s == suit {
				return engine.Action{Type: engine.ActionCallSuit, Suit: &suit}
			}
		}
	}
	s := callable[0]
	return engine.Action{Type: engine.ActionCallSuit, Suit: &s}
}

func choosePlay(state engine.GameState, player int) engine.Action {
	legal := playActions(state, player)
	if len(legal) == 0 {
		return engine.Action{Type: engine.ActionPass}
	}
	if len(legal) == 1 {
		return legal[0]
	}
	if len(state.Round.TrickCards) == 0 {
		return chooseLead(state, player, legal)
	}
	return chooseFollow(state, player, legal)
}

// chooseLead: picker side pulls trump from the top; defenders cash fail
// aces or get out cheap.
func chooseLead(state engine.GameState, player int, legal []engine.Action) engine.Action {
	pickerSide := sameSide(state, player, state.Round.Picker)
	if pickerSide && !state.Round.Leaster {
		best := (*engine.Card)(nil)
		var bestAct engine.Action
		for _, a := range legal {
			if a.Card != nil && engine.IsTrump(*a.Card) {
				if best == nil || engine.TrumpStrength(*a.Card) > engine.TrumpStrength(*best) {
					best = a.Card
					bestAct = a
				}
			}
		}
		if best != nil {
			return bestAct
		}
	}
	for _, a := range legal {
		if a.Card != nil && !engine.IsTrump(*a.Card) && a.Card.Rank == engine.RankA {
			return a
		}
	}
	return lowestPlay(legal)
}

func chooseFollow(state engine.GameState, player int, legal []engine.Action) engine.Action {
	winner := currentTrickWinner(state)
	if winner >= 0 && sameSide(state, player, winner) {
		// Teammate has the trick: schmear points into it, without
		// overtaking them.
		best := engine.Action{}
		bestPts := -1
		for _, a := range legal {
			if a.Card == nil || winsCurrentTrick(state, player, *a.Card) {
				continue
			}
			if pts := engine.CardPoints(a.Card.Rank); pts > bestPts {
				bestPts = pts
				best = a
			}
		}
		if bestPts >= 0 {
			return best
		}
	}

	// Try to take the trick with the cheapest card that currently wins.
	cheapest := engine.Action{}
	cheapestStrength := 1 << 30
	for _, a := range legal {
		if a.Card == nil || !winsCurrentTrick(state, player, *a.Card) {
			continue
		}
		s := playStrength(*a.Card)
		if s < cheapestStrength {
			cheapestStrength = s
			cheapest = a
		}
	}
	if cheapest.Card != nil {
		lastToAct := len(state.Round.TrickCards) == state.Rules.Players-1
		if lastToAct || trickPoints(state) >= 10 || engine.CardPoints(cheapest.Card.Rank) <= 4 {
			return cheapest
		}
	}
	return lowestPlay(legal)
}

func lowestPlay(legal []engine.Action) engine.Action {
	best := legal[0]
	bestScore := 1 << 30
	for _, a := range legal {
		if a.Type != engine.ActionPlayCard || a.Card == nil {
			continue
		}
		score := engine.CardPoints(a.Card.Rank)*100 + playStrength(*a.Card)
		if score < bestScore {
			bestScore = score
			best = a
		}
	}
	return best
}

func playStrength(c engine.Card) int {
	if engine.IsTrump(c) {
		return 10 + engine.TrumpStrength(c)
	}
	return engine.FailStrength(c.Rank)
}

func playActions(state engine.GameState, player int) []engine.Action {
	out := []engine.Action{}
	for _, a := range engine.LegalActions(state, player) {
		if a.Type == engine.ActionPlayCard {
			out = append(out, a)
		}
	}
	return out
}

func trickPoints(state engine.GameState) int {
	return engine.TallyPoints(state.Round.TrickCards)
}

func currentTrickWinner(state engine.GameState) int {
	if len(state.Round.TrickCards) == 0 {
		return -1
	}
	order := state.Round.TrickOrder
	if len(order) == 0 {
		return -1
	}
	return engine.TrickWinner(order[:len(state.Round.TrickCards)], state.Round.TrickCards)
}

func winsCurrentTrick(state engine.GameState, player int, card engine.Card) bool {
	cards := append([]engine.Card(nil), state.Round.TrickCards...)
	order := append([]int(nil), state.Round.TrickOrder...)
	if len(order) == 0 {
		for i := 0; i < state.Rules.Players; i++ {
			order = append(order, (state.Round.Leader+i)%state.Rules.Players)
		}
	}
	cards = append(cards, card)
	return engine.TrickWinner(order[:len(cards)], cards) == player
}

// sameSide is the viewer's best knowledge of partnership. The viewer knows
// its own side (it can see whether it holds the called ace); an unrevealed
// partner elsewhere is treated as a defender.
func sameSide(state engine.GameState, viewer, other int) bool {
	if state.Round.Leaster {
		return viewer == other
	}
	if viewer == other {
		return true
	}
	viewerPicker := viewer == state.Round.Picker || holdsCalledAce(state, viewer)
	otherPicker := other == state.Round.Picker ||
		(state.Round.PartnerRevealed && other == state.Round.Partner)
	return viewerPicker == otherPicker
}

func holdsCalledAce(state engine.GameState, player int) bool {
	if state.Round.CalledSuit == nil {
		return false
	}
	ace := engine.Card{Suit: *state.Round.CalledSuit, Rank: engine.RankA}
	for _, c := range state.Players[player].Hand {
		if c == ace {
			return true
		}
	}
	return false
}

func legalContains(legal []engine.Action, a engine.Action) bool {
	for _, l := range legal {
		if l.Type != a.Type {
			continue
		}
		if a.Type == engine.ActionPlayCard {
			if l.Card != nil && a.Card != nil && *l.Card == *a.Card {
				return true
			}
			continue
		}
		if a.Type == engine.ActionCallSuit {
			if l.Suit != nil && a.Suit != nil && *l.Suit == *a.Suit {
				return true
			}
			continue
		}
		return true
	}
	return false
}
