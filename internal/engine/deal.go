package engine

import "math/rand"

// BuildDeck returns the 32-card Sheepshead deck.
func BuildDeck() []Card {
	deck := make([]Card, 0, 32)
	suits := []Suit{SuitClubs, SuitSpades, SuitHearts, SuitDiamonds}
	ranks := []Rank{Rank7, Rank8, Rank9, Rank10, RankJ, RankQ, RankK, RankA}
	for _, s := range suits {
		for _, r := range ranks {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

func Shuffle(deck []Card, seed int64) []Card {
	shuffled := make([]Card, len(deck))
	copy(shuffled, deck)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// DealHand shuffles a fresh deck and deals 6 cards to each player with 2
// set aside as the blind. Deterministic for a given seed and hand number.
func DealHand(g *GameState) {
	deck := Shuffle(BuildDeck(), g.Seed+int64(g.HandsPlayed))
	players := g.Rules.Players
	handSize := g.Rules.HandSize
	blindSize := g.Rules.BlindSize

	if handSize*players+blindSize != len(deck) {
		panic("invalid deal configuration: does not exhaust deck")
	}

	idx := 0
	for p := 0; p < players; p++ {
		g.Players[p].Hand = append([]Card(nil), deck[idx:idx+handSize]...)
		idx += handSize
	}
	g.Round.Blind = append([]Card(nil), deck[idx:idx+blindSize]...)
	g.Round.HandsDealt = true
	g.Round.Phase = PhasePicking
	g.Round.Passed = make(map[int]bool)
	g.Round.PickTurn = (g.Round.Dealer + 1) % players
	g.Round.Leader = (g.Round.Dealer + 1) % players
	g.Round.Picker = -1
	g.Round.Partner = -1
}
