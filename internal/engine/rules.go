package engine

// CardPoints returns the point value of a rank. The full deck totals 120.
func CardPoints(r Rank) int {
	switch r {
	case RankA:
		return 11
	case Rank10:
		return 10
	case RankK:
		return 4
	case RankQ:
		return 3
	case RankJ:
		return 2
	default:
		return 0
	}
}

// IsTrump reports whether c is one of the 14 trump cards: every queen,
// every jack, and all diamonds.
func IsTrump(c Card) bool {
	return c.Rank == RankQ || c.Rank == RankJ || c.Suit == SuitDiamonds
}

// EffectiveSuit treats trump as a fifth suit. A queen or jack never counts
// as a member of its printed suit.
func EffectiveSuit(c Card) Suit {
	if IsTrump(c) {
		return SuitTrump
	}
	return c.Suit
}

// TrumpStrength orders the trump cards: Q♣ Q♠ Q♥ Q♦ J♣ J♠ J♥ J♦ then the
// plain diamonds A 10 K 9 8 7. Higher wins. Zero for fail cards.
func TrumpStrength(c Card) int {
	if !IsTrump(c) {
		return 0
	}
	switch c.Rank {
	case RankQ:
		return 14 - suitOrder(c.Suit)
	case RankJ:
		return 10 - suitOrder(c.Suit)
	}
	// plain diamond
	return FailStrength(c.Rank)
}

func suitOrder(s Suit) int {
	switch s {
	case SuitClubs:
		return 0
	case SuitSpades:
		return 1
	case SuitHearts:
		return 2
	default:
		return 3
	}
}

// FailStrength orders fail cards within a suit: A 10 K 9 8 7.
func FailStrength(r Rank) int {
	switch r {
	case RankA:
		return 6
	case Rank10:
		return 5
	case RankK:
		return 4
	case Rank9:
		return 3
	case Rank8:
		return 2
	case Rank7:
		return 1
	default:
		return 0
	}
}

// TrickWinner returns the player who takes the trick: highest trump if any
// trump was played, otherwise the highest card of the led fail suit.
// Off-suit fail cards never win.
func TrickWinner(order []int, cards []Card) int {
	if len(order) == 0 || len(cards) == 0 {
		return -1
	}
	bestIdx := 0
	for i := 1; i < len(cards); i++ {
		c := cards[i]
		best := cards[bestIdx]

		if IsTrump(c) != IsTrump(best) {
			if IsTrump(c) {
				bestIdx = i
			}
			continue
		}
		if IsTrump(c) {
			if TrumpStrength(c) > TrumpStrength(best) {
				bestIdx = i
			}
			continue
		}
		// Both fail: only the led suit can win.
		if c.Suit == cards[0].Suit && best.Suit == cards[0].Suit {
			if FailStrength(c.Rank) > FailStrength(best.Rank) {
				bestIdx = i
			}
		}
	}
	return order[bestIdx]
}

// TallyPoints sums the card points in cards.
func TallyPoints(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += CardPoints(c.Rank)
	}
	return total
}
