package engine

import "fmt"

// VerifyCardAccounting checks that the union of hands, blind, buried and
// trick cards is exactly the 32-card deck. A failure is fatal to the hand:
// it can only mean the engine itself corrupted state.
func VerifyCardAccounting(g GameState) error {
	if g.Round.Phase == PhaseDeal && !g.Round.HandsDealt {
		return nil
	}
	if g.Round.Phase == PhaseGameOver {
		return nil
	}
	seen := map[Card]bool{}
	total := 0
	points := 0
	add := func(c Card) error {
		total++
		points += CardPoints(c.Rank)
		if seen[c] {
			return fmt.Errorf("%w: duplicate card %v", ErrInvariant, c)
		}
		seen[c] = true
		return nil
	}
	for _, p := range g.Players {
		for _, c := range p.Hand {
			if err := add(c); err != nil {
				return err
			}
		}
		for _, trick := range p.Tricks {
			for _, c := range trick {
				if err := add(c); err != nil {
					return err
				}
			}
		}
	}
	for _, c := range g.Round.Blind {
		if err := add(c); err != nil {
			return err
		}
	}
	for _, c := range g.Round.Buried {
		if err := add(c); err != nil {
			return err
		}
	}
	for _, c := range g.Round.TrickCards {
		if err := add(c); err != nil {
			return err
		}
	}
	if total != 32 {
		return fmt.Errorf("%w: %d cards accounted for", ErrInvariant, total)
	}
	if points != 120 {
		return fmt.Errorf("%w: %d points accounted for", ErrInvariant, points)
	}
	return nil
}
