package engine

import "fmt"

// StepRecord is one entry of an ordered action log.
type StepRecord struct {
	Player int
	Action Action
}

// Replay rebuilds the game state from the initial seed and the ordered
// action log. The result is identical to the state the live game reached,
// which makes hands auditable and regressions reproducible.
func Replay(r Rules, seed int64, steps []StepRecord) (GameState, error) {
	g := NewGame(r, seed)
	DealHand(&g)
	for i, s := range steps {
		if err := ApplyAction(&g, s.Player, s.Action); err != nil {
			return g, fmt.Errorf("replay step %d (player %d): %w", i, s.Player, err)
		}
		if g.Round.Phase == PhaseDeal && !g.Round.HandsDealt {
			DealHand(&g)
		}
	}
	return g, nil
}
