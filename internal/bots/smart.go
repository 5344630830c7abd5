package bots

import (
	"math/rand"

	"github.com/JohnLemonNFT/sheepshead-sub001/internal/engine"
)

// SmartBot layers Monte Carlo rollouts over the heuristic player for the
// play decision. Pick, bury, call and the stake declarations stay
// heuristic: their branching is small and the heuristics are calibrated.
//
// Each sample determinizes the hidden zones, then every candidate card is
// rolled out on the same sampled world under the heuristic policy. The
// candidate with the best expected score delta for the bot's side wins.
// The random source is injected so decisions replay exactly under test.
type SmartBot struct {
	RNG     *rand.Rand
	Samples int
}

const defaultSamples = 48

func NewSmart(seed int64) *SmartBot {
	return &SmartBot{RNG: rand.New(rand.NewSource(seed)), Samples: defaultSamples}
}

func (b *SmartBot) ChooseAction(state engine.GameState, player int) engine.Action {
	if state.Round.Phase != engine.PhasePlayTricks {
		return heuristicAction(state, player)
	}
	candidates := playActions(state, player)
	if len(candidates) <= 1 {
		return heuristicAction(state, player)
	}

	samples := b.Samples
	if samples <= 0 {
		samples = defaultSamples
	}

	totals := make([]int, len(candidates))
	for s := 0; s < samples; s++ {
		world := sampleWorld(state, player, b.RNG)
		for ci, cand := range candidates {
			sim := world.Clone()
			if err := engine.ApplyAction(&sim, player, cand); err != nil {
				totals[ci] -= 1 << 20
				continue
			}
			rollout(&sim)
			if sim.LastResult != nil && player < len(sim.LastResult.Deltas) {
				totals[ci] += sim.LastResult.Deltas[player]
			}
		}
	}

	best := 0
	for ci := 1; ci < len(candidates); ci++ {
		if totals[ci] > totals[best] {
			best = ci
		}
	}
	return candidates[best]
}

// rollout plays the sampled hand to completion under the heuristic policy.
// Bounded by the cards remaining, so it always terminates.
func rollout(sim *engine.GameState) {
	for sim.Round.Phase == engine.PhasePlayTricks {
		p, ok := engine.CurrentPlayer(*sim)
		if !ok {
			return
		}
		a := heuristicAction(*sim, p)
		if err := engine.ApplyAction(sim, p, a); err != nil {
			return
		}
	}
}
