package sim

import (
	"fmt"
	"sort"

	"github.com/JohnLemonNFT/sheepshead-sub001/internal/engine"
)

type ActionRecord struct {
	Hand  int
	Step  int
	Phase engine.Phase
	P     int
	A     engine.Action
}

// RunSelfPlayHands plays full hands with a fixed deterministic policy,
// verifying card accounting and phase structure after every transition.
func RunSelfPlayHands(seed int64, hands int, maxStepsPerHand int) error {
	rules := engine.DefaultRules()
	state := engine.NewGame(rules, seed)

	for h := 0; h < hands; h++ {
		engine.DealHand(&state)

		records := []ActionRecord{}
		for step := 0; step < maxStepsPerHand; step++ {
			if state.Round.Phase == engine.PhaseDeal && !state.Round.HandsDealt {
				break
			}
			player, ok := engine.CurrentPlayer(state)
			if !ok {
				return failure(seed, h, step, state.Round.Phase, -1, records, "no current player")
			}
			legal := engine.LegalActions(state, player)
			if len(legal) == 0 {
				return failure(seed, h, step, state.Round.Phase, player, records, "no legal actions")
			}
			action := chooseAction(state, player, legal)
			if err := engine.ApplyAction(&state, player, action); err != nil {
				return failure(seed, h, step, state.Round.Phase, player, records, fmt.Sprintf("apply error: %v", err))
			}
			records = append(records, ActionRecord{
				Hand:  h,
				Step:  step,
				Phase: state.Round.Phase,
				P:     player,
				A:     action,
			})
			if err := checkInvariants(state); err != nil {
				return failure(seed, h, step, state.Round.Phase, player, records, err.Error())
			}
			if state.Round.Phase == engine.PhaseDeal && !state.Round.HandsDealt {
				break
			}
		}
		if state.Round.Phase != engine.PhaseDeal || state.Round.HandsDealt {
			return failure(seed, h, maxStepsPerHand, state.Round.Phase, -1, records, "hand did not finish")
		}
	}

	total := 0
	for _, p := range state.Players {
		total += p.GameScore
	}
	if total != 0 {
		return fmt.Errorf("seed=%d cumulative scores do not balance: %d", seed, total)
	}
	return nil
}

func chooseAction(state engine.GameState, player int, legal []engine.Action) engine.Action {
	switch state.Round.Phase {
	case engine.PhasePicking:
		if shouldPick(state, player) || len(legal) == 1 {
			return engine.Action{Type: engine.ActionPick}
		}
		return engine.Action{Type: engine.ActionPass}
	case engine.PhaseBurying:
		return buryLowest(state, player)
	case engine.PhaseCalling:
		if suits := engine.CallableSuits(state); len(suits) > 0 {
			s := suits[0]
			return engine.Action{Type: engine.ActionCallSuit, Suit: &s}
		}
		return engine.Action{Type: engine.ActionGoAlone}
	case engine.PhasePlayTricks:
		return lowestLegalPlay(legal)
	default:
		return legal[0]
	}
}

func shouldPick(state engine.GameState, player int) bool {
	trump, queens := 0, 0
	for _, c := range state.Players[player].Hand {
		if engine.IsTrump(c) {
			trump++
		}
		if c.Rank == engine.RankQ {
			queens++
		}
	}
	return trump >= 4 || (trump >= 3 && queens >= 1)
}

func buryLowest(state engine.GameState, player int) engine.Action {
	hand := append([]engine.Card(nil), state.Players[player].Hand...)
	sort.SliceStable(hand, func(i, j int) bool {
		// fails before trump, then cheapest first
		ti, tj := engine.IsTrump(hand[i]), engine.IsTrump(hand[j])
		if ti != tj {
			return !ti
		}
		pi, pj := engine.CardPoints(hand[i].Rank), engine.CardPoints(hand[j].Rank)
		if pi != pj {
			return pi < pj
		}
		return cardStrength(hand[i]) < cardStrength(hand[j])
	})
	count := state.Rules.BurySize
	if count > len(hand) {
		count = len(hand)
	}
	return engine.Action{Type: engine.ActionBury, Cards: hand[:count]}
}

func lowestLegalPlay(legal []engine.Action) engine.Action {
	best := legal[0]
	bestScore := 1<<31 - 1
	for _, a := range legal {
		if a.Type != engine.ActionPlayCard || a.Card == nil {
			continue
		}
		score := engine.CardPoints(a.Card.Rank)*100 + cardStrength(*a.Card)
		if score < bestScore {
			bestScore = score
			best = a
		}
	}
	return best
}

func cardStrength(c engine.Card) int {
	if engine.IsTrump(c) {
		return 10 + engine.TrumpStrength(c)
	}
	return engine.FailStrength(c.Rank)
}

func checkInvariants(state engine.GameState) error {
	if state.Round.Phase == engine.PhaseDeal && !state.Round.HandsDealt {
		return nil
	}
	if err := engine.VerifyCardAccounting(state); err != nil {
		return err
	}
	if len(state.Round.TrickCards) > state.Rules.Players {
		return fmt.Errorf("invalid trick size: %d", len(state.Round.TrickCards))
	}
	switch state.Round.Phase {
	case engine.PhasePicking:
		if len(state.Round.Buried) != 0 {
			return fmt.Errorf("buried not empty before burying: %d", len(state.Round.Buried))
		}
		if len(state.Round.Blind) != state.Rules.BlindSize {
			return fmt.Errorf("blind size mismatch: %d", len(state.Round.Blind))
		}
	case engine.PhaseBurying:
		if len(state.Players[state.Round.Picker].Hand) != state.Rules.HandSize+state.Rules.BlindSize {
			return fmt.Errorf("picker hand not expanded after blind")
		}
	case engine.PhaseCalling:
		if len(state.Round.Buried) != state.Rules.BurySize {
			return fmt.Errorf("buried size mismatch: %d", len(state.Round.Buried))
		}
	case engine.PhasePlayTricks:
		for _, p := range state.Players {
			if len(p.Hand) > state.Rules.HandSize {
				return fmt.Errorf("hand size too large: %d", len(p.Hand))
			}
		}
		if !state.Round.Leaster && len(state.Round.Buried) != state.Rules.BurySize {
			return fmt.Errorf("buried size mismatch in play: %d", len(state.Round.Buried))
		}
		if state.Round.Leaster && len(state.Round.Blind) != state.Rules.BlindSize {
			return fmt.Errorf("blind not preserved in leaster: %d", len(state.Round.Blind))
		}
	}
	return nil
}

func failure(seed int64, hand int, step int, phase engine.Phase, player int, records []ActionRecord, reason string) error {
	start := 0
	if len(records) > 20 {
		start = len(records) - 20
	}
	log := ""
	for _, r := range records[start:] {
		log += fmt.Sprintf("[h%d s%d p%d %v] %v\n", r.Hand, r.Step, r.P, r.Phase, r.A)
	}
	return fmt.Errorf("seed=%d hand=%d step=%d phase=%v player=%d reason=%s\nlast actions:\n%s",
		seed, hand, step, phase, player, reason, log)
}
