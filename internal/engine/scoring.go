package engine

// Tier is the outcome band of a picker hand. Schwarz supersedes Schneider;
// exactly one tier is ever emitted.
type Tier int

const (
	TierNormal Tier = iota
	TierSchneider
	TierSchwarz
)

func (t Tier) String() string {
	switch t {
	case TierSchneider:
		return "schneider"
	case TierSchwarz:
		return "schwarz"
	default:
		return "normal"
	}
}

type HandResult struct {
	Leaster        bool
	LeasterWinner  int
	PickerWon      bool
	Tier           Tier
	PickerPoints   int
	DefenderPoints int
	PlayerPoints   []int
	Multiplier     int
	Deltas         []int
}

// EvaluateHand scores a finished hand. It is a pure function of captured
// tricks, the buried pair and the declared multiplier flags; it never
// mutates g.
func EvaluateHand(g GameState) HandResult {
	n := g.Rules.Players
	perPlayer := make([]int, n)
	for i, p := range g.Players {
		for _, trick := range p.Tricks {
			perPlayer[i] += TallyPoints(trick)
		}
	}

	if g.Round.Leaster {
		return evaluateLeaster(g, perPlayer)
	}

	pickerPts := TallyPoints(g.Round.Buried)
	defenderPts := 0
	pickerTricks, defenderTricks := 0, 0
	for i := range g.Players {
		side := i == g.Round.Picker || (g.Round.Partner >= 0 && i == g.Round.Partner)
		if side {
			pickerPts += perPlayer[i]
			pickerTricks += len(g.Players[i].Tricks)
		} else {
			defenderPts += perPlayer[i]
			defenderTricks += len(g.Players[i].Tricks)
		}
	}

	won := pickerPts >= 61
	tier := TierNormal
	if won {
		if defenderTricks == 0 {
			tier = TierSchwarz
		} else if defenderPts <= 30 {
			tier = TierSchneider
		}
	} else {
		if pickerTricks == 0 {
			tier = TierSchwarz
		} else if pickerPts <= 30 {
			tier = TierSchneider
		}
	}

	mult := g.PendingMultiplier
	switch tier {
	case TierSchneider:
		mult *= 2
	case TierSchwarz:
		mult *= 3
	}
	if g.Round.Cracked {
		mult *= 2
	}
	if g.Round.ReCracked {
		mult *= 2
	}
	if g.Round.Blitzed {
		mult *= 2
	}

	alone := g.Round.Alone || g.Round.Partner < 0
	sign := 1
	if !won {
		sign = -1
	}
	deltas := make([]int, n)
	for i := range deltas {
		switch {
		case i == g.Round.Picker && alone:
			deltas[i] = sign * 4 * mult
		case i == g.Round.Picker:
			deltas[i] = sign * 2 * mult
		case g.Round.Partner >= 0 && i == g.Round.Partner:
			deltas[i] = sign * 1 * mult
		default:
			deltas[i] = -sign * 1 * mult
		}
	}

	return HandResult{
		PickerWon:      won,
		Tier:           tier,
		PickerPoints:   pickerPts,
		DefenderPoints: defenderPts,
		PlayerPoints:   perPlayer,
		Multiplier:     mult,
		Deltas:         deltas,
		LeasterWinner:  -1,
	}
}

// evaluateLeaster: lowest point capturer with at least one trick wins +2
// from each other player. The blind counts toward whoever took the last
// trick. Ties break to fewer tricks, then to the seat closest left of the
// dealer.
func evaluateLeaster(g GameState, perPlayer []int) HandResult {
	n := g.Rules.Players
	if len(g.Round.TrickHistory) > 0 {
		last := g.Round.TrickHistory[len(g.Round.TrickHistory)-1]
		perPlayer[last.Winner] += TallyPoints(g.Round.Blind)
	}

	winner := -1
	for seat := 1; seat <= n; seat++ {
		i := (g.Round.Dealer + seat) % n
		if len(g.Players[i].Tricks) == 0 {
			continue
		}
		if winner < 0 ||
			perPlayer[i] < perPlayer[winner] ||
			(perPlayer[i] == perPlayer[winner] && len(g.Players[i].Tricks) < len(g.Players[winner].Tricks)) {
			winner = i
		}
	}

	mult := g.PendingMultiplier
	deltas := make([]int, n)
	for i := range deltas {
		if i == winner {
			deltas[i] = 2 * (n - 1) * mult
		} else {
			deltas[i] = -2 * mult
		}
	}

	return HandResult{
		Leaster:       true,
		LeasterWinner: winner,
		PlayerPoints:  perPlayer,
		Multiplier:    mult,
		Deltas:        deltas,
	}
}

func scoreHand(g *GameState) {
	res := EvaluateHand(*g)
	for i, d := range res.Deltas {
		g.Players[i].GameScore += d
		g.Players[i].HandPts = res.PlayerPoints[i]
	}
	g.LastResult = &res
	g.HandsPlayed++
	g.PendingMultiplier = 1

	if g.Rules.MaxHands > 0 && g.HandsPlayed >= g.Rules.MaxHands {
		g.Round.Phase = PhaseGameOver
		return
	}

	g.Round.Dealer = (g.Round.Dealer + 1) % g.Rules.Players
	g.ResetHand()
}
