package engine

import "testing"

// finishedHand rigs a scored position: picker 0, partner 1 unless alone.
func finishedHand(partner int) GameState {
	g := NewGame(DefaultRules(), 1)
	g.Round.Phase = PhaseScoreHand
	g.Round.Picker = 0
	g.Round.Partner = partner
	if partner >= 0 {
		g.Round.PartnerRevealed = true
	}
	return g
}

func checkZeroSum(t *testing.T, res HandResult) {
	t.Helper()
	sum := 0
	for _, d := range res.Deltas {
		sum += d
	}
	if sum != 0 {
		t.Fatalf("deltas not zero-sum: %v", res.Deltas)
	}
}

func TestEvaluatePickerWin(t *testing.T) {
	g := finishedHand(1)
	g.Round.Buried = []Card{{Suit: SuitHearts, Rank: RankA}, {Suit: SuitHearts, Rank: Rank10}} // 21
	g.Players[0].Tricks = [][]Card{
		{{Suit: SuitClubs, Rank: RankA}, {Suit: SuitClubs, Rank: Rank10}, {Suit: SuitClubs, Rank: RankK},
			{Suit: SuitClubs, Rank: Rank9}, {Suit: SuitClubs, Rank: Rank8}}, // 25
	}
	g.Players[1].Tricks = [][]Card{
		{{Suit: SuitSpades, Rank: RankA}, {Suit: SuitSpades, Rank: Rank10}, {Suit: SuitSpades, Rank: Rank9},
			{Suit: SuitSpades, Rank: Rank8}, {Suit: SuitSpades, Rank: Rank7}}, // 21
	}
	g.Players[2].Tricks = [][]Card{
		{{Suit: SuitHearts, Rank: RankK}, {Suit: SuitSpades, Rank: RankK}, {Suit: SuitDiamonds, Rank: RankA},
			{Suit: SuitDiamonds, Rank: Rank10}, {Suit: SuitDiamonds, Rank: RankK}}, // 33
	}

	res := EvaluateHand(g)
	if !res.PickerWon {
		t.Fatalf("picker should win with %d points", res.PickerPoints)
	}
	if res.PickerPoints != 67 {
		t.Fatalf("picker points: got %d, want 67", res.PickerPoints)
	}
	if res.Tier != TierNormal {
		t.Fatalf("tier: got %v", res.Tier)
	}
	want := []int{2, 1, -1, -1, -1}
	for i, d := range res.Deltas {
		if d != want[i] {
			t.Fatalf("deltas: got %v, want %v", res.Deltas, want)
		}
	}
	checkZeroSum(t, res)
}

func TestSixtySixtyLosesForPicker(t *testing.T) {
	g := finishedHand(1)
	// Exactly 60 for the picker side.
	g.Round.Buried = []Card{{Suit: SuitHearts, Rank: Rank9}, {Suit: SuitHearts, Rank: Rank8}}
	g.Players[0].Tricks = [][]Card{
		{{Suit: SuitClubs, Rank: RankA}, {Suit: SuitSpades, Rank: RankA}, {Suit: SuitHearts, Rank: RankA},
			{Suit: SuitDiamonds, Rank: RankA}, {Suit: SuitClubs, Rank: Rank10}}, // 54
	}
	g.Players[1].Tricks = [][]Card{
		{{Suit: SuitClubs, Rank: RankQ}, {Suit: SuitSpades, Rank: RankQ}, {Suit: SuitClubs, Rank: Rank9},
			{Suit: SuitClubs, Rank: Rank8}, {Suit: SuitClubs, Rank: Rank7}}, // 6
	}
	g.Players[2].Tricks = [][]Card{
		{{Suit: SuitSpades, Rank: Rank10}, {Suit: SuitHearts, Rank: Rank10}, {Suit: SuitDiamonds, Rank: Rank10},
			{Suit: SuitClubs, Rank: RankK}, {Suit: SuitSpades, Rank: RankK}}, // 38
	}
	g.Players[3].Tricks = [][]Card{
		{{Suit: SuitHearts, Rank: RankK}, {Suit: SuitDiamonds, Rank: RankK}, {Suit: SuitHearts, Rank: RankQ},
			{Suit: SuitDiamonds, Rank: RankQ}, {Suit: SuitClubs, Rank: RankJ}}, // 16
	}
	g.Players[4].Tricks = [][]Card{
		{{Suit: SuitSpades, Rank: RankJ}, {Suit: SuitHearts, Rank: RankJ}, {Suit: SuitDiamonds, Rank: RankJ},
			{Suit: SuitSpades, Rank: Rank9}, {Suit: SuitSpades, Rank: Rank8}}, // 6
	}

	res := EvaluateHand(g)
	if res.PickerPoints != 60 || res.DefenderPoints != 60 {
		t.Fatalf("points split: got %d/%d, want 60/60", res.PickerPoints, res.DefenderPoints)
	}
	if res.PickerWon {
		t.Fatalf("60-60 must lose for the picker")
	}
	checkZeroSum(t, res)
}

func TestSchneiderDoubles(t *testing.T) {
	g := finishedHand(1)
	g.Round.Buried = []Card{{Suit: SuitHearts, Rank: RankA}, {Suit: SuitSpades, Rank: RankA}} // 22
	g.Players[0].Tricks = [][]Card{
		{{Suit: SuitClubs, Rank: RankA}, {Suit: SuitClubs, Rank: Rank10}, {Suit: SuitSpades, Rank: Rank10},
			{Suit: SuitHearts, Rank: Rank10}, {Suit: SuitDiamonds, Rank: Rank10}}, // 51
	}
	g.Players[1].Tricks = [][]Card{
		{{Suit: SuitClubs, Rank: RankK}, {Suit: SuitSpades, Rank: RankK}, {Suit: SuitHearts, Rank: RankK},
			{Suit: SuitDiamonds, Rank: RankK}, {Suit: SuitClubs, Rank: RankQ}}, // 19
	}
	g.Players[2].Tricks = [][]Card{
		{{Suit: SuitDiamonds, Rank: RankA}, {Suit: SuitSpades, Rank: RankQ}, {Suit: SuitHearts, Rank: RankQ},
			{Suit: SuitDiamonds, Rank: RankQ}, {Suit: SuitClubs, Rank: RankJ}}, // 22
	}

	res := EvaluateHand(g)
	if !res.PickerWon || res.Tier != TierSchneider {
		t.Fatalf("expected schneider win, got won=%v tier=%v (defenders %d)", res.PickerWon, res.Tier, res.DefenderPoints)
	}
	if res.Multiplier != 2 {
		t.Fatalf("multiplier: got %d, want 2", res.Multiplier)
	}
	want := []int{4, 2, -2, -2, -2}
	for i, d := range res.Deltas {
		if d != want[i] {
			t.Fatalf("deltas: got %v, want %v", res.Deltas, want)
		}
	}
}

func TestSchwarzTriples(t *testing.T) {
	g := finishedHand(1)
	g.Round.Buried = []Card{{Suit: SuitHearts, Rank: Rank9}, {Suit: SuitHearts, Rank: Rank8}}
	g.Players[0].Tricks = [][]Card{
		{{Suit: SuitClubs, Rank: RankA}}, {{Suit: SuitSpades, Rank: RankA}}, {{Suit: SuitHearts, Rank: RankA}},
	}
	g.Players[1].Tricks = [][]Card{
		{{Suit: SuitDiamonds, Rank: RankA}}, {{Suit: SuitClubs, Rank: Rank10}}, {{Suit: SuitSpades, Rank: Rank10}},
	}

	res := EvaluateHand(g)
	if !res.PickerWon || res.Tier != TierSchwarz {
		t.Fatalf("expected schwarz, got won=%v tier=%v", res.PickerWon, res.Tier)
	}
	if res.Multiplier != 3 {
		t.Fatalf("multiplier: got %d, want 3", res.Multiplier)
	}
}

func TestPickerSchneideredLoss(t *testing.T) {
	g := finishedHand(1)
	g.Round.Buried = []Card{{Suit: SuitHearts, Rank: Rank9}, {Suit: SuitHearts, Rank: Rank8}}
	g.Players[0].Tricks = [][]Card{
		{{Suit: SuitClubs, Rank: RankK}, {Suit: SuitSpades, Rank: RankK}}, // 8
	}
	g.Players[2].Tricks = [][]Card{
		{{Suit: SuitClubs, Rank: RankA}, {Suit: SuitSpades, Rank: RankA}, {Suit: SuitHearts, Rank: RankA},
			{Suit: SuitDiamonds, Rank: RankA}, {Suit: SuitClubs, Rank: Rank10}},
	}

	res := EvaluateHand(g)
	if res.PickerWon || res.Tier != TierSchneider {
		t.Fatalf("expected schneidered loss, got won=%v tier=%v", res.PickerWon, res.Tier)
	}
	want := []int{-4, -2, 2, 2, 2}
	for i, d := range res.Deltas {
		if d != want[i] {
			t.Fatalf("deltas: got %v, want %v", res.Deltas, want)
		}
	}
	checkZeroSum(t, res)
}

func TestAloneStakes(t *testing.T) {
	g := finishedHand(-1)
	g.Round.Alone = true
	g.Round.Buried = []Card{{Suit: SuitHearts, Rank: RankA}, {Suit: SuitHearts, Rank: Rank10}}
	g.Players[0].Tricks = [][]Card{
		{{Suit: SuitClubs, Rank: RankA}, {Suit: SuitSpades, Rank: RankA}, {Suit: SuitDiamonds, Rank: RankA},
			{Suit: SuitClubs, Rank: Rank10}, {Suit: SuitSpades, Rank: Rank10}}, // 53
	}
	g.Players[1].Tricks = [][]Card{
		{{Suit: SuitDiamonds, Rank: Rank10}, {Suit: SuitClubs, Rank: RankK}, {Suit: SuitSpades, Rank: RankK},
			{Suit: SuitHearts, Rank: RankK}, {Suit: SuitDiamonds, Rank: RankK}}, // 26
	}

	res := EvaluateHand(g)
	if !res.PickerWon {
		t.Fatalf("picker should win with %d", res.PickerPoints)
	}
	want := []int{4, -1, -1, -1, -1}
	for i, d := range res.Deltas {
		if d != want[i] {
			t.Fatalf("alone deltas: got %v, want %v", res.Deltas, want)
		}
	}
	checkZeroSum(t, res)
}

func TestDeclarationMultipliersStack(t *testing.T) {
	g := finishedHand(1)
	g.PendingMultiplier = 2
	g.Round.Cracked = true
	g.Round.ReCracked = true
	g.Round.Blitzed = true
	g.Round.Buried = []Card{{Suit: SuitHearts, Rank: RankA}, {Suit: SuitHearts, Rank: Rank10}}
	g.Players[0].Tricks = [][]Card{
		{{Suit: SuitClubs, Rank: RankA}, {Suit: SuitSpades, Rank: RankA}, {Suit: SuitDiamonds, Rank: RankA},
			{Suit: SuitClubs, Rank: Rank10}, {Suit: SuitSpades, Rank: Rank10}},
	}
	g.Players[2].Tricks = [][]Card{
		{{Suit: SuitDiamonds, Rank: Rank10}, {Suit: SuitClubs, Rank: RankK}, {Suit: SuitSpades, Rank: RankK},
			{Suit: SuitHearts, Rank: RankK}, {Suit: SuitDiamonds, Rank: RankK}},
	}

	res := EvaluateHand(g)
	// doubler 2 x crack 2 x re-crack 2 x blitz 2
	if res.Multiplier != 16 {
		t.Fatalf("multiplier: got %d, want 16", res.Multiplier)
	}
	if res.Deltas[0] != 2*16 {
		t.Fatalf("picker delta: got %d, want %d", res.Deltas[0], 2*16)
	}
	checkZeroSum(t, res)
}

func TestLeasterBlindGoesToLastTrickWinner(t *testing.T) {
	g := NewGame(DefaultRules(), 1)
	g.Round.Leaster = true
	g.Round.Blind = []Card{{Suit: SuitHearts, Rank: RankA}, {Suit: SuitHearts, Rank: Rank10}} // 21
	g.Players[1].Tricks = [][]Card{
		{{Suit: SuitClubs, Rank: Rank9}, {Suit: SuitClubs, Rank: Rank8}}, // 0, would win without blind
	}
	g.Players[2].Tricks = [][]Card{
		{{Suit: SuitSpades, Rank: RankK}}, // 4
	}
	g.Round.TrickHistory = []Trick{
		{Winner: 2}, {Winner: 1}, // last trick to player 1
	}

	res := EvaluateHand(g)
	if !res.Leaster {
		t.Fatalf("expected a leaster result")
	}
	if res.LeasterWinner != 2 {
		t.Fatalf("leaster winner: got %d, want 2 (blind pushed 1 to 21)", res.LeasterWinner)
	}
	if res.Deltas[2] != 8 {
		t.Fatalf("winner delta: got %d, want 8", res.Deltas[2])
	}
	for i, d := range res.Deltas {
		if i != 2 && d != -2 {
			t.Fatalf("loser delta at %d: got %d, want -2", i, d)
		}
	}
	checkZeroSum(t, res)
}

func TestLeasterTricklessPlayerCannotWin(t *testing.T) {
	g := NewGame(DefaultRules(), 1)
	g.Round.Leaster = true
	// Player 3 captured nothing at all; player 4 took points but has tricks.
	g.Players[4].Tricks = [][]Card{
		{{Suit: SuitClubs, Rank: RankA}},
	}
	g.Players[0].Tricks = [][]Card{
		{{Suit: SuitSpades, Rank: RankA}}, {{Suit: SuitHearts, Rank: RankA}},
	}
	g.Round.TrickHistory = []Trick{{Winner: 4}}

	res := EvaluateHand(g)
	if res.LeasterWinner == 3 {
		t.Fatalf("trickless player must not win a leaster")
	}
	if res.LeasterWinner != 4 {
		t.Fatalf("leaster winner: got %d, want 4", res.LeasterWinner)
	}
}

func TestLeasterTieBreaksToFewerTricks(t *testing.T) {
	g := NewGame(DefaultRules(), 1)
	g.Round.Leaster = true
	g.Players[1].Tricks = [][]Card{
		{{Suit: SuitClubs, Rank: Rank9}}, {{Suit: SuitClubs, Rank: Rank8}}, // 0 pts, two tricks
	}
	g.Players[3].Tricks = [][]Card{
		{{Suit: SuitClubs, Rank: Rank7}}, // 0 pts, one trick
	}
	g.Round.TrickHistory = []Trick{{Winner: 1}}
	g.Round.Blind = nil

	res := EvaluateHand(g)
	if res.LeasterWinner != 3 {
		t.Fatalf("tie should break to fewer tricks: got %d, want 3", res.LeasterWinner)
	}
}

func TestScoreHandRotatesDealerAndResets(t *testing.T) {
	g := finishedHand(1)
	g.Round.Buried = []Card{{Suit: SuitHearts, Rank: RankA}, {Suit: SuitHearts, Rank: Rank10}}
	g.Players[0].Tricks = [][]Card{
		{{Suit: SuitClubs, Rank: RankA}, {Suit: SuitSpades, Rank: RankA}, {Suit: SuitDiamonds, Rank: RankA},
			{Suit: SuitClubs, Rank: Rank10}, {Suit: SuitSpades, Rank: Rank10}},
	}
	g.Players[2].Tricks = [][]Card{
		{{Suit: SuitDiamonds, Rank: Rank10}},
	}
	g.PendingMultiplier = 4

	scoreHand(&g)
	if g.LastResult == nil {
		t.Fatalf("last result not recorded")
	}
	if g.Players[0].GameScore == 0 {
		t.Fatalf("scores not applied")
	}
	if g.HandsPlayed != 1 {
		t.Fatalf("hands played: got %d", g.HandsPlayed)
	}
	if g.PendingMultiplier != 1 {
		t.Fatalf("pending multiplier must reset, got %d", g.PendingMultiplier)
	}
	if g.Round.Dealer != 1 {
		t.Fatalf("dealer should rotate, got %d", g.Round.Dealer)
	}
	if g.Round.Phase != PhaseDeal {
		t.Fatalf("phase after scoring: got %v", g.Round.Phase)
	}
}

func TestScoreHandEndsGameAtMaxHands(t *testing.T) {
	g := finishedHand(1)
	g.Rules.MaxHands = 1
	g.Round.Buried = nil
	g.Players[2].Tricks = [][]Card{
		{{Suit: SuitClubs, Rank: RankA}},
	}
	g.Players[0].Tricks = [][]Card{
		{{Suit: SuitSpades, Rank: Rank9}},
	}

	scoreHand(&g)
	if g.Round.Phase != PhaseGameOver {
		t.Fatalf("phase: got %v, want game over", g.Round.Phase)
	}
}
