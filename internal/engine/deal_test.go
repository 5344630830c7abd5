package engine

import "testing"

func TestDealDeterministic(t *testing.T) {
	r := DefaultRules()
	g1 := NewGame(r, 42)
	g2 := NewGame(r, 42)

	DealHand(&g1)
	DealHand(&g2)

	for i := 0; i < r.Players; i++ {
		if len(g1.Players[i].Hand) != r.HandSize {
			t.Fatalf("hand size: got %d", len(g1.Players[i].Hand))
		}
		for c := range g1.Players[i].Hand {
			if g1.Players[i].Hand[c] != g2.Players[i].Hand[c] {
				t.Fatalf("determinism mismatch at player %d card %d", i, c)
			}
		}
	}
	if len(g1.Round.Blind) != r.BlindSize {
		t.Fatalf("blind size: got %d", len(g1.Round.Blind))
	}
}

func TestDealVariesAcrossHands(t *testing.T) {
	r := DefaultRules()
	g1 := NewGame(r, 7)
	g2 := NewGame(r, 7)
	g2.HandsPlayed = 1

	DealHand(&g1)
	DealHand(&g2)

	same := true
	for i := 0; i < r.Players && same; i++ {
		for c := range g1.Players[i].Hand {
			if g1.Players[i].Hand[c] != g2.Players[i].Hand[c] {
				same = false
				break
			}
		}
	}
	if same {
		t.Fatalf("expected a different shuffle after a played hand")
	}
}

func TestDealExhaustsDeck(t *testing.T) {
	r := DefaultRules()
	g := NewGame(r, 1)
	DealHand(&g)

	seen := map[Card]bool{}
	for _, p := range g.Players {
		for _, c := range p.Hand {
			if seen[c] {
				t.Fatalf("duplicate card: %v", c)
			}
			seen[c] = true
		}
	}
	for _, c := range g.Round.Blind {
		if seen[c] {
			t.Fatalf("duplicate card in blind: %v", c)
		}
		seen[c] = true
	}
	if len(seen) != 32 {
		t.Fatalf("deck not exhausted: got %d", len(seen))
	}
}

func TestDealStartsPickingLeftOfDealer(t *testing.T) {
	r := DefaultRules()
	g := NewGame(r, 3)
	g.Round.Dealer = 2
	DealHand(&g)

	if g.Round.Phase != PhasePicking {
		t.Fatalf("phase: got %v, want picking", g.Round.Phase)
	}
	if g.Round.PickTurn != 3 {
		t.Fatalf("pick turn: got %d, want 3", g.Round.PickTurn)
	}
	if err := VerifyCardAccounting(g); err != nil {
		t.Fatalf("fresh deal violates accounting: %v", err)
	}
}
