package engine

import (
	"errors"
	"fmt"
)

type ActionType int

const (
	ActionPass ActionType = iota
	ActionPick
	ActionBury
	ActionCallSuit
	ActionGoAlone
	ActionDeclareBlitz
	ActionCrack
	ActionReCrack
	ActionPlayCard
)

type Action struct {
	Type  ActionType
	Suit  *Suit
	Card  *Card
	Cards []Card
}

// Rule violations. These are recoverable: state is left unchanged and the
// actor may retry.
var (
	ErrWrongPhase      = errors.New("action not valid in current phase")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrCardNotInHand   = errors.New("card not in hand")
	ErrMustFollowSuit  = errors.New("must follow the led suit")
	ErrDealerMustPick  = errors.New("dealer must pick")
	ErrBuryCount       = errors.New("bury requires exactly two cards")
	ErrBuryTrump       = errors.New("cannot bury trump")
	ErrOnlyPicker      = errors.New("only the picker may do that")
	ErrInvalidCallSuit = errors.New("called suit must be a fail suit")
	ErrOwnAceCall      = errors.New("cannot call a suit whose ace is in hand")
	ErrCrackWindow     = errors.New("declarations allowed only before the first card is played")
	ErrNotDefender     = errors.New("only a defender may crack")
	ErrNotPickerSide   = errors.New("only the picker side may re-crack")
	ErrNoCrackToAnswer = errors.New("re-crack requires a crack")
	ErrAlreadyDeclared = errors.New("already declared")
	ErrBlitzQueens     = errors.New("blitz requires both black queens")
	ErrDisabled        = errors.New("declaration disabled by room rules")
)

// ErrInvariant marks card-accounting corruption. Unlike rule violations it
// is fatal to the hand.
var ErrInvariant = errors.New("card accounting invariant violated")

// LegalActions returns every action player may take in the current state.
// For burying the single marker action is returned; the client or bot
// chooses the concrete cards (too many combinations to enumerate).
func LegalActions(g GameState, player int) []Action {
	switch g.Round.Phase {
	case PhasePicking:
		if player != g.Round.PickTurn {
			return nil
		}
		if g.Rules.PassOutRule == PassOutForcedPick && dealerIsLastToPick(g) && player == g.Round.Dealer {
			return []Action{{Type: ActionPick}}
		}
		return []Action{{Type: ActionPick}, {Type: ActionPass}}
	case PhaseBurying:
		if player != g.Round.Picker {
			return nil
		}
		return []Action{{Type: ActionBury}}
	case PhaseCalling:
		if player != g.Round.Picker {
			return nil
		}
		out := []Action{}
		for _, s := range CallableSuits(g) {
			suit := s
			out = append(out, Action{Type: ActionCallSuit, Suit: &suit})
		}
		out = append(out, Action{Type: ActionGoAlone})
		return out
	case PhasePlayTricks:
		actions := legalPlays(g, player)
		actions = append(actions, legalDeclarations(g, player)...)
		return actions
	default:
		return nil
	}
}

// CurrentPlayer returns the player expected to act in the current phase.
// Declarations are out-of-turn and never drive the turn order.
func CurrentPlayer(g GameState) (int, bool) {
	switch g.Round.Phase {
	case PhasePicking:
		return g.Round.PickTurn, true
	case PhaseBurying, PhaseCalling:
		if g.Round.Picker >= 0 {
			return g.Round.Picker, true
		}
		return -1, false
	case PhasePlayTricks:
		if len(g.Round.TrickOrder) == 0 {
			return g.Round.Leader, true
		}
		if len(g.Round.TrickCards) >= len(g.Round.TrickOrder) {
			return -1, false
		}
		return g.Round.TrickOrder[len(g.Round.TrickCards)], true
	default:
		return -1, false
	}
}

func ApplyAction(g *GameState, player int, a Action) error {
	switch a.Type {
	case ActionCrack, ActionReCrack, ActionDeclareBlitz:
		return applyDeclaration(g, player, a)
	}
	switch g.Round.Phase {
	case PhasePicking:
		return applyPicking(g, player, a)
	case PhaseBurying:
		return applyBury(g, player, a)
	case PhaseCalling:
		return applyCalling(g, player, a)
	case PhasePlayTricks:
		return applyPlay(g, player, a)
	default:
		return ErrWrongPhase
	}
}

func applyPicking(g *GameState, player int, a Action) error {
	if player != g.Round.PickTurn {
		return ErrNotYourTurn
	}
	switch a.Type {
	case ActionPick:
		g.Round.Picker = player
		g.Players[player].Hand = append(g.Players[player].Hand, g.Round.Blind...)
		g.Round.Blind = nil
		g.Round.Phase = PhaseBurying
		return nil
	case ActionPass:
		if g.Rules.PassOutRule == PassOutForcedPick && dealerIsLastToPick(*g) && player == g.Round.Dealer {
			return ErrDealerMustPick
		}
		g.Round.Passed[player] = true
		if len(g.Round.Passed) == g.Rules.Players {
			passOut(g)
			return nil
		}
		g.Round.PickTurn = (g.Round.PickTurn + 1) % g.Rules.Players
		return nil
	default:
		return fmt.Errorf("%w: %v during picking", ErrWrongPhase, a.Type)
	}
}

func dealerIsLastToPick(g GameState) bool {
	return len(g.Round.Passed) == g.Rules.Players-1 && !g.Round.Passed[g.Round.Dealer]
}

func passOut(g *GameState) {
	switch g.Rules.PassOutRule {
	case PassOutDoubler:
		// Hand is thrown in; the next hand plays for doubled stakes.
		g.PendingMultiplier *= 2
		g.HandsPlayed++
		if g.Rules.MaxHands > 0 && g.HandsPlayed >= g.Rules.MaxHands {
			g.Round.Phase = PhaseGameOver
			return
		}
		g.Round.Dealer = (g.Round.Dealer + 1) % g.Rules.Players
		g.ResetHand()
	default:
		// Leaster: no teams, the blind goes to the last trick's winner.
		g.Round.Leaster = true
		g.Round.Phase = PhasePlayTricks
		g.Round.Leader = (g.Round.Dealer + 1) % g.Rules.Players
	}
}

func applyBury(g *GameState, player int, a Action) error {
	if player != g.Round.Picker {
		return ErrOnlyPicker
	}
	if a.Type != ActionBury {
		return fmt.Errorf("%w: %v during burying", ErrWrongPhase, a.Type)
	}
	if len(a.Cards) != g.Rules.BurySize {
		return ErrBuryCount
	}
	hand := g.Players[player].Hand
	failCount := 0
	for _, c := range hand {
		if !IsTrump(c) {
			failCount++
		}
	}
	allowedTrump := g.Rules.BurySize - failCount
	if allowedTrump < 0 {
		allowedTrump = 0
	}
	trumpBuried := 0
	for _, c := range a.Cards {
		if IsTrump(c) {
			trumpBuried++
		}
	}
	if trumpBuried > allowedTrump {
		return ErrBuryTrump
	}
	// Validate the whole set, with multiplicity, before touching the hand:
	// a rejected bury must leave the state unchanged.
	remaining := append([]Card(nil), hand...)
	for _, c := range a.Cards {
		if !removeCard(&remaining, c) {
			return fmt.Errorf("%w: %v", ErrCardNotInHand, c)
		}
	}
	g.Players[player].Hand = remaining
	g.Round.Buried = append([]Card(nil), a.Cards...)
	g.Round.Phase = PhaseCalling
	return nil
}

// CallableSuits lists the fail suits the picker may call: not diamonds,
// and the suit's ace not in the picker's post-bury hand. The ace may sit
// in the buried pair; calling such a suit is legal and the picker then
// plays without a partner.
func CallableSuits(g GameState) []Suit {
	if g.Round.Picker < 0 {
		return nil
	}
	hand := g.Players[g.Round.Picker].Hand
	out := []Suit{}
	for _, s := range []Suit{SuitClubs, SuitSpades, SuitHearts} {
		if !holdsCard(hand, Card{Suit: s, Rank: RankA}) {
			out = append(out, s)
		}
	}
	return out
}

func applyCalling(g *GameState, player int, a Action) error {
	if player != g.Round.Picker {
		return ErrOnlyPicker
	}
	switch a.Type {
	case ActionCallSuit:
		if a.Suit == nil || *a.Suit == SuitDiamonds || *a.Suit == SuitTrump {
			return ErrInvalidCallSuit
		}
		if holdsCard(g.Players[player].Hand, Card{Suit: *a.Suit, Rank: RankA}) {
			return ErrOwnAceCall
		}
		suit := *a.Suit
		g.Round.CalledSuit = &suit
		startPlay(g)
		return nil
	case ActionGoAlone:
		g.Round.Alone = true
		startPlay(g)
		return nil
	default:
		return fmt.Errorf("%w: %v during calling", ErrWrongPhase, a.Type)
	}
}

func startPlay(g *GameState) {
	g.Round.Phase = PhasePlayTricks
	g.Round.Leader = (g.Round.Dealer + 1) % g.Rules.Players
	g.Round.TrickCards = nil
	g.Round.TrickOrder = nil
}

// inCrackWindow reports whether stake declarations are still open: play has
// begun but no card of the first trick has hit the table.
func inCrackWindow(g GameState) bool {
	return g.Round.Phase == PhasePlayTricks &&
		!g.Round.Leaster &&
		len(g.Round.TrickHistory) == 0 &&
		len(g.Round.TrickCards) == 0
}

func holdsCalledAce(g GameState, player int) bool {
	if g.Round.CalledSuit == nil {
		return false
	}
	return holdsCard(g.Players[player].Hand, Card{Suit: *g.Round.CalledSuit, Rank: RankA})
}

func onPickerSide(g GameState, player int) bool {
	return player == g.Round.Picker || holdsCalledAce(g, player)
}

func legalDeclarations(g GameState, player int) []Action {
	if !inCrackWindow(g) {
		return nil
	}
	out := []Action{}
	if g.Rules.CracksEnabled {
		if !g.Round.Cracked && !onPickerSide(g, player) {
			out = append(out, Action{Type: ActionCrack})
		}
		if g.Round.Cracked && !g.Round.ReCracked && onPickerSide(g, player) {
			out = append(out, Action{Type: ActionReCrack})
		}
	}
	if g.Rules.BlitzEnabled && !g.Round.Blitzed && player == g.Round.Picker {
		hand := g.Players[player].Hand
		if holdsCard(hand, Card{Suit: SuitClubs, Rank: RankQ}) && holdsCard(hand, Card{Suit: SuitSpades, Rank: RankQ}) {
			out = append(out, Action{Type: ActionDeclareBlitz})
		}
	}
	return out
}

func applyDeclaration(g *GameState, player int, a Action) error {
	if !inCrackWindow(*g) {
		return ErrCrackWindow
	}
	if !g.Rules.CracksEnabled && (a.Type == ActionCrack || a.Type == ActionReCrack) {
		return ErrDisabled
	}
	switch a.Type {
	case ActionCrack:
		if onPickerSide(*g, player) {
			return ErrNotDefender
		}
		if g.Round.Cracked {
			return ErrAlreadyDeclared
		}
		g.Round.Cracked = true
	case ActionReCrack:
		if !g.Round.Cracked {
			return ErrNoCrackToAnswer
		}
		if !onPickerSide(*g, player) {
			return ErrNotPickerSide
		}
		if g.Round.ReCracked {
			return ErrAlreadyDeclared
		}
		g.Round.ReCracked = true
	case ActionDeclareBlitz:
		if !g.Rules.BlitzEnabled {
			return ErrDisabled
		}
		if player != g.Round.Picker {
			return ErrOnlyPicker
		}
		if g.Round.Blitzed {
			return ErrAlreadyDeclared
		}
		hand := g.Players[player].Hand
		if !holdsCard(hand, Card{Suit: SuitClubs, Rank: RankQ}) || !holdsCard(hand, Card{Suit: SuitSpades, Rank: RankQ}) {
			return ErrBlitzQueens
		}
		g.Round.Blitzed = true
	}
	return nil
}

func applyPlay(g *GameState, player int, a Action) error {
	if a.Type != ActionPlayCard || a.Card == nil {
		return fmt.Errorf("%w: %v during play", ErrWrongPhase, a.Type)
	}
	if len(g.Round.TrickOrder) == 0 {
		g.Round.TrickOrder = buildTrickOrder(g.Round.Leader, g.Rules.Players)
	}
	expected := g.Round.TrickOrder[len(g.Round.TrickCards)]
	if player != expected {
		return ErrNotYourTurn
	}
	legal := legalPlays(*g, player)
	if !actionInList(Action{Type: ActionPlayCard, Card: a.Card}, legal) {
		if holdsCard(g.Players[player].Hand, *a.Card) {
			return fmt.Errorf("%w: %v", ErrMustFollowSuit, *a.Card)
		}
		return fmt.Errorf("%w: %v", ErrCardNotInHand, *a.Card)
	}
	if !removeCard(&g.Players[player].Hand, *a.Card) {
		return fmt.Errorf("%w: %v", ErrCardNotInHand, *a.Card)
	}

	// The called ace reveals the partner the moment it hits the table.
	if g.Round.CalledSuit != nil && !g.Round.PartnerRevealed &&
		a.Card.Suit == *g.Round.CalledSuit && a.Card.Rank == RankA {
		g.Round.Partner = player
		g.Round.PartnerRevealed = true
	}

	g.Round.TrickCards = append(g.Round.TrickCards, *a.Card)
	if len(g.Round.TrickCards) == g.Rules.Players {
		winner := TrickWinner(g.Round.TrickOrder, g.Round.TrickCards)
		g.Players[winner].Tricks = append(g.Players[winner].Tricks, append([]Card(nil), g.Round.TrickCards...))
		g.Round.TrickHistory = append(g.Round.TrickHistory, Trick{
			Order:  append([]int(nil), g.Round.TrickOrder...),
			Cards:  append([]Card(nil), g.Round.TrickCards...),
			Winner: winner,
		})
		g.Round.Leader = winner
		g.Round.TrickCards = nil
		g.Round.TrickOrder = nil

		if len(g.Players[winner].Hand) == 0 {
			g.Round.Phase = PhaseScoreHand
			scoreHand(g)
		}
	}
	return nil
}

func legalPlays(g GameState, player int) []Action {
	if g.Round.Phase != PhasePlayTricks {
		return nil
	}
	order := g.Round.TrickOrder
	if len(order) == 0 {
		order = buildTrickOrder(g.Round.Leader, g.Rules.Players)
	}
	if len(g.Round.TrickCards) >= len(order) {
		return nil
	}
	if player != order[len(g.Round.TrickCards)] {
		return nil
	}
	hand := g.Players[player].Hand
	if len(hand) == 0 {
		return nil
	}
	if len(g.Round.TrickCards) > 0 {
		led := EffectiveSuit(g.Round.TrickCards[0])
		if hasEffectiveSuit(hand, led) {
			return cardsToActions(filterByEffectiveSuit(hand, led))
		}
	}
	return cardsToActions(hand)
}

func cardsToActions(cards []Card) []Action {
	out := make([]Action, 0, len(cards))
	for i := range cards {
		c := cards[i]
		out = append(out, Action{Type: ActionPlayCard, Card: &c})
	}
	return out
}

func buildTrickOrder(leader, players int) []int {
	order := make([]int, 0, players)
	for i := 0; i < players; i++ {
		order = append(order, (leader+i)%players)
	}
	return order
}

func hasEffectiveSuit(cards []Card, suit Suit) bool {
	for _, c := range cards {
		if EffectiveSuit(c) == suit {
			return true
		}
	}
	return false
}

func filterByEffectiveSuit(cards []Card, suit Suit) []Card {
	out := []Card{}
	for _, c := range cards {
		if EffectiveSuit(c) == suit {
			out = append(out, c)
		}
	}
	return out
}

func holdsCard(cards []Card, card Card) bool {
	for _, c := range cards {
		if c == card {
			return true
		}
	}
	return false
}

func removeCard(hand *[]Card, card Card) bool {
	for i, c := range *hand {
		if c == card {
			*hand = append((*hand)[:i], (*hand)[i+1:]...)
			return true
		}
	}
	return false
}

func actionInList(a Action, list []Action) bool {
	for _, l := range list {
		if a.Type != l.Type {
			continue
		}
		if a.Type == ActionPlayCard && l.Card != nil && a.Card != nil && *a.Card == *l.Card {
			return true
		}
	}
	return false
}
