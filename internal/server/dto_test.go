package server

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JohnLemonNFT/sheepshead-sub001/internal/engine"
)

func TestActionDTORoundTrip(t *testing.T) {
	hearts := engine.SuitHearts
	aceOfSpades := engine.Card{Suit: engine.SuitSpades, Rank: engine.RankA}
	actions := []engine.Action{
		{Type: engine.ActionPass},
		{Type: engine.ActionPick},
		{Type: engine.ActionBury, Cards: []engine.Card{
			{Suit: engine.SuitHearts, Rank: engine.RankK},
			{Suit: engine.SuitClubs, Rank: engine.Rank9},
		}},
		{Type: engine.ActionCallSuit, Suit: &hearts},
		{Type: engine.ActionGoAlone},
		{Type: engine.ActionDeclareBlitz},
		{Type: engine.ActionCrack},
		{Type: engine.ActionReCrack},
		{Type: engine.ActionPlayCard, Card: &aceOfSpades},
	}
	for _, want := range actions {
		dto := ActionFromEngine(want)
		got, err := dto.ToEngine()
		require.NoError(t, err, "action %v", dto.Type)
		require.Equal(t, want.Type, got.Type)
		if want.Suit != nil {
			require.NotNil(t, got.Suit)
			require.Equal(t, *want.Suit, *got.Suit)
		}
		if want.Card != nil {
			require.NotNil(t, got.Card)
			require.Equal(t, *want.Card, *got.Card)
		}
		require.Equal(t, want.Cards, got.Cards)
	}
}

func TestActionDTORejectsGarbage(t *testing.T) {
	var missing *ActionDTO
	_, err := missing.ToEngine()
	require.Error(t, err)

	_, err = (&ActionDTO{Type: "levitate"}).ToEngine()
	require.Error(t, err)

	_, err = (&ActionDTO{Type: "play_card"}).ToEngine()
	require.Error(t, err, "play without a card")

	_, err = (&ActionDTO{Type: "call_suit", Suit: "X"}).ToEngine()
	require.Error(t, err)

	_, err = (&ActionDTO{Type: "play_card", Card: &CardDTO{Suit: "H", Rank: "11"}}).ToEngine()
	require.Error(t, err)
}

func TestCardDTORoundTrip(t *testing.T) {
	for _, c := range engine.BuildDeck() {
		dto := cardToDTO(c)
		got, err := dto.toEngine()
		require.NoError(t, err)
		require.Equal(t, c, got)
	}
}
