package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCardValueTable checks the named ranks and a sample of numerics.
func TestCardValueTable(t *testing.T) {
	cases := map[string]int{
		"A": 1, "J": 1, "Q": 2, "K": 11,
		"2": 2, "5": 5, "9": 9, "10": 10,
	}
	for rank, want := range cases {
		c := &Card{Suit: SuitSpades, Rank: rank}
		assert.Equal(t, want, c.Value(), "rank %s", rank)
	}
}

// TestCardTotality verifies every one of the 52 cards maps to exactly one
// positive value and one real type, and that the nil sentinel is inert.
func TestCardTotality(t *testing.T) {
	for _, suit := range Suits {
		for _, rank := range Ranks {
			c := &Card{Suit: suit, Rank: rank}
			assert.Greater(t, c.Value(), 0, "%s", c)
			assert.NotEqual(t, TypeNone, c.Type(), "%s", c)
		}
	}

	var none *Card
	assert.Equal(t, 0, none.Value())
	assert.Equal(t, TypeNone, none.Type())
	assert.Equal(t, "nothing", none.String())
}

// TestCardTypeBySuit pins the suit -> effect mapping.
func TestCardTypeBySuit(t *testing.T) {
	require.Equal(t, TypeAttack, (&Card{Suit: SuitSpades, Rank: "7"}).Type())
	require.Equal(t, TypeAttack, (&Card{Suit: SuitClubs, Rank: "7"}).Type())
	require.Equal(t, TypeCounter, (&Card{Suit: SuitDiamonds, Rank: "7"}).Type())
	require.Equal(t, TypeHeal, (&Card{Suit: SuitHearts, Rank: "7"}).Type())
}
