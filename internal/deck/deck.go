// Package deck builds and shuffles the 52-card deck a duel is dealt from.
package deck

import (
	"math/rand"

	"github.com/suitduel/server/internal/models"
)

// Size is the number of cards in a fresh deck.
const Size = 52

// New returns the canonical 52-card deck, suit-major, ranks ascending within
// each suit.
func New() []*models.Card {
	cards := make([]*models.Card, 0, Size)
	for _, suit := range models.Suits {
		for _, rank := range models.Ranks {
			cards = append(cards, &models.Card{Suit: suit, Rank: rank})
		}
	}
	return cards
}

// Shuffle permutes the deck in place with Fisher-Yates using the given source.
// Every permutation is equally likely under an ideal source; crypto-strength
// randomness is not required here.
func Shuffle(cards []*models.Card, r *rand.Rand) {
	for i := len(cards) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// Draw removes and returns the top card (the back of the slice). Returns nil
// and the deck unchanged when the deck is empty.
func Draw(cards []*models.Card) (*models.Card, []*models.Card) {
	if len(cards) == 0 {
		return nil, cards
	}
	top := cards[len(cards)-1]
	return top, cards[:len(cards)-1]
}
