package models

// Suit is one of the four standard suits. The suit alone decides what a card
// does when played: spades and clubs attack, diamonds counter, hearts heal.
type Suit string

const (
	SuitSpades   Suit = "spades"
	SuitClubs    Suit = "clubs"
	SuitDiamonds Suit = "diamonds"
	SuitHearts   Suit = "hearts"
)

// Suits lists the four suits in deck construction order.
var Suits = []Suit{SuitSpades, SuitClubs, SuitDiamonds, SuitHearts}

// Ranks lists the thirteen ranks in deck construction order.
var Ranks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

// CardType classifies the effect a played card has during resolution.
type CardType string

const (
	TypeAttack  CardType = "attack"
	TypeCounter CardType = "counter"
	TypeHeal    CardType = "heal"
	TypeNone    CardType = "none"
)

// Card is an immutable (suit, rank) pair. Effect value and type are derived,
// never stored, so a card can't disagree with itself.
type Card struct {
	Suit Suit   `json:"suit"`
	Rank string `json:"rank"`
}

// Value returns the card's effect magnitude: A and J count 1, Q counts 2,
// K counts 11, numeric ranks count face value. A nil card counts 0.
func (c *Card) Value() int {
	if c == nil {
		return 0
	}
	switch c.Rank {
	case "A", "J":
		return 1
	case "Q":
		return 2
	case "K":
		return 11
	case "10":
		return 10
	default:
		// "2".."9"
		return int(c.Rank[0] - '0')
	}
}

// Type returns the effect class derived from the suit. A nil card is TypeNone.
func (c *Card) Type() CardType {
	if c == nil {
		return TypeNone
	}
	switch c.Suit {
	case SuitSpades, SuitClubs:
		return TypeAttack
	case SuitDiamonds:
		return TypeCounter
	case SuitHearts:
		return TypeHeal
	default:
		return TypeNone
	}
}

// String renders the card for log lines, e.g. "Q of hearts".
func (c *Card) String() string {
	if c == nil {
		return "nothing"
	}
	return c.Rank + " of " + string(c.Suit)
}
