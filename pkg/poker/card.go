package poker

import (
	"encoding/json"
	"fmt"
)

// Suit represents a card suit.
type Suit byte

const (
	Spades   Suit = 's'
	Hearts   Suit = 'h'
	Diamonds Suit = 'd'
	Clubs    Suit = 'c'
)

var suitSymbols = map[Suit]string{
	Spades:   "♠",
	Hearts:   "♥",
	Diamonds: "♦",
	Clubs:    "♣",
}

// String returns the unicode symbol for the suit.
func (s Suit) String() string {
	if sym, ok := suitSymbols[s]; ok {
		return sym
	}
	return "?"
}

// Rank represents a card rank, 2 through 14 where Ace is 14.
// For the wheel straight (A-2-3-4-5) the Ace ranks low.
type Rank int

const (
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

// String returns the short rank label ("2".."10", "J", "Q", "K", "A").
func (r Rank) String() string {
	switch r {
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		if r >= Two && r <= Ten {
			return fmt.Sprintf("%d", int(r))
		}
		return "?"
	}
}

// Card represents a playing card.
type Card struct {
	rank Rank
	suit Suit
}

// NewCard creates a card from a rank and suit. It does not validate;
// use ParseCard for untrusted input.
func NewCard(rank Rank, suit Suit) Card {
	return Card{rank: rank, suit: suit}
}

// ParseCard parses compact notation such as "As", "Td", "9h" or the
// symbol form "A♠". Ten may be written "T" or "10".
func ParseCard(s string) (Card, error) {
	runes := []rune(s)
	if len(runes) < 2 {
		return Card{}, fmt.Errorf("%w: card %q too short", ErrInvalidInput, s)
	}

	var rank Rank
	rest := runes[1:]
	switch runes[0] {
	case 'A', 'a':
		rank = Ace
	case 'K', 'k':
		rank = King
	case 'Q', 'q':
		rank = Queen
	case 'J', 'j':
		rank = Jack
	case 'T', 't':
		rank = Ten
	case '1':
		if len(runes) < 3 || runes[1] != '0' {
			return Card{}, fmt.Errorf("%w: bad rank in card %q", ErrInvalidInput, s)
		}
		rank = Ten
		rest = runes[2:]
	default:
		if runes[0] >= '2' && runes[0] <= '9' {
			rank = Rank(runes[0] - '0')
		} else {
			return Card{}, fmt.Errorf("%w: bad rank in card %q", ErrInvalidInput, s)
		}
	}

	if len(rest) != 1 {
		return Card{}, fmt.Errorf("%w: bad card %q", ErrInvalidInput, s)
	}
	var suit Suit
	switch rest[0] {
	case 's', 'S', '♠':
		suit = Spades
	case 'h', 'H', '♥':
		suit = Hearts
	case 'd', 'D', '♦':
		suit = Diamonds
	case 'c', 'C', '♣':
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("%w: bad suit in card %q", ErrInvalidInput, s)
	}

	return Card{rank: rank, suit: suit}, nil
}

// MustCard is ParseCard for tests and static card literals; it panics on
// malformed input.
func MustCard(s string) Card {
	c, err := ParseCard(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Rank returns the card's rank.
func (c Card) Rank() Rank { return c.rank }

// Suit returns the card's suit.
func (c Card) Suit() Suit { return c.suit }

// String returns a display form such as "A♠".
func (c Card) String() string {
	return c.rank.String() + c.suit.String()
}

// cardJSON is the wire form of a card.
type cardJSON struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

// MarshalJSON implements json.Marshaler.
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(cardJSON{
		Rank: c.rank.String(),
		Suit: string(rune(c.suit)),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Card) UnmarshalJSON(data []byte) error {
	var cj cardJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return err
	}
	parsed, err := ParseCard(cj.Rank + cj.Suit)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// FormatCards renders a card slice for logs, e.g. "A♠ K♦ 2♣".
func FormatCards(cards []Card) string {
	if len(cards) == 0 {
		return "none"
	}
	out := ""
	for i, c := range cards {
		if i > 0 {
			out += " "
		}
		out += c.String()
	}
	return out
}
