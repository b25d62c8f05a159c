package poker

import (
	"fmt"
	"math/rand"
)

// Deck represents a single 52-card deck.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck creates a shuffled deck using the given random source.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}

	suits := []Suit{Spades, Hearts, Diamonds, Clubs}
	for _, suit := range suits {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, Card{rank: rank, suit: suit})
		}
	}
	d.Shuffle()

	return d
}

// Shuffle randomizes the order of the remaining cards.
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the top card.
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// Burn discards the top card before a street is dealt.
func (d *Deck) Burn() bool {
	_, ok := d.Draw()
	return ok
}

// Size returns the number of cards remaining.
func (d *Deck) Size() int {
	return len(d.cards)
}

// checkDeckIntegrity verifies that exactly one instance of each of the 52
// cards exists across the given card sets. Used by the hand after dealing.
func checkDeckIntegrity(sets ...[]Card) error {
	seen := make(map[Card]int, 52)
	total := 0
	for _, set := range sets {
		for _, c := range set {
			seen[c]++
			total++
			if seen[c] > 1 {
				return fmt.Errorf("duplicate card %s in play", c)
			}
		}
	}
	if total != 52 {
		return fmt.Errorf("card count %d != 52", total)
	}
	return nil
}
