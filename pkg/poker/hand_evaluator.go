package poker

import (
	"fmt"
	"sort"

	"github.com/chehsunliu/poker"
)

// HandCategory ranks hand types from HighCard (1) up to RoyalFlush (10).
type HandCategory int

const (
	HighCard HandCategory = iota + 1
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var categoryNames = map[HandCategory]string{
	HighCard:      "High Card",
	Pair:          "Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
	RoyalFlush:    "Royal Flush",
}

// String returns the category's display name.
func (c HandCategory) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return "Unknown"
}

// HandRank is the complete evaluation of a hand: the best-possible category
// achievable by choosing exactly 5 cards, plus the ordered tiebreak ranks
// (primary group ranks, then kickers, high to low).
type HandRank struct {
	Category  HandCategory
	Tiebreaks []Rank
	BestFive  []Card
	Desc      string

	// score is the chehsunliu evaluation of the same five cards; lower is
	// better. Kept as a cross-check against the tuple comparison.
	score int32
}

// convertCard converts our Card to the chehsunliu card type.
func convertCard(c Card) poker.Card {
	var rankChar byte
	switch c.rank {
	case Ten:
		rankChar = 'T'
	case Jack:
		rankChar = 'J'
	case Queen:
		rankChar = 'Q'
	case King:
		rankChar = 'K'
	case Ace:
		rankChar = 'A'
	default:
		rankChar = byte('0' + int(c.rank))
	}
	return poker.NewCard(string([]byte{rankChar, byte(c.suit)}))
}

// Evaluate returns the best-possible HandRank achievable by choosing
// exactly 5 of the given 5, 6, or 7 cards. It is a pure function: the only
// failure mode is malformed input (wrong card count or a duplicate card).
func Evaluate(cards []Card) (HandRank, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return HandRank{}, fmt.Errorf("%w: need 5-7 cards, got %d", ErrInvalidInput, len(cards))
	}
	seen := make(map[Card]bool, len(cards))
	for _, c := range cards {
		if c.rank < Two || c.rank > Ace {
			return HandRank{}, fmt.Errorf("%w: bad rank %d", ErrInvalidInput, c.rank)
		}
		if _, ok := suitSymbols[c.suit]; !ok {
			return HandRank{}, fmt.Errorf("%w: bad suit %q", ErrInvalidInput, c.suit)
		}
		if seen[c] {
			return HandRank{}, fmt.Errorf("%w: duplicate card %s", ErrInvalidInput, c)
		}
		seen[c] = true
	}

	converted := make([]poker.Card, len(cards))
	for i, c := range cards {
		converted[i] = convertCard(c)
	}
	best := poker.Evaluate(converted)

	five := bestFiveFor(cards, best)
	category, tiebreaks := classify(five)

	return HandRank{
		Category:  category,
		Tiebreaks: tiebreaks,
		BestFive:  five,
		Desc:      poker.RankString(best),
		score:     best,
	}, nil
}

// bestFiveFor finds the 5-card subset whose chehsunliu evaluation matches
// the full-hand evaluation.
func bestFiveFor(cards []Card, want int32) []Card {
	if len(cards) == 5 {
		out := make([]Card, 5)
		copy(out, cards)
		return out
	}

	var result []Card
	idx := make([]int, 5)
	var five [5]poker.Card
	var rec func(start, k int) bool
	rec = func(start, k int) bool {
		if k == 5 {
			for i, j := range idx {
				five[i] = convertCard(cards[j])
			}
			if poker.Evaluate(five[:]) == want {
				result = make([]Card, 5)
				for i, j := range idx {
					result[i] = cards[j]
				}
				return true
			}
			return false
		}
		for i := start; i <= len(cards)-(5-k); i++ {
			idx[k] = i
			if rec(i+1, k+1) {
				return true
			}
		}
		return false
	}
	rec(0, 0)
	return result
}

// classify derives the category and tiebreak tuple from a 5-card hand.
func classify(five []Card) (HandCategory, []Rank) {
	ranks := make([]Rank, 5)
	for i, c := range five {
		ranks[i] = c.rank
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i] > ranks[j] })

	flush := true
	for _, c := range five[1:] {
		if c.suit != five[0].suit {
			flush = false
			break
		}
	}

	straightHigh, isStraight := straightHighCard(ranks)

	switch {
	case flush && isStraight && straightHigh == Ace:
		return RoyalFlush, []Rank{Ace}
	case flush && isStraight:
		return StraightFlush, []Rank{straightHigh}
	case isStraight:
		return Straight, []Rank{straightHigh}
	case flush:
		return Flush, ranks
	}

	// Group ranks by multiplicity: larger groups first, higher ranks first
	// within equal sizes. The tuple lists each group's rank once.
	counts := make(map[Rank]int)
	for _, r := range ranks {
		counts[r]++
	}
	type group struct {
		rank  Rank
		count int
	}
	groups := make([]group, 0, len(counts))
	for r, n := range counts {
		groups = append(groups, group{rank: r, count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})

	tiebreaks := make([]Rank, len(groups))
	for i, g := range groups {
		tiebreaks[i] = g.rank
	}

	switch {
	case groups[0].count == 4:
		return FourOfAKind, tiebreaks
	case groups[0].count == 3 && groups[1].count == 2:
		return FullHouse, tiebreaks
	case groups[0].count == 3:
		return ThreeOfAKind, tiebreaks
	case groups[0].count == 2 && groups[1].count == 2:
		return TwoPair, tiebreaks
	case groups[0].count == 2:
		return Pair, tiebreaks
	default:
		return HighCard, tiebreaks
	}
}

// straightHighCard reports whether the descending distinct ranks form a
// straight and returns its high card. The wheel A-2-3-4-5 counts with the
// Ace ranking low, so its high card is Five.
func straightHighCard(desc []Rank) (Rank, bool) {
	for i := 1; i < len(desc); i++ {
		if desc[i] == desc[i-1] {
			return 0, false // paired hand, not a straight
		}
	}
	if desc[0]-desc[4] == 4 {
		return desc[0], true
	}
	if desc[0] == Ace && desc[1] == Five && desc[1]-desc[4] == 3 {
		return Five, true
	}
	return 0, false
}

// Compare orders two HandRanks: category first, then the tiebreak tuples
// lexicographically. It returns -1 if a is worse, 0 on a true split, 1 if a
// is better.
func Compare(a, b HandRank) int {
	if a.Category != b.Category {
		if a.Category < b.Category {
			return -1
		}
		return 1
	}
	for i := 0; i < len(a.Tiebreaks) && i < len(b.Tiebreaks); i++ {
		if a.Tiebreaks[i] != b.Tiebreaks[i] {
			if a.Tiebreaks[i] < b.Tiebreaks[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
