package poker

import (
	"testing"

	chehsunliu "github.com/chehsunliu/poker"
	hankin "github.com/paulhankin/poker"
)

func cards(specs ...string) []Card {
	out := make([]Card, len(specs))
	for i, s := range specs {
		out[i] = MustCard(s)
	}
	return out
}

func TestEvaluateCategories(t *testing.T) {
	tests := []struct {
		name          string
		cards         []Card
		wantCategory  HandCategory
		wantTiebreaks []Rank
	}{
		{
			name:          "royal flush",
			cards:         cards("Ah", "Kh", "Qh", "Jh", "Th", "3c", "4d"),
			wantCategory:  RoyalFlush,
			wantTiebreaks: []Rank{Ace},
		},
		{
			name:          "straight flush",
			cards:         cards("9s", "8s", "7s", "6s", "5s", "2h", "3d"),
			wantCategory:  StraightFlush,
			wantTiebreaks: []Rank{Nine},
		},
		{
			name:          "four of a kind",
			cards:         cards("Ah", "As", "Ac", "Ad", "Kh", "Qc", "Js"),
			wantCategory:  FourOfAKind,
			wantTiebreaks: []Rank{Ace, King},
		},
		{
			name:          "full house",
			cards:         cards("Kh", "Ks", "Kc", "2d", "2h", "7c", "9s"),
			wantCategory:  FullHouse,
			wantTiebreaks: []Rank{King, Two},
		},
		{
			name:          "flush",
			cards:         cards("Ad", "Jd", "9d", "6d", "3d", "Kc", "Ks"),
			wantCategory:  Flush,
			wantTiebreaks: []Rank{Ace, Jack, Nine, Six, Three},
		},
		{
			name:          "straight",
			cards:         cards("9h", "8c", "7d", "6s", "5h", "Kd", "Kc"),
			wantCategory:  Straight,
			wantTiebreaks: []Rank{Nine},
		},
		{
			name:          "wheel straight ranks ace low",
			cards:         cards("Ah", "2c", "3d", "4s", "5h", "Kd", "9c"),
			wantCategory:  Straight,
			wantTiebreaks: []Rank{Five},
		},
		{
			name:          "three of a kind",
			cards:         cards("7h", "7s", "7c", "Kd", "2h"),
			wantCategory:  ThreeOfAKind,
			wantTiebreaks: []Rank{Seven, King, Two},
		},
		{
			name:          "two pair",
			cards:         cards("Jh", "Js", "4c", "4d", "Ah"),
			wantCategory:  TwoPair,
			wantTiebreaks: []Rank{Jack, Four, Ace},
		},
		{
			name:          "pair",
			cards:         cards("Th", "Ts", "Ac", "8d", "3h"),
			wantCategory:  Pair,
			wantTiebreaks: []Rank{Ten, Ace, Eight, Three},
		},
		{
			name:          "high card",
			cards:         cards("Ah", "Js", "9c", "6d", "2h"),
			wantCategory:  HighCard,
			wantTiebreaks: []Rank{Ace, Jack, Nine, Six, Two},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rank, err := Evaluate(tt.cards)
			if err != nil {
				t.Fatalf("Evaluate failed: %v", err)
			}
			if rank.Category != tt.wantCategory {
				t.Errorf("category = %v, want %v", rank.Category, tt.wantCategory)
			}
			if len(rank.Tiebreaks) != len(tt.wantTiebreaks) {
				t.Fatalf("tiebreaks = %v, want %v", rank.Tiebreaks, tt.wantTiebreaks)
			}
			for i, r := range tt.wantTiebreaks {
				if rank.Tiebreaks[i] != r {
					t.Errorf("tiebreaks = %v, want %v", rank.Tiebreaks, tt.wantTiebreaks)
					break
				}
			}
			if len(rank.BestFive) != 5 {
				t.Errorf("best five has %d cards", len(rank.BestFive))
			}
		})
	}
}

func TestEvaluateRejectsBadInput(t *testing.T) {
	if _, err := Evaluate(cards("Ah", "Kh", "Qh", "Jh")); err == nil {
		t.Error("expected error for 4 cards")
	}
	if _, err := Evaluate(cards("Ah", "Kh", "Qh", "Jh", "Th", "9h", "8h", "7h")); err == nil {
		t.Error("expected error for 8 cards")
	}
	if _, err := Evaluate(cards("Ah", "Ah", "Qh", "Jh", "Th")); err == nil {
		t.Error("expected error for duplicate card")
	}
}

// The chosen five must be a subset of the input and at least as strong as
// every other 5-card selection.
func TestEvaluateBestFiveIsOptimalSubset(t *testing.T) {
	seven := cards("Ah", "Kd", "Qh", "Jc", "Th", "2s", "2d")
	full, err := Evaluate(seven)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	inInput := make(map[Card]bool)
	for _, c := range seven {
		inInput[c] = true
	}
	for _, c := range full.BestFive {
		if !inInput[c] {
			t.Errorf("best five contains %s, which is not among the inputs", c)
		}
	}

	var five [5]Card
	var rec func(start, k int)
	rec = func(start, k int) {
		if k == 5 {
			sub, err := Evaluate(five[:])
			if err != nil {
				t.Fatalf("subset Evaluate failed: %v", err)
			}
			if Compare(full, sub) < 0 {
				t.Errorf("subset %v beats the chosen five %v", five, full.BestFive)
			}
			return
		}
		for i := start; i <= len(seven)-(5-k); i++ {
			five[k] = seven[i]
			rec(i+1, k+1)
		}
	}
	rec(0, 0)
}

func TestCompareOrdersHands(t *testing.T) {
	kings, err := Evaluate(cards("As", "Ks", "Kh", "7h", "2d", "9c", "3s"))
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	queens, err := Evaluate(cards("Qd", "Qc", "Kh", "7h", "2d", "9c", "3s"))
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if kings.Category != Pair || queens.Category != Pair {
		t.Fatalf("expected two pairs, got %v and %v", kings.Category, queens.Category)
	}
	if Compare(kings, queens) <= 0 {
		t.Error("pair of kings should beat pair of queens")
	}
	if Compare(queens, kings) >= 0 {
		t.Error("comparison should be antisymmetric")
	}

	// Same pair, kicker decides.
	aceKicker, _ := Evaluate(cards("Th", "Ts", "Ac", "8d", "3h"))
	jackKicker, _ := Evaluate(cards("Td", "Tc", "Jc", "8s", "3d"))
	if Compare(aceKicker, jackKicker) <= 0 {
		t.Error("ace kicker should beat jack kicker")
	}

	// Identical ranks in different suits split.
	a, _ := Evaluate(cards("Ah", "Kh", "9c", "6d", "2h"))
	b, _ := Evaluate(cards("As", "Ks", "9d", "6c", "2s"))
	if Compare(a, b) != 0 {
		t.Error("suit-only differences must compare equal")
	}
}

// The derived category must agree with the backing library's rank class
// for the same score.
func TestCategoryAgreesWithLibraryRankClass(t *testing.T) {
	classFor := map[HandCategory]int32{
		RoyalFlush:    1, // the library folds royals into straight flushes
		StraightFlush: 1,
		FourOfAKind:   2,
		FullHouse:     3,
		Flush:         4,
		Straight:      5,
		ThreeOfAKind:  6,
		TwoPair:       7,
		Pair:          8,
		HighCard:      9,
	}

	hands := [][]Card{
		cards("Ah", "Kh", "Qh", "Jh", "Th"),
		cards("9s", "8s", "7s", "6s", "5s"),
		cards("Ah", "As", "Ac", "Ad", "Kh"),
		cards("Kh", "Ks", "Kc", "2d", "2h"),
		cards("Ad", "Jd", "9d", "6d", "3d"),
		cards("9h", "8c", "7d", "6s", "5h"),
		cards("7h", "7s", "7c", "Kd", "2h"),
		cards("Jh", "Js", "4c", "4d", "Ah"),
		cards("Th", "Ts", "Ac", "8d", "3h"),
		cards("Ah", "Js", "9c", "6d", "2h"),
	}
	for _, hand := range hands {
		rank, err := Evaluate(hand)
		if err != nil {
			t.Fatalf("Evaluate failed: %v", err)
		}
		if got := chehsunliu.RankClass(rank.score); got != classFor[rank.Category] {
			t.Errorf("%s: category %v maps to class %d, library says %d",
				FormatCards(hand), rank.Category, classFor[rank.Category], got)
		}
	}
}

// Compare must agree with an independent evaluator on every pairing of a
// set of 7-card hands sharing a board.
func TestCompareAgreesWithIndependentEvaluator(t *testing.T) {
	board := cards("Kh", "7h", "2d", "9c", "3s")
	holes := [][]Card{
		cards("Ad", "Kc"), // kings, ace kicker
		cards("Qs", "Qd"), // queens
		cards("9h", "9d"), // set of nines
		cards("Ah", "5h"), // ace high (flush draw missed)
		cards("Kd", "Qc"), // kings, queen kicker
	}

	toHankin := func(c Card) hankin.Card {
		var s hankin.Suit
		switch c.Suit() {
		case Clubs:
			s = hankin.Club
		case Diamonds:
			s = hankin.Diamond
		case Hearts:
			s = hankin.Heart
		default:
			s = hankin.Spade
		}
		r := hankin.Rank(c.Rank())
		if c.Rank() == Ace {
			r = hankin.Rank(1)
		}
		card, err := hankin.MakeCard(s, r)
		if err != nil {
			t.Fatalf("MakeCard failed: %v", err)
		}
		return card
	}
	score7 := func(hole []Card) int16 {
		var a7 [7]hankin.Card
		all := append(append([]Card(nil), hole...), board...)
		for i, c := range all {
			a7[i] = toHankin(c)
		}
		return hankin.Eval7(&a7)
	}

	for i := range holes {
		for j := range holes {
			a, err := Evaluate(append(append([]Card(nil), holes[i]...), board...))
			if err != nil {
				t.Fatalf("Evaluate failed: %v", err)
			}
			b, err := Evaluate(append(append([]Card(nil), holes[j]...), board...))
			if err != nil {
				t.Fatalf("Evaluate failed: %v", err)
			}
			got := Compare(a, b)
			sa, sb := score7(holes[i]), score7(holes[j])
			want := 0
			if sa > sb {
				want = 1
			} else if sa < sb {
				want = -1
			}
			if got != want {
				t.Errorf("Compare(%v, %v) = %d, independent evaluator says %d",
					holes[i], holes[j], got, want)
			}
		}
	}
}

func TestCompareWheelBelowSixHigh(t *testing.T) {
	wheel, _ := Evaluate(cards("Ah", "2c", "3d", "4s", "5h"))
	sixHigh, _ := Evaluate(cards("2h", "3c", "4d", "5s", "6h"))
	if Compare(wheel, sixHigh) >= 0 {
		t.Error("wheel must lose to a six-high straight")
	}
}
