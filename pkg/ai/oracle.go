// Package ai provides an equity oracle and a policy adapter that turn
// win-probability estimates into legal betting actions.
package ai

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	ph "github.com/paulhankin/poker"

	"cardroom/pkg/poker"
)

// Estimate is the oracle's equity figure for a spot: probabilities over
// showdown outcomes plus the half-width of a 95% confidence interval.
type Estimate struct {
	Win      float64
	Tie      float64
	Loss     float64
	Samples  int
	Interval float64
}

// Equity folds ties into a single scalar, counting a tie as half a win.
func (e Estimate) Equity() float64 {
	return e.Win + e.Tie/2
}

// Oracle estimates showdown equity for a hole/board spot against some
// number of unseen opponents.
type Oracle interface {
	Estimate(ctx context.Context, hole, board []poker.Card, opponents int) (Estimate, error)
}

// MonteCarlo is a sampling Oracle. Each sample deals random opponent holes
// and a random board completion, then compares 7-card ranks. Safe for
// concurrent use.
type MonteCarlo struct {
	Samples int // defaults to 2000

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMonteCarlo returns a sampler with its own seeded source. A nil rng
// uses a time seed.
func NewMonteCarlo(samples int, rng *rand.Rand) *MonteCarlo {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &MonteCarlo{Samples: samples, rng: rng}
}

// Estimate samples until the budget runs out or ctx is cancelled.
// Cancellation mid-run returns the partial estimate alongside ctx.Err, so
// callers can still use whatever converged.
func (m *MonteCarlo) Estimate(ctx context.Context, hole, board []poker.Card, opponents int) (Estimate, error) {
	if len(hole) != 2 {
		return Estimate{}, fmt.Errorf("%w: need 2 hole cards, got %d", poker.ErrInvalidInput, len(hole))
	}
	if len(board) > 5 {
		return Estimate{}, fmt.Errorf("%w: board has %d cards", poker.ErrInvalidInput, len(board))
	}
	if opponents < 1 || opponents > 9 {
		return Estimate{}, fmt.Errorf("%w: %d opponents", poker.ErrInvalidInput, opponents)
	}

	samples := m.Samples
	if samples <= 0 {
		samples = 2000
	}

	hero := make([]ph.Card, 0, 7)
	for _, c := range hole {
		hero = append(hero, toLibCard(c))
	}
	known := make([]ph.Card, 0, 5)
	for _, c := range board {
		known = append(known, toLibCard(c))
	}
	stub := remainingDeck(append(append([]poker.Card(nil), hole...), board...))

	m.mu.Lock()
	rng := rand.New(rand.NewSource(m.rng.Int63()))
	m.mu.Unlock()

	var win, tie int
	need := 5 - len(board)
	deal := make([]ph.Card, len(stub))
	copy(deal, stub)

	done := 0
	var ctxErr error
	for ; done < samples; done++ {
		if done%256 == 0 {
			select {
			case <-ctx.Done():
				ctxErr = ctx.Err()
			default:
			}
			if ctxErr != nil {
				break
			}
		}
		rng.Shuffle(len(deal), func(i, j int) { deal[i], deal[j] = deal[j], deal[i] })

		var a7 [7]ph.Card
		copy(a7[:2], hero)
		copy(a7[2:2+len(known)], known)
		copy(a7[2+len(known):], deal[:need])
		heroScore := ph.Eval7(&a7)

		var bestOpp int16 = math.MinInt16
		off := need
		for o := 0; o < opponents; o++ {
			var b7 [7]ph.Card
			copy(b7[:2], deal[off:off+2])
			copy(b7[2:2+len(known)], known)
			copy(b7[2+len(known):], deal[:need])
			off += 2
			if score := ph.Eval7(&b7); score > bestOpp {
				bestOpp = score
			}
		}
		switch {
		case heroScore > bestOpp:
			win++
		case heroScore == bestOpp:
			tie++
		}
	}

	est := Estimate{Samples: done}
	if done > 0 {
		est.Win = float64(win) / float64(done)
		est.Tie = float64(tie) / float64(done)
		est.Loss = 1 - est.Win - est.Tie
		p := est.Equity()
		est.Interval = 1.96 * math.Sqrt(p*(1-p)/float64(done))
	}
	return est, ctxErr
}

// toLibCard converts an engine card to the evaluator library's encoding,
// which numbers ranks 1..13 with the ace low at 1.
func toLibCard(c poker.Card) ph.Card {
	var s ph.Suit
	switch c.Suit() {
	case 'c':
		s = ph.Club
	case 'd':
		s = ph.Diamond
	case 'h':
		s = ph.Heart
	default:
		s = ph.Spade
	}
	r := ph.Rank(c.Rank())
	if c.Rank() == poker.Ace {
		r = ph.Rank(1)
	}
	card, _ := ph.MakeCard(s, r)
	return card
}

// remainingDeck returns the library encoding of every card not in used.
func remainingDeck(used []poker.Card) []ph.Card {
	taken := make(map[poker.Card]bool, len(used))
	for _, c := range used {
		taken[c] = true
	}
	out := make([]ph.Card, 0, 52-len(used))
	for _, suit := range []poker.Suit{poker.Spades, poker.Hearts, poker.Diamonds, poker.Clubs} {
		for r := poker.Two; r <= poker.Ace; r++ {
			c := poker.NewCard(r, suit)
			if taken[c] {
				continue
			}
			out = append(out, toLibCard(c))
		}
	}
	return out
}
