package poker

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/decred/slog"
)

// TableConfig configures a table.
type TableConfig struct {
	SmallBlind int64
	BigBlind   int64
	MaxSeats   int // defaults to 10
	Rng        *rand.Rand
	Log        slog.Logger
}

// Table owns the seats and deals a sequence of hands. The button rotates
// one live seat clockwise per hand; busted players keep their seat but are
// skipped for the button and dealt out.
//
// Table is not safe for concurrent use.
type Table struct {
	cfg     TableConfig
	rng     *rand.Rand
	log     slog.Logger
	players []*Player
	dealer  int
	handNum int
	hand    *Hand
}

// NewTable creates an empty table.
func NewTable(cfg TableConfig) (*Table, error) {
	if cfg.SmallBlind <= 0 || cfg.BigBlind < cfg.SmallBlind {
		return nil, fmt.Errorf("%w: bad blinds %d/%d", ErrInvalidInput, cfg.SmallBlind, cfg.BigBlind)
	}
	if cfg.MaxSeats == 0 {
		cfg.MaxSeats = 10
	}
	if cfg.MaxSeats < 2 || cfg.MaxSeats > 10 {
		return nil, fmt.Errorf("%w: max seats %d out of range", ErrInvalidInput, cfg.MaxSeats)
	}
	rng := cfg.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	log := cfg.Log
	if log == nil {
		log = slog.Disabled
	}
	return &Table{cfg: cfg, rng: rng, log: log, dealer: -1}, nil
}

// AddPlayer seats a new player and returns the seat index. Seating is
// refused once a hand is in progress.
func (t *Table) AddPlayer(id, name string, stack int64) (int, error) {
	if t.hand != nil && !t.hand.Over() {
		return 0, fmt.Errorf("%w: cannot seat players mid-hand", ErrInvalidInput)
	}
	if len(t.players) >= t.cfg.MaxSeats {
		return 0, fmt.Errorf("%w: table full (%d seats)", ErrInvalidInput, t.cfg.MaxSeats)
	}
	if stack <= 0 {
		return 0, fmt.Errorf("%w: stack must be positive, got %d", ErrInvalidInput, stack)
	}
	seat := len(t.players)
	t.players = append(t.players, NewPlayer(seat, id, name, stack))
	t.log.Debugf("seated %s (%s) at seat %d with %d", name, id, seat, stack)
	return seat, nil
}

// StartHand deals the next hand, rotating the button to the next seat that
// still has chips. The first hand puts the button on the lowest funded
// seat.
func (t *Table) StartHand() (*Hand, error) {
	if t.hand != nil && !t.hand.Over() {
		return nil, fmt.Errorf("%w: hand %d still in progress", ErrInvalidInput, t.handNum)
	}
	if t.Funded() < 2 {
		return nil, fmt.Errorf("%w: need 2 funded players, have %d", ErrInvalidInput, t.Funded())
	}

	t.dealer = t.nextFunded(t.dealer)
	t.handNum++

	hand, err := NewHand(HandConfig{
		Players:    t.players,
		Dealer:     t.dealer,
		SmallBlind: t.cfg.SmallBlind,
		BigBlind:   t.cfg.BigBlind,
		HandNum:    t.handNum,
		Rng:        t.rng,
		Log:        t.log,
	})
	if err != nil {
		return nil, err
	}
	t.hand = hand
	return hand, nil
}

// Hand returns the hand in progress, or nil.
func (t *Table) Hand() *Hand { return t.hand }

// Players returns the seated players in seat order.
func (t *Table) Players() []*Player { return t.players }

// Funded counts seats that can still buy into a hand.
func (t *Table) Funded() int {
	n := 0
	for _, p := range t.players {
		if p.Stack > 0 {
			n++
		}
	}
	return n
}

// Winner returns the last player with chips once the table is down to one,
// or nil.
func (t *Table) Winner() *Player {
	var w *Player
	for _, p := range t.players {
		if p.Stack > 0 {
			if w != nil {
				return nil
			}
			w = p
		}
	}
	return w
}

// nextFunded returns the next seat clockwise from the given one that has
// chips. A negative start scans from seat 0.
func (t *Table) nextFunded(from int) int {
	n := len(t.players)
	if from < 0 {
		from = n - 1
	}
	for off := 1; off <= n; off++ {
		p := t.players[(from+off)%n]
		if p.Stack > 0 {
			return p.Seat
		}
	}
	return -1
}
