// Package gateway serializes concurrent player actions onto a hand. All
// mutation goes through a single mutex, so the engine itself stays free of
// locking; the gateway adds idempotent retries, cheap turn pre-checks that
// reject obvious losers without taking the lock, and a broadcast stream of
// everything that happened.
package gateway

import (
	"sync"
	"sync/atomic"

	"github.com/decred/slog"

	"cardroom/pkg/poker"
)

// tokenWindow bounds the idempotency cache. Retries older than the last
// tokenWindow remembered submissions are treated as new requests.
const tokenWindow = 128

// Request is one player action submission.
type Request struct {
	Seat   int
	Kind   poker.ActionKind
	Amount int64  // raise increment over the current bet; ignored otherwise
	Token  string // optional idempotency token for at-least-once transports
}

// Result is what a submission produced. A resubmitted token returns the
// original Result unchanged, with Replayed set.
type Result struct {
	Events   []poker.Event
	Snapshot poker.HandSnapshot
	Err      error
	Replayed bool
}

// Config configures a gateway.
type Config struct {
	Hand    *poker.Hand
	Log     slog.Logger
	EventCh chan<- poker.Event // optional broadcast sink
}

// Gateway is the single writer for a hand. Safe for concurrent use.
type Gateway struct {
	mu   sync.Mutex
	hand *poker.Hand
	log  slog.Logger

	// Mirrors of the turn state, maintained under mu and read lock-free by
	// submitters to fail fast on stale turns.
	actionOn atomic.Int32
	bettable atomic.Bool

	// tokens is read lock-free so replays resolve even after the turn has
	// moved on; writes and eviction happen under mu.
	tokens sync.Map
	order  []string

	eventCh chan<- poker.Event
}

// New wraps a freshly dealt hand. The hand's setup events are published
// immediately.
func New(cfg Config) *Gateway {
	log := cfg.Log
	if log == nil {
		log = slog.Disabled
	}
	g := &Gateway{
		hand:    cfg.Hand,
		log:     log,
		eventCh: cfg.EventCh,
	}
	g.publish(cfg.Hand.TakeEvents())
	g.syncTurn()
	return g
}

// Submit applies one action. Requests for a seat that is visibly not on
// turn, or in a phase with no betting, are rejected before the hand lock
// is taken; such rejections are not cached. A request whose token already
// reached the engine replays the recorded result instead of acting twice.
func (g *Gateway) Submit(req Request) Result {
	// A known token replays its original result no matter whose turn it is
	// now; the retry of an accepted action must not fail just because the
	// action already moved the game forward.
	if req.Token != "" {
		if cached, ok := g.tokens.Load(req.Token); ok {
			replay := *cached.(*Result)
			replay.Replayed = true
			return replay
		}
	}

	// Lock-free pre-checks. These can only reject; anything that passes is
	// re-validated by the engine under the lock.
	if !g.bettable.Load() {
		return Result{Err: poker.RuleErrorf(poker.CodeWrongPhase, "no betting in progress")}
	}
	if int(g.actionOn.Load()) != req.Seat {
		return Result{Err: poker.RuleErrorf(poker.CodeNotYourTurn,
			"action is not on seat %d", req.Seat)}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if req.Token != "" {
		if cached, ok := g.tokens.Load(req.Token); ok {
			replay := *cached.(*Result)
			replay.Replayed = true
			return replay
		}
	}

	events, err := g.hand.Apply(req.Seat, req.Kind, req.Amount)
	g.publish(events)
	g.syncTurn()

	res := Result{Events: events, Snapshot: g.hand.Snapshot(), Err: err}
	if req.Token != "" {
		g.remember(req.Token, &res)
	}
	return res
}

// AdvanceReveal releases the next predetermined street after an all-in.
func (g *Gateway) AdvanceReveal() Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	events, err := g.hand.AdvanceReveal()
	g.publish(events)
	g.syncTurn()
	return Result{Events: events, Snapshot: g.hand.Snapshot(), Err: err}
}

// TimeoutFold folds the given seat if, and only if, the action is still on
// it. Callers arm a timer when a turn starts and invoke this on expiry; a
// player who acted in the meantime makes this a harmless no-op.
func (g *Gateway) TimeoutFold(seat int) (Result, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.hand.ActionOn() != seat || g.hand.Over() {
		return Result{}, false
	}
	g.log.Infof("hand %d: seat %d timed out, folding", g.hand.HandNum(), seat)
	events, err := g.hand.Apply(seat, poker.ActionFold, 0)
	g.publish(events)
	g.syncTurn()
	return Result{Events: events, Snapshot: g.hand.Snapshot(), Err: err}, true
}

// LegalActions returns the engine's legal-action set for a seat.
func (g *Gateway) LegalActions(seat int) (poker.LegalOptions, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hand.LegalActions(seat)
}

// Snapshot returns a consistent read-only view of the hand.
func (g *Gateway) Snapshot() poker.HandSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hand.Snapshot()
}

// RevealPending reports whether the hand is waiting on a reveal advance.
func (g *Gateway) RevealPending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hand.RevealPending()
}

// Over reports whether the hand finished.
func (g *Gateway) Over() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hand.Over()
}

// syncTurn refreshes the lock-free turn mirrors. Called under mu.
func (g *Gateway) syncTurn() {
	g.actionOn.Store(int32(g.hand.ActionOn()))
	ph := g.hand.Phase()
	g.bettable.Store(ph <= poker.PhaseRiver && !g.hand.RevealPending() && !g.hand.Halted())
}

// remember caches a result under its token, evicting the oldest entry once
// the window is full. Called under mu.
func (g *Gateway) remember(token string, res *Result) {
	if len(g.order) >= tokenWindow {
		g.tokens.Delete(g.order[0])
		g.order = g.order[1:]
	}
	g.tokens.Store(token, res)
	g.order = append(g.order, token)
}

// publish forwards events to the broadcast channel without ever blocking
// the action path. A full sink drops the event and logs it.
func (g *Gateway) publish(events []poker.Event) {
	if g.eventCh == nil {
		return
	}
	for _, ev := range events {
		select {
		case g.eventCh <- ev:
		default:
			g.log.Warnf("event channel full, dropping %s", ev.Type)
		}
	}
}
