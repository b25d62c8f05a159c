package ai

import (
	"context"
	"time"

	"github.com/decred/slog"
	"github.com/google/uuid"

	"cardroom/pkg/gateway"
	"cardroom/pkg/poker"
)

// Decision is a concrete action the adapter chose.
type Decision struct {
	Kind   poker.ActionKind
	Amount int64
}

// Decide maps an equity estimate onto the legal-action set using pot odds.
// The raise size targets two thirds of the pot, clamped into the legal
// window; a desired raise that is not legal degrades to a call or check,
// never to an illegal submission.
func Decide(est Estimate, opts poker.LegalOptions, potTotal int64, raiseEquity float64) Decision {
	equity := est.Equity()

	wantRaise := equity >= raiseEquity && opts.CanRaise
	if wantRaise {
		amount := (potTotal * 2) / 3
		if amount < opts.MinRaise {
			amount = opts.MinRaise
		}
		if amount > opts.MaxRaise {
			amount = opts.MaxRaise
		}
		return Decision{Kind: poker.ActionRaise, Amount: amount}
	}

	if opts.CanCheck {
		return Decision{Kind: poker.ActionCheck}
	}

	// Facing a bet: call when equity beats the price.
	price := float64(opts.CallAmount) / float64(potTotal+opts.CallAmount)
	if equity >= price {
		return Decision{Kind: poker.ActionCall}
	}
	return Decision{Kind: poker.ActionFold}
}

// Agent plays one seat through a gateway using an equity oracle.
type Agent struct {
	Gateway *gateway.Gateway
	Oracle  Oracle
	Seat    int

	// Timeout bounds each oracle call. An estimate that does not finish in
	// time falls back to checking when free and folding otherwise.
	Timeout time.Duration

	// RaiseEquity is the equity above which the agent raises. Zero means
	// the 0.65 default.
	RaiseEquity float64

	Log slog.Logger
}

// Act takes the agent's turn. It is a no-op (false) when the action is not
// on the agent's seat.
func (a *Agent) Act(ctx context.Context) (gateway.Result, bool) {
	log := a.Log
	if log == nil {
		log = slog.Disabled
	}

	opts, err := a.Gateway.LegalActions(a.Seat)
	if err != nil {
		return gateway.Result{}, false
	}
	snap := a.Gateway.Snapshot()

	var hole []poker.Card
	opponents := 0
	for _, s := range snap.Seats {
		if s.Seat == a.Seat {
			hole = s.HoleCards
			continue
		}
		if s.Status == poker.StatusActive || s.Status == poker.StatusAllIn {
			opponents++
		}
	}

	dec := a.fallback(opts)
	timeout := a.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	estCtx, cancel := context.WithTimeout(ctx, timeout)
	est, estErr := a.Oracle.Estimate(estCtx, hole, snap.Board, opponents)
	cancel()

	if estErr != nil && est.Samples == 0 {
		log.Warnf("seat %d: oracle gave no estimate (%v), playing safe", a.Seat, estErr)
	} else {
		raiseEquity := a.RaiseEquity
		if raiseEquity == 0 {
			raiseEquity = 0.65
		}
		dec = Decide(est, opts, snap.PotTotal, raiseEquity)
		log.Debugf("seat %d: equity %.3f±%.3f over %d samples, %s",
			a.Seat, est.Equity(), est.Interval, est.Samples, dec.Kind)
	}

	res := a.Gateway.Submit(gateway.Request{
		Seat:   a.Seat,
		Kind:   dec.Kind,
		Amount: dec.Amount,
		Token:  uuid.NewString(),
	})
	return res, true
}

// fallback is the safe action when no estimate is available.
func (a *Agent) fallback(opts poker.LegalOptions) Decision {
	if opts.CanCheck {
		return Decision{Kind: poker.ActionCheck}
	}
	return Decision{Kind: poker.ActionFold}
}
