package poker

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/decred/slog"
)

// Phase is the hand's position in the betting lifecycle.
type Phase int

const (
	PhasePreFlop Phase = iota
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
	PhaseHandOver
)

// String returns the phase label.
func (ph Phase) String() string {
	switch ph {
	case PhasePreFlop:
		return "PRE_FLOP"
	case PhaseFlop:
		return "FLOP"
	case PhaseTurn:
		return "TURN"
	case PhaseRiver:
		return "RIVER"
	case PhaseShowdown:
		return "SHOWDOWN"
	case PhaseHandOver:
		return "HAND_OVER"
	default:
		return "UNKNOWN"
	}
}

// ActionKind is one of the five betting actions.
type ActionKind int

const (
	ActionFold ActionKind = iota
	ActionCheck
	ActionCall
	ActionRaise
	ActionAllIn
)

// String returns the action label.
func (a ActionKind) String() string {
	switch a {
	case ActionFold:
		return "FOLD"
	case ActionCheck:
		return "CHECK"
	case ActionCall:
		return "CALL"
	case ActionRaise:
		return "RAISE"
	case ActionAllIn:
		return "ALL_IN"
	default:
		return "UNKNOWN"
	}
}

// streetCards maps a betting phase to the number of community cards its
// close reveals.
func streetCards(ph Phase) int {
	switch ph {
	case PhasePreFlop:
		return 3
	case PhaseFlop, PhaseTurn:
		return 1
	default:
		return 0
	}
}

// HandConfig configures a single hand.
type HandConfig struct {
	Players    []*Player // 2-10 seats in table order
	Dealer     int       // seat index of the button
	SmallBlind int64
	BigBlind   int64
	HandNum    int
	Rng        *rand.Rand  // optional; defaults to a time-seeded source
	Log        slog.Logger // optional
}

// Hand is the authoritative betting state machine for one hand. It
// exclusively owns Player and board state from blind posting to payout.
// A Hand is never reused: the table builds a fresh one per deal.
//
// Hand is not safe for concurrent use; the action gateway serializes all
// access to it.
type Hand struct {
	log     slog.Logger
	players []*Player
	deck    *Deck

	board  []Card
	phase  Phase
	dealer int
	sb, bb int64

	currentBet int64
	minRaise   int64
	actionOn   int
	handNum    int

	pots   []Pot
	awards []PotAward

	// runout holds the predetermined remaining streets once no further
	// betting is possible. The reveal controller releases them one street
	// per advance request; observers never see them early.
	runout       [][]Card
	runoutLocked bool
	reveal       *RevealController

	// baseline is the chip total at hand start; conservation against it is
	// checked after every mutation. A failed check halts the hand.
	baseline int64
	halted   bool

	events []Event
}

// NewHand deals a new hand: resets seats, posts blinds, and deals hole
// cards. The returned hand is in PRE_FLOP with action on the correct seat;
// call TakeEvents for the setup event stream.
func NewHand(cfg HandConfig) (*Hand, error) {
	if len(cfg.Players) < 2 || len(cfg.Players) > 10 {
		return nil, fmt.Errorf("%w: need 2-10 players, got %d", ErrInvalidInput, len(cfg.Players))
	}
	if cfg.SmallBlind <= 0 || cfg.BigBlind < cfg.SmallBlind {
		return nil, fmt.Errorf("%w: bad blinds %d/%d", ErrInvalidInput, cfg.SmallBlind, cfg.BigBlind)
	}
	if cfg.Dealer < 0 || cfg.Dealer >= len(cfg.Players) {
		return nil, fmt.Errorf("%w: dealer seat %d out of range", ErrInvalidInput, cfg.Dealer)
	}

	rng := cfg.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	log := cfg.Log
	if log == nil {
		log = slog.Disabled
	}

	h := &Hand{
		log:      log,
		players:  cfg.Players,
		deck:     NewDeck(rng),
		phase:    PhasePreFlop,
		dealer:   cfg.Dealer,
		sb:       cfg.SmallBlind,
		bb:       cfg.BigBlind,
		minRaise: cfg.BigBlind,
		handNum:  cfg.HandNum,
		actionOn: -1,
	}
	h.reveal = newRevealController(h)

	inHand := 0
	for _, p := range h.players {
		p.resetForHand()
		h.baseline += p.Stack
		if p.Status == StatusActive {
			inHand++
		}
	}
	if inHand < 2 {
		return nil, fmt.Errorf("%w: need 2 players with chips, got %d", ErrInvalidInput, inHand)
	}

	h.players[h.dealer].IsDealer = true
	if err := h.postBlinds(); err != nil {
		return nil, err
	}
	if err := h.dealHoleCards(); err != nil {
		return nil, err
	}

	h.actionOn = h.firstToAct()
	h.emit(Event{Type: EventPhaseAdvanced, Seat: -1, Phase: PhasePreFlop})
	if h.actionOn < 0 {
		// The blinds alone put every seat all-in. There is no betting round
		// to open; lock the runout immediately so the reveal controller can
		// take the hand to showdown.
		h.returnUncalled()
		if err := h.lockRunout(); err != nil {
			return nil, err
		}
	}
	h.log.Debugf("hand %d: dealer=%d blinds=%d/%d actionOn=%d",
		h.handNum, h.dealer, h.sb, h.bb, h.actionOn)

	return h, nil
}

// postBlinds posts small and big blinds, going all-in for short stacks.
// Heads-up the dealer posts the small blind.
func (h *Hand) postBlinds() error {
	sbSeat := h.nextInHand(h.dealer)
	if h.headsUp() {
		sbSeat = h.dealerInHand()
	}
	bbSeat := h.nextInHand(sbSeat)
	if sbSeat < 0 || bbSeat < 0 || sbSeat == bbSeat {
		return fmt.Errorf("%w: cannot assign blinds", ErrInvalidInput)
	}

	sb := h.players[sbSeat]
	sb.IsSmallBlind = true
	posted := sb.placeBet(h.sb)
	h.emit(Event{Type: EventBetApplied, Seat: sbSeat, Kind: "small_blind", Amount: posted})
	if sb.Status == StatusAllIn {
		h.log.Debugf("hand %d: seat %d all-in posting small blind (%d)", h.handNum, sbSeat, posted)
	}

	bb := h.players[bbSeat]
	bb.IsBigBlind = true
	posted = bb.placeBet(h.bb)
	h.emit(Event{Type: EventBetApplied, Seat: bbSeat, Kind: "big_blind", Amount: posted})
	if bb.Status == StatusAllIn {
		h.log.Debugf("hand %d: seat %d all-in posting big blind (%d)", h.handNum, bbSeat, posted)
	}

	h.currentBet = h.bb
	return nil
}

// dealHoleCards deals two cards to every seat in the hand, one at a time
// around the table, then verifies single-deck integrity.
func (h *Hand) dealHoleCards() error {
	for i := 0; i < 2; i++ {
		for off := 1; off <= len(h.players); off++ {
			p := h.players[(h.dealer+off)%len(h.players)]
			if !p.InHand() {
				continue
			}
			card, ok := h.deck.Draw()
			if !ok {
				return fmt.Errorf("%w: deck exhausted during deal", ErrInvalidInput)
			}
			p.HoleCards = append(p.HoleCards, card)
			h.emit(Event{Type: EventCardDealt, Seat: p.Seat, Cards: []Card{card}})
		}
	}

	sets := [][]Card{h.deck.cards, h.board}
	for _, p := range h.players {
		sets = append(sets, p.HoleCards)
	}
	if err := checkDeckIntegrity(sets...); err != nil {
		return h.invariant("deck integrity after deal: " + err.Error())
	}
	return nil
}

// Apply validates and applies one action for the given seat. Illegal
// actions are rejected with a RuleError and never mutate state. The
// returned events describe everything that happened, including any street
// deals or payouts the action triggered.
func (h *Hand) Apply(seat int, kind ActionKind, amount int64) ([]Event, error) {
	if h.halted {
		return nil, ruleErr(CodeHandHalted, "hand halted after invariant violation")
	}
	if h.phase > PhaseRiver || h.runoutLocked {
		return nil, ruleErr(CodeWrongPhase, "no betting in phase %s", h.phase)
	}
	if seat != h.actionOn {
		return nil, ruleErr(CodeNotYourTurn, "action is on seat %d, not %d", h.actionOn, seat)
	}
	p := h.players[seat]

	switch kind {
	case ActionFold:
		p.Status = StatusFolded
		h.emit(Event{Type: EventBetApplied, Seat: seat, Kind: "fold"})

	case ActionCheck:
		if p.RoundBet != h.currentBet {
			return nil, ruleErr(CodeCannotCheck, "must call %d or fold", h.currentBet-p.RoundBet)
		}
		h.emit(Event{Type: EventBetApplied, Seat: seat, Kind: "check"})

	case ActionCall:
		deficit := h.currentBet - p.RoundBet
		if deficit <= 0 {
			return nil, ruleErr(CodeNothingToCall, "nothing to call, check instead")
		}
		paid := p.placeBet(deficit)
		kindLabel := "call"
		if p.Status == StatusAllIn {
			// Stack-limited call promotes to all-in.
			kindLabel = "all_in"
		}
		h.emit(Event{Type: EventBetApplied, Seat: seat, Kind: kindLabel, Amount: paid})

	case ActionRaise:
		if err := h.applyRaise(p, amount); err != nil {
			return nil, err
		}

	case ActionAllIn:
		if p.Stack == 0 {
			return nil, ruleErr(CodeInsufficientFunds, "no chips to push")
		}
		pushed := p.placeBet(p.Stack)
		if p.RoundBet > h.currentBet {
			increment := p.RoundBet - h.currentBet
			h.currentBet = p.RoundBet
			if increment >= h.minRaise {
				// A full raise: betting reopens for everyone else.
				if increment > h.minRaise {
					h.minRaise = increment
				}
				h.reopenBetting(seat)
			}
			// A short all-in does not count as a raise: players who already
			// matched the previous bet may call the excess but not re-raise.
		}
		h.emit(Event{Type: EventBetApplied, Seat: seat, Kind: "all_in", Amount: pushed})

	default:
		return nil, fmt.Errorf("%w: unknown action %d", ErrInvalidInput, kind)
	}

	p.acted = true
	if err := h.checkConservation("after " + kind.String()); err != nil {
		return h.takeEvents(), err
	}

	if err := h.advanceAfterAction(); err != nil {
		return h.takeEvents(), err
	}
	return h.takeEvents(), nil
}

// applyRaise validates and applies a raise by the given increment above the
// current bet. A raise the stack cannot afford is rejected, never silently
// downgraded: the caller must issue CALL or ALL_IN instead.
func (h *Hand) applyRaise(p *Player, increment int64) error {
	deficit := h.currentBet - p.RoundBet
	if p.Stack <= deficit {
		return ruleErr(CodeInsufficientFunds,
			"stack %d cannot cover the %d deficit and raise", p.Stack, deficit)
	}
	if increment < h.minRaise {
		return ruleErr(CodeBelowMinRaise, "raise %d below minimum %d", increment, h.minRaise)
	}
	if p.Stack < deficit+increment {
		return ruleErr(CodeInsufficientFunds,
			"stack %d cannot afford raise of %d over a %d deficit", p.Stack, increment, deficit)
	}
	if p.acted {
		// The turn can only come back around to a player who already acted
		// when a short all-in landed in between, and that does not reopen
		// raising for them.
		return ruleErr(CodeBelowMinRaise, "betting was not reopened for seat %d", p.Seat)
	}

	paid := p.placeBet(deficit + increment)
	h.currentBet = p.RoundBet
	if increment > h.minRaise {
		h.minRaise = increment
	}
	h.reopenBetting(p.Seat)
	h.emit(Event{Type: EventBetApplied, Seat: p.Seat, Kind: "raise", Amount: paid})
	return nil
}

// reopenBetting clears the acted flag of every other seat that can still
// act, giving them a fresh turn against the new bet.
func (h *Hand) reopenBetting(raiser int) {
	for _, p := range h.players {
		if p.Seat != raiser && p.CanAct() {
			p.acted = false
		}
	}
}

// advanceAfterAction moves the hand forward after a successful action:
// early exit on a fold-out, round close, or the next seat's turn.
func (h *Hand) advanceAfterAction() error {
	if h.countInHand() == 1 {
		return h.finishFoldWin()
	}
	if h.roundComplete() {
		return h.closeRound()
	}
	h.actionOn = h.nextActive(h.actionOn)
	return nil
}

// roundComplete reports whether the betting round is closed: every player
// who can still act has acted since the last raise and matched the current
// bet.
func (h *Hand) roundComplete() bool {
	for _, p := range h.players {
		if !p.CanAct() {
			continue
		}
		if !p.acted || p.RoundBet < h.currentBet {
			return false
		}
	}
	return true
}

// closeRound ends the current betting round: either the hand locks into an
// all-in runout, advances one street, or goes to showdown after the river.
func (h *Hand) closeRound() error {
	actionable := 0
	for _, p := range h.players {
		if p.CanAct() {
			actionable++
		}
	}

	if actionable <= 1 && h.phase < PhaseRiver {
		// No further betting is possible. The remaining board is determined
		// now but released street by street on explicit advance requests.
		h.returnUncalled()
		if err := h.lockRunout(); err != nil {
			return err
		}
		return nil
	}

	if h.phase == PhaseRiver {
		h.returnUncalled()
		return h.resolveShowdown()
	}

	h.startRound(h.phase + 1)
	if err := h.dealStreet(streetCards(h.phase - 1)); err != nil {
		return err
	}
	h.actionOn = h.firstToAct()
	h.emit(Event{Type: EventPhaseAdvanced, Seat: -1, Phase: h.phase})
	h.log.Debugf("hand %d: %s, board %s, actionOn=%d",
		h.handNum, h.phase, FormatCards(h.board), h.actionOn)
	return nil
}

// startRound resets per-round betting state. The minimum raise resets to
// the big blind at the start of every round; within a round it never
// decreases.
func (h *Hand) startRound(next Phase) {
	h.phase = next
	h.currentBet = 0
	h.minRaise = h.bb
	h.actionOn = -1
	for _, p := range h.players {
		p.RoundBet = 0
		p.acted = false
	}
}

// dealStreet burns one card and deals n community cards.
func (h *Hand) dealStreet(n int) error {
	h.deck.Burn()
	cards := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		card, ok := h.deck.Draw()
		if !ok {
			return h.invariant("deck exhausted dealing street")
		}
		cards = append(cards, card)
	}
	h.board = append(h.board, cards...)
	h.emit(Event{Type: EventCardDealt, Seat: -1, Cards: cards})
	return nil
}

// lockRunout predetermines the remaining streets. The board is fixed from
// this instant, but nothing is emitted: the reveal controller releases one
// street per advance request.
func (h *Hand) lockRunout() error {
	h.runoutLocked = true
	h.actionOn = -1
	for ph := h.phase; ph < PhaseRiver; ph++ {
		h.deck.Burn()
		n := streetCards(ph)
		street := make([]Card, 0, n)
		for i := 0; i < n; i++ {
			card, ok := h.deck.Draw()
			if !ok {
				return h.invariant("deck exhausted predetermining runout")
			}
			street = append(street, card)
		}
		h.runout = append(h.runout, street)
	}
	h.log.Debugf("hand %d: betting closed, %d street(s) awaiting reveal",
		h.handNum, len(h.runout))
	return nil
}

// resolveShowdown evaluates every contesting hand, builds the pots, and
// pays them out.
func (h *Hand) resolveShowdown() error {
	h.phase = PhaseShowdown
	h.emit(Event{Type: EventPhaseAdvanced, Seat: -1, Phase: PhaseShowdown})

	for _, p := range h.players {
		if !p.InHand() {
			continue
		}
		rank, err := Evaluate(append(append([]Card(nil), p.HoleCards...), h.board...))
		if err != nil {
			return h.invariant("showdown evaluation: " + err.Error())
		}
		p.handRank = &rank
		h.log.Debugf("hand %d: seat %d shows %s (%s)",
			h.handNum, p.Seat, FormatCards(p.HoleCards), rank.Desc)
	}

	return h.payout()
}

// finishFoldWin ends the hand immediately when a single player remains.
// The pot is awarded without reveal and without a showdown phase.
func (h *Hand) finishFoldWin() error {
	h.returnUncalled()
	return h.payout()
}

// payout builds pots from total contributions, distributes them, and closes
// the hand.
func (h *Hand) payout() error {
	h.pots = buildPots(h.players)
	awards, err := distributePots(h.pots, h.players, h.dealer)
	if err != nil {
		return h.invariant("pot distribution: " + err.Error())
	}
	h.awards = awards
	for _, a := range awards {
		h.emit(Event{Type: EventPotAwarded, Seat: a.Seat, Amount: a.Amount, PotIdx: a.PotIdx})
		h.log.Debugf("hand %d: seat %d wins %d from pot %d", h.handNum, a.Seat, a.Amount, a.PotIdx)
	}

	h.phase = PhaseHandOver
	h.actionOn = -1
	h.emit(Event{Type: EventHandOver, Seat: -1, Phase: PhaseHandOver})
	return h.checkConservation("after payout")
}

// returnUncalled refunds the uncalled portion of the highest bet in the
// final betting round, so side pots never contain chips nobody contested.
func (h *Hand) returnUncalled() {
	var hi, second int64
	hiSeat := -1
	for _, p := range h.players {
		switch {
		case p.RoundBet > hi:
			second = hi
			hi = p.RoundBet
			hiSeat = p.Seat
		case p.RoundBet > second:
			second = p.RoundBet
		}
	}
	if hiSeat < 0 || hi == second {
		return
	}

	uncalled := hi - second
	p := h.players[hiSeat]
	p.Stack += uncalled
	p.RoundBet -= uncalled
	p.HandBet -= uncalled
	if p.Status == StatusAllIn && p.Stack > 0 {
		p.Status = StatusActive
	}
	h.emit(Event{Type: EventBetApplied, Seat: hiSeat, Kind: "uncalled_return", Amount: uncalled})
	h.log.Debugf("hand %d: returned uncalled %d to seat %d", h.handNum, uncalled, hiSeat)
}

// checkConservation verifies that no chip was created or destroyed. Before
// payout the invariant is stacks + contributions; afterwards the pots have
// been paid back into stacks.
func (h *Hand) checkConservation(when string) error {
	var total int64
	for _, p := range h.players {
		total += p.Stack
		if h.phase != PhaseHandOver {
			total += p.HandBet
		}
	}
	if total != h.baseline {
		return h.invariant(fmt.Sprintf("chip conservation %s: have %d, want %d",
			when, total, h.baseline))
	}
	return nil
}

// invariant records a fatal engine defect: the hand halts and every further
// mutation is refused.
func (h *Hand) invariant(check string) error {
	h.halted = true
	err := &InvariantError{Check: check, Dump: spew.Sdump(h.Snapshot())}
	h.log.Errorf("hand %d: %v", h.handNum, err)
	return err
}

// LegalOptions describes the actions currently legal for a seat, with the
// call amount and raise bounds the AI adapter needs.
type LegalOptions struct {
	Seat       int
	CanCheck   bool
	CanCall    bool
	CallAmount int64 // stack-capped chips needed to call
	CanRaise   bool
	MinRaise   int64 // minimum legal increment over the current bet
	MaxRaise   int64 // maximum increment the stack can afford
}

// LegalActions returns the legal-action set for the seat whose turn it is.
func (h *Hand) LegalActions(seat int) (LegalOptions, error) {
	if h.halted {
		return LegalOptions{}, ruleErr(CodeHandHalted, "hand halted")
	}
	if h.phase > PhaseRiver || h.runoutLocked {
		return LegalOptions{}, ruleErr(CodeWrongPhase, "no betting in phase %s", h.phase)
	}
	if seat != h.actionOn {
		return LegalOptions{}, ruleErr(CodeNotYourTurn, "action is on seat %d", h.actionOn)
	}

	p := h.players[seat]
	deficit := h.currentBet - p.RoundBet
	opts := LegalOptions{Seat: seat}
	if deficit == 0 {
		opts.CanCheck = true
	} else {
		opts.CanCall = true
		opts.CallAmount = deficit
		if opts.CallAmount > p.Stack {
			opts.CallAmount = p.Stack
		}
	}
	if !p.acted && p.Stack >= deficit+h.minRaise {
		opts.CanRaise = true
		opts.MinRaise = h.minRaise
		opts.MaxRaise = p.Stack - deficit
	}
	return opts, nil
}

// Accessors. The gateway serializes access; readers needing a consistent
// view should use Snapshot.

// Phase returns the current phase.
func (h *Hand) Phase() Phase { return h.phase }

// ActionOn returns the seat whose turn it is, or -1.
func (h *Hand) ActionOn() int { return h.actionOn }

// CurrentBet returns the highest bet of the current round.
func (h *Hand) CurrentBet() int64 { return h.currentBet }

// MinRaise returns the minimum legal raise increment.
func (h *Hand) MinRaise() int64 { return h.minRaise }

// Board returns a copy of the community cards released so far.
func (h *Hand) Board() []Card { return append([]Card(nil), h.board...) }

// Pots returns the pots built at the close of betting (nil before then).
func (h *Hand) Pots() []Pot { return append([]Pot(nil), h.pots...) }

// Awards returns the payouts made at hand end.
func (h *Hand) Awards() []PotAward { return append([]PotAward(nil), h.awards...) }

// HandNum returns the hand counter.
func (h *Hand) HandNum() int { return h.handNum }

// Halted reports whether an invariant violation froze the hand.
func (h *Hand) Halted() bool { return h.halted }

// Over reports whether the hand has finished.
func (h *Hand) Over() bool { return h.phase == PhaseHandOver }

// RevealPending reports whether predetermined streets are waiting on an
// advance request.
func (h *Hand) RevealPending() bool { return h.runoutLocked && !h.reveal.sm.Done() }

// TakeEvents drains the pending event stream (hand setup events after
// NewHand; otherwise events are returned by the mutating calls).
func (h *Hand) TakeEvents() []Event { return h.takeEvents() }

func (h *Hand) emit(ev Event) {
	h.events = append(h.events, ev)
}

func (h *Hand) takeEvents() []Event {
	evs := h.events
	h.events = nil
	return evs
}

// Seat-order helpers.

func (h *Hand) headsUp() bool {
	return h.countInHand() == 2
}

func (h *Hand) countInHand() int {
	n := 0
	for _, p := range h.players {
		if p.InHand() {
			n++
		}
	}
	return n
}

// dealerInHand returns the button seat, or the nearest in-hand seat
// clockwise from it when the button player is busted.
func (h *Hand) dealerInHand() int {
	if h.players[h.dealer].InHand() {
		return h.dealer
	}
	return h.nextInHand(h.dealer)
}

// nextInHand returns the next seat clockwise that is still in the hand.
func (h *Hand) nextInHand(from int) int {
	n := len(h.players)
	for off := 1; off <= n; off++ {
		p := h.players[(from+off)%n]
		if p.InHand() {
			return p.Seat
		}
	}
	return -1
}

// nextActive returns the next seat clockwise that can still act.
func (h *Hand) nextActive(from int) int {
	n := len(h.players)
	for off := 1; off <= n; off++ {
		p := h.players[(from+off)%n]
		if p.CanAct() {
			return p.Seat
		}
	}
	return -1
}

// firstToAct returns the opening seat for the current round: left of the
// big blind pre-flop (the dealer/small blind heads-up), left of the button
// otherwise.
func (h *Hand) firstToAct() int {
	if h.phase == PhasePreFlop {
		for _, p := range h.players {
			if p.IsBigBlind {
				return h.nextActive(p.Seat)
			}
		}
		return -1
	}
	return h.nextActive(h.dealer)
}
