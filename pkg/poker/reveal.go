package poker

import (
	"cardroom/pkg/statemachine"
)

// RevealController paces the release of a predetermined runout. Once every
// remaining player is all-in the board is already decided inside the hand,
// but observers only learn each street when an explicit advance request
// arrives, so a UI can insert its own dramatic pauses.
//
// The controller is a two-state machine: awaiting a reveal request, then
// revealing one street. When the board completes, the reveal step resolves
// the showdown and the machine terminates.
type RevealController struct {
	hand *Hand
	sm   *statemachine.Machine[RevealController]
	err  error
}

func newRevealController(h *Hand) *RevealController {
	rc := &RevealController{hand: h}
	rc.sm = statemachine.New(rc, stateAwaitRevealRequest)
	return rc
}

// stateAwaitRevealRequest holds until a reveal is requested. Advance
// dispatches through this state, so its only job is handing off to the
// reveal step when streets remain.
func stateAwaitRevealRequest(rc *RevealController) statemachine.StateFn[RevealController] {
	if len(rc.hand.runout) == 0 {
		return nil
	}
	return stateRevealStreet
}

// stateRevealStreet releases exactly one predetermined street. After the
// river it resolves the showdown and terminates.
func stateRevealStreet(rc *RevealController) statemachine.StateFn[RevealController] {
	h := rc.hand
	street := h.runout[0]
	h.runout = h.runout[1:]

	h.phase++
	h.board = append(h.board, street...)
	h.emit(Event{Type: EventCardDealt, Seat: -1, Cards: street})
	h.emit(Event{Type: EventPhaseAdvanced, Seat: -1, Phase: h.phase})
	h.log.Debugf("hand %d: revealed %s, board %s", h.handNum, h.phase, FormatCards(h.board))

	if len(h.runout) == 0 {
		if err := h.resolveShowdown(); err != nil {
			rc.err = err
		}
		return nil
	}
	return stateAwaitRevealRequest
}

// AdvanceReveal releases the next predetermined street. It returns the
// events the advance produced, which include the showdown and payouts when
// the street completed the board. Calling it when no reveal is pending is a
// WRONG_PHASE rule violation.
func (h *Hand) AdvanceReveal() ([]Event, error) {
	if h.halted {
		return nil, ruleErr(CodeHandHalted, "hand halted after invariant violation")
	}
	if !h.runoutLocked || h.reveal.sm.Done() {
		return nil, ruleErr(CodeWrongPhase, "no reveal pending in phase %s", h.phase)
	}

	rc := h.reveal
	rc.sm.Step() // await -> reveal
	rc.sm.Step() // reveal one street
	if rc.err != nil {
		return h.takeEvents(), rc.err
	}
	return h.takeEvents(), nil
}
