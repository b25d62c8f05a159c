package poker

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks malformed cards or card counts. It is fatal to the
// call that produced it, never to the table.
var ErrInvalidInput = errors.New("invalid input")

// RuleCode identifies why an action was rejected.
type RuleCode string

const (
	CodeNotYourTurn       RuleCode = "NOT_YOUR_TURN"
	CodeWrongPhase        RuleCode = "WRONG_PHASE"
	CodeInsufficientFunds RuleCode = "INSUFFICIENT_FUNDS"
	CodeBelowMinRaise     RuleCode = "BELOW_MIN_RAISE"
	CodeCannotCheck       RuleCode = "CANNOT_CHECK"
	CodeNothingToCall     RuleCode = "NOTHING_TO_CALL"
	CodeHandHalted        RuleCode = "HAND_HALTED"
)

// RuleError reports an illegal action. The hand state is untouched when a
// RuleError is returned.
type RuleError struct {
	Code   RuleCode
	Reason string
}

// Error implements the error interface.
func (e *RuleError) Error() string {
	return fmt.Sprintf("illegal action (%s): %s", e.Code, e.Reason)
}

// RuleErrorf builds a RuleError with a formatted reason.
func RuleErrorf(code RuleCode, format string, args ...interface{}) *RuleError {
	return &RuleError{Code: code, Reason: fmt.Sprintf(format, args...)}
}

func ruleErr(code RuleCode, format string, args ...interface{}) *RuleError {
	return RuleErrorf(code, format, args...)
}

// IsRuleError reports whether err is an action-legality rejection and
// returns its code.
func IsRuleError(err error) (RuleCode, bool) {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Code, true
	}
	return "", false
}

// InvariantError reports a chip-conservation or deck-integrity failure.
// This is always a programming defect: the hand halts and refuses further
// mutation once one is raised.
type InvariantError struct {
	Check string
	Dump  string
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Check)
}
