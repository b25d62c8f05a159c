package poker

import (
	"testing"
)

func TestPlaceBetCapsAtStack(t *testing.T) {
	p := NewPlayer(0, "p", "p", 50)

	if got := p.placeBet(20); got != 20 {
		t.Errorf("placeBet(20) = %d", got)
	}
	if p.Stack != 30 || p.RoundBet != 20 || p.HandBet != 20 {
		t.Errorf("after bet: stack %d round %d hand %d", p.Stack, p.RoundBet, p.HandBet)
	}
	if p.Status != StatusActive {
		t.Errorf("status = %v, want ACTIVE", p.Status)
	}

	// Betting more than the stack takes everything and marks all-in.
	if got := p.placeBet(100); got != 30 {
		t.Errorf("placeBet(100) = %d, want the 30 remaining", got)
	}
	if p.Status != StatusAllIn {
		t.Errorf("status = %v, want ALL_IN", p.Status)
	}
	if p.HandBet != 50 {
		t.Errorf("hand bet = %d, want 50", p.HandBet)
	}
}

func TestResetForHand(t *testing.T) {
	p := NewPlayer(2, "id", "name", 100)
	p.placeBet(100)
	p.HoleCards = cards("As", "Kd")
	p.IsDealer = true

	p.resetForHand()
	if p.Status != StatusBusted {
		t.Errorf("broke player status = %v, want BUSTED", p.Status)
	}
	if len(p.HoleCards) != 0 || p.RoundBet != 0 || p.HandBet != 0 || p.IsDealer {
		t.Error("per-hand state not cleared")
	}
	if p.InHand() || p.CanAct() {
		t.Error("busted player must be out of the hand")
	}

	p.Stack = 40
	p.resetForHand()
	if p.Status != StatusActive || !p.CanAct() {
		t.Error("funded player should be active after reset")
	}
}
