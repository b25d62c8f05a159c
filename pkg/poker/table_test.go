package poker

import (
	"math/rand"
	"testing"
)

// foldOut ends the current hand by folding every seat until one remains.
func foldOut(t *testing.T, h *Hand) {
	t.Helper()
	for !h.Over() {
		if _, err := h.Apply(h.ActionOn(), ActionFold, 0); err != nil {
			t.Fatalf("fold failed: %v", err)
		}
	}
}

func TestTableDealerRotation(t *testing.T) {
	table, err := NewTable(TableConfig{SmallBlind: 1, BigBlind: 2, Rng: rand.New(rand.NewSource(1))})
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := table.AddPlayer("p", "p", 100); err != nil {
			t.Fatalf("AddPlayer failed: %v", err)
		}
	}

	for hand, wantDealer := range []int{0, 1, 2, 0} {
		h, err := table.StartHand()
		if err != nil {
			t.Fatalf("hand %d: StartHand failed: %v", hand, err)
		}
		if h.Snapshot().Dealer != wantDealer {
			t.Errorf("hand %d: dealer = %d, want %d", hand, h.Snapshot().Dealer, wantDealer)
		}
		foldOut(t, h)
	}
}

func TestTableRotationSkipsBustedSeats(t *testing.T) {
	table, err := NewTable(TableConfig{SmallBlind: 1, BigBlind: 2, Rng: rand.New(rand.NewSource(2))})
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := table.AddPlayer("p", "p", 100); err != nil {
			t.Fatalf("AddPlayer failed: %v", err)
		}
	}

	h, err := table.StartHand()
	if err != nil {
		t.Fatalf("StartHand failed: %v", err)
	}
	foldOut(t, h)

	// Seat 1 goes broke between hands; the button must pass over it.
	table.Players()[1].Stack = 0
	h, err = table.StartHand()
	if err != nil {
		t.Fatalf("StartHand failed: %v", err)
	}
	if h.Snapshot().Dealer != 2 {
		t.Errorf("dealer = %d, want 2 (seat 1 is busted)", h.Snapshot().Dealer)
	}
}

func TestTableRefusesBadStates(t *testing.T) {
	table, err := NewTable(TableConfig{SmallBlind: 1, BigBlind: 2, Rng: rand.New(rand.NewSource(3))})
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}

	if _, err := table.StartHand(); err == nil {
		t.Error("StartHand should fail with no players")
	}
	if _, err := table.AddPlayer("p", "p", 0); err == nil {
		t.Error("AddPlayer should reject a zero stack")
	}

	for i := 0; i < 2; i++ {
		if _, err := table.AddPlayer("p", "p", 100); err != nil {
			t.Fatalf("AddPlayer failed: %v", err)
		}
	}
	if _, err := table.StartHand(); err != nil {
		t.Fatalf("StartHand failed: %v", err)
	}
	if _, err := table.StartHand(); err == nil {
		t.Error("StartHand should fail while a hand is live")
	}
	if _, err := table.AddPlayer("p", "p", 100); err == nil {
		t.Error("AddPlayer should fail mid-hand")
	}
}

func TestTableWinner(t *testing.T) {
	table, err := NewTable(TableConfig{SmallBlind: 1, BigBlind: 2, Rng: rand.New(rand.NewSource(4))})
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := table.AddPlayer("p", "p", 100); err != nil {
			t.Fatalf("AddPlayer failed: %v", err)
		}
	}
	if table.Winner() != nil {
		t.Error("no winner while both players have chips")
	}
	table.Players()[0].Stack = 0
	if w := table.Winner(); w == nil || w.Seat != 1 {
		t.Errorf("winner = %+v, want seat 1", table.Winner())
	}
}
