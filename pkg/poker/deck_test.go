package poker

import (
	"math/rand"
	"testing"
)

func TestDeckHas52DistinctCards(t *testing.T) {
	d := NewDeck(rand.New(rand.NewSource(1)))
	if d.Size() != 52 {
		t.Fatalf("deck size = %d, want 52", d.Size())
	}

	seen := make(map[Card]bool)
	for {
		c, ok := d.Draw()
		if !ok {
			break
		}
		if seen[c] {
			t.Fatalf("duplicate card %s", c)
		}
		seen[c] = true
	}
	if len(seen) != 52 {
		t.Errorf("drew %d distinct cards, want 52", len(seen))
	}
}

func TestDeckDeterministicWithSeed(t *testing.T) {
	a := NewDeck(rand.New(rand.NewSource(7)))
	b := NewDeck(rand.New(rand.NewSource(7)))
	for i := 0; i < 52; i++ {
		ca, _ := a.Draw()
		cb, _ := b.Draw()
		if ca != cb {
			t.Fatalf("decks diverge at card %d: %s vs %s", i, ca, cb)
		}
	}
}

func TestDeckBurnDiscardsOne(t *testing.T) {
	d := NewDeck(rand.New(rand.NewSource(3)))
	if !d.Burn() {
		t.Fatal("burn failed on a full deck")
	}
	if d.Size() != 51 {
		t.Errorf("size after burn = %d, want 51", d.Size())
	}
}

func TestCheckDeckIntegrity(t *testing.T) {
	d := NewDeck(rand.New(rand.NewSource(4)))
	var drawn []Card
	for i := 0; i < 5; i++ {
		c, _ := d.Draw()
		drawn = append(drawn, c)
	}
	if err := checkDeckIntegrity(d.cards, drawn); err != nil {
		t.Errorf("intact deck reported broken: %v", err)
	}
	if err := checkDeckIntegrity(d.cards, drawn, drawn[:1]); err == nil {
		t.Error("duplicate card not detected")
	}
	if err := checkDeckIntegrity(d.cards); err == nil {
		t.Error("missing cards not detected")
	}
}
