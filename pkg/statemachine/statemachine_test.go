package statemachine

import (
	"testing"
)

type counter struct {
	n int
}

func countUpTo3(c *counter) StateFn[counter] {
	c.n++
	if c.n >= 3 {
		return nil
	}
	return countUpTo3
}

func TestMachineStepsToTerminal(t *testing.T) {
	c := &counter{}
	m := New(c, countUpTo3)

	for i := 0; i < 10; i++ {
		m.Step()
	}
	if c.n != 3 {
		t.Errorf("counter = %d, want 3 (steps past terminal must be no-ops)", c.n)
	}
	if !m.Done() {
		t.Error("machine should be done")
	}
}

func TestMachineNilInitialStateIsTerminal(t *testing.T) {
	c := &counter{}
	m := New(c, nil)
	if !m.Done() {
		t.Fatal("nil initial state is terminal")
	}
	m.Step()
	if c.n != 0 {
		t.Errorf("counter = %d, want 0 (terminal machine must not run states)", c.n)
	}
}
