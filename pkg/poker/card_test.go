package poker

import (
	"encoding/json"
	"testing"
)

func TestParseCard(t *testing.T) {
	tests := []struct {
		in       string
		wantRank Rank
		wantSuit Suit
	}{
		{"As", Ace, Spades},
		{"Td", Ten, Diamonds},
		{"10d", Ten, Diamonds},
		{"9h", Nine, Hearts},
		{"2c", Two, Clubs},
		{"A♠", Ace, Spades},
		{"kH", King, Hearts},
	}
	for _, tt := range tests {
		c, err := ParseCard(tt.in)
		if err != nil {
			t.Errorf("ParseCard(%q) failed: %v", tt.in, err)
			continue
		}
		if c.Rank() != tt.wantRank || c.Suit() != tt.wantSuit {
			t.Errorf("ParseCard(%q) = %s, want %s%s", tt.in, c, tt.wantRank, tt.wantSuit)
		}
	}

	for _, bad := range []string{"", "A", "1s", "Xs", "Ax", "11h"} {
		if _, err := ParseCard(bad); err == nil {
			t.Errorf("ParseCard(%q) should fail", bad)
		}
	}
}

func TestCardJSONRoundTrip(t *testing.T) {
	orig := MustCard("Qd")
	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var back Card
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if back != orig {
		t.Errorf("round trip %s != %s", back, orig)
	}
}

func TestFormatCards(t *testing.T) {
	if got := FormatCards(cards("As", "Kd")); got != "A♠ K♦" {
		t.Errorf("FormatCards = %q", got)
	}
	if got := FormatCards(nil); got != "none" {
		t.Errorf("FormatCards(nil) = %q", got)
	}
}
