package poker

// EventType identifies a table event emitted towards observers. The engine
// is transport-agnostic: events describe state changes, never presentation.
type EventType string

const (
	EventCardDealt     EventType = "card_dealt"
	EventBetApplied    EventType = "bet_applied"
	EventPhaseAdvanced EventType = "phase_advanced"
	EventPotAwarded    EventType = "pot_awarded"
	EventHandOver      EventType = "hand_over"
)

// Event is one state-change notification. Seat is -1 for events that are
// not scoped to a seat (board cards, phase changes).
type Event struct {
	Type   EventType
	Seat   int
	Kind   string
	Amount int64
	Cards  []Card
	Phase  Phase
	PotIdx int
}

// SeatSnapshot is a consistent copy of one seat's public state.
type SeatSnapshot struct {
	Seat         int
	ID           string
	Name         string
	Stack        int64
	RoundBet     int64
	HandBet      int64
	Status       PlayerStatus
	HoleCards    []Card
	IsDealer     bool
	IsSmallBlind bool
	IsBigBlind   bool
}

// HandSnapshot is a point-in-time copy of the full hand state. It is safe
// to hand to any reader; nothing in it aliases live engine state.
type HandSnapshot struct {
	HandNum    int
	Phase      Phase
	Board      []Card
	Seats      []SeatSnapshot
	Pots       []Pot
	PotTotal   int64
	CurrentBet int64
	MinRaise   int64
	ActionOn   int
	Dealer     int
	SmallBlind int64
	BigBlind   int64
}

// Snapshot returns a consistent deep copy of the hand state. Hole cards are
// included; the transport layer decides per observer what to redact.
func (h *Hand) Snapshot() HandSnapshot {
	snap := HandSnapshot{
		HandNum:    h.handNum,
		Phase:      h.phase,
		Board:      append([]Card(nil), h.board...),
		CurrentBet: h.currentBet,
		MinRaise:   h.minRaise,
		ActionOn:   h.actionOn,
		Dealer:     h.dealer,
		SmallBlind: h.sb,
		BigBlind:   h.bb,
	}
	for _, p := range h.players {
		snap.Seats = append(snap.Seats, SeatSnapshot{
			Seat:         p.Seat,
			ID:           p.ID,
			Name:         p.Name,
			Stack:        p.Stack,
			RoundBet:     p.RoundBet,
			HandBet:      p.HandBet,
			Status:       p.Status,
			HoleCards:    append([]Card(nil), p.HoleCards...),
			IsDealer:     p.IsDealer,
			IsSmallBlind: p.IsSmallBlind,
			IsBigBlind:   p.IsBigBlind,
		})
	}
	if len(h.pots) > 0 {
		for _, pot := range h.pots {
			snap.Pots = append(snap.Pots, Pot{
				Amount:   pot.Amount,
				Eligible: append([]int(nil), pot.Eligible...),
			})
			snap.PotTotal += pot.Amount
		}
	} else {
		// Pots are only built once betting closes; until then the pot total
		// is the sum of everyone's hand contribution.
		for _, p := range h.players {
			snap.PotTotal += p.HandBet
		}
	}
	return snap
}
