package poker

// PlayerStatus tracks a player's standing within the current hand.
type PlayerStatus int

const (
	StatusActive PlayerStatus = iota
	StatusFolded
	StatusAllIn
	StatusBusted
)

// String returns the status label.
func (s PlayerStatus) String() string {
	switch s {
	case StatusActive:
		return "ACTIVE"
	case StatusFolded:
		return "FOLDED"
	case StatusAllIn:
		return "ALL_IN"
	case StatusBusted:
		return "BUSTED"
	default:
		return "UNKNOWN"
	}
}

// Player represents one seat in a hand. Seat indices are fixed for the
// lifetime of the hand. The betting state machine exclusively owns Player
// state while a hand is live.
type Player struct {
	Seat int
	ID   string
	Name string

	Stack     int64
	HoleCards []Card
	Status    PlayerStatus

	// RoundBet is the contribution to the current betting round; HandBet is
	// the total contribution across the whole hand. Stack + HandBet is
	// conserved for the duration of a hand, up to the pot payout at the end.
	RoundBet int64
	HandBet  int64

	IsDealer     bool
	IsSmallBlind bool
	IsBigBlind   bool

	// acted reports whether the player has acted since the last full raise
	// in the current betting round. Blind posts do not count as acting.
	acted bool

	// handRank is populated at showdown for non-folded players.
	handRank *HandRank
}

// NewPlayer creates a player with the given identity and starting stack.
func NewPlayer(seat int, id, name string, stack int64) *Player {
	return &Player{
		Seat:      seat,
		ID:        id,
		Name:      name,
		Stack:     stack,
		HoleCards: make([]Card, 0, 2),
	}
}

// InHand reports whether the player can still win a pot (not folded, not
// busted out before the deal).
func (p *Player) InHand() bool {
	return p.Status == StatusActive || p.Status == StatusAllIn
}

// CanAct reports whether the player may still take betting actions.
func (p *Player) CanAct() bool {
	return p.Status == StatusActive
}

// resetForHand clears per-hand state ahead of a new deal, keeping identity,
// seat and stack. A zero stack marks the seat busted.
func (p *Player) resetForHand() {
	p.HoleCards = p.HoleCards[:0]
	p.RoundBet = 0
	p.HandBet = 0
	p.IsDealer = false
	p.IsSmallBlind = false
	p.IsBigBlind = false
	p.acted = false
	p.handRank = nil
	if p.Stack == 0 {
		p.Status = StatusBusted
	} else {
		p.Status = StatusActive
	}
}

// placeBet moves up to amount from the stack into the player's round and
// hand contributions, returning the amount actually moved. A bet that
// consumes the stack marks the player all-in.
func (p *Player) placeBet(amount int64) int64 {
	if amount > p.Stack {
		amount = p.Stack
	}
	p.Stack -= amount
	p.RoundBet += amount
	p.HandBet += amount
	if p.Stack == 0 && p.Status == StatusActive {
		p.Status = StatusAllIn
	}
	return amount
}
