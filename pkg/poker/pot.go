package poker

import (
	"fmt"
	"sort"
)

// Pot represents one pot of chips. Eligible lists the seats of players who
// contributed the full amount required to stay in this pot; only they can
// win it. Pots are immutable once built and consumed only at showdown.
type Pot struct {
	Amount   int64
	Eligible []int
}

// IsEligible reports whether the seat can win this pot.
func (p Pot) IsEligible(seat int) bool {
	for _, s := range p.Eligible {
		if s == seat {
			return true
		}
	}
	return false
}

// PotAward records one payout at showdown.
type PotAward struct {
	Seat   int
	Amount int64
	PotIdx int
}

// buildPots partitions total-hand contributions into a main pot and side
// pots. Each distinct non-zero contribution is a threshold level: the pot
// layer for a level is (level - previous) x (players who contributed at
// least that much), and eligibility is the non-folded players among them.
func buildPots(players []*Player) []Pot {
	seen := make(map[int64]bool)
	for _, p := range players {
		if p.HandBet > 0 {
			seen[p.HandBet] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}

	levels := make([]int64, 0, len(seen))
	for lvl := range seen {
		levels = append(levels, lvl)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	pots := make([]Pot, 0, len(levels))
	prev := int64(0)
	for _, lvl := range levels {
		pot := Pot{}
		for _, p := range players {
			if p.HandBet > prev {
				c := p.HandBet
				if c > lvl {
					c = lvl
				}
				pot.Amount += c - prev
			}
			if p.InHand() && p.HandBet >= lvl {
				pot.Eligible = append(pot.Eligible, p.Seat)
			}
		}
		if pot.Amount == 0 {
			prev = lvl
			continue
		}
		if len(pot.Eligible) == 0 {
			// Every contributor to this layer folded. The layer belongs to
			// whoever outlasted them: merge into the previous pot, or give
			// it to all players still in the hand.
			if len(pots) > 0 {
				pots[len(pots)-1].Amount += pot.Amount
			} else {
				for _, p := range players {
					if p.InHand() {
						pot.Eligible = append(pot.Eligible, p.Seat)
					}
				}
				pots = append(pots, pot)
			}
			prev = lvl
			continue
		}
		pots = append(pots, pot)
		prev = lvl
	}

	return pots
}

// distributePots pays every pot to its winner(s). Pots are independent and
// resolved in order of creation. For each pot the maximal HandRank among
// eligible non-folded players wins; ties split the pot integer-evenly, and
// remainder chips are assigned one each starting from the first eligible
// winner clockwise from the dealer button.
func distributePots(pots []Pot, players []*Player, dealer int) ([]PotAward, error) {
	bySeat := make(map[int]*Player, len(players))
	for _, p := range players {
		bySeat[p.Seat] = p
	}

	var awards []PotAward
	for pi, pot := range pots {
		var alive []*Player
		for _, seat := range pot.Eligible {
			p := bySeat[seat]
			if p != nil && p.InHand() {
				alive = append(alive, p)
			}
		}
		if len(alive) == 0 {
			return nil, fmt.Errorf("pot %d has no eligible live players", pi)
		}

		var winners []*Player
		if len(alive) == 1 {
			// Uncontested: paid without reveal.
			winners = alive
		} else {
			var best *HandRank
			for _, p := range alive {
				if p.handRank == nil {
					return nil, fmt.Errorf("pot %d: seat %d reached showdown without a hand rank", pi, p.Seat)
				}
				switch {
				case best == nil, Compare(*p.handRank, *best) > 0:
					best = p.handRank
					winners = []*Player{p}
				case Compare(*p.handRank, *best) == 0:
					winners = append(winners, p)
				}
			}
		}

		// Order winners clockwise starting left of the button so remainder
		// chips land deterministically.
		sort.Slice(winners, func(i, j int) bool {
			return clockwiseDistance(dealer, winners[i].Seat, len(players)) <
				clockwiseDistance(dealer, winners[j].Seat, len(players))
		})

		share := pot.Amount / int64(len(winners))
		rem := pot.Amount % int64(len(winners))
		for _, w := range winners {
			amount := share
			if rem > 0 {
				amount++
				rem--
			}
			w.Stack += amount
			awards = append(awards, PotAward{Seat: w.Seat, Amount: amount, PotIdx: pi})
		}
	}

	return awards, nil
}

// clockwiseDistance returns how many seats clockwise seat lies from the
// dealer button (the button itself is last).
func clockwiseDistance(dealer, seat, n int) int {
	d := (seat - dealer) % n
	if d <= 0 {
		d += n
	}
	return d
}
