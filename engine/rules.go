package engine

import "fmt"

// HouseRules holds configurable table settings.
type HouseRules struct {
	NumPlayers   uint8 // number of hands at the table (2–6); 0 treated as 4
	MaxRounds    uint8 // dice rolls before the winner can be revealed; 0 treated as 3
	OpeningDeal  uint8 // cards per player when every hand is empty; 0 treated as 2
	FollowUpDeal uint8 // cards per player on later deals; 0 treated as 1
}

// DefaultHouseRules returns the standard four-player, three-round table.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		NumPlayers:   4,
		MaxRounds:    3,
		OpeningDeal:  2,
		FollowUpDeal: 1,
	}
}

// Validate reports whether the rules describe a playable table.
// The engine itself never fails on invalid rules: it clamps them through the
// accessors below.
func (r HouseRules) Validate() error {
	n := r.NumPlayers
	if n == 0 {
		n = 4
	}
	if n < 2 || n > MaxPlayers {
		return fmt.Errorf("NumPlayers must be between 2 and %d, got %d", MaxPlayers, n)
	}
	if int(r.openingDeal())*int(n) > DeckSize {
		return fmt.Errorf("opening deal of %d cards to %d players exceeds the deck", r.OpeningDeal, n)
	}
	return nil
}

// numPlayers returns the effective number of players, treating 0 as 4 and
// capping at MaxPlayers.
func (r *HouseRules) numPlayers() uint8 {
	switch {
	case r.NumPlayers == 0:
		return 4
	case r.NumPlayers > MaxPlayers:
		return MaxPlayers
	}
	return r.NumPlayers
}

// maxRounds returns the effective round limit, treating 0 as 3.
func (r *HouseRules) maxRounds() uint8 {
	if r.MaxRounds == 0 {
		return 3
	}
	return r.MaxRounds
}

// openingDeal returns the cards per player on an empty table, treating 0 as 2.
func (r *HouseRules) openingDeal() uint8 {
	if r.OpeningDeal == 0 {
		return 2
	}
	return r.OpeningDeal
}

// followUpDeal returns the cards per player on later deals, treating 0 as 1.
func (r *HouseRules) followUpDeal() uint8 {
	if r.FollowUpDeal == 0 {
		return 1
	}
	return r.FollowUpDeal
}
