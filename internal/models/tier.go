package models

import (
	"fmt"
	"strings"
)

// Tier is the trust category an owner assigns to another user.
type Tier string

const (
	// TierPeoples is the highest-trust tier and the only one traversal follows.
	TierPeoples Tier = "peoples"
	TierCool    Tier = "cool"
	TierAlright Tier = "alright"
	// TierOthers is the default tier given on first interaction.
	TierOthers Tier = "others"
)

// DefaultTier is assigned when an edge is created implicitly.
const DefaultTier = TierOthers

// Tiers lists every tier from most to least trusted.
var Tiers = []Tier{TierPeoples, TierCool, TierAlright, TierOthers}

// Rank orders tiers by trust. Invalid tiers rank 0.
func (t Tier) Rank() int {
	switch t {
	case TierPeoples:
		return 4
	case TierCool:
		return 3
	case TierAlright:
		return 2
	case TierOthers:
		return 1
	}
	return 0
}

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool { return t.Rank() > 0 }

// AtLeast reports whether t is as trusted as o or more.
func (t Tier) AtLeast(o Tier) bool { return t.Rank() >= o.Rank() }

// ParseTier accepts a tier name in any case.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown tier %q", s)
	}
	return t, nil
}

// MinTier returns the weaker of the two tiers.
func MinTier(a, b Tier) Tier {
	if a.Rank() <= b.Rank() {
		return a
	}
	return b
}
