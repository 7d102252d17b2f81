// Package scoring computes a heuristic trust score from a partial profile.
package scoring

import (
	"strings"

	"github.com/squadgate/gatekeeper/internal/domain/model"
)

// Adjustment deltas. Missing data is itself mildly suspicious, so each
// absent field carries its own penalty next to the presence brackets.
const (
	gameHoursMissing = -25
	gameHoursHigh    = 85
	gameHoursLow     = -45

	visibilityMissing = -5
	visibilityTop     = 50
	visibilityMid     = 35
	visibilityLowBand = 20
	visibilityBottom  = -20

	gameCountMissing = -5
	gameCountFew     = -10
	gameCountSome    = 10
	gameCountMany    = 25

	nameNumeric  = -15
	nameCJK      = 10
	namePrefixed = -10

	perFriend = 5
	perBadge  = 5
)

// Bracket boundaries.
const (
	hoursHighCutoff = 300
	hoursLowCutoff  = 100

	visibilityTopCutoff = 10
	visibilityMidCutoff = 5
	visibilityLowCutoff = 3

	gameCountFewCutoff  = 5
	gameCountSomeCutoff = 10
)

// reservedIDPrefix is the Steam64 account-id prefix sometimes left in
// auto-generated display names.
const reservedIDPrefix = "76561199"

// Adjustment is a single contribution to the total, with its rationale.
type Adjustment struct {
	Label string
	Delta int
}

// Result is the total trust score plus the ordered contributing adjustments.
type Result struct {
	Total       int
	Adjustments []Adjustment
}

// Score computes the trust score for a profile. It is a pure function:
// identical input yields an identical total and adjustment list. Zero-delta
// brackets contribute no adjustment entry.
func Score(p model.Profile) Result {
	var r Result

	switch {
	case !p.GameHours.OK():
		r.add("game_hours_missing", gameHoursMissing)
	case p.GameHours.Value >= hoursHighCutoff:
		r.add("game_hours_high", gameHoursHigh)
	case p.GameHours.Value < hoursLowCutoff:
		r.add("game_hours_low", gameHoursLow)
	}

	switch {
	case !p.VisibilityLevel.OK():
		r.add("visibility_missing", visibilityMissing)
	case p.VisibilityLevel.Value >= visibilityTopCutoff:
		r.add("visibility_top", visibilityTop)
	case p.VisibilityLevel.Value >= visibilityMidCutoff:
		r.add("visibility_mid", visibilityMid)
	case p.VisibilityLevel.Value >= visibilityLowCutoff:
		r.add("visibility_low", visibilityLowBand)
	default:
		r.add("visibility_bottom", visibilityBottom)
	}

	switch {
	case !p.GameCount.OK():
		r.add("game_count_missing", gameCountMissing)
	case p.GameCount.Value < gameCountFewCutoff:
		r.add("game_count_few", gameCountFew)
	case p.GameCount.Value <= gameCountSomeCutoff:
		r.add("game_count_some", gameCountSome)
	default:
		r.add("game_count_many", gameCountMany)
	}

	// The three name checks are independent and cumulative.
	if p.Name.OK() {
		name := p.Name.Value
		if isAllDigits(name) {
			r.add("name_numeric", nameNumeric)
		}
		if containsCJK(name) {
			r.add("name_cjk", nameCJK)
		}
		if strings.Contains(name, reservedIDPrefix) {
			r.add("name_reserved_prefix", namePrefixed)
		}
	}

	if p.FriendCount.OK() {
		r.add("friends", perFriend*p.FriendCount.Value)
	}
	if p.BadgeCount.OK() {
		r.add("badges", perBadge*p.BadgeCount.Value)
	}

	return r
}

func (r *Result) add(label string, delta int) {
	r.Total += delta
	if delta != 0 {
		r.Adjustments = append(r.Adjustments, Adjustment{Label: label, Delta: delta})
	}
}

// isAllDigits reports whether name is non-empty and purely decimal digits.
func isAllDigits(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// containsCJK reports whether name contains a CJK ideograph (U+4E00..U+9FFF).
func containsCJK(name string) bool {
	for _, c := range name {
		if c >= 0x4e00 && c <= 0x9fff {
			return true
		}
	}
	return false
}
