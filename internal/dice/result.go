package dice

import (
	"sort"
	"strconv"
	"strings"
)

// GroupSpec is one parsed dice group, e.g. "3d6+2".
type GroupSpec struct {
	Raw      string // matched token text
	Count    int    // number of dice
	Sides    int    // faces per die
	Modifier int    // flat modifier (may be negative)
}

// String renders the group in canonical notation form, e.g. "3d6+2", "2d4",
// "1d8-1". Leading zeros and an explicit "+0" in Raw are normalised away.
func (g GroupSpec) String() string {
	return notation(g.Count, g.Sides, g.Modifier)
}

// RollOutcome holds the result of rolling a single dice group.
//
// Invariants: len(Rolls) == NumDice; every roll is in [1, Sides];
// Total == sum(Rolls) + Modifier.
type RollOutcome struct {
	Total int   `yaml:"total"`
	Rolls []int `yaml:"rolls"` // generation order
	// SelectedRolls are the rolls counted toward Total. Always equal to Rolls
	// until keep/drop modifiers exist, but never shares Rolls' backing array.
	SelectedRolls []int `yaml:"selected_rolls"`
	Sides         int   `yaml:"sides"`
	NumDice       int   `yaml:"num_dice"`
	Modifier      int   `yaml:"modifier"`
}

// Notation returns the group in dice notation, e.g. "3d6-2".
func (r RollOutcome) Notation() string {
	return notation(r.NumDice, r.Sides, r.Modifier)
}

// SortedRolls returns the rolls bracketed in descending order, e.g. "[6,3,1]".
func (r RollOutcome) SortedRolls() string {
	return bracket(SortedDescending(r.Rolls))
}

// String returns the canonical display form "{notation}:{sorted rolls}:{total}",
// e.g. "3d6+2:[6,3,3]:14".
func (r RollOutcome) String() string {
	return r.Notation() + ":" + r.SortedRolls() + ":" + strconv.Itoa(r.Total)
}

// SkippedToken is a notation token that matched the dice grammar but could
// not be rolled.
type SkippedToken struct {
	Token string
	Err   error
}

// MarshalYAML renders the token with its reason as plain text.
func (s SkippedToken) MarshalYAML() (interface{}, error) {
	reason := ""
	if s.Err != nil {
		reason = s.Err.Error()
	}
	return map[string]string{"token": s.Token, "reason": reason}, nil
}

// AggregateOutcome combines every group rolled from one notation string.
//
// Invariant: Total == sum of Outcomes[i].Total; no outcomes means Total == 0.
type AggregateOutcome struct {
	Total    int           `yaml:"total"`
	Outcomes []RollOutcome `yaml:"outcomes"` // input order
	// Skipped lists tokens dropped from the aggregate. It never affects
	// Total or the display string.
	Skipped []SkippedToken `yaml:"skipped,omitempty"`
}

// String returns the canonical display form joining every group's notation,
// then every group's sorted rolls, then the aggregate total, e.g.
//
//	"3d6-2,2d4+1:[4,2,1],[4,3]:13"
func (a AggregateOutcome) String() string {
	notations := make([]string, len(a.Outcomes))
	rolls := make([]string, len(a.Outcomes))
	for i, o := range a.Outcomes {
		notations[i] = o.Notation()
		rolls[i] = o.SortedRolls()
	}
	return strings.Join(notations, ",") + ":" + strings.Join(rolls, ",") + ":" + strconv.Itoa(a.Total)
}

// SortedDescending returns a copy of rolls sorted from highest to lowest.
//
// Postcondition: rolls is not modified.
func SortedDescending(rolls []int) []int {
	sorted := make([]int, len(rolls))
	copy(sorted, rolls)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	return sorted
}

func notation(count, sides, modifier int) string {
	s := strconv.Itoa(count) + "d" + strconv.Itoa(sides)
	switch {
	case modifier > 0:
		s += "+" + strconv.Itoa(modifier)
	case modifier < 0:
		s += strconv.Itoa(modifier)
	}
	return s
}

func bracket(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
