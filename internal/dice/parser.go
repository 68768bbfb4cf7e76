package dice

import (
	"fmt"
	"regexp"
	"strconv"
)

// groupPattern matches one dice group token: count "d" sides, optionally
// followed by a signed modifier.
var groupPattern = regexp.MustCompile(`(\d+)d(\d+)([+-]\d+)?`)

// Parse scans notation left to right for non-overlapping dice group tokens.
// Text between tokens is ignored.
//
// Returned specs are syntactically valid but are not checked against the
// count and sides constraints; RollGroup does that. Tokens whose numbers do
// not fit in an int are returned in skipped instead.
//
// Postcondition: len(specs)+len(skipped) equals the number of tokens found.
func Parse(notation string) (specs []GroupSpec, skipped []SkippedToken) {
	for _, tok := range scan(notation) {
		if tok.err != nil {
			skipped = append(skipped, SkippedToken{Token: tok.raw, Err: tok.err})
			continue
		}
		specs = append(specs, tok.spec)
	}
	return specs, skipped
}

// token is one grammar match; exactly one of spec and err is meaningful.
type token struct {
	raw  string
	spec GroupSpec
	err  error
}

func scan(notation string) []token {
	matches := groupPattern.FindAllStringSubmatch(notation, -1)
	toks := make([]token, 0, len(matches))
	for _, m := range matches {
		spec, err := parseGroup(m[0], m[1], m[2], m[3])
		toks = append(toks, token{raw: m[0], spec: spec, err: err})
	}
	return toks
}

func parseGroup(raw, countStr, sidesStr, modStr string) (GroupSpec, error) {
	count, err := strconv.Atoi(countStr)
	if err != nil {
		return GroupSpec{}, fmt.Errorf("dice: invalid die count %q: %w", countStr, err)
	}
	sides, err := strconv.Atoi(sidesStr)
	if err != nil {
		return GroupSpec{}, fmt.Errorf("dice: invalid die sides %q: %w", sidesStr, err)
	}
	modifier := 0
	if modStr != "" {
		modifier, err = strconv.Atoi(modStr)
		if err != nil {
			return GroupSpec{}, fmt.Errorf("dice: invalid modifier %q: %w", modStr, err)
		}
	}
	return GroupSpec{Raw: raw, Count: count, Sides: sides, Modifier: modifier}, nil
}

// RollAll rolls every dice group found in notation and aggregates the results.
// Groups that cannot be rolled are left out of the aggregate and reported in
// Skipped in input order; RollAll itself never fails. A group whose total
// would overflow the running aggregate is skipped with ErrTotalOverflow.
//
// Precondition: src must be non-nil.
// Postcondition: result.Total == sum of result.Outcomes[i].Total, and is 0
// when no group could be rolled.
func RollAll(notation string, src Source) AggregateOutcome {
	agg := AggregateOutcome{Outcomes: []RollOutcome{}}
	for _, tok := range scan(notation) {
		if tok.err != nil {
			agg.Skipped = append(agg.Skipped, SkippedToken{Token: tok.raw, Err: tok.err})
			continue
		}
		outcome, err := Roll(tok.spec, src)
		if err != nil {
			agg.Skipped = append(agg.Skipped, SkippedToken{Token: tok.raw, Err: err})
			continue
		}
		total, ok := addInt(agg.Total, outcome.Total)
		if !ok {
			agg.Skipped = append(agg.Skipped, SkippedToken{Token: tok.raw, Err: ErrTotalOverflow})
			continue
		}
		agg.Outcomes = append(agg.Outcomes, outcome)
		agg.Total = total
	}
	return agg
}
