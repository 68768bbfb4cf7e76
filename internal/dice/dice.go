// Package dice parses tabletop dice notation such as "3d6+2 2d4", rolls each
// dice group against an injectable randomness Source, and renders the
// outcomes in a fixed display format.
package dice

import "errors"

// Validation failures returned by RollGroup. The messages are part of the
// output contract consumed by chat front ends and must not change.
var (
	ErrNoDiceNoSides = errors.New("There must be at least 1 die, and dice must have at least 2 sides") //nolint:staticcheck // fixed user-facing text
	ErrNoDice        = errors.New("There must be at least 1 die")                                        //nolint:staticcheck // fixed user-facing text
	ErrTooFewSides   = errors.New("Dice must have at least 2 sides")                                     //nolint:staticcheck // fixed user-facing text
)

// MaxDice is the largest die count a single group may roll.
const MaxDice = 10_000

var (
	// ErrTooManyDice is returned for groups with more than MaxDice dice.
	ErrTooManyDice = errors.New("dice: too many dice in one group")
	// ErrTotalOverflow is returned when a total would not fit in an int.
	ErrTotalOverflow = errors.New("dice: total overflows int")
)

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
