package dice

import "fmt"

// RollGroup validates and rolls count dice with the given number of sides,
// adding modifier to their sum.
//
// Precondition: src must be non-nil.
// Postcondition: On success len(result.Rolls) == count, every roll is in
// [1, sides] and result.Total == sum(result.Rolls) + modifier. On failure the
// error is one of ErrNoDiceNoSides, ErrNoDice, ErrTooFewSides or
// ErrTooManyDice and src is not consulted, or ErrTotalOverflow when the sum
// does not fit in an int.
func RollGroup(count, sides, modifier int, src Source) (RollOutcome, error) {
	if err := validate(count, sides); err != nil {
		return RollOutcome{}, err
	}

	rolls := make([]int, count)
	total := modifier
	for i := range rolls {
		rolls[i] = src.Intn(sides) + 1
		var ok bool
		if total, ok = addInt(total, rolls[i]); !ok {
			return RollOutcome{}, ErrTotalOverflow
		}
	}

	selected := make([]int, len(rolls))
	copy(selected, rolls)

	return RollOutcome{
		Total:         total,
		Rolls:         rolls,
		SelectedRolls: selected,
		Sides:         sides,
		NumDice:       count,
		Modifier:      modifier,
	}, nil
}

// Roll rolls a parsed GroupSpec. See RollGroup.
func Roll(spec GroupSpec, src Source) (RollOutcome, error) {
	return RollGroup(spec.Count, spec.Sides, spec.Modifier, src)
}

func validate(count, sides int) error {
	switch {
	case count < 1 && sides < 2:
		return ErrNoDiceNoSides
	case count < 1:
		return ErrNoDice
	case sides < 2:
		return ErrTooFewSides
	case count > MaxDice:
		return fmt.Errorf("%w: %d exceeds %d", ErrTooManyDice, count, MaxDice)
	}
	return nil
}

// addInt returns a+b and false when the sum overflows.
func addInt(a, b int) (int, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}
