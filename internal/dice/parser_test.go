package dice_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/diceroll/internal/dice"
	"github.com/cory-johannsen/diceroll/internal/testutil"
)

func TestParse_Tokens(t *testing.T) {
	specs, skipped := dice.Parse("attack 1d20+5, damage 2d6-1 and 3d8")
	assert.Empty(t, skipped)
	assert.Equal(t, []dice.GroupSpec{
		{Raw: "1d20+5", Count: 1, Sides: 20, Modifier: 5},
		{Raw: "2d6-1", Count: 2, Sides: 6, Modifier: -1},
		{Raw: "3d8", Count: 3, Sides: 8},
	}, specs)
}

func TestParse_EdgeTokens(t *testing.T) {
	cases := []struct {
		input string
		want  []dice.GroupSpec
	}{
		{"", nil},
		{"3+2", nil},
		{"d20", nil},
		{"2d", nil},
		{"1d6+", []dice.GroupSpec{{Raw: "1d6", Count: 1, Sides: 6}}},
		{"1d6+-2", []dice.GroupSpec{{Raw: "1d6", Count: 1, Sides: 6}}},
		{"10d6", []dice.GroupSpec{{Raw: "10d6", Count: 10, Sides: 6}}},
		{"x3d6y", []dice.GroupSpec{{Raw: "3d6", Count: 3, Sides: 6}}},
		{"2d6+0", []dice.GroupSpec{{Raw: "2d6+0", Count: 2, Sides: 6}}},
		{"1d4d6", []dice.GroupSpec{{Raw: "1d4", Count: 1, Sides: 4}}},
		{"0d6", []dice.GroupSpec{{Raw: "0d6", Count: 0, Sides: 6}}},
	}
	for _, tc := range cases {
		specs, skipped := dice.Parse(tc.input)
		assert.Empty(t, skipped, "input %q", tc.input)
		assert.Equal(t, tc.want, specs, "input %q", tc.input)
	}
}

func TestParse_Overflow(t *testing.T) {
	specs, skipped := dice.Parse("99999999999999999999d6 1d4")
	require.Len(t, skipped, 1)
	assert.Equal(t, "99999999999999999999d6", skipped[0].Token)
	assert.ErrorIs(t, skipped[0].Err, strconv.ErrRange)
	assert.Equal(t, []dice.GroupSpec{{Raw: "1d4", Count: 1, Sides: 4}}, specs)
}

func TestRollAll_TooManyDiceSkipped(t *testing.T) {
	src := testutil.NewSequenceSource(t, 3)
	res := dice.RollAll("100000000000000d6 1d4", src)
	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, "1d4:[3]:3", res.String())
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "100000000000000d6", res.Skipped[0].Token)
	assert.ErrorIs(t, res.Skipped[0].Err, dice.ErrTooManyDice)
	assert.Equal(t, []int{4}, src.Calls())
}

func TestRollAll_GroupTotalOverflowSkipped(t *testing.T) {
	res := dice.RollAll("1d6+9223372036854775807", testutil.NewSequenceSource(t, 1))
	assert.Empty(t, res.Outcomes)
	assert.Equal(t, 0, res.Total)
	assert.Equal(t, "::0", res.String())
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "1d6+9223372036854775807", res.Skipped[0].Token)
	assert.ErrorIs(t, res.Skipped[0].Err, dice.ErrTotalOverflow)
}

func TestRollAll_AggregateOverflowSkipped(t *testing.T) {
	res := dice.RollAll("1d2+9223372036854775800 1d2+9223372036854775800 1d4",
		testutil.NewSequenceSource(t, 1))
	require.Len(t, res.Outcomes, 2)
	assert.Equal(t, "1d2+9223372036854775800,1d4:[1],[1]:9223372036854775802", res.String())
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "1d2+9223372036854775800", res.Skipped[0].Token)
	assert.ErrorIs(t, res.Skipped[0].Err, dice.ErrTotalOverflow)
}

// TestParse_RoundTrip_Property verifies that a group's notation parses back
// into the same group.
func TestParse_RoundTrip_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		spec := dice.GroupSpec{
			Count:    rapid.IntRange(1, 100).Draw(rt, "count"),
			Sides:    rapid.IntRange(2, 1000).Draw(rt, "sides"),
			Modifier: rapid.IntRange(-500, 500).Draw(rt, "modifier"),
		}
		spec.Raw = spec.String()

		specs, skipped := dice.Parse(spec.Raw)
		require.Empty(rt, skipped)
		require.Len(rt, specs, 1)
		assert.Equal(rt, spec, specs[0])
	})
}

func TestRollAll_NothingRollable(t *testing.T) {
	for _, input := range []string{"", "3+2", "1d0", "0d6", "hello world", "0d0 1d1"} {
		res := dice.RollAll(input, dice.NewCryptoSource())
		assert.Equal(t, 0, res.Total, "input %q", input)
		assert.Empty(t, res.Outcomes, "input %q", input)
	}
}

func TestRollAll_SkippedReported(t *testing.T) {
	res := dice.RollAll("1d0 2d6 0d6", testutil.NewSequenceSource(t, 5, 2))
	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, "2d6:[5,2]:7", res.String())
	require.Len(t, res.Skipped, 2)
	assert.Equal(t, "1d0", res.Skipped[0].Token)
	assert.ErrorIs(t, res.Skipped[0].Err, dice.ErrTooFewSides)
	assert.Equal(t, "0d6", res.Skipped[1].Token)
	assert.ErrorIs(t, res.Skipped[1].Err, dice.ErrNoDice)
}

func TestRollAll_ExactOutput(t *testing.T) {
	res := dice.RollAll("3d6+2 2d4", testutil.NewSequenceSource(t, 1, 6, 3, 3, 4))
	require.Len(t, res.Outcomes, 2)
	assert.Equal(t, 12, res.Outcomes[0].Total)
	assert.Equal(t, 7, res.Outcomes[1].Total)
	assert.Equal(t, 19, res.Total)
	assert.Equal(t, "3d6+2,2d4:[6,3,1],[4,3]:19", res.String())
}

func TestRollAll_TwoGroups(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		res := dice.RollAll("3d6 2d4", src)
		require.Len(t, res.Outcomes, 2)
		require.GreaterOrEqual(t, res.Total, 5)
		require.LessOrEqual(t, res.Total, 26)
	}
}

func TestRollAll_Ranges(t *testing.T) {
	cases := []struct {
		notation string
		min, max int
	}{
		{"1d6", 1, 6},
		{"2d8", 2, 16},
		{"1d6+1", 2, 7},
		{"1d2-3", -2, -1},
		{"4d20", 4, 80},
		{"3d6+50 2d4", 55, 76},
		{"3d6-6", -3, 12},
	}
	src := dice.NewSeededSource(42)
	for _, tc := range cases {
		for i := 0; i < 1000; i++ {
			total := dice.RollAll(tc.notation, src).Total
			require.True(t, tc.min <= total && total <= tc.max,
				"%d from %s is not in the range %d/%d", total, tc.notation, tc.min, tc.max)
		}
	}
}

// TestRollAll_TotalProperty verifies the aggregate total is the sum of the
// group totals for arbitrary multi-group input.
func TestRollAll_TotalProperty(t *testing.T) {
	src := dice.NewCryptoSource()
	rapid.Check(t, func(rt *rapid.T) {
		input := rapid.StringMatching(`([0-9]d[0-9]{1,2}([+-][0-9])? ?){0,5}`).Draw(rt, "notation")
		res := dice.RollAll(input, src)
		sum := 0
		for _, o := range res.Outcomes {
			sum += o.Total
		}
		assert.Equal(rt, sum, res.Total)
		specs, skipped := dice.Parse(input)
		assert.Equal(rt, len(specs)+len(skipped), len(res.Outcomes)+len(res.Skipped))
	})
}
