package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/dmbot/internal/game/dice"
	"github.com/cory-johannsen/dmbot/internal/game/fault"
	"github.com/cory-johannsen/dmbot/internal/game/stats"
)

// fixedSource returns values in order, repeating the last one.
type fixedSource struct {
	vals []int
	i    int
}

func (f *fixedSource) Intn(n int) int {
	v := f.vals[f.i]
	if f.i < len(f.vals)-1 {
		f.i++
	}
	return v % n
}

func TestRollResult_Total(t *testing.T) {
	r := dice.RollResult{Expression: "2d6+3", Dice: []int{4, 5}, Modifier: 3}
	assert.Equal(t, 12, r.Total())
	assert.Equal(t, "2d6+3: [4 5] +3 = 12", r.String())
}

func TestParse(t *testing.T) {
	cases := []struct {
		in                     string
		count, sides, modifier int
	}{
		{"d20", 1, 20, 0},
		{"2d6", 2, 6, 0},
		{"2d6+3", 2, 6, 3},
		{"4D8-2", 4, 8, -2},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			e, err := dice.Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.count, e.Count)
			assert.Equal(t, tc.sides, e.Sides)
			assert.Equal(t, tc.modifier, e.Modifier)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "20", "0d6", "2d1", "2d", "xd6", "2d6+x", "101d6", "1d1001", "d2+1001", "d20-1001", "d2+9223372036854775807", "d2-9223372036854775808"} {
		_, err := dice.Parse(in)
		assert.ErrorIs(t, err, fault.ErrInvalidInput, in)
	}
}

func TestParse_ModifierBounds(t *testing.T) {
	e, err := dice.Parse("d20+1000")
	require.NoError(t, err)
	assert.Equal(t, dice.MaxModifier, e.Modifier)

	e, err = dice.Parse("d20-1000")
	require.NoError(t, err)
	assert.Equal(t, -dice.MaxModifier, e.Modifier)
}

func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 500; i++ {
		v := src.Intn(20)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 20)
	}
}

func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { dice.NewCryptoSource().Intn(0) })
}

func TestParseRollType(t *testing.T) {
	rt, ok := dice.ParseRollType("dex")
	require.True(t, ok)
	assert.Equal(t, dice.Dexterity, rt)

	rt, ok = dice.ParseRollType("Charisma")
	require.True(t, ok)
	assert.Equal(t, dice.Charisma, rt)

	_, ok = dice.ParseRollType("health")
	assert.False(t, ok)
	_, ok = dice.ParseRollType("luck")
	assert.False(t, ok)
}

func TestRoller_Check_AddsBonus(t *testing.T) {
	r := dice.NewLoggedRoller(&fixedSource{vals: []int{9}}, zaptest.NewLogger(t))
	s := stats.New(20, 30, 14, 8, 10, 10, 10, 10)

	assert.Equal(t, 12, r.Check(dice.Strength, s))
	assert.Equal(t, 9, r.Check(dice.Dexterity, s))
	assert.Equal(t, 10, r.Check(dice.Basic, s))
}

func TestRoller_Check_FloorsAtOne(t *testing.T) {
	r := dice.NewLoggedRoller(&fixedSource{vals: []int{0}}, zaptest.NewLogger(t))
	s := stats.New(20, 30, 1, 10, 10, 10, 10, 10)
	assert.Equal(t, 1, r.Check(dice.Strength, s))
}

func TestRoller_Basic_Property(t *testing.T) {
	r := dice.NewLoggedRoller(dice.NewCryptoSource(), zaptest.NewLogger(t))
	rapid.Check(t, func(rt *rapid.T) {
		v := r.Basic()
		assert.GreaterOrEqual(rt, v, 1)
		assert.LessOrEqual(rt, v, 20)
	})
}

func TestRoller_Check_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		score := rapid.Uint8Range(1, 255).Draw(rt, "score")
		die := rapid.IntRange(0, 19).Draw(rt, "die")
		r := dice.NewLoggedRoller(&fixedSource{vals: []int{die}}, zaptest.NewLogger(t))
		s := stats.New(20, 30, 10, 10, 10, score, 10, 10)

		b := stats.CalcBonus(score)
		got := r.Check(dice.Wisdom, s)
		assert.Equal(rt, max(1, die+1+b), got)
		assert.GreaterOrEqual(rt, got, 1)
		assert.LessOrEqual(rt, got, max(1, 20+b))
	})
}

func TestRoller_RollExpr(t *testing.T) {
	r := dice.NewLoggedRoller(&fixedSource{vals: []int{2, 4}}, zaptest.NewLogger(t))
	res, err := r.RollExpr("2d6+1")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 5}, res.Dice)
	assert.Equal(t, 9, res.Total())

	_, err = r.RollExpr("bogus")
	assert.ErrorIs(t, err, fault.ErrInvalidInput)
}

func TestCheckLogsRoll(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := dice.NewLoggedRoller(&fixedSource{vals: []int{14}}, zap.New(core))
	s := stats.New(20, 30, 16, 12, 12, 12, 12, 12)

	assert.Equal(t, 18, r.Check(dice.Strength, s))

	entries := logs.FilterMessage("check roll").AllUntimed()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "strength", fields["roll_type"])
	assert.Equal(t, int64(15), fields["die"])
	assert.Equal(t, int64(3), fields["bonus"])
	assert.Equal(t, int64(18), fields["total"])
}
