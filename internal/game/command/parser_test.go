package command

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/dmbot/internal/game/fault"
)

func TestTokenize_Quoted(t *testing.T) {
	tokens, err := Tokenize(`a "b c" d`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b c", "d"}, tokens)
}

func TestTokenize_Cases(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"roll", []string{"roll"}},
		{"damage @0 20", []string{"damage", "@0", "20"}},
		{"a  b", []string{"a", "b"}},
		{`"one"`, []string{"one"}},
		{`addfeat "Power Attack" x`, []string{"addfeat", "Power Attack", "x"}},
		{`x "a  b"`, []string{"x", "a  b"}},
		{`x "a b c d"`, []string{"x", "a b c d"}},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Tokenize(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTokenize_Unterminated(t *testing.T) {
	for _, in := range []string{`a "b c`, `"open`, `a "`} {
		_, err := Tokenize(in)
		assert.ErrorIs(t, err, ErrUnterminatedQuote, in)
		assert.ErrorIs(t, err, fault.ErrInvalidInput, in)
	}
}

func TestTokenize_UnquotedMatchesSplit(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		words := rapid.SliceOf(rapid.StringMatching(`[a-z0-9@]{1,8}`)).Draw(rt, "words")
		got, err := Tokenize(strings.Join(words, " "))
		require.NoError(rt, err)
		if len(words) == 0 {
			assert.Empty(rt, got)
			return
		}
		assert.Equal(rt, words, got)
	})
}

func TestTokenize_QuotedRunIsOneToken(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		inner := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,6}`), 1, 6).Draw(rt, "inner")
		line := `cmd "` + strings.Join(inner, " ") + `" tail`
		got, err := Tokenize(line)
		require.NoError(rt, err)
		assert.Equal(rt, []string{"cmd", strings.Join(inner, " "), "tail"}, got)
	})
}

func TestParse_Prefix(t *testing.T) {
	res, ok, err := Parse(".damage @0 20", ".")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "damage", res.Command)
	assert.Equal(t, []string{"@0", "20"}, res.Args)

	_, ok, err = Parse("hello there", ".")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = Parse(". x", ".")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParse_Private(t *testing.T) {
	res, ok, err := Parse("login test test #test\r\n", "")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "login", res.Command)
	assert.Equal(t, []string{"test", "test", "#test"}, res.Args)

	_, ok, err = Parse("   ", "")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = Parse(`create #c "Lost Mine`, "")
	assert.ErrorIs(t, err, ErrUnterminatedQuote)
}
