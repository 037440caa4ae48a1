package dice

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/dmbot/internal/game/fault"
)

// Limits on player-supplied expressions.
const (
	MaxCount    = 100
	MaxSides    = 1000
	MaxModifier = 1000
)

// Expression is a parsed "NdS+M" dice expression.
//
// Invariant: 1 <= Count <= MaxCount, 2 <= Sides <= MaxSides.
type Expression struct {
	Raw      string
	Count    int
	Sides    int
	Modifier int
}

// Parse parses "d20", "2d6", "2d6+3" or "4d8-2".
//
// Postcondition: Returns an Expression or an error wrapping fault.ErrInvalidInput.
func Parse(expr string) (Expression, error) {
	s := strings.ToLower(strings.TrimSpace(expr))
	if s == "" {
		return Expression{}, fmt.Errorf("dice: empty expression: %w", fault.ErrInvalidInput)
	}

	countStr, rest, ok := strings.Cut(s, "d")
	if !ok {
		return Expression{}, fmt.Errorf("dice: missing 'd' in %q: %w", expr, fault.ErrInvalidInput)
	}

	count := 1
	if countStr != "" {
		n, err := strconv.Atoi(countStr)
		if err != nil || n < 1 || n > MaxCount {
			return Expression{}, fmt.Errorf("dice: die count in %q must be 1-%d: %w", expr, MaxCount, fault.ErrInvalidInput)
		}
		count = n
	}

	sidesStr, modStr := rest, ""
	if i := strings.IndexAny(rest, "+-"); i >= 0 {
		sidesStr, modStr = rest[:i], rest[i:]
	}

	sides, err := strconv.Atoi(sidesStr)
	if err != nil || sides < 2 || sides > MaxSides {
		return Expression{}, fmt.Errorf("dice: die sides in %q must be 2-%d: %w", expr, MaxSides, fault.ErrInvalidInput)
	}

	modifier := 0
	if modStr != "" {
		modifier, err = strconv.Atoi(modStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", expr, fault.ErrInvalidInput)
		}
		if modifier < -MaxModifier || modifier > MaxModifier {
			return Expression{}, fmt.Errorf("dice: modifier in %q must be within ±%d: %w", expr, MaxModifier, fault.ErrInvalidInput)
		}
	}

	return Expression{Raw: expr, Count: count, Sides: sides, Modifier: modifier}, nil
}

// MustParse parses expr and panics on error.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return e
}

// Roll evaluates e with src.
//
// Postcondition: len(result.Dice) == e.Count, each die in [1, e.Sides].
func (e Expression) Roll(src Source) RollResult {
	rolled := make([]int, e.Count)
	for i := range rolled {
		rolled[i] = src.Intn(e.Sides) + 1
	}
	return RollResult{Expression: e.Raw, Dice: rolled, Modifier: e.Modifier}
}
