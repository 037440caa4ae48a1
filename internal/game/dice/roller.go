package dice

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/dmbot/internal/game/stats"
)

// D20 is the die used for every check.
var D20 = MustParse("d20")

// RollType selects which ability, if any, modifies a d20 check.
type RollType int

const (
	Basic RollType = iota
	Strength
	Dexterity
	Constitution
	Wisdom
	Intellect
	Charisma
)

var abilityFor = map[RollType]stats.Stat{
	Strength:     stats.Strength,
	Dexterity:    stats.Dexterity,
	Constitution: stats.Constitution,
	Wisdom:       stats.Wisdom,
	Intellect:    stats.Intellect,
	Charisma:     stats.Charisma,
}

var rollTypeFor = func() map[stats.Stat]RollType {
	m := make(map[stats.Stat]RollType, len(abilityFor))
	for rt, s := range abilityFor {
		m[s] = rt
	}
	return m
}()

// ParseRollType resolves an ability name or abbreviation to a RollType.
// Health and movement are not roll types.
func ParseRollType(name string) (RollType, bool) {
	s, ok := stats.Lookup(name)
	if !ok || !s.IsAbility() {
		return Basic, false
	}
	return rollTypeFor[s], true
}

// Ability returns the stat backing rt; ok is false for Basic.
func (rt RollType) Ability() (stats.Stat, bool) {
	s, ok := abilityFor[rt]
	return s, ok
}

func (rt RollType) String() string {
	if s, ok := rt.Ability(); ok {
		return s.String()
	}
	return "basic"
}

// Roller rolls dice from a Source and logs each roll at debug level.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Basic rolls a plain d20.
//
// Postcondition: 1 <= result <= 20.
func (r *Roller) Basic() int {
	return r.Check(Basic, stats.Stats{})
}

// Check rolls a d20 and adds the bonus of rt's ability from s.
//
// Postcondition: result >= 1 and result <= 20 + bonus.
func (r *Roller) Check(rt RollType, s stats.Stats) int {
	die := D20.Roll(r.src).Total()
	bonus := 0
	if ability, ok := rt.Ability(); ok {
		bonus = s.Bonus(ability)
	}
	total := die + bonus
	if total < 1 {
		total = 1
	}
	r.logger.Debug("check roll",
		zap.Stringer("roll_type", rt),
		zap.Int("die", die),
		zap.Int("bonus", bonus),
		zap.Int("total", total),
	)
	return total
}

// RollExpr parses and rolls a dice expression, logging the result.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	result := e.Roll(r.src)
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result, nil
}
