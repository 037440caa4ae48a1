// Package entity defines the capability shared by players and monsters:
// stats with an optional temporary override, a grid position, damage,
// movement and dice checks.
package entity

import (
	"fmt"

	"github.com/cory-johannsen/dmbot/internal/game/dice"
	"github.com/cory-johannsen/dmbot/internal/game/fault"
	"github.com/cory-johannsen/dmbot/internal/game/stats"
)

// SpacesPerMove converts the movement stat into grid spaces per action.
const SpacesPerMove = 5

// Entity is anything that can be targeted by a command.
type Entity interface {
	// Identifier is the username of a player or the name of a monster.
	Identifier() string
	// Stats returns the temporary override when set, else the base stats.
	Stats() stats.Stats
	HasTempStats() bool
	SetTempStats(s stats.Stats)
	ClearTempStats()
	// Damage applies amount to the effective stats and reports whether the
	// entity is still conscious.
	Damage(amount uint8) bool
	Position() Position
	// Move relocates the entity if to is within its movement budget.
	Move(to Position) error
	// Roll makes a d20 check using the effective stats.
	Roll(r *dice.Roller, rt dice.RollType) int
}

// Body is the state common to every Entity. Player and Monster embed it and
// supply Identifier and Move.
type Body struct {
	Base stats.Stats  `json:"stats" yaml:"stats"`
	Temp *stats.Stats `json:"-" yaml:"-"`
	Pos  Position     `json:"position" yaml:"position"`
}

// NewBody returns a Body at the origin with no override.
func NewBody(base stats.Stats) Body {
	return Body{Base: base, Pos: Origin}
}

// Stats returns the effective stats.
func (b *Body) Stats() stats.Stats {
	if b.Temp != nil {
		return *b.Temp
	}
	return b.Base
}

// HasTempStats reports whether an override is set.
func (b *Body) HasTempStats() bool {
	return b.Temp != nil
}

// SetTempStats replaces any existing override with s.
func (b *Body) SetTempStats(s stats.Stats) {
	b.Temp = &s
}

// ClearTempStats drops the override.
//
// Postcondition: Stats() == Base.
func (b *Body) ClearTempStats() {
	b.Temp = nil
}

// Damage applies amount to the override if present, else to Base.
func (b *Body) Damage(amount uint8) bool {
	if b.Temp != nil {
		return b.Temp.Damage(amount)
	}
	return b.Base.Damage(amount)
}

// Position returns the current grid position.
func (b *Body) Position() Position {
	return b.Pos
}

// Roll makes a d20 check of type rt against the effective stats.
func (b *Body) Roll(r *dice.Roller, rt dice.RollType) int {
	return r.Check(rt, b.Stats())
}

// MoveBudget returns how many grid spaces the effective stats allow per action.
func (b *Body) MoveBudget() int {
	return int(b.Stats().Movement) / SpacesPerMove
}

// MoveAs relocates the body on behalf of mover.
//
// Postcondition: on success Pos == to; otherwise Pos is unchanged and a
// *MoveError naming mover is returned.
func (b *Body) MoveAs(mover string, to Position) error {
	budget := b.MoveBudget()
	if b.Pos.Distance(to) > budget {
		return &MoveError{Mover: mover, Max: budget}
	}
	b.Pos = to
	return nil
}

// MoveError rejects a move that exceeds the mover's budget.
type MoveError struct {
	Mover string
	Max   int
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("%s can move at most %d spaces in a turn.", e.Mover, e.Max)
}

// Unwrap classifies the rejection as invalid input.
func (e *MoveError) Unwrap() error {
	return fault.ErrInvalidInput
}
