// Package npc defines monsters: DM-created creatures that live only for the
// duration of a campaign session, and the YAML bestiary they can be spawned
// from.
package npc

import (
	"github.com/cory-johannsen/dmbot/internal/game/entity"
	"github.com/cory-johannsen/dmbot/internal/game/stats"
)

// Monster is an unpersisted Entity. Names need not be unique; monsters are
// addressed by their per-channel index.
type Monster struct {
	Name string
	entity.Body
}

var _ entity.Entity = (*Monster)(nil)

// NewMonster returns a monster at the origin with no override.
func NewMonster(name string, base stats.Stats) *Monster {
	return &Monster{Name: name, Body: entity.NewBody(base)}
}

// Identifier returns the monster's name.
func (m *Monster) Identifier() string {
	return m.Name
}

// Move relocates the monster within its movement budget.
func (m *Monster) Move(to entity.Position) error {
	return m.MoveAs(m.Name, to)
}
