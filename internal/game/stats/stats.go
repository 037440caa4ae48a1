// Package stats defines the fixed attribute block shared by players and
// monsters, and the name table used to address individual attributes.
package stats

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
)

// Stat identifies one attribute of a Stats block.
type Stat int

// The attributes of a Stats block, in display order.
const (
	Health Stat = iota
	Movement
	Strength
	Dexterity
	Constitution
	Wisdom
	Intellect
	Charisma
)

// All lists every Stat in display order.
var All = []Stat{Health, Movement, Strength, Dexterity, Constitution, Wisdom, Intellect, Charisma}

// Abilities lists the six ability scores that carry a roll bonus.
var Abilities = []Stat{Strength, Dexterity, Constitution, Wisdom, Intellect, Charisma}

// synonyms maps each Stat to the names that address it. The first entry is
// the canonical name, the last is the short form used in listings.
var synonyms = map[Stat][]string{
	Health:       {"health", "hp"},
	Movement:     {"movement", "move"},
	Strength:     {"strength", "str"},
	Dexterity:    {"dexterity", "dex"},
	Constitution: {"constitution", "con"},
	Wisdom:       {"wisdom", "wis"},
	Intellect:    {"intellect", "int"},
	Charisma:     {"charisma", "cha"},
}

var byName = func() map[string]Stat {
	m := make(map[string]Stat)
	for stat, names := range synonyms {
		for _, n := range names {
			m[n] = stat
		}
	}
	return m
}()

var folder = cases.Fold()

// Lookup resolves a case-insensitive stat name or abbreviation.
//
// Postcondition: Returns (stat, true) for a known name, or (0, false).
func Lookup(name string) (Stat, bool) {
	s, ok := byName[folder.String(strings.TrimSpace(name))]
	return s, ok
}

// String returns the canonical lowercase name of the stat.
func (s Stat) String() string {
	if names, ok := synonyms[s]; ok {
		return names[0]
	}
	return fmt.Sprintf("stat(%d)", int(s))
}

// Abbrev returns the short name of the stat, e.g. "str" or "hp".
func (s Stat) Abbrev() string {
	if names, ok := synonyms[s]; ok {
		return names[len(names)-1]
	}
	return s.String()
}

// IsAbility reports whether s is one of the six ability scores.
func (s Stat) IsAbility() bool {
	return s >= Strength && s <= Charisma
}

// Stats is the attribute block of an entity.
//
// Invariant: every field is within the uint8 range; Health never wraps below zero.
type Stats struct {
	Health       uint8 `json:"health" yaml:"health"`
	Movement     uint8 `json:"movement" yaml:"movement"`
	Strength     uint8 `json:"strength" yaml:"strength"`
	Dexterity    uint8 `json:"dexterity" yaml:"dexterity"`
	Constitution uint8 `json:"constitution" yaml:"constitution"`
	Wisdom       uint8 `json:"wisdom" yaml:"wisdom"`
	Intellect    uint8 `json:"intellect" yaml:"intellect"`
	Charisma     uint8 `json:"charisma" yaml:"charisma"`
}

// New builds a Stats block from the eight attribute values in display order.
func New(health, movement, strength, dexterity, constitution, wisdom, intellect, charisma uint8) Stats {
	return Stats{
		Health:       health,
		Movement:     movement,
		Strength:     strength,
		Dexterity:    dexterity,
		Constitution: constitution,
		Wisdom:       wisdom,
		Intellect:    intellect,
		Charisma:     charisma,
	}
}

// FromValues builds a Stats block from exactly eight values in display order.
//
// Precondition: len(values) == 8.
func FromValues(values []uint8) (Stats, error) {
	if len(values) != len(All) {
		return Stats{}, fmt.Errorf("stats: expected %d values, got %d", len(All), len(values))
	}
	var s Stats
	for i, stat := range All {
		*s.field(stat) = values[i]
	}
	return s, nil
}

func (s *Stats) field(stat Stat) *uint8 {
	switch stat {
	case Health:
		return &s.Health
	case Movement:
		return &s.Movement
	case Strength:
		return &s.Strength
	case Dexterity:
		return &s.Dexterity
	case Constitution:
		return &s.Constitution
	case Wisdom:
		return &s.Wisdom
	case Intellect:
		return &s.Intellect
	case Charisma:
		return &s.Charisma
	}
	return nil
}

// Value returns the value of stat.
func (s Stats) Value(stat Stat) uint8 {
	if f := s.field(stat); f != nil {
		return *f
	}
	return 0
}

// Get returns the value addressed by name.
//
// Postcondition: Returns (value, true) for a known name, or (0, false).
func (s Stats) Get(name string) (uint8, bool) {
	stat, ok := Lookup(name)
	if !ok {
		return 0, false
	}
	return s.Value(stat), true
}

// Update sets the stat addressed by name. Unknown names are ignored.
func (s *Stats) Update(name string, value uint8) {
	if stat, ok := Lookup(name); ok {
		*s.field(stat) = value
	}
}

// Increase adds value to the stat addressed by name, saturating at 255.
// Unknown names are ignored.
func (s *Stats) Increase(name string, value uint8) {
	stat, ok := Lookup(name)
	if !ok {
		return
	}
	f := s.field(stat)
	sum := int(*f) + int(value)
	if sum > math.MaxUint8 {
		sum = math.MaxUint8
	}
	*f = uint8(sum)
}

// Bonus returns the roll bonus derived from the given stat.
func (s Stats) Bonus(stat Stat) int {
	return CalcBonus(s.Value(stat))
}

// Damage subtracts amount from Health.
//
// Postcondition: if amount >= Health, Health == 0 and false is returned;
// otherwise Health decreases by amount and true is returned.
func (s *Stats) Damage(amount uint8) bool {
	if amount >= s.Health {
		s.Health = 0
		return false
	}
	s.Health -= amount
	return true
}

// String renders the block as "Health 20, Movement 30, Str 12, ...".
func (s Stats) String() string {
	parts := make([]string, 0, len(All))
	for _, stat := range All {
		label := stat.String()
		if stat.IsAbility() {
			label = stat.Abbrev()
		}
		parts = append(parts, fmt.Sprintf("%s%s %d", strings.ToUpper(label[:1]), label[1:], s.Value(stat)))
	}
	return strings.Join(parts, ", ")
}

// CalcBonus returns floor((score - 10) / 2).
func CalcBonus(score uint8) int {
	d := int(score) - 10
	if d < 0 {
		return (d - 1) / 2
	}
	return d / 2
}
