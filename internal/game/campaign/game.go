// Package campaign models a single tabletop campaign bound to one chat channel.
package campaign

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/cory-johannsen/dmbot/internal/game/character"
	"github.com/cory-johannsen/dmbot/internal/game/fault"
)

// ErrPasswordIncorrect is returned by Login on a credential mismatch.
var ErrPasswordIncorrect = fmt.Errorf("campaign: %w", fault.ErrPasswordIncorrect)

// Game is one campaign. It holds nicknames only; the World owns the players.
//
// Invariant: DM is fixed at creation.
type Game struct {
	ID    uuid.UUID
	Title string
	dm    string
	// roster maps nickname to username.
	roster map[string]string
}

// New creates a campaign run by dm.
//
// Postcondition: ID is a fresh random UUID; the roster is empty.
func New(title, dm string) *Game {
	return &Game{
		ID:     uuid.New(),
		Title:  title,
		dm:     dm,
		roster: make(map[string]string),
	}
}

// DM returns the identity that runs the campaign.
func (g *Game) DM() string {
	return g.dm
}

// IsDM reports whether identity exactly matches the DM.
func (g *Game) IsDM(identity string) bool {
	return identity == g.dm
}

// Login adds nickname to the roster when password matches p's stored hash.
//
// Postcondition: on ErrPasswordIncorrect the roster is unchanged.
func (g *Game) Login(p *character.Player, nickname, password string) error {
	if !p.Authenticate(password) {
		return ErrPasswordIncorrect
	}
	g.roster[nickname] = p.Username
	return nil
}

// Logout removes nickname from the roster; it is a no-op for unknown nicknames.
func (g *Game) Logout(nickname string) {
	delete(g.roster, nickname)
}

// InRoster reports whether nickname is logged into this campaign.
func (g *Game) InRoster(nickname string) bool {
	_, ok := g.roster[nickname]
	return ok
}

// Players returns the logged-in nicknames in sorted order.
func (g *Game) Players() []string {
	out := make([]string, 0, len(g.roster))
	for nick := range g.roster {
		out = append(out, nick)
	}
	sort.Strings(out)
	return out
}
