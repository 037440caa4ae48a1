// Package world is the registry of every campaign, logged-in player and
// monster the bot knows about.
package world

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dmbot/internal/game/campaign"
	"github.com/cory-johannsen/dmbot/internal/game/character"
	"github.com/cory-johannsen/dmbot/internal/game/entity"
	"github.com/cory-johannsen/dmbot/internal/game/fault"
	"github.com/cory-johannsen/dmbot/internal/game/npc"
)

// MonsterPrefix marks an identifier as a per-channel monster index.
const MonsterPrefix = "@"

var (
	ErrUserNotFound      = fmt.Errorf("world: user %w", fault.ErrNotFound)
	ErrGameNotFound      = fmt.Errorf("world: game %w", fault.ErrNotFound)
	ErrMonsterNotFound   = fmt.Errorf("world: monster %w", fault.ErrNotFound)
	ErrGameExists        = fmt.Errorf("world: game already exists: %w", fault.ErrInvalidInput)
	ErrInvalidIdentifier = fmt.Errorf("world: monster identifier must be @ followed by a non-negative integer: %w", fault.ErrInvalidInput)
	ErrChannelRequired   = fmt.Errorf("world: monster lookup requires a channel: %w", fault.ErrInvalidInput)
)

type session struct {
	player  *character.Player
	channel string
}

// World owns all games, logged-in players and monsters.
//
// World is not safe for concurrent use; callers serialize access.
type World struct {
	store    character.Store
	logger   *zap.Logger
	games    map[string]*campaign.Game
	users    map[string]session
	monsters map[string][]*npc.Monster
}

// New creates an empty World that persists players through store.
//
// Precondition: store and logger must be non-nil.
func New(store character.Store, logger *zap.Logger) *World {
	return &World{
		store:    store,
		logger:   logger,
		games:    make(map[string]*campaign.Game),
		users:    make(map[string]session),
		monsters: make(map[string][]*npc.Monster),
	}
}

// Store returns the player store backing the world.
func (w *World) Store() character.Store {
	return w.store
}

// AddUser records nickname as logged in to channel as p.
func (w *World) AddUser(nickname, channel string, p *character.Player) {
	w.users[nickname] = session{player: p, channel: channel}
}

// RemoveUser saves the player behind nickname, then logs them out of the
// world and their campaign roster.
//
// Postcondition: on a save failure the user stays logged in and the error
// wraps fault.ErrStorage.
func (w *World) RemoveUser(ctx context.Context, nickname string) (string, error) {
	s, ok := w.users[nickname]
	if !ok {
		return "", fmt.Errorf("removing %q: %w", nickname, ErrUserNotFound)
	}
	if err := w.store.Save(ctx, s.player); err != nil {
		return "", fault.Storage(fmt.Sprintf("saving %q", s.player.Username), err)
	}
	delete(w.users, nickname)
	if g, ok := w.games[s.channel]; ok {
		g.Logout(nickname)
	}
	w.logger.Info("user logged out",
		zap.String("nick", nickname),
		zap.String("username", s.player.Username),
		zap.String("channel", s.channel),
	)
	return s.channel, nil
}

// IsUserLoggedIn reports whether nickname has an active session.
func (w *World) IsUserLoggedIn(nickname string) bool {
	_, ok := w.users[nickname]
	return ok
}

// IsAccountLoggedIn reports whether any nickname is logged in as username.
func (w *World) IsAccountLoggedIn(username string) bool {
	for _, s := range w.users {
		if s.player.Username == username {
			return true
		}
	}
	return false
}

// GetUser returns the player logged in as nickname.
func (w *World) GetUser(nickname string) (*character.Player, error) {
	s, ok := w.users[nickname]
	if !ok {
		return nil, fmt.Errorf("%q: %w", nickname, ErrUserNotFound)
	}
	return s.player, nil
}

// UserChannel returns the channel nickname logged in through.
func (w *World) UserChannel(nickname string) (string, bool) {
	s, ok := w.users[nickname]
	return s.channel, ok
}

// Users returns all logged-in nicknames in sorted order.
func (w *World) Users() []string {
	out := make([]string, 0, len(w.users))
	for nick := range w.users {
		out = append(out, nick)
	}
	sort.Strings(out)
	return out
}

// GameExists reports whether channel hosts a campaign.
func (w *World) GameExists(channel string) bool {
	_, ok := w.games[channel]
	return ok
}

// AddGame registers a new campaign on channel.
//
// Postcondition: at most one Game per channel; a second call returns ErrGameExists.
func (w *World) AddGame(title, dm, channel string) (*campaign.Game, error) {
	if w.GameExists(channel) {
		return nil, fmt.Errorf("%s: %w", channel, ErrGameExists)
	}
	g := campaign.New(title, dm)
	w.games[channel] = g
	w.logger.Info("campaign created",
		zap.String("channel", channel),
		zap.String("title", title),
		zap.String("dm", dm),
		zap.Stringer("game_id", g.ID),
	)
	return g, nil
}

// GetGame returns the campaign on channel.
func (w *World) GetGame(channel string) (*campaign.Game, error) {
	g, ok := w.games[channel]
	if !ok {
		return nil, fmt.Errorf("%s: %w", channel, ErrGameNotFound)
	}
	return g, nil
}

// AddMonster appends m to channel's roster and returns its index.
//
// Postcondition: indices are 0, 1, 2, ... in call order per channel.
func (w *World) AddMonster(m *npc.Monster, channel string) int {
	idx := len(w.monsters[channel])
	w.monsters[channel] = append(w.monsters[channel], m)
	return idx
}

// Monsters returns channel's monster roster in index order.
func (w *World) Monsters(channel string) []*npc.Monster {
	return w.monsters[channel]
}

// GetEntity resolves identifier to an Entity. "@N" addresses the Nth monster
// added to channel; anything else is a logged-in nickname.
func (w *World) GetEntity(identifier, channel string) (entity.Entity, error) {
	rest, isMonster := strings.CutPrefix(identifier, MonsterPrefix)
	if !isMonster {
		p, err := w.GetUser(identifier)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	if channel == "" {
		return nil, ErrChannelRequired
	}
	// Decimal digits only, no sign.
	idx, err := strconv.ParseUint(rest, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", identifier, ErrInvalidIdentifier)
	}
	roster := w.monsters[channel]
	if idx >= uint64(len(roster)) {
		return nil, fmt.Errorf("%s in %s: %w", identifier, channel, ErrMonsterNotFound)
	}
	return roster[idx], nil
}

// SaveError reports a single failed save within SaveAll.
type SaveError struct {
	Nick     string
	Username string
	Err      error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("saving %s (%s): %v", e.Username, e.Nick, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// SaveAll persists every logged-in player. A failure does not stop the
// batch; every failure is returned joined.
func (w *World) SaveAll(ctx context.Context) error {
	var errs []error
	for _, nick := range w.Users() {
		p := w.users[nick].player
		if err := w.store.Save(ctx, p); err != nil {
			w.logger.Error("save failed",
				zap.String("nick", nick),
				zap.String("username", p.Username),
				zap.Error(err),
			)
			errs = append(errs, &SaveError{Nick: nick, Username: p.Username, Err: fault.Storage("save", err)})
		}
	}
	return errors.Join(errs...)
}

// FailedSaves lists the usernames named by SaveErrors in err.
func FailedSaves(err error) []string {
	switch e := err.(type) {
	case nil:
		return nil
	case *SaveError:
		return []string{e.Username}
	case interface{ Unwrap() []error }:
		var out []string
		for _, inner := range e.Unwrap() {
			out = append(out, FailedSaves(inner)...)
		}
		return out
	default:
		return nil
	}
}
