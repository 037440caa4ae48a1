package gameserver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/dmbot/internal/game/campaign"
	"github.com/cory-johannsen/dmbot/internal/game/entity"
	"github.com/cory-johannsen/dmbot/internal/game/fault"
	"github.com/cory-johannsen/dmbot/internal/game/stats"
	"github.com/cory-johannsen/dmbot/internal/game/world"
)

// requireDM returns the campaign on channel when sender runs it. Failures are
// routed to the sender.
func (d *Dispatcher) requireDM(sender, channel string) (*campaign.Game, error) {
	g, err := d.world.GetGame(channel)
	if err != nil {
		return nil, fault.Propagate(sender, fmt.Sprintf("There is no game in %s.", channel), err)
	}
	if !g.IsDM(sender) {
		return nil, fault.Propagate(sender, "You must be the DM to do that!", fault.ErrInvalidInput)
	}
	return g, nil
}

// isMonsterRef reports whether identifier addresses a monster.
func isMonsterRef(identifier string) bool {
	return strings.HasPrefix(identifier, world.MonsterPrefix)
}

// resolveTarget looks up identifier in channel. Monster references require
// the sender to be the DM of channel.
func (d *Dispatcher) resolveTarget(req *Request, identifier, channel string) (entity.Entity, error) {
	if isMonsterRef(identifier) {
		if _, err := d.requireDM(req.Sender, channel); err != nil {
			return nil, err
		}
	}
	e, err := d.world.GetEntity(identifier, channel)
	if err != nil {
		return nil, d.targetError(req, identifier, err)
	}
	return e, nil
}

// resolveSelf returns the sender's own logged-in player.
func (d *Dispatcher) resolveSelf(req *Request) (entity.Entity, error) {
	p, err := d.world.GetUser(req.Sender)
	if err != nil {
		return nil, fault.Propagate(req.ReplyTo(), fmt.Sprintf("%s is not logged in.", req.Sender), err)
	}
	return p, nil
}

func (d *Dispatcher) targetError(req *Request, identifier string, err error) error {
	switch {
	case errors.Is(err, world.ErrUserNotFound):
		return fault.Propagate(req.ReplyTo(), fmt.Sprintf("%s is not logged in.", identifier), err)
	default:
		return fault.Propagate(req.ReplyTo(), fmt.Sprintf("%s is not a valid monster.", identifier), err)
	}
}

// parseStats reads eight stats in display order. Each must be 1..255.
func parseStats(args []string) (stats.Stats, bool) {
	if len(args) != len(stats.All) {
		return stats.Stats{}, false
	}
	values := make([]uint8, len(args))
	for i, a := range args {
		n, ok := parsePositive(a)
		if !ok {
			return stats.Stats{}, false
		}
		values[i] = n
	}
	s, err := stats.FromValues(values)
	return s, err == nil
}

// parsePositive parses a non-zero uint8.
func parsePositive(s string) (uint8, bool) {
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint8(n), true
}

// parseAmount parses a uint8 that may be zero.
func parseAmount(s string) (uint8, bool) {
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, false
	}
	return uint8(n), true
}

// invalidStats rejects a non-positive stat list with the expected shape.
func (d *Dispatcher) invalidStats(req *Request) error {
	return fault.Propagate(req.ReplyTo(),
		"Stats must be non-zero positive integers. Format is:\n"+req.Command.Format(d.contextPrefix(req)),
		fault.ErrInvalidInput)
}

// statOptions is appended to every invalid stat name rejection.
const statOptions = "Options: str dex con wis int cha (or their full names)."
