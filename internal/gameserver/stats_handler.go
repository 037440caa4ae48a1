package gameserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/cory-johannsen/dmbot/internal/game/character"
	"github.com/cory-johannsen/dmbot/internal/game/entity"
	"github.com/cory-johannsen/dmbot/internal/game/fault"
	"github.com/cory-johannsen/dmbot/internal/game/stats"
)

func tempLabel(e entity.Entity) string {
	if e.HasTempStats() {
		return "Temp. "
	}
	return ""
}

func formatFeats(feats []string) string {
	return "[" + strings.Join(feats, ", ") + "]"
}

// describe renders an entity, or one of its stats when stat is non-empty.
func describe(e entity.Entity, ref, stat string) (string, bool) {
	p, isPlayer := e.(*character.Player)
	switch {
	case stat == "":
		s := fmt.Sprintf("%s (%s): %s%s", e.Identifier(), ref, tempLabel(e), e.Stats())
		if isPlayer {
			s += " Feats " + formatFeats(p.Feats)
		}
		return s, true
	case isPlayer && (strings.EqualFold(stat, "feats") || strings.EqualFold(stat, "feat")):
		return fmt.Sprintf("%s (%s): %s", e.Identifier(), ref, formatFeats(p.Feats)), true
	case strings.EqualFold(stat, "pos") || strings.EqualFold(stat, "position"):
		return fmt.Sprintf("%s (%s) is at %s.", e.Identifier(), ref, e.Position()), true
	}
	v, ok := e.Stats().Get(stat)
	if !ok {
		return fmt.Sprintf("%s is not a valid stat.", stat), false
	}
	return fmt.Sprintf("%s (%s): %s%d %s", e.Identifier(), ref, tempLabel(e), v, stat), true
}

func describeResponse(req *Request, target string, e entity.Entity, stat string) ([]Response, error) {
	msg, ok := describe(e, target, stat)
	if !ok {
		return nil, fault.Propagate(req.ReplyTo(), msg, fault.ErrInvalidInput)
	}
	return []Response{{Target: req.ReplyTo(), Message: msg}}, nil
}

// lookup target [stat]
func (d *Dispatcher) handleLookup(_ context.Context, req *Request) ([]Response, error) {
	if len(req.Args) != 1 && len(req.Args) != 2 {
		return nil, d.incorrectFormat(req)
	}
	target, stat := req.Args[0], ""
	if len(req.Args) == 2 {
		stat = req.Args[1]
	}

	var e entity.Entity
	if req.IsPrivate() {
		p, err := d.world.GetUser(target)
		if err != nil {
			return nil, d.targetError(req, target, err)
		}
		e = p
	} else {
		var err error
		if e, err = d.resolveTarget(req, target, req.Channel); err != nil {
			return nil, err
		}
	}
	return describeResponse(req, target, e, stat)
}

// mlookup channel target [stat]
func (d *Dispatcher) handleMLookup(_ context.Context, req *Request) ([]Response, error) {
	if len(req.Args) != 2 && len(req.Args) != 3 {
		return nil, d.incorrectFormat(req)
	}
	channel, target, stat := req.Args[0], req.Args[1], ""
	if len(req.Args) == 3 {
		stat = req.Args[2]
	}
	if !isMonsterRef(target) {
		return nil, fault.Propagate(req.Sender, fmt.Sprintf("%s is not a valid monster.", target), fault.ErrInvalidInput)
	}
	e, err := d.resolveTarget(req, target, channel)
	if err != nil {
		return nil, err
	}
	return describeResponse(req, target, e, stat)
}

// .update stat value
func (d *Dispatcher) handleUpdate(ctx context.Context, req *Request) ([]Response, error) {
	return d.changeStat(ctx, req, func(s *stats.Stats, name string, v uint8) { s.Update(name, v) })
}

// .increase stat value
func (d *Dispatcher) handleIncrease(ctx context.Context, req *Request) ([]Response, error) {
	return d.changeStat(ctx, req, func(s *stats.Stats, name string, v uint8) { s.Increase(name, v) })
}

func (d *Dispatcher) changeStat(_ context.Context, req *Request, apply func(*stats.Stats, string, uint8)) ([]Response, error) {
	if len(req.Args) != 2 {
		return nil, d.incorrectFormat(req)
	}
	name, raw := req.Args[0], req.Args[1]
	p, err := d.world.GetUser(req.Sender)
	if err != nil {
		return nil, fault.Propagate(req.ReplyTo(), "You're not logged in.", err)
	}
	if _, ok := stats.Lookup(name); !ok {
		return nil, fault.Propagate(req.ReplyTo(), fmt.Sprintf("%s is not a valid stat.", name), fault.ErrInvalidInput)
	}
	n, ok := parseAmount(raw)
	if !ok {
		return nil, fault.Propagate(req.ReplyTo(), fmt.Sprintf("%s is not a valid positive integer.", raw), fault.ErrInvalidInput)
	}
	apply(&p.Base, name, n)
	v, _ := p.Base.Get(name)
	return reply(req, "%s (%s) now has %d %s.", p.Username, req.Sender, v, name), nil
}

// .temp target health movement str dex con wis int cha
func (d *Dispatcher) handleTemp(_ context.Context, req *Request) ([]Response, error) {
	if len(req.Args) != 9 {
		return nil, d.incorrectFormat(req)
	}
	target := req.Args[0]
	e, err := d.world.GetEntity(target, req.Channel)
	if err != nil {
		return nil, fault.Propagate(req.ReplyTo(), fmt.Sprintf("%s is not logged in or does not exist.", target), err)
	}
	temp, ok := parseStats(req.Args[1:])
	if !ok {
		return nil, d.invalidStats(req)
	}
	e.SetTempStats(temp)
	return reply(req, "%s (%s) now has temporary %s.", e.Identifier(), target, e.Stats()), nil
}

// .cleartemp target
func (d *Dispatcher) handleClearTemp(_ context.Context, req *Request) ([]Response, error) {
	if len(req.Args) != 1 {
		return nil, d.incorrectFormat(req)
	}
	target := req.Args[0]
	e, err := d.world.GetEntity(target, req.Channel)
	if err != nil {
		return nil, fault.Propagate(req.ReplyTo(), fmt.Sprintf("%s is not logged in or does not exist.", target), err)
	}
	e.ClearTempStats()
	return reply(req, "%s (%s) has reverted to %s.", e.Identifier(), target, e.Stats()), nil
}
