package gameserver

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/cory-johannsen/dmbot/internal/game/dice"
	"github.com/cory-johannsen/dmbot/internal/game/entity"
	"github.com/cory-johannsen/dmbot/internal/game/fault"
)

// roll [dice]
func (d *Dispatcher) handlePrivateRoll(_ context.Context, req *Request) ([]Response, error) {
	switch len(req.Args) {
	case 0:
		return replySender(req, "You rolled %d.", d.dice.Basic()), nil
	case 1:
		res, err := d.dice.RollExpr(req.Args[0])
		if err != nil {
			return nil, fault.Propagate(req.Sender, fmt.Sprintf("%s is not a valid dice expression.", req.Args[0]), err)
		}
		return replySender(req, "You rolled %s.", res), nil
	default:
		return nil, d.incorrectFormat(req)
	}
}

// .roll [@monster] [stat]
func (d *Dispatcher) handleRoll(_ context.Context, req *Request) ([]Response, error) {
	var (
		e    entity.Entity
		stat string
		err  error
	)
	switch {
	case len(req.Args) == 0:
		e, err = d.resolveSelf(req)
	case len(req.Args) == 1 && isMonsterRef(req.Args[0]):
		e, err = d.resolveTarget(req, req.Args[0], req.Channel)
	case len(req.Args) == 1:
		e, err = d.resolveSelf(req)
		stat = req.Args[0]
	case len(req.Args) == 2 && isMonsterRef(req.Args[0]):
		e, err = d.resolveTarget(req, req.Args[0], req.Channel)
		stat = req.Args[1]
	default:
		return nil, d.incorrectFormat(req)
	}
	if err != nil {
		return nil, err
	}

	rt := dice.Basic
	if stat != "" {
		var ok bool
		if rt, ok = dice.ParseRollType(stat); !ok {
			return nil, fault.Propagate(req.ReplyTo(), fmt.Sprintf("%s is not a valid stat.\n%s", stat, statOptions), fault.ErrInvalidInput)
		}
	}
	return reply(req, "%s rolled %d.", e.Identifier(), e.Roll(d.dice, rt)), nil
}

// .damage target value
func (d *Dispatcher) handleDamage(_ context.Context, req *Request) ([]Response, error) {
	if len(req.Args) != 2 {
		return nil, d.incorrectFormat(req)
	}
	target, raw := req.Args[0], req.Args[1]
	e, err := d.world.GetEntity(target, req.Channel)
	if err != nil {
		return nil, d.targetError(req, target, err)
	}
	n, ok := parseAmount(raw)
	if !ok {
		return nil, fault.Propagate(req.ReplyTo(), fmt.Sprintf("%s is not a valid positive integer.", raw), fault.ErrInvalidInput)
	}
	if !e.Damage(n) {
		return reply(req, "%s (%s) has fallen unconscious.", e.Identifier(), target), nil
	}
	return reply(req, "%s (%s) took %d damage and has %d health remaining.", e.Identifier(), target, n, e.Stats().Health), nil
}

// .move [@monster] x y
func (d *Dispatcher) handleMove(_ context.Context, req *Request) ([]Response, error) {
	var (
		e      entity.Entity
		coords []string
		err    error
	)
	switch {
	case len(req.Args) == 2:
		e, err = d.resolveSelf(req)
		coords = req.Args
	case len(req.Args) == 3 && isMonsterRef(req.Args[0]):
		e, err = d.resolveTarget(req, req.Args[0], req.Channel)
		coords = req.Args[1:]
	default:
		return nil, d.incorrectFormat(req)
	}
	if err != nil {
		return nil, err
	}

	var to entity.Position
	for i, dst := range []*int{&to.X, &to.Y} {
		v, convErr := strconv.Atoi(coords[i])
		if convErr != nil {
			return nil, fault.Propagate(req.ReplyTo(), fmt.Sprintf("%s is not a valid integer.", coords[i]), fault.ErrInvalidInput)
		}
		*dst = v
	}

	if err := e.Move(to); err != nil {
		var me *entity.MoveError
		if errors.As(err, &me) {
			return nil, fault.Propagate(req.ReplyTo(), me.Error(), err)
		}
		return nil, err
	}
	return reply(req, "%s moved to %s.", e.Identifier(), to), nil
}
