package gameserver

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dmbot/internal/game/fault"
	"github.com/cory-johannsen/dmbot/internal/game/npc"
)

// InviteOnly is the channel mode set on every campaign channel.
const InviteOnly = "+i"

// create channel campaign name
func (d *Dispatcher) handleCreate(_ context.Context, req *Request) ([]Response, error) {
	if len(req.Args) < 2 {
		return nil, d.incorrectFormat(req)
	}
	channel := req.Args[0]
	title := strings.Join(req.Args[1:], " ")
	if !IsChannel(channel) {
		return nil, fault.Propagate(req.Sender, fmt.Sprintf("%s is not a valid channel.", channel), fault.ErrInvalidInput)
	}
	if d.world.GameExists(channel) {
		return nil, fault.Propagate(req.Sender, fmt.Sprintf("There is already a game in %s.", channel), fault.ErrInvalidInput)
	}

	if err := d.transport.Join(channel); err != nil {
		return nil, fmt.Errorf("joining %s: %w", channel, err)
	}
	if err := d.transport.SetTopic(channel, title); err != nil {
		return nil, fmt.Errorf("setting topic on %s: %w", channel, err)
	}
	if err := d.transport.SetMode(channel, InviteOnly); err != nil {
		return nil, fmt.Errorf("setting mode on %s: %w", channel, err)
	}
	if _, err := d.world.AddGame(title, req.Sender, channel); err != nil {
		return nil, fault.Propagate(req.Sender, fmt.Sprintf("There is already a game in %s.", channel), err)
	}
	d.invite(req.Sender, channel)
	return replySender(req, "Campaign created named %s.", title), nil
}

// invite asks the server to let nick into channel. The session or game
// already exists by then, so a refused invite is logged like a refused
// kick and the state is kept.
func (d *Dispatcher) invite(nick, channel string) {
	if err := d.transport.Invite(nick, channel); err != nil {
		d.logger.Warn("invite failed", zap.String("nick", nick), zap.String("channel", channel), zap.Error(err))
	}
}

// addmonster channel name health movement str dex con wis int cha
func (d *Dispatcher) handleAddMonster(_ context.Context, req *Request) ([]Response, error) {
	if len(req.Args) != 10 {
		return nil, d.incorrectFormat(req)
	}
	channel, name := req.Args[0], req.Args[1]
	if _, err := d.requireDM(req.Sender, channel); err != nil {
		return nil, err
	}
	base, ok := parseStats(req.Args[2:])
	if !ok {
		return nil, d.invalidStats(req)
	}
	idx := d.world.AddMonster(npc.NewMonster(name, base), channel)
	return replySender(req, "Monster (%s) has been created as @%d.", name, idx), nil
}

// spawn channel template
func (d *Dispatcher) handleSpawn(_ context.Context, req *Request) ([]Response, error) {
	if len(req.Args) != 2 {
		return nil, d.incorrectFormat(req)
	}
	channel, id := req.Args[0], req.Args[1]
	if _, err := d.requireDM(req.Sender, channel); err != nil {
		return nil, err
	}
	tmpl, ok := d.bestiary.Get(id)
	if !ok {
		return nil, fault.Propagate(req.Sender, fmt.Sprintf("%s is not in the bestiary.", id), fault.ErrNotFound)
	}
	m := tmpl.Spawn()
	idx := d.world.AddMonster(m, channel)
	return replySender(req, "Monster (%s) has been created as @%d.", m.Name, idx), nil
}

// bestiary
func (d *Dispatcher) handleBestiary(_ context.Context, req *Request) ([]Response, error) {
	ids := d.bestiary.IDs()
	if len(ids) == 0 {
		return replySender(req, "The bestiary is empty."), nil
	}
	return replySender(req, "Bestiary: %s.", strings.Join(ids, ", ")), nil
}

// .who
func (d *Dispatcher) handleWho(_ context.Context, req *Request) ([]Response, error) {
	g, err := d.world.GetGame(req.Channel)
	if err != nil {
		return nil, fault.Propagate(req.Sender, fmt.Sprintf("There is no game in %s.", req.Channel), err)
	}
	players := g.Players()
	if len(players) == 0 {
		return reply(req, "%s is run by %s. No players are logged in.", g.Title, g.DM()), nil
	}
	return reply(req, "%s is run by %s. Players: %s.", g.Title, g.DM(), strings.Join(players, ", ")), nil
}
