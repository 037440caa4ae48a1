package gameserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dmbot/internal/game/campaign"
	"github.com/cory-johannsen/dmbot/internal/game/character"
	"github.com/cory-johannsen/dmbot/internal/game/fault"
	"github.com/cory-johannsen/dmbot/internal/game/world"
)

// register username password health movement str dex con wis int cha
func (d *Dispatcher) handleRegister(ctx context.Context, req *Request) ([]Response, error) {
	if len(req.Args) != 10 {
		return nil, d.incorrectFormat(req)
	}
	username, password := req.Args[0], req.Args[1]
	base, ok := parseStats(req.Args[2:])
	if !ok {
		return nil, d.invalidStats(req)
	}

	store := d.world.Store()
	_, err := store.Load(ctx, username)
	switch {
	case err == nil:
		return nil, fault.Propagatef(req.Sender, "Account %s already exists.", username)
	case fault.KindOf(err) == fault.KindInvalidInput:
		return nil, fault.Propagate(req.Sender, fmt.Sprintf("%s is not a valid username.", username), err)
	case !errors.Is(err, character.ErrNotFound):
		return nil, fault.Propagate(req.Sender, fmt.Sprintf("Failed to create %s.", username), err)
	}

	p, err := character.Create(username, password, base)
	if err != nil {
		return nil, fmt.Errorf("creating %q: %w", username, err)
	}
	if err := store.Save(ctx, p); err != nil {
		return nil, fault.Propagate(req.Sender, fmt.Sprintf("Failed to save %s.", username), err)
	}
	d.logger.Info("account registered", zap.String("nick", req.Sender), zap.String("username", username))
	return replySender(req, "Your account (%s) has been created.", username), nil
}

// login username password channel
func (d *Dispatcher) handleLogin(ctx context.Context, req *Request) ([]Response, error) {
	if len(req.Args) != 3 {
		return nil, d.incorrectFormat(req)
	}
	username, password, channel := req.Args[0], req.Args[1], req.Args[2]

	p, err := d.world.Store().Load(ctx, username)
	if err != nil {
		return nil, fault.Propagate(req.Sender, fmt.Sprintf("Account %s does not exist, or could not be loaded.", username), err)
	}
	if d.world.IsUserLoggedIn(req.Sender) {
		return nil, fault.Propagate(req.Sender, "You can only be logged into one account at once.\nUse logout to log out.", fault.ErrInvalidInput)
	}
	if d.world.IsAccountLoggedIn(username) {
		return nil, fault.Propagatef(req.Sender, "Account %s is already logged in.", username)
	}
	g, err := d.world.GetGame(channel)
	if err != nil {
		return nil, fault.Propagate(req.Sender, fmt.Sprintf("Game not found on channel %s.", channel), err)
	}
	if err := g.Login(p, req.Sender, password); err != nil {
		if errors.Is(err, campaign.ErrPasswordIncorrect) {
			return nil, fault.Propagate(req.Sender, "Password incorrect.", err)
		}
		return nil, err
	}
	d.world.AddUser(req.Sender, channel, p)
	d.logger.Info("user logged in",
		zap.String("nick", req.Sender),
		zap.String("username", username),
		zap.String("channel", channel),
		zap.Stringer("game_id", g.ID),
	)
	d.invite(req.Sender, channel)
	return replySender(req, "Login successful."), nil
}

// logout
func (d *Dispatcher) handleLogout(ctx context.Context, req *Request) ([]Response, error) {
	p, err := d.world.GetUser(req.Sender)
	if err != nil {
		return nil, fault.Propagate(req.Sender, "You're not currently logged in.", err)
	}
	channel, err := d.world.RemoveUser(ctx, req.Sender)
	if err != nil {
		return nil, fault.Propagate(req.Sender, fmt.Sprintf("Failed to save %s; you are still logged in.", p.Username), err)
	}
	if err := d.transport.Kick(channel, req.Sender, "Logged out."); err != nil {
		d.logger.Warn("kick failed", zap.String("nick", req.Sender), zap.String("channel", channel), zap.Error(err))
	}
	return replySender(req, "You've been logged out."), nil
}

// addfeat name of feat
func (d *Dispatcher) handleAddFeat(_ context.Context, req *Request) ([]Response, error) {
	if len(req.Args) == 0 {
		return nil, d.incorrectFormat(req)
	}
	p, err := d.world.GetUser(req.Sender)
	if err != nil {
		return nil, fault.Propagate(req.Sender, "You must be logged in to add a feat.", err)
	}
	name := strings.Join(req.Args, " ")
	p.AddFeat(name)
	return replySender(req, "Added %s feat.", name), nil
}

// save
func (d *Dispatcher) handleSave(ctx context.Context, req *Request) ([]Response, error) {
	p, err := d.world.GetUser(req.Sender)
	if err != nil {
		return nil, fault.Propagate(req.Sender, "You must be logged in to save.", err)
	}
	if err := d.world.Store().Save(ctx, p); err != nil {
		return nil, fault.Propagate(req.Sender, fmt.Sprintf("Failed to save %s.", p.Username), err)
	}
	return replySender(req, "Saved %s.", p.Username), nil
}

// saveall
func (d *Dispatcher) handleSaveAll(ctx context.Context, req *Request) ([]Response, error) {
	if !d.transport.IsOwner(req.Sender) {
		return nil, fault.Propagatef(req.Sender, "You must own the bot to do that!")
	}
	if err := d.world.SaveAll(ctx); err != nil {
		failed := world.FailedSaves(err)
		return nil, fault.Propagate(req.Sender, fmt.Sprintf("Failed to save %s.", strings.Join(failed, ", ")), err)
	}
	return replySender(req, "The world has been saved."), nil
}
