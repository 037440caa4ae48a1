// Package gameserver turns chat lines into game-state changes and routes the
// resulting replies back through the chat transport.
package gameserver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dmbot/internal/game/command"
	"github.com/cory-johannsen/dmbot/internal/game/dice"
	"github.com/cory-johannsen/dmbot/internal/game/fault"
	"github.com/cory-johannsen/dmbot/internal/game/npc"
	"github.com/cory-johannsen/dmbot/internal/game/world"
)

// DefaultPrefix marks a channel line as a command.
const DefaultPrefix = "."

// GenericFailure is sent when a handler fails without a routed message.
const GenericFailure = "Something went wrong."

// Transport is the chat layer the dispatcher drives.
//
// Implementations MUST deliver multi-line text as one message per line.
type Transport interface {
	Send(target, text string) error
	Join(channel string) error
	SetTopic(channel, topic string) error
	SetMode(channel, mode string) error
	Invite(nick, channel string) error
	Kick(channel, nick, reason string) error
	IsOwner(identity string) bool
}

// Message is one incoming chat line. To is a channel or the bot's own nick.
type Message struct {
	From string
	To   string
	Text string
}

// Response is a line of text bound for a user or channel.
type Response struct {
	Target  string
	Message string
}

// Request is a resolved command invocation.
type Request struct {
	Sender string
	// Channel is empty for private messages.
	Channel string
	Command *command.Command
	Args    []string
}

// ReplyTo is the natural recipient: the channel, or the sender in private.
func (r *Request) ReplyTo() string {
	if r.Channel != "" {
		return r.Channel
	}
	return r.Sender
}

// IsPrivate reports whether the request came in a private message.
func (r *Request) IsPrivate() bool {
	return r.Channel == ""
}

type handlerFunc func(ctx context.Context, req *Request) ([]Response, error)

// Config tunes a Dispatcher.
type Config struct {
	// Prefix marks channel commands; DefaultPrefix when empty.
	Prefix string
	// Bestiary backs the spawn command; nil means empty.
	Bestiary npc.Bestiary
}

// Dispatcher processes chat lines one at a time against a World.
//
// Invariant: all World access happens with mu held.
type Dispatcher struct {
	mu        sync.Mutex
	world     *world.World
	transport Transport
	dice      *dice.Roller
	logger    *zap.Logger
	prefix    string
	bestiary  npc.Bestiary
	private   *command.Registry
	channel   *command.Registry
	handlers  map[string]handlerFunc
}

// NewDispatcher creates a Dispatcher.
//
// Precondition: w, transport, roller and logger must be non-nil.
func NewDispatcher(w *world.World, transport Transport, roller *dice.Roller, logger *zap.Logger, cfg Config) *Dispatcher {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	bestiary := cfg.Bestiary
	if bestiary == nil {
		bestiary = npc.Bestiary{}
	}
	d := &Dispatcher{
		world:     w,
		transport: transport,
		dice:      roller,
		logger:    logger,
		prefix:    prefix,
		bestiary:  bestiary,
		private:   command.PrivateRegistry(),
		channel:   command.ChannelRegistry(),
	}
	d.handlers = map[string]handlerFunc{
		command.HandlerRegister:    d.handleRegister,
		command.HandlerLogin:       d.handleLogin,
		command.HandlerLogout:      d.handleLogout,
		command.HandlerCreate:      d.handleCreate,
		command.HandlerAddFeat:     d.handleAddFeat,
		command.HandlerPrivateRoll: d.handlePrivateRoll,
		command.HandlerRoll:        d.handleRoll,
		command.HandlerSaveAll:     d.handleSaveAll,
		command.HandlerSave:        d.handleSave,
		command.HandlerLookup:      d.handleLookup,
		command.HandlerMLookup:     d.handleMLookup,
		command.HandlerAddMonster:  d.handleAddMonster,
		command.HandlerSpawn:       d.handleSpawn,
		command.HandlerBestiary:    d.handleBestiary,
		command.HandlerUpdate:      d.handleUpdate,
		command.HandlerIncrease:    d.handleIncrease,
		command.HandlerTemp:        d.handleTemp,
		command.HandlerClearTemp:   d.handleClearTemp,
		command.HandlerDamage:      d.handleDamage,
		command.HandlerMove:        d.handleMove,
		command.HandlerWho:         d.handleWho,
		command.HandlerHelp:        d.handleHelp,
	}
	return d
}

// IsChannel reports whether name addresses a channel rather than a user.
// Names carrying a space, comma, BEL or NUL cannot be sent as a single
// IRC parameter and are never channels.
func IsChannel(name string) bool {
	if !strings.HasPrefix(name, "#") && !strings.HasPrefix(name, "&") {
		return false
	}
	return len(name) > 1 && !strings.ContainsAny(name, " ,\a\x00\r\n")
}

// Handle processes one chat line and sends every reply.
//
// Postcondition: the returned error reports transport failures only; game
// failures are delivered to their target as text.
func (d *Dispatcher) Handle(ctx context.Context, msg Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	req, ok, err := d.route(msg)
	if err != nil {
		return d.deliver(msg.From, nil, err)
	}
	if !ok {
		return nil
	}
	d.logger.Debug("command",
		zap.String("sender", req.Sender),
		zap.String("target", req.ReplyTo()),
		zap.String("command", req.Command.Name),
		zap.Int("args", len(req.Args)),
	)

	if !req.IsPrivate() && req.Command.DMOnly {
		if _, err := d.requireDM(req.Sender, req.Channel); err != nil {
			return d.deliver(req.Sender, nil, err)
		}
	}

	handler, ok := d.handlers[req.Command.Handler]
	if !ok {
		return d.deliver(req.Sender, nil, fmt.Errorf("no handler registered for %q", req.Command.Handler))
	}
	responses, err := handler(ctx, req)
	return d.deliver(req.Sender, responses, err)
}

// route parses msg and resolves its command. ok is false for lines that
// should be ignored.
func (d *Dispatcher) route(msg Message) (*Request, bool, error) {
	if IsChannel(msg.To) {
		if !strings.HasPrefix(msg.Text, d.prefix) {
			return nil, false, nil
		}
		// Chatter that merely starts with the prefix is ignored before
		// tokenizing, so an unbalanced quote in it draws no reply.
		name, _, _ := strings.Cut(strings.TrimPrefix(msg.Text, d.prefix), " ")
		if _, found := d.channel.Resolve(name); !found {
			return nil, false, nil
		}
		parsed, ok, err := command.Parse(msg.Text, d.prefix)
		if err != nil {
			return nil, false, fault.Propagate(msg.From, "Unterminated quote in command.", err)
		}
		if !ok {
			return nil, false, nil
		}
		cmd, found := d.channel.Resolve(parsed.Command)
		if !found {
			return nil, false, nil
		}
		return &Request{Sender: msg.From, Channel: msg.To, Command: cmd, Args: parsed.Args}, true, nil
	}

	parsed, ok, err := command.Parse(msg.Text, "")
	if err != nil {
		return nil, false, fault.Propagate(msg.From, "Unterminated quote in command.", err)
	}
	if !ok {
		return nil, false, nil
	}
	cmd, found := d.private.Resolve(parsed.Command)
	if !found {
		return nil, false, fault.Propagatef(msg.From, "%s is not a valid command.", parsed.Command)
	}
	return &Request{Sender: msg.From, Command: cmd, Args: parsed.Args}, true, nil
}

// deliver sends responses, then the routed form of err.
func (d *Dispatcher) deliver(sender string, responses []Response, err error) error {
	if err != nil {
		var p *fault.Propagated
		if errors.As(err, &p) {
			d.logger.Info("command failed",
				zap.String("sender", sender),
				zap.String("target", p.Target),
				zap.Stringer("kind", fault.KindOf(p.Cause)),
				zap.String("message", p.Message),
			)
			responses = append(responses, Response{Target: p.Target, Message: p.Message})
		} else {
			d.logger.Error("command error", zap.String("sender", sender), zap.Error(err))
			responses = append(responses, Response{Target: sender, Message: GenericFailure})
		}
	}

	var errs []error
	for _, r := range responses {
		if sendErr := d.transport.Send(r.Target, r.Message); sendErr != nil {
			errs = append(errs, fmt.Errorf("sending to %s: %w", r.Target, sendErr))
		}
	}
	return errors.Join(errs...)
}

// reply builds a single response to the request's natural recipient.
func reply(req *Request, format string, args ...any) []Response {
	return []Response{{Target: req.ReplyTo(), Message: fmt.Sprintf(format, args...)}}
}

// replySender builds a single response to the sender.
func replySender(req *Request, format string, args ...any) []Response {
	return []Response{{Target: req.Sender, Message: fmt.Sprintf(format, args...)}}
}

// incorrectFormat rejects a malformed invocation with its expected shape.
func (d *Dispatcher) incorrectFormat(req *Request) error {
	name := d.invocation(req)
	return fault.Propagate(req.ReplyTo(),
		fmt.Sprintf("Incorrect format for %s. Format is:\n%s", name, req.Command.Format(d.contextPrefix(req))),
		fault.ErrInvalidInput)
}

func (d *Dispatcher) contextPrefix(req *Request) string {
	if req.IsPrivate() {
		return ""
	}
	return d.prefix
}

func (d *Dispatcher) invocation(req *Request) string {
	return d.contextPrefix(req) + req.Command.Name
}
