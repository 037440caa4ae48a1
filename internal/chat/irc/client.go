package irc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/ergochat/irc-go/ircmsg"
	"go.uber.org/zap"
)

// Numeric replies the client reacts to.
const (
	ReplyWelcome          = "001"
	ReplyNicknameInUse    = "433"
	ReplyNickCollision    = "436"
	ReplyChanOPrivsNeeded = "482"
)

// maxPayload bounds the text of one PRIVMSG so the relayed line, with the
// server-added source prefix, stays under MaxLineLength.
const maxPayload = 400

// ErrNotConnected is returned by transport calls made before Attach or Dial.
var ErrNotConnected = errors.New("irc: not connected")

// Config holds the client identity and connection settings.
type Config struct {
	// Addr is the "host:port" of the IRC server.
	Addr     string
	Password string
	Nick     string
	User     string
	RealName string
	// Channels are joined after the welcome reply.
	Channels []string
	// Owners are nicknames allowed to run owner-only commands.
	Owners       []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// HandlerFunc receives one PRIVMSG. to is a channel or the bot's nickname.
type HandlerFunc func(ctx context.Context, from, to, text string) error

// Client is a single-connection IRC bot client.
//
// Send, Join, SetTopic, SetMode, Invite and Kick may be called from any
// goroutine, including from inside the HandlerFunc.
type Client struct {
	cfg    Config
	logger *zap.Logger
	owners map[string]bool

	mu   sync.RWMutex
	conn *Conn
	nick string
}

// NewClient creates a Client.
//
// Precondition: cfg.Nick must be non-empty; logger must be non-nil.
// Postcondition: Returns a Client that is not yet connected.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	owners := make(map[string]bool, len(cfg.Owners))
	for _, o := range cfg.Owners {
		owners[strings.ToLower(o)] = true
	}
	if cfg.User == "" {
		cfg.User = cfg.Nick
	}
	if cfg.RealName == "" {
		cfg.RealName = cfg.Nick
	}
	return &Client{
		cfg:    cfg,
		logger: logger,
		owners: owners,
		nick:   cfg.Nick,
	}
}

// Dial connects to cfg.Addr.
//
// Postcondition: On success the client is attached to the new connection.
func (c *Client) Dial(ctx context.Context) error {
	var d net.Dialer
	raw, err := d.DialContext(ctx, "tcp", c.cfg.Addr)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", c.cfg.Addr, err)
	}
	c.Attach(raw)
	c.logger.Info("connected to irc server", zap.String("addr", c.cfg.Addr))
	return nil
}

// Attach uses an already-open connection.
func (c *Client) Attach(raw net.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn = NewConn(raw, c.cfg.ReadTimeout, c.cfg.WriteTimeout)
}

// Nick returns the nickname the server last confirmed or the configured one.
func (c *Client) Nick() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.nick
}

// Register sends the PASS, NICK and USER handshake.
//
// Precondition: the client must be attached.
func (c *Client) Register() error {
	if c.cfg.Password != "" {
		if err := c.write("PASS", c.cfg.Password); err != nil {
			return err
		}
	}
	if err := c.write("NICK", c.Nick()); err != nil {
		return err
	}
	return c.write("USER", c.cfg.User, "0", "*", c.cfg.RealName)
}

// Run reads lines until the connection fails or ctx is cancelled, answering
// PINGs, joining channels on welcome and passing PRIVMSGs to handler.
// Handler errors are logged and do not stop the loop.
//
// Precondition: the client must be attached; handler must be non-nil.
// Postcondition: The connection is closed when Run returns.
func (c *Client) Run(ctx context.Context, handler HandlerFunc) error {
	conn, err := c.current()
	if err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()
	defer conn.Close()

	for {
		line, err := conn.ReadLine()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("reading from irc server: %w", err)
		}
		if line == "" {
			continue
		}
		msg, err := ircmsg.ParseLine(line)
		if err != nil || msg.Command == "" {
			c.logger.Debug("ignoring malformed line", zap.String("line", line))
			continue
		}
		if err := c.process(ctx, msg, handler); err != nil {
			return err
		}
	}
}

func (c *Client) process(ctx context.Context, msg ircmsg.Message, handler HandlerFunc) error {
	switch strings.ToUpper(msg.Command) {
	case "PING":
		return c.write("PONG", msg.Params...)
	case ReplyWelcome:
		if nick := param(msg, 0); nick != "" {
			c.mu.Lock()
			c.nick = nick
			c.mu.Unlock()
		}
		c.logger.Info("registered with irc server", zap.String("nick", c.Nick()))
		for _, ch := range c.cfg.Channels {
			if err := c.Join(ch); err != nil {
				return err
			}
		}
	case ReplyNicknameInUse, ReplyNickCollision:
		c.mu.Lock()
		c.nick += "_"
		nick := c.nick
		c.mu.Unlock()
		c.logger.Warn("nickname in use, retrying", zap.String("nick", nick))
		return c.write("NICK", nick)
	case ReplyChanOPrivsNeeded:
		c.logger.Warn("missing channel operator privileges", zap.Strings("params", msg.Params))
	case "ERROR":
		return fmt.Errorf("irc server closed the link: %s", param(msg, 0))
	case "PRIVMSG":
		text := param(msg, 1)
		// CTCP requests are not commands.
		if strings.HasPrefix(text, "\x01") {
			return nil
		}
		from, to := msg.Nick(), param(msg, 0)
		if err := handler(ctx, from, to, text); err != nil {
			c.logger.Warn("handling message",
				zap.String("from", from),
				zap.String("to", to),
				zap.Error(err),
			)
		}
	default:
		c.logger.Debug("irc", zap.String("command", msg.Command), zap.Strings("params", msg.Params))
	}
	return nil
}

// Send delivers text to target as one PRIVMSG per line. Blank lines are
// skipped and over-long lines are split.
func (c *Client) Send(target, text string) error {
	var errs []error
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		for _, chunk := range splitPayload(line, maxPayload) {
			if err := c.write("PRIVMSG", target, chunk); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Join joins channel.
func (c *Client) Join(channel string) error {
	return c.write("JOIN", channel)
}

// SetTopic sets the channel topic.
func (c *Client) SetTopic(channel, topic string) error {
	return c.write("TOPIC", channel, topic)
}

// SetMode applies a channel mode change such as "+i".
func (c *Client) SetMode(channel, mode string) error {
	return c.write("MODE", channel, mode)
}

// Invite invites nick to channel.
func (c *Client) Invite(nick, channel string) error {
	return c.write("INVITE", nick, channel)
}

// Kick removes nick from channel.
func (c *Client) Kick(channel, nick, reason string) error {
	return c.write("KICK", channel, nick, reason)
}

// IsOwner reports whether identity is a configured owner. Nicknames compare
// case-insensitively.
func (c *Client) IsOwner(identity string) bool {
	return c.owners[strings.ToLower(identity)]
}

// Quit says goodbye and closes the connection.
func (c *Client) Quit(reason string) error {
	conn, err := c.current()
	if err != nil {
		return err
	}
	line, err := encode("QUIT", reason)
	if err == nil {
		err = conn.WriteLine(line)
	}
	return errors.Join(err, conn.Close())
}

func (c *Client) current() (*Conn, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.conn == nil {
		return nil, ErrNotConnected
	}
	return c.conn, nil
}

// write encodes and sends one command. A malformed parameter fails before
// anything reaches the connection.
func (c *Client) write(command string, params ...string) error {
	conn, err := c.current()
	if err != nil {
		return err
	}
	line, err := encode(command, params...)
	if err != nil {
		return err
	}
	return conn.WriteLine(line)
}

// splitPayload cuts s into chunks of at most max bytes on rune boundaries,
// preferring the last space. An empty s yields no chunks.
func splitPayload(s string, max int) []string {
	var out []string
	for len(s) > max {
		cut := max
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		if i := strings.LastIndexByte(s[:cut], ' '); i > 0 {
			cut = i
		}
		out = append(out, s[:cut])
		s = strings.TrimLeft(s[cut:], " ")
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}
