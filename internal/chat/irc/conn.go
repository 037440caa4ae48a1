// Package irc implements the client side of the IRC line protocol: a
// timeout-aware line connection, message framing, and a bot client that
// registers, keeps the link alive and delivers PRIVMSG lines to a handler.
package irc

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"
)

// MaxLineLength is the protocol limit for one line, CRLF included.
const MaxLineLength = 512

// ErrLineTooLong is returned by WriteLine when a line does not fit the protocol limit.
var ErrLineTooLong = errors.New("irc: line exceeds 510 bytes")

// Conn wraps a TCP connection with CRLF line framing.
type Conn struct {
	raw    net.Conn
	reader *bufio.Reader
	mu     sync.Mutex

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewConn wraps a raw connection. A zero timeout disables that deadline.
//
// Precondition: raw must be a valid, open network connection.
// Postcondition: Returns a Conn ready for reading and writing.
func NewConn(raw net.Conn, readTimeout, writeTimeout time.Duration) *Conn {
	return &Conn{
		raw:          raw,
		reader:       bufio.NewReaderSize(raw, 4096),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// ReadLine reads one line without its trailing CR/LF. NUL bytes are dropped.
//
// Postcondition: Returns the next line, or an error (including io.EOF).
func (c *Conn) ReadLine() (string, error) {
	if c.readTimeout > 0 {
		_ = c.raw.SetReadDeadline(time.Now().Add(c.readTimeout))
	}
	line, err := c.reader.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	line = strings.ReplaceAll(line, "\x00", "")
	if err != nil {
		return line, err
	}
	return line, nil
}

// WriteLine writes line followed by CRLF. It is safe for concurrent use.
//
// Precondition: line must not contain CR or LF.
// Postcondition: line + "\r\n" is written, or an error is returned.
func (c *Conn) WriteLine(line string) error {
	if strings.ContainsAny(line, "\r\n") {
		return fmt.Errorf("irc: line contains a line break: %q", line)
	}
	if len(line)+2 > MaxLineLength {
		return ErrLineTooLong
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.writeTimeout > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	_, err := fmt.Fprintf(c.raw, "%s\r\n", line)
	return err
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.raw.Close()
}

// RemoteAddr returns the server address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}
