package testutil

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"
)

// IRCServer is the server end of an in-memory IRC link for client tests.
// Lines written by the client are collected by a background reader.
type IRCServer struct {
	conn  net.Conn
	lines chan string
	t     *testing.T
}

// NewIRCPipe returns the client end of a net.Pipe and a server wrapping the
// other end.
//
// Postcondition: Both ends are closed when the test finishes.
func NewIRCPipe(t *testing.T) (net.Conn, *IRCServer) {
	t.Helper()
	client, server := net.Pipe()
	s := &IRCServer{
		conn:  server,
		lines: make(chan string, 64),
		t:     t,
	}
	go s.collect()
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	return client, s
}

func (s *IRCServer) collect() {
	defer close(s.lines)
	r := bufio.NewReader(s.conn)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		s.lines <- strings.TrimRight(line, "\r\n")
	}
}

// Send writes a raw protocol line to the client, appending \r\n.
//
// Precondition: the client must be reading, or the write blocks until timeout.
func (s *IRCServer) Send(line string) {
	s.t.Helper()
	_ = s.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if _, err := fmt.Fprintf(s.conn, "%s\r\n", line); err != nil {
		s.t.Fatalf("sending %q: %v", line, err)
	}
}

// Next returns the next line the client wrote, or fails on timeout.
func (s *IRCServer) Next(timeout time.Duration) string {
	s.t.Helper()
	select {
	case line, ok := <-s.lines:
		if !ok {
			s.t.Fatalf("connection closed while waiting for a line")
		}
		return line
	case <-time.After(timeout):
		s.t.Fatalf("no line from client within %s", timeout)
		return ""
	}
}

// ReadUntil skips client lines until one starts with prefix and returns it.
func (s *IRCServer) ReadUntil(prefix string, timeout time.Duration) string {
	s.t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			s.t.Fatalf("no line starting with %q within %s", prefix, timeout)
		}
		if line := s.Next(remaining); strings.HasPrefix(line, prefix) {
			return line
		}
	}
}

// Close closes the server end.
func (s *IRCServer) Close() {
	s.conn.Close()
}
