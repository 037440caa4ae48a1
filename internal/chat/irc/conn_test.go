package irc

import (
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipeConn(t *testing.T) (*Conn, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	return NewConn(client, time.Second, time.Second), server
}

func TestReadLineStripsLineEndings(t *testing.T) {
	c, server := pipeConn(t)
	go func() {
		_, _ = server.Write([]byte("PING :a\r\nPING :b\nPI\x00NG :c\r\n"))
		server.Close()
	}()

	for _, want := range []string{"PING :a", "PING :b", "PING :c"} {
		line, err := c.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, want, line)
	}
	_, err := c.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

func TestWriteLine(t *testing.T) {
	c, server := pipeConn(t)
	got := make(chan string, 1)
	go func() {
		buf := make([]byte, 64)
		n, _ := server.Read(buf)
		got <- string(buf[:n])
	}()
	require.NoError(t, c.WriteLine("NICK dmbot"))
	assert.Equal(t, "NICK dmbot\r\n", <-got)
}

func TestWriteLineRejectsBreaks(t *testing.T) {
	c, _ := pipeConn(t)
	assert.Error(t, c.WriteLine("PRIVMSG #a :x\r\nQUIT"))
}

func TestWriteLineTooLong(t *testing.T) {
	c, _ := pipeConn(t)
	assert.ErrorIs(t, c.WriteLine(strings.Repeat("x", MaxLineLength-1)), ErrLineTooLong)
}

func TestReadTimeout(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()
	c := NewConn(client, 20*time.Millisecond, 0)
	_, err := c.ReadLine()
	require.Error(t, err)
	var ne net.Error
	require.ErrorAs(t, err, &ne)
	assert.True(t, ne.Timeout())
}
