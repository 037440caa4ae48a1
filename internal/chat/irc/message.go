package irc

import (
	"fmt"
	"strings"

	"github.com/ergochat/irc-go/ircmsg"
)

// encode renders an outgoing command as a protocol line without CRLF. Every
// parameter but the last must be one non-empty word not starting with ':',
// so a name carrying a space cannot smuggle extra parameters onto the line.
func encode(command string, params ...string) (string, error) {
	msg := ircmsg.MakeMessage(nil, "", command, params...)
	line, err := msg.Line()
	if err != nil {
		return "", fmt.Errorf("irc: encoding %s %q: %w", command, params, err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// param returns the i-th parameter of msg or "" when absent.
func param(msg ircmsg.Message, i int) string {
	if i < 0 || i >= len(msg.Params) {
		return ""
	}
	return msg.Params[i]
}
