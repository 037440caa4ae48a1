package gameserver

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cory-johannsen/dmbot/internal/game/command"
	"github.com/cory-johannsen/dmbot/internal/game/fault"
)

// help [command]
func (d *Dispatcher) handleHelp(_ context.Context, req *Request) ([]Response, error) {
	reg, prefix := d.private, ""
	if !req.IsPrivate() {
		reg, prefix = d.channel, d.prefix
	}

	switch len(req.Args) {
	case 0:
		return replySender(req, "%s\nUse %shelp <command> for details.", listCommands(reg, prefix), prefix), nil
	case 1:
		name := strings.TrimPrefix(req.Args[0], prefix)
		cmd, ok := reg.Resolve(name)
		if !ok {
			return nil, fault.Propagate(req.Sender, fmt.Sprintf("%s is not a valid command.", req.Args[0]), fault.ErrNotFound)
		}
		return replySender(req, "%s", describeCommand(cmd, prefix)), nil
	default:
		return nil, d.incorrectFormat(req)
	}
}

var titler = cases.Title(language.English)

// listCommands renders one line per non-empty category.
func listCommands(reg *command.Registry, prefix string) string {
	byCategory := reg.CommandsByCategory()
	lines := make([]string, 0, len(command.Categories))
	for _, category := range command.Categories {
		cmds := byCategory[category]
		if len(cmds) == 0 {
			continue
		}
		names := make([]string, 0, len(cmds))
		for _, cmd := range cmds {
			names = append(names, prefix+cmd.Name)
		}
		lines = append(lines, fmt.Sprintf("%s: %s.", titler.String(category), strings.Join(names, ", ")))
	}
	return strings.Join(lines, "\n")
}

func describeCommand(cmd *command.Command, prefix string) string {
	s := fmt.Sprintf("%s: %s.", cmd.Format(prefix), cmd.Help)
	if len(cmd.Aliases) > 0 {
		s += " Aliases: " + strings.Join(cmd.Aliases, ", ") + "."
	}
	if cmd.DMOnly {
		s += " DM only."
	}
	return s
}
