package telegram

import tele "gopkg.in/telebot.v4"

// Command represents a bot command with its handler, description, and metadata.
type Command struct {
	Name        string
	Handler     tele.HandlerFunc
	Description string
	AdminOnly   bool
}

// CommandSet is an ordered collection of commands; order drives both
// SetCommands and help rendering.
type CommandSet struct {
	commands []Command
}

// Register appends a command; entries without a name or handler are dropped.
func (s *CommandSet) Register(cmd Command) {
	if cmd.Name == "" || cmd.Handler == nil {
		return
	}
	if cmd.Name[0] != '/' {
		cmd.Name = "/" + cmd.Name
	}
	s.commands = append(s.commands, cmd)
}

// All returns registered commands in registration order.
func (s *CommandSet) All() []Command {
	return s.commands
}

// Visible returns the tele.Command list shown in the Telegram command menu,
// excluding admin-only entries.
func (s *CommandSet) Visible() []tele.Command {
	var list []tele.Command
	for _, cmd := range s.commands {
		if cmd.AdminOnly {
			continue
		}
		list = append(list, tele.Command{Text: cmd.Name, Description: cmd.Description})
	}
	return list
}

// Routes builds wired routes for all commands, applying the admin gate where required.
func (s *CommandSet) Routes(adminOpts AdminOptions) []Route {
	routes := make([]Route, 0, len(s.commands))
	for _, cmd := range s.commands {
		h := cmd.Handler
		if cmd.AdminOnly {
			h = AdminOnly(adminOpts)(h)
		}
		routes = append(routes, Route{Endpoint: cmd.Name, Handler: h})
	}
	return routes
}
