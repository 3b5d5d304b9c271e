package server

import "strings"

// tokenizeConsole splits a console line on spaces, treating a
// double-quoted run as one token (spec §4.H "minimal parser... double-quoted
// argument grouping"), grounded on original_source's console tokenizer
// behavior per SPEC_FULL.md's supplemented-features note.
func tokenizeConsole(line string) []string {
	var tokens []string
	var cur strings.Builder
	inQuotes := false
	have := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			have = true
		case r == ' ' && !inQuotes:
			if have {
				tokens = append(tokens, cur.String())
				cur.Reset()
				have = false
			}
		default:
			cur.WriteRune(r)
			have = true
		}
	}
	if have {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

// handleConsoleLine parses and executes one console command (spec §4.H
// "Console commands"). Invalid input is logged and leaves state unchanged.
func (s *Server) handleConsoleLine(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	tokens := tokenizeConsole(line)
	if len(tokens) == 0 {
		return
	}

	switch tokens[0] {
	case "stop":
		s.log.Info("console: stopping server")
		s.shouldStop = true
		s.bus.Shutdown()

	case "kick":
		if len(tokens) != 2 {
			s.log.Error("console: usage: kick <username>")
			return
		}
		s.kickUsername(tokens[1])

	case "status":
		s.reportStatus()

	default:
		s.log.Error("console: unknown command", "command", tokens[0])
	}
}

// kickUsername disconnects the first player matching name, if any.
func (s *Server) kickUsername(name string) {
	for _, p := range s.players {
		if p.Username != name {
			continue
		}
		conn := p.Conn
		conn.Submit(func(c *Connection) { c.disconnect("Kicked by an operator.") })
		s.log.Info("console: kicked player", "username", name)
		return
	}
	s.log.Error("console: no such player", "username", name)
}
