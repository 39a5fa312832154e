package main

import (
	"bufio"
	"context"
	"io"
	"strings"
)

type commandKind int

const (
	commandNone commandKind = iota
	commandPrompt
	commandClear
	commandQuit
)

type command struct {
	kind commandKind
	text string
}

// parseCommand reads one stdin line. ":clear" and ":quit" control the
// session; any other non-blank line is a shader description.
func parseCommand(line string) command {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return command{kind: commandNone}
	case ":clear":
		return command{kind: commandClear}
	case ":quit", ":q":
		return command{kind: commandQuit}
	}
	return command{kind: commandPrompt, text: line}
}

// readCommands sends parsed stdin lines on out until r is exhausted or ctx
// is done. End of input counts as :quit.
func readCommands(ctx context.Context, r io.Reader, out chan<- command) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		cmd := parseCommand(scanner.Text())
		if cmd.kind == commandNone {
			continue
		}
		select {
		case out <- cmd:
		case <-ctx.Done():
			return
		}
		if cmd.kind == commandQuit {
			return
		}
	}
	select {
	case out <- command{kind: commandQuit}:
	case <-ctx.Done():
	}
}
