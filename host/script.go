// Package host turns a line-oriented session script into session commands.
//
//	start
//	connect <id> <name...>
//	moderator <id> <name...>
//	join <id>
//	leave <id>
//	remove <clicker> <row>
//	disconnect <id>
//	stop
//
// Blank lines and lines starting with # are skipped.
package host

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"karaoke-queue/domain"
	"karaoke-queue/errors"
)

// Dispatcher hands a command to the session loop. It reports false when the
// command was dropped.
type Dispatcher func(cmd domain.Command) bool

// ParseLine returns a nil command for blank and comment lines.
func ParseLine(line string) (domain.Command, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}
	fields := strings.Fields(line)
	verb, args := strings.ToLower(fields[0]), fields[1:]

	switch verb {
	case "start", "stop":
		if err := expectArgs(verb, args, 0); err != nil {
			return nil, err
		}
		if verb == "start" {
			return domain.StartSessionCommand{}, nil
		}
		return domain.StopSessionCommand{}, nil
	case "connect", "moderator":
		if len(args) < 2 {
			return nil, fmt.Errorf("%w: %s needs an id and a name", errors.ErrUnknownCommand, verb)
		}
		var roles []string
		if verb == "moderator" {
			roles = append(roles, domain.RoleModerator)
		}
		user := domain.NewUser(args[0], strings.Join(args[1:], " "), roles...)
		return domain.UserJoinedCommand{User: user}, nil
	case "disconnect":
		if err := expectArgs(verb, args, 1); err != nil {
			return nil, err
		}
		return domain.UserLeftCommand{UserID: domain.ParticipantID(args[0])}, nil
	case "join":
		if err := expectArgs(verb, args, 1); err != nil {
			return nil, err
		}
		return domain.JoinClickedCommand{UserID: domain.ParticipantID(args[0])}, nil
	case "leave":
		if err := expectArgs(verb, args, 1); err != nil {
			return nil, err
		}
		return domain.LeaveClickedCommand{UserID: domain.ParticipantID(args[0])}, nil
	case "remove":
		if err := expectArgs(verb, args, 2); err != nil {
			return nil, err
		}
		return domain.RemoveClickedCommand{
			ClickerID:        domain.ParticipantID(args[0]),
			RowParticipantID: domain.ParticipantID(args[1]),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownCommand, verb)
	}
}

func expectArgs(verb string, args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("%w: %s takes %d argument(s), got %d", errors.ErrUnknownCommand, verb, n, len(args))
	}
	return nil
}

// ReadScript dispatches every command of r until EOF or ctx is done.
// Malformed lines are logged and skipped.
func ReadScript(ctx context.Context, r io.Reader, dispatch Dispatcher, log *slog.Logger) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++
		cmd, err := ParseLine(scanner.Text())
		if err != nil {
			log.Warn("Skipping script line", "line", lineNo, "error", err)
			continue
		}
		if cmd == nil {
			continue
		}
		if !dispatch(cmd) {
			log.Warn("Command dropped, session loop is full", "line", lineNo, "command", cmd.Name())
		}
	}
	return scanner.Err()
}
