package chat

import (
	"regexp"
	"strings"
)

// Name shapes are part of the wire contract: a sigil followed by 3 to 20
// characters from [A-Za-z0-9_-].
var (
	userNameRE = regexp.MustCompile(`^@[A-Za-z0-9_-]{3,20}$`)
	roomNameRE = regexp.MustCompile(`^#[A-Za-z0-9_-]{3,20}$`)
)

// ValidUserName reports whether s is a well-formed user name including the
// @ sigil.
func ValidUserName(s string) bool { return userNameRE.MatchString(s) }

// ValidRoomName reports whether s is a well-formed room name including the
// # sigil.
func ValidRoomName(s string) bool { return roomNameRE.MatchString(s) }

// ParseErrorKind classifies a malformed but recognized command.
type ParseErrorKind int

const (
	// BadArguments means the command had the wrong number of arguments,
	// or a SAY target carried neither a # nor an @ sigil.
	BadArguments ParseErrorKind = iota

	// BadNameFormat means a user name argument failed the name regex.
	BadNameFormat

	// BadRoomNameFormat means a room name argument failed the room regex.
	BadRoomNameFormat
)

func (k ParseErrorKind) Error() string {
	switch k {
	case BadArguments:
		return "bad arguments"
	case BadNameFormat:
		return "bad name format"
	case BadRoomNameFormat:
		return "bad room name format"
	default:
		return "unknown parse error"
	}
}

// WireLine renders the kind as the ERROR line sent to the client.
func (k ParseErrorKind) WireLine() string {
	return "ERROR " + k.Error()
}

// ActionKind discriminates the three outcomes of parsing a line.
type ActionKind int

const (
	// ActionIgnore means the line produces no response and no effect:
	// empty input or an unrecognized command.
	ActionIgnore ActionKind = iota

	// ActionProcess means Msg holds a well-formed command.
	ActionProcess

	// ActionParseError means a recognized command was malformed; Cmd and
	// Err describe it.
	ActionParseError
)

// ParsedAction is the result of parsing one inbound line.
type ParsedAction struct {
	Kind ActionKind

	// Msg is set when Kind is ActionProcess.
	Msg IncomingMessage

	// Cmd is the command token a parse error belongs to (e.g. "NAME"),
	// set when Kind is ActionParseError.
	Cmd string

	// Err is set when Kind is ActionParseError.
	Err ParseErrorKind
}

func process(m IncomingMessage) ParsedAction {
	return ParsedAction{Kind: ActionProcess, Msg: m}
}

func parseError(cmd string, kind ParseErrorKind) ParsedAction {
	return ParsedAction{Kind: ActionParseError, Cmd: cmd, Err: kind}
}

var ignore = ParsedAction{Kind: ActionIgnore}

// Parse turns one inbound line into a ParsedAction. It is pure: equal
// inputs yield equal outputs.
//
// Tokens are split on single ASCII spaces and runs are not collapsed, so
// two adjacent spaces produce an empty token and an arity error. The SAY
// payload is the remaining tokens rejoined on single spaces, preserved
// verbatim.
func Parse(line string) ParsedAction {
	if line == "" {
		return ignore
	}

	pieces := strings.Split(line, " ")

	switch pieces[0] {
	case "QUIT":
		// Trailing tokens after QUIT are accepted and discarded.
		return process(Quit{})

	case "NAME":
		if len(pieces) != 2 {
			return parseError("NAME", BadArguments)
		}
		if !ValidUserName(pieces[1]) {
			return parseError("NAME", BadNameFormat)
		}
		return process(Name{Name: pieces[1]})

	case "JOIN":
		if len(pieces) != 2 {
			return parseError("JOIN", BadArguments)
		}
		if !ValidRoomName(pieces[1]) {
			return parseError("JOIN", BadRoomNameFormat)
		}
		return process(Join{Room: pieces[1]})

	case "LEAVE":
		if len(pieces) != 2 {
			return parseError("LEAVE", BadArguments)
		}
		if !ValidRoomName(pieces[1]) {
			return parseError("LEAVE", BadRoomNameFormat)
		}
		return process(Leave{Room: pieces[1]})

	case "SAY":
		if len(pieces) < 3 {
			return parseError("SAY", BadArguments)
		}
		target := pieces[1]
		text := strings.Join(pieces[2:], " ")
		switch {
		case strings.HasPrefix(target, "#"):
			if !ValidRoomName(target) {
				return parseError("SAY", BadRoomNameFormat)
			}
			return process(SayRoom{Room: target, Text: text})
		case strings.HasPrefix(target, "@"):
			if !ValidUserName(target) {
				return parseError("SAY", BadNameFormat)
			}
			return process(SayUser{User: target, Text: text})
		default:
			return parseError("SAY", BadArguments)
		}

	case "USERS":
		if len(pieces) != 2 {
			return parseError("USERS", BadArguments)
		}
		if !ValidRoomName(pieces[1]) {
			return parseError("USERS", BadRoomNameFormat)
		}
		return process(Users{Room: pieces[1]})

	case "ROOMS":
		if len(pieces) != 1 {
			return parseError("ROOMS", BadArguments)
		}
		return process(Rooms{})

	case "PONG":
		if len(pieces) != 1 {
			return parseError("PONG", BadArguments)
		}
		return process(Pong{})

	default:
		// Unknown commands are silently ignored.
		return ignore
	}
}
