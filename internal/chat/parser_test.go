package chat

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		line string
		want ParsedAction
	}{
		{
			name: "empty line ignored",
			line: "",
			want: ParsedAction{Kind: ActionIgnore},
		},
		{
			name: "unknown command ignored",
			line: "FROBNICATE stuff",
			want: ParsedAction{Kind: ActionIgnore},
		},
		{
			name: "lowercase command ignored",
			line: "quit",
			want: ParsedAction{Kind: ActionIgnore},
		},
		{
			name: "quit",
			line: "QUIT",
			want: ParsedAction{Kind: ActionProcess, Msg: Quit{}},
		},
		{
			name: "quit with trailing tokens",
			line: "QUIT other stuff",
			want: ParsedAction{Kind: ActionProcess, Msg: Quit{}},
		},
		{
			name: "name",
			line: "NAME @robert",
			want: ParsedAction{Kind: ActionProcess, Msg: Name{Name: "@robert"}},
		},
		{
			name: "name missing argument",
			line: "NAME",
			want: ParsedAction{Kind: ActionParseError, Cmd: "NAME", Err: BadArguments},
		},
		{
			name: "name extra argument",
			line: "NAME @robert steve",
			want: ParsedAction{Kind: ActionParseError, Cmd: "NAME", Err: BadArguments},
		},
		{
			name: "name bad format",
			line: "NAME @robert**",
			want: ParsedAction{Kind: ActionParseError, Cmd: "NAME", Err: BadNameFormat},
		},
		{
			name: "name missing sigil",
			line: "NAME alice",
			want: ParsedAction{Kind: ActionParseError, Cmd: "NAME", Err: BadNameFormat},
		},
		{
			name: "name too short",
			line: "NAME @ab",
			want: ParsedAction{Kind: ActionParseError, Cmd: "NAME", Err: BadNameFormat},
		},
		{
			name: "name at minimum length",
			line: "NAME @abc",
			want: ParsedAction{Kind: ActionProcess, Msg: Name{Name: "@abc"}},
		},
		{
			name: "name too long",
			line: "NAME @abcdefghijklmnopqrstu",
			want: ParsedAction{Kind: ActionParseError, Cmd: "NAME", Err: BadNameFormat},
		},
		{
			name: "join",
			line: "JOIN #room1",
			want: ParsedAction{Kind: ActionProcess, Msg: Join{Room: "#room1"}},
		},
		{
			name: "join missing argument",
			line: "JOIN",
			want: ParsedAction{Kind: ActionParseError, Cmd: "JOIN", Err: BadArguments},
		},
		{
			name: "join extra argument",
			line: "JOIN #room1 #room2",
			want: ParsedAction{Kind: ActionParseError, Cmd: "JOIN", Err: BadArguments},
		},
		{
			name: "join wrong sigil",
			line: "JOIN @room",
			want: ParsedAction{Kind: ActionParseError, Cmd: "JOIN", Err: BadRoomNameFormat},
		},
		{
			name: "leave",
			line: "LEAVE #room1",
			want: ParsedAction{Kind: ActionProcess, Msg: Leave{Room: "#room1"}},
		},
		{
			name: "leave wrong sigil",
			line: "LEAVE @room",
			want: ParsedAction{Kind: ActionParseError, Cmd: "LEAVE", Err: BadRoomNameFormat},
		},
		{
			name: "say to room",
			line: "SAY #room341 hello everyone!",
			want: ParsedAction{Kind: ActionProcess, Msg: SayRoom{Room: "#room341", Text: "hello everyone!"}},
		},
		{
			name: "say to user",
			line: "SAY @kelsey hi kelsey :)",
			want: ParsedAction{Kind: ActionProcess, Msg: SayUser{User: "@kelsey", Text: "hi kelsey :)"}},
		},
		{
			name: "say bad room name",
			line: "SAY #room++ hi there room!",
			want: ParsedAction{Kind: ActionParseError, Cmd: "SAY", Err: BadRoomNameFormat},
		},
		{
			name: "say bad user name",
			line: "SAY @friend% hi there friend!",
			want: ParsedAction{Kind: ActionParseError, Cmd: "SAY", Err: BadNameFormat},
		},
		{
			name: "say target without sigil",
			line: "SAY dave hi there",
			want: ParsedAction{Kind: ActionParseError, Cmd: "SAY", Err: BadArguments},
		},
		{
			name: "say without text to user",
			line: "SAY @dave",
			want: ParsedAction{Kind: ActionParseError, Cmd: "SAY", Err: BadArguments},
		},
		{
			name: "say without text to room",
			line: "SAY #happy",
			want: ParsedAction{Kind: ActionParseError, Cmd: "SAY", Err: BadArguments},
		},
		{
			name: "say with trailing space only",
			line: "SAY ",
			want: ParsedAction{Kind: ActionParseError, Cmd: "SAY", Err: BadArguments},
		},
		{
			name: "users",
			line: "USERS #room1",
			want: ParsedAction{Kind: ActionProcess, Msg: Users{Room: "#room1"}},
		},
		{
			name: "users bad room name",
			line: "USERS #no++",
			want: ParsedAction{Kind: ActionParseError, Cmd: "USERS", Err: BadRoomNameFormat},
		},
		{
			name: "rooms",
			line: "ROOMS",
			want: ParsedAction{Kind: ActionProcess, Msg: Rooms{}},
		},
		{
			name: "rooms extra tokens",
			line: "ROOMS stuff",
			want: ParsedAction{Kind: ActionParseError, Cmd: "ROOMS", Err: BadArguments},
		},
		{
			name: "pong",
			line: "PONG",
			want: ParsedAction{Kind: ActionProcess, Msg: Pong{}},
		},
		{
			name: "pong extra tokens",
			line: "PONG stuff",
			want: ParsedAction{Kind: ActionParseError, Cmd: "PONG", Err: BadArguments},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.line)
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

// Splitting is on single spaces with no run collapsing: adjacent spaces
// produce empty tokens. This is the wire contract, not a bug.
func TestParseSpaceRuns(t *testing.T) {
	tests := []struct {
		name string
		line string
		want ParsedAction
	}{
		{
			name: "double space in two-token command",
			line: "NAME  @robert",
			want: ParsedAction{Kind: ActionParseError, Cmd: "NAME", Err: BadArguments},
		},
		{
			name: "double space before say target",
			line: "SAY  #room1 hi",
			want: ParsedAction{Kind: ActionParseError, Cmd: "SAY", Err: BadArguments},
		},
		{
			name: "double space inside say payload survives",
			line: "SAY #room1 two  spaces",
			want: ParsedAction{Kind: ActionProcess, Msg: SayRoom{Room: "#room1", Text: "two  spaces"}},
		},
		{
			name: "trailing space after say payload survives",
			line: "SAY @bob hi ",
			want: ParsedAction{Kind: ActionProcess, Msg: SayUser{User: "@bob", Text: "hi "}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.line)
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

// Every valid incoming message survives a format/parse round trip.
func TestParseRoundTrip(t *testing.T) {
	messages := []IncomingMessage{
		Name{Name: "@robert"},
		Name{Name: "@a_b-c"},
		Join{Room: "#room1"},
		Leave{Room: "#room1"},
		SayRoom{Room: "#gen", Text: "hi all"},
		SayUser{User: "@bob", Text: "hello bob"},
		Users{Room: "#gen"},
		Rooms{},
		Quit{},
		Pong{},
	}

	for _, msg := range messages {
		got := Parse(msg.String())
		if got.Kind != ActionProcess {
			t.Errorf("Parse(%q).Kind = %v, want ActionProcess", msg.String(), got.Kind)
			continue
		}
		if got.Msg != msg {
			t.Errorf("Parse(%q) = %+v, want %+v", msg.String(), got.Msg, msg)
		}
	}
}

func TestParseIsPure(t *testing.T) {
	lines := []string{"", "QUIT", "NAME @robert", "SAY #gen hi all", "garbage"}
	for _, line := range lines {
		first := Parse(line)
		for i := 0; i < 3; i++ {
			if got := Parse(line); got != first {
				t.Errorf("Parse(%q) changed across calls: %+v then %+v", line, first, got)
			}
		}
	}
}

func TestValidNames(t *testing.T) {
	tests := []struct {
		s    string
		user bool
		room bool
	}{
		{"@abc", true, false},
		{"#abc", false, true},
		{"@ab", false, false},
		{"#ab", false, false},
		{"@abcdefghij0123456789", true, false},   // 20 chars after sigil
		{"@abcdefghij01234567890", false, false}, // 21 chars after sigil
		{"@with-dash_under", true, false},
		{"@bad!char", false, false},
		{"abc", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		if got := ValidUserName(tt.s); got != tt.user {
			t.Errorf("ValidUserName(%q) = %v, want %v", tt.s, got, tt.user)
		}
		if got := ValidRoomName(tt.s); got != tt.room {
			t.Errorf("ValidRoomName(%q) = %v, want %v", tt.s, got, tt.room)
		}
	}
}
