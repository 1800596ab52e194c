package chat

// State represents the current state in the connection state machine.
type State int

const (
	// StateGreeting is entered on accept; the server emits CONNECTED and
	// moves on immediately.
	StateGreeting State = iota

	// StateRegistering waits for an accepted NAME.
	StateRegistering

	// StateActive is the registered steady state.
	StateActive

	// StateTearingDown removes the user from the registry and releases
	// connection resources.
	StateTearingDown

	// StateClosed is terminal.
	StateClosed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateGreeting:
		return "GREETING"
	case StateRegistering:
		return "REGISTERING"
	case StateActive:
		return "ACTIVE"
	case StateTearingDown:
		return "TEARING_DOWN"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Session tracks one connection's position in the state machine and its
// registered user name. It is owned by a single handler goroutine and
// needs no locking.
type Session struct {
	state State
	name  string
}

// NewSession creates a session in StateGreeting.
func NewSession() *Session {
	return &Session{state: StateGreeting}
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// SetState moves the session to state.
func (s *Session) SetState(state State) {
	s.state = state
}

// Name returns the registered user name, or "" before registration.
func (s *Session) Name() string {
	return s.name
}

// SetName records the user name after a successful NAME or rename.
func (s *Session) SetName(name string) {
	s.name = name
}

// Registered reports whether the session holds a registry entry.
func (s *Session) Registered() bool {
	return s.name != ""
}
