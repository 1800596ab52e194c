// Package chat implements the chat protocol core: the line parser, the
// shared registry of users and rooms, per-connection mailboxes, the
// liveness watchdog, and the connection handler that ties them together.
package chat

import "fmt"

// OutgoingMessage is one server-to-client line on the wire. The set of
// implementations is closed; dispatch over them is an exhaustive type
// switch.
type OutgoingMessage interface {
	fmt.Stringer
	outgoing()
}

// Ping asks the client to confirm liveness with PONG.
type Ping struct{}

// Connected greets a freshly accepted connection.
type Connected struct{}

// Registered confirms a successful NAME registration.
type Registered struct{}

// SaidUser is a private message from another user.
type SaidUser struct {
	From string
	Text string
}

// SaidRoom is a room message from another member.
type SaidRoom struct {
	Room string
	From string
	Text string
}

// RoomEntry is one line of a ROOMS listing.
type RoomEntry struct {
	Name string
}

// UserEntry is one line of a USERS listing.
type UserEntry struct {
	Name string
}

// Joined notifies room members that a user joined.
type Joined struct {
	Room string
	User string
}

// Left notifies remaining room members that a user left.
type Left struct {
	Room string
	User string
}

func (Ping) outgoing()       {}
func (Connected) outgoing()  {}
func (Registered) outgoing() {}
func (SaidUser) outgoing()   {}
func (SaidRoom) outgoing()   {}
func (RoomEntry) outgoing()  {}
func (UserEntry) outgoing()  {}
func (Joined) outgoing()     {}
func (Left) outgoing()       {}

func (Ping) String() string       { return "PING" }
func (Connected) String() string  { return "CONNECTED" }
func (Registered) String() string { return "REGISTERED" }

func (m SaidUser) String() string {
	return fmt.Sprintf("%s SAID %s", m.From, m.Text)
}

func (m SaidRoom) String() string {
	return fmt.Sprintf("%s %s SAID %s", m.Room, m.From, m.Text)
}

func (m RoomEntry) String() string { return "ROOM " + m.Name }
func (m UserEntry) String() string { return "USER " + m.Name }

func (m Joined) String() string {
	return fmt.Sprintf("%s %s JOINED", m.Room, m.User)
}

func (m Left) String() string {
	return fmt.Sprintf("%s %s LEFT", m.Room, m.User)
}

// IncomingMessage is one recognized client-to-server command. String
// renders the canonical wire form, so Parse(m.String()) yields m back.
type IncomingMessage interface {
	fmt.Stringer
	incoming()
}

// Name registers or renames the connection's user.
type Name struct {
	Name string
}

// Join adds the user to a room, creating it if needed.
type Join struct {
	Room string
}

// Leave removes the user from a room.
type Leave struct {
	Room string
}

// SayRoom sends text to every other member of a room.
type SayRoom struct {
	Room string
	Text string
}

// SayUser sends text to a single user.
type SayUser struct {
	User string
	Text string
}

// Users requests the member listing of a room.
type Users struct {
	Room string
}

// Rooms requests the listing of all rooms.
type Rooms struct{}

// Quit ends the connection.
type Quit struct{}

// Pong answers a server PING.
type Pong struct{}

func (Name) incoming()    {}
func (Join) incoming()    {}
func (Leave) incoming()   {}
func (SayRoom) incoming() {}
func (SayUser) incoming() {}
func (Users) incoming()   {}
func (Rooms) incoming()   {}
func (Quit) incoming()    {}
func (Pong) incoming()    {}

func (m Name) String() string    { return "NAME " + m.Name }
func (m Join) String() string    { return "JOIN " + m.Room }
func (m Leave) String() string   { return "LEAVE " + m.Room }
func (m SayRoom) String() string { return fmt.Sprintf("SAY %s %s", m.Room, m.Text) }
func (m SayUser) String() string { return fmt.Sprintf("SAY %s %s", m.User, m.Text) }
func (m Users) String() string   { return "USERS " + m.Room }
func (Rooms) String() string     { return "ROOMS" }
func (Quit) String() string      { return "QUIT" }
func (Pong) String() string      { return "PONG" }
