package chat

import "fmt"

// WireError is an error with a client-visible ERROR line. All registry and
// parse errors reported to a client go through this interface; errors
// without it stay server-side.
type WireError interface {
	error
	WireLine() string
}

// UserAlreadyExistsError is returned when a NAME registration or rename
// targets a name that is already taken.
type UserAlreadyExistsError struct {
	Name string
}

func (e UserAlreadyExistsError) Error() string {
	return "user already exists " + e.Name
}

func (e UserAlreadyExistsError) WireLine() string {
	return "ERROR " + e.Error()
}

// UserUnknownError is returned when an operation references a user that is
// not in the registry.
type UserUnknownError struct {
	Name string
}

func (e UserUnknownError) Error() string {
	return "user unknown " + e.Name
}

func (e UserUnknownError) WireLine() string {
	return "ERROR " + e.Error()
}

// RoomUnknownError is returned when an operation references a room that
// does not exist.
type RoomUnknownError struct {
	Name string
}

func (e RoomUnknownError) Error() string {
	return "room unknown " + e.Name
}

func (e RoomUnknownError) WireLine() string {
	return "ERROR " + e.Error()
}

// UserNotInRoomError is returned when a user leaves a room they are not a
// member of.
type UserNotInRoomError struct {
	User string
	Room string
}

func (e UserNotInRoomError) Error() string {
	return fmt.Sprintf("user not in room %s %s", e.User, e.Room)
}

func (e UserNotInRoomError) WireLine() string {
	return "ERROR " + e.Error()
}
