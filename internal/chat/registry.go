package chat

import (
	"sync"

	"github.com/infodancer/chatd/internal/metrics"
)

// user is the registry's record for one registered connection. The mailbox
// handle is never shared across users; the room set mirrors each room's
// member set.
type user struct {
	mailbox *Mailbox
	rooms   map[string]struct{}
}

// room holds the member set of one room. Rooms are created on first join
// and deleted the moment the last member leaves; an empty room never
// exists between operations.
type room struct {
	members map[string]struct{}
}

// Registry is the process-wide store of users and rooms, guarded by a
// single mutex. Every operation takes the lock for its full duration and
// performs no I/O beyond non-blocking mailbox enqueues, so the critical
// section stays bounded to map and slice work.
//
// Invariant: membership is bidirectional. A room name appears in a user's
// room set exactly when the user's name appears in that room's member set.
type Registry struct {
	mu        sync.Mutex
	users     map[string]*user
	rooms     map[string]*room
	collector metrics.Collector
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		users:     make(map[string]*user),
		rooms:     make(map[string]*room),
		collector: &metrics.NoopCollector{},
	}
}

// SetCollector installs a metrics collector for room lifecycle events.
// Must be called before the registry is shared.
func (r *Registry) SetCollector(c metrics.Collector) {
	if c != nil {
		r.collector = c
	}
}

// AddUser registers name with its mailbox and an empty room set. Returns
// UserAlreadyExistsError if the name is taken.
func (r *Registry) AddUser(name string, mb *Mailbox) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[name]; ok {
		return UserAlreadyExistsError{Name: name}
	}
	r.users[name] = &user{
		mailbox: mb,
		rooms:   make(map[string]struct{}),
	}
	return nil
}

// RemoveUser removes name from the registry, leaving every room the user
// was in. Remaining members of those rooms are notified with Left; rooms
// emptied by the departure are deleted. Returns UserUnknownError if name
// is not registered.
func (r *Registry) RemoveUser(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[name]
	if !ok {
		return UserUnknownError{Name: name}
	}
	delete(r.users, name)

	for roomName := range u.rooms {
		r.leaveLocked(roomName, name)
	}
	return nil
}

// Rename atomically re-keys a user from old to new, updating every room's
// member set. The mailbox handle and room set are preserved. Returns
// UserUnknownError if old is absent and UserAlreadyExistsError if new is
// taken; on error the registry is unchanged.
func (r *Registry) Rename(oldName, newName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[oldName]
	if !ok {
		return UserUnknownError{Name: oldName}
	}
	if _, taken := r.users[newName]; taken {
		return UserAlreadyExistsError{Name: newName}
	}

	delete(r.users, oldName)
	r.users[newName] = u
	for roomName := range u.rooms {
		rm := r.rooms[roomName]
		delete(rm.members, oldName)
		rm.members[newName] = struct{}{}
	}
	return nil
}

// JoinRoom adds userName to roomName, creating the room if it does not
// exist. Existing members are notified with Joined. Joining a room the
// user is already in is a silent no-op. Returns UserUnknownError if the
// user is not registered.
func (r *Registry) JoinRoom(roomName, userName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userName]
	if !ok {
		return UserUnknownError{Name: userName}
	}

	rm, ok := r.rooms[roomName]
	if !ok {
		rm = &room{members: make(map[string]struct{})}
		r.rooms[roomName] = rm
		r.collector.RoomCreated()
	}
	if _, member := rm.members[userName]; member {
		return nil
	}

	// Notify members present before the join.
	for member := range rm.members {
		if m, ok := r.users[member]; ok {
			m.mailbox.Enqueue(Joined{Room: roomName, User: userName})
		}
	}

	rm.members[userName] = struct{}{}
	u.rooms[roomName] = struct{}{}
	return nil
}

// LeaveRoom removes userName from roomName. Remaining members are notified
// with Left; a room emptied by the departure is deleted. Returns
// RoomUnknownError if the room does not exist and UserNotInRoomError if
// the user is not a member.
func (r *Registry) LeaveRoom(roomName, userName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomName]
	if !ok {
		return RoomUnknownError{Name: roomName}
	}
	if _, member := rm.members[userName]; !member {
		return UserNotInRoomError{User: userName, Room: roomName}
	}

	if u, ok := r.users[userName]; ok {
		delete(u.rooms, roomName)
	}
	r.leaveLocked(roomName, userName)
	return nil
}

// leaveLocked removes userName from roomName's member set, notifies the
// remaining members, and deletes the room if it became empty. The caller
// holds the lock and has already detached the room from the user's side.
func (r *Registry) leaveLocked(roomName, userName string) {
	rm, ok := r.rooms[roomName]
	if !ok {
		return
	}
	delete(rm.members, userName)
	if len(rm.members) == 0 {
		delete(r.rooms, roomName)
		r.collector.RoomDeleted()
		return
	}
	for member := range rm.members {
		if m, ok := r.users[member]; ok {
			m.mailbox.Enqueue(Left{Room: roomName, User: userName})
		}
	}
}

// Rooms returns an unordered snapshot of current room names.
func (r *Registry) Rooms() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.rooms))
	for name := range r.rooms {
		names = append(names, name)
	}
	return names
}

// Users returns an unordered snapshot of roomName's members. Returns
// RoomUnknownError if the room does not exist.
func (r *Registry) Users(roomName string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomName]
	if !ok {
		return nil, RoomUnknownError{Name: roomName}
	}
	members := make([]string, 0, len(rm.members))
	for name := range rm.members {
		members = append(members, name)
	}
	return members, nil
}

// SayToUser enqueues a private message on the target's mailbox. Sending to
// oneself is allowed. Returns UserUnknownError if the target is not
// registered.
func (r *Registry) SayToUser(from, to, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[to]
	if !ok {
		return UserUnknownError{Name: to}
	}
	u.mailbox.Enqueue(SaidUser{From: from, Text: text})
	return nil
}

// SayToRoom enqueues a room message on the mailbox of every member except
// the sender. Returns RoomUnknownError if the room does not exist.
func (r *Registry) SayToRoom(from, roomName, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomName]
	if !ok {
		return RoomUnknownError{Name: roomName}
	}
	for member := range rm.members {
		if member == from {
			continue
		}
		if u, ok := r.users[member]; ok {
			u.mailbox.Enqueue(SaidRoom{Room: roomName, From: from, Text: text})
		}
	}
	return nil
}
