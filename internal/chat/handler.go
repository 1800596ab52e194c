package chat

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/infodancer/chatd/internal/logging"
	"github.com/infodancer/chatd/internal/metrics"
	"github.com/infodancer/chatd/internal/server"
)

// HandlerConfig holds per-connection settings shared by all handlers.
type HandlerConfig struct {
	// PingInterval is the liveness check interval. The fatal deadline is
	// always twice this value.
	PingInterval time.Duration

	Collector metrics.Collector
}

// Handler creates a chat protocol handler sharing reg across all
// connections.
func Handler(reg *Registry, cfg HandlerConfig) server.ConnectionHandler {
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = DefaultPingInterval
	}
	if cfg.Collector == nil {
		cfg.Collector = &metrics.NoopCollector{}
	}

	return func(ctx context.Context, conn *server.Connection) {
		handleConnection(ctx, conn, reg, cfg)
	}
}

// frame is one read result from the connection's reader task.
type frame struct {
	line string
	err  error
}

// handler drives a single connection through the state machine. All fields
// except the registry and mailbox enqueue side are owned by the handler
// goroutine.
type handler struct {
	conn      *server.Connection
	reg       *Registry
	sess      *Session
	mailbox   *Mailbox
	watchdog  *Watchdog
	frames    chan frame
	done      chan struct{}
	logger    *slog.Logger
	collector metrics.Collector
}

// handleConnection manages a single chat connection from greeting to
// teardown.
func handleConnection(ctx context.Context, conn *server.Connection, reg *Registry, cfg HandlerConfig) {
	logger := logging.FromContext(ctx)

	cfg.Collector.ConnectionOpened()
	defer cfg.Collector.ConnectionClosed()

	h := &handler{
		conn:      conn,
		reg:       reg,
		sess:      NewSession(),
		mailbox:   NewMailbox(),
		watchdog:  NewWatchdog(cfg.PingInterval),
		frames:    make(chan frame),
		done:      make(chan struct{}),
		logger:    logger,
		collector: cfg.Collector,
	}
	defer h.teardown()

	// Greeting: emit CONNECTED and move straight to registration.
	if err := h.write(Connected{}); err != nil {
		return
	}
	h.sess.SetState(StateRegistering)

	go h.readLoop()

	if !h.register(ctx) {
		return
	}

	h.collector.UserRegistered()
	h.logger.Info("user registered", slog.String("user", h.sess.Name()))

	if err := h.write(Registered{}); err != nil {
		return
	}
	h.sess.SetState(StateActive)

	h.active(ctx)
}

// readLoop reads frames off the socket and hands them to the event loop.
// It exits on the first terminal read error or when the handler is done.
// A too-long line is recoverable: it is reported as a frame and reading
// continues.
func (h *handler) readLoop() {
	for {
		line, err := h.conn.ReadLine()
		select {
		case h.frames <- frame{line: line, err: err}:
		case <-h.done:
			return
		}
		if err != nil && !errors.Is(err, server.ErrLineTooLong) {
			return
		}
	}
}

// register runs the Registering state: only NAME, QUIT, and PONG have any
// effect, and malformed commands other than NAME are dropped without a
// response. Returns true once a NAME has been accepted.
func (h *handler) register(ctx context.Context) bool {
	for {
		select {
		case <-ctx.Done():
			return false

		case msg := <-h.mailbox.C():
			// Nothing should target an unregistered user, but drain
			// faithfully if something does.
			if err := h.write(msg); err != nil {
				return false
			}

		case ev := <-h.watchdog.Events():
			if !h.handleWatchdog(ev) {
				return false
			}

		case f := <-h.frames:
			if f.err != nil {
				if errors.Is(f.err, server.ErrLineTooLong) {
					if !h.writeMaxLength() {
						return false
					}
					continue
				}
				h.logReadEnd(f.err)
				return false
			}

			action := Parse(f.line)
			switch action.Kind {
			case ActionProcess:
				switch msg := action.Msg.(type) {
				case Name:
					h.collector.CommandProcessed("NAME")
					if err := h.reg.AddUser(msg.Name, h.mailbox); err != nil {
						if !h.writeError(err) {
							return false
						}
						continue
					}
					h.sess.SetName(msg.Name)
					return true
				case Quit:
					h.collector.CommandProcessed("QUIT")
					return false
				case Pong:
					h.collector.CommandProcessed("PONG")
					h.watchdog.GotPong()
				default:
					// Not registered; other commands are dropped without
					// a response.
				}
			case ActionParseError:
				if action.Cmd == "NAME" {
					if !h.writeError(action.Err) {
						return false
					}
				}
			case ActionIgnore:
			}
		}
	}
}

// active runs the registered steady state, multiplexing the mailbox, the
// watchdog, and inbound frames.
func (h *handler) active(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case msg := <-h.mailbox.C():
			if err := h.write(msg); err != nil {
				return
			}

		case ev := <-h.watchdog.Events():
			if !h.handleWatchdog(ev) {
				return
			}

		case f := <-h.frames:
			if f.err != nil {
				if errors.Is(f.err, server.ErrLineTooLong) {
					if !h.writeMaxLength() {
						return
					}
					continue
				}
				h.logReadEnd(f.err)
				return
			}
			if !h.dispatch(Parse(f.line)) {
				return
			}
		}
	}
}

// dispatch applies one parsed action in the Active state. Returns false
// when the connection should move to teardown.
func (h *handler) dispatch(action ParsedAction) bool {
	switch action.Kind {
	case ActionIgnore:
		return true

	case ActionParseError:
		return h.writeError(action.Err)

	case ActionProcess:
		switch msg := action.Msg.(type) {
		case Name:
			h.collector.CommandProcessed("NAME")
			if err := h.reg.Rename(h.sess.Name(), msg.Name); err != nil {
				return h.writeError(err)
			}
			h.sess.SetName(msg.Name)

		case Join:
			h.collector.CommandProcessed("JOIN")
			if err := h.reg.JoinRoom(msg.Room, h.sess.Name()); err != nil {
				return h.writeError(err)
			}

		case Leave:
			h.collector.CommandProcessed("LEAVE")
			if err := h.reg.LeaveRoom(msg.Room, h.sess.Name()); err != nil {
				return h.writeError(err)
			}

		case SayRoom:
			h.collector.CommandProcessed("SAY")
			if err := h.reg.SayToRoom(h.sess.Name(), msg.Room, msg.Text); err != nil {
				return h.writeError(err)
			}
			h.collector.MessageDelivered("room")

		case SayUser:
			h.collector.CommandProcessed("SAY")
			if err := h.reg.SayToUser(h.sess.Name(), msg.User, msg.Text); err != nil {
				return h.writeError(err)
			}
			h.collector.MessageDelivered("user")

		case Rooms:
			h.collector.CommandProcessed("ROOMS")
			for _, name := range h.reg.Rooms() {
				if err := h.write(RoomEntry{Name: name}); err != nil {
					return false
				}
			}

		case Users:
			h.collector.CommandProcessed("USERS")
			members, err := h.reg.Users(msg.Room)
			if err != nil {
				return h.writeError(err)
			}
			for _, name := range members {
				if err := h.write(UserEntry{Name: name}); err != nil {
					return false
				}
			}

		case Pong:
			h.collector.CommandProcessed("PONG")
			h.watchdog.GotPong()

		case Quit:
			h.collector.CommandProcessed("QUIT")
			return false
		}
		return true
	}
	return true
}

// handleWatchdog reacts to one liveness event. Returns false when the
// connection is dead.
func (h *handler) handleWatchdog(ev WatchdogEvent) bool {
	switch ev {
	case SendPing:
		h.collector.PingSent()
		return h.write(Ping{}) == nil
	case PongTimeout:
		h.collector.LivenessTimeout()
		h.logger.Info("liveness deadline missed, closing connection")
		return false
	}
	return true
}

// teardown removes the user from the registry, releases the mailbox and
// watchdog, and closes the socket. Runs exactly once per connection.
func (h *handler) teardown() {
	h.sess.SetState(StateTearingDown)

	if h.sess.Registered() {
		if err := h.reg.RemoveUser(h.sess.Name()); err != nil {
			h.logger.Error("removing user from registry",
				slog.String("user", h.sess.Name()),
				slog.String("error", err.Error()))
		} else {
			h.collector.UserRemoved()
		}
	}

	h.watchdog.Stop()

	// Drop any undelivered messages so the mailbox pump can exit.
	h.mailbox.Close()
	for range h.mailbox.C() {
	}

	_ = h.conn.Close()
	close(h.done)

	h.sess.SetState(StateClosed)
}

// write sends one outbound message line.
func (h *handler) write(msg OutgoingMessage) error {
	return h.conn.WriteLine(msg.String())
}

// writeError reports a client-visible error line. Internal errors without
// a wire rendering are logged only. Returns false when the write failed
// and the connection should tear down.
func (h *handler) writeError(err error) bool {
	var we WireError
	if !errors.As(err, &we) {
		h.logger.Error("internal error", slog.String("error", err.Error()))
		return true
	}
	h.collector.ClientError(errorKind(we))
	return h.conn.WriteLine(we.WireLine()) == nil
}

// writeMaxLength reports an oversized inbound line; the connection
// continues.
func (h *handler) writeMaxLength() bool {
	h.collector.ClientError("max_length")
	return h.conn.WriteLine("ERROR max length reached") == nil
}

func (h *handler) logReadEnd(err error) {
	h.logger.Info("read loop ended", slog.String("reason", err.Error()))
}

// errorKind maps a wire error to its metrics label.
func errorKind(err WireError) string {
	switch e := err.(type) {
	case UserAlreadyExistsError:
		return "user_already_exists"
	case UserUnknownError:
		return "user_unknown"
	case RoomUnknownError:
		return "room_unknown"
	case UserNotInRoomError:
		return "user_not_in_room"
	case ParseErrorKind:
		switch e {
		case BadArguments:
			return "bad_arguments"
		case BadNameFormat:
			return "bad_name_format"
		case BadRoomNameFormat:
			return "bad_room_name_format"
		}
	}
	return "unknown"
}
