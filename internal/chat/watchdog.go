package chat

import (
	"sync"
	"time"
)

// DefaultPingInterval is the liveness check interval. A connection is
// pinged after one interval of silence and declared dead after two; the
// two thresholds move only as a pair.
const DefaultPingInterval = 90 * time.Second

// WatchdogEvent is a liveness event consumed by the connection handler.
type WatchdogEvent int

const (
	// SendPing instructs the handler to emit PING on the wire.
	SendPing WatchdogEvent = iota

	// PongTimeout means the client missed the liveness deadline; the
	// handler terminates the connection.
	PongTimeout
)

func (e WatchdogEvent) String() string {
	switch e {
	case SendPing:
		return "SendPing"
	case PongTimeout:
		return "PongTimeout"
	default:
		return "Unknown"
	}
}

// Watchdog tracks liveness for one connection. A background task wakes
// every interval and compares elapsed time since the last recorded
// activity: one interval elapsed emits SendPing, two emits PongTimeout and
// stops the watchdog.
type Watchdog struct {
	interval time.Duration

	mu           sync.Mutex
	lastActivity time.Time

	events   chan WatchdogEvent
	done     chan struct{}
	stopOnce sync.Once
}

// NewWatchdog starts a watchdog with the given ping interval. The
// last-activity clock starts at now.
func NewWatchdog(interval time.Duration) *Watchdog {
	if interval <= 0 {
		interval = DefaultPingInterval
	}
	w := &Watchdog{
		interval:     interval,
		lastActivity: time.Now(),
		events:       make(chan WatchdogEvent, 1),
		done:         make(chan struct{}),
	}
	go w.run()
	return w
}

// Events returns the event channel. After PongTimeout no further events
// are produced.
func (w *Watchdog) Events() <-chan WatchdogEvent {
	return w.events
}

// GotPong records client liveness, refreshing the last-activity clock.
func (w *Watchdog) GotPong() {
	w.mu.Lock()
	w.lastActivity = time.Now()
	w.mu.Unlock()
}

// Stop terminates the watchdog task. Safe to call more than once.
func (w *Watchdog) Stop() {
	w.stopOnce.Do(func() { close(w.done) })
}

func (w *Watchdog) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.mu.Lock()
			elapsed := time.Since(w.lastActivity)
			w.mu.Unlock()

			switch {
			case elapsed >= 2*w.interval:
				w.emit(PongTimeout)
				return
			case elapsed >= w.interval:
				w.emit(SendPing)
			}
		}
	}
}

func (w *Watchdog) emit(e WatchdogEvent) {
	select {
	case w.events <- e:
	case <-w.done:
	}
}
