package chat

import "sync"

// Mailbox is a per-user unbounded FIFO of outbound messages. The registry
// enqueues into it while holding its lock, so Enqueue never blocks; the
// owning connection handler drains it through C and is the only closer.
type Mailbox struct {
	mu     sync.Mutex
	queue  []OutgoingMessage
	closed bool

	// wake carries at most one token; the pump collapses bursts of
	// enqueues into a single wakeup and re-checks the queue each pass.
	wake chan struct{}
	out  chan OutgoingMessage
}

// NewMailbox creates a mailbox and starts its pump.
func NewMailbox() *Mailbox {
	m := &Mailbox{
		wake: make(chan struct{}, 1),
		out:  make(chan OutgoingMessage),
	}
	go m.pump()
	return m
}

// Enqueue appends msg to the queue. It never blocks. Enqueues after Close
// are silently discarded: the owning connection is tearing down and its
// registry entry is about to disappear.
func (m *Mailbox) Enqueue(msg OutgoingMessage) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.queue = append(m.queue, msg)
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// C returns the dequeue channel. It yields messages in enqueue order and
// is closed after Close once the remaining queue has been delivered.
func (m *Mailbox) C() <-chan OutgoingMessage {
	return m.out
}

// Close stops accepting new messages. Queued messages are still delivered
// on C before it closes; the caller is expected to drain.
func (m *Mailbox) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func (m *Mailbox) pump() {
	for {
		m.mu.Lock()
		for len(m.queue) == 0 {
			if m.closed {
				m.mu.Unlock()
				close(m.out)
				return
			}
			m.mu.Unlock()
			<-m.wake
			m.mu.Lock()
		}
		msg := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()

		// Blocking here delays delivery, never the enqueuer.
		m.out <- msg
	}
}
