package server

import (
	"bufio"
	"crypto/tls"
	"net"
	"strings"
	"sync/atomic"
)

// DefaultMaxLineLength caps inbound lines, terminator included.
const DefaultMaxLineLength = 1024

// Connection wraps an accepted socket with newline framing. Reads strip
// the terminator and tolerate a trailing \r; writes append \n and flush.
// Reads and writes may proceed concurrently, but each side belongs to a
// single goroutine.
type Connection struct {
	conn    net.Conn
	reader  *bufio.Reader
	writer  *bufio.Writer
	maxLine int
	closed  atomic.Bool
}

// NewConnection frames conn with the given maximum inbound line length.
// A maxLine of zero or less uses DefaultMaxLineLength.
func NewConnection(conn net.Conn, maxLine int) *Connection {
	if maxLine <= 0 {
		maxLine = DefaultMaxLineLength
	}
	return &Connection{
		conn:    conn,
		reader:  bufio.NewReader(conn),
		writer:  bufio.NewWriter(conn),
		maxLine: maxLine,
	}
}

// ReadLine reads the next line, without its terminator. A line exceeding
// the maximum length is consumed through its newline and reported as
// ErrLineTooLong; the connection remains usable.
func (c *Connection) ReadLine() (string, error) {
	buf := make([]byte, 0, 128)
	overflow := false
	for {
		frag, err := c.reader.ReadSlice('\n')
		if !overflow {
			buf = append(buf, frag...)
			if len(buf) > c.maxLine {
				overflow = true
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		if err != nil {
			return "", err
		}
		break
	}
	if overflow {
		return "", ErrLineTooLong
	}
	line := strings.TrimSuffix(string(buf), "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

// WriteLine writes line followed by \n and flushes. Outbound lines are not
// length-limited.
func (c *Connection) WriteLine(line string) error {
	if _, err := c.writer.WriteString(line); err != nil {
		return err
	}
	if err := c.writer.WriteByte('\n'); err != nil {
		return err
	}
	return c.writer.Flush()
}

// Close closes the underlying socket. Safe to call more than once.
func (c *Connection) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	return c.conn.Close()
}

// IsClosed reports whether Close has been called.
func (c *Connection) IsClosed() bool {
	return c.closed.Load()
}

// IsTLS reports whether the underlying transport is TLS.
func (c *Connection) IsTLS() bool {
	_, ok := c.conn.(*tls.Conn)
	return ok
}

// RemoteAddr returns the peer address.
func (c *Connection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
