// Package ws implements the server side of RFC 6455 by hand: handshake,
// frame codec and a minimal connection wrapper. Text and close frames are
// the only ones the protocol uses; ping/pong and binary are tolerated and
// skipped, extensions and fragmentation are not supported.
package ws

import (
	"bufio"
	"errors"
	"io"
	"net"
	"sync"
	"time"
)

// ErrConnClosed means the peer closed the connection, either with a close
// frame or by dropping the socket.
var ErrConnClosed = errors.New("websocket connection closed")

// writeTimeout bounds every frame write. A peer that stops reading fills its
// TCP window and would otherwise block the writer forever; the deadline turns
// that stall into an error. Variable so tests can shorten it.
var writeTimeout = 10 * time.Second

// Conn wraps a net.Conn that has completed (or is about to complete) the
// upgrade handshake. The reader goroutine owns ReadMessage; WriteMessage is
// safe for concurrent use.
type Conn struct {
	netConn net.Conn
	br      *bufio.Reader

	writeMu sync.Mutex

	closeOnce sync.Once
	closeErr  error
}

func NewConn(netConn net.Conn) *Conn {
	return &Conn{
		netConn: netConn,
		br:      bufio.NewReader(netConn),
	}
}

// Handshake performs the server side of the upgrade. Must be called before
// the first ReadMessage/WriteMessage.
func (c *Conn) Handshake() error {
	return Handshake(c.br, c.netConn)
}

// ReadMessage blocks until the next text payload arrives. Close frames and
// socket EOF both surface as ErrConnClosed; protocol violations surface the
// typed frame errors and the caller is expected to drop the connection.
func (c *Conn) ReadMessage() (string, error) {
	for {
		frame, err := ReadFrame(c.br)
		if err != nil {
			if isClosedErr(err) {
				return "", ErrConnClosed
			}
			return "", err
		}

		switch frame.Opcode {
		case OpcodeText:
			return string(frame.Payload), nil
		case OpcodeClose:
			return "", ErrConnClosed
		default:
			// Binary, ping, pong: nothing in the protocol uses them.
			continue
		}
	}
}

// WriteMessage sends a single text frame. The write carries a deadline; a
// connection that cannot absorb the frame in time is dropped so the reader
// goroutine unwinds and the session gets cleaned up.
func (c *Conn) WriteMessage(payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.netConn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_, err := c.netConn.Write(EncodeFrame(OpcodeText, payload))
	if err != nil {
		// Mid-frame failures leave the stream unrecoverable.
		c.netConn.Close()
	}
	return err
}

// Close sends a close frame on a best-effort basis and closes the socket,
// unblocking any pending read.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		c.netConn.SetWriteDeadline(time.Now().Add(writeTimeout))
		c.netConn.Write(EncodeFrame(OpcodeClose, nil))
		c.writeMu.Unlock()

		c.closeErr = c.netConn.Close()
	})
	return c.closeErr
}

// RemoteAddr exposes the peer address for logging.
func (c *Conn) RemoteAddr() net.Addr {
	return c.netConn.RemoteAddr()
}

func isClosedErr(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, net.ErrClosed)
}
