package ws

import (
	"bufio"
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

// websocketGUID is the magic value RFC 6455 section 4.2.2 appends to the
// client key before hashing.
const websocketGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// ErrBadHandshake means the first read on a connection was not a valid
// WebSocket upgrade request.
var ErrBadHandshake = errors.New("PROTOCOL_ERROR: invalid websocket handshake")

// AcceptKey computes the Sec-WebSocket-Accept value for a client key:
// SHA-1 over key+GUID, base64 encoded.
func AcceptKey(clientKey string) string {
	digest := sha1.Sum([]byte(clientKey + websocketGUID))
	return base64.StdEncoding.EncodeToString(digest[:])
}

// Handshake consumes the HTTP upgrade request from br and writes the 101
// response to w. Runs once per connection; after it returns the peer speaks
// frames, never HTTP.
func Handshake(br *bufio.Reader, w io.Writer) error {
	requestLine, err := br.ReadString('\n')
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadHandshake, err)
	}
	if !strings.HasPrefix(strings.ToUpper(requestLine), "GET") {
		return fmt.Errorf("%w: not a GET request", ErrBadHandshake)
	}

	// Read headers until the blank line. Only Sec-WebSocket-Key matters;
	// everything else is tolerated and dropped.
	var clientKey string
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadHandshake, err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}

		name, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), "Sec-WebSocket-Key") {
			clientKey = strings.TrimSpace(value)
		}
	}

	if clientKey == "" {
		return fmt.Errorf("%w: missing Sec-WebSocket-Key", ErrBadHandshake)
	}

	response := "HTTP/1.1 101 Switching Protocols\r\n" +
		"Connection: Upgrade\r\n" +
		"Upgrade: websocket\r\n" +
		"Sec-WebSocket-Accept: " + AcceptKey(clientKey) + "\r\n\r\n"

	if _, err := w.Write([]byte(response)); err != nil {
		return fmt.Errorf("write handshake response: %w", err)
	}
	return nil
}
