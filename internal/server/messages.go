package server

import "encoding/json"

// ClientMessage is the envelope every client command arrives in.
type ClientMessage struct {
	Name string          `json:"name"`
	Send json.RawMessage `json:"send"`
}

// ServerMessage is the envelope for everything sent to clients.
type ServerMessage struct {
	Name string `json:"name"`
	Data any    `json:"data"`
}
