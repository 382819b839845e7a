// Package server wires the hand-rolled websocket transport to the game
// engine: it owns the TCP listener, the lobby, the single in-progress table
// and the broadcast fan-out.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"sync"

	_ "github.com/joho/godotenv/autoload"

	"uno-server/internal/game"
	"uno-server/internal/ws"
)

// DefaultPort is the reference deployment port, used when PORT is unset.
const DefaultPort = 7777

type Server struct {
	port        int
	listener    net.Listener
	connections *ConnectionManager

	// mu is the single-writer serialization point. Every lobby/game
	// mutation and the snapshot construction for its broadcast happen
	// inside it; connection goroutines never touch lobby or game
	// directly.
	mu    sync.Mutex
	lobby *Lobby
	game  *game.Game
}

func NewServer() *Server {
	// PORT=0 is honored (ephemeral port) so tests can bind anywhere.
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = DefaultPort
	}

	return &Server{
		port:        port,
		connections: NewConnectionManager(),
		lobby:       NewLobby(),
	}
}

// Addr returns the listener address once Serve is running.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Listen binds the TCP listener without accepting yet. Split from Serve so
// callers (and tests) can learn the address before the accept loop runs.
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", s.port, err)
	}
	s.listener = listener
	log.Printf("Server listening on %s", listener.Addr())
	return nil
}

// Serve accepts connections until the listener is closed. Each connection
// gets its own goroutine; the accept loop never blocks on a client.
func (s *Server) Serve() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	for {
		netConn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		go s.handleConnection(netConn)
	}
}

// Shutdown closes the listener and every live connection. In-flight
// commands finish because they hold the state mutex.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.listener != nil {
		s.listener.Close()
	}
	log.Printf("Closing %d connections", s.connections.Count())
	s.connections.CloseAll()
	return ctx.Err()
}

// handleConnection runs the whole lifecycle of one client: handshake, lobby
// join, read loop, departure. Errors here are local to this connection and
// never propagate to siblings.
func (s *Server) handleConnection(netConn net.Conn) {
	conn := ws.NewConn(netConn)

	if err := conn.Handshake(); err != nil {
		log.Printf("Handshake failed from %s: %v", netConn.RemoteAddr(), err)
		netConn.Close()
		return
	}

	session := s.join(conn)
	log.Printf("Session %s connected from %s", session.ID, conn.RemoteAddr())

	defer func() {
		s.connections.Remove(session.ID)
		conn.Close()
		s.handleLeave(session.ID)
		log.Printf("Session %s disconnected", session.ID)
	}()

	for {
		text, err := conn.ReadMessage()
		if err != nil {
			if !errors.Is(err, ws.ErrConnClosed) {
				log.Printf("Session %s read error: %v", session.ID, err)
			}
			return
		}

		cmd, err := ParseCommand(text)
		if err != nil {
			if errors.Is(err, errDisconnectRequest) {
				return
			}
			// Recoverable: log, tell the sender, drop the command.
			log.Printf("Session %s invalid command: %v", session.ID, err)
			s.sendError(conn, err.Error())
			continue
		}

		s.dispatch(session.ID, conn, cmd)
	}
}

// join registers the connection and adds a session to the lobby.
func (s *Server) join(conn *ws.Conn) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.lobby.Join()
	s.connections.Add(session.ID, conn)
	s.broadcastLobbyInfo()
	return session
}

// dispatch applies one parsed command. Each handler takes the state mutex,
// so commands are applied in submission order and broadcasts always see a
// fully settled state.
func (s *Server) dispatch(sessionID string, conn *ws.Conn, cmd Command) {
	switch cmd.Kind {
	case CmdSetName:
		s.handleSetName(sessionID, cmd.Username)
	case CmdStartGame:
		s.handleStartGame(sessionID, conn)
	case CmdPlaceCard:
		s.handlePlaceCard(sessionID, conn, cmd.Card)
	case CmdPullCard:
		s.handlePullCard(sessionID, conn)
	}
}
