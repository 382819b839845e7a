package server

import (
	"errors"
	"log"

	"uno-server/internal/game"
	"uno-server/internal/ws"
)

var (
	ErrNotLeader      = errors.New("NOT_LEADER: only the lobby leader can start the game")
	ErrGameNotStarted = errors.New("GAME_NOT_STARTED: no game in progress")
)

// handleSetName updates the lobby listing. While a game is running the
// in-game roster keeps the name it was started with; only the lobby view
// changes.
func (s *Server) handleSetName(sessionID, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lobby.SetName(sessionID, username); err != nil {
		log.Printf("setName from unknown session %s", sessionID)
		return
	}
	s.broadcastLobbyInfo()
}

// handleStartGame snapshots the lobby roster into a fresh game. Only the
// leader may start; anyone else gets a targeted serverError.
func (s *Server) handleStartGame(sessionID string, conn *ws.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.lobby.Get(sessionID)
	if session == nil || !session.Leader {
		s.sendError(conn, ErrNotLeader.Error())
		return
	}

	players := make([]*game.Player, 0, s.lobby.Len())
	for _, sess := range s.lobby.Sessions() {
		players = append(players, &game.Player{
			ID:     sess.ID,
			Name:   sess.Name,
			Index:  sess.Index,
			Leader: sess.Leader,
		})
	}

	g, err := game.New(players)
	if err != nil {
		s.sendError(conn, err.Error())
		return
	}
	s.game = g

	log.Printf("Game started by %s with %d players", sessionID, len(players))
	s.broadcastGameState("startGame")
}

func (s *Server) handlePlaceCard(sessionID string, conn *ws.Conn, card game.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game == nil {
		s.sendError(conn, ErrGameNotStarted.Error())
		return
	}

	if err := s.game.PlaceCard(sessionID, card); err != nil {
		// Illegal moves go to the offender only, never to the table.
		s.sendError(conn, err.Error())
		return
	}
	s.broadcastGameState("gameUpdate")
}

func (s *Server) handlePullCard(sessionID string, conn *ws.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game == nil {
		s.sendError(conn, ErrGameNotStarted.Error())
		return
	}

	if err := s.game.PullCard(sessionID); err != nil {
		s.sendError(conn, err.Error())
		return
	}
	s.broadcastGameState("gameUpdate")
}

// handleLeave removes the session from the lobby and reconciles any running
// game. A table left with fewer than two players folds back to the lobby.
func (s *Server) handleLeave(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lobby.Leave(sessionID) {
		return
	}

	if s.game != nil {
		if aborted := s.game.RemovePlayer(sessionID); aborted {
			log.Printf("Game aborted: not enough players left")
			s.game = nil
		} else {
			s.broadcastGameState("gameUpdate")
		}
	}

	s.broadcastLobbyInfo()
}
