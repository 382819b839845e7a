package server

import (
	"encoding/json"
	"log"

	"uno-server/internal/ws"
)

// The broadcast dispatcher serializes state snapshots and fans them out.
// Callers hold the state mutex, so every snapshot reflects a fully settled
// state. A failed write is logged and never disturbs sibling connections.

func (s *Server) send(conn *ws.Conn, msg ServerMessage) {
	if conn == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Marshal %s message: %v", msg.Name, err)
		return
	}
	if err := conn.WriteMessage(data); err != nil {
		log.Printf("Write %s message: %v", msg.Name, err)
	}
}

func (s *Server) sendError(conn *ws.Conn, message string) {
	s.send(conn, ServerMessage{
		Name: "serverError",
		Data: ErrorMessage{Message: message},
	})
}

// sendTo delivers to one session, silently skipping it when the connection
// is already gone.
func (s *Server) sendTo(sessionID string, msg ServerMessage) {
	conn := s.connections.Get(sessionID)
	if conn == nil {
		return
	}
	s.send(conn, msg)
}

// broadcastLobbyInfo sends the current lobby listing to every session.
func (s *Server) broadcastLobbyInfo() {
	listing := s.buildLobbyInfo()
	for _, session := range s.lobby.Sessions() {
		s.sendTo(session.ID, ServerMessage{Name: "lobbyInfo", Data: listing})
	}
}

func (s *Server) buildLobbyInfo() []LobbyPlayer {
	sessions := s.lobby.Sessions()
	listing := make([]LobbyPlayer, 0, len(sessions))
	for _, session := range sessions {
		listing = append(listing, LobbyPlayer{
			Name:   session.Name,
			Index:  session.Index,
			Leader: session.Leader,
			Turn:   s.hasTurn(session.ID),
		})
	}
	return listing
}

func (s *Server) hasTurn(sessionID string) bool {
	if s.game == nil {
		return false
	}
	for _, p := range s.game.Players {
		if p.ID == sessionID {
			return p.Turn
		}
	}
	return false
}

// broadcastGameState sends a personalized view to every in-game player:
// their own hand in full, everyone else as a hand size.
func (s *Server) broadcastGameState(name string) {
	if s.game == nil {
		return
	}
	for _, player := range s.game.Players {
		view := s.buildGameView(player.ID)
		s.sendTo(player.ID, ServerMessage{Name: name, Data: view})
	}
}

// buildGameView projects the game for one recipient.
func (s *Server) buildGameView(recipientID string) GameView {
	players := make([]PlayerView, 0, len(s.game.Players))
	for _, p := range s.game.Players {
		view := PlayerView{
			Name:     p.Name,
			Index:    p.Index,
			Leader:   p.Leader,
			Turn:     p.Turn,
			DeckSize: len(p.Hand),
		}
		if p.ID == recipientID {
			view.Deck = append(view.Deck, p.Hand...)
		}
		players = append(players, view)
	}

	return GameView{
		Players:      players,
		TopCard:      s.game.TopCard,
		Direction:    s.game.Direction,
		DrawPileSize: len(s.game.DrawPile),
		DiscardSize:  len(s.game.Discard),
	}
}
