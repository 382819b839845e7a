package server

import (
	"errors"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("SESSION_NOT_FOUND: no such session")

// Session is one connected player. The ID is the single identity used by
// transport, lobby and game engine alike; Index is a stable, never-reused
// display index handed to clients.
type Session struct {
	ID     string
	Index  int
	Name   string
	Leader bool
}

// Lobby is the ordered collection of sessions between games. It is owned by
// the Server's state mutex and holds no lock of its own; nothing outside
// that critical section may touch it.
type Lobby struct {
	sessions  []*Session
	nextIndex int
}

func NewLobby() *Lobby {
	return &Lobby{}
}

// Join appends a new session. The first session into an empty lobby becomes
// leader.
func (l *Lobby) Join() *Session {
	session := &Session{
		ID:     uuid.New().String(),
		Index:  l.nextIndex,
		Leader: len(l.sessions) == 0,
	}
	l.nextIndex++
	l.sessions = append(l.sessions, session)
	return session
}

func (l *Lobby) Get(id string) *Session {
	for _, s := range l.sessions {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (l *Lobby) SetName(id, name string) error {
	session := l.Get(id)
	if session == nil {
		return ErrSessionNotFound
	}
	session.Name = name
	return nil
}

// Leave removes the session outright; no tombstones, no secondary index
// table. When the leader departs the earliest remaining session is promoted.
func (l *Lobby) Leave(id string) bool {
	for i, s := range l.sessions {
		if s.ID != id {
			continue
		}
		wasLeader := s.Leader
		l.sessions = append(l.sessions[:i], l.sessions[i+1:]...)
		if wasLeader && len(l.sessions) > 0 {
			l.sessions[0].Leader = true
		}
		return true
	}
	return false
}

// Sessions returns the join-ordered listing. Callers must hold the server
// state mutex; the returned slice is a copy but the sessions are shared.
func (l *Lobby) Sessions() []*Session {
	return append([]*Session{}, l.sessions...)
}

func (l *Lobby) Len() int {
	return len(l.sessions)
}
