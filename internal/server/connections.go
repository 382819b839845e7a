package server

import (
	"sync"

	"uno-server/internal/ws"
)

// ConnectionManager maps session IDs to live websocket connections. It has
// its own lock because connection goroutines register and deregister
// themselves while the broadcast path reads.
type ConnectionManager struct {
	connections map[string]*ws.Conn // sessionID → socket
	mu          sync.RWMutex
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]*ws.Conn),
	}
}

func (cm *ConnectionManager) Add(sessionID string, conn *ws.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.connections[sessionID] = conn
}

func (cm *ConnectionManager) Remove(sessionID string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	delete(cm.connections, sessionID)
}

func (cm *ConnectionManager) Get(sessionID string) *ws.Conn {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.connections[sessionID]
}

// CloseAll shuts every live connection, unblocking their reader goroutines.
func (cm *ConnectionManager) CloseAll() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	for id, conn := range cm.connections {
		conn.Close()
		delete(cm.connections, id)
	}
}

func (cm *ConnectionManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.connections)
}
