package socketio_types

import (
	"sync"

	"github.com/zishang520/socket.io/v2/socket"
)

// SocketServer wraps the socket.io server and tracks the live connections
// by socket id.
type SocketServer struct {
	Sio_server *socket.Server
	// socket id -> connection
	Connections map[string]*socket.Socket
	admins      map[string]bool
	mutex       sync.RWMutex
}

func NewSocketServer() *SocketServer {
	return &SocketServer{
		Connections: make(map[string]*socket.Socket),
		admins:      make(map[string]bool),
	}
}

func (s *SocketServer) AddConnection(id string, client *socket.Socket, admin bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.Connections[id] = client
	if admin {
		s.admins[id] = true
	}
}

func (s *SocketServer) RemoveConnection(id string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.Connections, id)
	delete(s.admins, id)
}

func (s *SocketServer) GetConnection(id string) (*socket.Socket, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	client, exists := s.Connections[id]
	return client, exists
}

// Counts returns the number of connections and how many of them are admins.
func (s *SocketServer) Counts() (total, admins int) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.Connections), len(s.admins)
}
