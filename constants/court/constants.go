package court_constants

// Socket.io event names exchanged with clients outside the broadcast events.
const (
	SocketStateEvent    = "state"
	SocketGetStateEvent = "get_state"
	SocketErrorEvent    = "error"
)

// Query limits for match history.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

const AdminTokenType = "Bearer"
