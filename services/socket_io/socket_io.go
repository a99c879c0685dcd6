// Package socket_io pushes court events to socket.io clients. Every client
// joins the "public" room; clients whose handshake carries an admin token
// also join "admin".
package socket_io

import (
	court_constants "Courtside/constants/court"
	"Courtside/middleware"
	"Courtside/models"
	"Courtside/services/court"
	socketio_types "Courtside/services/socket_io/types"
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/zishang520/engine.io/v2/log"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

type Options struct {
	JWTSecret string
	Origins   []string
	Debug     bool
	Overview  court.OverviewFunc
}

type MySocketServer struct {
	*socketio_types.SocketServer
	opts Options
	log  zerolog.Logger
}

func New(l zerolog.Logger, opts Options) *MySocketServer {
	return &MySocketServer{
		SocketServer: socketio_types.NewSocketServer(),
		opts:         opts,
		log:          l.With().Str("component", "socket.io").Logger(),
	}
}

// SetOverview sets where connect-time snapshots come from. Call it before Start.
func (sio *MySocketServer) SetOverview(f court.OverviewFunc) {
	sio.opts.Overview = f
}

func (sio *MySocketServer) Start(router *gin.Engine) {
	log.DEBUG = sio.opts.Debug
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// NOTE: higher ping interval and timeout to 1) reduce network load and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	var origin any = "*"
	if len(sio.opts.Origins) > 0 && sio.opts.Origins[0] != "*" {
		origin = sio.opts.Origins
	}
	c.SetCors(&types.Cors{
		Origin:      origin,
		Credentials: true,
	})

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)
		id := string(client.Id())
		admin := sio.isAdmin(client)

		client.Join(socket.Room(models.ChannelPublic))
		if admin {
			client.Join(socket.Room(models.ChannelAdmin))
		}
		sio.AddConnection(id, client, admin)
		total, admins := sio.Counts()
		sio.log.Debug().Str("socket_id", id).Bool("admin", admin).Int("connections", total).Int("admins", admins).Msg("Client connected")

		// A client never sees events published before it connected, so it
		// starts from a full snapshot.
		sio.sendState(client, admin)

		client.On(court_constants.SocketGetStateEvent, func(args ...interface{}) {
			sio.sendState(client, admin)
		})

		client.On("disconnecting", func(args ...interface{}) {
			sio.RemoveConnection(id)
			sio.log.Debug().Str("socket_id", id).Msg("Client disconnected")
		})
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	sio.log.Info().Msg("Socket server started")
}

// Publish emits event to every client in the room named after channel.
func (sio *MySocketServer) Publish(_ context.Context, channel models.Channel, event string, payload interface{}) error {
	if sio.Sio_server == nil {
		return nil
	}
	sio.Sio_server.To(socket.Room(channel)).Emit(event, payload)
	return nil
}

func (sio *MySocketServer) Close() {
	if sio.Sio_server != nil {
		sio.Sio_server.Close(nil)
	}
}

func (sio *MySocketServer) isAdmin(client *socket.Socket) bool {
	authData, ok := client.Handshake().Auth.(map[string]interface{})
	if !ok {
		return false
	}
	if _, present := authData["authorization"]; !present {
		return false
	}
	admin, err := middleware.Socketio_JWT_decoder(authData, sio.opts.JWTSecret)
	if err != nil {
		client.Emit(court_constants.SocketErrorEvent, gin.H{"error": "Authentication failed: invalid token, continuing as a public viewer"})
		return false
	}
	return admin
}

func (sio *MySocketServer) sendState(client *socket.Socket, admin bool) {
	if sio.opts.Overview == nil {
		return
	}
	channel := models.ChannelPublic
	if admin {
		channel = models.ChannelAdmin
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	overview, err := sio.opts.Overview(ctx, channel)
	if err != nil {
		sio.log.Error().Err(err).Msg("Could not load court state")
		client.Emit(court_constants.SocketErrorEvent, gin.H{"error": "Could not load court state"})
		return
	}
	client.Emit(court_constants.SocketStateEvent, overview)
}
