package websocket

import (
	"Courtside/models"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, h *Hub) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		channel := models.Channel(r.URL.Query().Get("channel"))
		initial := &Message{Event: "state", Data: map[string]string{"channel": string(channel)}}
		if err := h.Serve(w, r, channel, initial); err != nil {
			t.Errorf("serve: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, channel models.Channel) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?channel=" + string(channel)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHubRoutesByChannel(t *testing.T) {
	h := NewHub(zerolog.Nop(), nil)
	defer h.Close()
	srv := newServer(t, h)

	pub := dial(t, srv, models.ChannelPublic)
	adm := dial(t, srv, models.ChannelAdmin)
	assert.Equal(t, "state", read(t, pub).Event)
	assert.Equal(t, "state", read(t, adm).Event)

	require.Eventually(t, func() bool {
		return h.Count(models.ChannelPublic) == 1 && h.Count(models.ChannelAdmin) == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, h.Publish(context.Background(), models.ChannelAdmin, "team_joined", map[string]int{"totalTeams": 1}))
	require.NoError(t, h.Publish(context.Background(), models.ChannelPublic, "team_left", map[string]int{"totalTeams": 0}))

	assert.Equal(t, "team_joined", read(t, adm).Event)
	msg := read(t, pub)
	assert.Equal(t, "team_left", msg.Event)
	assert.Equal(t, map[string]interface{}{"totalTeams": float64(0)}, msg.Data)
}

func TestHubPreservesPublishOrder(t *testing.T) {
	h := NewHub(zerolog.Nop(), nil)
	defer h.Close()
	srv := newServer(t, h)
	conn := dial(t, srv, models.ChannelPublic)
	read(t, conn)
	require.Eventually(t, func() bool { return h.Count(models.ChannelPublic) == 1 }, time.Second, 10*time.Millisecond)

	events := []string{"team_joined", "queue_reordered", "match_started", "score_updated"}
	for _, ev := range events {
		require.NoError(t, h.Publish(context.Background(), models.ChannelPublic, ev, nil))
	}
	for _, want := range events {
		assert.Equal(t, want, read(t, conn).Event)
	}
}

func TestHubForgetsClosedClients(t *testing.T) {
	h := NewHub(zerolog.Nop(), nil)
	srv := newServer(t, h)
	conn := dial(t, srv, models.ChannelPublic)
	read(t, conn)
	require.Eventually(t, func() bool { return h.Count(models.ChannelPublic) == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return h.Count(models.ChannelPublic) == 0 }, 2*time.Second, 10*time.Millisecond)
}
