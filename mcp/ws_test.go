package mcp

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	logseq "github.com/logseq/logseq.go"
	"github.com/logseq/logseq.go/pkg/config"
)

func TestWSHandlerRoundTrip(t *testing.T) {
	caller := &queueCaller{}
	client := logseq.New(config.Default(), logseq.WithCaller(caller))
	server := NewServer("logseq-mcp", config.Version,
		NewToolHandler(client, true, true),
		NewPromptHandler(client),
		zerolog.Nop())

	ts := httptest.NewServer(server.WSHandler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"jsonrpc":"2.0","id":1,"method":"ping"}`)))

	messageType, message, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.TextMessage, messageType)

	var reply Response
	require.NoError(t, json.Unmarshal(message, &reply))
	require.Nil(t, reply.Error)
	require.Equal(t, float64(1), reply.ID)

	// Notifications produce no reply; the next request must still be
	// answered on the same connection.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)))

	_, message, err = conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(message, &reply))
	require.Nil(t, reply.Error)
	require.Equal(t, float64(2), reply.ID)
}
