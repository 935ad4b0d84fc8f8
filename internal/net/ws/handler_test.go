package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"go-tower-director/internal/defs"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	cat, err := defs.Load("../../../configs")
	require.NoError(t, err)
	handler := NewHandler(HandlerConfig{Catalog: func() *defs.Catalog { return cat }})
	srv := httptest.NewServer(handler.Routes())
	t.Cleanup(srv.Close)
	return srv
}

func websocketURL(t *testing.T, baseURL, clientID string, query url.Values) string {
	t.Helper()
	parsed, err := url.Parse(baseURL)
	require.NoError(t, err)
	parsed.Scheme = "ws"
	parsed.Path = "/ws/" + clientID
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func dial(t *testing.T, srv *httptest.Server, query url.Values) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(websocketURL(t, srv.URL, "alice", query), nil)
	if resp != nil {
		resp.Body.Close()
	}
	require.NoError(t, err)
	t.Cleanup(func() {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	})
	return conn
}

type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// readUntil skips frames until one of kind arrives.
func readUntil(t *testing.T, conn *websocket.Conn, kind string) json.RawMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)
		var f frame
		require.NoError(t, json.Unmarshal(payload, &f))
		if f.Type == kind {
			return f.Data
		}
	}
}

type initialState struct {
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Tiles  [][]string `json:"tiles"`
	Towers []struct {
		ID   string `json:"id"`
		Cost int    `json:"cost"`
	} `json:"towers"`
	State struct {
		Gold int `json:"gold"`
	} `json:"state"`
}

func firstBuildable(t *testing.T, is initialState) (int, int) {
	t.Helper()
	for y, row := range is.Tiles {
		for x, tile := range row {
			if tile == "BUILDABLE" {
				return x, y
			}
		}
	}
	t.Fatal("no buildable tile")
	return 0, 0
}

func TestInitialStateThenTicks(t *testing.T) {
	srv := newServer(t)
	conn := dial(t, srv, url.Values{"seed": {"7"}})

	var is initialState
	require.NoError(t, json.Unmarshal(readUntil(t, conn, TypeInitialState), &is))
	assert.Equal(t, 40, is.Width)
	assert.Equal(t, 22, is.Height)
	assert.Len(t, is.Tiles, 22)
	assert.Equal(t, 150, is.State.Gold)
	require.NotEmpty(t, is.Towers)

	var tick struct {
		Time  float64 `json:"time"`
		State struct {
			Gold     int `json:"gold"`
			MaxWaves int `json:"max_waves"`
		} `json:"state"`
	}
	require.NoError(t, json.Unmarshal(readUntil(t, conn, TypeGameTick), &tick))
	assert.Greater(t, tick.Time, 0.0)
	assert.Equal(t, 20, tick.State.MaxWaves)
}

func TestPlaceTowerCommand(t *testing.T) {
	srv := newServer(t)
	conn := dial(t, srv, url.Values{"seed": {"7"}})

	var is initialState
	require.NoError(t, json.Unmarshal(readUntil(t, conn, TypeInitialState), &is))
	x, y := firstBuildable(t, is)

	require.NoError(t, conn.WriteJSON(ClientMessage{
		Action:  ActionPlaceTower,
		Payload: CommandPayload{TowerTypeID: "turret", TileX: x, TileY: y},
	}))
	var res CommandResult
	require.NoError(t, json.Unmarshal(readUntil(t, conn, TypeCommandResult), &res))
	assert.Equal(t, CommandResult{Action: ActionPlaceTower, OK: true}, res)

	// та же клетка уже занята
	require.NoError(t, conn.WriteJSON(ClientMessage{
		Action:  ActionPlaceTower,
		Payload: CommandPayload{TowerTypeID: "turret", TileX: x, TileY: y},
	}))
	require.NoError(t, json.Unmarshal(readUntil(t, conn, TypeCommandResult), &res))
	assert.False(t, res.OK)
	assert.Equal(t, ReasonRejected, res.Reason)

	var tick struct {
		State struct {
			Gold int `json:"gold"`
		} `json:"state"`
		Entities []struct {
			Kind   string `json:"kind"`
			TypeID string `json:"type_id"`
		} `json:"entities"`
	}
	require.NoError(t, json.Unmarshal(readUntil(t, conn, TypeGameTick), &tick))
	assert.Equal(t, 100, tick.State.Gold)
	require.NotEmpty(t, tick.Entities)
	assert.Equal(t, "tower", tick.Entities[0].Kind)
	assert.Equal(t, "turret", tick.Entities[0].TypeID)
}

func TestUnknownActionAndMalformedMessage(t *testing.T) {
	srv := newServer(t)
	conn := dial(t, srv, nil)
	readUntil(t, conn, TypeInitialState)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"action":"start_next_wave"}`)))
	var res CommandResult
	require.NoError(t, json.Unmarshal(readUntil(t, conn, TypeCommandResult), &res))
	assert.Equal(t, ReasonUnknownAction, res.Reason)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{not json`)))
	var em ErrorMessage
	require.NoError(t, json.Unmarshal(readUntil(t, conn, TypeError), &em))
	assert.Contains(t, em.Message, "malformed")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"payload":{}}`)))
	require.NoError(t, json.Unmarshal(readUntil(t, conn, TypeError), &em))
	assert.Contains(t, em.Message, "missing action")
}

func TestMsgpackFormat(t *testing.T) {
	srv := newServer(t)
	conn := dial(t, srv, url.Values{"format": {"msgpack"}, "seed": {"7"}})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	kind, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, kind)

	var msg struct {
		Type string         `msgpack:"type"`
		Data map[string]any `msgpack:"data"`
	}
	require.NoError(t, msgpack.Unmarshal(payload, &msg))
	assert.Equal(t, TypeInitialState, msg.Type)
	assert.EqualValues(t, 40, msg.Data["width"])

	// бинарная команда отвечает бинарным результатом
	cmd, err := msgpack.Marshal(ClientMessage{Action: ActionSalvageTower, Payload: CommandPayload{TowerID: 999}})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, cmd))
	for {
		_, payload, err = conn.ReadMessage()
		require.NoError(t, err)
		var res struct {
			Type string        `msgpack:"type"`
			Data CommandResult `msgpack:"data"`
		}
		require.NoError(t, msgpack.Unmarshal(payload, &res))
		if res.Type == TypeCommandResult {
			assert.Equal(t, CommandResult{Action: ActionSalvageTower, Reason: ReasonRejected}, res.Data)
			break
		}
	}
}

func TestRejectsBadRequests(t *testing.T) {
	srv := newServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(websocketURL(t, srv.URL, "bob", url.Values{"format": {"xml"}}), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	_, resp, err = websocket.DefaultDialer.Dial(websocketURL(t, srv.URL, "bob", url.Values{"level": {"moon"}, "seed": {"x"}}), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestMissingCatalogIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(NewHandler(HandlerConfig{}).Routes())
	t.Cleanup(srv.Close)

	_, resp, err := websocket.DefaultDialer.Dial(websocketURL(t, srv.URL, "carol", nil), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	resp.Body.Close()
}
