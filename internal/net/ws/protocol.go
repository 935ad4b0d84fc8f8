package ws

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"go-tower-director/internal/types"
)

// Типы сообщений сервера.
const (
	TypeInitialState  = "initial_state"
	TypeGameTick      = "game_tick"
	TypeCommandResult = "command_result"
	TypeError         = "error"
)

// Действия клиента.
const (
	ActionPlaceTower      = "place_tower"
	ActionUpgradeTower    = "upgrade_tower"
	ActionSalvageTower    = "salvage_tower"
	ActionSetTowerPersona = "set_tower_persona"
)

// Format is the wire encoding chosen per connection with ?format=.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat accepts "", "json" and "msgpack".
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", string(FormatJSON):
		return FormatJSON, nil
	case string(FormatMsgpack):
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("ws: unknown format %q", s)
}

func (f Format) Marshal(v any) ([]byte, error) {
	if f == FormatMsgpack {
		return msgpack.Marshal(v)
	}
	return json.Marshal(v)
}

func (f Format) Unmarshal(data []byte, v any) error {
	if f == FormatMsgpack {
		return msgpack.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

// MessageType is the websocket frame type carrying this format.
func (f Format) MessageType() int {
	if f == FormatMsgpack {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}

// ServerMessage is the envelope of everything the server sends.
type ServerMessage struct {
	Type string `json:"type" msgpack:"type"`
	Data any    `json:"data" msgpack:"data"`
}

// ClientMessage is one command from the client.
type ClientMessage struct {
	Action  string         `json:"action" msgpack:"action"`
	Payload CommandPayload `json:"payload" msgpack:"payload"`
}

// CommandPayload объединяет поля всех действий; каждое читает свои.
type CommandPayload struct {
	TowerTypeID  string         `json:"tower_type_id,omitempty" msgpack:"tower_type_id,omitempty"`
	TileX        int            `json:"tile_x" msgpack:"tile_x"`
	TileY        int            `json:"tile_y" msgpack:"tile_y"`
	TowerID      types.EntityID `json:"tower_id,omitempty" msgpack:"tower_id,omitempty"`
	UpgradeID    string         `json:"upgrade_id,omitempty" msgpack:"upgrade_id,omitempty"`
	NewPersonaID string         `json:"new_persona_id,omitempty" msgpack:"new_persona_id,omitempty"`
}

// CommandResult answers every well-formed command.
type CommandResult struct {
	Action string `json:"action" msgpack:"action"`
	OK     bool   `json:"ok" msgpack:"ok"`
	Reason string `json:"reason,omitempty" msgpack:"reason,omitempty"`
}

// ErrorMessage reports a message the server could not act on.
type ErrorMessage struct {
	Message string `json:"message" msgpack:"message"`
}

// Причины отказа в command_result.
const (
	ReasonRejected      = "rejected"
	ReasonUnknownAction = "unknown_action"
	ReasonGameOver      = "game_over"
)
