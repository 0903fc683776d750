// Package protocol defines the WebSocket message types exchanged between the
// viewer server and its browser/terminal clients.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/armlab/go-armview/pkg/render"
	"github.com/armlab/go-armview/pkg/state"
)

// MessageType identifies the type of WebSocket message.
type MessageType string

const (
	// Server → client messages
	TypeScene MessageType = "scene" // Rendered frame geometry
	TypeState MessageType = "state" // Latest confirmed robot state

	// Client → server messages
	TypeInput MessageType = "input" // Camera input event

	// Bidirectional
	TypePing MessageType = "ping"
	TypePong MessageType = "pong"
)

// Message is the base wrapper for all WebSocket messages.
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp.
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct.
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message.
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes.
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	return &msg, nil
}

// =============================================================================
// Server → client payloads
// =============================================================================

// SceneData carries one rendered frame. The frame struct already has JSON
// tags shaped for direct drawing on a 2D canvas.
type SceneData struct {
	Frame render.Frame `json:"frame"`
}

// StateData mirrors the latest confirmed RobotState for status displays.
type StateData struct {
	Position      [3]float64 `json:"position"`
	MotorsEnabled bool       `json:"motors_enabled"`
	ToolEnabled   bool       `json:"tool_enabled"`
	ControlMode   string     `json:"control_mode"`
	CoordMode     string     `json:"coord_mode"`
}

// NewStateData converts a RobotState into its wire form.
func NewStateData(s state.RobotState) StateData {
	return StateData{
		Position:      [3]float64{s.Position.X, s.Position.Y, s.Position.Z},
		MotorsEnabled: s.MotorsEnabled,
		ToolEnabled:   s.ToolEnabled,
		ControlMode:   s.Control.String(),
		CoordMode:     s.Coord.String(),
	}
}

// =============================================================================
// Client → server payloads
// =============================================================================

// Input kinds accepted from clients.
const (
	InputDrag   = "drag"
	InputScroll = "scroll"
)

// InputData is a camera input event from a client. Drag carries DX/DY,
// scroll carries Delta.
type InputData struct {
	Kind  string  `json:"kind"`
	DX    float64 `json:"dx,omitempty"`
	DY    float64 `json:"dy,omitempty"`
	Delta float64 `json:"delta,omitempty"`
}

// Event converts the wire payload into a render loop input event.
// Unknown kinds return ok=false and are ignored by the server.
func (d InputData) Event() (render.Input, bool) {
	switch d.Kind {
	case InputDrag:
		return render.Input{Kind: render.InputDrag, DX: d.DX, DY: d.DY}, true
	case InputScroll:
		return render.Input{Kind: render.InputScroll, Delta: d.Delta}, true
	default:
		return render.Input{}, false
	}
}
