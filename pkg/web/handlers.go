package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/armlab/go-armview/internal/log"
	"github.com/armlab/go-armview/pkg/hub"
	"github.com/armlab/go-armview/pkg/protocol"
)

// handleStatus returns the latest confirmed robot state and viewer count.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"state":   protocol.NewStateData(s.mirror.Current()),
		"viewers": s.sceneHub.ClientCount(),
	})
}

// handleSceneWS handles a viewer websocket connection. The hub owns the
// connection lifecycle; this blocks until the client disconnects.
func (s *Server) handleSceneWS(c *websocket.Conn) {
	client := hub.NewClient(s.sceneHub, c)
	client.Run()
}

// handleClientMessage parses messages received from viewer clients.
// Only input events are expected; everything else is ignored.
func (s *Server) handleClientMessage(clientID string, data []byte) {
	msg, err := protocol.ParseMessage(data)
	if err != nil {
		log.Component("web").Debug("ignoring malformed client message", "client_id", clientID, "error", err)
		return
	}
	if msg.Type != protocol.TypeInput {
		return
	}

	var in protocol.InputData
	if err := msg.ParseData(&in); err != nil {
		log.Component("web").Debug("ignoring malformed input payload", "client_id", clientID, "error", err)
		return
	}

	ev, ok := in.Event()
	if !ok {
		return
	}

	// Never block the client read pump; drop input when the loop is behind.
	select {
	case s.input <- ev:
	default:
	}
}
