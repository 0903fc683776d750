// Package web serves the browser viewer: static assets, a status API, and
// the websocket endpoint that streams rendered frames and accepts camera
// input events.
package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/armlab/go-armview/internal/log"
	"github.com/armlab/go-armview/pkg/hub"
	"github.com/armlab/go-armview/pkg/protocol"
	"github.com/armlab/go-armview/pkg/render"
	"github.com/armlab/go-armview/pkg/state"
)

// Server is the viewer web server. It implements render.Presenter so the
// render loop can hand it finished frames directly.
type Server struct {
	app  *fiber.App
	port string

	mirror *state.Mirror
	input  chan<- render.Input

	sceneHub *hub.Hub
}

// NewServer creates the viewer server. Frames broadcast to connected
// clients; input events received from clients feed the render loop's
// input channel.
func NewServer(port string, mirror *state.Mirror, input chan<- render.Input) *Server {
	s := &Server{
		port:     port,
		mirror:   mirror,
		input:    input,
		sceneHub: hub.New("scene"),
	}
	s.sceneHub.OnMessage(s.handleClientMessage)

	app := fiber.New(fiber.Config{
		AppName:               "armview",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// Static files
	app.Static("/", "./web")

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/scene", websocket.New(s.handleSceneWS))

	s.app = app
	return s
}

// Start starts the web server
func (s *Server) Start() error {
	log.Component("web").Info("viewer listening", "addr", "http://localhost:"+s.port)

	go s.sceneHub.Run()

	return s.app.Listen(":" + s.port)
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Component("web").Error("web server error", "error", err)
		}
	}()
}

// Present broadcasts a rendered frame to all connected clients.
// Called from the render loop goroutine once per tick.
func (s *Server) Present(frame render.Frame) {
	msg, err := protocol.NewMessage(protocol.TypeScene, protocol.SceneData{Frame: frame})
	if err != nil {
		return
	}
	data, err := msg.Bytes()
	if err != nil {
		return
	}
	s.sceneHub.Broadcast(hub.NewJSONMessage(data))
}

// PublishState broadcasts the latest confirmed robot state.
func (s *Server) PublishState(rs state.RobotState) {
	msg, err := protocol.NewMessage(protocol.TypeState, protocol.NewStateData(rs))
	if err != nil {
		return
	}
	data, err := msg.Bytes()
	if err != nil {
		return
	}
	s.sceneHub.Broadcast(hub.NewJSONMessage(data))
}

// ClientCount returns the number of connected viewer clients.
func (s *Server) ClientCount() int {
	return s.sceneHub.ClientCount()
}

// Shutdown gracefully stops the web server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
