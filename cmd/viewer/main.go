// Command viewer runs the 3D arm viewer: it connects to the robot
// controller over XML-RPC, serves the browser client, and drives the
// render loop that streams frames to it. A console on stdin accepts
// robot commands.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/armlab/go-armview/internal/config"
	"github.com/armlab/go-armview/internal/log"
	"github.com/armlab/go-armview/pkg/control"
	"github.com/armlab/go-armview/pkg/kinematics"
	"github.com/armlab/go-armview/pkg/render"
	"github.com/armlab/go-armview/pkg/rpcclient"
	"github.com/armlab/go-armview/pkg/state"
	"github.com/armlab/go-armview/pkg/web"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	endpoint := flag.String("endpoint", "", "Robot controller XML-RPC endpoint (overrides config)")
	port := flag.String("port", "", "Viewer HTTP port (overrides config)")
	flag.Parse()

	// Optional .env for credentials during development
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *endpoint != "" {
		cfg.Robot.Endpoint = *endpoint
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	log.Init(cfg.Log.Level)
	logger := log.Component("viewer")

	user, pass := config.Credentials()
	if user == "" {
		fmt.Fprintln(os.Stderr, "ROBOT_USER and ROBOT_PASS must be set")
		os.Exit(1)
	}

	client, err := rpcclient.New(cfg.Robot.Endpoint,
		rpcclient.Credentials{User: user, Pass: pass}, cfg.Robot.RequestTimeout.Std())
	if err != nil {
		logger.Error("rpc client setup failed", "error", err)
		os.Exit(1)
	}

	arm := kinematics.Arm{
		BaseHeight:  cfg.Arm.BaseHeight,
		LowerLen:    cfg.Arm.LowerLen,
		UpperLen:    cfg.Arm.UpperLen,
		EffectorLen: cfg.Arm.EffectorLen,
	}

	bridge := state.NewBridge()
	mirror := state.NewMirror(bridge)

	cam := render.NewCamera(
		cfg.Camera.YawDeg*degToRad, cfg.Camera.PitchDeg*degToRad,
		cfg.Camera.Distance, cfg.Camera.MinDistance, cfg.Camera.MaxDistance,
		cfg.Camera.RotateSens*degToRad, cfg.Camera.ZoomSens,
	)
	scene := render.NewScene(arm, cfg.Render.Width, cfg.Render.Height, cfg.Render.FOVDeg*degToRad)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutting down")
		cancel()
	}()

	// The loop presents frames through the server and the server feeds
	// input back to the loop; a deferred presenter closure breaks the
	// construction cycle. The server is assigned before the loop runs.
	var server *web.Server
	loop := render.NewLoop(bridge, arm, cam, scene,
		render.PresenterFunc(func(f render.Frame) { server.Present(f) }),
		cfg.Render.FPS, cfg.Animation.Duration.Std(), cfg.Animation.Epsilon)
	server = web.NewServer(cfg.Server.Port, mirror, loop.Input())

	commander := control.NewCommander(client, mirror, arm, server)
	if err := commander.Login(); err != nil {
		logger.Error("login failed", "error", err)
		os.Exit(1)
	}
	logger.Info("authenticated", "user", user, "role", client.Role())

	server.StartAsync()
	go func() {
		_ = loop.Run(ctx)
	}()

	console := control.NewConsole(commander, os.Stdin, os.Stdout)
	if err := console.Run(); err != nil {
		logger.Error("console error", "error", err)
	}

	cancel()
	if err := server.Shutdown(); err != nil {
		logger.Warn("server shutdown", "error", err)
	}
	// Give the render loop a beat to log its exit.
	time.Sleep(50 * time.Millisecond)
}

const degToRad = math.Pi / 180
