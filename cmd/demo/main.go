// Command demo runs the viewer against an in-memory robot controller and
// plays a scripted movement sequence, so the browser client can be tried
// without a robot or RPC server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

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
	port := flag.String("port", "8090", "Viewer HTTP port")
	stepDelay := flag.Duration("step-delay", 2*time.Second, "Pause between scripted moves")
	flag.Parse()

	cfg := config.Default()
	cfg.Server.Port = *port
	log.Init(cfg.Log.Level)
	logger := log.Component("demo")

	arm := kinematics.Arm{
		BaseHeight:  cfg.Arm.BaseHeight,
		LowerLen:    cfg.Arm.LowerLen,
		UpperLen:    cfg.Arm.UpperLen,
		EffectorLen: cfg.Arm.EffectorLen,
	}

	client := rpcclient.NewWithCaller(newMemController(), rpcclient.Credentials{User: "demo", Pass: "demo"})

	bridge := state.NewBridge()
	mirror := state.NewMirror(bridge)

	const degToRad = math.Pi / 180
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
		cancel()
	}()

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

	server.StartAsync()
	go func() {
		_ = loop.Run(ctx)
	}()

	fmt.Printf("demo viewer on http://localhost:%s - Ctrl-C to stop\n", cfg.Server.Port)
	runScript(ctx, commander, *stepDelay, logger)

	<-ctx.Done()
	_ = server.Shutdown()
}

// runScript drives the scripted sequence, looping until cancelled.
func runScript(ctx context.Context, cmd *control.Commander, delay time.Duration, logger *slog.Logger) {
	steps := []struct {
		name string
		run  func() error
	}{
		{"connect", cmd.Connect},
		{"motors on", func() error { return cmd.SetMotors(true) }},
		{"move (5, 8, 5)", func() error { return cmd.MoveDefaultSpeed(5, 8, 5) }},
		{"move (-3, 10, 8)", func() error { return cmd.MoveDefaultSpeed(-3, 10, 8) }},
		{"tool on", func() error { return cmd.SetTool(true) }},
		{"tool off", func() error { return cmd.SetTool(false) }},
		{"home", cmd.Home},
	}

	go func() {
		for {
			for _, step := range steps {
				select {
				case <-ctx.Done():
					return
				case <-time.After(delay):
				}
				logger.Info("script step", "step", step.name)
				if err := step.run(); err != nil {
					logger.Error("script step failed", "step", step.name, "error", err)
				}
			}
		}
	}()
}

// memController is an in-memory stand-in for the robot controller's
// XML-RPC surface. It accepts everything and tracks just enough state to
// answer getStatus.
type memController struct {
	mu        sync.Mutex
	connected bool
	motors    bool
	effector  bool
	absolute  bool
	x, y, z   float64
}

func newMemController() *memController {
	return &memController{absolute: true}
}

func (m *memController) Call(method string, args interface{}, reply interface{}) error {
	params, _ := args.([]interface{})

	m.mu.Lock()
	defer m.mu.Unlock()

	switch method {
	case "robot.authenticate":
		*(reply.(*rpcclient.AuthResult)) = rpcclient.AuthResult{Authenticated: true, Role: rpcclient.RoleAdmin}
		return nil
	case "robot.connect":
		m.connected = true
	case "robot.disconnect":
		m.connected = false
		m.motors = false
	case "robot.enableMotors":
		m.motors = true
	case "robot.disableMotors":
		m.motors = false
	case "robot.setEffector":
		m.effector = params[2].(bool)
	case "robot.setCoordinateMode":
		m.absolute = params[2].(bool)
	case "robot.move", "robot.moveDefaultSpeed":
		m.x = params[2].(float64)
		m.y = params[3].(float64)
		m.z = params[4].(float64)
	case "robot.getStatus":
		mode := "relative"
		if m.absolute {
			mode = "absolute"
		}
		*(reply.(*rpcclient.Status)) = rpcclient.Status{
			Connected:      m.connected,
			MotorsEnabled:  m.motors,
			CoordinateMode: mode,
			ActivityState:  "idle",
			Position:       fmt.Sprintf("X:%.2f Y:%.2f Z:%.2f", m.x, m.y, m.z),
		}
		return nil
	default:
		return fmt.Errorf("unknown method %s", method)
	}

	if ok, isBool := reply.(*bool); isBool {
		*ok = true
	}
	return nil
}
