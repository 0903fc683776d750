package render

import (
	"context"
	"time"

	"github.com/golang/geo/r3"

	"github.com/armlab/go-armview/internal/log"
	"github.com/armlab/go-armview/pkg/animation"
	"github.com/armlab/go-armview/pkg/kinematics"
	"github.com/armlab/go-armview/pkg/state"
)

// InputKind discriminates camera input events.
type InputKind int

const (
	// InputDrag orbits the camera.
	InputDrag InputKind = iota
	// InputScroll zooms the camera.
	InputScroll
)

// Input is a camera input event from the presentation layer. Events are
// queued and applied on the render goroutine, so the camera stays
// single-owner.
type Input struct {
	Kind  InputKind
	DX    float64
	DY    float64
	Delta float64
}

// Presenter receives each composed frame. Present must not block: a slow
// presenter drops frames, it never stalls the loop.
type Presenter interface {
	Present(Frame)
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(Frame)

// Present implements Presenter.
func (f PresenterFunc) Present(frame Frame) { f(frame) }

// Loop runs the fixed-cadence render cycle: consume the newest confirmed
// state from the bridge, retarget the animation, interpolate, compose, and
// present. Its cadence is independent of command arrival rate and it never
// performs network I/O.
type Loop struct {
	bridge    *state.Bridge
	arm       kinematics.Arm
	sched     *animation.Scheduler
	camera    *Camera
	scene     *Scene
	presenter Presenter

	fps   int
	input chan Input

	// Render-goroutine state: latest confirmed robot state and its
	// sequence number, kept for coloring and the target indicator.
	latest    state.RobotState
	latestSeq uint64

	frames uint64
}

// NewLoop assembles a render loop. The scheduler starts at the solved pose
// of the arm's home position.
func NewLoop(bridge *state.Bridge, arm kinematics.Arm, cam *Camera, scene *Scene,
	presenter Presenter, fps int, animDuration time.Duration, animEpsilon float64) *Loop {

	home := arm.Home()
	return &Loop{
		bridge:    bridge,
		arm:       arm,
		sched:     animation.NewScheduler(arm.Solve(home), animDuration, animEpsilon),
		camera:    cam,
		scene:     scene,
		presenter: presenter,
		fps:       fps,
		input:     make(chan Input, 64),
		latest:    state.RobotState{Position: home},
	}
}

// Input returns the channel the presentation layer feeds camera events into.
// Senders must not block: use a non-blocking send and drop on overflow.
func (l *Loop) Input() chan<- Input {
	return l.input
}

// Run drives the loop at the configured frame rate until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(l.fps))
	defer ticker.Stop()

	logger := log.Component("render")
	logger.Info("render loop started", "fps", l.fps)

	for {
		select {
		case <-ctx.Done():
			logger.Info("render loop stopped", "frames", l.frames)
			return ctx.Err()
		case now := <-ticker.C:
			l.presenter.Present(l.step(now))
		}
	}
}

// step executes one frame cycle at the given time and returns the composed
// frame. Split out from Run so tests can tick the loop deterministically.
func (l *Loop) step(now time.Time) Frame {
	l.drainInput()

	if t, ok := l.bridge.TryConsume(); ok {
		l.latest = t.State
		l.latestSeq = t.Seq
		l.sched.Retarget(l.arm.Solve(t.State.Position), now)
	}

	pose := l.sched.PoseAt(now)
	l.frames++

	return l.scene.Compose(
		pose,
		l.latest.MotorsEnabled,
		l.latest.ToolEnabled,
		l.sched.Animating(),
		l.targetPosition(),
		l.camera,
		l.latestSeq,
		now.UnixMilli(),
	)
}

// targetPosition is the clamped position the arm is heading toward, used for
// the in-flight target indicator.
func (l *Loop) targetPosition() r3.Vector {
	return l.arm.ClampToReach(l.latest.Position)
}

// drainInput applies all queued camera events. Input only ever mutates the
// camera; robot state and the transport are unreachable from here.
func (l *Loop) drainInput() {
	for {
		select {
		case ev := <-l.input:
			switch ev.Kind {
			case InputDrag:
				l.camera.Drag(ev.DX, ev.DY)
			case InputScroll:
				l.camera.Scroll(ev.Delta)
			}
		default:
			return
		}
	}
}
