// Package animation produces the pose to render each frame.
//
// The scheduler owns at most one in-flight interpolation between two poses.
// Duration is fixed regardless of distance, and easing is the classic
// smooth-step ease-in-out.
package animation

import (
	"time"

	"github.com/armlab/go-armview/pkg/kinematics"
)

// DefaultDuration is the fixed animation length used when none is
// configured.
const DefaultDuration = 500 * time.Millisecond

// DefaultEpsilon is the angle-space threshold below which a new target is
// considered identical to the currently rendered pose.
const DefaultEpsilon = 1e-3

// task is one in-flight interpolation. Owned exclusively by the Scheduler.
type task struct {
	start     kinematics.Pose
	target    kinematics.Pose
	startedAt time.Time
}

// Scheduler interpolates between known and target poses across frames.
// It is owned by the render goroutine and is not safe for concurrent use.
type Scheduler struct {
	duration time.Duration
	epsilon  float64

	current kinematics.Pose // last rendered pose
	active  *task
}

// NewScheduler creates a scheduler starting at the given pose.
func NewScheduler(start kinematics.Pose, duration time.Duration, epsilon float64) *Scheduler {
	if duration <= 0 {
		duration = DefaultDuration
	}
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	return &Scheduler{
		duration: duration,
		epsilon:  epsilon,
		current:  start,
	}
}

// Retarget starts a new interpolation toward target, unless target is within
// epsilon of the currently rendered pose. The new task always starts from the
// current interpolated pose, never from the previous task's target, so rapid
// successive commands cannot cause a visible jump.
func (s *Scheduler) Retarget(target kinematics.Pose, now time.Time) {
	from := s.PoseAt(now)
	if target.Sub(from).MaxAbs() <= s.epsilon {
		return
	}
	s.active = &task{
		start:     from,
		target:    target,
		startedAt: now,
	}
}

// PoseAt returns the pose to render at the given time. With no task active
// it returns the last rendered pose unchanged. When a task completes the
// rendered pose snaps exactly to its target, leaving no residual easing
// error.
func (s *Scheduler) PoseAt(now time.Time) kinematics.Pose {
	if s.active == nil {
		return s.current
	}

	t := now.Sub(s.active.startedAt).Seconds() / s.duration.Seconds()
	if t >= 1 {
		s.current = s.active.target
		s.active = nil
		return s.current
	}
	if t < 0 {
		t = 0
	}

	alpha := smoothstep(t)
	s.current = lerpPose(s.active.start, s.active.target, alpha)
	return s.current
}

// Animating reports whether an interpolation is in flight.
func (s *Scheduler) Animating() bool {
	return s.active != nil
}

// Target returns the pose currently being animated toward. When idle it is
// the last rendered pose.
func (s *Scheduler) Target() kinematics.Pose {
	if s.active != nil {
		return s.active.target
	}
	return s.current
}

// lerpPose interpolates each joint angle. Base yaw travels the shortest
// angular path so a target across the +-pi seam does not swing the long way
// around.
func lerpPose(a, b kinematics.Pose, t float64) kinematics.Pose {
	return kinematics.Pose{
		BaseYaw:  kinematics.WrapAngle(a.BaseYaw + kinematics.WrapAngle(b.BaseYaw-a.BaseYaw)*t),
		Shoulder: a.Shoulder + (b.Shoulder-a.Shoulder)*t,
		Elbow:    a.Elbow + (b.Elbow-a.Elbow)*t,
	}
}

// smoothstep provides monotonic ease-in-out on [0, 1].
func smoothstep(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}
