// Package render turns the interpolated pose plus the latest confirmed
// robot state into per-frame screen geometry, and runs the fixed-cadence
// loop that produces those frames. Nothing here touches the network: frames
// are handed to a Presenter and rendering never waits for command traffic.
package render

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/armlab/go-armview/pkg/kinematics"
)

// Ground grid and axis extents, in world units.
const (
	gridSize    = 20
	gridSpacing = 1
	axisLength  = 15
)

// Point is a projected screen position in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Segment is one drawable line with its color and stroke width.
type Segment struct {
	Name  string  `json:"name,omitempty"`
	From  Point   `json:"from"`
	To    Point   `json:"to"`
	Color Color   `json:"color"`
	Width float64 `json:"width"`
}

// Marker is a drawable point of interest (joints, effector tip, target).
type Marker struct {
	Name  string  `json:"name"`
	At    Point   `json:"at"`
	Color Color   `json:"color"`
	Size  float64 `json:"size"`
}

// Frame is everything the presentation layer needs to draw one frame.
type Frame struct {
	Seq       uint64     `json:"seq"`
	TimeMs    int64      `json:"ts"`
	Width     int        `json:"w"`
	Height    int        `json:"h"`
	Segments  []Segment  `json:"segments"`
	Markers   []Marker   `json:"markers"`
	Motors    bool       `json:"motors"`
	Tool      bool       `json:"tool"`
	Animating bool       `json:"animating"`
	Target    [3]float64 `json:"target"`
}

// Scene projects world geometry through the orbit camera into a fixed
// viewport. It is stateless apart from its configuration.
type Scene struct {
	arm     kinematics.Arm
	palette Palette

	width  int
	height int
	focal  float64 // pixels, from the vertical field of view

	center r3.Vector // orbit/look-at point
}

// NewScene creates a scene for the given arm and viewport. fov is the
// vertical field of view in radians.
func NewScene(arm kinematics.Arm, width, height int, fov float64) *Scene {
	return &Scene{
		arm:     arm,
		palette: DefaultPalette(),
		width:   width,
		height:  height,
		focal:   float64(height) / 2 / math.Tan(fov/2),
		// Look at the arm's midriff so the whole skeleton stays framed.
		center: r3.Vector{X: 0, Y: arm.BaseHeight + arm.LowerLen/2, Z: 0},
	}
}

// Palette returns the active color palette.
func (s *Scene) Palette() Palette {
	return s.palette
}

// projector captures the camera basis for one frame.
type projector struct {
	eye            r3.Vector
	right, up, fwd r3.Vector
	focal          float64
	halfW, halfH   float64
}

func (s *Scene) projectorFor(cam *Camera) projector {
	eye := cam.Eye(s.center)
	fwd := s.center.Sub(eye).Normalize()

	worldUp := r3.Vector{X: 0, Y: 1, Z: 0}
	right := fwd.Cross(worldUp)
	if right.Norm() < 1e-9 {
		// Looking straight up or down; pick an arbitrary horizontal right.
		right = r3.Vector{X: 1, Y: 0, Z: 0}
	} else {
		right = right.Normalize()
	}
	up := right.Cross(fwd)

	return projector{
		eye:   eye,
		right: right,
		up:    up,
		fwd:   fwd,
		focal: s.focal,
		halfW: float64(s.width) / 2,
		halfH: float64(s.height) / 2,
	}
}

// project maps a world point to screen pixels. ok is false for points at or
// behind the camera plane.
func (p projector) project(w r3.Vector) (Point, bool) {
	d := w.Sub(p.eye)
	depth := d.Dot(p.fwd)
	if depth < 1e-6 {
		return Point{}, false
	}
	return Point{
		X: p.halfW + p.focal*d.Dot(p.right)/depth,
		Y: p.halfH - p.focal*d.Dot(p.up)/depth,
	}, true
}

func (p projector) segment(name string, from, to r3.Vector, c Color, width float64) (Segment, bool) {
	a, ok1 := p.project(from)
	b, ok2 := p.project(to)
	if !ok1 || !ok2 {
		return Segment{}, false
	}
	return Segment{Name: name, From: a, To: b, Color: c, Width: width}, true
}

// Compose builds the frame for one tick: grid, axes, arm skeleton colored by
// the confirmed robot state, joint markers, and a target indicator while an
// animation is in flight.
func (s *Scene) Compose(pose kinematics.Pose, motors, tool bool, animating bool,
	target r3.Vector, cam *Camera, seq uint64, nowMs int64) Frame {

	pr := s.projectorFor(cam)

	frame := Frame{
		Seq:       seq,
		TimeMs:    nowMs,
		Width:     s.width,
		Height:    s.height,
		Motors:    motors,
		Tool:      tool,
		Animating: animating,
		Target:    [3]float64{target.X, target.Y, target.Z},
	}
	frame.Segments = make([]Segment, 0, 128)
	frame.Markers = make([]Marker, 0, 8)

	s.composeGround(&frame, pr)
	s.composeAxes(&frame, pr)
	s.composeArm(&frame, pr, pose, motors, tool)

	if animating {
		if at, ok := pr.project(target); ok {
			frame.Markers = append(frame.Markers, Marker{
				Name: "target", At: at, Color: s.palette.Target, Size: 5,
			})
		}
	}

	return frame
}

func (s *Scene) composeGround(f *Frame, pr projector) {
	add := func(from, to r3.Vector, c Color, w float64) {
		if seg, ok := pr.segment("", from, to, c, w); ok {
			f.Segments = append(f.Segments, seg)
		}
	}

	for i := -gridSize; i <= gridSize; i += gridSpacing {
		c := s.palette.Grid
		w := 1.0
		if i == 0 {
			c = s.palette.GridMain
			w = 2.0
		}
		fi := float64(i)
		add(r3.Vector{X: fi, Z: -gridSize}, r3.Vector{X: fi, Z: gridSize}, c, w)
		add(r3.Vector{X: -gridSize, Z: fi}, r3.Vector{X: gridSize, Z: fi}, c, w)
	}
}

func (s *Scene) composeAxes(f *Frame, pr projector) {
	origin := r3.Vector{}
	axes := []struct {
		name string
		end  r3.Vector
		c    Color
	}{
		{"axis-x", r3.Vector{X: axisLength}, s.palette.AxisX},
		{"axis-y", r3.Vector{Y: axisLength}, s.palette.AxisY},
		{"axis-z", r3.Vector{Z: axisLength}, s.palette.AxisZ},
	}
	for _, a := range axes {
		if seg, ok := pr.segment(a.name, origin, a.end, a.c, 3); ok {
			f.Segments = append(f.Segments, seg)
		}
	}
}

func (s *Scene) composeArm(f *Frame, pr projector, pose kinematics.Pose, motors, tool bool) {
	geo := s.arm.Forward(pose)

	parts := []struct {
		name     string
		from, to r3.Vector
		c        Color
		w        float64
	}{
		{"base", geo.BaseBottom, geo.BaseTop, s.palette.Base, 10},
		{"lower-arm", geo.BaseTop, geo.Elbow, s.palette.Lower(motors), 8},
		{"upper-arm", geo.Elbow, geo.Wrist, s.palette.Upper(motors), 6},
		{"effector", geo.Wrist, geo.Tip, s.palette.ToolBody(tool), 4},
	}
	for _, p := range parts {
		if seg, ok := pr.segment(p.name, p.from, p.to, p.c, p.w); ok {
			f.Segments = append(f.Segments, seg)
		}
	}

	joints := []struct {
		name string
		at   r3.Vector
		c    Color
		size float64
	}{
		{"shoulder", geo.BaseTop, s.palette.Base, 5},
		{"elbow", geo.Elbow, s.palette.Base, 4},
		{"wrist", geo.Wrist, s.palette.Base, 3},
		{"tip", geo.Tip, s.palette.ToolTip(tool), 5},
	}
	for _, j := range joints {
		if at, ok := pr.project(j.at); ok {
			f.Markers = append(f.Markers, Marker{Name: j.name, At: at, Color: j.c, Size: j.size})
		}
	}
}
