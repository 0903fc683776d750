package state

import (
	"sync"
	"testing"

	"github.com/golang/geo/r3"
)

func TestRobotStateString(t *testing.T) {
	s := RobotState{
		Position:      r3.Vector{X: 1.5, Y: -2, Z: 0.125},
		MotorsEnabled: true,
		Control:       ControlManual,
		Coord:         CoordAbsolute,
	}
	got := s.String()
	want := "X:1.50 Y:-2.00 Z:0.12"
	if len(got) < len(want) || got[:len(want)] != want {
		t.Errorf("String() = %q, want prefix %q", got, want)
	}
}

func TestParseCoordMode(t *testing.T) {
	cases := []struct {
		in      string
		want    CoordMode
		wantErr bool
	}{
		{"absolute", CoordAbsolute, false},
		{"relative", CoordRelative, false},
		{"sideways", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseCoordMode(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseCoordMode(%q) err = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if err == nil && got != tc.want {
			t.Errorf("ParseCoordMode(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestMirrorCommit(t *testing.T) {
	m := NewMirror(nil)

	first := RobotState{Position: r3.Vector{X: 1}}
	second := RobotState{Position: r3.Vector{X: 2}, MotorsEnabled: true}

	m.Commit(first)
	m.Commit(second)

	if got := m.Current(); got != second {
		t.Errorf("Current() = %+v, want %+v", got, second)
	}
	if got := m.Previous(); got != first {
		t.Errorf("Previous() = %+v, want %+v", got, first)
	}
}

func TestMirrorCommit_PublishesToBridge(t *testing.T) {
	b := NewBridge()
	m := NewMirror(b)

	s := RobotState{Position: r3.Vector{X: 3, Y: 4, Z: 5}}
	m.Commit(s)

	tgt, ok := b.TryConsume()
	if !ok {
		t.Fatal("TryConsume() ok = false after commit")
	}
	if tgt.State != s {
		t.Errorf("consumed state = %+v, want %+v", tgt.State, s)
	}
}

func TestBridge_EmptyConsume(t *testing.T) {
	b := NewBridge()
	if _, ok := b.TryConsume(); ok {
		t.Error("TryConsume() ok = true on empty bridge")
	}
}

func TestBridge_ConsumeOnlyOnce(t *testing.T) {
	b := NewBridge()
	b.Publish(RobotState{Position: r3.Vector{X: 1}})

	if _, ok := b.TryConsume(); !ok {
		t.Fatal("first TryConsume() ok = false")
	}
	if _, ok := b.TryConsume(); ok {
		t.Error("second TryConsume() ok = true, want stale rejection")
	}
}

func TestBridge_LatestWins(t *testing.T) {
	b := NewBridge()
	b.Publish(RobotState{Position: r3.Vector{X: 1}})
	b.Publish(RobotState{Position: r3.Vector{X: 2}})
	b.Publish(RobotState{Position: r3.Vector{X: 3}})

	tgt, ok := b.TryConsume()
	if !ok {
		t.Fatal("TryConsume() ok = false")
	}
	if tgt.State.Position.X != 3 {
		t.Errorf("consumed X = %v, want 3 (intermediate targets skipped)", tgt.State.Position.X)
	}
}

func TestBridge_SeqMonotonic(t *testing.T) {
	b := NewBridge()
	var prev uint64
	for i := 0; i < 100; i++ {
		seq := b.Publish(RobotState{})
		if seq <= prev {
			t.Fatalf("Publish seq = %d after %d, want strictly increasing", seq, prev)
		}
		prev = seq
	}
}

// TestBridge_ConcurrentPublishConsume exercises the single-writer
// single-reader contract under the race detector.
func TestBridge_ConcurrentPublishConsume(t *testing.T) {
	b := NewBridge()
	const n = 1000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= n; i++ {
			b.Publish(RobotState{Position: r3.Vector{X: float64(i)}})
		}
	}()

	var lastSeq uint64
	var lastX float64
	for {
		if tgt, ok := b.TryConsume(); ok {
			if tgt.Seq <= lastSeq {
				t.Fatalf("consumed seq %d after %d", tgt.Seq, lastSeq)
			}
			if tgt.State.Position.X < lastX {
				t.Fatalf("consumed X %v after %v, went backwards", tgt.State.Position.X, lastX)
			}
			lastSeq = tgt.Seq
			lastX = tgt.State.Position.X
			if tgt.Seq == n {
				break
			}
		}
		if lastSeq == n {
			break
		}
	}
	wg.Wait()

	if lastX != n {
		t.Errorf("final consumed X = %v, want %v", lastX, float64(n))
	}
}
