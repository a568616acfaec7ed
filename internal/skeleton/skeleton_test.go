package skeleton

import (
	"errors"
	"testing"
)

func TestSelectSubject(t *testing.T) {
	hand := Point3D{X: 10, Y: 20, Z: 1000}

	tests := []struct {
		name     string
		subjects []Subject
		wantOK   bool
		wantX    float64
	}{
		{
			name:     "empty list",
			subjects: nil,
			wantOK:   false,
		},
		{
			name: "no tracked subjects",
			subjects: []Subject{
				{TrackingState: NotTracked},
				{TrackingState: PositionOnly},
			},
			wantOK: false,
		},
		{
			name: "first tracked wins by slot order",
			subjects: []Subject{
				{TrackingState: NotTracked},
				HandSubject(hand, Point3D{X: 1}),
				HandSubject(hand, Point3D{X: 2}),
			},
			wantOK: true,
			wantX:  1,
		},
		{
			name: "position only is skipped",
			subjects: []Subject{
				{TrackingState: PositionOnly, Joints: map[JointType]Point3D{HandRight: {X: 9}}},
				{TrackingState: NotTracked},
				{TrackingState: NotTracked},
				{TrackingState: NotTracked},
				{TrackingState: NotTracked},
				HandSubject(hand, Point3D{X: 6}),
			},
			wantOK: true,
			wantX:  6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectSubject(tt.subjects)
			if ok != tt.wantOK {
				t.Fatalf("SelectSubject() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				if got != nil {
					t.Errorf("expected nil subject, got %+v", got)
				}
				return
			}
			right, _ := got.Joint(HandRight)
			if right.X != tt.wantX {
				t.Errorf("selected subject right hand X = %v, want %v", right.X, tt.wantX)
			}
		})
	}
}

func TestSelectSubject_ReturnsSlotPointer(t *testing.T) {
	subjects := []Subject{{TrackingState: NotTracked}, HandSubject(Point3D{}, Point3D{})}

	got, ok := SelectSubject(subjects)
	if !ok {
		t.Fatal("expected a tracked subject")
	}
	if got != &subjects[1] {
		t.Error("expected pointer into the subject slice")
	}
}

func TestSelectFromFrame(t *testing.T) {
	t.Run("nil frame", func(t *testing.T) {
		if _, ok := SelectFromFrame(nil); ok {
			t.Error("expected no subject for nil frame")
		}
	})

	t.Run("skeleton unavailable", func(t *testing.T) {
		f := RightHandFrame(100, 100)
		f.NoSkeleton = true
		if _, ok := SelectFromFrame(f); ok {
			t.Error("expected no subject when skeleton data is unavailable")
		}
	})

	t.Run("tracked subject", func(t *testing.T) {
		f := RightHandFrame(100, 120)
		s, ok := SelectFromFrame(f)
		if !ok {
			t.Fatal("expected a subject")
		}
		right, ok := s.Joint(HandRight)
		if !ok || right.X != 100 || right.Y != 120 {
			t.Errorf("right hand = %+v (ok=%v), want (100,120)", right, ok)
		}
	})
}

func TestSubject_Joint(t *testing.T) {
	var nilSubject *Subject
	if _, ok := nilSubject.Joint(HandRight); ok {
		t.Error("nil subject should have no joints")
	}

	s := Subject{TrackingState: Tracked}
	if _, ok := s.Joint(HandLeft); ok {
		t.Error("subject without joint map should have no joints")
	}
}

func TestTrackingState_String(t *testing.T) {
	cases := map[TrackingState]string{
		Tracked:      "tracked",
		PositionOnly: "position_only",
		NotTracked:   "not_tracked",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", state, got, want)
		}
	}
}

func TestPixelDepthMap(t *testing.T) {
	got := PixelDepthMap{}.MapSkeletonPoint(Point3D{X: 10.4, Y: 19.6, Z: 1200})
	if got.X != 10 || got.Y != 20 || got.Depth != 1200 {
		t.Errorf("MapSkeletonPoint() = %+v, want {10 20 1200}", got)
	}
}

func TestMockSource(t *testing.T) {
	t.Run("emit before start fails", func(t *testing.T) {
		src := NewMockSource()
		if err := src.Emit(RightHandFrame(0, 0)); !errors.Is(err, ErrSourceStopped) {
			t.Errorf("Emit() error = %v, want ErrSourceStopped", err)
		}
	})

	t.Run("delivers frames to handler", func(t *testing.T) {
		src := NewMockSource()
		var got []Frame
		if err := src.Start(func(f Frame) { got = append(got, f) }); err != nil {
			t.Fatalf("Start() error = %v", err)
		}

		f := RightHandFrame(1, 2)
		if err := src.Emit(f); err != nil {
			t.Fatalf("Emit() error = %v", err)
		}
		if len(got) != 1 || got[0] != f {
			t.Errorf("handler received %v, want [%v]", got, f)
		}

		src.Stop()
		if src.Running() {
			t.Error("source should not be running after Stop")
		}
		if err := src.Emit(f); !errors.Is(err, ErrSourceStopped) {
			t.Errorf("Emit() after Stop error = %v, want ErrSourceStopped", err)
		}
	})

	t.Run("start error", func(t *testing.T) {
		src := NewMockSource()
		want := errors.New("sensor not found")
		src.SetStartError(want)
		if err := src.Start(func(Frame) {}); err != want {
			t.Errorf("Start() error = %v, want %v", err, want)
		}
	})

	t.Run("implements Source interface", func(t *testing.T) {
		var _ Source = (*MockSource)(nil)
		var _ Frame = (*MockFrame)(nil)
	})
}
