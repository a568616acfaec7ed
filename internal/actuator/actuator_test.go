package actuator

import (
	"errors"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name          string
		in            ScreenPoint
		width, height int
		want          ScreenPoint
	}{
		{"inside", ScreenPoint{100, 200}, 1920, 1080, ScreenPoint{100, 200}},
		{"negative", ScreenPoint{-5, -1}, 1920, 1080, ScreenPoint{0, 0}},
		{"beyond right edge", ScreenPoint{1920, 500}, 1920, 1080, ScreenPoint{1919, 500}},
		{"beyond bottom edge", ScreenPoint{10, 2000}, 1920, 1080, ScreenPoint{10, 1079}},
		{"unknown bounds", ScreenPoint{5000, 5000}, 0, 0, ScreenPoint{5000, 5000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.in, tt.width, tt.height); got != tt.want {
				t.Errorf("Clamp(%v, %d, %d) = %v, want %v", tt.in, tt.width, tt.height, got, tt.want)
			}
		})
	}
}

func TestScreenPoint_String(t *testing.T) {
	if got := (ScreenPoint{X: 3, Y: 4}).String(); got != "(3,4)" {
		t.Errorf("String() = %q, want (3,4)", got)
	}
}

func TestRecorder(t *testing.T) {
	t.Run("records calls in order", func(t *testing.T) {
		r := NewRecorder()
		p := ScreenPoint{X: 1, Y: 2}

		r.MoveCursor(p)
		r.ButtonDown(p)
		r.ButtonUp(p)

		calls := r.Calls()
		want := []CallKind{CallMove, CallDown, CallUp}
		if len(calls) != len(want) {
			t.Fatalf("got %d calls, want %d", len(calls), len(want))
		}
		for i, c := range calls {
			if c.Kind != want[i] || c.Point != p {
				t.Errorf("call %d = %+v, want %s at %v", i, c, want[i], p)
			}
		}
		if r.Moves() != 1 {
			t.Errorf("Moves() = %d, want 1", r.Moves())
		}
		if len(r.Buttons()) != 2 {
			t.Errorf("Buttons() = %v, want 2 entries", r.Buttons())
		}
	})

	t.Run("fails configured kind but still records", func(t *testing.T) {
		r := NewRecorder()
		want := errors.New("no display")
		r.FailOn(CallDown, want)

		if err := r.ButtonDown(ScreenPoint{}); err != want {
			t.Errorf("ButtonDown() error = %v, want %v", err, want)
		}
		if err := r.ButtonUp(ScreenPoint{}); err != nil {
			t.Errorf("ButtonUp() error = %v, want nil", err)
		}
		if len(r.Calls()) != 2 {
			t.Errorf("expected both calls recorded, got %v", r.Calls())
		}

		r.FailOn(CallDown, nil)
		if err := r.ButtonDown(ScreenPoint{}); err != nil {
			t.Errorf("ButtonDown() after clearing error = %v", err)
		}
	})

	t.Run("reset", func(t *testing.T) {
		r := NewRecorder()
		r.MoveCursor(ScreenPoint{})
		r.Reset()
		if len(r.Calls()) != 0 {
			t.Errorf("expected no calls after Reset, got %v", r.Calls())
		}
	})

	t.Run("implements CursorActuator interface", func(t *testing.T) {
		var _ CursorActuator = (*Recorder)(nil)
		var _ CursorActuator = (*Robot)(nil)
	})
}
