package actuator

import (
	"fmt"
	"sync"

	"github.com/go-vgo/robotgo"
)

// Robot drives the real desktop cursor through robotgo.
// Points outside the desktop are clamped to its bounds before use.
type Robot struct {
	mu     sync.Mutex
	width  int
	height int
}

// NewRobot creates a Robot bounded by the current main display size.
func NewRobot() *Robot {
	w, h := robotgo.GetScreenSize()
	return &Robot{width: w, height: h}
}

// Bounds returns the desktop size the robot clamps to.
func (r *Robot) Bounds() (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

// MoveCursor moves the cursor to p.
func (r *Robot) MoveCursor(p ScreenPoint) error {
	p = r.clamp(p)
	robotgo.Move(p.X, p.Y)
	return nil
}

// ButtonDown presses the left button at p.
func (r *Robot) ButtonDown(p ScreenPoint) error {
	p = r.clamp(p)
	robotgo.Move(p.X, p.Y)
	if err := robotgo.Toggle("left", "down"); err != nil {
		return fmt.Errorf("left button down at %s: %w", p, err)
	}
	return nil
}

// ButtonUp releases the left button at p.
func (r *Robot) ButtonUp(p ScreenPoint) error {
	p = r.clamp(p)
	robotgo.Move(p.X, p.Y)
	if err := robotgo.Toggle("left", "up"); err != nil {
		return fmt.Errorf("left button up at %s: %w", p, err)
	}
	return nil
}

func (r *Robot) clamp(p ScreenPoint) ScreenPoint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Clamp(p, r.width, r.height)
}

// Clamp limits p to a width x height desktop. A non-positive dimension disables
// clamping on that axis.
func Clamp(p ScreenPoint, width, height int) ScreenPoint {
	if p.X < 0 {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = 0
	}
	if width > 0 && p.X >= width {
		p.X = width - 1
	}
	if height > 0 && p.Y >= height {
		p.Y = height - 1
	}
	return p
}
