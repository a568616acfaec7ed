// Package actuator moves the desktop cursor and synthesizes left mouse button events.
package actuator

import "fmt"

// ScreenPoint is a pixel position in screen space.
type ScreenPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String formats the point as "(x,y)".
func (p ScreenPoint) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// CursorActuator performs cursor movement and left button transitions.
// Calls are expected to return promptly; callers do not retry on error.
type CursorActuator interface {
	MoveCursor(p ScreenPoint) error
	ButtonDown(p ScreenPoint) error
	ButtonUp(p ScreenPoint) error
}
