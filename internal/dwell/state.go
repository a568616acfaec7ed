package dwell

import (
	"time"

	"github.com/ayusman/dwellpoint/internal/actuator"
)

// Default dwell parameters.
const (
	DefaultStabilityRadius  = 30
	DefaultSingleClickDwell = 1500 * time.Millisecond
	DefaultDoubleClickDwell = 3500 * time.Millisecond
)

// Config holds the fixed dwell thresholds.
type Config struct {
	// StabilityRadius is the per-axis distance in pixels under which two points count as stable.
	StabilityRadius int
	// SingleClickDwell is how long the hand must dwell before the button toggles.
	SingleClickDwell time.Duration
	// DoubleClickDwell is how long the hand must dwell before a double-click.
	DoubleClickDwell time.Duration
}

// DefaultConfig returns the standard dwell thresholds.
func DefaultConfig() Config {
	return Config{
		StabilityRadius:  DefaultStabilityRadius,
		SingleClickDwell: DefaultSingleClickDwell,
		DoubleClickDwell: DefaultDoubleClickDwell,
	}
}

// State is a snapshot of the engine's dwell record.
// PotentialClickPosition is stale whenever both timers are disarmed.
type State struct {
	LastPosition           actuator.ScreenPoint `json:"last_position"`
	PotentialClickPosition actuator.ScreenPoint `json:"potential_click_position"`
	LeftButtonDown         bool                 `json:"left_button_down"`
	SingleClickArmed       bool                 `json:"single_click_armed"`
	DoubleClickArmed       bool                 `json:"double_click_armed"`
}

// ActionKind names an actuation the engine emitted.
type ActionKind string

const (
	ActionButtonDown  ActionKind = "button_down"
	ActionButtonUp    ActionKind = "button_up"
	ActionDoubleClick ActionKind = "double_click"
)

// Action describes an emitted actuation.
type Action struct {
	Kind  ActionKind           `json:"kind"`
	Point actuator.ScreenPoint `json:"point"`
	At    time.Time            `json:"at"`
}

// timerKind indexes the engine's two timer slots.
type timerKind int

const (
	singleClick timerKind = iota
	doubleClick
)

// timerSlot is one dwell timer. gen increases on every arm so that a callback
// from an earlier arming can recognise itself as stale.
type timerSlot struct {
	armed bool
	gen   uint64
	timer Timer
}
