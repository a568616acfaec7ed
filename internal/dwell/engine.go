// Package dwell infers click and double-click intents from how long a cursor
// stays still.
//
// Each frame the engine moves the cursor, compares the new point with the
// previous frame's point, and arms two one-shot timers when the hand is steady.
// A firing timer re-checks the latest point against the point pinned at arming:
//
//	frame stable, both disarmed -> pin point, arm single and double
//	frame unstable              -> disarm both
//	single fires, within radius -> toggle left button at pin
//	double fires, within radius -> up, then two down-up clicks at pin
//
// Frames and timer callbacks may arrive on different goroutines; all access
// to the dwell record goes through one mutex.
package dwell

import (
	"log"
	"sync"
	"time"

	"github.com/ayusman/dwellpoint/internal/actuator"
)

// Engine is the dwell click state machine.
type Engine struct {
	config   Config
	actuator actuator.CursorActuator
	clock    Clock

	mu        sync.Mutex
	paused    bool
	state     State
	timers    [2]timerSlot
	listeners []func(Action)
}

// New creates an Engine that drives act and schedules timers on clock.
// A nil clock uses RealClock.
func New(config Config, act actuator.CursorActuator, clock Clock) *Engine {
	if clock == nil {
		clock = RealClock{}
	}
	return &Engine{
		config:   config,
		actuator: act,
		clock:    clock,
	}
}

// OnAction registers fn to be called for every emitted action.
// Listeners run while the engine is locked and must not block or call back into the engine.
func (e *Engine) OnAction(fn func(Action)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

// Update processes one frame's screen point. Frames are ignored while paused.
func (e *Engine) Update(p actuator.ScreenPoint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.paused {
		return
	}

	if err := e.actuator.MoveCursor(p); err != nil {
		log.Printf("dwell: move cursor to %s: %v", p, err)
	}

	stable := e.within(p, e.state.LastPosition)
	switch {
	case stable && !e.timers[singleClick].armed && !e.timers[doubleClick].armed:
		e.state.PotentialClickPosition = p
		e.arm(singleClick, e.config.SingleClickDwell)
		e.arm(doubleClick, e.config.DoubleClickDwell)
	case !stable:
		e.disarm(singleClick)
		e.disarm(doubleClick)
	}

	e.state.LastPosition = p
}

// Disarm cancels both timers without touching the rest of the dwell record.
func (e *Engine) Disarm() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disarm(singleClick)
	e.disarm(doubleClick)
}

// Pause cancels both timers and ignores frames until Resume.
// Pausing and the frame check share e.mu, so a frame already past the
// caller's own enabled check cannot re-arm a timer afterwards.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = true
	e.disarm(singleClick)
	e.disarm(doubleClick)
}

// Resume accepts frames again.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = false
}

// Paused reports whether frames are being ignored.
func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// State returns a snapshot of the dwell record.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.state
	s.SingleClickArmed = e.timers[singleClick].armed
	s.DoubleClickArmed = e.timers[doubleClick].armed
	return s
}

// Config returns the engine's thresholds.
func (e *Engine) Config() Config {
	return e.config
}

// within reports whether a and b differ by less than the radius on both axes.
func (e *Engine) within(a, b actuator.ScreenPoint) bool {
	r := e.config.StabilityRadius
	return abs(a.X-b.X) < r && abs(a.Y-b.Y) < r
}

// arm starts the timer in slot k. Caller holds e.mu.
func (e *Engine) arm(k timerKind, d time.Duration) {
	slot := &e.timers[k]
	if slot.armed {
		return
	}
	slot.gen++
	gen := slot.gen
	slot.armed = true
	slot.timer = e.clock.AfterFunc(d, func() { e.fire(k, gen) })
}

// disarm cancels the timer in slot k. Caller holds e.mu.
// Bumping gen makes an already-running callback a no-op.
func (e *Engine) disarm(k timerKind) {
	slot := &e.timers[k]
	if !slot.armed {
		return
	}
	if slot.timer != nil {
		slot.timer.Stop()
	}
	slot.gen++
	slot.armed = false
	slot.timer = nil
}

// fire runs when the timer in slot k expires.
func (e *Engine) fire(k timerKind, gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	slot := &e.timers[k]
	if !slot.armed || slot.gen != gen {
		return
	}
	slot.armed = false
	slot.timer = nil

	pin := e.state.PotentialClickPosition
	if !e.within(e.state.LastPosition, pin) {
		return
	}

	switch k {
	case singleClick:
		e.toggle(pin)
	case doubleClick:
		e.doubleClick(pin)
	}
}

// toggle flips the left button at p. Caller holds e.mu.
func (e *Engine) toggle(p actuator.ScreenPoint) {
	if e.state.LeftButtonDown {
		if err := e.actuator.ButtonUp(p); err != nil {
			log.Printf("dwell: button up at %s: %v", p, err)
		}
		e.state.LeftButtonDown = false
		e.emit(ActionButtonUp, p)
		return
	}

	if err := e.actuator.ButtonDown(p); err != nil {
		log.Printf("dwell: button down at %s: %v", p, err)
	}
	e.state.LeftButtonDown = true
	e.emit(ActionButtonDown, p)
}

// doubleClick releases the button and clicks twice at p. Caller holds e.mu.
func (e *Engine) doubleClick(p actuator.ScreenPoint) {
	e.buttonUp(p)
	for i := 0; i < 2; i++ {
		if err := e.actuator.ButtonDown(p); err != nil {
			log.Printf("dwell: double-click down at %s: %v", p, err)
		}
		e.buttonUp(p)
	}
	// The sequence ends released, so the record must say so. Keeping the
	// previous value would make the next single click toggle the wrong way.
	e.state.LeftButtonDown = false
	e.emit(ActionDoubleClick, p)
}

func (e *Engine) buttonUp(p actuator.ScreenPoint) {
	if err := e.actuator.ButtonUp(p); err != nil {
		log.Printf("dwell: double-click up at %s: %v", p, err)
	}
}

func (e *Engine) emit(kind ActionKind, p actuator.ScreenPoint) {
	a := Action{Kind: kind, Point: p, At: e.clock.Now()}
	for _, fn := range e.listeners {
		fn(a)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
