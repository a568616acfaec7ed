package actuator

import "sync"

// CallKind identifies a recorded actuator primitive.
type CallKind string

const (
	CallMove CallKind = "move"
	CallDown CallKind = "down"
	CallUp   CallKind = "up"
)

// Call is one recorded actuator invocation.
type Call struct {
	Kind  CallKind
	Point ScreenPoint
}

// Recorder is a CursorActuator that records every call instead of touching the desktop.
// It is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
	fail  map[CallKind]error
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{fail: make(map[CallKind]error)}
}

// FailOn makes every call of the given kind return err after being recorded.
// Pass a nil err to clear.
func (r *Recorder) FailOn(kind CallKind, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.fail, kind)
		return
	}
	r.fail[kind] = err
}

func (r *Recorder) record(kind CallKind, p ScreenPoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Kind: kind, Point: p})
	return r.fail[kind]
}

// MoveCursor records a move.
func (r *Recorder) MoveCursor(p ScreenPoint) error { return r.record(CallMove, p) }

// ButtonDown records a button press.
func (r *Recorder) ButtonDown(p ScreenPoint) error { return r.record(CallDown, p) }

// ButtonUp records a button release.
func (r *Recorder) ButtonUp(p ScreenPoint) error { return r.record(CallUp, p) }

// Calls returns a copy of every recorded call in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Buttons returns the recorded calls with moves filtered out.
func (r *Recorder) Buttons() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Call
	for _, c := range r.calls {
		if c.Kind != CallMove {
			out = append(out, c)
		}
	}
	return out
}

// Moves returns how many moves were recorded.
func (r *Recorder) Moves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Kind == CallMove {
			n++
		}
	}
	return n
}

// Reset discards every recorded call.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
