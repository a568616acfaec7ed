// Package hook runs external executables in response to dwell actions.
//
// Each hook lives in its own subdirectory of the hooks directory with a
// hook.json manifest. On every matching action the hook executable receives a
// Request as JSON on stdin and answers with a Response as JSON on stdout.
package hook

// Manifest describes a hook's metadata and the actions it subscribes to.
type Manifest struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Executable  string `json:"executable"`
	// Actions lists the action kinds the hook runs for. Empty means all kinds.
	Actions []string `json:"actions"`
}

// Request is sent to a hook for one dwell action.
type Request struct {
	Action    string `json:"action"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Timestamp int64  `json:"timestamp"`
}

// Response is what a hook reports back.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Hook is a discovered hook with its manifest and location.
type Hook struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Handles reports whether the hook subscribes to the given action kind.
func (h *Hook) Handles(kind string) bool {
	if len(h.Manifest.Actions) == 0 {
		return true
	}
	for _, a := range h.Manifest.Actions {
		if a == kind {
			return true
		}
	}
	return false
}
