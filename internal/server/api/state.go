package api

import (
	"net/http"

	"github.com/ayusman/dwellpoint/internal/dwell"
)

// StateSource reports the live state of the frame pump.
type StateSource interface {
	IsEnabled() bool
	DwellState() dwell.State
}

// StateHandler serves the current dwell state.
type StateHandler struct {
	source StateSource
}

// NewStateHandler creates a new StateHandler reading from source.
func NewStateHandler(source StateSource) *StateHandler {
	return &StateHandler{source: source}
}

type stateResponse struct {
	Enabled bool        `json:"enabled"`
	Dwell   dwell.State `json:"dwell"`
}

// ServeHTTP handles GET /api/state.
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, stateResponse{
		Enabled: h.source.IsEnabled(),
		Dwell:   h.source.DwellState(),
	})
}
