// Package app wires a skeleton frame source to the dwell engine and journals what it does.
package app

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ayusman/dwellpoint/internal/actuator"
	"github.com/ayusman/dwellpoint/internal/dwell"
	"github.com/ayusman/dwellpoint/internal/mapping"
	"github.com/ayusman/dwellpoint/internal/skeleton"
	"github.com/ayusman/dwellpoint/internal/store"
)

// DefaultJournalBuffer is the number of actions that may wait for the journal worker.
const DefaultJournalBuffer = 64

// ErrNotRunning is returned by Stop when the app was never started.
var ErrNotRunning = errors.New("app is not running")

// Config holds the collaborators and settings of the application.
type Config struct {
	Source   skeleton.Source
	Actuator actuator.CursorActuator
	// Clock schedules dwell timers. Nil uses the wall clock.
	Clock dwell.Clock
	Dwell dwell.Config

	XScale float64
	YScale float64

	// Store journals sessions and actuations. Nil disables journaling.
	Store         *store.Store
	JournalBuffer int
}

// App is the frame pump: it selects a subject from every frame, maps its right
// hand to the screen and feeds the dwell engine.
type App struct {
	config Config
	mapper *mapping.Mapper
	engine *dwell.Engine

	mu        sync.RWMutex
	enabled   bool
	running   bool
	session   *store.Session
	listeners []func(dwell.Action)
	last      *dwell.Action

	// journalMu guards journal. It is taken from inside engine listeners, so it
	// must never be held while calling into the engine.
	journalMu   sync.Mutex
	journal     chan dwell.Action
	journalDone chan struct{}
}

// New creates an App. Detection starts enabled once Start is called.
func New(config Config) *App {
	if config.JournalBuffer <= 0 {
		config.JournalBuffer = DefaultJournalBuffer
	}
	if config.XScale == 0 {
		config.XScale = mapping.DefaultXScale
	}
	if config.YScale == 0 {
		config.YScale = mapping.DefaultYScale
	}

	a := &App{
		config:  config,
		mapper:  mapping.New(config.XScale, config.YScale),
		engine:  dwell.New(config.Dwell, config.Actuator, config.Clock),
		enabled: true,
	}
	a.engine.OnAction(a.enqueue)
	return a
}

// OnAction registers fn to be called for every action the engine emits.
// Listeners run on the journal worker, after the action has been written.
func (a *App) OnAction(fn func(dwell.Action)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// SetEnabled pauses or resumes the pump. While paused frames are dropped
// without touching the dwell state and pending dwell timers are cancelled.
// A frame already in flight when the pump is paused is dropped by the engine.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	a.enabled = enabled
	a.mu.Unlock()

	if enabled {
		a.engine.Resume()
	} else {
		a.engine.Pause()
	}
	log.Printf("Dwell detection enabled: %v", enabled)
}

// IsEnabled returns whether frames are being processed.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// IsRunning returns whether the source has been started.
func (a *App) IsRunning() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.running
}

// DwellState returns a snapshot of the dwell engine state.
func (a *App) DwellState() dwell.State {
	return a.engine.State()
}

// LastAction returns the most recently journaled action, if any.
func (a *App) LastAction() (dwell.Action, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.last == nil {
		return dwell.Action{}, false
	}
	return *a.last, true
}

// Session returns the current session, or nil when not running or not journaling.
func (a *App) Session() *store.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session
}

// Engine returns the dwell engine.
func (a *App) Engine() *dwell.Engine {
	return a.engine
}

// Start opens a journal session and starts the frame source.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return nil
	}

	if a.config.Store != nil {
		s := &store.Session{}
		if err := a.config.Store.Sessions().Create(s); err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		a.session = s
	}

	a.startJournal(a.session)

	if err := a.config.Source.Start(a.handleFrame); err != nil {
		a.stopJournal()
		a.endSession()
		return fmt.Errorf("start source: %w", err)
	}

	a.running = true
	log.Println("Frame pump started")
	return nil
}

// Stop halts the frame source, cancels pending dwell timers, drains the
// journal and closes the session.
func (a *App) Stop() error {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return ErrNotRunning
	}
	a.running = false
	a.mu.Unlock()

	var firstErr error
	if err := a.config.Source.Stop(); err != nil {
		firstErr = fmt.Errorf("stop source: %w", err)
	}
	a.engine.Disarm()
	a.stopJournal()

	a.mu.Lock()
	a.endSession()
	a.mu.Unlock()

	log.Println("Frame pump stopped")
	return firstErr
}

// endSession closes the current session row. Caller holds a.mu.
func (a *App) endSession() {
	if a.session == nil {
		return
	}
	if err := a.config.Store.Sessions().End(a.session.ID, time.Now()); err != nil {
		log.Printf("Error ending session %s: %v", a.session.ID, err)
	}
	a.session = nil
}
