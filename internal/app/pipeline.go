package app

import (
	"log"

	"github.com/ayusman/dwellpoint/internal/dwell"
	"github.com/ayusman/dwellpoint/internal/skeleton"
	"github.com/ayusman/dwellpoint/internal/store"
)

// handleFrame processes one frame from the source.
//
// Frame logic:
// 1. Release the frame when done, whatever happens
// 2. Drop the frame while disabled
// 3. Select the first tracked subject, drop the frame if there is none
// 4. Project the subject's hands through the depth map, drop the frame if that fails
// 5. Feed the right hand's screen point to the dwell engine, which drops it
//    if the pump was paused since step 2
func (a *App) handleFrame(f skeleton.Frame) {
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Error releasing frame: %v", err)
		}
	}()

	if !a.IsEnabled() {
		return
	}

	subject, ok := skeleton.SelectFromFrame(f)
	if !ok {
		return
	}

	depth, ok := f.Depth()
	if !ok {
		return
	}

	proj, ok := a.mapper.Map(subject, depth)
	if !ok {
		return
	}

	a.engine.Update(proj.Right)
}

// startJournal launches the journal worker for session. Caller holds a.mu.
func (a *App) startJournal(session *store.Session) {
	a.journalMu.Lock()
	defer a.journalMu.Unlock()

	ch := make(chan dwell.Action, a.config.JournalBuffer)
	done := make(chan struct{})
	a.journal = ch
	a.journalDone = done

	go a.runJournal(session, ch, done)
}

// stopJournal closes the journal channel and waits for the worker to drain it.
func (a *App) stopJournal() {
	a.journalMu.Lock()
	ch, done := a.journal, a.journalDone
	a.journal, a.journalDone = nil, nil
	a.journalMu.Unlock()

	if ch == nil {
		return
	}
	close(ch)
	<-done
}

// enqueue hands an action to the journal worker. It runs under the engine
// lock, so it never blocks: when the buffer is full the action is dropped.
func (a *App) enqueue(action dwell.Action) {
	a.journalMu.Lock()
	defer a.journalMu.Unlock()

	if a.journal == nil {
		return
	}
	select {
	case a.journal <- action:
	default:
		log.Printf("Journal full, dropping %s at %s", action.Kind, action.Point)
	}
}

// runJournal writes actions to the store and notifies listeners.
func (a *App) runJournal(session *store.Session, ch <-chan dwell.Action, done chan<- struct{}) {
	defer close(done)

	for action := range ch {
		log.Printf("Dwell action: %s at %s", action.Kind, action.Point)

		if session != nil {
			err := a.config.Store.Actuations().Create(&store.Actuation{
				SessionID: session.ID,
				Kind:      string(action.Kind),
				X:         action.Point.X,
				Y:         action.Point.Y,
				CreatedAt: action.At,
			})
			if err != nil {
				log.Printf("Error journaling %s: %v", action.Kind, err)
			}
		}

		a.mu.Lock()
		last := action
		a.last = &last
		listeners := append([]func(dwell.Action){}, a.listeners...)
		a.mu.Unlock()

		for _, fn := range listeners {
			fn(action)
		}
	}
}
