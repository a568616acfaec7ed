package hook

import (
	"context"
	"log"
	"sync"

	"github.com/ayusman/dwellpoint/internal/dwell"
)

// DefaultQueueSize is the number of actions that may wait for hooks to run.
const DefaultQueueSize = 16

// Dispatcher runs subscribed hooks for dwell actions on its own worker, so
// slow hooks never hold up the caller.
type Dispatcher struct {
	manager  *Manager
	executor *Executor

	mu     sync.Mutex
	queue  chan dwell.Action
	done   chan struct{}
	cancel context.CancelFunc
}

// NewDispatcher creates a Dispatcher. Call Start before Handle.
func NewDispatcher(m *Manager, e *Executor) *Dispatcher {
	return &Dispatcher{manager: m, executor: e}
}

// Start launches the worker.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.queue != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.queue = make(chan dwell.Action, DefaultQueueSize)
	d.done = make(chan struct{})
	d.cancel = cancel

	go d.run(ctx, d.queue, d.done)
}

// Handle queues action for its subscribed hooks. When the queue is full the
// action is dropped.
func (d *Dispatcher) Handle(action dwell.Action) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.queue == nil {
		return
	}
	select {
	case d.queue <- action:
	default:
		log.Printf("Hook queue full, dropping %s", action.Kind)
	}
}

// Stop runs the actions still queued and waits for the worker to exit.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	queue, done, cancel := d.queue, d.done, d.cancel
	d.queue, d.done, d.cancel = nil, nil, nil
	d.mu.Unlock()

	if queue == nil {
		return
	}
	close(queue)
	<-done
	cancel()
}

func (d *Dispatcher) run(ctx context.Context, queue <-chan dwell.Action, done chan<- struct{}) {
	defer close(done)

	for action := range queue {
		req := &Request{
			Action:    string(action.Kind),
			X:         action.Point.X,
			Y:         action.Point.Y,
			Timestamp: action.At.UnixMilli(),
		}

		for _, h := range d.manager.For(req.Action) {
			resp, err := d.executor.Execute(ctx, h, req)
			if err != nil {
				log.Printf("Hook %s error: %v", h.Manifest.Name, err)
				continue
			}
			if !resp.Success {
				log.Printf("Hook %s reported failure: %s", h.Manifest.Name, resp.Error)
			}
		}
	}
}
