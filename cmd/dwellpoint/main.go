package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ayusman/dwellpoint/internal/actuator"
	"github.com/ayusman/dwellpoint/internal/app"
	"github.com/ayusman/dwellpoint/internal/config"
	"github.com/ayusman/dwellpoint/internal/dwell"
	"github.com/ayusman/dwellpoint/internal/hook"
	"github.com/ayusman/dwellpoint/internal/sensor"
	"github.com/ayusman/dwellpoint/internal/server"
	"github.com/ayusman/dwellpoint/internal/store"
	"github.com/ayusman/dwellpoint/internal/tray"
)

func main() {
	fmt.Println("Dwellpoint - Hand Dwell Cursor")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	st, err := store.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	robot := actuator.NewRobot()
	w, h := robot.Bounds()
	log.Printf("Screen size %dx%d", w, h)

	var tracker sensor.HandTracker
	if mp, err := sensor.NewMediaPipeTracker(); err == nil {
		tracker = mp
		log.Println("Using MediaPipe hand tracking")
	} else {
		log.Printf("MediaPipe not available (%v), using mock tracker", err)
		tracker = sensor.NewMockTracker()
	}

	camera := sensor.NewCamera(cfg.Sensor.CameraID, cfg.Sensor.Width, cfg.Sensor.Height, cfg.Sensor.FPS)
	source := sensor.NewWebcam(sensor.WebcamConfig{
		FPS:           cfg.Sensor.FPS,
		Width:         cfg.Sensor.Width,
		Height:        cfg.Sensor.Height,
		MinConfidence: cfg.Sensor.MinConfidence,
		Mirror:        cfg.Sensor.Mirror,
	}, camera, tracker)

	a := app.New(app.Config{
		Source:   source,
		Actuator: robot,
		Dwell:    cfg.DwellEngineConfig(),
		XScale:   cfg.Mapping.XScale,
		YScale:   cfg.Mapping.YScale,
		Store:    st,
	})

	hooks := hook.NewManager(cfg.Hooks.Dir)
	if err := hooks.Discover(); err != nil {
		log.Printf("Failed to discover hooks: %v", err)
	}
	log.Printf("Loaded %d hooks from %s", len(hooks.List()), hooks.HookDir())
	dispatcher := hook.NewDispatcher(hooks, hook.NewExecutor(cfg.Hooks.Timeout))
	dispatcher.Start()
	a.OnAction(dispatcher.Handle)

	if cfg.Server.Addr != "" {
		events := server.NewEventsHub()
		a.OnAction(events.Publish)

		srv := server.New(server.Config{
			Store:  st,
			State:  a,
			Events: events,
		})
		go func() {
			log.Printf("Starting server on %s", cfg.Server.Addr)
			if err := srv.ListenAndServe(cfg.Server.Addr); err != nil {
				log.Printf("Server failed: %v", err)
			}
		}()
	}

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	if cfg.Tray.Enabled {
		runTray(a)
	} else {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		<-ctx.Done()
		stop()
	}

	if err := a.Stop(); err != nil && !errors.Is(err, app.ErrNotRunning) {
		log.Printf("Error stopping: %v", err)
	}
	dispatcher.Stop()
}

// runTray blocks until Quit is chosen from the tray menu.
func runTray(a *app.App) {
	t := tray.New()
	t.OnToggle(a.SetEnabled)
	a.OnAction(func(action dwell.Action) {
		t.SetLastAction(action)
	})
	t.OnQuit(func() {
		log.Println("Quit requested")
	})
	t.Run()
}
