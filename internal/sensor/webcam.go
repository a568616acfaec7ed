package sensor

import (
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/ayusman/dwellpoint/internal/skeleton"
)

// WebcamConfig holds the webcam source settings.
type WebcamConfig struct {
	FPS           int
	Width         int
	Height        int
	MinConfidence float64
	// Mirror flips the x axis so that moving the hand right moves the cursor right
	// on a user-facing camera.
	Mirror bool
}

// Webcam is a skeleton.Source that builds one-subject frames from a camera and a hand tracker.
type Webcam struct {
	config  WebcamConfig
	camera  Camera
	tracker HandTracker

	mu     sync.Mutex
	stopCh chan struct{}
	done   chan struct{}
}

// NewWebcam creates a webcam source. Camera and tracker are owned by the source
// and closed by Stop.
func NewWebcam(config WebcamConfig, camera Camera, tracker HandTracker) *Webcam {
	return &Webcam{
		config:  config,
		camera:  camera,
		tracker: tracker,
	}
}

// Start opens the camera and delivers a frame to handler every 1/FPS seconds.
// Frames are delivered one at a time on the source's own goroutine.
func (w *Webcam) Start(handler skeleton.FrameHandler) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopCh != nil {
		return nil
	}
	if err := w.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}

	w.stopCh = make(chan struct{})
	w.done = make(chan struct{})
	go w.run(handler, w.stopCh, w.done)

	log.Printf("Webcam source started at %d fps", w.config.FPS)
	return nil
}

// Stop ends frame delivery and releases the camera and tracker.
func (w *Webcam) Stop() error {
	w.mu.Lock()
	stopCh, done := w.stopCh, w.done
	w.stopCh, w.done = nil, nil
	w.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
		<-done
	}

	var firstErr error
	if err := w.camera.Close(); err != nil {
		firstErr = fmt.Errorf("close camera: %w", err)
	}
	if err := w.tracker.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close tracker: %w", err)
	}
	return firstErr
}

func (w *Webcam) run(handler skeleton.FrameHandler, stopCh, done chan struct{}) {
	defer close(done)

	fps := w.config.FPS
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	var lastErr string
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			frame, err := w.capture()
			if err != nil {
				// Only report when the failure changes to keep 30 fps errors out of the log.
				if msg := err.Error(); msg != lastErr {
					log.Printf("Frame capture failed: %v", err)
					lastErr = msg
				}
			} else {
				lastErr = ""
			}
			handler(frame)
		}
	}
}

// capture reads one camera frame and tracks hands in it. The returned frame is
// always usable; on error it reports its skeleton data as unavailable.
func (w *Webcam) capture() (skeleton.Frame, error) {
	mat, err := w.camera.ReadFrame()
	if err != nil {
		return &webcamFrame{}, fmt.Errorf("read camera: %w", err)
	}
	hands, err := w.tracker.Track(mat)
	mat.Close()
	if err != nil {
		return &webcamFrame{}, fmt.Errorf("track hands: %w", err)
	}
	return BuildFrame(hands, w.config), nil
}

// BuildFrame converts tracked hands into a skeleton frame with at most one subject.
// The subject is Tracked when at least one hand meets MinConfidence; hands below it are ignored.
func BuildFrame(hands []Hand, config WebcamConfig) skeleton.Frame {
	f := &webcamFrame{
		hasSkeleton: true,
		depth: imageDepthMap{
			width:  config.Width,
			height: config.Height,
			mirror: config.Mirror,
		},
	}

	joints := make(map[skeleton.JointType]skeleton.Point3D)
	scores := make(map[skeleton.JointType]float64)
	for _, h := range hands {
		if h.Score < config.MinConfidence {
			continue
		}
		j := h.Joint()
		if prev, ok := scores[j]; ok && prev >= h.Score {
			continue
		}
		joints[j] = h.Palm
		scores[j] = h.Score
	}

	if len(joints) > 0 {
		f.subjects = []skeleton.Subject{{
			TrackingState: skeleton.Tracked,
			Joints:        joints,
		}}
	}
	return f
}

// webcamFrame is a skeleton.Frame built from one camera frame.
type webcamFrame struct {
	hasSkeleton bool
	subjects    []skeleton.Subject
	depth       imageDepthMap
}

func (f *webcamFrame) Subjects() ([]skeleton.Subject, bool) {
	return f.subjects, f.hasSkeleton
}

func (f *webcamFrame) Depth() (skeleton.DepthMap, bool) {
	if !f.hasSkeleton {
		return nil, false
	}
	return f.depth, true
}

func (f *webcamFrame) Close() error { return nil }

// imageDepthMap projects normalized image coordinates onto a width x height pixel grid.
// A webcam has no depth, so Depth is always zero.
type imageDepthMap struct {
	width  int
	height int
	mirror bool
}

func (m imageDepthMap) MapSkeletonPoint(p skeleton.Point3D) skeleton.DepthPoint {
	x := p.X
	if m.mirror {
		x = 1 - x
	}
	return skeleton.DepthPoint{
		X: int(math.Round(x * float64(m.width))),
		Y: int(math.Round(p.Y * float64(m.height))),
	}
}
