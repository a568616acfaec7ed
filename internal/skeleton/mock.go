package skeleton

import (
	"errors"
	"math"
	"sync"
)

// ErrSourceStopped is returned when a mock frame is emitted to a source that is not running.
var ErrSourceStopped = errors.New("source is not running")

// PixelDepthMap treats the X and Y of a sensor point as depth pixel coordinates.
// Useful in tests where the mapping under test is the screen scale, not the projection.
type PixelDepthMap struct{}

// MapSkeletonPoint rounds the sensor point to the nearest depth pixel.
func (PixelDepthMap) MapSkeletonPoint(p Point3D) DepthPoint {
	return DepthPoint{
		X:     int(math.Round(p.X)),
		Y:     int(math.Round(p.Y)),
		Depth: int(math.Round(p.Z)),
	}
}

// MockFrame is a test implementation of Frame.
type MockFrame struct {
	SubjectSlots []Subject
	DepthMap     DepthMap
	NoSkeleton   bool
	mu           sync.Mutex
	closed       int
}

// NewMockFrame creates a frame carrying the given subjects and a PixelDepthMap.
func NewMockFrame(subjects ...Subject) *MockFrame {
	return &MockFrame{
		SubjectSlots: subjects,
		DepthMap:     PixelDepthMap{},
	}
}

// Subjects returns the configured subjects, or false if NoSkeleton is set.
func (f *MockFrame) Subjects() ([]Subject, bool) {
	if f.NoSkeleton {
		return nil, false
	}
	return f.SubjectSlots, true
}

// Depth returns the configured depth map, or false if it is nil.
func (f *MockFrame) Depth() (DepthMap, bool) {
	if f.DepthMap == nil {
		return nil, false
	}
	return f.DepthMap, true
}

// Close records that the frame was released.
func (f *MockFrame) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

// Closed returns how many times Close was called.
func (f *MockFrame) Closed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// HandSubject returns a tracked subject with both hands at the given positions.
func HandSubject(left, right Point3D) Subject {
	return Subject{
		TrackingState: Tracked,
		Joints: map[JointType]Point3D{
			HandLeft:  left,
			HandRight: right,
		},
	}
}

// RightHandFrame returns a frame with a single tracked subject whose right hand
// sits at depth pixel (x, y).
func RightHandFrame(x, y int) *MockFrame {
	right := Point3D{X: float64(x), Y: float64(y), Z: 1500}
	return NewMockFrame(HandSubject(Point3D{}, right))
}

// MockSource is a test implementation of Source. Frames are delivered
// synchronously by Emit.
type MockSource struct {
	mu       sync.Mutex
	handler  FrameHandler
	running  bool
	startErr error
	starts   int
	stops    int
}

// NewMockSource creates a new MockSource.
func NewMockSource() *MockSource {
	return &MockSource{}
}

// SetStartError makes the next Start calls fail with err.
func (s *MockSource) SetStartError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startErr = err
}

// Start records the handler.
func (s *MockSource) Start(handler FrameHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startErr != nil {
		return s.startErr
	}
	s.handler = handler
	s.running = true
	s.starts++
	return nil
}

// Stop stops delivering frames.
func (s *MockSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.handler = nil
	s.stops++
	return nil
}

// Emit delivers f to the handler on the calling goroutine.
func (s *MockSource) Emit(f Frame) error {
	s.mu.Lock()
	handler := s.handler
	running := s.running
	s.mu.Unlock()

	if !running || handler == nil {
		return ErrSourceStopped
	}
	handler(f)
	return nil
}

// Running reports whether the source has been started and not stopped.
func (s *MockSource) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Stops returns how many times Stop was called.
func (s *MockSource) Stops() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stops
}
