package sensor

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/dwellpoint/internal/skeleton"
)

// palmLandmark is the MediaPipe index of the middle finger knuckle, used as the hand position.
const palmLandmark = 9

// Hand is one hand found in a camera frame. Palm holds normalized image
// coordinates in [0,1] with a relative depth in Z.
type Hand struct {
	Handedness string
	Palm       skeleton.Point3D
	Score      float64
}

// Joint returns the skeleton joint matching the hand's handedness.
func (h Hand) Joint() skeleton.JointType {
	if h.Handedness == "Left" {
		return skeleton.HandLeft
	}
	return skeleton.HandRight
}

// HandTracker finds hands in camera frames.
type HandTracker interface {
	// Track returns the hands visible in frame, or an empty slice if there are none.
	Track(frame *gocv.Mat) ([]Hand, error)

	// Close releases any resources held by the tracker.
	Close() error
}

// MockTracker is a HandTracker that returns preset hands.
type MockTracker struct {
	hands []Hand
	err   error
}

// NewMockTracker creates a MockTracker that finds no hands.
func NewMockTracker() *MockTracker {
	return &MockTracker{}
}

// SetHands sets the hands returned by Track.
func (m *MockTracker) SetHands(hands []Hand) {
	m.hands = hands
}

// SetError sets the error returned by Track.
func (m *MockTracker) SetError(err error) {
	m.err = err
}

// Track returns the preset hands or error.
func (m *MockTracker) Track(frame *gocv.Mat) ([]Hand, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op.
func (m *MockTracker) Close() error {
	return nil
}
