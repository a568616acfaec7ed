// Package skeleton defines the body-tracking frame boundary consumed by the cursor pipeline.
package skeleton

// MaxSubjects is the fixed number of subject slots a frame carries.
const MaxSubjects = 6

// TrackingState describes how well the sensor is following a subject.
type TrackingState int

const (
	// NotTracked means the slot holds no usable body.
	NotTracked TrackingState = iota
	// PositionOnly means only the body centre is known, not its joints.
	PositionOnly
	// Tracked means the full joint set is available.
	Tracked
)

// String returns the lowercase name of the tracking state.
func (s TrackingState) String() string {
	switch s {
	case Tracked:
		return "tracked"
	case PositionOnly:
		return "position_only"
	default:
		return "not_tracked"
	}
}

// JointType identifies a skeletal joint.
type JointType int

const (
	// HandLeft is the subject's left hand.
	HandLeft JointType = iota
	// HandRight is the subject's right hand.
	HandRight
)

// Point3D is a position in sensor space.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// DepthPoint is a position in depth-map pixel units.
type DepthPoint struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Depth int `json:"depth"`
}

// Subject is one tracked body in a frame.
type Subject struct {
	TrackingState TrackingState
	Joints        map[JointType]Point3D
}

// Joint returns the position of the given joint and whether the subject has it.
func (s *Subject) Joint(j JointType) (Point3D, bool) {
	if s == nil || s.Joints == nil {
		return Point3D{}, false
	}
	p, ok := s.Joints[j]
	return p, ok
}

// DepthMap projects sensor-space points onto the depth image.
type DepthMap interface {
	MapSkeletonPoint(p Point3D) DepthPoint
}

// Frame is a single snapshot from a Source. Its subjects and depth map are only
// valid until Close is called, and Close must be called before the next frame
// is handled.
type Frame interface {
	// Subjects returns the frame's subject slots. ok is false when skeleton
	// data could not be acquired for this frame.
	Subjects() (subjects []Subject, ok bool)

	// Depth returns the frame's depth map. ok is false when the depth frame was dropped.
	Depth() (depth DepthMap, ok bool)

	// Close releases the frame's resources.
	Close() error
}

// FrameHandler receives frames from a Source, one at a time.
type FrameHandler func(Frame)

// Source produces frames and delivers them to a handler until stopped.
type Source interface {
	Start(handler FrameHandler) error
	Stop() error
}
