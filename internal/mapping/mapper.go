// Package mapping converts skeletal hand joints into screen-space cursor points.
package mapping

import (
	"math"

	"github.com/ayusman/dwellpoint/internal/actuator"
	"github.com/ayusman/dwellpoint/internal/skeleton"
)

// Default scale factors for a 640x480 depth image on a typical desktop.
const (
	DefaultXScale = 3
	DefaultYScale = 2
)

// Projection holds both hands of a subject in depth and screen space.
// Only the right hand drives the cursor; the left hand is projected but not consumed.
type Projection struct {
	LeftDepth  skeleton.DepthPoint
	RightDepth skeleton.DepthPoint
	Left       actuator.ScreenPoint
	Right      actuator.ScreenPoint
	HasLeft    bool
}

// Mapper applies fixed linear scale factors from depth pixels to screen pixels.
// Results are not clamped to the desktop.
type Mapper struct {
	XScale float64
	YScale float64
}

// New creates a Mapper with the given scale factors.
func New(xScale, yScale float64) *Mapper {
	return &Mapper{XScale: xScale, YScale: yScale}
}

// ToScreen scales a depth point into screen space.
func (m *Mapper) ToScreen(d skeleton.DepthPoint) actuator.ScreenPoint {
	return actuator.ScreenPoint{
		X: int(math.Round(float64(d.X) * m.XScale)),
		Y: int(math.Round(float64(d.Y) * m.YScale)),
	}
}

// Map projects the subject's hands through depth and scales them to the screen.
// Returns false when there is no depth map or the subject has no right hand.
func (m *Mapper) Map(s *skeleton.Subject, depth skeleton.DepthMap) (Projection, bool) {
	if depth == nil {
		return Projection{}, false
	}
	right, ok := s.Joint(skeleton.HandRight)
	if !ok {
		return Projection{}, false
	}

	var p Projection
	p.RightDepth = depth.MapSkeletonPoint(right)
	p.Right = m.ToScreen(p.RightDepth)

	if left, ok := s.Joint(skeleton.HandLeft); ok {
		p.LeftDepth = depth.MapSkeletonPoint(left)
		p.Left = m.ToScreen(p.LeftDepth)
		p.HasLeft = true
	}

	return p, true
}
