package usecase

import (
	"math"

	"github.com/riskibarqy/pitchsync/internal/domain/feed"
)

// DerivedPhysics are pitch metrics computed from tracking data.
type DerivedPhysics struct {
	HorizontalBreak      *float64
	InducedVerticalBreak *float64
	ApproachAngle        *float64
}

// PhysicsDeriver fills derived pitch metrics. Implementations must be pure.
type PhysicsDeriver interface {
	Derive(data feed.PitchData) DerivedPhysics
}

// plateFrontY is the distance in feet from the tip of home plate to its front edge.
const plateFrontY = 17.0 / 12.0

// KinematicsDeriver uses provider break values when present and the
// constant-acceleration trajectory model for the vertical approach angle.
type KinematicsDeriver struct{}

func (KinematicsDeriver) Derive(data feed.PitchData) DerivedPhysics {
	out := DerivedPhysics{
		HorizontalBreak:      firstFloat(data.BreakHorizontal, data.PfxX),
		InducedVerticalBreak: firstFloat(data.BreakVerticalInduced, data.PfxZ),
	}
	if data.VY0 == nil || data.VZ0 == nil || data.AY == nil || data.AZ == nil || data.Y0 == nil {
		return out
	}

	vy0, vz0, ay, az, y0 := *data.VY0, *data.VZ0, *data.AY, *data.AZ, *data.Y0
	radicand := vy0*vy0 - 2*ay*(y0-plateFrontY)
	if ay == 0 || radicand < 0 {
		return out
	}
	vyf := -math.Sqrt(radicand)
	t := (vyf - vy0) / ay
	vzf := vz0 + az*t
	angle := -math.Atan(vzf/vyf) * 180 / math.Pi
	out.ApproachAngle = &angle
	return out
}

func firstFloat(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
