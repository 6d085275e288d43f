package bridge

import (
	"math"

	"ar-quiz-service/internal/domain"
)

// LinePositions spaces count points evenly on the X axis, centered on the origin.
func LinePositions(count int, spacing float64) []domain.Vec3 {
	positions := make([]domain.Vec3, count)
	width := float64(count-1) * spacing
	for i := range positions {
		positions[i] = domain.Vec3{X: float64(i)*spacing - width/2}
	}
	return positions
}

// RadialPositions spreads count points on a horizontal circle of radius around center.
// The first point sits straight ahead for the given yaw (degrees), the rest follow evenly.
func RadialPositions(count int, radius float64, center domain.Vec3, yawDeg float64) []domain.Vec3 {
	positions := make([]domain.Vec3, count)
	if count == 0 {
		return positions
	}
	step := 2 * math.Pi / float64(count)
	for i := range positions {
		offset := rotateY(domain.Vec3{Z: -radius}, yawDeg*math.Pi/180+float64(i)*step)
		positions[i] = center.Add(offset)
	}
	return positions
}

// rotateY rotates v around the vertical axis by rad, counter-clockwise seen from above.
func rotateY(v domain.Vec3, rad float64) domain.Vec3 {
	sin, cos := math.Sincos(rad)
	return domain.Vec3{
		X: v.X*cos + v.Z*sin,
		Y: v.Y,
		Z: -v.X*sin + v.Z*cos,
	}
}

// AnchorPosition places the anchor at offset from the camera, turned by the camera's yaw.
func AnchorPosition(pose domain.Pose, offset domain.Vec3) domain.Vec3 {
	return pose.Position.Add(rotateY(offset, pose.Rotation.Y*math.Pi/180))
}
