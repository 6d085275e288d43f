package domain

import "math"

// Vec3 is a position in scene units.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// ApproxEqual compares component-wise within eps.
func (v Vec3) ApproxEqual(o Vec3, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps && math.Abs(v.Z-o.Z) <= eps
}

// Pose is the tracked camera position and rotation in degrees.
type Pose struct {
	Position Vec3 `json:"position"`
	Rotation Vec3 `json:"rotation"`
}

// Shape is a renderable primitive.
type Shape string

const (
	ShapeSphere Shape = "sphere"
	ShapeBox    Shape = "box"
)

// Frame names the coordinate space an object position is expressed in.
type Frame string

const (
	FrameWorld  Frame = "world"
	FrameAnchor Frame = "anchor"
	FrameMarker Frame = "marker"
)

// Handle identifies an object placed by the renderer.
type Handle string

// ObjectTags are attached to every placed answer object.
type ObjectTags struct {
	IsCorrect bool   `json:"isCorrect"`
	Index     int    `json:"index"`
	Label     string `json:"label"`
}

// ObjectSpec describes one clickable primitive to render.
type ObjectSpec struct {
	Shape    Shape      `json:"shape"`
	Color    string     `json:"color"`
	Position Vec3       `json:"position"`
	Frame    Frame      `json:"frame"`
	Scale    float64    `json:"scale"`
	Tags     ObjectTags `json:"tags"`
}
