// Package render rasterizes simulation frames to PNG images using a
// fixed diagonal-overview camera and a wireframe axis/bound overlay.
package render

import "github.com/go-gl/mathgl/mgl64"

const (
	Width  = 1920.0
	Height = 1080.0
)

// camRadiusFromOrigin places the camera along a diagonal far enough to
// frame a simulation of this scale; axisLength is sized relative to it.
const (
	camRadiusFromOrigin = 0x1p15
	AxisLength          = camRadiusFromOrigin / 10.0
)

// Camera bundles the view-projection matrix used to project world-space
// points to screen space for one frame.
type Camera struct {
	ViewProjection mgl64.Mat4
}

// NewCamera builds a fixed diagonal-overview camera: looking at the
// origin from a point on the {1,1,5} ray, with a 60-degree perspective
// projection matched to Width/Height.
func NewCamera() Camera {
	campos := mgl64.Vec3{1, 1, 5}.Normalize().Mul(camRadiusFromOrigin)
	view := mgl64.LookAtV(campos, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0})
	proj := mgl64.Perspective(mgl64.DegToRad(60), Width/Height, 0.1, 100)
	return Camera{ViewProjection: proj.Mul4(view)}
}

// RotatedY returns the view-projection matrix additionally rotated about
// the Y axis by angle degrees, used to slowly spin the scene frame to
// frame.
func (c Camera) RotatedY(degrees float64) mgl64.Mat4 {
	rot := mgl64.HomogRotate3DY(mgl64.DegToRad(degrees))
	return c.ViewProjection.Mul4(rot)
}
