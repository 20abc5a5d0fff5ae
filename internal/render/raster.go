package render

import (
	"image/color"
	"image/draw"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	Gray   = color.RGBA{128, 128, 128, 255}
	Red    = color.RGBA{255, 0, 0, 255}
	Green  = color.RGBA{0, 255, 0, 255}
	Blue   = color.RGBA{0, 0, 255, 255}
	Purple = color.RGBA{255, 0, 255, 255}
	Yellow = color.RGBA{255, 255, 0, 255}
	Cyan   = color.RGBA{0, 255, 255, 255}
)

// MassColor buckets a body's mass into one of seven colors, brightest
// (red) for the heaviest bodies.
func MassColor(mass float64) color.Color {
	const step = 1e10 / 7
	switch {
	case mass > 6*step:
		return Red
	case mass > 5*step:
		return Purple
	case mass > 4*step:
		return Yellow
	case mass > 3*step:
		return Green
	case mass > 2*step:
		return Blue
	case mass > 1*step:
		return Cyan
	default:
		return color.White
	}
}

// plotLine draws a line on img from (x0,y0) to (x1,y1), a direct port of
// Bresenham's line algorithm.
func plotLine(img draw.Image, c color.Color, x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		img.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// maxSplatRadius bounds how large a body's projected footprint is allowed
// to get on screen, so a body that drifts very close to the camera still
// paints a visible disc rather than flooding the frame.
const maxSplatRadius = 40

// projectToScreen runs p through vp and converts the clip-space result to
// pixel coordinates, reporting false for points behind the camera.
func projectToScreen(vp mgl64.Mat4, p mgl64.Vec3, w, h int) (x, y int, ok bool) {
	t := vp.Mul4x1(p.Vec4(1))
	if t[3] < 0 {
		return 0, 0, false
	}
	t = t.Mul(1 / t[3])
	x, y = mgl64.GLToScreenCoords(t.X(), t.Y(), w, h)
	return x, y, true
}

// PlotPoint3D projects p through vp and paints a filled disc centered on
// the resulting pixel, skipping points that land behind the camera. The
// disc's screen radius is derived from bodyRadius by projecting a second
// point offset along the world X axis and measuring the pixel gap to the
// center, so a massive, large-radius body visibly outgrows a speck on
// screen instead of every body reducing to the same single pixel.
func PlotPoint3D(img draw.Image, c color.Color, vp mgl64.Mat4, p mgl64.Vec3, bodyRadius float64) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	x, y, ok := projectToScreen(vp, p, w, h)
	if !ok {
		return
	}
	plotDisc(img, c, x, y, splatRadius(vp, p, bodyRadius, w, h))
}

// splatRadius estimates the on-screen pixel radius of a sphere of
// bodyRadius centered at p, by comparing the projected center against a
// point offset along the world X axis.
func splatRadius(vp mgl64.Mat4, p mgl64.Vec3, bodyRadius float64, w, h int) int {
	if bodyRadius <= 0 {
		return 0
	}
	cx, cy, ok := projectToScreen(vp, p, w, h)
	if !ok {
		return 0
	}
	rim := mgl64.Vec3{p.X() + bodyRadius, p.Y(), p.Z()}
	rx, ry, ok := projectToScreen(vp, rim, w, h)
	if !ok {
		return 0
	}
	r := absInt(rx - cx)
	if dy := absInt(ry - cy); dy > r {
		r = dy
	}
	if r > maxSplatRadius {
		r = maxSplatRadius
	}
	return r
}

// plotDisc fills every pixel within r of (cx,cy) with c. r<=0 paints a
// single pixel.
func plotDisc(img draw.Image, c color.Color, cx, cy, r int) {
	if r <= 0 {
		img.Set(cx, cy, c)
		return
	}
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				img.Set(cx+dx, cy+dy, c)
			}
		}
	}
}

// PlotLine3D projects p1 and p2 through vp and draws the connecting line,
// clipping segments that cross behind the camera's near plane to avoid
// projective blowup.
func PlotLine3D(img draw.Image, c color.Color, vp mgl64.Mat4, p1, p2 mgl64.Vec3) {
	t1 := vp.Mul4x1(p1.Vec4(1))
	t2 := vp.Mul4x1(p2.Vec4(1))

	fix2 := false
	switch {
	case t1[3] <= 0 && t2[3] <= 0:
		return
	case t1[3] < 0:
		lerpWTo0(&t1, &t2)
		t2, t1 = t1, t2
		fix2 = true
	case t2[3] < 0:
		lerpWTo0(&t2, &t1)
		fix2 = true
	}

	t1 = t1.Mul(1 / t1[3])
	t2 = t2.Mul(1 / t2[3])

	x1, y1 := mgl64.GLToScreenCoords(t1.X(), t1.Y(), img.Bounds().Dx(), img.Bounds().Dy())
	x2, y2 := mgl64.GLToScreenCoords(t2.X(), t2.Y(), img.Bounds().Dx(), img.Bounds().Dy())

	if fix2 {
		dx := float64(x1 - x2)
		dy := float64(y1 - y2)
		var tx, ty float64
		switch {
		case dx == 0:
			tx = -1
		case dx < 0:
			tx = lerpParam(float64(img.Bounds().Dx()), float64(x2), float64(x1))
		case dx > 0:
			tx = lerpParam(0, float64(x2), float64(x1))
		}
		switch {
		case dy == 0:
			ty = -1
		case dy < 0:
			ty = lerpParam(float64(img.Bounds().Dy()), float64(y2), float64(y1))
		case dy > 0:
			ty = lerpParam(0, float64(y2), float64(y1))
		}
		t := math.Max(tx, ty)
		x2 += int(t * dx)
		y2 += int(t * dy)
	}
	plotLine(img, c, x1, y1, x2, y2)
}

func lerpWTo0(low, high *mgl64.Vec4) {
	t := (0.1 - low[3]) / (high[3] - low[3])
	low[0] += t * (high[0] - low[0])
	low[1] += t * (high[1] - low[1])
	low[2] += t * (high[2] - low[2])
	low[3] = 0.1
}

func lerpParam(x, low, high float64) float64 {
	return (x - low) / (high - low)
}
