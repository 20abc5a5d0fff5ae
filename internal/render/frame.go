package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/orrery-sim/octree-nbody/internal/body"
	"github.com/orrery-sim/octree-nbody/internal/spatial"
)

// Job is one frame's worth of rasterization work.
type Job struct {
	Frame  int
	Bodies []*body.Body
}

// Stat holds the mass-weighted average, minimum, and maximum of one axis
// across a body set.
type Stat struct {
	Avg, Min, Max float64
}

// CalculateStats returns per-axis mass-weighted average and extent.
func CalculateStats(bodies []*body.Body) (stats [3]Stat) {
	for i := range stats {
		stats[i].Min = math.Inf(1)
		stats[i].Max = math.Inf(-1)
	}

	summass := 0.0
	for _, b := range bodies {
		summass += b.Mass
	}

	for _, b := range bodies {
		p := [3]float64{b.Pos.X, b.Pos.Y, b.Pos.Z}
		for i := range stats {
			stats[i].Avg += p[i] * b.Mass
			stats[i].Min = math.Min(stats[i].Min, p[i])
			stats[i].Max = math.Max(stats[i].Max, p[i])
		}
	}
	for i := range stats {
		stats[i].Avg /= summass
	}
	return
}

// boundCorners returns the 8 corners of b in the fixed vertex order
// RenderFrame's wireframe edge table expects.
func boundCorners(b spatial.AABB) [8]mgl64.Vec3 {
	mn, mx := b.Min(), b.Max()
	var out [8]mgl64.Vec3
	for i := 0; i < 8; i++ {
		x, y, z := mn.X, mn.Y, mn.Z
		if i&4 != 0 {
			x = mx.X
		}
		if i&2 != 0 {
			y = mx.Y
		}
		if i&1 != 0 {
			z = mx.Z
		}
		out[i] = mgl64.Vec3{x, y, z}
	}
	return out
}

var edgeOrder = [12][2]uint8{
	{0, 1}, {2, 3}, {4, 5}, {6, 7},
	{0, 2}, {1, 3}, {4, 6}, {5, 7},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// Renderer draws frames against a fixed camera and simulation bound,
// writing one PNG per frame into outDir.
type Renderer struct {
	cam    Camera
	bound  spatial.AABB
	outDir string
	bg     *image.RGBA
}

// NewRenderer prepares a renderer for the given simulation bound,
// writing PNGs into outDir (created if missing).
func NewRenderer(bound spatial.AABB, outDir string) (*Renderer, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("render: create output dir: %w", err)
	}
	return &Renderer{
		cam:    NewCamera(),
		bound:  bound,
		outDir: outDir,
		bg:     image.NewRGBA(image.Rect(0, 0, Width, Height)),
	}, nil
}

// drawBackground redraws the axis/bound wireframe for the given rotated
// view-projection matrix.
func (r *Renderer) drawBackground(rvp mgl64.Mat4) {
	greybg := image.NewUniform(color.Black)
	draw.Draw(r.bg, r.bg.Bounds(), greybg, image.Point{}, draw.Src)

	zero := mgl64.Vec3{}
	PlotLine3D(r.bg, Red, rvp, zero, mgl64.Vec3{AxisLength, 0, 0})
	PlotLine3D(r.bg, Green, rvp, zero, mgl64.Vec3{0, AxisLength, 0})
	PlotLine3D(r.bg, Blue, rvp, zero, mgl64.Vec3{0, 0, AxisLength})

	corners := boundCorners(r.bound)
	for _, e := range edgeOrder {
		PlotLine3D(r.bg, Gray, rvp, corners[e[0]], corners[e[1]])
	}
}

// RenderFrame rasterizes job to a PNG file in the renderer's output
// directory, returning the written path.
func (r *Renderer) RenderFrame(job Job) (string, error) {
	sort.Slice(job.Bodies, func(i, j int) bool {
		return job.Bodies[i].Mass < job.Bodies[j].Mass
	})

	rvp := r.cam.RotatedY(float64(job.Frame) / 4)
	r.drawBackground(rvp)

	film := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(film, film.Bounds(), r.bg, image.Point{}, draw.Src)

	for _, b := range job.Bodies {
		world := b.Pos.ToMgl64()
		col := MassColor(b.Mass)
		if b.Mass >= 1e9 {
			tail := b.Pos.Sub(b.Vel.Scale(60 * 60 * 4)).ToMgl64()
			PlotLine3D(film, col, rvp, world, tail)
		} else {
			PlotPoint3D(film, col, rvp, world, b.Radius)
		}
	}

	path := fmt.Sprintf("%s/%010d.png", r.outDir, job.Frame)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("render: create frame file: %w", err)
	}
	defer file.Close()
	if err := png.Encode(file, film); err != nil {
		return "", fmt.Errorf("render: encode frame png: %w", err)
	}
	return path, nil
}
