package render

import (
	"errors"
	"fmt"
	"image/png"
	"io"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/pointmesh/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// PreviewConfig controls the camera and styling of PNG previews.
type PreviewConfig struct {
	Width, Height int // output size in pixels
	Supersample   int // render at this multiple of the output size, then downsample
	// PointSize is the side of the cube drawn for each point in model units.
	// Zero picks 1/100th of the cloud's bounding box diagonal.
	PointSize float64
	// Camera settings. The cloud is fit in a bi-unit cube centered at the
	// origin before drawing.
	Eye, LookAt, Up r3.Vec
	FOVY, Near, Far float64

	PointColor, EdgeColor, Background string // hex colors
}

// DefaultPreview returns an 800x600 isometric view.
func DefaultPreview() PreviewConfig {
	return PreviewConfig{
		Width:       800,
		Height:      600,
		Supersample: 2,
		Eye:         d3.Elem(3),
		Up:          r3.Vec{Z: 1},
		FOVY:        30,
		Near:        1,
		Far:         10,
		PointColor:  "#468966",
		EdgeColor:   "#B64926",
		Background:  "#FFF8E3",
	}
}

// PNG renders pts as small shaded cubes and edges as lines between them
// and writes the image to w in PNG format.
func PNG(w io.Writer, pts []r3.Vec, edges [][2]int, cfg PreviewConfig) error {
	if len(pts) == 0 {
		return errors.New("no points to render")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("invalid preview size %dx%d", cfg.Width, cfg.Height)
	}
	scale := cfg.Supersample
	if scale < 1 {
		scale = 1
	}
	size := cfg.PointSize
	if size <= 0 {
		size = r3.Norm(d3.Set(pts).Bounds().Size()) / 100
		if size == 0 {
			size = 1 // single point or coincident cloud.
		}
	}

	mesh := fauxgl.NewEmptyMesh()
	half := fauxgl.V(size/2, size/2, size/2)
	for _, p := range pts {
		cube := fauxgl.NewCube()
		cube.Transform(fauxgl.Scale(half).Translate(fauxgl.V(p.X, p.Y, p.Z)))
		mesh.Add(cube)
	}
	for _, e := range edges {
		if e[0] < 0 || e[1] < 0 || e[0] >= len(pts) || e[1] >= len(pts) {
			return fmt.Errorf("edge %v references point outside of %d", e, len(pts))
		}
		a, b := pts[e[0]], pts[e[1]]
		mesh.Lines = append(mesh.Lines, fauxgl.NewLineForPoints(fauxgl.V(a.X, a.Y, a.Z), fauxgl.V(b.X, b.Y, b.Z)))
	}
	mesh.BiUnitCube()

	var (
		eye    = fauxgl.V(cfg.Eye.X, cfg.Eye.Y, cfg.Eye.Z)
		center = fauxgl.V(cfg.LookAt.X, cfg.LookAt.Y, cfg.LookAt.Z)
		up     = fauxgl.V(cfg.Up.X, cfg.Up.Y, cfg.Up.Z)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
	)
	context := fauxgl.NewContext(cfg.Width*scale, cfg.Height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor(cfg.Background))
	aspect := float64(cfg.Width) / float64(cfg.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(cfg.FOVY, aspect, cfg.Near, cfg.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.HexColor(cfg.PointColor)
	context.Shader = shader
	context.DrawTriangles(mesh.Triangles)
	if len(mesh.Lines) > 0 {
		context.Shader = fauxgl.NewSolidColorShader(matrix, fauxgl.HexColor(cfg.EdgeColor))
		context.DrawLines(mesh.Lines)
	}
	// downsample image for antialiasing
	image := resize.Resize(uint(cfg.Width), uint(cfg.Height), context.Image(), resize.Bilinear)
	return png.Encode(w, image)
}
