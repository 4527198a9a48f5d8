// Package preview renders scene graphs to small flat-shaded isometric
// thumbnails. Faces are walked through the corner table, so polygon
// meshes render without triangulating first.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/chazu/cornermesh/pkg/scene"
	"golang.org/x/image/draw"
)

// ErrEmpty is returned when a scene graph holds no renderable faces.
var ErrEmpty = errors.New("preview: nothing to render")

// Options controls the output image.
type Options struct {
	// Size is the width and height of the final image in pixels.
	Size int
	// Supersample renders at Size*Supersample and scales down.
	Supersample int
	// Margin is the fraction of Size left empty on each side.
	Margin float64
}

// DefaultOptions returns a 256px, 2x supersampled preview.
func DefaultOptions() Options {
	return Options{Size: 256, Supersample: 2, Margin: 0.05}
}

func (o Options) normalized() Options {
	if o.Size <= 0 {
		o.Size = 256
	}
	if o.Supersample <= 0 {
		o.Supersample = 1
	}
	if o.Margin < 0 || o.Margin >= 0.5 {
		o.Margin = 0.05
	}
	return o
}

// lightDir points from the surface toward the key light.
var lightDir = normalize([3]float64{0.3, 0.6, 1})

const ambient = 0.35

// project maps world coordinates to an isometric view with +Z up. Larger
// depth is closer to the viewer.
func project(p [3]float32) (sx, sy, depth float64) {
	x, y, z := float64(p[0]), float64(p[1]), float64(p[2])
	sx = (y - x) * math.Cos(math.Pi/6)
	sy = (x+y)*math.Sin(math.Pi/6) - z
	return sx, sy, x + y + z
}

type meshPart struct {
	ifs   *scene.IndexedFaceSet
	color [3]float32
}

// Render draws every IndexedFaceSet of g, colored by its shape's diffuse
// material color, and returns the image with a transparent background.
func Render(g *scene.SceneGraph, opts Options) (*image.NRGBA, error) {
	opts = opts.normalized()

	var parts []meshPart
	for _, shape := range g.Shapes() {
		ifs, ok := shape.Geometry.(*scene.IndexedFaceSet)
		if !ok || len(ifs.CoordIndex) == 0 {
			continue
		}
		c := scene.NewMaterial().DiffuseColor
		if shape.Appearance != nil && shape.Appearance.Material != nil {
			c = shape.Appearance.Material.DiffuseColor
		}
		parts = append(parts, meshPart{ifs: ifs, color: c})
	}
	if len(parts) == 0 {
		return nil, ErrEmpty
	}

	// Fit the projected bounds of all coordinates into the frame.
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range parts {
		for iV := 0; iV < p.ifs.NumberOfCoords(); iV++ {
			c, _ := p.ifs.Coordinate(iV)
			sx, sy, _ := project(c)
			minX, maxX = math.Min(minX, sx), math.Max(maxX, sx)
			minY, maxY = math.Min(minY, sy), math.Max(maxY, sy)
		}
	}
	if math.IsInf(minX, 1) {
		return nil, ErrEmpty
	}

	full := opts.Size * opts.Supersample
	extent := math.Max(maxX-minX, maxY-minY)
	scale := 1.0
	if extent > 0 {
		scale = float64(full) * (1 - 2*opts.Margin) / extent
	}
	fb := newFrameBuffer(full, full)
	fb.transform = func(c [3]float32) vertex {
		sx, sy, d := project(c)
		return vertex{
			x: (sx-(minX+maxX)/2)*scale + float64(full)/2,
			y: (sy-(minY+maxY)/2)*scale + float64(full)/2,
			z: d,
		}
	}

	for _, p := range parts {
		if err := fb.drawFaceSet(p.ifs, p.color); err != nil {
			return nil, err
		}
	}

	return downsample(fb.img, opts.Size), nil
}

// downsample scales the premultiplied render to size and converts it to
// non-premultiplied NRGBA.
func downsample(src *image.RGBA, size int) *image.NRGBA {
	scaled := src
	if src.Bounds().Dx() != size {
		scaled = image.NewRGBA(image.Rect(0, 0, size, size))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, src.Bounds(), draw.Src, nil)
	}
	out := image.NewNRGBA(scaled.Bounds())
	draw.Draw(out, out.Bounds(), scaled, image.Point{}, draw.Src)
	return out
}

func shade(c [3]float32, n [3]float64) color.RGBA {
	s := ambient + (1-ambient)*math.Abs(dot(n, lightDir))
	ch := func(v float32) uint8 {
		x := float64(v) * s * 255
		if x > 255 {
			x = 255
		}
		if x < 0 {
			x = 0
		}
		return uint8(x + 0.5)
	}
	return color.RGBA{R: ch(c[0]), G: ch(c[1]), B: ch(c[2]), A: 255}
}

func dot(a, b [3]float64) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

func normalize(v [3]float64) [3]float64 {
	l := math.Sqrt(dot(v, v))
	if l < 1e-12 {
		return [3]float64{}
	}
	return [3]float64{v[0] / l, v[1] / l, v[2] / l}
}

// faceNormal is the normalized cross product of the first two edges.
func faceNormal(a, b, c [3]float32) [3]float64 {
	e1 := [3]float64{float64(b[0] - a[0]), float64(b[1] - a[1]), float64(b[2] - a[2])}
	e2 := [3]float64{float64(c[0] - a[0]), float64(c[1] - a[1]), float64(c[2] - a[2])}
	return normalize([3]float64{
		e1[1]*e2[2] - e1[2]*e2[1],
		e1[2]*e2[0] - e1[0]*e2[2],
		e1[0]*e2[1] - e1[1]*e2[0],
	})
}

func wrapCoordErr(iF int, err error) error {
	return fmt.Errorf("preview: face %d: %w", iF, err)
}
