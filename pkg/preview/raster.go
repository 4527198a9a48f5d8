package preview

import (
	"image"
	"image/color"
	"math"

	"github.com/chazu/cornermesh/pkg/scene"
)

type vertex struct{ x, y, z float64 }

// frameBuffer is a premultiplied color target with a depth buffer
// initialized to -inf.
type frameBuffer struct {
	img       *image.RGBA
	zbuf      []float64
	transform func([3]float32) vertex
}

func newFrameBuffer(w, h int) *frameBuffer {
	zbuf := make([]float64, w*h)
	for i := range zbuf {
		zbuf[i] = math.Inf(-1)
	}
	return &frameBuffer{img: image.NewRGBA(image.Rect(0, 0, w, h)), zbuf: zbuf}
}

// drawFaceSet fans every face of ifs from its first corner. Faces with
// fewer than three vertices are skipped.
func (fb *frameBuffer) drawFaceSet(ifs *scene.IndexedFaceSet, base [3]float32) error {
	f, err := ifs.Faces()
	if err != nil {
		return err
	}
	for iF := 0; iF < f.NumberOfFaces(); iF++ {
		ring, err := f.FaceCorners(iF)
		if err != nil {
			return wrapCoordErr(iF, err)
		}
		if len(ring) < 3 {
			continue
		}
		pts := make([][3]float32, len(ring))
		for i, iC := range ring {
			iV, err := f.CornerVertex(iC)
			if err != nil {
				return wrapCoordErr(iF, err)
			}
			if pts[i], err = ifs.Coordinate(iV); err != nil {
				return wrapCoordErr(iF, err)
			}
		}
		c := shade(base, faceNormal(pts[0], pts[1], pts[2]))
		v0 := fb.transform(pts[0])
		for i := 1; i+1 < len(pts); i++ {
			fb.triangle(v0, fb.transform(pts[i]), fb.transform(pts[i+1]), c)
		}
	}
	return nil
}

// triangle rasterizes one triangle at pixel centers with a depth test.
func (fb *frameBuffer) triangle(p0, p1, p2 vertex, c color.RGBA) {
	b := fb.img.Bounds()
	w := b.Dx()

	minX := max(0, int(math.Floor(min(p0.x, p1.x, p2.x))))
	maxX := min(b.Max.X-1, int(math.Ceil(max(p0.x, p1.x, p2.x))))
	minY := max(0, int(math.Floor(min(p0.y, p1.y, p2.y))))
	maxY := min(b.Max.Y-1, int(math.Ceil(max(p0.y, p1.y, p2.y))))
	if minX > maxX || minY > maxY {
		return
	}

	e1x, e1y := p1.x-p0.x, p1.y-p0.y
	e2x, e2y := p2.x-p0.x, p2.y-p0.y
	det := e1x*e2y - e2x*e1y
	if math.Abs(det) < 1e-12 {
		return
	}
	inv := 1 / det

	for y := minY; y <= maxY; y++ {
		dy := float64(y) + 0.5 - p0.y
		for x := minX; x <= maxX; x++ {
			dx := float64(x) + 0.5 - p0.x
			w1 := (dx*e2y - e2x*dy) * inv
			w2 := (e1x*dy - dx*e1y) * inv
			w0 := 1 - w1 - w2
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*p0.z + w1*p1.z + w2*p2.z
			i := y*w + x
			if z <= fb.zbuf[i] {
				continue
			}
			fb.zbuf[i] = z
			fb.img.SetRGBA(x, y, c)
		}
	}
}
