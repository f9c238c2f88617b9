package game

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

const (
	discVertices = 8
	discIndices  = (discVertices - 2) * 3
	// boidSize is the disc radius in world units.
	boidSize = 0.0025
	// minRadius keeps boids visible on small windows.
	minRadius = 1.2
	// boidsPerBatch keeps every vertex index within uint16.
	boidsPerBatch = (math.MaxUint16 + 1) / discVertices
)

var (
	backgroundColor = color.RGBA{R: 26, G: 51, B: 77, A: 255}
	boidR, boidG, boidB float32 = 0.5, 0, 0.5

	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// unitDisc holds the rim offsets of a disc of radius 1.
var unitDisc = func() (d [discVertices][2]float32) {
	for i := range d {
		angle := 2 * math.Pi / discVertices * float64(i)
		d[i] = [2]float32{float32(math.Cos(angle)), float32(math.Sin(angle))}
	}
	return d
}()

// mesh turns boid positions into filled 8-sided discs.
// Buffers are kept between frames so steady-state drawing does not allocate.
type mesh struct {
	vertices []ebiten.Vertex
	indices  []uint16
	op       ebiten.DrawTrianglesOptions
}

func newMesh() *mesh {
	return &mesh{
		vertices: make([]ebiten.Vertex, 0, boidsPerBatch*discVertices),
		indices:  make([]uint16, 0, boidsPerBatch*discIndices),
	}
}

// viewport maps world coordinates, y up, onto the largest centered square of
// a w x h screen, y down.
type viewport struct {
	cx, cy, scale float32
}

func newViewport(w, h int) viewport {
	return viewport{
		cx:    float32(w) / 2,
		cy:    float32(h) / 2,
		scale: float32(min(w, h)) / 2,
	}
}

func (v viewport) project(p geometry.Vector2D) (float32, float32) {
	return v.cx + p.X*v.scale, v.cy - p.Y*v.scale
}

func (m *mesh) draw(screen *ebiten.Image, positions []geometry.Vector2D) {
	b := screen.Bounds()
	vp := newViewport(b.Dx(), b.Dy())
	radius := max(float32(boidSize)*vp.scale, minRadius)

	for start := 0; start < len(positions); start += boidsPerBatch {
		end := min(start+boidsPerBatch, len(positions))
		m.vertices = m.vertices[:0]
		m.indices = m.indices[:0]
		for _, p := range positions[start:end] {
			m.appendDisc(vp, p, radius)
		}
		screen.DrawTriangles(m.vertices, m.indices, whiteSubImage, &m.op)
	}
}

func (m *mesh) appendDisc(vp viewport, p geometry.Vector2D, radius float32) {
	base := uint16(len(m.vertices))
	x, y := vp.project(p)
	for _, d := range unitDisc {
		m.vertices = append(m.vertices, ebiten.Vertex{
			DstX:   x + d[0]*radius,
			DstY:   y + d[1]*radius,
			SrcX:   1,
			SrcY:   1,
			ColorR: boidR,
			ColorG: boidG,
			ColorB: boidB,
			ColorA: 1,
		})
	}
	// Triangle fan around the first rim vertex.
	for i := uint16(0); i < discVertices-2; i++ {
		m.indices = append(m.indices, base, base+i+1, base+i+2)
	}
}
