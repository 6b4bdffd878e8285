// Package mesh builds the subdivided plane the heat field is drawn on.
package mesh

const (
	// FrustumHeight is the world-space height of the plane. The camera sits
	// 5 units away with a 75° field of view, so 8 units overfill the view.
	FrustumHeight = 8
	// Segments is the subdivision along each axis.
	Segments = 128
)

// Plane is a grid in the XY plane centered on the origin, facing +Z.
// Vertices are laid out row by row from the top-left corner.
type Plane struct {
	Width, Height        float32
	SegmentsX, SegmentsY int

	Positions []float32 // xyz per vertex
	UVs       []float32 // uv per vertex, v = 1 on the top row
	Indices   []uint32
}

// NewPlane builds a width × height plane split into segX × segY cells.
func NewPlane(width, height float32, segX, segY int) *Plane {
	if segX < 1 {
		segX = 1
	}
	if segY < 1 {
		segY = 1
	}
	gridX1, gridY1 := segX+1, segY+1
	segW := width / float32(segX)
	segH := height / float32(segY)

	p := &Plane{
		Width:     width,
		Height:    height,
		SegmentsX: segX,
		SegmentsY: segY,
		Positions: make([]float32, 0, gridX1*gridY1*3),
		UVs:       make([]float32, 0, gridX1*gridY1*2),
		Indices:   make([]uint32, 0, segX*segY*6),
	}

	for iy := 0; iy < gridY1; iy++ {
		y := float32(iy)*segH - height/2
		for ix := 0; ix < gridX1; ix++ {
			x := float32(ix)*segW - width/2
			p.Positions = append(p.Positions, x, -y, 0)
			p.UVs = append(p.UVs, float32(ix)/float32(segX), 1-float32(iy)/float32(segY))
		}
	}

	for iy := 0; iy < segY; iy++ {
		for ix := 0; ix < segX; ix++ {
			a := uint32(ix + gridX1*iy)
			b := uint32(ix + gridX1*(iy+1))
			c := uint32(ix + 1 + gridX1*(iy+1))
			d := uint32(ix + 1 + gridX1*iy)
			p.Indices = append(p.Indices, a, b, d, b, c, d)
		}
	}
	return p
}

// ForAspect returns the plane that covers the frustum at the given aspect
// ratio: aspect*FrustumHeight wide and FrustumHeight tall.
func ForAspect(aspect float32) *Plane {
	return NewPlane(aspect*FrustumHeight, FrustumHeight, Segments, Segments)
}

// VertexCount is the number of vertices in the grid.
func (p *Plane) VertexCount() int {
	return len(p.Positions) / 3
}

// Extent measures the plane from its vertices.
func (p *Plane) Extent() (width, height float32) {
	if len(p.Positions) == 0 {
		return 0, 0
	}
	minX, maxX := p.Positions[0], p.Positions[0]
	minY, maxY := p.Positions[1], p.Positions[1]
	for i := 0; i < len(p.Positions); i += 3 {
		x, y := p.Positions[i], p.Positions[i+1]
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}
	return maxX - minX, maxY - minY
}
