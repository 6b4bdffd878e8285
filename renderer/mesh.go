package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/heatsurface/mesh"
)

// Mesh is a plane uploaded to the GPU.
type Mesh struct {
	vao        uint32
	vbos       [2]uint32
	ebo        uint32
	indexCount int32
}

func NewMesh(p *mesh.Plane) (*Mesh, error) {
	if len(p.Indices) == 0 {
		return nil, fmt.Errorf("mesh has no triangles")
	}

	m := &Mesh{indexCount: int32(len(p.Indices))}
	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(2, &m.vbos[0])
	gl.GenBuffers(1, &m.ebo)

	gl.BindVertexArray(m.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbos[0])
	gl.BufferData(gl.ARRAY_BUFFER, len(p.Positions)*4, gl.Ptr(p.Positions), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(positionLocation)
	gl.VertexAttribPointer(positionLocation, 3, gl.FLOAT, false, 3*4, gl.PtrOffset(0))

	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbos[1])
	gl.BufferData(gl.ARRAY_BUFFER, len(p.UVs)*4, gl.Ptr(p.UVs), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(uvLocation)
	gl.VertexAttribPointer(uvLocation, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(p.Indices)*4, gl.Ptr(p.Indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)

	return m, nil
}

func (m *Mesh) draw() {
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)
}

func (m *Mesh) Release() {
	if m.vao == 0 {
		return
	}
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(2, &m.vbos[0])
	gl.DeleteBuffers(1, &m.ebo)
	m.vao = 0
}
