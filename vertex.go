package blit

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"
)

// VertexStride is the byte stride of one vertex in the vertex buffer.
// Layout per vertex:
//
//	position   (vec3<f32>) = 12 bytes  (location 0, offset 0)
//	tex_coords (vec2<f32>) =  8 bytes  (location 1, offset 12)
//
// Total = 20 bytes per vertex.
const VertexStride = 20

const texCoordsOffset = 12

// Vertex is one record of the caller's vertex buffer. Position is consumed
// as clip coordinates with an implicit w of 1.
type Vertex struct {
	Position  f32.Vec3
	TexCoords f32.Vec2
}

// Put writes the vertex into buf in the little-endian wire layout.
// buf must hold at least VertexStride bytes.
func (v Vertex) Put(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(v.TexCoords[0]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(v.TexCoords[1]))
}

// EncodeVertices serializes vertices into a buffer ready for upload.
func EncodeVertices(vertices []Vertex) []byte {
	buf := make([]byte, len(vertices)*VertexStride)
	for i, v := range vertices {
		v.Put(buf[i*VertexStride:])
	}
	return buf
}

// DecodeVertices parses a vertex buffer in the wire layout.
func DecodeVertices(data []byte) ([]Vertex, error) {
	if len(data)%VertexStride != 0 {
		return nil, fmt.Errorf("blit: vertex data length %d is not a multiple of %d", len(data), VertexStride)
	}
	out := make([]Vertex, len(data)/VertexStride)
	for i := range out {
		rec := data[i*VertexStride:]
		f := func(off int) float32 {
			return math.Float32frombits(binary.LittleEndian.Uint32(rec[off : off+4]))
		}
		out[i] = Vertex{
			Position:  f32.Vec3{f(0), f(4), f(8)},
			TexCoords: f32.Vec2{f(12), f(16)},
		}
	}
	return out, nil
}

// VertexLayout returns the vertex buffer layout of the pass.
func VertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: VertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: PositionLocation},
				{Format: gputypes.VertexFormatFloat32x2, Offset: texCoordsOffset, ShaderLocation: TexCoordsLocation},
			},
		},
	}
}

// FullscreenTriangle returns a single triangle covering clip space
// [-1,1]x[-1,1]. Texture coordinates span [0,0]-[2,2] over the whole
// triangle so the visible region maps to [0,1] with (0,0) at the top-left.
// Draw with TopologyTriangleList.
func FullscreenTriangle() []Vertex {
	return []Vertex{
		{Position: f32.Vec3{-1, 1, 0}, TexCoords: f32.Vec2{0, 0}},
		{Position: f32.Vec3{3, 1, 0}, TexCoords: f32.Vec2{2, 0}},
		{Position: f32.Vec3{-1, -3, 0}, TexCoords: f32.Vec2{0, 2}},
	}
}

// FullscreenQuad returns four vertices forming a full-viewport quad as a
// triangle strip, with image (0,0) at the top-left of the target.
// Draw with TopologyTriangleStrip.
func FullscreenQuad() []Vertex {
	return []Vertex{
		{Position: f32.Vec3{-1, 1, 0}, TexCoords: f32.Vec2{0, 0}},
		{Position: f32.Vec3{-1, -1, 0}, TexCoords: f32.Vec2{0, 1}},
		{Position: f32.Vec3{1, 1, 0}, TexCoords: f32.Vec2{1, 0}},
		{Position: f32.Vec3{1, -1, 0}, TexCoords: f32.Vec2{1, 1}},
	}
}

// FullscreenQuadFlipped is FullscreenQuad with the image upside down: row 0
// of the image lands at the bottom of the target. Use it for frames written
// bottom-up, as ray tracers usually do.
func FullscreenQuadFlipped() []Vertex {
	return []Vertex{
		{Position: f32.Vec3{-1, 1, 0}, TexCoords: f32.Vec2{0, 1}},
		{Position: f32.Vec3{-1, -1, 0}, TexCoords: f32.Vec2{0, 0}},
		{Position: f32.Vec3{1, 1, 0}, TexCoords: f32.Vec2{1, 1}},
		{Position: f32.Vec3{1, -1, 0}, TexCoords: f32.Vec2{1, 0}},
	}
}

// Topology selects how vertices are assembled into triangles.
type Topology uint8

const (
	// TopologyTriangleStrip assembles vertices i, i+1, i+2 for every i.
	TopologyTriangleStrip Topology = iota

	// TopologyTriangleList assembles each consecutive group of three.
	TopologyTriangleList
)

// String returns the WebGPU name of the topology.
func (t Topology) String() string {
	switch t {
	case TopologyTriangleStrip:
		return "triangle-strip"
	case TopologyTriangleList:
		return "triangle-list"
	default:
		return fmt.Sprintf("Topology(%d)", uint8(t))
	}
}

// Primitive returns the gputypes primitive topology.
func (t Topology) Primitive() gputypes.PrimitiveTopology {
	if t == TopologyTriangleList {
		return gputypes.PrimitiveTopologyTriangleList
	}
	return gputypes.PrimitiveTopologyTriangleStrip
}

// Triangles returns the number of triangles n vertices produce.
func (t Topology) Triangles(n int) int {
	switch {
	case n < 3:
		return 0
	case t == TopologyTriangleList:
		return n / 3
	default:
		return n - 2
	}
}

// ValidateCount reports whether n vertices form whole primitives.
func (t Topology) ValidateCount(n int) error {
	if n < 3 {
		return fmt.Errorf("%w: %d vertices, need at least 3", ErrInvalidVertexCount, n)
	}
	if t == TopologyTriangleList && n%3 != 0 {
		return fmt.Errorf("%w: %d vertices is not a multiple of 3 for %s", ErrInvalidVertexCount, n, t)
	}
	if t != TopologyTriangleList && t != TopologyTriangleStrip {
		return fmt.Errorf("%w: unknown topology %s", ErrInvalidVertexCount, t)
	}
	return nil
}

// ParseTopology parses "triangle-list", "triangle-strip" and the short
// forms "triangle" and "quad".
func ParseTopology(name string) (Topology, error) {
	switch name {
	case "triangle-list", "triangle", "list":
		return TopologyTriangleList, nil
	case "triangle-strip", "quad", "strip":
		return TopologyTriangleStrip, nil
	}
	return 0, fmt.Errorf("blit: unknown topology %q", name)
}

// FullscreenVertices returns the full-viewport geometry for t.
func FullscreenVertices(t Topology, flipY bool) []Vertex {
	if t == TopologyTriangleList {
		vs := FullscreenTriangle()
		if flipY {
			for i := range vs {
				vs[i].TexCoords[1] = 1 - vs[i].TexCoords[1]
			}
		}
		return vs
	}
	if flipY {
		return FullscreenQuadFlipped()
	}
	return FullscreenQuad()
}
