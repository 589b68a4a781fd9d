package blit

import (
	"errors"
	"testing"

	"golang.org/x/image/math/f32"
)

func TestVertexWireLayout(t *testing.T) {
	v := Vertex{Position: f32.Vec3{-1, 0.5, 0.25}, TexCoords: f32.Vec2{0.75, 1}}
	data := EncodeVertices([]Vertex{v, FullscreenQuad()[3]})
	if len(data) != 2*VertexStride {
		t.Fatalf("encoded %d bytes, want %d", len(data), 2*VertexStride)
	}
	// 1.0f little-endian at tex_coords.y of the first record.
	if got := data[16:20]; got[0] != 0 || got[1] != 0 || got[2] != 0x80 || got[3] != 0x3f {
		t.Errorf("tex_coords.y bytes = % x, want 00 00 80 3f", got)
	}

	got, err := DecodeVertices(data)
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != v || got[1] != FullscreenQuad()[3] {
		t.Errorf("decoded %v, want %v and %v", got, v, FullscreenQuad()[3])
	}
	if _, err := DecodeVertices(data[:VertexStride+1]); err == nil {
		t.Error("DecodeVertices accepted a partial record")
	}
}

func TestVertexLayoutMatchesContract(t *testing.T) {
	layout := VertexLayout()
	if len(layout) != 1 || layout[0].ArrayStride != VertexStride {
		t.Fatalf("layout = %+v", layout)
	}
	attrs := layout[0].Attributes
	if len(attrs) != 2 {
		t.Fatalf("%d attributes, want 2", len(attrs))
	}
	if attrs[0].ShaderLocation != PositionLocation || attrs[0].Offset != 0 {
		t.Errorf("position attribute = %+v", attrs[0])
	}
	if attrs[1].ShaderLocation != TexCoordsLocation || attrs[1].Offset != texCoordsOffset {
		t.Errorf("tex_coords attribute = %+v", attrs[1])
	}
}

func TestTopologyValidateCount(t *testing.T) {
	tests := []struct {
		topology Topology
		n        int
		ok       bool
	}{
		{TopologyTriangleStrip, 4, true},
		{TopologyTriangleStrip, 3, true},
		{TopologyTriangleStrip, 5, true},
		{TopologyTriangleStrip, 2, false},
		{TopologyTriangleList, 3, true},
		{TopologyTriangleList, 6, true},
		{TopologyTriangleList, 4, false},
		{TopologyTriangleList, 0, false},
		{Topology(9), 3, false},
	}
	for _, tt := range tests {
		err := tt.topology.ValidateCount(tt.n)
		if (err == nil) != tt.ok {
			t.Errorf("%s with %d vertices: err = %v, want ok=%v", tt.topology, tt.n, err, tt.ok)
		}
		if err != nil && !errors.Is(err, ErrInvalidVertexCount) {
			t.Errorf("%s with %d vertices: %v is not ErrInvalidVertexCount", tt.topology, tt.n, err)
		}
	}
}

func TestTopologyTriangles(t *testing.T) {
	if got := TopologyTriangleStrip.Triangles(4); got != 2 {
		t.Errorf("strip of 4 = %d triangles, want 2", got)
	}
	if got := TopologyTriangleList.Triangles(7); got != 2 {
		t.Errorf("list of 7 = %d triangles, want 2", got)
	}
	if got := TopologyTriangleList.Triangles(2); got != 0 {
		t.Errorf("list of 2 = %d triangles, want 0", got)
	}
}

func TestParseTopology(t *testing.T) {
	for name, want := range map[string]Topology{
		"triangle-strip": TopologyTriangleStrip,
		"quad":           TopologyTriangleStrip,
		"triangle-list":  TopologyTriangleList,
		"triangle":       TopologyTriangleList,
	} {
		got, err := ParseTopology(name)
		if err != nil || got != want {
			t.Errorf("ParseTopology(%q) = %s, %v; want %s", name, got, err, want)
		}
	}
	if _, err := ParseTopology("point-list"); err == nil {
		t.Error("ParseTopology accepted point-list")
	}
	if got := Topology(7).String(); got != "Topology(7)" {
		t.Errorf("unknown topology String() = %q", got)
	}
}

func TestFullscreenVerticesFlipY(t *testing.T) {
	quad := FullscreenVertices(TopologyTriangleStrip, true)
	if quad[0].Position != (f32.Vec3{-1, 1, 0}) || quad[0].TexCoords != (f32.Vec2{0, 1}) {
		t.Errorf("flipped quad top-left = %+v, want uv (0,1)", quad[0])
	}

	tri := FullscreenVertices(TopologyTriangleList, true)
	plain := FullscreenTriangle()
	for i := range tri {
		if tri[i].Position != plain[i].Position {
			t.Errorf("vertex %d moved: %v", i, tri[i].Position)
		}
		if want := 1 - plain[i].TexCoords[1]; tri[i].TexCoords[1] != want {
			t.Errorf("vertex %d v = %v, want %v", i, tri[i].TexCoords[1], want)
		}
	}
	if FullscreenTriangle()[2].TexCoords[1] != 2 {
		t.Error("flipping modified the shared triangle")
	}
}
