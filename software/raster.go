package software

import (
	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/blit"
)

// screenVertex is a vertex after perspective divide and viewport mapping.
// Varyings are stored pre-divided by w for perspective-correct
// interpolation.
type screenVertex struct {
	x, y, z float32
	invW    float32
	uvOverW f32.Vec2
}

// toScreen maps a vertex stage output into a width x height viewport with
// (0,0) at the top-left corner. Vertices with w <= 0 lie behind the eye and
// are rejected.
func toScreen(o VertexOutput, width, height int) (screenVertex, bool) {
	w := o.ClipPosition[3]
	if !(w > 0) {
		return screenVertex{}, false
	}
	invW := 1 / w
	ndcX := o.ClipPosition[0] * invW
	ndcY := o.ClipPosition[1] * invW
	return screenVertex{
		x:       (ndcX + 1) * 0.5 * float32(width),
		y:       (1 - ndcY) * 0.5 * float32(height),
		z:       o.ClipPosition[2] * invW,
		invW:    invW,
		uvOverW: f32.Vec2{o.TexCoords[0] * invW, o.TexCoords[1] * invW},
	}, true
}

// triangle is a setup triangle with positive screen area.
type triangle struct {
	v    [3]screenVertex
	area float32

	// Bounding box in pixels, inclusive of minX/minY and exclusive of
	// maxX/maxY, already clipped to the viewport.
	minX, minY, maxX, maxY int
}

// edge returns twice the signed area of (a, b, p). It is positive when p
// lies to the right of a→b in y-down screen space.
func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// isTopLeft reports whether a→b is a top or left edge of a positive-area
// triangle. Pixel centres exactly on such an edge belong to the triangle.
func isTopLeft(a, b screenVertex) bool {
	dx, dy := b.x-a.x, b.y-a.y
	return dy < 0 || (dy == 0 && dx > 0)
}

// setupTriangle orders the vertices for positive area and computes the
// viewport-clipped bounding box. Degenerate and off-screen triangles are
// rejected.
func setupTriangle(a, b, c screenVertex, width, height int) (triangle, bool) {
	area := edge(a.x, a.y, b.x, b.y, c.x, c.y)
	if area == 0 || math32.IsNaN(area) {
		return triangle{}, false
	}
	if area < 0 {
		b, c = c, b
		area = -area
	}
	t := triangle{v: [3]screenVertex{a, b, c}, area: area}

	minX := math32.Min(a.x, math32.Min(b.x, c.x))
	maxX := math32.Max(a.x, math32.Max(b.x, c.x))
	minY := math32.Min(a.y, math32.Min(b.y, c.y))
	maxY := math32.Max(a.y, math32.Max(b.y, c.y))

	// Pixel (px, py) is sampled at its centre (px+0.5, py+0.5).
	t.minX = max(int(math32.Floor(minX-0.5)), 0)
	t.minY = max(int(math32.Floor(minY-0.5)), 0)
	t.maxX = min(int(math32.Floor(maxX+0.5))+1, width)
	t.maxY = min(int(math32.Floor(maxY+0.5))+1, height)
	if t.minX >= t.maxX || t.minY >= t.maxY {
		return triangle{}, false
	}
	return t, true
}

// weights returns the unnormalized barycentric weights of point (px, py).
// w0 is opposite v0, w1 opposite v1, w2 opposite v2; they sum to area.
func (t *triangle) weights(px, py float32) (w0, w1, w2 float32) {
	v0, v1, v2 := t.v[0], t.v[1], t.v[2]
	w0 = edge(v1.x, v1.y, v2.x, v2.y, px, py)
	w1 = edge(v2.x, v2.y, v0.x, v0.y, px, py)
	w2 = edge(v0.x, v0.y, v1.x, v1.y, px, py)
	return w0, w1, w2
}

// covers applies the top-left fill rule to the weights of a pixel centre.
func (t *triangle) covers(w0, w1, w2 float32) bool {
	inside := func(w float32, a, b screenVertex) bool {
		return w > 0 || (w == 0 && isTopLeft(a, b))
	}
	return inside(w0, t.v[1], t.v[2]) &&
		inside(w1, t.v[2], t.v[0]) &&
		inside(w2, t.v[0], t.v[1])
}

// interpolate returns the depth and the perspective-correct texture
// coordinates at barycentric weights (w0, w1, w2). Depth is interpolated
// linearly in screen space, as WebGPU requires.
func (t *triangle) interpolate(w0, w1, w2 float32) (z float32, uv f32.Vec2) {
	b0, b1, b2 := w0/t.area, w1/t.area, w2/t.area
	v0, v1, v2 := &t.v[0], &t.v[1], &t.v[2]

	z = b0*v0.z + b1*v1.z + b2*v2.z
	invW := b0*v0.invW + b1*v1.invW + b2*v2.invW
	u := b0*v0.uvOverW[0] + b1*v1.uvOverW[0] + b2*v2.uvOverW[0]
	v := b0*v0.uvOverW[1] + b1*v1.uvOverW[1] + b2*v2.uvOverW[1]
	return z, f32.Vec2{u / invW, v / invW}
}

// texCoordsAt returns the interpolated texture coordinates at any point,
// inside the triangle or not. Used for derivatives.
func (t *triangle) texCoordsAt(px, py float32) f32.Vec2 {
	w0, w1, w2 := t.weights(px, py)
	_, uv := t.interpolate(w0, w1, w2)
	return uv
}

// fragmentFunc shades one covered pixel.
type fragmentFunc func(x, y int, in FragmentInput)

// rasterize calls shade for every pixel in rows [y0, y1) whose centre the
// triangle covers and whose depth lies in [0, 1]. Rows are visited top to
// bottom and pixels left to right.
func (t *triangle) rasterize(y0, y1 int, img *Texture, shade fragmentFunc) {
	y0 = max(y0, t.minY)
	y1 = min(y1, t.maxY)
	for py := y0; py < y1; py++ {
		cy := float32(py) + 0.5
		for px := t.minX; px < t.maxX; px++ {
			cx := float32(px) + 0.5
			w0, w1, w2 := t.weights(cx, cy)
			if !t.covers(w0, w1, w2) {
				continue
			}
			z, uv := t.interpolate(w0, w1, w2)
			if z < 0 || z > 1 {
				continue
			}
			dx := sub(t.texCoordsAt(cx+1, cy), uv)
			dy := sub(t.texCoordsAt(cx, cy+1), uv)
			shade(px, py, FragmentInput{
				FragCoord: f32.Vec2{cx, cy},
				TexCoords: uv,
				LOD:       lodFromDerivatives(img, dx, dy),
			})
		}
	}
}

func sub(a, b f32.Vec2) f32.Vec2 {
	return f32.Vec2{a[0] - b[0], a[1] - b[1]}
}

// assemble runs the vertex stage over vertices and groups the outputs into
// screen-space triangles according to topology. Triangles that are
// degenerate, behind the eye or outside the viewport are dropped; the
// survivors keep submission order.
func assemble(vertices []blit.Vertex, topology blit.Topology, width, height int) []triangle {
	screen := make([]screenVertex, len(vertices))
	visible := make([]bool, len(vertices))
	for i, v := range vertices {
		screen[i], visible[i] = toScreen(VertexStage(v), width, height)
	}

	n := topology.Triangles(len(vertices))
	tris := make([]triangle, 0, n)
	for i := range n {
		var a, b, c int
		if topology == blit.TopologyTriangleList {
			a, b, c = 3*i, 3*i+1, 3*i+2
		} else {
			a, b, c = i, i+1, i+2
		}
		if !visible[a] || !visible[b] || !visible[c] {
			continue
		}
		if t, ok := setupTriangle(screen[a], screen[b], screen[c], width, height); ok {
			tris = append(tris, t)
		}
	}
	return tris
}
