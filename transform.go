package blit

import "golang.org/x/image/math/f32"

// Identity is the 4x4 identity matrix.
var Identity = f32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// Transform returns a copy of vertices with m applied to every position.
// m is row-major and multiplies column vectors (x, y, z, 1). The result is
// divided by w, because the vertex stage always emits w = 1. Positions whose
// w becomes 0 are left undivided. Texture coordinates are not touched.
func Transform(vertices []Vertex, m f32.Mat4) []Vertex {
	out := make([]Vertex, len(vertices))
	for i, v := range vertices {
		x, y, z := v.Position[0], v.Position[1], v.Position[2]
		cx := m[0]*x + m[1]*y + m[2]*z + m[3]
		cy := m[4]*x + m[5]*y + m[6]*z + m[7]
		cz := m[8]*x + m[9]*y + m[10]*z + m[11]
		cw := m[12]*x + m[13]*y + m[14]*z + m[15]
		if cw != 0 && cw != 1 {
			cx, cy, cz = cx/cw, cy/cw, cz/cw
		}
		out[i] = Vertex{Position: f32.Vec3{cx, cy, cz}, TexCoords: v.TexCoords}
	}
	return out
}

// ScaleTranslate returns the matrix scaling x and y, then translating them.
func ScaleTranslate(sx, sy, tx, ty float32) f32.Mat4 {
	return f32.Mat4{
		sx, 0, 0, tx,
		0, sy, 0, ty,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Letterbox returns the transform that fits a srcW x srcH image into a
// dstW x dstH target at the largest size that keeps its aspect ratio,
// centred. Uncovered target pixels keep the clear colour.
func Letterbox(srcW, srcH, dstW, dstH int) f32.Mat4 {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return Identity
	}
	srcAspect := float32(srcW) / float32(srcH)
	dstAspect := float32(dstW) / float32(dstH)
	if srcAspect > dstAspect {
		return ScaleTranslate(1, dstAspect/srcAspect, 0, 0)
	}
	return ScaleTranslate(srcAspect/dstAspect, 1, 0, 0)
}
