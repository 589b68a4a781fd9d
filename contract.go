package blit

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// VerifyShader parses and lowers WGSL source with naga and checks it against
// the binding contract:
//
//   - group 0 binding 0 is a sampled 2-D texture
//   - group 0 binding 1 is a non-comparison sampler
//   - no other resource is bound
//   - vs_main is a vertex entry point taking vec3<f32> at location 0 and
//     vec2<f32> at location 1
//   - vs_main writes @builtin(position) and a vec2<f32> varying at
//     location 0, and fs_main reads no location vs_main does not write
//   - fs_main is a fragment entry point returning vec4<f32> at location 0
//
// Every mismatch is reported as a *ContractError; several are joined.
func VerifyShader(source string) error {
	ast, err := naga.Parse(source)
	if err != nil {
		return fmt.Errorf("blit: parse shader: %w", err)
	}
	module, err := naga.Lower(ast)
	if err != nil {
		return fmt.Errorf("blit: lower shader: %w", err)
	}
	return verifyModule(module)
}

func verifyModule(m *ir.Module) error {
	var errs contractErrors
	verifyGlobals(m, &errs)
	verifyVertexEntry(m, &errs)
	verifyFragmentEntry(m, &errs)
	verifyVaryings(m, &errs)
	return errs.err()
}

func verifyGlobals(m *ir.Module, errs *contractErrors) {
	var haveImage, haveSampler bool
	for _, gv := range m.GlobalVariables {
		if gv.Binding == nil {
			continue
		}
		slot := fmt.Sprintf("group(%d) binding(%d)", gv.Binding.Group, gv.Binding.Binding)
		inner := m.Types[int(gv.Type)].Inner

		switch {
		case gv.Binding.Group == BindGroupIndex && gv.Binding.Binding == ImageBinding:
			haveImage = true
			img, ok := inner.(ir.ImageType)
			if !ok {
				errs.add(slot, "%s is not a texture", gv.Name)
				continue
			}
			if img.Dim != ir.Dim2D || img.Class != ir.ImageClassSampled {
				errs.add(slot, "%s is not a sampled 2-D texture", gv.Name)
			}
		case gv.Binding.Group == BindGroupIndex && gv.Binding.Binding == SamplerBinding:
			haveSampler = true
			s, ok := inner.(ir.SamplerType)
			if !ok {
				errs.add(slot, "%s is not a sampler", gv.Name)
				continue
			}
			if s.Comparison {
				errs.add(slot, "%s is a comparison sampler", gv.Name)
			}
		default:
			errs.add(slot, "unexpected resource %s", gv.Name)
		}
	}
	if !haveImage {
		errs.add(fmt.Sprintf("group(%d) binding(%d)", BindGroupIndex, ImageBinding), "image not declared")
	}
	if !haveSampler {
		errs.add(fmt.Sprintf("group(%d) binding(%d)", BindGroupIndex, SamplerBinding), "sampler not declared")
	}
}

// entryPoint returns the named entry point and its function, or nil.
func entryPoint(m *ir.Module, name string) (*ir.EntryPoint, *ir.Function) {
	for i := range m.EntryPoints {
		if ep := &m.EntryPoints[i]; ep.Name == name {
			return ep, &ep.Function
		}
	}
	return nil, nil
}

func verifyVertexEntry(m *ir.Module, errs *contractErrors) {
	ep, fn := entryPoint(m, VertexEntryPoint)
	if ep == nil || ep.Stage != ir.StageVertex {
		errs.add(VertexEntryPoint, "vertex entry point not found")
		return
	}

	want := map[uint32]int{PositionLocation: 3, TexCoordsLocation: 2}
	seen := make(map[uint32]bool, len(want))
	var inputs []located
	for _, arg := range fn.Arguments {
		inputs = appendLocated(m, inputs, arg.Name, arg.Type, arg.Binding)
	}
	for _, in := range inputs {
		slot := fmt.Sprintf("%s location(%d)", VertexEntryPoint, in.location)
		size, isVec := floatVectorSize(m.Types[int(in.typ)].Inner)
		wantSize, known := want[in.location]
		switch {
		case !known:
			errs.add(slot, "unexpected vertex attribute %s", in.name)
		case !isVec || size != wantSize:
			errs.add(slot, "%s must be vec%d<f32>", in.name, wantSize)
		}
		seen[in.location] = true
	}
	for loc, size := range want {
		if !seen[loc] {
			errs.add(fmt.Sprintf("%s location(%d)", VertexEntryPoint, loc), "vec%d<f32> attribute not declared", size)
		}
	}
}

func verifyFragmentEntry(m *ir.Module, errs *contractErrors) {
	ep, fn := entryPoint(m, FragmentEntryPoint)
	if ep == nil || ep.Stage != ir.StageFragment {
		errs.add(FragmentEntryPoint, "fragment entry point not found")
		return
	}
	slot := fmt.Sprintf("%s @location(%d)", FragmentEntryPoint, ColorAttachment)
	if fn.Result == nil {
		errs.add(slot, "fragment stage writes no colour")
		return
	}
	outputs := appendLocated(m, nil, "result", fn.Result.Type, fn.Result.Binding)
	var colour *located
	for i := range outputs {
		if outputs[i].location == ColorAttachment {
			colour = &outputs[i]
			continue
		}
		errs.add(fmt.Sprintf("%s @location(%d)", FragmentEntryPoint, outputs[i].location),
			"only colour attachment %d is written", ColorAttachment)
	}
	if colour == nil {
		errs.add(slot, "result is not bound to colour attachment %d", ColorAttachment)
		return
	}
	if size, isVec := floatVectorSize(m.Types[int(colour.typ)].Inner); !isVec || size != 4 {
		errs.add(slot, "%s must be vec4<f32>", colour.name)
	}
}

// verifyVaryings checks the interface between the two stages. Missing or
// misplaced entry points are reported by the entry point checks.
func verifyVaryings(m *ir.Module, errs *contractErrors) {
	vep, vfn := entryPoint(m, VertexEntryPoint)
	fep, ffn := entryPoint(m, FragmentEntryPoint)
	if vep == nil || vep.Stage != ir.StageVertex || fep == nil || fep.Stage != ir.StageFragment {
		return
	}
	positionSlot := VertexEntryPoint + " @builtin(position)"
	if vfn.Result == nil {
		errs.add(positionSlot, "vertex stage returns nothing")
		return
	}
	if !writesPosition(m, vfn.Result) {
		errs.add(positionSlot, "clip position not written")
	}

	written := make(map[uint32]located)
	for _, out := range appendLocated(m, nil, "result", vfn.Result.Type, vfn.Result.Binding) {
		written[out.location] = out
	}
	varyingSlot := fmt.Sprintf("%s @location(%d)", VertexEntryPoint, TexCoordsVarying)
	if tc, ok := written[TexCoordsVarying]; !ok {
		errs.add(varyingSlot, "tex_coords varying not written")
	} else if size, isVec := floatVectorSize(m.Types[int(tc.typ)].Inner); !isVec || size != 2 {
		errs.add(varyingSlot, "%s must be vec2<f32>", tc.name)
	}

	var read []located
	for _, arg := range ffn.Arguments {
		read = appendLocated(m, read, arg.Name, arg.Type, arg.Binding)
	}
	for _, in := range read {
		slot := fmt.Sprintf("%s input location(%d)", FragmentEntryPoint, in.location)
		out, ok := written[in.location]
		switch {
		case !ok:
			errs.add(slot, "%s is not written by %s", in.name, VertexEntryPoint)
		case !sameValueType(m, in.typ, out.typ):
			errs.add(slot, "%s does not match the type %s writes", in.name, VertexEntryPoint)
		}
	}
}

// writesPosition reports whether a result is, or has a member bound to,
// @builtin(position).
func writesPosition(m *ir.Module, r *ir.FunctionResult) bool {
	if r.Binding != nil {
		return isPosition(*r.Binding)
	}
	st, ok := m.Types[int(r.Type)].Inner.(ir.StructType)
	if !ok {
		return false
	}
	for _, mem := range st.Members {
		if mem.Binding != nil && isPosition(*mem.Binding) {
			return true
		}
	}
	return false
}

func isPosition(b ir.Binding) bool {
	bb, ok := b.(ir.BuiltinBinding)
	return ok && bb.Builtin == ir.BuiltinPosition
}

// sameValueType compares two scalar or vector types.
func sameValueType(m *ir.Module, a, b ir.TypeHandle) bool {
	if a == b {
		return true
	}
	switch at := m.Types[int(a)].Inner.(type) {
	case ir.VectorType:
		bt, ok := m.Types[int(b)].Inner.(ir.VectorType)
		return ok && at == bt
	case ir.ScalarType:
		bt, ok := m.Types[int(b)].Inner.(ir.ScalarType)
		return ok && at == bt
	}
	return false
}

// located is one user-defined input or output of an entry point.
type located struct {
	name     string
	typ      ir.TypeHandle
	location uint32
}

// appendLocated appends the location-bound values of an argument or
// result. Struct values without a binding contribute their members;
// builtins such as vertex_index or position are skipped.
func appendLocated(m *ir.Module, out []located, name string, typ ir.TypeHandle, b *ir.Binding) []located {
	if loc, ok := locationOf(b); ok {
		return append(out, located{name: name, typ: typ, location: loc})
	}
	if b != nil {
		return out
	}
	st, ok := m.Types[int(typ)].Inner.(ir.StructType)
	if !ok {
		return out
	}
	for _, mem := range st.Members {
		if loc, ok := locationOf(mem.Binding); ok {
			out = append(out, located{name: mem.Name, typ: mem.Type, location: loc})
		}
	}
	return out
}

func locationOf(b *ir.Binding) (uint32, bool) {
	if b == nil {
		return 0, false
	}
	lb, ok := (*b).(ir.LocationBinding)
	if !ok {
		return 0, false
	}
	return lb.Location, true
}

// floatVectorSize returns the component count of a vecN<f32> type.
func floatVectorSize(inner ir.TypeInner) (int, bool) {
	v, ok := inner.(ir.VectorType)
	if !ok || v.Scalar.Kind != ir.ScalarFloat || v.Scalar.Width != 4 {
		return 0, false
	}
	switch v.Size {
	case ir.Vec2:
		return 2, true
	case ir.Vec3:
		return 3, true
	case ir.Vec4:
		return 4, true
	}
	return 0, false
}
