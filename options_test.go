package blit

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestDefaultOptions(t *testing.T) {
	o := applyOptions(nil)
	if o.topology != TopologyTriangleStrip {
		t.Errorf("topology = %s, want triangle-strip", o.topology)
	}
	if o.writeMask != gputypes.ColorWriteMaskAll {
		t.Errorf("write mask = %v, want all", o.writeMask)
	}
	if o.clearColor != (gputypes.Color{R: 1, G: 1, B: 1, A: 1}) {
		t.Errorf("clear = %+v, want white", o.clearColor)
	}
	if o.renderScale != 1 || o.flipY || o.spirv {
		t.Errorf("scale/flip/spirv = %v/%v/%v", o.renderScale, o.flipY, o.spirv)
	}
	if o.label != "blit" || !o.sampler.IsZero() {
		t.Errorf("label = %q, sampler = %s", o.label, o.sampler)
	}
}

func TestApplyOptions(t *testing.T) {
	o := applyOptions([]Option{
		WithTopology(TopologyTriangleList),
		WithWriteMask(gputypes.ColorWriteMaskRed | gputypes.ColorWriteMaskAlpha),
		WithClearColor(gputypes.Color{B: 1, A: 1}),
		WithRenderScale(2),
		WithFlipY(true),
		WithSampler(LinearSampler()),
		WithSPIRV(true),
		WithLabel("video"),
		nil,
	})
	if o.topology != TopologyTriangleList {
		t.Errorf("topology = %s", o.topology)
	}
	if o.writeMask != gputypes.ColorWriteMaskRed|gputypes.ColorWriteMaskAlpha {
		t.Errorf("write mask = %v", o.writeMask)
	}
	if o.clearColor != (gputypes.Color{B: 1, A: 1}) {
		t.Errorf("clear = %+v", o.clearColor)
	}
	if o.renderScale != 2 || !o.flipY || !o.spirv {
		t.Errorf("scale/flip/spirv = %v/%v/%v", o.renderScale, o.flipY, o.spirv)
	}
	if o.sampler != LinearSampler() || o.label != "video" {
		t.Errorf("sampler = %s, label = %q", o.sampler, o.label)
	}
}

func TestOptionsIgnoreInvalidValues(t *testing.T) {
	o := applyOptions([]Option{WithRenderScale(0.5), WithLabel("")})
	if o.renderScale != 1 {
		t.Errorf("scale below 1 applied: %v", o.renderScale)
	}
	if o.label != "blit" {
		t.Errorf("empty label applied: %q", o.label)
	}
}
