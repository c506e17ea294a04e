package asset

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/glowview/internal/engine/anim"
)

// buildClips converts glTF animations. Channels aimed at nodes outside the
// loaded scene, morph weights, and non-float outputs are skipped.
func (c *converter) buildClips() ([]*anim.Clip, error) {
	var clips []*anim.Clip
	for i, a := range c.doc.Animations {
		clip := &anim.Clip{Name: a.Name}
		if clip.Name == "" {
			clip.Name = fmt.Sprintf("animation%d", i)
		}

		for _, ch := range a.Channels {
			out, ok, err := c.buildChannel(a, ch)
			if err != nil {
				return nil, fmt.Errorf("animation %q: %w", clip.Name, err)
			}
			if ok {
				clip.Channels = append(clip.Channels, out)
			}
		}

		if len(clip.Channels) == 0 {
			continue
		}
		clip.ComputeDuration()
		clips = append(clips, clip)
	}
	return clips, nil
}

func (c *converter) buildChannel(a *gltf.Animation, ch *gltf.AnimationChannel) (anim.Channel, bool, error) {
	var out anim.Channel
	if ch.Target.Node == nil {
		return out, false, nil
	}
	node, ok := c.nodes[*ch.Target.Node]
	if !ok {
		return out, false, nil
	}

	switch ch.Target.Path {
	case gltf.TRSTranslation:
		out.Path = anim.PathTranslation
	case gltf.TRSRotation:
		out.Path = anim.PathRotation
	case gltf.TRSScale:
		out.Path = anim.PathScale
	default:
		return out, false, nil
	}

	if ch.Sampler < 0 || ch.Sampler >= len(a.Samplers) {
		return out, false, fmt.Errorf("%w: sampler %d out of range", ErrDecode, ch.Sampler)
	}
	s := a.Samplers[ch.Sampler]

	inAcc, err := c.accessor(s.Input)
	if err != nil {
		return out, false, err
	}
	rawTimes, err := modeler.ReadAccessor(c.doc, inAcc, nil)
	if err != nil {
		return out, false, fmt.Errorf("%w: keyframe times: %w", ErrDecode, err)
	}
	times, ok := rawTimes.([]float32)
	if !ok || len(times) == 0 {
		return out, false, nil
	}

	outAcc, err := c.accessor(s.Output)
	if err != nil {
		return out, false, err
	}
	rawValues, err := modeler.ReadAccessor(c.doc, outAcc, nil)
	if err != nil {
		return out, false, fmt.Errorf("%w: keyframe values: %w", ErrDecode, err)
	}
	values, ok := toVec4(rawValues)
	if !ok {
		return out, false, nil
	}

	switch s.Interpolation {
	case gltf.InterpolationStep:
		out.Interp = anim.InterpStep
	case gltf.InterpolationCubicSpline:
		// Keep the keyframe values and drop the tangents.
		values = cubicSplineValues(values)
		out.Interp = anim.InterpLinear
	default:
		out.Interp = anim.InterpLinear
	}

	if len(values) != len(times) {
		return out, false, fmt.Errorf("%w: %d keyframe times but %d values", ErrDecode, len(times), len(values))
	}

	out.Node = node
	out.Times = times
	out.Values = values
	return out, true, nil
}

func toVec4(raw any) ([][4]float32, bool) {
	switch v := raw.(type) {
	case [][3]float32:
		out := make([][4]float32, len(v))
		for i, x := range v {
			out[i] = [4]float32{x[0], x[1], x[2], 0}
		}
		return out, true
	case [][4]float32:
		return v, true
	default:
		return nil, false
	}
}

// cubicSplineValues picks the value out of each in-tangent, value,
// out-tangent triple.
func cubicSplineValues(v [][4]float32) [][4]float32 {
	out := make([][4]float32, 0, len(v)/3)
	for i := 1; i < len(v); i += 3 {
		out = append(out, v[i])
	}
	return out
}
