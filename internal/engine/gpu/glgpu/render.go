package glgpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/glowview/internal/engine/gpu"
	"github.com/Faultbox/glowview/internal/engine/shadow"
)

// Render implements gpu.Device. It draws the shadow pass, the lit scene and
// the overlay into the frame's target, then blits it to the default framebuffer.
func (d *Device) Render(f *gpu.Frame) error {
	prog, ok := d.programs[f.Program]
	if !ok {
		return fmt.Errorf("program %d: %w", f.Program, gpu.ErrUnknownID)
	}
	fb, ok := d.targets[f.Target]
	if !ok {
		return fmt.Errorf("render target %d: %w", f.Target, gpu.ErrUnknownID)
	}
	items := make([]*mesh, len(f.Items))
	for i, it := range f.Items {
		m, ok := d.meshes[it.Mesh]
		if !ok {
			return fmt.Errorf("mesh %d: %w", it.Mesh, gpu.ErrUnknownID)
		}
		items[i] = m
	}

	lightSpace := mgl32.Ident4()
	shadows := d.shadow != nil && f.ShadowRadius > 0
	if shadows {
		lightSpace = shadow.DirectionalLightMatrix(f.LightDir, f.ShadowCenter, f.ShadowRadius)
		d.shadowPass(prog, f, items, lightSpace)
	}

	fb.Bind()
	fb.Clear(f.Clear[0], f.Clear[1], f.Clear[2], f.Clear[3])
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.Disable(gl.BLEND)

	glow := prog.glow
	glow.Use()
	gl.UniformMatrix4fv(glow.Uniform("uView"), 1, false, &f.View[0])
	gl.UniformMatrix4fv(glow.Uniform("uProjection"), 1, false, &f.Projection[0])
	gl.UniformMatrix4fv(glow.Uniform("uLightSpace"), 1, false, &lightSpace[0])
	gl.Uniform3fv(glow.Uniform("uLightDir"), 1, &f.LightDir[0])
	gl.Uniform3fv(glow.Uniform("uEye"), 1, &f.Eye[0])
	gl.Uniform1i(glow.Uniform("uShadowEnabled"), boolToInt(shadows))
	gl.Uniform1i(glow.Uniform("uShadowMap"), 1)
	if shadows {
		d.shadow.bindTexture(gl.TEXTURE1)
	}

	for i, it := range f.Items {
		gl.UniformMatrix4fv(glow.Uniform("uModel"), 1, false, &it.Model[0])
		gl.Uniform4fv(glow.Uniform("uBaseColor"), 1, &it.BaseColor[0])
		gl.Uniform3fv(glow.Uniform("uEmissive"), 1, &it.Emissive[0])
		gl.Uniform1f(glow.Uniform("uEmissiveIntensity"), it.EmissiveIntensity)
		gl.Uniform1i(glow.Uniform("uReceiveShadow"), boolToInt(it.ReceiveShadow))
		items[i].draw()
	}

	if f.Overlay != 0 {
		if err := d.drawOverlay(prog, f.Overlay); err != nil {
			return err
		}
	}

	gl.BindVertexArray(0)
	fb.Blit(f.OutputWidth, f.OutputHeight)
	return nil
}

func (d *Device) shadowPass(prog *programSet, f *gpu.Frame, items []*mesh, lightSpace mgl32.Mat4) {
	d.shadow.begin()
	depth := prog.depth
	depth.Use()
	gl.UniformMatrix4fv(depth.Uniform("uLightSpace"), 1, false, &lightSpace[0])
	for i, it := range f.Items {
		if !it.CastShadow {
			continue
		}
		gl.UniformMatrix4fv(depth.Uniform("uModel"), 1, false, &it.Model[0])
		items[i].draw()
	}
	d.shadow.end()
}

func (d *Device) drawOverlay(prog *programSet, id gpu.TextureID) error {
	tex, ok := d.textures[id]
	if !ok {
		return fmt.Errorf("texture %d: %w", id, gpu.ErrUnknownID)
	}
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	prog.overlay.Use()
	gl.Uniform1i(prog.overlay.Uniform("uTexture"), 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.BindVertexArray(d.quadVAO)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)

	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
	return nil
}

func (m *mesh) draw() {
	gl.BindVertexArray(m.vao)
	if m.indexed {
		gl.DrawElements(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, m.count)
	}
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
