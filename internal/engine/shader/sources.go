package shader

import _ "embed"

// GlowVertex is the vertex shader for lit, emissive-tinted model surfaces.
//
//go:embed glsl/glow.vert
var GlowVertex string

// GlowFragment shades surfaces with hemisphere ambient, one directional
// light, PCF shadows and an additive emissive term.
//
//go:embed glsl/glow.frag
var GlowFragment string

// DepthVertex is the vertex shader for the shadow depth pass.
//
//go:embed glsl/depth.vert
var DepthVertex string

// DepthFragment is the empty fragment shader for the shadow depth pass.
//
//go:embed glsl/depth.frag
var DepthFragment string

// OverlayVertex is the vertex shader for the full-screen status overlay quad.
//
//go:embed glsl/overlay.vert
var OverlayVertex string

// OverlayFragment samples the status overlay texture.
//
//go:embed glsl/overlay.frag
var OverlayFragment string
