package renderer

// VertexSource is the fixed vertex stage. It passes the quad corners through
// unchanged; the two floats per vertex fill x and y of the position.
const VertexSource = `#version 300 es
in vec4 aVertexPosition;
void main() {
  gl_Position = aVertexPosition;
}
`

// PositionAttribute is the only vertex input of VertexSource.
const PositionAttribute = "aVertexPosition"

// SolidRedSource is a fragment stage without uniforms.
const SolidRedSource = `#version 300 es
precision mediump float;
out vec4 outColor;
void main() {
  outColor = vec4(1.0, 0.0, 0.0, 1.0);
}
`

// PlasmaSource animates with both uTime and uResolution.
const PlasmaSource = `#version 300 es
precision mediump float;
uniform float uTime;
uniform vec2 uResolution;
out vec4 outColor;
void main() {
  vec2 uv = gl_FragCoord.xy / uResolution;
  float v = sin(uv.x * 10.0 + uTime) + sin(uv.y * 10.0 + uTime * 1.3);
  outColor = vec4(0.5 + 0.5 * sin(v), 0.5 + 0.5 * cos(v), 1.0, 1.0);
}
`
