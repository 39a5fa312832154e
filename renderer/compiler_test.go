package renderer_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shader-studio/renderer"
	"shader-studio/renderer/renderertest"
)

func newContext(t *testing.T) (*renderer.Context, *renderertest.Device) {
	t.Helper()
	surface := renderertest.NewSurface(400, 300)
	ctx, err := renderer.Acquire(surface)
	require.NoError(t, err)
	t.Cleanup(ctx.Release)
	return ctx, surface.Device()
}

func compileError(t *testing.T, err error) *renderer.CompileError {
	t.Helper()
	var ce *renderer.CompileError
	require.True(t, errors.As(err, &ce), "expected *CompileError, got %v", err)
	return ce
}

func TestCompileSuccessKeepsOnlyProgram(t *testing.T) {
	ctx, dev := newContext(t)

	prog, err := renderer.Compile(ctx, renderer.VertexSource, renderer.SolidRedSource)
	require.NoError(t, err)
	require.NotNil(t, prog)

	assert.NotZero(t, prog.ID())
	assert.Zero(t, dev.LiveShaders())
	assert.Equal(t, 1, dev.LivePrograms())
}

func TestCompileFailureStages(t *testing.T) {
	tests := []struct {
		name      string
		vertex    string
		fragment  string
		failLink  bool
		wantStage renderer.Stage
	}{
		{
			name:      "vertex",
			vertex:    "#version 300 es\nin vec4 aVertexPosition;\nvoid main() { gl_Position = aVertexPosition;",
			fragment:  renderer.SolidRedSource,
			wantStage: renderer.StageVertex,
		},
		{
			name:      "fragment",
			vertex:    renderer.VertexSource,
			fragment:  "#version 300 es\nout vec4 outColor;\nvoid main() { outColor = vec4(1.0 }",
			wantStage: renderer.StageFragment,
		},
		{
			name:      "link",
			vertex:    renderer.VertexSource,
			fragment:  renderer.SolidRedSource,
			failLink:  true,
			wantStage: renderer.StageLink,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, dev := newContext(t)
			dev.FailLink = tt.failLink

			prog, err := renderer.Compile(ctx, tt.vertex, tt.fragment)
			assert.Nil(t, prog)
			ce := compileError(t, err)
			assert.Equal(t, tt.wantStage, ce.Stage)
			assert.NotEmpty(t, ce.Log)

			assert.Zero(t, dev.LiveShaders(), "shader objects leaked")
			assert.Zero(t, dev.LivePrograms(), "program objects leaked")
			assert.Zero(t, dev.DoubleFrees)
		})
	}
}

func TestCompileUnusedUniformDeclaration(t *testing.T) {
	ctx, _ := newContext(t)

	src := `#version 300 es
precision mediump float;
uniform float uUndefined;
out vec4 outColor;
void main() {
  outColor = vec4(0.0, 1.0, 0.0, 1.0);
}
`
	prog, err := renderer.Compile(ctx, renderer.VertexSource, src)
	require.NoError(t, err)
	prog.Release()
}

func TestCompileInvalidUniformReference(t *testing.T) {
	ctx, _ := newContext(t)

	src := `#version 300 es
precision mediump float;
out vec4 outColor;
void main() {
  outColor = vec4(uUndefined, 0.0, 0.0, 1.0;
}
`
	_, err := renderer.Compile(ctx, renderer.VertexSource, src)
	ce := compileError(t, err)
	assert.Equal(t, renderer.StageFragment, ce.Stage)
	assert.NotEmpty(t, ce.Log)
	assert.Contains(t, err.Error(), "fragment shader compile failed")
}

func TestCompileAfterContextRelease(t *testing.T) {
	surface := renderertest.NewSurface(300, 300)
	ctx, err := renderer.Acquire(surface)
	require.NoError(t, err)
	ctx.Release()

	_, err = renderer.Compile(ctx, renderer.VertexSource, renderer.SolidRedSource)
	assert.ErrorIs(t, err, renderer.ErrSessionEnded)
}

func TestProgramReleaseTwice(t *testing.T) {
	ctx, dev := newContext(t)
	prog, err := renderer.NewCompiler(ctx, "").Compile(renderer.PlasmaSource)
	require.NoError(t, err)

	prog.Release()
	prog.Release()
	var none *renderer.Program
	none.Release()

	assert.True(t, prog.Released())
	assert.True(t, dev.ProgramDeleted(prog.ID()))
	assert.Zero(t, dev.DoubleFrees)
}

func TestCompileErrorMessage(t *testing.T) {
	err := &renderer.CompileError{Stage: renderer.StageLink, Log: "  missing main\n"}
	assert.Equal(t, "program link failed: missing main", err.Error())
	assert.Equal(t, "vertex", renderer.StageVertex.String())
}
