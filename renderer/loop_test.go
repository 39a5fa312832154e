package renderer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shader-studio/core"
	"shader-studio/renderer"
	"shader-studio/renderer/renderertest"
)

type loopFixture struct {
	surface *renderertest.Surface
	device  *renderertest.Device
	ctx     *renderer.Context
	quad    *renderer.Quad
	frames  *core.FrameQueue
	loop    *renderer.RenderLoop
	start   time.Time
}

func newLoopFixture(t *testing.T) *loopFixture {
	t.Helper()
	f := &loopFixture{
		surface: renderertest.NewSurface(400, 300),
		frames:  core.NewFrameQueue(),
		start:   time.Unix(1700000000, 0),
	}
	ctx, err := renderer.Acquire(f.surface)
	require.NoError(t, err)
	t.Cleanup(ctx.Release)
	f.ctx = ctx
	f.device = f.surface.Device()

	f.quad, err = renderer.NewQuad(ctx)
	require.NoError(t, err)

	cfg := renderer.DefaultLoopConfig()
	cfg.Now = func() time.Time { return f.start }
	f.loop = renderer.NewRenderLoop(ctx, f.quad, f.frames, cfg)
	return f
}

func (f *loopFixture) compile(t *testing.T, fragment string) *renderer.Program {
	t.Helper()
	prog, err := renderer.Compile(f.ctx, renderer.VertexSource, fragment)
	require.NoError(t, err)
	return prog
}

func (f *loopFixture) tick(after time.Duration) int {
	return f.frames.Tick(f.start.Add(after))
}

func TestQuadLayout(t *testing.T) {
	f := newLoopFixture(t)
	prog := f.compile(t, renderer.SolidRedSource)
	require.NoError(t, f.loop.Start(prog))
	f.tick(0)

	require.Len(t, f.device.Draws, 1)
	assert.Equal(t, 1, f.device.LiveBuffers())
	assert.Equal(t, []float32{-1, -1, 1, -1, -1, 1, 1, 1}, f.device.PositionBuffer())

	f.quad.Release()
	f.quad.Release()
	assert.Zero(t, f.device.LiveBuffers())
	assert.Zero(t, f.device.DoubleFrees)
}

func TestSolidRedDrawsFullViewportEveryFrame(t *testing.T) {
	f := newLoopFixture(t)
	prog := f.compile(t, renderer.SolidRedSource)

	require.NoError(t, f.loop.Start(prog))
	assert.True(t, f.loop.Active())
	assert.Same(t, prog, f.loop.Program())

	for i := 0; i < 3; i++ {
		assert.Equal(t, 1, f.tick(time.Duration(i)*16*time.Millisecond))
	}

	require.Len(t, f.device.Draws, 3)
	for _, d := range f.device.Draws {
		assert.Equal(t, prog.ID(), d.Program)
		assert.Equal(t, int32(0), d.First)
		assert.Equal(t, int32(renderer.QuadVertexCount), d.Count)
		assert.Equal(t, [2]int{400, 300}, d.Viewport)
		assert.Equal(t, core.ColorBlack, d.Clear)
		assert.Nil(t, d.Time, "no time uniform declared")
		assert.Nil(t, d.Resolution, "no resolution uniform declared")
	}
	assert.Empty(t, f.device.InvalidCalls)
	assert.Equal(t, uint64(3), f.loop.Frames())
}

func TestUniformsFollowClockAndSurface(t *testing.T) {
	f := newLoopFixture(t)
	prog := f.compile(t, renderer.PlasmaSource)
	require.NoError(t, f.loop.Start(prog))

	f.tick(1500 * time.Millisecond)
	f.surface.Width, f.surface.Height = 800, 600
	f.tick(2 * time.Second)

	require.Len(t, f.device.Draws, 2)
	first, second := f.device.Draws[0], f.device.Draws[1]

	require.NotNil(t, first.Time)
	assert.InDelta(t, 1.5, *first.Time, 1e-6)
	require.NotNil(t, first.Resolution)
	assert.Equal(t, [2]float32{400, 300}, *first.Resolution)

	require.NotNil(t, second.Time)
	assert.InDelta(t, 2.0, *second.Time, 1e-6)
	assert.Equal(t, [2]float32{800, 600}, *second.Resolution)
	assert.Equal(t, [2]int{800, 600}, second.Viewport)
}

func TestUniformAliases(t *testing.T) {
	f := newLoopFixture(t)
	src := `#version 300 es
precision mediump float;
uniform float iTime;
out vec4 outColor;
void main() {
  outColor = vec4(fract(iTime), 0.0, 0.0, 1.0);
}
`
	require.NoError(t, f.loop.Start(f.compile(t, src)))
	f.tick(250 * time.Millisecond)

	require.Len(t, f.device.Draws, 1)
	require.NotNil(t, f.device.Draws[0].Time)
	assert.InDelta(t, 0.25, *f.device.Draws[0].Time, 1e-6)
	assert.Nil(t, f.device.Draws[0].Resolution)
}

func TestStopIsIdempotent(t *testing.T) {
	f := newLoopFixture(t)
	f.loop.Stop()
	assert.False(t, f.loop.Active())

	prog := f.compile(t, renderer.SolidRedSource)
	require.NoError(t, f.loop.Start(prog))
	f.tick(0)

	f.loop.Stop()
	f.loop.Stop()
	assert.False(t, f.loop.Active())
	assert.Nil(t, f.loop.Program())
	assert.Zero(t, f.frames.Pending())

	assert.Zero(t, f.tick(time.Second))
	assert.Len(t, f.device.Draws, 1)
	assert.False(t, prog.Released(), "stop must not release the program")
}

func TestStartReplacesRunningProgram(t *testing.T) {
	f := newLoopFixture(t)
	old := f.compile(t, renderer.SolidRedSource)
	next := f.compile(t, renderer.PlasmaSource)

	require.NoError(t, f.loop.Start(old))
	f.tick(0)

	f.start = f.start.Add(10 * time.Second)
	require.NoError(t, f.loop.Start(next))
	assert.Equal(t, 1, f.frames.Pending())

	f.tick(time.Second)
	f.tick(2 * time.Second)

	require.Len(t, f.device.Draws, 3)
	assert.Equal(t, old.ID(), f.device.Draws[0].Program)
	for _, d := range f.device.Draws[1:] {
		assert.Equal(t, next.ID(), d.Program)
	}
	require.NotNil(t, f.device.Draws[1].Time)
	assert.InDelta(t, 1.0, *f.device.Draws[1].Time, 1e-6, "clock resets on start")
}

func TestStartRejectsUnusablePrograms(t *testing.T) {
	f := newLoopFixture(t)
	assert.ErrorIs(t, f.loop.Start(nil), renderer.ErrNoProgram)

	prog := f.compile(t, renderer.SolidRedSource)
	prog.Release()
	assert.ErrorIs(t, f.loop.Start(prog), renderer.ErrNoProgram)
	assert.False(t, f.loop.Active())
	assert.Zero(t, f.frames.Pending())
}

func TestFrameClock(t *testing.T) {
	var c renderer.FrameClock
	t0 := time.Unix(100, 0)
	c.Reset(t0)
	assert.InDelta(t, 0.5, c.Elapsed(t0.Add(500*time.Millisecond)), 1e-6)
	assert.Zero(t, c.Elapsed(t0.Add(-time.Second)))
}
