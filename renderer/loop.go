package renderer

import (
	"time"

	"shader-studio/core"
	"shader-studio/math"
)

// UniformNames lists the accepted spellings of the per-frame uniforms. The
// first name a program actually exposes is used.
type UniformNames struct {
	Time       []string
	Resolution []string
}

func DefaultUniformNames() UniformNames {
	return UniformNames{
		Time:       []string{"uTime", "iTime", "u_time"},
		Resolution: []string{"uResolution", "iResolution", "u_resolution"},
	}
}

type LoopConfig struct {
	Uniforms   UniformNames
	ClearColor core.Color
	// Now stamps FrameClock resets. Defaults to time.Now.
	Now func() time.Time
}

func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		Uniforms:   DefaultUniformNames(),
		ClearColor: core.ColorBlack,
		Now:        time.Now,
	}
}

// bindings caches a program's locations; -1 marks an absent input.
type bindings struct {
	position   int32
	time       int32
	resolution int32
}

// RenderLoop draws the current program once per scheduled frame.
//
// It is Idle until Start and Active until Stop. Starting while Active stops
// the previous run first. The loop never releases a program: ownership
// stays with the caller, which must Stop before releasing.
type RenderLoop struct {
	ctx    *Context
	quad   *Quad
	frames Scheduler
	cfg    LoopConfig

	program  *Program
	bindings bindings
	clock    FrameClock
	pending  core.FrameHandle
	drawn    uint64
}

func NewRenderLoop(ctx *Context, quad *Quad, frames Scheduler, cfg LoopConfig) *RenderLoop {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Uniforms.Time == nil && cfg.Uniforms.Resolution == nil {
		cfg.Uniforms = DefaultUniformNames()
	}
	return &RenderLoop{ctx: ctx, quad: quad, frames: frames, cfg: cfg}
}

// Start makes program current, resets the clock and schedules the first
// frame. It fails with ErrNoProgram for a nil or released program and
// leaves the loop untouched.
func (l *RenderLoop) Start(program *Program) error {
	if program == nil || program.Released() {
		return ErrNoProgram
	}
	l.Stop()

	d := l.ctx.Device()
	l.program = program
	l.bindings = bindings{
		position:   d.AttribLocation(program.ID(), PositionAttribute),
		time:       lookupUniform(d, program.ID(), l.cfg.Uniforms.Time),
		resolution: lookupUniform(d, program.ID(), l.cfg.Uniforms.Resolution),
	}
	l.clock.Reset(l.cfg.Now())
	l.pending = l.frames.RequestFrame(l.frame)

	core.Logger().Debug("render loop started", "program", program.ID(),
		"time", l.bindings.time >= 0, "resolution", l.bindings.resolution >= 0)
	return nil
}

// Stop cancels the pending frame. It is a no-op when Idle.
func (l *RenderLoop) Stop() {
	if l.program == nil {
		return
	}
	if l.pending != 0 {
		l.frames.CancelFrame(l.pending)
		l.pending = 0
	}
	core.Logger().Debug("render loop stopped", "program", l.program.ID())
	l.program = nil
}

func (l *RenderLoop) Active() bool {
	return l.program != nil
}

// Program returns the current program, nil when Idle.
func (l *RenderLoop) Program() *Program {
	return l.program
}

// Frames counts draw calls issued since the loop was created.
func (l *RenderLoop) Frames() uint64 {
	return l.drawn
}

func (l *RenderLoop) frame(now time.Time) {
	l.pending = 0
	p := l.program
	if p == nil || p.Released() {
		l.program = nil
		return
	}

	d := l.ctx.Device()
	w, h := l.ctx.Size()

	d.Viewport(w, h)
	d.Clear(l.cfg.ClearColor)
	d.UseProgram(p.ID())
	l.quad.Bind(l.bindings.position)

	if l.bindings.time >= 0 {
		d.Uniform1f(l.bindings.time, l.clock.Elapsed(now))
	}
	if l.bindings.resolution >= 0 {
		res := math.Size(w, h)
		d.Uniform2f(l.bindings.resolution, res.X, res.Y)
	}

	l.quad.Draw()
	l.drawn++
	if err := d.Err(); err != nil {
		core.Logger().Warn("frame raised a GPU error", "program", p.ID(), "error", err)
	}

	l.pending = l.frames.RequestFrame(l.frame)
}

func lookupUniform(d Device, program uint32, names []string) int32 {
	for _, name := range names {
		if loc := d.UniformLocation(program, name); loc >= 0 {
			return loc
		}
	}
	return -1
}
