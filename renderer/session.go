package renderer

import (
	"errors"
	"fmt"
	"strings"

	"shader-studio/core"
)

// DiagnosticFunc receives errors the session recovers from, and the fatal
// context error once.
type DiagnosticFunc func(err error)

type SessionConfig struct {
	Loop LoopConfig
	// VertexSource overrides the fixed vertex stage. Empty uses VertexSource.
	VertexSource string
	OnDiagnostic DiagnosticFunc
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Loop:         DefaultLoopConfig(),
		VertexSource: VertexSource,
	}
}

type Stats struct {
	Compiled int
	Released int
	Failed   int
	Frames   uint64
}

// Session owns the shader lifecycle of one surface: at most one current
// program, the render loop drawing it, and the context and quad they share.
// The context is acquired on the first source.
type Session struct {
	surface Surface
	frames  Scheduler
	cfg     SessionConfig

	ctx      *Context
	compiler *Compiler
	quad     *Quad
	loop     *RenderLoop
	program  *Program

	fatal error
	ended bool
	stats Stats
}

func NewSession(surface Surface, frames Scheduler, cfg SessionConfig) *Session {
	return &Session{surface: surface, frames: frames, cfg: cfg}
}

// OnSourceReceived compiles fragment and, on success, swaps it in: the loop
// is stopped, the previous program released, and the loop restarted on the
// new one. A compile or link failure leaves the current program rendering;
// the *CompileError goes to the diagnostic callback and is returned.
func (s *Session) OnSourceReceived(fragment string) error {
	if s.ended {
		return ErrSessionEnded
	}
	if strings.TrimSpace(fragment) == "" {
		return ErrEmptySource
	}
	if err := s.ensureContext(); err != nil {
		return err
	}

	program, err := s.compiler.Compile(fragment)
	var ce *CompileError
	if err != nil && !errors.As(err, &ce) {
		return err
	}
	if err != nil {
		s.stats.Failed++
		core.Logger().Warn("shader rejected", "error", err)
		s.report(err)
		return err
	}
	s.stats.Compiled++

	s.loop.Stop()
	s.releaseProgram()
	s.program = program
	if err := s.loop.Start(program); err != nil {
		return err
	}
	return nil
}

// Clear stops rendering and releases the current program. The session stays
// usable.
func (s *Session) Clear() {
	if s.loop != nil {
		s.loop.Stop()
	}
	s.releaseProgram()
}

// ClearFrame fills the surface with the clear colour when no program is
// rendering, so an idle surface shows a blank frame instead of the last
// one drawn. It acquires the context if needed and does nothing while
// Active.
func (s *Session) ClearFrame() error {
	if s.ended {
		return ErrSessionEnded
	}
	if s.Active() {
		return nil
	}
	if err := s.ensureContext(); err != nil {
		return err
	}
	d := s.ctx.Device()
	w, h := s.ctx.Size()
	d.Viewport(w, h)
	d.Clear(s.cfg.Loop.ClearColor)
	return nil
}

// OnSessionEnd stops the loop, releases the program, the quad and the
// context. The loop is stopped first so no frame can draw a released
// program. Later calls do nothing.
func (s *Session) OnSessionEnd() {
	if s.ended {
		return
	}
	s.ended = true

	if s.loop != nil {
		s.loop.Stop()
		s.stats.Frames = s.loop.Frames()
	}
	s.releaseProgram()
	s.quad.Release()
	if s.ctx != nil {
		s.ctx.Release()
	}
	core.Logger().Info("shader session ended",
		"compiled", s.stats.Compiled, "failed", s.stats.Failed, "frames", s.stats.Frames)
}

// Active reports whether a program is being rendered.
func (s *Session) Active() bool {
	return s.loop != nil && s.loop.Active()
}

// Program returns the current program or nil.
func (s *Session) Program() *Program {
	return s.program
}

func (s *Session) Ended() bool {
	return s.ended
}

func (s *Session) Stats() Stats {
	st := s.stats
	if s.loop != nil {
		st.Frames = s.loop.Frames()
	}
	return st
}

func (s *Session) ensureContext() error {
	if s.fatal != nil {
		return s.fatal
	}
	if s.ctx != nil {
		return nil
	}

	ctx, err := Acquire(s.surface)
	if err != nil {
		return s.fail(err)
	}
	quad, err := NewQuad(ctx)
	if err != nil {
		ctx.Release()
		return s.fail(fmt.Errorf("%w: %w", ErrContextUnsupported, err))
	}

	s.ctx = ctx
	s.quad = quad
	s.compiler = NewCompiler(ctx, s.cfg.VertexSource)
	s.loop = NewRenderLoop(ctx, quad, s.frames, s.cfg.Loop)
	return nil
}

// fail records a fatal error and reports it once.
func (s *Session) fail(err error) error {
	s.fatal = err
	if errors.Is(err, ErrContextUnsupported) {
		core.Logger().Error("no graphics context", "error", err)
	}
	s.report(err)
	return err
}

func (s *Session) releaseProgram() {
	if s.program == nil {
		return
	}
	s.program.Release()
	s.program = nil
	s.stats.Released++
}

func (s *Session) report(err error) {
	if s.cfg.OnDiagnostic != nil {
		s.cfg.OnDiagnostic(err)
	}
}
