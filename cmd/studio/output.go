package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/muesli/termenv"

	"shader-studio/renderer"
	"shader-studio/source"
)

// printer writes user-facing lines. Source goroutines and the render thread
// share one printer.
type printer struct {
	mu  sync.Mutex
	out *termenv.Output
}

func newPrinter(w io.Writer) *printer {
	return &printer{out: termenv.NewOutput(w)}
}

func (p *printer) line(color termenv.Color, format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.out.String(fmt.Sprintf(format, args...))
	if color != nil {
		s = s.Foreground(color)
	}
	fmt.Fprintln(p.out, s)
}

func (p *printer) Info(format string, args ...any) {
	p.line(nil, format, args...)
}

func (p *printer) Success(format string, args ...any) {
	p.line(termenv.ANSIGreen, format, args...)
}

func (p *printer) Warning(format string, args ...any) {
	p.line(termenv.ANSIYellow, format, args...)
}

func (p *printer) Failure(format string, args ...any) {
	p.line(termenv.ANSIRed, format, args...)
}

// Diagnostic prints an error from the session or a source. Compile errors
// show the driver log indented under a one-line summary.
func (p *printer) Diagnostic(err error) {
	var ce *renderer.CompileError
	var re *source.RequestError
	switch {
	case errors.As(err, &ce):
		p.Failure("%s shader rejected, keeping the current one", ce.Stage)
		for _, l := range strings.Split(strings.TrimSpace(ce.Log), "\n") {
			p.Info("    %s", l)
		}
	case errors.As(err, &re):
		p.Warning("Generation failed: %v", err)
	case errors.Is(err, renderer.ErrContextUnsupported):
		p.Failure("OpenGL 4.1 is not available: %v", err)
	default:
		p.Warning("%v", err)
	}
}
