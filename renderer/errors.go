package renderer

import (
	"errors"
	"fmt"
	"strings"
)

// Stage identifies where a program build failed.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
	StageLink
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageLink:
		return "link"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

var (
	// ErrContextUnsupported is returned when the surface cannot provide the
	// rendering capability. It is fatal to the session.
	ErrContextUnsupported = errors.New("graphics context unsupported")

	ErrSessionEnded = errors.New("shader session ended")
	ErrEmptySource  = errors.New("empty shader source")
	ErrNoProgram    = errors.New("no usable program")
)

// CompileError reports a failed compile or link with the driver's info log.
type CompileError struct {
	Stage Stage
	Log   string
}

func (e *CompileError) Error() string {
	what := e.Stage.String() + " shader compile"
	if e.Stage == StageLink {
		what = "program link"
	}
	return fmt.Sprintf("%s failed: %s", what, strings.TrimSpace(e.Log))
}
