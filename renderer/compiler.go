package renderer

import (
	"fmt"

	"shader-studio/core"
)

// Program is a linked GPU program. The render loop draws it; whoever holds
// the last reference releases it.
type Program struct {
	device   Device
	id       uint32
	released bool
}

func (p *Program) ID() uint32 {
	return p.id
}

func (p *Program) Released() bool {
	return p.released
}

// Release deletes the GPU program. Releasing twice, or a nil program, does
// nothing.
func (p *Program) Release() {
	if p == nil || p.released {
		return
	}
	p.released = true
	p.device.DeleteProgram(p.id)
	core.Logger().Debug("program released", "id", p.id)
}

// Compiler builds programs from a fixed vertex stage and a variable
// fragment stage.
type Compiler struct {
	ctx    *Context
	vertex string
}

func NewCompiler(ctx *Context, vertexSource string) *Compiler {
	if vertexSource == "" {
		vertexSource = VertexSource
	}
	return &Compiler{ctx: ctx, vertex: vertexSource}
}

func (c *Compiler) Compile(fragmentSource string) (*Program, error) {
	return Compile(c.ctx, c.vertex, fragmentSource)
}

// Compile compiles both stages and links them. Stages are tried in order
// vertex, fragment, link; the first failure is returned as a *CompileError
// and every object created so far is deleted. On success only the program
// survives.
func Compile(ctx *Context, vertexSource, fragmentSource string) (*Program, error) {
	if ctx == nil || ctx.Released() {
		return nil, fmt.Errorf("%w: graphics context released", ErrSessionEnded)
	}
	d := ctx.Device()

	vert, err := compileShader(d, StageVertex, vertexSource)
	if err != nil {
		return nil, err
	}
	frag, err := compileShader(d, StageFragment, fragmentSource)
	if err != nil {
		d.DeleteShader(vert)
		return nil, err
	}

	prog := d.CreateProgram()
	d.AttachShader(prog, vert)
	d.AttachShader(prog, frag)
	ok := d.LinkProgram(prog)

	// Shaders are flagged for deletion and go away with the program.
	d.DeleteShader(vert)
	d.DeleteShader(frag)

	if !ok {
		log := d.ProgramInfoLog(prog)
		d.DeleteProgram(prog)
		return nil, &CompileError{Stage: StageLink, Log: orNoLog(log)}
	}

	core.Logger().Debug("program compiled", "id", prog)
	return &Program{device: d, id: prog}, nil
}

func compileShader(d Device, stage Stage, source string) (uint32, error) {
	shader := d.CreateShader(stage)
	if d.CompileShader(shader, source) {
		return shader, nil
	}
	log := d.ShaderInfoLog(shader)
	d.DeleteShader(shader)
	return 0, &CompileError{Stage: stage, Log: orNoLog(log)}
}

func orNoLog(log string) string {
	if log == "" {
		return "no info log"
	}
	return log
}
