// Package renderertest provides an in-memory renderer.Device and Surface.
//
// The device keeps GL-like object tables and validates every handle it is
// given, so tests can assert that no draw ever referenced a deleted program
// and that nothing was freed twice.
package renderertest

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"shader-studio/core"
	"shader-studio/renderer"
)

var uniformDecl = regexp.MustCompile(`uniform\s+\w+\s+(\w+)\s*;`)

type shader struct {
	stage    renderer.Stage
	source   string
	compiled bool
	deleted  bool
}

type program struct {
	shaders  []uint32
	linked   bool
	uniforms map[string]int32
	deleted  bool
}

// Draw records one draw call with the uniform values current at that time.
type Draw struct {
	Program    uint32
	First      int32
	Count      int32
	Clear      core.Color
	Viewport   [2]int
	Time       *float32
	Resolution *[2]float32
}

// Device is a fake renderer.Device. The zero value is not usable; call
// NewDevice.
type Device struct {
	// FailVertex makes the next vertex stage compile fail.
	FailVertex bool
	// FailLink makes the next LinkProgram fail.
	FailLink bool
	// FailBuffers makes CreateBuffer report an allocation failure.
	FailBuffers bool

	next     uint32
	shaders  map[uint32]*shader
	programs map[uint32]*program
	buffers  map[uint32][]float32

	current  uint32
	clear    core.Color
	viewport [2]int
	attribs  map[int32]uint32
	values   map[uint32]map[int32][]float32
	errs     []error

	Draws        []Draw
	Clears       int
	InvalidCalls []string
	DoubleFrees  int
	Released     bool
}

func NewDevice() *Device {
	return &Device{
		shaders:  make(map[uint32]*shader),
		programs: make(map[uint32]*program),
		buffers:  make(map[uint32][]float32),
		attribs:  make(map[int32]uint32),
		values:   make(map[uint32]map[int32][]float32),
	}
}

func (d *Device) alloc() uint32 {
	d.next++
	return d.next
}

func (d *Device) invalid(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	d.InvalidCalls = append(d.InvalidCalls, msg)
	d.errs = append(d.errs, errors.New(msg))
}

func (d *Device) CreateShader(stage renderer.Stage) uint32 {
	id := d.alloc()
	d.shaders[id] = &shader{stage: stage}
	return id
}

// CompileShader accepts sources that have a main function and balanced
// braces and parentheses, and contain no #error directive.
func (d *Device) CompileShader(id uint32, source string) bool {
	s, ok := d.shaders[id]
	if !ok || s.deleted {
		d.invalid("compile of unknown shader %d", id)
		return false
	}
	s.source = source
	if s.stage == renderer.StageVertex && d.FailVertex {
		d.FailVertex = false
		s.compiled = false
		return false
	}
	s.compiled = strings.Contains(source, "void main") &&
		balanced(source) &&
		!strings.Contains(source, "#error")
	return s.compiled
}

func (d *Device) ShaderInfoLog(id uint32) string {
	s, ok := d.shaders[id]
	if !ok || s.compiled {
		return ""
	}
	return fmt.Sprintf("ERROR: 0:1: '%s' : syntax error", s.stage)
}

func (d *Device) DeleteShader(id uint32) {
	s, ok := d.shaders[id]
	if !ok || s.deleted {
		d.DoubleFrees++
		return
	}
	s.deleted = true
}

func (d *Device) CreateProgram() uint32 {
	id := d.alloc()
	d.programs[id] = &program{uniforms: make(map[string]int32)}
	return id
}

func (d *Device) AttachShader(prog, sh uint32) {
	p, ok := d.programs[prog]
	if !ok || p.deleted {
		d.invalid("attach to unknown program %d", prog)
		return
	}
	if s, ok := d.shaders[sh]; !ok || s.deleted || !s.compiled {
		d.invalid("attach of unusable shader %d", sh)
		return
	}
	p.shaders = append(p.shaders, sh)
}

// LinkProgram needs one compiled vertex and one compiled fragment shader.
// Uniforms declared and referenced at least once more in a stage become
// active, mirroring how drivers drop unused uniforms.
func (d *Device) LinkProgram(prog uint32) bool {
	p, ok := d.programs[prog]
	if !ok || p.deleted {
		d.invalid("link of unknown program %d", prog)
		return false
	}
	if d.FailLink {
		d.FailLink = false
		return false
	}
	stages := map[renderer.Stage]bool{}
	var next int32
	for _, id := range p.shaders {
		s := d.shaders[id]
		stages[s.stage] = true
		for _, m := range uniformDecl.FindAllStringSubmatch(s.source, -1) {
			name := m[1]
			if _, seen := p.uniforms[name]; seen {
				continue
			}
			if strings.Count(s.source, name) > 1 {
				p.uniforms[name] = next
				next++
			}
		}
	}
	p.linked = stages[renderer.StageVertex] && stages[renderer.StageFragment]
	return p.linked
}

func (d *Device) ProgramInfoLog(prog uint32) string {
	p, ok := d.programs[prog]
	if !ok || p.linked {
		return ""
	}
	return "error: linking failed"
}

func (d *Device) DeleteProgram(prog uint32) {
	p, ok := d.programs[prog]
	if !ok || p.deleted {
		d.DoubleFrees++
		return
	}
	p.deleted = true
	if d.current == prog {
		d.current = 0
	}
}

func (d *Device) CreateBuffer(data []float32) (uint32, error) {
	if d.FailBuffers {
		return 0, errors.New("out of memory")
	}
	id := d.alloc()
	d.buffers[id] = append([]float32(nil), data...)
	return id, nil
}

func (d *Device) DeleteBuffer(id uint32) {
	if _, ok := d.buffers[id]; !ok {
		d.DoubleFrees++
		return
	}
	delete(d.buffers, id)
}

func (d *Device) AttribLocation(prog uint32, name string) int32 {
	if !d.usable(prog) {
		return -1
	}
	if name == renderer.PositionAttribute {
		return 0
	}
	return -1
}

func (d *Device) UniformLocation(prog uint32, name string) int32 {
	if !d.usable(prog) {
		return -1
	}
	if loc, ok := d.programs[prog].uniforms[name]; ok {
		return loc
	}
	return -1
}

func (d *Device) UseProgram(prog uint32) {
	if !d.usable(prog) {
		d.invalid("use of unusable program %d", prog)
		return
	}
	d.current = prog
}

func (d *Device) VertexAttrib(location int32, buffer uint32, components int32) {
	if _, ok := d.buffers[buffer]; !ok {
		d.invalid("attribute from unknown buffer %d", buffer)
		return
	}
	if components != 2 {
		d.invalid("attribute with %d components", components)
	}
	d.attribs[location] = buffer
}

func (d *Device) Uniform1f(location int32, v float32) {
	d.setUniform(location, v)
}

func (d *Device) Uniform2f(location int32, x, y float32) {
	d.setUniform(location, x, y)
}

func (d *Device) setUniform(location int32, v ...float32) {
	if d.current == 0 {
		d.invalid("uniform %d set without a program", location)
		return
	}
	if d.values[d.current] == nil {
		d.values[d.current] = make(map[int32][]float32)
	}
	d.values[d.current][location] = v
}

func (d *Device) Viewport(width, height int) {
	d.viewport = [2]int{width, height}
}

func (d *Device) Clear(c core.Color) {
	d.clear = c
	d.Clears++
}

// DrawTriangleStrip records the draw. Drawing with a deleted or unlinked
// program, or without the position attribute bound, is recorded as invalid.
func (d *Device) DrawTriangleStrip(first, count int32) {
	if !d.usable(d.current) {
		d.invalid("draw with unusable program %d", d.current)
		return
	}
	if _, ok := d.attribs[0]; !ok {
		d.invalid("draw without position attribute")
		return
	}
	draw := Draw{
		Program:  d.current,
		First:    first,
		Count:    count,
		Clear:    d.clear,
		Viewport: d.viewport,
	}
	p := d.programs[d.current]
	vals := d.values[d.current]
	for name, loc := range p.uniforms {
		v, ok := vals[loc]
		if !ok {
			continue
		}
		switch {
		case len(v) == 1 && isTime(name):
			t := v[0]
			draw.Time = &t
		case len(v) == 2 && isResolution(name):
			r := [2]float32{v[0], v[1]}
			draw.Resolution = &r
		}
	}
	d.Draws = append(d.Draws, draw)
}

func (d *Device) Err() error {
	if len(d.errs) == 0 {
		return nil
	}
	err := errors.Join(d.errs...)
	d.errs = nil
	return err
}

func (d *Device) Release() {
	d.Released = true
}

// LiveShaders counts shader objects not yet deleted.
func (d *Device) LiveShaders() int {
	n := 0
	for _, s := range d.shaders {
		if !s.deleted {
			n++
		}
	}
	return n
}

// LivePrograms counts program objects not yet deleted.
func (d *Device) LivePrograms() int {
	n := 0
	for _, p := range d.programs {
		if !p.deleted {
			n++
		}
	}
	return n
}

// ProgramDeleted reports whether prog was created and then deleted.
func (d *Device) ProgramDeleted(prog uint32) bool {
	p, ok := d.programs[prog]
	return ok && p.deleted
}

// LiveBuffers counts vertex buffers not yet deleted.
func (d *Device) LiveBuffers() int {
	return len(d.buffers)
}

// PositionBuffer returns a copy of the buffer bound to attribute location 0.
func (d *Device) PositionBuffer() []float32 {
	return append([]float32(nil), d.buffers[d.attribs[0]]...)
}

func (d *Device) usable(prog uint32) bool {
	p, ok := d.programs[prog]
	return ok && !p.deleted && p.linked
}

func isTime(name string) bool {
	return strings.Contains(strings.ToLower(name), "time")
}

func isResolution(name string) bool {
	return strings.Contains(strings.ToLower(name), "resolution")
}

func balanced(src string) bool {
	var depth [2]int
	for _, r := range src {
		switch r {
		case '{':
			depth[0]++
		case '}':
			depth[0]--
		case '(':
			depth[1]++
		case ')':
			depth[1]--
		}
		if depth[0] < 0 || depth[1] < 0 {
			return false
		}
	}
	return depth[0] == 0 && depth[1] == 0
}
