package opengl

import (
	"fmt"
	"strings"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"shader-studio/core"
	"shader-studio/internal/glsl"
	"shader-studio/renderer"
)

var glInitOnce sync.Once

// Device drives an OpenGL 4.1 core context. The context must be current on
// the calling thread for every method.
type Device struct {
	vao      uint32 // core profile refuses attribute pointers without a VAO
	released bool
}

// NewDevice loads the GL entry points and prepares the state used for
// full-screen drawing.
func NewDevice() (*Device, error) {
	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	core.Logger().Info("OpenGL ready", "version", version,
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))

	var major, minor int32
	gl.GetIntegerv(gl.MAJOR_VERSION, &major)
	gl.GetIntegerv(gl.MINOR_VERSION, &minor)
	if major < 4 || (major == 4 && minor < 1) {
		return nil, fmt.Errorf("OpenGL %d.%d found, 4.1 required", major, minor)
	}

	d := &Device{}
	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)
	gl.Disable(gl.DEPTH_TEST)
	return d, nil
}

func (d *Device) Released() bool {
	return d.released
}

func (d *Device) CreateShader(stage renderer.Stage) uint32 {
	if stage == renderer.StageVertex {
		return gl.CreateShader(gl.VERTEX_SHADER)
	}
	return gl.CreateShader(gl.FRAGMENT_SHADER)
}

func (d *Device) CompileShader(shader uint32, source string) bool {
	csrc, free := gl.Strs(glsl.Translate(source, glsl.Core410) + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	return status == gl.TRUE
}

func (d *Device) ShaderInfoLog(shader uint32) string {
	var logLen int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
	if logLen == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLen+1))
	gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (d *Device) DeleteShader(shader uint32) {
	if shader == 0 || !gl.IsShader(shader) {
		return
	}
	gl.DeleteShader(shader)
}

func (d *Device) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (d *Device) AttachShader(program, shader uint32) {
	gl.AttachShader(program, shader)
}

func (d *Device) LinkProgram(program uint32) bool {
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	return status == gl.TRUE
}

func (d *Device) ProgramInfoLog(program uint32) string {
	var logLen int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
	if logLen == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLen+1))
	gl.GetProgramInfoLog(program, logLen, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

// DeleteProgram ignores names that are not live programs.
func (d *Device) DeleteProgram(program uint32) {
	if program == 0 || !gl.IsProgram(program) {
		return
	}
	gl.DeleteProgram(program)
}

func (d *Device) CreateBuffer(data []float32) (uint32, error) {
	var buf uint32
	gl.GenBuffers(1, &buf)
	gl.BindBuffer(gl.ARRAY_BUFFER, buf)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteBuffers(1, &buf)
		return 0, fmt.Errorf("buffer upload: %s", errorName(code))
	}
	return buf, nil
}

func (d *Device) DeleteBuffer(buffer uint32) {
	if buffer == 0 || !gl.IsBuffer(buffer) {
		return
	}
	gl.DeleteBuffers(1, &buffer)
}

func (d *Device) AttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

func (d *Device) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *Device) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (d *Device) VertexAttrib(location int32, buffer uint32, components int32) {
	gl.BindVertexArray(d.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
	gl.EnableVertexAttribArray(uint32(location))
	gl.VertexAttribPointer(uint32(location), components, gl.FLOAT, false, 0, nil)
}

func (d *Device) Uniform1f(location int32, v float32) {
	gl.Uniform1f(location, v)
}

func (d *Device) Uniform2f(location int32, x, y float32) {
	gl.Uniform2f(location, x, y)
}

func (d *Device) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (d *Device) Clear(c core.Color) {
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (d *Device) DrawTriangleStrip(first, count int32) {
	gl.BindVertexArray(d.vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, first, count)
}

// Err collects every pending GL error flag.
func (d *Device) Err() error {
	var names []string
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		names = append(names, errorName(code))
		if len(names) == 8 {
			break
		}
	}
	if len(names) == 0 {
		return nil
	}
	return fmt.Errorf("GL error: %s", strings.Join(names, ", "))
}

func (d *Device) Release() {
	if d.released {
		return
	}
	d.released = true
	gl.BindVertexArray(0)
	gl.DeleteVertexArrays(1, &d.vao)
}

func errorName(code uint32) string {
	switch code {
	case gl.INVALID_ENUM:
		return "INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "INVALID_OPERATION"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "INVALID_FRAMEBUFFER_OPERATION"
	case gl.OUT_OF_MEMORY:
		return "OUT_OF_MEMORY"
	}
	return fmt.Sprintf("0x%04x", code)
}
