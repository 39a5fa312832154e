// Package renderer turns fragment shader source into an animated full-screen
// image. A Session compiles each incoming source against a shared Context,
// and a RenderLoop draws the resulting Program over a Quad once per display
// refresh, feeding it elapsed time and surface resolution.
//
// Everything in this package runs on the render thread. Nothing here is safe
// for concurrent use; sources produced on other goroutines must be handed to
// the render thread first.
package renderer

import (
	"time"

	"shader-studio/core"
)

// Device is the GPU capability handle bound to a surface. Object names are
// opaque non-zero uint32 values. Locations are -1 when the name is absent.
type Device interface {
	CreateShader(stage Stage) uint32
	CompileShader(shader uint32, source string) bool
	ShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32) bool
	ProgramInfoLog(program uint32) string
	DeleteProgram(program uint32)

	CreateBuffer(data []float32) (uint32, error)
	DeleteBuffer(buffer uint32)

	AttribLocation(program uint32, name string) int32
	UniformLocation(program uint32, name string) int32

	UseProgram(program uint32)
	// VertexAttrib feeds location from buffer, components floats per
	// vertex, tightly packed.
	VertexAttrib(location int32, buffer uint32, components int32)
	Uniform1f(location int32, v float32)
	Uniform2f(location int32, x, y float32)

	Viewport(width, height int)
	Clear(c core.Color)
	DrawTriangleStrip(first, count int32)

	// Err drains the device error state; nil when no error was raised.
	Err() error
	// Release frees device-level objects. The device is unusable afterwards.
	Release()
}

// Surface is a presentation target. Acquire must be idempotent: a surface
// hands out a single device for its lifetime.
type Surface interface {
	Size() (width, height int)
	Acquire() (Device, error)
}

// Scheduler runs callbacks on display refresh. core.FrameQueue implements it.
type Scheduler interface {
	RequestFrame(fn func(now time.Time)) core.FrameHandle
	CancelFrame(h core.FrameHandle)
}
