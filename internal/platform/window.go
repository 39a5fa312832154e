package platform

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	// GL calls and glfw event processing must stay on the main thread.
	runtime.LockOSThread()
}

// Window is the drawing surface: a glfw window carrying an OpenGL context.
type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string
	vsync  bool
}

type WindowConfig struct {
	Width     int
	Height    int
	Title     string
	Resizable bool
	VSync     bool
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:     400,
		Height:    300,
		Title:     "Shader Studio",
		Resizable: true,
		VSync:     true,
	}
}

func NewWindow(config WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	window := &Window{
		Handle: handle,
		Width:  config.Width,
		Height: config.Height,
		Title:  config.Title,
		vsync:  config.VSync,
	}

	handle.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		window.Width = width
		window.Height = height
	})
	window.Width, window.Height = handle.GetFramebufferSize()

	return window, nil
}

// MakeContextCurrent binds the window's GL context to the calling thread and
// applies the swap interval, so SwapBuffers waits for vertical sync.
func (w *Window) MakeContextCurrent() {
	w.Handle.MakeContextCurrent()
	glfw.SwapInterval(boolToInt(w.vsync))
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) SetShouldClose(v bool) {
	w.Handle.SetShouldClose(v)
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

// SwapBuffers presents the back buffer. With vsync on it blocks until the
// next display refresh.
func (w *Window) SwapBuffers() {
	w.Handle.SwapBuffers()
}

// Size returns the framebuffer size in pixels.
func (w *Window) Size() (int, int) {
	return w.Width, w.Height
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func (w *Window) IsKeyPressed(key int) bool {
	return w.Handle.GetKey(glfw.Key(key)) == glfw.Press
}

func (w *Window) SetTitle(title string) {
	w.Handle.SetTitle(title)
	w.Title = title
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

const (
	KeyEscape = int(glfw.KeyEscape)
	KeyC      = int(glfw.KeyC)
)
