package opengl

import (
	"shader-studio/internal/platform"
	"shader-studio/renderer"
)

// Surface presents a platform window to the renderer. It creates the GL
// device once, on the first Acquire.
type Surface struct {
	window *platform.Window
	device *Device
}

func NewSurface(window *platform.Window) *Surface {
	return &Surface{window: window}
}

func (s *Surface) Size() (int, int) {
	return s.window.Size()
}

func (s *Surface) Acquire() (renderer.Device, error) {
	if s.device != nil && !s.device.Released() {
		return s.device, nil
	}
	s.window.MakeContextCurrent()
	d, err := NewDevice()
	if err != nil {
		return nil, err
	}
	s.device = d
	return d, nil
}
