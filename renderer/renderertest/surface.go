package renderertest

import "shader-studio/renderer"

// Surface is a fake drawing surface. It creates its Device on the first
// Acquire and hands out the same one afterwards, until the device is
// released.
type Surface struct {
	Width, Height int
	// Unsupported makes Acquire fail with this error.
	Unsupported error
	// FailBuffers is copied to every device the surface creates.
	FailBuffers bool

	Acquires int
	device   *Device
}

func NewSurface(width, height int) *Surface {
	return &Surface{Width: width, Height: height}
}

func (s *Surface) Size() (int, int) {
	return s.Width, s.Height
}

func (s *Surface) Acquire() (renderer.Device, error) {
	s.Acquires++
	if s.Unsupported != nil {
		return nil, s.Unsupported
	}
	if s.device == nil || s.device.Released {
		s.device = NewDevice()
		s.device.FailBuffers = s.FailBuffers
	}
	return s.device, nil
}

// Device returns the device handed out by Acquire, or nil.
func (s *Surface) Device() *Device {
	return s.device
}
