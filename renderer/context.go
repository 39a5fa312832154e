package renderer

import (
	"fmt"
	"sync"

	"shader-studio/core"
)

// Context is the graphics context of one surface, shared by the compiler,
// the quad and the render loop. Every Acquire takes a hold on it; the device
// is released when the last holder calls Release.
type Context struct {
	surface  Surface
	device   Device
	holders  int
	released bool
}

var (
	contextsMu sync.Mutex
	contexts   = make(map[Surface]*Context)
)

// Acquire returns the context bound to surface, creating it on first use.
// A second call for the same surface returns the same context untouched and
// adds a holder, so each Acquire must be paired with one Release.
// The error wraps ErrContextUnsupported when the surface has no usable
// device.
func Acquire(surface Surface) (*Context, error) {
	contextsMu.Lock()
	defer contextsMu.Unlock()

	if ctx, ok := contexts[surface]; ok {
		ctx.holders++
		return ctx, nil
	}

	device, err := surface.Acquire()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContextUnsupported, err)
	}
	if device == nil {
		return nil, fmt.Errorf("%w: surface returned no device", ErrContextUnsupported)
	}

	ctx := &Context{surface: surface, device: device, holders: 1}
	contexts[surface] = ctx

	w, h := surface.Size()
	core.Logger().Info("graphics context acquired", "width", w, "height", h)
	return ctx, nil
}

func (c *Context) Device() Device {
	return c.device
}

// Size re-reads the surface dimensions.
func (c *Context) Size() (int, int) {
	return c.surface.Size()
}

func (c *Context) Released() bool {
	return c.released
}

// Release drops one hold. The last one frees the device objects and unbinds
// the context from its surface; calls after that do nothing.
func (c *Context) Release() {
	contextsMu.Lock()
	if c.released {
		contextsMu.Unlock()
		return
	}
	c.holders--
	if c.holders > 0 {
		contextsMu.Unlock()
		return
	}
	c.released = true
	if contexts[c.surface] == c {
		delete(contexts, c.surface)
	}
	contextsMu.Unlock()

	c.device.Release()
	core.Logger().Info("graphics context released")
}
