package renderer

import (
	"fmt"

	"shader-studio/math"
)

// QuadVertices are the clip-space corners of the full-viewport quad in
// triangle-strip order.
var QuadVertices = []math.Vec2{
	{X: -1, Y: -1},
	{X: 1, Y: -1},
	{X: -1, Y: 1},
	{X: 1, Y: 1},
}

const (
	QuadVertexCount = 4
	quadComponents  = 2
)

// Quad owns the vertex buffer every program is drawn over. It is never
// modified after creation.
type Quad struct {
	device   Device
	buffer   uint32
	released bool
}

// NewQuad uploads the quad. An error means the device could not allocate
// the buffer, which the session treats as fatal.
func NewQuad(ctx *Context) (*Quad, error) {
	d := ctx.Device()
	buf, err := d.CreateBuffer(math.Flatten(QuadVertices))
	if err != nil {
		return nil, fmt.Errorf("quad buffer: %w", err)
	}
	return &Quad{device: d, buffer: buf}, nil
}

// Bind points the attribute at location to the quad corners. A negative
// location is skipped.
func (q *Quad) Bind(location int32) {
	if location < 0 {
		return
	}
	q.device.VertexAttrib(location, q.buffer, quadComponents)
}

func (q *Quad) Draw() {
	q.device.DrawTriangleStrip(0, QuadVertexCount)
}

func (q *Quad) Release() {
	if q == nil || q.released {
		return
	}
	q.released = true
	q.device.DeleteBuffer(q.buffer)
}
