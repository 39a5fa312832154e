package math

type Vec2 struct {
	X, Y float32
}

func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

// Flatten packs vectors as x0, y0, x1, y1, ... for a vertex buffer.
func Flatten(vs []Vec2) []float32 {
	out := make([]float32, 0, 2*len(vs))
	for _, v := range vs {
		out = append(out, v.X, v.Y)
	}
	return out
}

// Size converts integer pixel dimensions to a Vec2.
func Size(width, height int) Vec2 {
	return Vec2{X: float32(width), Y: float32(height)}
}
