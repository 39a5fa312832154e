package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"void main() {}", "void main() {}"},
		{"\n  void main() {}\n", "void main() {}"},
		{"```glsl\n#version 300 es\nvoid main() {}\n```", "#version 300 es\nvoid main() {}"},
		{"```\nvoid main() {}\n```\n", "void main() {}"},
		{"```glsl\nvoid main() {}", "void main() {}"},
		{"```", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripFences(tt.in), tt.in)
	}
}
