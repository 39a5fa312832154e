package glsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "es 300",
			src:  "#version 300 es\nprecision mediump float;\nvoid main() {}\n",
			want: "#version 410 core\nprecision mediump float;\nvoid main() {}\n",
		},
		{
			name: "leading blank lines and comments",
			src:  "\n// plasma\n  #version 300 es\r\nvoid main() {}",
			want: "\n// plasma\n  #version 410 core\r\nvoid main() {}",
		},
		{
			name: "block comment header",
			src:  "/* generated */\n#version 300 es\nvoid main(){}\n",
			want: "/* generated */\n#version 410 core\nvoid main(){}\n",
		},
		{
			name: "multi-line block comment",
			src:  "/*\n * plasma\n * #version 100\n */ #version 300 es\nvoid main(){}",
			want: "/*\n * plasma\n * #version 100\n */ #version 410 core\nvoid main(){}",
		},
		{
			name: "directive without newline",
			src:  "#version 300 es",
			want: "#version 410 core",
		},
		{
			name: "comment only",
			src:  "// nothing here\n",
			want: "// nothing here\n",
		},
		{
			name: "missing directive",
			src:  "void main() {}\n",
			want: "#version 410 core\nvoid main() {}\n",
		},
		{
			name: "desktop directive untouched",
			src:  "#version 330 core\nvoid main() {}\n",
			want: "#version 330 core\nvoid main() {}\n",
		},
		{
			name: "empty",
			src:  "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Translate(tt.src, Core410))
		})
	}
}
