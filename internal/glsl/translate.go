// Package glsl adapts shader source written for GLSL ES 3.00 to the desktop
// GLSL dialect of the context it is compiled on.
package glsl

import (
	"fmt"
	"strings"
)

// Target is a desktop GLSL version such as 410.
type Target int

const Core410 Target = 410

// Translate rewrites a leading "#version 300 es" directive to
// "#version <target> core". Precision statements are kept; desktop GLSL
// accepts and ignores them. Sources without a version directive get one,
// so the driver does not fall back to GLSL 1.10. Any other version is left
// alone and the driver decides. Whitespace and comments may precede the
// directive.
func Translate(src string, target Target) string {
	directive := fmt.Sprintf("#version %d core", target)

	start := skipComments(src)
	if start < 0 {
		return src
	}
	rest := src[start:]
	if !strings.HasPrefix(rest, "#version") {
		return directive + "\n" + src
	}
	end := strings.IndexByte(rest, '\n')
	if end < 0 {
		end = len(rest)
	}
	line := strings.TrimRight(rest[:end], "\r")
	fields := strings.Fields(line)
	if len(fields) == 3 && fields[1] == "300" && fields[2] == "es" {
		return src[:start] + directive + rest[len(line):]
	}
	return src
}

// skipComments returns the offset of the first byte that is neither
// whitespace nor inside a comment, or -1 when there is none.
func skipComments(src string) int {
	i := 0
	for i < len(src) {
		switch {
		case src[i] == ' ' || src[i] == '\t' || src[i] == '\r' || src[i] == '\n':
			i++
		case strings.HasPrefix(src[i:], "//"):
			nl := strings.IndexByte(src[i:], '\n')
			if nl < 0 {
				return -1
			}
			i += nl + 1
		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return -1
			}
			i += 2 + end + 2
		default:
			return i
		}
	}
	return -1
}
