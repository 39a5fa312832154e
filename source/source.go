// Package source delivers fragment shader text from outside the render
// thread: a generation service queried with a prompt, a watched file, or a
// websocket feed. Producers send Source values on a channel; the render
// thread drains it and hands each one to the session.
package source

import "strings"

// Origin names where a Source came from.
type Origin string

const (
	OriginPrompt Origin = "prompt"
	OriginFile   Origin = "file"
	OriginFeed   Origin = "feed"
)

type Source struct {
	Origin   Origin
	Fragment string
	// Label is the prompt, file path or feed URL that produced the source.
	Label string
}

// StripFences removes a surrounding markdown code fence, as generation
// services often wrap GLSL in ```glsl ... ``` blocks. Text without a fence is
// returned trimmed.
func StripFences(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	nl := strings.IndexByte(t, '\n')
	if nl < 0 {
		return ""
	}
	t = t[nl+1:]
	if end := strings.LastIndex(t, "```"); end >= 0 {
		t = t[:end]
	}
	return strings.TrimSpace(t)
}

// send delivers s unless done closes first.
func send(out chan<- Source, done <-chan struct{}, s Source) bool {
	select {
	case out <- s:
		return true
	case <-done:
		return false
	}
}
