package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"

	"shader-studio/core"
)

// Feed subscribes to a websocket that pushes shader source. Each text
// message is either raw GLSL or a JSON object {"shader": "..."}, the same
// shape the generation service replies with.
type Feed struct {
	URL    string
	Dialer *websocket.Dialer
}

func NewFeed(url string) *Feed {
	return &Feed{URL: url, Dialer: websocket.DefaultDialer}
}

// Run reads messages until ctx is done or the server closes the connection.
// A normal close returns nil.
func (f *Feed) Run(ctx context.Context, out chan<- Source) error {
	conn, _, err := f.Dialer.DialContext(ctx, f.URL, nil)
	if err != nil {
		return fmt.Errorf("feed %s: %w", f.URL, err)
	}
	defer conn.Close()
	core.Logger().Info("shader feed connected", "url", f.URL)

	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	})
	defer stop()

	for {
		typ, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("feed %s: %w", f.URL, err)
		}
		if typ != websocket.TextMessage {
			continue
		}
		shader, err := decodeFeedMessage(msg)
		if err != nil {
			core.Logger().Warn("bad feed message", "url", f.URL, "error", err)
			continue
		}
		if !send(out, ctx.Done(), Source{Origin: OriginFeed, Fragment: shader, Label: f.URL}) {
			return ctx.Err()
		}
	}
}

func decodeFeedMessage(msg []byte) (string, error) {
	text := strings.TrimSpace(string(msg))
	if strings.HasPrefix(text, "{") {
		var r shaderResponse
		if err := json.Unmarshal(msg, &r); err != nil {
			return "", err
		}
		text = r.Shader
	}
	text = StripFences(text)
	if text == "" {
		return "", errors.New("empty shader")
	}
	return text, nil
}
