package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shader-studio/core"
)

// ErrEmptyPrompt is returned before any request is made for a blank prompt.
var ErrEmptyPrompt = errors.New("please enter a shader description")

// RequestError is a failed call to the generation service. Status is zero
// when no response arrived.
type RequestError struct {
	Status int
	Err    error
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("shader request failed: HTTP %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("shader request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// PromptClient asks the generation service to turn a description into
// fragment shader source.
type PromptClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewPromptClient(baseURL string, timeout time.Duration) *PromptClient {
	return &PromptClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type shaderRequest struct {
	Prompt string `json:"prompt"`
}

type shaderResponse struct {
	Shader string `json:"shader"`
}

// RequestShader posts the prompt to {BaseURL}/api/shader and returns the
// fragment source from the "shader" field of the reply.
func (c *PromptClient) RequestShader(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", ErrEmptyPrompt
	}

	body, err := json.Marshal(shaderRequest{Prompt: prompt})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/shader", bytes.NewReader(body))
	if err != nil {
		return "", &RequestError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	core.Logger().Debug("requesting shader", "url", req.URL.String())
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", &RequestError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &RequestError{Status: resp.StatusCode, Err: errors.New(strings.TrimSpace(string(msg)))}
	}

	var out shaderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &RequestError{Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	shader := StripFences(out.Shader)
	if shader == "" {
		return "", &RequestError{Status: resp.StatusCode, Err: errors.New("response has no shader")}
	}
	return shader, nil
}

// Request runs RequestShader and delivers the result on out. Failures go to
// onErr and leave out untouched.
func (c *PromptClient) Request(ctx context.Context, prompt string, out chan<- Source, onErr func(error)) {
	shader, err := c.RequestShader(ctx, prompt)
	if err != nil {
		if onErr != nil {
			onErr(err)
		}
		return
	}
	send(out, ctx.Done(), Source{Origin: OriginPrompt, Fragment: shader, Label: prompt})
}
