// Package config loads studio settings from TOML or YAML files.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"shader-studio/core"
	"shader-studio/renderer"
)

// EnvAPIURL overrides API.URL when set.
const EnvAPIURL = "SHADER_API_URL"

type Config struct {
	Window   WindowConfig  `toml:"window" yaml:"window"`
	API      APIConfig     `toml:"api" yaml:"api"`
	Sources  SourcesConfig `toml:"sources" yaml:"sources"`
	Render   RenderConfig  `toml:"render" yaml:"render"`
	LogLevel string        `toml:"log_level" yaml:"log_level"`
}

type WindowConfig struct {
	Width     int    `toml:"width" yaml:"width"`
	Height    int    `toml:"height" yaml:"height"`
	Title     string `toml:"title" yaml:"title"`
	Resizable bool   `toml:"resizable" yaml:"resizable"`
	VSync     bool   `toml:"vsync" yaml:"vsync"`
}

type APIConfig struct {
	URL string `toml:"url" yaml:"url"`
	// Timeout is a duration string such as "60s".
	Timeout string `toml:"timeout" yaml:"timeout"`
}

type SourcesConfig struct {
	// Watch is a fragment shader file reloaded on change.
	Watch string `toml:"watch" yaml:"watch"`
	// Feed is a websocket URL pushing shader source.
	Feed string `toml:"feed" yaml:"feed"`
}

type RenderConfig struct {
	ClearColor         string   `toml:"clear_color" yaml:"clear_color"`
	TimeUniforms       []string `toml:"time_uniforms" yaml:"time_uniforms"`
	ResolutionUniforms []string `toml:"resolution_uniforms" yaml:"resolution_uniforms"`
}

func Default() Config {
	names := renderer.DefaultUniformNames()
	return Config{
		Window: WindowConfig{
			Width:     400,
			Height:    300,
			Title:     "Shader Studio",
			Resizable: true,
			VSync:     true,
		},
		API: APIConfig{
			URL:     "http://localhost:4000",
			Timeout: "60s",
		},
		Render: RenderConfig{
			ClearColor:         "#000000",
			TimeUniforms:       names.Time,
			ResolutionUniforms: names.Resolution,
		},
		LogLevel: "warn",
	}
}

// Load reads path over the defaults, picking the format from the extension.
// An empty path returns the defaults. The environment is applied last.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".toml":
			err = toml.Unmarshal(data, &cfg)
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, &cfg)
		default:
			err = fmt.Errorf("unsupported config format %q", ext)
		}
		if err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if url := os.Getenv(EnvAPIURL); url != "" {
		cfg.API.URL = url
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if _, err := core.ParseColor(c.Render.ClearColor); err != nil {
		return fmt.Errorf("render.clear_color: %w", err)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.RequestTimeout(); err != nil {
		return err
	}
	return nil
}

// RequestTimeout parses API.Timeout.
func (c Config) RequestTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 0, fmt.Errorf("api.timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("api.timeout %s must be positive", d)
	}
	return d, nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return l, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

// SessionConfig builds the renderer settings. Call Validate first.
func (c Config) SessionConfig() renderer.SessionConfig {
	cfg := renderer.DefaultSessionConfig()
	if clear, err := core.ParseColor(c.Render.ClearColor); err == nil {
		cfg.Loop.ClearColor = clear
	}
	if len(c.Render.TimeUniforms) > 0 {
		cfg.Loop.Uniforms.Time = c.Render.TimeUniforms
	}
	if len(c.Render.ResolutionUniforms) > 0 {
		cfg.Loop.Uniforms.Resolution = c.Render.ResolutionUniforms
	}
	return cfg
}
