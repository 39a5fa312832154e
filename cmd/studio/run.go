package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"shader-studio/config"
	"shader-studio/core"
	"shader-studio/internal/opengl"
	"shader-studio/internal/platform"
	"shader-studio/renderer"
	"shader-studio/source"
)

type runOptions struct {
	*rootOptions
	prompt  string
	watch   string
	feed    string
	apiURL  string
	stdin   bool
	profile string
}

func newRunCommand(root *rootOptions) *cobra.Command {
	opts := &runOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the preview window and render incoming shaders",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			stop, err := startProfile(opts.profile)
			if err != nil {
				return err
			}
			defer stop()
			return run(cmd.Context(), cfg, opts, newPrinter(cmd.OutOrStdout()))
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.prompt, "prompt", "p", "", "describe a shader and request it on startup")
	f.StringVarP(&opts.watch, "watch", "w", "", "fragment shader file to render and reload on change")
	f.StringVar(&opts.feed, "feed", "", "websocket URL pushing shader source")
	f.StringVar(&opts.apiURL, "api", "", "shader generation service URL")
	f.BoolVar(&opts.stdin, "stdin", false, "read prompts from stdin (:clear and :quit are commands)")
	f.StringVar(&opts.profile, "profile", "", "write a cpu or mem profile")
	return cmd
}

// load reads the config file and applies flag overrides.
func (o *runOptions) load() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.apiURL != "" {
		cfg.API.URL = o.apiURL
	}
	if o.watch != "" {
		cfg.Sources.Watch = o.watch
	}
	if o.feed != "" {
		cfg.Sources.Feed = o.feed
	}
	return cfg, cfg.Validate()
}

func startProfile(kind string) (func(), error) {
	switch kind {
	case "":
		return func() {}, nil
	case "cpu":
		return profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop, nil
	case "mem":
		return profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop, nil
	}
	return nil, fmt.Errorf("unknown profile %q, want cpu or mem", kind)
}

func run(ctx context.Context, cfg config.Config, opts *runOptions, out *printer) error {
	level, _ := cfg.Level()
	core.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	timeout, _ := cfg.RequestTimeout()

	out.Info("Starting shader studio...")

	window, err := platform.NewWindow(platform.WindowConfig{
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		Title:     cfg.Window.Title,
		Resizable: cfg.Window.Resizable,
		VSync:     cfg.Window.VSync,
	})
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer window.Destroy()

	frames := core.NewFrameQueue()
	sessionCfg := cfg.SessionConfig()
	sessionCfg.OnDiagnostic = out.Diagnostic
	session := renderer.NewSession(opengl.NewSurface(window), frames, sessionCfg)
	defer func() {
		session.OnSessionEnd()
		st := session.Stats()
		out.Info("Session ended: %d frames, %d programs compiled, %d rejected",
			st.Frames, st.Compiled, st.Failed)
	}()

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	sources := make(chan source.Source, 4)
	commands := make(chan command, 4)
	client := source.NewPromptClient(cfg.API.URL, timeout)
	request := func(prompt string) {
		out.Info("Generating shader for %q", prompt)
		wg.Add(1)
		go func() {
			defer wg.Done()
			client.Request(ctx, prompt, sources, out.Diagnostic)
		}()
	}
	runSource := func(name string, fn func(context.Context, chan<- source.Source) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx, sources); err != nil && !errors.Is(err, context.Canceled) {
				out.Diagnostic(fmt.Errorf("%s: %w", name, err))
			}
		}()
	}

	if opts.prompt != "" {
		request(opts.prompt)
	}
	if cfg.Sources.Watch != "" {
		out.Info("Watching %s", cfg.Sources.Watch)
		runSource("watch", source.NewWatcher(cfg.Sources.Watch).Run)
	}
	if cfg.Sources.Feed != "" {
		out.Info("Subscribing to %s", cfg.Sources.Feed)
		runSource("feed", source.NewFeed(cfg.Sources.Feed).Run)
	}
	if opts.stdin {
		out.Info("Describe a shader and press enter (:clear, :quit)")
		// Not waited for: a blocked stdin read cannot be interrupted.
		go readCommands(ctx, os.Stdin, commands)
	}
	out.Info("Controls: C clear, Escape quit")

	for !window.ShouldClose() {
		window.PollEvents()
		if window.IsKeyPressed(platform.KeyEscape) {
			window.SetShouldClose(true)
		}
		if window.IsKeyPressed(platform.KeyC) {
			session.Clear()
		}

	drain:
		for {
			select {
			case s := <-sources:
				if err := apply(session, s, out); err != nil {
					return err
				}
				window.SetTitle(fmt.Sprintf("%s | %s", cfg.Window.Title, s.Label))
			case c := <-commands:
				switch c.kind {
				case commandPrompt:
					request(c.text)
				case commandClear:
					session.Clear()
					window.SetTitle(cfg.Window.Title)
				case commandQuit:
					window.SetShouldClose(true)
				}
			default:
				break drain
			}
		}

		if !session.Active() {
			if err := session.ClearFrame(); errors.Is(err, renderer.ErrContextUnsupported) {
				return err
			}
		}
		frames.Tick(time.Now())
		window.SwapBuffers()
	}
	return nil
}

// apply hands s to the session. Only a context failure is returned; compile
// errors were already reported through the diagnostic callback.
func apply(session *renderer.Session, s source.Source, out *printer) error {
	err := session.OnSourceReceived(s.Fragment)
	switch {
	case err == nil:
		out.Success("Rendering %s shader (%s)", s.Origin, s.Label)
	case errors.Is(err, renderer.ErrContextUnsupported):
		return err
	case errors.Is(err, renderer.ErrEmptySource):
		out.Warning("Ignoring empty shader from %s", s.Origin)
	}
	return nil
}
