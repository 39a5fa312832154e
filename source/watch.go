package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"shader-studio/core"
)

// Watcher reloads a fragment shader file whenever it changes on disk.
type Watcher struct {
	Path string
	// Settle is how long writes must stop before the file is re-read.
	// Editors often write a file in several steps.
	Settle time.Duration
}

func NewWatcher(path string) *Watcher {
	return &Watcher{Path: path, Settle: 100 * time.Millisecond}
}

// Run sends the current file contents, then a new Source after every
// settled change, until ctx is done. The parent directory is watched so
// that editors replacing the file by rename are followed.
func (w *Watcher) Run(ctx context.Context, out chan<- Source) error {
	path, err := filepath.Abs(w.Path)
	if err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", w.Path, err)
	}
	defer fw.Close()
	if err := fw.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", w.Path, err)
	}
	core.Logger().Info("watching shader file", "path", path)

	if !w.emit(ctx, path, out) {
		return ctx.Err()
	}

	settle := time.NewTimer(w.Settle)
	settle.Stop()
	defer settle.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				settle.Reset(w.Settle)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			core.Logger().Warn("shader watcher error", "path", path, "error", err)
		case <-settle.C:
			if !w.emit(ctx, path, out) {
				return ctx.Err()
			}
		}
	}
}

// emit reads the file and sends it. Unreadable or empty files are skipped;
// it reports false only when ctx ended.
func (w *Watcher) emit(ctx context.Context, path string, out chan<- Source) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		core.Logger().Warn("cannot read shader file", "path", path, "error", err)
		return ctx.Err() == nil
	}
	if len(data) == 0 {
		return ctx.Err() == nil
	}
	return send(out, ctx.Done(), Source{Origin: OriginFile, Fragment: string(data), Label: path})
}
