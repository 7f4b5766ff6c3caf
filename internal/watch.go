package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	tt "github.com/nasalint/nasalint/internal/types"
)

// settleDelay lets a burst of write events collapse into one re-lint.
const settleDelay = 100 * time.Millisecond

// Watcher re-lints Python files as they change on disk.
type Watcher struct {
	engine  *Engine
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	done    chan struct{}
}

// NewWatcher wraps the engine with a filesystem watcher.
func NewWatcher(engine *Engine, logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	return &Watcher{
		engine:  engine,
		watcher: fsw,
		logger:  logger,
		done:    make(chan struct{}),
	}, nil
}

// Add registers a directory tree (or single file) with the watcher.
func (w *Watcher) Add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	if !info.IsDir() {
		return w.watcher.Add(path)
	}
	return filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() && !w.engine.IsExcluded(p) {
			return w.watcher.Add(p)
		}
		return nil
	})
}

// Start runs the watch loop until Stop is called.
func (w *Watcher) Start() {
	go w.loop()
}

// Stop shuts the watch loop down.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Write != fsnotify.Write {
		return
	}
	if !strings.HasSuffix(event.Name, ".py") || w.engine.IsExcluded(event.Name) {
		return
	}

	// wait out rapid successive writes from the editor
	time.Sleep(settleDelay)

	diags, err := w.engine.Run(event.Name)
	if err != nil {
		w.logger.Error("re-lint failed", zap.String("file", event.Name), zap.Error(err))
		return
	}
	w.reportDiagnostics(event.Name, diags)
}

func (w *Watcher) reportDiagnostics(filename string, diags []tt.Diagnostic) {
	if len(diags) == 0 {
		w.logger.Info("no violations", zap.String("file", filename))
		return
	}
	w.logger.Info("violations found",
		zap.String("file", filename),
		zap.Int("count", len(diags)),
	)
	for _, d := range diags {
		w.logger.Info("violation",
			zap.String("code", d.Code),
			zap.Int("line", d.Range.Start.Line+1),
			zap.String("message", d.Message),
		)
	}
}
