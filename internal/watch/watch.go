// Package watch reruns a job whenever one of a set of files changes.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher debounces file events into job runs. Runs never overlap: the job
// is called from the Run loop itself.
type Watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration
	log      *zap.Logger
}

// New creates a watcher that waits debounce after the last event before
// running the job.
func New(debounce time.Duration, log *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		fs:       fsw,
		files:    make(map[string]bool),
		debounce: debounce,
		log:      log,
	}, nil
}

// Add watches files. Their directories are watched so that editors which
// replace files on save are still seen.
func (w *Watcher) Add(files ...string) error {
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		dir := filepath.Dir(abs)
		if !w.watchingDir(dir) {
			if err := w.fs.Add(dir); err != nil {
				return err
			}
		}
		w.files[abs] = true
	}
	return nil
}

func (w *Watcher) watchingDir(dir string) bool {
	for f := range w.files {
		if filepath.Dir(f) == dir {
			return true
		}
	}
	return false
}

func (w *Watcher) relevant(e fsnotify.Event) bool {
	if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) && !e.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(e.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}

// Run blocks until ctx is done, calling job after each burst of changes.
// Job errors are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, job func() error) error {
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case e, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(e) {
				continue
			}
			w.log.Debug("file changed", zap.String("path", e.Name), zap.Stringer("op", e.Op))
			timer.Reset(w.debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))

		case <-timer.C:
			if err := job(); err != nil {
				w.log.Error("job failed", zap.Error(err))
			}
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
