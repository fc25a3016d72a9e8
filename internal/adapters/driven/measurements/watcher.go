package measurements

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/seamwork/drafter/internal/core/domain"
	"github.com/seamwork/drafter/internal/core/ports/driven"
	"github.com/seamwork/drafter/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.MeasurementWatcher = (*Watcher)(nil)

// DefaultMaxRate is the reload rate used when none is configured.
const DefaultMaxRate = 2

// Watcher reloads a measurement file whenever it changes on disk.
// Reloads are throttled to at most maxRate per second; changes arriving
// while a reload waits are folded into it.
type Watcher struct {
	source  driven.MeasurementSource
	limiter *rate.Limiter
}

// NewWatcher creates a watcher reloading through source. A maxRate of zero
// or less uses DefaultMaxRate.
func NewWatcher(source driven.MeasurementSource, maxRate int) *Watcher {
	if maxRate <= 0 {
		maxRate = DefaultMaxRate
	}
	return &Watcher{
		source:  source,
		limiter: rate.NewLimiter(rate.Limit(maxRate), 1),
	}
}

// Watch blocks until ctx is cancelled, calling onChange after every change
// to path that loads cleanly. A file that fails to load, such as one caught
// half written, is logged and skipped.
func (w *Watcher) Watch(ctx context.Context, path string, onChange func(*domain.Measurements)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	// Editors often replace files rather than write them, so the
	// directory is watched and events are filtered by name.
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	logger.Info("watching measurements %s", abs)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !handleFsEvent(event, abs) {
				continue
			}
			if err := w.limiter.Wait(ctx); err != nil {
				return nil
			}
			drain(fsw.Events)
			w.reload(ctx, abs, onChange)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("measurement watcher: %v", err)
		}
	}
}

func (w *Watcher) reload(ctx context.Context, path string, onChange func(*domain.Measurements)) {
	m, err := w.source.Load(ctx, path)
	if err != nil {
		logger.Warn("reloading measurements %s: %v", path, err)
		return
	}
	logger.Info("measurements %s changed: %d values", path, len(m.Values))
	onChange(m)
}

// handleFsEvent reports whether event changes the content of the file at path.
func handleFsEvent(event fsnotify.Event, path string) bool {
	if filepath.Clean(event.Name) != path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// drain discards events already queued.
func drain(events <-chan fsnotify.Event) {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
