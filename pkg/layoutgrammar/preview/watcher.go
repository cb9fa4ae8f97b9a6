package preview

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/vrclog/layoutgrammar/internal/logfinder"
	"github.com/vrclog/layoutgrammar/internal/tailer"
	"github.com/vrclog/layoutgrammar/pkg/layoutgrammar"
)

// watcherErrBuffer is the buffer size for the error channel.
const watcherErrBuffer = 16

// Watcher reads records from a log file.
type Watcher struct {
	cfg     *watchConfig
	grammar *layoutgrammar.Grammar
	file    string
	// dir is set when the file was picked from a directory; only then are
	// newer files followed.
	dir string
	log *slog.Logger

	mu       sync.Mutex
	closed   bool
	cancel   context.CancelFunc
	doneCh   chan struct{}
	watching bool
}

// NewWatcher validates the options, compiles the header of g and resolves
// the file to read.
func NewWatcher(g *layoutgrammar.Grammar, opts ...WatchOption) (*Watcher, error) {
	cfg := applyWatchOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if _, err := NewSplitter(g); err != nil {
		return nil, err
	}

	file, err := logfinder.Resolve(cfg.path, cfg.pattern)
	if err != nil {
		return nil, err
	}
	dir := ""
	switch {
	case cfg.path == "":
		dir = filepath.Dir(file)
	case file != cfg.path:
		dir = cfg.path
	}

	return &Watcher{
		cfg:     cfg,
		grammar: g,
		file:    file,
		dir:     dir,
		log:     cfg.logger,
	}, nil
}

// File returns the file the watcher starts reading.
func (w *Watcher) File() string { return w.file }

// Watch starts reading and returns the record and error channels. Both
// close when ctx is done, when Close is called, or, without follow mode,
// after the last record of the file.
//
// Returns ErrWatcherClosed if the watcher has been closed and
// ErrAlreadyWatching if Watch has already been called.
func (w *Watcher) Watch(ctx context.Context) (<-chan Record, <-chan error, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, nil, ErrWatcherClosed
	}
	if w.watching {
		return nil, nil, ErrAlreadyWatching
	}
	w.watching = true

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.doneCh = make(chan struct{})

	recordCh := make(chan Record)
	errCh := make(chan error, watcherErrBuffer)

	go w.run(ctx, recordCh, errCh)

	return recordCh, errCh, nil
}

// Close stops the watcher and blocks until its goroutine has exited.
// Safe to call multiple times.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.cancel != nil {
		w.cancel()
	}
	doneCh := w.doneCh
	w.mu.Unlock()

	if doneCh != nil {
		<-doneCh
	}
	return nil
}

func (w *Watcher) tailerConfig(fromStart bool) tailer.Config {
	return tailer.Config{
		FromStart: fromStart,
		Follow:    w.cfg.follow,
		Poll:      w.cfg.poll,
		ReOpen:    w.cfg.follow,
	}
}

func (w *Watcher) run(ctx context.Context, recordCh chan<- Record, errCh chan<- error) {
	defer close(w.doneCh)
	defer close(recordCh)
	defer close(errCh)

	// NewWatcher already compiled the header.
	split, _ := NewSplitter(w.grammar)
	current := w.file

	t, err := tailer.New(ctx, current, w.tailerConfig(w.cfg.fromStart))
	if err != nil {
		sendError(ctx, errCh, &WatchError{Op: WatchOpTail, Path: current, Err: err})
		return
	}
	defer func() {
		if t != nil {
			_ = t.Stop()
		}
	}()
	tailErrs := t.Errors()
	w.log.Debug("started reading", "path", current, "follow", w.cfg.follow, "from_start", w.cfg.fromStart)

	ticker := time.NewTicker(w.cfg.pollInterval)
	defer ticker.Stop()
	sawLine := false

	emit := func(rec Record, ok bool) bool {
		if !ok {
			return true
		}
		select {
		case recordCh <- rec:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-t.Lines():
			if !ok {
				emit(split.Flush())
				return
			}
			sawLine = true
			if !emit(split.Feed(line)) {
				return
			}
		case err, ok := <-tailErrs:
			if !ok {
				tailErrs = nil
				continue
			}
			sendError(ctx, errCh, &WatchError{Op: WatchOpTail, Path: current, Err: err})
		case <-ticker.C:
			// A record is complete once its file has been quiet for a tick.
			if !sawLine && split.Pending() && !emit(split.Flush()) {
				return
			}
			sawLine = false

			if w.dir == "" || !w.cfg.follow {
				continue
			}
			newest, err := logfinder.FindLatestLogFile(w.dir, w.cfg.pattern)
			if err != nil {
				if !errors.Is(err, logfinder.ErrNoLogFiles) {
					sendError(ctx, errCh, &WatchError{Op: WatchOpRotation, Err: err})
				}
				continue
			}
			if newest == current {
				continue
			}
			w.log.Debug("log rotation detected", "from", current, "to", newest)
			if !emit(split.Flush()) {
				return
			}
			_ = t.Stop()
			t = nil
			nt, err := tailer.New(ctx, newest, w.tailerConfig(true))
			if err != nil {
				sendError(ctx, errCh, &WatchError{Op: WatchOpTail, Path: newest, Err: err})
				return
			}
			t = nt
			tailErrs = t.Errors()
			current = newest
			split, _ = NewSplitter(w.grammar)
		}
	}
}

// sendError sends err without blocking past ctx cancellation. If the buffer
// is full the error is dropped.
func sendError(ctx context.Context, errCh chan<- error, err error) {
	select {
	case errCh <- err:
	case <-ctx.Done():
	default:
	}
}
