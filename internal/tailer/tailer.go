// Package tailer reads a log file line by line, optionally following it as
// it grows, on top of github.com/nxadm/tail.
package tailer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/nxadm/tail"
)

// Config controls how a file is read.
type Config struct {
	// FromStart reads existing content; otherwise only appended lines are read.
	FromStart bool
	// Follow keeps reading after EOF. Without it the line channel closes at EOF.
	Follow bool
	// Poll uses polling instead of file system notifications.
	Poll bool
	// ReOpen reopens the file when it is truncated or recreated. Requires Follow.
	ReOpen bool
}

// DefaultConfig follows a file from its current end.
func DefaultConfig() Config {
	return Config{Follow: true}
}

// Tailer delivers the lines of one file.
type Tailer struct {
	t      *tail.Tail
	lines  chan string
	errs   chan error
	cancel context.CancelFunc
	done   chan struct{}
}

// New starts reading path. The channels close when ctx is cancelled, when
// Stop is called, or at EOF when cfg.Follow is false.
func New(ctx context.Context, path string, cfg Config) (*Tailer, error) {
	tcfg := tail.Config{
		Follow:    cfg.Follow,
		ReOpen:    cfg.ReOpen && cfg.Follow,
		Poll:      cfg.Poll,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
	}
	if !cfg.FromStart {
		tcfg.Location = &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	}

	t, err := tail.TailFile(path, tcfg)
	if err != nil {
		return nil, fmt.Errorf("tailing %s: %w", path, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	tl := &Tailer{
		t:      t,
		lines:  make(chan string),
		errs:   make(chan error, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go tl.run(ctx)
	return tl, nil
}

func (tl *Tailer) run(ctx context.Context) {
	defer close(tl.done)
	defer close(tl.lines)
	defer close(tl.errs)

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-tl.t.Lines:
			if !ok {
				if err := tl.t.Wait(); err != nil {
					tl.sendError(err)
				}
				return
			}
			if line.Err != nil {
				tl.sendError(line.Err)
				continue
			}
			select {
			case tl.lines <- strings.TrimSuffix(line.Text, "\r"):
			case <-ctx.Done():
				return
			}
		}
	}
}

func (tl *Tailer) sendError(err error) {
	select {
	case tl.errs <- err:
	default:
	}
}

// Lines returns the channel of lines without their line terminators.
func (tl *Tailer) Lines() <-chan string { return tl.lines }

// Errors returns the channel of read errors.
func (tl *Tailer) Errors() <-chan error { return tl.errs }

// Stop stops reading and waits for the delivery goroutine to exit.
func (tl *Tailer) Stop() error {
	tl.cancel()
	err := tl.t.Stop()
	<-tl.done
	tl.t.Cleanup()
	return err
}
