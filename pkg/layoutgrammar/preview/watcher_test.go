package preview_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrclog/layoutgrammar/internal/logfinder"
	"github.com/vrclog/layoutgrammar/pkg/layoutgrammar"
	"github.com/vrclog/layoutgrammar/pkg/layoutgrammar/preview"
)

func grammar(t *testing.T) *layoutgrammar.Grammar {
	t.Helper()
	g, _, err := layoutgrammar.Import("${longdate} ${level} ${message}")
	require.NoError(t, err)
	return g
}

func drain(t *testing.T, ctx context.Context, records <-chan preview.Record, errs <-chan error, n int) []preview.Record {
	t.Helper()
	var got []preview.Record
	for n < 0 || len(got) < n {
		select {
		case rec, ok := <-records:
			if !ok {
				return got
			}
			got = append(got, rec)
		case err, ok := <-errs:
			if ok {
				t.Fatalf("unexpected error: %v", err)
			}
			errs = nil
		case <-ctx.Done():
			t.Fatalf("timeout after %d records", len(got))
		}
	}
	return got
}

func TestWatcher_ReadsWholeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	content := "2024-01-02 03:04:05.6789 Info started\n" +
		"2024-01-02 03:04:06.0000 Error failed\n" +
		"  stack line\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	w, err := preview.NewWatcher(grammar(t), preview.WithPath(path))
	require.NoError(t, err)
	defer w.Close()
	assert.Equal(t, path, w.File())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	records, errs, err := w.Watch(ctx)
	require.NoError(t, err)

	got := drain(t, ctx, records, errs, -1)
	require.Len(t, got, 2)
	assert.Equal(t, "started", got[0].Body)
	assert.Equal(t, preview.SeverityError, got[1].Severity)
	assert.Equal(t, "failed\n  stack line", got[1].Body)
}

func TestWatcher_DirectoryPicksNewestFile(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "a.log")
	newer := filepath.Join(dir, "b.log")
	require.NoError(t, os.WriteFile(older, []byte("x\n"), 0o600))
	require.NoError(t, os.WriteFile(newer, []byte("y\n"), 0o600))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	w, err := preview.NewWatcher(grammar(t), preview.WithPath(dir))
	require.NoError(t, err)
	defer w.Close()
	assert.Equal(t, newer, w.File())

	t.Setenv(logfinder.EnvLogDir, dir)
	w2, err := preview.NewWatcher(grammar(t))
	require.NoError(t, err)
	defer w2.Close()
	assert.Equal(t, filepath.Base(newer), filepath.Base(w2.File()))
}

func TestWatcher_FollowFlushesQuietRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	w, err := preview.NewWatcher(grammar(t),
		preview.WithPath(path),
		preview.WithFollow(true),
		preview.WithPolling(true),
		preview.WithPollInterval(100*time.Millisecond),
	)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	records, errs, err := w.Watch(ctx)
	require.NoError(t, err)

	time.Sleep(200 * time.Millisecond)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = f.WriteString("2024-01-02 03:04:05.6789 Warn appended\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	got := drain(t, ctx, records, errs, 1)
	assert.Equal(t, "appended", got[0].Body)
	assert.Equal(t, preview.SeverityWarning, got[0].Severity)
}

func TestWatcher_WatchTwiceAndClosed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	w, err := preview.NewWatcher(grammar(t), preview.WithPath(path))
	require.NoError(t, err)

	_, _, err = w.Watch(context.Background())
	require.NoError(t, err)
	_, _, err = w.Watch(context.Background())
	assert.ErrorIs(t, err, preview.ErrAlreadyWatching)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	w2, err := preview.NewWatcher(grammar(t), preview.WithPath(path))
	require.NoError(t, err)
	require.NoError(t, w2.Close())
	_, _, err = w2.Watch(context.Background())
	assert.ErrorIs(t, err, preview.ErrWatcherClosed)
}

func TestNewWatcher_Errors(t *testing.T) {
	g := grammar(t)

	_, err := preview.NewWatcher(g, preview.WithPath(filepath.Join(t.TempDir(), "missing.log")))
	assert.True(t, errors.Is(err, logfinder.ErrNoLogFiles))

	_, err = preview.NewWatcher(g, preview.WithPath(t.TempDir()))
	assert.ErrorIs(t, err, logfinder.ErrNoLogFiles)

	_, err = preview.NewWatcher(g, preview.WithPath(t.TempDir()), preview.WithPollInterval(0))
	assert.ErrorContains(t, err, "poll interval")

	_, err = preview.NewWatcher(g, preview.WithPath(t.TempDir()), preview.WithFromStart(false))
	assert.ErrorContains(t, err, "follow")

	_, err = preview.NewWatcher(&layoutgrammar.Grammar{HeadRe: "("}, preview.WithPath(t.TempDir()))
	assert.Error(t, err)

	t.Setenv(logfinder.EnvLogDir, "")
	_, err = preview.NewWatcher(g)
	assert.ErrorIs(t, err, logfinder.ErrLogDirNotFound)
}
