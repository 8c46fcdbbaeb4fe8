package ingest

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/satcat/internal/models"
	"github.com/starford/satcat/internal/storage"
)

// settleDelay is how long a dropped file must stay quiet before it is read.
const settleDelay = 250 * time.Millisecond

// EventCallback is called after a watcher-driven file is handled.
// kind is "processed" or "failed".
type EventCallback func(kind string, path string)

// Watch ingests files dropped into the inbox feed directories until ctx is
// cancelled. Files already waiting are ingested first. Every file is moved
// to processed/ or failed/ once handled.
func Watch(ctx context.Context, in *Ingester, inbox storage.Provider, root string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	for _, dir := range []string{models.FeedSatcat, models.FeedTLE} {
		if err := w.Add(filepath.Join(root, dir)); err != nil {
			return err
		}
	}
	logger.Info("watcher: started", slog.String("root", root))

	for _, dir := range []string{models.FeedSatcat, models.FeedTLE} {
		files, err := inbox.List(dir)
		if err != nil {
			logger.Warn("watcher: list failed", slog.String("dir", dir), slog.String("error", err.Error()))
			continue
		}
		for _, f := range files {
			handleFile(ctx, in, inbox, f.Path, logger, cb)
		}
	}

	pending := make(map[string]struct{})
	var settleTimer *time.Timer
	var settleCh <-chan time.Time
	schedule := func() {
		if settleTimer == nil {
			settleTimer = time.NewTimer(settleDelay)
			settleCh = settleTimer.C
		} else {
			settleTimer.Reset(settleDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if settleTimer != nil {
				settleTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-settleCh:
			for rel := range pending {
				handleFile(ctx, in, inbox, rel, logger, cb)
			}
			clear(pending)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if strings.HasPrefix(filepath.Base(ev.Name), ".") {
				continue
			}
			if info, statErr := os.Stat(ev.Name); statErr != nil || !info.Mode().IsRegular() {
				continue
			}
			rel, relErr := filepath.Rel(root, ev.Name)
			if relErr != nil {
				continue
			}
			pending[filepath.ToSlash(rel)] = struct{}{}
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// handleFile ingests one inbox file and retires it.
func handleFile(ctx context.Context, in *Ingester, inbox storage.Provider, rel string, logger *slog.Logger, cb EventCallback) {
	data, err := inbox.Read(rel)
	if errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err != nil {
		logger.Warn("watcher: read failed", slog.String("path", rel), slog.String("error", err.Error()))
		return
	}

	kind := "processed"
	dir := storage.DirProcessed
	if _, err := in.IngestFeed(ctx, storage.KindOf(rel), rel, data); err != nil {
		logger.Error("watcher: ingest failed", slog.String("path", rel), slog.String("error", err.Error()))
		kind, dir = "failed", storage.DirFailed
	}

	if err := inbox.Move(rel, storage.RetirePath(dir, rel, in.now())); err != nil {
		logger.Warn("watcher: move failed", slog.String("path", rel), slog.String("error", err.Error()))
		return
	}
	logger.Debug("watcher: handled", slog.String("path", rel), slog.String("result", kind))
	if cb != nil {
		cb(kind, rel)
	}
}
