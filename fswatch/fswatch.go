// Package fswatch keeps a directory's tree digest current while its contents
// change.
package fswatch

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"RipeDigest/tree"

	"github.com/decred/dcrwallet/errors/v2"
	"github.com/decred/slog"
	"github.com/fsnotify/fsnotify"
)

var log = slog.Disabled

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger slog.Logger) {
	log = logger
}

const changeOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// Watch sends the tree digest of basedir on updates once at start and again
// after every batch of changes. Events arriving within throttle of each other
// are coalesced. Watch returns when ctx is done.
func Watch(ctx context.Context, basedir string, throttle time.Duration, updates chan<- string) error {
	const op errors.Op = "fswatch.Watch"
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.E(op, errors.IO, err)
	}
	defer watcher.Close()
	err = filepath.Walk(basedir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return errors.E(op, errors.IO, err)
	}

	send := func() bool {
		sid, err := tree.ComputeDigest(ctx, basedir)
		if err != nil {
			log.Warnf("Tree digest of %s: %v", basedir, err)
			return true
		}
		select {
		case updates <- sid:
			return true
		case <-ctx.Done():
			return false
		}
	}
	if !send() {
		return nil
	}
	log.Infof("Watching %s for changes", basedir)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&changeOps == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if fi, err := os.Lstat(event.Name); err == nil && fi.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						log.Warnf("Watch %s: %v", event.Name, err)
					}
				}
			}
			log.Tracef("Change: %v", event)
			if pending == nil {
				pending = time.After(throttle)
			}
		case <-pending:
			pending = nil
			if !send() {
				return nil
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Errorf("Watcher error: %v", err)
		}
	}
}
