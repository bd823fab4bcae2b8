package main

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"github.com/Doctusoft/lombok-ds/logger"
)

// debounce is how long the watcher waits for more changes before it
// processes the changed files.
const debounce = 200 * time.Millisecond

// watch processes the files matched by inputs again whenever they are
// written, until ctx is done. The directories of the files matched at start
// are watched, so new files in them are picked up too.
func (r *runner) watch(ctx context.Context, inputs []string) error {
	files, err := expandInputs(inputs)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating watcher")
	}
	defer w.Close()

	dirs := map[string]bool{}
	for _, f := range files {
		dirs[filepath.Dir(f)] = true
	}
	for d := range dirs {
		if err := w.Add(d); err != nil {
			return errors.Wrapf(err, "watching %s", d)
		}
	}
	logger.Logger.Infow("watching for changes", "directories", len(dirs))

	pending := map[string]bool{}
	timer := time.NewTimer(debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) || filepath.Ext(ev.Name) != ".java" {
				continue
			}
			pending[filepath.Clean(ev.Name)] = true
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Logger.Warnw("watcher error", logger.FieldError, err)
		case <-timer.C:
			changed, err := r.changed(inputs, pending)
			if err != nil {
				logger.Logger.Warnw("could not expand inputs", logger.FieldError, err)
				continue
			}
			pending = map[string]bool{}
			if len(changed) == 0 {
				continue
			}
			if _, err := r.run(ctx, changed); err != nil {
				return err
			}
		}
	}
}

// changed returns the pending files that the inputs still match, sorted.
func (r *runner) changed(inputs []string, pending map[string]bool) ([]string, error) {
	files, err := expandInputs(inputs)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, f := range files {
		if pending[f] {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out, nil
}
