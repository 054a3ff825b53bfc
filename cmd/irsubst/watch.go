package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watchInput runs j once, then again after every change to its input file,
// until ctx is cancelled. Failed runs are reported and watching continues.
// The parent directory is watched so saves that rename a temporary file
// over the input are seen.
func watchInput(ctx context.Context, j job) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Close()

	target, err := filepath.Abs(j.input)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", j.input, err)
	}

	rerun := func() {
		if err := j.run(); err != nil && !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}

	rerun()
	log.Printf("watching %s", j.input)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if _, err := os.Stat(target); err != nil {
				// Removed or mid-rename; the next create event re-runs.
				continue
			}
			log.Printf("%s changed (%s)", j.input, ev.Op)
			rerun()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch error: %v", err)
		}
	}
}
