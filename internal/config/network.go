package config

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/fsnotify/fsnotify"
	"github.com/sweeney/goal-tracker/internal/status"
)

// ReadNetworkFile parses a KEY=VALUE env file as written by pi-helper.
// Blank lines and # comments are skipped; values may be quoted.
func ReadNetworkFile(path string) (*status.NetworkInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	vars := make(map[string]string)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		vars[strings.TrimSpace(k)] = strings.Trim(strings.TrimSpace(v), `"'`)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var n Network
	if err := env.ParseWithOptions(&n, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return n.Info(), nil
}

// WatchNetworkFile calls onChange with the parsed file every time it is
// written or replaced, until ctx is done. The directory is watched so that
// atomic renames are seen.
func WatchNetworkFile(ctx context.Context, path string, onChange func(*status.NetworkInfo)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				info, err := ReadNetworkFile(abs)
				if err != nil {
					log.Printf("network file: %v", err)
					continue
				}
				onChange(info)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("network watcher: %v", err)
			}
		}
	}()
	return nil
}
