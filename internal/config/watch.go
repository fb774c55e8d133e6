package config

import (
	"context"
	"log/slog"
	"reflect"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors path and calls onChange with the newly loaded Config each
// time the file changes on disk. It runs until ctx is cancelled.
//
// Atomic-save editors produce a rename/create burst for a single save, so a
// reload that parses to a Config identical to the previous one is skipped.
// If a reload fails (e.g., invalid YAML) the error is logged and the
// previous config remains active — Watch does not call onChange.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	slog.Info("config: watching for changes", "path", path)

	var last *Config
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Write covers in-place saves; Create covers the rename step of
			// an atomic save.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := Load(path)
			if err != nil {
				slog.Error("config: reload failed — keeping previous config",
					"path", path, "err", err)
				continue
			}

			// Re-add the file in case an atomic save replaced the inode.
			_ = watcher.Add(path)

			if last != nil && reflect.DeepEqual(cfg, last) {
				slog.Debug("config: file touched but unchanged", "path", path)
				continue
			}
			last = cfg

			slog.Info("config: reloaded",
				"path", path,
				"metadata_key", cfg.MetadataKey,
				"excluded", len(cfg.ExcludedFolders),
			)
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}
