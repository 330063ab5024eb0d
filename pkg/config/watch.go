package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	sferrors "github.com/vnykmshr/syncflow/pkg/common/errors"
)

// Watch reloads the file at path whenever it changes and passes every valid
// result to onChange. Load failures go to onError (which may be nil) and the
// previous configuration stays in effect. Watch blocks until ctx ends.
//
// The parent directory is watched rather than the file, so editors that
// replace the file on save are handled.
func Watch(ctx context.Context, path string, onChange func(Config), onError func(error)) error {
	if onChange == nil {
		return sferrors.NewValidationError(moduleName, "onChange", nil, "cannot be nil")
	}
	if onError == nil {
		onError = func(error) {}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return sferrors.NewOperationError(moduleName, "watch", err).WithContext(path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return sferrors.NewOperationError(moduleName, "watch", err).WithContext(path)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return sferrors.NewOperationError(moduleName, "watch", err).WithContext(path)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := Load(abs)
			if err != nil {
				onError(err)
				continue
			}
			onChange(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onError(sferrors.NewOperationError(moduleName, "watch", err).WithContext(path))
		}
	}
}
