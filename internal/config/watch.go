package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	game_log "github.com/ingyamilmolinar/trimline/internal/log"
)

// Watch reloads the config whenever the file changes and hands the fresh
// copy to onChange. The callback runs on the watcher goroutine; hosts that
// need the single event context must forward it themselves. Returns a stop
// function.
func Watch(path string, logger *game_log.Logger, onChange func(*Config)) (func(), error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: editors replace files on save, which drops a
	// watch placed on the file itself.
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}
	abs, _ := filepath.Abs(path)

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				evAbs, _ := filepath.Abs(ev.Name)
				if evAbs != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				c, err := Load(path)
				if err != nil {
					logger.Warnf("[CONFIG] reload failed: %v", err)
					continue
				}
				logger.Infof("[CONFIG] reloaded %s", path)
				onChange(c)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warnf("[CONFIG] watcher error: %v", err)
			}
		}
	}()
	return func() { w.Close() }, nil
}
