package replay

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/mpapenbr/racereplay/log"
)

type watcher struct {
	file   string
	reload func() error
	log    *log.Logger
}

// start watches the directory of the file since editors often replace the
// file instead of writing it.
func (w *watcher) start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create fsnotify watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.file)); err != nil {
		fw.Close()
		return fmt.Errorf("could not watch %s: %w", w.file, err)
	}
	go w.loop(ctx, fw)
	return nil
}

//nolint:cyclop // by design
func (w *watcher) loop(ctx context.Context, fw *fsnotify.Watcher) {
	defer fw.Close()
	target := filepath.Clean(w.file)
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("context done, stopping dataset reload")
			return
		case event, ok := <-fw.Events:
			if !ok {
				w.log.Info("watcher events channel closed, stopping dataset reload")
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			w.log.Debug("change detected",
				log.String("file", event.Name), log.Any("event", event))
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.log.Info("dataset changed, reloading", log.String("file", event.Name))
				if err := w.reload(); err != nil {
					w.log.Error("could not reload dataset", log.ErrorField(err))
				}
			}
		case err, ok := <-fw.Errors:
			if !ok {
				w.log.Info("watcher errors channel closed, stopping dataset reload")
				return
			}
			w.log.Error("watcher error", log.ErrorField(err))
		}
	}
}
