package lumen

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher requests a UI reload whenever one of its files changes on disk.
// Layout files, textures and config files are typical targets. The reload
// itself runs at the end of the next UI.Update, on the update goroutine.
type Watcher struct {
	ui    *UI
	fs    *fsnotify.Watcher
	files map[string]bool
	done  chan struct{}
	wg    sync.WaitGroup
}

// Watch starts watching paths. The parent directory of each file is watched
// so files replaced by rename (as most editors save) are still seen. Call
// Close to stop.
func (ui *UI) Watch(paths ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	w := &Watcher{
		ui:    ui,
		fs:    fw,
		files: make(map[string]bool, len(paths)),
		done:  make(chan struct{}),
	}
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}
		w.files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.files[filepath.Clean(ev.Name)] {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.ui.log.Debug("watched file changed", slog.String("file", ev.Name), slog.String("op", ev.Op.String()))
			w.ui.RequestReload()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.ui.log.Warn("file watcher error", slog.Any("error", err))
		}
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()
	return err
}
