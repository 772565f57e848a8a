package viz

import (
	"io"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/san-kum/verletsim/internal/config"
)

// ConfigMsg carries a reloaded config, or the error that prevented it.
type ConfigMsg struct {
	Config *config.Config
	Err    error
}

// WatchConfig reloads path on every write and hands the result to send,
// typically (*tea.Program).Send. The parent directory is watched because
// editors often replace the file instead of writing it.
func WatchConfig(path string, send func(tea.Msg)) (io.Closer, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	target := filepath.Clean(path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		w.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
					continue
				}
				cfg, err := config.Load(target)
				if err == nil {
					err = cfg.Validate()
				}
				if err != nil {
					cfg = nil
				}
				send(ConfigMsg{Config: cfg, Err: err})
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				send(ConfigMsg{Err: err})
			}
		}
	}()
	return w, nil
}
