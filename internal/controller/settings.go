package controller

import "sync"

// settingsWriter serializes saves issued from concurrent tea.Cmd goroutines.
// Each save carries the sequence it was issued under; a save older than the
// last one written is skipped so the stored pair always matches the newest
// state.
type settingsWriter struct {
	save SettingsSaver

	mu      sync.Mutex
	issued  uint64
	written uint64
}

func newSettingsWriter(save SettingsSaver) *settingsWriter {
	if save == nil {
		return nil
	}
	return &settingsWriter{save: save}
}

// next stamps a save. It is called on the update loop.
func (w *settingsWriter) next() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.issued++
	return w.issued
}

// write persists settings unless a newer sequence was already written. A
// failed write still advances the mark: an older pair must not replace it.
func (w *settingsWriter) write(seq uint64, settings Settings) (skipped bool, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if seq <= w.written {
		return true, nil
	}
	w.written = seq
	return false, w.save(settings)
}
