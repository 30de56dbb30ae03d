package xlsx

import (
	"errors"
	"sync"
)

// open tracks writers that have not been closed so they can be flushed at exit.
var open = struct {
	sync.Mutex
	writers map[*TableWriter]struct{}
}{writers: make(map[*TableWriter]struct{})}

func register(w *TableWriter) {
	open.Lock()
	defer open.Unlock()
	open.writers[w] = struct{}{}
}

func unregister(w *TableWriter) {
	open.Lock()
	defer open.Unlock()
	delete(open.writers, w)
}

// CloseAll closes every writer that is still open and returns their joined errors.
func CloseAll() error {
	open.Lock()
	pending := make([]*TableWriter, 0, len(open.writers))
	for w := range open.writers {
		pending = append(pending, w)
	}
	open.Unlock()

	var errs []error
	for _, w := range pending {
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OpenCount returns the number of writers not yet closed.
func OpenCount() int {
	open.Lock()
	defer open.Unlock()
	return len(open.writers)
}
