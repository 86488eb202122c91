package cart

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hookx/internal/models"
)

// writer applies cart snapshots to the key-value store on its own goroutine, in the order they
// were queued.
type writer struct {
	kv     models.KeyValueStore
	key    string
	logger *log.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []string
	busy   bool
	closed bool
	done   chan struct{}
}

func newWriter(kv models.KeyValueStore, key string, logger *log.Logger) *writer {
	w := &writer{
		kv:     kv,
		key:    key,
		logger: logger,
		done:   make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	go w.run()
	return w
}

// enqueue never blocks on storage. After close the write happens on the caller's goroutine.
func (w *writer) enqueue(payload string) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.write(payload)
		return
	}
	w.queue = append(w.queue, payload)
	w.cond.Broadcast()
	w.mu.Unlock()
}

func (w *writer) run() {
	defer close(w.done)

	w.mu.Lock()
	for {
		for len(w.queue) == 0 && !w.closed {
			w.cond.Wait()
		}
		if len(w.queue) == 0 {
			w.mu.Unlock()
			return
		}

		payload := w.queue[0]
		w.queue[0] = ""
		w.queue = w.queue[1:]
		w.busy = true
		w.mu.Unlock()

		w.write(payload)

		w.mu.Lock()
		w.busy = false
		w.cond.Broadcast()
	}
}

func (w *writer) write(payload string) {
	if err := w.kv.Set(w.key, payload); err != nil {
		w.logger.Warn("cart snapshot not persisted", "key", w.key, "error", err)
		return
	}
	w.logger.Debug("cart snapshot persisted", "key", w.key, "bytes", len(payload))
}

// flush blocks until every queued snapshot has been applied.
func (w *writer) flush() {
	w.mu.Lock()
	for len(w.queue) > 0 || w.busy {
		w.cond.Wait()
	}
	w.mu.Unlock()
}

// close drains the queue and stops the goroutine. It is safe to call more than once.
func (w *writer) close() {
	w.mu.Lock()
	w.closed = true
	w.cond.Broadcast()
	w.mu.Unlock()
	<-w.done
}
