// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/desertthunder/hookx/internal/models"
)

var _ models.KeyValueStore = (*RecordingStore)(nil)

// ErrStoreUnavailable is returned by [RecordingStore] when a failure has been injected.
var ErrStoreUnavailable = errors.New("store unavailable")

// Write is one recorded call to [RecordingStore.Set] or [RecordingStore.Remove].
type Write struct {
	Key     string
	Value   string
	Removed bool
}

// RecordingStore is an in-memory [models.KeyValueStore] that records every write
// and can be told to fail reads or writes.
type RecordingStore struct {
	mu        sync.Mutex
	data      map[string]string
	writes    []Write
	failGet   bool
	failSet   bool
	failOnKey string
	onSet     func(key, value string)
}

// NewRecordingStore creates an empty store, optionally seeded with initial values.
func NewRecordingStore(seed map[string]string) *RecordingStore {
	data := make(map[string]string, len(seed))
	for k, v := range seed {
		data[k] = v
	}
	return &RecordingStore{data: data}
}

func (s *RecordingStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failGet {
		return "", false, ErrStoreUnavailable
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *RecordingStore) Set(key, value string) error {
	s.mu.Lock()
	if s.failSet || (s.failOnKey != "" && s.failOnKey == key) {
		s.mu.Unlock()
		return ErrStoreUnavailable
	}
	s.data[key] = value
	s.writes = append(s.writes, Write{Key: key, Value: value})
	hook := s.onSet
	s.mu.Unlock()

	if hook != nil {
		hook(key, value)
	}
	return nil
}

func (s *RecordingStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failSet || (s.failOnKey != "" && s.failOnKey == key) {
		return ErrStoreUnavailable
	}
	delete(s.data, key)
	s.writes = append(s.writes, Write{Key: key, Removed: true})
	return nil
}

// FailReads makes every Get return [ErrStoreUnavailable].
func (s *RecordingStore) FailReads(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failGet = fail
}

// FailWrites makes every Set and Remove return [ErrStoreUnavailable].
func (s *RecordingStore) FailWrites(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSet = fail
}

// FailKey makes writes to a single key fail; an empty key clears the injection.
func (s *RecordingStore) FailKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOnKey = key
}

// OnSet registers a hook called after each successful Set, outside the store lock.
func (s *RecordingStore) OnSet(fn func(key, value string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSet = fn
}

// Writes returns a copy of the recorded writes in the order they were applied.
func (s *RecordingStore) Writes() []Write {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Write(nil), s.writes...)
}

// WritesFor returns the recorded values written to key, in order.
func (s *RecordingStore) WritesFor(key string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := []string{}
	for _, w := range s.writes {
		if w.Key == key && !w.Removed {
			values = append(values, w.Value)
		}
	}
	return values
}

// Value returns the current value of key.
func (s *RecordingStore) Value(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}
