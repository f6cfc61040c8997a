package services

import (
	"errors"
	"sync"

	"github.com/yukikurage/taskboard/internal/realtime"
	"github.com/yukikurage/taskboard/internal/repository"
)

// eventRecorder is a realtime.Publisher that keeps every event
type eventRecorder struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (r *eventRecorder) Publish(ev realtime.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *eventRecorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

func (r *eventRecorder) last() realtime.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return realtime.Event{}
	}
	return r.events[len(r.events)-1]
}

// flakyKV wraps a MemoryKVStore and rejects writes while failWrites is set
type flakyKV struct {
	*repository.MemoryKVStore
	failWrites bool
}

var errQuota = errors.New("quota exceeded")

func (f *flakyKV) Set(key, value string) error {
	if f.failWrites {
		return errQuota
	}
	return f.MemoryKVStore.Set(key, value)
}

func (f *flakyKV) Batch(fn func(tx repository.KVStore) error) error {
	if f.failWrites {
		return fn(f)
	}
	return f.MemoryKVStore.Batch(fn)
}
