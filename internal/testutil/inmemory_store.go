package testutil

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
)

var (
	errKeyExists   = errors.New("key already exists")
	errKeyNotFound = errors.New("key not found")
)

// InMemoryStore is a generic thread-safe map preserving insertion order.
// Entity stores embed it and layer domain copies and error marking on top.
type InMemoryStore[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
}

func NewInMemoryStore[T any]() *InMemoryStore[T] {
	return &InMemoryStore[T]{
		items: make(map[string]T),
	}
}

func (s *InMemoryStore[T]) Create(_ context.Context, id string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; ok {
		return errKeyExists
	}
	s.items[id] = item
	s.order = append(s.order, id)
	return nil
}

func (s *InMemoryStore[T]) Get(_ context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		var zero T
		return zero, errKeyNotFound
	}
	return item, nil
}

func (s *InMemoryStore[T]) Update(_ context.Context, id string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return errKeyNotFound
	}
	s.items[id] = item
	return nil
}

func (s *InMemoryStore[T]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return errKeyNotFound
	}
	delete(s.items, id)
	for i, key := range s.order {
		if key == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns items in insertion order, optionally filtered.
func (s *InMemoryStore[T]) List(_ context.Context, keep func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		item := s.items[id]
		if keep == nil || keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Snapshot and Restore let the fake DB client emulate transaction rollback.

func (s *InMemoryStore[T]) Snapshot() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make(map[string]T, len(s.items))
	for k, v := range s.items {
		items[k] = v
	}
	order := make([]string, len(s.order))
	copy(order, s.order)
	return &storeSnapshot[T]{items: items, order: order}
}

func (s *InMemoryStore[T]) Restore(snap any) {
	ss, ok := snap.(*storeSnapshot[T])
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = ss.items
	s.order = ss.order
}

type storeSnapshot[T any] struct {
	items map[string]T
	order []string
}

// Snapshotter is implemented by every in-memory store so the fake DB client
// can roll all of them back together.
type Snapshotter interface {
	Snapshot() any
	Restore(snap any)
}
