// Package storage holds the in-process and on-disk implementations of
// client-local storage, plus the token source that reads the credential back.
package storage

import (
	"context"
	"sync"

	"github.com/work21/portal/internal/core/ports"
)

// MemoryProvider keeps every namespace in process memory. Contents are lost
// on restart.
type MemoryProvider struct {
	mu     sync.Mutex
	scopes map[string]map[string]string
}

var _ ports.StorageProvider = (*MemoryProvider)(nil)

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{scopes: make(map[string]map[string]string)}
}

func (p *MemoryProvider) Scope(namespace string) ports.LocalStorage {
	return &memoryScope{p: p, ns: namespace}
}

// Drop discards all keys of namespace.
func (p *MemoryProvider) Drop(namespace string) {
	p.mu.Lock()
	delete(p.scopes, namespace)
	p.mu.Unlock()
}

type memoryScope struct {
	p  *MemoryProvider
	ns string
}

func (s *memoryScope) Get(_ context.Context, key string) (string, bool, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	v, ok := s.p.scopes[s.ns][key]
	return v, ok, nil
}

func (s *memoryScope) Set(_ context.Context, key, value string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	m, ok := s.p.scopes[s.ns]
	if !ok {
		m = make(map[string]string)
		s.p.scopes[s.ns] = m
	}
	m[key] = value
	return nil
}

func (s *memoryScope) Remove(_ context.Context, key string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	delete(s.p.scopes[s.ns], key)
	return nil
}
