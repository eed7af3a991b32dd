package identity

import (
	"context"
	"sync"
)

// MemoryResolver is an in-process subject directory for dev mode and tests.
type MemoryResolver struct {
	mu       sync.RWMutex
	subjects map[string]Subject
}

func NewMemoryResolver(subjects ...Subject) *MemoryResolver {
	m := &MemoryResolver{subjects: make(map[string]Subject, len(subjects))}
	for _, s := range subjects {
		m.subjects[s.ID] = s
	}
	return m
}

func (m *MemoryResolver) Add(s Subject) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subjects[s.ID] = s
}

func (m *MemoryResolver) Resolve(ctx context.Context, subjectID string) (Subject, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.subjects[subjectID]
	if !ok {
		return Subject{}, ErrNotFound
	}
	return s, nil
}
