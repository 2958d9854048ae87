package quiz

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is a map-backed Store for offline development and tests.
type MemoryStore struct {
	mu        sync.RWMutex
	modules   map[string]Module
	banks     map[string]Bank // keyed by module ID
	questions map[string]Question
	attempts  map[string]Attempt
	progress  map[string]Progress // keyed by studentID|courseID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		modules:   map[string]Module{},
		banks:     map[string]Bank{},
		questions: map[string]Question{},
		attempts:  map[string]Attempt{},
		progress:  map[string]Progress{},
	}
}

func progressKey(studentID, courseID string) string { return studentID + "|" + courseID }

// Seed helpers; the engine itself never writes these entities.

func (m *MemoryStore) PutModule(mod Module) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modules[mod.ID] = mod
}

func (m *MemoryStore) PutBank(b Bank) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.banks[b.ModuleID] = b
}

func (m *MemoryStore) PutQuestion(q Question) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.questions[q.ID] = q
}

func (m *MemoryStore) PutProgress(p Progress) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress[progressKey(p.StudentID, p.CourseID)] = p
}

func (m *MemoryStore) GetProgress(studentID, courseID string) (Progress, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.progress[progressKey(studentID, courseID)]
	return p, ok
}

// Store implementation.

func (m *MemoryStore) GetModule(_ context.Context, moduleID string) (Module, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mod, ok := m.modules[moduleID]
	if !ok {
		return Module{}, fmt.Errorf("%w: module %s", ErrNotFound, moduleID)
	}
	return mod, nil
}

func (m *MemoryStore) GetBank(_ context.Context, moduleID string) (Bank, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.banks[moduleID]
	if !ok {
		return Bank{}, fmt.Errorf("%w: question bank for module %s", ErrNotFound, moduleID)
	}
	return b, nil
}

func (m *MemoryStore) GetQuestions(_ context.Context, ids []string) ([]Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Question, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if q, ok := m.questions[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *MemoryStore) PutAttempt(_ context.Context, a Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.attempts[a.ID]; ok {
		return fmt.Errorf("attempt %s already exists", a.ID)
	}
	m.attempts[a.ID] = a
	return nil
}

func (m *MemoryStore) GetAttempt(_ context.Context, id string) (Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.attempts[id]
	if !ok {
		return Attempt{}, fmt.Errorf("%w: attempt %s", ErrNotFound, id)
	}
	return a, nil
}

func (m *MemoryStore) ListAttempts(_ context.Context, opts AttemptListOpts) ([]AttemptSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []AttemptSummary{}
	for _, a := range m.attempts {
		if opts.ModuleID != "" && a.ModuleID != opts.ModuleID {
			continue
		}
		if opts.StudentID != "" && a.StudentID != opts.StudentID {
			continue
		}
		out = append(out, AttemptSummary{
			ID:         a.ID,
			StudentID:  a.StudentID,
			ModuleID:   a.ModuleID,
			Score:      a.Score,
			FinalGrade: a.FinalGrade,
			CreatedAt:  a.CreatedAt,
		})
	}
	// newest first, mirroring the SQL store
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt > out[i].CreatedAt {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return []AttemptSummary{}, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *MemoryStore) IncrementProgress(_ context.Context, studentID, courseID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := progressKey(studentID, courseID)
	p, ok := m.progress[key]
	if !ok {
		return fmt.Errorf("%w: progress for student %s in course %s", ErrNotFound, studentID, courseID)
	}
	p.Completion++
	p.LastAccessed = append(p.LastAccessed, at.Unix())
	m.progress[key] = p
	return nil
}
