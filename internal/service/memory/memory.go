package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/discobot/internal/core"
)

// Manager aggregates the short-term buffer and the optional long-term store.
type Manager struct {
	shortTerm *ShortTerm
	longTerm  core.LongTerm
	lastStamp time.Time
}

func NewManager(shortTerm *ShortTerm, longTerm core.LongTerm) *Manager {
	if shortTerm == nil {
		shortTerm = NewShortTerm(0)
	}
	return &Manager{
		shortTerm: shortTerm,
		longTerm:  longTerm,
	}
}

// AddMessage creates a record stamped with the current instant, appends it to
// the short-term buffer, and writes it to the long-term store when persist is
// requested and a backend is configured. The created record is returned so
// callers can reference its timestamp.
func (m *Manager) AddMessage(ctx context.Context, role, content string, metadata map[string]any, persist bool) (core.MemoryRecord, error) {
	if metadata == nil {
		metadata = map[string]any{}
	}

	record := core.MemoryRecord{
		Role:      role,
		Content:   content,
		Timestamp: m.nextStamp(),
		Metadata:  metadata,
	}
	m.shortTerm.Add(record)

	if persist {
		if backend, ok := m.longTerm.Backend(); ok {
			if err := backend.StoreInteraction(ctx, record); err != nil {
				return record, fmt.Errorf("failed to persist record: %w", err)
			}
		}
	}
	return record, nil
}

// Recent returns the most recent limit records, oldest first; a non-positive
// limit returns the whole buffer.
func (m *Manager) Recent(limit int) []core.MemoryRecord {
	return m.shortTerm.Recent(limit)
}

// SearchLongTerm queries the long-term backend. Absence of a backend is a
// normal degraded mode: it yields an empty result, never an error.
func (m *Manager) SearchLongTerm(ctx context.Context, query string, limit int) ([]core.MemoryRecord, error) {
	backend, ok := m.longTerm.Backend()
	if !ok {
		return nil, nil
	}
	return backend.Search(ctx, query, limit)
}

// HasLongTerm reports whether a long-term backend is configured.
func (m *Manager) HasLongTerm() bool {
	return m.longTerm.Present()
}

// Clear empties the short-term buffer only; long-term records are kept.
func (m *Manager) Clear() {
	m.shortTerm.Clear()
}

func (m *Manager) Len() int {
	return m.shortTerm.Len()
}

// nextStamp keeps record timestamps monotonically non-decreasing even when
// the wall clock steps backwards between turns.
func (m *Manager) nextStamp() time.Time {
	now := time.Now().UTC()
	if now.Before(m.lastStamp) {
		now = m.lastStamp
	}
	m.lastStamp = now
	return now
}
