package core

import "context"

// LongTermMemory is the pluggable persistent backend. Append-only from the
// orchestrator's point of view; search returns most recent matches first.
type LongTermMemory interface {
	StoreInteraction(ctx context.Context, record MemoryRecord) error
	Search(ctx context.Context, query string, limit int) ([]MemoryRecord, error)
}

// LongTerm models the optional backend as an explicit present/absent value
// instead of a nilable reference, so every call site handles both cases.
type LongTerm struct {
	backend LongTermMemory
}

// SomeLongTerm wraps a configured backend.
func SomeLongTerm(backend LongTermMemory) LongTerm {
	return LongTerm{backend: backend}
}

// NoLongTerm is the absent variant; searches against it yield nothing and
// stores are silently skipped. Not an error state.
func NoLongTerm() LongTerm {
	return LongTerm{}
}

func (l LongTerm) Present() bool {
	return l.backend != nil
}

// Backend returns the configured backend, or false when absent.
func (l LongTerm) Backend() (LongTermMemory, bool) {
	return l.backend, l.backend != nil
}
