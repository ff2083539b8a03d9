package memory

import "github.com/sandevgo/discobot/internal/core"

const defaultMaxLength = 20

// ShortTerm is the bounded in-process buffer of recent records. Length never
// exceeds the configured maximum; overflow evicts the oldest records first.
type ShortTerm struct {
	maxLength int
	records   []core.MemoryRecord
}

func NewShortTerm(maxLength int) *ShortTerm {
	if maxLength <= 0 {
		maxLength = defaultMaxLength
	}
	return &ShortTerm{maxLength: maxLength}
}

func (s *ShortTerm) Add(record core.MemoryRecord) {
	s.records = append(s.records, record)
	if overflow := len(s.records) - s.maxLength; overflow > 0 {
		s.records = append(s.records[:0:0], s.records[overflow:]...)
	}
}

// Recent returns the most recent limit records in chronological order.
// A non-positive limit, or one at least the buffer length, returns the
// full buffer.
func (s *ShortTerm) Recent(limit int) []core.MemoryRecord {
	if limit <= 0 || limit >= len(s.records) {
		return append([]core.MemoryRecord(nil), s.records...)
	}
	return append([]core.MemoryRecord(nil), s.records[len(s.records)-limit:]...)
}

func (s *ShortTerm) Len() int {
	return len(s.records)
}

func (s *ShortTerm) Clear() {
	s.records = nil
}
