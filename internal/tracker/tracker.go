// Package tracker maintains the per-run registry mapping
// backward-compatibility keys to the identifiers assigned in the new
// system. It is the source of truth for "has this legacy row already been
// migrated" within one migration run.
package tracker

import (
	"sync"
	"time"
)

// Record tracks one migrated entity.
type Record struct {
	UUID       string
	Key        string // backward-compatibility key
	EntityType string
	CreatedAt  time.Time
}

// Tracker is the registry contract importers depend on. The in-memory
// implementation below is the default; a durable implementation is the
// extension point for resumable multi-hour migrations.
type Tracker interface {
	Register(rec Record)
	GetUUID(key string) (string, bool)
	Exists(key string) bool
	ByType(entityType string) []Record
	Stats() map[string]int
	Len() int
	Clear()
	SetMeta(key, value string)
	Meta(key string) (string, bool)
}

// Memory is an in-memory Tracker scoped to a single run. Registration is
// an upsert keyed on the backward-compatibility string; last write wins.
// All methods are safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	records map[string]Record
	meta    map[string]string
}

// NewMemory returns an empty in-memory tracker.
func NewMemory() *Memory {
	return &Memory{
		records: make(map[string]Record),
		meta:    make(map[string]string),
	}
}

// Register stores or overwrites the record for its key.
func (m *Memory) Register(rec Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.Key] = rec
}

// GetUUID looks up the new identifier registered under key.
func (m *Memory) GetUUID(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[key]
	if !ok {
		return "", false
	}
	return rec.UUID, true
}

// Exists reports whether key has been registered.
func (m *Memory) Exists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.records[key]
	return ok
}

// ByType returns all records of the given entity type.
func (m *Memory) ByType(entityType string) []Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Record
	for _, rec := range m.records {
		if rec.EntityType == entityType {
			out = append(out, rec)
		}
	}
	return out
}

// Stats returns the number of registered records per entity type.
func (m *Memory) Stats() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := make(map[string]int)
	for _, rec := range m.records {
		stats[rec.EntityType]++
	}
	return stats
}

// Len returns the total number of registered records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Clear removes all records and metadata.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make(map[string]Record)
	m.meta = make(map[string]string)
}

// SetMeta stores run-scoped metadata such as the default language or
// context identifier, set by the foundational importers.
func (m *Memory) SetMeta(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meta[key] = value
}

// Meta looks up run-scoped metadata.
func (m *Memory) Meta(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.meta[key]
	return v, ok
}
