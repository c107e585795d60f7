package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"paige/internal/storage"
)

// StorageKey is the single key the whole log is serialized under.
const StorageKey = "conversations"

// Store owns the conversation log. Every Append rewrites the entire log
// to the backend; the log is unbounded.
type Store struct {
	backend storage.Backend
	log     *zap.Logger
	now     func() time.Time

	mu      sync.RWMutex
	records []Record
	lastID  int64
}

type Option func(*Store)

// WithClock replaces time.Now, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(backend storage.Backend, log *zap.Logger, opts ...Option) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		backend: backend,
		log:     log.With(zap.String("component", "conversation")),
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load replaces the in-memory log with the persisted one.
// A missing or unparsable value yields an empty log; Load never fails.
func (s *Store) Load(ctx context.Context) {
	records := s.read(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.lastID = 0
	for _, r := range records {
		if r.ID > s.lastID {
			s.lastID = r.ID
		}
	}
	s.log.Info("conversation log loaded", zap.Int("records", len(records)))
}

func (s *Store) read(ctx context.Context) []Record {
	data, err := s.backend.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("failed to read conversation log, starting empty", zap.Error(err))
		}
		return []Record{}
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		s.log.Warn("stored conversation log is malformed, starting empty", zap.Error(err))
		return []Record{}
	}
	if records == nil {
		records = []Record{}
	}
	return records
}

// Append creates a record, adds it to the log and writes the whole log back.
// On a write failure the record stays in memory and the error is returned;
// the next successful Append persists it.
func (s *Store) Append(ctx context.Context, selectedText, question, answer string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	rec := Record{
		ID:           id,
		SelectedText: selectedText,
		Question:     question,
		Answer:       answer,
		Timestamp:    now.UTC(),
	}
	s.records = append(s.records, rec)
	s.lastID = id

	data, err := json.Marshal(s.records)
	if err != nil {
		return rec, fmt.Errorf("encode conversation log: %w", err)
	}
	if err := s.backend.Put(ctx, StorageKey, data); err != nil {
		return rec, fmt.Errorf("write conversation log: %w", err)
	}
	s.log.Debug("conversation appended", zap.Int64("id", id), zap.Int("records", len(s.records)))
	return rec, nil
}

// All returns a copy of the log in creation order.
func (s *Store) All() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
