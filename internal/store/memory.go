package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/i474232898/flight-weather-insights/internal/table"
)

var (
	// ErrNotFound is returned when no export is stored under a name.
	ErrNotFound = errors.New("no export stored under that name")
)

// Export is one saved table.
type Export struct {
	Name    string
	SavedAt time.Time
	Rows    int
	CSV     []byte
}

// ExportHistory holds the time-ordered exports of one file name.
type ExportHistory struct {
	Exports []Export
}

// MemoryStore is a concurrency-safe in-memory Sink that keeps a bounded history per file
// name. It backs the export download endpoints.
type MemoryStore struct {
	mu sync.RWMutex

	// key: file name, value: history
	data map[string]*ExportHistory

	maxHistory int
	maxAge     time.Duration
	now        func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*ExportHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Save implements Sink.
func (s *MemoryStore) Save(ctx context.Context, t *table.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := encodeCSV(t)
	if err != nil {
		return err
	}
	s.put(Export{Name: FileName(t), SavedAt: s.now(), Rows: t.Len(), CSV: body})
	return nil
}

func (s *MemoryStore) put(exp Export) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[exp.Name]
	if !ok {
		history = &ExportHistory{}
		s.data[exp.Name] = history
	}

	history.Exports = append(history.Exports, exp)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.Exports) > s.maxHistory {
		over := len(history.Exports) - s.maxHistory
		history.Exports = history.Exports[over:]
	}

	// Enforce retention by age. The newest export always survives.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.Exports); i++ {
			if !history.Exports[i].SavedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 && i < len(history.Exports) {
			history.Exports = history.Exports[i:]
		}
	}
}

// GetLatest returns the most recent export stored under name.
func (s *MemoryStore) GetLatest(name string) (Export, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[name]
	if !ok || len(history.Exports) == 0 {
		return Export{}, ErrNotFound
	}
	return history.Exports[len(history.Exports)-1], nil
}

// GetRange returns all exports stored under name between from and to (inclusive).
func (s *MemoryStore) GetRange(name string, from, to time.Time) ([]Export, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[name]
	if !ok || len(history.Exports) == 0 {
		return nil, ErrNotFound
	}

	var result []Export
	for _, exp := range history.Exports {
		if !exp.SavedAt.Before(from) && !exp.SavedAt.After(to) {
			result = append(result, exp)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}

	return result, nil
}

// Names returns the file names with at least one export.
func (s *MemoryStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name, h := range s.data {
		if len(h.Exports) > 0 {
			names = append(names, name)
		}
	}
	return names
}
