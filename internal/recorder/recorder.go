package recorder

import (
	"cmp"
	"fmt"
	"slices"

	"TradeAdvisor/internal/model"
)

// Store persists the signal log.
type Store interface {
	Append(entry *model.LogEntry) error
	ReadAll() ([]model.LogEntry, error)
	Close() error
}

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open returns the store for backend. path is the JSON file or SQLite database path.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendJSON, "":
		return NewJSONFileStore(path), nil
	case BackendSQLite:
		return NewSQLiteStore(path)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}

// Summary is the aggregate view over the whole log.
type Summary struct {
	Total       int
	Buy         int
	Sell        int
	AvgLeverage float64
}

// Summarize counts signals by direction and averages the leverage used.
func Summarize(entries []model.LogEntry) Summary {
	var s Summary
	var leverage int
	for _, e := range entries {
		s.Total++
		switch e.Signal {
		case model.Buy:
			s.Buy++
		case model.Sell:
			s.Sell++
		}
		leverage += e.Leverage
	}
	if s.Total > 0 {
		s.AvgLeverage = float64(leverage) / float64(s.Total)
	}
	return s
}

// Latest returns up to n entries, newest first. n <= 0 returns all of them.
// The input slice is left untouched.
func Latest(entries []model.LogEntry, n int) []model.LogEntry {
	out := slices.Clone(entries)
	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b model.LogEntry) int {
		return cmp.Compare(b.Timestamp.UnixNano(), a.Timestamp.UnixNano())
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
