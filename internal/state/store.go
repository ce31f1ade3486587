package state

import (
	"sync"

	"github.com/asklens-labs/asklens/internal/schema"
)

// DefaultHistoryLimit caps the conversation history sent back to the
// backend. Zero disables the cap.
const DefaultHistoryLimit = 10

// Store is the single source of truth for the latest query outcome.
// All mutation goes through Update and AppendTurn; readers take copies
// via Snapshot and History.
type Store struct {
	mu           sync.Mutex
	current      Result
	history      []Turn
	historyLimit int
}

// NewStore creates a store holding the default empty result.
func NewStore() *Store {
	return &Store{
		current:      defaultResult(),
		historyLimit: DefaultHistoryLimit,
	}
}

// SetHistoryLimit changes the retention cap for conversation turns.
// A limit of zero keeps the history unbounded.
func (s *Store) SetHistoryLimit(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.historyLimit = n
	s.trimHistoryLocked()
}

// Update replaces the canonical result with the incoming one, applying
// the or-default rule: any field left empty in the payload takes its
// fixed default instead of keeping the previous value. This is a full
// logical replace per field, never a deep merge.
func (s *Store) Update(in Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = normalize(in)
}

// Reset discards the current result and conversation history.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = defaultResult()
	s.history = nil
}

// Snapshot returns a copy of the current result. Every slice is copied
// one level deep; the row maps inside Dataset are shared and must not be
// mutated.
func (s *Store) Snapshot() Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.current
	out.Fields = copySlice(s.current.Fields)
	out.Dataset = copySlice(s.current.Dataset)
	out.AvailableChartTypes = copySlice(s.current.AvailableChartTypes)
	out.Aggregation.Dimensions = copySlice(s.current.Aggregation.Dimensions)
	out.Aggregation.Measures = copySlice(s.current.Aggregation.Measures)
	out.Aggregation.CreatedDateRange = copySlice(s.current.Aggregation.CreatedDateRange)
	out.Aggregation.DatasourceMetadata = copySlice(s.current.Aggregation.DatasourceMetadata)
	out.Aggregation.FieldMetadata = copySlice(s.current.Aggregation.FieldMetadata)
	out.Insights.FilterDescription.Entries = copySlice(s.current.Insights.FilterDescription.Entries)
	return out
}

// copySlice keeps nil nil and empty empty, so the non-nil defaults
// Update installs survive the copy.
func copySlice[T any](src []T) []T {
	if src == nil {
		return nil
	}
	out := make([]T, len(src))
	copy(out, src)
	return out
}

// AppendTurn records one query/response exchange, trimming to the
// retention cap when one is set.
func (s *Store) AppendTurn(query, response string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, Turn{Query: query, Response: response})
	s.trimHistoryLocked()
}

// History returns a copy of the conversation history, oldest first.
func (s *Store) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Turn(nil), s.history...)
}

func (s *Store) trimHistoryLocked() {
	if s.historyLimit > 0 && len(s.history) > s.historyLimit {
		s.history = append([]Turn(nil), s.history[len(s.history)-s.historyLimit:]...)
	}
}

func defaultResult() Result {
	return Result{
		Fields:              []string{},
		Dataset:             []Row{},
		ChartType:           DefaultChartType,
		AvailableChartTypes: []string{},
		Aggregation: Aggregation{
			Dimensions: []string{},
			Measures:   []Measure{},
		},
	}
}

// normalize applies per-field defaults to an incoming result.
func normalize(in Result) Result {
	out := in
	if out.Fields == nil {
		out.Fields = []string{}
	}
	if out.Dataset == nil {
		out.Dataset = []Row{}
	}
	if out.ChartType == "" {
		out.ChartType = DefaultChartType
	}
	if out.AvailableChartTypes == nil {
		out.AvailableChartTypes = []string{}
	}
	if out.Aggregation.Dimensions == nil {
		out.Aggregation.Dimensions = []string{}
	}
	if out.Aggregation.Measures == nil {
		out.Aggregation.Measures = []Measure{}
	}
	if out.Aggregation.DatasourceMetadata == nil {
		out.Aggregation.DatasourceMetadata = []schema.DataSource{}
	}
	if out.Aggregation.FieldMetadata == nil {
		out.Aggregation.FieldMetadata = []schema.Field{}
	}
	return out
}
