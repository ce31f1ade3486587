package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// defaultFetchTimeout bounds a single schema fetch. The document is small
// and static; anything slower than this is treated as unavailable.
const defaultFetchTimeout = 30 * time.Second

// Store loads the schema document from a fixed URL and caches it for the
// lifetime of the process. A failed load is not cached, so a later call
// may retry. Load never returns an error: on failure it logs and hands
// back the empty document so callers degrade instead of crashing.
type Store struct {
	url    string
	client *http.Client
	logger *slog.Logger

	mu     sync.Mutex
	cached *Document
}

// NewStore creates a schema store for the given document URL.
func NewStore(url string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		url:    url,
		client: &http.Client{Timeout: defaultFetchTimeout},
		logger: logger,
	}
}

// SetHTTPClient overrides the HTTP client. Used for testing.
func (s *Store) SetHTTPClient(c *http.Client) {
	s.client = c
}

// Load returns the schema document, fetching it on first use. Subsequent
// calls return the cached document without touching the network.
func (s *Store) Load(ctx context.Context) *Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return s.cached
	}

	doc, err := s.fetch(ctx)
	if err != nil {
		s.logger.Error("schema fetch failed, using empty schema", "url", s.url, "error", err)
		return Empty()
	}

	s.cached = doc
	s.logger.Debug("schema loaded", "url", s.url, "fields", doc.FieldCount())
	return doc
}

// Loaded reports whether a document is currently cached.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cached != nil
}

// Replace installs a document directly, bypassing the network. Used by
// watch mode when a local schema override file changes, and by tests.
func (s *Store) Replace(doc *Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = doc
}

func (s *Store) fetch(ctx context.Context) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("schema request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("schema endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode schema document: %w", err)
	}
	return &doc, nil
}

// Parse decodes a schema document from raw JSON. Used by the serve
// command's schema-override watch mode.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse schema document: %w", err)
	}
	return &doc, nil
}
