package ui

import (
	"log/slog"
	"net/http"

	"github.com/asklens-labs/asklens/internal/backend"
	"github.com/asklens-labs/asklens/internal/describe"
	"github.com/asklens-labs/asklens/internal/schema"
	"github.com/asklens-labs/asklens/internal/state"
	"github.com/asklens-labs/asklens/internal/ui/notifier"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"
)

// Session keys for persisted client state.
const (
	sessionName        = "asklens"
	keyLocationEnabled = "location_enabled"
	keyInitialQuery    = "initial_query"
)

// querySignals are the datastar signals sent by the page.
type querySignals struct {
	Prompt          string  `json:"prompt"`
	LocationEnabled bool    `json:"locationEnabled"`
	HasLocation     bool    `json:"hasLocation"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
}

// Handlers serves the panel pages and SSE endpoints.
type Handlers struct {
	store        *state.Store
	schemas      *schema.Store
	client       *backend.Client
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	logger       *slog.Logger
}

// NewHandlers creates the handler set for the panel server.
func NewHandlers(store *state.Store, schemas *schema.Store, client *backend.Client,
	sessionStore sessions.Store, notify *notifier.Notifier, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		store:        store,
		schemas:      schemas,
		client:       client,
		sessionStore: sessionStore,
		notifier:     notify,
		logger:       logger,
	}
}

// Index serves the page shell. An initial query placed in the session is
// consumed exactly once: it is deleted before the page is written.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	session, _ := h.sessionStore.Get(r, sessionName)

	initialQuery := ""
	if v, ok := session.Values[keyInitialQuery].(string); ok {
		initialQuery = v
		delete(session.Values, keyInitialQuery)
	}
	locationEnabled := session.Values[keyLocationEnabled] == "true"

	if err := session.Save(r, w); err != nil {
		h.logger.Error("failed to save session", "error", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(renderShell(initialQuery, locationEnabled)))
}

// Panel sends the current panel state once, for initial page load.
func (h *Handlers) Panel(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	h.sendPanel(r, sse)
}

// Updates is the long-lived SSE endpoint. Every store change triggers a
// full panel re-render on each connected client.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			h.sendPanel(r, sse)
		}
	}
}

// Query submits a prompt to the backend and, when the response is still
// the latest, replaces the canonical result and re-renders.
func (h *Handlers) Query(w http.ResponseWriter, r *http.Request) {
	// Read signals before creating the SSE stream; it consumes the body.
	var signals querySignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "failed to read signals", http.StatusBadRequest)
		return
	}

	sse := datastar.NewSSE(w, r)
	if signals.Prompt == "" {
		return
	}

	snap := h.store.Snapshot()
	qctx := backend.QueryContext{
		CurrentVisualization: backend.Visualization{
			ChartType:              snap.ChartType,
			Dimensions:             snap.Aggregation.Dimensions,
			Measures:               snap.Aggregation.Measures,
			PreAggregationFilters:  snap.Aggregation.PreAggregationFilters,
			PostAggregationFilters: snap.Aggregation.PostAggregationFilters,
			TopN:                   snap.Aggregation.TopN,
		},
		ConversationHistory: h.store.History(),
		LocationEnabled:     signals.LocationEnabled,
	}

	var loc *backend.Point
	if signals.LocationEnabled && signals.HasLocation {
		loc = &backend.Point{Latitude: signals.Latitude, Longitude: signals.Longitude}
	}

	resp, err := h.client.Ask(r.Context(), signals.Prompt, qctx, loc)
	if err != nil {
		h.logger.Error("query failed", "error", err)
		_ = sse.ConsoleError(err)
		return
	}
	if !h.client.Latest(resp.Seq) {
		h.logger.Debug("dropping stale query response", "seq", resp.Seq)
		return
	}

	h.store.Update(resp.Result)
	h.store.AppendTurn(signals.Prompt, resp.Result.TextResponse)

	// Render this client synchronously, then ping the rest.
	h.sendPanel(r, sse)
	h.notifier.Broadcast()
}

// LocationPreference persists the location-enabled flag in the session.
func (h *Handlers) LocationPreference(w http.ResponseWriter, r *http.Request) {
	var signals querySignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "failed to read signals", http.StatusBadRequest)
		return
	}

	session, _ := h.sessionStore.Get(r, sessionName)
	if signals.LocationEnabled {
		session.Values[keyLocationEnabled] = "true"
	} else {
		session.Values[keyLocationEnabled] = "false"
	}
	if err := session.Save(r, w); err != nil {
		h.logger.Error("failed to save session", "error", err)
		http.Error(w, "failed to save preference", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// SetInitialQuery stores a query to be consumed by the next page load.
// Used by deep links ("?q=...") redirecting to the panel.
func (h *Handlers) SetInitialQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q != "" {
		session, _ := h.sessionStore.Get(r, sessionName)
		session.Values[keyInitialQuery] = q
		if err := session.Save(r, w); err != nil {
			h.logger.Error("failed to save session", "error", err)
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// sendPanel renders the result area and all four pill sections onto one
// SSE stream. Render failures are logged and abort this pass only.
func (h *Handlers) sendPanel(r *http.Request, sse *datastar.ServerSentEventGenerator) {
	snap := h.store.Snapshot()
	doc := h.schemas.Load(r.Context())

	if err := sse.PatchElements(resultHTML(snap)); err != nil {
		h.logger.Error("failed to render result area", "error", err)
		return
	}

	sections := describe.Build(snap, doc)
	if err := describe.RenderAll(&sseRenderer{sse: sse}, sections); err != nil {
		h.logger.Error("failed to render panel sections", "error", err)
	}
}
