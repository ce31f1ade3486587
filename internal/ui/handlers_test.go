package ui

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/asklens-labs/asklens/internal/backend"
	"github.com/asklens-labs/asklens/internal/schema"
	"github.com/asklens-labs/asklens/internal/state"
	"github.com/asklens-labs/asklens/internal/ui/notifier"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandlers(t *testing.T) *Handlers {
	t.Helper()
	sessionStore := sessions.NewCookieStore([]byte("test-secret"))
	schemas := schema.NewStore("http://127.0.0.1:1/schema.json", nil)
	schemas.Replace(schema.Empty())
	client := backend.NewClient("http://127.0.0.1:1", 0, nil)
	return NewHandlers(state.NewStore(), schemas, client, sessionStore, notifier.New(), nil)
}

func TestIndex_ServesShell(t *testing.T) {
	h := newTestHandlers(t)

	rec := httptest.NewRecorder()
	h.Index(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "about-period")
	assert.Contains(t, body, "about-filters")
	assert.Contains(t, body, "locationEnabled: false")
}

func TestLocationPreference_Persists(t *testing.T) {
	h := newTestHandlers(t)

	// Enable the preference via signals.
	req := httptest.NewRequest(http.MethodPost, "/preferences/location", strings.NewReader(`{"locationEnabled":true}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.LocationPreference(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies, "expected a session cookie")

	// The next page load reflects the stored preference.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	h.Index(rec, req)
	assert.Contains(t, rec.Body.String(), "locationEnabled: true")
}

func TestSetInitialQuery_ConsumedOnce(t *testing.T) {
	h := newTestHandlers(t)

	// Deep link stores the query and redirects.
	req := httptest.NewRequest(http.MethodGet, "/ask?q=rat+sightings", nil)
	rec := httptest.NewRecorder()
	h.SetInitialQuery(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	// First page load carries the query.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	h.Index(rec, req)
	assert.Contains(t, rec.Body.String(), "rat sightings")

	// The load also rewrote the session without the query; a reload with
	// the refreshed cookie must not carry it again.
	refreshed := rec.Result().Cookies()
	require.NotEmpty(t, refreshed, "consuming the query must rewrite the session")
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range refreshed {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	h.Index(rec, req)
	assert.NotContains(t, rec.Body.String(), "rat sightings")
}
