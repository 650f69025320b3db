package web

import (
	"bytes"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/orderlist/internal/config"
	"github.com/JonMunkholm/orderlist/internal/core"
	mw "github.com/JonMunkholm/orderlist/internal/web/middleware"
)

var testNow = time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	srv *Server
	svc *core.Service
	cfg *config.Config
}

func newTestEnv(t *testing.T, opts ...func(*config.Config)) *testEnv {
	t.Helper()

	cfg, err := config.LoadFrom(func(string) string { return "" })
	require.NoError(t, err)
	cfg.Rate.Enabled = false
	cfg.List.SeedCount = 25
	cfg.List.SeedDelay = 0
	for _, opt := range opts {
		opt(cfg)
	}

	sc := cfg.ServiceConfig()
	sc.Generate = func(n int) []core.Record {
		gen := core.NewGenerator(rand.New(rand.NewPCG(3, 4)), func() time.Time { return testNow })
		return gen.Generate(n)
	}
	reg := prometheus.NewRegistry()
	svc := core.NewService(sc, core.NewMetrics(reg))
	t.Cleanup(svc.Close)

	return &testEnv{srv: NewServer(svc, cfg, reg), svc: svc, cfg: cfg}
}

func (e *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.srv.Router().ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) doJSON(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return e.serve(req)
}

// createSession opens a session through the API and waits for its seed data.
func (e *testEnv) createSession(t *testing.T) string {
	t.Helper()
	rec := e.doJSON(t, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp ViewResponse
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "/api/sessions/"+resp.SessionID, rec.Header().Get("Location"))

	sess, err := e.svc.Session(resp.SessionID)
	require.NoError(t, err)
	waitSeed(t, sess)
	return resp.SessionID
}

func waitSeed(t *testing.T, sess *core.Session) {
	t.Helper()
	select {
	case <-sess.Seed().Done():
	case <-time.After(2 * time.Second):
		t.Fatal("seed task did not finish")
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) core.PageView {
	t.Helper()
	var resp ViewResponse
	decode(t, rec, &resp)
	return resp.View
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	decode(t, rec, &resp)
	return resp
}

func validForm() core.RecordForm {
	return core.RecordForm{
		CustomerName: "Ada Lovelace",
		Email:        "ada@example.com",
		Project:      "Analytical Engine",
		Address:      "St James Square London",
		Status:       "approved",
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	rec := env.serve(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestAPISessionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)
	base := "/api/sessions/" + id

	rec := env.doJSON(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeView(t, rec)
	assert.False(t, view.Loading)
	assert.Equal(t, 25, view.DatasetSize)
	assert.Equal(t, 3, view.TotalPages)
	assert.Len(t, view.Records, 10)

	rec = env.doJSON(t, http.MethodPut, base+"/page", PageRequest{Page: 2})
	require.Equal(t, http.StatusOK, rec.Code)
	view = decodeView(t, rec)
	assert.Equal(t, 2, view.Page)

	target := view.Records[0].ID
	rec = env.doJSON(t, http.MethodPost, base+"/selection/toggle", ToggleRequest{ID: target})
	require.Equal(t, http.StatusOK, rec.Code)
	view = decodeView(t, rec)
	assert.Equal(t, []string{target}, view.SelectedIDs)
	assert.False(t, view.AllPageSelected)

	rec = env.doJSON(t, http.MethodPost, base+"/selection/toggle-all", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view = decodeView(t, rec)
	assert.True(t, view.AllPageSelected)
	assert.ElementsMatch(t, view.PageIDs(), view.SelectedIDs)

	rec = env.doJSON(t, http.MethodPost, base+"/records", validForm())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var submitted SubmitResponse
	decode(t, rec, &submitted)
	assert.Equal(t, "#CM9826", submitted.Record.ID)
	assert.Equal(t, "Just now", submitted.Record.DisplayDate)
	assert.Equal(t, "approved", string(submitted.Record.Status))
	assert.Equal(t, 26, submitted.View.DatasetSize)
	assert.Empty(t, submitted.View.SelectedIDs)

	rec = env.doJSON(t, http.MethodGet, base+"/notifications", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var notes NotificationsResponse
	decode(t, rec, &notes)
	require.Len(t, notes.Notifications, 1)
	assert.Equal(t, core.LevelSuccess, notes.Notifications[0].Level)
	assert.Equal(t, core.SubmitSuccessMessage, notes.Notifications[0].Message)

	rec = env.doJSON(t, http.MethodGet, base+"/notifications", nil)
	decode(t, rec, &notes)
	assert.Empty(t, notes.Notifications)

	rec = env.doJSON(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.doJSON(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "SES001", decodeError(t, rec).Code)
}

func TestAPIQueryAndSort(t *testing.T) {
	env := newTestEnv(t)
	base := "/api/sessions/" + env.createSession(t)

	rec := env.doJSON(t, http.MethodPut, base+"/page", PageRequest{Page: 3})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSON(t, http.MethodPut, base+"/query", map[string]any{"status": "pending"})
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeView(t, rec)
	assert.Equal(t, 1, view.Page)
	assert.Equal(t, "pending", view.Params.Status)
	assert.Equal(t, core.DefaultSort, view.Params.Sort, "omitted fields keep their value")
	for _, r := range view.Records {
		assert.Equal(t, "pending", string(r.Status))
	}

	rec = env.doJSON(t, http.MethodPost, base+"/sort/customerName", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view = decodeView(t, rec)
	assert.Equal(t, core.SortSpec{Column: core.ColumnCustomerName, Dir: core.SortAsc}, view.Params.Sort)

	rec = env.doJSON(t, http.MethodPost, base+"/sort/customerName", nil)
	view = decodeView(t, rec)
	assert.Equal(t, core.SortDesc, view.Params.Sort.Dir)

	rec = env.doJSON(t, http.MethodPut, base+"/query", map[string]any{
		"search": "no order matches this",
		"status": "all",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	view = decodeView(t, rec)
	assert.Zero(t, view.TotalRecords)
	assert.Empty(t, view.Records)
	assert.Equal(t, 25, view.DatasetSize)
}

func TestAPISubmitValidation(t *testing.T) {
	env := newTestEnv(t)
	base := "/api/sessions/" + env.createSession(t)

	form := validForm()
	form.CustomerName = "   "
	rec := env.doJSON(t, http.MethodPost, base+"/records", form)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "VAL001", resp.Code)
	require.Len(t, resp.Fields, 1)
	assert.Equal(t, "customerName", resp.Fields[0].Field)

	form = validForm()
	form.Status = "shipped"
	rec = env.doJSON(t, http.MethodPost, base+"/records", form)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "VAL002", decodeError(t, rec).Code)

	rec = env.doJSON(t, http.MethodGet, base+"/notifications", nil)
	var notes NotificationsResponse
	decode(t, rec, &notes)
	require.Len(t, notes.Notifications, 2)
	assert.Equal(t, core.MissingFieldsMessage, notes.Notifications[0].Message)
	assert.Equal(t, core.LevelError, notes.Notifications[1].Level)

	rec = env.doJSON(t, http.MethodGet, base, nil)
	assert.Equal(t, 25, decodeView(t, rec).DatasetSize)
}

func TestAPISubmitWhileLoading(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.List.SeedDelay = time.Hour })

	rec := env.doJSON(t, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created ViewResponse
	decode(t, rec, &created)
	assert.True(t, created.View.Loading)
	base := "/api/sessions/" + created.SessionID

	rec = env.doJSON(t, http.MethodPost, base+"/records", validForm())
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "SES003", decodeError(t, rec).Code)

	rec = env.doJSON(t, http.MethodGet, base+"/notifications", nil)
	var notes NotificationsResponse
	decode(t, rec, &notes)
	assert.Empty(t, notes.Notifications)

	sess, err := env.svc.Session(created.SessionID)
	require.NoError(t, err)
	rec = env.doJSON(t, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	waitSeed(t, sess)
	assert.Equal(t, core.SeedCancelled, sess.Seed().Outcome())
}

func TestAPIBadRequests(t *testing.T) {
	env := newTestEnv(t)
	base := "/api/sessions/" + env.createSession(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"unknown field", http.MethodPut, base + "/page", `{"nope":1}`, http.StatusBadRequest, "QRY002"},
		{"wrong type", http.MethodPut, base + "/page", `{"page":"two"}`, http.StatusBadRequest, "QRY002"},
		{"empty body", http.MethodPost, base + "/selection/toggle", ``, http.StatusBadRequest, "QRY002"},
		{"record not on page", http.MethodPost, base + "/selection/toggle", `{"id":"#CM0000"}`, http.StatusConflict, "QRY003"},
		{"unknown session", http.MethodGet, "/api/sessions/does-not-exist", ``, http.StatusNotFound, "SES001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.doJSON(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestAPIPageIsClamped(t *testing.T) {
	env := newTestEnv(t)
	base := "/api/sessions/" + env.createSession(t)

	rec := env.doJSON(t, http.MethodPut, base+"/page", PageRequest{Page: 99})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, decodeView(t, rec).Page)

	rec = env.doJSON(t, http.MethodPut, base+"/page", PageRequest{Page: -4})
	assert.Equal(t, 1, decodeView(t, rec).Page)
}

func TestAPIKeyRequired(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) {
		c.Security.RequireAPIKey = true
		c.Security.APIKeys = []string{"secret"}
	})

	rec := env.doJSON(t, http.MethodPost, "/api/sessions", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.doJSON(t, http.MethodPost, "/api/sessions", nil, mw.APIKeyHeader, "wrong")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.doJSON(t, http.MethodPost, "/api/sessions", nil, mw.APIKeyHeader, "secret")
	assert.Equal(t, http.StatusCreated, rec.Code)

	// The HTML page is not behind the key.
	rec = env.serve(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) {
		c.Rate.Enabled = true
		c.Rate.RequestsPerMinute = 1
		c.Rate.Burst = 2
	})

	get := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("Accept", "application/json")
		req.RemoteAddr = remote
		return env.serve(req)
	}

	assert.Equal(t, http.StatusOK, get("192.0.2.10:1000").Code)
	assert.Equal(t, http.StatusOK, get("192.0.2.10:1001").Code)

	rec := get("192.0.2.10:1002")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "RATE001", decodeError(t, rec).Code)

	assert.Equal(t, http.StatusOK, get("198.51.100.7:1000").Code, "other clients keep their own budget")
}

func TestSessionCreateLimit(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) {
		c.Rate.Enabled = true
		c.Rate.SessionCreateLimit = 1
	})

	rec := env.doJSON(t, http.MethodPost, "/api/sessions", nil)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = env.doJSON(t, http.MethodPost, "/api/sessions", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestUISessionCreateLimit(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) {
		c.Rate.Enabled = true
		c.Rate.SessionCreateLimit = 1
	})

	ui := newUIClient(t, env)
	assert.Equal(t, http.StatusOK, ui.get().Code, "an existing session is not limited")

	rec := env.serve(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Empty(t, rec.Result().Cookies())

	rec = env.doJSON(t, http.MethodPost, "/api/sessions", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "page and API share the create budget")
	assert.Equal(t, 1, env.svc.SessionCount())
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.createSession(t)
	env.serve(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	rec := env.serve(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `orderlist_http_requests_total{method="GET",route="/healthz",status="200"} 1`)
	assert.Regexp(t, `orderlist_http_requests_total\{method="POST",route="/api/sessions/?",status="201"\} 1`, body)
	assert.Contains(t, body, "orderlist_sessions_active 1")
	assert.Contains(t, body, `orderlist_seed_tasks_total{outcome="applied"} 1`)
}

// uiClient drives the HTML page with a session cookie.
type uiClient struct {
	env    *testEnv
	cookie *http.Cookie
}

func newUIClient(t *testing.T, env *testEnv) *uiClient {
	t.Helper()
	rec := env.serve(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == env.cfg.Session.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "session cookie not set")
	assert.True(t, cookie.HttpOnly)

	sess, err := env.svc.Session(cookie.Value)
	require.NoError(t, err)
	waitSeed(t, sess)
	return &uiClient{env: env, cookie: cookie}
}

func (c *uiClient) get() *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c.cookie)
	return c.env.serve(req)
}

func (c *uiClient) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(c.cookie)
	return c.env.serve(req)
}

func TestUIPageRendersList(t *testing.T) {
	env := newTestEnv(t)
	ui := newUIClient(t, env)

	rec := ui.get()
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "<h1>Order List</h1>")
	assert.Contains(t, body, "Page 1 of 3, 25 orders")
	assert.NotContains(t, body, "Loading orders")
}

func TestUIPageWhileLoading(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.List.SeedDelay = time.Hour })

	rec := env.serve(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Loading orders")
	assert.Contains(t, rec.Body.String(), `http-equiv="refresh"`)
}

func TestUIFormPostsRedirect(t *testing.T) {
	env := newTestEnv(t)
	ui := newUIClient(t, env)
	sess, err := env.svc.Session(ui.cookie.Value)
	require.NoError(t, err)

	rec := ui.post("/ui/query", url.Values{"search": {""}, "status": {"complete"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, "complete", sess.List.Params().Status)

	rec = ui.post("/ui/sort/id", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, core.ColumnID, sess.List.Params().Sort.Column)

	ui.post("/ui/query", url.Values{"status": {"all"}})
	rec = ui.post("/ui/page", url.Values{"page": {"2"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 2, sess.List.Snapshot().Page)

	rec = ui.post("/ui/page", url.Values{"page": {"two"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "QRY001")

	rec = ui.post("/ui/page", url.Values{"page": {"session not found"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "QRY001", "input text does not pick the code")

	rec = ui.post("/ui/selection/toggle-all", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, sess.List.Snapshot().AllPageSelected)

	first := sess.List.Snapshot().Records[0].ID
	rec = ui.post("/ui/selection/toggle", url.Values{"id": {first}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.False(t, sess.List.Snapshot().IsSelected(first))
}

func TestUISubmit(t *testing.T) {
	env := newTestEnv(t)
	ui := newUIClient(t, env)

	form := url.Values{
		"customerName": {"Ada Lovelace"},
		"email":        {"ada@example.com"},
		"project":      {""},
		"address":      {"St James Square London"},
		"status":       {"complete"},
	}
	rec := ui.post("/ui/records", form)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, core.MissingFieldsMessage)
	assert.Contains(t, body, `value="Ada Lovelace"`, "form keeps its input")

	form.Set("project", "Analytical Engine")
	rec = ui.post("/ui/records", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = ui.get()
	body = rec.Body.String()
	assert.Contains(t, body, core.SubmitSuccessMessage)
	assert.Contains(t, body, "26 orders")

	rec = ui.get()
	assert.NotContains(t, rec.Body.String(), core.SubmitSuccessMessage, "toasts are shown once")
}

func TestUIExpiredCookieStartsNewSession(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: env.cfg.Session.CookieName, Value: "gone"})

	rec := env.serve(req)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.NotEqual(t, "gone", cookies[0].Value)
	assert.Equal(t, 1, env.svc.SessionCount())
}
