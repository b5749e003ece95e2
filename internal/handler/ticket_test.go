package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-api/internal/cache"
	"github.com/iliyamo/movie-ticket-api/internal/config"
	"github.com/iliyamo/movie-ticket-api/internal/handler"
	"github.com/iliyamo/movie-ticket-api/internal/model"
	"github.com/iliyamo/movie-ticket-api/internal/repository"
	"github.com/iliyamo/movie-ticket-api/internal/router"
	"github.com/iliyamo/movie-ticket-api/internal/service"
)

// memStore is a minimal in-memory service.TicketStore for HTTP-level tests.
type memStore struct {
	mu     sync.Mutex
	rows   map[int64]model.Ticket
	nextID int64
}

func newMemStore() *memStore { return &memStore{rows: map[int64]model.Ticket{}, nextID: 1} }

func (m *memStore) FindAll(context.Context) ([]model.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Ticket, 0, len(m.rows))
	for _, t := range m.rows {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) FindByID(_ context.Context, id int64) (model.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[id]
	if !ok {
		return model.Ticket{}, repository.ErrTicketNotFound
	}
	return t, nil
}

func (m *memStore) Save(_ context.Context, t model.Ticket) (model.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.nextID
	m.nextID++
	m.rows[t.ID] = t
	return t, nil
}

func (m *memStore) Update(_ context.Context, id int64, t model.Ticket) (model.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return model.Ticket{}, repository.ErrTicketNotFound
	}
	t.ID = id
	m.rows[id] = t
	return t, nil
}

func (m *memStore) DeleteByID(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func testConfig() config.Config {
	return config.Config{
		Env:          "test",
		Port:         "0",
		JWTSecret:    "test-secret",
		AccessTTLMin: 5,
		BcryptCost:   4, // bcrypt.MinCost keeps tests fast
		AdminEmail:   "admin@example.com",
		AdminPass:    "hunter22",
	}
}

// newTestServer builds the full Echo route table over an in-memory store.
// Redis is nil so the rate limiter is a pass-through; event publishing is
// off so tests never dial a broker.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	cfg := testConfig()
	svc := service.NewTicketService(newMemStore(), cache.NewTicketCache())
	th := handler.NewTicketHandler(svc, false)
	ah, err := handler.NewAuthHandler(cfg)
	require.NoError(t, err)

	e := echo.New()
	router.RegisterRoutes(e, cfg, nil, th, ah)
	return e
}

func doJSON(e *echo.Echo, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func createBody(customerID, movieID int64, typ string, basePrice float64) map[string]any {
	return map[string]any{
		"customer_id": customerID,
		"movie_id":    movieID,
		"type":        typ,
		"base_price":  basePrice,
	}
}

func TestCreateAndGetTicket(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/v1/tickets", createBody(1, 2, "vip", 100), "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created model.Ticket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, model.TypeVIP, created.Type)
	assert.Equal(t, 150.0, created.FinalPrice)
	assert.NotZero(t, created.ID)

	rec = doJSON(e, http.MethodGet, "/v1/tickets/1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got model.Ticket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, created, got)
}

func TestCreateValidationAndDuplicate(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/v1/tickets", createBody(0, 2, "vip", 100), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, "/v1/tickets", createBody(1, 2, "premium", 100), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, "/v1/tickets", createBody(1, 2, "vip", 100), "")
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(e, http.MethodPost, "/v1/tickets", createBody(1, 2, "VIP", 42), "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestListTickets(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/v1/tickets", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())

	doJSON(e, http.MethodPost, "/v1/tickets", createBody(1, 2, "vip", 100), "")
	doJSON(e, http.MethodPost, "/v1/tickets", createBody(2, 2, "standard", 50), "")

	rec = doJSON(e, http.MethodGet, "/v1/tickets", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Items []model.Ticket `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	assert.Less(t, resp.Items[0].ID, resp.Items[1].ID)
}

func TestUpdateTicket(t *testing.T) {
	e := newTestServer(t)

	doJSON(e, http.MethodPost, "/v1/tickets", createBody(1, 2, "standard", 100), "")

	rec := doJSON(e, http.MethodPut, "/v1/tickets/1", createBody(1, 2, "vip", 100), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated model.Ticket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 150.0, updated.FinalPrice)

	rec = doJSON(e, http.MethodPut, "/v1/tickets/99", createBody(1, 9, "vip", 100), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTicket(t *testing.T) {
	e := newTestServer(t)

	doJSON(e, http.MethodPost, "/v1/tickets", createBody(1, 2, "vip", 100), "")

	rec := doJSON(e, http.MethodDelete, "/v1/tickets/1", nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(e, http.MethodGet, "/v1/tickets/1", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(e, http.MethodDelete, "/v1/tickets/1", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvalidIDParam(t *testing.T) {
	e := newTestServer(t)
	rec := doJSON(e, http.MethodGet, "/v1/tickets/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClearCacheRequiresAdminToken(t *testing.T) {
	e := newTestServer(t)

	// No token: rejected before the handler runs.
	rec := doJSON(e, http.MethodDelete, "/v1/cache/tickets", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Bad credentials do not yield a token.
	rec = doJSON(e, http.MethodPost, "/v1/auth/login",
		map[string]string{"email": "admin@example.com", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid login yields a token that unlocks the endpoint.
	rec = doJSON(e, http.MethodPost, "/v1/auth/login",
		map[string]string{"email": "admin@example.com", "password": "hunter22"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	rec = doJSON(e, http.MethodDelete, "/v1/cache/tickets", nil, login.Token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHealthz(t *testing.T) {
	e := newTestServer(t)
	rec := doJSON(e, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
