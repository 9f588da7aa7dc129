package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/daap14/squad/internal/team"
)

// mockTeamRepo implements team.Repository for testing.
type mockTeamRepo struct {
	saveFn      func(ctx context.Context, t *team.Team) error
	getByIDFn   func(ctx context.Context, id uuid.UUID, opts ...team.LoadOption) (*team.Team, error)
	getByNameFn func(ctx context.Context, name string, opts ...team.LoadOption) (*team.Team, error)
	firstFn     func(ctx context.Context, opts ...team.LoadOption) (*team.Team, error)
	listFn      func(ctx context.Context, opts ...team.LoadOption) ([]team.Team, error)
	deleteFn    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTeamRepo) Save(ctx context.Context, t *team.Team) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, t)
	}
	return nil
}

func (m *mockTeamRepo) GetByID(ctx context.Context, id uuid.UUID, opts ...team.LoadOption) (*team.Team, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id, opts...)
	}
	return nil, team.ErrTeamNotFound
}

func (m *mockTeamRepo) GetByName(ctx context.Context, name string, opts ...team.LoadOption) (*team.Team, error) {
	if m.getByNameFn != nil {
		return m.getByNameFn(ctx, name, opts...)
	}
	return nil, team.ErrTeamNotFound
}

func (m *mockTeamRepo) First(ctx context.Context, opts ...team.LoadOption) (*team.Team, error) {
	if m.firstFn != nil {
		return m.firstFn(ctx, opts...)
	}
	return nil, team.ErrTeamNotFound
}

func (m *mockTeamRepo) List(ctx context.Context, opts ...team.LoadOption) ([]team.Team, error) {
	if m.listFn != nil {
		return m.listFn(ctx, opts...)
	}
	return []team.Team{}, nil
}

func (m *mockTeamRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func makeChiRequest(method, path string, body []byte, params map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req, w
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var env map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &env)
	require.NoError(t, err, "failed to parse response body")
	return env
}
