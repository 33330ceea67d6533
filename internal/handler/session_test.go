package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pha-locator/internal/models"
	"pha-locator/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAgencySource is a mock implementation of the controller.Source interface
type MockAgencySource struct {
	mock.Mock
}

func (m *MockAgencySource) ListAgencies(ctx context.Context) ([]models.Agency, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Agency), args.Error(1)
}

// MockResolver is a mock implementation of the controller.LocationResolver interface
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, query string) ([]models.Location, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]models.Location), args.Error(1)
}

func ptr[T any](v T) *T { return &v }

func sessionRouter(src *MockAgencySource, res *MockResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewSessionService(src, res, service.SessionOptions{PageSize: 2}, zerolog.Nop())
	r := gin.New()
	r.Use(RequestLogger(zerolog.Nop()))
	NewSessionHandler(svc).Register(r)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) service.SessionView {
	t.Helper()
	var view service.SessionView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	return view
}

func texasAndCalifornia() []models.Agency {
	return []models.Agency{
		{ID: "tx1", Name: "Austin HA", Address: "1124 S IH 35, Austin, TX 78704", Latitude: ptr(30.25), Longitude: ptr(-97.74)},
		{ID: "tx2", Name: "Dallas HA", Address: "3939 N Hampton Rd, Dallas, TX 75212"},
		{ID: "tx3", Name: "El Paso HA", Address: "5300 E Paisano Dr, El Paso, TX 79905"},
		{ID: "ca1", Name: "Fresno HA", Address: "1331 Fulton St, Fresno, CA 93721"},
		{ID: "ca2", Name: "Oakland HA", Address: "1619 Harrison St, Oakland, CA 94612"},
	}
}

func TestSessionHandler_Flow(t *testing.T) {
	src := new(MockAgencySource)
	src.On("ListAgencies", mock.Anything).Return(texasAndCalifornia(), nil)
	r := sessionRouter(src, new(MockResolver))

	w := do(t, r, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	view := decodeView(t, w)
	id := view.SessionID
	assert.Equal(t, 5, view.Page.TotalCount)
	assert.Equal(t, 3, view.Page.TotalPages)

	w = do(t, r, http.MethodPut, "/sessions/"+id+"/filter", models.Location{Name: "Texas", Type: models.LocationState, StateCode: "tx"})
	require.Equal(t, http.StatusOK, w.Code)
	view = decodeView(t, w)
	assert.Equal(t, 3, view.Page.TotalCount)
	assert.Equal(t, 2, view.Page.TotalPages)
	assert.True(t, view.HasFilter)

	w = do(t, r, http.MethodPut, "/sessions/"+id+"/page", gin.H{"page": 2})
	require.Equal(t, http.StatusOK, w.Code)
	view = decodeView(t, w)
	assert.Equal(t, 2, view.Page.CurrentPage)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "tx3", view.Items[0].ID)

	w = do(t, r, http.MethodPut, "/sessions/"+id+"/selection", gin.H{"agency_id": "tx1"})
	require.Equal(t, http.StatusOK, w.Code)
	view = decodeView(t, w)
	assert.Equal(t, ptr("tx1"), view.Selection.SelectedAgencyID)
	require.Len(t, view.MapCommands, 1)
	assert.Equal(t, models.MapFocus, view.MapCommands[0].Kind)

	w = do(t, r, http.MethodDelete, "/sessions/"+id+"/filter", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view = decodeView(t, w)
	assert.Equal(t, 1, view.Page.CurrentPage)
	assert.Equal(t, 5, view.Page.TotalCount)
	assert.Equal(t, ptr("tx1"), view.Selection.SelectedAgencyID)

	w = do(t, r, http.MethodDelete, "/sessions/"+id+"/selection", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decodeView(t, w).Selection.SelectedAgencyID)

	w = do(t, r, http.MethodDelete, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, r, http.MethodGet, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionHandler_Errors(t *testing.T) {
	src := new(MockAgencySource)
	src.On("ListAgencies", mock.Anything).Return(texasAndCalifornia(), nil).Once()
	src.On("ListAgencies", mock.Anything).Return([]models.Agency(nil), assert.AnError)
	r := sessionRouter(src, new(MockResolver))

	w := do(t, r, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeView(t, w).SessionID

	tests := []struct {
		name           string
		method         string
		path           string
		body           interface{}
		expectedStatus int
	}{
		{name: "unknown session", method: http.MethodGet, path: "/sessions/nope", expectedStatus: http.StatusNotFound},
		{name: "city without center", method: http.MethodPut, path: "/sessions/" + id + "/filter", body: gin.H{"type": "city", "state_code": "TX"}, expectedStatus: http.StatusBadRequest},
		{name: "unknown location type", method: http.MethodPut, path: "/sessions/" + id + "/filter", body: gin.H{"type": "planet", "state_code": "TX"}, expectedStatus: http.StatusBadRequest},
		{name: "page missing", method: http.MethodPut, path: "/sessions/" + id + "/page", body: gin.H{}, expectedStatus: http.StatusBadRequest},
		{name: "select unknown agency", method: http.MethodPut, path: "/sessions/" + id + "/selection", body: gin.H{"agency_id": "zz"}, expectedStatus: http.StatusNotFound},
		{name: "select missing body", method: http.MethodPut, path: "/sessions/" + id + "/selection", body: gin.H{}, expectedStatus: http.StatusBadRequest},
		{name: "refresh failure", method: http.MethodPost, path: "/sessions/" + id + "/refresh", expectedStatus: http.StatusBadGateway},
		{name: "create failure", method: http.MethodPost, path: "/sessions", expectedStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}

	w = do(t, r, http.MethodGet, "/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, decodeView(t, w).Page.TotalCount, "failed refresh keeps previous results")
}

func TestSessionHandler_CreateTimeout(t *testing.T) {
	src := new(MockAgencySource)
	src.On("ListAgencies", mock.Anything).Return([]models.Agency(nil), fmt.Errorf("repository: failed to query agencies: %w", context.DeadlineExceeded))
	r := sessionRouter(src, new(MockResolver))

	w := do(t, r, http.MethodPost, "/sessions", nil)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.JSONEq(t, `{"error": "upstream timeout"}`, w.Body.String())
}

func TestSessionHandler_Search(t *testing.T) {
	src := new(MockAgencySource)
	src.On("ListAgencies", mock.Anything).Return(texasAndCalifornia(), nil)
	res := new(MockResolver)
	res.On("Resolve", mock.Anything, "austin").Return([]models.Location{{Name: "Austin", Type: models.LocationCity, StateCode: "TX"}}, nil)
	r := sessionRouter(src, res)

	w := do(t, r, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeView(t, w).SessionID

	w = do(t, r, http.MethodGet, "/sessions/"+id+"/search?q=austin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got []models.Location
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Austin", got[0].Name)
}
