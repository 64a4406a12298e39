package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/crispdm/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type analysisResponse struct {
	Session struct {
		SeedCounter uint64 `json:"seed_counter"`
		FixedSeed   bool   `json:"fixed_seed"`
	} `json:"session"`
	Report struct {
		Params struct {
			A float64 `json:"a"`
			N int     `json:"n"`
		} `json:"params"`
		Generation struct {
			Seed   uint64 `json:"seed"`
			Seeded bool   `json:"seeded"`
		} `json:"generation"`
		Preparation struct {
			TrainSize int `json:"train_size"`
			TestSize  int `json:"test_size"`
		} `json:"data_preparation"`
		Evaluation map[string]json.RawMessage `json:"evaluation"`
	} `json:"report"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(config.Default())
}

func do(s *Server, method, target string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatalf("response did not set %s", SessionCookie)
	return nil
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decodeAnalysis(t *testing.T, w *httptest.ResponseRecorder) analysisResponse {
	t.Helper()
	var resp analysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestIndex(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	for _, heading := range []string{
		"1. Business Understanding",
		"2. Data Understanding",
		"3. Data Preparation",
		"4. Modeling",
		"5. Evaluation",
		"6. Deployment",
		"Summary",
	} {
		assert.Contains(t, body, heading)
	}
	assert.Contains(t, body, "/plots/diagnostics.svg?")
	assert.Contains(t, body, "Training set size</b>: 80 samples")

	cookie := sessionCookie(t, w)
	assert.NotEmpty(t, cookie.Value)
	assert.Equal(t, 1, s.Store().Len())
}

func TestIndexInvalidParameter(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodGet, "/?n=20", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_PARAMETER")
	assert.NotContains(t, w.Body.String(), "1. Business Understanding")
}

func TestAnalysis(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodGet, "/api/analysis", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeAnalysis(t, w)
	assert.Equal(t, uint64(0), resp.Session.SeedCounter)
	assert.True(t, resp.Session.FixedSeed)
	assert.Equal(t, 2.0, resp.Report.Params.A)
	assert.Equal(t, 100, resp.Report.Params.N)
	assert.True(t, resp.Report.Generation.Seeded)
	assert.Equal(t, 80, resp.Report.Preparation.TrainSize)
	assert.Equal(t, 20, resp.Report.Preparation.TestSize)
	assert.NotContains(t, resp.Report.Evaluation, "diagnostics")

	w = do(s, http.MethodGet, "/api/analysis?series=true", sessionCookie(t, w))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decodeAnalysis(t, w).Report.Evaluation, "diagnostics")
}

func TestAnalysisErrors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		code   string
		status int
	}{
		{"samples below range", "n=20", "INVALID_PARAMETER", http.StatusBadRequest},
		{"slope above range", "a=10.5", "INVALID_PARAMETER", http.StatusBadRequest},
		{"negative noise", "noise=-1", "INVALID_PARAMETER", http.StatusBadRequest},
		{"malformed number", "a=abc", "INVALID_REQUEST", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)

			w := do(s, http.MethodGet, "/api/analysis?"+tt.query, nil)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}
}

func TestParametersPersistPerSession(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodGet, "/api/analysis?a=3&n=200", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)

	w = do(s, http.MethodGet, "/api/analysis", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeAnalysis(t, w)
	assert.Equal(t, 3.0, resp.Report.Params.A)
	assert.Equal(t, 200, resp.Report.Params.N)
	assert.Equal(t, 160, resp.Report.Preparation.TrainSize)

	// A new session starts from the defaults.
	w = do(s, http.MethodGet, "/api/analysis", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2.0, decodeAnalysis(t, w).Report.Params.A)
}

func TestSameParametersSameData(t *testing.T) {
	s := newTestServer(t)

	first := decodeAnalysis(t, do(s, http.MethodGet, "/api/analysis?a=1.5", nil))
	second := decodeAnalysis(t, do(s, http.MethodGet, "/api/analysis?a=1.5", nil))

	assert.Equal(t, first.Report.Generation.Seed, second.Report.Generation.Seed)
}

func TestRegenerate(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodGet, "/api/analysis", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)
	before := decodeAnalysis(t, w)

	w = do(s, http.MethodPost, "/regenerate?a=2&n=100", cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	location := w.Header().Get("Location")
	assert.True(t, strings.HasPrefix(location, "/?"), location)
	assert.Contains(t, location, "n=100")

	w = do(s, http.MethodGet, "/api/analysis", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	after := decodeAnalysis(t, w)

	assert.Equal(t, uint64(1), after.Session.SeedCounter)
	assert.Equal(t, before.Report.Generation.Seed+1, after.Report.Generation.Seed)
}

func TestToggleFixedSeed(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodGet, "/api/analysis", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)
	before := decodeAnalysis(t, w)

	// Toggling alone keeps the dataset.
	w = do(s, http.MethodGet, "/api/analysis?fixed_seed=false", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	toggled := decodeAnalysis(t, w)
	assert.False(t, toggled.Session.FixedSeed)
	assert.Equal(t, before.Report.Generation, toggled.Report.Generation)

	// The next regeneration is unseeded.
	w = do(s, http.MethodGet, "/api/analysis?a=4", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decodeAnalysis(t, w).Report.Generation.Seeded)
}

func TestPredict(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodGet, "/api/predict?x=1.5", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		X         float64 `json:"x"`
		Predicted float64 `json:"predicted_y"`
		True      float64 `json:"true_y"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1.5, resp.X)
	assert.InDelta(t, 8.0, resp.True, 1e-12)
	assert.InDelta(t, 8.0, resp.Predicted, 2.0)
}

func TestPredictRequiresX(t *testing.T) {
	s := newTestServer(t)

	for _, target := range []string{"/api/predict", "/api/predict?x=abc", "/api/predict?x=NaN"} {
		w := do(s, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Equal(t, "INVALID_REQUEST", decodeError(t, w).Code, target)
	}
}

func TestModel(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodGet, "/api/model?noise=0", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ModelSpec struct {
			Name          string `json:"name"`
			FormatVersion string `json:"format_version"`
		} `json:"model_spec"`
		Params struct {
			Coefficients []float64 `json:"coefficients"`
			Intercept    float64   `json:"intercept"`
			NFeatures    int       `json:"n_features"`
		} `json:"params"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "LinearRegression", resp.ModelSpec.Name)
	assert.Equal(t, "1.0", resp.ModelSpec.FormatVersion)
	assert.Equal(t, 1, resp.Params.NFeatures)
	require.Len(t, resp.Params.Coefficients, 1)
	assert.InDelta(t, 2.0, resp.Params.Coefficients[0], 1e-9)
	assert.InDelta(t, 5.0, resp.Params.Intercept, 1e-9)
}

func TestPlots(t *testing.T) {
	s := newTestServer(t)

	for _, target := range []string{"/plots/distribution.svg", "/plots/diagnostics.svg"} {
		w := do(s, http.MethodGet, target, nil)
		require.Equal(t, http.StatusOK, w.Code, target)
		assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"), target)
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"), target)
		assert.Contains(t, w.Body.String(), "<svg", target)
	}
}

func TestPlotInvalidParameter(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodGet, "/plots/diagnostics.svg?b=99", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_PARAMETER", decodeError(t, w).Code)
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, do(s, http.MethodGet, "/api/analysis", nil).Code)

	w := do(s, http.MethodGet, "/metrics", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "crispdm_http_requests_total")
	assert.Contains(t, body, "crispdm_model_fits_total")
	assert.Contains(t, body, "crispdm_sessions_active")
}

func TestUnknownCookieStartsNewSession(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodGet, "/api/analysis", &http.Cookie{Name: SessionCookie, Value: "stale"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, "stale", sessionCookie(t, w).Value)
}
