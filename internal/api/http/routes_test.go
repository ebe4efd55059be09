package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm-dev/weather-web/internal/cache"
	"github.com/tuannm-dev/weather-web/internal/logger"
	"github.com/tuannm-dev/weather-web/internal/observability"
	"github.com/tuannm-dev/weather-web/internal/weather"
	"github.com/tuannm-dev/weather-web/internal/weather/providers"
)

const upstreamCurrent = `{
	"weather": [{"description": "nắng", "icon": "01d"}],
	"main": {"temp": 31.4, "feels_like": 35.0, "temp_min": 29.9, "temp_max": 32.6, "pressure": 1005, "humidity": 62},
	"visibility": 10000,
	"wind": {"speed": 2.4, "deg": 220},
	"clouds": {"all": 10},
	"dt": 1700020000,
	"sys": {"country": "VN", "sunrise": 1700000000, "sunset": 1700040000},
	"timezone": 25200,
	"name": "Hanoi"
}`

const upstreamForecast = `{
	"list": [
		{"dt": 1700020800, "main": {"temp": 28.1, "feels_like": 30.2, "humidity": 70}, "weather": [{"description": "mây thưa", "icon": "02d"}], "clouds": {"all": 20}, "wind": {"speed": 2.0, "deg": 200}, "pop": 0.1}
	],
	"city": {"name": "Hanoi", "country": "VN"}
}`

// newTestApp wires a real service against a fake upstream, the same shape
// main.go assembles in production.
func newTestApp(t *testing.T, upstreamStatus int, production bool) *fiber.App {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if upstreamStatus != http.StatusOK {
			w.WriteHeader(upstreamStatus)
			_, _ = w.Write([]byte(`{"cod":"error"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/weather" {
			_, _ = w.Write([]byte(upstreamCurrent))
			return
		}
		_, _ = w.Write([]byte(upstreamForecast))
	}))
	t.Cleanup(srv.Close)

	metrics := observability.NewMetricsForTesting()
	client := providers.NewOpenWeatherClient("test-key", "vi", 5*time.Second, logger.NewNop(), metrics).WithBaseURL(srv.URL)
	service := weather.NewService(cache.New(time.Minute), client, logger.NewNop(), metrics)

	app := fiber.New()
	RegisterRoutes(app, Deps{Service: service, Production: production})
	return app
}

func TestWeatherEndpoint_Success(t *testing.T) {
	app := newTestApp(t, http.StatusOK, false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather?city=Ha+Noi", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result weather.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.True(t, result.Success)
	assert.Equal(t, "Hanoi", result.Current.City)
	assert.Equal(t, 31, result.Current.Temperature)
	require.Len(t, result.Hourly, 1)
	assert.Equal(t, 10, result.Hourly[0].Pop)
}

func TestWeatherEndpoint_MissingCity(t *testing.T) {
	app := newTestApp(t, http.StatusOK, false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWeatherEndpoint_ErrorCodePassThrough(t *testing.T) {
	tests := []struct {
		name       string
		upstream   int
		wantStatus int
		wantCode   weather.ErrorCode
	}{
		{"not found", http.StatusNotFound, http.StatusNotFound, weather.ErrCodeNotFound},
		{"rate limited", http.StatusTooManyRequests, http.StatusTooManyRequests, weather.ErrCodeRateLimit},
		{"bad credential", http.StatusUnauthorized, http.StatusBadGateway, weather.ErrCodeInvalidAPIKey},
		{"upstream broken", http.StatusInternalServerError, http.StatusBadGateway, weather.ErrCodeGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, tt.upstream, false)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/weather?city=Nowhere", nil)
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var result weather.Result
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
			assert.False(t, result.Success)
			assert.Equal(t, tt.wantCode, result.ErrorCode)
			assert.Equal(t, "Nowhere", result.City)
		})
	}
}

func TestWindDirectionEndpoint(t *testing.T) {
	app := newTestApp(t, http.StatusOK, false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/wind-direction?deg=180", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"direction":"S"`)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/weather/wind-direction?deg=abc", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCacheStatsEndpoint_BlockedInProduction(t *testing.T) {
	app := newTestApp(t, http.StatusOK, true)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/cache-stats", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCacheStatsEndpoint_AvailableInDevelopment(t *testing.T) {
	app := newTestApp(t, http.StatusOK, false)

	// Prime the cache with one lookup.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather?city=Ha+Noi", nil)
	_, err := app.Test(req, -1)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/weather/cache-stats", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var stats cache.Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, 3, stats.Keys)
	assert.Equal(t, uint64(3), stats.Misses)
}

func TestCacheClearEndpoint(t *testing.T) {
	app := newTestApp(t, http.StatusOK, false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather?city=Ha+Noi", nil)
	_, err := app.Test(req, -1)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/weather/cache", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/weather/cache-stats", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)

	var stats cache.Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, 0, stats.Keys)
}

func TestCacheClearEndpoint_BlockedInProduction(t *testing.T) {
	app := newTestApp(t, http.StatusOK, true)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/weather/cache", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
