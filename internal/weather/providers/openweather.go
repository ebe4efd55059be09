package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/tuannm-dev/weather-web/internal/observability"
	"github.com/tuannm-dev/weather-web/internal/weather"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// OpenWeatherClient talks to the OpenWeatherMap current-weather and 5-day
// forecast endpoints. Every failure surfaces immediately as a typed
// *weather.UpstreamError; there are no retries and no circuit breaking,
// each call stands on its own.
type OpenWeatherClient struct {
	apiKey     string
	lang       string
	baseURL    string
	httpClient *http.Client
	logger     *zap.SugaredLogger
	metrics    *observability.Metrics

	// group collapses concurrent identical fetches, so the hourly and
	// daily cache misses for one city share a single forecast call.
	group singleflight.Group
}

// NewOpenWeatherClient creates a client with an explicit per-call timeout.
// The raw (non-normalized) city string goes into the query so provider-side
// matching behaves exactly as a direct lookup would.
func NewOpenWeatherClient(apiKey, lang string, timeout time.Duration, logger *zap.SugaredLogger, metrics *observability.Metrics) *OpenWeatherClient {
	if lang == "" {
		lang = "vi"
	}
	return &OpenWeatherClient{
		apiKey:  apiKey,
		lang:    lang,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// WithBaseURL points the client at a different API root. Used by tests.
func (c *OpenWeatherClient) WithBaseURL(baseURL string) *OpenWeatherClient {
	c.baseURL = baseURL
	return c
}

// FetchCurrent retrieves the raw current-weather payload for a city.
func (c *OpenWeatherClient) FetchCurrent(ctx context.Context, city string) (weather.CurrentPayload, error) {
	key := "weather:" + weather.NormalizeCityName(city)
	v, err, _ := c.group.Do(key, func() (any, error) {
		var payload weather.CurrentPayload
		if err := c.get(ctx, "weather", city, &payload); err != nil {
			return nil, err
		}
		return payload, nil
	})
	if err != nil {
		return weather.CurrentPayload{}, err
	}
	return v.(weather.CurrentPayload), nil
}

// FetchForecast retrieves the raw 5-day/3-hour forecast payload for a city.
func (c *OpenWeatherClient) FetchForecast(ctx context.Context, city string) (weather.ForecastPayload, error) {
	key := "forecast:" + weather.NormalizeCityName(city)
	v, err, shared := c.group.Do(key, func() (any, error) {
		var payload weather.ForecastPayload
		if err := c.get(ctx, "forecast", city, &payload); err != nil {
			return nil, err
		}
		return payload, nil
	})
	if err != nil {
		return weather.ForecastPayload{}, err
	}
	if shared {
		c.logger.Debugw("forecast fetch shared between callers", "city", city)
	}
	return v.(weather.ForecastPayload), nil
}

func (c *OpenWeatherClient) get(ctx context.Context, endpoint, city string, out any) error {
	if c.apiKey == "" {
		return weather.ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")
	params.Set("lang", c.lang)

	u := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return &weather.UpstreamError{Endpoint: endpoint, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		c.logger.Warnw("upstream request failed",
			"endpoint", endpoint,
			"city", city,
			"status", resp.StatusCode,
		)
		return &weather.UpstreamError{
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Message:  string(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}

	c.metrics.UpstreamRequests.WithLabelValues(endpoint, "success").Inc()
	return nil
}
