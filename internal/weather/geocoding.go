package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/sony/gobreaker"
)

// GeocodingClient resolves a city name to candidate locations, with a
// response cache keyed by the raw query string. Repeated identical lookups
// hit the provider exactly once.
type GeocodingClient struct {
	baseURL string
	apiKey  string
	limit   int
	cfg     transportConfig
	circuit *gobreaker.CircuitBreaker

	mu    sync.RWMutex
	cache map[string][]Candidate
}

// NewGeocodingClient creates a GeocodingClient. limit caps the number of
// candidates requested from the provider; values <= 0 default to 1.
func NewGeocodingClient(client *http.Client, baseURL, apiKey string, limit int) *GeocodingClient {
	if limit <= 0 {
		limit = 1
	}
	return &GeocodingClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		limit:   limit,
		cfg: transportConfig{
			Client:  client,
			Backoff: defaultBackoff(),
		},
		circuit: newCircuit("geocoding"),
		cache:   make(map[string][]Candidate),
	}
}

// Resolve returns the candidate locations for cityName, in provider order.
// An empty slice with a nil error is a successful "no matches" result; the
// caller decides whether that constitutes city-not-found.
func (g *GeocodingClient) Resolve(ctx context.Context, cityName string) ([]Candidate, error) {
	if strings.TrimSpace(cityName) == "" {
		return nil, newError("geocode", KindInvalidInput, errors.New("empty city name"))
	}

	// Cache keys are the raw string, exactly as given. The short-circuit is
	// a correctness requirement: identical lookups must be idempotent and
	// produce no duplicate provider traffic.
	g.mu.RLock()
	cached, ok := g.cache[cityName]
	g.mu.RUnlock()
	if ok {
		return cached, nil
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("q", cityName)
		values.Set("limit", strconv.Itoa(g.limit))
		values.Set("appid", g.apiKey)

		u := fmt.Sprintf("%s?%s", g.baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, newError("geocode", KindInvalidURL, err)
		}
		return req, nil
	}

	resp, err := doRequest(ctx, g.cfg, g.circuit, buildRequest)
	if err != nil {
		var werr *Error
		if errors.As(err, &werr) {
			return nil, err
		}
		return nil, newError("geocode", KindNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, mapStatus("geocode", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError("geocode", KindNetworkError, err)
	}
	if len(body) == 0 {
		return nil, newError("geocode", KindNoData, nil)
	}

	var payload []struct {
		Name    string  `json:"name"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
		Country string  `json:"country"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, newError("geocode", KindDecodingFailed, err)
	}

	candidates := make([]Candidate, 0, len(payload))
	for _, p := range payload {
		candidates = append(candidates, Candidate{
			Name:       p.Name,
			Coordinate: Coordinate{Lat: p.Lat, Lon: p.Lon},
			Country:    p.Country,
		})
	}

	g.mu.Lock()
	g.cache[cityName] = candidates
	g.mu.Unlock()

	return candidates, nil
}

// ClearCache drops all cached responses.
func (g *GeocodingClient) ClearCache() {
	g.mu.Lock()
	g.cache = make(map[string][]Candidate)
	g.mu.Unlock()
}
