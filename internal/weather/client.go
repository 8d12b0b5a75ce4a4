package weather

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/png" // provider icons are PNG
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"

	"github.com/imatskiv/cityweather/internal/cache"
)

// Client fetches current conditions and condition icons from the weather
// provider. Icon bytes are cached; concurrent misses for the same icon code
// coalesce into a single download.
type Client struct {
	weatherURL string
	iconURL    string
	apiKey     string
	cfg        transportConfig
	circuit    *gobreaker.CircuitBreaker
	icons      *cache.LRU
	group      singleflight.Group
}

// NewClient creates a weather Client. icons holds downloaded icon bytes and
// must not be nil.
func NewClient(client *http.Client, weatherURL, iconURL, apiKey string, icons *cache.LRU) *Client {
	return &Client{
		weatherURL: weatherURL,
		iconURL:    iconURL,
		apiKey:     apiKey,
		cfg: transportConfig{
			Client:  client,
			Backoff: defaultBackoff(),
		},
		circuit: newCircuit("openweather"),
		icons:   icons,
	}
}

// FetchCurrent fetches current conditions at the given coordinate.
func (c *Client) FetchCurrent(ctx context.Context, coord Coordinate) (Reading, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", strconv.FormatFloat(coord.Lat, 'f', -1, 64))
		values.Set("lon", strconv.FormatFloat(coord.Lon, 'f', -1, 64))
		values.Set("appid", c.apiKey)

		u := fmt.Sprintf("%s?%s", c.weatherURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, newError("current", KindInvalidURL, err)
		}
		return req, nil
	}

	resp, err := doRequest(ctx, c.cfg, c.circuit, buildRequest)
	if err != nil {
		var werr *Error
		if errors.As(err, &werr) {
			return Reading{}, err
		}
		return Reading{}, newError("current", KindNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Reading{}, mapStatus("current", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Reading{}, newError("current", KindNetworkError, err)
	}
	if len(body) == 0 {
		return Reading{}, newError("current", KindNoData, nil)
	}

	var payload struct {
		Name string `json:"name"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity *int    `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Reading{}, newError("current", KindDecodingFailed, err)
	}
	if payload.Name == "" {
		return Reading{}, newError("current", KindDecodingFailed, errors.New("response has no city name"))
	}

	conditions := make([]Condition, 0, len(payload.Weather))
	for _, w := range payload.Weather {
		conditions = append(conditions, Condition{
			Description: w.Description,
			IconCode:    w.Icon,
		})
	}

	return Reading{
		CityName:     payload.Name,
		TemperatureK: payload.Main.Temp,
		Humidity:     payload.Main.Humidity,
		Conditions:   conditions,
	}, nil
}

// FetchIcon returns the icon bytes for iconCode, from cache when possible.
// Downloaded bytes are validated as a well-formed image before being cached;
// invalid payloads are never cached.
func (c *Client) FetchIcon(ctx context.Context, iconCode string) ([]byte, error) {
	if iconCode == "" {
		return nil, newError("icon", KindInvalidInput, errors.New("empty icon code"))
	}

	if img, ok := c.icons.Get(iconCode); ok {
		return img, nil
	}

	v, err, _ := c.group.Do(iconCode, func() (interface{}, error) {
		// A concurrent fetch may have populated the cache while this call
		// waited on the group.
		if img, ok := c.icons.Get(iconCode); ok {
			return img, nil
		}
		return c.downloadIcon(ctx, iconCode)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Client) downloadIcon(ctx context.Context, iconCode string) ([]byte, error) {
	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s%s@2x.png", c.iconURL, url.PathEscape(iconCode))
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, newError("icon", KindInvalidURL, err)
		}
		return req, nil
	}

	resp, err := doRequest(ctx, c.cfg, c.circuit, buildRequest)
	if err != nil {
		var werr *Error
		if errors.As(err, &werr) {
			return nil, err
		}
		return nil, newError("icon", KindNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, mapStatus("icon", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError("icon", KindNetworkError, err)
	}
	if len(body) == 0 {
		return nil, newError("icon", KindNoData, nil)
	}

	if _, _, err := image.Decode(bytes.NewReader(body)); err != nil {
		return nil, newError("icon", KindDecodingFailed, err)
	}

	c.icons.Put(iconCode, body)
	return body, nil
}
