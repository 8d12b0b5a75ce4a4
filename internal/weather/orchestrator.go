package weather

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/imatskiv/cityweather/internal/logger"
)

// Geocoder resolves a city name to candidate locations.
type Geocoder interface {
	Resolve(ctx context.Context, cityName string) ([]Candidate, error)
}

// Fetcher fetches current conditions and condition icons.
type Fetcher interface {
	FetchCurrent(ctx context.Context, coord Coordinate) (Reading, error)
	FetchIcon(ctx context.Context, iconCode string) ([]byte, error)
}

// Orchestrator composes the geocoding and weather clients into the city
// lookup pipeline. Each call is a stateless, request-scoped pipeline, so
// independent lookups may run concurrently.
type Orchestrator struct {
	geocoder Geocoder
	fetcher  Fetcher
}

// NewOrchestrator creates an Orchestrator over the given collaborators.
func NewOrchestrator(geocoder Geocoder, fetcher Fetcher) *Orchestrator {
	return &Orchestrator{
		geocoder: geocoder,
		fetcher:  fetcher,
	}
}

// FetchByCityName resolves city to a coordinate and fetches its current
// weather. A blank city fails fast; zero geocoding candidates is reported
// as city-not-found.
func (o *Orchestrator) FetchByCityName(ctx context.Context, city string) (DisplayWeather, error) {
	if strings.TrimSpace(city) == "" {
		return DisplayWeather{}, newError("lookup", KindInvalidInput, errors.New("empty city name"))
	}

	candidates, err := o.geocoder.Resolve(ctx, city)
	if err != nil {
		return DisplayWeather{}, err
	}
	if len(candidates) == 0 {
		return DisplayWeather{}, newError("lookup", KindCityNotFound, fmt.Errorf("no geocoding candidates for %q", city))
	}

	return o.FetchByCoordinates(ctx, candidates[0].Coordinate)
}

// FetchByCoordinates fetches current weather at coord and resolves the
// condition icon. An icon failure degrades to a result without an icon; it
// never fails the lookup.
func (o *Orchestrator) FetchByCoordinates(ctx context.Context, coord Coordinate) (DisplayWeather, error) {
	reading, err := o.fetcher.FetchCurrent(ctx, coord)
	if err != nil {
		return DisplayWeather{}, err
	}

	result := DisplayWeather{
		CityName:     reading.CityName,
		TemperatureF: formatFahrenheit(reading.TemperatureK),
	}

	if code := firstIconCode(reading.Conditions); code != "" {
		icon, err := o.fetcher.FetchIcon(ctx, code)
		if err != nil {
			logger.Debugw("icon fetch failed, returning result without icon",
				"city", reading.CityName, "icon", code, "error", err)
		} else {
			result.Icon = icon
		}
	}

	return result, nil
}

// formatFahrenheit renders a Kelvin temperature for display, one decimal.
func formatFahrenheit(kelvin float64) string {
	f := (kelvin-273.15)*9/5 + 32
	return fmt.Sprintf("%.1f°F", f)
}

func firstIconCode(conditions []Condition) string {
	for _, c := range conditions {
		if c.IconCode != "" {
			return c.IconCode
		}
	}
	return ""
}
