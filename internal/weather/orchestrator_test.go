package weather

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeocoder struct {
	candidates []Candidate
	err        error
	calls      int
}

func (s *stubGeocoder) Resolve(ctx context.Context, cityName string) ([]Candidate, error) {
	s.calls++
	return s.candidates, s.err
}

type stubFetcher struct {
	reading      Reading
	readingErr   error
	icon         []byte
	iconErr      error
	iconCalls    int
	currentCalls int
	lastCoord    Coordinate
}

func (s *stubFetcher) FetchCurrent(ctx context.Context, coord Coordinate) (Reading, error) {
	s.currentCalls++
	s.lastCoord = coord
	return s.reading, s.readingErr
}

func (s *stubFetcher) FetchIcon(ctx context.Context, iconCode string) ([]byte, error) {
	s.iconCalls++
	return s.icon, s.iconErr
}

func TestOrchestrator_FetchByCityName(t *testing.T) {
	t.Run("full pipeline with icon", func(t *testing.T) {
		geocoder := &stubGeocoder{candidates: []Candidate{
			{Name: "London", Coordinate: Coordinate{Lat: 51.5, Lon: -0.12}, Country: "GB"},
			{Name: "London", Coordinate: Coordinate{Lat: 42.98, Lon: -81.24}, Country: "CA"},
		}}
		fetcher := &stubFetcher{
			reading: Reading{
				CityName:     "London",
				TemperatureK: 289.15,
				Conditions:   []Condition{{Description: "light rain", IconCode: "10d"}},
			},
			icon: []byte("png-bytes"),
		}

		orch := NewOrchestrator(geocoder, fetcher)

		result, err := orch.FetchByCityName(context.Background(), "London")
		require.NoError(t, err)
		assert.Equal(t, "London", result.CityName)
		assert.Equal(t, "60.8°F", result.TemperatureF)
		assert.Equal(t, []byte("png-bytes"), result.Icon)

		// The first candidate wins.
		assert.Equal(t, Coordinate{Lat: 51.5, Lon: -0.12}, fetcher.lastCoord)
	})

	t.Run("blank city fails fast", func(t *testing.T) {
		geocoder := &stubGeocoder{}
		orch := NewOrchestrator(geocoder, &stubFetcher{})

		for _, city := range []string{"", "   ", "\t\n"} {
			_, err := orch.FetchByCityName(context.Background(), city)
			assert.Equal(t, KindInvalidInput, ErrKind(err))
		}
		assert.Equal(t, 0, geocoder.calls)
	})

	t.Run("zero candidates means city not found", func(t *testing.T) {
		geocoder := &stubGeocoder{candidates: []Candidate{}}
		fetcher := &stubFetcher{}
		orch := NewOrchestrator(geocoder, fetcher)

		_, err := orch.FetchByCityName(context.Background(), "Nonexistentplace123")
		assert.Equal(t, KindCityNotFound, ErrKind(err))
		assert.Equal(t, 0, fetcher.currentCalls)
	})

	t.Run("geocoding failure propagates unchanged", func(t *testing.T) {
		geoErr := newError("geocode", KindNetworkError, errors.New("dns failure"))
		orch := NewOrchestrator(&stubGeocoder{err: geoErr}, &stubFetcher{})

		_, err := orch.FetchByCityName(context.Background(), "London")
		assert.Equal(t, geoErr, err)
	})
}

func TestOrchestrator_FetchByCoordinates(t *testing.T) {
	t.Run("icon failure degrades to no icon", func(t *testing.T) {
		fetcher := &stubFetcher{
			reading: Reading{
				CityName:     "Bergen",
				TemperatureK: 280.0,
				Conditions:   []Condition{{Description: "rain", IconCode: "09d"}},
			},
			iconErr: newError("icon", KindNetworkError, errors.New("timeout")),
		}
		orch := NewOrchestrator(&stubGeocoder{candidates: []Candidate{{Coordinate: Coordinate{Lat: 60.39, Lon: 5.32}}}}, fetcher)

		result, err := orch.FetchByCityName(context.Background(), "Bergen")
		require.NoError(t, err)
		assert.Equal(t, "Bergen", result.CityName)
		assert.Nil(t, result.Icon)
		assert.Equal(t, 1, fetcher.iconCalls)
	})

	t.Run("no icon code means no icon fetch", func(t *testing.T) {
		fetcher := &stubFetcher{
			reading: Reading{
				CityName:     "Lima",
				TemperatureK: 292.0,
				Conditions:   []Condition{{Description: "haze"}},
			},
		}
		orch := NewOrchestrator(&stubGeocoder{}, fetcher)

		result, err := orch.FetchByCoordinates(context.Background(), Coordinate{Lat: -12.05, Lon: -77.04})
		require.NoError(t, err)
		assert.Nil(t, result.Icon)
		assert.Equal(t, 0, fetcher.iconCalls)
	})

	t.Run("first non-empty icon code wins", func(t *testing.T) {
		fetcher := &stubFetcher{
			reading: Reading{
				CityName:     "Oslo",
				TemperatureK: 275.0,
				Conditions: []Condition{
					{Description: "unknown"},
					{Description: "snow", IconCode: "13d"},
				},
			},
			icon: []byte("snow-icon"),
		}
		orch := NewOrchestrator(&stubGeocoder{}, fetcher)

		result, err := orch.FetchByCoordinates(context.Background(), Coordinate{Lat: 59.91, Lon: 10.75})
		require.NoError(t, err)
		assert.Equal(t, []byte("snow-icon"), result.Icon)
	})

	t.Run("weather failure propagates unchanged", func(t *testing.T) {
		fetchErr := newError("current", KindServerError, errors.New("status 502"))
		orch := NewOrchestrator(&stubGeocoder{}, &stubFetcher{readingErr: fetchErr})

		_, err := orch.FetchByCoordinates(context.Background(), Coordinate{})
		assert.Equal(t, fetchErr, err)
	})
}

func TestFormatFahrenheit(t *testing.T) {
	cases := []struct {
		kelvin float64
		want   string
	}{
		{273.15, "32.0°F"},
		{373.15, "212.0°F"},
		{0, "-459.7°F"},
		{289.15, "60.8°F"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, formatFahrenheit(tc.kelvin), "kelvin=%v", tc.kelvin)
	}
}
