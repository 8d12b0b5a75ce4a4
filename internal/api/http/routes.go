package httpapi

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/imatskiv/cityweather/internal/logger"
	"github.com/imatskiv/cityweather/internal/prefs"
	"github.com/imatskiv/cityweather/internal/weather"
)

var validate = validator.New()

// Lookup is the slice of the orchestrator the HTTP layer needs.
type Lookup interface {
	FetchByCityName(ctx context.Context, city string) (weather.DisplayWeather, error)
	FetchByCoordinates(ctx context.Context, coord weather.Coordinate) (weather.DisplayWeather, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. prefs may be
// nil when no preference persistence is wanted.
func RegisterRoutes(app *fiber.App, lookup Lookup, prefStore *prefs.Store) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		if city := c.Query("city"); city != "" {
			result, err := lookup.FetchByCityName(c.Context(), city)
			if err != nil {
				return toHTTPError(err)
			}

			// Remember the last successful manual search.
			if prefStore != nil {
				if err := prefStore.SetLastCity(city); err != nil {
					logger.Errorw("failed to persist last city", "city", city, "error", err)
				}
			}
			return c.JSON(result)
		}

		coordReq, err := parseCoordinateQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		result, err := lookup.FetchByCoordinates(c.Context(), coordReq.toCoordinate())
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(result)
	})
}

// coordinateQuery holds the raw query parameters for a coordinate lookup.
type coordinateQuery struct {
	Lat string `validate:"required"`
	Lon string `validate:"required"`

	lat float64
	lon float64
}

func (q coordinateQuery) toCoordinate() weather.Coordinate {
	return weather.Coordinate{Lat: q.lat, Lon: q.lon}
}

func parseCoordinateQuery(c *fiber.Ctx) (coordinateQuery, error) {
	var q coordinateQuery

	q.Lat = c.Query("lat")
	q.Lon = c.Query("lon")

	if err := validate.Struct(q); err != nil {
		return q, errors.New("either city or lat/lon query parameters are required")
	}

	lat, err := strconv.ParseFloat(q.Lat, 64)
	if err != nil {
		return q, errors.New("invalid lat query parameter")
	}
	lon, err := strconv.ParseFloat(q.Lon, 64)
	if err != nil {
		return q, errors.New("invalid lon query parameter")
	}

	q.lat = lat
	q.lon = lon
	return q, nil
}

// toHTTPError maps the core error taxonomy onto HTTP statuses.
func toHTTPError(err error) error {
	switch weather.ErrKind(err) {
	case weather.KindInvalidInput:
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case weather.KindCityNotFound:
		return fiber.NewError(fiber.StatusNotFound, "city not found")
	case weather.KindNetworkError, weather.KindServerError, weather.KindNoData, weather.KindDecodingFailed:
		return fiber.NewError(fiber.StatusBadGateway, "weather provider unavailable")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
	}
}
