package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/imatskiv/cityweather/internal/cache"
	"github.com/imatskiv/cityweather/internal/logger"
)

type AppConfig struct {
	OpenWeatherAPIKey string

	// Provider endpoints.
	WeatherBaseURL string
	GeocodeBaseURL string
	IconBaseURL    string

	// GeocodeLimit caps the number of candidates requested per lookup.
	GeocodeLimit int

	// IconCacheCapacity bounds the icon cache entry count.
	IconCacheCapacity int

	HTTPTimeout time.Duration

	// RefreshInterval controls how often the last searched city is re-fetched.
	RefreshInterval time.Duration

	// LastCityFile is where the last searched city preference is persisted.
	LastCityFile string

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debugw("no .env file loaded", "error", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	if cfg.OpenWeatherAPIKey == "" {
		return nil, fmt.Errorf("OPENWEATHER_API_KEY is required")
	}

	cfg.WeatherBaseURL = getenvDefault("WEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5/weather")
	cfg.GeocodeBaseURL = getenvDefault("GEOCODE_BASE_URL", "https://api.openweathermap.org/geo/1.0/direct")
	cfg.IconBaseURL = getenvDefault("ICON_BASE_URL", "https://openweathermap.org/img/wn/")

	cfg.GeocodeLimit = getenvInt("GEOCODE_LIMIT", 1)
	cfg.IconCacheCapacity = getenvInt("ICON_CACHE_CAPACITY", cache.DefaultCapacity)

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	intervalStr := getenvDefault("REFRESH_INTERVAL", "15m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = interval

	cfg.LastCityFile = getenvDefault("LAST_CITY_FILE", ".last-city")
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
