package weather

// Coordinate is a geographic point. The core performs no bounds validation;
// the provider is the source of truth for what constitutes a valid location.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Candidate is one geocoding match for a queried city string.
type Candidate struct {
	Name       string     `json:"name"`
	Coordinate Coordinate `json:"coordinate"`
	Country    string     `json:"country,omitempty"` // empty when the provider omits it
}

// Condition is one entry of a reading's weather list, in provider order.
type Condition struct {
	Description string `json:"description,omitempty"`
	IconCode    string `json:"icon,omitempty"`
}

// Reading is the normalized current-conditions result for a coordinate.
// Temperature is kept in Kelvin; conversion happens only at the
// presentation boundary. A successfully constructed Reading always has a
// non-empty CityName.
type Reading struct {
	CityName     string      `json:"cityName"`
	TemperatureK float64     `json:"temperatureK"`
	Humidity     *int        `json:"humidityPercent,omitempty"`
	Conditions   []Condition `json:"conditions,omitempty"`
}

// DisplayWeather is the display-ready result handed to the presentation
// layer: city name, formatted Fahrenheit temperature, and the condition
// icon when one could be resolved. It is owned solely by the caller.
type DisplayWeather struct {
	CityName     string `json:"cityName"`
	TemperatureF string `json:"temperature"`
	Icon         []byte `json:"icon,omitempty"` // nil when no icon is available
}
