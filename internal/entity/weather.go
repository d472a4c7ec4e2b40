package entity

// WeatherInfo is the current-weather result returned to clients and
// cached between lookups.
type WeatherInfo struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	Weather     string  `json:"weather"`
	Humidity    float64 `json:"humidity"`
	UpdateTime  string  `json:"update_time"`
}

// GeoLocation is an approximate location resolved from the caller's IP.
type GeoLocation struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
