package models

// Geometry is a GeoJSON point geometry. Coordinates are [lon, lat].
type Geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// StationStatus describes how stale a station's latest reading is.
type StationStatus struct {
	DaysDiff    int    `json:"daysDiff"`
	HoursDiff   int    `json:"hoursDiff"`
	MinutesDiff int    `json:"minutesDiff"`
	LastUpdate  string `json:"lastUpdate"`
	Icon        string `json:"icon"`
}

// AWSProperties are the feature properties of one portal station.
// Distance is present only for stations selected by a radius query.
type AWSProperties struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	City           string        `json:"city"`
	Type           string        `json:"type"`
	Province       string        `json:"province"`
	ProvinceCode   string        `json:"provinceCode"`
	Classification *string       `json:"classification"`
	Status         StationStatus `json:"status"`
	Weather        Observation   `json:"weather"`
	LoggerTemp     *float64      `json:"loggerTemp"`
	Distance       *float64      `json:"distance,omitempty"`
}

// AWSFeature is a GeoJSON feature for one portal station.
type AWSFeature struct {
	Type       string        `json:"type"`
	Geometry   Geometry      `json:"geometry"`
	Properties AWSProperties `json:"properties"`
}

// CollectionMetadata summarizes a feature collection. Types counts the
// raw station types of the input list, including stations that were
// dropped for invalid coordinates.
type CollectionMetadata struct {
	Count     int            `json:"count"`
	Generated string         `json:"generated"`
	Types     map[string]int `json:"types"`
}

// AWSFeatureCollection is the GeoJSON output for portal stations.
type AWSFeatureCollection struct {
	Type     string              `json:"type"`
	Features []AWSFeature        `json:"features"`
	Metadata *CollectionMetadata `json:"metadata,omitempty"`
}

// PublicWeather is the current-condition tuple of a public forecast
// location. Values stay strings as published by the upstream feed.
type PublicWeather struct {
	Humidity      string `json:"humidity"`
	Temperature   string `json:"temperature"`
	WeatherCode   string `json:"weatherCode"`
	WindDirection string `json:"windDirection"`
	WindSpeed     string `json:"windSpeed"`
}

// PublicProperties are the feature properties of one public forecast
// location (ADM hierarchy plus current conditions).
type PublicProperties struct {
	ID        string         `json:"id"`
	Province  string         `json:"province"`
	Kabupaten string         `json:"kabupaten"`
	Kecamatan string         `json:"kecamatan"`
	Timestamp string         `json:"timestamp"`
	Type      string         `json:"type"`
	Weather   *PublicWeather `json:"weather"`
}

// PublicFeature is a GeoJSON feature for one public forecast location.
type PublicFeature struct {
	Type       string           `json:"type"`
	Geometry   Geometry         `json:"geometry"`
	Properties PublicProperties `json:"properties"`
}

// PublicFeatureCollection is the GeoJSON output for public forecast
// locations. Metadata is attached by the API layer when requested.
type PublicFeatureCollection struct {
	Type     string          `json:"type"`
	Features []PublicFeature `json:"features"`
	Metadata any             `json:"metadata,omitempty"`
}
