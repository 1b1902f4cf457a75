package geojson

import (
	"bmkg-weather-api/models"
)

// Positions inside a pwxDarat row.
const (
	pwxProvince = iota
	pwxKabupaten
	pwxKecamatan
	pwxLat
	pwxLon
	pwxID
	pwxTimestamp
	pwxWeather
	pwxType
	pwxRowLen
)

func anyToString(v any) string {
	s, _ := v.(string)
	return s
}

// parsePublicWeather converts the positional weather tuple
// [humidity, temperature, weatherCode, windDirection, windSpeed]
// into a struct; short or missing tuples yield nil.
func parsePublicWeather(v any) *models.PublicWeather {
	tuple, ok := v.([]any)
	if !ok || len(tuple) < 5 {
		return nil
	}
	return &models.PublicWeather{
		Humidity:      anyToString(tuple[0]),
		Temperature:   anyToString(tuple[1]),
		WeatherCode:   anyToString(tuple[2]),
		WindDirection: anyToString(tuple[3]),
		WindSpeed:     anyToString(tuple[4]),
	}
}

// PublicToFeature converts one pwxDarat positional row into a GeoJSON
// feature. Rows that are too short or lack numeric coordinates yield
// nil and are dropped by the collection builder.
func PublicToFeature(row []any) *models.PublicFeature {
	if len(row) < pwxRowLen {
		return nil
	}
	lat := ParseFloatSafe(row[pwxLat])
	lon := ParseFloatSafe(row[pwxLon])
	if lat == nil || lon == nil {
		return nil
	}

	return &models.PublicFeature{
		Type: "Feature",
		Geometry: models.Geometry{
			Type:        "Point",
			Coordinates: [2]float64{*lon, *lat},
		},
		Properties: models.PublicProperties{
			ID:        anyToString(row[pwxID]),
			Province:  anyToString(row[pwxProvince]),
			Kabupaten: anyToString(row[pwxKabupaten]),
			Kecamatan: anyToString(row[pwxKecamatan]),
			Timestamp: anyToString(row[pwxTimestamp]),
			Type:      anyToString(row[pwxType]),
			Weather:   parsePublicWeather(row[pwxWeather]),
		},
	}
}

// PublicToCollection converts pwxDarat rows into a FeatureCollection,
// dropping malformed rows.
func PublicToCollection(rows [][]any) models.PublicFeatureCollection {
	features := make([]models.PublicFeature, 0, len(rows))
	for _, row := range rows {
		if f := PublicToFeature(row); f != nil {
			features = append(features, *f)
		}
	}
	return models.PublicFeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
