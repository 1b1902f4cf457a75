package geojson

import (
	"strconv"
	"strings"
	"time"

	"bmkg-weather-api/models"
)

// AWSToFeature converts one portal station record into a GeoJSON point
// feature. Records with non-numeric or out-of-range coordinates yield
// nil: malformed entries are dropped, not propagated as errors.
func AWSToFeature(rec Record) *models.AWSFeature {
	// The portal is inconsistent about the latitude field name.
	latStr := rec.firstOf("lat", "latt")
	lngStr := rec.str("lng")

	lat, errLat := strconv.ParseFloat(latStr, 64)
	lng, errLng := strconv.ParseFloat(lngStr, 64)
	if errLat != nil || errLng != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil
	}

	stationType := strings.ToLower(rec.firstOf("type", "tipe_station"))
	if stationType == "" {
		stationType = "unknown"
	}
	name := rec.firstOf("name_station", "nama_stasiun")
	if name == "" {
		name = models.MetaUnavailable
	}

	var classification *string
	if s := rec.str("klasifikasi"); s != "" {
		classification = &s
	}

	props := models.AWSProperties{
		ID:             rec.str("id_station"),
		Name:           name,
		City:           rec.str("nama_kota"),
		Type:           stationType,
		Province:       rec.str("nama_provinsi"),
		ProvinceCode:   rec.str("kode_provinsi"),
		Classification: classification,
		Status: models.StationStatus{
			DaysDiff:    rec.intOr("diff_day", 0),
			HoursDiff:   rec.intOr("diff_hour", 0),
			MinutesDiff: rec.intOr("diff_minute", 0),
			LastUpdate:  rec.str("tanggal"),
			Icon:        rec.firstOf("icon", "status_symbol"),
		},
		Weather:    BuildWeatherData(rec, stationType),
		LoggerTemp: rec.float("logger_temp"),
	}

	// Distance is only present on records that came out of a radius
	// query; its absence and its presence both carry meaning.
	if _, ok := rec["distance"]; ok {
		props.Distance = ParseFloatSafe(rec["distance"])
	}

	return &models.AWSFeature{
		Type: "Feature",
		Geometry: models.Geometry{
			Type:        "Point",
			Coordinates: [2]float64{lng, lat},
		},
		Properties: props,
	}
}

// AWSToCollection converts station records into a FeatureCollection,
// dropping records with invalid coordinates. The optional metadata
// counts features actually kept, but tallies types over the full input
// so dropped stations remain visible in the totals.
func AWSToCollection(records []Record, includeMetadata bool) models.AWSFeatureCollection {
	features := make([]models.AWSFeature, 0, len(records))
	for _, rec := range records {
		if f := AWSToFeature(rec); f != nil {
			features = append(features, *f)
		}
	}

	col := models.AWSFeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}

	if includeMetadata {
		typeCounts := make(map[string]int, len(records))
		for _, rec := range records {
			t := rec.str("type")
			if t == "" {
				t = "unknown"
			}
			typeCounts[t]++
		}
		col.Metadata = &models.CollectionMetadata{
			Count:     len(features),
			Generated: time.Now().UTC().Format(time.RFC3339),
			Types:     typeCounts,
		}
	}
	return col
}
