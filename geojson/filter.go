package geojson

import (
	"strings"

	"bmkg-weather-api/models"
)

// PublicFilter selects features of a public collection. Include
// criteria must all hold: Province and Type compare exactly
// (case-insensitive), Kabupaten and Kecamatan as substrings. Exclude
// lists are evaluated independently; any exclude match drops the
// feature unconditionally, even when an include criterion matched.
type PublicFilter struct {
	Province  string
	Kabupaten string
	Kecamatan string
	Type      string

	ExcludeProvince  []string
	ExcludeKabupaten []string
	ExcludeKecamatan []string
	ExcludeType      []string
}

func lowerAll(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func anyEquals(value string, terms []string) bool {
	for _, t := range terms {
		if value == t {
			return true
		}
	}
	return false
}

func anySubstring(value string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(value, t) {
			return true
		}
	}
	return false
}

// FilterPublic applies a multi-criterion filter over a public feature
// collection and returns a new collection.
func FilterPublic(col models.PublicFeatureCollection, filter PublicFilter) models.PublicFeatureCollection {
	province := strings.ToLower(filter.Province)
	kabupaten := strings.ToLower(filter.Kabupaten)
	kecamatan := strings.ToLower(filter.Kecamatan)
	featureType := strings.ToLower(filter.Type)

	exclProvince := lowerAll(filter.ExcludeProvince)
	exclKabupaten := lowerAll(filter.ExcludeKabupaten)
	exclKecamatan := lowerAll(filter.ExcludeKecamatan)
	exclType := lowerAll(filter.ExcludeType)

	features := make([]models.PublicFeature, 0, len(col.Features))
	for _, f := range col.Features {
		p := f.Properties
		fProvince := strings.ToLower(p.Province)
		fKabupaten := strings.ToLower(p.Kabupaten)
		fKecamatan := strings.ToLower(p.Kecamatan)
		fType := strings.ToLower(p.Type)

		if province != "" && fProvince != province {
			continue
		}
		if kabupaten != "" && !strings.Contains(fKabupaten, kabupaten) {
			continue
		}
		if kecamatan != "" && !strings.Contains(fKecamatan, kecamatan) {
			continue
		}
		if featureType != "" && fType != featureType {
			continue
		}

		if anyEquals(fProvince, exclProvince) ||
			anySubstring(fKabupaten, exclKabupaten) ||
			anySubstring(fKecamatan, exclKecamatan) ||
			anyEquals(fType, exclType) {
			continue
		}

		features = append(features, f)
	}

	return models.PublicFeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}

// FilterBoundingBox keeps features whose point lies inside the
// inclusive [minLon,maxLon] x [minLat,maxLat] box.
func FilterBoundingBox(col models.PublicFeatureCollection, minLon, minLat, maxLon, maxLat float64) models.PublicFeatureCollection {
	features := make([]models.PublicFeature, 0, len(col.Features))
	for _, f := range col.Features {
		lon, lat := f.Geometry.Coordinates[0], f.Geometry.Coordinates[1]
		if lon >= minLon && lon <= maxLon && lat >= minLat && lat <= maxLat {
			features = append(features, f)
		}
	}
	return models.PublicFeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
