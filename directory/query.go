package directory

import (
	"sort"
	"strconv"
	"strings"

	"bmkg-weather-api/models"
)

// CityMatch selects how city-name queries compare against the
// directory's city field.
type CityMatch string

const (
	MatchPartial    CityMatch = "partial"
	MatchExact      CityMatch = "exact"
	MatchStartsWith CityMatch = "startsWith"
)

// normalizeTerm lowercases a query term and treats underscores as
// spaces, matching how callers pass multi-word city names in URLs.
func normalizeTerm(term string) string {
	return strings.ToLower(strings.ReplaceAll(term, "_", " "))
}

func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = normalizeTerm(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func containsAny(city string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(city, t) {
			return true
		}
	}
	return false
}

// ByProvince returns stations whose province code is in codes,
// optionally narrowed by a city include list and an exclude list
// (both case-insensitive substring matches; exclude wins).
func (d *Directory) ByProvince(codes []string, filter models.TypeFilter, includeCity, excludeCity []string) []models.Station {
	codeSet := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		codeSet[strings.TrimSpace(c)] = struct{}{}
	}
	include := normalizeTerms(includeCity)
	exclude := normalizeTerms(excludeCity)

	var out []models.Station
	for _, s := range d.stations {
		if _, ok := codeSet[s.ProvinceCode]; !ok {
			continue
		}
		city := strings.ToLower(s.City)
		if len(exclude) > 0 && containsAny(city, exclude) {
			continue
		}
		if len(include) > 0 && !containsAny(city, include) {
			continue
		}
		if !filter.Matches(s.Type) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// ByCity returns stations whose city name matches any of the query
// names under the given match mode. The exclude list is checked first
// and short-circuits.
func (d *Directory) ByCity(names []string, filter models.TypeFilter, match CityMatch, excludeCity []string) []models.Station {
	terms := normalizeTerms(names)
	exclude := normalizeTerms(excludeCity)

	var out []models.Station
	for _, s := range d.stations {
		city := strings.ToLower(s.City)
		if len(exclude) > 0 && containsAny(city, exclude) {
			continue
		}
		matched := false
		for _, t := range terms {
			switch match {
			case MatchExact:
				matched = city == t
			case MatchStartsWith:
				matched = strings.HasPrefix(city, t)
			default:
				matched = strings.Contains(city, t)
			}
			if matched {
				break
			}
		}
		if !matched || !filter.Matches(s.Type) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// ByRadius returns stations within radius kilometers of the query
// point, each annotated with its distance, sorted nearest first. The
// ascending order is a contract callers rely on. Entries with
// unparsable coordinates are skipped.
func (d *Directory) ByRadius(lat, lon, radius float64, filter models.TypeFilter) []models.StationDistance {
	var out []models.StationDistance
	for _, s := range d.stations {
		slat, err := strconv.ParseFloat(s.Lat, 64)
		if err != nil {
			continue
		}
		slon, err := strconv.ParseFloat(s.Lng, 64)
		if err != nil {
			continue
		}
		dist := Haversine(lat, lon, slat, slon)
		if dist > radius || !filter.Matches(s.Type) {
			continue
		}
		out = append(out, models.StationDistance{Station: s, Distance: dist})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}
