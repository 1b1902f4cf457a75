package models

import "strings"

// Station instrument classes as they appear in the BMKG station directory.
const (
	TypeAWS        = "aws"        // automatic weather station, full sensor set
	TypeAAWS       = "aaws"       // advanced AWS with PAR and 2m wind sensors
	TypeARG        = "arg"        // automatic rain gauge
	TypeASRS       = "asrs"       // automatic solar radiation station
	TypeSoil       = "soil"       // soil moisture and temperature profile
	TypeIklimmikro = "iklimmikro" // micro climate mast, 4m/7m/10m levels
)

// Station is one entry of the static station directory (location.json).
// Coordinates stay strings because the upstream portal publishes them
// as text; they are parsed on use.
type Station struct {
	ID           string `json:"id_station"`
	Name         string `json:"name_station"`
	City         string `json:"nama_kota"`
	Province     string `json:"nama_provinsi"`
	ProvinceCode string `json:"kode_provinsi"`
	Lat          string `json:"lat"`
	Lng          string `json:"lng"`
	Type         string `json:"type"`
}

// StationDistance pairs a directory entry with its great-circle
// distance from a radius-query origin, in kilometers.
type StationDistance struct {
	Station
	Distance float64 `json:"distance"`
}

// TypeFilter is a closed filter over station types: match everything,
// exactly one type, or any of a set. The zero value matches everything.
type TypeFilter struct {
	types map[string]struct{}
}

// AllTypes returns a filter that accepts every station type.
func AllTypes() TypeFilter { return TypeFilter{} }

// TypeIs returns a filter that accepts a single station type.
func TypeIs(t string) TypeFilter { return TypeIn(t) }

// TypeIn returns a filter that accepts any of the given types. An
// empty list accepts everything.
func TypeIn(types ...string) TypeFilter {
	if len(types) == 0 {
		return TypeFilter{}
	}
	set := make(map[string]struct{}, len(types))
	for _, t := range types {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			set[t] = struct{}{}
		}
	}
	if len(set) == 0 {
		return TypeFilter{}
	}
	return TypeFilter{types: set}
}

// Matches reports whether the filter accepts the given station type.
func (f TypeFilter) Matches(stationType string) bool {
	if f.types == nil {
		return true
	}
	_, ok := f.types[strings.ToLower(stationType)]
	return ok
}
