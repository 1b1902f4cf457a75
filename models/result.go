package models

// MetaUnavailable is the sentinel used when a fetched station has no
// directory entry. A fetch never fails just because metadata misses.
const MetaUnavailable = "N/A"

// StationMeta is the directory metadata snapshot attached to fetch
// results. Fields fall back to MetaUnavailable on a directory miss.
type StationMeta struct {
	StationName  string `json:"stationName"`
	City         string `json:"city"`
	Province     string `json:"province"`
	ProvinceCode string `json:"provinceCode"`
	Lat          string `json:"lat"`
	Lng          string `json:"lng"`
	Type         string `json:"type"`
}

// FetchResult is the outcome of fetching one station's live reading.
// Exactly one of Data or Error is set. Results in a batch are
// independent: a failed station never aborts its siblings.
type FetchResult struct {
	Success   bool           `json:"success"`
	StationID string         `json:"stationId"`
	Data      map[string]any `json:"data,omitempty"`
	Error     string         `json:"error,omitempty"`
	*StationMeta
	Distance *float64 `json:"distance,omitempty"`
}
