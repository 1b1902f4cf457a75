package directory

import (
	"encoding/json"
	"fmt"
	"os"

	"bmkg-weather-api/models"
)

// Directory is the read-only station directory. It is loaded once at
// startup and safe for unbounded concurrent readers.
type Directory struct {
	stations []models.Station
	byID     map[string]int
}

// Load reads the station directory from a JSON file holding an array
// of station records.
func Load(path string) (*Directory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read station directory: %w", err)
	}
	var stations []models.Station
	if err := json.Unmarshal(raw, &stations); err != nil {
		return nil, fmt.Errorf("parse station directory %s: %w", path, err)
	}
	return New(stations), nil
}

// New builds a directory from an in-memory station list.
func New(stations []models.Station) *Directory {
	byID := make(map[string]int, len(stations))
	for i, s := range stations {
		byID[s.ID] = i
	}
	return &Directory{stations: stations, byID: byID}
}

// Get returns the entry for a station id.
func (d *Directory) Get(id string) (models.Station, bool) {
	i, ok := d.byID[id]
	if !ok {
		return models.Station{}, false
	}
	return d.stations[i], true
}

// All returns a copy of every directory entry.
func (d *Directory) All() []models.Station {
	out := make([]models.Station, len(d.stations))
	copy(out, d.stations)
	return out
}

// Len returns the number of directory entries.
func (d *Directory) Len() int {
	return len(d.stations)
}
