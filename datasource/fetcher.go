package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"bmkg-weather-api/directory"
	"bmkg-weather-api/models"
)

const defaultStationType = models.TypeAWS

// StationRef identifies one station to fetch. Type and Distance are
// optional: an empty Type is resolved against the directory, and
// Distance is set only for radius-query selections, carried into the
// result untouched.
type StationRef struct {
	ID       string
	Type     string
	Distance *float64
}

// StationFetcher resolves station selections against the directory and
// pulls live readings through an authenticated portal session.
type StationFetcher struct {
	client *AWSCenterClient
	dir    *directory.Directory
	logger *slog.Logger
}

// NewStationFetcher creates a fetcher bound to one portal client. The
// client carries this fetcher's session state exclusively.
func NewStationFetcher(client *AWSCenterClient, dir *directory.Directory, logger *slog.Logger) *StationFetcher {
	return &StationFetcher{client: client, dir: dir, logger: logger}
}

// FetchStationData fetches one station's live reading. Failures of any
// kind (transport, HTTP status, payload decode) come back as a failure
// result, never as an error: the caller always gets exactly one result
// per station. When includeMeta is set, directory metadata is merged
// in, degrading to "N/A" sentinels on a directory miss.
func (f *StationFetcher) FetchStationData(ctx context.Context, stationID, explicitType string, includeMeta bool) models.FetchResult {
	stationType := explicitType
	if stationType == "" {
		if st, ok := f.dir.Get(stationID); ok {
			stationType = st.Type
		}
	}
	if stationType == "" {
		stationType = defaultStationType
	}

	endpoint := fmt.Sprintf("%s/monitoring/%s/%s/json", f.client.BaseURL(), stationType, stationID)

	resp, err := f.client.FetchWithRetry(ctx, endpoint, 1)
	if err != nil {
		return f.failure(stationID, stationType, err.Error(), includeMeta)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		return f.failure(stationID, stationType, msg, includeMeta)
	}

	var data map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return f.failure(stationID, stationType, fmt.Sprintf("failed to parse station payload: %v", err), includeMeta)
	}

	result := models.FetchResult{Success: true, StationID: stationID, Data: data}
	if includeMeta {
		result.StationMeta = f.metaSnapshot(stationID, stationType)
	}
	return result
}

func (f *StationFetcher) failure(stationID, stationType, msg string, includeMeta bool) models.FetchResult {
	f.logger.Warn("station fetch failed", "station", stationID, "type", stationType, "error", msg)
	result := models.FetchResult{Success: false, StationID: stationID, Error: msg}
	if includeMeta {
		result.StationMeta = f.metaSnapshot(stationID, stationType)
	}
	return result
}

func (f *StationFetcher) metaSnapshot(stationID, fallbackType string) *models.StationMeta {
	st, ok := f.dir.Get(stationID)
	if !ok {
		return &models.StationMeta{
			StationName:  models.MetaUnavailable,
			City:         models.MetaUnavailable,
			Province:     models.MetaUnavailable,
			ProvinceCode: models.MetaUnavailable,
			Lat:          models.MetaUnavailable,
			Lng:          models.MetaUnavailable,
			Type:         fallbackType,
		}
	}
	return &models.StationMeta{
		StationName:  st.Name,
		City:         st.City,
		Province:     st.Province,
		ProvinceCode: st.ProvinceCode,
		Lat:          st.Lat,
		Lng:          st.Lng,
		Type:         st.Type,
	}
}

// FetchMultiple fetches every referenced station and returns one
// result per input, in input order. Stations are fetched one at a
// time: the session-retry contract assumes no sibling request is using
// a stale cookie while the session is being refreshed, and the
// sequential pace bounds load on the upstream portal.
func (f *StationFetcher) FetchMultiple(ctx context.Context, refs []StationRef, includeMeta bool) []models.FetchResult {
	results := make([]models.FetchResult, 0, len(refs))
	for _, ref := range refs {
		result := f.FetchStationData(ctx, ref.ID, ref.Type, includeMeta)
		result.Distance = ref.Distance
		results = append(results, result)
	}
	return results
}

// FetchByProvince fetches live readings for every directory station in
// the given province codes, optionally narrowed by city include and
// exclude lists.
func (f *StationFetcher) FetchByProvince(ctx context.Context, codes []string, filter models.TypeFilter, includeCity, excludeCity []string) []models.FetchResult {
	stations := f.dir.ByProvince(codes, filter, includeCity, excludeCity)
	f.logger.Info("fetching stations by province", "provinces", codes, "stations", len(stations))
	return f.FetchMultiple(ctx, stationRefs(stations), true)
}

// FetchByCity fetches live readings for stations matched by city name.
func (f *StationFetcher) FetchByCity(ctx context.Context, names []string, filter models.TypeFilter, match directory.CityMatch, excludeCity []string) []models.FetchResult {
	stations := f.dir.ByCity(names, filter, match, excludeCity)
	f.logger.Info("fetching stations by city", "cities", names, "stations", len(stations))
	return f.FetchMultiple(ctx, stationRefs(stations), true)
}

// FetchByRadius fetches live readings for stations within radius
// kilometers of a point. Results keep the query engine's
// nearest-first order and carry each station's distance.
func (f *StationFetcher) FetchByRadius(ctx context.Context, lat, lon, radius float64, filter models.TypeFilter) []models.FetchResult {
	stations := f.dir.ByRadius(lat, lon, radius, filter)
	f.logger.Info("fetching stations by radius", "lat", lat, "lon", lon, "radius_km", radius, "stations", len(stations))

	refs := make([]StationRef, 0, len(stations))
	for _, s := range stations {
		d := s.Distance
		refs = append(refs, StationRef{ID: s.ID, Type: s.Type, Distance: &d})
	}
	return f.FetchMultiple(ctx, refs, true)
}

func stationRefs(stations []models.Station) []StationRef {
	refs := make([]StationRef, 0, len(stations))
	for _, s := range stations {
		refs = append(refs, StationRef{ID: s.ID, Type: s.Type})
	}
	return refs
}
