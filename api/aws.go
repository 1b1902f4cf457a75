package api

import (
	"net/http"
	"strconv"
	"strings"

	"bmkg-weather-api/datasource"
	"bmkg-weather-api/directory"
	"bmkg-weather-api/geojson"
	"bmkg-weather-api/models"
)

var awsExamples = map[string]any{
	"examples": map[string]string{
		"byProvince": "/aws?province=PR013,PR015",
		"byCity":     "/aws?city=cilacap&match=exact",
		"byStations": "/aws?stations=STA1101,STA1102",
		"byRadius":   "/aws?lat=-7.5&lon=110.5&radius=50",
	},
}

// splitList splits a comma-separated query parameter, dropping empty
// entries.
func splitList(param string) []string {
	if param == "" {
		return nil
	}
	parts := strings.Split(param, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// handleAWS serves live station readings selected by exactly one of:
// province codes, city names, explicit station ids, or a radius around
// a coordinate.
func (s *Server) handleAWS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	q := r.URL.Query()
	provinceParam := q.Get("province")
	cityParam := q.Get("city")
	stationsParam := q.Get("stations")
	latParam, lonParam, radiusParam := q.Get("lat"), q.Get("lon"), q.Get("radius")
	radiusMode := latParam != "" || lonParam != "" || radiusParam != ""

	var selectors []string
	if provinceParam != "" {
		selectors = append(selectors, "province")
	}
	if cityParam != "" {
		selectors = append(selectors, "city")
	}
	if stationsParam != "" {
		selectors = append(selectors, "stations")
	}
	if radiusMode {
		selectors = append(selectors, "lat+lon+radius")
	}

	if len(selectors) == 0 {
		writeError(w, http.StatusBadRequest,
			"missing selector: provide exactly one of province, city, stations, or lat+lon+radius",
			awsExamples)
		return
	}
	if len(selectors) > 1 {
		writeError(w, http.StatusBadRequest,
			"conflicting selectors: "+strings.Join(selectors, " and ")+" are mutually exclusive",
			awsExamples)
		return
	}

	typeFilter := models.TypeIn(splitList(q.Get("type"))...)

	match := directory.MatchPartial
	switch q.Get("match") {
	case "", "partial":
	case "exact":
		match = directory.MatchExact
	case "startsWith":
		match = directory.MatchStartsWith
	default:
		writeError(w, http.StatusBadRequest,
			"invalid match mode: allowed values are partial, exact, startsWith",
			nil)
		return
	}
	exclude := splitList(q.Get("exclude"))

	// All parameter validation happens before any portal traffic; a
	// request that can only ever be a 400 must not cost a login.
	var lat, lon, radius float64
	if selectors[0] == "lat+lon+radius" {
		var ok bool
		lat, lon, radius, ok = s.parseRadiusParams(w, latParam, lonParam, radiusParam)
		if !ok {
			return
		}
	}

	// One authenticator per request: the session cookie is never
	// shared with a concurrent request flow.
	ctx := r.Context()
	client := datasource.NewAWSCenterClient(s.cfg, s.logger)
	ok, err := client.Authenticate(ctx, s.cfg.Captcha)
	if err != nil {
		s.logger.Error("portal authentication error", "error", err)
		writeError(w, http.StatusInternalServerError, "authentication with the AWS portal failed", nil)
		return
	}
	if !ok {
		writeError(w, http.StatusInternalServerError, "authentication with the AWS portal was rejected", nil)
		return
	}
	fetcher := datasource.NewStationFetcher(client, s.dir, s.logger)

	var results []models.FetchResult
	switch selectors[0] {
	case "province":
		results = fetcher.FetchByProvince(ctx, splitList(provinceParam), typeFilter, nil, nil)

	case "city":
		results = fetcher.FetchByCity(ctx, splitList(cityParam), typeFilter, match, exclude)

	case "stations":
		// A single explicit type applies to every listed station;
		// otherwise each station's type is resolved from the directory.
		explicitType := ""
		if types := splitList(q.Get("type")); len(types) == 1 {
			explicitType = types[0]
		}
		ids := splitList(stationsParam)
		refs := make([]datasource.StationRef, 0, len(ids))
		for _, id := range ids {
			refs = append(refs, datasource.StationRef{ID: id, Type: explicitType})
		}
		results = fetcher.FetchMultiple(ctx, refs, true)

	default: // lat+lon+radius, validated above
		results = fetcher.FetchByRadius(ctx, lat, lon, radius, typeFilter)
	}

	if q.Get("format") == "geojson" {
		w.Header().Set("Content-Type", "application/geo+json")
		writeJSON(w, http.StatusOK, resultsToCollection(results))
		return
	}

	stations := make([]models.FetchResult, 0, len(results))
	failed := make([]models.FetchResult, 0)
	for _, res := range results {
		if res.Success {
			stations = append(stations, res)
		} else {
			failed = append(failed, res)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"summary": map[string]int{
			"total":      len(results),
			"successful": len(stations),
			"failed":     len(failed),
		},
		"stations": stations,
		"failed":   failed,
	})
}

// parseRadiusParams validates the radius selector trio. It writes the
// 400 response itself and reports success through ok.
func (s *Server) parseRadiusParams(w http.ResponseWriter, latParam, lonParam, radiusParam string) (lat, lon, radius float64, ok bool) {
	if latParam == "" || lonParam == "" || radiusParam == "" {
		writeError(w, http.StatusBadRequest,
			"radius mode requires all of lat, lon, and radius",
			awsExamples)
		return 0, 0, 0, false
	}

	var err error
	if lat, err = strconv.ParseFloat(latParam, 64); err != nil {
		writeError(w, http.StatusBadRequest, "invalid lat: must be a number", nil)
		return 0, 0, 0, false
	}
	if lon, err = strconv.ParseFloat(lonParam, 64); err != nil {
		writeError(w, http.StatusBadRequest, "invalid lon: must be a number", nil)
		return 0, 0, 0, false
	}
	if radius, err = strconv.ParseFloat(radiusParam, 64); err != nil {
		writeError(w, http.StatusBadRequest, "invalid radius: must be a number", nil)
		return 0, 0, 0, false
	}

	if lat < -90 || lat > 90 {
		writeError(w, http.StatusBadRequest, "invalid lat: must be between -90 and 90", nil)
		return 0, 0, 0, false
	}
	if lon < -180 || lon > 180 {
		writeError(w, http.StatusBadRequest, "invalid lon: must be between -180 and 180", nil)
		return 0, 0, 0, false
	}
	if radius <= 0 {
		writeError(w, http.StatusBadRequest, "invalid radius: must be greater than zero", nil)
		return 0, 0, 0, false
	}
	return lat, lon, radius, true
}

// resultsToCollection merges each successful result's live payload
// with its directory metadata snapshot and builds a FeatureCollection.
func resultsToCollection(results []models.FetchResult) models.AWSFeatureCollection {
	records := make([]geojson.Record, 0, len(results))
	for _, res := range results {
		if !res.Success {
			continue
		}
		rec := make(geojson.Record, len(res.Data)+8)
		for k, v := range res.Data {
			rec[k] = v
		}
		rec["id_station"] = res.StationID
		if res.StationMeta != nil {
			fillMissing(rec, "name_station", res.StationName)
			fillMissing(rec, "nama_kota", res.City)
			fillMissing(rec, "nama_provinsi", res.Province)
			fillMissing(rec, "kode_provinsi", res.ProvinceCode)
			fillMissing(rec, "lat", res.Lat)
			fillMissing(rec, "lng", res.Lng)
			fillMissing(rec, "type", res.Type)
		}
		if res.Distance != nil {
			rec["distance"] = *res.Distance
		}
		records = append(records, rec)
	}
	return geojson.AWSToCollection(records, true)
}

// fillMissing sets a metadata field only when the live payload did not
// already carry it; "N/A" sentinels never overwrite real values.
func fillMissing(rec geojson.Record, key, value string) {
	if value == "" || value == models.MetaUnavailable {
		return
	}
	if _, ok := rec[key]; !ok {
		rec[key] = value
	}
}
