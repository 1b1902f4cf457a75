package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"bmkg-weather-api/geojson"
)

const defaultNowcastCode = "CJH"

// handlePublicIndex lists the public endpoints. It also catches
// unknown /public/* paths.
func (s *Server) handlePublicIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/public/" && r.URL.Path != "/public" {
		writeError(w, http.StatusNotFound, "not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Public weather endpoints",
		"endpoints": map[string]string{
			"nowcasting": "/public/nowcasting - Short-range alert data (signature JSON or feed XML)",
			"location":   "/public/location - Point forecast by ADM4 code or coordinates",
			"weather":    "/public/weather - Nationwide public forecast as GeoJSON",
		},
		"examples": map[string]string{
			"nowcasting":      "/public/nowcasting?code=CJH",
			"nowcastingXML":   "/public/nowcasting?type=xml&province=jawa_tengah",
			"weather":         "/public/weather?province=jawa_tengah",
			"locationByCode":  "/public/location?code=33.01.22.1003",
			"locationByCoord": "/public/location?lat=-7.656747&lon=109.115523",
		},
	})
}

func underscoresToSpaces(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}

// handleNowcasting serves short-range alert data, either the signature
// portal's JSON nowcast or the public alert feed's XML documents.
func (s *Server) handleNowcasting(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	q := r.URL.Query()
	typeParam := q.Get("type")
	if typeParam == "" {
		typeParam = "signature"
	}
	code := q.Get("code")
	if code == "" {
		code = defaultNowcastCode
	}
	province := underscoresToSpaces(q.Get("province"))

	ctx := r.Context()

	switch typeParam {
	case "signature":
		data, err := s.public.Nowcasting(ctx, code)
		if err != nil {
			s.logger.Error("nowcasting fetch failed", "code", code, "error", err)
			writeError(w, http.StatusInternalServerError, err.Error(), nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"source":  "signature.bmkg.go.id",
			"code":    code,
			"data":    data,
		})

	case "xml", "databmkg":
		if province == "" {
			writeError(w, http.StatusBadRequest,
				"province parameter is required for XML/databmkg type",
				map[string]any{"example": "/public/nowcasting?type=xml&province=jawa_tengah"})
			return
		}

		items, err := s.public.NowcastingFeed(ctx, province)
		if err != nil {
			s.logger.Error("nowcast feed fetch failed", "province", province, "error", err)
			writeError(w, http.StatusInternalServerError,
				"failed to fetch or parse the nowcast feed",
				map[string]any{"details": err.Error()})
			return
		}
		if len(items) == 0 || items[0].Link == "" {
			writeError(w, http.StatusNotFound,
				"no nowcasting data found for province: "+province, nil)
			return
		}

		data, err := s.public.NowcastingAlert(ctx, items[0].Link)
		if err != nil {
			s.logger.Error("nowcast alert fetch failed", "link", items[0].Link, "error", err)
			writeError(w, http.StatusInternalServerError,
				"failed to fetch or parse XML data",
				map[string]any{"details": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"source":   "www.bmkg.go.id",
			"province": province,
			"data":     data,
		})

	default:
		writeError(w, http.StatusBadRequest,
			"unsupported type parameter: "+typeParam,
			map[string]any{
				"supported": []string{"signature", "xml", "databmkg"},
				"examples": map[string]string{
					"signature": "/public/nowcasting?type=signature&code=CJH",
					"xml":       "/public/nowcasting?type=xml&province=jawa_tengah",
				},
			})
	}
}

// handleLocation serves a point forecast either by ADM4 area code or
// by coordinates.
func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	q := r.URL.Query()
	code := q.Get("code")
	latParam, lonParam := q.Get("lat"), q.Get("lon")
	ctx := r.Context()

	switch {
	case code != "":
		data, err := s.public.LocationWeatherByCode(ctx, code)
		if err != nil {
			s.logger.Error("location lookup failed", "code", code, "error", err)
			writeError(w, http.StatusInternalServerError, err.Error(), nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"source":  "signature.bmkg.go.id",
			"type":    "by_code",
			"code":    code,
			"data":    data,
		})

	case latParam != "" && lonParam != "":
		lat, errLat := strconv.ParseFloat(latParam, 64)
		lon, errLon := strconv.ParseFloat(lonParam, 64)
		if errLat != nil || errLon != nil {
			writeError(w, http.StatusBadRequest,
				"invalid lat/lon parameters: must be valid numbers", nil)
			return
		}
		data, err := s.public.LocationWeather(ctx, lat, lon)
		if err != nil {
			s.logger.Error("location lookup failed", "lat", lat, "lon", lon, "error", err)
			writeError(w, http.StatusInternalServerError, err.Error(), nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":     true,
			"source":      "signature.bmkg.go.id",
			"type":        "by_coordinates",
			"coordinates": map[string]float64{"lat": lat, "lon": lon},
			"data":        data,
		})

	default:
		writeError(w, http.StatusBadRequest,
			"missing required parameters: provide either code, or both lat and lon",
			map[string]any{
				"examples": map[string]string{
					"byCode":        "/public/location?code=33.01.22.1003",
					"byCoordinates": "/public/location?lat=-7.656747&lon=109.115523",
				},
			})
	}
}

// handlePublicWeather serves the nationwide public forecast as GeoJSON
// (default) or as a wrapped JSON array, optionally filtered by
// administrative area.
func (s *Server) handlePublicWeather(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	q := r.URL.Query()
	province := q.Get("province")
	kabupaten := q.Get("kabupaten")
	kecamatan := q.Get("kecamatan")
	format := q.Get("format")
	if format == "" {
		format = "geojson"
	}

	rows, err := s.public.PwxDarat(r.Context())
	if err != nil {
		s.logger.Error("public weather fetch failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	col := geojson.FilterPublic(geojson.PublicToCollection(rows), geojson.PublicFilter{
		Province:  underscoresToSpaces(province),
		Kabupaten: underscoresToSpaces(kabupaten),
		Kecamatan: underscoresToSpaces(kecamatan),
	})

	filters := map[string]any{
		"province":  orNil(province),
		"kabupaten": orNil(kabupaten),
		"kecamatan": orNil(kecamatan),
	}

	if format == "geojson" {
		col.Metadata = map[string]any{
			"success":   true,
			"count":     len(col.Features),
			"filters":   filters,
			"generated": time.Now().UTC().Format(time.RFC3339),
		}
		w.Header().Set("Content-Type", "application/geo+json")
		writeJSON(w, http.StatusOK, col)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(col.Features),
		"filters": filters,
		"data":    col.Features,
	})
}

func orNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
