// Package api exposes the scraped weather data over a small JSON API.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"bmkg-weather-api/datasource"
	"bmkg-weather-api/directory"
)

// Upstream station batches are fetched strictly sequentially and can
// take minutes; keep inbound connections open well past the defaults.
const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 240 * time.Second
	writeTimeout      = 240 * time.Second
)

// Server is the API server. It holds only read-only collaborators;
// the session-authenticated portal client is constructed per request
// so two concurrent requests can never interleave cookies.
type Server struct {
	cfg    datasource.Config
	dir    *directory.Directory
	public *datasource.PublicClient
	logger *slog.Logger
	server *http.Server
}

// NewServer creates the API server and registers all routes.
func NewServer(cfg datasource.Config, dir *directory.Directory, public *datasource.PublicClient, logger *slog.Logger, port int) *Server {
	mux := http.NewServeMux()

	s := &Server{
		cfg:    cfg,
		dir:    dir,
		public: public,
		logger: logger,
	}

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/aws", s.handleAWS)
	mux.HandleFunc("/public/", s.handlePublicIndex)
	mux.HandleFunc("/public/nowcasting", s.handleNowcasting)
	mux.HandleFunc("/public/location", s.handleLocation)
	mux.HandleFunc("/public/weather", s.handlePublicWeather)
	mux.HandleFunc("/openapi.yaml", s.handleOpenAPI)
	mux.HandleFunc("/docs", s.handleDocs)
	mux.HandleFunc("/api/health", s.handleHealthCheck)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           requestLogger(logger, mux),
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
		WriteTimeout:      writeTimeout,
	}
	return s
}

// Handler returns the server's root handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins serving and blocks until the listener closes.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// writeJSON writes any payload with the given status. A handler that
// already set a Content-Type (e.g. application/geo+json) keeps it.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError writes the uniform error envelope. Extra fields (example
// usages, supported values) are merged into the body.
func writeError(w http.ResponseWriter, status int, message string, extra map[string]any) {
	body := map[string]any{
		"success": false,
		"error":   message,
	}
	for k, v := range extra {
		body[k] = v
	}
	writeJSON(w, status, body)
}

// statusRecorder captures the response status for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sr, r)

		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sr.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// handleHealthCheck provides a simple health check endpoint.
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleIndex describes the service and its endpoints.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found", nil)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "BMKG Weather API",
		"version": "1.0.0",
		"documentation": map[string]string{
			"docs":    "/docs",
			"openapi": "/openapi.yaml",
		},
		"endpoints": map[string]string{
			"aws":    "/aws - Automatic Weather Station data (AWS, AAWS, ARG, ASRS, Soil, Iklimmikro)",
			"public": "/public - Public weather data (nowcasting, forecast, location lookup)",
		},
		"examples": map[string]any{
			"aws": map[string]string{
				"byProvince":         "/aws?province=PR013",
				"byProvinceMultiple": "/aws?province=PR013,PR015",
				"byProvinceAwsOnly":  "/aws?province=PR013&type=aws",
				"byProvinceGeoJSON":  "/aws?province=PR013&format=geojson",
				"byRadius":           "/aws?lat=-7.5&lon=110.5&radius=50",
				"byCity":             "/aws?city=cilacap",
				"byCityExclude":      "/aws?city=banjar&exclude=banjarnegara",
				"byStations":         "/aws?stations=STA1101,STA1102",
			},
			"public": map[string]string{
				"nowcasting":      "/public/nowcasting?code=CJH",
				"nowcastingXML":   "/public/nowcasting?type=xml&province=jawa_tengah",
				"weather":         "/public/weather",
				"weatherFiltered": "/public/weather?province=jawa_tengah&kabupaten=banyumas",
				"locationByCode":  "/public/location?code=33.01.22.1003",
				"locationByCoord": "/public/location?lat=-7.656747&lon=109.115523",
			},
		},
		"stationTypes": map[string]string{
			"aws":        "Automatic Weather Station - full weather data",
			"aaws":       "Advanced AWS - AWS with additional sensors",
			"arg":        "Automatic Rain Gauge - rainfall only",
			"asrs":       "Automatic Solar Radiation Station - solar radiation data",
			"soil":       "Soil Moisture Station - soil moisture & temperature",
			"iklimmikro": "Micro Climate Station - multi-level (4m, 7m, 10m) measurements",
		},
	})
}
