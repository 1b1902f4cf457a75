// awsfetch authenticates against the AWS Center portal, fetches a
// station selection, and prints the result as GeoJSON. Useful for
// checking credentials and exploring the directory without running
// the API server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"bmkg-weather-api/datasource"
	"bmkg-weather-api/directory"
	"bmkg-weather-api/geojson"
	"bmkg-weather-api/models"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	stationFile := flag.String("stations", "", "Path to the station directory file (overrides STATION_FILE)")
	province := flag.String("province", "", "Comma-separated province codes")
	city := flag.String("city", "", "Comma-separated city names")
	ids := flag.String("ids", "", "Comma-separated station ids")
	stationType := flag.String("type", "", "Comma-separated station types")
	pretty := flag.Bool("pretty", true, "Indent the GeoJSON output")
	flag.Parse()

	cfg, err := datasource.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *stationFile != "" {
		cfg.StationFile = *stationFile
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	dir, err := directory.Load(cfg.StationFile)
	if err != nil {
		log.Fatalf("Failed to load station directory: %v", err)
	}

	ctx := context.Background()
	client := datasource.NewAWSCenterClient(cfg, logger)
	ok, err := client.Authenticate(ctx, cfg.Captcha)
	if err != nil {
		log.Fatalf("Authentication error: %v", err)
	}
	if !ok {
		log.Fatal("Authentication rejected by the portal")
	}
	fetcher := datasource.NewStationFetcher(client, dir, logger)

	filter := models.TypeIn(splitList(*stationType)...)

	var results []models.FetchResult
	switch {
	case *province != "":
		results = fetcher.FetchByProvince(ctx, splitList(*province), filter, nil, nil)
	case *city != "":
		results = fetcher.FetchByCity(ctx, splitList(*city), filter, directory.MatchPartial, nil)
	case *ids != "":
		var refs []datasource.StationRef
		for _, id := range splitList(*ids) {
			refs = append(refs, datasource.StationRef{ID: id})
		}
		results = fetcher.FetchMultiple(ctx, refs, true)
	default:
		log.Fatal("Provide one of -province, -city, or -ids")
	}

	records := make([]geojson.Record, 0, len(results))
	for _, res := range results {
		if !res.Success {
			fmt.Fprintf(os.Stderr, "station %s failed: %s\n", res.StationID, res.Error)
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
		records = append(records, rec)
	}

	col := geojson.AWSToCollection(records, true)

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(col); err != nil {
		log.Fatalf("Failed to encode GeoJSON: %v", err)
	}
}

// fillMissing sets a directory metadata field only when the live
// payload did not already carry it.
func fillMissing(rec geojson.Record, key, value string) {
	if value == "" || value == models.MetaUnavailable {
		return
	}
	if _, ok := rec[key]; !ok {
		rec[key] = value
	}
}

func splitList(param string) []string {
	if param == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(param, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
