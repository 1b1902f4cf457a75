package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/mmcdole/gofeed"
)

const nowcastRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>BMKG Nowcasting</title>
<item>
  <title>Peringatan Dini Cuaca Jawa Tengah</title>
  <link>https://example.test/alerts/jateng.xml</link>
  <description>Hujan lebat disertai petir</description>
</item>
<item>
  <title>Peringatan Dini Cuaca Bali</title>
  <link>https://example.test/alerts/bali.xml</link>
  <description>Angin kencang</description>
</item>
</channel>
</rss>`

func publicTestClient(signatureURL, feedURL string) *PublicClient {
	return &PublicClient{
		signatureURL: signatureURL,
		feedURL:      feedURL,
		doer:         &http.Client{},
		feedParser:   gofeed.NewParser(),
		logger:       discardLogger(),
	}
}

func TestPwxDarat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("type"); got != "pwxDarat" {
			t.Errorf("type = %q, want pwxDarat", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[["Jawa Tengah","Cilacap","Cilacap Selatan","-7.73","109.02","501216","2026-08-31 10:00",["85","27","3","270","10"],"darat"]]`))
	}))
	defer srv.Close()

	c := publicTestClient(srv.URL, srv.URL)
	rows, err := c.PwxDarat(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || len(rows[0]) != 9 {
		t.Fatalf("rows = %v", rows)
	}
	if rows[0][5] != "501216" {
		t.Errorf("id = %v", rows[0][5])
	}
}

func TestSignatureQueryParams(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.RawQuery)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := publicTestClient(srv.URL, srv.URL)
	ctx := context.Background()
	if _, err := c.LocationWeather(ctx, -7.7, 109.0); err != nil {
		t.Fatalf("LocationWeather: %v", err)
	}
	if _, err := c.LocationWeatherByCode(ctx, "33.01.22.1003"); err != nil {
		t.Fatalf("LocationWeatherByCode: %v", err)
	}
	if _, err := c.ForecastDarat(ctx, "2026083112"); err != nil {
		t.Fatalf("ForecastDarat: %v", err)
	}
	if _, err := c.Manifest(ctx); err != nil {
		t.Fatalf("Manifest: %v", err)
	}
	if _, err := c.Nowcasting(ctx, "CJH"); err != nil {
		t.Fatalf("Nowcasting: %v", err)
	}

	wantContains := []string{
		"type=lokasiCuaca",
		"code=33.01.22.1003",
		"code=2026083112.json",
		"code=jalurDarat",
		"code=CJH",
	}
	if len(queries) != len(wantContains) {
		t.Fatalf("got %d requests, want %d", len(queries), len(wantContains))
	}
	for i, want := range wantContains {
		if !strings.Contains(queries[i], want) {
			t.Errorf("request %d query %q missing %q", i, queries[i], want)
		}
	}
	if !strings.Contains(queries[0], "lat=-7.7") || !strings.Contains(queries[0], "lon=109") {
		t.Errorf("coordinate query: %q", queries[0])
	}
}

func TestSignatureQueryPreservesExistingQuery(t *testing.T) {
	c := publicTestClient("http://example.test/api.php?key=abc", "")
	got := c.signatureQuery(url.Values{"type": {"pwxDarat"}})
	if got != "http://example.test/api.php?key=abc&type=pwxDarat" {
		t.Errorf("got %q", got)
	}
}

func TestGetNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := publicTestClient(srv.URL, srv.URL)
	_, err := c.PwxDarat(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "status 503") || !strings.Contains(err.Error(), "upstream maintenance") {
		t.Errorf("error = %v", err)
	}
}

func TestNowcastingFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(nowcastRSS))
	}))
	defer srv.Close()

	c := publicTestClient(srv.URL, srv.URL)

	all, err := c.NowcastingFeed(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d items, want 2", len(all))
	}

	filtered, err := c.NowcastingFeed(context.Background(), "jawa tengah")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(filtered) != 1 {
		t.Fatalf("got %d items, want 1", len(filtered))
	}
	if !strings.Contains(filtered[0].Title, "Jawa Tengah") {
		t.Errorf("title = %q", filtered[0].Title)
	}

	none, err := c.NowcastingFeed(context.Background(), "papua")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("got %d items, want 0", len(none))
	}
}

func TestNowcastingAlert(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(`<alert><info><event>Hujan Lebat</event><severity>Severe</severity></info></alert>`))
	}))
	defer srv.Close()

	c := publicTestClient(srv.URL, srv.URL)
	doc, err := c.NowcastingAlert(context.Background(), srv.URL+"/alert.xml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	alert, ok := doc["alert"].(map[string]any)
	if !ok {
		t.Fatalf("doc = %v", doc)
	}
	info, ok := alert["info"].(map[string]any)
	if !ok {
		t.Fatalf("alert = %v", alert)
	}
	if info["event"] != "Hujan Lebat" {
		t.Errorf("event = %v", info["event"])
	}
}
