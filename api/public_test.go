package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bmkg-weather-api/datasource"
	"bmkg-weather-api/directory"
	"bmkg-weather-api/models"
)

func newPublicTestServer(signatureURL, feedURL string) *Server {
	cfg := datasource.Config{
		Username:         "operator",
		Password:         "secret",
		Captcha:          "3",
		SignatureBaseURL: signatureURL,
		NowcastFeedURL:   feedURL,
	}
	public := datasource.NewPublicClient(cfg, testLogger())
	return NewServer(cfg, directory.New([]models.Station{}), public, testLogger(), 0)
}

const pwxDaratBody = `[
["Jawa Tengah","Cilacap","Cilacap Selatan","-7.73","109.02","501216","2026-08-31 10:00",["85","27","3","270","10"],"darat"],
["Jawa Tengah","Banyumas","Purwokerto Timur","-7.42","109.25","501220","2026-08-31 10:00",["80","29","1","180","8"],"darat"],
["DI Yogyakarta","Sleman","Pakem","-7.66","110.42","501301","2026-08-31 10:00",["78","30","0","90","6"],"darat"]
]`

func fakeSignature(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("type") {
		case "pwxDarat":
			w.Write([]byte(pwxDaratBody))
		case "lokasiCuaca":
			fmt.Fprintf(w, `{"lokasi":"ok","code":%q}`, r.URL.Query().Get("code"))
		case "nowcasting":
			fmt.Fprintf(w, `{"station":%q,"alerts":[]}`, r.URL.Query().Get("code"))
		default:
			w.Write([]byte(`{}`))
		}
	}))
}

func TestHandlePublicIndex(t *testing.T) {
	sig := fakeSignature(t)
	defer sig.Close()
	s := newPublicTestServer(sig.URL, sig.URL)

	rec := doRequest(t, s, http.MethodGet, "/public/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != true || body["endpoints"] == nil {
		t.Errorf("body = %v", body)
	}

	rec = doRequest(t, s, http.MethodGet, "/public/unknown")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown path status = %d, want 404", rec.Code)
	}
}

func TestHandleLocationMissingParams(t *testing.T) {
	sig := fakeSignature(t)
	defer sig.Close()
	s := newPublicTestServer(sig.URL, sig.URL)

	rec := doRequest(t, s, http.MethodGet, "/public/location")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false || body["examples"] == nil {
		t.Errorf("body = %v", body)
	}

	// lat alone is not enough
	rec = doRequest(t, s, http.MethodGet, "/public/location?lat=-7.6")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("lat-only status = %d, want 400", rec.Code)
	}
}

func TestHandleLocationInvalidCoordinates(t *testing.T) {
	sig := fakeSignature(t)
	defer sig.Close()
	s := newPublicTestServer(sig.URL, sig.URL)

	rec := doRequest(t, s, http.MethodGet, "/public/location?lat=abc&lon=109.1")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	msg, _ := decodeBody(t, rec)["error"].(string)
	if !strings.Contains(msg, "lat/lon") {
		t.Errorf("error = %q", msg)
	}
}

func TestHandleLocationByCode(t *testing.T) {
	sig := fakeSignature(t)
	defer sig.Close()
	s := newPublicTestServer(sig.URL, sig.URL)

	rec := doRequest(t, s, http.MethodGet, "/public/location?code=33.01.22.1003")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["success"] != true || body["type"] != "by_code" || body["code"] != "33.01.22.1003" {
		t.Errorf("body = %v", body)
	}
	if body["data"] == nil {
		t.Error("data missing")
	}
}

func TestHandleLocationByCoordinates(t *testing.T) {
	sig := fakeSignature(t)
	defer sig.Close()
	s := newPublicTestServer(sig.URL, sig.URL)

	rec := doRequest(t, s, http.MethodGet, "/public/location?lat=-7.656747&lon=109.115523")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["type"] != "by_coordinates" {
		t.Errorf("type = %v", body["type"])
	}
	coords, _ := body["coordinates"].(map[string]any)
	if coords["lat"] != -7.656747 {
		t.Errorf("coordinates = %v", coords)
	}
}

func TestHandleNowcastingSignatureDefault(t *testing.T) {
	sig := fakeSignature(t)
	defer sig.Close()
	s := newPublicTestServer(sig.URL, sig.URL)

	rec := doRequest(t, s, http.MethodGet, "/public/nowcasting")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["code"] != "CJH" || body["source"] != "signature.bmkg.go.id" {
		t.Errorf("body = %v", body)
	}
}

func TestHandleNowcastingUnsupportedType(t *testing.T) {
	sig := fakeSignature(t)
	defer sig.Close()
	s := newPublicTestServer(sig.URL, sig.URL)

	rec := doRequest(t, s, http.MethodGet, "/public/nowcasting?type=csv")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["supported"] == nil {
		t.Error("error should list supported types")
	}
}

func TestHandleNowcastingXMLRequiresProvince(t *testing.T) {
	sig := fakeSignature(t)
	defer sig.Close()
	s := newPublicTestServer(sig.URL, sig.URL)

	rec := doRequest(t, s, http.MethodGet, "/public/nowcasting?type=xml")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	msg, _ := decodeBody(t, rec)["error"].(string)
	if !strings.Contains(msg, "province") {
		t.Errorf("error = %q", msg)
	}
}

func TestHandleNowcastingXMLNotFound(t *testing.T) {
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(`<?xml version="1.0"?><rss version="2.0"><channel><title>x</title></channel></rss>`))
	}))
	defer feed.Close()
	s := newPublicTestServer(feed.URL, feed.URL)

	rec := doRequest(t, s, http.MethodGet, "/public/nowcasting?type=xml&province=papua")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", rec.Code, rec.Body.String())
	}
	msg, _ := decodeBody(t, rec)["error"].(string)
	if !strings.Contains(msg, "papua") {
		t.Errorf("error = %q", msg)
	}
}

func TestHandleNowcastingXMLFlow(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/feed", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprintf(w, `<?xml version="1.0"?><rss version="2.0"><channel><title>Nowcasting</title>
<item><title>Peringatan Dini Cuaca Jawa Tengah</title><link>%s/alert.xml</link></item>
</channel></rss>`, srv.URL)
	})
	mux.HandleFunc("/alert.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(`<alert><info><event>Hujan Lebat</event></info></alert>`))
	})

	s := newPublicTestServer(srv.URL, srv.URL+"/feed")
	rec := doRequest(t, s, http.MethodGet, "/public/nowcasting?type=xml&province=jawa_tengah")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["province"] != "jawa tengah" || body["source"] != "www.bmkg.go.id" {
		t.Errorf("body = %v", body)
	}
	data, _ := body["data"].(map[string]any)
	if data["alert"] == nil {
		t.Errorf("data = %v", data)
	}
}

func TestHandlePublicWeatherGeoJSON(t *testing.T) {
	sig := fakeSignature(t)
	defer sig.Close()
	s := newPublicTestServer(sig.URL, sig.URL)

	rec := doRequest(t, s, http.MethodGet, "/public/weather")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/geo+json" {
		t.Errorf("content type = %q", ct)
	}
	body := decodeBody(t, rec)
	if body["type"] != "FeatureCollection" {
		t.Errorf("type = %v", body["type"])
	}
	features, _ := body["features"].([]any)
	if len(features) != 3 {
		t.Fatalf("got %d features, want 3", len(features))
	}
	meta, _ := body["metadata"].(map[string]any)
	if meta["count"] != float64(3) || meta["success"] != true {
		t.Errorf("metadata = %v", meta)
	}
}

func TestHandlePublicWeatherFiltered(t *testing.T) {
	sig := fakeSignature(t)
	defer sig.Close()
	s := newPublicTestServer(sig.URL, sig.URL)

	rec := doRequest(t, s, http.MethodGet, "/public/weather?province=jawa_tengah&kabupaten=banyumas&format=json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	body := decodeBody(t, rec)
	if body["count"] != float64(1) {
		t.Errorf("count = %v", body["count"])
	}
	filters, _ := body["filters"].(map[string]any)
	if filters["province"] != "jawa_tengah" || filters["kecamatan"] != nil {
		t.Errorf("filters = %v", filters)
	}
	data, _ := body["data"].([]any)
	if len(data) != 1 {
		t.Fatalf("data = %v", data)
	}
	f0, _ := data[0].(map[string]any)
	props, _ := f0["properties"].(map[string]any)
	if props["kabupaten"] != "Banyumas" {
		t.Errorf("properties = %v", props)
	}
}

func TestHandlePublicWeatherUpstreamError(t *testing.T) {
	sig := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer sig.Close()
	s := newPublicTestServer(sig.URL, sig.URL)

	rec := doRequest(t, s, http.MethodGet, "/public/weather")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if decodeBody(t, rec)["success"] != false {
		t.Error("success must be false")
	}
}
