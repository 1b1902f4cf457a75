package directory

import (
	"math"
	"testing"

	"bmkg-weather-api/models"
)

func testStations() []models.Station {
	return []models.Station{
		{ID: "STA1101", Name: "AWS Cilacap Kota", City: "Cilacap", Province: "Jawa Tengah", ProvinceCode: "PR013", Lat: "-7.7256", Lng: "109.0153", Type: models.TypeAWS},
		{ID: "STA1102", Name: "ARG Cilacap Selatan", City: "Cilacap", Province: "Jawa Tengah", ProvinceCode: "PR013", Lat: "-7.7330", Lng: "109.0210", Type: models.TypeARG},
		{ID: "STA1103", Name: "AWS Banyumas", City: "Banyumas", Province: "Jawa Tengah", ProvinceCode: "PR013", Lat: "-7.4244", Lng: "109.2396", Type: models.TypeAWS},
		{ID: "STA1104", Name: "AAWS Banjarnegara", City: "Banjarnegara", Province: "Jawa Tengah", ProvinceCode: "PR013", Lat: "-7.3966", Lng: "109.6942", Type: models.TypeAAWS},
		{ID: "STA1201", Name: "AWS Sleman", City: "Sleman", Province: "DI Yogyakarta", ProvinceCode: "PR014", Lat: "-7.6662", Lng: "110.4195", Type: models.TypeAWS},
		{ID: "STA1202", Name: "ARG Wonosari", City: "Gunungkidul", Province: "DI Yogyakarta", ProvinceCode: "PR014", Lat: "-7.9653", Lng: "110.6043", Type: models.TypeARG},
		{ID: "STA9901", Name: "Broken Coords", City: "Cilacap Utara", Province: "Jawa Tengah", ProvinceCode: "PR013", Lat: "not-a-number", Lng: "109.0", Type: models.TypeAWS},
	}
}

func ids(stations []models.Station) []string {
	out := make([]string, len(stations))
	for i, s := range stations {
		out[i] = s.ID
	}
	return out
}

func TestGet(t *testing.T) {
	d := New(testStations())

	s, ok := d.Get("STA1103")
	if !ok {
		t.Fatal("expected STA1103 to be present")
	}
	if s.City != "Banyumas" {
		t.Errorf("got city %q, want Banyumas", s.City)
	}

	if _, ok := d.Get("STA0000"); ok {
		t.Error("expected miss for unknown id")
	}
}

func TestByProvince(t *testing.T) {
	d := New(testStations())

	tests := []struct {
		name    string
		codes   []string
		filter  models.TypeFilter
		include []string
		exclude []string
		want    []string
	}{
		{
			name:  "all of one province",
			codes: []string{"PR013"},
			want:  []string{"STA1101", "STA1102", "STA1103", "STA1104", "STA9901"},
		},
		{
			name:   "type narrowed",
			codes:  []string{"PR013"},
			filter: models.TypeIs(models.TypeARG),
			want:   []string{"STA1102"},
		},
		{
			name:    "include city substring",
			codes:   []string{"PR013"},
			include: []string{"cilacap"},
			want:    []string{"STA1101", "STA1102", "STA9901"},
		},
		{
			name:    "exclude wins over include",
			codes:   []string{"PR013"},
			include: []string{"cilacap"},
			exclude: []string{"cilacap"},
			want:    nil,
		},
		{
			name:    "exclude with underscores",
			codes:   []string{"PR013"},
			exclude: []string{"cilacap_utara"},
			want:    []string{"STA1101", "STA1102", "STA1103", "STA1104"},
		},
		{
			name:  "multiple provinces",
			codes: []string{"PR013", "PR014"},
			filter: models.TypeIn(
				models.TypeARG, models.TypeAAWS,
			),
			want: []string{"STA1102", "STA1104", "STA1202"},
		},
		{
			name:  "unknown code",
			codes: []string{"PR099"},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(d.ByProvince(tt.codes, tt.filter, tt.include, tt.exclude))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestByCity(t *testing.T) {
	d := New(testStations())

	tests := []struct {
		name    string
		names   []string
		match   CityMatch
		exclude []string
		want    []string
	}{
		{
			name:  "partial matches prefix and exact",
			names: []string{"cilacap"},
			match: MatchPartial,
			want:  []string{"STA1101", "STA1102", "STA9901"},
		},
		{
			name:  "exact excludes longer names",
			names: []string{"cilacap"},
			match: MatchExact,
			want:  []string{"STA1101", "STA1102"},
		},
		{
			name:  "startsWith",
			names: []string{"banj"},
			match: MatchStartsWith,
			want:  []string{"STA1104"},
		},
		{
			name:  "underscore treated as space",
			names: []string{"cilacap_utara"},
			match: MatchExact,
			want:  []string{"STA9901"},
		},
		{
			name:    "exclude short-circuits",
			names:   []string{"cilacap"},
			match:   MatchPartial,
			exclude: []string{"utara"},
			want:    []string{"STA1101", "STA1102"},
		},
		{
			name:  "case insensitive",
			names: []string{"SLEMAN"},
			match: MatchExact,
			want:  []string{"STA1201"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(d.ByCity(tt.names, models.AllTypes(), tt.match, tt.exclude))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestByRadius(t *testing.T) {
	d := New(testStations())

	// Query point sits on STA1101; STA1102 is about a kilometer away,
	// STA1103 roughly 41 km out. Everything else is further than 60 km.
	got := d.ByRadius(-7.7256, 109.0153, 60, models.AllTypes())
	if len(got) != 3 {
		t.Fatalf("got %d stations, want 3: %v", len(got), got)
	}
	wantOrder := []string{"STA1101", "STA1102", "STA1103"}
	for i, w := range wantOrder {
		if got[i].ID != w {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID, w)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i].Distance < got[i-1].Distance {
			t.Errorf("distances not ascending at %d: %f < %f", i, got[i].Distance, got[i-1].Distance)
		}
	}
	if got[0].Distance > 0.001 {
		t.Errorf("origin station distance = %f, want ~0", got[0].Distance)
	}
}

func TestByRadiusSkipsUnparsableCoords(t *testing.T) {
	d := New(testStations())

	// STA9901 carries a bogus latitude and must never appear, no
	// matter how large the radius.
	got := d.ByRadius(-7.7, 109.0, 10000, models.AllTypes())
	for _, s := range got {
		if s.ID == "STA9901" {
			t.Fatal("station with unparsable coordinates leaked into results")
		}
	}
	if len(got) != 6 {
		t.Errorf("got %d stations, want 6", len(got))
	}
}

func TestByRadiusTypeFilter(t *testing.T) {
	d := New(testStations())

	got := d.ByRadius(-7.7, 109.5, 10000, models.TypeIs(models.TypeARG))
	if len(got) != 2 {
		t.Fatalf("got %d stations, want 2", len(got))
	}
	for _, s := range got {
		if s.Type != models.TypeARG {
			t.Errorf("station %s has type %s, want arg", s.ID, s.Type)
		}
	}
}

func TestHaversine(t *testing.T) {
	// Jakarta to Surabaya, roughly 663 km.
	d := Haversine(-6.2088, 106.8456, -7.2575, 112.7521)
	if math.Abs(d-663) > 15 {
		t.Errorf("Jakarta-Surabaya distance = %f, want ~663", d)
	}

	if d := Haversine(-7.5, 110.0, -7.5, 110.0); d != 0 {
		t.Errorf("zero distance = %f, want 0", d)
	}
}

func TestTypeFilter(t *testing.T) {
	if !models.AllTypes().Matches(models.TypeSoil) {
		t.Error("AllTypes must match every type")
	}
	f := models.TypeIn("AWS", " arg ")
	if !f.Matches("aws") || !f.Matches("arg") {
		t.Error("TypeIn must normalize case and whitespace")
	}
	if f.Matches(models.TypeSoil) {
		t.Error("TypeIn must reject types outside the set")
	}
	if !models.TypeIn().Matches("anything") {
		t.Error("empty TypeIn must match everything")
	}
}
