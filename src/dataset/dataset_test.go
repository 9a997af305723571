package dataset

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadSeriesDocument(t *testing.T) {
	path := writeFile(t, "series.json", `{
  "domain": [-0.5, 0.5],
  "series": [
    {"key": "gpt", "name": "GPT", "color": "#1f77b4", "points": [
      {"x": "2024-01-01", "y": 0.1, "bets": 3},
      {"x": "2024-01-02", "y": null},
      {"x": "2024-01-03"},
      {"x": 1704326400000, "y": 0.2}
    ]},
    {"points": [{"x": "2024-01-01T12:00:00Z", "y": -0.1}]}
  ]
}`)
	ds, err := LoadSeries(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ds.Domain == nil || ds.Domain.Min != -0.5 || ds.Domain.Max != 0.5 {
		t.Fatalf("domain=%+v", ds.Domain)
	}
	if len(ds.Series) != 2 {
		t.Fatalf("series=%d", len(ds.Series))
	}
	gpt := ds.Series[0]
	if gpt.Key != "gpt" || gpt.Name != "GPT" || gpt.Color != "#1f77b4" || len(gpt.Points) != 4 {
		t.Fatalf("gpt=%+v", gpt)
	}
	if gpt.Points[0].Extra["bets"] != float64(3) {
		t.Fatalf("extra fields lost: %+v", gpt.Points[0].Extra)
	}
	if !math.IsNaN(gpt.Points[1].Y) || !math.IsNaN(gpt.Points[2].Y) || gpt.Points[1].Valid() {
		t.Fatalf("null and missing y should be gaps: %+v", gpt.Points[1:3])
	}
	if want := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC); !gpt.Points[3].X.Equal(want) {
		t.Fatalf("unix ms x=%v want %v", gpt.Points[3].X, want)
	}
	if ds.Series[1].Key != "series-1" {
		t.Fatalf("unnamed series key=%q", ds.Series[1].Key)
	}
}

func TestLoadSeriesDocumentErrors(t *testing.T) {
	cases := []struct {
		name, body string
		want       error
	}{
		{"empty", `{"series": []}`, ErrEmpty},
		{"domain", `{"domain": [1], "series": [{"key": "a", "points": []}]}`, ErrBadDomain},
		{"date", `{"series": [{"key": "a", "points": [{"x": "yesterday", "y": 1}]}]}`, ErrBadPoint},
		{"x type", `{"series": [{"key": "a", "points": [{"x": true, "y": 1}]}]}`, ErrBadPoint},
	}
	for _, c := range cases {
		_, err := LoadSeries(writeFile(t, c.name+".json", c.body))
		if !errors.Is(err, c.want) {
			t.Fatalf("%s: got %v want %v", c.name, err, c.want)
		}
	}
	if _, err := LoadSeries(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file: %v", err)
	}
}

func TestLoadSeriesRecords(t *testing.T) {
	lines := []string{
		`{"key":"b","name":"Beta","x":"2024-01-01","y":0.3}`,
		`{"key":"a","x":"2024-01-01","y":0.1}`,
		``,
		`not json`,
		`{"key":"a","name":"Alpha","color":"#ff0000","x":"2024-01-02","y":0.2}`,
		`{"key":"b","x":"2024-01-02","y":null}`,
		`{"key":"a","x":"someday","y":0.4}`,
		`{"key":"b","x":"2024-01-03","y":0.5}`,
	}
	path := writeFile(t, "points.jsonl", strings.Join(lines, "\n"))
	ds, err := LoadSeries(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(ds.Series) != 2 || ds.Series[0].Key != "b" || ds.Series[1].Key != "a" {
		t.Fatalf("series should follow first appearance: %+v", ds.Series)
	}
	b, a := ds.Series[0], ds.Series[1]
	if len(b.Points) != 3 || b.Name != "Beta" || b.Points[1].Valid() {
		t.Fatalf("b=%+v", b)
	}
	if len(a.Points) != 2 || a.Name != "Alpha" || a.Color != "#ff0000" {
		t.Fatalf("a=%+v", a)
	}
	if ds.Domain != nil {
		t.Fatalf("records never fix a domain")
	}
}

func TestReadRecordsEmpty(t *testing.T) {
	if _, err := ReadRecords(strings.NewReader("\n\n"), "blank"); !errors.Is(err, ErrEmpty) {
		t.Fatalf("got %v want ErrEmpty", err)
	}
}
