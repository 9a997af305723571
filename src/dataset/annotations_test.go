package dataset

import (
	"errors"
	"testing"
)

func TestLoadAnnotationsYAML(t *testing.T) {
	path := writeFile(t, "annotations.yaml", `
2024-01-01: launch
"2024-02-15":
  content: |
    model update
    second line
2024-03-01T12:00:00Z:
  content: rebalance
`)
	got, err := LoadAnnotations(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("annotations=%v", got)
	}
	if got["2024-01-01"].Content != "launch" {
		t.Fatalf("unquoted date key should stay verbatim: %v", got)
	}
	if got["2024-02-15"].Content != "model update\nsecond line\n" {
		t.Fatalf("block content=%q", got["2024-02-15"].Content)
	}
	if got["2024-03-01T12:00:00Z"].Content != "rebalance" {
		t.Fatalf("timestamp key missing: %v", got)
	}
}

func TestLoadAnnotationsJSON(t *testing.T) {
	path := writeFile(t, "annotations.json", `{"2024-01-01": {"content": "a"}, "2024-01-05": "b"}`)
	got, err := LoadAnnotations(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got["2024-01-01"].Content != "a" || got["2024-01-05"].Content != "b" {
		t.Fatalf("got %v", got)
	}
}

func TestParseAnnotationsErrors(t *testing.T) {
	cases := map[string]string{
		"list":      "- 2024-01-01\n- 2024-01-02\n",
		"seq value": "2024-01-01: [a, b]\n",
		"duplicate": "2024-01-01: a\n2024-01-01: b\n",
	}
	for name, body := range cases {
		if _, err := ParseAnnotations([]byte(body)); !errors.Is(err, ErrAnnotationFile) {
			t.Fatalf("%s: got %v", name, err)
		}
	}
	got, err := ParseAnnotations(nil)
	if err != nil || len(got) != 0 {
		t.Fatalf("empty input: %v %v", got, err)
	}
}
