package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	savedNoColor := color.NoColor
	color.NoColor = true
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		color.NoColor = savedNoColor
		SetLogLevel("info")
	})
	return &buf
}

func TestInfofKeepsLiteralPercent(t *testing.T) {
	buf := captureLogs(t)
	SetLogLevel("info")

	msg := "ticks=[0 0.05 0.1] step=0.05 (100.0% of plot) hover=0.00%"
	New("composer").Infof(msg)

	out := buf.String()
	if !strings.Contains(out, "(100.0% of plot)") {
		t.Fatalf("log output missing expected percent segment: %s", out)
	}
	if strings.Contains(out, "%!o(MISSING)") || strings.Contains(out, "%!f(MISSING)") {
		t.Fatalf("log output still shows fmt artifact: %s", out)
	}
}

func TestComponentTag(t *testing.T) {
	buf := captureLogs(t)
	New("dataset").Warnf("%s:%d skipped", "points.jsonl", 7)
	if out := buf.String(); !strings.Contains(out, "[WARN] [dataset] points.jsonl:7 skipped") {
		t.Fatalf("unexpected line: %q", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := captureLogs(t)
	if !SetLogLevel("warn") {
		t.Fatalf("warn should be a known level")
	}
	lg := New("viewer")
	lg.Debugf("dropped %d", 1)
	lg.Infof("dropped %d", 2)
	lg.Warnf("kept %d", 3)
	lg.Errorf("kept %d", 4)
	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("messages below warn leaked: %s", out)
	}
	if strings.Count(out, "kept") != 2 {
		t.Fatalf("expected 2 kept lines got: %s", out)
	}
}

func TestSetLogLevelUnknownKeepsCurrent(t *testing.T) {
	captureLogs(t)
	SetLogLevel("error")
	if SetLogLevel("verbose") {
		t.Fatalf("unknown level accepted")
	}
	if GetLogLevel() != LevelError {
		t.Fatalf("level changed by unknown name: %v", GetLogLevel())
	}
	if !Enabled(LevelError) || Enabled(LevelWarn) {
		t.Fatalf("Enabled disagrees with level error")
	}
}

func TestTimeTrackAtDebug(t *testing.T) {
	buf := captureLogs(t)
	SetLogLevel("debug")
	New("composer").TimeTrack(time.Now(), "scale")
	if out := buf.String(); !strings.Contains(out, "[DEBUG] [composer] scale took ") {
		t.Fatalf("unexpected line: %q", out)
	}
}
