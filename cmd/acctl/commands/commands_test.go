package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ac-advisor/internal/storage"
)

const testCatalog = `{
  "models": [
    {"brand": "Ballu", "model": "BSD-09HN1", "btu": 9000, "cooling_power_kw": 2.6,
     "area_min_m2": 20, "area_max_m2": 30, "type": "сплит-система",
     "inverter": false, "wifi": false, "energy_class": "A", "price_range": "budget"},
    {"brand": "Daikin", "model": "FTXF25", "btu": 9000, "cooling_power_kw": 2.5,
     "area_min_m2": 18, "area_max_m2": 28, "type": "сплит-система",
     "inverter": true, "wifi": true, "energy_class": "A++", "price_range": "premium"}
  ]
}`

func writeCatalog(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "ac_models.json")
	if err := os.WriteFile(p, []byte(testCatalog), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCalc(t *testing.T) {
	out, err := run(t, "calc", "--catalog", writeCatalog(t), "--area", "25")
	if err != nil {
		t.Fatalf("calc: %v\n%s", err, out)
	}
	if !strings.Contains(out, "9000 BTU") || !strings.Contains(out, "Ballu") || !strings.Contains(out, "Daikin") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if strings.Index(out, "Ballu") > strings.Index(out, "Daikin") {
		t.Fatalf("budget model must come first:\n%s", out)
	}
}

func TestCalc_OutOfRange(t *testing.T) {
	if _, err := run(t, "calc", "--catalog", writeCatalog(t), "--area", "600"); err == nil {
		t.Fatalf("expected error for 600 m²")
	}
}

func TestCatalogCheck(t *testing.T) {
	out, err := run(t, "catalog", "check", "--catalog", writeCatalog(t))
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "2 models OK") {
		t.Fatalf("unexpected output: %s", out)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	_ = os.WriteFile(bad, []byte(`{"models":[{"brand":""}]}`), 0o644)
	if _, err := run(t, "catalog", "check", "--catalog", bad); err == nil {
		t.Fatalf("invalid catalog accepted")
	}
}

func TestStatsFromLog(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "calculations.jsonl")
	fr, err := storage.NewFileRecorder(logPath)
	if err != nil {
		t.Fatalf("recorder: %v", err)
	}
	day := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	for i, c := range []storage.Calculation{
		{Timestamp: day, UserID: 1, Area: 25, Capacity: 9000, MatchCount: 2},
		{Timestamp: day.Add(time.Hour), UserID: 2, Area: 60, Capacity: 21000},
	} {
		if err := fr.AppendCalculation(context.Background(), c); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	out, err := run(t, "stats", "--log", logPath, "--date", "2024-01-15")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out, "Всего подборов: 2") || !strings.Contains(out, "Без подходящих моделей: 1") {
		t.Fatalf("unexpected summary:\n%s", out)
	}

	if _, err := run(t, "stats", "--log", logPath, "--date", "15/01/2024"); err == nil {
		t.Fatalf("bad date accepted")
	}
}

func TestStats_MissingLogIsNotCreated(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "calculations.jsonl")
	if _, err := run(t, "stats", "--log", logPath); err == nil {
		t.Fatalf("missing log accepted")
	}
	if _, err := os.Stat(logPath); !os.IsNotExist(err) {
		t.Fatalf("stats created the log file: %v", err)
	}
	if _, err := os.Stat(filepath.Dir(logPath)); !os.IsNotExist(err) {
		t.Fatalf("stats created the log dir: %v", err)
	}
}
