package params

import (
	"bytes"
	"os"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/JamesSCrook/pma/catalog"
	"github.com/JamesSCrook/pma/status"
)

func TestDefaults(t *testing.T) {
	tbl := New()
	if v := tbl.FloatValue(FullScale); v != 100.0 {
		t.Fatalf("fullscale default: %g", v)
	}
	if c := tbl.CharValue(SingleFileDelimiter); c != ',' {
		t.Fatalf("singlefiledelimiter default: %c", c)
	}
	if s := tbl.StringValue(MetricDeviceSeparator); s != "_" {
		t.Fatalf("metricdeviceseparator default: %s", s)
	}
	levels := tbl.ClockticksLevels()
	expect := []int64{86400, 43200, 21600, 3600, 1800, 900, 300, 0}
	for i, e := range expect {
		if levels[i] != e {
			t.Fatalf("clockticks level %d: expected %d, got %d", i, e, levels[i])
		}
	}
}

func TestSet(t *testing.T) {
	tbl := New()
	if !tbl.Set(FullScale, "250.5") {
		t.Fatal("fullscale not settable")
	}
	if v := tbl.FloatValue(FullScale); v != 250.5 {
		t.Fatalf("fullscale: %g", v)
	}
	if !tbl.Set(SingleFileDelimiter, "|") {
		t.Fatal("singlefiledelimiter not settable")
	}
	if c := tbl.CharValue(SingleFileDelimiter); c != '|' {
		t.Fatalf("singlefiledelimiter: %c", c)
	}
	if !tbl.Set("clockticks_level_0", "7200") {
		t.Fatal("clockticks_level_0 not settable")
	}
	if tbl.ClockticksLevels()[0] != 7200 {
		t.Fatal("clockticks_level_0 not applied")
	}
	if tbl.Set("no_such_parameter", "1") {
		t.Fatal("Unknown parameter accepted")
	}
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2022, 4, 15, 6, 30, 5, 0, time.UTC)
	if s := FormatTime(ts, "%s"); s != "1650004205" {
		t.Fatalf("%%s: %s", s)
	}
	if s := FormatTime(ts, "%x %X"); s != "04/15/22 06:30:05" {
		t.Fatalf("%%x %%X: %s", s)
	}
	if s := FormatTime(ts, "%F %T"); s != "2022-04-15 06:30:05" {
		t.Fatalf("%%F %%T: %s", s)
	}
	if s := FormatTime(ts, "day %j, 100%%"); s != "day 105, 100%" {
		t.Fatalf("%%j: %s", s)
	}
	if s := FormatTime(ts, "Time"); s != "Time" {
		t.Fatalf("literal text mangled: %s", s)
	}
}

func testCatalog() *catalog.Catalog {
	cat := catalog.New()
	cat.Count = 2
	cpu := cat.AddClass("CPU", catalog.VectorClass, 0, []string{"cpu_us"})
	cpu.Metrics[0].AddDevice(catalog.NoDeviceName, cat.Count)
	io := cat.AddClass("IO", catalog.ArrayClass, 0, []string{"tps"})
	io.Metrics[0].AddDevice("sda", cat.Count)
	io.Metrics[0].AddDevice("sdb", cat.Count)
	return cat
}

func TestReadConfigFile(t *testing.T) {
	cat := testCatalog()
	tbl := New()
	var diags bytes.Buffer
	log := status.NewStandardLogger(status.LogLevelWarning, &diags)

	cfg := path.Join(t.TempDir(), "pma.conf")
	text := `# pma configuration
cpu_us 100
tps_sda 500
fullscale 1000
bogus_key 1
`
	if err := os.WriteFile(cfg, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ReadConfigFile(cfg, tbl, cat, log); err != nil {
		t.Fatal(err)
	}

	if v := cat.Classes[0].Metrics[0].Devices[0].Scale; v != 100 {
		t.Fatalf("cpu_us scale: %g", v)
	}
	devs := cat.Classes[1].Metrics[0].Devices
	if devs[0].Scale != 500 || devs[1].Scale != 0 {
		t.Fatalf("tps scales: %g %g", devs[0].Scale, devs[1].Scale)
	}
	if v := tbl.FloatValue(FullScale); v != 1000 {
		t.Fatalf("fullscale: %g", v)
	}
	if !strings.Contains(diags.String(), "bogus_key") {
		t.Fatalf("Unknown key not reported: %s", diags.String())
	}
}

func TestReadConfigFileMetricWideScale(t *testing.T) {
	cat := testCatalog()
	tbl := New()
	log := status.NewStandardLogger(status.LogLevelError, nil)

	cfg := path.Join(t.TempDir(), "pma.conf")
	if err := os.WriteFile(cfg, []byte("tps 250\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ReadConfigFile(cfg, tbl, cat, log); err != nil {
		t.Fatal(err)
	}
	for _, d := range cat.Classes[1].Metrics[0].Devices {
		if d.Scale != 250 {
			t.Fatalf("Device %s scale: %g", d.Name, d.Scale)
		}
	}
}

func TestReadConfigFileMissing(t *testing.T) {
	if err := ReadConfigFile("/no/such/file", New(), testCatalog(),
		status.NewStandardLogger(status.LogLevelError, nil)); err == nil {
		t.Fatal("Expected error for missing config file")
	}
}

func TestDump(t *testing.T) {
	tbl := New()
	tbl.Set(FullScale, "42")
	var out bytes.Buffer
	tbl.Dump(&out)
	s := out.String()
	if !strings.Contains(s, "fullscale") || !strings.Contains(s, "'42.0'") ||
		!strings.Contains(s, "'100.0'") {
		t.Fatalf("Dump missing content:\n%s", s)
	}
	if !strings.Contains(s, "clockticks_level_7") {
		t.Fatalf("Dump missing parameters:\n%s", s)
	}
}
