package emit

import (
	"errors"
	"io"
	"os"
	"path"
	"testing"

	"github.com/parquet-go/parquet-go"

	"github.com/JamesSCrook/pma/status"
)

func TestParquetRoundTrip(t *testing.T) {
	cat, tbl := testSetup(t)
	filename := path.Join(t.TempDir(), "samples.parquet")
	pq, err := NewParquet(filename, cat, tbl, status.NewStandardLogger(status.LogLevelError, os.Stderr))
	if err != nil {
		t.Fatalf("NewParquet: %v", err)
	}
	pq.Block(1650000000)
	if err := pq.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(filename)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	r := parquet.NewGenericReader[sampleRow](f)
	defer r.Close()

	rows := make([]sampleRow, r.NumRows()+1)
	n, err := r.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		t.Fatalf("Read: %v", err)
	}
	rows = rows[:n]

	// Row 0 carries only the vector column; row 1 all three active ones.
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	want := []sampleRow{
		{Time: 1650000300, Class: "CPU", Metric: "cpu_us", Device: "None", Value: 10},
		{Time: 1650000600, Class: "CPU", Metric: "cpu_us", Device: "None", Value: 30},
		{Time: 1650000600, Class: "IO", Metric: "tps", Device: "sda", Value: 22},
		{Time: 1650000600, Class: "IO", Metric: "tps", Device: "sdb", Value: 21},
	}
	for i, w := range want {
		if rows[i] != w {
			t.Fatalf("row %d: got %+v, want %+v", i, rows[i], w)
		}
	}
}
