package emit

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/JamesSCrook/pma/catalog"
	"github.com/JamesSCrook/pma/params"
	"github.com/JamesSCrook/pma/status"
)

// sampleRow is the parquet record layout: one long-format row per included
// time row per active column.  The label columns are highly repetitive, so
// they get their own compression.
type sampleRow struct {
	Time   int64   `parquet:"time"`
	Class  string  `parquet:"class,zstd"`
	Metric string  `parquet:"metric,zstd"`
	Device string  `parquet:"device,zstd"`
	Value  float64 `parquet:"value"`
}

// Parquet writes normalized samples in long format to a single parquet
// file, one Write call per block.
type Parquet struct {
	f    *os.File
	w    *parquet.GenericWriter[sampleRow]
	cat  *catalog.Catalog
	tbl  *params.Table
	cols []catalog.Column
	log  status.Logger
	rows []sampleRow
}

// NewParquet creates (truncating) the parquet output file.  Failure to
// open is fatal to the run.
func NewParquet(filename string, cat *catalog.Catalog, tbl *params.Table, log status.Logger) (*Parquet, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("Could not create parquet file '%s': %w", filename, err)
	}
	cols := activeColumns(cat, tbl)
	return &Parquet{
		f:    f,
		w:    parquet.NewGenericWriter[sampleRow](f, parquet.Compression(&parquet.Zstd)),
		cat:  cat,
		tbl:  tbl,
		cols: cols,
		log:  log,
		rows: make([]sampleRow, 0, cat.Count*len(cols)),
	}, nil
}

func (pq *Parquet) Block(timestamp int64) {
	pq.rows = pq.rows[:0]
	for rowIdx := 0; rowIdx < pq.cat.Count; rowIdx++ {
		ts := rowTime(pq.cat, pq.tbl, timestamp, rowIdx).Unix()
		for _, col := range pq.cols {
			if rowIdx < col.Class.StartRow {
				continue
			}
			pq.rows = append(pq.rows, sampleRow{
				Time:   ts,
				Class:  col.Class.Name,
				Metric: col.Metric.Name,
				Device: col.Device.Name,
				Value:  normalize(pq.tbl, col, col.Device.Raw[rowIdx]),
			})
		}
	}
	if len(pq.rows) == 0 {
		return
	}
	if _, err := pq.w.Write(pq.rows); err != nil {
		pq.log.Errorf("Parquet write failed: %v", err)
	}
}

func (pq *Parquet) Close() error {
	if err := pq.w.Close(); err != nil {
		pq.f.Close()
		return err
	}
	return pq.f.Close()
}
