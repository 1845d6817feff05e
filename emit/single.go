package emit

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/JamesSCrook/pma/catalog"
	"github.com/JamesSCrook/pma/params"
)

// SingleFile writes the wide format: one header line, then one line per
// time row per block, a formatted timestamp followed by one normalized
// value per active column.  Rows below a class's start row get an empty
// field so the columns stay aligned.
type SingleFile struct {
	w    *bufio.Writer
	f    io.Closer
	cat  *catalog.Catalog
	tbl  *params.Table
	cols []catalog.Column
}

// NewSingleFile creates (truncating) the output file and writes the header
// row.  Failure to open is fatal to the run.
func NewSingleFile(filename string, cat *catalog.Catalog, tbl *params.Table) (*SingleFile, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("Could not open single output file '%s': %w", filename, err)
	}
	sf := &SingleFile{
		w:    bufio.NewWriter(f),
		f:    f,
		cat:  cat,
		tbl:  tbl,
		cols: activeColumns(cat, tbl),
	}
	sf.writeHeader()
	return sf, nil
}

func (sf *SingleFile) writeHeader() {
	delim := sf.tbl.CharValue(params.SingleFileDelimiter)
	sf.w.WriteString("Time")
	for _, col := range sf.cols {
		fmt.Fprintf(sf.w, "%c%s", delim, col.Name)
	}
	sf.w.WriteByte('\n')
	sf.w.Flush()
}

func (sf *SingleFile) Block(timestamp int64) {
	delim := sf.tbl.CharValue(params.SingleFileDelimiter)
	dateFormat := sf.tbl.StringValue(params.SingleFileDateFormat)
	for rowIdx := 0; rowIdx < sf.cat.Count; rowIdx++ {
		sf.w.WriteString(params.FormatTime(rowTime(sf.cat, sf.tbl, timestamp, rowIdx), dateFormat))
		for _, col := range sf.cols {
			if rowIdx >= col.Class.StartRow {
				fmt.Fprintf(sf.w, "%c%.1f", delim, normalize(sf.tbl, col, col.Device.Raw[rowIdx]))
			} else {
				sf.w.WriteByte(delim)
			}
		}
		sf.w.WriteByte('\n')
	}
	// One flush per block: an interrupted run keeps its completed blocks.
	sf.w.Flush()
}

func (sf *SingleFile) Close() error {
	sf.w.Flush()
	return sf.f.Close()
}
