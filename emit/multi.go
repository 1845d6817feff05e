package emit

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/JamesSCrook/pma/catalog"
	"github.com/JamesSCrook/pma/params"
)

// MultiFile writes the narrow format: one output file per active column,
// each with a single header line (name and scale) and then one line per
// included time row per block.  Rows below the start row are simply not
// written; a single-column file needs no placeholders.
type MultiFile struct {
	cat   *catalog.Catalog
	tbl   *params.Table
	cols  []catalog.Column
	files []*columnFile
}

type columnFile struct {
	w *bufio.Writer
	f io.Closer
}

// PrepareDir ensures the multi-file output directory exists and is a
// directory, creating it if needed.
func PrepareDir(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		if err := os.Mkdir(dir, 0755); err != nil {
			return fmt.Errorf("Could not create directory '%s': %w", dir, err)
		}
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("'%s' is not a writable directory", dir)
	}
	return nil
}

// NewMultiFile opens (truncating) one file per active column under dir and
// writes each header.  Any open failure is fatal to the run.
func NewMultiFile(dir string, cat *catalog.Catalog, tbl *params.Table) (*MultiFile, error) {
	mf := &MultiFile{
		cat:  cat,
		tbl:  tbl,
		cols: activeColumns(cat, tbl),
	}
	headerFormat := tbl.StringValue(params.MultiFileHeaderFormat)
	for _, col := range mf.cols {
		f, err := os.Create(path.Join(dir, col.Name))
		if err != nil {
			mf.Close()
			return nil, fmt.Errorf("Could not create/open file '%s': %w", path.Join(dir, col.Name), err)
		}
		w := bufio.NewWriter(f)
		fmt.Fprintf(w, headerFormat+"\n", col.Name, col.Device.Scale)
		w.Flush()
		mf.files = append(mf.files, &columnFile{w: w, f: f})
	}
	return mf, nil
}

func (mf *MultiFile) Block(timestamp int64) {
	delim := mf.tbl.CharValue(params.MultiFileDelimiter)
	dateFormat := mf.tbl.StringValue(params.MultiFileDateFormat)
	for rowIdx := 0; rowIdx < mf.cat.Count; rowIdx++ {
		timeStr := params.FormatTime(rowTime(mf.cat, mf.tbl, timestamp, rowIdx), dateFormat)
		for i, col := range mf.cols {
			if rowIdx >= col.Class.StartRow {
				fmt.Fprintf(mf.files[i].w, "%s%c%.1f\n",
					timeStr, delim, normalize(mf.tbl, col, col.Device.Raw[rowIdx]))
			}
		}
	}
	for _, cf := range mf.files {
		cf.w.Flush()
	}
}

func (mf *MultiFile) Close() error {
	var firstErr error
	for _, cf := range mf.files {
		cf.w.Flush()
		if err := cf.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
