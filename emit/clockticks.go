package emit

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/JamesSCrook/pma/catalog"
	"github.com/JamesSCrook/pma/params"
	"github.com/JamesSCrook/pma/status"
)

// Clockticks writes the time-gridline hierarchy: for every multiple of the
// smallest configured level between the first and last block, two points
// are emitted, one at height zero and one at a negative height that grows
// with the coarseness of the matching level.  Graphing tools that only
// understand (time,value) scatter points can render the result as a
// stepped time axis under the data.
type Clockticks struct {
	w    *bufio.Writer
	f    io.Closer
	cat  *catalog.Catalog
	tbl  *params.Table
	log  status.Logger
	last int64
}

// NewClockticks opens (truncating) the tick file under the multi-file
// output directory.  Generation happens at Close, once the last block
// timestamp is known.
func NewClockticks(dir string, cat *catalog.Catalog, tbl *params.Table, log status.Logger) (*Clockticks, error) {
	filename := path.Join(dir, tbl.StringValue(params.ClockticksFileName))
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("Could not create/open file '%s': %w", filename, err)
	}
	return &Clockticks{
		w:   bufio.NewWriter(f),
		f:   f,
		cat: cat,
		tbl: tbl,
		log: log,
	}, nil
}

func (ct *Clockticks) Block(timestamp int64) {
	ct.last = timestamp
}

func (ct *Clockticks) Close() error {
	ct.generate(ct.w, ct.cat.FirstTimestamp, ct.last)
	ct.w.Flush()
	return ct.f.Close()
}

// levels returns the usable level hierarchy: the configured values down to
// the first non-positive one, each an exact divisor of its predecessor.  A
// broken hierarchy disables the feature and affects nothing else.
func (ct *Clockticks) levels() []int64 {
	var levels []int64
	for i, l := range ct.tbl.ClockticksLevels() {
		if l <= 0 {
			break
		}
		if len(levels) > 0 && levels[len(levels)-1]%l != 0 {
			ct.log.Errorf("Clockticks level %d (%d) is not a multiple of level %d (%d)",
				len(levels)-1, levels[len(levels)-1], i, l)
			return nil
		}
		levels = append(levels, l)
	}
	if len(levels) == 0 {
		ct.log.Errorf("No valid clockticks levels specified")
	}
	return levels
}

func (ct *Clockticks) generate(w io.Writer, first, last int64) {
	levels := ct.levels()
	if len(levels) == 0 {
		return
	}
	minLevel := levels[0]
	for _, l := range levels {
		if l < minLevel {
			minLevel = l
		}
	}

	headerFormat := ct.tbl.StringValue(params.MultiFileHeaderFormat)
	fmt.Fprintf(w, headerFormat+"\n",
		ct.tbl.StringValue(params.ClockticksFileName), ct.tbl.FloatValue(params.FullScale))

	dateFormat := ct.tbl.StringValue(params.MultiFileDateFormat)
	loc := ct.tbl.Location()
	// Start a bit before the first data and end a bit after the last.
	beg := first / minLevel * minLevel
	end := ((last+int64(ct.cat.Count)*int64(ct.cat.Interval))/minLevel + 1) * minLevel
	for ts := beg; ts <= end; ts += minLevel {
		t := time.Unix(ts, 0).In(loc)
		sinceMidnight := int64(3600*t.Hour() + 60*t.Minute() + t.Second())
		for rank, level := range levels {
			if sinceMidnight%level == 0 {
				timeStr := params.FormatTime(t, dateFormat)
				fmt.Fprintf(w, "%s 0\n", timeStr)
				fmt.Fprintf(w, "%s %d\n", timeStr, 2*(rank-len(levels)))
				break
			}
		}
	}
}
