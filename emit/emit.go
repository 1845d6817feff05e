// Output emitters.
//
// An emitter consumes the catalog's raw-value buffers once per block,
// immediately after the ingestion engine has folded the block, and is
// closed once at the end of the run.  Emitters are constructed after
// bootstrap and configuration, when the topology and the device scales are
// final, so each can compute its active column set up front.
//
// Write failures after a successful open are deliberately not allowed to
// stop the run: the outputs are best-effort, and a row is written only
// after its whole block has been folded, so an interrupted run leaves
// complete rows behind.

package emit

import (
	"time"

	"github.com/JamesSCrook/pma/catalog"
	"github.com/JamesSCrook/pma/params"
)

// Emitter is the common shape of all block consumers.  Block is called with
// the block's timestamp after each block; Close ends the run.
type Emitter interface {
	Block(timestamp int64)
	Close() error
}

// activeColumns returns the catalog columns with a nonzero scale, in
// catalog order.  Scale zero means "excluded from output" (but never from
// the statistics summary).
func activeColumns(cat *catalog.Catalog, tbl *params.Table) []catalog.Column {
	var active []catalog.Column
	for _, col := range cat.Columns(tbl.StringValue(params.MetricDeviceSeparator)) {
		if col.Device.Scale != 0 {
			active = append(active, col)
		}
	}
	return active
}

// normalize maps a raw sample onto the output scale.
func normalize(tbl *params.Table, col catalog.Column, raw float64) float64 {
	return tbl.FloatValue(params.FullScale) / col.Device.Scale * raw
}

// rowTime returns the wall-clock instant of one time row within a block.
// The collector stamps a block when it starts, so row i completes at
// timestamp + (i+1) intervals, rendered in the configured timezone.
func rowTime(cat *catalog.Catalog, tbl *params.Table, blockTimestamp int64, rowIdx int) time.Time {
	ts := blockTimestamp + int64(rowIdx+1)*int64(cat.Interval)
	return time.Unix(ts, 0).In(tbl.Location())
}
