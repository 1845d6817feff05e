package emit

import (
	"fmt"
	"io"

	"github.com/JamesSCrook/pma/catalog"
	"github.com/JamesSCrook/pma/params"
)

// WriteSummary prints the running statistics of every metric and device,
// including those with scale zero.  Metric lines aggregate across all of a
// metric's devices; device lines follow for array classes only.  Quantiles
// are approximate (sketch-based) and are omitted for un-observed
// accumulators.
func WriteSummary(w io.Writer, cat *catalog.Catalog, tbl *params.Table) {
	sep := tbl.StringValue(params.MetricDeviceSeparator)
	fmt.Fprintf(w, "### Summary data: count, maximum, average, p50, p95, p99\n")
	for _, c := range cat.Classes {
		for _, m := range c.Metrics {
			summaryLine(w, "# ", m.Name, &m.Accum)
			if c.Kind == catalog.ArrayClass {
				for _, d := range m.Devices {
					summaryLine(w, "## ", m.Name+sep+d.Name, &d.Accum)
				}
			}
		}
	}
}

func summaryLine(w io.Writer, prefix, name string, a *catalog.Accum) {
	fmt.Fprintf(w, "%s%-25s %8d %14.1f %14.1f", prefix, name, a.Count, a.Max, a.Avg())
	for _, q := range []float64{0.50, 0.95, 0.99} {
		if v, ok := a.Quantile(q); ok {
			fmt.Fprintf(w, " %14.1f", v)
		} else {
			fmt.Fprintf(w, " %14s", "-")
		}
	}
	fmt.Fprintln(w)
}
