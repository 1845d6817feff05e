// The block-at-a-time ingestion engine.
//
// A block is one full cycle of `count` time rows across all classes,
// bounded by consecutive DATE: stanzas.  The engine reads one block, folds
// it into the catalog's running statistics and per-block raw buffers, hands
// the block to the active sinks, and moves on.  Memory is proportional to
// the per-block grid, never to the length of the run.

package ingest

import (
	"github.com/JamesSCrook/pma/catalog"
	"github.com/JamesSCrook/pma/stanza"
	"github.com/JamesSCrook/pma/status"
)

// BlockSink receives the catalog's populated raw buffers after every block.
// The buffers are valid until the next block is read.
type BlockSink interface {
	Block(timestamp int64)
}

// IngestSource folds every block of one source into the catalog, invoking
// the sinks after each block.  Structural problems in the data are reported
// and the engine carries on; only the end of the input ends the loop.
func IngestSource(
	ls *stanza.LineScanner,
	srcName string,
	cat *catalog.Catalog,
	sinks []BlockSink,
	log status.Logger,
) {
	var timestamp int64
	for {
		if !ls.SkipTo(stanza.Header(dateStanza)) {
			return
		}
		line, ok := ls.Next()
		if !ok {
			return
		}
		fields := stanza.Fields(line, 1)
		if len(fields) == 1 {
			timestamp = atol(fields[0])
		} else {
			// Keep the previous block's timestamp.
			log.Errorf("Date error at input file %s line %d: %s", srcName, ls.Lineno(), line)
		}

		for _, class := range cat.Classes {
			ls.SkipTo(stanza.Header(class.Name))
			if class.Kind == catalog.VectorClass {
				readVectorStanza(ls, srcName, cat, class, log)
			} else {
				readArrayStanza(ls, srcName, cat, class, log)
			}
		}

		for _, sink := range sinks {
			sink.Block(timestamp)
		}
	}
}

// readVectorStanza reads one vector-class stanza: `count` rows of exactly
// one field per metric.  Rows before the class start row are consumed, to
// keep the row cursor honest, but not folded into statistics or buffers.
func readVectorStanza(
	ls *stanza.LineScanner,
	srcName string,
	cat *catalog.Catalog,
	class *catalog.Class,
	log status.Logger,
) {
	rowIdx := 0
	for {
		line, ok := ls.Next()
		if !ok {
			break
		}
		fields := stanza.Fields(line, maxNumMetrics)
		if len(fields) == class.NumMetrics() {
			if rowIdx >= class.StartRow && rowIdx < cat.Count {
				for i, m := range class.Metrics {
					v := atof(fields[i])
					m.Observe(v)
					m.Devices[0].ObserveAt(rowIdx, v)
				}
			}
		} else if len(fields) == 0 {
			break
		} else {
			log.Errorf("File %s line %d vector class %s: bad data starting '%s'",
				srcName, ls.Lineno(), class.Name, line)
		}
		rowIdx++
	}
	if rowIdx != cat.Count {
		log.Errorf("File %s line %d vector class %s: expected %d rows, not %d",
			srcName, ls.Lineno(), class.Name, cat.Count, rowIdx)
	}
}

// readArrayStanza reads one array-class stanza: `count * numdevices` rows of
// a device name plus one field per metric, device-major within each time
// step.  Row index maps to time index by integer division and to device
// index by the remainder.  When a row's time index falls below the class
// start row the remaining metrics of that row are skipped while the row
// cursor still advances; this intentionally differs from the vector policy.
func readArrayStanza(
	ls *stanza.LineScanner,
	srcName string,
	cat *catalog.Catalog,
	class *catalog.Class,
	log status.Logger,
) {
	rowIdx := 0
	for {
		line, ok := ls.Next()
		if !ok {
			break
		}
		fields := stanza.Fields(line, maxNumMetrics+1)
		if len(fields) == class.NumMetrics()+1 {
			for i, m := range class.Metrics {
				numDevices := m.NumDevices()
				if numDevices == 0 {
					break
				}
				timeIdx := rowIdx / numDevices
				if timeIdx < class.StartRow || timeIdx >= cat.Count {
					break
				}
				v := atof(fields[i+1])
				m.Observe(v)
				m.Devices[rowIdx%numDevices].ObserveAt(timeIdx, v)
			}
		} else if len(fields) == 0 {
			break
		} else {
			log.Errorf("File %s line %d array class %s: bad data starting '%s'",
				srcName, ls.Lineno(), class.Name, line)
		}
		rowIdx++
	}
	if len(class.Metrics) > 0 && class.Metrics[0].NumDevices() > 0 {
		expected := cat.Count * class.Metrics[0].NumDevices()
		if rowIdx != expected {
			log.Errorf("File %s line %d array class %s: expected %d rows, not %d",
				srcName, ls.Lineno(), class.Name, expected, rowIdx)
		}
	}
}
