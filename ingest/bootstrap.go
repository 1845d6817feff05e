// Bootstrap: discover the shape of the dataset from the first input source.
//
// The collector format is self-describing.  TIME_VALUES: carries the
// per-block row count and row interval, METADATA: declares the classes and
// their metrics, the first DATE: stanza carries the first block's timestamp,
// and the first data block itself declares the devices of every array
// class.  After discovery the source is rewound so the ingestion engine can
// re-read it from the top; a live stream cannot be rewound and loses its
// first block instead.

package ingest

import (
	"fmt"
	"strconv"

	"github.com/JamesSCrook/pma/catalog"
	"github.com/JamesSCrook/pma/source"
	"github.com/JamesSCrook/pma/stanza"
	"github.com/JamesSCrook/pma/status"
)

const (
	timeValuesStanza = "TIME_VALUES"
	metadataStanza   = "METADATA"
	dateStanza       = "DATE"

	// Field limits, matching the collector's format.
	numTimeValues     = 2
	numMetaItems      = 3 // class name, type tag, start row
	maxNumMetrics     = 32
	maxMetadataFields = numMetaItems + maxNumMetrics
)

// atoi and atof keep the C library's conversion semantics: trailing junk
// and unparseable input degrade to zero rather than failing.  The format's
// row accounting diagnostics catch structurally bad data; value conversion
// is deliberately forgiving.

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func atol(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func atof(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// Bootstrap populates the catalog from the first input source and returns a
// line scanner positioned for the ingestion engine: at the start of the
// source if it could be rewound, otherwise just past the first data block.
func Bootstrap(src source.Source, cat *catalog.Catalog, log status.Logger) (*stanza.LineScanner, error) {
	ls := stanza.NewLineScanner(src.Reader())

	if err := readTimeValues(ls, cat); err != nil {
		return nil, err
	}
	if err := readMetadata(ls, cat, log); err != nil {
		return nil, err
	}
	if err := readFirstTimestamp(ls, cat, log); err != nil {
		return nil, err
	}
	if err := discoverDevices(ls, cat); err != nil {
		return nil, err
	}
	if err := cat.CheckMetricNames(); err != nil {
		return nil, err
	}

	rewound, err := src.Rewind()
	if err != nil {
		return nil, fmt.Errorf("Could not rewind input '%s': %w", src.Name(), err)
	}
	if rewound {
		return stanza.NewLineScanner(src.Reader()), nil
	}
	log.Infof("First data set skipped when using non-rewindable input '%s'", src.Name())
	return ls, nil
}

func readTimeValues(ls *stanza.LineScanner, cat *catalog.Catalog) error {
	if !ls.SkipTo(stanza.Header(timeValuesStanza)) {
		return fmt.Errorf("Data file stanza '%s:' not found", timeValuesStanza)
	}
	for {
		line, ok := ls.Next()
		if !ok {
			break
		}
		fields := stanza.Fields(line, numTimeValues)
		switch len(fields) {
		case numTimeValues:
			cat.Count = atoi(fields[0])
			cat.Interval = atoi(fields[1])
		case 0:
			return nil
		default:
			return fmt.Errorf("Bad time values at line %d starting '%s'", ls.Lineno(), fields[0])
		}
	}
	return nil
}

func readMetadata(ls *stanza.LineScanner, cat *catalog.Catalog, log status.Logger) error {
	if !ls.SkipTo(stanza.Header(metadataStanza)) {
		return fmt.Errorf("Data file stanza '%s:' not found", metadataStanza)
	}
	for {
		line, ok := ls.Next()
		if !ok {
			break
		}
		fields := stanza.Fields(line, maxMetadataFields)
		switch {
		case len(fields) >= numMetaItems+1:
			if len(fields[1]) != 1 {
				return fmt.Errorf("Class '%s': bad type '%s': must be '%c' or '%c'",
					fields[0], fields[1], catalog.VectorClass, catalog.ArrayClass)
			}
			kind := catalog.ClassKind(fields[1][0])
			if kind != catalog.VectorClass && kind != catalog.ArrayClass {
				return fmt.Errorf("Class '%s': bad type '%s': must be '%c' or '%c'",
					fields[0], fields[1], catalog.VectorClass, catalog.ArrayClass)
			}
			startRow := atoi(fields[2])
			if startRow < 1 || startRow > cat.Count {
				return fmt.Errorf("Class '%s': bad start row '%d': must be 1 to %d",
					fields[0], startRow, cat.Count)
			}
			// The configured start row is the count of leading rows to
			// exclude: start row `count` excludes the whole block.
			cat.AddClass(fields[0], kind, startRow, fields[numMetaItems:])
		case len(fields) == 0:
			return nil
		default:
			log.Errorf("Bad class '%s' metadata at line %d", fields[0], ls.Lineno())
		}
	}
	return nil
}

func readFirstTimestamp(ls *stanza.LineScanner, cat *catalog.Catalog, log status.Logger) error {
	if !ls.SkipTo(stanza.Header(dateStanza)) {
		return fmt.Errorf("Data file stanza '%s:' not found", dateStanza)
	}
	set := 0
	for {
		line, ok := ls.Next()
		if !ok {
			break
		}
		fields := stanza.Fields(line, 1)
		switch len(fields) {
		case 1:
			cat.FirstTimestamp = atol(fields[0])
			set++
		case 0:
			goto done
		default:
			log.Errorf("Date error at line %d (%s)", ls.Lineno(), line)
		}
	}
done:
	if set != 1 {
		return fmt.Errorf("First timestamp was set %d times at/near line %d; must be 1", set, ls.Lineno())
	}
	return nil
}

// discoverDevices reads the first data block, registering one implicit
// device per metric for vector classes and one device per data row per
// metric for array classes.
func discoverDevices(ls *stanza.LineScanner, cat *catalog.Catalog) error {
	for _, class := range cat.Classes {
		if !ls.SkipTo(stanza.Header(class.Name)) {
			return fmt.Errorf("Data file stanza '%s:' not found", class.Name)
		}
		if class.Kind == catalog.VectorClass {
			line, ok := ls.Next()
			if !ok {
				continue
			}
			fields := stanza.Fields(line, maxNumMetrics)
			if len(fields) != class.NumMetrics() {
				return fmt.Errorf("Bad input file line starting '%s' at line %d: "+
					"%d vector metrics required, found %d",
					line, ls.Lineno(), class.NumMetrics(), len(fields))
			}
			for _, m := range class.Metrics {
				m.AddDevice(catalog.NoDeviceName, cat.Count)
			}
		} else {
			for {
				line, ok := ls.Next()
				if !ok {
					break
				}
				fields := stanza.Fields(line, maxNumMetrics+1)
				if len(fields) == class.NumMetrics()+1 {
					for _, m := range class.Metrics {
						m.AddDevice(fields[0], cat.Count)
					}
				} else if len(fields) == 0 {
					break
				} else {
					return fmt.Errorf("Bad input file line starting '%s' at line %d: "+
						"%d array metrics required, found %d",
						line, ls.Lineno(), class.NumMetrics(), len(fields)-1)
				}
			}
		}
	}
	return nil
}
