package params

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JamesSCrook/pma/catalog"
	"github.com/JamesSCrook/pma/stanza"
	"github.com/JamesSCrook/pma/status"
)

// ReadConfigFile applies the configuration overlay to the parameter table
// and the catalog's device scales.  Each line is `<key> <value>`: the key is
// tried as a metric or metric<separator>device name (setting scales) and as
// a parameter name; unknown keys are reported but not fatal.  A file that
// cannot be opened is fatal, matching the rest of the required-file policy.
func ReadConfigFile(filename string, t *Table, cat *catalog.Catalog, log status.Logger) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("Could not open configuration file '%s': %w", filename, err)
	}
	defer f.Close()

	ls := stanza.NewLineScanner(f)
	for {
		line, ok := ls.Next()
		if !ok {
			break
		}
		fields := stanza.Fields(line, 2)
		switch len(fields) {
		case 0:
			// blank or comment line
		case 2:
			known := applyScale(cat, t.StringValue(MetricDeviceSeparator), fields[0], fields[1])
			if t.Set(fields[0], fields[1]) {
				known = true
			}
			if !known {
				log.Warningf("Ignoring unknown configuration file parameter '%s'", fields[0])
			}
		default:
			log.Warningf("Bad configuration file line starting '%s'", fields[0])
		}
	}

	if err := t.ResolveLocation(); err != nil {
		log.Warningf("Bad TZ parameter: %v", err)
	}
	return nil
}

// applyScale sets device scale values for a key naming a metric (all of the
// metric's devices) or a metric<sep>device pair (that one device).
func applyScale(cat *catalog.Catalog, sep, name, raw string) bool {
	// atof semantics: an unparseable value is zero, ie "excluded".
	v, _ := strconv.ParseFloat(raw, 64)
	found := false
	for _, c := range cat.Classes {
		for _, m := range c.Metrics {
			if name == m.Name {
				for _, d := range m.Devices {
					d.Scale = v
				}
				found = true
				continue
			}
			if c.Kind == catalog.ArrayClass {
				for _, d := range m.Devices {
					if name == m.Name+sep+d.Name {
						d.Scale = v
						found = true
						break
					}
				}
			}
		}
	}
	return found
}
