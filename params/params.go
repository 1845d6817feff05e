// The pma parameter table.
//
// A fixed, ordered catalog of typed configuration values with compile-time
// defaults, optionally overridden by the configuration overlay file.  The
// table is constructed once per run and handed by reference to the ingestion
// engine and the emitters; there are no process-wide singletons.

package params

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/JamesSCrook/pma/stanza"
)

type Kind int

const (
	Char Kind = iota
	Float
	Integer
	String
)

// value holds one typed parameter value; only the field selected by the
// parameter's kind is meaningful.
type value struct {
	char  byte
	float float64
	num   int64
	str   string
}

type Param struct {
	Name string
	Kind Kind
	def  value
	val  value
}

// NumClockticksLevels is the number of clockticks_level_N parameters.
const NumClockticksLevels = 8

const (
	FullScale             = "fullscale"
	Timezone              = "TZ"
	MetricDeviceSeparator = "metricdeviceseparator"
	SingleFileDateFormat  = "singlefiledateformat"
	SingleFileDelimiter   = "singlefiledelimiter"
	MultiFileDateFormat   = "multifiledateformat"
	MultiFileDelimiter    = "multifiledelimiter"
	MultiFileHeaderFormat = "multifileheaderformat"
	ClockticksFileName    = "clockticksfilename"
)

// Table is the ordered parameter table.  Order matters only for Dump, which
// presents the parameters the way they are declared.
type Table struct {
	params   []*Param
	byName   map[string]*Param
	location *time.Location
}

func charParam(name string, def byte) *Param {
	return &Param{Name: name, Kind: Char, def: value{char: def}, val: value{char: def}}
}

func floatParam(name string, def float64) *Param {
	return &Param{Name: name, Kind: Float, def: value{float: def}, val: value{float: def}}
}

func intParam(name string, def int64) *Param {
	return &Param{Name: name, Kind: Integer, def: value{num: def}, val: value{num: def}}
}

func stringParam(name string, def string) *Param {
	return &Param{Name: name, Kind: String, def: value{str: def}, val: value{str: def}}
}

// New returns a parameter table populated with the built-in defaults.
func New() *Table {
	t := &Table{
		params: []*Param{
			floatParam(FullScale, 100.0),
			stringParam(Timezone, ""),
			stringParam(MetricDeviceSeparator, "_"),
			stringParam(SingleFileDateFormat, "%x %X"),
			charParam(SingleFileDelimiter, ','),
			stringParam(MultiFileDateFormat, "%s"),
			charParam(MultiFileDelimiter, ' '),
			stringParam(MultiFileHeaderFormat, `"%s|%.1f"`),
			stringParam(ClockticksFileName, "clockticks"),
			intParam("clockticks_level_0", 24*60*60),
			intParam("clockticks_level_1", 12*60*60),
			intParam("clockticks_level_2", 6*60*60),
			intParam("clockticks_level_3", 60*60),
			intParam("clockticks_level_4", 30*60),
			intParam("clockticks_level_5", 15*60),
			intParam("clockticks_level_6", 5*60),
			intParam("clockticks_level_7", 0),
		},
		byName:   make(map[string]*Param),
		location: time.Local,
	}
	for _, p := range t.params {
		t.byName[p.Name] = p
	}
	return t
}

// Set overrides a parameter from its string representation in the overlay
// file.  It returns false if the name is not a parameter (the caller will
// then try it as a scale setting, and complain only if that fails too).
func (t *Table) Set(name, raw string) bool {
	p, found := t.byName[name]
	if !found {
		return false
	}
	switch p.Kind {
	case Char:
		if len(raw) > 0 {
			p.val.char = raw[0]
		}
	case Float:
		// atof semantics: unparseable values become zero.
		p.val.float, _ = strconv.ParseFloat(raw, 64)
	case Integer:
		p.val.num, _ = strconv.ParseInt(raw, 10, 64)
	case String:
		p.val.str = raw
	}
	return true
}

func (t *Table) lookup(name string, k Kind) *Param {
	p, found := t.byName[name]
	if !found || p.Kind != k {
		panic(fmt.Sprintf("No %v parameter '%s'", k, name))
	}
	return p
}

func (t *Table) CharValue(name string) byte {
	return t.lookup(name, Char).val.char
}

func (t *Table) FloatValue(name string) float64 {
	return t.lookup(name, Float).val.float
}

func (t *Table) IntValue(name string) int64 {
	return t.lookup(name, Integer).val.num
}

func (t *Table) StringValue(name string) string {
	return t.lookup(name, String).val.str
}

// ClockticksLevels returns the configured level values, in declaration
// order, including any non-positive ones; the clockticks generator applies
// its own cutoff rules.
func (t *Table) ClockticksLevels() []int64 {
	levels := make([]int64, NumClockticksLevels)
	for i := range levels {
		levels[i] = t.IntValue(fmt.Sprintf("clockticks_level_%d", i))
	}
	return levels
}

// Location returns the timezone used for formatting output timestamps: the
// TZ parameter if it names a loadable location, the process-local zone
// otherwise.
func (t *Table) Location() *time.Location {
	return t.location
}

// ResolveLocation applies the TZ parameter.  An unloadable zone is reported
// by the caller; the local zone stays in effect.
func (t *Table) ResolveLocation() error {
	tz := t.StringValue(Timezone)
	if tz == "" {
		return nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return err
	}
	t.location = loc
	return nil
}

func (v value) render(k Kind) string {
	q := string(stanza.QuoteChar)
	switch k {
	case Char:
		return q + string(v.char) + q
	case Float:
		return fmt.Sprintf("%s%.1f%s", q, v.float, q)
	case Integer:
		return fmt.Sprintf("%s%d%s", q, v.num, q)
	default:
		return q + v.str + q
	}
}

// Dump writes the active and default value of every parameter, in table
// order, as a human-readable report.
func (t *Table) Dump(w io.Writer) {
	fmt.Fprintf(w, "# %-25s %-25s %-25s\n", "Parameter", "Active Value", "Default Value")
	fmt.Fprintf(w, "# ------------------------- ------------------------- -------------------------\n")
	for _, p := range t.params {
		fmt.Fprintf(w, "# %-25s %-25s # %-25s\n", p.Name, p.val.render(p.Kind), p.def.render(p.Kind))
	}
}
