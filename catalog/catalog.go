// Core types for the pma schema catalog.
//
// The catalog is the Class -> Metric -> Device hierarchy discovered from the
// first input source.  The dataset is self-describing: the METADATA: stanza
// declares the classes and metrics, and the first data block declares the
// devices.  After bootstrap the topology, row count and interval are frozen;
// later sources must conform or produce per-line diagnostics.
//
// Each device carries two kinds of state with very different lifetimes:
//
//   - Raw, a fixed buffer of `count` values, overwritten on every block.
//     This is what bounds memory: an unbounded run costs one block's grid.
//   - Accum, the running count/max/sum (and sketch), exact across all
//     blocks and all sources because it is updated incrementally.

package catalog

import (
	"fmt"
)

type ClassKind byte

const (
	VectorClass ClassKind = 'V' // one row per block, one implicit device per metric
	ArrayClass  ClassKind = 'A' // one row per device per block, device name column
)

// NoDeviceName is the placeholder device name registered for metrics of
// vector classes, which have no real devices.
const NoDeviceName = "None"

// Device is a named data source within a metric, e.g. sda or eth0.  Scale
// zero (the initial value) excludes the device from all value outputs.
type Device struct {
	Name  string
	Scale float64
	Accum
	Raw []float64 // always len == catalog count
}

// ObserveAt folds one included row into the device: running statistics plus
// the raw-value slot for this block.
func (d *Device) ObserveAt(row int, v float64) {
	d.Accum.Observe(v)
	d.Raw[row] = v
}

// Metric is a named tracked quantity.  Its accumulator aggregates across
// all of its devices.
type Metric struct {
	Name string
	Accum
	Devices []*Device
}

func (m *Metric) NumDevices() int {
	return len(m.Devices)
}

// AddDevice registers a device by name, reusing an existing one, and
// returns it.  The raw-value buffer is sized to the per-block row count.
func (m *Metric) AddDevice(name string, count int) *Device {
	for _, d := range m.Devices {
		if d.Name == name {
			return d
		}
	}
	d := &Device{
		Name:  name,
		Accum: newAccum(),
		Raw:   make([]float64, count),
	}
	m.Devices = append(m.Devices, d)
	return d
}

// Class is a group of metrics sharing one record layout.  StartRow is the
// number of leading rows per block that are read but excluded from
// statistics and output (the collector's first sample of a block is often a
// since-boot average); equivalently, the zero-based index of the first
// included row.  StartRow equal to the block row count excludes the whole
// block.
type Class struct {
	Name     string
	Kind     ClassKind
	StartRow int
	Metrics  []*Metric
}

func (c *Class) NumMetrics() int {
	return len(c.Metrics)
}

// Catalog is the schema for one run: the ordered classes plus the time grid
// parameters shared by every block.
type Catalog struct {
	Classes        []*Class
	Count          int   // rows per block
	Interval       int   // seconds between rows
	FirstTimestamp int64 // Unix time of the first block
}

func New() *Catalog {
	return &Catalog{}
}

// AddClass appends a class with freshly initialized metrics, in file order.
func (cat *Catalog) AddClass(name string, kind ClassKind, startRow int, metricNames []string) *Class {
	c := &Class{
		Name:     name,
		Kind:     kind,
		StartRow: startRow,
	}
	for _, mn := range metricNames {
		c.Metrics = append(c.Metrics, &Metric{Name: mn, Accum: newAccum()})
	}
	cat.Classes = append(cat.Classes, c)
	return c
}

// CheckMetricNames enforces global metric-name uniqueness across classes.
func (cat *Catalog) CheckMetricNames() error {
	seen := make(map[string]bool)
	for _, c := range cat.Classes {
		for _, m := range c.Metrics {
			if seen[m.Name] {
				return fmt.Errorf("Duplicate metric '%s'", m.Name)
			}
			seen[m.Name] = true
		}
	}
	return nil
}

// Column is one output column: a device together with its display name,
// which is the metric name for vector classes and metric<sep>device for
// array classes.
type Column struct {
	Class  *Class
	Metric *Metric
	Device *Device
	Name   string
}

// Columns returns every metric/device pair in catalog order, named with the
// given metric/device separator.  Emitters filter on Device.Scale themselves
// because the statistics summary wants the excluded ones too.
func (cat *Catalog) Columns(sep string) []Column {
	var cols []Column
	for _, c := range cat.Classes {
		for _, m := range c.Metrics {
			if c.Kind == VectorClass {
				if len(m.Devices) > 0 {
					cols = append(cols, Column{c, m, m.Devices[0], m.Name})
				}
			} else {
				for _, d := range m.Devices {
					cols = append(cols, Column{c, m, d, m.Name + sep + d.Name})
				}
			}
		}
	}
	return cols
}
