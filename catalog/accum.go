package catalog

import (
	"github.com/DataDog/sketches-go/ddsketch"
)

// sketchAccuracy is the DDSketch relative accuracy used for the summary
// quantiles.  1% keeps the sketch small and is plenty for eyeballing.
const sketchAccuracy = 0.01

// Accum is the running accumulator for one metric or device.  It is updated
// incrementally as rows are folded in and is never reconstructed from the
// per-block raw-value buffer, which holds only the latest block.
type Accum struct {
	Count  int64
	Max    float64
	Sum    float64
	sketch *ddsketch.DDSketch
}

func newAccum() Accum {
	a := Accum{}
	// A nil sketch just means no quantiles in the summary.
	if sketch, err := ddsketch.NewDefaultDDSketch(sketchAccuracy); err == nil {
		a.sketch = sketch
	}
	return a
}

func (a *Accum) Observe(v float64) {
	a.Count++
	if v > a.Max {
		a.Max = v
	}
	a.Sum += v
	if a.sketch != nil {
		a.sketch.Add(v)
	}
}

// Avg returns the running average, zero before any observation.
func (a *Accum) Avg() float64 {
	if a.Count == 0 {
		return 0
	}
	return a.Sum / float64(a.Count)
}

// Quantile returns the approximate q-quantile of everything observed so
// far, and false if quantiles are unavailable.
func (a *Accum) Quantile(q float64) (float64, bool) {
	if a.sketch == nil || a.Count == 0 {
		return 0, false
	}
	v, err := a.sketch.GetValueAtQuantile(q)
	if err != nil {
		return 0, false
	}
	return v, true
}
