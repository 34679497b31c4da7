// Package gaugefmt renders a gauge.Gauge as a short, human-readable string,
// the way the original library's repr did: the current value, and either
// the implicit "/max" shorthand for a plain upper-bounded gauge or the full
// "between min~max" form once either limit is itself a gauge.
package gaugefmt

import (
	"fmt"

	"github.com/hartwell/gauge"
)

// String renders g at t: "<Gauge 3.00/10.00>" when capped only by a
// constant maximum with a zero minimum, otherwise the fuller
// "<Gauge 3.00 between 0.00~10.00>" form, with either side's own repr
// substituted in place of a bare number when that side is itself a gauge.
//
// Unlike the original, which re-resolved "now" independently at every
// nesting level, every limit in the tree is rendered at the same t the
// caller asked about — this package follows the engine's rule that a time
// is always explicit, never implicit wall-clock state.
func String(g *gauge.Gauge, t float64) string {
	value := g.ValueAt(t)
	maxRepr, maxIsGauge := limitRepr(g.Max(), t)
	minRepr, minIsGauge := limitRepr(g.Min(), t)

	if !maxIsGauge && !minIsGauge && gauge.LimitValueAt(g.Min(), t) == 0 {
		return fmt.Sprintf("<Gauge %.2f/%s>", value, maxRepr)
	}
	return fmt.Sprintf("<Gauge %.2f between %s~%s>", value, minRepr, maxRepr)
}

func limitRepr(l gauge.Limit, t float64) (string, bool) {
	if lg, ok := gauge.AsGauge(l); ok {
		return String(lg, t), true
	}
	return fmt.Sprintf("%.2f", gauge.LimitValueAt(l, t)), false
}

// Momentum renders a gauge.Momentum the way the original's Momentum repr
// did: "<Momentum +1.50/s>" when unbounded, or
// "<Momentum +1.50/s 0.00~10.00>" with whichever side is finite filled in.
func Momentum(m gauge.Momentum) string {
	s := fmt.Sprintf("<Momentum %+.2f/s", m.Velocity)
	if m.Since != -gauge.Inf || m.Until != gauge.Inf {
		since, until := "", ""
		if m.Since != -gauge.Inf {
			since = fmt.Sprintf("%.2f", m.Since)
		}
		if m.Until != gauge.Inf {
			until = fmt.Sprintf("%.2f", m.Until)
		}
		s += " " + since + "~" + until
	}
	return s + ">"
}
