package gauge

// Limit is one of a Gauge's two boundaries: either a constant value or
// another Gauge, whose own determination makes the boundary itself a
// piecewise-linear function of time. *Gauge implements Limit directly, so
// callers write gauge.New(0, otherGauge, gauge.Const(0), 0) without an
// extra wrapper type for the gauge case.
type Limit interface {
	limitValueAt(at float64) float64
	limitGauge() *Gauge
}

// Const wraps a constant as a Limit.
func Const(value float64) Limit {
	return constLimit(value)
}

type constLimit float64

func (c constLimit) limitValueAt(float64) float64 { return float64(c) }
func (c constLimit) limitGauge() *Gauge           { return nil }

func (g *Gauge) limitValueAt(at float64) float64 { return g.ValueAt(at) }
func (g *Gauge) limitGauge() *Gauge              { return g }

// LimitValueAt predicts l's value at at, whether l wraps a constant or a
// gauge. Exported for packages outside gauge (gaugefmt, snapshot) that
// accept a Limit without otherwise being able to inspect it.
func LimitValueAt(l Limit, at float64) float64 {
	return l.limitValueAt(at)
}

// AsGauge reports whether l wraps a gauge, returning it if so.
func AsGauge(l Limit) (*Gauge, bool) {
	g := l.limitGauge()
	return g, g != nil
}

// dependsOn reports whether candidate's limit graph transitively reaches
// target — i.e. whether installing candidate as one of target's limits
// would close a cycle. Used by SetRange to reject cyclic limit
// installation up front rather than let the determination engine recurse
// forever.
func dependsOn(candidate, target *Gauge) bool {
	if candidate == target {
		return true
	}
	visited := map[*Gauge]bool{candidate: true}
	var walk func(*Gauge) bool
	walk = func(cur *Gauge) bool {
		for _, l := range [2]Limit{cur.maxLimit, cur.minLimit} {
			if l == nil {
				continue
			}
			lg := l.limitGauge()
			if lg == nil {
				continue
			}
			if lg == target {
				return true
			}
			if visited[lg] {
				continue
			}
			visited[lg] = true
			if walk(lg) {
				return true
			}
		}
		return false
	}
	return walk(candidate)
}
