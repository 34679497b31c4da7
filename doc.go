// Package gauge provides a deterministic, piecewise-linear gauge engine.
//
// # Overview
//
// A Gauge holds a scalar value that evolves continuously over time under
// the influence of zero or more momenta (time-bounded constant velocities)
// while being constrained by an upper and a lower limit. Each limit is
// either a constant or another Gauge, so limits are themselves
// piecewise-linear functions of time that can move.
//
// The hard part is the determination engine: given a base (t0, v0), a set
// of momenta with lifetimes, and two limit sources, it walks time forward
// and produces the sequence of (t, v) vertices describing the value's
// trajectory out to +Inf, switching between "free" and "bounded" regimes
// as the trajectory meets and leaves the moving boundaries. Everything
// else — value/velocity queries, When/Whenever, the invalidation graph —
// is built on top of that determination.
//
// # Quick start
//
//	g := gauge.New(0, gauge.Const(10), gauge.Const(0), 0) // value=0, max=10, min=0, at=t0=0
//	g.AddMomentum(gauge.Momentum{Velocity: 1, Since: 0, Until: gauge.Inf})
//
//	g.ValueAt(5)   // 5
//	g.ValueAt(100) // 10 (clamped at the ceiling)
//	at, _ := g.When(10, 0)
//	_ = at // 10
//
// # Limits as gauges
//
// A limit can be another Gauge, in which case the boundary it imposes is
// that gauge's own determination projected forward and backward as a
// Horizon at the ends:
//
//	ceiling := gauge.New(10, gauge.Const(gauge.Inf), gauge.Const(0), 0)
//	ceiling.AddMomentum(gauge.Momentum{Velocity: 1, Since: 0, Until: gauge.Inf})
//
//	g := gauge.New(0, ceiling, gauge.Const(0), 0)
//	g.AddMomentum(gauge.Momentum{Velocity: 2, Since: 0, Until: gauge.Inf})
//
// g rises at 2 until it meets the rising ceiling, then tracks it at
// velocity 1. Mutating ceiling invalidates g's cached determination.
//
// # Determinism
//
// Every query and mutation takes its time as an explicit argument; no
// Gauge method reads the wall clock or calls the package's swappable Now
// seam. The engine performs no I/O and is not safe for concurrent use on
// the same Gauge without external synchronization.
//
// # See also
//
//   - gauge/snapshot - the persistence seam (marshal/reconstruct)
//   - gauge/gaugefmt - textual representation
//   - cmd/gaugectl   - a CLI exercising the query surface
package gauge
