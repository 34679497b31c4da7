package gauge

import (
	"runtime"
	"weak"
)

// point is a single (time, value) sample.
type point struct {
	Time  float64
	Value float64
}

// Policy controls how a mutation behaves when the requested value would
// fall outside the gauge's current limits.
type Policy int

const (
	// PolicyError fails the mutation with CodeOutOfRange if the new value
	// would be outside the limits in the direction of the change.
	PolicyError Policy = iota
	// PolicyOK accepts the new value unconditionally, even out of range.
	PolicyOK
	// PolicyOnce fails with CodeOutOfRange if the gauge is already out of
	// range at the mutation time, but otherwise accepts the new value
	// unconditionally (even if it leaves the band).
	PolicyOnce
	// PolicyClamp clips the new value to the limit band instead of
	// failing.
	PolicyClamp
)

// Gauge represents a scalar value that evolves over time under momenta and
// is constrained by an upper and lower Limit. The zero Gauge is not
// usable; construct with New.
type Gauge struct {
	base point

	momenta momentumSet
	events  eventIndex

	maxLimit Limit
	minLimit Limit

	determination *Determination

	// dependents holds weak references to gauges that use this gauge as
	// one of their limits. Membership grants no lifetime extension: a
	// dependent that becomes otherwise unreachable is free to be
	// collected even though it is still listed here.
	dependents []weak.Pointer[Gauge]

	hooks Hooks
}

// Hooks lets an embedder observe determination rebuilds and invalidation
// cascades without the core depending on any logging package. The zero
// Hooks costs nothing; see internal/telemetry for a slog-backed
// implementation.
type Hooks struct {
	OnDetermine  func(g *Gauge, vertexCount int)
	OnInvalidate func(g *Gauge)
}

// SetHooks installs observability callbacks. Pass the zero Hooks to
// detach them.
func (g *Gauge) SetHooks(h Hooks) {
	g.hooks = h
}

// New creates a gauge with the given initial value, limits, and base time.
func New(value float64, max, min Limit, at float64) *Gauge {
	g := &Gauge{base: point{Time: at, Value: value}}
	g.installLimits(max, min, at)
	return g
}

// Max returns the gauge's current maximum limit.
func (g *Gauge) Max() Limit { return g.maxLimit }

// Min returns the gauge's current minimum limit.
func (g *Gauge) Min() Limit { return g.minLimit }

// GetMax predicts the current maximum value at t.
func (g *Gauge) GetMax(t float64) float64 { return g.maxLimit.limitValueAt(t) }

// GetMin predicts the current minimum value at t.
func (g *Gauge) GetMin(t float64) float64 { return g.minLimit.limitValueAt(t) }

// Base returns the gauge's anchor (time, value).
func (g *Gauge) Base() (time, value float64) { return g.base.Time, g.base.Value }

// Momenta returns a copy of the gauge's currently active momenta, in no
// particular caller-relevant order beyond the internal until-ascending
// sort. Intended for snapshotting; mutating the result has no effect on g.
func (g *Gauge) Momenta() []Momentum {
	out := make([]Momentum, len(g.momenta.items))
	copy(out, g.momenta.items)
	return out
}

// installLimits is the uninitialized-gauge half of SetRange's work: wire
// up the new limits and their dependents registration without touching
// momenta, since there is no prior value to rebase from yet.
func (g *Gauge) installLimits(max, min Limit, at float64) {
	if lg := max.limitGauge(); lg != nil {
		lg.addDependent(g)
	}
	if lg := min.limitGauge(); lg != nil {
		lg.addDependent(g)
	}
	g.maxLimit, g.minLimit = max, min
	g.invalidate()
}

// SetRange changes both limits at once, as of at. If the gauge is
// currently in range, its value is clamped to the new band post-hoc —
// set_range has no separate clamp flag; a limit change that would strand
// an in-range value outside the new band always clips it.
func (g *Gauge) SetRange(max, min Limit, at float64) error {
	if lg := max.limitGauge(); lg != nil && dependsOn(lg, g) {
		return newError(CodeBadArguments, "setting max to %v would create a limit cycle", lg)
	}
	if lg := min.limitGauge(); lg != nil && dependsOn(lg, g) {
		return newError(CodeBadArguments, "setting min to %v would create a limit cycle", lg)
	}

	forgetUntil := at
	if old := g.maxLimit.limitGauge(); old != nil {
		old.removeDependent(g)
	}
	if old := g.minLimit.limitGauge(); old != nil {
		old.removeDependent(g)
	}
	if lg := max.limitGauge(); lg != nil {
		lg.addDependent(g)
		forgetUntil = minFloat(forgetUntil, lg.base.Time)
	}
	if lg := min.limitGauge(); lg != nil {
		lg.addDependent(g)
		forgetUntil = minFloat(forgetUntil, lg.base.Time)
	}

	value := g.ValueAt(forgetUntil)
	wasInRange := g.InRange(forgetUntil)
	g.maxLimit, g.minLimit = max, min
	g.invalidate()

	if wasInRange {
		value = g.clampToLimits(value, at)
		forgetUntil = at
	}
	g.forgetPast(&value, forgetUntil)
	return nil
}

// SetMax changes only the maximum limit.
func (g *Gauge) SetMax(max Limit, at float64) error {
	return g.SetRange(max, g.minLimit, at)
}

// SetMin changes only the minimum limit.
func (g *Gauge) SetMin(min Limit, at float64) error {
	return g.SetRange(g.maxLimit, min, at)
}

func (g *Gauge) clampToLimits(value, at float64) float64 {
	max := g.GetMax(at)
	if value > max {
		return max
	}
	min := g.GetMin(at)
	if value < min {
		return min
	}
	return value
}

// addDependent registers dep as using g as one of its limits, pruning any
// dead weak entries while scanning so the slice doesn't grow unboundedly
// across a long-lived limit gauge's life. A cleanup is also attached to
// dep so that when it is collected, g's entry for it is pruned even if
// nothing queries g.dependents again before then — membership in
// dependents must never be the thing keeping dep alive.
func (g *Gauge) addDependent(dep *Gauge) {
	g.pruneDependents()
	g.dependents = append(g.dependents, weak.Make(dep))
	runtime.AddCleanup(dep, (*Gauge).pruneDependents, g)
}

func (g *Gauge) removeDependent(dep *Gauge) {
	live := g.dependents[:0]
	for _, ref := range g.dependents {
		v := ref.Value()
		if v == nil || v == dep {
			continue
		}
		live = append(live, ref)
	}
	g.dependents = live
}

// pruneDependents drops every weak reference whose target has already been
// collected.
func (g *Gauge) pruneDependents() {
	live := g.dependents[:0]
	for _, ref := range g.dependents {
		if ref.Value() != nil {
			live = append(live, ref)
		}
	}
	g.dependents = live
}

// liveDependents returns the currently-alive dependents, pruning dead weak
// references in the same pass.
func (g *Gauge) liveDependents() []*Gauge {
	out := make([]*Gauge, 0, len(g.dependents))
	live := g.dependents[:0]
	for _, ref := range g.dependents {
		if v := ref.Value(); v != nil {
			live = append(live, ref)
			out = append(out, v)
		}
	}
	g.dependents = live
	return out
}

// invalidate clears the cached determination and propagates invalidation
// to every dependent, iterated over a snapshot so a dependent deregistering
// itself mid-iteration is tolerated. The local cache is cleared before
// dependents are notified, so a callback that queries this gauge observes
// no cache.
func (g *Gauge) invalidate() {
	g.determination = nil
	if g.hooks.OnInvalidate != nil {
		g.hooks.OnInvalidate(g)
	}
	for _, dep := range g.liveDependents() {
		dep.onLimitInvalidated()
	}
}

func (g *Gauge) onLimitInvalidated() {
	g.invalidate()
}

// onLimitRebased is called on a dependent when the limit gauge it
// references has rebased to a new value at a new time.
func (g *Gauge) onLimitRebased(limitGauge *Gauge, limitValue, at float64) {
	at = maxFloat(at, g.base.Time)
	v := g.ValueAt(at)
	if g.InRange(at) {
		if g.maxLimit.limitGauge() == limitGauge {
			v = minFloat(v, limitValue)
		} else {
			v = maxFloat(v, limitValue)
		}
	}
	g.forgetPast(&v, at)
}

// determine returns the cached determination, building and caching it if
// absent.
func (g *Gauge) determine() *Determination {
	if g.determination == nil {
		g.determination = newDetermination(g)
		if g.hooks.OnDetermine != nil {
			g.hooks.OnDetermine(g, len(g.determination.points))
		}
	}
	return g.determination
}

// valueAndVelocityAt returns both the value and the velocity of the
// determination at t.
func (g *Gauge) valueAndVelocityAt(t float64) (float64, float64) {
	d := g.determine()
	pts := d.points
	if len(pts) <= 1 {
		return pts[0].Value, 0
	}
	x := d.searchRight(t)
	if x == 0 {
		return pts[0].Value, 0
	}
	if x == len(pts) {
		return pts[len(pts)-1].Value, 0
	}
	p1, p2 := pts[x-1], pts[x]
	seg := Segment(p1.Time, p2.Time, p1.Value, p2.Value)
	value := seg.ValueAt(t)
	velocity := seg.Velocity()
	if d.inRangeSince != nil && *d.inRangeSince <= p1.Time {
		value = g.clampToLimits(value, t)
	}
	return value, velocity
}

// ValueAt predicts the gauge's value at t.
func (g *Gauge) ValueAt(t float64) float64 {
	v, _ := g.valueAndVelocityAt(t)
	return v
}

// VelocityAt predicts the gauge's velocity at t.
func (g *Gauge) VelocityAt(t float64) float64 {
	_, v := g.valueAndVelocityAt(t)
	return v
}

// Goal returns the value the gauge settles at after every momentum has
// expired — the value of the determination's final vertex.
func (g *Gauge) Goal() float64 {
	pts := g.determine().points
	return pts[len(pts)-1].Value
}

// InRange reports whether in_range_since is set and no later than t.
// in_range_since is never revised once set, so InRange stays true for
// every later t even after the value pins to or leaves the limit band.
func (g *Gauge) InRange(t float64) bool {
	since := g.determine().inRangeSince
	return since != nil && *since <= t
}

// Incr increases the value by delta as of at, subject to policy.
func (g *Gauge) Incr(delta float64, policy Policy, at float64) (float64, error) {
	prev := g.ValueAt(at)
	next := prev + delta
	max, min := g.GetMax(at), g.GetMin(at)

	switch policy {
	case PolicyOK:
		// accept unconditionally.
	case PolicyOnce:
		if !g.InRange(at) {
			return 0, newError(CodeOutOfRange, "gauge already out of range at %v", at)
		}
	case PolicyClamp:
		next = g.clampToLimits(next, at)
	default: // PolicyError
		switch {
		case delta > 0 && next > max:
			return 0, newError(CodeOutOfRange, "value to set (%v) is bigger than the maximum (%v)", next, max)
		case delta < 0 && next < min:
			return 0, newError(CodeOutOfRange, "value to set (%v) is smaller than the minimum (%v)", next, min)
		}
	}

	g.forgetPast(&next, at)
	return next, nil
}

// Decr decreases the value by delta as of at, subject to policy.
func (g *Gauge) Decr(delta float64, policy Policy, at float64) (float64, error) {
	return g.Incr(-delta, policy, at)
}

// Set sets the value to v as of at, subject to policy.
func (g *Gauge) Set(v float64, policy Policy, at float64) (float64, error) {
	delta := v - g.ValueAt(at)
	return g.Incr(delta, policy, at)
}

// Clamp clips the current value into the limit band as of at.
func (g *Gauge) Clamp(at float64) (float64, error) {
	return g.Set(g.clampToLimits(g.ValueAt(at), at), PolicyOK, at)
}

// AddMomentum adds a momentum to the gauge and returns it so the caller
// can remove that exact momentum later via RemoveMomentum.
func (g *Gauge) AddMomentum(m Momentum) (Momentum, error) {
	if err := m.validate(); err != nil {
		return Momentum{}, err
	}
	g.momenta.add(m)
	g.events.addMomentum(m)
	g.invalidate()
	return m, nil
}

// RemoveMomentum removes a momentum previously returned by AddMomentum.
func (g *Gauge) RemoveMomentum(m Momentum) error {
	if !g.momenta.remove(m) {
		return newError(CodeNotFound, "momentum %+v not in the gauge", m)
	}
	g.invalidate()
	return nil
}

// ClearMomenta removes every momentum, rebasing to v (or the current value
// at at, if v is nil).
func (g *Gauge) ClearMomenta(v *float64, at float64) float64 {
	return g.rebase(v, at, g.momenta.len())
}

// ForgetPast discards momenta that can no longer affect the future from
// at — every momentum whose Until is strictly earlier than at — rebasing
// to v (or the current value at at, if v is nil).
func (g *Gauge) ForgetPast(v *float64, at float64) float64 {
	return g.forgetPast(v, at)
}

func (g *Gauge) forgetPast(v *float64, at float64) float64 {
	dropBefore := 0
	for dropBefore < len(g.momenta.items) && g.momenta.items[dropBefore].Until < at {
		dropBefore++
	}
	return g.rebase(v, at, dropBefore)
}

// rebase is the common tail of ForgetPast and ClearMomenta: it notifies
// every dependent of the gauge's incoming value first (so a dependent
// currently pinned to this gauge as a limit can rebase itself before this
// gauge's own base moves), then moves the base forward and drops the
// first dropBefore momenta (sorted by Until, so this is always a prefix).
func (g *Gauge) rebase(v *float64, at float64, dropBefore int) float64 {
	value := nowOrValue(v, func() float64 { return g.ValueAt(at) })
	for _, dep := range g.liveDependents() {
		dep.onLimitRebased(g, value, at)
	}
	g.base = point{Time: at, Value: value}
	g.momenta.items = g.momenta.items[dropBefore:]
	g.invalidate()
	return value
}

func nowOrValue(v *float64, fallback func() float64) float64 {
	if v != nil {
		return *v
	}
	return fallback()
}

// Whenever returns a lazy sequence of times at which the determination
// crosses target.
func (g *Gauge) Whenever(target float64) func() (float64, bool) {
	pts := g.determine().points
	i := 0
	emittedFirst := false
	return func() (float64, bool) {
		if !emittedFirst {
			emittedFirst = true
			if len(pts) > 0 && pts[0].Value == target {
				return pts[0].Time, true
			}
		}
		for i+1 < len(pts) {
			t1, v1 := pts[i].Time, pts[i].Value
			t2, v2 := pts[i+1].Time, pts[i+1].Value
			i++
			inUp := v1 < target && target <= v2
			inDown := v1 > target && target >= v2
			if !inUp && !inDown {
				continue
			}
			ratio := (target - v1) / (v2 - v1)
			return t1 + (t2-t1)*ratio, true
		}
		return 0, false
	}
}

// When returns the nth (0-indexed) time the gauge reaches target.
func (g *Gauge) When(target float64, nth int) (float64, error) {
	next := g.Whenever(target)
	count := 0
	for {
		t, ok := next()
		if !ok {
			return 0, &Error{
				Code:    CodeUnreachable,
				Count:   count,
				Message: unreachableMessage(target, count),
			}
		}
		if count == nth {
			return t, nil
		}
		count++
	}
}

func unreachableMessage(target float64, count int) string {
	if count == 0 {
		return "the gauge will not reach the target value"
	}
	return "the gauge will not reach the target value that many times"
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
