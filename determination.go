package gauge

// Determination is the cached, once-computed piecewise-linear trajectory of
// a gauge: an ordered vertex sequence together with the earliest time (if
// any) from which the gauge has been strictly within its limit band.
type Determination struct {
	points       []point
	inRangeSince *float64
}

// searchRight returns the count of vertices whose time is <= t — the
// bisect-right insertion point by time. Callers derive the interpolation
// window as points[x-1], points[x].
func (d *Determination) searchRight(t float64) int {
	lo, hi := 0, len(d.points)
	for lo < hi {
		mid := (lo + hi) / 2
		if d.points[mid].Time <= t {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// append adds (t, v) as the next vertex, a no-op if it would duplicate the
// previous vertex's time. If inRange and no earlier vertex has already set
// inRangeSince, t becomes inRangeSince.
func (d *Determination) append(t, v float64, inRange bool) {
	if n := len(d.points); n > 0 && d.points[n-1].Time == t {
		return
	}
	d.points = append(d.points, point{Time: t, Value: v})
	if inRange && d.inRangeSince == nil {
		since := t
		d.inRangeSince = &since
	}
}

// buildLimitLines turns a Limit into the ordered, gap-free line sequence a
// boundary walker consumes, starting no earlier than baseTime. A constant
// limit is a single Horizon spanning to +Inf. A gauge limit is expanded
// from the limit gauge's own determination: an optional leading Horizon
// bridging baseTime to the limit's first vertex (only needed if the limit
// gauge was based later), one Segment per consecutive vertex pair, and a
// trailing Horizon from the last vertex to +Inf.
func buildLimitLines(limit Limit, baseTime float64) []Line {
	lg := limit.limitGauge()
	if lg == nil {
		return []Line{Horizon(baseTime, Inf, limit.limitValueAt(baseTime))}
	}

	pts := lg.determine().points
	lines := make([]Line, 0, len(pts)+1)

	first := pts[0]
	if baseTime < first.Time {
		lines = append(lines, Horizon(baseTime, first.Time, first.Value))
	}
	for i := 0; i+1 < len(pts); i++ {
		p1, p2 := pts[i], pts[i+1]
		lines = append(lines, Segment(p1.Time, p2.Time, p1.Value, p2.Value))
	}
	last := pts[len(pts)-1]
	lines = append(lines, Horizon(last.Time, Inf, last.Value))
	return lines
}

// skipPastBoundaryLines advances b past every line that has already ended
// by since, so the walker's current line is always the one covering since.
func skipPastBoundaryLines(b *boundary, since float64) {
	for b.current().Until <= since {
		b.step()
	}
}

func sumVelocities(velocities []float64) float64 {
	var total float64
	for _, v := range velocities {
		total += v
	}
	return total
}

func sumVelocitiesWhere(velocities []float64, keep func(float64) bool) float64 {
	var total float64
	for _, v := range velocities {
		if keep(v) {
			total += v
		}
	}
	return total
}

func removeOneVelocity(velocities []float64, v float64) []float64 {
	for i, x := range velocities {
		if x == v {
			return append(velocities[:i], velocities[i+1:]...)
		}
	}
	return velocities
}

// newDetermination runs the time-stepping engine over G's momentum event
// stream once, producing the vertex sequence gauge queries read afterward.
// It mirrors a boundary-tracking simulation: the gauge coasts at the sum of
// its active momenta's velocities until it either pierces a limit (an
// intersection is detected, or recovered after the fact when floating-point
// noise hides it) or the limit it is already riding releases it.
func newDetermination(g *Gauge) *Determination {
	ceil := newCeilBoundary(buildLimitLines(g.maxLimit, g.base.Time))
	floor := newFloorBoundary(buildLimitLines(g.minLimit, g.base.Time))

	d := &Determination{}

	since := g.base.Time
	value := g.base.Value
	var velocity float64
	var velocities []float64
	var bound *boundary
	bounded := false
	overlapped := false

	// The first vertex is emitted naturally below, by the sentinel event's
	// end-of-event step (points starts empty, so that append is never a
	// no-op) — not pre-seeded here, so that an over-the-boundary start
	// correctly comes out of the gate with in_range left unset.
	skipPastBoundaryLines(ceil, since)
	skipPastBoundaryLines(floor, since)
	if ceil.cmp(ceil.current().Guess(since), value) {
		bound, bounded, overlapped = ceil, true, false
	} else if floor.cmp(floor.current().Guess(since), value) {
		bound, bounded, overlapped = floor, true, false
	}

eventLoop:
	for _, ev := range g.momentumEvents() {
		until := maxFloat(ev.Time, g.base.Time)
		again := true

		for since < until {
			var walked []*boundary
			if again {
				again = false
				if bounded {
					walked = []*boundary{bound}
				} else {
					walked = []*boundary{ceil, floor}
				}
			} else {
				if ceil.current().Until >= until && floor.current().Until >= until {
					break
				}
				next := ceil
				if floor.current().Until < ceil.current().Until {
					next = floor
				}
				next.step()
				walked = []*boundary{next}
			}

			switch {
			case !bounded:
				velocity = sumVelocities(velocities)
			case overlapped:
				velocity = bound.best(sumVelocities(velocities), bound.current().Velocity())
			default:
				velocity = sumVelocitiesWhere(velocities, func(v float64) bool { return bound.cmp(v, 0) })
			}

			if overlapped && bound.cmp(velocity, bound.current().Velocity()) {
				bounded, overlapped, again = false, false, true
				continue
			}

			line := Ray(since, until, value, velocity)

			if overlapped {
				boundUntil := minFloat(bound.current().Until, until)
				if boundUntil == Inf {
					break eventLoop
				}
				since = boundUntil
				value = bound.current().ValueAt(boundUntil)
				d.append(since, value, true)
				continue
			}

			intersected := false
			for _, b := range walked {
				t, v, ok := Intersect(line, b.current())
				if !ok || t <= since {
					continue
				}
				bound, bounded, overlapped = b, true, true
				since, value = t, b.best(v, b.current().Guess(t))
				d.append(since, value, true)
				again = true
				intersected = true
				break
			}
			if intersected {
				continue
			}

			if !bounded {
				for _, b := range walked {
					boundUntil := minFloat(b.current().Until, until)
					if boundUntil == Inf || boundUntil < since {
						continue
					}
					bv := b.current().ValueAt(boundUntil)
					if b.cmpEq(line.ValueAt(boundUntil), bv) {
						continue
					}
					bound, bounded, overlapped = b, true, true
					since, value = boundUntil, bv
					d.append(since, value, true)
					break
				}
			}
		}

		if until == Inf {
			break eventLoop
		}

		value += velocity * (until - since)
		d.append(until, value, !bounded || overlapped)

		switch ev.Kind {
		case EventAdd:
			velocities = append(velocities, ev.Momentum.Velocity)
		case EventRemove:
			velocities = removeOneVelocity(velocities, ev.Momentum.Velocity)
		}
		since = until
	}

	return d
}
