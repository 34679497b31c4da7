package gauge

// EventKind identifies whether a momentum event starts or stops a
// momentum's effect, or is one of the sentinel/terminal bookends emitted
// by momentumEvents.
type EventKind int

const (
	// EventNone marks the sentinel event at base.time and the terminal
	// event at +Inf. Its numeric value (0) intentionally sorts before
	// EventAdd and EventRemove, but the sentinel/terminal events are never
	// compared against real events for ordering — they are synthesized
	// directly at the ends of the stream, not merged into it.
	EventNone EventKind = 0
	// EventAdd marks the moment a momentum's Since takes effect.
	EventAdd EventKind = 1
	// EventRemove marks the moment a momentum's Until stops its effect.
	EventRemove EventKind = 2
)

func (k EventKind) String() string {
	switch k {
	case EventAdd:
		return "ADD"
	case EventRemove:
		return "REMOVE"
	default:
		return "NONE"
	}
}

// event is one entry of the stream the determination engine walks:
// (time, kind, momentum). The zero Momentum accompanies the two NONE
// bookends, where it is never read.
type event struct {
	Time     float64
	Kind     EventKind
	Momentum Momentum
}

func eventLess(a, b event) bool {
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	return a.Kind < b.Kind
}

// eventIndex is the ordered set of ADD/REMOVE events backing a gauge's
// momenta, sorted lexicographically by (time, kind) so that at identical
// times ADD precedes REMOVE. It may contain entries for momenta that have
// since been removed from the gauge's momentumSet; those are pruned
// lazily by momentumEvents.
type eventIndex struct {
	items []event
}

func (idx *eventIndex) add(e event) {
	i := idx.searchInsertionPoint(e)
	idx.items = append(idx.items, event{})
	copy(idx.items[i+1:], idx.items[i:])
	idx.items[i] = e
}

func (idx *eventIndex) searchInsertionPoint(e event) int {
	lo, hi := 0, len(idx.items)
	for lo < hi {
		mid := (lo + hi) / 2
		if eventLess(idx.items[mid], e) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

func (idx *eventIndex) removeAt(i int) {
	idx.items = append(idx.items[:i], idx.items[i+1:]...)
}

// addMomentum records the ADD event for m, and the REMOVE event too unless
// m is unbounded above.
func (idx *eventIndex) addMomentum(m Momentum) {
	idx.add(event{Time: m.Since, Kind: EventAdd, Momentum: m})
	if m.Until != Inf {
		idx.add(event{Time: m.Until, Kind: EventRemove, Momentum: m})
	}
}

// momentumEvents materializes the ordered event stream the determination
// engine consumes: the (base.time, NONE) sentinel, every live ADD/REMOVE
// event in (time, kind) order with dead entries pruned in place, and the
// (+Inf, NONE) terminal event.
func (g *Gauge) momentumEvents() []event {
	out := make([]event, 0, len(g.events.items)+2)
	out = append(out, event{Time: g.base.Time, Kind: EventNone})

	live := g.events.items[:0:0]
	for _, e := range g.events.items {
		if !g.momenta.contains(e.Momentum) {
			continue // pruned: no longer a live member of momenta.
		}
		live = append(live, e)
		out = append(out, e)
	}
	g.events.items = live

	out = append(out, event{Time: Inf, Kind: EventNone})
	return out
}
