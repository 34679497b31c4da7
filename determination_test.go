package gauge

import "testing"

func pointsEqual(t *testing.T, got []point, want []point) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("points = %+v, want %+v", got, want)
	}
	for i := range got {
		if !almostEqual(got[i].Time, want[i].Time) || !almostEqual(got[i].Value, want[i].Value) {
			t.Fatalf("points = %+v, want %+v", got, want)
		}
	}
}

func TestDetermination_ConstantCeiling_PinsAndRecordsInRangeSince(t *testing.T) {
	g := New(0, Const(10), Const(0), 0)
	m, _ := NewMomentum(5, 0, Inf)
	if _, err := g.AddMomentum(m); err != nil {
		t.Fatalf("AddMomentum: %v", err)
	}

	d := g.determine()
	// Rising at 5/s from 0, the line 5t meets the ceiling 10 at t=2.
	pointsEqual(t, d.points, []point{{0, 0}, {2, 10}})
	if d.inRangeSince == nil || !almostEqual(*d.inRangeSince, 0) {
		t.Fatalf("inRangeSince = %v, want 0 (the base sits on the floor, not past it)", d.inRangeSince)
	}
}

func TestDetermination_FloorBoundary_PinsWhenFalling(t *testing.T) {
	g := New(10, Const(20), Const(0), 0)
	m, _ := NewMomentum(-5, 0, Inf)
	if _, err := g.AddMomentum(m); err != nil {
		t.Fatalf("AddMomentum: %v", err)
	}

	d := g.determine()
	// Falling at -5/s from 10, the line 10-5t meets the floor 0 at t=2.
	pointsEqual(t, d.points, []point{{0, 10}, {2, 0}})

	if v := g.ValueAt(100); v != 0 {
		t.Fatalf("ValueAt(100) = %v, want 0 (pinned to the floor forever after)", v)
	}
}

func TestDetermination_GaugeAsLimit_BuildsSegmentsFromDependency(t *testing.T) {
	ceiling := New(10, Const(100), Const(-100), 0)
	m, _ := NewMomentum(1, 0, Inf)
	if _, err := ceiling.AddMomentum(m); err != nil {
		t.Fatalf("AddMomentum: %v", err)
	}

	cd := ceiling.determine()
	pointsEqual(t, cd.points, []point{{0, 10}, {90, 100}})

	g := New(0, ceiling, Const(-100), 0)
	rise, _ := NewMomentum(5, 0, Inf)
	if _, err := g.AddMomentum(rise); err != nil {
		t.Fatalf("AddMomentum: %v", err)
	}

	// g rises at 5/s from 0, the ceiling rises at 1/s from 10: they meet
	// where 5t = 10+t, t=2.5, v=12.5. From there g tracks the ceiling's own
	// segment (velocity 1) out to its last recorded vertex at t=90.
	gd := g.determine()
	pointsEqual(t, gd.points, []point{{0, 0}, {2.5, 12.5}, {90, 100}})
}

func TestDetermination_ReleaseRequiresVelocityAwayFromBoundary(t *testing.T) {
	g := New(0, Const(10), Const(-10), 0)
	rise, _ := NewMomentum(5, 0, Inf)
	if _, err := g.AddMomentum(rise); err != nil {
		t.Fatalf("AddMomentum: %v", err)
	}
	fall, _ := NewMomentum(-3, 4, Inf)
	if _, err := g.AddMomentum(fall); err != nil {
		t.Fatalf("AddMomentum: %v", err)
	}

	d := g.determine()
	// Pinned at the ceiling from t=2 (5*2=10). At t=4 the combined velocity
	// becomes 5-3=2, still positive (still pressing into the ceiling), so
	// the gauge stays pinned rather than releasing.
	pointsEqual(t, d.points, []point{{0, 0}, {2, 10}, {4, 10}})
}

func TestDetermination_ReturnsToRange_SetsInRangeSinceAtIntersection(t *testing.T) {
	g := New(50, Const(10), Const(0), 0)
	m, _ := NewMomentum(-5, 0, Inf)
	if _, err := g.AddMomentum(m); err != nil {
		t.Fatalf("AddMomentum: %v", err)
	}

	d := g.determine()
	// Starts above the ceiling (out of range). Falling at -5/s, the line
	// 50-5t meets the ceiling 10 at t=8, then rides it down to the floor 0
	// at t=10, where it plateaus forever after.
	pointsEqual(t, d.points, []point{{0, 50}, {8, 10}, {10, 0}})

	if d.inRangeSince == nil || !almostEqual(*d.inRangeSince, 8) {
		t.Fatalf("inRangeSince = %v, want 8 (first moment back inside the band)", d.inRangeSince)
	}
	if !g.InRange(10) {
		t.Fatalf("InRange(10) = false, want true (value has been in range since t=8)")
	}
	if !g.InRange(100) {
		t.Fatalf("InRange(100) = false, want true (plateaued at the floor, still in range)")
	}
}

func TestDetermination_NoMomenta_StaysAtBaseForever(t *testing.T) {
	g := New(7, Const(100), Const(-100), 0)
	d := g.determine()
	pointsEqual(t, d.points, []point{{0, 7}})
	if d.inRangeSince == nil || !almostEqual(*d.inRangeSince, 0) {
		t.Fatalf("inRangeSince = %v, want 0", d.inRangeSince)
	}
}
