// Package snapshot implements the reconstruction seam bounded by spec: a
// gauge's reconstructable state — its base, its momenta, and both limits —
// can be captured and later used to rebuild an equivalent gauge, the way
// the original library's __getstate__/__setstate__ pair did for pickling.
//
// A gauge whose limit is itself a gauge is snapshotted recursively. If two
// gauges in the same tree share a limit gauge instance, restoring produces
// two independent copies rather than reestablishing the shared identity —
// the seam's shape (base, momenta, max, min) doesn't carry enough
// information to do otherwise, and spec leaves graph sharing unaddressed.
package snapshot

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/hartwell/gauge"
)

// Momentum is the wire form of a gauge.Momentum.
type Momentum struct {
	Velocity float64 `json:"velocity" toml:"velocity"`
	Since    float64 `json:"since" toml:"since"`
	Until    float64 `json:"until" toml:"until"`
}

// Limit is the wire form of a gauge.Limit: either a constant Value or a
// nested gauge Snapshot, never both.
type Limit struct {
	Value *float64  `json:"value,omitempty" toml:"value,omitempty"`
	Gauge *Snapshot `json:"gauge,omitempty" toml:"gauge,omitempty"`
}

// Snapshot is a gauge's reconstructable state.
type Snapshot struct {
	BaseTime  float64    `json:"base_time" toml:"base_time"`
	BaseValue float64    `json:"base_value" toml:"base_value"`
	Momenta   []Momentum `json:"momenta,omitempty" toml:"momenta,omitempty"`
	Max       Limit      `json:"max" toml:"max"`
	Min       Limit      `json:"min" toml:"min"`
}

// Take captures g's current reconstructable state.
func Take(g *gauge.Gauge) Snapshot {
	at, value := g.Base()
	momenta := g.Momenta()
	out := make([]Momentum, len(momenta))
	for i, m := range momenta {
		out[i] = Momentum{Velocity: m.Velocity, Since: m.Since, Until: m.Until}
	}
	return Snapshot{
		BaseTime:  at,
		BaseValue: value,
		Momenta:   out,
		Max:       takeLimit(g.Max()),
		Min:       takeLimit(g.Min()),
	}
}

func takeLimit(l gauge.Limit) Limit {
	if lg, ok := gauge.AsGauge(l); ok {
		s := Take(lg)
		return Limit{Gauge: &s}
	}
	v := gauge.LimitValueAt(l, 0)
	return Limit{Value: &v}
}

// Restore rebuilds a gauge from s, including a fresh nested gauge for any
// limit that was itself a gauge, with dependents registration reestablished
// by gauge.New the same way it is for any freshly-constructed limit
// relationship.
func Restore(s Snapshot) (*gauge.Gauge, error) {
	max, err := restoreLimit(s.Max)
	if err != nil {
		return nil, fmt.Errorf("restoring max limit: %w", err)
	}
	min, err := restoreLimit(s.Min)
	if err != nil {
		return nil, fmt.Errorf("restoring min limit: %w", err)
	}

	g := gauge.New(s.BaseValue, max, min, s.BaseTime)
	for _, m := range s.Momenta {
		momentum, err := gauge.NewMomentum(m.Velocity, m.Since, m.Until)
		if err != nil {
			return nil, fmt.Errorf("restoring momentum %+v: %w", m, err)
		}
		if _, err := g.AddMomentum(momentum); err != nil {
			return nil, fmt.Errorf("adding restored momentum %+v: %w", m, err)
		}
	}
	return g, nil
}

func restoreLimit(l Limit) (gauge.Limit, error) {
	switch {
	case l.Gauge != nil:
		lg, err := Restore(*l.Gauge)
		if err != nil {
			return nil, err
		}
		return lg, nil
	case l.Value != nil:
		return gauge.Const(*l.Value), nil
	default:
		return nil, fmt.Errorf("snapshot limit has neither a value nor a nested gauge")
	}
}

// Snapshot defines no MarshalJSON or MarshalTOML methods: JSON encoding
// goes through the struct tags above and the standard encoding/json
// package, and ToTOML/FromTOML wrap go-toml/v2.

// ToTOML encodes s as TOML.
func ToTOML(s Snapshot) ([]byte, error) {
	return toml.Marshal(s)
}

// FromTOML decodes a Snapshot previously produced by ToTOML.
func FromTOML(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := toml.Unmarshal(data, &s); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}
