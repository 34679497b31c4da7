package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/hartwell/gauge"
)

// LimitSpec names a gauge's limit: either a constant Value or the name of
// another entry in Scenario.Gauges.
type LimitSpec struct {
	Value *float64 `toml:"value,omitempty"`
	Gauge string   `toml:"gauge,omitempty"`
}

// MomentumSpec is a momentum to add once its owning gauge is built. Since
// and Until default to -Inf/+Inf when omitted.
type MomentumSpec struct {
	Velocity float64  `toml:"velocity"`
	Since    *float64 `toml:"since,omitempty"`
	Until    *float64 `toml:"until,omitempty"`
}

// GaugeSpec describes one named gauge in a scenario.
type GaugeSpec struct {
	BaseTime  float64        `toml:"base_time"`
	BaseValue float64        `toml:"base_value"`
	Max       LimitSpec      `toml:"max"`
	Min       LimitSpec      `toml:"min"`
	Momenta   []MomentumSpec `toml:"momenta"`
}

// QuerySpec is one operation run against Scenario.Query's gauge: a
// read-only query (value_at, velocity_at, goal, in_range, when) or a
// mutation (incr, decr, set, clamp) applied to it in place before the
// remaining queries in the scenario run. T/Target/Nth/Policy supply
// whichever arguments the chosen Kind needs.
type QuerySpec struct {
	Kind   string   `toml:"kind"`
	T      *float64 `toml:"t,omitempty"`
	Target *float64 `toml:"target,omitempty"`
	Nth    int      `toml:"nth,omitempty"`
	Policy string   `toml:"policy,omitempty"`
}

// resolvePolicy maps a scenario's policy name to a gauge.Policy, defaulting
// to PolicyError (the strictest option) when unspecified or unrecognized.
func resolvePolicy(name string) gauge.Policy {
	switch name {
	case "ok":
		return gauge.PolicyOK
	case "once":
		return gauge.PolicyOnce
	case "clamp":
		return gauge.PolicyClamp
	default:
		return gauge.PolicyError
	}
}

// Scenario is the top-level shape of a gaugectl scenario file.
type Scenario struct {
	Gauges  map[string]GaugeSpec `toml:"gauges"`
	Query   string               `toml:"query"`
	Queries []QuerySpec          `toml:"queries"`
}

// LoadScenario reads and parses a scenario file.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	var s Scenario
	if err := toml.Unmarshal(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	if s.Query == "" {
		s.Query = "main"
	}
	return s, nil
}

// Build materializes every gauge in the scenario, wiring any gauge-valued
// limits before the gauges that reference them, and returns the one named
// by Scenario.Query.
func (s Scenario) Build() (*gauge.Gauge, error) {
	built := map[string]*gauge.Gauge{}
	building := map[string]bool{}

	var build func(name string) (*gauge.Gauge, error)
	build = func(name string) (*gauge.Gauge, error) {
		if g, ok := built[name]; ok {
			return g, nil
		}
		if building[name] {
			return nil, fmt.Errorf("gauge %q participates in a limit cycle", name)
		}
		spec, ok := s.Gauges[name]
		if !ok {
			return nil, fmt.Errorf("gauge %q is not defined", name)
		}
		building[name] = true
		defer delete(building, name)

		max, err := resolveLimit(spec.Max, build)
		if err != nil {
			return nil, fmt.Errorf("resolving max for %q: %w", name, err)
		}
		min, err := resolveLimit(spec.Min, build)
		if err != nil {
			return nil, fmt.Errorf("resolving min for %q: %w", name, err)
		}

		g := gauge.New(spec.BaseValue, max, min, spec.BaseTime)
		for _, ms := range spec.Momenta {
			since, until := -gauge.Inf, gauge.Inf
			if ms.Since != nil {
				since = *ms.Since
			}
			if ms.Until != nil {
				until = *ms.Until
			}
			m, err := gauge.NewMomentum(ms.Velocity, since, until)
			if err != nil {
				return nil, fmt.Errorf("momentum for %q: %w", name, err)
			}
			if _, err := g.AddMomentum(m); err != nil {
				return nil, fmt.Errorf("adding momentum for %q: %w", name, err)
			}
		}

		built[name] = g
		return g, nil
	}

	target, err := build(s.Query)
	if err != nil {
		return nil, err
	}
	return target, nil
}

func resolveLimit(spec LimitSpec, build func(string) (*gauge.Gauge, error)) (gauge.Limit, error) {
	switch {
	case spec.Gauge != "":
		return build(spec.Gauge)
	case spec.Value != nil:
		return gauge.Const(*spec.Value), nil
	default:
		return gauge.Const(0), nil
	}
}
