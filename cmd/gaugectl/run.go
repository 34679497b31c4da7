package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hartwell/gauge"
	"github.com/hartwell/gauge/gauge/gaugefmt"
	"github.com/hartwell/gauge/internal/telemetry"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build the scenario's gauges and print every query's result once",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, g, err := loadAndBuild()
		if err != nil {
			return err
		}
		for _, line := range runQueries(g, s.Queries) {
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func loadAndBuild() (Scenario, *gauge.Gauge, error) {
	s, err := LoadScenario(viper.GetString("scenario"))
	if err != nil {
		return Scenario{}, nil, err
	}
	g, err := s.Build()
	if err != nil {
		return Scenario{}, nil, fmt.Errorf("building scenario: %w", err)
	}
	g.SetHooks(telemetry.Hooks(logger(), s.Query))
	return s, g, nil
}

// runQueries answers every query against g and formats each result as one
// line, in the order the scenario listed them.
func runQueries(g *gauge.Gauge, queries []QuerySpec) []string {
	lines := make([]string, 0, len(queries))
	for i, q := range queries {
		lines = append(lines, formatQuery(g, i, q))
	}
	return lines
}

func formatQuery(g *gauge.Gauge, i int, q QuerySpec) string {
	switch q.Kind {
	case "value_at":
		t := floatArg(q.T)
		return fmt.Sprintf("[%d] value_at(%.2f) = %.4f  %s", i, t, g.ValueAt(t), gaugefmt.String(g, t))
	case "velocity_at":
		t := floatArg(q.T)
		return fmt.Sprintf("[%d] velocity_at(%.2f) = %.4f", i, t, g.VelocityAt(t))
	case "in_range":
		t := floatArg(q.T)
		return fmt.Sprintf("[%d] in_range(%.2f) = %v", i, t, g.InRange(t))
	case "goal":
		return fmt.Sprintf("[%d] goal() = %.4f", i, g.Goal())
	case "when":
		target := floatArg(q.Target)
		t, err := g.When(target, q.Nth)
		if err != nil {
			return fmt.Sprintf("[%d] when(%.2f, %d) = error: %v", i, target, q.Nth, err)
		}
		return fmt.Sprintf("[%d] when(%.2f, %d) = %.4f", i, target, q.Nth, t)
	case "incr":
		at, policy := floatArg(q.T), resolvePolicy(q.Policy)
		v, err := g.Incr(floatArg(q.Target), policy, at)
		if err != nil {
			return fmt.Sprintf("[%d] incr(%.2f, %s, %.2f) = error: %v", i, floatArg(q.Target), q.Policy, at, err)
		}
		return fmt.Sprintf("[%d] incr(%.2f, %s, %.2f) = %.4f", i, floatArg(q.Target), q.Policy, at, v)
	case "decr":
		at, policy := floatArg(q.T), resolvePolicy(q.Policy)
		v, err := g.Decr(floatArg(q.Target), policy, at)
		if err != nil {
			return fmt.Sprintf("[%d] decr(%.2f, %s, %.2f) = error: %v", i, floatArg(q.Target), q.Policy, at, err)
		}
		return fmt.Sprintf("[%d] decr(%.2f, %s, %.2f) = %.4f", i, floatArg(q.Target), q.Policy, at, v)
	case "set":
		at, policy := floatArg(q.T), resolvePolicy(q.Policy)
		v, err := g.Set(floatArg(q.Target), policy, at)
		if err != nil {
			return fmt.Sprintf("[%d] set(%.2f, %s, %.2f) = error: %v", i, floatArg(q.Target), q.Policy, at, err)
		}
		return fmt.Sprintf("[%d] set(%.2f, %s, %.2f) = %.4f", i, floatArg(q.Target), q.Policy, at, v)
	case "clamp":
		at := floatArg(q.T)
		v, err := g.Clamp(at)
		if err != nil {
			return fmt.Sprintf("[%d] clamp(%.2f) = error: %v", i, at, err)
		}
		return fmt.Sprintf("[%d] clamp(%.2f) = %.4f", i, at, v)
	default:
		return fmt.Sprintf("[%d] unknown query kind %q", i, q.Kind)
	}
}

func floatArg(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
