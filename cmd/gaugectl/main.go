// Command gaugectl exercises the gauge package's public query surface
// against a scenario file: build one or more gauges, wire any gauge-limited
// relationships between them, and answer value_at/velocity_at/when/goal
// queries against the result.
package main

func main() {
	Execute()
}
