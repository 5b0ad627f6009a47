// Package detect classifies candidate bug-fix line pairs into typed pattern
// skeletons through a fixed, ordered list of pure heuristics.
package detect

import "github.com/Sumatoshi-tech/fixhound/pkg/memory"

// Result is a pattern skeleton produced by a detector: the synthesized
// matching regex, the category, and the baseline severity.
type Result struct {
	Regex    string
	Category memory.Category
	RiskBase int
}

// detector is one named heuristic. It returns nil when the pair does not
// exhibit the heuristic's fix shape; detectors never fail.
type detector struct {
	name string
	fn   func(buggy, fixed, lang string) *Result
}

// registry lists detectors in priority order. The first non-nil result wins;
// a pair is never classified into more than one category. The order is a
// contract, not an implementation detail.
var registry = []detector{
	{name: "null-check", fn: detectNullCheck},
	{name: "off-by-one-loop", fn: detectOffByOne},
	{name: "missing-await", fn: detectMissingAwait},
	{name: "undefined-access", fn: detectUndefinedAccess},
	{name: "type-coercion", fn: detectTypeCoercion},
	{name: "loose-equality", fn: detectLooseEquality},
	{name: "missing-error-handling", fn: detectMissingErrorHandling},
	{name: "memory-leak", fn: detectMemoryLeak},
	{name: "unhandled-promise", fn: detectUnhandledPromise},
	{name: "var-scoping", fn: detectVarScoping},
	{name: "race-condition", fn: detectRaceCondition},
}

// Classify runs the registry over one candidate pair and returns the first
// matching skeleton, or nil when no heuristic recognizes the pair.
func Classify(buggy, fixed, lang string) *Result {
	for _, d := range registry {
		if r := d.fn(buggy, fixed, lang); r != nil {
			return r
		}
	}

	return nil
}

// Names returns the detector names in priority order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, d := range registry {
		names = append(names, d.name)
	}

	return names
}
