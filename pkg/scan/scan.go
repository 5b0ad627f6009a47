// Package scan applies repository patterns to document lines, producing
// scored match results with human-readable explanations.
package scan

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/Sumatoshi-tech/fixhound/pkg/memory"
	"github.com/Sumatoshi-tech/fixhound/pkg/risk"
)

// matchTimeout bounds a single pattern evaluation. Patterns are heuristically
// synthesized text, so a pathological one must not stall the scan.
const matchTimeout = 100 * time.Millisecond

// Result is one scored pattern match on a document line. Results are
// transient; they have no lifecycle beyond the call that produced them.
type Result struct {
	LineNumber int             `json:"line_number" yaml:"line_number"`
	RiskScore  int             `json:"risk_score" yaml:"risk_score"`
	PatternID  string          `json:"pattern_id" yaml:"pattern_id"`
	CommitSHAs []string        `json:"commit_shas" yaml:"commit_shas"`
	Reason     string          `json:"reason" yaml:"reason"`
	Category   memory.Category `json:"category" yaml:"category"`
}

// Scanner matches document lines against a pattern store. It holds no state
// beyond the store reference and is cheap to reconstruct.
type Scanner struct {
	store *memory.Store
}

// NewScanner creates a scanner over the given store.
func NewScanner(store *memory.Store) *Scanner {
	return &Scanner{store: store}
}

// ScanLine matches one line against every pattern applicable to language.
// lineNumber is 0-based. A pattern whose regex fails to compile or execute
// is skipped; one bad pattern never aborts a scan.
func (s *Scanner) ScanLine(line string, lineNumber int, language, filePath string) []Result {
	patterns := s.store.Query(language)
	if len(patterns) == 0 {
		return nil
	}

	all := s.store.Patterns()

	var results []Result

	for _, p := range patterns {
		re, err := regexp2.Compile(p.Regex, regexp2.IgnoreCase)
		if err != nil {
			continue
		}

		re.MatchTimeout = matchTimeout

		matched, err := re.MatchString(line)
		if err != nil || !matched {
			continue
		}

		results = append(results, Result{
			LineNumber: lineNumber,
			RiskScore:  risk.Score(p, filePath, all),
			PatternID:  p.ID,
			CommitSHAs: p.CommitSHAs(),
			Reason:     explain(p),
			Category:   p.Category,
		})
	}

	return results
}

// ScanLines scans each line independently and concatenates results in line
// order. Re-scanning the same lines without store changes yields identical
// results.
func (s *Scanner) ScanLines(lines []string, language, filePath string) []Result {
	var results []Result

	for i, line := range lines {
		results = append(results, s.ScanLine(line, i, language, filePath)...)
	}

	return results
}

// reasonTemplates holds the category-specific explanation text.
var reasonTemplates = map[memory.Category]string{
	memory.CategoryNullCheckMissing:     "possible missing null/undefined guard",
	memory.CategoryOffByOneLoop:         "loop bound may be off by one (<= vs <)",
	memory.CategoryMissingAwait:         "async call may be missing await",
	memory.CategoryUndefinedAccess:      "unguarded index access may be undefined",
	memory.CategoryRaceCondition:        "shared state mutated without synchronization",
	memory.CategoryMemoryLeak:           "recurring resource allocated without cleanup",
	memory.CategoryTypeError:            "value may need an explicit type conversion",
	memory.CategoryLogicError:           "a similar logic error was fixed before",
	memory.CategoryLooseEquality:        "loose equality may coerce types (== vs ===)",
	memory.CategoryMissingErrorHandling: "risky call without error handling",
	memory.CategoryUnhandledPromise:     "promise chain without rejection handler",
	memory.CategoryVarScoping:           "function-scoped var may leak outside its block",
	memory.CategoryOther:                "a similar line was fixed before",
}

// explain builds the short reason for a match, annotated with the
// occurrence count and the originating file when available.
func explain(p *memory.BugPattern) string {
	reason, ok := reasonTemplates[p.Category]
	if !ok {
		reason = reasonTemplates[memory.CategoryOther]
	}

	if len(p.Commits) > 0 {
		origin := filepath.Base(p.Commits[0].File)
		if p.OccurrenceCount > 1 {
			return fmt.Sprintf("%s (fixed %d times, first in %s)", reason, p.OccurrenceCount, origin)
		}

		return fmt.Sprintf("%s (previously fixed in %s)", reason, origin)
	}

	return reason
}
