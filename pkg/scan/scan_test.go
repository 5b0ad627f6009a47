package scan_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/fixhound/pkg/memory"
	"github.com/Sumatoshi-tech/fixhound/pkg/scan"
)

func newTestStore(t *testing.T, patterns ...*memory.BugPattern) *memory.Store {
	t.Helper()

	store := memory.NewStore(
		filepath.Join(t.TempDir(), "memory.json"),
		memory.WithIDSource(&memory.SequenceSource{Prefix: "pat"}),
	)
	require.NoError(t, store.Merge(patterns))

	return store
}

func nullCheckPattern() *memory.BugPattern {
	return &memory.BugPattern{
		Language: "javascript",
		Regex:    `user\.name(?!\?)`,
		Category: memory.CategoryNullCheckMissing,
		RiskBase: 8,
		Commits: []memory.CommitRef{
			{SHA: "aaa111", File: "src/app.js", Line: 10, Message: "fix crash"},
		},
		OccurrenceCount: 1,
	}
}

func TestScanLine_Match(t *testing.T) {
	t.Parallel()

	scanner := scan.NewScanner(newTestStore(t, nullCheckPattern()))

	results := scanner.ScanLine("console.log(user.name)", 4, "javascript", "main.js")

	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, 4, r.LineNumber)
	assert.Equal(t, "pat-1", r.PatternID)
	assert.Equal(t, memory.CategoryNullCheckMissing, r.Category)
	assert.Equal(t, []string{"aaa111"}, r.CommitSHAs)
	assert.GreaterOrEqual(t, r.RiskScore, 1)
	assert.LessOrEqual(t, r.RiskScore, 10)
	assert.Contains(t, r.Reason, "null/undefined guard")
	assert.Contains(t, r.Reason, "app.js")
}

func TestScanLine_LookaheadExcludesGuardedAccess(t *testing.T) {
	t.Parallel()

	scanner := scan.NewScanner(newTestStore(t, nullCheckPattern()))

	assert.Empty(t, scanner.ScanLine("console.log(user?.name)", 0, "javascript", "main.js"))
}

func TestScanLine_LanguageScoping(t *testing.T) {
	t.Parallel()

	scanner := scan.NewScanner(newTestStore(t, nullCheckPattern()))

	assert.Empty(t, scanner.ScanLine("console.log(user.name)", 0, "python", "main.py"))
}

func TestScanLine_WildcardPatternAppliesEverywhere(t *testing.T) {
	t.Parallel()

	wild := nullCheckPattern()
	wild.Language = memory.WildcardLanguage

	scanner := scan.NewScanner(newTestStore(t, wild))

	assert.Len(t, scanner.ScanLine("console.log(user.name)", 0, "go", "main.go"), 1)
}

func TestScanLine_MalformedRegexIsolated(t *testing.T) {
	t.Parallel()

	broken := &memory.BugPattern{
		Language: "javascript",
		Regex:    `user\.name(?!`,
		Category: memory.CategoryNullCheckMissing,
		RiskBase: 8,
	}

	scanner := scan.NewScanner(newTestStore(t, broken, nullCheckPattern()))

	// The broken pattern is skipped; the healthy one still matches.
	results := scanner.ScanLine("console.log(user.name)", 0, "javascript", "main.js")
	assert.Len(t, results, 1)
}

func TestScanLine_CaseInsensitive(t *testing.T) {
	t.Parallel()

	scanner := scan.NewScanner(newTestStore(t, nullCheckPattern()))

	assert.Len(t, scanner.ScanLine("console.log(USER.NAME)", 0, "javascript", "main.js"), 1)
}

func TestScanLines_ResultsInLineOrder(t *testing.T) {
	t.Parallel()

	scanner := scan.NewScanner(newTestStore(t, nullCheckPattern()))

	lines := []string{
		"const a = 1;",
		"console.log(user.name)",
		"console.log(user?.name)",
		"return user.name;",
	}

	results := scanner.ScanLines(lines, "javascript", "main.js")

	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].LineNumber)
	assert.Equal(t, 3, results[1].LineNumber)
}

func TestScanLines_Idempotent(t *testing.T) {
	t.Parallel()

	scanner := scan.NewScanner(newTestStore(t, nullCheckPattern()))

	lines := []string{"console.log(user.name)"}

	first := scanner.ScanLines(lines, "javascript", "main.js")
	second := scanner.ScanLines(lines, "javascript", "main.js")

	assert.Equal(t, first, second)
}

func TestScanLine_EmptyStore(t *testing.T) {
	t.Parallel()

	scanner := scan.NewScanner(newTestStore(t))

	assert.Nil(t, scanner.ScanLine("console.log(user.name)", 0, "javascript", "main.js"))
}

func TestReason_OccurrenceAnnotations(t *testing.T) {
	t.Parallel()

	repeat := nullCheckPattern()
	repeat.OccurrenceCount = 3
	repeat.Commits = append(repeat.Commits,
		memory.CommitRef{SHA: "bbb222", File: "src/view.js"},
		memory.CommitRef{SHA: "ccc333", File: "src/app.js"},
	)

	scanner := scan.NewScanner(newTestStore(t, repeat))

	results := scanner.ScanLine("console.log(user.name)", 0, "javascript", "main.js")

	require.Len(t, results, 1)
	assert.Contains(t, results[0].Reason, "fixed 3 times")
	assert.Contains(t, results[0].Reason, "first in app.js")
}
