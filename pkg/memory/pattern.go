// Package memory owns the durable collection of mined bug patterns: the
// pattern and store types, merge semantics, and language-scoped queries.
package memory

import "time"

// WildcardLanguage is the language tag that matches any scan language.
const WildcardLanguage = "unknown"

// Category classifies a mined bug pattern. The set is closed and wire-stable.
type Category string

// All pattern categories.
const (
	CategoryNullCheckMissing     Category = "null_check_missing"
	CategoryOffByOneLoop         Category = "off_by_one_loop"
	CategoryMissingAwait         Category = "missing_await"
	CategoryUndefinedAccess      Category = "undefined_access"
	CategoryRaceCondition        Category = "race_condition"
	CategoryMemoryLeak           Category = "memory_leak"
	CategoryTypeError            Category = "type_error"
	CategoryLogicError           Category = "logic_error"
	CategoryLooseEquality        Category = "loose_equality"
	CategoryMissingErrorHandling Category = "missing_error_handling"
	CategoryUnhandledPromise     Category = "unhandled_promise"
	CategoryVarScoping           Category = "var_scoping"
	CategoryOther                Category = "other"
)

// Categories lists every valid category in wire order.
var Categories = []Category{
	CategoryNullCheckMissing,
	CategoryOffByOneLoop,
	CategoryMissingAwait,
	CategoryUndefinedAccess,
	CategoryRaceCondition,
	CategoryMemoryLeak,
	CategoryTypeError,
	CategoryLogicError,
	CategoryLooseEquality,
	CategoryMissingErrorHandling,
	CategoryUnhandledPromise,
	CategoryVarScoping,
	CategoryOther,
}

// Valid reports whether c is a member of the closed category enumeration.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}

	return false
}

// CommitRef records one historical observation of a pattern's fix.
type CommitRef struct {
	SHA     string `json:"sha"`
	File    string `json:"file"`
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// BugPattern is a mined single-line bug-fix idiom.
type BugPattern struct {
	ID              string      `json:"id"`
	Language        string      `json:"language"`
	Regex           string      `json:"regex"`
	Category        Category    `json:"category"`
	RiskBase        int         `json:"risk_base"`
	Commits         []CommitRef `json:"commits"`
	OccurrenceCount int         `json:"occurrence_count"`
	BuggyExample    string      `json:"buggy_example"`
	FixedExample    string      `json:"fixed_example"`
}

// Key is the identity key for pattern deduplication. Two patterns with equal
// regex and category are the same entity and must be merged, never duplicated.
type Key struct {
	Regex    string
	Category Category
}

// Key returns the pattern's identity key.
func (p *BugPattern) Key() Key {
	return Key{Regex: p.Regex, Category: p.Category}
}

// CommitSHAs returns the SHAs of every commit referencing this pattern,
// in observation order. Duplicates are preserved.
func (p *BugPattern) CommitSHAs() []string {
	shas := make([]string, 0, len(p.Commits))
	for _, c := range p.Commits {
		shas = append(shas, c.SHA)
	}

	return shas
}

// BugMemory is the persisted pattern repository document.
type BugMemory struct {
	Version        int           `json:"version"`
	GeneratedAt    time.Time     `json:"generated_at"`
	LastScannedSHA string        `json:"last_scanned_sha,omitempty"`
	Patterns       []*BugPattern `json:"patterns"`
}
