package detect

import (
	"regexp"
	"strings"

	"github.com/Sumatoshi-tech/fixhound/pkg/langid"
	"github.com/Sumatoshi-tech/fixhound/pkg/memory"
)

// Baseline severities per detector.
const (
	riskNullCheck     = 8
	riskOffByOne      = 9
	riskMissingAwait  = 7
	riskUndefined     = 7
	riskTypeCoercion  = 5
	riskLooseEquality = 5
	riskErrorHandling = 7
	riskMemoryLeak    = 6
	riskPromise       = 6
	riskVarScoping    = 4
	riskRace          = 7
)

// Trigger-side expressions. These run against the raw line pair and stay
// within RE2 syntax; only the synthesized output patterns use lookarounds.
var (
	propertyAccessRe = regexp.MustCompile(`[A-Za-z_$][\w$]*\.[A-Za-z_$][\w$]*`)
	nullIfGuardRe    = regexp.MustCompile(`if\s*\(.*\b(null|undefined)\b`)
	lengthBoundRe    = regexp.MustCompile(`<=\s*([A-Za-z_$][\w$]*)\.length\b`)
	awaitedCallRe    = regexp.MustCompile(`\bawait\s+([A-Za-z_$][\w$.]*)\s*\(`)
	indexAccessRe    = regexp.MustCompile(`[A-Za-z_$][\w$]*\[[\w$'"]+\]`)
	castCallRe       = regexp.MustCompile(`\b(Number|String|Boolean|parseInt|parseFloat)\s*\(`)
	assignRe         = regexp.MustCompile(`([A-Za-z_$][\w$]*)\s*=[^=]`)
	looseEqRe        = regexp.MustCompile(`([A-Za-z_$][\w$.\[\]'"]*)\s*(==|!=)\s*([^\s;{}]+)`)
	tryCatchRe       = regexp.MustCompile(`\btry\b|\bcatch\b`)
	jsonParseRe      = regexp.MustCompile(`JSON\.parse\s*\(`)
	fetchCallRe      = regexp.MustCompile(`\bfetch\s*\(`)
	bodyReadRe       = regexp.MustCompile(`([A-Za-z_$][\w$]*)\.(json|text|arrayBuffer)\s*\(`)
	timerRe          = regexp.MustCompile(`\b(setInterval|setTimeout)\s*\(`)
	listenerRe       = regexp.MustCompile(`([A-Za-z_$][\w$.]*)\.addEventListener\s*\(`)
	subscribeRe      = regexp.MustCompile(`([A-Za-z_$][\w$.]*)\.(subscribe|watch)\s*\(`)
	thenCallRe       = regexp.MustCompile(`\.then\s*\(`)
	chainBaseRe      = regexp.MustCompile(`([A-Za-z_$][\w$]*)\S*\.then\s*\(`)
	varDeclRe        = regexp.MustCompile(`\bvar\s+([A-Za-z_$][\w$]*)`)
	syncTokenRe      = regexp.MustCompile(`(?i)\block\b|mutex|synchronized|\batomic|semaphore|acquire`)
	sharedMutationRe = regexp.MustCompile(`((?:this|[A-Za-z_$][\w$]*)\.[A-Za-z_$][\w$]*)\s*(\+\+|--|[+\-*/|&^]?=)`)
)

// Cleanup calls that release a recurring resource.
var cleanupTokens = []string{
	"clearInterval", "clearTimeout", "removeEventListener",
	"unsubscribe", "dispose", "close", "cancel", "disconnect",
}

func hasNullGuard(line string) bool {
	return strings.Contains(line, "?.") ||
		strings.Contains(line, "&&") ||
		nullIfGuardRe.MatchString(line)
}

// detectNullCheck fires when the fixed line adds optional chaining, a
// boolean short-circuit, or an if guard mentioning null/undefined that the
// buggy line lacks, and the buggy line dereferences a property.
func detectNullCheck(buggy, fixed, _ string) *Result {
	if !hasNullGuard(fixed) || hasNullGuard(buggy) {
		return nil
	}

	access := propertyAccessRe.FindString(buggy)
	if access == "" {
		return nil
	}

	return &Result{
		Regex:    regexp.QuoteMeta(access) + `(?!\?)`,
		Category: memory.CategoryNullCheckMissing,
		RiskBase: riskNullCheck,
	}
}

// detectOffByOne fires when a `<=` comparison against a .length bound is
// replaced with strict `<` on the same bound.
func detectOffByOne(buggy, fixed, _ string) *Result {
	m := lengthBoundRe.FindStringSubmatch(buggy)
	if m == nil {
		return nil
	}

	bound := m[1]

	strictRe, err := regexp.Compile(`<\s*` + regexp.QuoteMeta(bound) + `\.length`)
	if err != nil || !strictRe.MatchString(fixed) {
		return nil
	}

	return &Result{
		Regex:    `for\s*\([^)]*<=\s*` + regexp.QuoteMeta(bound) + `\.length`,
		Category: memory.CategoryOffByOneLoop,
		RiskBase: riskOffByOne,
	}
}

// detectMissingAwait fires for async-capable languages when the fixed line
// awaits a call the buggy line invoked bare.
func detectMissingAwait(buggy, fixed, lang string) *Result {
	if !langid.AsyncCapable(lang) {
		return nil
	}

	if strings.Contains(buggy, "await") {
		return nil
	}

	m := awaitedCallRe.FindStringSubmatch(fixed)
	if m == nil {
		return nil
	}

	name := m[1]

	callRe, err := regexp.Compile(`\b` + regexp.QuoteMeta(name) + `\s*\(`)
	if err != nil || !callRe.MatchString(buggy) {
		return nil
	}

	return &Result{
		Regex:    `(?<!await\s)\b` + regexp.QuoteMeta(name) + `\s*\(`,
		Category: memory.CategoryMissingAwait,
		RiskBase: riskMissingAwait,
	}
}

func addsIndexGuard(line string) bool {
	return strings.Contains(line, "?.[") ||
		strings.Contains(line, "&&") ||
		strings.Contains(line, "??") ||
		strings.Contains(line, "undefined")
}

// detectUndefinedAccess fires when an unguarded container[index] access
// gains guarded indexing or a boolean short-circuit in the fix.
func detectUndefinedAccess(buggy, fixed, _ string) *Result {
	access := indexAccessRe.FindString(buggy)
	if access == "" || addsIndexGuard(buggy) {
		return nil
	}

	if !addsIndexGuard(fixed) {
		return nil
	}

	return &Result{
		Regex:    regexp.QuoteMeta(access) + `(?!\?)`,
		Category: memory.CategoryUndefinedAccess,
		RiskBase: riskUndefined,
	}
}

// castAddedIn returns the cast or type-check keyword the fixed line
// introduces, or the empty string.
func castAddedIn(fixed, buggy string) string {
	m := castCallRe.FindStringSubmatch(fixed)
	if m != nil && !strings.Contains(buggy, m[1]+"(") {
		return m[1]
	}

	if strings.Contains(fixed, "typeof") && !strings.Contains(buggy, "typeof") {
		return "typeof"
	}

	return ""
}

// detectTypeCoercion fires when the fixed line adds an explicit cast or a
// runtime type check around an assignment's right-hand side.
func detectTypeCoercion(buggy, fixed, _ string) *Result {
	assign := assignRe.FindStringSubmatch(buggy)
	if assign == nil {
		return nil
	}

	cast := castAddedIn(fixed, buggy)
	if cast == "" {
		return nil
	}

	exclusion := regexp.QuoteMeta(cast) + `\s*\(`
	if cast == "typeof" {
		exclusion = `typeof\b`
	}

	// The whitespace belongs inside the lookahead; otherwise a backtracking
	// engine shrinks the quantifier past it.
	return &Result{
		Regex:    `\b` + regexp.QuoteMeta(assign[1]) + `\s*=(?!\s*` + exclusion + `)`,
		Category: memory.CategoryTypeError,
		RiskBase: riskTypeCoercion,
	}
}

// detectLooseEquality fires when a non-strict equality operator becomes
// strict in the fix. The synthesized template anchors both operands.
func detectLooseEquality(buggy, fixed, _ string) *Result {
	if !strings.Contains(fixed, "===") && !strings.Contains(fixed, "!==") {
		return nil
	}

	idx := looseEqRe.FindStringSubmatchIndex(buggy)
	if idx == nil {
		return nil
	}

	opStart, opEnd := idx[4], idx[5]

	// Reject operators that are part of a strict or relational form.
	if opEnd < len(buggy) && buggy[opEnd] == '=' {
		return nil
	}

	if opStart > 0 && strings.ContainsRune("=!<>", rune(buggy[opStart-1])) {
		return nil
	}

	left := buggy[idx[2]:idx[3]]
	right := buggy[idx[6]:idx[7]]

	opTemplate := `(?<![=!])==(?!=)`
	if buggy[opStart:opEnd] == "!=" {
		opTemplate = `!=(?!=)`
	}

	return &Result{
		Regex:    regexp.QuoteMeta(left) + `\s*` + opTemplate + `\s*` + regexp.QuoteMeta(right),
		Category: memory.CategoryLooseEquality,
		RiskBase: riskLooseEquality,
	}
}

// detectMissingErrorHandling fires when exception-handling syntax appears
// around a risky call (parse, fetch, response-body read) in the fix.
func detectMissingErrorHandling(buggy, fixed, _ string) *Result {
	if !tryCatchRe.MatchString(fixed) || tryCatchRe.MatchString(buggy) {
		return nil
	}

	var template string

	switch {
	case jsonParseRe.MatchString(buggy):
		template = `JSON\.parse\s*\(`
	case fetchCallRe.MatchString(buggy):
		template = `\bfetch\s*\(`
	default:
		m := bodyReadRe.FindStringSubmatch(buggy)
		if m == nil {
			return nil
		}

		template = regexp.QuoteMeta(m[1]+"."+m[2]) + `\s*\(`
	}

	return &Result{
		Regex:    template,
		Category: memory.CategoryMissingErrorHandling,
		RiskBase: riskErrorHandling,
	}
}

func addsCleanup(fixed, buggy string) bool {
	for _, token := range cleanupTokens {
		if strings.Contains(fixed, token) && !strings.Contains(buggy, token) {
			return true
		}
	}

	return false
}

// detectMemoryLeak fires when the buggy line allocates a recurring resource
// without retaining a handle and the fix adds a cleanup call.
func detectMemoryLeak(buggy, fixed, _ string) *Result {
	if !addsCleanup(fixed, buggy) {
		return nil
	}

	var (
		template string
		start    int
	)

	switch {
	case timerRe.MatchString(buggy):
		m := timerRe.FindStringSubmatchIndex(buggy)
		start = m[0]
		template = `\b` + buggy[m[2]:m[3]] + `\s*\(`
	case listenerRe.MatchString(buggy):
		m := listenerRe.FindStringSubmatchIndex(buggy)
		start = m[0]
		template = regexp.QuoteMeta(buggy[m[2]:m[3]]) + `\.addEventListener\s*\(`
	case subscribeRe.MatchString(buggy):
		m := subscribeRe.FindStringSubmatchIndex(buggy)
		start = m[0]
		template = regexp.QuoteMeta(buggy[m[2]:m[3]]+"."+buggy[m[4]:m[5]]) + `\s*\(`
	default:
		return nil
	}

	// A handle assignment before the allocation means cleanup is possible.
	if strings.Contains(buggy[:start], "=") {
		return nil
	}

	return &Result{
		Regex:    template,
		Category: memory.CategoryMemoryLeak,
		RiskBase: riskMemoryLeak,
	}
}

// detectUnhandledPromise fires when a .then chain gains a rejection handler.
func detectUnhandledPromise(buggy, fixed, _ string) *Result {
	if !thenCallRe.MatchString(buggy) || strings.Contains(buggy, ".catch") {
		return nil
	}

	if !strings.Contains(fixed, ".catch") {
		return nil
	}

	m := chainBaseRe.FindStringSubmatch(buggy)
	if m == nil {
		return nil
	}

	return &Result{
		Regex:    `\b` + regexp.QuoteMeta(m[1]) + `\S*\.then\s*\((?!.*\.catch)`,
		Category: memory.CategoryUnhandledPromise,
		RiskBase: riskPromise,
	}
}

// detectVarScoping fires when a function-scoped var declaration becomes
// block-scoped (let/const) in the fix.
func detectVarScoping(buggy, fixed, _ string) *Result {
	m := varDeclRe.FindStringSubmatch(buggy)
	if m == nil {
		return nil
	}

	name := m[1]

	blockRe, err := regexp.Compile(`\b(let|const)\s+` + regexp.QuoteMeta(name) + `\b`)
	if err != nil || !blockRe.MatchString(fixed) {
		return nil
	}

	return &Result{
		Regex:    `\bvar\s+` + regexp.QuoteMeta(name) + `\b`,
		Category: memory.CategoryVarScoping,
		RiskBase: riskVarScoping,
	}
}

// detectRaceCondition fires when the fix introduces synchronization around a
// shared-state mutation the buggy line performed unguarded.
func detectRaceCondition(buggy, fixed, _ string) *Result {
	if !syncTokenRe.MatchString(fixed) || syncTokenRe.MatchString(buggy) {
		return nil
	}

	idx := sharedMutationRe.FindStringSubmatchIndex(buggy)
	if idx == nil {
		return nil
	}

	opEnd := idx[5]
	if opEnd <= len(buggy) && buggy[opEnd-1] == '=' && opEnd < len(buggy) && buggy[opEnd] == '=' {
		return nil
	}

	field := buggy[idx[2]:idx[3]]

	return &Result{
		Regex:    regexp.QuoteMeta(field) + `\s*(?:\+\+|--|[+\-*/]?=(?!=))`,
		Category: memory.CategoryRaceCondition,
		RiskBase: riskRace,
	}
}
