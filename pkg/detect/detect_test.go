package detect_test

import (
	"testing"

	"github.com/dlclark/regexp2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/fixhound/pkg/detect"
	"github.com/Sumatoshi-tech/fixhound/pkg/memory"
)

// compile builds a case-insensitive regexp2 matcher the way the scanner does.
func compile(t *testing.T, pattern string) *regexp2.Regexp {
	t.Helper()

	re, err := regexp2.Compile(pattern, regexp2.IgnoreCase)
	require.NoError(t, err)

	return re
}

func mustMatch(t *testing.T, re *regexp2.Regexp, line string) bool {
	t.Helper()

	ok, err := re.MatchString(line)
	require.NoError(t, err)

	return ok
}

func TestClassify_OffByOneLoop(t *testing.T) {
	t.Parallel()

	buggy := "for (let i = 0; i <= arr.length; i++) {"
	fixed := "for (let i = 0; i < arr.length; i++) {"

	r := detect.Classify(buggy, fixed, "javascript")

	require.NotNil(t, r)
	assert.Equal(t, memory.CategoryOffByOneLoop, r.Category)
	assert.Equal(t, 9, r.RiskBase)

	re := compile(t, r.Regex)
	assert.True(t, mustMatch(t, re, "for (let j = 0; j <= arr.length; j++) {"))
	assert.False(t, mustMatch(t, re, "for (let j = 0; j < arr.length; j++) {"))
}

func TestClassify_NullCheckMissing(t *testing.T) {
	t.Parallel()

	buggy := "return user.name;"
	fixed := "return user?.name ?? 'Unknown';"

	r := detect.Classify(buggy, fixed, "typescript")

	require.NotNil(t, r)
	assert.Equal(t, memory.CategoryNullCheckMissing, r.Category)
	assert.Equal(t, 8, r.RiskBase)

	re := compile(t, r.Regex)
	assert.True(t, mustMatch(t, re, "console.log(user.name)"))
	assert.False(t, mustMatch(t, re, "console.log(user?.name)"))
}

func TestClassify_MissingAwait(t *testing.T) {
	t.Parallel()

	buggy := "const data = fetchData(url);"
	fixed := "const data = await fetchData(url);"

	r := detect.Classify(buggy, fixed, "typescript")

	require.NotNil(t, r)
	assert.Equal(t, memory.CategoryMissingAwait, r.Category)
	assert.Equal(t, 7, r.RiskBase)

	re := compile(t, r.Regex)
	assert.True(t, mustMatch(t, re, "const out = fetchData(other);"))
	assert.False(t, mustMatch(t, re, "const out = await fetchData(other);"))
}

func TestClassify_MissingAwaitRequiresAsyncLanguage(t *testing.T) {
	t.Parallel()

	buggy := "data = fetch_data(url)"
	fixed := "data = await fetch_data(url)"

	assert.Nil(t, detect.Classify(buggy, fixed, "ruby"))
	assert.NotNil(t, detect.Classify(buggy, fixed, "python"))
}

func TestClassify_UndefinedAccess(t *testing.T) {
	t.Parallel()

	buggy := "const first = items[0].id;"
	fixed := "const first = items[0]?.id ?? null;"

	r := detect.Classify(buggy, fixed, "javascript")

	require.NotNil(t, r)
	assert.Equal(t, memory.CategoryUndefinedAccess, r.Category)
	assert.Equal(t, 7, r.RiskBase)

	re := compile(t, r.Regex)
	assert.True(t, mustMatch(t, re, "use(items[0].id)"))
	assert.False(t, mustMatch(t, re, "use(items[0]?.id)"))
}

func TestClassify_TypeCoercion(t *testing.T) {
	t.Parallel()

	buggy := "const count = value;"
	fixed := "const count = Number(value);"

	r := detect.Classify(buggy, fixed, "javascript")

	require.NotNil(t, r)
	assert.Equal(t, memory.CategoryTypeError, r.Category)
	assert.Equal(t, 5, r.RiskBase)

	re := compile(t, r.Regex)
	assert.True(t, mustMatch(t, re, "count = raw"))
	assert.False(t, mustMatch(t, re, "count = Number(raw)"))
}

func TestClassify_LooseEquality(t *testing.T) {
	t.Parallel()

	buggy := "if (status == 404) {"
	fixed := "if (status === 404) {"

	r := detect.Classify(buggy, fixed, "javascript")

	require.NotNil(t, r)
	assert.Equal(t, memory.CategoryLooseEquality, r.Category)
	assert.Equal(t, 5, r.RiskBase)

	re := compile(t, r.Regex)
	assert.True(t, mustMatch(t, re, "while (status == 404)"))
	assert.False(t, mustMatch(t, re, "while (status === 404)"))
}

func TestClassify_LooseInequality(t *testing.T) {
	t.Parallel()

	buggy := "if (kind != expected) {"
	fixed := "if (kind !== expected) {"

	r := detect.Classify(buggy, fixed, "javascript")

	require.NotNil(t, r)
	assert.Equal(t, memory.CategoryLooseEquality, r.Category)

	re := compile(t, r.Regex)
	assert.True(t, mustMatch(t, re, "if (kind != expected) return;"))
	assert.False(t, mustMatch(t, re, "if (kind !== expected) return;"))
}

func TestClassify_MissingErrorHandling(t *testing.T) {
	t.Parallel()

	buggy := "const config = JSON.parse(raw);"
	fixed := "try { config = JSON.parse(raw); } catch (e) {}"

	r := detect.Classify(buggy, fixed, "javascript")

	require.NotNil(t, r)
	assert.Equal(t, memory.CategoryMissingErrorHandling, r.Category)
	assert.Equal(t, 7, r.RiskBase)

	re := compile(t, r.Regex)
	assert.True(t, mustMatch(t, re, "settings = JSON.parse(body)"))
}

func TestClassify_MemoryLeak(t *testing.T) {
	t.Parallel()

	buggy := "setInterval(poll, 1000);"
	fixed := "const timer = setInterval(poll, 1000); // clearInterval on dispose"

	r := detect.Classify(buggy, fixed, "javascript")

	require.NotNil(t, r)
	assert.Equal(t, memory.CategoryMemoryLeak, r.Category)
	assert.Equal(t, 6, r.RiskBase)

	re := compile(t, r.Regex)
	assert.True(t, mustMatch(t, re, "setInterval(tick, 500)"))
}

func TestClassify_MemoryLeakSkipsRetainedHandle(t *testing.T) {
	t.Parallel()

	buggy := "const timer = setInterval(poll, 1000);"
	fixed := "const timer = setInterval(poll, 1000); clearInterval(old);"

	assert.Nil(t, detect.Classify(buggy, fixed, "javascript"))
}

func TestClassify_UnhandledPromise(t *testing.T) {
	t.Parallel()

	buggy := "loadUsers().then(render);"
	fixed := "loadUsers().then(render).catch(reportError);"

	r := detect.Classify(buggy, fixed, "javascript")

	require.NotNil(t, r)
	assert.Equal(t, memory.CategoryUnhandledPromise, r.Category)
	assert.Equal(t, 6, r.RiskBase)

	re := compile(t, r.Regex)
	assert.True(t, mustMatch(t, re, "loadUsers().then(update);"))
	assert.False(t, mustMatch(t, re, "loadUsers().then(update).catch(log);"))
}

func TestClassify_VarScoping(t *testing.T) {
	t.Parallel()

	buggy := "var index = 0;"
	fixed := "let index = 0;"

	r := detect.Classify(buggy, fixed, "javascript")

	require.NotNil(t, r)
	assert.Equal(t, memory.CategoryVarScoping, r.Category)
	assert.Equal(t, 4, r.RiskBase)

	re := compile(t, r.Regex)
	assert.True(t, mustMatch(t, re, "var index = 5;"))
	assert.False(t, mustMatch(t, re, "let index = 5;"))
}

func TestClassify_RaceCondition(t *testing.T) {
	t.Parallel()

	buggy := "this.counter += delta;"
	fixed := "this.mutex.runExclusive(() => { this.counter += delta; });"

	r := detect.Classify(buggy, fixed, "typescript")

	require.NotNil(t, r)
	assert.Equal(t, memory.CategoryRaceCondition, r.Category)
	assert.Equal(t, 7, r.RiskBase)

	re := compile(t, r.Regex)
	assert.True(t, mustMatch(t, re, "this.counter += 1"))
}

func TestClassify_NoMatchReturnsNil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, detect.Classify("const a = 1;", "const a = 2;", "javascript"))
	assert.Nil(t, detect.Classify("", "", "javascript"))
}

func TestClassify_FirstMatchWins(t *testing.T) {
	t.Parallel()

	// The fixed line both adds optional chaining and tightens equality.
	// Null-check has priority over loose-equality.
	buggy := "if (user.role == admin.role) {"
	fixed := "if (user?.role === admin?.role) {"

	r := detect.Classify(buggy, fixed, "typescript")

	require.NotNil(t, r)
	assert.Equal(t, memory.CategoryNullCheckMissing, r.Category)
}

func TestNames_PriorityOrder(t *testing.T) {
	t.Parallel()

	names := detect.Names()

	require.Len(t, names, 11)
	assert.Equal(t, "null-check", names[0])
	assert.Equal(t, "off-by-one-loop", names[1])
	assert.Equal(t, "race-condition", names[10])
}
