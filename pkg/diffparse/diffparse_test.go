package diffparse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/fixhound/pkg/diffparse"
)

func TestPairs_SingleReplacement(t *testing.T) {
	t.Parallel()

	patch := "@@ -1,3 +1,3 @@\n" +
		" function check(user) {\n" +
		"-  return user.name;\n" +
		"+  return user?.name ?? 'Unknown';\n" +
		" }\n"

	pairs := diffparse.Pairs(patch)

	require.Len(t, pairs, 1)
	assert.Equal(t, "  return user.name;", pairs[0].Buggy)
	assert.Equal(t, "  return user?.name ?? 'Unknown';", pairs[0].Fixed)
	assert.Equal(t, 2, pairs[0].Line)
}

func TestPairs_WithFileHeaders(t *testing.T) {
	t.Parallel()

	patch := "--- a/src/app.js\n" +
		"+++ b/src/app.js\n" +
		"@@ -10,2 +10,2 @@ function main\n" +
		"-var total = 0;\n" +
		"+let total = 0;\n" +
		" return total;\n"

	pairs := diffparse.Pairs(patch)

	require.Len(t, pairs, 1)
	assert.Equal(t, "var total = 0;", pairs[0].Buggy)
	assert.Equal(t, "let total = 0;", pairs[0].Fixed)
	assert.Equal(t, 10, pairs[0].Line)
}

func TestPairs_RemovalBlockPairsLastRemovedLine(t *testing.T) {
	t.Parallel()

	patch := "@@ -1,3 +1,2 @@\n" +
		"-first removed\n" +
		"-second removed\n" +
		"+the replacement\n" +
		" context\n"

	pairs := diffparse.Pairs(patch)

	require.Len(t, pairs, 1)
	assert.Equal(t, "second removed", pairs[0].Buggy)
	assert.Equal(t, "the replacement", pairs[0].Fixed)
	assert.Equal(t, 1, pairs[0].Line)
}

func TestPairs_OnlyFirstAddedLinePairs(t *testing.T) {
	t.Parallel()

	patch := "@@ -1,2 +1,3 @@\n" +
		"-old line\n" +
		"+new line one\n" +
		"+new line two\n" +
		" context\n"

	pairs := diffparse.Pairs(patch)

	require.Len(t, pairs, 1)
	assert.Equal(t, "old line", pairs[0].Buggy)
	assert.Equal(t, "new line one", pairs[0].Fixed)
}

func TestPairs_ContextResetsRemovalBlock(t *testing.T) {
	t.Parallel()

	patch := "@@ -1,2 +1,2 @@\n" +
		"-removed\n" +
		" context between\n" +
		"+added later\n"

	pairs := diffparse.Pairs(patch)

	assert.Empty(t, pairs)
}

func TestPairs_PureInsertionAndDeletion(t *testing.T) {
	t.Parallel()

	insertion := "@@ -1,1 +1,2 @@\n" +
		" context\n" +
		"+brand new line\n"

	deletion := "@@ -1,2 +1,1 @@\n" +
		" context\n" +
		"-dropped line\n"

	assert.Empty(t, diffparse.Pairs(insertion))
	assert.Empty(t, diffparse.Pairs(deletion))
}

func TestPairs_MultipleHunksResetCursor(t *testing.T) {
	t.Parallel()

	patch := "@@ -1,2 +1,2 @@\n" +
		"-alpha\n" +
		"+beta\n" +
		" context\n" +
		"@@ -20,2 +30,2 @@\n" +
		" context\n" +
		"-gamma\n" +
		"+delta\n"

	pairs := diffparse.Pairs(patch)

	require.Len(t, pairs, 2)
	assert.Equal(t, 1, pairs[0].Line)
	assert.Equal(t, 31, pairs[1].Line)
}

func TestPairs_NoNewlineMarkerDoesNotAdvanceCursor(t *testing.T) {
	t.Parallel()

	patch := "@@ -1,1 +1,1 @@\n" +
		"-old ending\n" +
		"\\ No newline at end of file\n" +
		"+new ending\n" +
		"\\ No newline at end of file\n"

	pairs := diffparse.Pairs(patch)

	require.Len(t, pairs, 1)
	assert.Equal(t, "old ending", pairs[0].Buggy)
	assert.Equal(t, "new ending", pairs[0].Fixed)
	assert.Equal(t, 1, pairs[0].Line)
}

func TestPairs_EmptyAndMalformedPatch(t *testing.T) {
	t.Parallel()

	assert.Empty(t, diffparse.Pairs(""))
	assert.Empty(t, diffparse.Pairs("\n\n"))
	assert.Empty(t, diffparse.Pairs("this is not a diff at all"))
	assert.Empty(t, diffparse.Pairs("@@ broken hunk header"))
}

func TestPairs_ConsecutiveReplacementsInOneHunk(t *testing.T) {
	t.Parallel()

	patch := "@@ -1,4 +1,4 @@\n" +
		" context\n" +
		"-one\n" +
		"+uno\n" +
		" context\n" +
		"-two\n" +
		"+dos\n"

	pairs := diffparse.Pairs(patch)

	require.Len(t, pairs, 2)
	assert.Equal(t, "one", pairs[0].Buggy)
	assert.Equal(t, "uno", pairs[0].Fixed)
	assert.Equal(t, 2, pairs[0].Line)
	assert.Equal(t, "two", pairs[1].Buggy)
	assert.Equal(t, "dos", pairs[1].Fixed)
	assert.Equal(t, 4, pairs[1].Line)
}
