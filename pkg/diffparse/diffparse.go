// Package diffparse turns one file's unified-diff patch text into an ordered
// sequence of (buggy line, fixed line, line number) candidate pairs.
//
// The pairing is a single-line-replacement heuristic: consecutive removed
// lines are buffered, and the first added line after a non-empty removal
// block pairs with the last buffered removed line. Multi-line reorders, pure
// insertions, and pure deletions never produce a pair.
package diffparse

import (
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// Pair is a candidate bug-fix line pair extracted from a diff hunk.
type Pair struct {
	// Buggy is the removed line, without its diff prefix.
	Buggy string
	// Fixed is the added line, without its diff prefix.
	Fixed string
	// Line is the 1-based line number of the added line in the new file.
	Line int
}

// Pairs extracts candidate pairs from patch text. The text may carry full
// file headers (git or unified format) or start directly at a hunk header,
// as the patch strings served by commit APIs do. Missing, empty, or
// malformed patch text yields no pairs; Pairs never fails.
func Pairs(patch string) []Pair {
	hunks := parseHunks(patch)
	if len(hunks) == 0 {
		return nil
	}

	var pairs []Pair

	for _, hunk := range hunks {
		pairs = appendHunkPairs(pairs, hunk)
	}

	return pairs
}

func parseHunks(patch string) []*diff.Hunk {
	trimmed := strings.TrimLeft(patch, "\r\n")
	if trimmed == "" {
		return nil
	}

	if strings.HasPrefix(trimmed, "@@") {
		hunks, err := diff.ParseHunks([]byte(trimmed))
		if err != nil {
			return nil
		}

		return hunks
	}

	fileDiff, err := diff.ParseFileDiff([]byte(trimmed))
	if err != nil {
		return nil
	}

	return fileDiff.Hunks
}

// appendHunkPairs runs the removal-block cursor over one hunk body.
// The cursor tracks new-file line numbers: added and context lines advance
// it, removed lines do not, and no-newline markers leave it untouched.
func appendHunkPairs(pairs []Pair, hunk *diff.Hunk) []Pair {
	cursor := int(hunk.NewStartLine)

	var removal []string

	lines := strings.Split(string(hunk.Body), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, `\`):
			// "\ No newline at end of file" does not advance the cursor.
		case strings.HasPrefix(line, "-"):
			removal = append(removal, line[1:])
		case strings.HasPrefix(line, "+"):
			if len(removal) > 0 {
				pairs = append(pairs, Pair{
					Buggy: removal[len(removal)-1],
					Fixed: line[1:],
					Line:  cursor,
				})
				removal = nil
			}

			cursor++
		default:
			// Context line: resets the removal block without pairing.
			removal = nil
			cursor++
		}
	}

	return pairs
}
