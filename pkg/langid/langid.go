// Package langid maps file names to the lowercase language tags used as
// pattern scoping keys, with the wildcard "unknown" as fallback.
package langid

import (
	"path"
	"strings"

	"github.com/src-d/enry/v2"
)

// Unknown is the wildcard language tag.
const Unknown = "unknown"

// tagOverrides maps enry language names whose lowered form differs from the
// tag the pattern store uses.
var tagOverrides = map[string]string{
	"TSX": "typescriptreact",
	"C++": "cpp",
	"C#":  "csharp",
	"F#":  "fsharp",
}

// Detect identifies the language tag for a file. Content may be nil; the
// extension usually decides. Undetectable files map to the wildcard.
func Detect(filename string, content []byte) string {
	lang := enry.GetLanguage(path.Base(filename), content)
	if lang == "" {
		return Unknown
	}

	if override, ok := tagOverrides[lang]; ok {
		return override
	}

	return strings.ReplaceAll(strings.ToLower(lang), " ", "")
}

// asyncCapable lists the script-style languages with an await keyword.
var asyncCapable = map[string]bool{
	"javascript":      true,
	"javascriptreact": true,
	"typescript":      true,
	"typescriptreact": true,
	"python":          true,
}

// AsyncCapable reports whether the language supports await on call
// expressions, gating the missing-await detector.
func AsyncCapable(lang string) bool {
	return asyncCapable[lang]
}
