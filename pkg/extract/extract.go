// Package extract drives pattern mining over commit objects: diff analysis
// per changed file, heuristic classification, and pattern construction.
//
// The commit types here are the collaborator contract; the extractor never
// fetches commits itself.
package extract

import (
	"strings"
	"time"

	"github.com/Sumatoshi-tech/fixhound/pkg/detect"
	"github.com/Sumatoshi-tech/fixhound/pkg/diffparse"
	"github.com/Sumatoshi-tech/fixhound/pkg/langid"
	"github.com/Sumatoshi-tech/fixhound/pkg/memory"
)

// Author identifies a commit author.
type Author struct {
	Name string
	Date time.Time
}

// File is one changed file in a commit. Patch may be empty when the change
// carries no textual diff (binary files, renames without edits).
type File struct {
	Filename string
	Patch    string
}

// Commit is the commit-source collaborator contract.
type Commit struct {
	SHA     string
	Message string
	Author  Author
	Files   []File
}

// Extractor mines bug patterns from commits.
type Extractor struct {
	ids memory.IDSource
}

// NewExtractor creates an extractor minting pattern IDs from ids.
func NewExtractor(ids memory.IDSource) *Extractor {
	return &Extractor{ids: ids}
}

// FromCommit extracts zero or more patterns from one commit. Files without
// patch text contribute nothing.
func (e *Extractor) FromCommit(c Commit) []*memory.BugPattern {
	var patterns []*memory.BugPattern

	for _, f := range c.Files {
		if f.Patch == "" {
			continue
		}

		lang := langid.Detect(f.Filename, nil)

		for _, pair := range diffparse.Pairs(f.Patch) {
			skeleton := detect.Classify(pair.Buggy, pair.Fixed, lang)
			if skeleton == nil {
				continue
			}

			patterns = append(patterns, &memory.BugPattern{
				ID:              e.ids.NewID(),
				Language:        lang,
				Regex:           skeleton.Regex,
				Category:        skeleton.Category,
				RiskBase:        skeleton.RiskBase,
				OccurrenceCount: 1,
				Commits: []memory.CommitRef{{
					SHA:     c.SHA,
					File:    f.Filename,
					Line:    pair.Line,
					Message: summaryLine(c.Message),
				}},
				BuggyExample: pair.Buggy,
				FixedExample: pair.Fixed,
			})
		}
	}

	return patterns
}

// FromCommits extracts patterns from a commit sequence in order.
func (e *Extractor) FromCommits(commits []Commit) []*memory.BugPattern {
	var patterns []*memory.BugPattern

	for _, c := range commits {
		patterns = append(patterns, e.FromCommit(c)...)
	}

	return patterns
}

// summaryLine returns the first line of a commit message.
func summaryLine(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		return strings.TrimSpace(message[:i])
	}

	return strings.TrimSpace(message)
}
