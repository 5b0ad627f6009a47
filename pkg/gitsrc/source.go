// Package gitsrc supplies commit objects with per-file patch text from a
// local git repository, implementing the commit-source collaborator side of
// the mining engine. It wraps libgit2.
package gitsrc

import (
	"errors"
	"fmt"

	git2go "github.com/libgit2/git2go/v34"

	"github.com/Sumatoshi-tech/fixhound/pkg/extract"
)

// ErrNoHead is returned when the repository has no resolvable HEAD.
var ErrNoHead = errors.New("repository has no HEAD")

// Source reads commits from a local git repository.
type Source struct {
	repo *git2go.Repository
	path string
}

// Open opens the repository at path.
func Open(path string) (*Source, error) {
	repo, err := git2go.OpenRepository(path)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	return &Source{repo: repo, path: path}, nil
}

// Path returns the repository path.
func (s *Source) Path() string {
	return s.path
}

// Free releases the repository resources.
func (s *Source) Free() {
	if s.repo != nil {
		s.repo.Free()
		s.repo = nil
	}
}

// Head returns the SHA of the current HEAD commit.
func (s *Source) Head() (string, error) {
	ref, err := s.repo.Head()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoHead, err)
	}
	defer ref.Free()

	return ref.Target().String(), nil
}

// WalkOptions bounds a history walk.
type WalkOptions struct {
	// Limit caps the number of commits returned; zero means no cap.
	Limit int
	// StopAt is an exclusive boundary SHA, typically the store bookmark.
	// The walk ends when it reaches this commit.
	StopAt string
}

// CommitsSince walks history from HEAD back to the boundary and returns the
// commits oldest-first, each with per-file unified patch text. Merge commits
// are skipped; their changes reappear on first-parent history.
func (s *Source) CommitsSince(opts WalkOptions) ([]extract.Commit, error) {
	walk, err := s.repo.Walk()
	if err != nil {
		return nil, fmt.Errorf("create revwalk: %w", err)
	}
	defer walk.Free()

	err = walk.PushHead()
	if err != nil {
		return nil, fmt.Errorf("push HEAD to revwalk: %w", err)
	}

	walk.Sorting(git2go.SortTopological | git2go.SortTime)

	var (
		commits []extract.Commit
		iterErr error
	)

	err = walk.Iterate(func(commit *git2go.Commit) bool {
		defer commit.Free()

		sha := commit.Id().String()
		if opts.StopAt != "" && sha == opts.StopAt {
			return false
		}

		if opts.Limit > 0 && len(commits) >= opts.Limit {
			return false
		}

		if commit.ParentCount() > 1 {
			return true
		}

		materialized, merr := s.materialize(commit)
		if merr != nil {
			iterErr = merr

			return false
		}

		commits = append(commits, materialized)

		return true
	})
	if err != nil {
		return nil, fmt.Errorf("revwalk iterate: %w", err)
	}

	if iterErr != nil {
		return nil, iterErr
	}

	reverse(commits)

	return commits, nil
}

// materialize converts one libgit2 commit into the collaborator contract,
// diffing against the first parent (or the empty tree for root commits).
func (s *Source) materialize(commit *git2go.Commit) (extract.Commit, error) {
	sig := commit.Author()

	out := extract.Commit{
		SHA:     commit.Id().String(),
		Message: commit.Message(),
		Author: extract.Author{
			Name: sig.Name,
			Date: sig.When,
		},
	}

	files, err := s.changedFiles(commit)
	if err != nil {
		return extract.Commit{}, err
	}

	out.Files = files

	return out, nil
}

func (s *Source) changedFiles(commit *git2go.Commit) ([]extract.File, error) {
	newTree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("get commit tree: %w", err)
	}
	defer newTree.Free()

	var oldTree *git2go.Tree

	if commit.ParentCount() > 0 {
		parent := commit.Parent(0)
		defer parent.Free()

		oldTree, err = parent.Tree()
		if err != nil {
			return nil, fmt.Errorf("get parent tree: %w", err)
		}
		defer oldTree.Free()
	}

	diffOpts, err := git2go.DefaultDiffOptions()
	if err != nil {
		return nil, fmt.Errorf("default diff options: %w", err)
	}

	diff, err := s.repo.DiffTreeToTree(oldTree, newTree, &diffOpts)
	if err != nil {
		return nil, fmt.Errorf("diff trees: %w", err)
	}
	defer diff.Free()

	numDeltas, err := diff.NumDeltas()
	if err != nil {
		return nil, fmt.Errorf("count deltas: %w", err)
	}

	files := make([]extract.File, 0, numDeltas)

	for i := range numDeltas {
		delta, err := diff.Delta(i)
		if err != nil {
			return nil, fmt.Errorf("read delta: %w", err)
		}

		file := extract.File{Filename: delta.NewFile.Path}
		if file.Filename == "" {
			file.Filename = delta.OldFile.Path
		}

		// Binary files carry no textual patch.
		if delta.Flags&git2go.DiffFlagBinary == 0 {
			patch, err := diff.Patch(i)
			if err != nil {
				return nil, fmt.Errorf("read patch: %w", err)
			}

			text, err := patch.String()

			freeErr := patch.Free()
			if err != nil {
				return nil, fmt.Errorf("render patch: %w", err)
			}

			if freeErr != nil {
				return nil, fmt.Errorf("free patch: %w", freeErr)
			}

			file.Patch = text
		}

		files = append(files, file)
	}

	return files, nil
}

func reverse(commits []extract.Commit) {
	for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
		commits[i], commits[j] = commits[j], commits[i]
	}
}
