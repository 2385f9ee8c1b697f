// Package check implements the two submission checks: index ordering and
// completeness against a reference index set. Both are pure functions of
// their inputs; printing is left to package report.
package check

import (
	"cmp"
	"slices"

	"github.com/ormasoftchile/subcheck/pkg/reference"
	"github.com/ormasoftchile/subcheck/pkg/submission"
)

// Violation locates the first index that is smaller than its predecessor.
type Violation struct {
	Line  int   `json:"line"`
	Prev  int64 `json:"prev"`
	Index int64 `json:"index"`
}

// OrderResult is the outcome of the ordering check.
type OrderResult struct {
	Source         string     `json:"source"`
	Entries        int        `json:"entries"`
	Ordered        bool       `json:"ordered"`
	FirstViolation *Violation `json:"first_violation,omitempty"`
}

// Order reports whether the submission's indices, in file order, are
// non-decreasing. An empty submission is ordered.
func Order(sub *submission.Submission) (*OrderResult, error) {
	indices, err := sub.Indices()
	if err != nil {
		return nil, err
	}

	sorted := slices.Clone(indices)
	slices.Sort(sorted)

	res := &OrderResult{
		Source:  sub.Path,
		Entries: len(indices),
		Ordered: slices.Equal(indices, sorted),
	}
	for i := 1; i < len(indices); i++ {
		if indices[i] < indices[i-1] {
			res.FirstViolation = &Violation{
				Line:  sub.Records[i].Line,
				Prev:  indices[i-1],
				Index: indices[i],
			}
			break
		}
	}
	return res, nil
}

// Duplicate is an index that occurs more than once in a submission.
type Duplicate struct {
	Index int64 `json:"index"`
	Count int   `json:"count"`
}

// CompletenessResult is the outcome of the completeness check. Missing,
// Extra and Duplicates are sorted by index.
type CompletenessResult struct {
	Source            string      `json:"source"`
	ReferenceSource   string      `json:"reference_source"`
	SubmissionLines   int         `json:"submission_lines"`
	SubmissionEntries int         `json:"submission_entries"` // unique indices
	ReferenceEntries  int         `json:"reference_entries"`
	Missing           []int64     `json:"missing"`
	Extra             []int64     `json:"extra"`
	Duplicates        []Duplicate `json:"duplicates,omitempty"`
}

// Complete reports whether nothing is missing and nothing is extra.
// Duplicates do not affect completeness.
func (r *CompletenessResult) Complete() bool {
	return len(r.Missing) == 0 && len(r.Extra) == 0
}

// Completeness computes reference minus submission (Missing) and
// submission minus reference (Extra) under set semantics.
func Completeness(sub *submission.Submission, ref *reference.Set) (*CompletenessResult, error) {
	indices, err := sub.Indices()
	if err != nil {
		return nil, err
	}

	counts := make(map[int64]int, len(indices))
	for _, idx := range indices {
		counts[idx]++
	}

	res := &CompletenessResult{
		Source:            sub.Path,
		ReferenceSource:   ref.Path,
		SubmissionLines:   len(indices),
		SubmissionEntries: len(counts),
		ReferenceEntries:  ref.Len(),
		Missing:           []int64{},
		Extra:             []int64{},
	}
	for _, idx := range ref.Indices {
		if _, ok := counts[idx]; !ok {
			res.Missing = append(res.Missing, idx)
		}
	}
	for idx, n := range counts {
		if !ref.Contains(idx) {
			res.Extra = append(res.Extra, idx)
		}
		if n > 1 {
			res.Duplicates = append(res.Duplicates, Duplicate{Index: idx, Count: n})
		}
	}
	slices.Sort(res.Extra)
	slices.SortFunc(res.Duplicates, func(a, b Duplicate) int {
		return cmp.Compare(a.Index, b.Index)
	})
	return res, nil
}
