// Package policy decides whether reported discrepancies should fail the
// run. The decision is a boolean expr-lang expression over the check
// counts, e.g. `missing > 0 || !ordered`.
package policy

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ormasoftchile/subcheck/pkg/check"
)

// Strict fails on any ordering or completeness discrepancy.
const Strict = "!ordered || missing > 0 || extra > 0"

// Policy is a compiled failure condition. A nil Policy never fails.
type Policy struct {
	source  string
	program *vm.Program
}

// Compile parses src. An empty src yields a nil Policy.
func Compile(src string) (*Policy, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, nil
	}
	program, err := expr.Compile(src, expr.Env(buildEnv(nil, nil)), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile fail_when %q: %w", src, err)
	}
	return &Policy{source: src, program: program}, nil
}

// String returns the expression source.
func (p *Policy) String() string {
	if p == nil {
		return ""
	}
	return p.source
}

// Fails evaluates the policy. Either result may be nil when that check did
// not run; its variables then hold passing values.
func (p *Policy) Fails(order *check.OrderResult, comp *check.CompletenessResult) (bool, error) {
	if p == nil {
		return false, nil
	}
	output, err := expr.Run(p.program, buildEnv(order, comp))
	if err != nil {
		return false, fmt.Errorf("eval fail_when %q: %w", p.source, err)
	}
	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("fail_when %q did not return bool (got %T: %v)", p.source, output, output)
	}
	return result, nil
}

// buildEnv exposes the check outcome to expressions:
//
//	ordered     bool  indices non-decreasing
//	entries     int   records in the submission
//	lines       int   same as entries; compare with unique to catch duplicates
//	unique      int   distinct submission indices
//	reference   int   distinct reference indices
//	missing     int   reference indices absent from the submission
//	extra       int   submission indices absent from the reference
//	duplicates  int   indices occurring more than once
func buildEnv(order *check.OrderResult, comp *check.CompletenessResult) map[string]any {
	env := map[string]any{
		"ordered":    true,
		"entries":    0,
		"lines":      0,
		"unique":     0,
		"reference":  0,
		"missing":    0,
		"extra":      0,
		"duplicates": 0,
	}
	if order != nil {
		env["ordered"] = order.Ordered
		env["entries"] = order.Entries
		env["lines"] = order.Entries
	}
	if comp != nil {
		env["entries"] = comp.SubmissionLines
		env["lines"] = comp.SubmissionLines
		env["unique"] = comp.SubmissionEntries
		env["reference"] = comp.ReferenceEntries
		env["missing"] = len(comp.Missing)
		env["extra"] = len(comp.Extra)
		env["duplicates"] = len(comp.Duplicates)
	}
	return env
}
