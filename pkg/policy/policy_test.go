package policy

import (
	"strings"
	"testing"

	"github.com/ormasoftchile/subcheck/pkg/check"
)

func TestCompile_EmptyNeverFails(t *testing.T) {
	p, err := Compile("  ")
	if err != nil {
		t.Fatal(err)
	}
	if p != nil {
		t.Fatalf("expected nil policy, got %q", p)
	}
	fails, err := p.Fails(&check.OrderResult{Ordered: false}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if fails {
		t.Error("nil policy must never fail")
	}
}

func TestCompile_Invalid(t *testing.T) {
	for _, src := range []string{
		"missing >",
		"unknown_var > 0",
		"missing + 1", // not a bool
	} {
		if _, err := Compile(src); err == nil {
			t.Errorf("Compile(%q) expected error", src)
		}
	}
}

func TestFails_Strict(t *testing.T) {
	p, err := Compile(Strict)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name  string
		order *check.OrderResult
		comp  *check.CompletenessResult
		want  bool
	}{
		{"clean", &check.OrderResult{Ordered: true, Entries: 3}, &check.CompletenessResult{}, false},
		{"unordered", &check.OrderResult{Ordered: false}, nil, true},
		{"missing", nil, &check.CompletenessResult{Missing: []int64{4}}, true},
		{"extra", nil, &check.CompletenessResult{Extra: []int64{9}}, true},
		{"duplicates only", nil, &check.CompletenessResult{Duplicates: []check.Duplicate{{Index: 1, Count: 2}}}, false},
		{"nothing ran", nil, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Fails(tt.order, tt.comp)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Fails() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFails_CustomExpression(t *testing.T) {
	p, err := Compile("duplicates > 0 || unique < reference")
	if err != nil {
		t.Fatal(err)
	}
	comp := &check.CompletenessResult{SubmissionEntries: 2, ReferenceEntries: 3}
	got, err := p.Fails(nil, comp)
	if err != nil {
		t.Fatal(err)
	}
	if !got {
		t.Error("expected failure when unique < reference")
	}
	if !strings.Contains(p.String(), "duplicates") {
		t.Errorf("String() = %q", p.String())
	}
}

func TestFails_LinesAgainstUnique(t *testing.T) {
	p, err := Compile("lines > unique")
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name  string
		order *check.OrderResult
		comp  *check.CompletenessResult
		want  bool
	}{
		{"duplicate line", &check.OrderResult{Ordered: true, Entries: 2}, &check.CompletenessResult{SubmissionLines: 2, SubmissionEntries: 1}, true},
		{"distinct lines", nil, &check.CompletenessResult{SubmissionLines: 3, SubmissionEntries: 3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Fails(tt.order, tt.comp)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Fails() = %v, want %v", got, tt.want)
			}
		})
	}
}
