package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/ormasoftchile/subcheck/pkg/check"
)

func TestText_OrderOrdered(t *testing.T) {
	var buf bytes.Buffer
	r := NewText(&buf, 0)
	if err := r.Order(&check.OrderResult{Source: "data/submission.json", Entries: 4, Ordered: true}); err != nil {
		t.Fatal(err)
	}
	want := "✓ Number of entries in submission.json: 4\n✓ Indices are in ascending order.\n"
	if got := buf.String(); got != want {
		t.Errorf("output:\n%s\nwant:\n%s", got, want)
	}
}

func TestText_OrderNotOrdered(t *testing.T) {
	var buf bytes.Buffer
	r := NewText(&buf, 0)
	err := r.Order(&check.OrderResult{
		Source:         "submission.json",
		Entries:        3,
		FirstViolation: &check.Violation{Line: 2, Prev: 3, Index: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "⚠ Indices are NOT in ascending order.") {
		t.Errorf("missing warning line:\n%s", out)
	}
	if !strings.Contains(out, "line 2: index 1 follows 3") {
		t.Errorf("missing violation detail:\n%s", out)
	}
}

func TestText_CompletenessComplete(t *testing.T) {
	var buf bytes.Buffer
	r := NewText(&buf, 0)
	err := r.Completeness(&check.CompletenessResult{
		SubmissionLines:   3,
		SubmissionEntries: 3,
		ReferenceEntries:  3,
	})
	if err != nil {
		t.Fatal(err)
	}
	want := "✓ Submission entries: 3\n✓ Eval entries: 3\n✓ No missing indices\n✓ No extra indices\n"
	if got := buf.String(); got != want {
		t.Errorf("output:\n%s\nwant:\n%s", got, want)
	}
}

func TestText_CompletenessDiscrepancies(t *testing.T) {
	var buf bytes.Buffer
	r := NewText(&buf, 0)
	err := r.Completeness(&check.CompletenessResult{
		SubmissionLines:   5,
		SubmissionEntries: 4,
		ReferenceEntries:  5,
		Missing:           []int64{4, 5},
		Extra:             []int64{9},
		Duplicates:        []check.Duplicate{{Index: 1, Count: 2}},
	})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"✗ Missing index(es): {4, 5}",
		"✗ Extra/unexpected index(es): {9}",
		"⚠ Duplicate index(es) across 5 lines: {1 (x2)}",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatSet(t *testing.T) {
	items := formatInts([]int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})

	if got := formatSet(items, 0); got != "{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}" {
		t.Errorf("unbounded = %q", got)
	}
	if got := formatSet(items[:2], 20); got != "{1, 2}" {
		t.Errorf("fits = %q", got)
	}

	got := formatSet(items, 20)
	if w := runewidth.StringWidth(got); w > 20 {
		t.Errorf("%q is %d cells wide, want <= 20", got, w)
	}
	if !strings.HasPrefix(got, "{1, 2, ") || !strings.HasSuffix(got, " more}") {
		t.Errorf("truncated = %q", got)
	}
}

func TestFormatSet_TooNarrowKeepsMarker(t *testing.T) {
	got := formatSet(formatInts([]int64{100000, 200000}), 5)
	if !strings.Contains(got, "+2 more") {
		t.Errorf("got %q, want the omitted count", got)
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSON(&buf)
	if err := r.Order(&check.OrderResult{Source: "s.json", Entries: 2, Ordered: true}); err != nil {
		t.Fatal(err)
	}
	if err := r.Completeness(&check.CompletenessResult{Missing: []int64{3}, Extra: []int64{}}); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 JSON lines, got %d:\n%s", len(lines), buf.String())
	}

	var order map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &order); err != nil {
		t.Fatal(err)
	}
	if order["check"] != "order" || order["ordered"] != true || order["entries"] != float64(2) {
		t.Errorf("order object = %v", order)
	}

	var comp map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &comp); err != nil {
		t.Fatal(err)
	}
	if comp["check"] != "completeness" || comp["complete"] != false {
		t.Errorf("completeness object = %v", comp)
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	if _, err := New("text", &buf, 0); err != nil {
		t.Error(err)
	}
	if _, err := New("json", &buf, 0); err != nil {
		t.Error(err)
	}
	if _, err := New("yaml", &buf, 0); err == nil {
		t.Error("expected error for unknown format")
	}
}
