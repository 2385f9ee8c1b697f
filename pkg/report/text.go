package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/ormasoftchile/subcheck/pkg/check"
)

// Status glyphs, readable without colour.
const (
	GlyphOK   = "✓"
	GlyphWarn = "⚠"
	GlyphFail = "✗"
)

// Text writes human-readable status lines. Glyphs are coloured only when
// w is a terminal.
type Text struct {
	w     io.Writer
	width int

	okStyle   lipgloss.Style
	warnStyle lipgloss.Style
	failStyle lipgloss.Style
	dimStyle  lipgloss.Style
}

// NewText returns a text reporter writing to w.
func NewText(w io.Writer, width int) *Text {
	r := lipgloss.NewRenderer(w)
	return &Text{
		w:         w,
		width:     width,
		okStyle:   r.NewStyle().Foreground(lipgloss.Color("42")),
		warnStyle: r.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		failStyle: r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		dimStyle:  r.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

func (t *Text) Order(res *check.OrderResult) error {
	if err := t.line(GlyphOK, "Number of entries in %s: %d", displayName(res.Source), res.Entries); err != nil {
		return err
	}
	if res.Ordered {
		return t.line(GlyphOK, "Indices are in ascending order.")
	}
	if err := t.line(GlyphWarn, "Indices are NOT in ascending order."); err != nil {
		return err
	}
	if v := res.FirstViolation; v != nil {
		return t.detail("first decrease at line %d: index %d follows %d", v.Line, v.Index, v.Prev)
	}
	return nil
}

func (t *Text) Completeness(res *check.CompletenessResult) error {
	if err := t.line(GlyphOK, "Submission entries: %d", res.SubmissionEntries); err != nil {
		return err
	}
	if err := t.line(GlyphOK, "Eval entries: %d", res.ReferenceEntries); err != nil {
		return err
	}

	if len(res.Duplicates) > 0 {
		items := make([]string, len(res.Duplicates))
		for i, d := range res.Duplicates {
			items[i] = fmt.Sprintf("%d (x%d)", d.Index, d.Count)
		}
		if err := t.line(GlyphWarn, "Duplicate index(es) across %d lines: %s", res.SubmissionLines, t.set(items)); err != nil {
			return err
		}
	}

	var err error
	if len(res.Missing) > 0 {
		err = t.line(GlyphFail, "Missing index(es): %s", t.set(formatInts(res.Missing)))
	} else {
		err = t.line(GlyphOK, "No missing indices")
	}
	if err != nil {
		return err
	}

	if len(res.Extra) > 0 {
		return t.line(GlyphFail, "Extra/unexpected index(es): %s", t.set(formatInts(res.Extra)))
	}
	return t.line(GlyphOK, "No extra indices")
}

func (t *Text) line(glyph, format string, args ...any) error {
	style := t.okStyle
	switch glyph {
	case GlyphWarn:
		style = t.warnStyle
	case GlyphFail:
		style = t.failStyle
	}
	_, err := fmt.Fprintf(t.w, "%s %s\n", style.Render(glyph), fmt.Sprintf(format, args...))
	return err
}

func (t *Text) detail(format string, args ...any) error {
	_, err := fmt.Fprintf(t.w, "  %s\n", t.dimStyle.Render(fmt.Sprintf(format, args...)))
	return err
}

func (t *Text) set(items []string) string {
	return formatSet(items, t.width)
}

// formatSet renders items as {a, b, c}. When width > 0 and the full form
// is wider, trailing items are replaced by a "… +N more" marker.
func formatSet(items []string, width int) string {
	full := "{" + strings.Join(items, ", ") + "}"
	if width <= 0 || runewidth.StringWidth(full) <= width {
		return full
	}

	shown, used := 0, 1
	for shown < len(items) {
		w := runewidth.StringWidth(items[shown])
		if shown > 0 {
			w += 2
		}
		tail := 2 + runewidth.StringWidth(more(len(items)-shown-1)) + 1
		if used+w+tail > width {
			break
		}
		used += w
		shown++
	}

	var b strings.Builder
	b.WriteString("{")
	b.WriteString(strings.Join(items[:shown], ", "))
	if shown > 0 {
		b.WriteString(", ")
	}
	b.WriteString(more(len(items) - shown))
	b.WriteString("}")
	return b.String()
}

func more(n int) string {
	return fmt.Sprintf("… +%d more", n)
}

func formatInts(vals []int64) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = strconv.FormatInt(v, 10)
	}
	return out
}

func displayName(path string) string {
	if path == "" {
		return "submission"
	}
	return filepath.Base(path)
}
