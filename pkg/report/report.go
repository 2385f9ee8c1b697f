// Package report renders check results. Console output is isolated behind
// the Reporter interface so the checks themselves stay side-effect free.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ormasoftchile/subcheck/pkg/check"
)

// Reporter renders the outcome of each check.
type Reporter interface {
	Order(res *check.OrderResult) error
	Completeness(res *check.CompletenessResult) error
}

// New returns the reporter for format ("text" or "json") writing to w.
// width bounds the rendered length of index lists in text output; 0 means
// unbounded.
func New(format string, w io.Writer, width int) (Reporter, error) {
	switch format {
	case "", "text":
		return NewText(w, width), nil
	case "json":
		return NewJSON(w), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// JSON writes one JSON object per check, one per line.
type JSON struct {
	enc *json.Encoder
}

// NewJSON returns a JSON reporter writing to w.
func NewJSON(w io.Writer) *JSON {
	return &JSON{enc: json.NewEncoder(w)}
}

func (j *JSON) Order(res *check.OrderResult) error {
	return j.enc.Encode(struct {
		Check string `json:"check"`
		*check.OrderResult
	}{"order", res})
}

func (j *JSON) Completeness(res *check.CompletenessResult) error {
	return j.enc.Encode(struct {
		Check    string `json:"check"`
		Complete bool   `json:"complete"`
		*check.CompletenessResult
	}{"completeness", res.Complete(), res})
}
