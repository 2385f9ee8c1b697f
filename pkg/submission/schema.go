package submission

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const recordSchemaID = "https://github.com/ormasoftchile/subcheck/schemas/record-v0.json"

// recordShape is the declared shape of one submission line. Only the index
// is constrained; other keys are allowed and passed through.
type recordShape struct {
	Index int64 `json:"index" jsonschema:"description=Identifier correlating the entry with a ground-truth evaluation entry"`
}

// RecordSchema produces the JSON Schema (Draft 2020-12) every submission
// line is checked against.
func RecordSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	r.ExpandedStruct = true
	r.AllowAdditionalProperties = true

	s := r.Reflect(&recordShape{})
	s.ID = recordSchemaID
	s.Title = "Submission record v0"
	s.Description = "One line of a line-delimited JSON submission file"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal record schema: %w", err)
	}
	return data, nil
}

var recordValidator = sync.OnceValues(func() (*sjsonschema.Schema, error) {
	data, err := RecordSchema()
	if err != nil {
		return nil, err
	}
	doc, err := sjsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal record schema: %w", err)
	}
	c := sjsonschema.NewCompiler()
	if err := c.AddResource(recordSchemaID, doc); err != nil {
		return nil, fmt.Errorf("add record schema resource: %w", err)
	}
	sch, err := c.Compile(recordSchemaID)
	if err != nil {
		return nil, fmt.Errorf("compile record schema: %w", err)
	}
	return sch, nil
})

// validateRecord checks obj against the record schema. An absent index is
// reported through missing rather than as an error so that the lookup
// failure surfaces where the index is actually needed.
func validateRecord(obj map[string]any) (missing bool, err error) {
	sch, err := recordValidator()
	if err != nil {
		return false, err
	}
	verr := sch.Validate(obj)
	if verr == nil {
		return false, nil
	}
	var ve *sjsonschema.ValidationError
	if !errors.As(verr, &ve) {
		return false, verr
	}
	p := message.NewPrinter(language.English)
	for _, cause := range flattenValidationErrors(ve) {
		if _, ok := cause.ErrorKind.(*kind.Required); ok {
			missing = true
			continue
		}
		return false, fmt.Errorf("at /%s: %s", strings.Join(cause.InstanceLocation, "/"), cause.ErrorKind.LocalizedString(p))
	}
	return missing, nil
}

func flattenValidationErrors(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flattenValidationErrors(cause)...)
	}
	return flat
}
