// Package submission loads line-delimited JSON prediction files.
//
// Every non-empty line is decoded as an independent JSON object. The only
// key the loader interprets is "index"; all other keys are kept verbatim
// in Record.Fields.
package submission

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// IndexKey is the record key that correlates a submission entry with the
// ground-truth evaluation entry.
const IndexKey = "index"

const maxLineSize = 16 * 1024 * 1024

// Record is a single decoded line of a submission.
type Record struct {
	Line   int            `json:"line"`
	Index  *int64         `json:"index,omitempty"` // nil when the key is absent
	Fields map[string]any `json:"fields,omitempty"`
}

// Submission is the ordered sequence of records read from one file.
type Submission struct {
	Path    string   `json:"path"`
	Records []Record `json:"records"`
}

// Len returns the number of records (raw lines) in the submission.
func (s *Submission) Len() int {
	return len(s.Records)
}

// Indices returns the index of every record in file order. It fails on the
// first record without an index.
func (s *Submission) Indices() ([]int64, error) {
	out := make([]int64, 0, len(s.Records))
	for _, rec := range s.Records {
		if rec.Index == nil {
			return nil, &MissingIndexError{Path: s.Path, Line: rec.Line}
		}
		out = append(out, *rec.Index)
	}
	return out, nil
}

// LoadFile reads a submission from disk.
func LoadFile(path string) (*Submission, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	defer f.Close()

	sub, err := Load(f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	sub.Path = path
	return sub, nil
}

// Load parses a submission from r. A malformed line aborts the whole load.
func Load(r io.Reader) (*Submission, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	sub := &Submission{Records: []Record{}}
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		rec, err := decodeLine(line)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Err: err}
		}
		rec.Line = lineNo
		sub.Records = append(sub.Records, *rec)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &ParseError{Line: lineNo + 1, Err: fmt.Errorf("line exceeds %d bytes: %w", maxLineSize, err)}
		}
		return nil, fmt.Errorf("read submission: %w", err)
	}
	return sub, nil
}

func decodeLine(line []byte) (*Record, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("invalid JSON: trailing data after object")
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON object, got %s", jsonKind(v))
	}

	missing, err := validateRecord(obj)
	if err != nil {
		return nil, err
	}

	rec := &Record{}
	if !missing {
		idx, err := toIndex(obj[IndexKey])
		if err != nil {
			return nil, err
		}
		rec.Index = &idx
	}
	delete(obj, IndexKey)
	if len(obj) > 0 {
		rec.Fields = obj
	}
	return rec, nil
}

// toIndex converts a decoded JSON number to an index. Integral floats such
// as 3.0 are accepted.
func toIndex(v any) (int64, error) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("%q must be an integer, got %s", IndexKey, jsonKind(v))
	}
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%q must be an integer, got %s", IndexKey, n.String())
	}
	return int64(f), nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
