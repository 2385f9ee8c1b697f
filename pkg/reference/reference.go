// Package reference reads the ground-truth index set from a CSV file with a
// header row.
package reference

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
)

// DefaultColumn is the header name holding ground-truth indices.
const DefaultColumn = "index"

// Set is the authoritative set of indices expected in a submission.
type Set struct {
	Path    string  `json:"path"`
	Column  string  `json:"column"`
	Rows    int     `json:"rows"`    // data rows read, including duplicates
	Indices []int64 `json:"indices"` // sorted, unique

	members map[int64]struct{}
}

// NewSet builds a Set from raw indices. Duplicates collapse.
func NewSet(path, column string, indices []int64) *Set {
	s := &Set{
		Path:    path,
		Column:  column,
		Rows:    len(indices),
		members: make(map[int64]struct{}, len(indices)),
	}
	for _, idx := range indices {
		s.members[idx] = struct{}{}
	}
	s.Indices = make([]int64, 0, len(s.members))
	for idx := range s.members {
		s.Indices = append(s.Indices, idx)
	}
	slices.Sort(s.Indices)
	return s
}

// Len returns the number of unique indices.
func (s *Set) Len() int {
	return len(s.Indices)
}

// Contains reports whether idx is part of the reference.
func (s *Set) Contains(idx int64) bool {
	_, ok := s.members[idx]
	return ok
}

// LoadFile reads the reference set from the named column of a CSV file.
func LoadFile(path, column string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	defer f.Close()

	set, err := Load(f, column)
	if err != nil {
		var se *SchemaError
		if errors.As(err, &se) {
			se.Path = path
		}
		return nil, err
	}
	set.Path = path
	return set, nil
}

// Load reads the reference set from the named column of CSV data.
func Load(r io.Reader, column string) (*Set, error) {
	if column == "" {
		column = DefaultColumn
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &SchemaError{Column: column, Reason: "file has no header row"}
	}
	if err != nil {
		return nil, &SchemaError{Column: column, Reason: "read header", Err: err}
	}

	col := -1
	names := make([]string, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		names[i] = name
		if name == column && col < 0 {
			col = i
		}
	}
	if col < 0 {
		return nil, &SchemaError{Column: column, Header: names, Reason: "column not found"}
	}

	var indices []int64
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			se := &SchemaError{Column: column, Reason: "malformed row", Err: err}
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				se.Row = pe.Line
			}
			return nil, se
		}
		cell := strings.TrimSpace(rec[col])
		if cell == "" {
			continue
		}
		idx, err := parseIndex(cell)
		if err != nil {
			line, _ := cr.FieldPos(col)
			return nil, &SchemaError{Column: column, Row: line, Reason: fmt.Sprintf("value %q is not an integer", cell)}
		}
		indices = append(indices, idx)
	}

	return NewSet("", column, indices), nil
}

func parseIndex(cell string) (int64, error) {
	if i, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("not integral: %s", cell)
	}
	return int64(f), nil
}
