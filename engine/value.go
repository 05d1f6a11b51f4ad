// Package engine is the survey runtime: it tracks answers for one
// in-progress response session, evaluates conditional visibility,
// validates pages, drives page navigation and normalizes the final
// answer set into a submission record.
//
// All evaluation functions are pure and total. Malformed documents
// never panic here; unresolvable conditional rules fail open.
package engine

import (
	"bytes"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Value is one answer slot. The concrete types mirror the shapes a
// survey client produces: free text, numeric widgets, multi-selection
// lists and per-row matrix maps. An absent answer is a nil Value.
type Value interface {
	// Empty reports whether the value counts as unanswered. The same
	// rule backs page validation and submission normalization.
	Empty() bool
}

// Text holds the answer of every scalar question type (text, email,
// radio, dropdown, date, ...).
type Text string

func (t Text) Empty() bool { return strings.TrimSpace(string(t)) == "" }

// Number holds rating/nps/slider style answers. Zero counts as
// unanswered, matching the truthiness rule of the original viewer.
type Number float64

func (n Number) Empty() bool { return n == 0 }

// Multi holds checkbox and multi-select answers.
type Multi []string

func (m Multi) Empty() bool { return len(m) == 0 }

func (m Multi) contains(s string) bool {
	for _, v := range m {
		if v == s {
			return true
		}
	}
	return false
}

// Matrix holds one cell per row id. A cell is a Text for
// matrix-single or a Multi for matrix-multiple.
type Matrix map[string]Value

func (m Matrix) Empty() bool { return len(m) == 0 }

// stringForm renders a value for substring matching. Absent answers
// render as "", a matrix has no useful string form.
func stringForm(v Value) string {
	switch v := v.(type) {
	case Text:
		return string(v)
	case Number:
		return strconv.FormatFloat(float64(v), 'f', -1, 64)
	case Multi:
		return strings.Join(v, ",")
	default:
		return ""
	}
}

// numberForm coerces a value for ordered comparisons, following the
// Number() coercion the survey clients apply: blank text and the empty
// list read as 0, a list reads as its joined string form. The second
// return is false when the value has no numeric reading (absent
// answers, matrices, non-numeric text).
func numberForm(v Value) (float64, bool) {
	switch v := v.(type) {
	case Number:
		return float64(v), true
	case Text:
		s := strings.TrimSpace(string(v))
		if s == "" {
			return 0, true
		}
		n, err := strconv.ParseFloat(s, 64)
		return n, err == nil
	case Multi:
		return numberForm(Text(strings.Join(v, ",")))
	default:
		return 0, false
	}
}

// DecodeValue maps a raw JSON answer onto its typed representation:
// string, number, array of strings, or an object of matrix cells.
// JSON null decodes to nil (absent).
func DecodeValue(raw json.RawMessage) (Value, error) {
	data := bytes.TrimSpace(raw)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, errors.Wrap(err, "decode text answer")
		}
		return Text(s), nil

	case '[':
		var m Multi
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, errors.Wrap(err, "decode multi answer")
		}
		return m, nil

	case '{':
		var cells map[string]json.RawMessage
		if err := json.Unmarshal(data, &cells); err != nil {
			return nil, errors.Wrap(err, "decode matrix answer")
		}
		matrix := Matrix{}
		for row, cell := range cells {
			v, err := DecodeValue(cell)
			if err != nil {
				return nil, errors.Wrapf(err, "matrix row %q", row)
			}
			switch v.(type) {
			case Text, Multi, nil:
				matrix[row] = v
			default:
				return nil, errors.Errorf("matrix row %q: unsupported cell shape", row)
			}
		}
		return matrix, nil

	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, errors.Wrap(err, "decode bool answer")
		}
		return Text(strconv.FormatBool(b)), nil

	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, errors.Wrap(err, "decode numeric answer")
		}
		return Number(n), nil
	}
}

// DecodeValues decodes a whole formData object, e.g. to seed a store
// from a draft or an incoming submission.
func DecodeValues(raw map[string]json.RawMessage) (map[string]Value, error) {
	values := make(map[string]Value, len(raw))
	for id, r := range raw {
		v, err := DecodeValue(r)
		if err != nil {
			return nil, errors.Wrapf(err, "question %q", id)
		}
		values[id] = v
	}
	return values, nil
}
