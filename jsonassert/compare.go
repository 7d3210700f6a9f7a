// Package jsonassert compares JSON documents structurally.
//
// Object keys are compared regardless of order. Arrays are compared element
// by element in order. The Mode decides whether the actual document may
// carry fields or elements the expected document does not have.
package jsonassert

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Mode selects how strictly the actual document must match.
type Mode int

const (
	// ModeStrict rejects fields and array elements missing from the expected document.
	ModeStrict Mode = iota
	// ModeLenient allows the actual document to extend the expected one.
	ModeLenient
)

// ModeNonExtensible is the strict mode under its fixture-testing name.
const ModeNonExtensible = ModeStrict

func (m Mode) String() string {
	switch m {
	case ModeStrict:
		return "strict"
	case ModeLenient:
		return "lenient"
	}
	return "Mode(" + strconv.Itoa(int(m)) + ")"
}

func (m Mode) extensible() bool { return m == ModeLenient }

// ErrInvalidJSON is returned when either input does not parse.
var ErrInvalidJSON = errors.New("jsonassert: invalid JSON")

// Difference describes one mismatch between the documents.
type Difference struct {
	// Path locates the value, e.g. $.extensions.archive[1].dateModified.
	Path string
	// Expected and Actual hold raw JSON; either is empty when the value is absent.
	Expected string
	Actual   string
	Message  string
}

func (d Difference) String() string {
	return d.Path + ": " + d.Message
}

// Result collects the differences found by Compare.
type Result struct {
	Differences []Difference
}

// Passed reports whether the documents matched.
func (r *Result) Passed() bool {
	return len(r.Differences) == 0
}

func (r *Result) String() string {
	if r.Passed() {
		return "documents match"
	}
	lines := make([]string, len(r.Differences))
	for i, d := range r.Differences {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}

// Compare checks actual against expected under mode.
func Compare(expected, actual []byte, mode Mode) (*Result, error) {
	if !gjson.ValidBytes(expected) {
		return nil, fmt.Errorf("%w: expected document", ErrInvalidJSON)
	}
	if !gjson.ValidBytes(actual) {
		return nil, fmt.Errorf("%w: actual document", ErrInvalidJSON)
	}

	c := comparer{mode: mode, result: &Result{}}
	c.value("$", gjson.ParseBytes(expected), gjson.ParseBytes(actual))
	return c.result, nil
}

type comparer struct {
	mode   Mode
	result *Result
}

func (c *comparer) report(path string, exp, act gjson.Result, format string, args ...any) {
	c.result.Differences = append(c.result.Differences, Difference{
		Path:     path,
		Expected: exp.Raw,
		Actual:   act.Raw,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (c *comparer) value(path string, exp, act gjson.Result) {
	expKind, actKind := kind(exp), kind(act)
	if expKind != actKind {
		c.report(path, exp, act, "expected %s %s but got %s %s", expKind, exp.Raw, actKind, act.Raw)
		return
	}

	switch expKind {
	case "object":
		c.object(path, exp, act)
	case "array":
		c.array(path, exp, act)
	case "number":
		if exp.Raw != act.Raw && exp.Num != act.Num {
			c.report(path, exp, act, "expected %s but got %s", exp.Raw, act.Raw)
		}
	case "string":
		if exp.Str != act.Str {
			c.report(path, exp, act, "expected %s but got %s", exp.Raw, act.Raw)
		}
	case "boolean":
		if exp.Type != act.Type {
			c.report(path, exp, act, "expected %s but got %s", exp.Raw, act.Raw)
		}
	}
}

func (c *comparer) object(path string, exp, act gjson.Result) {
	actFields := act.Map()
	expFields := exp.Map()

	exp.ForEach(func(key, value gjson.Result) bool {
		child := childPath(path, key.Str)
		got, ok := actFields[key.Str]
		if !ok {
			c.report(child, value, gjson.Result{}, "expected field %q but none found", key.Str)
			return true
		}
		c.value(child, value, got)
		return true
	})

	if c.mode.extensible() {
		return
	}
	act.ForEach(func(key, value gjson.Result) bool {
		if _, ok := expFields[key.Str]; !ok {
			c.report(childPath(path, key.Str), gjson.Result{}, value, "unexpected field %q", key.Str)
		}
		return true
	})
}

func (c *comparer) array(path string, exp, act gjson.Result) {
	expItems, actItems := exp.Array(), act.Array()

	n := min(len(expItems), len(actItems))
	for i := 0; i < n; i++ {
		c.value(path+"["+strconv.Itoa(i)+"]", expItems[i], actItems[i])
	}

	for i := n; i < len(expItems); i++ {
		c.report(path+"["+strconv.Itoa(i)+"]", expItems[i], gjson.Result{}, "expected %d values but got %d", len(expItems), len(actItems))
	}
	if c.mode.extensible() {
		return
	}
	for i := n; i < len(actItems); i++ {
		c.report(path+"["+strconv.Itoa(i)+"]", gjson.Result{}, actItems[i], "unexpected value %s", actItems[i].Raw)
	}
}

func kind(r gjson.Result) string {
	switch {
	case r.IsObject():
		return "object"
	case r.IsArray():
		return "array"
	}
	switch r.Type {
	case gjson.Null:
		return "null"
	case gjson.True, gjson.False:
		return "boolean"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	}
	return "unknown"
}

func childPath(parent, key string) string {
	if isIdentifier(key) {
		return parent + "." + key
	}
	return parent + "[" + strconv.Quote(key) + "]"
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
