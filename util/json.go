// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package util

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/PaesslerAG/gval"
	"github.com/PaesslerAG/jsonpath"
)

// EscapeNonASCII replaces all non ASCII characters of an encoded
// JSON document by \uXXXX escapes. Characters outside the
// basic multilingual plane become surrogate pairs.
func EscapeNonASCII(data []byte) []byte {
	const hex = "0123456789abcdef"
	escape := func(out []byte, r rune) []byte {
		return append(out, '\\', 'u',
			hex[r>>12&0xf], hex[r>>8&0xf], hex[r>>4&0xf], hex[r&0xf])
	}
	out := make([]byte, 0, len(data))
	for len(data) > 0 {
		if c := data[0]; c < utf8.RuneSelf {
			out = append(out, c)
			data = data[1:]
			continue
		}
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		if r1, r2 := utf16.EncodeRune(r); r1 != utf8.RuneError {
			out = escape(escape(out, r1), r2)
		} else {
			out = escape(out, r)
		}
	}
	return out
}

// LoadJSONFromFile loads a generic JSON document from a file.
func LoadJSONFromFile(fname string) (any, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var doc any
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// PathEval is a helper to evaluate JSON paths on documents.
// It is safe for concurrent use.
type PathEval struct {
	builder gval.Language
	mu      sync.Mutex
	exprs   map[string]gval.Evaluable
}

// NewPathEval creates a new PathEval.
func NewPathEval() *PathEval {
	return &PathEval{
		builder: gval.Full(jsonpath.Language()),
		exprs:   map[string]gval.Evaluable{},
	}
}

// Compile compiles an expression and caches it.
func (pe *PathEval) Compile(expr string) (gval.Evaluable, error) {
	pe.mu.Lock()
	defer pe.mu.Unlock()
	if eval := pe.exprs[expr]; eval != nil {
		return eval, nil
	}
	eval, err := pe.builder.NewEvaluable(expr)
	if err != nil {
		return nil, err
	}
	pe.exprs[expr] = eval
	return eval, nil
}

// Eval evaluates expression expr on document doc.
// Returns the result of the expression.
func (pe *PathEval) Eval(expr string, doc any) (any, error) {
	if doc == nil {
		return nil, errors.New("no document to extract data from")
	}
	eval, err := pe.Compile(expr)
	if err != nil {
		return nil, err
	}
	return eval(context.Background(), doc)
}

// Extract evaluates expr on doc and hands the result to action.
// If optional is true a failing evaluation is not considered an error.
func (pe *PathEval) Extract(
	expr string,
	action func(any) error,
	optional bool,
	doc any,
) error {
	x, err := pe.Eval(expr, doc)
	if err != nil {
		if optional {
			return nil
		}
		return fmt.Errorf("extracting %q failed: %w", expr, err)
	}
	return action(x)
}

// Strings evaluates the given expressions and collects all
// resulting strings. Non string results are ignored.
func (pe *PathEval) Strings(exprs []string, optional bool, doc any) ([]string, error) {
	var result []string
	for _, expr := range exprs {
		if err := pe.Extract(expr, func(x any) error {
			switch v := x.(type) {
			case string:
				result = append(result, v)
			case []any:
				strs, _ := AsStrings(v)
				result = append(result, strs...)
			}
			return nil
		}, optional, doc); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// PathEvalMatcher is a pair of an expression and an action
// when doing extractions via PathEval.Match.
type PathEvalMatcher struct {
	// Expr is the expression to evaluate
	Expr string
	// Action is executed with the result of the match.
	Action func(any) error
	// Optional expresses if the expression is optional.
	Optional bool
}

// Match matches a list of PathEvalMatcher pairs against a document.
func (pe *PathEval) Match(matcher []PathEvalMatcher, doc any) error {
	for _, m := range matcher {
		if err := pe.Extract(m.Expr, m.Action, m.Optional, doc); err != nil {
			return err
		}
	}
	return nil
}

// CountMatcher stores the number of elements of a matched array.
func CountMatcher(dst *int) func(any) error {
	return func(x any) error {
		arr, ok := x.([]any)
		if !ok {
			return errors.New("not an array")
		}
		*dst = len(arr)
		return nil
	}
}

// AsStrings converts a slice of any into a slice of strings.
// The second result is false if not all elements are strings.
func AsStrings(x []any) ([]string, bool) {
	strs := make([]string, 0, len(x))
	valid := true
	for _, y := range x {
		if s, ok := y.(string); ok {
			strs = append(strs, s)
		} else {
			valid = false
		}
	}
	return strs, valid
}
