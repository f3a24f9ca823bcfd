// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package isac

import (
	"errors"

	"github.com/isac-bench/isac_bench/util"
)

const (
	elementsExpr        = `$`
	entryTitlesExpr     = `$[*].title`
	techniquesExpr      = `$[*].technique`
	entityTitlesExpr    = `$[*].entity_title`
	sourceProcedureExpr = `$[*].source_procedures[*]`
)

// DocumentSummary is a summary of some essentials of a document.
type DocumentSummary struct {
	Kind             Kind     `json:"kind"`
	Elements         int      `json:"elements"`
	Techniques       int      `json:"techniques,omitempty"`
	Titles           []string `json:"titles,omitempty"`
	SourceProcedures []string `json:"source_procedures,omitempty"`
}

// NewDocumentSummary creates a summary from a document
// with the help of an expression evaluator expr.
func NewDocumentSummary(
	expr *util.PathEval,
	kind Kind,
	doc any,
) (*DocumentSummary, error) {

	if obj, ok := doc.(map[string]any); ok {
		doc = []any{obj}
	}

	ds := &DocumentSummary{Kind: kind}

	matcher := []util.PathEvalMatcher{
		{Expr: elementsExpr, Action: util.CountMatcher(&ds.Elements)},
	}
	var titles, sources []string
	switch kind {
	case ProceduresKind:
		matcher = append(matcher, util.PathEvalMatcher{
			Expr:     techniquesExpr,
			Action:   techniqueCounter(&ds.Techniques),
			Optional: true,
		})
		titles = []string{entryTitlesExpr}
	case MCQKind:
		titles = []string{entityTitlesExpr}
	case TFKind:
		sources = []string{sourceProcedureExpr}
	}

	if err := expr.Match(matcher, doc); err != nil {
		return nil, err
	}

	var err error
	if ds.Titles, err = uniqueStrings(expr, titles, doc); err != nil {
		return nil, err
	}
	if ds.SourceProcedures, err = uniqueStrings(expr, sources, doc); err != nil {
		return nil, err
	}
	return ds, nil
}

// techniqueCounter sums up the technique values of the entries
// the way [Weight] does: a list counts its elements, a single
// object counts as one.
func techniqueCounter(dst *int) func(any) error {
	return func(x any) error {
		values, ok := x.([]any)
		if !ok {
			return errors.New("not an array")
		}
		for _, v := range values {
			switch t := v.(type) {
			case []any:
				*dst += len(t)
			case map[string]any:
				*dst++
			}
		}
		return nil
	}
}

func uniqueStrings(expr *util.PathEval, exprs []string, doc any) ([]string, error) {
	if len(exprs) == 0 {
		return nil, nil
	}
	strs, err := expr.Strings(exprs, true, doc)
	if err != nil {
		return nil, err
	}
	if len(strs) == 0 {
		return nil, nil
	}
	return util.SortedKeys(util.NewSet(strs...)), nil
}
