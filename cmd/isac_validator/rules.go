// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/isac-bench/isac_bench/isac"
)

var (
	chunkName    = regexp.MustCompile(`^(procedures|group_\d+(_\d+)*)\.json$`)
	tfName       = regexp.MustCompile(`^mcqs_group_\d+(_\d+)*\.json$`)
	questionName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*\.json$`)
)

// conformingName checks the base name of a file against the
// naming convention of its kind.
func conformingName(kind isac.Kind, fname string) bool {
	base := filepath.Base(fname)
	switch kind {
	case isac.ProceduresKind:
		return chunkName.MatchString(base)
	case isac.TFKind:
		return tfName.MatchString(base)
	default:
		return questionName.MatchString(base)
	}
}

type validator interface{ Validate() error }

// asList wraps a single JSON object into an array.
func asList(data []byte) []byte {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		return append(append([]byte{'['}, data...), ']')
	}
	return data
}

func validateAll[T validator](data []byte) ([]string, error) {
	var list []T
	if err := json.Unmarshal(asList(data), &list); err != nil {
		return nil, err
	}
	var msgs []string
	for i, v := range list {
		if err := v.Validate(); err != nil {
			for _, line := range strings.Split(err.Error(), "\n") {
				msgs = append(msgs, fmt.Sprintf("/%d: %s", i, line))
			}
		}
	}
	return msgs, nil
}

// identified checks that every procedure can be identified.
type identified struct{ isac.Entry }

func (id *identified) UnmarshalJSON(data []byte) error {
	return id.Entry.UnmarshalJSON(data)
}

func (id *identified) Validate() error {
	if id.Identifier() == "" {
		return fmt.Errorf("procedure %q has neither id nor mitreId", id.Title)
	}
	return nil
}

// semanticErrors checks the rules beyond the schema.
func semanticErrors(kind isac.Kind, data []byte) ([]string, error) {
	switch kind {
	case isac.ProceduresKind:
		return validateAll[*identified](data)
	case isac.MCQKind:
		return validateAll[*isac.MCQ](data)
	case isac.TFKind:
		return validateAll[*isac.TFQuestion](data)
	case isac.QuestionKind:
		return validateAll[*isac.Question](data)
	case isac.AnsweredKind:
		return validateAll[*isac.AnsweredQuestion](data)
	}
	return nil, fmt.Errorf("unknown kind %q", kind)
}
