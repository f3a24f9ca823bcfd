// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package main

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/isac-bench/isac_bench/isac"
)

var doubleRule = strings.Repeat("=", 80)

func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

func printMCQs(
	w io.Writer,
	model string,
	mcqs []*isac.MCQ,
	byQuestion, byEntity []isac.Count,
) error {
	var b strings.Builder
	for i, mcq := range mcqs {
		fmt.Fprintf(&b, "\n%s\nQUESTION %d\n", doubleRule, i+1)
		fmt.Fprintf(&b, "%s: %s (%s)\n",
			capitalize(string(mcq.EntityType)), mcq.EntityTitle, mcq.EntityID)
		fmt.Fprintf(&b, "Type: %s\n%s\n", mcq.QuestionType, doubleRule)
		fmt.Fprintf(&b, "\n%s\n\n", mcq.Question)
		for _, opt := range mcq.Options {
			marker := " "
			if opt.Key == mcq.CorrectAnswer {
				marker = "✓"
			}
			fmt.Fprintf(&b, "  %s. %s %s\n", opt.Key, opt.Value, marker)
		}
		fmt.Fprintf(&b, "\nCorrect Answer: %s\n", mcq.CorrectAnswer)
		fmt.Fprintf(&b, "Explanation: %s\n", mcq.Explanation)
	}

	fmt.Fprintf(&b, "\n%s\nSUMMARY\n%s\n", doubleRule, doubleRule)
	fmt.Fprintf(&b, "Total questions generated: %d\n", len(mcqs))
	fmt.Fprintf(&b, "Model used: %s\n", model)
	b.WriteString("\nBy Question Type:\n")
	for _, c := range byQuestion {
		fmt.Fprintf(&b, "  %s: %d\n", c.Name, c.Count)
	}
	b.WriteString("\nBy Entity Type:\n")
	for _, c := range byEntity {
		fmt.Fprintf(&b, "  %s: %d\n", c.Name, c.Count)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
