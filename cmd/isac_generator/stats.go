// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package main

import (
	"log/slog"

	"github.com/isac-bench/isac_bench/isac"
)

type stats struct {
	files      int
	entities   int
	failed     int
	unparsable int
	invalid    int
	questions  int
}

func (st *stats) add(o *stats) {
	st.files += o.files
	st.entities += o.entities
	st.failed += o.failed
	st.unparsable += o.unparsable
	st.invalid += o.invalid
	st.questions += o.questions
}

func (st *stats) log() {
	slog.Info("Generation statistics",
		"files", st.files,
		"entities", st.entities,
		"questions", st.questions,
		"failed", st.failed,
		"unparsable", st.unparsable,
		"invalid", st.invalid)
}

// tally counts the keys in order of their first appearance.
func tally[T any](xs []T, key func(T) string) []isac.Count {
	var counts []isac.Count
	index := map[string]int{}
	for _, x := range xs {
		k := key(x)
		if i, ok := index[k]; ok {
			counts[i].Count++
			continue
		}
		index[k] = len(counts)
		counts = append(counts, isac.Count{Name: k, Count: 1})
	}
	return counts
}
