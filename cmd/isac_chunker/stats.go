// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package main

import "log/slog"

type stats struct {
	procedures int
	ignored    int
	outOfRange int
	unmatched  int
	files      int
	empty      int
	techniques int
}

func (st *stats) log() {
	slog.Info("Chunk statistics",
		"procedures", st.procedures,
		"ignored", st.ignored,
		"out_of_range", st.outOfRange,
		"unmatched", st.unmatched,
		"files", st.files,
		"empty", st.empty,
		"techniques", st.techniques)
}
