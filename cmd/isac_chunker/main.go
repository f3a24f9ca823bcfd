// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

// Package main implements the isac_chunker tool.
// It sorts the Auto-ISAC procedures into thematic chunks.
package main

import (
	"errors"
	"log/slog"

	"github.com/isac-bench/isac_bench/internal/options"
)

func run(cfg *config, args []string) error {
	if len(args) != 1 {
		return errors.New("exactly one procedures file expected")
	}
	c := chunker{cfg: cfg}
	return c.run(args[0])
}

func main() {
	args, cfg, err := parseArgsConfig()
	options.ErrorCheck(err)
	options.ErrorCheck(cfg.prepare())
	closer, err := cfg.Logging.Prepare()
	options.ErrorCheck(err)

	err = run(cfg, args)
	if err != nil {
		slog.Error("Chunking failed", "err", err)
	}
	closer.Close()
	options.ErrorCheck(err)
}
