// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

// Package main implements the isac_stats tool.
// It analyzes the procedures and techniques of an Auto-ISAC export.
package main

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/isac-bench/isac_bench/internal/options"
	"github.com/isac-bench/isac_bench/isac"
	"github.com/isac-bench/isac_bench/util"
)

func run(cfg *config, args []string) error {
	if len(args) != 1 {
		return errors.New("exactly one procedures file expected")
	}
	report, err := cfg.reporter()
	if err != nil {
		return err
	}
	entries, err := isac.LoadEntriesFromFile(args[0])
	if err != nil {
		return err
	}
	a := isac.Analyze(entries)
	slog.Debug("Analyzed procedures",
		"file", args[0],
		"procedures", a.Procedures(),
		"techniques", a.Techniques())

	if cfg.Output == "" {
		return report(os.Stdout, a)
	}
	return util.WriteFileAtomic(cfg.Output, func(w io.Writer) error {
		return report(w, a)
	})
}

func main() {
	args, cfg, err := parseArgsConfig()
	options.ErrorCheck(err)
	closer, err := cfg.Logging.Prepare()
	options.ErrorCheck(err)
	err = run(cfg, args)
	closer.Close()
	options.ErrorCheck(err)
}
