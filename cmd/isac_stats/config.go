// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package main

import (
	"fmt"

	"github.com/isac-bench/isac_bench/internal/options"
)

const defaultFormat = "text"

type config struct {
	Format  string `short:"f" long:"format" description:"FORMAT of the report" value-name:"FORMAT" choice:"text" choice:"json" choice:"csv" toml:"format"`
	Output  string `short:"o" long:"output" description:"Write the report to FILE instead of stdout" value-name:"FILE" toml:"output"`
	Version bool   `long:"version" description:"Display version of the binary" toml:"-"`

	options.Logging

	Config string `short:"c" long:"config" description:"Path to config TOML file" value-name:"TOML-FILE" toml:"-"`
}

func parseArgsConfig() ([]string, *config, error) {
	p := options.Parser[config]{
		DefaultConfigLocations: options.DefaultConfigLocations("stats"),
		ConfigLocation:         func(cfg *config) string { return cfg.Config },
		Usage:                  "[OPTIONS] procedures.json",
		HasVersion:             func(cfg *config) bool { return cfg.Version },
		SetDefaults: func(cfg *config) {
			cfg.Format = defaultFormat
		},
		EnsureDefaults: func(cfg *config) {
			if cfg.Format == "" {
				cfg.Format = defaultFormat
			}
		},
	}
	return p.Parse()
}

func (cfg *config) reporter() (reporter, error) {
	if r := reporters[cfg.Format]; r != nil {
		return r, nil
	}
	return nil, fmt.Errorf("unknown report format %q", cfg.Format)
}
