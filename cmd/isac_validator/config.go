// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package main

import (
	"github.com/isac-bench/isac_bench/internal/options"
	"github.com/isac-bench/isac_bench/isac"
)

type config struct {
	Kind        *isac.Kind `short:"k" long:"kind" description:"KIND of the documents (detected if not given)" value-name:"KIND" choice:"procedures" choice:"mcq" choice:"tf" choice:"question" choice:"answered" toml:"kind"`
	IgnoreNames bool       `long:"ignorenames" description:"Do not fail on non-conforming file names" toml:"ignorenames"`
	Summary     bool       `short:"s" long:"summary" description:"Print a summary of each valid document" toml:"summary"`
	Version     bool       `long:"version" description:"Display version of the binary" toml:"-"`

	options.Logging

	Config string `short:"c" long:"config" description:"Path to config TOML file" value-name:"TOML-FILE" toml:"-"`
}

func parseArgsConfig() ([]string, *config, error) {
	p := options.Parser[config]{
		DefaultConfigLocations: options.DefaultConfigLocations("validator"),
		ConfigLocation:         func(cfg *config) string { return cfg.Config },
		Usage:                  "[OPTIONS] files...",
		HasVersion:             func(cfg *config) bool { return cfg.Version },
	}
	return p.Parse()
}
