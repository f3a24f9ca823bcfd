// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package main

import (
	"errors"

	"github.com/isac-bench/isac_bench/internal/llm"
	"github.com/isac-bench/isac_bench/internal/options"
)

const (
	defaultOutput = "answered_questions.json"
	defaultWorker = 2
)

var defaultModels = []string{"gpt-4o", "gpt-4o-mini"}

type config struct {
	Models  []string `short:"m" long:"model" description:"MODELs to answer the questions (repeatable)" value-name:"MODEL" toml:"models"`
	Output  string   `short:"o" long:"output" description:"Write the answered questions to FILE" value-name:"FILE" toml:"output"`
	Scores  string   `short:"s" long:"scores" description:"Write the accuracy per model to FILE (.json or .csv)" value-name:"FILE" toml:"scores"`
	Worker  int      `short:"w" long:"worker" description:"NUMber of questions asked concurrently" value-name:"NUM" toml:"worker"`
	Version bool     `long:"version" description:"Display version of the binary" toml:"-"`

	llm.Options `group:"Completion API"`
	options.Logging

	Config string `short:"c" long:"config" description:"Path to config TOML file" value-name:"TOML-FILE" toml:"-"`
}

func setDefaults(cfg *config) {
	cfg.Output = defaultOutput
	cfg.Worker = defaultWorker
	cfg.Options.SetDefaults()
}

func ensureDefaults(cfg *config) {
	if len(cfg.Models) == 0 {
		cfg.Models = defaultModels
	}
	if cfg.Output == "" {
		cfg.Output = defaultOutput
	}
	if cfg.Worker <= 0 {
		cfg.Worker = defaultWorker
	}
	if cfg.URL == "" {
		cfg.URL = llm.DefaultURL
	}
}

func parseArgsConfig() ([]string, *config, error) {
	p := options.Parser[config]{
		DefaultConfigLocations: options.DefaultConfigLocations("answerer"),
		ConfigLocation:         func(cfg *config) string { return cfg.Config },
		Usage:                  "[OPTIONS] questions.json",
		HasVersion:             func(cfg *config) bool { return cfg.Version },
		SetDefaults:            setDefaults,
		EnsureDefaults:         ensureDefaults,
	}
	return p.Parse()
}

func (cfg *config) check(args []string) error {
	if len(args) != 1 {
		return errors.New("exactly one questions file expected")
	}
	seen := map[string]bool{}
	for _, m := range cfg.Models {
		if m == "" {
			return errors.New("empty model name")
		}
		if seen[m] {
			return errors.New("model " + m + " given twice")
		}
		seen[m] = true
	}
	return nil
}
