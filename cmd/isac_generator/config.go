// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package main

import (
	"errors"
	"fmt"

	"github.com/isac-bench/isac_bench/internal/llm"
	"github.com/isac-bench/isac_bench/internal/options"
	"github.com/isac-bench/isac_bench/util"
)

const (
	defaultKind   = "mcq"
	defaultModel  = "gpt-4o"
	defaultOutput = "questions.json"
	defaultOutDir = "questions_tf"
	defaultWorker = 2
)

type config struct {
	Kind      string `short:"k" long:"kind" description:"KIND of questions to generate" value-name:"KIND" choice:"mcq" choice:"tf" toml:"kind"`
	Model     string `short:"m" long:"model" description:"MODEL to generate the questions with" value-name:"MODEL" toml:"model"`
	Output    string `short:"o" long:"output" description:"Write the MCQs to FILE" value-name:"FILE" toml:"output"`
	OutDir    string `short:"d" long:"outdir" description:"Write the TF questions into DIRectory" value-name:"DIR" toml:"outdir"`
	Worker    int    `short:"w" long:"worker" description:"NUMber of concurrent prompts" value-name:"NUM" toml:"worker"`
	PlainText bool   `long:"plaintext" description:"Convert HTML descriptions to plain text in prompts" toml:"plaintext"`
	Print     bool   `short:"p" long:"print" description:"Print the generated MCQs in readable form" toml:"print"`
	Version   bool   `long:"version" description:"Display version of the binary" toml:"-"`

	llm.Options `group:"Completion API"`
	options.Logging

	Config string `short:"c" long:"config" description:"Path to config TOML file" value-name:"TOML-FILE" toml:"-"`
}

func setDefaults(cfg *config) {
	cfg.Kind = defaultKind
	cfg.Model = defaultModel
	cfg.Output = defaultOutput
	cfg.OutDir = defaultOutDir
	cfg.Worker = defaultWorker
	cfg.Options.SetDefaults()
}

func ensureDefaults(cfg *config) {
	if cfg.Kind == "" {
		cfg.Kind = defaultKind
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Output == "" {
		cfg.Output = defaultOutput
	}
	if cfg.OutDir == "" {
		cfg.OutDir = defaultOutDir
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
		DefaultConfigLocations: options.DefaultConfigLocations("generator"),
		ConfigLocation:         func(cfg *config) string { return cfg.Config },
		Usage:                  "[OPTIONS] files...",
		HasVersion:             func(cfg *config) bool { return cfg.Version },
		SetDefaults:            setDefaults,
		EnsureDefaults:         ensureDefaults,
	}
	return p.Parse()
}

func (cfg *config) check(files []string) error {
	if len(files) == 0 {
		return errors.New("no input files given")
	}
	if cfg.Kind != "mcq" && cfg.Kind != "tf" {
		return errors.New(`kind has to be "mcq" or "tf"`)
	}
	for _, fname := range files {
		switch exists, err := util.PathExists(fname); {
		case err != nil:
			return err
		case !exists:
			return fmt.Errorf("input file %q does not exist", fname)
		}
	}
	return nil
}
