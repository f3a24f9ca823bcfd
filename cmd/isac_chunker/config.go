// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package main

import (
	"errors"

	"github.com/isac-bench/isac_bench/internal/filter"
	"github.com/isac-bench/isac_bench/internal/models"
	"github.com/isac-bench/isac_bench/internal/options"
	"github.com/isac-bench/isac_bench/isac"
)

const defaultOutput = "chunks"

type config struct {
	Output        string            `short:"o" long:"output" description:"DIRectory to write the chunks to" value-name:"DIR" toml:"output"`
	Groups        string            `short:"g" long:"groups" description:"Load the group table from FILE (TOML or YAML)" value-name:"FILE" toml:"groups"`
	MaxWeight     int               `short:"m" long:"maxweight" description:"Split chunks with more than NUM techniques (0 disables splitting)" value-name:"NUM" toml:"maxweight"`
	Range         *models.TimeRange `short:"t" long:"timerange" description:"RANGE of time of last modification of the procedures" value-name:"RANGE" toml:"timerange"`
	IgnorePattern []string          `short:"i" long:"ignorepattern" description:"Drop procedures if their titles match any of the given PATTERNs" value-name:"PATTERN" toml:"ignorepattern"`
	Unmatched     string            `short:"u" long:"unmatched" description:"Write procedures matching no group to FILE" value-name:"FILE" toml:"unmatched"`
	Version       bool              `long:"version" description:"Display version of the binary" toml:"-"`

	options.Logging

	Config string `short:"c" long:"config" description:"Path to config TOML file" value-name:"TOML-FILE" toml:"-"`

	ignorePattern filter.PatternMatcher
	table         isac.GroupTable
}

func parseArgsConfig() ([]string, *config, error) {
	p := options.Parser[config]{
		DefaultConfigLocations: options.DefaultConfigLocations("chunker"),
		ConfigLocation:         func(cfg *config) string { return cfg.Config },
		Usage:                  "[OPTIONS] procedures.json",
		HasVersion:             func(cfg *config) bool { return cfg.Version },
		SetDefaults: func(cfg *config) {
			cfg.Output = defaultOutput
		},
		EnsureDefaults: func(cfg *config) {
			if cfg.Output == "" {
				cfg.Output = defaultOutput
			}
		},
	}
	return p.Parse()
}

func (cfg *config) loadGroups() error {
	if cfg.Groups == "" {
		cfg.table = isac.DefaultGroups
		return nil
	}
	table, err := isac.LoadGroupTable(cfg.Groups)
	if err != nil {
		return err
	}
	cfg.table = table
	return nil
}

func (cfg *config) compilePatterns() error {
	pm, err := filter.NewPatternMatcher(cfg.IgnorePattern)
	if err != nil {
		return err
	}
	cfg.ignorePattern = pm
	return nil
}

func (cfg *config) prepare() error {
	if cfg.MaxWeight < 0 {
		return errors.New("maxweight must not be negative")
	}
	if err := cfg.compilePatterns(); err != nil {
		return err
	}
	return cfg.loadGroups()
}
