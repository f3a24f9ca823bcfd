// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

// Package options contains helpers to handle command line options and config files.
package options

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/go-homedir"

	"github.com/isac-bench/isac_bench/util"
)

// Parser parses the command line of a tool into a configuration
// of type C, which may be pre-filled from a TOML file.
type Parser[C any] struct {
	// DefaultConfigLocations are searched in order if no
	// config file is given on the command line.
	DefaultConfigLocations []string
	// Usage overrides the usage line of the help output.
	Usage string

	// SetDefaults is called on a fresh configuration before anything is parsed.
	SetDefaults func(*C)
	// EnsureDefaults is called last to fill values neither
	// the command line nor the config file have set.
	EnsureDefaults func(*C)
	// HasVersion reports if only the version was requested.
	HasVersion func(*C) bool
	// ConfigLocation returns the config file named on the command line.
	ConfigLocation func(*C) string
}

// DefaultConfigLocations returns the places where
// the config file of the given tool is looked up.
func DefaultConfigLocations(tool string) []string {
	return []string{
		"~/.config/isac/" + tool + ".toml",
		"~/.isac_" + tool + ".toml",
		"isac_" + tool + ".toml",
	}
}

// fresh returns a new configuration with the defaults applied.
func (p *Parser[C]) fresh() *C {
	cfg := new(C)
	if p.SetDefaults != nil {
		p.SetDefaults(cfg)
	}
	return cfg
}

// commandLine parses os.Args into cfg. A help request ends the program.
func (p *Parser[C]) commandLine(cfg *C) ([]string, error) {
	parser := flags.NewParser(cfg, flags.Default)
	if p.Usage != "" {
		parser.Usage = p.Usage
	}
	args, err := parser.Parse()
	if flags.WroteHelp(err) {
		os.Exit(0)
	}
	return args, err
}

// configFile returns the expanded path of the config file to load
// or an empty string if there is none.
func (p *Parser[C]) configFile(cfg *C) (string, error) {
	var path string
	if p.ConfigLocation != nil {
		path = p.ConfigLocation(cfg)
	}
	if path == "" {
		return findConfigFile(p.DefaultConfigLocations), nil
	}
	return homedir.Expand(path)
}

// Parse parses the command line and loads the config file if
// there is one. Options given on the command line take precedence
// over the ones from the file.
// It returns the remaining arguments and the configuration.
func (p *Parser[C]) Parse() ([]string, *C, error) {
	cfg := p.fresh()
	args, err := p.commandLine(cfg)
	if err != nil {
		return nil, nil, err
	}

	if p.HasVersion != nil && p.HasVersion(cfg) {
		fmt.Println(util.SemVersion)
		os.Exit(0)
	}

	path, err := p.configFile(cfg)
	if err != nil {
		return nil, nil, err
	}

	if path != "" {
		// Start over: file first, then the command line on top.
		cfg = p.fresh()
		if err := loadTOML(cfg, path); err != nil {
			return nil, nil, err
		}
		if args, err = p.commandLine(cfg); err != nil {
			return nil, nil, err
		}
	}

	if p.EnsureDefaults != nil {
		p.EnsureDefaults(cfg)
	}
	return args, cfg, nil
}

// findConfigFile returns the first existing file of the given
// locations or an empty string if none exists.
func findConfigFile(locations []string) string {
	for _, location := range locations {
		name, err := homedir.Expand(location)
		if err != nil {
			slog.Warn("Expanding config location failed", "location", location, "err", err)
			continue
		}
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// loadTOML decodes the TOML file at path into cfg.
// Keys not known to cfg are an error.
func loadTOML(cfg any, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("could not parse %q from %q", undecoded, path)
	}
	return nil
}

// ErrorCheck ends the program if err is not nil.
func ErrorCheck(err error) {
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
}

// ErrorCheckStructured ends the program with exit code 1 if err
// is not nil. The error goes to the default structured logger.
func ErrorCheckStructured(err error) {
	if err != nil {
		slog.Error("Error while executing program", "err", err)
		os.Exit(1)
	}
}
