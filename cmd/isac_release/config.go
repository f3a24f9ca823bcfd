// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package main

import (
	"os"

	"github.com/ProtonMail/gopenpgp/v2/crypto"

	"github.com/isac-bench/isac_bench/internal/options"
)

const defaultLockFile = ".isac_release.lock"

type config struct {
	Key                   *string `short:"k" long:"key" description:"OpenPGP key FILE to sign the documents with" value-name:"KEY-FILE" toml:"key"`
	Passphrase            *string `short:"P" long:"passphrase" description:"Passphrase to unlock the OpenPGP key" value-name:"PASSPHRASE" toml:"passphrase"`
	PassphraseInteractive bool    `short:"I" long:"passphrase_interactive" description:"Enter OpenPGP key passphrase interactively" toml:"passphrase_interactive"`
	NoSummary             bool    `long:"nosummary" description:"Do not add document summaries to the release" toml:"nosummary"`
	LockFile              *string `short:"l" long:"lock_file" description:"FILE to lock against concurrent runs (defaults to DIR/.isac_release.lock)" value-name:"FILE" toml:"lock_file"`
	Version               bool    `long:"version" description:"Display version of the binary" toml:"-"`

	options.Logging

	Config string `short:"c" long:"config" description:"Path to config TOML file" value-name:"TOML-FILE" toml:"-"`

	keyRing *crypto.KeyRing
}

func parseArgsConfig() ([]string, *config, error) {
	p := options.Parser[config]{
		DefaultConfigLocations: options.DefaultConfigLocations("release"),
		ConfigLocation:         func(cfg *config) string { return cfg.Config },
		Usage:                  "[OPTIONS] dir",
		HasVersion:             func(cfg *config) bool { return cfg.Version },
	}
	return p.Parse()
}

// loadOpenPGPKey loads an armored OpenPGP key.
func loadOpenPGPKey(filename string) (*crypto.Key, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return crypto.NewKeyFromArmoredReader(f)
}

func (cfg *config) prepareOpenPGPKey() error {
	if cfg.Key == nil {
		return nil
	}
	if cfg.PassphraseInteractive {
		if err := options.ReadInteractive("Enter OpenPGP passphrase: ", &cfg.Passphrase); err != nil {
			return err
		}
	}
	key, err := loadOpenPGPKey(*cfg.Key)
	if err != nil {
		return err
	}
	if cfg.Passphrase != nil {
		if key, err = key.Unlock([]byte(*cfg.Passphrase)); err != nil {
			return err
		}
	}
	cfg.keyRing, err = crypto.NewKeyRing(key)
	return err
}
