// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

// Package main implements the isac_release tool.
// It prepares a directory of data set documents for publication.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/isac-bench/isac_bench/internal/options"
	"github.com/isac-bench/isac_bench/util"
)

func lock(lockFile string, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(lockFile), 0700); err != nil {
		return fmt.Errorf("file locking failed: %v", err)
	}

	fl := flock.New(lockFile)
	locked, err := fl.TryLock()
	if err != nil {
		return fmt.Errorf("file locking failed: %v", err)
	}
	if !locked {
		return fmt.Errorf("cannot acquire file lock at %s. Maybe isac_release is already running?", lockFile)
	}
	defer fl.Unlock()
	return fn()
}

func run(cfg *config, args []string) error {
	if len(args) != 1 {
		return errors.New("exactly one release directory expected")
	}
	dir := args[0]
	if info, err := os.Stat(dir); err != nil {
		return err
	} else if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", dir)
	}

	lockFile := filepath.Join(dir, defaultLockFile)
	if cfg.LockFile != nil {
		lockFile = *cfg.LockFile
	}

	p := processor{
		cfg:  cfg,
		dir:  dir,
		expr: util.NewPathEval(),
		now:  time.Now,
	}
	return lock(lockFile, p.process)
}

func main() {
	args, cfg, err := parseArgsConfig()
	options.ErrorCheckStructured(err)
	closer, err := cfg.Logging.Prepare()
	options.ErrorCheckStructured(err)

	if err = cfg.prepareOpenPGPKey(); err == nil {
		err = run(cfg, args)
	}
	if err != nil {
		slog.Error("Error while executing program", "err", err)
	}
	closer.Close()
	if err != nil {
		os.Exit(1)
	}
}
