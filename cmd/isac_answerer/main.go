// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

// Package main implements the isac_answerer tool.
// It asks language models to answer benchmark questions.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/google/uuid"

	"github.com/isac-bench/isac_bench/internal/options"
)

func run(cfg *config, args []string) error {
	if err := cfg.check(args); err != nil {
		return err
	}
	client, err := cfg.Options.NewClient()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := answerer{cfg: cfg, client: client}
	return a.run(ctx, args[0])
}

func main() {
	args, cfg, err := parseArgsConfig()
	options.ErrorCheck(err)
	closer, err := cfg.Logging.Prepare()
	options.ErrorCheck(err)

	slog.SetDefault(slog.Default().With("run", uuid.NewString()))
	slog.Info("Starting answering", "models", cfg.Models)

	err = run(cfg, args)
	closer.Close()
	options.ErrorCheck(err)
}
