// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

// Package main implements the isac_generator tool.
// It lets a language model generate multiple choice and
// true/false questions from Auto-ISAC procedures and chunks.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/google/uuid"

	"github.com/isac-bench/isac_bench/internal/options"
)

func run(cfg *config, files []string) error {
	if err := cfg.check(files); err != nil {
		return err
	}
	client, err := cfg.Options.NewClient()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g := generator{cfg: cfg, client: client, out: os.Stdout}
	return g.run(ctx, files)
}

func main() {
	files, cfg, err := parseArgsConfig()
	options.ErrorCheck(err)
	closer, err := cfg.Logging.Prepare()
	options.ErrorCheck(err)

	slog.SetDefault(slog.Default().With("run", uuid.NewString()))
	slog.Info("Starting generation",
		"kind", cfg.Kind,
		"model", cfg.Model,
		"files", len(files))

	err = run(cfg, files)
	closer.Close()
	options.ErrorCheck(err)
}
