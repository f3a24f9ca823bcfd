// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

// Package main implements the isac_validator tool.
// It checks the JSON documents of the data set against
// their schemas and semantic rules.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/isac-bench/isac_bench/internal/options"
	"github.com/isac-bench/isac_bench/isac"
	"github.com/isac-bench/isac_bench/util"
)

type processor struct {
	cfg  *config
	out  io.Writer
	expr *util.PathEval
}

func (p *processor) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *processor) messages(header string, msgs []string) {
	p.printf("%s\n", header)
	for _, msg := range msgs {
		p.printf("  * %s\n", msg)
	}
}

// validate checks a single file and reports if it passes.
func (p *processor) validate(fname string) (bool, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return false, err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return false, fmt.Errorf("loading %q as JSON failed: %w", fname, err)
	}

	var kind isac.Kind
	if p.cfg.Kind != nil {
		kind = *p.cfg.Kind
	} else if kind, err = isac.DetectKind(doc); err != nil {
		return false, fmt.Errorf("%q: %w", fname, err)
	}
	slog.Debug("Validating", "file", fname, "kind", kind)

	passes := true
	if !conformingName(kind, fname) {
		p.printf("%q is not a conforming %s file name.\n", fname, kind)
		passes = p.cfg.IgnoreNames
	}

	schemaErrs, err := isac.Validate(kind, doc)
	if err != nil {
		return false, fmt.Errorf("validating %q against schema failed: %w", fname, err)
	}
	if len(schemaErrs) > 0 {
		p.messages(fmt.Sprintf("schema validation errors of %q", fname), schemaErrs)
		return false, nil
	}
	p.printf("%q passes the %s schema validation.\n", fname, kind)

	semErrs, err := semanticErrors(kind, data)
	if err != nil {
		return false, fmt.Errorf("semantic validation of %q failed: %w", fname, err)
	}
	if len(semErrs) > 0 {
		p.messages(fmt.Sprintf("semantic validation errors of %q", fname), semErrs)
		return false, nil
	}
	p.printf("%q passes the semantic validation.\n", fname)

	if p.cfg.Summary {
		ds, err := isac.NewDocumentSummary(p.expr, kind, doc)
		if err != nil {
			return false, err
		}
		summary, err := json.Marshal(ds)
		if err != nil {
			return false, err
		}
		p.printf("summary of %q: %s\n", fname, summary)
	}
	return passes, nil
}

// run validates the files and returns the number of failed ones.
func (p *processor) run(files []string) int {
	var failed int
	for _, fname := range files {
		ok, err := p.validate(fname)
		if err != nil {
			slog.Error("Validation failed", "file", fname, "err", err)
		}
		if !ok {
			failed++
		}
	}
	slog.Info("Validation statistics",
		"files", len(files),
		"passed", len(files)-failed,
		"failed", failed)
	return failed
}

func main() {
	files, cfg, err := parseArgsConfig()
	options.ErrorCheck(err)
	closer, err := cfg.Logging.Prepare()
	options.ErrorCheck(err)

	if len(files) == 0 {
		slog.Warn("No files given.")
		closer.Close()
		return
	}

	p := processor{cfg: cfg, out: os.Stdout, expr: util.NewPathEval()}
	failed := p.run(files)
	closer.Close()
	if failed > 0 {
		os.Exit(1)
	}
}
