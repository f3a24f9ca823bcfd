// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/isac-bench/isac_bench/internal/llm"
	"github.com/isac-bench/isac_bench/isac"
	"github.com/isac-bench/isac_bench/util"
)

const tfTemperature = 0.9

func (g *generator) tfOutput(chunk string) string {
	return filepath.Join(g.cfg.OutDir, "mcqs_"+filepath.Base(chunk))
}

// chunkTF generates the TF questions of a single chunk file.
func (g *generator) chunkTF(ctx context.Context, chunk string) (*stats, error) {
	st := &stats{files: 1}
	entries, err := isac.LoadEntriesFromFile(chunk)
	if err != nil {
		return st, err
	}
	st.entities = len(entries)

	prompt, err := isac.TFPrompt(entries)
	if err != nil {
		return st, err
	}
	reply, err := g.client.Complete(ctx, &llm.Request{
		Model:       g.cfg.Model,
		Messages:    []llm.Message{{Role: llm.User, Content: prompt}},
		Temperature: tfTemperature,
	})
	if err != nil {
		return st, err
	}
	cleaned := isac.StripCodeFences(reply)
	fname := g.tfOutput(chunk)

	questions, err := isac.ParseTFResponse(cleaned)
	if err != nil {
		slog.Warn("Reply contains no TF questions, keeping raw text",
			"chunk", chunk,
			"file", fname,
			"err", err)
		st.unparsable++
		return st, util.WriteBytesFile(fname, []byte(cleaned))
	}

	for i, q := range questions {
		if err := q.Validate(); err != nil {
			slog.Warn("Invalid TF question",
				"file", fname,
				"index", i,
				"err", err)
			st.invalid++
		}
	}
	st.questions = len(questions)

	// Re-indent the reply but keep all its fields in order.
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(cleaned), "", "  "); err != nil {
		return st, err
	}
	buf.WriteByte('\n')
	if err := util.WriteBytesFile(fname, buf.Bytes()); err != nil {
		return st, err
	}
	slog.Info("TF questions saved",
		"chunk", chunk,
		"file", fname,
		"questions", len(questions))
	return st, nil
}

func (g *generator) generateTF(ctx context.Context, chunks []string) error {
	if err := os.MkdirAll(g.cfg.OutDir, 0755); err != nil {
		return err
	}

	type result struct {
		stats *stats
		err   error
	}
	results := make([]result, len(chunks))
	process(ctx, g.cfg.Worker, len(chunks), func(ctx context.Context, i int) {
		st, err := g.chunkTF(ctx, chunks[i])
		results[i] = result{stats: st, err: err}
	})

	for i, r := range results {
		if r.stats == nil {
			continue
		}
		if r.err != nil {
			slog.Warn("Generating TF questions failed",
				"chunk", chunks[i],
				"err", r.err)
			r.stats.failed++
		}
		g.stats.add(r.stats)
	}
	return ctx.Err()
}
