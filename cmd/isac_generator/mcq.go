// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/isac-bench/isac_bench/internal/llm"
	"github.com/isac-bench/isac_bench/isac"
	"github.com/isac-bench/isac_bench/util"
)

const (
	mcqTemperature = 0.7
	mcqMaxTokens   = 1500
)

type mcqResult struct {
	mcqs []*isac.MCQ
	err  error
	done bool
}

func (g *generator) loadEntities(files []string) ([]*isac.Entity, error) {
	var entities []*isac.Entity
	for _, fname := range files {
		entries, err := isac.LoadEntriesFromFile(fname)
		if err != nil {
			return nil, fmt.Errorf("loading %q failed: %w", fname, err)
		}
		g.stats.files++
		for _, e := range entries {
			es := isac.ExtractEntities(e)
			slog.Debug("Extracted entities",
				"file", fname,
				"title", e.Title,
				"type", isac.Identify(e),
				"entities", len(es))
			entities = append(entities, es...)
		}
	}
	return entities, nil
}

func (g *generator) entityMCQs(ctx context.Context, e *isac.Entity) ([]*isac.MCQ, error) {
	prompt, err := isac.MCQPrompt(e, &isac.PromptOptions{PlainText: g.cfg.PlainText})
	if err != nil {
		return nil, err
	}
	reply, err := g.client.Complete(ctx, &llm.Request{
		Model: g.cfg.Model,
		Messages: []llm.Message{
			{Role: llm.System, Content: prompt.System},
			{Role: llm.User, Content: prompt.User},
		},
		Temperature: mcqTemperature,
		MaxTokens:   mcqMaxTokens,
	})
	if err != nil {
		return nil, err
	}
	return isac.ParseResponse(reply, e)
}

func (g *generator) generateMCQs(ctx context.Context, files []string) error {
	entities, err := g.loadEntities(files)
	if err != nil {
		return err
	}
	g.stats.entities = len(entities)

	results := make([]mcqResult, len(entities))
	process(ctx, g.cfg.Worker, len(entities), func(ctx context.Context, i int) {
		mcqs, err := g.entityMCQs(ctx, entities[i])
		results[i] = mcqResult{mcqs: mcqs, err: err, done: true}
	})

	mcqs := []*isac.MCQ{}
	for i, r := range results {
		e := entities[i]
		switch {
		case !r.done:
			continue
		case r.err != nil:
			slog.Warn("Generating MCQs failed",
				"type", e.Type,
				"title", e.Title,
				"err", r.err)
			g.stats.failed++
			continue
		}
		for _, mcq := range r.mcqs {
			if err := mcq.Validate(); err != nil {
				slog.Warn("Invalid MCQ",
					"title", e.Title,
					"question_type", mcq.QuestionType,
					"err", err)
				g.stats.invalid++
			}
		}
		slog.Info("Generated MCQs",
			"type", e.Type,
			"title", e.Title,
			"questions", len(r.mcqs))
		mcqs = append(mcqs, r.mcqs...)
	}
	g.stats.questions = len(mcqs)

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := util.WriteJSONFile(g.cfg.Output, mcqs, "  "); err != nil {
		return err
	}
	slog.Info("MCQs saved", "file", g.cfg.Output, "questions", len(mcqs))

	byQuestion := tally(mcqs, func(m *isac.MCQ) string { return m.QuestionType })
	byEntity := tally(mcqs, func(m *isac.MCQ) string { return string(m.EntityType) })
	slog.Info("MCQ summary",
		"model", g.cfg.Model,
		"question_types", byQuestion,
		"entity_types", byEntity)

	if g.cfg.Print && g.out != nil {
		return printMCQs(g.out, g.cfg.Model, mcqs, byQuestion, byEntity)
	}
	return nil
}
