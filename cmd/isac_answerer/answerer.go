// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package main

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/isac-bench/isac_bench/internal/llm"
	"github.com/isac-bench/isac_bench/isac"
	"github.com/isac-bench/isac_bench/util"
)

const (
	answerTemperature = 0.1
	answerMaxTokens   = 10
)

type answerer struct {
	cfg    *config
	client llm.Completer
}

// ask asks a single model. Failures are recorded as [isac.Failed].
func (a *answerer) ask(ctx context.Context, model, prompt string) string {
	reply, err := a.client.Complete(ctx, &llm.Request{
		Model: model,
		Messages: []llm.Message{
			{Role: llm.System, Content: isac.AnswerSystemPrompt},
			{Role: llm.User, Content: prompt},
		},
		Temperature: answerTemperature,
		MaxTokens:   answerMaxTokens,
	})
	if err != nil {
		slog.Warn("Getting answer failed", "model", model, "err", err)
		return isac.Failed
	}
	return isac.AnswerLetter(reply)
}

func (a *answerer) answer(ctx context.Context, i int, q *isac.Question) (*isac.AnsweredQuestion, error) {
	prompt, err := isac.AnswerPrompt(q.Question, q.Options)
	if err != nil {
		return nil, err
	}
	aq := &isac.AnsweredQuestion{Question: *q}
	for _, model := range a.cfg.Models {
		aq.Answers.Set(model, a.ask(ctx, model, prompt))
	}
	slog.Debug("Answered question", "index", i, "answers", aq.Answers)
	return aq, nil
}

func (a *answerer) answerAll(ctx context.Context, questions []*isac.Question) ([]*isac.AnsweredQuestion, error) {
	answered := make([]*isac.AnsweredQuestion, len(questions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Worker)

	for i, q := range questions {
		if gctx.Err() != nil {
			break
		}
		if err := q.Validate(); err != nil {
			slog.Warn("Invalid question", "index", i, "err", err)
		}
		i, q := i, q
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			aq, err := a.answer(gctx, i, q)
			if err != nil {
				return err
			}
			answered[i] = aq
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return answered, ctx.Err()
}

func (a *answerer) run(ctx context.Context, fname string) error {
	questions, err := isac.LoadList[*isac.Question](fname)
	if err != nil {
		return err
	}
	slog.Info("Loaded questions", "file", fname, "questions", len(questions))

	answered, err := a.answerAll(ctx, questions)
	if err != nil {
		return err
	}
	if answered == nil {
		answered = []*isac.AnsweredQuestion{}
	}
	if err := util.WriteJSONFile(a.cfg.Output, answered, "  "); err != nil {
		return err
	}
	slog.Info("Answers saved", "file", a.cfg.Output, "questions", len(answered))

	scores := newScores(a.cfg.Models, answered)
	scores.log()
	if a.cfg.Scores != "" {
		return scores.write(a.cfg.Scores)
	}
	return nil
}
