// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package main

import (
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/isac-bench/isac_bench/isac"
	"github.com/isac-bench/isac_bench/util"
)

// score is the result of a model on the questions with a known answer.
type score struct {
	Model    string  `json:"model"`
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Unknown  int     `json:"unknown"`
	Failed   int     `json:"failed"`
	Accuracy float64 `json:"accuracy"`
}

type scores []score

func newScores(models []string, answered []*isac.AnsweredQuestion) scores {
	ss := make(scores, len(models))
	for i, model := range models {
		s := &ss[i]
		s.Model = model
		for _, aq := range answered {
			if aq.CorrectAnswer == "" {
				continue
			}
			s.Total++
			answer, _ := aq.Answers.Get(model)
			switch {
			case strings.EqualFold(answer, aq.CorrectAnswer):
				s.Correct++
			case answer == isac.Unknown:
				s.Unknown++
			case answer == isac.Failed:
				s.Failed++
			}
		}
		if s.Total > 0 {
			s.Accuracy = float64(s.Correct) / float64(s.Total)
		}
	}
	return ss
}

func (ss scores) log() {
	for i := range ss {
		s := &ss[i]
		if s.Total == 0 {
			continue
		}
		slog.Info("Model accuracy",
			"model", s.Model,
			"total", s.Total,
			"correct", s.Correct,
			"unknown", s.Unknown,
			"failed", s.Failed,
			"accuracy", s.Accuracy)
	}
}

func (ss scores) writeCSV(w io.Writer) error {
	records := [][]string{{"model", "total", "correct", "unknown", "failed", "accuracy"}}
	for _, s := range ss {
		records = append(records, []string{
			s.Model,
			strconv.Itoa(s.Total),
			strconv.Itoa(s.Correct),
			strconv.Itoa(s.Unknown),
			strconv.Itoa(s.Failed),
			strconv.FormatFloat(s.Accuracy, 'f', 4, 64),
		})
	}
	return util.NewQuotedCSVWriter(w).WriteAll(records)
}

func (ss scores) write(fname string) error {
	if strings.EqualFold(filepath.Ext(fname), ".json") {
		return util.WriteJSONFile(fname, ss, "  ")
	}
	return util.WriteFileAtomic(fname, ss.writeCSV)
}
