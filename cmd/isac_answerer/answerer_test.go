// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/isac-bench/isac_bench/internal/llm"
	"github.com/isac-bench/isac_bench/isac"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeCompleter struct {
	mu       sync.Mutex
	requests []*llm.Request
}

func (fc *fakeCompleter) Complete(_ context.Context, req *llm.Request) (string, error) {
	fc.mu.Lock()
	fc.requests = append(fc.requests, req)
	fc.mu.Unlock()
	prompt := req.Messages[1].Content
	switch {
	case req.Model == "m1":
		return "A", nil
	case strings.Contains(prompt, "Q1?"):
		return "", errors.New("rate limited")
	default:
		return " t\n", nil
	}
}

const questions = `[
  {"id": 7, "question": "Q1?", "options": {"B": "no", "A": "yes"}, "correct_answer": "A"},
  {"question": "Q2?", "options": {"T": "True", "F": "False"}, "correct_answer": "T"},
  {"question": "Q3?", "options": {"A": "x", "B": "y"}, "source": "curated"}
]`

func testConfig(t *testing.T) (*config, string) {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "questions.json")
	if err := os.WriteFile(input, []byte(questions), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := &config{}
	setDefaults(cfg)
	cfg.Models = []string{"m1", "m2"}
	cfg.Output = filepath.Join(dir, "answered.json")
	cfg.Scores = filepath.Join(dir, "scores.csv")
	cfg.Worker = 2
	return cfg, input
}

// cancelingCompleter cancels the run after a number of completions.
type cancelingCompleter struct {
	mu     sync.Mutex
	calls  int
	after  int
	cancel context.CancelFunc
}

func (cc *cancelingCompleter) Complete(ctx context.Context, _ *llm.Request) (string, error) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.calls++; cc.calls == cc.after {
		cc.cancel()
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "A", nil
}

func TestAnswerAllCompletes(t *testing.T) {
	cfg, _ := testConfig(t)
	a := answerer{cfg: cfg, client: &fakeCompleter{}}
	answered, err := a.answerAll(context.Background(), []*isac.Question{
		{Question: "Q?", Options: isac.Options{{Key: "A", Value: "x"}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(answered) != 1 || answered[0] == nil {
		t.Fatalf("unexpected answers %+v", answered)
	}
}

func TestAnswererCanceled(t *testing.T) {
	cfg, input := testConfig(t)
	cfg.Worker = 1
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cc := &cancelingCompleter{after: 3, cancel: cancel}
	a := answerer{cfg: cfg, client: cc}

	if err := a.run(ctx, input); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if cc.calls >= 6 {
		t.Errorf("got %d completions, expected the run to stop early", cc.calls)
	}
	if _, err := os.Stat(cfg.Output); !os.IsNotExist(err) {
		t.Errorf("output should not be written: %v", err)
	}
}

func TestAnswerer(t *testing.T) {
	cfg, input := testConfig(t)
	fc := &fakeCompleter{}
	a := answerer{cfg: cfg, client: fc}
	if err := a.run(context.Background(), input); err != nil {
		t.Fatal(err)
	}

	if len(fc.requests) != 6 {
		t.Fatalf("got %d requests, want 6", len(fc.requests))
	}
	for _, req := range fc.requests {
		if req.Temperature != answerTemperature ||
			req.MaxTokens != answerMaxTokens ||
			req.Messages[0].Content != isac.AnswerSystemPrompt {
			t.Errorf("unexpected request %+v", req)
		}
	}

	answered, err := isac.LoadList[*isac.AnsweredQuestion](cfg.Output)
	if err != nil {
		t.Fatal(err)
	}
	var got [][]string
	for _, aq := range answered {
		a1, _ := aq.Answers.Get("m1")
		a2, _ := aq.Answers.Get("m2")
		got = append(got, []string{aq.Question.Question, a1, a2})
	}
	want := [][]string{
		{"Q1?", "A", isac.Failed},
		{"Q2?", "A", "T"},
		{"Q3?", "A", "T"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("answers mismatch (-want +got):\n%s", diff)
	}
	if keys := answered[0].Options.Keys(); !cmp.Equal(keys, []string{"B", "A"}) {
		t.Errorf("option order lost: %q", keys)
	}
	if src, ok := answered[2].Field("source"); !ok || string(src) != `"curated"` {
		t.Errorf("source not carried: %s", src)
	}
	if _, ok := answered[2].Field("correct_answer"); ok {
		t.Error("correct_answer should not be added")
	}

	data, err := os.ReadFile(cfg.Scores)
	if err != nil {
		t.Fatal(err)
	}
	const wantScores = `"model","total","correct","unknown","failed","accuracy"
"m1","2","1","0","0","0.5000"
"m2","2","1","0","1","0.5000"
`
	if diff := cmp.Diff(wantScores, string(data)); diff != "" {
		t.Errorf("scores mismatch (-want +got):\n%s", diff)
	}
}

func TestAnswerPromptOrder(t *testing.T) {
	cfg, input := testConfig(t)
	cfg.Models = []string{"m1"}
	fc := &fakeCompleter{}
	a := answerer{cfg: cfg, client: fc}
	if err := a.run(context.Background(), input); err != nil {
		t.Fatal(err)
	}
	var prompt string
	for _, req := range fc.requests {
		if strings.Contains(req.Messages[1].Content, "Q1?") {
			prompt = req.Messages[1].Content
		}
	}
	if !strings.Contains(prompt, "B: no\nA: yes\n") {
		t.Errorf("options not in document order:\n%s", prompt)
	}
}

func TestScores(t *testing.T) {
	mk := func(correct string, answers ...string) *isac.AnsweredQuestion {
		aq := &isac.AnsweredQuestion{}
		aq.CorrectAnswer = correct
		aq.Answers.Set("m", answers[0])
		return aq
	}
	ss := newScores([]string{"m", "other"}, []*isac.AnsweredQuestion{
		mk("A", "a"),
		mk("B", isac.Unknown),
		mk("C", isac.Failed),
		mk("D", "A"),
		mk("", "A"),
	})
	want := scores{
		{Model: "m", Total: 4, Correct: 1, Unknown: 1, Failed: 1, Accuracy: 0.25},
		{Model: "other", Total: 4},
	}
	if diff := cmp.Diff(want, ss); diff != "" {
		t.Errorf("scores mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteScoresJSON(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "scores.json")
	ss := scores{{Model: "m", Total: 2, Correct: 1, Accuracy: 0.5}}
	if err := ss.write(fname); err != nil {
		t.Fatal(err)
	}
	got, err := isac.LoadList[score](fname)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]score(ss), got); diff != "" {
		t.Errorf("scores mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigCheck(t *testing.T) {
	cfg := &config{}
	ensureDefaults(cfg)
	if !cmp.Equal(cfg.Models, defaultModels) {
		t.Errorf("got models %q", cfg.Models)
	}
	for _, x := range []struct {
		models []string
		args   []string
		fail   bool
	}{
		{models: []string{"a"}, args: []string{"q.json"}},
		{models: []string{"a"}, fail: true},
		{models: []string{"a", "a"}, args: []string{"q.json"}, fail: true},
		{models: []string{""}, args: []string{"q.json"}, fail: true},
	} {
		cfg.Models = x.models
		if err := cfg.check(x.args); (err != nil) != x.fail {
			t.Errorf("%q %q: got %v", x.models, x.args, err)
		}
	}
}
