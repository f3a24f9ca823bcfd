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
	reply    func(*llm.Request) (string, error)
}

func (fc *fakeCompleter) Complete(_ context.Context, req *llm.Request) (string, error) {
	fc.mu.Lock()
	fc.requests = append(fc.requests, req)
	fc.mu.Unlock()
	return fc.reply(req)
}

func lastContent(req *llm.Request) string {
	return req.Messages[len(req.Messages)-1].Content
}

const entries = `[
  {"title": "Credential Access", "type": "Tactic", "id": "TA-CRED-1",
   "technique": [
     {"title": "Network Sniffing", "id": "T-SNIFF-1"},
     {"title": "Brute Force", "id": "T-BRUTE-1"}
   ]},
  {"title": "CAN Message Injection", "type": "procedure", "id": "P-CAN-1",
   "technique": [{"title": "Inject CAN Messages"}]},
  {"title": "Broken Technique", "type": "technique", "id": "T-FAIL-9"}
]`

const techniqueReply = `{
  "question_type": "Factual Recall MCQ",
  "question": "Which?",
  "options": {"A": "a", "B": "b", "C": "c", "D": "d"},
  "correct_answer": "A",
  "explanation": "Because."
}`

const procedureReply = "```json\n[" + `
  {"procedure_id": "P-CAN-1", "question_type": "Scenario-Based", "question": "First?",
   "options": {"A": "a", "B": "b", "C": "c", "D": "d"}, "correct_answer": "B", "explanation": "x"},
  {"question_type": "Diagnostic MCQ", "question": "Second?",
   "options": {"A": "a", "B": "b", "C": "c", "D": "d"}, "correct_answer": "E", "explanation": "y"}
]` + "\n```"

func mcqReplies(req *llm.Request) (string, error) {
	content := lastContent(req)
	switch {
	case strings.Contains(content, "T-FAIL-9"):
		return "", errors.New("model overloaded")
	case strings.Contains(content, "P-CAN-1"):
		return procedureReply, nil
	default:
		return techniqueReply, nil
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	fname := filepath.Join(dir, name)
	if err := os.WriteFile(fname, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return fname
}

func testConfig(t *testing.T) *config {
	cfg := &config{}
	setDefaults(cfg)
	dir := t.TempDir()
	cfg.Output = filepath.Join(dir, "questions.json")
	cfg.OutDir = filepath.Join(dir, "questions_tf")
	cfg.Worker = 3
	return cfg
}

func TestGenerateMCQs(t *testing.T) {
	cfg := testConfig(t)
	cfg.Print = true
	input := writeFile(t, t.TempDir(), "procedures.json", entries)

	fc := &fakeCompleter{reply: mcqReplies}
	var out bytes.Buffer
	g := generator{cfg: cfg, client: fc, out: &out}
	if err := g.run(context.Background(), []string{input}); err != nil {
		t.Fatal(err)
	}

	if len(fc.requests) != 4 {
		t.Fatalf("got %d requests, want 4", len(fc.requests))
	}
	for _, req := range fc.requests {
		if req.Model != defaultModel ||
			req.Temperature != mcqTemperature ||
			req.MaxTokens != mcqMaxTokens ||
			len(req.Messages) != 2 ||
			req.Messages[0].Role != llm.System {
			t.Errorf("unexpected request %+v", req)
		}
	}

	mcqs, err := isac.LoadList[isac.MCQ](cfg.Output)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, m := range mcqs {
		got = append(got, m.EntityID+"/"+m.EntityTitle)
	}
	want := []string{
		"T-SNIFF-1/Network Sniffing",
		"T-BRUTE-1/Brute Force",
		"P-CAN-1/CAN Message Injection",
		"P-CAN-1/CAN Message Injection",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if mcqs[0].EntityType != isac.TechniqueType || mcqs[2].EntityType != isac.ProcedureType {
		t.Errorf("unexpected entity types %q %q", mcqs[0].EntityType, mcqs[2].EntityType)
	}

	wantStats := stats{files: 1, entities: 4, failed: 1, invalid: 1, questions: 4}
	if g.stats != wantStats {
		t.Errorf("got stats %+v want %+v", g.stats, wantStats)
	}

	printed := out.String()
	for _, s := range []string{
		"QUESTION 4\n",
		"Technique: Network Sniffing (T-SNIFF-1)\n",
		"  A. a ✓\n",
		"Total questions generated: 4\n",
		"By Question Type:\n  Factual Recall MCQ: 2\n  Scenario-Based: 1\n  Diagnostic MCQ: 1\n",
		"By Entity Type:\n  technique: 2\n  procedure: 2\n",
	} {
		if !strings.Contains(printed, s) {
			t.Errorf("output misses %q", s)
		}
	}
}

func TestGenerateMCQsPlainText(t *testing.T) {
	cfg := testConfig(t)
	cfg.PlainText = true
	input := writeFile(t, t.TempDir(), "procedures.json", `{
	  "title": "HTML Technique", "type": "technique", "id": "T-HTML-1",
	  "description": "<p>Reads <b>memory</b></p>"}`)

	fc := &fakeCompleter{reply: mcqReplies}
	g := generator{cfg: cfg, client: fc}
	if err := g.run(context.Background(), []string{input}); err != nil {
		t.Fatal(err)
	}
	content := lastContent(fc.requests[0])
	if strings.Contains(content, "<p>") || !strings.Contains(content, "Reads memory") {
		t.Errorf("description not converted:\n%s", content)
	}
}

func TestGenerateMCQsCanceled(t *testing.T) {
	cfg := testConfig(t)
	input := writeFile(t, t.TempDir(), "procedures.json", entries)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := generator{cfg: cfg, client: &fakeCompleter{reply: mcqReplies}}
	if err := g.run(ctx, []string{input}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(cfg.Output); !os.IsNotExist(err) {
		t.Errorf("output should not be written: %v", err)
	}
}

func TestGenerateMCQsMissingFile(t *testing.T) {
	g := generator{cfg: testConfig(t), client: &fakeCompleter{reply: mcqReplies}}
	if err := g.run(context.Background(), []string{"missing.json"}); err == nil {
		t.Error("expected error")
	}
}

const tfReply = "```json\n" + `[{"question": "CAN frames are signed?",
  "options": {"T": "True", "F": "False"},
  "correct_answer": "F",
  "Explanation": {"T": "No.", "F": "Right."},
  "source_procedures": ["Good Procedure"]}]` + "\n```"

func TestGenerateTF(t *testing.T) {
	cfg := testConfig(t)
	cfg.Kind = "tf"
	dir := t.TempDir()
	chunks := []string{
		writeFile(t, dir, "group_1.json", `[{"title": "Good Procedure", "type": "procedure"}]`),
		writeFile(t, dir, "group_2.json", `[{"title": "Bad Procedure", "type": "procedure"}]`),
		writeFile(t, dir, "group_3.json", `[{"title": "Failing Procedure", "type": "procedure"}]`),
	}
	fc := &fakeCompleter{reply: func(req *llm.Request) (string, error) {
		content := lastContent(req)
		switch {
		case strings.Contains(content, "Good Procedure"):
			return tfReply, nil
		case strings.Contains(content, "Bad Procedure"):
			return "Sorry, I cannot help.", nil
		default:
			return "", errors.New("timeout")
		}
	}}
	g := generator{cfg: cfg, client: fc}
	if err := g.run(context.Background(), chunks); err != nil {
		t.Fatal(err)
	}

	for _, req := range fc.requests {
		if req.Temperature != tfTemperature || req.MaxTokens != 0 ||
			len(req.Messages) != 1 || req.Messages[0].Role != llm.User {
			t.Errorf("unexpected request %+v", req)
		}
	}

	good, err := os.ReadFile(filepath.Join(cfg.OutDir, "mcqs_group_1.json"))
	if err != nil {
		t.Fatal(err)
	}
	const wantGood = `[
  {
    "question": "CAN frames are signed?",
    "options": {
      "T": "True",
      "F": "False"
    },
    "correct_answer": "F",
    "Explanation": {
      "T": "No.",
      "F": "Right."
    },
    "source_procedures": [
      "Good Procedure"
    ]
  }
]
`
	if diff := cmp.Diff(wantGood, string(good)); diff != "" {
		t.Errorf("TF output mismatch (-want +got):\n%s", diff)
	}

	bad, err := os.ReadFile(filepath.Join(cfg.OutDir, "mcqs_group_2.json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(bad) != "Sorry, I cannot help." {
		t.Errorf("got raw output %q", bad)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutDir, "mcqs_group_3.json")); !os.IsNotExist(err) {
		t.Errorf("failed chunk should not be written: %v", err)
	}

	wantStats := stats{files: 3, entities: 3, failed: 1, unparsable: 1, questions: 1}
	if g.stats != wantStats {
		t.Errorf("got stats %+v want %+v", g.stats, wantStats)
	}
}

func TestProcess(t *testing.T) {
	for _, worker := range []int{0, 1, 4} {
		results := make([]int, 10)
		process(context.Background(), worker, len(results), func(_ context.Context, i int) {
			results[i] = i * i
		})
		for i, r := range results {
			if r != i*i {
				t.Errorf("worker %d: result %d is %d", worker, i, r)
			}
		}
	}
}

func TestTally(t *testing.T) {
	got := tally([]string{"b", "a", "b", "c", "b"}, func(s string) string { return s })
	want := []isac.Count{{Name: "b", Count: 3}, {Name: "a", Count: 1}, {Name: "c", Count: 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tally mismatch (-want +got):\n%s", diff)
	}
}

func TestPrintMCQs(t *testing.T) {
	mcq := &isac.MCQ{
		EntityID:     "ATM-T0055",
		EntityTitle:  "Abuse UDS for Collection",
		EntityType:   isac.TechniqueType,
		QuestionType: isac.ScenarioBased,
		Question:     "Which UDS service?",
		Options: isac.Options{
			{Key: "A", Value: "0x27"}, {Key: "B", Value: "0x23"},
			{Key: "C", Value: "0x22"}, {Key: "D", Value: "0x31"},
		},
		CorrectAnswer: "B",
		Explanation:   "Read Memory by Address.",
	}
	var buf bytes.Buffer
	mcqs := []*isac.MCQ{mcq}
	if err := printMCQs(&buf, "gpt-4o", mcqs,
		tally(mcqs, func(m *isac.MCQ) string { return m.QuestionType }),
		tally(mcqs, func(m *isac.MCQ) string { return string(m.EntityType) }),
	); err != nil {
		t.Fatal(err)
	}
	rule := strings.Repeat("=", 80)
	want := "\n" + rule + "\nQUESTION 1\n" +
		"Technique: Abuse UDS for Collection (ATM-T0055)\n" +
		"Type: Scenario-Based\n" + rule + "\n" +
		"\nWhich UDS service?\n\n" +
		"  A. 0x27  \n" +
		"  B. 0x23 ✓\n" +
		"  C. 0x22  \n" +
		"  D. 0x31  \n" +
		"\nCorrect Answer: B\n" +
		"Explanation: Read Memory by Address.\n" +
		"\n" + rule + "\nSUMMARY\n" + rule + "\n" +
		"Total questions generated: 1\n" +
		"Model used: gpt-4o\n" +
		"\nBy Question Type:\n  Scenario-Based: 1\n" +
		"\nBy Entity Type:\n  technique: 1\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("print mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigCheck(t *testing.T) {
	cfg := &config{}
	ensureDefaults(cfg)
	if cfg.Kind != defaultKind || cfg.Worker != defaultWorker || cfg.URL != llm.DefaultURL {
		t.Errorf("defaults not ensured: %+v", cfg)
	}
	if err := cfg.check(nil); err == nil {
		t.Error("expected error without files")
	}
	fname := filepath.Join(t.TempDir(), "a.json")
	if err := os.WriteFile(fname, []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := cfg.check([]string{fname}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := cfg.check([]string{fname + ".missing"}); err == nil {
		t.Error("expected error for missing file")
	}
	cfg.Kind = "essay"
	if err := cfg.check([]string{fname}); err == nil {
		t.Error("expected error for unknown kind")
	}
}
