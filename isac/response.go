// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package isac

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Special answers.
const (
	// Unknown is recorded if a reply contains no letter.
	Unknown = "UNKNOWN"
	// Failed is recorded if a model could not be asked.
	Failed = "ERROR"
)

var codeFences = regexp.MustCompile("(?s)```(?:json)?\\n?(.*?)```")

// StripCodeFences replaces fenced code blocks by their content.
func StripCodeFences(s string) string {
	return strings.TrimSpace(codeFences.ReplaceAllString(s, "$1"))
}

var (
	// ErrNoObject is returned if a reply contains no JSON object.
	ErrNoObject = errors.New("could not parse JSON from reply")
	// ErrNoArray is returned if a reply contains no JSON array.
	ErrNoArray = errors.New("could not parse JSON array from reply")
)

func extract(s string, open, close byte, err error) (string, error) {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start == -1 || end < start {
		return "", err
	}
	return s[start : end+1], nil
}

// ExtractObject returns the text from the first '{' to the last '}'.
func ExtractObject(s string) (string, error) {
	return extract(s, '{', '}', ErrNoObject)
}

// ExtractArray returns the text from the first '[' to the last ']'.
func ExtractArray(s string) (string, error) {
	return extract(s, '[', ']', ErrNoArray)
}

// mcqReply is a question as returned by the models.
type mcqReply struct {
	TechniqueID    *string `json:"technique_id"`
	TechniqueTitle *string `json:"technique_title"`
	ProcedureID    *string `json:"procedure_id"`
	ProcedureTitle *string `json:"procedure_title"`
	QuestionType   *string `json:"question_type"`
	Question       *string `json:"question"`
	Options        Options `json:"options"`
	CorrectAnswer  *string `json:"correct_answer"`
	Explanation    *string `json:"explanation"`
}

func or(s *string, def string) string {
	if s != nil {
		return *s
	}
	return def
}

func (r *mcqReply) toMCQ(id, title *string, e *Entity) (*MCQ, error) {
	for _, req := range []struct {
		name  string
		value *string
	}{
		{"question_type", r.QuestionType},
		{"question", r.Question},
		{"correct_answer", r.CorrectAnswer},
		{"explanation", r.Explanation},
	} {
		if req.value == nil {
			return nil, fmt.Errorf("missing %q in reply", req.name)
		}
	}
	if r.Options == nil {
		return nil, errors.New(`missing "options" in reply`)
	}
	opts := make(Options, len(mcqKeys))
	for i, k := range mcqKeys {
		opts[i].Key = k
		if i < len(r.Options) {
			opts[i].Value = r.Options[i].Value
		}
	}
	return &MCQ{
		EntityID:      or(id, e.ID),
		EntityTitle:   or(title, e.Title),
		EntityType:    e.Type,
		QuestionType:  *r.QuestionType,
		Question:      *r.Question,
		Options:       opts,
		CorrectAnswer: *r.CorrectAnswer,
		Explanation:   *r.Explanation,
	}, nil
}

// ParseTechniqueResponse parses the reply for a technique
// which contains a single question.
func ParseTechniqueResponse(reply string, e *Entity) (*MCQ, error) {
	text, err := ExtractObject(reply)
	if err != nil {
		return nil, err
	}
	var r mcqReply
	if err := json.Unmarshal([]byte(text), &r); err != nil {
		return nil, fmt.Errorf("invalid JSON in reply: %w", err)
	}
	return r.toMCQ(r.TechniqueID, r.TechniqueTitle, e)
}

// ParseProcedureResponse parses the reply for a procedure
// which contains a list of questions.
func ParseProcedureResponse(reply string, e *Entity) ([]*MCQ, error) {
	text, err := ExtractArray(reply)
	if err != nil {
		return nil, err
	}
	var rs []mcqReply
	if err := json.Unmarshal([]byte(text), &rs); err != nil {
		return nil, fmt.Errorf("invalid JSON in reply: %w", err)
	}
	mcqs := make([]*MCQ, 0, len(rs))
	for i := range rs {
		mcq, err := rs[i].toMCQ(rs[i].ProcedureID, rs[i].ProcedureTitle, e)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		mcqs = append(mcqs, mcq)
	}
	return mcqs, nil
}

// ParseResponse parses the reply for the given entity.
func ParseResponse(reply string, e *Entity) ([]*MCQ, error) {
	if e.Type == ProcedureType {
		return ParseProcedureResponse(reply, e)
	}
	mcq, err := ParseTechniqueResponse(reply, e)
	if err != nil {
		return nil, err
	}
	return []*MCQ{mcq}, nil
}

// ParseTFResponse parses the reply for a chunk.
// The code fences are expected to be stripped already.
func ParseTFResponse(reply string) ([]*TFQuestion, error) {
	var qs []*TFQuestion
	if err := json.Unmarshal([]byte(reply), &qs); err != nil {
		return nil, err
	}
	return qs, nil
}

// AnswerLetter extracts the answer letter from a reply.
func AnswerLetter(reply string) string {
	reply = strings.TrimSpace(reply)
	for _, r := range reply {
		if unicode.IsLetter(r) {
			return strings.ToUpper(string(r))
		}
	}
	return Unknown
}
