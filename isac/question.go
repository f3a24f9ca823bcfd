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
	"io"
	"os"
	"slices"
	"strings"
)

// The styles of generated multiple choice questions.
const (
	FactualRecall = "Factual Recall MCQ"
	ScenarioBased = "Scenario-Based"
	Diagnostic    = "Diagnostic MCQ"
)

// QuestionTypes are the known styles of multiple choice questions.
var QuestionTypes = []string{FactualRecall, ScenarioBased, Diagnostic}

var (
	mcqKeys = []string{"A", "B", "C", "D"}
	tfKeys  = []string{"T", "F"}
)

// MCQ is a generated multiple choice question.
type MCQ struct {
	EntityID      string     `json:"entity_id"`
	EntityTitle   string     `json:"entity_title"`
	EntityType    EntityType `json:"entity_type"`
	QuestionType  string     `json:"question_type"`
	Question      string     `json:"question"`
	Options       Options    `json:"options"`
	CorrectAnswer string     `json:"correct_answer"`
	Explanation   string     `json:"explanation"`
}

// TFQuestion is a generated true/false question.
type TFQuestion struct {
	Question      string  `json:"question"`
	Options       Options `json:"options"`
	CorrectAnswer string  `json:"correct_answer"`
	// Explanation is matched case-insensitively when decoding,
	// so "explanation" is accepted, too.
	Explanation      Options  `json:"Explanation"`
	SourceProcedures []string `json:"source_procedures"`
}

// Question is a generic question answer pair.
// Fields beyond the known ones are kept in order.
type Question struct {
	Question      string
	Options       Options
	CorrectAnswer string

	fields Object
}

// AnsweredQuestion is a question with the answers given by models.
type AnsweredQuestion struct {
	Question
	// Answers maps the model names to answer letters.
	Answers Options
}

func checkOptions(opts Options, want []string) error {
	if !slices.Equal(opts.Keys(), want) {
		return fmt.Errorf("options have to be %s, got %s",
			strings.Join(want, ","), strings.Join(opts.Keys(), ","))
	}
	return nil
}

func checkAnswer(answer string, opts Options) error {
	if !opts.Has(answer) {
		return fmt.Errorf("correct answer %q is not an option", answer)
	}
	return nil
}

func checkText(question string) error {
	if strings.TrimSpace(question) == "" {
		return errors.New("question text is empty")
	}
	return nil
}

// Validate checks the question for semantic errors.
func (q *MCQ) Validate() error {
	var errs []error
	if err := checkText(q.Question); err != nil {
		errs = append(errs, err)
	}
	if err := checkOptions(q.Options, mcqKeys); err != nil {
		errs = append(errs, err)
	}
	if err := checkAnswer(q.CorrectAnswer, q.Options); err != nil {
		errs = append(errs, err)
	}
	if !slices.Contains(QuestionTypes, q.QuestionType) {
		errs = append(errs, fmt.Errorf("unknown question type %q", q.QuestionType))
	}
	return errors.Join(errs...)
}

// Validate checks the question for semantic errors.
func (q *TFQuestion) Validate() error {
	var errs []error
	if err := checkText(q.Question); err != nil {
		errs = append(errs, err)
	}
	if err := checkOptions(q.Options, tfKeys); err != nil {
		errs = append(errs, err)
	}
	if err := checkAnswer(q.CorrectAnswer, q.Options); err != nil {
		errs = append(errs, err)
	}
	if len(q.SourceProcedures) == 0 {
		errs = append(errs, errors.New("no source procedures"))
	}
	return errors.Join(errs...)
}

// Validate checks the question for semantic errors.
// The correct answer is optional.
func (q *Question) Validate() error {
	var errs []error
	if err := checkText(q.Question); err != nil {
		errs = append(errs, err)
	}
	if len(q.Options) == 0 {
		errs = append(errs, errors.New("no options"))
	}
	if q.CorrectAnswer != "" {
		if err := checkAnswer(q.CorrectAnswer, q.Options); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Validate checks the question and that every model gave an answer.
func (aq *AnsweredQuestion) Validate() error {
	errs := []error{aq.Question.Validate()}
	if len(aq.Answers) == 0 {
		errs = append(errs, errors.New("no answers"))
	}
	for _, a := range aq.Answers {
		if a.Value == "" {
			errs = append(errs, fmt.Errorf("empty answer of %q", a.Key))
		}
	}
	return errors.Join(errs...)
}

// UnmarshalJSON implements [json.Unmarshaler].
func (q *Question) UnmarshalJSON(data []byte) error {
	var obj Object
	if err := obj.UnmarshalJSON(data); err != nil {
		return err
	}
	nq := Question{fields: obj}
	for _, fn := range []func() error{
		func() error { return obj.Decode("question", &nq.Question) },
		func() error { return obj.Decode("options", &nq.Options) },
		func() error { return obj.Decode("correct_answer", &nq.CorrectAnswer) },
	} {
		if err := fn(); err != nil {
			return err
		}
	}
	*q = nq
	return nil
}

// object returns the fields of the question with the
// known values written back.
func (q *Question) object() (Object, error) {
	obj := slices.Clone(q.fields)
	set := func(key string, v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		obj.Set(key, data)
		return nil
	}
	if err := set("question", q.Question); err != nil {
		return nil, err
	}
	if err := set("options", q.Options); err != nil {
		return nil, err
	}
	if _, ok := obj.Get("correct_answer"); ok || q.CorrectAnswer != "" {
		if err := set("correct_answer", q.CorrectAnswer); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// MarshalJSON implements [json.Marshaler].
func (q *Question) MarshalJSON() ([]byte, error) {
	obj, err := q.object()
	if err != nil {
		return nil, err
	}
	return obj.MarshalJSON()
}

// Field returns the raw value of a carried field.
func (q *Question) Field(key string) (json.RawMessage, bool) {
	return q.fields.Get(key)
}

// UnmarshalJSON implements [json.Unmarshaler].
func (aq *AnsweredQuestion) UnmarshalJSON(data []byte) error {
	var q Question
	if err := q.UnmarshalJSON(data); err != nil {
		return err
	}
	var answers Options
	if err := q.fields.Decode("answers", &answers); err != nil {
		return err
	}
	*aq = AnsweredQuestion{Question: q, Answers: answers}
	return nil
}

// MarshalJSON implements [json.Marshaler].
func (aq *AnsweredQuestion) MarshalJSON() ([]byte, error) {
	obj, err := aq.Question.object()
	if err != nil {
		return nil, err
	}
	answers, err := aq.Answers.MarshalJSON()
	if err != nil {
		return nil, err
	}
	obj.Set("answers", answers)
	return obj.MarshalJSON()
}

// ReadList decodes a JSON array of values.
func ReadList[T any](r io.Reader) ([]T, error) {
	var list []T
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return nil, err
	}
	return list, nil
}

// LoadList decodes a JSON array of values from a file.
func LoadList[T any](fname string) ([]T, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	list, err := ReadList[T](f)
	if err != nil {
		return nil, fmt.Errorf("loading %q failed: %w", fname, err)
	}
	return list, nil
}
