// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package isac

import (
	"bytes"
	_ "embed" // Used for embedding.
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Kind is the kind of a JSON document of the data set.
type Kind string

const (
	// ProceduresKind is a list of Auto-ISAC entries. Chunks are of this kind.
	ProceduresKind Kind = "procedures"
	// MCQKind is a list of generated multiple choice questions.
	MCQKind Kind = "mcq"
	// TFKind is a list of generated true/false questions.
	TFKind Kind = "tf"
	// QuestionKind is a list of question answer pairs.
	QuestionKind Kind = "question"
	// AnsweredKind is a list of questions answered by models.
	AnsweredKind Kind = "answered"
)

// Kinds are all known document kinds.
var Kinds = []Kind{ProceduresKind, MCQKind, TFKind, QuestionKind, AnsweredKind}

// UnmarshalFlag implements [go-flags/Unmarshaler].
func (k *Kind) UnmarshalFlag(s string) error {
	for _, kind := range Kinds {
		if string(kind) == s {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown kind %q", s)
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (k *Kind) UnmarshalText(text []byte) error {
	return k.UnmarshalFlag(string(text))
}

const schemaBase = "https://isac-bench.github.io/schema/"

var (
	//go:embed schema/procedures.json
	proceduresSchema []byte
	//go:embed schema/mcq.json
	mcqSchema []byte
	//go:embed schema/tf.json
	tfSchema []byte
	//go:embed schema/question.json
	questionSchema []byte
	//go:embed schema/answered.json
	answeredSchema []byte
)

var schemaResources = []struct {
	name string
	data []byte
}{
	{"procedures.json", proceduresSchema},
	{"mcq.json", mcqSchema},
	{"tf.json", tfSchema},
	{"question.json", questionSchema},
	{"answered.json", answeredSchema},
}

type compiledSchema struct {
	url      string
	once     sync.Once
	err      error
	compiled *jsonschema.Schema
}

var compiledSchemas = map[Kind]*compiledSchema{
	ProceduresKind: {url: schemaBase + "procedures.json"},
	MCQKind:        {url: schemaBase + "mcq.json"},
	TFKind:         {url: schemaBase + "tf.json"},
	QuestionKind:   {url: schemaBase + "question.json"},
	AnsweredKind:   {url: schemaBase + "answered.json"},
}

func (cs *compiledSchema) compile() {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	for _, res := range schemaResources {
		if cs.err = c.AddResource(
			schemaBase+res.name, bytes.NewReader(res.data)); cs.err != nil {
			return
		}
	}
	cs.compiled, cs.err = c.Compile(cs.url)
}

func (cs *compiledSchema) validate(doc any) ([]string, error) {
	cs.once.Do(cs.compile)

	if cs.err != nil {
		return nil, cs.err
	}

	err := cs.compiled.Validate(doc)
	if err == nil {
		return nil, nil
	}

	var valErr *jsonschema.ValidationError
	if !errors.As(err, &valErr) {
		return nil, err
	}

	// Collect the leaves of the error tree.
	var leaves []*jsonschema.ValidationError
	var collect func(*jsonschema.ValidationError)
	collect = func(ve *jsonschema.ValidationError) {
		if len(ve.Causes) == 0 {
			leaves = append(leaves, ve)
			return
		}
		for _, c := range ve.Causes {
			collect(c)
		}
	}
	collect(valErr)

	sort.Slice(leaves, func(i, j int) bool {
		pi := leaves[i].InstanceLocation
		pj := leaves[j].InstanceLocation
		if pi != pj {
			return pi < pj
		}
		return leaves[i].Message < leaves[j].Message
	})

	res := make([]string, 0, len(leaves))
	for _, e := range leaves {
		loc := e.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		res = append(res, loc+": "+e.Message)
	}
	return res, nil
}

// Validate validates a document of the given kind against its JSON schema.
// The document has to be decoded with encoding/json into an any.
// A single object is validated as a list of one element.
// The returned messages are empty if the document is valid.
func Validate(kind Kind, doc any) ([]string, error) {
	cs := compiledSchemas[kind]
	if cs == nil {
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
	if obj, ok := doc.(map[string]any); ok {
		doc = []any{obj}
	}
	return cs.validate(doc)
}

// ValidateProcedures validates a list of Auto-ISAC entries.
func ValidateProcedures(doc any) ([]string, error) { return Validate(ProceduresKind, doc) }

// ValidateMCQs validates a list of multiple choice questions.
func ValidateMCQs(doc any) ([]string, error) { return Validate(MCQKind, doc) }

// ValidateTFQuestions validates a list of true/false questions.
func ValidateTFQuestions(doc any) ([]string, error) { return Validate(TFKind, doc) }

// ValidateQuestions validates a list of question answer pairs.
func ValidateQuestions(doc any) ([]string, error) { return Validate(QuestionKind, doc) }

// ValidateAnswered validates a list of answered questions.
func ValidateAnswered(doc any) ([]string, error) { return Validate(AnsweredKind, doc) }

// DetectKind guesses the kind of a document by the keys of
// its first element. An empty list is an empty chunk.
func DetectKind(doc any) (Kind, error) {
	var first any
	switch x := doc.(type) {
	case []any:
		if len(x) == 0 {
			return ProceduresKind, nil
		}
		first = x[0]
	case map[string]any:
		first = x
	default:
		return "", fmt.Errorf("unexpected document of type %T", doc)
	}
	obj, ok := first.(map[string]any)
	if !ok {
		return "", fmt.Errorf("unexpected element of type %T", first)
	}
	has := func(key string) bool { _, ok := obj[key]; return ok }
	switch {
	case has("answers"):
		return AnsweredKind, nil
	case has("entity_id"), has("question_type"):
		return MCQKind, nil
	case has("source_procedures"), has("Explanation"):
		return TFKind, nil
	case has("question"):
		return QuestionKind, nil
	case has("title"), has("technique"):
		return ProceduresKind, nil
	}
	return "", errors.New("cannot detect kind of document")
}
