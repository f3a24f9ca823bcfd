// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package isac

import (
	"bytes"
	"embed"
	"encoding/json"
	"strings"
	"text/template"

	"github.com/isac-bench/isac_bench/util"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var prompts = template.Must(template.ParseFS(promptFS, "prompts/*.tmpl"))

// AnswerSystemPrompt is the system prompt used when asking models
// to answer questions.
const AnswerSystemPrompt = "You are a cybersecurity expert specializing in automotive security. " +
	"Answer questions accurately and concisely."

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Prompt is a pair of system and user prompt.
type Prompt struct {
	System string
	User   string
}

// PromptOptions tune the rendering of prompts.
type PromptOptions struct {
	// PlainText converts the HTML descriptions to plain text.
	PlainText bool
}

func (po *PromptOptions) text(s string) string {
	if po != nil && po.PlainText {
		return PlainText(s)
	}
	return s
}

// MCQPrompt returns the prompt to generate multiple choice
// questions for the given entity.
func MCQPrompt(e *Entity, po *PromptOptions) (*Prompt, error) {
	ent := *e
	ent.Description = po.text(e.Description)
	if e.ParentTactic != nil {
		pt := *e.ParentTactic
		pt.Description = po.text(pt.Description)
		ent.ParentTactic = &pt
	}
	if po != nil && po.PlainText && len(e.Techniques) > 0 {
		ent.Techniques = make([]*Entry, len(e.Techniques))
		for i, t := range e.Techniques {
			nt := *t
			nt.Description = PlainText(t.Description)
			ent.Techniques[i] = &nt
		}
	}

	var system, user string
	switch {
	case ent.Type == ProcedureType:
		system, user = "procedure_system.tmpl", "procedure_user.tmpl"
	case ent.ParentTactic != nil:
		system, user = "tactic_system.tmpl", "tactic_user.tmpl"
	default:
		system, user = "technique_system.tmpl", "technique_user.tmpl"
	}
	s, err := render(system, nil)
	if err != nil {
		return nil, err
	}
	u, err := render(user, &ent)
	if err != nil {
		return nil, err
	}
	return &Prompt{System: strings.TrimSpace(s), User: strings.TrimSpace(u)}, nil
}

// EncodeDataset returns the entries as indented JSON as
// they are embedded into prompts. Non ASCII characters are escaped.
func EncodeDataset(entries []*Entry) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if entries == nil {
		entries = []*Entry{}
	}
	if err := enc.Encode(entries); err != nil {
		return "", err
	}
	data := util.EscapeNonASCII(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return string(data), nil
}

// TFPrompt returns the prompt to generate true/false questions
// for the entries of a chunk.
func TFPrompt(entries []*Entry) (string, error) {
	dataset, err := EncodeDataset(entries)
	if err != nil {
		return "", err
	}
	return render("tf.tmpl", struct{ Dataset string }{dataset})
}

// AnswerPrompt returns the prompt to answer a question.
// The options are listed in their order.
func AnswerPrompt(question string, opts Options) (string, error) {
	s, err := render("answer.tmpl", struct {
		Question string
		Options  Options
	}{question, opts})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}
