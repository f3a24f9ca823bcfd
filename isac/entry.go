// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package isac

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/isac-bench/isac_bench/internal/models"
)

// EntityType is the kind of an Auto-ISAC entry.
type EntityType string

const (
	// TacticType is a tactic grouping several techniques.
	TacticType EntityType = "tactic"
	// TechniqueType is a single attack technique.
	TechniqueType EntityType = "technique"
	// ProcedureType is a real world attack using techniques.
	ProcedureType EntityType = "procedure"
)

// Entry is a record of the Auto-ISAC framework.
// The JSON representation is kept as read so that
// it can be written out again unchanged.
type Entry struct {
	Title          string     `json:"title"`
	Type           string     `json:"type"`
	Description    string     `json:"description"`
	ID             string     `json:"id"`
	MitreID        string     `json:"mitreId"`
	CreatedAt      string     `json:"createdAt"`
	UpdatedAt      string     `json:"updatedAt"`
	LastModifiedAt string     `json:"lastModifiedAt"`
	Technique      Techniques `json:"technique"`

	keys map[string]bool
	raw  json.RawMessage
}

// Techniques is the list of techniques of an entry.
// A single object is accepted as a list with one element.
type Techniques []*Entry

// UnmarshalJSON implements [json.Unmarshaler].
func (ts *Techniques) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*ts = Techniques{}
		return nil
	case data[0] == '{':
		var e Entry
		if err := json.Unmarshal(data, &e); err != nil {
			return err
		}
		*ts = Techniques{&e}
		return nil
	case data[0] == '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(data, &elems); err != nil {
			return err
		}
		list := make(Techniques, 0, len(elems))
		for _, elem := range elems {
			if !isObject(elem) {
				continue
			}
			var e Entry
			if err := json.Unmarshal(elem, &e); err != nil {
				return err
			}
			list = append(list, &e)
		}
		*ts = list
		return nil
	}
	// Scalars are ignored like a missing technique list.
	*ts = Techniques{}
	return nil
}

func isObject(data json.RawMessage) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '{'
}

// UnmarshalJSON implements [json.Unmarshaler].
func (e *Entry) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	type plain Entry
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = Entry(p)
	if e.Technique == nil {
		e.Technique = Techniques{}
	}
	e.keys = make(map[string]bool, len(fields))
	for k, v := range fields {
		if !bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			e.keys[k] = true
		}
	}
	e.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON implements [json.Marshaler].
func (e *Entry) MarshalJSON() ([]byte, error) {
	if e.raw != nil {
		return e.raw, nil
	}
	type plain Entry
	return json.Marshal((*plain)(e))
}

// Has returns true if the entry had a non-null value for the given key.
// Entries not read from JSON have all their non-empty fields set.
func (e *Entry) Has(key string) bool {
	if e.keys != nil {
		return e.keys[key]
	}
	switch key {
	case "title":
		return e.Title != ""
	case "type":
		return e.Type != ""
	case "id":
		return e.ID != ""
	case "mitreId":
		return e.MitreID != ""
	case "technique":
		return len(e.Technique) > 0
	}
	return false
}

// Identifier returns the id of the entry, falling back to the MITRE id.
func (e *Entry) Identifier() string {
	if e.ID != "" {
		return e.ID
	}
	return e.MitreID
}

// LastModified returns the time of the last modification.
// lastModifiedAt, updatedAt and createdAt are tried in this order.
func (e *Entry) LastModified() (time.Time, bool) {
	for _, s := range []string{e.LastModifiedAt, e.UpdatedAt, e.CreatedAt} {
		if t, ok := models.ParseTime(s); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// Identify returns the type of the entry. Unknown types are guessed:
// entries with techniques are tactics, all others are techniques.
func Identify(e *Entry) EntityType {
	switch t := EntityType(strings.ToLower(e.Type)); t {
	case TacticType, TechniqueType, ProcedureType:
		return t
	}
	if len(e.Technique) > 0 {
		return TacticType
	}
	return TechniqueType
}

// LoadEntries reads entries from a JSON document.
// The document has to be an array of entries or a single entry.
// Array elements which are not objects are skipped.
func LoadEntries(r io.Reader) ([]*Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, io.ErrUnexpectedEOF
	}
	if data[0] == '{' {
		var e Entry
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return []*Entry{&e}, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, err
	}
	entries := make([]*Entry, 0, len(elems))
	for i, elem := range elems {
		if !isObject(elem) {
			continue
		}
		var e Entry
		if err := json.Unmarshal(elem, &e); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries = append(entries, &e)
	}
	return entries, nil
}

// LoadEntriesFromFile reads entries from a JSON file.
func LoadEntriesFromFile(fname string) ([]*Entry, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	entries, err := LoadEntries(f)
	if err != nil {
		return nil, fmt.Errorf("loading %q failed: %w", fname, err)
	}
	return entries, nil
}

// FilterEntries returns the entries for which keep returns true.
func FilterEntries(entries []*Entry, keep func(*Entry) bool) []*Entry {
	out := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Tactic describes the tactic a technique belongs to.
type Tactic struct {
	Title       string
	Description string
	ID          string
}

// Entity is a unit of work for the question generation.
type Entity struct {
	ID          string
	Title       string
	Type        EntityType
	Description string
	// ParentTactic is set for techniques found inside a tactic.
	ParentTactic *Tactic
	// Techniques are the associated techniques of a procedure
	// or the sub-techniques of a technique.
	Techniques []*Entry
}

// ExtractEntities turns an entry into the entities to generate questions for.
// A tactic yields one entity per technique, procedures and techniques
// yield exactly one.
func ExtractEntities(e *Entry) []*Entity {
	switch Identify(e) {
	case TacticType:
		tactic := &Tactic{
			Title:       e.Title,
			Description: e.Description,
			ID:          e.Identifier(),
		}
		entities := make([]*Entity, 0, len(e.Technique))
		for _, t := range e.Technique {
			entities = append(entities, &Entity{
				ID:           t.Identifier(),
				Title:        t.Title,
				Type:         TechniqueType,
				Description:  t.Description,
				ParentTactic: tactic,
			})
		}
		return entities
	case ProcedureType:
		return []*Entity{{
			ID:          e.Identifier(),
			Title:       e.Title,
			Type:        ProcedureType,
			Description: e.Description,
			Techniques:  e.Technique,
		}}
	default:
		return []*Entity{{
			ID:          e.Identifier(),
			Title:       e.Title,
			Type:        TechniqueType,
			Description: e.Description,
			Techniques:  e.Technique,
		}}
	}
}
