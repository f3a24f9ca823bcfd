// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package util

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPathEval_Compile(t *testing.T) {
	pathEval := NewPathEval()
	eval, err := pathEval.Compile("foo")
	if err != nil {
		t.Fatal(err)
	}

	// Check caching
	eval1, err := pathEval.Compile("foo")
	if err != nil {
		t.Fatal(err)
	}
	if reflect.ValueOf(eval).Pointer() != reflect.ValueOf(eval1).Pointer() {
		t.Error("PathEval_Compile: Expected cached eval")
	}
}

func TestPathEval_Eval(t *testing.T) {
	pathEval := NewPathEval()
	if _, err := pathEval.Eval("foo", nil); err == nil {
		t.Error("PathEval_Eval: Expected error, got nil")
	}
	got, err := pathEval.Eval("$.foo", map[string]any{"foo": 5.0})
	if err != nil {
		t.Fatal(err)
	}
	if got != 5.0 {
		t.Errorf("PathEval_Eval: Expected 5, got %v", got)
	}
}

func TestPathEval_Extract(t *testing.T) {
	pathEval := NewPathEval()
	var result string
	title := func(x any) error {
		s, ok := x.(string)
		if !ok {
			return errors.New("not a string")
		}
		result = s
		return nil
	}
	doc := map[string]any{"title": "CAN Message Injection"}
	if err := pathEval.Extract("$.title", title, false, doc); err != nil {
		t.Fatal(err)
	}
	if result != "CAN Message Injection" {
		t.Errorf("PathEval_Extract: Expected title, got %v", result)
	}
	if err := pathEval.Extract("$.missing", title, false, doc); err == nil {
		t.Error("PathEval_Extract: Expected error for missing key")
	}
	if err := pathEval.Extract("$.missing", title, true, doc); err != nil {
		t.Errorf("PathEval_Extract: Expected no error for optional key, got %v", err)
	}
}

func TestPathEval_Match(t *testing.T) {
	var (
		ids   []string
		count int
	)
	id := func(x any) error { ids = append(ids, x.(string)); return nil }
	doc := map[string]any{
		"id":        "ATM-P0034",
		"technique": []any{map[string]any{}, map[string]any{}},
	}

	pe := NewPathEval()
	if err := pe.Match([]PathEvalMatcher{
		{Expr: "$.id", Action: id},
		{Expr: "$.technique", Action: CountMatcher(&count)},
		{Expr: "$.mitreId", Action: id, Optional: true},
	}, doc); err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != "ATM-P0034" || count != 2 {
		t.Errorf("PathEval_Match: Expected [ATM-P0034]/2, got %q/%d", ids, count)
	}
}

func TestPathEval_Strings(t *testing.T) {
	pe := NewPathEval()
	doc := map[string]any{
		"source_procedures": []any{"ATM-P0001", "ATM-P0002"},
		"question":          "q",
	}
	want := []string{"q", "ATM-P0001", "ATM-P0002"}

	got, err := pe.Strings([]string{"$.question", "$.source_procedures"}, true, doc)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PathEval_Strings mismatch (-want +got):\n%s", diff)
	}
}

func TestAsStrings(t *testing.T) {
	got, valid := AsStrings([]any{"foo", "bar"})
	if !valid {
		t.Error("AsStrings: Expected true, got false")
	}
	if diff := cmp.Diff([]string{"foo", "bar"}, got); diff != "" {
		t.Errorf("AsStrings mismatch (-want +got):\n%s", diff)
	}
	if _, valid := AsStrings([]any{"foo", 1}); valid {
		t.Error("AsStrings: Expected false, got true")
	}
}

func TestLoadJSONFromFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(good, []byte(`[{"title":"a"}]`), 0644)
	os.WriteFile(bad, []byte(`[{"title":`), 0644)

	doc, err := LoadJSONFromFile(good)
	if err != nil {
		t.Fatal(err)
	}
	if arr, ok := doc.([]any); !ok || len(arr) != 1 {
		t.Errorf("LoadJSONFromFile: Expected one element array, got %v", doc)
	}
	if _, err := LoadJSONFromFile(bad); err == nil {
		t.Error("LoadJSONFromFile: Expected error for broken JSON")
	}
}

func TestEscapeNonASCII(t *testing.T) {
	for _, x := range []struct {
		in, want string
	}{
		{`{"title": "CAN"}`, `{"title": "CAN"}`},
		{`"Angriff über CAN"`, `"Angriff \u00fcber CAN"`},
		{`"Relay – 🚗"`, `"Relay \u2013 \ud83d\ude97"`},
		{"\"\x7f\"", "\"\x7f\""},
		{``, ``},
	} {
		got := EscapeNonASCII([]byte(x.in))
		if string(got) != x.want {
			t.Errorf("%q: got %q want %q", x.in, got, x.want)
		}
		if x.in == "" {
			continue
		}
		var a, b any
		if err := json.Unmarshal([]byte(x.in), &a); err != nil {
			t.Fatal(err)
		}
		if err := json.Unmarshal(got, &b); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(a, b); diff != "" {
			t.Errorf("%q: decoded mismatch (-want +got):\n%s", x.in, diff)
		}
	}
}
