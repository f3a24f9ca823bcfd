// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package util

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestNWriter(t *testing.T) {

	msg := []byte("Grüß!\n")

	first, second := msg[:len(msg)/2], msg[len(msg)/2:]

	var buf bytes.Buffer
	nw := NWriter{Writer: &buf, N: 0}
	_, err1 := nw.Write(first)
	_, err2 := nw.Write(second)

	if err1 != nil || err2 != nil {
		t.Error("Calling NWriter failed")
	}

	if n := int64(len(msg)); nw.N != n {
		t.Errorf("Expected %d bytes, but counted %d.", n, nw.N)
	}

	if out := buf.Bytes(); !bytes.Equal(msg, out) {
		t.Errorf("Expected %q, but got %q", msg, out)
	}
}

func TestPathExists(t *testing.T) {
	dir := t.TempDir()
	exists, err := PathExists(dir)
	if err != nil || !exists {
		t.Errorf("PathExists: Expected existing dir, got %t, %v", exists, err)
	}
	exists, err = PathExists(filepath.Join(dir, "nope"))
	if err != nil || exists {
		t.Errorf("PathExists: Expected missing file, got %t, %v", exists, err)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "group_1.json")

	if err := os.WriteFile(fname, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	// A failing writer must not touch the existing file.
	errBroken := errors.New("broken")
	if err := WriteFileAtomic(fname, func(w io.Writer) error {
		io.WriteString(w, "partial")
		return errBroken
	}); !errors.Is(err, errBroken) {
		t.Fatalf("WriteFileAtomic: Expected %v, got %v", errBroken, err)
	}
	if data, _ := os.ReadFile(fname); string(data) != "old" {
		t.Errorf("WriteFileAtomic: Expected file to be untouched, got %q", data)
	}

	if err := WriteBytesFile(fname, []byte("new")); err != nil {
		t.Fatal(err)
	}
	if data, _ := os.ReadFile(fname); string(data) != "new" {
		t.Errorf("WriteFileAtomic: Expected %q, got %q", "new", data)
	}

	// No left over pending files.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("WriteFileAtomic: Expected one file in dir, found %d", len(entries))
	}
}

func TestWriteJSONFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "out.json")
	doc := []map[string]string{{"question": "Is <CAN> & LIN a bus?"}}
	if err := WriteJSONFile(fname, doc, "  "); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	want := "[\n  {\n    \"question\": \"Is <CAN> & LIN a bus?\"\n  }\n]\n"
	if string(data) != want {
		t.Errorf("WriteJSONFile: Expected %q, got %q", want, data)
	}
}

func TestWriteASCIIJSONFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "out.json")
	doc := []map[string]string{{"title": "Angriff über <CAN> & LIN"}}
	if err := WriteASCIIJSONFile(fname, doc, "    "); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	want := "[\n    {\n        \"title\": \"Angriff \\u00fcber <CAN> & LIN\"\n    }\n]\n"
	if string(data) != want {
		t.Errorf("WriteASCIIJSONFile: Expected %q, got %q", want, data)
	}
}
