// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package util

import (
	"bytes"
	"testing"
)

func TestQuotedCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	qw := NewQuotedCSVWriter(&buf)
	if err := qw.WriteAll([][]string{
		{"model", "accuracy"},
		{`gpt-4o "mini"`, "0.75"},
		{"multi\r\nline", ""},
	}); err != nil {
		t.Fatal(err)
	}
	const want = "\"model\",\"accuracy\"\n" +
		"\"gpt-4o \"\"mini\"\"\",\"0.75\"\n" +
		"\"multi\nline\",\"\"\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestQuotedCSVWriterCRLF(t *testing.T) {
	var buf bytes.Buffer
	qw := NewQuotedCSVWriter(&buf)
	qw.Comma = ';'
	qw.UseCRLF = true
	if err := qw.Write([]string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	qw.Flush()
	if err := qw.Error(); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "\"a\";\"b\"\r\n" {
		t.Errorf("got %q", got)
	}
}
