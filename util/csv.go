// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package util

import (
	"bufio"
	"io"
	"strings"
)

// QuotedCSVWriter writes CSV records with every field in double quotes.
type QuotedCSVWriter struct {
	// Comma separates the fields. Defaults to ','.
	Comma rune
	// UseCRLF terminates the records with "\r\n" instead of "\n".
	UseCRLF bool
	w       *bufio.Writer
}

// NewQuotedCSVWriter returns a new writer that writes to w.
func NewQuotedCSVWriter(w io.Writer) *QuotedCSVWriter {
	return &QuotedCSVWriter{Comma: ',', w: bufio.NewWriter(w)}
}

// Write writes a single record. Writes are buffered,
// Flush has to be called at the end.
func (qw *QuotedCSVWriter) Write(record []string) error {
	for i, field := range record {
		if i > 0 {
			qw.w.WriteRune(qw.Comma)
		}
		if !qw.UseCRLF {
			field = strings.ReplaceAll(field, "\r\n", "\n")
		}
		qw.w.WriteByte('"')
		qw.w.WriteString(strings.ReplaceAll(field, `"`, `""`))
		qw.w.WriteByte('"')
	}
	if qw.UseCRLF {
		_, err := qw.w.WriteString("\r\n")
		return err
	}
	return qw.w.WriteByte('\n')
}

// WriteAll writes all records and flushes the writer.
func (qw *QuotedCSVWriter) WriteAll(records [][]string) error {
	for _, record := range records {
		if err := qw.Write(record); err != nil {
			return err
		}
	}
	qw.Flush()
	return qw.Error()
}

// Flush writes the buffered data to the underlying writer.
func (qw *QuotedCSVWriter) Flush() { qw.w.Flush() }

// Error reports an error of a previous Write or Flush.
func (qw *QuotedCSVWriter) Error() error {
	_, err := qw.w.Write(nil)
	return err
}
