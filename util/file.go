// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package util

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/renameio/v2"
)

// PathExists returns true if path exits.
func PathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		err = nil
	}
	return false, err
}

// NWriter is an io.Writer counting the bytes copied through it.
type NWriter struct {
	io.Writer
	N int64
}

// Write implements the Write method of io.Writer.
func (nw *NWriter) Write(p []byte) (int, error) {
	n, err := nw.Writer.Write(p)
	nw.N += int64(n)
	return n, err
}

// WriteFileAtomic writes a file by calling fn with a buffered writer
// to a pending file. The pending file replaces fname only if fn
// and all flushing succeeded. Otherwise fname is left untouched.
func WriteFileAtomic(fname string, fn func(io.Writer) error) error {
	pending, err := renameio.NewPendingFile(fname, renameio.WithPermissions(0644))
	if err != nil {
		return fmt.Errorf("create pending file for %q: %w", fname, err)
	}
	defer pending.Cleanup()

	out := bufio.NewWriter(pending)
	if err := fn(out); err != nil {
		return err
	}
	if err := out.Flush(); err != nil {
		return err
	}
	return pending.CloseAtomicallyReplace()
}

// WriteJSONFile atomically writes v JSON encoded into fname.
// The output is indented by indent and not HTML escaped.
func WriteJSONFile(fname string, v any, indent string) error {
	return WriteFileAtomic(fname, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", indent)
		return enc.Encode(v)
	})
}

// WriteASCIIJSONFile is like [WriteJSONFile] but escapes
// all non ASCII characters.
func WriteASCIIJSONFile(fname string, v any, indent string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return WriteBytesFile(fname, EscapeNonASCII(buf.Bytes()))
}

// WriteBytesFile atomically writes data into fname.
func WriteBytesFile(fname string, data []byte) error {
	return WriteFileAtomic(fname, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
