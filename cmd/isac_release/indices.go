// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package main

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/isac-bench/isac_bench/util"
)

const dateFormat = time.RFC3339

// updateIndex merges the given paths into index.txt.
func updateIndex(dir string, paths []string) error {
	index := filepath.Join(dir, "index.txt")

	lines := util.Set[string]{}
	f, err := os.Open(index)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return err
	default:
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				lines.Add(line)
			}
		}
		f.Close()
		if err := scanner.Err(); err != nil {
			return err
		}
	}

	if added := util.NewSet(paths...).Difference(lines); len(added) > 0 {
		slog.Info("New documents in index", "paths", util.SortedKeys(added))
		for path := range added {
			lines.Add(path)
		}
	}

	return util.WriteFileAtomic(index, func(w io.Writer) error {
		for _, line := range util.SortedKeys(lines) {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	})
}

type change struct {
	path string
	time time.Time
}

func loadChanges(fname string) ([]change, error) {
	f, err := os.Open(fname)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	const (
		pathColumn = 0
		timeColumn = 1
	)
	r := csv.NewReader(f)
	r.FieldsPerRecord = 2
	r.ReuseRecord = true
	var chs []change
	for {
		record, err := r.Read()
		if err == io.EOF {
			return chs, nil
		}
		if err != nil {
			return nil, err
		}
		t, err := time.Parse(dateFormat, record[timeColumn])
		if err != nil {
			return nil, fmt.Errorf("invalid time in %q: %w", fname, err)
		}
		chs = append(chs, change{path: record[pathColumn], time: t})
	}
}

// updateChanges merges the given changes into changes.csv.
// The entries are written newest first.
func updateChanges(dir string, updates []change) error {
	fname := filepath.Join(dir, "changes.csv")

	chs, err := loadChanges(fname)
	if err != nil {
		return err
	}
	replaced := make(map[string]bool, len(updates))
	for _, u := range updates {
		replaced[u.path] = true
	}
	chs = slices.DeleteFunc(chs, func(ch change) bool { return replaced[ch.path] })
	chs = append(chs, updates...)

	slices.SortStableFunc(chs, func(a, b change) int {
		if c := b.time.Compare(a.time); c != 0 {
			return c
		}
		return strings.Compare(a.path, b.path)
	})

	return util.WriteFileAtomic(fname, func(w io.Writer) error {
		qw := util.NewQuotedCSVWriter(w)
		for _, ch := range chs {
			if err := qw.Write([]string{ch.path, ch.time.UTC().Format(dateFormat)}); err != nil {
				return err
			}
		}
		qw.Flush()
		return qw.Error()
	})
}
