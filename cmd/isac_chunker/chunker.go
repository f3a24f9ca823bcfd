// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/isac-bench/isac_bench/isac"
	"github.com/isac-bench/isac_bench/util"
)

type chunker struct {
	cfg   *config
	stats stats
}

// keep reports if an entry survives the ignore patterns and the time range.
func (c *chunker) keep(e *isac.Entry) bool {
	if c.cfg.ignorePattern.Matches(e.Title) {
		slog.Debug("Ignoring procedure", "title", e.Title)
		c.stats.ignored++
		return false
	}
	if c.cfg.Range == nil {
		return true
	}
	if modified, ok := e.LastModified(); !ok || !c.cfg.Range.Contains(modified) {
		slog.Debug("Procedure out of time range", "title", e.Title)
		c.stats.outOfRange++
		return false
	}
	return true
}

func (c *chunker) write(chunk *isac.Chunk) error {
	fname := filepath.Join(c.cfg.Output, chunk.Name+".json")
	if err := util.WriteASCIIJSONFile(fname, chunk.Entries, "    "); err != nil {
		return fmt.Errorf("writing chunk %q failed: %w", chunk.Name, err)
	}
	weight := chunk.Weight()
	c.stats.files++
	c.stats.techniques += weight
	if len(chunk.Entries) == 0 {
		c.stats.empty++
	}
	slog.Info("Wrote chunk",
		"file", fname,
		"procedures", len(chunk.Entries),
		"techniques", weight)
	return nil
}

func (c *chunker) run(fname string) error {
	entries, err := isac.LoadEntriesFromFile(fname)
	if err != nil {
		return err
	}
	c.stats.procedures = len(entries)
	entries = isac.FilterEntries(entries, c.keep)

	chunks, unmatched := isac.NewGrouper(c.cfg.table).Group(entries)

	if err := os.MkdirAll(c.cfg.Output, 0755); err != nil {
		return err
	}
	for _, chunk := range chunks {
		for _, part := range isac.Split(chunk.Name, chunk.Entries, c.cfg.MaxWeight) {
			if err := c.write(part); err != nil {
				return err
			}
		}
	}

	c.stats.unmatched = len(unmatched)
	for _, e := range unmatched {
		slog.Warn("Procedure matches no group", "title", e.Title, "id", e.Identifier())
	}
	if c.cfg.Unmatched != "" {
		if unmatched == nil {
			unmatched = []*isac.Entry{}
		}
		if err := util.WriteASCIIJSONFile(c.cfg.Unmatched, unmatched, "    "); err != nil {
			return err
		}
	}
	c.stats.log()
	return nil
}
