// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ProtonMail/gopenpgp/v2/armor"
	"github.com/ProtonMail/gopenpgp/v2/constants"
	"github.com/ProtonMail/gopenpgp/v2/crypto"
	"github.com/google/uuid"

	"github.com/isac-bench/isac_bench/isac"
	"github.com/isac-bench/isac_bench/util"
)

const releaseFile = "release.json"

type releaseEntry struct {
	Path     string                `json:"path"`
	Size     int64                 `json:"size"`
	Modified time.Time             `json:"modified"`
	SHA256   string                `json:"sha256"`
	SHA512   string                `json:"sha512"`
	Signed   bool                  `json:"signed"`
	Summary  *isac.DocumentSummary `json:"summary,omitempty"`

	changed bool
}

type release struct {
	ID      string          `json:"id"`
	Date    time.Time       `json:"date"`
	Tool    string          `json:"tool"`
	Entries []*releaseEntry `json:"files"`
}

type processor struct {
	cfg  *config
	dir  string
	expr *util.PathEval
	now  func() time.Time
}

// documents returns the slash separated paths of the JSON
// documents below the release directory.
func (p *processor) documents() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(p.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != p.dir && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() ||
			strings.HasPrefix(name, ".") ||
			!strings.EqualFold(filepath.Ext(name), ".json") {
			return nil
		}
		rel, err := filepath.Rel(p.dir, path)
		if err != nil {
			return err
		}
		if rel = filepath.ToSlash(rel); rel != releaseFile {
			paths = append(paths, rel)
		}
		return nil
	})
	slices.Sort(paths)
	return paths, err
}

func (p *processor) sign(fname string) error {
	data, err := os.ReadFile(fname)
	if err != nil {
		return err
	}
	sig, err := p.cfg.keyRing.SignDetached(crypto.NewPlainMessage(data))
	if err != nil {
		return err
	}
	armored, err := armor.ArmorWithTypeAndCustomHeaders(
		sig.Data, constants.PGPSignatureHeader, "", "")
	if err != nil {
		return err
	}
	return util.WriteBytesFile(fname+".asc", []byte(armored))
}

func (p *processor) summarize(fname string) *isac.DocumentSummary {
	doc, err := util.LoadJSONFromFile(fname)
	if err == nil {
		var kind isac.Kind
		if kind, err = isac.DetectKind(doc); err == nil {
			var ds *isac.DocumentSummary
			if ds, err = isac.NewDocumentSummary(p.expr, kind, doc); err == nil {
				return ds
			}
		}
	}
	slog.Warn("Cannot summarize document", "file", fname, "err", err)
	return nil
}

func (p *processor) entry(rel string) (*releaseEntry, error) {
	fname := filepath.Join(p.dir, filepath.FromSlash(rel))
	info, err := os.Stat(fname)
	if err != nil {
		return nil, err
	}
	sums, err := util.HashFile(fname)
	if err != nil {
		return nil, err
	}
	// Unchanged documents keep their entry in changes.csv.
	prev, err := util.HashFromFile(fname + ".sha256")
	changed := err != nil || !bytes.Equal(prev, sums.SHA256)

	base := filepath.Base(fname)
	if err := util.WriteHashSumToFile(fname+".sha256", base, sums.SHA256); err != nil {
		return nil, err
	}
	if err := util.WriteHashSumToFile(fname+".sha512", base, sums.SHA512); err != nil {
		return nil, err
	}
	e := &releaseEntry{
		Path:     rel,
		Size:     sums.Size,
		Modified: info.ModTime().UTC().Truncate(time.Second),
		SHA256:   hex.EncodeToString(sums.SHA256),
		SHA512:   hex.EncodeToString(sums.SHA512),
		changed:  changed,
	}
	if p.cfg.keyRing != nil {
		if err := p.sign(fname); err != nil {
			return nil, fmt.Errorf("signing %q failed: %w", rel, err)
		}
		e.Signed = true
	}
	if !p.cfg.NoSummary {
		e.Summary = p.summarize(fname)
	}
	return e, nil
}

func (p *processor) process() error {
	paths, err := p.documents()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no JSON documents found in %q", p.dir)
	}

	r := &release{
		ID:   uuid.NewString(),
		Date: p.now().UTC().Truncate(time.Second),
		Tool: "isac_release/" + util.SemVersion,
	}
	changes := make([]change, 0, len(paths))
	for _, rel := range paths {
		e, err := p.entry(rel)
		if err != nil {
			return err
		}
		slog.Info("Released document",
			"path", rel,
			"size", e.Size,
			"changed", e.changed,
			"signed", e.Signed)
		r.Entries = append(r.Entries, e)
		if e.changed {
			changes = append(changes, change{path: rel, time: e.Modified})
		}
	}

	if err := updateIndex(p.dir, paths); err != nil {
		return err
	}
	if err := updateChanges(p.dir, changes); err != nil {
		return err
	}
	if err := util.WriteJSONFile(filepath.Join(p.dir, releaseFile), r, "  "); err != nil {
		return err
	}
	slog.Info("Release statistics",
		"id", r.ID,
		"files", len(r.Entries),
		"changed", len(changes),
		"signed", p.cfg.keyRing != nil)
	return nil
}
