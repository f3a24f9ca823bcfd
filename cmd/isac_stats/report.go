// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/isac-bench/isac_bench/isac"
	"github.com/isac-bench/isac_bench/util"
)

// reporter writes an analysis in a specific format.
type reporter func(w io.Writer, a *isac.Analysis) error

var reporters = map[string]reporter{
	"text": textReport,
	"json": jsonReport,
	"csv":  csvReport,
}

func textReport(w io.Writer, a *isac.Analysis) error {
	p := &printer{w: w}

	p.println("COMPREHENSIVE PROCEDURE AND TECHNIQUE ANALYSIS")
	p.rule(60)

	p.section("1. PROCEDURE TITLE COUNTS (Simple Count)", 45)
	for _, c := range isac.SortByCount(a.TitleCounts) {
		p.printf("'%s': %d procedure(s)\n", c.Name, c.Count)
	}
	p.printf("\nTotal unique procedure titles: %d\n", len(a.TitleCounts))
	p.printf("Total procedure entries: %d\n", a.Procedures())

	p.section("2. PROCEDURE TYPE COUNTS", 30)
	for _, c := range isac.SortByName(a.TypeCounts) {
		p.printf("'%s': %d\n", c.Name, c.Count)
	}

	p.section("3. TECHNIQUE TITLE COUNTS", 30)
	for _, c := range isac.SortByCount(a.TechniqueCounts) {
		p.printf("'%s': %d technique(s)\n", c.Name, c.Count)
	}
	p.printf("\nTotal unique technique titles: %d\n", len(a.TechniqueCounts))
	p.printf("Total technique entries: %d\n", a.Techniques())

	p.section("4. WEIGHTED PROCEDURE COUNTS (Procedure × Number of Techniques)", 65)
	for _, c := range isac.SortByCount(a.WeightedCounts) {
		p.printf("'%s':\n", c.Name)
		p.printf("  - Simple count: %d\n", a.TitleCounts[c.Name])
		p.printf("  - Weighted count: %d\n", c.Count)
		p.printf("  - Avg techniques per procedure: %.1f\n\n", a.AverageWeight(c.Name))
	}

	p.println("5. SUMMARY STATISTICS")
	p.rule(25)
	p.printf("Total procedures: %d\n", a.Procedures())
	p.printf("Total techniques: %d\n", a.Techniques())
	p.printf("Total weighted count: %d\n", a.Weighted())
	p.printf("Average techniques per procedure: %.2f\n", a.AverageTechniques())
	p.printf("Unique procedure titles: %d\n", len(a.TitleCounts))
	p.printf("Unique technique titles: %d\n", len(a.TechniqueCounts))

	p.section("6. TECHNIQUES PER PROCEDURE BREAKDOWN", 40)
	for _, d := range a.Distribution() {
		p.printf("Procedures with %d technique(s): %d\n", d[0], d[1])
	}
	return p.err
}

// printer remembers the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err == nil {
		_, p.err = fmt.Fprintf(p.w, format, args...)
	}
}

func (p *printer) println(s string) { p.printf("%s\n", s) }

func (p *printer) rule(n int) { p.println(strings.Repeat("-", n)) }

func (p *printer) section(title string, n int) {
	p.printf("\n%s\n", title)
	p.rule(n)
}

type weighted struct {
	Name     string  `json:"name"`
	Simple   int     `json:"simple_count"`
	Weighted int     `json:"weighted_count"`
	Average  float64 `json:"average_techniques"`
}

type summary struct {
	Procedures        int     `json:"total_procedures"`
	Techniques        int     `json:"total_techniques"`
	Weighted          int     `json:"total_weighted"`
	AverageTechniques float64 `json:"average_techniques_per_procedure"`
	UniqueProcedures  int     `json:"unique_procedure_titles"`
	UniqueTechniques  int     `json:"unique_technique_titles"`
}

type bucket struct {
	Techniques int `json:"techniques"`
	Procedures int `json:"procedures"`
}

type document struct {
	Titles       []isac.Count `json:"procedure_title_counts"`
	Types        []isac.Count `json:"procedure_type_counts"`
	Techniques   []isac.Count `json:"technique_title_counts"`
	Weighted     []weighted   `json:"weighted_procedure_counts"`
	Summary      summary      `json:"summary"`
	Distribution []bucket     `json:"techniques_per_procedure"`
}

func newDocument(a *isac.Analysis) *document {
	doc := &document{
		Titles:     isac.SortByCount(a.TitleCounts),
		Types:      isac.SortByName(a.TypeCounts),
		Techniques: isac.SortByCount(a.TechniqueCounts),
		Summary: summary{
			Procedures:        a.Procedures(),
			Techniques:        a.Techniques(),
			Weighted:          a.Weighted(),
			AverageTechniques: a.AverageTechniques(),
			UniqueProcedures:  len(a.TitleCounts),
			UniqueTechniques:  len(a.TechniqueCounts),
		},
	}
	doc.Weighted = make([]weighted, 0, len(a.WeightedCounts))
	for _, c := range isac.SortByCount(a.WeightedCounts) {
		doc.Weighted = append(doc.Weighted, weighted{
			Name:     c.Name,
			Simple:   a.TitleCounts[c.Name],
			Weighted: c.Count,
			Average:  a.AverageWeight(c.Name),
		})
	}
	dist := a.Distribution()
	doc.Distribution = make([]bucket, 0, len(dist))
	for _, d := range dist {
		doc.Distribution = append(doc.Distribution, bucket{Techniques: d[0], Procedures: d[1]})
	}
	return doc
}

func jsonReport(w io.Writer, a *isac.Analysis) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(newDocument(a))
}

// csvReport writes one "section,name,value" record per number.
func csvReport(w io.Writer, a *isac.Analysis) error {
	doc := newDocument(a)
	itoa := strconv.Itoa
	records := [][]string{{"section", "name", "value"}}
	add := func(section string, counts []isac.Count) {
		for _, c := range counts {
			records = append(records, []string{section, c.Name, itoa(c.Count)})
		}
	}
	add("procedure_title", doc.Titles)
	add("procedure_type", doc.Types)
	add("technique_title", doc.Techniques)
	for _, wc := range doc.Weighted {
		records = append(records, []string{"weighted", wc.Name, itoa(wc.Weighted)})
	}
	s := &doc.Summary
	records = append(records,
		[]string{"summary", "total_procedures", itoa(s.Procedures)},
		[]string{"summary", "total_techniques", itoa(s.Techniques)},
		[]string{"summary", "total_weighted", itoa(s.Weighted)},
		[]string{"summary", "average_techniques_per_procedure",
			strconv.FormatFloat(s.AverageTechniques, 'f', 2, 64)},
		[]string{"summary", "unique_procedure_titles", itoa(s.UniqueProcedures)},
		[]string{"summary", "unique_technique_titles", itoa(s.UniqueTechniques)},
	)
	for _, b := range doc.Distribution {
		records = append(records, []string{"distribution", itoa(b.Techniques), itoa(b.Procedures)})
	}
	return util.NewQuotedCSVWriter(w).WriteAll(records)
}
