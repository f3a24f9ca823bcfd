// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package isac

import (
	"cmp"
	"slices"
)

// Defaults used when counting entries with missing fields.
const (
	NoTitle          = "No title"
	NoType           = "No type"
	NoID             = "No ID"
	NoTechniqueTitle = "No technique title"
)

// Count is a name with the number of its occurrences.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Analysis are the statistics over a list of procedures.
type Analysis struct {
	TitleCounts     map[string]int `json:"procedure_title_counts"`
	TypeCounts      map[string]int `json:"procedure_type_counts"`
	TechniqueCounts map[string]int `json:"technique_title_counts"`
	// WeightedCounts are the number of techniques per procedure title.
	WeightedCounts map[string]int `json:"weighted_procedure_counts"`
	// TechniquesPerProcedure are the number of techniques per procedure id.
	TechniquesPerProcedure map[string]int `json:"total_techniques_per_procedure"`
}

func orDefault(e *Entry, key, value, def string) string {
	if e.Has(key) {
		return value
	}
	return def
}

// Analyze counts the procedures and techniques of the entries.
func Analyze(entries []*Entry) *Analysis {
	a := &Analysis{
		TitleCounts:            map[string]int{},
		TypeCounts:             map[string]int{},
		TechniqueCounts:        map[string]int{},
		WeightedCounts:         map[string]int{},
		TechniquesPerProcedure: map[string]int{},
	}
	for _, e := range entries {
		title := orDefault(e, "title", e.Title, NoTitle)
		a.TitleCounts[title]++
		a.TypeCounts[orDefault(e, "type", e.Type, NoType)]++

		n := len(e.Technique)
		a.TechniquesPerProcedure[orDefault(e, "id", e.ID, NoID)] = n
		for _, t := range e.Technique {
			a.TechniqueCounts[orDefault(t, "title", t.Title, NoTechniqueTitle)]++
		}
		a.WeightedCounts[title] += n
	}
	return a
}

func sum(m map[string]int) int {
	var s int
	for _, v := range m {
		s += v
	}
	return s
}

// Procedures returns the total number of procedures.
func (a *Analysis) Procedures() int { return sum(a.TitleCounts) }

// Techniques returns the total number of techniques.
func (a *Analysis) Techniques() int { return sum(a.TechniqueCounts) }

// Weighted returns the sum of the weighted counts.
func (a *Analysis) Weighted() int { return sum(a.WeightedCounts) }

// AverageTechniques returns the average number of techniques
// per procedure. It is zero if there are no procedures.
func (a *Analysis) AverageTechniques() float64 {
	p := a.Procedures()
	if p == 0 {
		return 0
	}
	return float64(a.Techniques()) / float64(p)
}

// AverageWeight returns the average number of techniques of
// the procedures with the given title.
func (a *Analysis) AverageWeight(title string) float64 {
	n := a.TitleCounts[title]
	if n == 0 {
		return 0
	}
	return float64(a.WeightedCounts[title]) / float64(n)
}

// Distribution returns how many procedures have a given
// number of techniques, ordered by the number of techniques.
func (a *Analysis) Distribution() [][2]int {
	dist := map[int]int{}
	for _, n := range a.TechniquesPerProcedure {
		dist[n]++
	}
	out := make([][2]int, 0, len(dist))
	for n, c := range dist {
		out = append(out, [2]int{n, c})
	}
	slices.SortFunc(out, func(a, b [2]int) int { return cmp.Compare(a[0], b[0]) })
	return out
}

// SortByCount returns the counts ordered by count descending.
// Ties are ordered by name.
func SortByCount(m map[string]int) []Count {
	counts := make([]Count, 0, len(m))
	for k, v := range m {
		counts = append(counts, Count{Name: k, Count: v})
	}
	slices.SortFunc(counts, func(a, b Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return counts
}

// SortByName returns the counts ordered by name.
func SortByName(m map[string]int) []Count {
	counts := make([]Count, 0, len(m))
	for k, v := range m {
		counts = append(counts, Count{Name: k, Count: v})
	}
	slices.SortFunc(counts, func(a, b Count) int { return cmp.Compare(a.Name, b.Name) })
	return counts
}
