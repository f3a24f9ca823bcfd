// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package isac

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAnalyze(t *testing.T) {
	entries := loadTestEntries(t)
	entries = append(entries, &Entry{
		Type:      "procedure",
		Technique: Techniques{{Title: "Location Tracking"}, {}},
	})
	a := Analyze(entries)

	const experimental = "Experimental Security Analysis of a Modern Automobile "
	if diff := cmp.Diff(map[string]int{
		"CAN Message Injection":        1,
		experimental:                   1,
		"Driving Down the Rabbit Hole": 1,
		"Unknown Research":             1,
		NoTitle:                        1,
	}, a.TitleCounts); diff != "" {
		t.Errorf("title counts mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]int{"procedure": 5}, a.TypeCounts); diff != "" {
		t.Errorf("type counts mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]int{
		"Abuse UDS for Collection": 1,
		"Location Tracking":        2,
		"Network Sniffing":         1,
		NoTechniqueTitle:           1,
	}, a.TechniqueCounts); diff != "" {
		t.Errorf("technique counts mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]int{
		"ATM-P0034": 2,
		"ATM-P0001": 1,
		"ATM-P0099": 0,
		"ATM-P0100": 0,
		NoID:        2,
	}, a.TechniquesPerProcedure); diff != "" {
		t.Errorf("techniques per procedure mismatch (-want +got):\n%s", diff)
	}
	if a.Procedures() != 5 || a.Techniques() != 5 || a.Weighted() != 5 {
		t.Errorf("totals: %d %d %d", a.Procedures(), a.Techniques(), a.Weighted())
	}
	if avg := a.AverageTechniques(); avg != 1 {
		t.Errorf("average: got %f want 1", avg)
	}
	if avg := a.AverageWeight("CAN Message Injection"); avg != 2 {
		t.Errorf("average weight: got %f want 2", avg)
	}
	if avg := a.AverageWeight("missing"); avg != 0 {
		t.Errorf("average weight of missing title: got %f", avg)
	}
	if diff := cmp.Diff([][2]int{{0, 2}, {1, 1}, {2, 2}}, a.Distribution()); diff != "" {
		t.Errorf("distribution mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	a := Analyze(nil)
	if a.Procedures() != 0 || a.AverageTechniques() != 0 || len(a.Distribution()) != 0 {
		t.Errorf("unexpected analysis of nothing: %+v", a)
	}
}

func TestSortByCount(t *testing.T) {
	m := map[string]int{"b": 2, "a": 2, "c": 5, "d": 1}
	want := []Count{{"c", 5}, {"a", 2}, {"b", 2}, {"d", 1}}
	if diff := cmp.Diff(want, SortByCount(m)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	want = []Count{{"a", 2}, {"b", 2}, {"c", 5}, {"d", 1}}
	if diff := cmp.Diff(want, SortByName(m)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
