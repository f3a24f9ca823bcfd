// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package isac

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Group is a named list of procedure titles.
type Group struct {
	Name   string   `toml:"name" yaml:"name" json:"name"`
	Titles []string `toml:"titles" yaml:"titles" json:"titles"`
}

// GroupTable is an ordered list of groups.
type GroupTable []Group

// DefaultGroups is the table of groups used to build the
// chunks of the published data set.
var DefaultGroups = GroupTable{
	{Name: "group_1", Titles: []string{
		"Free-fall: Hacking Tesla from wireless to CAN bus",
	}},
	{Name: "group_2", Titles: []string{
		"Hacking a Tesla Model S: What we found and what we learned",
		"NFC Relay Attack on Tesla Model Y",
		"Unlocking the Drive: Exploiting Tesla Model 3",
	}},
	{Name: "group_3", Titles: []string{
		"OVER-THE-AIR: HOW WE REMOTELY COMPROMISED THE GATEWAY, BCM, AND AUTOPILOT ECUS OF TESLA CARS",
		"Exploiting Wi-Fi Stack on Tesla Model S",
		"New Example: Jailbreaking an Electric Vehicle in 2023 or What It Means to Hotwire Tesla's x86-Based Seat Heater",
	}},
	{Name: "group_4", Titles: []string{
		"CAN Message Injection",
	}},
	{Name: "group_5", Titles: []string{
		"Comprehensive Experimental Analyses of Automotive Attack Surfaces",
	}},
	{Name: "group_6", Titles: []string{
		"Adventures in Automotive Networks and Control Units",
	}},
	{Name: "group_7", Titles: []string{
		"Experimental Security Assessment of BMW Cars: A Summary Report",
	}},
	{Name: "group_8", Titles: []string{
		"Remote Exploitation of an Unaltered Passenger Vehicle",
	}},
	{Name: "group_9", Titles: []string{
		"Experimental Security Analysis of a Modern Automobile",
		"Experimental Security Analysis of a Modern Automobile ",
	}},
	{Name: "group_10", Titles: []string{
		"Tencent Keen Security Lab: Experimental Security Assessment on Lexus Cars",
		"Drift with Devil: Security of Multi-Sensor Fusion based Localization in High-Level Autonomous Driving under GPS Spoofing",
	}},
	{Name: "group_11", Titles: []string{
		"IoT backdoors in cars",
		"There Will Be Glitches Extracting and Analyzing Automotive Firmware Efficiently",
	}},
	{Name: "group_12", Titles: []string{
		"Evaluating Physical-Layer BLE Location Tracking Attacks on Mobile Devices",
		"Losing the Car Keys: Wireless PHY-Layer Insecurity in EV Charging",
	}},
	{Name: "group_13", Titles: []string{
		"Security and Privacy Vulnerabilities of In-Car Wireless Networks: A Tire Pressure Monitoring System Case Study",
		"Drive it like you hacked it",
		"Driving Down the Rabbit Hole",
	}},
	{Name: "group_14", Titles: []string{
		"Extracting SecOC secrets from an ECU",
	}},
}

type groupFile struct {
	Groups GroupTable `toml:"groups" yaml:"groups"`
}

// LoadGroupTable loads a group table from a TOML or YAML file.
// The format is chosen by the file extension.
func LoadGroupTable(fname string) (GroupTable, error) {
	var gf groupFile
	switch ext := strings.ToLower(filepath.Ext(fname)); ext {
	case ".toml":
		md, err := toml.DecodeFile(fname, &gf)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) != 0 {
			return nil, fmt.Errorf("could not parse %q from %q", undecoded, fname)
		}
	case ".yaml", ".yml":
		f, err := os.Open(fname)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&gf); err != nil {
			return nil, fmt.Errorf("loading %q failed: %w", fname, err)
		}
	default:
		return nil, fmt.Errorf("unsupported group table format %q", ext)
	}
	if err := gf.Groups.Validate(); err != nil {
		return nil, fmt.Errorf("invalid group table %q: %w", fname, err)
	}
	return gf.Groups, nil
}

// Validate checks that the table has groups with unique, non-empty names.
func (gt GroupTable) Validate() error {
	if len(gt) == 0 {
		return fmt.Errorf("no groups")
	}
	names := make(map[string]bool, len(gt))
	for i, g := range gt {
		if g.Name == "" {
			return fmt.Errorf("group %d has no name", i+1)
		}
		if names[g.Name] {
			return fmt.Errorf("duplicate group %q", g.Name)
		}
		names[g.Name] = true
	}
	return nil
}

// Chunk is a named list of entries.
type Chunk struct {
	Name    string
	Entries []*Entry
}

// Weight returns the number of techniques of the chunk.
func (c *Chunk) Weight() int { return Weight(c.Entries) }

// Grouper sorts entries into groups by their titles.
type Grouper struct {
	table GroupTable
	index map[string]int
}

// NewGrouper creates a grouper for a given table.
// If a title is listed in more than one group the first one wins.
func NewGrouper(table GroupTable) *Grouper {
	index := map[string]int{}
	for i, g := range table {
		for _, title := range g.Titles {
			title = strings.TrimSpace(title)
			if _, found := index[title]; !found {
				index[title] = i
			}
		}
	}
	return &Grouper{table: table, index: index}
}

// Group sorts the entries into the groups of the table.
// Every group of the table is returned, empty ones included.
// Entries whose titles are not in the table are returned separately.
func (gr *Grouper) Group(entries []*Entry) ([]*Chunk, []*Entry) {
	chunks := make([]*Chunk, len(gr.table))
	for i, g := range gr.table {
		chunks[i] = &Chunk{Name: g.Name, Entries: []*Entry{}}
	}
	var unmatched []*Entry
	for _, e := range entries {
		if i, ok := gr.index[strings.TrimSpace(e.Title)]; ok {
			chunks[i].Entries = append(chunks[i].Entries, e)
		} else {
			unmatched = append(unmatched, e)
		}
	}
	return chunks, unmatched
}

// Weight returns the total number of techniques of the entries.
func Weight(entries []*Entry) int {
	var w int
	for _, e := range entries {
		w += len(e.Technique)
	}
	return w
}

// Split cuts the entries into consecutive parts with a weight of
// at most maxWeight each. An entry heavier than maxWeight
// gets a part on its own. The parts are named name, name_1, name_2 ...
// A maxWeight less than one disables splitting.
func Split(name string, entries []*Entry, maxWeight int) []*Chunk {
	if maxWeight < 1 || Weight(entries) <= maxWeight {
		return []*Chunk{{Name: name, Entries: entries}}
	}
	var (
		parts   []*Chunk
		current []*Entry
		weight  int
	)
	flush := func() {
		n := name
		if len(parts) > 0 {
			n += "_" + strconv.Itoa(len(parts))
		}
		parts = append(parts, &Chunk{Name: n, Entries: current})
		current, weight = nil, 0
	}
	for _, e := range entries {
		w := len(e.Technique)
		if len(current) > 0 && weight+w > maxWeight {
			flush()
		}
		current = append(current, e)
		weight += w
	}
	if len(current) > 0 {
		flush()
	}
	return parts
}
