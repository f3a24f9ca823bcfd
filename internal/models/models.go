// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

// Package models contains helper models used in the tools internally.
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// timeLayouts are tried in order by ParseTime.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15",
	"2006-01-02",
	"2006-01",
	"2006",
}

// ParseTime parses s leniently as a full or truncated RFC 3339 time.
// Times without a zone are in UTC.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseAge parses a duration like "720h" or a number of days like "30d".
func parseAge(s string) (time.Duration, bool) {
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.ParseUint(days, 10, 16)
		if err != nil {
			return 0, false
		}
		return time.Duration(n) * 24 * time.Hour, true
	}
	d, err := time.ParseDuration(s)
	return d, err == nil
}

// TimeRange is a closed interval of time.
type TimeRange [2]time.Time

// NewTimeInterval creates a new time range.
// The borders are swapped if b is before a.
func NewTimeInterval(a, b time.Time) TimeRange {
	if b.Before(a) {
		return TimeRange{b, a}
	}
	return TimeRange{a, b}
}

// Contains reports if t lies inside the range, borders included.
func (tr TimeRange) Contains(t time.Time) bool {
	return !t.Before(tr[0]) && !t.After(tr[1])
}

// UnmarshalFlag implements [go-flags/Unmarshaler].
// Accepted are an age relative to now ("720h", "30d"),
// a single start time or a comma separated start and end time.
func (tr *TimeRange) UnmarshalFlag(s string) error {
	s = strings.TrimSpace(s)
	now := time.Now()

	if age, ok := parseAge(s); ok {
		*tr = NewTimeInterval(now.Add(-age), now)
		return nil
	}

	from, to, found := strings.Cut(s, ",")
	start, ok := ParseTime(from)
	if !ok {
		return fmt.Errorf("%q is not a valid time or age", strings.TrimSpace(from))
	}
	end := now
	if found {
		if end, ok = ParseTime(to); !ok {
			return fmt.Errorf("%q is not a valid time", strings.TrimSpace(to))
		}
	}
	*tr = NewTimeInterval(start, end)
	return nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (tr *TimeRange) UnmarshalText(text []byte) error {
	return tr.UnmarshalFlag(string(text))
}

// MarshalJSON implements [json.Marshaler].
func (tr TimeRange) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{
		tr[0].Format(time.RFC3339),
		tr[1].Format(time.RFC3339),
	})
}

// String implements [fmt.Stringer].
func (tr TimeRange) String() string {
	return fmt.Sprintf("[%s, %s]", tr[0].Format(time.RFC3339), tr[1].Format(time.RFC3339))
}
