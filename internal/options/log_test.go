// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>
package options

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestMarshalFlag(t *testing.T) {
	ll := LogLevel{Level: slog.LevelInfo}
	got, err := ll.MarshalFlag()
	if err != nil {
		t.Fatal(err)
	}
	if got != "info" {
		t.Fatalf("got %q expected \"info\"", got)
	}
}

func TestUnmarshalFlag(t *testing.T) {
	for _, x := range []struct {
		input  string
		expect slog.Level
	}{
		{input: "debug", expect: slog.LevelDebug},
		{input: "info", expect: slog.LevelInfo},
		{input: "warn", expect: slog.LevelWarn},
		{input: "error", expect: slog.LevelError},
	} {
		var ll LogLevel
		if err := ll.UnmarshalFlag(x.input); err != nil {
			t.Fatalf("%q error: %v", x.input, err)
		}
		if ll.Level != x.expect {
			t.Fatalf("%q: got %s expected %s", x.input, ll.Level, x.expect)
		}
	}
	var ll LogLevel
	if err := ll.UnmarshalFlag("invalid"); err == nil {
		t.Fatal(`"invalid" should return an error`)
	}
}

func TestLoggingVerbose(t *testing.T) {
	var lg Logging
	if lg.Verbose() {
		t.Fatal("unset log level should not be verbose")
	}
	lg.LogLevel = &LogLevel{Level: slog.LevelDebug}
	if !lg.Verbose() {
		t.Fatal("debug log level should be verbose")
	}
}

func TestLoggingPrepareFile(t *testing.T) {
	orig := slog.Default()
	defer slog.SetDefault(orig)

	fname := filepath.Join(t.TempDir(), "isac.log")
	lg := Logging{
		LogLevel: &LogLevel{Level: slog.LevelWarn},
		LogFile:  &fname,
	}
	closer, err := lg.Prepare()
	if err != nil {
		t.Fatal(err)
	}
	slog.Info("not logged")
	slog.Warn("Chunk is empty", "group", "group_14")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(fname)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var lines []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var line map[string]any
		if err := json.Unmarshal(sc.Bytes(), &line); err != nil {
			t.Fatalf("JSON parsing log failed: %v", err)
		}
		lines = append(lines, line)
	}
	if len(lines) != 1 {
		t.Fatalf("expected one log line, got %d", len(lines))
	}
	if lines[0]["msg"] != "Chunk is empty" || lines[0]["group"] != "group_14" {
		t.Fatalf("unexpected log line %v", lines[0])
	}
}
