// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package options

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// LogLevel implements a helper type to be used in configurations.
type LogLevel struct{ slog.Level }

// MarshalFlag implements [flags.Marshaler].
func (ll LogLevel) MarshalFlag() (string, error) {
	t, err := ll.MarshalText()
	return strings.ToLower(string(t)), err
}

// UnmarshalFlag implements [flags.Unmarshaler].
func (ll *LogLevel) UnmarshalFlag(value string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(value)); err != nil {
		return err
	}
	*ll = LogLevel{Level: l}
	return nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
// It is used when decoding TOML configs.
func (ll *LogLevel) UnmarshalText(text []byte) error {
	return ll.UnmarshalFlag(string(text))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Logging is the logging part of the tool configurations.
// It is meant to be embedded into the config structs.
type Logging struct {
	LogLevel *LogLevel `long:"log_level" description:"LEVEL of logging details" value-name:"LEVEL" choice:"debug" choice:"info" choice:"warn" choice:"error" toml:"log_level"`
	LogFile  *string   `long:"log_file" description:"FILE to log to (JSON encoded)" value-name:"FILE" toml:"log_file"`
}

// Verbose returns true if debug logging is configured.
func (lg *Logging) Verbose() bool {
	return lg.LogLevel != nil && lg.LogLevel.Level <= slog.LevelDebug
}

// level returns the configured level defaulting to info.
func (lg *Logging) level() slog.Level {
	if lg.LogLevel == nil {
		return slog.LevelInfo
	}
	return lg.LogLevel.Level
}

// Prepare installs the configured logger as default logger.
// Logging goes to stderr as text or as JSON into the
// configured log file. The returned closer has to be called
// when the program ends.
func (lg *Logging) Prepare() (io.Closer, error) {
	ho := slog.HandlerOptions{
		AddSource: lg.Verbose(),
		Level:     lg.level(),
	}

	if lg.LogFile == nil || *lg.LogFile == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &ho)))
		return nopCloser{}, nil
	}

	fname, err := homedir.Expand(*lg.LogFile)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(fname, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(f, &ho)))
	return f, nil
}
