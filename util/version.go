// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package util

// SemVersion the version in semver.org format, MUST be overwritten during
// the linking stage of the build process.
var SemVersion = "0.0.0"
