// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package options

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// ReadInteractive prints a message to command line and retrieves the password from it.
func ReadInteractive(prompt string, pw **string) error {
	fmt.Fprint(os.Stderr, prompt)
	p, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}
	ps := string(p)
	*pw = &ps
	return nil
}
