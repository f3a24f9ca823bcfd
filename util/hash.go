// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package util

import (
	"bufio"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"regexp"
)

var hexRe = regexp.MustCompile(`^([[:xdigit:]]+)`)

// HashFromReader reads a base 16 coded hash sum from a reader.
func HashFromReader(r io.Reader) ([]byte, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if m := hexRe.FindStringSubmatch(scanner.Text()); m != nil {
			return hex.DecodeString(m[1])
		}
	}
	return nil, scanner.Err()
}

// HashFromFile reads a base 16 coded hash sum from a file.
func HashFromFile(fname string) ([]byte, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return HashFromReader(f)
}

// WriteHashSumToFile writes a hash sum to file fname
// in the format of the sha256sum/sha512sum tools.
func WriteHashSumToFile(fname, name string, sum []byte) error {
	return WriteFileAtomic(fname, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%x %s\n", sum, name)
		return err
	})
}

// FileSums are the SHA256 and SHA512 sums of a file together
// with its size.
type FileSums struct {
	SHA256 []byte
	SHA512 []byte
	Size   int64
}

// HashFile calculates the SHA256 and SHA512 sums of a file in one pass.
func HashFile(fname string) (*FileSums, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s256, s512 := sha256.New(), sha512.New()
	nw := NWriter{Writer: io.MultiWriter(s256, s512)}
	if _, err := io.Copy(&nw, f); err != nil {
		return nil, err
	}
	return &FileSums{
		SHA256: s256.Sum(nil),
		SHA512: s512.Sum(nil),
		Size:   nw.N,
	}, nil
}
