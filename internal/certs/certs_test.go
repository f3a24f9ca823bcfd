// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package certs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCertificateErrors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.pem")
	if err := os.WriteFile(garbage, []byte("no pem here"), 0600); err != nil {
		t.Fatal(err)
	}
	missingCert := filepath.Join(dir, "missing.crt")
	missingKey := filepath.Join(dir, "missing.pem")
	passphrase := "qwer"

	// Nothing configured, expect nil without error.
	if certificate, err := LoadCertificate(nil, nil, nil); certificate != nil || err != nil {
		t.Errorf("Failure: Expected nil return.")
	}
	// Only one of both given.
	if _, err := LoadCertificate(nil, &missingKey, nil); !errors.Is(err, ErrIncomplete) {
		t.Errorf("Failure: No error despite missing certificate: %v", err)
	}
	if _, err := LoadCertificate(&missingCert, nil, nil); !errors.Is(err, ErrIncomplete) {
		t.Errorf("Failure: No error despite missing key: %v", err)
	}
	// Nonexistent files.
	if certificate, err := LoadCertificate(&missingCert, &missingKey, nil); certificate != nil || err == nil {
		t.Errorf("Failure: No error while loading missing files.")
	}
	if certificate, err := LoadCertificate(&missingCert, &missingKey, &passphrase); certificate != nil || err == nil {
		t.Errorf("Failure: No error while loading missing files with passphrase.")
	}
	// Key is no PEM.
	if certificate, err := LoadCertificate(&missingCert, &garbage, &passphrase); certificate != nil || err == nil {
		t.Errorf("Failure: No error while loading garbage key.")
	}
}

func TestTLSConfig(t *testing.T) {
	if cfg := TLSConfig(nil, false); cfg != nil {
		t.Error("Failure: Expected no config.")
	}
	if cfg := TLSConfig(nil, true); cfg == nil || !cfg.InsecureSkipVerify {
		t.Error("Failure: Expected insecure config.")
	}
}
