// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

// Package certs implement helpers for the tools to handle client side certificates.
package certs

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

// ErrIncomplete is returned if only one of certificate and key is given.
var ErrIncomplete = errors.New(
	"both client_cert and client_key options must be set for the authentication")

// LoadCertificate loads a client certificate from file with an optional passphrase.
// Returns nil if no certificate was configured.
func LoadCertificate(certFile, keyFile, passphrase *string) ([]tls.Certificate, error) {

	switch hasCert, hasKey := certFile != nil, keyFile != nil; {

	case hasCert != hasKey:
		return nil, ErrIncomplete

	case !hasCert:
		return nil, nil

	case passphrase == nil:
		cert, err := tls.LoadX509KeyPair(*certFile, *keyFile)
		if err != nil {
			return nil, err
		}
		return []tls.Certificate{cert}, nil
	}

	keyPEM, err := decryptKey(*keyFile, *passphrase)
	if err != nil {
		return nil, err
	}
	certPEM, err := os.ReadFile(*certFile)
	if err != nil {
		return nil, err
	}
	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, err
	}
	return []tls.Certificate{cert}, nil
}

// decryptKey loads a passphrase protected PEM key and returns it unprotected.
func decryptKey(keyFile, passphrase string) ([]byte, error) {
	data, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM data found in %q", keyFile)
	}
	//lint:ignore SA1019 Legacy encrypted PEM keys are still in use.
	der, err := x509.DecryptPEMBlock(block, []byte(passphrase))
	if err != nil {
		return nil, fmt.Errorf("decrypting %q failed: %w", keyFile, err)
	}
	block.Bytes = der
	block.Headers = nil
	return pem.EncodeToMemory(block), nil
}

// TLSConfig returns a client TLS configuration for the
// given certificates or nil if nothing has to be configured.
func TLSConfig(certs []tls.Certificate, insecure bool) *tls.Config {
	if len(certs) == 0 && !insecure {
		return nil
	}
	return &tls.Config{
		Certificates:       certs,
		InsecureSkipVerify: insecure,
	}
}
