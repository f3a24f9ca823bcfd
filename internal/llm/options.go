// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package llm

import (
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/isac-bench/isac_bench/internal/certs"
	"github.com/isac-bench/isac_bench/internal/options"
	"github.com/isac-bench/isac_bench/util"
)

// Defaults of the client options.
const (
	DefaultURL     = "https://api.openai.com/v1"
	DefaultRetries = 3
	DefaultBackoff = 2 * time.Second
	DefaultTimeout = 2 * time.Minute
)

// KeyEnv is the environment variable the API key is read from
// if it is not configured otherwise.
const KeyEnv = "OPENAI_API_KEY"

// Options are the configuration options of a client.
// They are meant to be embedded into the tool configurations.
type Options struct {
	URL     string        `long:"url" description:"Base URL of the chat completion API" value-name:"URL" toml:"url"`
	Key     *string       `long:"key" description:"API key (defaults to $OPENAI_API_KEY)" value-name:"KEY" toml:"key"`
	AskKey  bool          `long:"ask_key" description:"Enter the API key interactively" toml:"ask_key"`
	Rate    *float64      `long:"rate" short:"r" description:"The average upper limit of requests per second (defaults to unlimited)" toml:"rate"`
	Retries int           `long:"retries" description:"Number of retries on temporary failures" value-name:"N" toml:"retries"`
	Backoff time.Duration `long:"backoff" description:"Wait time before the first retry" value-name:"DURATION" toml:"backoff"`
	Timeout time.Duration `long:"timeout" description:"Timeout of a single request" value-name:"DURATION" toml:"timeout"`
	Cache   string        `long:"cache" description:"Cache completions in FILE" value-name:"FILE" toml:"cache"`

	ExtraHeader http.Header `long:"header" short:"H" description:"One or more extra HTTP header fields" toml:"header"`

	ClientCert       *string `long:"client_cert" description:"TLS client certificate file (PEM encoded data)" value-name:"CERT-FILE" toml:"client_cert"`
	ClientKey        *string `long:"client_key" description:"TLS client private key file (PEM encoded data)" value-name:"KEY-FILE" toml:"client_key"`
	ClientPassphrase *string `long:"client_passphrase" description:"Optional passphrase for the client cert (limited, experimental, see doc)" value-name:"PASSPHRASE" toml:"client_passphrase"`
	Insecure         bool    `long:"insecure" description:"Do not check TLS certificates from the API endpoint" toml:"insecure"`
}

// SetDefaults sets the default values.
func (o *Options) SetDefaults() {
	o.URL = DefaultURL
	o.Retries = DefaultRetries
	o.Backoff = DefaultBackoff
	o.Timeout = DefaultTimeout
}

// apiKey returns the configured API key.
func (o *Options) apiKey() (string, error) {
	if o.AskKey {
		if err := options.ReadInteractive("Enter API key: ", &o.Key); err != nil {
			return "", err
		}
	}
	if o.Key != nil {
		return *o.Key, nil
	}
	if key, ok := os.LookupEnv(KeyEnv); ok {
		return key, nil
	}
	return "", errors.New("no API key given")
}

// httpClient builds the HTTP client stack.
func (o *Options) httpClient() (util.Client, error) {
	clientCerts, err := certs.LoadCertificate(
		o.ClientCert, o.ClientKey, o.ClientPassphrase)
	if err != nil {
		return nil, err
	}

	hClient := http.Client{Timeout: o.Timeout}
	if tlsConfig := certs.TLSConfig(clientCerts, o.Insecure); tlsConfig != nil {
		hClient.Transport = &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: tlsConfig,
		}
	}

	header := http.Header{}
	header.Set("User-Agent", "isac_bench/"+util.SemVersion)
	for k, vs := range o.ExtraHeader {
		for _, v := range vs {
			header.Add(k, v)
		}
	}

	var client util.Client = &util.HeaderClient{
		Client: &hClient,
		Header: header,
	}
	client = &util.LoggingClient{Client: client}

	if o.Rate != nil {
		client = &util.LimitingClient{
			Client:  client,
			Limiter: rate.NewLimiter(rate.Limit(*o.Rate), 1),
		}
	}
	return client, nil
}

// NewClient creates a client as configured.
// The client has to be closed after use.
func (o *Options) NewClient() (*Client, error) {
	key, err := o.apiKey()
	if err != nil {
		return nil, err
	}
	client, err := o.httpClient()
	if err != nil {
		return nil, err
	}
	c := &Client{
		URL:     o.URL,
		Key:     key,
		HTTP:    client,
		Retries: o.Retries,
		Backoff: o.Backoff,
	}
	if o.Cache != "" {
		if c.Cache, err = OpenCache(o.Cache); err != nil {
			return nil, err
		}
	}
	return c, nil
}
