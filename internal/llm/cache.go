// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package llm

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"errors"

	bolt "go.etcd.io/bbolt"
)

var (
	completionsBucket = []byte("completions")
	versionKey        = []byte("version")
	versionOfBucket   = []byte("1")
)

var errNotFound = errors.New("not found")

// Cache stores completions in a bolt database.
type Cache struct{ db *bolt.DB }

// OpenCache opens or creates a completion cache.
// A cache with a different version is cleared.
func OpenCache(fname string) (*Cache, error) {
	db, err := bolt.Open(fname, 0600, nil)
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(completionsBucket)
		if err != nil {
			return err
		}
		if bytes.Equal(b.Get(versionKey), versionOfBucket) {
			return nil
		}
		// Version is wrong or nonexistent, delete old cache.
		if err := tx.DeleteBucket(completionsBucket); err != nil {
			return err
		}
		if b, err = tx.CreateBucket(completionsBucket); err != nil {
			return err
		}
		return b.Put(versionKey, versionOfBucket)
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Cache{db: db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error { return c.db.Close() }

// key calculates the cache key of a request.
func key(req *Request) ([]byte, error) {
	h := sha256.New()
	if err := json.NewEncoder(h).Encode(req); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

// get returns the stored completion or errNotFound.
func (c *Cache) get(key []byte) (string, error) {
	var content string
	err := c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(completionsBucket).Get(key)
		if v == nil {
			return errNotFound
		}
		content = string(v)
		return nil
	})
	return content, err
}

// set stores a completion.
func (c *Cache) set(key []byte, content string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(completionsBucket).Put(key, []byte(content))
	})
}

// Len returns the number of cached completions.
func (c *Cache) Len() (int, error) {
	var n int
	err := c.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(completionsBucket).ForEach(func(k, _ []byte) error {
			if !bytes.Equal(k, versionKey) {
				n++
			}
			return nil
		})
	})
	return n, err
}
