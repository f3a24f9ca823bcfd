// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package util

import (
	"cmp"
	"slices"
)

// Set is a simple set type.
type Set[K comparable] map[K]struct{}

// NewSet creates a set from the given keys.
func NewSet[K comparable](keys ...K) Set[K] {
	s := make(Set[K], len(keys))
	for _, k := range keys {
		s.Add(k)
	}
	return s
}

// Contains returns if the set contains a given key or not.
func (s Set[K]) Contains(k K) bool {
	_, found := s[k]
	return found
}

// Add adds a key to the set.
func (s Set[K]) Add(k K) {
	s[k] = struct{}{}
}

// Keys returns the keys of the set.
func (s Set[K]) Keys() []K {
	keys := make([]K, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	return keys
}

// Difference returns the difference of two sets.
func (s Set[K]) Difference(t Set[K]) Set[K] {
	d := Set[K]{}
	for k := range s {
		if !t.Contains(k) {
			d.Add(k)
		}
	}
	return d
}

// SortedKeys returns the keys of an ordered set in ascending order.
func SortedKeys[K cmp.Ordered](s Set[K]) []K {
	keys := s.Keys()
	slices.Sort(keys)
	return keys
}
