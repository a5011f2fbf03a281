// Package util builds provider keys for the store.
package util

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const prefix = "packd"

// RecordKey is the provider key of a single record: packd:<ns>:r:<key>.
func RecordKey(ns, key string) string {
	return prefix + ":" + ns + ":r:" + key
}

// BatchKey returns a deterministic key for a set of record keys: order does
// not matter and duplicates are ignored.
func BatchKey(ns string, keys []string) string {
	return fmt.Sprintf("%s:%s:b:%016x", prefix, ns, xxhash.Sum64String(strings.Join(SortedUnique(keys), "\x00")))
}

// SortedUnique returns a sorted copy of keys without duplicates.
func SortedUnique(keys []string) []string {
	s := make([]string, len(keys))
	copy(s, keys)
	sort.Strings(s)
	out := s[:0]
	for i, k := range s {
		if i > 0 && k == s[i-1] {
			continue
		}
		out = append(out, k)
	}
	return out
}
