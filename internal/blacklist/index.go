package blacklist

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/darmiel/sitegate/internal/core"
)

// DuplicateKeyError is returned when the duplicate policy is "reject" and
// the source contains the same identity key twice.
type DuplicateKeyError struct {
	Key string
}

func (e DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate blacklist key '%s'", e.Key)
}

// Index is a membership index over banned identities. It is built once
// before a batch run and never mutated afterwards; when the blacklist
// changes, a new index is built from its source entries.
type Index struct {
	entries map[string]core.BlacklistEntry
}

// Build constructs an index over the given entries. With the "warn" policy
// duplicate keys are logged and the last entry wins, since source data may
// contain redundant records; with "reject" the first duplicate is fatal.
// Entries without a usable key are skipped with a warning.
func Build(entries []core.BlacklistEntry, policy core.DuplicatePolicy) (*Index, error) {
	idx := &Index{
		entries: make(map[string]core.BlacklistEntry, len(entries)),
	}

	for i, entry := range entries {
		key := entry.Key()
		if key == "" {
			log.Warn().Int("index", i).Msg("blacklist entry has no usable identity key, skipping")
			continue
		}
		if _, exists := idx.entries[key]; exists {
			if policy == core.DuplicateReject {
				return nil, DuplicateKeyError{Key: key}
			}
			log.Warn().Str("key", key).Msg("duplicate blacklist key, last entry wins")
		}
		idx.entries[key] = entry
	}

	return idx, nil
}

// Contains reports membership of a single identity key in O(1).
func (i *Index) Contains(key string) bool {
	_, ok := i.entries[key]
	return ok
}

// Lookup returns the entry stored under the given key.
func (i *Index) Lookup(key string) (core.BlacklistEntry, bool) {
	entry, ok := i.entries[key]
	return entry, ok
}

// Match checks all identity keys of a person and returns the first
// blacklist entry that matches.
func (i *Index) Match(person core.PersonRecord) (core.BlacklistEntry, bool) {
	for _, key := range person.Keys() {
		if entry, ok := i.entries[key]; ok {
			return entry, true
		}
	}
	return core.BlacklistEntry{}, false
}

// Len returns the number of indexed identities.
func (i *Index) Len() int {
	return len(i.entries)
}
