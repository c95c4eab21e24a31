// Package normalization maps free-form identifiers (scheme ids, pairing ids,
// log levels) onto typed values with a documented fallback.
package normalization

import (
	"fmt"
	"sort"
	"strings"
)

// Normalizer provides type-safe string-to-value normalization with a default.
type Normalizer[T any] struct {
	values       map[string]T
	defaultKey   string
	defaultValue T
	keys         []string
}

// NewNormalizer creates a normalizer over values. defaultKey must be one of the keys;
// its value is returned for unknown input.
func NewNormalizer[T any](values map[string]T, defaultKey string) *Normalizer[T] {
	normalized := make(map[string]T, len(values))
	keys := make([]string, 0, len(values))
	for k, v := range values {
		nk := Key(k)
		normalized[nk] = v
		keys = append(keys, nk)
	}
	sort.Strings(keys)

	dk := Key(defaultKey)
	def, ok := normalized[dk]
	if !ok {
		panic(fmt.Sprintf("normalization: default key %q not among values", defaultKey))
	}
	return &Normalizer[T]{values: normalized, defaultKey: dk, defaultValue: def, keys: keys}
}

// Normalize returns the value for raw, or the default value when raw is unknown.
func (n *Normalizer[T]) Normalize(raw string) T {
	v, _ := n.Lookup(raw)
	return v
}

// Resolve returns the canonical key for raw, falling back to the default key.
func (n *Normalizer[T]) Resolve(raw string) string {
	k := Key(raw)
	if _, ok := n.values[k]; ok {
		return k
	}
	return n.defaultKey
}

// Lookup returns the value for raw and whether raw was recognised.
func (n *Normalizer[T]) Lookup(raw string) (T, bool) {
	if v, ok := n.values[Key(raw)]; ok {
		return v, true
	}
	return n.defaultValue, false
}

// NormalizeWithError returns an error listing the valid keys for unknown input.
func (n *Normalizer[T]) NormalizeWithError(raw string) (T, error) {
	v, ok := n.Lookup(raw)
	if !ok {
		return v, fmt.Errorf("invalid value %q, valid options: %v", raw, n.keys)
	}
	return v, nil
}

// DefaultKey returns the fallback key.
func (n *Normalizer[T]) DefaultKey() string { return n.defaultKey }

// ValidKeys returns all valid keys in sorted order.
func (n *Normalizer[T]) ValidKeys() []string {
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}

// Key applies the standard normalization: trimmed and lower-cased.
func Key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
