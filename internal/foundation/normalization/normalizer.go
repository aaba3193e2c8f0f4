// Package normalization maps loosely written configuration strings onto typed enums.
package normalization

import (
	"fmt"
	"sort"
	"strings"
)

// Normalizer provides type-safe string-to-enum normalization with error handling.
type Normalizer[T comparable] struct {
	validValues  map[string]T
	defaultValue T
	validKeys    []string // Cached for error messages
}

// NewNormalizer creates a normalizer with a map of valid string->value pairs.
// Keys are compared case-insensitively and without surrounding whitespace.
func NewNormalizer[T comparable](values map[string]T, defaultValue T) *Normalizer[T] {
	normalized := make(map[string]T, len(values))
	validKeys := make([]string, 0, len(values))

	for k, v := range values {
		key := clean(k)
		normalized[key] = v
		validKeys = append(validKeys, key)
	}
	sort.Strings(validKeys)

	return &Normalizer[T]{
		validValues:  normalized,
		defaultValue: defaultValue,
		validKeys:    validKeys,
	}
}

// Normalize returns the matching value, or the default when raw is not recognized.
func (n *Normalizer[T]) Normalize(raw string) T {
	if value, exists := n.validValues[clean(raw)]; exists {
		return value
	}
	return n.defaultValue
}

// NormalizeWithError is like Normalize but reports unrecognized input.
// An empty string yields the default without error.
func (n *Normalizer[T]) NormalizeWithError(raw string) (T, error) {
	cleaned := clean(raw)
	if cleaned == "" {
		return n.defaultValue, nil
	}
	if value, exists := n.validValues[cleaned]; exists {
		return value, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid value %q, valid options: %v", raw, n.validKeys)
}

// ValidKeys returns all valid normalized keys.
func (n *Normalizer[T]) ValidKeys() []string {
	result := make([]string, len(n.validKeys))
	copy(result, n.validKeys)
	return result
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
