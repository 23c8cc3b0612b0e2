package main

import (
	"fmt"
	"strings"
)

// resolveID expands a short ID prefix, as printed by the list commands,
// to the full ID of exactly one item.
func resolveID[T any](kind, prefix string, items []T, idOf func(T) string) (string, error) {
	var matches []string
	for _, item := range items {
		id := idOf(item)
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no %s matches %q", kind, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%q matches %d %ss, use a longer prefix", prefix, len(matches), kind)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
