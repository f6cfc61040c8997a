package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9-]`)
)

// Slugify lowercases and trims name, turns whitespace runs into hyphens and
// drops every character outside [a-z0-9-]. The result may be empty.
func Slugify(name string) string {
	s := strings.TrimSpace(strings.ToLower(name))
	s = whitespaceRun.ReplaceAllString(s, "-")
	return nonSlugChars.ReplaceAllString(s, "")
}

// SlugOrFallback returns Slugify(name), or a time-based token with the given
// prefix when the slug is empty.
func SlugOrFallback(name, prefix string) string {
	if id := Slugify(name); id != "" {
		return id
	}
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixMilli())
}

// UniqueSlug returns base, or base suffixed with -2, -3, ... until taken reports false.
func UniqueSlug(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if !taken(candidate) {
			return candidate
		}
	}
}
