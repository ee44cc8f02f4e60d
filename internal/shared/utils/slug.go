package utils

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace   = regexp.MustCompile(`\s+`)
	slugHyphens      = regexp.MustCompile(`-+`)
)

// Slugify turns free text into a URL-safe identifier.
//
//	"Hello, World!!" → "hello-world"
//	"   "            → ""
//
// Input that is empty after stripping yields "". Callers decide what an empty
// slug means for them.
func Slugify(input string) string {
	// Step 1: Lowercase, then trim surrounding whitespace
	s := strings.TrimSpace(strings.ToLower(input))

	// Step 2: Keep only a-z, 0-9, whitespace and hyphens
	s = slugInvalidChars.ReplaceAllString(s, "")

	// Step 3: Whitespace runs become a single hyphen
	s = slugWhitespace.ReplaceAllString(s, "-")

	// Step 4: Collapse repeated hyphens
	return slugHyphens.ReplaceAllString(s, "-")
}
