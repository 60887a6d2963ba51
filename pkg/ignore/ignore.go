// Package ignore compiles gitignore-style wildcard patterns into a path
// matcher. Patterns support '*', '?', '**', '!' negation and a trailing '/'
// to match directories only.
package ignore

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Pattern is a single compiled exclusion rule.
type Pattern struct {
	Regex  *regexp.Regexp // Compiled regular expression for the pattern.
	Negate bool           // True when the pattern re-includes matches ('!').
	Raw    string         // Original pattern text.
}

// Matcher holds an ordered list of patterns. Later patterns win, so a
// negated pattern can re-include a path excluded by an earlier one.
type Matcher struct {
	patterns []*Pattern
}

// Compile parses pattern lines into a Matcher. Blank lines are skipped.
// An invalid pattern is an error; patterns arrive from the command line and
// a typo should fail loudly rather than silently match nothing.
func Compile(lines ...string) (*Matcher, error) {
	m := &Matcher{}
	for _, line := range lines {
		p, err := parsePattern(line)
		if err != nil {
			return nil, err
		}
		if p != nil {
			m.patterns = append(m.patterns, p)
		}
	}
	return m, nil
}

// Len reports how many patterns the matcher holds.
func (m *Matcher) Len() int {
	return len(m.patterns)
}

// Matches checks whether a slash-separated relative path is excluded.
func (m *Matcher) Matches(path string) bool {
	matched, _ := m.MatchesWithPattern(path)
	return matched
}

// MatchesWithPattern checks the path against every pattern in order and
// returns the last pattern that matched, if any.
func (m *Matcher) MatchesWithPattern(path string) (bool, *Pattern) {
	normalized := filepath.ToSlash(path)

	matched := false
	var last *Pattern
	for _, p := range m.patterns {
		if p.Regex.MatchString(normalized) {
			last = p
			matched = !p.Negate
		}
	}
	return matched, last
}

// parsePattern converts one pattern line into a compiled Pattern.
// Returns nil for blank lines.
func parsePattern(line string) (*Pattern, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, nil
	}

	negate := false
	if strings.HasPrefix(trimmed, "!") {
		negate = true
		trimmed = strings.TrimPrefix(trimmed, "!")
	}

	expr := escapeSpecialChars(trimmed)
	expr = handleDoubleStarPatterns(expr)
	expr = wildcardToRegex(expr)
	expr = expandDoubleStarTokens(expr)
	expr = anchorPattern(expr, trimmed)

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude pattern %q: %w", line, err)
	}

	return &Pattern{Regex: re, Negate: negate, Raw: line}, nil
}

// escapeSpecialChars escapes regex special characters except '*', '?' and '/'.
func escapeSpecialChars(pattern string) string {
	specialChars := `.+()|^$[]{}`
	for _, char := range specialChars {
		pattern = strings.ReplaceAll(pattern, string(char), `\`+string(char))
	}
	return pattern
}

// Placeholder tokens for '**' forms. They hold the spot through the single
// wildcard rewrite, which would otherwise mangle the '*' and '.' characters
// of an already-emitted regex. NUL cannot appear in a path, so the tokens
// never collide with pattern text.
const (
	tokenDoubleStarMiddle   = "\x00dsm\x00"
	tokenDoubleStarTrailing = "\x00dst\x00"
	tokenDoubleStarLeading  = "\x00dsl\x00"
)

// handleDoubleStarPatterns replaces '**' forms with placeholder tokens.
func handleDoubleStarPatterns(pattern string) string {
	pattern = regexp.MustCompile(`/\*\*/`).ReplaceAllString(pattern, tokenDoubleStarMiddle)
	pattern = regexp.MustCompile(`/\*\*$`).ReplaceAllString(pattern, tokenDoubleStarTrailing)
	pattern = regexp.MustCompile(`^\*\*/`).ReplaceAllString(pattern, tokenDoubleStarLeading)
	return pattern
}

// expandDoubleStarTokens turns the placeholder tokens into their regex
// equivalents, after the single-wildcard rewrite has run.
func expandDoubleStarTokens(pattern string) string {
	pattern = strings.ReplaceAll(pattern, tokenDoubleStarMiddle, `(/|/.+/)`)
	pattern = strings.ReplaceAll(pattern, tokenDoubleStarTrailing, `(/.*)?`)
	pattern = strings.ReplaceAll(pattern, tokenDoubleStarLeading, `(.*/)?`)
	return pattern
}

// wildcardToRegex converts '*' and '?' wildcards to regex equivalents.
func wildcardToRegex(pattern string) string {
	pattern = regexp.MustCompile(`\*`).ReplaceAllString(pattern, `[^/]*`)
	return strings.ReplaceAll(pattern, "?", ".")
}

// anchorPattern anchors the regex so the pattern matches the whole path and,
// unless root-relative, any suffix of it. A trailing '/' in the original
// pattern restricts the match to the directory and everything below it.
func anchorPattern(pattern string, originalPattern string) string {
	if strings.HasSuffix(originalPattern, "/") {
		pattern = strings.TrimSuffix(pattern, "/") + "(/.*)?$"
	} else {
		pattern = pattern + "(/.*)?$"
	}

	if strings.HasPrefix(originalPattern, "/") {
		return "^" + strings.TrimPrefix(pattern, "/")
	}
	return "^(|.*/)" + pattern
}
