package ignore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bundlex/pkg/ignore"
)

func TestMatcher(t *testing.T) {
	tests := map[string]struct {
		patterns []string
		path     string
		expMatch bool
	}{
		"Plain name should match at any depth": {
			patterns: []string{"node_modules"},
			path:     "src/node_modules",
			expMatch: true,
		},
		"Plain name should match the path itself": {
			patterns: []string{"node_modules"},
			path:     "node_modules",
			expMatch: true,
		},
		"Directory pattern should cover everything below": {
			patterns: []string{"node_modules/"},
			path:     "a/node_modules/b/c.ts",
			expMatch: true,
		},
		"Unrelated path should not match": {
			patterns: []string{"node_modules"},
			path:     "src/app.ts",
			expMatch: false,
		},
		"Star should not cross separators": {
			patterns: []string{"*.log"},
			path:     "logs/app.log",
			expMatch: true,
		},
		"Star pattern should not match different suffix": {
			patterns: []string{"*.log"},
			path:     "logs/app.txt",
			expMatch: false,
		},
		"Question mark should match one character": {
			patterns: []string{"file?.txt"},
			path:     "file1.txt",
			expMatch: true,
		},
		"Double star should match nested paths": {
			patterns: []string{"build/**"},
			path:     "build/out/app.js",
			expMatch: true,
		},
		"Trailing double star should match arbitrary depth": {
			patterns: []string{"a/**"},
			path:     "a/b/c/d.txt",
			expMatch: true,
		},
		"Middle double star should match one level": {
			patterns: []string{"a/**/z.txt"},
			path:     "a/z.txt",
			expMatch: true,
		},
		"Middle double star should match many levels": {
			patterns: []string{"a/**/z.txt"},
			path:     "a/b/c/z.txt",
			expMatch: true,
		},
		"Double star combined with single star": {
			patterns: []string{"src/**/*.js"},
			path:     "src/web/app.js",
			expMatch: true,
		},
		"Double star combined with single star rejects other suffixes": {
			patterns: []string{"src/**/*.js"},
			path:     "src/web/app.ts",
			expMatch: false,
		},
		"Leading double star should match any prefix": {
			patterns: []string{"**/dist"},
			path:     "packages/web/dist",
			expMatch: true,
		},
		"Root-relative pattern should only match at root": {
			patterns: []string{"/build"},
			path:     "src/build",
			expMatch: false,
		},
		"Root-relative pattern should match the root entry": {
			patterns: []string{"/build"},
			path:     "build/main.o",
			expMatch: true,
		},
		"Negation should re-include a previously excluded path": {
			patterns: []string{"*.log", "!keep.log"},
			path:     "keep.log",
			expMatch: false,
		},
		"Negation order matters, later patterns win": {
			patterns: []string{"!keep.log", "*.log"},
			path:     "keep.log",
			expMatch: true,
		},
		"Blank patterns are skipped": {
			patterns: []string{"", "  ", "tmp"},
			path:     "tmp",
			expMatch: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			m, err := ignore.Compile(tc.patterns...)
			require.NoError(t, err)
			assert.Equal(t, tc.expMatch, m.Matches(tc.path))
		})
	}
}

func TestCompileSkipsBlanks(t *testing.T) {
	m, err := ignore.Compile("", "   ", "dist")
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())
}

func TestMatchesWithPatternReportsLastMatch(t *testing.T) {
	m, err := ignore.Compile("*.log", "!keep.log")
	require.NoError(t, err)

	matched, p := m.MatchesWithPattern("keep.log")
	require.NotNil(t, p)
	assert.False(t, matched)
	assert.Equal(t, "!keep.log", p.Raw)
	assert.True(t, p.Negate)
}
