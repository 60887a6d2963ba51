package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"bundlex/pkg/ignore"
)

// DefaultOutput is the output path used when none is given.
const DefaultOutput = "output.txt"

// fallbackJobs is used when the host reports no usable CPU count.
const fallbackJobs = 4

// Config carries every input of a run. Nothing is read from the environment;
// the working directory is captured once by the CLI layer and travels here.
type Config struct {
	Directory  string   // Root directory to traverse.
	Extensions []string // Extension suffixes to match, without leading dot.
	Output     string   // Destination for the consolidated output.
	Tree       string   // Optional destination for a directory-tree rendering.
	SkipDirs   []string // Directory base names pruned during traversal.
	Excludes   []string // Wildcard patterns pruned/filtered during traversal.
	SkipBinary bool     // Drop content-sniffed binary files.
	Jobs       int      // Parallelism degree; must be >= 1.
	WorkingDir string   // Invoking process working directory, for display paths.

	excludes *ignore.Matcher // Compiled Excludes, set by Resolve.
}

// DefaultJobs returns the host's processing-unit count, or a fixed fallback
// when the runtime reports nothing usable.
func DefaultJobs() int {
	n := runtime.NumCPU()
	if n < 1 {
		return fallbackJobs
	}
	return n
}

// Resolve validates the configuration and returns a copy with every path
// absolutized. All violations are ErrInvalidArgument; nothing has touched the
// filesystem for writing yet.
func (c Config) Resolve() (Config, error) {
	if c.Directory == "" {
		return c, fmt.Errorf("%w: target directory is required", ErrInvalidArgument)
	}
	if len(c.Extensions) == 0 {
		return c, fmt.Errorf("%w: at least one extension is required", ErrInvalidArgument)
	}
	if c.Jobs <= 0 {
		return c, fmt.Errorf("%w: jobs must be at least 1, got %d", ErrInvalidArgument, c.Jobs)
	}

	// A malformed exclude pattern is an argument error and must surface
	// before anything touches the filesystem.
	matcher, err := ignore.Compile(c.Excludes...)
	if err != nil {
		return c, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	c.excludes = matcher

	exts := make([]string, 0, len(c.Extensions))
	for _, ext := range c.Extensions {
		ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if ext == "" {
			return c, fmt.Errorf("%w: empty extension token", ErrInvalidArgument)
		}
		exts = append(exts, ext)
	}
	c.Extensions = exts

	if c.WorkingDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return c, fmt.Errorf("%w: cannot determine working directory: %v", ErrInvalidArgument, err)
		}
		c.WorkingDir = wd
	}

	absDir, err := filepath.Abs(c.Directory)
	if err != nil {
		return c, fmt.Errorf("%w: cannot resolve directory %q: %v", ErrInvalidArgument, c.Directory, err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return c, fmt.Errorf("%w: cannot access directory %q: %v", ErrInvalidArgument, c.Directory, err)
	}
	if !info.IsDir() {
		return c, fmt.Errorf("%w: %q is not a directory", ErrInvalidArgument, c.Directory)
	}
	c.Directory = absDir

	if c.Output == "" {
		c.Output = DefaultOutput
	}
	absOut, err := filepath.Abs(c.Output)
	if err != nil {
		return c, fmt.Errorf("%w: cannot resolve output path %q: %v", ErrInvalidArgument, c.Output, err)
	}
	c.Output = absOut

	if c.Tree != "" {
		absTree, err := filepath.Abs(c.Tree)
		if err != nil {
			return c, fmt.Errorf("%w: cannot resolve tree path %q: %v", ErrInvalidArgument, c.Tree, err)
		}
		c.Tree = absTree
	}

	return c, nil
}

// excludeMatcher returns the matcher compiled by Resolve, compiling on the
// spot for configs that skipped it.
func (c Config) excludeMatcher() (*ignore.Matcher, error) {
	if c.excludes != nil {
		return c.excludes, nil
	}
	m, err := ignore.Compile(c.Excludes...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return m, nil
}
