package bundle

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// FileTask is one unit of work: a matched source file and its discovery
// ordinal. Tasks are immutable; each is consumed by exactly one worker.
type FileTask struct {
	Index int
	Path  string
}

// Discover walks the configured directory and returns one FileTask per file
// whose base name ends with a configured extension. Skipped directory names
// and exclude patterns prune the traversal; excluded subtrees are never
// descended into. The resolved output and tree paths are never matched.
// Zero tasks is a valid result, not an error. The config must be resolved.
func Discover(cfg Config, logger *zap.Logger) ([]FileTask, error) {
	excludes, err := cfg.excludeMatcher()
	if err != nil {
		return nil, err
	}

	skip := make(map[string]struct{}, len(cfg.SkipDirs))
	for _, name := range cfg.SkipDirs {
		skip[name] = struct{}{}
	}

	var tasks []FileTask
	walkErr := filepath.WalkDir(cfg.Directory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("Error accessing path during traversal", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(cfg.Directory, path)
		if relErr != nil {
			logger.Warn("Cannot relativize path during traversal", zap.String("path", path), zap.Error(relErr))
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path == cfg.Directory {
				return nil
			}
			if _, skipped := skip[d.Name()]; skipped {
				logger.Debug("Pruning skipped directory", zap.String("directory", path))
				return filepath.SkipDir
			}
			if excludes.Matches(rel) {
				logger.Debug("Pruning excluded directory", zap.String("directory", path))
				return filepath.SkipDir
			}
			return nil
		}

		if !matchesExtension(d.Name(), cfg.Extensions) {
			return nil
		}
		if path == cfg.Output || (cfg.Tree != "" && path == cfg.Tree) {
			logger.Debug("Excluding run artifact from discovery", zap.String("path", path))
			return nil
		}
		if excludes.Matches(rel) {
			logger.Debug("Excluding file by pattern", zap.String("path", path))
			return nil
		}
		if cfg.SkipBinary {
			binary, binErr := isBinaryFile(path)
			if binErr != nil {
				logger.Warn("Cannot sniff file content, keeping it", zap.String("path", path), zap.Error(binErr))
			} else if binary {
				logger.Debug("Excluding binary file", zap.String("path", path))
				return nil
			}
		}

		tasks = append(tasks, FileTask{Index: len(tasks), Path: path})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("%w: traversal of %q failed: %v", ErrSetup, cfg.Directory, walkErr)
	}

	logger.Debug("Discovery finished", zap.Int("matchedFiles", len(tasks)))
	return tasks, nil
}

// matchesExtension reports whether the base name ends with any of the
// extension suffixes. Matching is case-sensitive and dot-anchored, so "ts"
// matches "a.ts" but not "fonts".
func matchesExtension(baseName string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(baseName, "."+ext) {
			return true
		}
	}
	return false
}
