package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"bundlex/pkg/ignore"
)

// renderTree renders the directory structure under cfg.Directory with the
// same skip/exclude pruning the discovery phase applies. The rendering uses
// box-drawing connectors, directories before files, case-insensitive
// alphabetical within each group.
func renderTree(cfg Config, logger *zap.Logger) (string, error) {
	excludes, err := cfg.excludeMatcher()
	if err != nil {
		return "", err
	}

	skip := make(map[string]struct{}, len(cfg.SkipDirs))
	for _, name := range cfg.SkipDirs {
		skip[name] = struct{}{}
	}

	var builder strings.Builder
	builder.WriteString(filepath.Base(cfg.Directory) + "/\n")

	subtree, err := renderSubtree(cfg.Directory, cfg.Directory, skip, excludes, "", logger)
	if err != nil {
		return "", err
	}
	if subtree != "" {
		builder.WriteString(subtree)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

// renderSubtree builds the connector-prefixed listing recursively.
func renderSubtree(directory, root string, skip map[string]struct{}, excludes *ignore.Matcher, prefix string, logger *zap.Logger) (string, error) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %q: %w", directory, err)
	}

	kept := make([]os.DirEntry, 0, len(entries))
	for _, entry := range entries {
		rel, relErr := filepath.Rel(root, filepath.Join(directory, entry.Name()))
		if relErr != nil {
			continue
		}
		rel = filepath.ToSlash(rel)

		if entry.IsDir() {
			if _, skipped := skip[entry.Name()]; skipped {
				continue
			}
		}
		if excludes.Matches(rel) {
			continue
		}
		kept = append(kept, entry)
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].IsDir() != kept[j].IsDir() {
			return kept[i].IsDir()
		}
		return strings.ToLower(kept[i].Name()) < strings.ToLower(kept[j].Name())
	})

	var output []string
	for i, entry := range kept {
		connector := "├── "
		extension := "│   "
		if i == len(kept)-1 {
			connector = "└── "
			extension = "    "
		}

		if entry.IsDir() {
			output = append(output, prefix+connector+entry.Name()+"/")
			subtree, err := renderSubtree(filepath.Join(directory, entry.Name()), root, skip, excludes, prefix+extension, logger)
			if err != nil {
				logger.Warn("Failed to render subtree", zap.String("directory", filepath.Join(directory, entry.Name())), zap.Error(err))
				continue
			}
			if subtree != "" {
				output = append(output, subtree)
			}
		} else {
			output = append(output, prefix+connector+entry.Name())
		}
	}

	return strings.Join(output, "\n"), nil
}
