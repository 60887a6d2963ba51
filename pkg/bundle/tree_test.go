package bundle

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRenderTree(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "src/a.ts", "a")
	writeTestFile(t, root, "src/b.tsx", "b")
	writeTestFile(t, root, "src/node_modules/c.ts", "c")
	writeTestFile(t, root, "README.md", "r")

	cfg, err := Config{
		Directory:  root,
		Extensions: []string{"ts"},
		Output:     filepath.Join(t.TempDir(), "out.txt"),
		SkipDirs:   []string{"node_modules"},
		Jobs:       1,
		WorkingDir: root,
	}.Resolve()
	require.NoError(t, err)

	rendered, err := renderTree(cfg, zap.NewNop())
	require.NoError(t, err)

	assert.Contains(t, rendered, filepath.Base(root)+"/\n")
	assert.Contains(t, rendered, "├── src/")
	assert.Contains(t, rendered, "└── README.md")
	assert.Contains(t, rendered, "a.ts")
	assert.Contains(t, rendered, "b.tsx")
	assert.NotContains(t, rendered, "node_modules")
}

func TestRenderTreeHonorsExcludePatterns(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "keep.go", "k")
	writeTestFile(t, root, "drop_gen.go", "d")
	writeTestFile(t, root, "build/out.go", "o")

	cfg, err := Config{
		Directory:  root,
		Extensions: []string{"go"},
		Output:     filepath.Join(t.TempDir(), "out.txt"),
		Excludes:   []string{"*_gen.go", "build/"},
		Jobs:       1,
		WorkingDir: root,
	}.Resolve()
	require.NoError(t, err)

	rendered, err := renderTree(cfg, zap.NewNop())
	require.NoError(t, err)

	assert.Contains(t, rendered, "keep.go")
	assert.NotContains(t, rendered, "drop_gen.go")
	assert.NotContains(t, rendered, "build")
}

func TestRenderTreeListsDirectoriesFirst(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "aaa.txt", "a")
	writeTestFile(t, root, "zzz/inner.txt", "i")

	cfg, err := Config{
		Directory:  root,
		Extensions: []string{"txt"},
		Output:     filepath.Join(t.TempDir(), "out.txt"),
		Jobs:       1,
		WorkingDir: root,
	}.Resolve()
	require.NoError(t, err)

	rendered, err := renderTree(cfg, zap.NewNop())
	require.NoError(t, err)

	// zzz/ is a directory, so it sorts before the aaa.txt file.
	zzzAt := assert.Contains(t, rendered, "├── zzz/")
	aaaAt := assert.Contains(t, rendered, "└── aaa.txt")
	assert.True(t, zzzAt && aaaAt)
}
