package bundle

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFragmentNamesAreUniqueAndOrderedByIndex(t *testing.T) {
	ws, err := NewWorkspace(zap.NewNop())
	require.NoError(t, err)
	defer ws.Remove()

	names := make([]string, 0, 50)
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		name := ws.FragmentName(i)
		_, dup := seen[name]
		require.False(t, dup, "duplicate fragment name %q", name)
		seen[name] = struct{}{}
		names = append(names, name)
	}

	// Lexicographic order of the names must equal index order.
	assert.True(t, sort.StringsAreSorted(names))
}

func TestFragmentsListsOnlyCompletedFragments(t *testing.T) {
	ws, err := NewWorkspace(zap.NewNop())
	require.NoError(t, err)
	defer ws.Remove()

	final := ws.FragmentName(0)
	require.NoError(t, os.WriteFile(ws.Path(final), []byte("done"), 0o644))
	require.NoError(t, os.WriteFile(ws.Path(ws.FragmentName(1))+".tmp", []byte("in flight"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(ws.Dir, "subdir"), 0o755))

	names, err := ws.Fragments()
	require.NoError(t, err)
	assert.Equal(t, []string{final}, names)
}

func TestWorkspaceRemoveIsIdempotent(t *testing.T) {
	ws, err := NewWorkspace(zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, ws.Remove())
	_, statErr := os.Stat(ws.Dir)
	assert.True(t, os.IsNotExist(statErr))

	// Second call reports the first outcome.
	assert.NoError(t, ws.Remove())
}
