package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// fragmentSuffix marks completed fragments in the workspace. Files still
// being written carry a ".tmp" suffix and are invisible to the consolidator.
const fragmentSuffix = ".frag"

// Workspace is the ephemeral scratch directory coordinating parallel
// workers. Each worker writes only files it alone creates, so no locking is
// needed; the workspace's lifetime is the only coordinated resource.
type Workspace struct {
	Dir string

	logger     *zap.Logger
	removeOnce sync.Once
	removeErr  error
}

// NewWorkspace creates the scratch directory under the system temp dir.
func NewWorkspace(logger *zap.Logger) (*Workspace, error) {
	dir, err := os.MkdirTemp("", "bundlex-*")
	if err != nil {
		return nil, fmt.Errorf("%w: cannot create workspace: %v", ErrSetup, err)
	}
	logger.Debug("Created workspace", zap.String("dir", dir))
	return &Workspace{Dir: dir, logger: logger}, nil
}

// FragmentName returns a globally unique name for the fragment of the task
// with the given discovery index. The zero-padded index prefix makes the
// lexicographic workspace listing equal to discovery order; the ULID keeps
// names collision-free across workers regardless of scheduling.
func (w *Workspace) FragmentName(index int) string {
	return fmt.Sprintf("%06d-%s%s", index, ulid.Make(), fragmentSuffix)
}

// Path returns the absolute path of a workspace entry.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.Dir, name)
}

// Fragments lists completed fragment names in lexicographic order.
func (w *Workspace) Fragments() ([]string, error) {
	entries, err := os.ReadDir(w.Dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fragmentSuffix) {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// Remove deletes the workspace and everything in it, exactly once. Repeated
// calls return the first outcome.
func (w *Workspace) Remove() error {
	w.removeOnce.Do(func() {
		w.removeErr = os.RemoveAll(w.Dir)
		if w.removeErr != nil {
			w.logger.Warn("Failed to remove workspace", zap.String("dir", w.Dir), zap.Error(w.removeErr))
		} else {
			w.logger.Debug("Removed workspace", zap.String("dir", w.Dir))
		}
	})
	return w.removeErr
}
