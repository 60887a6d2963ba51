package bundle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// processTask converts one source file into one fragment in the workspace:
// an opening fence tagged with the extension, a comment line with the display
// path, the raw file bytes, a closing fence and a trailing blank line.
//
// The fragment is written under a temporary name and renamed into place only
// after a complete copy, so a failed task never leaves a half-written
// fragment for the consolidator.
func processTask(task FileTask, workingDir string, ws *Workspace) error {
	src, err := os.Open(task.Path)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	finalPath := ws.Path(ws.FragmentName(task.Index))
	tmpPath := finalPath + ".tmp"

	tmp, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create fragment: %w", err)
	}

	writer := bufio.NewWriter(tmp)
	writeErr := func() error {
		if _, err := fmt.Fprintf(writer, "```%s\n// %s\n", fenceTag(task.Path), displayPath(task.Path, workingDir)); err != nil {
			return err
		}
		if _, err := io.Copy(writer, src); err != nil {
			return err
		}
		if _, err := writer.WriteString("```\n\n"); err != nil {
			return err
		}
		return writer.Flush()
	}()

	closeErr := tmp.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write fragment: %w", writeErr)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("finalize fragment: %w", err)
	}
	return nil
}

// fenceTag derives the fence language tag from the base name: the text after
// the last '.', or "text" when the name has no dot.
func fenceTag(path string) string {
	base := filepath.Base(path)
	i := strings.LastIndex(base, ".")
	if i < 0 {
		return "text"
	}
	return base[i+1:]
}

// displayPath renders the path shown in the fragment header. Files under the
// invoking process's working directory appear relative to it, prefixed with
// the directory's base name; anything else keeps its absolute path.
func displayPath(path, workingDir string) string {
	if workingDir == "" {
		return path
	}
	rel, err := filepath.Rel(workingDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(filepath.Join(filepath.Base(workingDir), rel))
}
