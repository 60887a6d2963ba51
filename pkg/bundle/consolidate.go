package bundle

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// consolidate merges every fragment in the workspace into the output file in
// lexicographic fragment-name order (which, by construction of the names, is
// discovery order), then removes the workspace. Zero fragments yield an
// empty output.
//
// All-or-nothing from the caller's view: on any failure the workspace is
// left untouched and the returned error names it so the fragments can be
// recovered by hand.
func consolidate(ws *Workspace, outputPath string, logger *zap.Logger) error {
	names, err := ws.Fragments()
	if err != nil {
		return fmt.Errorf("%w: cannot enumerate workspace %q: %v", ErrConsolidation, ws.Dir, err)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("%w: cannot create output %q (fragments remain in %q): %v", ErrConsolidation, outputPath, ws.Dir, err)
	}

	writer := bufio.NewWriter(out)
	for _, name := range names {
		if err := appendFragment(writer, ws.Path(name)); err != nil {
			out.Close()
			return fmt.Errorf("%w: cannot merge fragment %q (fragments remain in %q): %v", ErrConsolidation, name, ws.Dir, err)
		}
	}

	if err := writer.Flush(); err != nil {
		out.Close()
		return fmt.Errorf("%w: cannot flush output %q (fragments remain in %q): %v", ErrConsolidation, outputPath, ws.Dir, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: cannot close output %q (fragments remain in %q): %v", ErrConsolidation, outputPath, ws.Dir, err)
	}

	if err := ws.Remove(); err != nil {
		return fmt.Errorf("%w: output written but workspace %q not removed: %v", ErrConsolidation, ws.Dir, err)
	}

	logger.Debug("Consolidated fragments",
		zap.Int("fragments", len(names)),
		zap.String("output", outputPath))
	return nil
}

// appendFragment streams one fragment's bytes into the output writer.
func appendFragment(writer io.Writer, path string) error {
	frag, err := os.Open(path)
	if err != nil {
		return err
	}
	defer frag.Close()

	_, err = io.Copy(writer, frag)
	return err
}
