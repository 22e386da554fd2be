package engine

import (
	"context"
	"os"
	"path/filepath"
)

// walkFiles traverses the tree under dir depth-first with sorted entries,
// invoking fn for every regular file. Never-descend directories (dotfile
// and skip-list names) are not entered; category directories are.
// Listing failures below the root are collected into the report rather
// than aborting the walk, keeping traversal separate from the effects
// the visitor applies.
func (e *Engine) walkFiles(ctx context.Context, dir string, report *Report, fn func(path string, info os.FileInfo)) error {
	entries, err := readDirSorted(e.fs, dir)
	if err != nil {
		e.reportFailure(report, dir, err)
		return nil
	}

	for _, entry := range entries {
		if err := cancelled(ctx); err != nil {
			return err
		}

		abs := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			if e.neverDescend(entry.Name()) {
				continue
			}
			if err := e.walkFiles(ctx, abs, report, fn); err != nil {
				return err
			}
			continue
		}

		fn(abs, entry)
	}

	return nil
}
