package engine

import (
	"context"
	"path/filepath"
	"strings"
)

// pruneTouched walks upward from every directory that lost a file during
// the move pass, deleting it if now empty and continuing upward until a
// non-empty directory, the root, or a protected name stops the climb.
func (e *Engine) pruneTouched(root string, touched map[string]bool, report *Report) {
	for dir := range touched {
		for dir != root && strings.HasPrefix(dir, root) {
			name := filepath.Base(dir)
			if e.protectedDir(name) {
				break
			}

			entries, err := readDirSorted(e.fs, dir)
			if err != nil || len(entries) > 0 {
				break
			}

			if err := e.fs.Remove(dir); err != nil {
				e.reportFailure(report, dir, err)
				break
			}
			report.DeletedEmptyFolders = append(report.DeletedEmptyFolders, e.relOf(dir))

			dir = filepath.Dir(dir)
		}
	}
}

// prunePass is the final bottom-up sweep removing every non-root,
// non-protected directory that ended up empty, including directories the
// move pass never touched (emptied solely by deduplication).
func (e *Engine) prunePass(ctx context.Context, root string, report *Report) error {
	_, err := e.pruneTree(ctx, root, root, report)
	return err
}

// pruneTree recurses depth-first and reports whether dir is empty after
// its prunable children were removed. The root itself and protected
// names are never deleted.
func (e *Engine) pruneTree(ctx context.Context, root, dir string, report *Report) (empty bool, err error) {
	if err := cancelled(ctx); err != nil {
		return false, err
	}

	entries, err := readDirSorted(e.fs, dir)
	if err != nil {
		e.reportFailure(report, dir, err)
		return false, nil
	}

	remaining := len(entries)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		name := entry.Name()
		child := filepath.Join(dir, name)

		if e.neverDescend(name) {
			continue
		}

		childEmpty, err := e.pruneTree(ctx, root, child, report)
		if err != nil {
			return false, err
		}
		if !childEmpty || e.protectedDir(name) {
			continue
		}

		if err := e.fs.Remove(child); err != nil {
			e.reportFailure(report, child, err)
			continue
		}
		report.DeletedEmptyFolders = append(report.DeletedEmptyFolders, e.relOf(child))
		remaining--
	}

	return remaining == 0, nil
}
