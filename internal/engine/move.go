package engine

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// movePass relocates the direct entries of root into category folders.
// With includeNested set it also processes files exactly one level down,
// with destinations still rooted at root. It returns the set of
// directories that lost a file, for the touched-directory cleanup.
func (e *Engine) movePass(ctx context.Context, root string, includeNested bool, report *Report) (map[string]bool, error) {
	entries, err := readDirSorted(e.fs, root)
	if err != nil {
		// Root readability was checked up front; treat a failure here
		// as fatal all the same.
		return nil, err
	}

	touched := make(map[string]bool)

	for _, entry := range entries {
		if err := cancelled(ctx); err != nil {
			return touched, err
		}

		name := entry.Name()
		abs := filepath.Join(root, name)

		if e.skipTopLevel(name, entry.IsDir()) {
			report.Skipped = append(report.Skipped, e.relOf(abs))
			continue
		}

		if entry.IsDir() {
			if !includeNested {
				report.Skipped = append(report.Skipped, e.relOf(abs))
				continue
			}
			e.moveNested(ctx, root, abs, touched, report)
			continue
		}

		e.moveFile(root, abs, entry, report)
	}

	return touched, nil
}

// moveNested processes the files one level inside a subdirectory as if
// they were direct entries of root. It does not recurse further.
func (e *Engine) moveNested(ctx context.Context, root, dir string, touched map[string]bool, report *Report) {
	entries, err := readDirSorted(e.fs, dir)
	if err != nil {
		e.reportFailure(report, dir, err)
		return
	}

	for _, entry := range entries {
		if err := cancelled(ctx); err != nil {
			return
		}

		name := entry.Name()
		abs := filepath.Join(dir, name)

		if entry.IsDir() || e.skipTopLevel(name, entry.IsDir()) {
			report.Skipped = append(report.Skipped, e.relOf(abs))
			continue
		}

		before := len(report.Moved)
		e.moveFile(root, abs, entry, report)
		if len(report.Moved) > before {
			touched[dir] = true
		}
	}
}

// skipTopLevel decides whether a top-level name is excluded from the
// move pass: dotfiles off the allow-list, skip-list names, and the
// category directories themselves (so sorted output is never re-sorted).
func (e *Engine) skipTopLevel(name string, isDir bool) bool {
	if strings.HasPrefix(name, ".") {
		return isDir || !e.classifier.AllowedDotfile(name)
	}
	if e.skipNames[name] {
		return true
	}
	return isDir && e.categories[name]
}

// moveFile classifies one file and relocates it under root. A move whose
// resolved destination equals the source is a no-op and is not recorded.
func (e *Engine) moveFile(root, src string, info os.FileInfo, report *Report) {
	category := e.classifier.Classify(info.Name())

	destDir := filepath.Join(root, category)
	if e.classifier.Dated(category) {
		destDir = filepath.Join(destDir, dateBucket(modTimeOf(e.fs, src, info)))
	}

	if err := e.fs.MkdirAll(destDir, 0755); err != nil {
		e.reportFailure(report, src, err)
		return
	}

	dest, err := ensureUniquePath(e.fs, filepath.Join(destDir, info.Name()), src)
	if err != nil {
		e.reportFailure(report, src, err)
		return
	}
	if dest == src {
		// Already correctly placed; leaving it alone keeps re-runs
		// idempotent.
		return
	}

	if err := e.fs.Rename(src, dest); err != nil {
		e.reportFailure(report, src, err)
		return
	}

	report.Moved = append(report.Moved, MoveRecord{From: e.relOf(src), To: e.relOf(dest)})
}

// modTimeOf returns the file's modification time, re-statting when the
// directory listing did not carry usable info. A zero time signals the
// Unknown bucket.
func modTimeOf(fsys afero.Fs, path string, info os.FileInfo) (t time.Time) {
	if info != nil && !info.ModTime().IsZero() {
		return info.ModTime()
	}
	st, err := fsys.Stat(path)
	if err != nil {
		return t
	}
	return st.ModTime()
}

// readDirSorted lists a directory with entries sorted by name, making
// first-seen ordering deterministic across platforms.
func readDirSorted(fsys afero.Fs, dir string) ([]os.FileInfo, error) {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}
