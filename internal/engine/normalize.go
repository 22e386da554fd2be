package engine

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
)

// duplicateSuffixPattern matches names of the form `base (n).ext` (the
// extension is optional). Group 1 is the base, group 3 the extension.
var duplicateSuffixPattern = regexp.MustCompile(`^(.+) \((\d+)\)(\.[^.]*)?$`)

// normalizePass walks the whole reorganized tree collapsing duplicate-
// suffixed names back to their canonical form when the canonical name is
// free. Occupied canonical names are left for the dedup pass to judge.
func (e *Engine) normalizePass(ctx context.Context, root string, report *Report) error {
	return e.walkFiles(ctx, root, report, func(path string, info os.FileInfo) {
		base, ext, ok := splitDuplicateSuffix(info.Name())
		if !ok {
			return
		}

		canonical := filepath.Join(filepath.Dir(path), base+ext)
		free, err := pathFree(e.fs, canonical)
		if err != nil {
			e.reportFailure(report, path, err)
			return
		}
		if !free {
			// A sibling already owns the canonical name; this is a true
			// duplicate candidate for the hash pass.
			return
		}

		// Resolve through the unique-path resolver so two numbered
		// duplicates racing for the same canonical name cannot collide;
		// only the first claim per directory lands on the canonical name.
		dest, err := ensureUniquePath(e.fs, canonical, path)
		if err != nil {
			e.reportFailure(report, path, err)
			return
		}
		if dest != canonical || dest == path {
			return
		}

		if err := e.fs.Rename(path, dest); err != nil {
			e.reportFailure(report, path, err)
			return
		}

		report.Renamed = append(report.Renamed, RenameRecord{From: e.relOf(path), To: e.relOf(dest)})
	})
}

// splitDuplicateSuffix decomposes `base (n).ext` into base and extension.
// ok is false when the name carries no duplicate suffix.
func splitDuplicateSuffix(name string) (base, ext string, ok bool) {
	m := duplicateSuffixPattern.FindStringSubmatch(name)
	if m == nil {
		return "", "", false
	}
	return m[1], m[3], true
}

// canonicalName strips a duplicate suffix from a file name, returning the
// name unchanged when none is present. The dedup pass groups by this.
func canonicalName(name string) string {
	if base, ext, ok := splitDuplicateSuffix(name); ok {
		return base + ext
	}
	return name
}
