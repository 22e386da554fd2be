package engine

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// maxUniqueProbes bounds the ` (n)` suffix search.
const maxUniqueProbes = 9999

// ensureUniquePath returns a destination path that is not occupied by a
// different file. If candidate is free, or already is the source itself
// (a self-move no-op), it is returned unchanged; otherwise ` (n)` is
// appended before the extension with n incremented until a free name is
// found. The resolver only probes existence and never creates anything,
// so callers can retry it safely.
func ensureUniquePath(fsys afero.Fs, candidate, source string) (string, error) {
	if candidate == source {
		return candidate, nil
	}

	free, err := pathFree(fsys, candidate)
	if err != nil {
		return "", err
	}
	if free {
		return candidate, nil
	}

	ext := filepath.Ext(candidate)
	base := strings.TrimSuffix(filepath.Base(candidate), ext)
	dir := filepath.Dir(candidate)

	for n := 1; n <= maxUniqueProbes; n++ {
		probe := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", base, n, ext))
		if probe == source {
			return probe, nil
		}
		free, err := pathFree(fsys, probe)
		if err != nil {
			return "", err
		}
		if free {
			return probe, nil
		}
	}

	return "", fmt.Errorf("cannot resolve unique name for %s", candidate)
}

// pathFree reports whether nothing exists at path.
func pathFree(fsys afero.Fs, path string) (bool, error) {
	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return false, err
	}
	return !exists, nil
}
