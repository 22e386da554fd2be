package engine

import (
	"context"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"
)

const dedupReason = "hash-match"

// dedupePass removes files whose content is byte-identical to an earlier
// file with the same canonical name anywhere in the tree. Comparing by
// name first and hashing only the candidates bounds the cost: unrelated
// files essentially never share a name.
func (e *Engine) dedupePass(ctx context.Context, root string, report *Report) error {
	firstSeen := make(map[string]string) // canonical name -> kept path
	hashes := make(map[string]string)    // path -> content hash

	hashOf := func(path string) (string, error) {
		if h, ok := hashes[path]; ok {
			return h, nil
		}
		h, err := hashFile(e.fs, path)
		if err != nil {
			return "", err
		}
		hashes[path] = h
		return h, nil
	}

	return e.walkFiles(ctx, root, report, func(path string, info os.FileInfo) {
		key := canonicalName(info.Name())

		kept, seen := firstSeen[key]
		if !seen {
			firstSeen[key] = path
			return
		}

		keptHash, err := hashOf(kept)
		if err != nil {
			e.reportFailure(report, kept, err)
			return
		}
		newHash, err := hashOf(path)
		if err != nil {
			e.reportFailure(report, path, err)
			return
		}
		if keptHash != newHash {
			// Same name, different content: not this pass's concern.
			return
		}

		// Identical content: prefer keeping the file that owns the
		// canonical (unsuffixed) name, falling back to first-seen.
		survivor, victim := kept, path
		if info.Name() == key && !ownsCanonicalName(kept, key) {
			survivor, victim = path, kept
		}

		if err := e.fs.Remove(victim); err != nil {
			e.reportFailure(report, victim, err)
			return
		}
		delete(hashes, victim)
		firstSeen[key] = survivor

		report.Deduped = append(report.Deduped, DedupRecord{
			From:   e.relOf(victim),
			Kept:   e.relOf(survivor),
			Reason: dedupReason,
		})
	})
}

// ownsCanonicalName reports whether the file at path is named exactly by
// the canonical name (no duplicate suffix).
func ownsCanonicalName(path, canonical string) bool {
	return filepath.Base(path) == canonical
}

// hashFile computes the xxhash64 digest of a file's content. Content
// equality, not security, is the requirement here.
func hashFile(fsys afero.Fs, path string) (string, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	digest := xxhash.New()
	if _, err := io.Copy(digest, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(digest.Sum(nil)), nil
}
