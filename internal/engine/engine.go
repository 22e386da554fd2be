// Package engine reorganizes a workspace folder: it sorts files into
// category directories, collapses duplicate-suffixed names, removes exact
// content duplicates and prunes directories left empty, collecting every
// effect into a single report. Passes run strictly in sequence and no
// pass ever overwrites an existing file.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// StatusKind identifies a lifecycle notification.
type StatusKind string

const (
	// StatusStart fires once when a reorganization begins.
	StatusStart StatusKind = "start"
	// StatusEnd fires once when a reorganization finishes.
	StatusEnd StatusKind = "end"
	// StatusPermission fires on any permission-class per-entry failure.
	StatusPermission StatusKind = "permission"
)

// StatusEvent is passed to the caller's status callback at well-defined
// points of a run.
type StatusEvent struct {
	Kind StatusKind `json:"kind"`
	Path string     `json:"path"`
}

// StatusFunc receives lifecycle notifications. A nil callback is valid.
type StatusFunc func(StatusEvent)

// Config holds engine configuration. The zero value is not usable; start
// from DefaultConfig.
type Config struct {
	Fs           afero.Fs
	Rules        []CategoryRule
	DotfileAllow []string
	SkipNames    []string
	Notify       StatusFunc
	Logger       zerolog.Logger
}

// DefaultConfig returns a config with the built-in rule table, skip list
// and dotfile allow-list, operating on the host filesystem.
func DefaultConfig() Config {
	return Config{
		Fs:           afero.NewOsFs(),
		Rules:        DefaultRules(),
		DotfileAllow: DefaultDotfileAllowlist(),
		SkipNames:    DefaultSkipNames(),
		Logger:       zerolog.Nop(),
	}
}

// Engine runs reorganization passes against one workspace. It assumes
// exclusive access to the workspace for the duration of a run and
// performs no internal locking.
type Engine struct {
	fs         afero.Fs
	workspace  string // absolute host path of the workspace root
	classifier *Classifier
	skipNames  map[string]bool
	categories map[string]bool
	notify     StatusFunc
	log        zerolog.Logger
}

// New creates an engine rooted at the given workspace directory.
func New(workspace string, cfg Config) *Engine {
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.Rules == nil {
		cfg.Rules = DefaultRules()
	}

	classifier := NewClassifier(cfg.Rules, cfg.DotfileAllow)

	skip := make(map[string]bool, len(cfg.SkipNames))
	for _, name := range cfg.SkipNames {
		skip[name] = true
	}

	categories := make(map[string]bool)
	for _, name := range classifier.CategoryNames() {
		categories[name] = true
	}

	return &Engine{
		fs:         cfg.Fs,
		workspace:  filepath.Clean(workspace),
		classifier: classifier,
		skipNames:  skip,
		categories: categories,
		notify:     cfg.Notify,
		log:        cfg.Logger,
	}
}

// Classifier exposes the engine's classifier for callers that want to
// preview categorization without running a pass.
func (e *Engine) Classifier() *Classifier { return e.classifier }

// Reorganize runs all passes over one workspace-relative folder and
// returns the aggregated report. Only a root-access failure (or context
// cancellation) is returned as an error; every per-entry failure is
// collected into the report instead.
func (e *Engine) Reorganize(ctx context.Context, relPath string, includeNested bool) (*Report, error) {
	root, rel, err := e.resolve(relPath)
	if err != nil {
		return nil, err
	}

	// Fatal taxonomy: the root itself must be a readable directory.
	info, err := e.fs.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot access folder %s: %w", rel, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", rel)
	}
	if _, err := afero.ReadDir(e.fs, root); err != nil {
		return nil, fmt.Errorf("cannot read folder %s: %w", rel, err)
	}

	e.emit(StatusEvent{Kind: StatusStart, Path: rel})
	e.log.Debug().Str("path", rel).Bool("nested", includeNested).Msg("reorganize start")

	report := NewReport(rel)
	// Filled on every exit so a cancelled run still hands back an
	// internally consistent partial report.
	defer report.finalize()

	touched, err := e.movePass(ctx, root, includeNested, report)
	if err != nil {
		return report, err
	}
	e.pruneTouched(root, touched, report)

	if err := e.normalizePass(ctx, root, report); err != nil {
		return report, err
	}
	if err := e.dedupePass(ctx, root, report); err != nil {
		return report, err
	}
	if err := e.prunePass(ctx, root, report); err != nil {
		return report, err
	}

	e.emit(StatusEvent{Kind: StatusEnd, Path: rel})
	e.log.Debug().
		Int("moved", len(report.Moved)).
		Int("renamed", len(report.Renamed)).
		Int("deduped", len(report.Deduped)).
		Int("errors", len(report.Errors)).
		Msg("reorganize done")

	return report, nil
}

// resolve turns a workspace-relative input path ("/", "Downloads",
// "/Downloads") into an absolute host path plus its canonical relative
// form (leading slash, forward slashes).
func (e *Engine) resolve(relPath string) (abs, rel string, err error) {
	cleaned := strings.TrimPrefix(strings.TrimSpace(relPath), "/")
	cleaned = filepath.Clean(filepath.FromSlash(cleaned))
	if cleaned == "." {
		cleaned = ""
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", "", fmt.Errorf("path escapes workspace: %s", relPath)
	}

	abs = filepath.Join(e.workspace, cleaned)
	rel = "/" + filepath.ToSlash(cleaned)
	if rel == "/." {
		rel = "/"
	}
	return abs, rel, nil
}

// relOf converts an absolute host path under the workspace back into the
// canonical workspace-relative form.
func (e *Engine) relOf(abs string) string {
	rel, err := filepath.Rel(e.workspace, abs)
	if err != nil || rel == "." {
		return "/"
	}
	return "/" + filepath.ToSlash(rel)
}

// emit invokes the status callback when one is installed.
func (e *Engine) emit(ev StatusEvent) {
	if e.notify != nil {
		e.notify(ev)
	}
}

// reportFailure records a per-entry failure and raises the out-of-band
// permission notification when the failure is permission-class.
func (e *Engine) reportFailure(report *Report, abs string, err error) {
	rel := e.relOf(abs)
	report.addError(rel, err)
	e.log.Warn().Str("path", rel).Err(err).Msg("entry failed")
	if errors.Is(err, fs.ErrPermission) {
		e.emit(StatusEvent{Kind: StatusPermission, Path: rel})
	}
}

// neverDescend reports whether a directory name must not be entered by
// any pass: dotfile directories and the skip list.
func (e *Engine) neverDescend(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	return e.skipNames[name]
}

// protectedDir reports whether a directory name may never be deleted:
// never-descend names plus the category directories themselves.
func (e *Engine) protectedDir(name string) bool {
	return e.neverDescend(name) || e.categories[name]
}

func cancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
