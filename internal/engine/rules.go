package engine

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// CategoryRule maps a set of file extensions to a category folder.
// Rules are tried in order; the first extension match wins.
type CategoryRule struct {
	Name       string
	Extensions []string
	Dated      bool // split into YYYY/MM buckets under the category
}

// screenshotPatterns match common screenshot naming across locales.
// Filenames are NFC-normalized before matching so decomposed names
// (macOS) still hit the CJK patterns.
var screenshotPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)screen\s?shot`),
	regexp.MustCompile(`スクリーンショット`),
	regexp.MustCompile(`截图|截屏|屏幕截图`),
	regexp.MustCompile(`스크린샷`),
}

// DefaultRules returns the built-in category table. The table is data:
// callers inject it into the Engine, and config may replace or extend it.
func DefaultRules() []CategoryRule {
	return []CategoryRule{
		{Name: "Images", Dated: true, Extensions: []string{
			".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".heic", ".svg", ".tiff", ".ico",
		}},
		{Name: "Videos", Dated: true, Extensions: []string{
			".mp4", ".mov", ".mkv", ".avi", ".webm", ".flv", ".wmv", ".m4v",
		}},
		{Name: "Audio", Dated: true, Extensions: []string{
			".mp3", ".wav", ".flac", ".aac", ".ogg", ".m4a", ".wma",
		}},
		{Name: "PDFs", Extensions: []string{".pdf"}},
		{Name: "Documents", Extensions: []string{
			".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx", ".odt", ".ods", ".odp", ".rtf", ".csv",
		}},
		{Name: "Notes", Extensions: []string{".txt", ".md", ".markdown", ".org", ".rst"}},
		{Name: "Archives", Extensions: []string{
			".zip", ".rar", ".7z", ".tar", ".gz", ".bz2", ".xz", ".tgz",
		}},
		{Name: "Code", Extensions: []string{
			".go", ".py", ".js", ".ts", ".java", ".c", ".cpp", ".h", ".rs", ".rb",
			".sh", ".html", ".css", ".json", ".xml", ".yaml", ".yml", ".toml", ".sql",
		}},
		{Name: "Apps", Extensions: []string{
			".exe", ".msi", ".apk", ".dmg", ".pkg", ".deb", ".rpm", ".appimage",
		}},
		{Name: "Fonts", Extensions: []string{".ttf", ".otf", ".woff", ".woff2"}},
	}
}

// DefaultDotfileAllowlist lists dotfiles that are classified and moved
// instead of being skipped at the top level.
func DefaultDotfileAllowlist() []string {
	return []string{".env", ".envrc", ".editorconfig"}
}

// DefaultSkipNames lists directory names the engine never descends into
// and never deletes.
func DefaultSkipNames() []string {
	return []string{
		".git", ".svn", ".hg", "node_modules",
		"$RECYCLE.BIN", "System Volume Information", ".Trash",
	}
}

const (
	categoryScreenshots = "Screenshots"
	categoryConfig      = "Config"
	categoryOther       = "Other"

	// unknownBucket is the date-bucket segment used when a file's
	// modification time cannot be determined.
	unknownBucket = "Unknown"
)

// Classifier maps file names to category labels. It is a pure lookup
// over an injected rule table and performs no I/O.
type Classifier struct {
	rules      []CategoryRule
	byExt      map[string]*CategoryRule
	imageExts  map[string]bool
	allowedDot map[string]bool
}

// NewClassifier builds a classifier from a rule table and a dotfile
// allow-list.
func NewClassifier(rules []CategoryRule, dotfileAllow []string) *Classifier {
	c := &Classifier{
		rules:      rules,
		byExt:      make(map[string]*CategoryRule),
		imageExts:  make(map[string]bool),
		allowedDot: make(map[string]bool),
	}

	for i := range rules {
		rule := &rules[i]
		for _, ext := range rule.Extensions {
			ext = strings.ToLower(ext)
			if _, taken := c.byExt[ext]; !taken {
				c.byExt[ext] = rule
			}
			if rule.Name == "Images" {
				c.imageExts[ext] = true
			}
		}
	}

	for _, name := range dotfileAllow {
		c.allowedDot[name] = true
	}

	return c
}

// Classify returns the category label for a file name. Dotfiles map to
// Config, screenshot-looking image names to Screenshots, everything
// without a matching extension to Other.
func (c *Classifier) Classify(fileName string) string {
	if strings.HasPrefix(fileName, ".") {
		return categoryConfig
	}

	ext := strings.ToLower(filepath.Ext(fileName))

	if c.imageExts[ext] && isScreenshotName(fileName) {
		return categoryScreenshots
	}

	if rule, ok := c.byExt[ext]; ok {
		return rule.Name
	}

	return categoryOther
}

// Dated reports whether files in the given category are split into
// YYYY/MM date buckets. Screenshots are always dated.
func (c *Classifier) Dated(category string) bool {
	if category == categoryScreenshots {
		return true
	}
	for i := range c.rules {
		if c.rules[i].Name == category {
			return c.rules[i].Dated
		}
	}
	return false
}

// AllowedDotfile reports whether a dotfile name is on the allow-list
// and should be processed rather than skipped.
func (c *Classifier) AllowedDotfile(name string) bool {
	return c.allowedDot[name]
}

// CategoryNames returns every category label the classifier can emit,
// including the implicit Screenshots, Config and Other labels. The move
// pass treats these as protected at the top level so already-sorted
// output is never re-sorted.
func (c *Classifier) CategoryNames() []string {
	names := make([]string, 0, len(c.rules)+3)
	names = append(names, categoryScreenshots, categoryConfig, categoryOther)
	for i := range c.rules {
		names = append(names, c.rules[i].Name)
	}
	return names
}

// isScreenshotName tests the locale-aware screenshot patterns against an
// NFC-normalized file name.
func isScreenshotName(fileName string) bool {
	name := norm.NFC.String(fileName)
	for _, pat := range screenshotPatterns {
		if pat.MatchString(name) {
			return true
		}
	}
	return false
}

// dateBucket derives the YYYY/MM bucket fragment from a modification
// time. A zero time (stat failure upstream) yields the Unknown bucket.
func dateBucket(modTime time.Time) string {
	if modTime.IsZero() {
		return unknownBucket
	}
	return filepath.Join(modTime.Format("2006"), modTime.Format("01"))
}
