package engine

import (
	"testing"
	"time"

	"golang.org/x/text/unicode/norm"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(DefaultRules(), DefaultDotfileAllowlist())

	tests := []struct {
		name     string
		expected string
	}{
		{"photo.png", "Images"},
		{"photo.PNG", "Images"},
		{"clip.mp4", "Videos"},
		{"song.flac", "Audio"},
		{"report.pdf", "PDFs"},
		{"sheet.xlsx", "Documents"},
		{"notes.txt", "Notes"},
		{"bundle.tar", "Archives"},
		{"main.go", "Code"},
		{"setup.exe", "Apps"},
		{"face.ttf", "Fonts"},
		{".env", "Config"},
		{".bashrc", "Config"},
		{"mystery.xyz", "Other"},
		{"noextension", "Other"},
		{"Screenshot 2024-01-02 at 10.31.12.png", "Screenshots"},
		{"Screen Shot 2023-12-01.png", "Screenshots"},
		{"screenshot.jpeg", "Screenshots"},
		{"スクリーンショット 2024-05-01.png", "Screenshots"},
		{"屏幕截图 2024-05-01.png", "Screenshots"},
		{"스크린샷 2024-05-01.png", "Screenshots"},
		// Screenshot-looking name with a non-image extension stays textual.
		{"screenshot notes.txt", "Notes"},
	}

	for _, tt := range tests {
		if got := c.Classify(tt.name); got != tt.expected {
			t.Errorf("Classify(%q) = %q, want %q", tt.name, got, tt.expected)
		}
	}
}

func TestClassifyDecomposedScreenshotName(t *testing.T) {
	c := NewClassifier(DefaultRules(), nil)

	// macOS stores Japanese names in NFD; the pattern must still match.
	name := norm.NFD.String("スクリーンショット") + " 2024-05-01.png"
	if got := c.Classify(name); got != "Screenshots" {
		t.Errorf("Classify(NFD screenshot name) = %q, want Screenshots", got)
	}
}

func TestClassifyCustomRulesTakePriority(t *testing.T) {
	rules := append([]CategoryRule{
		{Name: "Books", Extensions: []string{".pdf", ".epub"}},
	}, DefaultRules()...)

	c := NewClassifier(rules, nil)

	if got := c.Classify("report.pdf"); got != "Books" {
		t.Errorf("Classify(report.pdf) = %q, want Books (custom rule first)", got)
	}
}

func TestDated(t *testing.T) {
	c := NewClassifier(DefaultRules(), nil)

	tests := []struct {
		category string
		dated    bool
	}{
		{"Screenshots", true},
		{"Images", true},
		{"Videos", true},
		{"Audio", true},
		{"PDFs", false},
		{"Notes", false},
		{"Other", false},
	}

	for _, tt := range tests {
		if got := c.Dated(tt.category); got != tt.dated {
			t.Errorf("Dated(%q) = %v, want %v", tt.category, got, tt.dated)
		}
	}
}

func TestAllowedDotfile(t *testing.T) {
	c := NewClassifier(DefaultRules(), []string{".env"})

	if !c.AllowedDotfile(".env") {
		t.Error("AllowedDotfile(.env) = false, want true")
	}
	if c.AllowedDotfile(".bashrc") {
		t.Error("AllowedDotfile(.bashrc) = true, want false")
	}
}

func TestDateBucket(t *testing.T) {
	mt := time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)
	if got := dateBucket(mt); got != "2024/03" {
		t.Errorf("dateBucket() = %q, want 2024/03", got)
	}

	if got := dateBucket(time.Time{}); got != "Unknown" {
		t.Errorf("dateBucket(zero) = %q, want Unknown", got)
	}
}

func TestCategoryNamesIncludeImplicit(t *testing.T) {
	c := NewClassifier(DefaultRules(), nil)

	names := make(map[string]bool)
	for _, n := range c.CategoryNames() {
		names[n] = true
	}

	for _, want := range []string{"Screenshots", "Config", "Other", "Images", "PDFs"} {
		if !names[want] {
			t.Errorf("CategoryNames() missing %q", want)
		}
	}
}
