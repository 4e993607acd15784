package library_test

import (
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"tunesort/internal/config"
	"tunesort/internal/library"
	"tunesort/internal/metadata"
)

func testRecord() metadata.CanonicalRecord {
	return metadata.CanonicalRecord{
		Artist: "Nirvana",
		Album:  "Nevermind",
		Title:  "Smells Like Teen Spirit",
		Year:   "1991",
		Genre:  "Rock",
		Track:  "01",
	}
}

func TestBuildPathLayout(t *testing.T) {
	b := library.NewPathBuilder("/library", 0, config.GetDefaultNamingMasks())

	dest, warning := b.BuildPath(testRecord(), ".mp3")
	want := filepath.Join("/library", "Rock", "Nirvana", "1991 - Nevermind", "01 - Smells Like Teen Spirit.mp3")
	if dest.FullPath != want {
		t.Fatalf("full path = %q, want %q", dest.FullPath, want)
	}
	if warning != "" {
		t.Fatalf("unexpected warning %q", warning)
	}
	if dest.FileName != "01 - Smells Like Teen Spirit.mp3" {
		t.Errorf("file name = %q", dest.FileName)
	}
}

func TestBuildPathUnknownYearDropsYearSegment(t *testing.T) {
	b := library.NewPathBuilder("/library", 0, config.GetDefaultNamingMasks())

	rec := testRecord()
	rec.Year = metadata.UnknownYear
	dest, _ := b.BuildPath(rec, ".flac")

	want := filepath.Join("/library", "Rock", "Nirvana", "Nevermind", "01 - Smells Like Teen Spirit.flac")
	if dest.FullPath != want {
		t.Fatalf("full path = %q, want %q", dest.FullPath, want)
	}
	if strings.Contains(dest.FullPath, "Unknown") {
		t.Error("the Unknown year sentinel must never appear in a path")
	}
}

func TestBuildPathSanitizesFields(t *testing.T) {
	b := library.NewPathBuilder("/library", 0, config.GetDefaultNamingMasks())

	rec := testRecord()
	rec.Artist = `AC/DC`
	rec.Album = `Who Made Who?`
	rec.Title = `What's Next to the Moon [Live]`
	dest, _ := b.BuildPath(rec, ".mp3")

	rel, err := filepath.Rel("/library", dest.FullPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, segment := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.ContainsAny(segment, `\/:*?"<>|[]{}()`) {
			t.Errorf("segment %q contains unsafe characters", segment)
		}
	}
}

func TestBuildPathCeilingTruncatesTitleOnly(t *testing.T) {
	b := library.NewPathBuilder("/library", 120, config.GetDefaultNamingMasks())

	rec := testRecord()
	rec.Title = strings.Repeat("Very Long Title ", 20)
	dest, _ := b.BuildPath(rec, ".mp3")

	if len(dest.FullPath) > 120 {
		t.Fatalf("path length %d exceeds ceiling", len(dest.FullPath))
	}
	// the track prefix and extension survive truncation
	if !strings.HasPrefix(dest.FileName, "01 - ") {
		t.Errorf("track prefix lost: %q", dest.FileName)
	}
	if !strings.HasSuffix(dest.FileName, ".mp3") {
		t.Errorf("extension lost: %q", dest.FileName)
	}
	// folder segments are untouched
	if !strings.Contains(dest.FolderPath, "1991 - Nevermind") {
		t.Errorf("album folder mangled: %q", dest.FolderPath)
	}
}

func TestBuildPathTruncationKeepsValidUTF8(t *testing.T) {
	b := library.NewPathBuilder("/library", 120, config.GetDefaultNamingMasks())

	rec := testRecord()
	rec.Title = "X" + strings.Repeat("あ", 100)
	dest, _ := b.BuildPath(rec, ".mp3")

	if len(dest.FullPath) > 120 {
		t.Fatalf("path length %d exceeds ceiling", len(dest.FullPath))
	}
	// the byte ceiling must never cut a multibyte rune in half
	if !utf8.ValidString(dest.FileName) {
		t.Fatalf("file name is not valid UTF-8: %q", dest.FileName)
	}
	if !strings.HasPrefix(dest.FileName, "01 - X") {
		t.Errorf("truncated title lost its leading characters: %q", dest.FileName)
	}
}

func TestBuildPathWarnsOnDeepTruncation(t *testing.T) {
	deepBase := filepath.Join("/library", strings.Repeat("x", 90))
	b := library.NewPathBuilder(deepBase, 120, config.GetDefaultNamingMasks())

	dest, warning := b.BuildPath(testRecord(), ".mp3")
	if warning == "" {
		t.Fatalf("expected a truncation warning for %q", dest.FullPath)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`AC/DC`, "AC_DC"},
		{`Question?`, "Question_"},
		{"  spaced   out  ", "spaced out"},
		{"trailing dot.", "trailing dot"},
		{"", "unknown"},
		{"???", "___"},
	}
	for _, tt := range tests {
		if got := library.Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		`AC/DC`, "Sigur Rós", "  a : b  ", "What? (Live) [Remix]", "...",
	}
	for _, in := range inputs {
		once := library.Sanitize(in)
		twice := library.Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestSanitizeUnicodeNormalization(t *testing.T) {
	composed := "Björk"        // ö as one rune
	decomposed := "Björk"     // o plus combining diaeresis
	if library.Sanitize(composed) != library.Sanitize(decomposed) {
		t.Error("composed and decomposed spellings must sanitize identically")
	}
}
