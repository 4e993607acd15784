package metadata

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
)

// Precompiled patterns, package-level to avoid per-call recompilation.
var (
	// "(1994) - Artist - Album" with an optional trailing "[...]" qualifier
	// already stripped by the caller.
	reFolderParenYear = regexp.MustCompile(`^\((\d{4})\)\s*-\s*(.+?)\s*-\s*(.+)$`)

	// "1994 - Artist - Album"
	reFolderBareYear = regexp.MustCompile(`^(\d{4})\s*-\s*(.+?)\s*-\s*(.+)$`)

	// "1994 - Album" (two segments, first a year)
	reFolderYearAlbum = regexp.MustCompile(`^(\d{4})\s*-\s*(.+)$`)

	// "Artist - Album"
	reFolderArtistAlbum = regexp.MustCompile(`^(.+?)\s*-\s*(.+)$`)

	// trailing "[FLAC]"/"[16Bit-44.1kHz]" style qualifiers
	reFolderQualifier = regexp.MustCompile(`\s*\[[^\]]*\]\s*$`)

	// year tokens inside arbitrary folder text
	reParenYearToken = regexp.MustCompile(`\(((?:19|20)\d{2})\)`)
	reBareYearToken  = regexp.MustCompile(`\b((?:19|20)\d{2})\b`)

	// "01 - Title", "01. Title", "01_Title"
	reFilePrefix = regexp.MustCompile(`^(\d{1,3})(?:\s*-\s*|\.\s*|_\s*)(.+)$`)
)

// ExtractionError reports a degraded tag read. The bundle is still usable;
// callers log the warning and continue with the remaining sources.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("tag read failed for %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Extract assembles the raw bundle for one audio file from its embedded
// tags, enclosing folder name, and bare filename. A tag-read failure
// degrades the Tag namespace to empty and is returned as *ExtractionError
// alongside a fully usable bundle.
func Extract(path string) (*RawMetadataBundle, error) {
	bundle := &RawMetadataBundle{
		Path:       path,
		FromFolder: ExtractFromFolder(filepath.Dir(path)),
		FromFile:   ExtractFromFile(filepath.Base(path)),
	}

	tags, err := ExtractTags(path)
	bundle.Tag = tags
	if err != nil {
		return bundle, &ExtractionError{Path: path, Err: err}
	}
	return bundle, nil
}

// ExtractTags reads the embedded tag store. Corrupt files, unsupported
// formats, and missing tags all degrade to an empty namespace.
func ExtractTags(path string) (SourceFields, error) {
	f, err := os.Open(path)
	if err != nil {
		return SourceFields{}, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return SourceFields{}, err
	}

	var fields SourceFields
	if v := strings.TrimSpace(m.Title()); v != "" {
		fields.Title = Set(v)
	}
	artist := strings.TrimSpace(m.AlbumArtist())
	if artist == "" {
		artist = strings.TrimSpace(m.Artist())
	}
	if artist != "" {
		fields.Artist = Set(artist)
	}
	if v := strings.TrimSpace(m.Album()); v != "" {
		fields.Album = Set(v)
	}
	if y := m.Year(); y > 0 {
		fields.Year = Set(strconv.Itoa(y))
	}
	if v := strings.TrimSpace(m.Genre()); v != "" {
		fields.Genre = Set(v)
	}
	if n, _ := m.Track(); n > 0 {
		fields.Track = Set(strconv.Itoa(n))
	}
	return fields, nil
}

// ExtractFromFolder pattern-matches the immediate parent directory name.
// Patterns are tried in priority order:
//
//	(YYYY) - Artist - Album [tag]
//	YYYY - Artist - Album [tag]
//	YYYY - Album [tag]
//	Artist - Album [tag]
//
// Independently, the folder text (walking up one extra level when needed)
// is scanned for a 4-digit year token, preferring a parenthesized year over
// a bare one.
func ExtractFromFolder(dir string) SourceFields {
	var fields SourceFields

	name := reFolderQualifier.ReplaceAllString(filepath.Base(dir), "")
	name = strings.TrimSpace(name)

	switch {
	case reFolderParenYear.MatchString(name):
		m := reFolderParenYear.FindStringSubmatch(name)
		if validYear(m[1]) {
			fields.Year = Set(m[1])
		}
		fields.Artist = Set(strings.TrimSpace(m[2]))
		fields.Album = Set(strings.TrimSpace(m[3]))
	case reFolderBareYear.MatchString(name):
		m := reFolderBareYear.FindStringSubmatch(name)
		if validYear(m[1]) {
			fields.Year = Set(m[1])
			fields.Artist = Set(strings.TrimSpace(m[2]))
			fields.Album = Set(strings.TrimSpace(m[3]))
		} else {
			// first segment is digits but not a plausible year; fall through
			// to the artist/album split
			m := reFolderArtistAlbum.FindStringSubmatch(name)
			fields.Artist = Set(strings.TrimSpace(m[1]))
			fields.Album = Set(strings.TrimSpace(m[2]))
		}
	case reFolderYearAlbum.MatchString(name):
		m := reFolderYearAlbum.FindStringSubmatch(name)
		if validYear(m[1]) {
			fields.Year = Set(m[1])
			fields.Album = Set(strings.TrimSpace(m[2]))
		} else {
			fields.Artist = Set(m[1])
			fields.Album = Set(strings.TrimSpace(m[2]))
		}
	case reFolderArtistAlbum.MatchString(name):
		m := reFolderArtistAlbum.FindStringSubmatch(name)
		fields.Artist = Set(strings.TrimSpace(m[1]))
		fields.Album = Set(strings.TrimSpace(m[2]))
	default:
		if name != "" && name != "." && name != string(filepath.Separator) {
			fields.Album = Set(name)
		}
	}

	// Year scan over the parent and grandparent names; an album folder often
	// sits under a "(2000) - Artist - Album" release folder.
	if !fields.Year.Present {
		level := dir
		for i := 0; i < 2; i++ {
			if y := scanYearToken(filepath.Base(level)); y != "" {
				fields.Year = Set(y)
				break
			}
			parent := filepath.Dir(level)
			if parent == level {
				break
			}
			level = parent
		}
	}

	return fields
}

// scanYearToken finds a 4-digit year in text, parenthesized first.
func scanYearToken(text string) string {
	if m := reParenYearToken.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := reBareYearToken.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// ExtractFromFile strips a leading track-number prefix from the filename to
// obtain a file-derived title, and captures the leading digits as a
// file-derived track number.
func ExtractFromFile(name string) SourceFields {
	var fields SourceFields

	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.TrimSpace(base)
	if base == "" {
		return fields
	}

	if m := reFilePrefix.FindStringSubmatch(base); m != nil {
		fields.Track = Set(m[1])
		if title := strings.TrimSpace(m[2]); title != "" {
			fields.Title = Set(title)
		}
	} else {
		fields.Title = Set(base)
	}
	return fields
}

func validYear(s string) bool {
	return reBareYearToken.MatchString(s)
}
