package metadata

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"tunesort/internal/genre"
)

// Precompiled cleaning patterns.
var (
	reLeadingArticle   = regexp.MustCompile(`(?i)^(the|an|a)\s+`)
	reFeatSuffix       = regexp.MustCompile(`(?i)[\s,]+(feat\.?|ft\.?|featuring)\s+.*$`)
	reTrailingParen    = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	reAlbumEditionTail = regexp.MustCompile(`(?i)\s*\([^)]*(deluxe|remaster|special|expanded)[^)]*\)\s*$`)
	reYearRun          = regexp.MustCompile(`(19|20)\d{2}`)
	reDigitRun         = regexp.MustCompile(`\d+`)
)

// minFieldLength is the validation floor for required fields; anything
// shorter after cleaning falls back to its hard default.
const minFieldLength = 2

// Resolver merges the raw sources into one CanonicalRecord.
type Resolver struct {
	classifier *genre.Classifier
}

// NewResolver builds a resolver around a genre classifier.
func NewResolver(classifier *genre.Classifier) *Resolver {
	return &Resolver{classifier: classifier}
}

// Resolve produces the canonical identity for one file. The per-field source
// priority is embedded tag → online override → folder-derived → file-derived
// → hard default; overrides merge before the cleaning pass so provider data
// goes through the same normalization as everything else. The two-phase
// merge-then-validate design guarantees no required field is ever empty.
func (r *Resolver) Resolve(bundle *RawMetadataBundle, overrides Overrides) CanonicalRecord {
	var rec CanonicalRecord

	folderText := filepath.Base(filepath.Dir(bundle.Path))

	artist := pick(bundle.Tag.Artist, overrides.Artist, bundle.FromFolder.Artist, bundle.FromFile.Artist)
	rec.Artist = validate(CleanArtist(artist.Value), UnknownArtist)

	album := pick(bundle.Tag.Album, overrides.Album, bundle.FromFolder.Album, bundle.FromFile.Album)
	rec.Album = validate(CleanAlbum(album.Value), UnknownAlbum)

	title := pick(bundle.Tag.Title, overrides.Title, bundle.FromFolder.Title, bundle.FromFile.Title)
	rec.Title = validate(collapseWhitespace(title.Value), fallbackTitle(bundle.Path))

	rec.Year = resolveYear(
		pickAll(bundle.Tag.Year, overrides.Year, bundle.FromFolder.Year, bundle.FromFile.Year))

	rec.Track = resolveTrack(
		pickAll(bundle.Tag.Track, overrides.Track, bundle.FromFolder.Track, bundle.FromFile.Track))

	genreText := pick(bundle.Tag.Genre, overrides.Genre, bundle.FromFolder.Genre, bundle.FromFile.Genre)
	rec.Genre = r.classifier.Classify(genreText.Value, rec.Artist, rec.Album, folderText)

	return rec
}

// pick returns the first present field in priority order.
func pick(fields ...Field) Field {
	for _, f := range fields {
		if f.Present && strings.TrimSpace(f.Value) != "" {
			return f
		}
	}
	return Absent
}

// pickAll returns every present field in priority order, for fields where a
// higher-priority source may hold an unusable value (a year with no 4-digit
// run, a non-numeric track) and a lower one still rescues it.
func pickAll(fields ...Field) []string {
	var out []string
	for _, f := range fields {
		if f.Present && strings.TrimSpace(f.Value) != "" {
			out = append(out, f.Value)
		}
	}
	return out
}

// CleanArtist strips a leading article, a trailing "feat./ft./featuring …"
// chunk, and a trailing parenthetical suffix. When cleaning would empty the
// value entirely the original is kept.
func CleanArtist(s string) string {
	original := strings.TrimSpace(s)
	cleaned := reLeadingArticle.ReplaceAllString(original, "")
	cleaned = reFeatSuffix.ReplaceAllString(cleaned, "")
	cleaned = reTrailingParen.ReplaceAllString(cleaned, "")
	cleaned = collapseWhitespace(cleaned)
	if cleaned == "" {
		return original
	}
	return cleaned
}

// CleanAlbum strips trailing edition parentheticals like "(Deluxe Edition)"
// or "(2011 Remaster)", repeatedly so stacked suffixes all go.
func CleanAlbum(s string) string {
	original := strings.TrimSpace(s)
	cleaned := original
	for {
		next := reAlbumEditionTail.ReplaceAllString(cleaned, "")
		if next == cleaned {
			break
		}
		cleaned = next
	}
	cleaned = collapseWhitespace(cleaned)
	if cleaned == "" {
		return original
	}
	return cleaned
}

// resolveYear returns the first candidate containing a plausible 4-digit
// year run, or the "Unknown" sentinel.
func resolveYear(candidates []string) string {
	for _, c := range candidates {
		if m := reYearRun.FindString(c); m != "" {
			return m
		}
	}
	return UnknownYear
}

// resolveTrack returns the first candidate's leading digit run zero-padded
// to two digits. Zero or non-numeric values fall through to the next source.
func resolveTrack(candidates []string) string {
	for _, c := range candidates {
		m := reDigitRun.FindString(c)
		if m == "" {
			continue
		}
		n, err := strconv.Atoi(m)
		if err != nil || n <= 0 {
			continue
		}
		return fmt.Sprintf("%02d", n)
	}
	return DefaultTrack
}

// validate enforces the non-empty invariant after cleaning.
func validate(value, fallback string) string {
	value = strings.TrimSpace(value)
	if len([]rune(value)) < minFieldLength {
		return fallback
	}
	return value
}

// fallbackTitle derives the last-resort title from the filename.
func fallbackTitle(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.TrimSpace(base)
	if len([]rune(base)) < minFieldLength {
		return UnknownTitle
	}
	return base
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
