package library

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"tunesort/internal/config"
	"tunesort/internal/metadata"
)

// minReadableTitle is the point below which title truncation becomes a
// reportable condition rather than a silent rename.
const minReadableTitle = 10

// replacer swaps every filesystem-unsafe or bracket character for "_".
var unsafeReplacer = strings.NewReplacer(
	`\`, "_",
	`/`, "_",
	`:`, "_",
	`*`, "_",
	`?`, "_",
	`"`, "_",
	`<`, "_",
	`>`, "_",
	`|`, "_",
	`[`, "_",
	`]`, "_",
	`(`, "_",
	`)`, "_",
	`{`, "_",
	`}`, "_",
	"\x00", "_",
)

// DestinationPath is the computed target for one file.
type DestinationPath struct {
	FolderPath string `json:"folder"`
	FileName   string `json:"file"`
	FullPath   string `json:"full"`
}

// PathBuilder turns canonical records into sanitized, length-bounded
// destination paths under a base directory.
type PathBuilder struct {
	Base    string
	Ceiling int
	Masks   config.NamingOptions
}

// NewPathBuilder returns a builder with the given base and ceiling; a zero
// ceiling uses the conservative default.
func NewPathBuilder(base string, ceiling int, masks config.NamingOptions) *PathBuilder {
	if ceiling <= 0 {
		ceiling = config.DefaultPathCeiling
	}
	if masks.FolderMask == "" {
		masks = config.GetDefaultNamingMasks()
	}
	return &PathBuilder{Base: base, Ceiling: ceiling, Masks: masks}
}

// BuildPath computes the destination for a record. The returned warning is
// non-empty when the title had to be truncated below a readable length, or
// when even full truncation cannot satisfy the ceiling; the path is still
// the best effort and callers should attempt the copy regardless.
func (b *PathBuilder) BuildPath(rec metadata.CanonicalRecord, ext string) (DestinationPath, string) {
	ext = normalizeExt(ext)

	fields := map[string]string{
		"{genre}":  Sanitize(rec.Genre),
		"{artist}": Sanitize(rec.Artist),
		"{album}":  Sanitize(rec.Album),
		"{year}":   rec.Year,
		"{track}":  rec.Track,
	}

	mask := b.Masks.FolderMask
	if rec.Year == metadata.UnknownYear {
		mask = b.Masks.FolderMaskNoYear
	}
	folder := filepath.Join(b.Base, filepath.FromSlash(expandMask(mask, fields)))

	title := Sanitize(rec.Title)
	fileName := func(t string) string {
		fields["{title}"] = t
		return expandMask(b.Masks.FileMask, fields) + ext
	}

	full := filepath.Join(folder, fileName(title))
	warning := ""

	if len(full) > b.Ceiling {
		// Only the title shrinks; the track prefix and extension survive.
		excess := len(full) - b.Ceiling
		keep := len(title) - excess
		if keep < 1 {
			keep = 1
		}
		truncated := truncateTitle(title, keep)
		full = filepath.Join(folder, fileName(truncated))
		if utf8.RuneCountInString(truncated) < minReadableTitle {
			warning = fmt.Sprintf("title truncated to %d characters to fit %d-character path ceiling", utf8.RuneCountInString(truncated), b.Ceiling)
		}
		if len(full) > b.Ceiling {
			warning = fmt.Sprintf("path still %d characters after title truncation (ceiling %d)", len(full), b.Ceiling)
		}
	}

	return DestinationPath{
		FolderPath: filepath.Dir(full),
		FileName:   filepath.Base(full),
		FullPath:   full,
	}, warning
}

// Sanitize makes a metadata value safe for use as a path segment. NFC
// normalization first so composed and decomposed spellings of the same name
// land in the same directory. Idempotent.
func Sanitize(s string) string {
	s = norm.NFC.String(s)
	s = unsafeReplacer.Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, " .")
	if s == "" {
		s = "unknown"
	}
	return s
}

// truncateTitle cuts the title to at most max bytes without splitting a
// multibyte rune. The result is never empty: at minimum the first full rune
// survives, so the file name stays valid UTF-8 on every filesystem.
func truncateTitle(title string, max int) string {
	if len(title) <= max {
		return title
	}
	cut := title[:max]
	for len(cut) > 0 {
		r, size := utf8.DecodeLastRuneInString(cut)
		if r != utf8.RuneError || size > 1 {
			break
		}
		cut = cut[:len(cut)-1]
	}
	cut = strings.TrimSpace(cut)
	if cut == "" {
		_, size := utf8.DecodeRuneInString(title)
		cut = title[:size]
	}
	return cut
}

// expandMask substitutes {field} placeholders in a naming mask.
func expandMask(mask string, fields map[string]string) string {
	out := mask
	for placeholder, value := range fields {
		out = strings.ReplaceAll(out, placeholder, value)
	}
	return out
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
