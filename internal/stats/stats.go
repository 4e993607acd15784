// Package stats accumulates per-field counts and the per-file manifest
// across one organize batch. The aggregator is the only mutable state shared
// between concurrent file tasks; every update goes through its mutex.
package stats

import (
	"sync"

	"tunesort/internal/metadata"
)

// Outcome describes how a file's pipeline ended.
type Outcome string

const (
	OutcomeOrganized Outcome = "organized"
	OutcomePlanned   Outcome = "planned" // dry-run
	OutcomeFailed    Outcome = "failed"
)

// ManifestEntry is the per-file record exposed to reporting collaborators.
type ManifestEntry struct {
	OriginalPath string                   `json:"original_path"`
	NewPath      string                   `json:"new_path"`
	Raw          RawNamespaces            `json:"raw"`
	Resolved     metadata.CanonicalRecord `json:"resolved"`
	Overrides    map[string]string        `json:"overrides,omitempty"` // provider data actually applied
	Corrected    bool                     `json:"corrected"`
	Outcome      Outcome                  `json:"outcome"`
}

// RawNamespaces carries every extraction namespace into the manifest, so a
// reader can see what the tags, the folder names, and the file name each
// contributed before resolution.
type RawNamespaces struct {
	Tag    RawFields `json:"tag"`
	Folder RawFields `json:"folder"`
	File   RawFields `json:"file"`
}

// RawFields is one namespace flattened for the manifest; absent fields
// serialize as empty strings.
type RawFields struct {
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`
	Year   string `json:"year,omitempty"`
	Genre  string `json:"genre,omitempty"`
	Track  string `json:"track,omitempty"`
}

// ErrorEntry records one non-fatal failure.
type ErrorEntry struct {
	File    string `json:"file"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// Aggregator is owned by the batch driver and updated once per file.
type Aggregator struct {
	mu sync.Mutex

	genres  map[string]int
	artists map[string]int
	albums  map[string]int
	years   map[string]int

	processed int
	corrected int
	failed    int

	manifest []ManifestEntry
	errors   []ErrorEntry
}

// NewAggregator creates an empty aggregator for one batch.
func NewAggregator() *Aggregator {
	return &Aggregator{
		genres:  make(map[string]int),
		artists: make(map[string]int),
		albums:  make(map[string]int),
		years:   make(map[string]int),
	}
}

// Record registers one completed file. Corrected is true when any resolved
// field differs from the corresponding raw tag field.
func (a *Aggregator) Record(bundle *metadata.RawMetadataBundle, resolved metadata.CanonicalRecord, dest string, overrides metadata.Overrides, outcome Outcome) {
	tagRaw := flattenFields(bundle.Tag)
	entry := ManifestEntry{
		OriginalPath: bundle.Path,
		NewPath:      dest,
		Raw: RawNamespaces{
			Tag:    tagRaw,
			Folder: flattenFields(bundle.FromFolder),
			File:   flattenFields(bundle.FromFile),
		},
		Resolved:  resolved,
		Overrides: flattenOverrides(overrides),
		Corrected: wasCorrected(tagRaw, resolved),
		Outcome:   outcome,
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.processed++
	if entry.Corrected {
		a.corrected++
	}
	if outcome == OutcomeFailed {
		a.failed++
	}
	a.genres[resolved.Genre]++
	a.artists[resolved.Artist]++
	a.albums[resolved.Album]++
	a.years[resolved.Year]++
	a.manifest = append(a.manifest, entry)
}

// RecordError appends a non-fatal failure for the error list. Files that
// fail before resolution only appear here, not in the manifest.
func (a *Aggregator) RecordError(file, stage, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errors = append(a.errors, ErrorEntry{File: file, Stage: stage, Message: message})
}

// Counts returns the running processed/corrected/failed totals.
func (a *Aggregator) Counts() (processed, corrected, failed int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.processed, a.corrected, a.failed
}

// Snapshot is the immutable end-of-batch export.
type Snapshot struct {
	Genres  map[string]int `json:"genres"`
	Artists map[string]int `json:"artists"`
	Albums  map[string]int `json:"albums"`
	Years   map[string]int `json:"years"`

	Processed int `json:"processed"`
	Corrected int `json:"corrected"`
	Failed    int `json:"failed"`

	Manifest []ManifestEntry `json:"manifest"`
	Errors   []ErrorEntry    `json:"errors"`
}

// Snapshot deep-copies the aggregator state; mutations after the call never
// leak into an exported snapshot.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	return Snapshot{
		Genres:    copyCounts(a.genres),
		Artists:   copyCounts(a.artists),
		Albums:    copyCounts(a.albums),
		Years:     copyCounts(a.years),
		Processed: a.processed,
		Corrected: a.corrected,
		Failed:    a.failed,
		Manifest:  append([]ManifestEntry(nil), a.manifest...),
		Errors:    append([]ErrorEntry(nil), a.errors...),
	}
}

func copyCounts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func flattenFields(src metadata.SourceFields) RawFields {
	return RawFields{
		Title:  src.Title.Value,
		Artist: src.Artist.Value,
		Album:  src.Album.Value,
		Year:   src.Year.Value,
		Genre:  src.Genre.Value,
		Track:  src.Track.Value,
	}
}

func flattenOverrides(o metadata.Overrides) map[string]string {
	if o.Empty() {
		return nil
	}
	out := make(map[string]string)
	if o.Artist.Present {
		out["artist"] = o.Artist.Value
	}
	if o.Album.Present {
		out["album"] = o.Album.Value
	}
	if o.Title.Present {
		out["title"] = o.Title.Value
	}
	if o.Year.Present {
		out["year"] = o.Year.Value
	}
	if o.Genre.Present {
		out["genre"] = o.Genre.Value
	}
	if o.Track.Present {
		out["track"] = o.Track.Value
	}
	return out
}

func wasCorrected(raw RawFields, resolved metadata.CanonicalRecord) bool {
	return raw.Title != resolved.Title ||
		raw.Artist != resolved.Artist ||
		raw.Album != resolved.Album ||
		raw.Year != resolved.Year ||
		raw.Genre != resolved.Genre ||
		raw.Track != resolved.Track
}
