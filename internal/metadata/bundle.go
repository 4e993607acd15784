package metadata

// Hard defaults used when every source fails to produce a usable value.
const (
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
	UnknownTitle  = "Unknown Title"
	UnknownYear   = "Unknown"
	DefaultTrack  = "01"
)

// Field is an optional string value. Present distinguishes "absent" from
// "empty" so field-existence checks never rely on empty-string truthiness.
type Field struct {
	Value   string
	Present bool
}

// Set returns a present field
func Set(value string) Field {
	return Field{Value: value, Present: true}
}

// Absent is the zero field
var Absent = Field{}

// Or returns the field itself when present, otherwise the fallback.
func (f Field) Or(fallback Field) Field {
	if f.Present {
		return f
	}
	return fallback
}

// SourceFields is one namespace of raw metadata fields from a single source.
// Any field may be absent.
type SourceFields struct {
	Title    Field
	Artist   Field
	Album    Field
	Year     Field
	Genre    Field
	Track    Field
	Duration Field
}

// Empty reports whether no field in the namespace is present.
func (s SourceFields) Empty() bool {
	return !s.Title.Present && !s.Artist.Present && !s.Album.Present &&
		!s.Year.Present && !s.Genre.Present && !s.Track.Present && !s.Duration.Present
}

// RawMetadataBundle carries the three raw namespaces collected for one file.
// Immutable once extracted.
type RawMetadataBundle struct {
	Path       string
	Tag        SourceFields
	FromFolder SourceFields
	FromFile   SourceFields
}

// Overrides is the partial record an online provider returns. Absent fields
// leave the pre-existing values untouched.
type Overrides struct {
	Artist Field
	Album  Field
	Title  Field
	Year   Field
	Genre  Field
	Track  Field
}

// Empty reports whether the override set carries no field at all.
func (o Overrides) Empty() bool {
	return !o.Artist.Present && !o.Album.Present && !o.Title.Present &&
		!o.Year.Present && !o.Genre.Present && !o.Track.Present
}

// Merge fills absent fields of o from other. Fields already present in o
// win; a later provider never displaces an earlier one.
func (o *Overrides) Merge(other Overrides) {
	o.Artist = o.Artist.Or(other.Artist)
	o.Album = o.Album.Or(other.Album)
	o.Title = o.Title.Or(other.Title)
	o.Year = o.Year.Or(other.Year)
	o.Genre = o.Genre.Or(other.Genre)
	o.Track = o.Track.Or(other.Track)
}

// CanonicalRecord is the resolved, filesystem-safe identity for one file.
// Invariant: every field is populated after Resolve.
type CanonicalRecord struct {
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Title  string `json:"title"`
	Year   string `json:"year"`  // 4-digit string or "Unknown"
	Genre  string `json:"genre"` // canonical taxonomy member or keyword-mapped value
	Track  string `json:"track"` // 2-digit zero-padded
}
