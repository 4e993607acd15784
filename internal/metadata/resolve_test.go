package metadata_test

import (
	"testing"

	"tunesort/internal/genre"
	"tunesort/internal/metadata"
)

func newResolver() *metadata.Resolver {
	return metadata.NewResolver(genre.NewClassifier(nil, nil))
}

func TestResolveTagPriority(t *testing.T) {
	r := newResolver()
	bundle := &metadata.RawMetadataBundle{
		Path: "/music/Nirvana - Nevermind/01 - Smells Like Teen Spirit.mp3",
		Tag: metadata.SourceFields{
			Title:  metadata.Set("Smells Like Teen Spirit"),
			Artist: metadata.Set("Nirvana"),
			Album:  metadata.Set("Nevermind"),
			Year:   metadata.Set("1991"),
			Genre:  metadata.Set("Grunge"),
			Track:  metadata.Set("1"),
		},
		FromFolder: metadata.SourceFields{
			Artist: metadata.Set("Wrong Artist"),
			Album:  metadata.Set("Wrong Album"),
		},
		FromFile: metadata.SourceFields{
			Title: metadata.Set("Wrong Title"),
			Track: metadata.Set("99"),
		},
	}

	rec := r.Resolve(bundle, metadata.Overrides{})

	if rec.Artist != "Nirvana" {
		t.Errorf("artist = %q", rec.Artist)
	}
	if rec.Album != "Nevermind" {
		t.Errorf("album = %q", rec.Album)
	}
	if rec.Title != "Smells Like Teen Spirit" {
		t.Errorf("title = %q", rec.Title)
	}
	if rec.Year != "1991" {
		t.Errorf("year = %q", rec.Year)
	}
	if rec.Track != "01" {
		t.Errorf("track = %q, want zero-padded", rec.Track)
	}
	if rec.Genre != "Rock" {
		t.Errorf("genre = %q, want Rock for grunge", rec.Genre)
	}
}

func TestResolveFallsBackThroughSources(t *testing.T) {
	r := newResolver()
	bundle := &metadata.RawMetadataBundle{
		Path: "/music/1989 - Bleach/01 - Blew.mp3",
		FromFolder: metadata.SourceFields{
			Album: metadata.Set("Bleach"),
			Year:  metadata.Set("1989"),
		},
		FromFile: metadata.SourceFields{
			Title: metadata.Set("Blew"),
			Track: metadata.Set("01"),
		},
	}

	rec := r.Resolve(bundle, metadata.Overrides{})

	if rec.Artist != metadata.UnknownArtist {
		t.Errorf("artist = %q, want default", rec.Artist)
	}
	if rec.Album != "Bleach" {
		t.Errorf("album = %q", rec.Album)
	}
	if rec.Title != "Blew" {
		t.Errorf("title = %q", rec.Title)
	}
	if rec.Year != "1989" {
		t.Errorf("year = %q", rec.Year)
	}
	if rec.Track != "01" {
		t.Errorf("track = %q", rec.Track)
	}
}

func TestResolveNeverEmpty(t *testing.T) {
	r := newResolver()
	bundle := &metadata.RawMetadataBundle{Path: "/music/x.mp3"}

	rec := r.Resolve(bundle, metadata.Overrides{})

	if rec.Artist != metadata.UnknownArtist {
		t.Errorf("artist = %q", rec.Artist)
	}
	if rec.Album != metadata.UnknownAlbum {
		t.Errorf("album = %q", rec.Album)
	}
	// the filename is a single rune, below the validation floor
	if rec.Title != metadata.UnknownTitle {
		t.Errorf("title = %q", rec.Title)
	}
	if rec.Year != metadata.UnknownYear {
		t.Errorf("year = %q", rec.Year)
	}
	if rec.Track != metadata.DefaultTrack {
		t.Errorf("track = %q", rec.Track)
	}
	if rec.Genre == "" {
		t.Error("genre must never be empty")
	}
}

func TestResolveOverridesBeatFolderButNotTag(t *testing.T) {
	r := newResolver()
	bundle := &metadata.RawMetadataBundle{
		Path: "/music/d/01 - t.mp3",
		Tag: metadata.SourceFields{
			Artist: metadata.Set("Tag Artist"),
		},
		FromFolder: metadata.SourceFields{
			Artist: metadata.Set("Folder Artist"),
			Album:  metadata.Set("Folder Album"),
		},
	}
	overrides := metadata.Overrides{
		Artist: metadata.Set("Provider Artist"),
		Album:  metadata.Set("Provider Album"),
	}

	rec := r.Resolve(bundle, overrides)

	if rec.Artist != "Tag Artist" {
		t.Errorf("artist = %q, tag should outrank provider", rec.Artist)
	}
	if rec.Album != "Provider Album" {
		t.Errorf("album = %q, provider should outrank folder", rec.Album)
	}
}

func TestResolveOverridesAreCleaned(t *testing.T) {
	r := newResolver()
	bundle := &metadata.RawMetadataBundle{Path: "/music/d/01 - Song.mp3"}
	overrides := metadata.Overrides{
		Artist: metadata.Set("The Beatles feat. Billy Preston"),
		Album:  metadata.Set("Abbey Road (2019 Remaster)"),
	}

	rec := r.Resolve(bundle, overrides)

	if rec.Artist != "Beatles" {
		t.Errorf("artist = %q, provider values must go through cleaning", rec.Artist)
	}
	if rec.Album != "Abbey Road" {
		t.Errorf("album = %q", rec.Album)
	}
}

func TestResolveYearRescue(t *testing.T) {
	r := newResolver()
	// The tag year is garbage; the folder still has a usable one.
	bundle := &metadata.RawMetadataBundle{
		Path: "/music/d/01 - Song.mp3",
		Tag: metadata.SourceFields{
			Year: metadata.Set("0"),
		},
		FromFolder: metadata.SourceFields{
			Year: metadata.Set("2004"),
		},
	}
	rec := r.Resolve(bundle, metadata.Overrides{})
	if rec.Year != "2004" {
		t.Errorf("year = %q, lower source should rescue unusable tag year", rec.Year)
	}
}

func TestResolveTrackRescue(t *testing.T) {
	r := newResolver()
	bundle := &metadata.RawMetadataBundle{
		Path: "/music/d/05 - Song.mp3",
		Tag: metadata.SourceFields{
			Track: metadata.Set("0"),
		},
		FromFile: metadata.SourceFields{
			Track: metadata.Set("5"),
		},
	}
	rec := r.Resolve(bundle, metadata.Overrides{})
	if rec.Track != "05" {
		t.Errorf("track = %q, want 05", rec.Track)
	}
}

func TestCleanArtist(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The Rolling Stones", "Rolling Stones"},
		{"A Tribe Called Quest", "Tribe Called Quest"},
		{"Queen feat. David Bowie", "Queen"},
		{"Daft Punk ft. Pharrell Williams", "Daft Punk"},
		{"Santana featuring Rob Thomas", "Santana"},
		{"Nirvana (Remastered)", "Nirvana"},
		{"The The", "The"}, // article strip applies once, value survives
	}
	for _, tt := range tests {
		if got := metadata.CleanArtist(tt.in); got != tt.want {
			t.Errorf("CleanArtist(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanArtistKeepsOriginalWhenEmptied(t *testing.T) {
	// Cleaning "The" to nothing would violate the non-empty rule.
	if got := metadata.CleanArtist("(Live)"); got != "(Live)" {
		t.Errorf("CleanArtist should keep the original when cleaning empties it, got %q", got)
	}
}

func TestCleanAlbum(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Nevermind (Deluxe Edition)", "Nevermind"},
		{"OK Computer (Special Edition) (Remastered 2017)", "OK Computer"}, // stacked suffixes all go
		{"The Wall (2011 Remaster)", "The Wall"},
		{"In Rainbows", "In Rainbows"},
		{"Dummy (Deluxe) (Expanded)", "Dummy"},
	}
	for _, tt := range tests {
		if got := metadata.CleanAlbum(tt.in); got != tt.want {
			t.Errorf("CleanAlbum(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveDeterministic(t *testing.T) {
	r := newResolver()
	bundle := &metadata.RawMetadataBundle{
		Path: "/music/(1994) - Portishead - Dummy/03 - Strangers.mp3",
		Tag: metadata.SourceFields{
			Title:  metadata.Set("Strangers"),
			Artist: metadata.Set("Portishead"),
			Genre:  metadata.Set("Trip-Hop"),
		},
		FromFolder: metadata.SourceFields{
			Album: metadata.Set("Dummy"),
			Year:  metadata.Set("1994"),
		},
	}

	first := r.Resolve(bundle, metadata.Overrides{})
	for i := 0; i < 5; i++ {
		if got := r.Resolve(bundle, metadata.Overrides{}); got != first {
			t.Fatalf("resolution not stable: %+v then %+v", first, got)
		}
	}
}
