package genre

import "strings"

// Classifier maps free-text genre hints onto the canonical taxonomy.
// Tables keep insertion order; classification over identical input is
// reproducible.
type Classifier struct {
	keywords []Pair
	artists  []Pair
}

// NewClassifier builds a classifier from the built-in tables with optional
// user overrides checked ahead of the built-ins. Override pairs come from
// the config file as [key, genre] tuples.
func NewClassifier(keywordOverrides, artistOverrides [][2]string) *Classifier {
	c := &Classifier{
		keywords: make([]Pair, 0, len(keywordOverrides)+len(defaultKeywords)),
		artists:  make([]Pair, 0, len(artistOverrides)+len(defaultArtists)),
	}
	for _, kv := range keywordOverrides {
		c.keywords = append(c.keywords, Pair{Key: kv[0], Genre: kv[1]})
	}
	c.keywords = append(c.keywords, defaultKeywords...)
	for _, kv := range artistOverrides {
		c.artists = append(c.artists, Pair{Key: kv[0], Genre: kv[1]})
	}
	c.artists = append(c.artists, defaultArtists...)
	return c
}

// Classify resolves one canonical genre, first match wins:
//
//  1. genreText exactly equals a taxonomy member
//  2. keyword substring scan of genreText
//  3. the same scan over artist, then album, then folderText, each stage
//     only when the previous ones found nothing
//  4. artist mapping table, exact then containment either direction
//  5. DefaultGenre
func (c *Classifier) Classify(genreText, artist, album, folderText string) string {
	genreText = strings.TrimSpace(genreText)

	if IsCanonical(genreText) {
		return genreText
	}

	if g := c.scanKeywords(genreText); g != "" {
		return g
	}
	if g := c.scanKeywords(artist); g != "" {
		return g
	}
	if g := c.scanKeywords(album); g != "" {
		return g
	}
	if g := c.scanKeywords(folderText); g != "" {
		return g
	}

	if g := c.lookupArtist(artist); g != "" {
		return g
	}

	return DefaultGenre
}

// scanKeywords returns the genre of the first keyword contained in text,
// or "" when no keyword matches.
func (c *Classifier) scanKeywords(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return ""
	}
	for _, kw := range c.keywords {
		if strings.Contains(text, strings.ToLower(kw.Key)) {
			return kw.Genre
		}
	}
	return ""
}

// lookupArtist checks the artist table: exact match first, then containment
// in either direction.
func (c *Classifier) lookupArtist(artist string) string {
	artist = strings.ToLower(strings.TrimSpace(artist))
	if artist == "" {
		return ""
	}
	for _, entry := range c.artists {
		if strings.ToLower(entry.Key) == artist {
			return entry.Genre
		}
	}
	for _, entry := range c.artists {
		key := strings.ToLower(entry.Key)
		if strings.Contains(artist, key) || strings.Contains(key, artist) {
			return entry.Genre
		}
	}
	return ""
}
