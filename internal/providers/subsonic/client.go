package subsonic

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	gosubsonic "github.com/delucks/go-subsonic"

	"tunesort/internal/metadata"
	"tunesort/internal/providers"
)

// Client looks up metadata on a user's own Subsonic-compatible server
// (Navidrome, Airsonic, Gonic). A curated server is often the most trusted
// source for a private collection, so it usually sits first in the
// provider order.
type Client struct {
	URL      string
	Username string
	Password string

	client gosubsonic.Client
}

// NewClient creates an unauthenticated Subsonic client.
func NewClient(serverURL, username, password string) *Client {
	return &Client{URL: serverURL, Username: username, Password: password}
}

// Name implements providers.Provider
func (c *Client) Name() string { return "subsonic" }

// Authenticate opens a session against the server.
func (c *Client) Authenticate() error {
	c.client = gosubsonic.Client{
		Client:       http.DefaultClient,
		BaseUrl:      c.URL,
		User:         c.Username,
		ClientName:   "tunesort",
		PasswordAuth: true,
	}
	if err := c.client.Authenticate(c.Password); err != nil {
		return fmt.Errorf("subsonic authentication failed: %w", err)
	}
	return nil
}

// Lookup searches the server for the track. An exact title+artist match is
// preferred; with none, a title-only match on the same artist still counts.
// The go-subsonic client has no context support, so cancellation is checked
// around the call rather than inside it.
func (c *Client) Lookup(ctx context.Context, artist, album, title string) (metadata.Overrides, error) {
	var overrides metadata.Overrides
	if err := ctx.Err(); err != nil {
		return overrides, err
	}

	query := fmt.Sprintf("%s %s", title, artist)
	result, err := c.client.Search2(query, map[string]string{"songCount": "5"})
	if err != nil {
		return overrides, err
	}
	if result == nil || len(result.Song) == 0 {
		return overrides, providers.ErrNotFound
	}

	song := pickSong(result.Song, title, artist)
	if song == nil {
		return overrides, providers.ErrNotFound
	}

	if song.Title != "" {
		overrides.Title = metadata.Set(song.Title)
	}
	if song.Artist != "" {
		overrides.Artist = metadata.Set(song.Artist)
	}
	if song.Album != "" {
		overrides.Album = metadata.Set(song.Album)
	}
	if song.Genre != "" {
		overrides.Genre = metadata.Set(song.Genre)
	}
	if song.Year > 0 {
		overrides.Year = metadata.Set(strconv.Itoa(song.Year))
	}
	if song.Track > 0 {
		overrides.Track = metadata.Set(fmt.Sprintf("%02d", song.Track))
	}

	return overrides, nil
}

func pickSong(songs []*gosubsonic.Child, title, artist string) *gosubsonic.Child {
	for _, song := range songs {
		if strings.EqualFold(song.Title, title) && strings.EqualFold(song.Artist, artist) {
			return song
		}
	}
	for _, song := range songs {
		if strings.EqualFold(song.Artist, artist) {
			return song
		}
	}
	return nil
}
