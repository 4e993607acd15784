package spotify

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"tunesort/internal/metadata"
	"tunesort/internal/providers"
)

// Client looks up track metadata through the Spotify Web API using the
// client-credentials flow. Genre comes from the primary artist because
// Spotify does not tag individual tracks.
type Client struct {
	ID     string
	Secret string

	client *spotify.Client
}

// NewClient creates an unauthenticated Spotify client.
func NewClient(id, secret string) *Client {
	return &Client{ID: id, Secret: secret}
}

// Name implements providers.Provider
func (s *Client) Name() string { return "spotify" }

// Authenticate obtains an app token with the client-credentials flow.
func (s *Client) Authenticate(ctx context.Context) error {
	config := &clientcredentials.Config{
		ClientID:     s.ID,
		ClientSecret: s.Secret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := config.Token(ctx)
	if err != nil {
		return fmt.Errorf("spotify authentication failed: %w", err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	s.client = spotify.New(httpClient)
	return nil
}

// Lookup searches Spotify for the track and maps the best hit onto partial
// field overrides.
func (s *Client) Lookup(ctx context.Context, artist, album, title string) (metadata.Overrides, error) {
	var overrides metadata.Overrides
	if s.client == nil {
		return overrides, fmt.Errorf("spotify client not authenticated")
	}

	query := fmt.Sprintf("track:%s artist:%s", title, artist)
	if album != "" {
		query += " album:" + album
	}

	result, err := s.client.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(5))
	if err != nil {
		return overrides, err
	}
	if result.Tracks == nil || len(result.Tracks.Tracks) == 0 {
		return overrides, providers.ErrNotFound
	}

	track := pickTrack(result.Tracks.Tracks, artist)
	overrides.Title = metadata.Set(track.Name)
	if len(track.Artists) > 0 {
		overrides.Artist = metadata.Set(track.Artists[0].Name)
	}
	if track.Album.Name != "" {
		overrides.Album = metadata.Set(track.Album.Name)
	}
	if year := yearOf(track.Album.ReleaseDate); year != "" {
		overrides.Year = metadata.Set(year)
	}
	if track.TrackNumber > 0 {
		overrides.Track = metadata.Set(fmt.Sprintf("%02d", track.TrackNumber))
	}

	if len(track.Artists) > 0 {
		if genre := s.artistGenre(ctx, track.Artists[0].ID); genre != "" {
			overrides.Genre = metadata.Set(genre)
		}
	}

	return overrides, nil
}

// pickTrack prefers a result whose primary artist matches the query artist;
// otherwise the first result stands.
func pickTrack(tracks []spotify.FullTrack, artist string) spotify.FullTrack {
	for _, t := range tracks {
		if len(t.Artists) > 0 && strings.EqualFold(t.Artists[0].Name, artist) {
			return t
		}
	}
	return tracks[0]
}

// artistGenre fetches the artist's first listed genre. Failures degrade to
// no genre rather than failing the whole lookup.
func (s *Client) artistGenre(ctx context.Context, id spotify.ID) string {
	full, err := s.client.GetArtist(ctx, id)
	if err != nil || len(full.Genres) == 0 {
		return ""
	}
	return full.Genres[0]
}

// yearOf extracts the year from a Spotify release date, which may be
// "2006-05-23", "2006-05", or "2006" depending on release precision.
func yearOf(date string) string {
	if len(date) < 4 {
		return ""
	}
	if _, err := strconv.Atoi(date[:4]); err != nil {
		return ""
	}
	return date[:4]
}
