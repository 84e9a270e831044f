// Spotify Web API implementation of the catalog reader and the playback queue
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/classificone/internal/models"
	"github.com/desertthunder/classificone/internal/shared"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

// maxTracksPerRequest is the Spotify limit for GET /tracks.
const maxTracksPerRequest = 50

// SpotifyOAuthConfig returns the authorization-code configuration with the scopes needed to read and modify the queue playlist.
func SpotifyOAuthConfig(cfg shared.SpotifyConfig) *oauth2.Config {
	redirectURI := cfg.RedirectURI
	if redirectURI == "" {
		redirectURI = "http://127.0.0.1:3000/callback"
	}

	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			spotifyauth.ScopePlaylistReadPrivate,
			spotifyauth.ScopePlaylistReadCollaborative,
			spotifyauth.ScopePlaylistModifyPublic,
			spotifyauth.ScopePlaylistModifyPrivate,
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyauth.AuthURL,
			TokenURL: spotifyauth.TokenURL,
		},
	}
}

// SpotifyCatalog resolves entity references into tracks and album metadata. It never writes.
type SpotifyCatalog struct {
	client *spotify.Client
}

// NewSpotifyCatalog creates a catalog reader over client.
func NewSpotifyCatalog(client *spotify.Client) *SpotifyCatalog {
	return &SpotifyCatalog{client: client}
}

// AlbumTracks returns the tracks of ref in catalog order with their popularity.
// A track reference yields the track itself.
func (c *SpotifyCatalog) AlbumTracks(ctx context.Context, ref models.EntityReference) ([]models.TrackCandidate, error) {
	if ref.Type == models.EntityTrack {
		track, err := c.client.GetTrack(ctx, spotify.ID(ref.ID))
		if err != nil {
			return nil, fmt.Errorf("%w: get track %s: %v", shared.ErrCatalogUnavailable, ref.ID, err)
		}
		return []models.TrackCandidate{toCandidate(track)}, nil
	}

	ids, err := c.albumTrackIDs(ctx, spotify.ID(ref.ID))
	if err != nil {
		return nil, err
	}

	candidates := make([]models.TrackCandidate, 0, len(ids))
	for start := 0; start < len(ids); start += maxTracksPerRequest {
		end := min(start+maxTracksPerRequest, len(ids))

		full, err := c.client.GetTracks(ctx, ids[start:end])
		if err != nil {
			return nil, fmt.Errorf("%w: get tracks for album %s: %v", shared.ErrCatalogUnavailable, ref.ID, err)
		}
		for _, t := range full {
			if t == nil {
				continue
			}
			candidates = append(candidates, toCandidate(t))
		}
	}

	return candidates, nil
}

// albumTrackIDs walks every page of the album's track listing.
func (c *SpotifyCatalog) albumTrackIDs(ctx context.Context, albumID spotify.ID) ([]spotify.ID, error) {
	page, err := c.client.GetAlbumTracks(ctx, albumID, spotify.Limit(maxTracksPerRequest))
	if err != nil {
		return nil, fmt.Errorf("%w: get album tracks %s: %v", shared.ErrCatalogUnavailable, albumID, err)
	}

	var ids []spotify.ID
	for {
		for _, t := range page.Tracks {
			ids = append(ids, t.ID)
		}

		err := c.client.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			return ids, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: album tracks pagination: %v", shared.ErrCatalogUnavailable, err)
		}
	}
}

// Metadata returns artist, title, release type and year for ref. Tracks report their album.
func (c *SpotifyCatalog) Metadata(ctx context.Context, ref models.EntityReference) (models.AlbumMetadata, error) {
	var album spotify.SimpleAlbum

	switch ref.Type {
	case models.EntityTrack:
		track, err := c.client.GetTrack(ctx, spotify.ID(ref.ID))
		if err != nil {
			return models.AlbumMetadata{}, fmt.Errorf("%w: get track %s: %v", shared.ErrCatalogUnavailable, ref.ID, err)
		}
		album = track.Album
	default:
		full, err := c.client.GetAlbum(ctx, spotify.ID(ref.ID))
		if err != nil {
			return models.AlbumMetadata{}, fmt.Errorf("%w: get album %s: %v", shared.ErrCatalogUnavailable, ref.ID, err)
		}
		album = full.SimpleAlbum
	}

	meta := models.AlbumMetadata{
		Title: album.Name,
		Type:  album.AlbumType,
		Year:  models.ReleaseYear(album.ReleaseDate),
	}
	if len(album.Artists) > 0 {
		meta.Artist = album.Artists[0].Name
	}
	return meta, nil
}

func toCandidate(t *spotify.FullTrack) models.TrackCandidate {
	return models.TrackCandidate{
		Name:       t.Name,
		Popularity: int(t.Popularity),
		URI:        string(t.URI),
		ID:         t.ID.String(),
	}
}

// SpotifyPlaylist is the playback queue: one playlist that receives the selected tracks.
type SpotifyPlaylist struct {
	client *spotify.Client
	id     spotify.ID
}

// NewSpotifyPlaylist creates a queue over the playlist named by queueID (URI, URL or bare ID).
func NewSpotifyPlaylist(client *spotify.Client, queueID string) (*SpotifyPlaylist, error) {
	id := ParsePlaylistID(queueID)
	if id == "" {
		return nil, fmt.Errorf("%w: empty playlist id", shared.ErrInvalidConfig)
	}
	return &SpotifyPlaylist{client: client, id: spotify.ID(id)}, nil
}

// Tracks returns every track currently in the playlist, in playlist order. Episodes and local files are skipped.
func (p *SpotifyPlaylist) Tracks(ctx context.Context) ([]models.TrackCandidate, error) {
	page, err := p.client.GetPlaylistItems(ctx, p.id)
	if err != nil {
		return nil, fmt.Errorf("%w: get playlist %s: %v", shared.ErrQueueUnavailable, p.id, err)
	}

	var tracks []models.TrackCandidate
	for {
		for _, item := range page.Items {
			if item.Track.Track == nil || item.Track.Track.URI == "" {
				continue
			}
			tracks = append(tracks, toCandidate(item.Track.Track))
		}

		err := p.client.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			return tracks, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: playlist pagination: %v", shared.ErrQueueUnavailable, err)
		}
	}
}

// TrackURIs returns the URIs currently enqueued.
func (p *SpotifyPlaylist) TrackURIs(ctx context.Context) ([]string, error) {
	tracks, err := p.Tracks(ctx)
	if err != nil {
		return nil, err
	}

	uris := make([]string, len(tracks))
	for i, t := range tracks {
		uris[i] = t.URI
	}
	return uris, nil
}

// Append adds track URIs to the end of the playlist.
func (p *SpotifyPlaylist) Append(ctx context.Context, uris ...string) error {
	ids := make([]spotify.ID, 0, len(uris))
	for _, uri := range uris {
		ref, err := models.ParseURI(uri)
		if err != nil || ref.Type != models.EntityTrack {
			return fmt.Errorf("%w: not a track uri: %s", shared.ErrInvalidArgument, uri)
		}
		ids = append(ids, spotify.ID(ref.ID))
	}

	if _, err := p.client.AddTracksToPlaylist(ctx, p.id, ids...); err != nil {
		return fmt.Errorf("%w: add to playlist %s: %v", shared.ErrQueueUnavailable, p.id, err)
	}
	return nil
}

// ParsePlaylistID accepts "spotify:playlist:ID", an open.spotify.com playlist URL, or a bare ID.
func ParsePlaylistID(s string) string {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "spotify:playlist:"); ok {
		return rest
	}
	if _, rest, ok := strings.Cut(s, "/playlist/"); ok {
		id, _, _ := strings.Cut(rest, "?")
		return strings.TrimSuffix(id, "/")
	}
	return s
}
