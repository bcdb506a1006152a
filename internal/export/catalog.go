package export

import (
	"context"

	"github.com/donmerendolo/exportify-cli/internal/spotify"
)

// Catalog defines the read operations the pipeline needs from the remote
// music service. Implemented by [spotify.Client]; mocked in tests.
type Catalog interface {
	// Me retrieves the authenticated user's profile.
	Me(ctx context.Context) (*spotify.User, error)

	// CurrentUserPlaylists retrieves one page of the caller's playlists.
	CurrentUserPlaylists(ctx context.Context, limit, offset int) (*spotify.PlaylistsPage, error)

	// UserPlaylists retrieves one page of a user's public playlists.
	UserPlaylists(ctx context.Context, userID string, limit, offset int) (*spotify.PlaylistsPage, error)

	// Playlist retrieves a playlist by ID, whether or not the caller follows it.
	Playlist(ctx context.Context, playlistID string) (*spotify.Playlist, error)

	// PlaylistTracks retrieves one page of a playlist's track listing.
	PlaylistTracks(ctx context.Context, playlistID string, limit, offset int) (*spotify.TracksPage, error)

	// SavedTracks retrieves one page of the caller's liked songs.
	SavedTracks(ctx context.Context, limit, offset int) (*spotify.TracksPage, error)

	// SavedTrackTotal returns the liked-songs count without fetching tracks.
	SavedTrackTotal(ctx context.Context) (int, error)

	// Albums retrieves full album detail for up to spotify.AlbumBatchSize IDs.
	Albums(ctx context.Context, albumIDs []string) ([]spotify.Album, error)
}

// AlbumSource is the optional album-detail cache consulted before batched
// upstream lookups. A nil AlbumSource disables caching.
type AlbumSource interface {
	Get(ids []string) (map[string]spotify.Album, error)
	Put(albums []spotify.Album) error
}
