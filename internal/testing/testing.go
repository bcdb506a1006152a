// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"testing"

	"github.com/donmerendolo/exportify-cli/internal/shared"
	"github.com/donmerendolo/exportify-cli/internal/spotify"
)

// MockCatalog is a configurable test double for [export.Catalog]. Each field
// overrides the corresponding method; unset methods return zero values.
type MockCatalog struct {
	MeFunc                   func(ctx context.Context) (*spotify.User, error)
	CurrentUserPlaylistsFunc func(ctx context.Context, limit, offset int) (*spotify.PlaylistsPage, error)
	UserPlaylistsFunc        func(ctx context.Context, userID string, limit, offset int) (*spotify.PlaylistsPage, error)
	PlaylistFunc             func(ctx context.Context, playlistID string) (*spotify.Playlist, error)
	PlaylistTracksFunc       func(ctx context.Context, playlistID string, limit, offset int) (*spotify.TracksPage, error)
	SavedTracksFunc          func(ctx context.Context, limit, offset int) (*spotify.TracksPage, error)
	SavedTrackTotalFunc      func(ctx context.Context) (int, error)
	AlbumsFunc               func(ctx context.Context, albumIDs []string) ([]spotify.Album, error)
}

func (m *MockCatalog) Me(ctx context.Context) (*spotify.User, error) {
	if m.MeFunc != nil {
		return m.MeFunc(ctx)
	}
	return &spotify.User{ID: "mockuser"}, nil
}

func (m *MockCatalog) CurrentUserPlaylists(ctx context.Context, limit, offset int) (*spotify.PlaylistsPage, error) {
	if m.CurrentUserPlaylistsFunc != nil {
		return m.CurrentUserPlaylistsFunc(ctx, limit, offset)
	}
	return &spotify.PlaylistsPage{}, nil
}

func (m *MockCatalog) UserPlaylists(ctx context.Context, userID string, limit, offset int) (*spotify.PlaylistsPage, error) {
	if m.UserPlaylistsFunc != nil {
		return m.UserPlaylistsFunc(ctx, userID, limit, offset)
	}
	return &spotify.PlaylistsPage{}, nil
}

func (m *MockCatalog) Playlist(ctx context.Context, playlistID string) (*spotify.Playlist, error) {
	if m.PlaylistFunc != nil {
		return m.PlaylistFunc(ctx, playlistID)
	}
	return nil, fmt.Errorf("%w: playlist %s not configured", shared.ErrNotFound, playlistID)
}

func (m *MockCatalog) PlaylistTracks(ctx context.Context, playlistID string, limit, offset int) (*spotify.TracksPage, error) {
	if m.PlaylistTracksFunc != nil {
		return m.PlaylistTracksFunc(ctx, playlistID, limit, offset)
	}
	return &spotify.TracksPage{}, nil
}

func (m *MockCatalog) SavedTracks(ctx context.Context, limit, offset int) (*spotify.TracksPage, error) {
	if m.SavedTracksFunc != nil {
		return m.SavedTracksFunc(ctx, limit, offset)
	}
	return &spotify.TracksPage{}, nil
}

func (m *MockCatalog) SavedTrackTotal(ctx context.Context) (int, error) {
	if m.SavedTrackTotalFunc != nil {
		return m.SavedTrackTotalFunc(ctx)
	}
	return 0, nil
}

func (m *MockCatalog) Albums(ctx context.Context, albumIDs []string) ([]spotify.Album, error) {
	if m.AlbumsFunc != nil {
		return m.AlbumsFunc(ctx, albumIDs)
	}
	return nil, nil
}

// MemoryAlbumSource is an in-memory test double for [export.AlbumSource].
type MemoryAlbumSource struct {
	Store map[string]spotify.Album
	Gets  int
	Puts  int
}

func NewMemoryAlbumSource() *MemoryAlbumSource {
	return &MemoryAlbumSource{Store: map[string]spotify.Album{}}
}

func (m *MemoryAlbumSource) Get(ids []string) (map[string]spotify.Album, error) {
	m.Gets++
	found := map[string]spotify.Album{}
	for _, id := range ids {
		if album, ok := m.Store[id]; ok {
			found[id] = album
		}
	}
	return found, nil
}

func (m *MemoryAlbumSource) Put(albums []spotify.Album) error {
	m.Puts++
	for _, album := range albums {
		m.Store[album.ID] = album
	}
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
