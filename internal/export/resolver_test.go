package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/donmerendolo/exportify-cli/internal/models"
	"github.com/donmerendolo/exportify-cli/internal/shared"
	"github.com/donmerendolo/exportify-cli/internal/spotify"
	tu "github.com/donmerendolo/exportify-cli/internal/testing"
)

const (
	testPlaylistID  = "37i9dQZF1DXcBWIGoYBM5M"
	otherPlaylistID = "5FJXhjdILmRA2z5bvz4nzf"
	thirdPlaylistID = "1A2B3C4D5E6F7G8H9I0J1K"
)

func libraryCatalog() *tu.MockCatalog {
	playlists := []spotify.SimplePlaylist{
		{ID: testPlaylistID, Name: "COCHE", Owner: spotify.Owner{ID: "alice"}, Tracks: spotify.TrackCount{Total: 10}},
		{ID: otherPlaylistID, Name: "Workout Mix", Owner: spotify.Owner{ID: "alice"}, Tracks: spotify.TrackCount{Total: 25}},
		{ID: thirdPlaylistID, Name: "workout jams", Owner: spotify.Owner{ID: "alice"}, Tracks: spotify.TrackCount{Total: 5}},
	}
	return &tu.MockCatalog{
		SavedTrackTotalFunc: func(ctx context.Context) (int, error) { return 42, nil },
		CurrentUserPlaylistsFunc: func(ctx context.Context, limit, offset int) (*spotify.PlaylistsPage, error) {
			return &spotify.PlaylistsPage{Items: playlists, Total: len(playlists)}, nil
		},
		PlaylistFunc: func(ctx context.Context, playlistID string) (*spotify.Playlist, error) {
			for _, p := range playlists {
				if p.ID == playlistID {
					return &spotify.Playlist{ID: p.ID, Name: p.Name, Owner: p.Owner, Tracks: p.Tracks}, nil
				}
			}
			return nil, fmt.Errorf("%w: playlist %s", shared.ErrNotFound, playlistID)
		},
	}
}

func TestResolver_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		wantID   string
		wantName string
		wantErr  error
	}{
		{name: "exact name match", token: "COCHE", wantID: testPlaylistID, wantName: "COCHE"},
		{name: "case insensitive substring", token: "coche", wantID: testPlaylistID},
		{name: "substring match", token: "jams", wantID: thirdPlaylistID},
		{name: "exact match beats substring", token: "Workout Mix", wantID: otherPlaylistID},
		{name: "ambiguous substring", token: "workout", wantErr: shared.ErrAmbiguousMatch},
		{name: "no match", token: "does not exist", wantErr: shared.ErrNotFound},
		{name: "empty token", token: "   ", wantErr: shared.ErrInvalidIdentifier},
		{name: "url form", token: "https://open.spotify.com/playlist/" + testPlaylistID + "?si=abc", wantID: testPlaylistID},
		{name: "uri form", token: "spotify:playlist:" + testPlaylistID, wantID: testPlaylistID},
		{name: "bare id", token: testPlaylistID, wantID: testPlaylistID},
		{name: "malformed url", token: "https://open.spotify.com/playlist/short", wantErr: shared.ErrInvalidIdentifier},
		{name: "malformed uri", token: "spotify:playlist:nope", wantErr: shared.ErrInvalidIdentifier},
		{name: "liked songs by name", token: "Liked Songs", wantID: models.LikedSongsID},
		{name: "liked songs by sentinel", token: "liked_songs", wantID: models.LikedSongsID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(libraryCatalog(), nil)
			handle, err := r.Resolve(context.Background(), tt.token)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if handle.ID != tt.wantID {
				t.Errorf("expected ID %q, got %q", tt.wantID, handle.ID)
			}
			if tt.wantName != "" && handle.Name != tt.wantName {
				t.Errorf("expected name %q, got %q", tt.wantName, handle.Name)
			}
		})
	}
}

func TestResolver_DirectFetchBypassesLibrary(t *testing.T) {
	catalog := libraryCatalog()
	libraryCalls := 0
	inner := catalog.CurrentUserPlaylistsFunc
	catalog.CurrentUserPlaylistsFunc = func(ctx context.Context, limit, offset int) (*spotify.PlaylistsPage, error) {
		libraryCalls++
		return inner(ctx, limit, offset)
	}

	r := NewResolver(catalog, nil)
	handle, err := r.Resolve(context.Background(), "spotify:playlist:"+testPlaylistID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if handle.ID != testPlaylistID {
		t.Errorf("expected %q, got %q", testPlaylistID, handle.ID)
	}
	if libraryCalls != 0 {
		t.Errorf("direct fetch should not enumerate the library, got %d calls", libraryCalls)
	}
}

func TestResolver_BareIDFallsBackToNameMatch(t *testing.T) {
	// A 22-character alphanumeric playlist name that is not an actual ID.
	catalog := libraryCatalog()
	name := "aaaaaaaaaaaaaaaaaaaaaa"
	catalog.CurrentUserPlaylistsFunc = func(ctx context.Context, limit, offset int) (*spotify.PlaylistsPage, error) {
		return &spotify.PlaylistsPage{Items: []spotify.SimplePlaylist{
			{ID: testPlaylistID, Name: name, Tracks: spotify.TrackCount{Total: 3}},
		}}, nil
	}
	catalog.PlaylistFunc = func(ctx context.Context, playlistID string) (*spotify.Playlist, error) {
		return nil, fmt.Errorf("%w: playlist %s", shared.ErrNotFound, playlistID)
	}

	r := NewResolver(catalog, nil)
	handle, err := r.Resolve(context.Background(), name)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if handle.ID != testPlaylistID {
		t.Errorf("expected fallback name match to %q, got %q", testPlaylistID, handle.ID)
	}
}

func TestResolver_DirectFetchKeepsErrorType(t *testing.T) {
	catalog := libraryCatalog()
	catalog.PlaylistFunc = func(ctx context.Context, playlistID string) (*spotify.Playlist, error) {
		return nil, fmt.Errorf("%w: GET /playlists/%s returned 401", shared.ErrUnauthorized, playlistID)
	}

	r := NewResolver(catalog, nil)
	_, err := r.Resolve(context.Background(), "spotify:playlist:"+testPlaylistID)
	if !errors.Is(err, shared.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if errors.Is(err, shared.ErrNotFound) {
		t.Errorf("an authorization failure must not read as not-found: %v", err)
	}
}

func TestResolver_BareIDUpstreamErrorStopsFallback(t *testing.T) {
	catalog := libraryCatalog()
	libraryCalls := 0
	inner := catalog.CurrentUserPlaylistsFunc
	catalog.CurrentUserPlaylistsFunc = func(ctx context.Context, limit, offset int) (*spotify.PlaylistsPage, error) {
		libraryCalls++
		return inner(ctx, limit, offset)
	}
	catalog.PlaylistFunc = func(ctx context.Context, playlistID string) (*spotify.Playlist, error) {
		return nil, fmt.Errorf("%w: GET /playlists/%s failed after 5 attempts", shared.ErrRateLimited, playlistID)
	}

	r := NewResolver(catalog, nil)
	_, err := r.Resolve(context.Background(), testPlaylistID)
	if !errors.Is(err, shared.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if libraryCalls != 0 {
		t.Errorf("upstream failure should not fall back to name matching, got %d library calls", libraryCalls)
	}
}

func TestResolver_LibraryShortPages(t *testing.T) {
	catalog := libraryCatalog()
	next := "next"
	pagesByOffset := map[int]*spotify.PlaylistsPage{
		0: {Items: []spotify.SimplePlaylist{{ID: testPlaylistID, Name: "One"}}, Next: &next, Total: 2},
		1: {Items: []spotify.SimplePlaylist{{ID: otherPlaylistID, Name: "Two"}}, Total: 2},
	}
	catalog.CurrentUserPlaylistsFunc = func(ctx context.Context, limit, offset int) (*spotify.PlaylistsPage, error) {
		page, ok := pagesByOffset[offset]
		if !ok {
			return nil, fmt.Errorf("unexpected offset %d", offset)
		}
		return page, nil
	}

	r := NewResolver(catalog, nil)
	handles, err := r.Library(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Liked songs plus both playlists, even though the first page was short.
	if len(handles) != 3 {
		t.Errorf("expected 3 handles, got %d", len(handles))
	}
}

func TestResolver_LibraryFetchedOnce(t *testing.T) {
	catalog := libraryCatalog()
	calls := 0
	inner := catalog.CurrentUserPlaylistsFunc
	catalog.CurrentUserPlaylistsFunc = func(ctx context.Context, limit, offset int) (*spotify.PlaylistsPage, error) {
		calls++
		return inner(ctx, limit, offset)
	}

	r := NewResolver(catalog, nil)
	ctx := context.Background()
	for _, token := range []string{"COCHE", "jams", "Workout Mix"} {
		if _, err := r.Resolve(ctx, token); err != nil {
			t.Fatalf("resolve %q: %v", token, err)
		}
	}
	if calls != 1 {
		t.Errorf("library should be fetched once per run, got %d fetches", calls)
	}
}

func TestResolver_Library(t *testing.T) {
	r := NewResolver(libraryCatalog(), nil)
	handles, err := r.Library(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(handles) != 4 {
		t.Fatalf("expected liked songs plus 3 playlists, got %d", len(handles))
	}
	if !handles[0].IsLikedSongs || handles[0].ID != models.LikedSongsID {
		t.Errorf("first handle should be the liked songs pseudo-playlist, got %+v", handles[0])
	}
	if handles[0].TrackTotal != 42 {
		t.Errorf("expected liked songs total 42, got %d", handles[0].TrackTotal)
	}
}

func TestResolver_ResolveUser(t *testing.T) {
	t.Run("pages public playlists", func(t *testing.T) {
		catalog := libraryCatalog()
		next := "next"
		pagesByOffset := map[int]*spotify.PlaylistsPage{
			0: {Items: []spotify.SimplePlaylist{{ID: testPlaylistID, Name: "One"}}, Next: &next, Total: 2},
			1: {Items: []spotify.SimplePlaylist{{ID: otherPlaylistID, Name: "Two"}}, Total: 2},
		}
		catalog.UserPlaylistsFunc = func(ctx context.Context, userID string, limit, offset int) (*spotify.PlaylistsPage, error) {
			page, ok := pagesByOffset[offset]
			if !ok {
				return nil, fmt.Errorf("unexpected offset %d", offset)
			}
			return page, nil
		}

		r := NewResolver(catalog, nil)
		handles, err := r.ResolveUser(context.Background(), "someuser")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(handles) != 2 {
			t.Errorf("expected 2 handles, got %d", len(handles))
		}
	})

	t.Run("no public playlists is not found", func(t *testing.T) {
		r := NewResolver(libraryCatalog(), nil)
		_, err := r.ResolveUser(context.Background(), "hermit")
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("blank user id is invalid", func(t *testing.T) {
		r := NewResolver(libraryCatalog(), nil)
		_, err := r.ResolveUser(context.Background(), "  ")
		if !errors.Is(err, shared.ErrInvalidIdentifier) {
			t.Errorf("expected ErrInvalidIdentifier, got %v", err)
		}
	})
}

func TestResolver_AmbiguousErrorListsMatches(t *testing.T) {
	r := NewResolver(libraryCatalog(), nil)
	_, err := r.Resolve(context.Background(), "workout")
	if err == nil {
		t.Fatal("expected ambiguity error")
	}
	for _, name := range []string{"Workout Mix", "workout jams"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error should list candidate %q: %v", name, err)
		}
	}
}

func TestParsePlaylistID(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		wantID     string
		wantDirect bool
		wantErr    bool
	}{
		{name: "uri", token: "spotify:playlist:" + testPlaylistID, wantID: testPlaylistID, wantDirect: true},
		{name: "url", token: "https://open.spotify.com/playlist/" + testPlaylistID, wantID: testPlaylistID, wantDirect: true},
		{name: "url with query", token: "https://open.spotify.com/playlist/" + testPlaylistID + "?si=xyz", wantID: testPlaylistID, wantDirect: true},
		{name: "bare id is not direct", token: testPlaylistID, wantID: testPlaylistID, wantDirect: false},
		{name: "plain name", token: "road trip", wantID: "", wantDirect: false},
		{name: "bad uri", token: "spotify:playlist:short", wantErr: true},
		{name: "bad url", token: "https://open.spotify.com/album/xyz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, direct, err := ParsePlaylistID(tt.token)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.token)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id != tt.wantID || direct != tt.wantDirect {
				t.Errorf("expected (%q, %v), got (%q, %v)", tt.wantID, tt.wantDirect, id, direct)
			}
		})
	}
}
