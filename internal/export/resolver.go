package export

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/donmerendolo/exportify-cli/internal/models"
	"github.com/donmerendolo/exportify-cli/internal/shared"
	"github.com/donmerendolo/exportify-cli/internal/spotify"
)

var (
	playlistIDPattern  = regexp.MustCompile(`^[A-Za-z0-9]{22}$`)
	playlistURLPattern = regexp.MustCompile(`playlists?/([A-Za-z0-9]{22})`)
)

const playlistURIPrefix = "spotify:playlist:"

// Resolver maps user-supplied tokens (names, IDs, URLs, URIs) to concrete
// playlist handles.
//
// The caller's library is fetched once per run and treated as an immutable
// snapshot, so identity stays stable even if the library changes upstream
// mid-run.
type Resolver struct {
	catalog Catalog
	logger  *log.Logger
	library []models.PlaylistHandle
	loaded  bool
}

// NewResolver creates a Resolver backed by the given catalog.
func NewResolver(catalog Catalog, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Resolver{catalog: catalog, logger: logger}
}

// Library returns the snapshot of the caller's playlists, with the
// liked-songs pseudo-playlist first. The snapshot is fetched on first use and
// never refreshed within a run.
func (r *Resolver) Library(ctx context.Context) ([]models.PlaylistHandle, error) {
	if r.loaded {
		return r.library, nil
	}

	likedTotal, err := r.catalog.SavedTrackTotal(ctx)
	if err != nil {
		return nil, err
	}

	handles := []models.PlaylistHandle{models.LikedSongsHandle(likedTotal)}

	offset := 0
	for {
		page, err := r.catalog.CurrentUserPlaylists(ctx, spotify.PageLimit, offset)
		if err != nil {
			return nil, err
		}
		for _, p := range page.Items {
			handles = append(handles, simpleHandle(p))
		}
		if page.Next == nil || len(page.Items) == 0 {
			break
		}
		// Advance by items received, not the requested page size, so short
		// pages never skip playlists.
		offset += len(page.Items)
	}

	r.library = handles
	r.loaded = true
	return handles, nil
}

// ResolveAll enumerates every playlist the caller owns or follows, plus the
// liked-songs pseudo-playlist.
func (r *Resolver) ResolveAll(ctx context.Context) ([]models.PlaylistHandle, error) {
	return r.Library(ctx)
}

// ResolveUser enumerates a user's public playlists. The user's liked songs
// are private and never included.
func (r *Resolver) ResolveUser(ctx context.Context, userID string) ([]models.PlaylistHandle, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: empty user identifier", shared.ErrInvalidIdentifier)
	}

	var handles []models.PlaylistHandle
	offset := 0
	for {
		page, err := r.catalog.UserPlaylists(ctx, userID, spotify.PageLimit, offset)
		if err != nil {
			return nil, err
		}
		for _, p := range page.Items {
			handles = append(handles, simpleHandle(p))
		}
		if page.Next == nil || len(page.Items) == 0 {
			break
		}
		offset += len(page.Items)
	}

	if len(handles) == 0 {
		return nil, fmt.Errorf("%w: user %q has no public playlists", shared.ErrNotFound, userID)
	}
	return handles, nil
}

// Resolve maps one token to a playlist handle. URL, URI, and bare ID shapes
// fetch the playlist directly, which is the only path that can export a
// playlist the caller has not saved. Anything else is a name query against
// the library snapshot: a literal "liked songs" maps to the pseudo-playlist,
// an exact name or ID match wins outright, and otherwise exactly one
// case-insensitive substring match is required.
func (r *Resolver) Resolve(ctx context.Context, token string) (models.PlaylistHandle, error) {
	var none models.PlaylistHandle

	token = strings.TrimSpace(token)
	if token == "" {
		return none, fmt.Errorf("%w: empty token", shared.ErrInvalidIdentifier)
	}

	if isLikedSongsQuery(token) {
		total, err := r.catalog.SavedTrackTotal(ctx)
		if err != nil {
			return none, err
		}
		return models.LikedSongsHandle(total), nil
	}

	id, direct, err := ParsePlaylistID(token)
	if err != nil {
		return none, err
	}
	if direct {
		return r.fetchHandle(ctx, token, id)
	}
	if id != "" {
		// Bare 22-character alphanumeric token: treat it as an ID first, but
		// fall through to name matching when no such playlist exists. Other
		// upstream failures (expired credentials, exhausted retries) surface
		// as-is instead of masquerading as a missing playlist.
		h, err := r.fetchHandle(ctx, token, id)
		if err == nil {
			return h, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return none, err
		}
	}

	library, err := r.Library(ctx)
	if err != nil {
		return none, err
	}

	var exact []models.PlaylistHandle
	for _, h := range library {
		if strings.EqualFold(h.Name, token) || h.ID == token {
			exact = append(exact, h)
		}
	}
	if len(exact) == 1 {
		return exact[0], nil
	}
	if len(exact) > 1 {
		return none, ambiguous(token, exact)
	}

	var partial []models.PlaylistHandle
	lower := strings.ToLower(token)
	for _, h := range library {
		if strings.Contains(strings.ToLower(h.Name), lower) {
			partial = append(partial, h)
		}
	}

	switch len(partial) {
	case 1:
		return partial[0], nil
	case 0:
		return none, fmt.Errorf("%w: %q", shared.ErrNotFound, token)
	default:
		return none, ambiguous(token, partial)
	}
}

// fetchHandle fetches a playlist by ID regardless of library membership.
// Only a genuine not-found response is reported as [shared.ErrNotFound];
// everything else keeps its original error chain so unauthorized and
// rate-limit conditions stay distinguishable.
func (r *Resolver) fetchHandle(ctx context.Context, token, id string) (models.PlaylistHandle, error) {
	playlist, err := r.catalog.Playlist(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return models.PlaylistHandle{}, fmt.Errorf("%w: %q", shared.ErrNotFound, token)
		}
		return models.PlaylistHandle{}, fmt.Errorf("fetch playlist %q: %w", token, err)
	}
	return models.PlaylistHandle{
		ID:         playlist.ID,
		Name:       playlist.Name,
		Owner:      playlist.Owner.ID,
		TrackTotal: playlist.Tracks.Total,
	}, nil
}

// ParsePlaylistID extracts a playlist ID from a token.
//
// Returns (id, true, nil) for URL and URI forms, which must be fetched
// directly. A bare 22-character alphanumeric token returns (id, false, nil):
// probably an ID, but the caller may fall back to name matching when no such
// playlist exists. Tokens that look like URLs or URIs without a valid
// embedded ID are malformed.
func ParsePlaylistID(token string) (string, bool, error) {
	if rest, ok := strings.CutPrefix(token, playlistURIPrefix); ok {
		if !playlistIDPattern.MatchString(rest) {
			return "", false, fmt.Errorf("%w: %q", shared.ErrInvalidIdentifier, token)
		}
		return rest, true, nil
	}

	if strings.Contains(token, "spotify.com") || strings.Contains(token, "://") {
		m := playlistURLPattern.FindStringSubmatch(token)
		if m == nil {
			return "", false, fmt.Errorf("%w: %q", shared.ErrInvalidIdentifier, token)
		}
		return m[1], true, nil
	}

	if playlistIDPattern.MatchString(token) {
		return token, false, nil
	}

	return "", false, nil
}

func isLikedSongsQuery(token string) bool {
	t := strings.ToLower(strings.TrimSpace(token))
	return t == "liked songs" || t == models.LikedSongsID
}

func ambiguous(token string, matches []models.PlaylistHandle) error {
	names := make([]string, len(matches))
	for i, h := range matches {
		names[i] = h.Name
	}
	return fmt.Errorf("%w: %q matches %s", shared.ErrAmbiguousMatch, token, strings.Join(names, ", "))
}

func simpleHandle(p spotify.SimplePlaylist) models.PlaylistHandle {
	return models.PlaylistHandle{
		ID:         p.ID,
		Name:       p.Name,
		Owner:      p.Owner.ID,
		TrackTotal: p.Tracks.Total,
	}
}
