// Package spotify wraps authenticated calls to the Spotify Web API.
//
// The [Client] covers only the read operations the exporter needs: the
// caller's playlists, another user's public playlists, playlist and
// saved-track pages, and batched album detail lookups. Every request goes
// through a shared [rate.Limiter] and a retry loop with exponential backoff
// on transient failures.
package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/donmerendolo/exportify-cli/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// AlbumBatchSize is the upstream limit on IDs per albums request.
	AlbumBatchSize = 20

	// PageLimit is the page size used for playlist and track listings.
	PageLimit = 50

	maxAttempts    = 5
	initialBackoff = 500 * time.Millisecond
)

// Client performs authenticated requests against the Spotify Web API.
// Uses [oauth2] for authentication and token refresh.
type Client struct {
	config     *oauth2.Config
	token      *oauth2.Token
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// NewClient creates a Client from stored credentials. The returned client is
// unauthenticated until [Client.Authenticate] is called.
func NewClient(creds shared.SpotifyConfig) (*Client, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing spotify client_id or client_secret", shared.ErrConfigMissing)
	}

	redirectURI := creds.RedirectURI
	if redirectURI == "" {
		redirectURI = "http://127.0.0.1:3000/callback"
	}

	config := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"playlist-read-private",
			"playlist-read-collaborative",
			"user-library-read",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &Client{
		config:     config,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(5), 1),
		baseURL:    spotifyBaseURL,
	}, nil
}

// SetRateLimit adjusts the request rate limit in requests per second.
func (c *Client) SetRateLimit(rps float64) {
	if rps > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// Authenticate installs a stored token. The underlying [oauth2] transport
// refreshes it transparently when a refresh token is present.
func (c *Client) Authenticate(ctx context.Context, token *oauth2.Token) error {
	if token == nil || (token.AccessToken == "" && token.RefreshToken == "") {
		return fmt.Errorf("%w: run `exportify auth` to log in", shared.ErrAuthMissing)
	}
	c.token = token
	c.httpClient = c.config.Client(ctx, token)
	return nil
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (c *Client) GetAuthURL(state string) string {
	return c.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// GetOAuthConfig exposes the [oauth2.Config] for the local callback server.
func (c *Client) GetOAuthConfig() *oauth2.Config {
	return c.config
}

// doRequest performs an authenticated GET against the API with rate limiting
// and retries. Transient failures (429, 5xx, transport errors) back off
// exponentially up to maxAttempts; a 429 Retry-After header overrides the
// computed backoff. 401 responses surface shared.ErrUnauthorized immediately,
// and 404 responses surface shared.ErrNotFound.
func (c *Client) doRequest(ctx context.Context, endpoint string, result any) error {
	if c.token == nil {
		return fmt.Errorf("%w: client not authenticated", shared.ErrAuthMissing)
	}

	apiURL := c.baseURL + endpoint
	backoff := initialBackoff

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			var retrieveErr *oauth2.RetrieveError
			if errors.As(err, &retrieveErr) {
				return fmt.Errorf("%w: token refresh rejected: %v", shared.ErrUnauthorized, retrieveErr)
			}
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			resp.Body.Close()
			return fmt.Errorf("%w: GET %s returned 401", shared.ErrUnauthorized, endpoint)
		case resp.StatusCode == http.StatusNotFound:
			resp.Body.Close()
			return fmt.Errorf("%w: GET %s returned 404", shared.ErrNotFound, endpoint)
		case resp.StatusCode == http.StatusTooManyRequests:
			if wait := retryAfter(resp); wait > 0 {
				backoff = wait
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("GET %s returned 429", endpoint)
			continue
		case resp.StatusCode >= 500:
			resp.Body.Close()
			lastErr = fmt.Errorf("GET %s returned %d", endpoint, resp.StatusCode)
			continue
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			resp.Body.Close()
			return fmt.Errorf("%w: GET %s returned %d", shared.ErrUpstream, endpoint, resp.StatusCode)
		}

		if result != nil {
			if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
				resp.Body.Close()
				return fmt.Errorf("%w: failed to decode response for %s: %v", shared.ErrUpstream, endpoint, err)
			}
		}
		resp.Body.Close()
		return nil
	}

	return fmt.Errorf("%w: GET %s failed after %d attempts: %v", shared.ErrRateLimited, endpoint, maxAttempts, lastErr)
}

func retryAfter(resp *http.Response) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// Me retrieves the current authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.doRequest(ctx, "/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CurrentUserPlaylists retrieves one page of the caller's playlists.
func (c *Client) CurrentUserPlaylists(ctx context.Context, limit, offset int) (*PlaylistsPage, error) {
	endpoint := fmt.Sprintf("/me/playlists?limit=%d&offset=%d", clampLimit(limit), offset)

	var page PlaylistsPage
	if err := c.doRequest(ctx, endpoint, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UserPlaylists retrieves one page of a user's public playlists.
func (c *Client) UserPlaylists(ctx context.Context, userID string, limit, offset int) (*PlaylistsPage, error) {
	endpoint := fmt.Sprintf("/users/%s/playlists?limit=%d&offset=%d", url.PathEscape(userID), clampLimit(limit), offset)

	var page PlaylistsPage
	if err := c.doRequest(ctx, endpoint, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Playlist retrieves a playlist by ID.
func (c *Client) Playlist(ctx context.Context, playlistID string) (*Playlist, error) {
	var playlist Playlist
	if err := c.doRequest(ctx, fmt.Sprintf("/playlists/%s", url.PathEscape(playlistID)), &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// PlaylistTracks retrieves one page of a playlist's track listing.
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string, limit, offset int) (*TracksPage, error) {
	endpoint := fmt.Sprintf("/playlists/%s/tracks?limit=%d&offset=%d", url.PathEscape(playlistID), clampLimit(limit), offset)

	var page TracksPage
	if err := c.doRequest(ctx, endpoint, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SavedTracks retrieves one page of the caller's liked songs.
func (c *Client) SavedTracks(ctx context.Context, limit, offset int) (*TracksPage, error) {
	endpoint := fmt.Sprintf("/me/tracks?limit=%d&offset=%d", clampLimit(limit), offset)

	var page TracksPage
	if err := c.doRequest(ctx, endpoint, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SavedTrackTotal returns the number of liked songs without fetching them.
func (c *Client) SavedTrackTotal(ctx context.Context) (int, error) {
	page, err := c.SavedTracks(ctx, 1, 0)
	if err != nil {
		return 0, err
	}
	return page.Total, nil
}

// Albums retrieves full album objects for up to [AlbumBatchSize] IDs.
func (c *Client) Albums(ctx context.Context, albumIDs []string) ([]Album, error) {
	if len(albumIDs) == 0 {
		return nil, nil
	}
	if len(albumIDs) > AlbumBatchSize {
		return nil, fmt.Errorf("maximum %d album IDs allowed", AlbumBatchSize)
	}

	endpoint := fmt.Sprintf("/albums?ids=%s", url.QueryEscape(strings.Join(albumIDs, ",")))

	var response struct {
		Albums []Album `json:"albums"`
	}
	if err := c.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}
	return response.Albums, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > PageLimit {
		return PageLimit
	}
	return limit
}
