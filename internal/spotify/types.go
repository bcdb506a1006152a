package spotify

// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/

// User represents a Spotify user profile.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// ExternalIDs carries the external identifiers attached to tracks (ISRC) and
// albums (UPC).
type ExternalIDs struct {
	ISRC string `json:"isrc"`
	UPC  string `json:"upc"`
}

// Artist represents a Spotify artist reference.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SimpleAlbum is the album object embedded in track listings. It lacks the
// record label and UPC, which require a full [Album] fetch.
type SimpleAlbum struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []Artist `json:"artists"`
	ReleaseDate string   `json:"release_date"`
	URI         string   `json:"uri"`
}

// Album is the full album object returned by the batched albums endpoint.
type Album struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Artists     []Artist    `json:"artists"`
	ReleaseDate string      `json:"release_date"`
	Label       string      `json:"label"`
	ExternalIDs ExternalIDs `json:"external_ids"`
	URI         string      `json:"uri"`
}

// Track represents a Spotify track.
type Track struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Artists     []Artist    `json:"artists"`
	Album       SimpleAlbum `json:"album"`
	DurationMS  int         `json:"duration_ms"`
	ExternalIDs ExternalIDs `json:"external_ids"`
	// Popularity is absent for unavailable tracks; nil keeps that
	// distinguishable from a real score of zero.
	Popularity *int `json:"popularity"`
	ReleaseDate string      `json:"release_date"` // episodes only
	URI         string      `json:"uri"`
}

// AddedBy identifies the user who added a track to a playlist.
type AddedBy struct {
	ID string `json:"id"`
}

// PlaylistTrack represents a track within a playlist context. Track is nil
// for entries whose underlying track has been removed; such entries still
// occupy a position in the listing.
type PlaylistTrack struct {
	AddedAt string  `json:"added_at"`
	AddedBy AddedBy `json:"added_by"`
	Track   *Track  `json:"track"`
}

// TracksPage is one page of a playlist's (or the saved-tracks) listing.
type TracksPage struct {
	Items  []PlaylistTrack `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
	Next   *string         `json:"next"`
}

// Owner identifies a playlist's owning user.
type Owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// TrackCount is the embedded tracks object carrying only the listing total.
type TrackCount struct {
	Total int `json:"total"`
}

// SimplePlaylist represents a simplified playlist object used in listings.
type SimplePlaylist struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Owner  Owner      `json:"owner"`
	Public bool       `json:"public"`
	Tracks TrackCount `json:"tracks"`
	URI    string     `json:"uri"`
}

// PlaylistsPage is one page of a playlist listing.
type PlaylistsPage struct {
	Items  []SimplePlaylist `json:"items"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
	Next   *string          `json:"next"`
}

// Playlist represents a full playlist object fetched by ID.
type Playlist struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Owner  Owner      `json:"owner"`
	Public bool       `json:"public"`
	Tracks TrackCount `json:"tracks"`
	URI    string     `json:"uri"`
}
