package models

// LikedSongsID is the sentinel playlist ID for the user's saved-tracks
// collection, which has no real ID upstream.
const LikedSongsID = "liked_songs"

// PlaylistHandle is a resolved, concrete reference to one playlist.
type PlaylistHandle struct {
	ID           string
	Name         string
	Owner        string
	TrackTotal   int
	IsLikedSongs bool
}

// LikedSongsHandle returns the pseudo-playlist handle for the caller's saved
// tracks.
func LikedSongsHandle(total int) PlaylistHandle {
	return PlaylistHandle{
		ID:           LikedSongsID,
		Name:         "Liked Songs",
		TrackTotal:   total,
		IsLikedSongs: true,
	}
}

// TrackRecord is one track-in-playlist occurrence. Position is 1-based and
// dense within a playlist export; it follows upstream ordering before any
// requested sort. A removed/null upstream entry still yields a record with
// Missing set and only Position populated, so positions never skip.
type TrackRecord struct {
	Position    int
	TrackURI    string
	TrackName   string
	AlbumName   string
	ArtistNames []string
	ArtistURIs  []string
	AlbumURI    string
	ReleaseDate string
	DurationMS  int
	Popularity  *int // nil when absent upstream, exported as a blank
	AddedBy     string
	AddedAt     string
	Label       string
	ISRC        string
	UPC         string
	Missing     bool
}

// ExportTarget is one unit of work for the export engine: a playlist handle
// plus the output formats requested for it.
type ExportTarget struct {
	Handle  PlaylistHandle
	Formats []string
}
