package export

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/donmerendolo/exportify-cli/internal/models"
	"github.com/donmerendolo/exportify-cli/internal/shared"
	"github.com/donmerendolo/exportify-cli/internal/spotify"
)

// Aggregator pages a playlist's track listing to completion and backfills
// supplementary album detail (record label, UPC) via batched lookups.
type Aggregator struct {
	catalog Catalog
	albums  AlbumSource
	logger  *log.Logger
}

// AggregateResult holds the normalized records for one playlist.
//
// Partial is set when base track data was retrieved but some supplementary
// album lookups failed; the affected fields stay blank and Warnings explains
// what was skipped.
type AggregateResult struct {
	Records  []models.TrackRecord
	Partial  bool
	Warnings []string
}

// NewAggregator creates an Aggregator. The album source may be nil to
// disable caching.
func NewAggregator(catalog Catalog, albums AlbumSource, logger *log.Logger) *Aggregator {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Aggregator{catalog: catalog, albums: albums, logger: logger}
}

// Aggregate fetches every track entry for the handle in upstream order and
// produces one record per entry with positions forming a dense 1..N
// sequence. Entries whose underlying track was removed keep their position
// with blank metadata. Album detail is fetched only when the field set
// includes columns that need it.
func (a *Aggregator) Aggregate(ctx context.Context, handle models.PlaylistHandle, fields FieldSet, progress chan<- ProgressUpdate) (*AggregateResult, error) {
	items, err := a.fetchAllTracks(ctx, handle, progress)
	if err != nil {
		return nil, err
	}

	result := &AggregateResult{}

	var albums map[string]spotify.Album
	if fields.NeedsAlbumDetail() {
		albums, err = a.fetchAlbumDetail(ctx, handle.Name, items, progress, result)
		if err != nil {
			return nil, err
		}
	}

	result.Records = make([]models.TrackRecord, 0, len(items))
	for i, item := range items {
		result.Records = append(result.Records, buildRecord(i+1, item, albums))
	}

	return result, nil
}

// fetchAllTracks pages the listing endpoint until exhausted, accumulating
// entries in arrival order. Arrival order is the positional order of truth.
func (a *Aggregator) fetchAllTracks(ctx context.Context, handle models.PlaylistHandle, progress chan<- ProgressUpdate) ([]spotify.PlaylistTrack, error) {
	var items []spotify.PlaylistTrack

	offset := 0
	for {
		var page *spotify.TracksPage
		var err error
		if handle.IsLikedSongs {
			page, err = a.catalog.SavedTracks(ctx, spotify.PageLimit, offset)
		} else {
			page, err = a.catalog.PlaylistTracks(ctx, handle.ID, spotify.PageLimit, offset)
		}
		if err != nil {
			return nil, err
		}

		items = append(items, page.Items...)
		sendProgress(progress, fetchTracksUpdate(handle.Name, len(items), page.Total))

		if page.Next == nil || len(page.Items) == 0 || len(items) >= page.Total {
			break
		}
		offset = len(items)
	}

	return items, nil
}

// fetchAlbumDetail resolves full album objects for every distinct album ID in
// the listing, consulting the cache first and batching upstream lookups. A
// failed batch downgrades to PartialData: the run proceeds and the albums
// from that batch stay blank.
func (a *Aggregator) fetchAlbumDetail(ctx context.Context, name string, items []spotify.PlaylistTrack, progress chan<- ProgressUpdate, result *AggregateResult) (map[string]spotify.Album, error) {
	seen := map[string]bool{}
	var ids []string
	for _, item := range items {
		if item.Track == nil || item.Track.Album.ID == "" || seen[item.Track.Album.ID] {
			continue
		}
		seen[item.Track.Album.ID] = true
		ids = append(ids, item.Track.Album.ID)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	albums := map[string]spotify.Album{}
	if a.albums != nil {
		cached, err := a.albums.Get(ids)
		if err != nil {
			a.logger.Warn("album cache read failed", "error", err)
		} else {
			albums = cached
		}
	}

	var missing []string
	for _, id := range ids {
		if _, ok := albums[id]; !ok {
			missing = append(missing, id)
		}
	}
	sendProgress(progress, fetchAlbumsUpdate(name, len(albums), len(ids)))

	for start := 0; start < len(missing); start += spotify.AlbumBatchSize {
		end := min(start+spotify.AlbumBatchSize, len(missing))
		batch := missing[start:end]

		fetched, err := a.catalog.Albums(ctx, batch)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			result.Partial = true
			warning := fmt.Sprintf("album detail unavailable for %d albums: %v", len(batch), err)
			result.Warnings = append(result.Warnings, warning)
			a.logger.Warn("proceeding with blank album fields", "playlist", name, "error", fmt.Errorf("%w: %v", shared.ErrPartialData, err))
			continue
		}

		for _, album := range fetched {
			if album.ID != "" {
				albums[album.ID] = album
			}
		}
		if a.albums != nil {
			if err := a.albums.Put(fetched); err != nil {
				a.logger.Warn("album cache write failed", "error", err)
			}
		}
		sendProgress(progress, fetchAlbumsUpdate(name, len(albums), len(ids)))
	}

	return albums, nil
}

// buildRecord flattens one listing entry. A nil track produces a record with
// only its position populated.
func buildRecord(position int, item spotify.PlaylistTrack, albums map[string]spotify.Album) models.TrackRecord {
	if item.Track == nil {
		return models.TrackRecord{Position: position, Missing: true}
	}

	track := item.Track
	record := models.TrackRecord{
		Position:    position,
		TrackURI:    track.URI,
		TrackName:   track.Name,
		AlbumName:   track.Album.Name,
		AlbumURI:    track.Album.URI,
		ReleaseDate: track.Album.ReleaseDate,
		DurationMS:  track.DurationMS,
		Popularity:  track.Popularity,
		AddedBy:     item.AddedBy.ID,
		AddedAt:     item.AddedAt,
		ISRC:        track.ExternalIDs.ISRC,
	}

	for _, artist := range track.Artists {
		if artist.Name != "" {
			record.ArtistNames = append(record.ArtistNames, artist.Name)
		}
		if artist.URI != "" {
			record.ArtistURIs = append(record.ArtistURIs, artist.URI)
		}
	}

	if album, ok := albums[track.Album.ID]; ok {
		record.AlbumName = album.Name
		record.AlbumURI = album.URI
		record.Label = album.Label
		record.UPC = album.ExternalIDs.UPC
		if album.ReleaseDate != "" {
			record.ReleaseDate = album.ReleaseDate
		}
	}

	// Podcast episodes carry their release date on the track itself.
	if record.ReleaseDate == "" && track.ReleaseDate != "" {
		record.ReleaseDate = track.ReleaseDate
	}

	return record
}

func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
		// Channel full, skip this update rather than block the pipeline.
	}
}
