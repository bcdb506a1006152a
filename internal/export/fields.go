package export

import (
	"fmt"
	"strings"

	"github.com/donmerendolo/exportify-cli/internal/models"
	"github.com/donmerendolo/exportify-cli/internal/shared"
)

// SentinelSortKey selects upstream arrival order, i.e. "no resort".
const SentinelSortKey = "spotify_default"

// Field is one output column: its canonical header name, the extractor that
// pulls its value out of a record, and whether resolving it needs a full
// album detail fetch. Extractors return nil for blank values; a record whose
// upstream track was removed yields nil for everything except Position.
type Field struct {
	Name        string
	Value       func(r models.TrackRecord) any
	needsAlbum  bool
	uriField    bool
	externalIDs bool
}

// FieldSet is the ordered list of columns for one run, fixed before any
// sorting or writing begins.
type FieldSet []Field

// canonicalFields lists every known column in canonical order, position
// first. The URI and external-ID columns are included only when their flags
// are set.
var canonicalFields = []Field{
	{Name: "Position", Value: func(r models.TrackRecord) any { return r.Position }},
	{Name: "Track URI", Value: stringField(func(r models.TrackRecord) string { return r.TrackURI })},
	{Name: "Artist URI(s)", uriField: true, Value: listField(func(r models.TrackRecord) []string { return r.ArtistURIs })},
	{Name: "Album URI", uriField: true, Value: stringField(func(r models.TrackRecord) string { return r.AlbumURI })},
	{Name: "Track Name", Value: stringField(func(r models.TrackRecord) string { return r.TrackName })},
	{Name: "Album Name", Value: stringField(func(r models.TrackRecord) string { return r.AlbumName })},
	{Name: "Artist Name(s)", Value: listField(func(r models.TrackRecord) []string { return r.ArtistNames })},
	{Name: "Release Date", Value: stringField(func(r models.TrackRecord) string { return r.ReleaseDate })},
	{Name: "Duration_ms", Value: intField(func(r models.TrackRecord) int { return r.DurationMS })},
	{Name: "Popularity", Value: func(r models.TrackRecord) any {
		if r.Missing || r.Popularity == nil {
			return nil
		}
		return *r.Popularity
	}},
	{Name: "Added By", Value: stringField(func(r models.TrackRecord) string { return r.AddedBy })},
	{Name: "Added At", Value: stringField(func(r models.TrackRecord) string { return r.AddedAt })},
	{Name: "Record Label", needsAlbum: true, Value: stringField(func(r models.TrackRecord) string { return r.Label })},
	{Name: "Track ISRC", externalIDs: true, Value: stringField(func(r models.TrackRecord) string { return r.ISRC })},
	{Name: "Album UPC", needsAlbum: true, externalIDs: true, Value: stringField(func(r models.TrackRecord) string { return r.UPC })},
}

func stringField(get func(models.TrackRecord) string) func(models.TrackRecord) any {
	return func(r models.TrackRecord) any {
		if r.Missing {
			return nil
		}
		if v := get(r); v != "" {
			return v
		}
		return nil
	}
}

func listField(get func(models.TrackRecord) []string) func(models.TrackRecord) any {
	return func(r models.TrackRecord) any {
		if r.Missing {
			return nil
		}
		if v := get(r); len(v) > 0 {
			return v
		}
		return nil
	}
}

func intField(get func(models.TrackRecord) int) func(models.TrackRecord) any {
	return func(r models.TrackRecord) any {
		if r.Missing {
			return nil
		}
		return get(r)
	}
}

// BuildFieldSet constructs the column set for a run from the resolved
// options, preserving canonical order.
func BuildFieldSet(opts shared.Options) FieldSet {
	fields := make(FieldSet, 0, len(canonicalFields))
	for _, f := range canonicalFields {
		if f.uriField && !opts.IncludeURIs {
			continue
		}
		if f.externalIDs && !opts.IncludeExternalIDs {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

// Names returns the column headers in order.
func (fs FieldSet) Names() []string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.Name
	}
	return names
}

// NeedsAlbumDetail reports whether any included column requires the full
// album object (record label, UPC) rather than the simplified album embedded
// in track listings.
func (fs FieldSet) NeedsAlbumDetail() bool {
	for _, f := range fs {
		if f.needsAlbum {
			return true
		}
	}
	return false
}

// normalizeKey strips case, spaces, underscores, and parentheses so users can
// write "track name", "Track_Name", or "trackname" interchangeably.
func normalizeKey(key string) string {
	replacer := strings.NewReplacer(" ", "", "_", "", "(", "", ")", "")
	return replacer.Replace(strings.ToLower(key))
}

// ResolveSortKey maps a user-supplied sort key to a column index in the set.
// The sentinel key returns index -1. A key naming a known but excluded
// column, or no column at all, is a configuration error.
func (fs FieldSet) ResolveSortKey(key string) (int, error) {
	if normalizeKey(key) == normalizeKey(SentinelSortKey) {
		return -1, nil
	}

	for i, f := range fs {
		if normalizeKey(f.Name) == normalizeKey(key) {
			return i, nil
		}
	}

	for _, f := range canonicalFields {
		if normalizeKey(f.Name) == normalizeKey(key) {
			return 0, fmt.Errorf("%w: %q is excluded by the current flags", shared.ErrInvalidSortKey, key)
		}
	}

	return 0, fmt.Errorf("%w: %q (available: %s, %s)", shared.ErrInvalidSortKey, key,
		strings.Join(fs.Names(), ", "), SentinelSortKey)
}
