package export

import "fmt"

// ProgressUpdate represents a progress event during an export run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Target  string // Playlist name the update belongs to, if any
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	ResolveTargets Phase = iota
	FetchTracks
	FetchAlbums
	WriteFiles
	TargetDone
	TargetFailed
)

func (p Phase) String() string {
	switch p {
	case ResolveTargets:
		return "resolve_targets"
	case FetchTracks:
		return "fetch_tracks"
	case FetchAlbums:
		return "fetch_albums"
	case WriteFiles:
		return "write_files"
	case TargetDone:
		return "target_done"
	case TargetFailed:
		return "target_failed"
	default:
		return ""
	}
}

func fetchTracksUpdate(name string, fetched, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Target:  name,
		Step:    fetched,
		Total:   total,
		Message: fmt.Sprintf("%s: %d/%d tracks", name, fetched, total),
	}
}

func fetchAlbumsUpdate(name string, fetched, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchAlbums,
		Target:  name,
		Step:    fetched,
		Total:   total,
		Message: fmt.Sprintf("Fetching album details: %d/%d", fetched, total),
	}
}

func writeFilesUpdate(name, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteFiles,
		Target:  name,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing %s", path),
	}
}

func targetDoneUpdate(name string, step, total, tracks int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   TargetDone,
		Target:  name,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d tracks)", step, total, name, tracks),
	}
}

func targetFailedUpdate(name string, step, total int, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   TargetFailed,
		Target:  name,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
