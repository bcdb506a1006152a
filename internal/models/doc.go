// Package models defines the domain entities flowing through the export pipeline.
//
// The types here are plain data carriers, created once per run and discarded
// at exit:
//   - [PlaylistHandle] : a resolved reference to one playlist (real or the
//     liked-songs pseudo-playlist) sufficient to fetch its tracks
//   - [TrackRecord] : one normalized track-in-playlist occurrence
//   - [ExportTarget] : a handle plus the output formats requested for it
//
// Identity for handles and targets is the playlist ID. The liked-songs
// collection has no real playlist ID upstream, so it is represented with the
// reserved [LikedSongsID] sentinel, which is short enough to never collide
// with a real 22-character Spotify playlist ID.
package models
