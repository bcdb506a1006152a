// Package export implements the playlist resolution and data-flattening
// pipeline.
//
// The pipeline runs strictly downward:
//
//	Engine → Resolver → Aggregator → Project → write files
//
// with the [Catalog] (the Spotify client) invoked from the Resolver and the
// Aggregator. The [Engine] fans resolved targets out to a bounded worker
// pool and isolates per-target failures so one broken playlist never aborts
// its siblings. Progress is reported through a channel of [ProgressUpdate]
// values with non-blocking sends, so display layers can never stall the data
// path.
package export
