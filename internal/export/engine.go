package export

import (
	"context"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/donmerendolo/exportify-cli/internal/models"
	"github.com/donmerendolo/exportify-cli/internal/shared"
	"github.com/donmerendolo/exportify-cli/internal/spotify"
)

// Engine drives the export pipeline across resolved targets.
//
// Targets are independent units of work: the engine fans them out to a
// bounded worker pool, records per-target failures, and always attempts every
// remaining target.
type Engine struct {
	resolver   *Resolver
	aggregator *Aggregator
	fields     FieldSet
	opts       shared.Options
	logger     *log.Logger
}

// TargetFailure records a target that could not be resolved.
type TargetFailure struct {
	Token string
	Err   error
}

// TargetResult records the outcome for one export target.
type TargetResult struct {
	Handle   models.PlaylistHandle
	Files    []string
	Tracks   int
	Warnings []string
	Err      error

	index int
}

// RunResult summarizes one export run.
type RunResult struct {
	Results        []TargetResult
	Succeeded      int
	Failed         int
	ExportedTracks int
}

// NewEngine builds an Engine for one run. The sort key is validated against
// the field set here, before any network call, since an invalid key is fatal
// to the whole invocation.
func NewEngine(catalog Catalog, albums AlbumSource, opts shared.Options, logger *log.Logger) (*Engine, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	fields := BuildFieldSet(opts)
	if _, err := fields.ResolveSortKey(opts.SortKey); err != nil {
		return nil, err
	}

	return &Engine{
		resolver:   NewResolver(catalog, logger),
		aggregator: NewAggregator(catalog, albums, logger),
		fields:     fields,
		opts:       opts,
		logger:     logger,
	}, nil
}

// Resolver exposes the engine's resolver for list mode.
func (e *Engine) Resolver() *Resolver {
	return e.resolver
}

// Account returns the authenticated user's profile.
func (e *Engine) Account(ctx context.Context) (*spotify.User, error) {
	return e.resolver.catalog.Me(ctx)
}

// Fields exposes the resolved column set.
func (e *Engine) Fields() FieldSet {
	return e.fields
}

// ResolveTargets maps the CLI's target selection to concrete export targets.
// Per-token resolution failures are collected, not fatal; an error return
// means the library listing itself could not be fetched.
func (e *Engine) ResolveTargets(ctx context.Context, all bool, playlists, users []string) ([]models.ExportTarget, []TargetFailure, error) {
	var handles []models.PlaylistHandle
	var failures []TargetFailure

	if all {
		resolved, err := e.resolver.ResolveAll(ctx)
		if err != nil {
			return nil, nil, err
		}
		handles = resolved
	}

	for _, token := range playlists {
		handle, err := e.resolver.Resolve(ctx, token)
		if err != nil {
			failures = append(failures, TargetFailure{Token: token, Err: err})
			continue
		}
		handles = append(handles, handle)
	}

	for _, userID := range users {
		resolved, err := e.resolver.ResolveUser(ctx, userID)
		if err != nil {
			failures = append(failures, TargetFailure{Token: userID, Err: err})
			continue
		}
		handles = append(handles, resolved...)
	}

	seen := map[string]bool{}
	targets := make([]models.ExportTarget, 0, len(handles))
	for _, h := range handles {
		if seen[h.ID] {
			continue
		}
		seen[h.ID] = true
		targets = append(targets, models.ExportTarget{
			Handle:  h,
			Formats: append([]string(nil), e.opts.Formats...),
		})
	}

	return targets, failures, nil
}

// Export processes every target through aggregation, projection, and file
// writing. One target's failure never prevents attempting the rest.
func (e *Engine) Export(ctx context.Context, targets []models.ExportTarget, progress chan<- ProgressUpdate) *RunResult {
	result := &RunResult{}
	if len(targets) == 0 {
		return result
	}

	basenames := disambiguateBasenames(targets)

	workers := e.opts.Workers
	if workers <= 0 {
		workers = 3
	}
	if workers > 10 {
		workers = 10
	}
	if workers > len(targets) {
		workers = len(targets)
	}

	jobs := make(chan int, len(targets))
	results := make(chan TargetResult, len(targets))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				select {
				case <-ctx.Done():
					results <- TargetResult{Handle: targets[idx].Handle, Err: ctx.Err(), index: idx}
					continue
				default:
				}
				results <- e.exportOne(ctx, idx, targets[idx], basenames[idx], progress)
			}
		}()
	}

	for i := range targets {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		if res.Err != nil {
			result.Failed++
			sendProgress(progress, targetFailedUpdate(res.Handle.Name, completed, len(targets), res.Err))
		} else {
			result.Succeeded++
			result.ExportedTracks += res.Tracks
			sendProgress(progress, targetDoneUpdate(res.Handle.Name, completed, len(targets), res.Tracks))
		}
		result.Results = append(result.Results, res)
	}

	sort.Slice(result.Results, func(i, j int) bool {
		return result.Results[i].index < result.Results[j].index
	})

	return result
}

// exportOne runs the pipeline for a single target.
func (e *Engine) exportOne(ctx context.Context, idx int, target models.ExportTarget, base string, progress chan<- ProgressUpdate) TargetResult {
	res := TargetResult{Handle: target.Handle, index: idx}

	aggregated, err := e.aggregator.Aggregate(ctx, target.Handle, e.fields, progress)
	if err != nil {
		res.Err = err
		return res
	}
	res.Warnings = aggregated.Warnings
	res.Tracks = len(aggregated.Records)

	rows, err := Project(aggregated.Records, e.fields, e.opts.SortKey, e.opts.Reverse)
	if err != nil {
		res.Err = err
		return res
	}

	sendProgress(progress, writeFilesUpdate(target.Handle.Name, base))
	files, err := WriteTargetFiles(rows, e.fields, e.opts.OutputDir, base, target.Formats)
	res.Files = files
	if err != nil {
		res.Err = err
		return res
	}

	for _, file := range files {
		e.logger.Info("exported", "playlist", target.Handle.Name, "tracks", res.Tracks, "file", file)
	}
	return res
}

// disambiguateBasenames assigns each target a distinct base filename. When
// two differently-IDed playlists share a sanitized display name, every
// collider gets a short ID suffix so neither overwrites the other.
func disambiguateBasenames(targets []models.ExportTarget) []string {
	counts := map[string]int{}
	bases := make([]string, len(targets))
	for i, t := range targets {
		bases[i] = FileBaseName(t.Handle.Name)
		counts[bases[i]]++
	}

	for i, t := range targets {
		if counts[bases[i]] > 1 {
			bases[i] = bases[i] + "_" + shortID(t.Handle.ID)
		}
	}
	return bases
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
